package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnana997/sfcfix/pkg/util"
)

// File is a Document backed by a component file on disk.
//
// The text is read once when the File is opened. Apply writes the result to a
// temporary file in the same directory and renames it over the original, so a
// reader never sees a half-written component. With DryRun set, Apply only
// updates the in-memory text.
type File struct {
	Path   string
	DryRun bool

	text    string
	changed bool
	logger  *slog.Logger
}

// OpenFile reads path into a new File.
func OpenFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}
	text, err := util.ReadSource(path, logger)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, text: text, logger: logger}, nil
}

// Text returns the current contents.
func (f *File) Text() string {
	return f.text
}

// Changed reports whether any batch has modified the text.
func (f *File) Changed() bool {
	return f.changed
}

// Apply implements Document. An empty batch does not touch the file.
func (f *File) Apply(ctx context.Context, edits []Edit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(edits) == 0 {
		return nil
	}

	next, err := ApplyEdits(f.text, edits)
	if err != nil {
		return fmt.Errorf("%s: %w", f.Path, err)
	}
	if next == f.text {
		return nil
	}

	if !f.DryRun {
		if err := writeAtomic(f.Path, []byte(next)); err != nil {
			return err
		}
		f.logger.Info("file rewritten", "file", f.Path, "edits", len(edits))
	}

	f.text = next
	f.changed = true
	return nil
}

func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %q: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set mode on %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}
