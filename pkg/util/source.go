package util

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ReadSource returns the full contents of a component file.
//
// The file is memory-mapped read-only and copied out before the mapping is
// released, so the caller may rewrite the file afterwards. When mmap is not
// available (special files, some network mounts) it falls back to os.ReadFile.
func ReadSource(filePath string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %q: %w", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}
	if stat.IsDir() {
		return "", fmt.Errorf("%q is a directory", filePath)
	}

	// Can't mmap zero bytes
	if stat.Size() == 0 {
		return "", nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		logger.Debug("mmap failed, using fallback", "file", filePath, "error", err)

		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return "", fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				filePath, err, readErr)
		}
		return string(raw), nil
	}

	text := string(data)
	if err := data.Unmap(); err != nil {
		logger.Warn("failed to unmap file", "file", filePath, "error", err)
	}
	return text, nil
}
