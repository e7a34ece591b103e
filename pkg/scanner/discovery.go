package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverFiles walks rootDir applying include/exclude globs from cfg.
// Returns a sorted slice of absolute file paths for deterministic output.
func DiscoverFiles(rootDir string, cfg ScanConfig) ([]string, error) {
	if err := validatePatterns(cfg); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue walking on errors.
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath != "." && ExcludedDir(cfg, relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !Matches(cfg, relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ResolveTargets expands command-line arguments into component files. A
// directory is walked with DiscoverFiles; a file is taken as given, whatever
// its extension. Duplicates are dropped and the result is sorted.
func ResolveTargets(args []string, cfg ScanConfig) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
			}
			add(abs)
			continue
		}

		files, err := DiscoverFiles(arg, cfg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}

	sort.Strings(out)
	return out, nil
}

// Matches reports whether a path relative to the scan root passes the include
// and exclude globs. The watcher uses it to filter change events.
func Matches(cfg ScanConfig, relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	return !isExcluded(cfg, relPath) && isIncluded(cfg, relPath)
}

func validatePatterns(cfg ScanConfig) error {
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

func isExcluded(cfg ScanConfig, relPath string) bool {
	for _, pattern := range cfg.Exclude {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

func isIncluded(cfg ScanConfig, relPath string) bool {
	if len(cfg.Include) == 0 {
		return true
	}
	for _, pattern := range cfg.Include {
		if m, _ := doublestar.Match(pattern, relPath); m {
			return true
		}
	}
	return false
}

// ExcludedDir reports whether every path below the directory relPath is
// excluded, so a walker or watcher can skip it entirely.
func ExcludedDir(cfg ScanConfig, relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	return isExcluded(cfg, relPath) || isExcluded(cfg, relPath+"/_")
}
