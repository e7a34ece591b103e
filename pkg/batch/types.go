// Package batch runs a transform over many component files with a bounded
// pool of workers. Each file is one job, so no file is touched by two
// workers at once.
package batch

import (
	"github.com/gnana997/sfcfix/pkg/document"
)

// FileJob is one file to process.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileResult is the outcome of a processed file.
type FileResult struct {
	FilePath string
	JobID    int
	// Changed is true when the transform produced a different text.
	Changed bool
	// Before and After hold the text around the transform; After equals
	// Before when nothing changed.
	Before string
	After  string
}

// FileError represents an error that occurred while processing a file.
type FileError struct {
	FilePath string
	Error    error
}

// Options configures a batch run.
type Options struct {
	// Workers is the number of goroutines; 0 picks a CPU-based default.
	Workers int
	// DryRun computes results without writing files.
	DryRun bool
	// Wrap, if set, decorates each opened file before the transform sees
	// it. The interactive CLI mode uses it to ask before applying.
	Wrap func(*document.File) document.Document
	// Progress, if set, is called after every finished job.
	Progress ProgressCallback
}

// ProgressCallback receives the number of finished jobs and the total.
type ProgressCallback func(done, total int)

// Summary aggregates a batch run.
type Summary struct {
	Results []FileResult
	Errors  []FileError
	Changed int
}
