package batch

import (
	"context"
	"log/slog"
	"sort"

	"github.com/gnana997/sfcfix/pkg/transform"
)

// Run applies handler to every file and waits for all of them. Per-file
// failures are collected in the summary; the returned error is the context's,
// set when the run was cancelled and some files may not have been processed.
func Run(ctx context.Context, files []string, handler transform.Handler, opts Options, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool := NewWorkerPool(handler, opts, logger)
	pool.Start(ctx)

	go func() {
		defer pool.FinishSubmitting()
		for i, f := range files {
			if err := pool.Submit(FileJob{FilePath: f, JobID: i}); err != nil {
				logger.Debug("stopped queueing files", "error", err)
				return
			}
		}
	}()

	var summary Summary
	results, errs := pool.Results(), pool.Errors()
	done := 0
	for results != nil || errs != nil {
		select {
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			summary.Results = append(summary.Results, r)
			if r.Changed {
				summary.Changed++
			}
		case e, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			summary.Errors = append(summary.Errors, e)
		}
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(files))
		}
	}
	pool.Wait()

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].JobID < summary.Results[j].JobID
	})
	sort.Slice(summary.Errors, func(i, j int) bool {
		return summary.Errors[i].FilePath < summary.Errors[j].FilePath
	})

	stats := pool.Stats()
	logger.Info("batch finished",
		"files", len(files),
		"processed", stats.JobsProcessed,
		"changed", summary.Changed,
		"failed", stats.JobsFailed)

	return summary, ctx.Err()
}
