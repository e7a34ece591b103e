// Package watch re-runs a transform on component files as they change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/sfcfix/pkg/document"
	"github.com/gnana997/sfcfix/pkg/scanner"
	"github.com/gnana997/sfcfix/pkg/transform"
)

// DefaultDebounce is the quiet period after the last event for a file before
// the transform runs.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Scan     scanner.ScanConfig
	DryRun   bool
	// OnResult, if set, is called after every run with the outcome.
	OnResult func(Result)
}

// Result is the outcome of one debounced run.
type Result struct {
	FilePath string
	Changed  bool
	Err      error
}

// Watcher runs a transform handler on every matching file that is written
// or created under a root directory. Rapid events for one file collapse into
// a single run, and runs for the same file never overlap. The rewrite a run
// performs raises its own event; the follow-up run finds nothing to change.
type Watcher struct {
	watcher *fsnotify.Watcher
	handler transform.Handler
	opts    Options
	logger  *slog.Logger
	root    string

	ctx    context.Context
	cancel context.CancelFunc

	timers  map[string]*time.Timer
	running map[string]*pathLock
	runs    sync.WaitGroup
	timerMu sync.Mutex

	stopped bool
	mu      sync.Mutex
}

// New creates a watcher. Start must be called to begin watching.
func New(handler transform.Handler, opts Options, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Scan.Include) == 0 && len(opts.Scan.Exclude) == 0 {
		opts.Scan = scanner.DefaultScanConfig()
	}

	return &Watcher{
		watcher: w,
		handler: handler,
		opts:    opts,
		logger:  logger,
		timers:  make(map[string]*time.Timer),
		running: make(map[string]*pathLock),
	}, nil
}

// Start watches rootPath and every non-excluded directory below it. Events
// are processed in the background until ctx is done or Stop is called.
func (fw *Watcher) Start(ctx context.Context, rootPath string) error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	fw.mu.Unlock()

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", rootPath, err)
	}
	fw.root = root
	fw.ctx, fw.cancel = context.WithCancel(ctx)

	if err := fw.addTree(root); err != nil {
		return err
	}

	fw.logger.Info("file watcher started", "root", root)
	go fw.eventLoop()
	return nil
}

func (fw *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != fw.root && fw.excludedDir(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			fw.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops watching and waits for in-flight runs. Safe to call more than once.
func (fw *Watcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	fw.mu.Unlock()

	if fw.cancel != nil {
		fw.cancel()
	}

	fw.timerMu.Lock()
	for path, timer := range fw.timers {
		if timer.Stop() {
			fw.runs.Done()
		}
		delete(fw.timers, path)
	}
	fw.timerMu.Unlock()

	err := fw.watcher.Close()
	fw.runs.Wait()
	fw.logger.Info("file watcher stopped")
	return err
}

func (fw *Watcher) eventLoop() {
	for {
		select {
		case <-fw.ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if !fw.excludedDir(event.Name) {
			if err := fw.addTree(event.Name); err != nil {
				fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
		return
	}

	rel, err := filepath.Rel(fw.root, event.Name)
	if err != nil || !scanner.Matches(fw.opts.Scan, rel) {
		return
	}

	fw.logger.Debug("file event", "op", event.Op.String(), "file", event.Name)
	fw.schedule(event.Name)
}

// schedule (re)starts the debounce timer for path.
func (fw *Watcher) schedule(path string) {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.ctx.Err() != nil {
		return
	}

	// A timer that already fired finishes its own run.
	if prev, ok := fw.timers[path]; ok && prev.Stop() {
		fw.runs.Done()
	}

	fw.runs.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(fw.opts.Debounce, func() {
		defer fw.runs.Done()

		fw.timerMu.Lock()
		if fw.timers[path] == timer {
			delete(fw.timers, path)
		}
		lock, ok := fw.running[path]
		if !ok {
			lock = &pathLock{}
			fw.running[path] = lock
		}
		lock.refs++
		fw.timerMu.Unlock()

		lock.Lock()
		if fw.ctx.Err() == nil {
			fw.run(path)
		}
		lock.Unlock()

		fw.timerMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(fw.running, path)
		}
		fw.timerMu.Unlock()
	})
	fw.timers[path] = timer
}

func (fw *Watcher) run(path string) {
	res := Result{FilePath: path}

	f, err := document.OpenFile(path, fw.logger)
	if err != nil {
		res.Err = err
	} else {
		f.DryRun = fw.opts.DryRun
		res.Err = fw.handler(fw.ctx, document.StaticHost{Doc: f})
		res.Changed = f.Changed()
	}

	if res.Err != nil {
		fw.logger.Warn("transform failed", "file", path, "error", res.Err)
	} else if res.Changed {
		fw.logger.Info("file updated", "file", path, "dry_run", fw.opts.DryRun)
	}
	if fw.opts.OnResult != nil {
		fw.opts.OnResult(res)
	}
}

func (fw *Watcher) excludedDir(path string) bool {
	rel, err := filepath.Rel(fw.root, path)
	if err != nil {
		return false
	}
	return scanner.ExcludedDir(fw.opts.Scan, rel)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Stats returns watcher statistics.
func (fw *Watcher) Stats() Stats {
	fw.timerMu.Lock()
	pending, active := len(fw.timers), len(fw.running)
	fw.timerMu.Unlock()

	fw.mu.Lock()
	defer fw.mu.Unlock()
	return Stats{Pending: pending, Active: active, Running: !fw.stopped && fw.ctx != nil}
}

// Stats contains watcher statistics.
type Stats struct {
	Pending int
	// Active counts files with a run in progress or waiting for one.
	Active  int
	Running bool
}

// pathLock serializes runs for one file. refs counts the runs holding or
// waiting for it; the entry is dropped when it reaches zero.
type pathLock struct {
	sync.Mutex
	refs int
}
