package main

import (
	"context"
	"fmt"

	mcpserver "github.com/gnana997/sfcfix/pkg/mcp"
	"github.com/gnana997/sfcfix/pkg/mcplog"
	"github.com/gnana997/sfcfix/pkg/watch"
)

// runServe starts the MCP server on stdio. Nothing but protocol traffic may
// go to stdout.
func (a *app) runServe() error {
	toolLog, err := mcplog.NewLogger(a.logFile())
	if err != nil {
		return err
	}
	if toolLog != nil {
		defer toolLog.Close()
	}

	mcpserver.Version = version
	srv, err := mcpserver.NewServer(a.migrator, toolLog)
	if err != nil {
		return err
	}
	a.logger.Info("serving MCP on stdio", "log_file", a.logFile())
	return srv.ServeStdio()
}

// runWatch re-runs a command on every changed component under root until
// ctx is cancelled.
func (a *app) runWatch(ctx context.Context, name, root string) error {
	cmd, err := a.resolveCommand(name)
	if err != nil {
		return err
	}

	verb := "rewrote"
	if a.opts.dryRun {
		verb = "would rewrite"
	}
	w, err := watch.New(cmd.Handler, watch.Options{
		Scan:   a.project.scanConfig(),
		DryRun: a.opts.dryRun,
		OnResult: func(r watch.Result) {
			switch {
			case r.Err != nil:
				fmt.Fprintf(a.stderr, "%s: %v\n", r.FilePath, r.Err)
			case r.Changed:
				fmt.Fprintf(a.stdout, "%s %s\n", verb, r.FilePath)
			}
		},
	}, a.logger)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, root); err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "watching %s for %s (Ctrl-C to stop)\n", root, cmd.ID)

	<-ctx.Done()
	return w.Stop()
}
