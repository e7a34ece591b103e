package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gnana997/sfcfix/pkg/batch"
	"github.com/gnana997/sfcfix/pkg/document"
	"github.com/gnana997/sfcfix/pkg/scanner"
	"github.com/gnana997/sfcfix/pkg/transform"
)

// commandAliases maps the short subcommand names to command IDs.
var commandAliases = map[string]string{
	"imports": transform.CleanupComponentsID,
	"convert": transform.ConvertToTypeScriptID,
}

// resolveCommand finds the handler for a short name or a full command ID.
func (a *app) resolveCommand(name string) (transform.Command, error) {
	registry, err := transform.Activate(a.migrator)
	if err != nil {
		return transform.Command{}, err
	}
	defer registry.Dispose()

	if id, ok := commandAliases[name]; ok {
		name = id
	}
	cmd, ok := registry.Lookup(name)
	if !ok {
		var ids []string
		for _, c := range registry.Commands() {
			ids = append(ids, c.ID)
		}
		return transform.Command{}, fmt.Errorf("%w: %s (available: imports, convert, %s)",
			transform.ErrUnknownCommand, name, strings.Join(ids, ", "))
	}
	return cmd, nil
}

// runRewrite applies one command to every target file. Paths default to the
// working directory.
func (a *app) runRewrite(ctx context.Context, name string, paths []string) error {
	cmd, err := a.resolveCommand(name)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := scanner.ResolveTargets(paths, a.project.scanConfig())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(a.stderr, "no component files found")
		return nil
	}

	opts := batch.Options{
		Workers: a.workers(),
		DryRun:  a.opts.dryRun,
	}
	if a.opts.interactive {
		opts.Wrap = func(f *document.File) document.Document {
			return &confirmDocument{File: f, confirm: surveyConfirm, out: a.stderr}
		}
	}

	a.logger.Info("running command", "command", cmd.ID, "files", len(files))
	summary, err := batch.Run(ctx, files, cmd.Handler, opts, a.logger)

	for _, r := range summary.Results {
		if !r.Changed {
			continue
		}
		if a.opts.dryRun {
			fmt.Fprintf(a.stdout, "==> %s <==\n%s", r.FilePath, r.After)
			if !strings.HasSuffix(r.After, "\n") {
				fmt.Fprintln(a.stdout)
			}
			continue
		}
		fmt.Fprintf(a.stdout, "rewrote %s\n", r.FilePath)
	}
	for _, e := range summary.Errors {
		fmt.Fprintf(a.stderr, "%s: %v\n", e.FilePath, e.Error)
	}

	if err != nil {
		return err
	}
	if len(summary.Errors) > 0 {
		return fmt.Errorf("%d of %d files failed", len(summary.Errors), len(files))
	}
	return nil
}
