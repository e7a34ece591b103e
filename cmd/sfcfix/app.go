package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/gnana997/sfcfix/pkg/parser"
	"github.com/gnana997/sfcfix/pkg/transform"
	"github.com/gnana997/sfcfix/pkg/util"
)

// cliOptions are the flags shared by every subcommand.
type cliOptions struct {
	configPath  string
	dryRun      bool
	interactive bool
	workers     int
	noVerify    bool
	logLevel    string
	logFormat   string
	logFile     string
	json        bool
}

func parseFlags(name string, args []string, stderr io.Writer) (*cliOptions, []string, error) {
	opts := &cliOptions{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file (default "+defaultConfigPath+")")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "print rewritten files instead of writing them")
	fs.BoolVar(&opts.interactive, "interactive", false, "confirm every file before it is rewritten")
	fs.IntVar(&opts.workers, "workers", 0, "number of files processed in parallel (0 = CPU count)")
	fs.BoolVar(&opts.noVerify, "no-verify", false, "skip syntax checks of generated declarations")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&opts.logFormat, "log-format", "", "text or json")
	fs.StringVar(&opts.logFile, "log-file", "", "JSONL log of MCP tool calls (serve only)")
	fs.BoolVar(&opts.json, "json", false, "print scan reports as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs.Args(), nil
}

// app is the state a subcommand runs with: resolved config, logger and
// migrator.
type app struct {
	opts     *cliOptions
	project  *ProjectConfig
	logger   *slog.Logger
	migrator *transform.Migrator
	parsers  *parser.ParserManager // nil when verification is off
	stdout   io.Writer
	stderr   io.Writer
}

func newApp(opts *cliOptions, stdout, stderr io.Writer) (*app, error) {
	if err := loadEnv(); err != nil {
		return nil, err
	}

	configPath := resolveConfigPath(opts.configPath)
	project, err := loadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(opts, project, stderr)
	if err != nil {
		return nil, err
	}
	if project != nil {
		logger.Debug("config loaded", "path", configPath)
	}

	a := &app{
		opts:    opts,
		project: project,
		logger:  logger,
		stdout:  stdout,
		stderr:  stderr,
	}

	migratorOpts := []transform.Option{transform.WithLogger(logger)}
	if !opts.noVerify && project.verify() {
		a.parsers = parser.NewParserManager(logger, a.workers())
		migratorOpts = append(migratorOpts, transform.WithVerifier(parser.NewVerifier(a.parsers, logger)))
	}
	a.migrator = transform.NewMigrator(project.migratorConfig(), migratorOpts...)
	return a, nil
}

func newLogger(opts *cliOptions, project *ProjectConfig, stderr io.Writer) (*slog.Logger, error) {
	var fileLevel, fileFormat string
	if project != nil {
		fileLevel, fileFormat = project.LogLevel, project.LogFormat
	}

	cfg := util.DefaultLoggerConfig()
	cfg.Output = stderr

	levelName := resolveString(opts.logLevel, envLogLevel, fileLevel, string(cfg.Level))
	level, ok := util.ParseLogLevel(levelName)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", levelName)
	}
	cfg.Level = level

	formatName := resolveString(opts.logFormat, envLogFormat, fileFormat, string(cfg.Format))
	format, ok := util.ParseLogFormat(formatName)
	if !ok {
		return nil, fmt.Errorf("unknown log format %q", formatName)
	}
	cfg.Format = format

	return util.NewLogger(cfg), nil
}

// workers resolves the worker count: flag, then config, then 0 (CPU-based).
// Interactive runs ask one file at a time.
func (a *app) workers() int {
	if a.opts.interactive {
		return 1
	}
	if a.opts.workers > 0 {
		return a.opts.workers
	}
	return a.project.workers()
}

func (a *app) logFile() string {
	var fileValue string
	if a.project != nil {
		fileValue = a.project.LogFile
	}
	return resolveString(a.opts.logFile, "", fileValue, "")
}

func (a *app) Close() {
	if a.parsers != nil {
		a.parsers.Close()
	}
}
