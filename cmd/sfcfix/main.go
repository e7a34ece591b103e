package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	switch command {
	case "version":
		fmt.Fprintf(stdout, "sfcfix %s\n", version)
		return 0
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	case "imports", "convert", "run", "scan", "watch", "serve":
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	opts, rest, err := parseFlags(command, args[1:], stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	a, err := newApp(opts, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer a.Close()

	switch command {
	case "imports", "convert":
		err = a.runRewrite(ctx, command, rest)
	case "run":
		if len(rest) == 0 {
			fmt.Fprintln(stderr, "usage: sfcfix run [flags] <command-id> [path...]")
			return 1
		}
		err = a.runRewrite(ctx, rest[0], rest[1:])
	case "scan":
		err = a.runScan(rest)
	case "watch":
		if len(rest) == 0 {
			fmt.Fprintln(stderr, "usage: sfcfix watch [flags] <imports|convert|command-id> [dir]")
			return 1
		}
		root := "."
		if len(rest) > 1 {
			root = rest[1]
		}
		err = a.runWatch(ctx, rest[0], root)
	case "serve":
		err = a.runServe()
	}

	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sfcfix <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  imports [path...]            Add missing component imports")
	fmt.Fprintln(w, "  convert [path...]            Convert props and emits to TypeScript")
	fmt.Fprintln(w, "  run <command-id> [path...]   Run a command by its full ID")
	fmt.Fprintln(w, "  scan [path...]               Report tags, imports and declaration blocks")
	fmt.Fprintln(w, "  watch <command> [dir]        Re-run a command on every changed file")
	fmt.Fprintln(w, "  serve                        Start MCP server on stdio")
	fmt.Fprintln(w, "  version                      Print version")
	fmt.Fprintln(w, "  help                         Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags (before arguments):")
	fmt.Fprintln(w, "  --config <file>      config file (default "+defaultConfigPath+", or $"+envConfig+")")
	fmt.Fprintln(w, "  --dry-run            print rewritten files instead of writing them")
	fmt.Fprintln(w, "  --interactive        confirm every file before it is rewritten")
	fmt.Fprintln(w, "  --workers <n>        files processed in parallel")
	fmt.Fprintln(w, "  --no-verify          skip syntax checks of generated declarations")
	fmt.Fprintln(w, "  --log-level <level>  debug, info, warn or error")
	fmt.Fprintln(w, "  --log-format <fmt>   text or json")
	fmt.Fprintln(w, "  --log-file <file>    JSONL log of MCP tool calls (serve)")
	fmt.Fprintln(w, "  --json               JSON output (scan)")
}
