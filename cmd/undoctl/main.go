// Package main is the entry point for undoctl, which runs Lua scripts
// against an undo registry or tree and prints the resulting history.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/undoctx/internal/app"
	"github.com/dshills/undoctx/internal/config"
	"github.com/dshills/undoctx/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app      app.Options
	watch    bool
	debounce time.Duration
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts.app)
	if err != nil {
		if config.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: config file %s not found\n", opts.app.ConfigPath)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.watch {
		err = application.Watch(ctx, opts.debounce)
	} else {
		err = application.RunOnce(ctx)
	}
	return exitCode(err)
}

// exitCode maps a run result to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 130
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.app.Mode, "mode", "", "Coordinator mode (registry, tree)")
	flag.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.app.Strict, "strict", false, "Panic on calls from a non-owning goroutine")
	flag.BoolVar(&opts.watch, "watch", false, "Re-run the script whenever it changes")
	flag.BoolVar(&opts.watch, "w", false, "Re-run the script whenever it changes (shorthand)")
	flag.DurationVar(&opts.debounce, "debounce", 100*time.Millisecond, "Quiet period before re-running in watch mode")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "undoctl - run undo/redo scripts\n\n")
		fmt.Fprintf(os.Stderr, "Usage: undoctl [options] script.lua\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  undoctl edits.lua                 Run against a flat registry\n")
		fmt.Fprintf(os.Stderr, "  undoctl -mode tree panes.lua      Run against a tree\n")
		fmt.Fprintf(os.Stderr, "  undoctl -c undoctx.toml -w s.lua  Re-run on every save\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("undoctl %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.app.LogLevel != "" && !logging.ValidLevel(opts.app.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.app.LogLevel)
		os.Exit(2)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.app.Script = flag.Arg(0)

	return opts
}
