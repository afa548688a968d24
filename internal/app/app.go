// Package app wires configuration, logging, coordinators and the Lua host
// together for the undoctl command.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/dshills/undoctx/internal/config"
	"github.com/dshills/undoctx/internal/logging"
	"github.com/dshills/undoctx/internal/registry"
	"github.com/dshills/undoctx/internal/script"
	"github.com/dshills/undoctx/internal/tree"
)

// Options configures the application. Empty fields defer to the
// configuration file.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// Script is the Lua script to run.
	Script string

	// Mode overrides the configured coordinator mode.
	Mode string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Strict enables strict goroutine ownership checks.
	Strict bool

	// Stdout receives script output and summaries. Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives log output. Defaults to os.Stderr.
	Stderr io.Writer
}

// Application runs scripts against freshly built coordinators.
type Application struct {
	opts   Options
	config *config.Config
	logger *logging.Logger
	loader *config.Loader
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	return newWithLoader(opts, config.NewLoader())
}

func newWithLoader(opts Options, loader *config.Loader) (*Application, error) {
	if opts.Script == "" {
		return nil, ErrNoScript
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &Application{opts: opts, loader: loader}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap loads configuration and sets up logging.
func (app *Application) bootstrap() error {
	cfg, err := app.loader.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}

	if app.opts.Mode != "" {
		cfg.Mode = app.opts.Mode
	}
	if app.opts.LogLevel != "" {
		cfg.LogLevel = app.opts.LogLevel
	}
	if app.opts.Strict {
		cfg.StrictOwner = true
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	app.logger = logging.New(logging.Config{
		Level:  cfg.Level(),
		Output: app.opts.Stderr,
		Prefix: "undoctl",
	})
	app.logger.Debug("configured mode=%s strict=%v", cfg.Mode, cfg.StrictOwner)
	return nil
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// RunOnce builds a new coordinator from the configuration, runs the script
// against it and writes a history summary to Stdout.
func (app *Application) RunOnce(ctx context.Context) error {
	log := app.logger.WithField("run", uuid.NewString()[:8])
	hostOpts := []script.Option{
		script.WithLogger(log),
		script.WithOutput(app.opts.Stdout),
	}

	var (
		host    *script.Host
		summary func(io.Writer)
	)
	switch app.config.Mode {
	case config.ModeTree:
		root, nodes := app.config.NewTree(log)
		host = script.NewTreeHost(root, nodes, hostOpts...)
		summary = func(w io.Writer) { WriteTreeSummary(w, root) }
	default:
		coord := app.config.NewRegistry(log)
		host = script.NewRegistryHost(coord, hostOpts...)
		summary = func(w io.Writer) { WriteRegistrySummary(w, coord) }
	}
	defer host.Close()

	log.Info("running %s in %s mode", app.opts.Script, app.config.Mode)
	if err := host.RunFile(ctx, app.opts.Script); err != nil {
		return err
	}

	summary(app.opts.Stdout)
	return nil
}

// WriteRegistrySummary prints each context and the global stacks.
func WriteRegistrySummary(w io.Writer, c *registry.Coordinator) {
	fmt.Fprintf(w, "registry: %d contexts, undo=%d redo=%d\n",
		len(c.Contexts()), c.UndoDepth(), c.RedoDepth())
	for _, id := range c.Contexts() {
		v, _ := c.Context(id)
		fmt.Fprintf(w, "  %s undo=%d redo=%d\n", id, v.UndoCount(), v.RedoCount())
	}
	if id, info, ok := c.PeekUndo(); ok {
		fmt.Fprintf(w, "next undo: %s %s\n", id, info.Description)
	}
	if id, info, ok := c.PeekRedo(); ok {
		fmt.Fprintf(w, "next redo: %s %s\n", id, info.Description)
	}
}

// WriteTreeSummary prints the tree indented by depth.
func WriteTreeSummary(w io.Writer, root *tree.Node) {
	root = root.Root()
	fmt.Fprintf(w, "tree: %d nodes, clock=%d\n", root.Size(), root.Clock())
	root.Walk(func(n *tree.Node) bool {
		indent := ""
		for i := 0; i < n.Depth(); i++ {
			indent += "  "
		}
		fmt.Fprintf(w, "  %s%s undo=%d redo=%d\n", indent, n.Label(), n.UndoCount(), n.RedoCount())
		return true
	})
	if n, info, ok := root.NextUndo(); ok {
		fmt.Fprintf(w, "next undo: %s %s @%d\n", n.Label(), info.Description, info.Stamp)
	}
	if n, info, ok := root.NextRedo(); ok {
		fmt.Fprintf(w, "next redo: %s %s @%d\n", n.Label(), info.Description, info.Stamp)
	}
}
