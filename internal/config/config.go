package config

import (
	"fmt"

	"github.com/dshills/undoctx/internal/logging"
)

// Coordinator modes.
const (
	ModeRegistry = "registry"
	ModeTree     = "tree"
)

// Config is the top-level configuration.
type Config struct {
	// Mode selects the flat registry or the tree coordinator.
	Mode string `toml:"mode" yaml:"mode"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// StrictOwner panics on calls from a non-owning goroutine.
	StrictOwner bool `toml:"strict_owner" yaml:"strict_owner"`

	// Contexts are created up front in registry mode.
	Contexts []string `toml:"contexts" yaml:"contexts"`

	// Nodes describe the tree in tree mode. Parents must precede children.
	Nodes []NodeSpec `toml:"nodes" yaml:"nodes"`
}

// NodeSpec describes one tree node.
type NodeSpec struct {
	Label  string `toml:"label" yaml:"label"`
	Parent string `toml:"parent" yaml:"parent"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Mode:     ModeRegistry,
		LogLevel: "info",
	}
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeRegistry, ModeTree:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	if c.LogLevel != "" && !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}

	seen := make(map[string]bool, len(c.Contexts))
	for _, id := range c.Contexts {
		if seen[id] {
			return fmt.Errorf("%w: context %q", ErrDuplicateNode, id)
		}
		seen[id] = true
	}

	return validateNodes(c.Nodes)
}

func validateNodes(nodes []NodeSpec) error {
	declared := make(map[string]bool, len(nodes))
	roots := 0
	for i, n := range nodes {
		if n.Label == "" {
			return fmt.Errorf("node %d: empty label", i)
		}
		if declared[n.Label] {
			return fmt.Errorf("%w: %q", ErrDuplicateNode, n.Label)
		}
		if n.Parent == "" {
			roots++
			if roots > 1 {
				return fmt.Errorf("%w: %q", ErrMultipleRoots, n.Label)
			}
		} else if !declared[n.Parent] {
			return fmt.Errorf("%w: %q (node %q)", ErrUnknownParent, n.Parent, n.Label)
		}
		declared[n.Label] = true
	}
	return nil
}
