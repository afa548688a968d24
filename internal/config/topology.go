package config

import (
	"github.com/dshills/undoctx/internal/logging"
	"github.com/dshills/undoctx/internal/registry"
	"github.com/dshills/undoctx/internal/tree"
)

// NewRegistry builds a flat coordinator with the configured contexts.
func (c *Config) NewRegistry(logger *logging.Logger) *registry.Coordinator {
	opts := []registry.Option{registry.WithLogger(logger)}
	if c.StrictOwner {
		opts = append(opts, registry.WithStrictOwner())
	}

	coord := registry.New(opts...)
	for _, id := range c.Contexts {
		coord.CreateContext(id)
	}
	return coord
}

// NewTree builds the configured tree and returns its root together with
// every node keyed by label. Without node specs the tree is a lone root.
// The configuration must have been validated.
func (c *Config) NewTree(logger *logging.Logger) (*tree.Node, map[string]*tree.Node) {
	opts := []tree.Option{tree.WithLogger(logger)}
	if c.StrictOwner {
		opts = append(opts, tree.WithStrictOwner())
	}

	rootLabel := "root"
	for _, n := range c.Nodes {
		if n.Parent == "" {
			rootLabel = n.Label
			break
		}
	}

	root := tree.New(append(opts, tree.WithRootLabel(rootLabel))...)
	nodes := map[string]*tree.Node{rootLabel: root}
	for _, n := range c.Nodes {
		if n.Parent == "" {
			continue
		}
		nodes[n.Label] = nodes[n.Parent].NewChild(n.Label)
	}
	return root, nodes
}
