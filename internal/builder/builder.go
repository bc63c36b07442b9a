package builder

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/vk/beliefgrid/internal/config"
	"github.com/vk/beliefgrid/internal/ctxlog"
	"github.com/vk/beliefgrid/network"
)

// ErrEmptyModel is returned when the model declares no nodes.
var ErrEmptyModel = errors.New("network definition has no nodes")

// Result is a built network together with the evidence declared alongside it.
type Result struct {
	Network  *network.Network[string]
	Evidence map[string]string
}

// Build constructs a complete network from a config model.
func Build(ctx context.Context, model *config.Model) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting network construction.")

	if len(model.Nodes) == 0 {
		return nil, ErrEmptyModel
	}
	net, err := network.New(model.Domain)
	if err != nil {
		return nil, err
	}

	// First pass: create all nodes.
	for _, n := range model.Nodes {
		if err := addNode(ctx, net, n); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Node creation complete.", "node_count", net.Len())

	// Second pass: link dependencies.
	for _, d := range model.Dependencies {
		if err := addDependency(ctx, net, d); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Dependency linking complete.", "dependency_count", len(model.Dependencies))

	// Final validation: every non-root node has a table.
	if err := net.Complete(); err != nil {
		return nil, fmt.Errorf("error validating network: %w", err)
	}

	if w := net.Warnings(); len(w) > 0 {
		logger.Warn("Build: Network has distributions that do not sum to 1.", "warning_count", len(w))
	}
	logger.Info("Build: Network construction successful.", "nodes", net.Len(), "evidence", len(model.Evidence))
	return &Result{Network: net, Evidence: maps.Clone(model.Evidence)}, nil
}

func addNode(ctx context.Context, net *network.Network[string], n *config.Node) error {
	role, err := network.ParseRole(n.Role)
	if err != nil {
		return fmt.Errorf("node %q (%s): %w", n.Name, n.Source, err)
	}
	if _, err := net.AddNode(ctx, n.Name, role, n.Prior); err != nil {
		return fmt.Errorf("in %s: %w", n.Source, err)
	}
	return nil
}

func addDependency(ctx context.Context, net *network.Network[string], d *config.Dependency) error {
	rows := make([]network.Row[string], len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = network.Row[string]{Given: r.Given, Probs: r.Probs}
	}
	if err := net.AddDependency(ctx, d.Parents, d.Child, rows); err != nil {
		return fmt.Errorf("in %s: %w", d.Source, err)
	}
	return nil
}
