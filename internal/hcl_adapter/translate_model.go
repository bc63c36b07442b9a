// This file contains the logic for translating decoded HCL blocks into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/vk/beliefgrid/internal/config"
	"github.com/vk/beliefgrid/internal/ctxlog"
)

// translateFile converts one decoded file into a partial model.
func (l *Loader) translateFile(ctx context.Context, file string, root *fileRoot) (*config.Model, error) {
	model := config.NewModel()

	if isExprDefined(ctx, root.Domain, "domain") {
		domain, err := stringList(root.Domain)
		if err != nil {
			return nil, fmt.Errorf("invalid domain: %w", err)
		}
		model.Domain = domain
	}

	for _, n := range root.Nodes {
		node, err := l.translateNode(ctx, file, n)
		if err != nil {
			return nil, err
		}
		model.Nodes = append(model.Nodes, node)
	}

	for _, d := range root.Dependencies {
		dep, err := l.translateDependency(file, d)
		if err != nil {
			return nil, err
		}
		model.Dependencies = append(model.Dependencies, dep)
	}

	if isExprDefined(ctx, root.Evidence, "evidence") {
		ev, err := stringMap(root.Evidence)
		if err != nil {
			return nil, fmt.Errorf("invalid evidence: %w", err)
		}
		model.Evidence = ev
	}
	return model, nil
}

// translateNode converts the HCL-specific node schema into the agnostic model.
func (l *Loader) translateNode(ctx context.Context, file string, n *nodeBlock) (*config.Node, error) {
	logger := ctxlog.FromContext(ctx).With("node", n.Name)
	node := &config.Node{Name: n.Name, Role: n.Role, Source: file}

	if isExprDefined(ctxlog.WithLogger(ctx, logger), n.Prior, "prior") {
		prior, err := probabilityMap(n.Prior)
		if err != nil {
			return nil, fmt.Errorf("in node '%s', invalid prior: %w", n.Name, err)
		}
		node.Prior = prior
	}
	logger.Debug("Translated HCL node.", "role", n.Role, "has_prior", node.Prior != nil)
	return node, nil
}

// translateDependency converts the HCL-specific dependency schema into the
// agnostic model.
func (l *Loader) translateDependency(file string, d *dependencyBlock) (*config.Dependency, error) {
	dep := &config.Dependency{
		Child:   d.Child,
		Parents: d.Parents,
		Source:  file,
	}
	for i, r := range d.Rows {
		given, err := stringList(r.Given)
		if err != nil {
			return nil, fmt.Errorf("in dependency '%s', row %d: invalid given: %w", d.Child, i, err)
		}
		probs, err := probabilityMap(r.Probs)
		if err != nil {
			return nil, fmt.Errorf("in dependency '%s', row %d: invalid probs: %w", d.Child, i, err)
		}
		dep.Rows = append(dep.Rows, &config.Row{Given: given, Probs: probs})
	}
	return dep, nil
}
