package config

import (
	"fmt"
	"slices"
)

// Model is the unified, format-agnostic representation of one or more
// network definition files. All values are carried as strings; the builder
// interprets them against Domain.
type Model struct {
	Domain       []string
	Nodes        []*Node
	Dependencies []*Dependency
	Evidence     map[string]string
}

// Node is the format-agnostic representation of a `node` definition.
type Node struct {
	Name string
	Role string
	// Prior is set for root nodes only.
	Prior map[string]float64
	// Source is the file the node was read from.
	Source string
}

// Dependency declares the ordered parents of Child and its probability table.
type Dependency struct {
	Child   string
	Parents []string
	Rows    []*Row
	Source  string
}

// Row is one entry of a conditional probability table.
type Row struct {
	Given []string
	Probs map[string]float64
}

// NewModel returns an empty model ready for Merge.
func NewModel() *Model {
	return &Model{Evidence: make(map[string]string)}
}

// Merge folds other into m. Both models must declare the same domain (or
// none), node names and dependency children must be unique across both, and
// evidence for the same node must agree.
func (m *Model) Merge(other *Model) error {
	switch {
	case len(other.Domain) == 0:
	case len(m.Domain) == 0:
		m.Domain = slices.Clone(other.Domain)
	case !slices.Equal(m.Domain, other.Domain):
		return fmt.Errorf("conflicting value domains: %v and %v", m.Domain, other.Domain)
	}

	for _, n := range other.Nodes {
		if prev := m.node(n.Name); prev != nil {
			return fmt.Errorf("node %q is defined in both %s and %s", n.Name, prev.Source, n.Source)
		}
		m.Nodes = append(m.Nodes, n)
	}
	for _, d := range other.Dependencies {
		if prev := m.dependency(d.Child); prev != nil {
			return fmt.Errorf("dependency for node %q is declared in both %s and %s", d.Child, prev.Source, d.Source)
		}
		m.Dependencies = append(m.Dependencies, d)
	}

	if m.Evidence == nil {
		m.Evidence = make(map[string]string, len(other.Evidence))
	}
	for name, v := range other.Evidence {
		if prev, ok := m.Evidence[name]; ok && prev != v {
			return fmt.Errorf("conflicting evidence for node %q: %q and %q", name, prev, v)
		}
		m.Evidence[name] = v
	}
	return nil
}

func (m *Model) node(name string) *Node {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func (m *Model) dependency(child string) *Dependency {
	for _, d := range m.Dependencies {
		if d.Child == child {
			return d
		}
	}
	return nil
}
