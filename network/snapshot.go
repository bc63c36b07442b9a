package network

import (
	"errors"
	"math"
	"slices"
)

// Snapshot is a read-only copy of the network structure taken at one point in
// time. Node slices are copied; priors and tables are shared because they are
// never modified once committed.
type Snapshot struct {
	nodes      []*Node
	domainSize int
}

// Snapshot copies the current structure for use by one inference run.
func (n *Network[V]) Snapshot() *Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()

	nodes := make([]*Node, len(n.nodes))
	for i, nd := range n.nodes {
		cp := *nd
		cp.Parents = slices.Clone(nd.Parents)
		cp.Children = slices.Clone(nd.Children)
		nodes[i] = &cp
	}
	return &Snapshot{nodes: nodes, domainSize: len(n.domain)}
}

// Nodes returns the nodes in ID order.
func (s *Snapshot) Nodes() []*Node { return s.nodes }

// DomainSize is the number of values in the domain.
func (s *Snapshot) DomainSize() int { return s.domainSize }

// Complete is Network.Complete evaluated on the snapshot.
func (s *Snapshot) Complete() error { return complete(s.nodes) }

// Edges counts the directed parent-child edges.
func (s *Snapshot) Edges() int {
	e := 0
	for _, nd := range s.nodes {
		e += len(nd.Parents)
	}
	return e
}

func checkProbability(p float64) error {
	switch {
	case math.IsNaN(p) || math.IsInf(p, 0):
		return errors.New("probability is not a finite number")
	case p < 0:
		return errors.New("probability is negative")
	}
	return nil
}
