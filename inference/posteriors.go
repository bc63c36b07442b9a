package inference

import (
	"fmt"
	"iter"
	"slices"

	"github.com/vk/beliefgrid/network"
)

// Posteriors holds the normalized belief of every node from one Infer call.
// It is immutable.
type Posteriors[V comparable] struct {
	net   *network.Network[V]
	names []string
	probs [][]float64
	stats Stats
}

// Probability returns the posterior probability that node name takes value.
func (p *Posteriors[V]) Probability(name string, value V) (float64, error) {
	dist, err := p.lookup(name)
	if err != nil {
		return 0, err
	}
	idx, ok := p.net.ValueIndex(value)
	if !ok {
		return 0, &network.QueryError{Name: name, Reason: fmt.Sprintf("value %v is not in the value domain", value)}
	}
	return dist[idx], nil
}

// Distribution returns the posterior of node name keyed by domain value.
func (p *Posteriors[V]) Distribution(name string) (map[V]float64, error) {
	dist, err := p.lookup(name)
	if err != nil {
		return nil, err
	}
	out := make(map[V]float64, len(dist))
	for i, pr := range dist {
		out[p.net.Value(i)] = pr
	}
	return out, nil
}

// Vector returns the posterior of node name in domain order.
func (p *Posteriors[V]) Vector(name string) ([]float64, error) {
	dist, err := p.lookup(name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(dist), nil
}

// Names lists the nodes covered by the result in ID order.
func (p *Posteriors[V]) Names() []string {
	return slices.Clone(p.names)
}

// All yields every node name with its posterior in domain order, in ID
// order. The vectors are copies.
func (p *Posteriors[V]) All() iter.Seq2[string, []float64] {
	return func(yield func(string, []float64) bool) {
		for i, name := range p.names {
			if !yield(name, slices.Clone(p.probs[i])) {
				return
			}
		}
	}
}

// Stats reports the propagation work behind this result.
func (p *Posteriors[V]) Stats() Stats {
	return p.stats
}

func (p *Posteriors[V]) lookup(name string) ([]float64, error) {
	id, ok := p.net.NodeID(name)
	if !ok {
		return nil, &network.QueryError{Name: name, Reason: "node not found"}
	}
	if id >= len(p.probs) {
		return nil, &network.QueryError{Name: name, Reason: "node was added after this inference ran"}
	}
	return p.probs[id], nil
}
