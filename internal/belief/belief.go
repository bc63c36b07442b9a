// Package belief turns a completed message store into per-node posterior
// distributions.
package belief

import (
	"errors"
	"fmt"
	"math"

	"github.com/vk/beliefgrid/internal/msgstore"
	"github.com/vk/beliefgrid/internal/propagation"
	"github.com/vk/beliefgrid/network"
)

// Combine computes, for every node X, the belief
//
//	BEL(x) ∝ Π_C lambda_{C→X}(x) · BEL_pi(x)
//
// and normalizes it. The result is indexed by node ID, then by value position.
// A zero (or non-finite) normalizer yields *network.InconsistentEvidenceError.
func Combine(g propagation.Graph, ev network.Evidence, store *msgstore.Store) ([][]float64, error) {
	size := g.DomainSize()
	nodes := g.Nodes()
	posteriors := make([][]float64, len(nodes))

	lam := make([]float64, size)
	for _, nd := range nodes {
		if err := propagation.ChildLambdas(nd, -1, store, lam); err != nil {
			return nil, incomplete(nd, err)
		}
		bel := make([]float64, size)
		if err := propagation.BeliefPi(nd, ev, store, bel); err != nil {
			return nil, incomplete(nd, err)
		}

		sum := 0.0
		for x := range bel {
			bel[x] *= lam[x]
			sum += bel[x]
		}
		if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
			return nil, &network.InconsistentEvidenceError{Node: nd.Name}
		}
		for x := range bel {
			bel[x] /= sum
		}
		posteriors[nd.ID] = bel
	}
	return posteriors, nil
}

func incomplete(nd *network.Node, err error) error {
	if errors.Is(err, network.ErrIncompletePropagation) {
		return err
	}
	return fmt.Errorf("%w: belief of %q: %v", network.ErrIncompletePropagation, nd.Name, err)
}
