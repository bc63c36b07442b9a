package propagation

import (
	"errors"
	"fmt"
	"math"

	"github.com/vk/beliefgrid/internal/msgstore"
	"github.com/vk/beliefgrid/network"
)

// errNotReady is returned by the message formulas when an input message is
// missing from the store.
var errNotReady = errors.New("input message not ready")

// Graph is the read-only view of a network the engine works on.
// network.Snapshot implements it.
type Graph interface {
	Nodes() []*network.Node
	DomainSize() int
}

// BeliefPi writes BEL_pi of nd into dst, which must have the domain size.
// It needs the pi-messages from all of nd's parents. An observed root keeps
// the prior weight of its observed value so that impossible root evidence
// zeroes the belief.
func BeliefPi(nd *network.Node, ev network.Evidence, store *msgstore.Store, dst []float64) error {
	if obs, ok := ev[nd.ID]; ok {
		clear(dst)
		dst[obs] = 1
		if nd.Role == network.Root {
			dst[obs] = nd.Prior[obs]
		}
		return nil
	}
	if nd.Role == network.Root {
		copy(dst, nd.Prior)
		return nil
	}
	if nd.CPT == nil {
		return fmt.Errorf("node %q has no probability table", nd.Name)
	}

	parentMsgs, err := parentPis(nd, -1, store)
	if err != nil {
		return err
	}

	clear(dst)
	cpt := nd.CPT
	key := make([]int, cpt.Arity())
	for i := range cpt.Len() {
		row := cpt.Row(i)
		if row == nil {
			continue
		}
		cpt.Key(i, key)
		if !consistent(nd, key, ev, -1) {
			continue
		}
		w := 1.0
		for pos, v := range key {
			w *= parentMsgs[pos][v]
		}
		if w == 0 {
			continue
		}
		for x := range dst {
			dst[x] += row[x] * w
		}
	}
	return nil
}

// ChildLambdas writes Π lambda_{C→X}(x) over all children of nd except
// exclude (a node ID, or -1 for none) into dst.
func ChildLambdas(nd *network.Node, exclude int, store *msgstore.Store, dst []float64) error {
	for x := range dst {
		dst[x] = 1
	}
	for _, c := range nd.Children {
		if c == exclude {
			continue
		}
		msg, ok := store.Lambda(c, nd.ID)
		if !ok {
			return errNotReady
		}
		for x := range dst {
			dst[x] *= msg[x]
		}
	}
	return nil
}

// piMessage computes pi_{nd→child}.
func piMessage(nd *network.Node, child int, ev network.Evidence, store *msgstore.Store, size int) ([]float64, error) {
	msg := make([]float64, size)
	if err := ChildLambdas(nd, child, store, msg); err != nil {
		return nil, err
	}
	bel := make([]float64, size)
	if err := BeliefPi(nd, ev, store, bel); err != nil {
		return nil, err
	}
	for x := range msg {
		msg[x] *= bel[x]
	}
	normalize(msg)
	return msg, nil
}

// lambdaMessage computes lambda_{nd→parent} for the parent at position pos.
func lambdaMessage(nd *network.Node, pos int, ev network.Evidence, store *msgstore.Store, size int) ([]float64, error) {
	if nd.CPT == nil {
		return nil, fmt.Errorf("node %q has no probability table", nd.Name)
	}

	lam := make([]float64, size)
	if err := ChildLambdas(nd, -1, store, lam); err != nil {
		return nil, err
	}
	if obs, ok := ev[nd.ID]; ok {
		for x := range lam {
			if x != obs {
				lam[x] = 0
			}
		}
	}

	parentMsgs, err := parentPis(nd, pos, store)
	if err != nil {
		return nil, err
	}

	msg := make([]float64, size)
	cpt := nd.CPT
	key := make([]int, cpt.Arity())
	for i := range cpt.Len() {
		row := cpt.Row(i)
		if row == nil {
			continue
		}
		cpt.Key(i, key)
		if !consistent(nd, key, ev, pos) {
			continue
		}
		w := 1.0
		for p, v := range key {
			if p != pos {
				w *= parentMsgs[p][v]
			}
		}
		if w == 0 {
			continue
		}
		inner := 0.0
		for x, l := range lam {
			inner += l * row[x]
		}
		msg[key[pos]] += w * inner
	}
	normalize(msg)
	return msg, nil
}

// parentPis collects the pi-messages into nd by parent position, skipping
// position skip. The skipped slot is nil.
func parentPis(nd *network.Node, skip int, store *msgstore.Store) ([][]float64, error) {
	msgs := make([][]float64, len(nd.Parents))
	for pos, p := range nd.Parents {
		if pos == skip {
			continue
		}
		msg, ok := store.Pi(p, nd.ID)
		if !ok {
			return nil, errNotReady
		}
		msgs[pos] = msg
	}
	return msgs, nil
}

// consistent reports whether key agrees with the evidence on nd's parents,
// ignoring the parent at position skip.
func consistent(nd *network.Node, key []int, ev network.Evidence, skip int) bool {
	for pos, p := range nd.Parents {
		if pos == skip {
			continue
		}
		if obs, ok := ev[p]; ok && key[pos] != obs {
			return false
		}
	}
	return true
}

func normalize(v []float64) {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	if sum <= 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return
	}
	for i := range v {
		v[i] /= sum
	}
}
