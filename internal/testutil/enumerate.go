package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/beliefgrid/network"
)

// Enumerate computes exact posterior marginals by summing the joint
// distribution over every assignment consistent with ev. It also returns the
// probability of the evidence; when that is zero the marginals are nil.
// The cost is DomainSize^len(nodes), so keep networks small.
func Enumerate(s *network.Snapshot, ev network.Evidence) ([][]float64, float64) {
	nodes := s.Nodes()
	size := s.DomainSize()

	marginals := make([][]float64, len(nodes))
	for i := range marginals {
		marginals[i] = make([]float64, size)
	}

	assign := make([]int, len(nodes))
	total := 0.0
	for {
		if matches(assign, ev) {
			p := joint(nodes, assign)
			if p > 0 {
				total += p
				for i, v := range assign {
					marginals[i][v] += p
				}
			}
		}
		if !next(assign, size) {
			break
		}
	}

	if total == 0 {
		return nil, 0
	}
	for _, m := range marginals {
		for v := range m {
			m[v] /= total
		}
	}
	return marginals, total
}

func matches(assign []int, ev network.Evidence) bool {
	for id, v := range ev {
		if assign[id] != v {
			return false
		}
	}
	return true
}

func joint(nodes []*network.Node, assign []int) float64 {
	p := 1.0
	key := make([]int, 0, 8)
	for _, nd := range nodes {
		if nd.Role == network.Root {
			p *= nd.Prior[assign[nd.ID]]
			continue
		}
		key = key[:0]
		for _, parent := range nd.Parents {
			key = append(key, assign[parent])
		}
		row := nd.CPT.Row(nd.CPT.Index(key))
		if row == nil {
			return 0
		}
		p *= row[assign[nd.ID]]
		if p == 0 {
			return 0
		}
	}
	return p
}

func next(assign []int, size int) bool {
	for i := len(assign) - 1; i >= 0; i-- {
		assign[i]++
		if assign[i] < size {
			return true
		}
		assign[i] = 0
	}
	return false
}

// RandomPolytree builds a random connected polytree with n nodes over the
// domain {0..size-1}. Every probability is strictly positive, so any evidence
// has non-zero probability.
func RandomPolytree(t *testing.T, rng *rand.Rand, n, size int) *network.Network[int] {
	t.Helper()
	ctx := context.Background()

	domain := make([]int, size)
	for i := range domain {
		domain[i] = i
	}
	net, err := network.New(domain)
	require.NoError(t, err)

	parents := make([][]int, n)
	hasChild := make([]bool, n)
	for i := 1; i < n; i++ {
		j := rng.Intn(i)
		if rng.Intn(2) == 0 {
			parents[i] = append(parents[i], j)
			hasChild[j] = true
		} else {
			parents[j] = append(parents[j], i)
			hasChild[i] = true
		}
	}

	name := func(i int) string { return fmt.Sprintf("N%d", i) }
	dist := func() map[int]float64 {
		raw := make([]float64, size)
		sum := 0.0
		for v := range raw {
			raw[v] = rng.Float64() + 0.05
			sum += raw[v]
		}
		out := make(map[int]float64, size)
		for v, p := range raw {
			out[v] = p / sum
		}
		return out
	}

	for i := range n {
		role := network.Leaf
		switch {
		case len(parents[i]) == 0:
			role = network.Root
		case hasChild[i]:
			role = network.Intermediate
		}
		var prior map[int]float64
		if role == network.Root {
			prior = dist()
		}
		_, err := net.AddNode(ctx, name(i), role, prior)
		require.NoError(t, err)
	}

	for i := range n {
		if len(parents[i]) == 0 {
			continue
		}
		names := make([]string, len(parents[i]))
		for k, p := range parents[i] {
			names[k] = name(p)
		}
		key := make([]int, len(parents[i]))
		var rows []network.Row[int]
		for {
			rows = append(rows, network.Row[int]{Given: append([]int(nil), key...), Probs: dist()})
			if !next(key, size) {
				break
			}
		}
		require.NoError(t, net.AddDependency(ctx, names, name(i), rows))
	}
	return net
}
