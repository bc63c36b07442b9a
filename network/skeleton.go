package network

import "slices"

// skeleton tracks the connected components of the undirected graph behind
// the network. Two nodes already in the same component cannot be joined by
// another edge without closing an undirected cycle.
type skeleton struct {
	parent []int
	rank   []int
}

func (s *skeleton) add() {
	s.parent = append(s.parent, len(s.parent))
	s.rank = append(s.rank, 0)
}

func (s *skeleton) find(x int) int {
	for s.parent[x] != x {
		s.parent[x] = s.parent[s.parent[x]]
		x = s.parent[x]
	}
	return x
}

// union joins the components of a and b and reports false if they were
// already joined.
func (s *skeleton) union(a, b int) bool {
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		return false
	}
	switch {
	case s.rank[ra] < s.rank[rb]:
		s.parent[ra] = rb
	case s.rank[ra] > s.rank[rb]:
		s.parent[rb] = ra
	default:
		s.parent[rb] = ra
		s.rank[ra]++
	}
	return true
}

func (s *skeleton) clone() *skeleton {
	return &skeleton{parent: slices.Clone(s.parent), rank: slices.Clone(s.rank)}
}
