package network

import (
	"fmt"
	"strings"
)

// Role distinguishes root, intermediate and leaf nodes.
type Role int

const (
	// Root nodes carry a prior and have no parents.
	Root Role = iota
	// Intermediate nodes carry a CPT and may have both parents and children.
	Intermediate
	// Leaf nodes carry a CPT and cannot have children.
	Leaf
)

func (r Role) String() string {
	switch r {
	case Root:
		return "root"
	case Intermediate:
		return "intermediate"
	case Leaf:
		return "leaf"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole converts the textual role used in network definition files.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "root":
		return Root, nil
	case "intermediate", "inner":
		return Intermediate, nil
	case "leaf":
		return Leaf, nil
	default:
		return 0, fmt.Errorf("unknown node role %q: must be 'root', 'intermediate' or 'leaf'", s)
	}
}

// Node is a single vertex of the network in index form. Values are referred
// to by their position in the domain.
//
// Nodes returned from a Snapshot are shared between inference runs and must
// be treated as read-only.
type Node struct {
	// ID is the node's position in insertion order.
	ID   int
	Name string
	Role Role
	// Parents is ordered; position i is the i-th component of a CPT key.
	Parents  []int
	Children []int
	// Prior is set for roots only.
	Prior []float64
	// CPT is set for non-root nodes once their dependency is declared.
	CPT *CPT
}

// ParentPosition returns the position of parent in n.Parents, or -1.
func (n *Node) ParentPosition(parent int) int {
	for i, p := range n.Parents {
		if p == parent {
			return i
		}
	}
	return -1
}

// Row is one entry of a conditional probability table as supplied by the
// caller: the parent values, in parent order, and the distribution over the
// child's values given them.
type Row[V comparable] struct {
	Given []V
	Probs map[V]float64
}

// CPT is a conditional probability table stored as a flat slice addressed by
// the mixed-radix index of the parent value positions. Rows that were not
// supplied are nil and contribute nothing to any sum.
type CPT struct {
	radix int
	arity int
	rows  [][]float64
}

func newCPT(radix, arity int) *CPT {
	size := 1
	for range arity {
		size *= radix
	}
	return &CPT{radix: radix, arity: arity, rows: make([][]float64, size)}
}

// Arity is the number of parents.
func (t *CPT) Arity() int { return t.arity }

// Len is the number of addressable rows, present or not.
func (t *CPT) Len() int { return len(t.rows) }

// Row returns the distribution stored at index i, or nil when the row was not
// supplied.
func (t *CPT) Row(i int) []float64 { return t.rows[i] }

// Index computes the flat index of a key given as value positions.
func (t *CPT) Index(key []int) int {
	idx := 0
	for _, v := range key {
		idx = idx*t.radix + v
	}
	return idx
}

// Key decodes index i into dst, which must have length Arity.
func (t *CPT) Key(i int, dst []int) {
	for pos := t.arity - 1; pos >= 0; pos-- {
		dst[pos] = i % t.radix
		i /= t.radix
	}
}

// Present counts the rows that were supplied.
func (t *CPT) Present() int {
	n := 0
	for _, r := range t.rows {
		if r != nil {
			n++
		}
	}
	return n
}

// Evidence maps node IDs to observed value positions.
type Evidence map[int]int

// Warning records a prior or CPT row whose probabilities do not sum to one.
// Warnings never stop construction.
type Warning struct {
	Subject string
	Sum     float64
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: probabilities sum to %g, not 1", w.Subject, w.Sum)
}
