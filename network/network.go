package network

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/vk/beliefgrid/internal/ctxlog"
)

// SumTolerance is how far a distribution may stray from summing to one before
// a Warning is recorded.
const SumTolerance = 1e-7

// maxTableRows bounds the flat CPT size (domain size ^ parent count).
const maxTableRows = 1 << 24

// Network is a discrete Bayesian network over a single value domain V.
// All methods are safe for concurrent use; construction calls serialize
// against each other and against Snapshot.
type Network[V comparable] struct {
	mu       sync.RWMutex
	domain   []V
	index    map[V]int
	nodes    []*Node
	names    map[string]int
	skeleton *skeleton
	warnings []Warning
}

// New creates an empty network over the given value domain. The domain must
// be non-empty and free of duplicates; its order fixes value positions.
func New[V comparable](domain []V) (*Network[V], error) {
	if len(domain) == 0 {
		return nil, constructionErr("new network", "domain", "value domain is empty")
	}
	index := make(map[V]int, len(domain))
	for i, v := range domain {
		if _, dup := index[v]; dup {
			return nil, constructionErr("new network", "domain", "value %v appears more than once", v)
		}
		index[v] = i
	}
	return &Network[V]{
		domain:   slices.Clone(domain),
		index:    index,
		names:    make(map[string]int),
		skeleton: &skeleton{},
	}, nil
}

// AddRoot adds a root node with the given prior.
func (n *Network[V]) AddRoot(ctx context.Context, name string, prior map[V]float64) (int, error) {
	return n.AddNode(ctx, name, Root, prior)
}

// AddIntermediate adds a node that takes both parents and children.
func (n *Network[V]) AddIntermediate(ctx context.Context, name string) (int, error) {
	return n.AddNode(ctx, name, Intermediate, nil)
}

// AddLeaf adds a node that takes parents only.
func (n *Network[V]) AddLeaf(ctx context.Context, name string) (int, error) {
	return n.AddNode(ctx, name, Leaf, nil)
}

// AddNode adds a node and returns its ID. Roots must supply a prior covering
// the whole domain; other roles must not supply one.
func (n *Network[V]) AddNode(ctx context.Context, name string, role Role, prior map[V]float64) (int, error) {
	const op = "add node"
	if name == "" {
		return 0, constructionErr(op, name, "node name is empty")
	}

	var dist []float64
	switch role {
	case Root:
		d, err := n.distribution(prior)
		if err != nil {
			return 0, constructionErr(op, name, "invalid prior: %v", err)
		}
		dist = d
	case Intermediate, Leaf:
		if len(prior) > 0 {
			return 0, constructionErr(op, name, "only root nodes carry a prior, got one for a %s node", role)
		}
	default:
		return 0, constructionErr(op, name, "unknown role %v", role)
	}

	n.mu.Lock()
	if _, exists := n.names[name]; exists {
		n.mu.Unlock()
		return 0, constructionErr(op, name, "node already exists")
	}
	id := len(n.nodes)
	n.nodes = append(n.nodes, &Node{ID: id, Name: name, Role: role, Prior: dist})
	n.names[name] = id
	n.skeleton.add()
	n.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Node added.", "node", name, "id", id, "role", role.String())
	if dist != nil {
		n.checkSum(ctx, fmt.Sprintf("prior of root %q", name), dist)
	}
	return id, nil
}

// AddDependency declares the ordered parents of child together with its CPT.
// A child's dependency can be declared only once.
func (n *Network[V]) AddDependency(ctx context.Context, parents []string, child string, table []Row[V]) error {
	const op = "add dependency"
	logger := ctxlog.FromContext(ctx)

	if len(parents) == 0 {
		return constructionErr(op, child, "dependency needs at least one parent")
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	childID, ok := n.names[child]
	if !ok {
		return constructionErr(op, child, "child node not found")
	}
	childNode := n.nodes[childID]
	if childNode.Role == Root {
		return constructionErr(op, child, "cannot add dependency to root node")
	}
	if childNode.CPT != nil {
		return constructionErr(op, child, "dependency already declared for this node")
	}

	parentIDs := make([]int, len(parents))
	seen := make(map[int]struct{}, len(parents))
	for i, p := range parents {
		pid, ok := n.names[p]
		if !ok {
			return constructionErr(op, child, "parent node %q not found", p)
		}
		if pid == childID {
			return constructionErr(op, child, "node cannot be its own parent")
		}
		if n.nodes[pid].Role == Leaf {
			return constructionErr(op, child, "cannot add dependency from leaf node %q", p)
		}
		if _, dup := seen[pid]; dup {
			return constructionErr(op, child, "parent %q listed more than once", p)
		}
		seen[pid] = struct{}{}
		parentIDs[i] = pid
	}

	sk := n.skeleton.clone()
	for i, pid := range parentIDs {
		if !sk.union(pid, childID) {
			return constructionErr(op, child, "edge from %q would close an undirected cycle; only polytrees are supported", parents[i])
		}
	}

	cpt, err := n.table(len(parentIDs), table)
	if err != nil {
		return constructionErr(op, child, "%v", err)
	}

	// Validation complete; commit.
	n.skeleton = sk
	for _, pid := range parentIDs {
		n.nodes[pid].Children = append(n.nodes[pid].Children, childID)
	}
	childNode.Parents = parentIDs
	childNode.CPT = cpt

	logger.Debug("Dependency added.", "child", child, "parents", parents, "rows", cpt.Present())
	key := make([]int, cpt.Arity())
	for i := range cpt.Len() {
		row := cpt.Row(i)
		if row == nil {
			continue
		}
		cpt.Key(i, key)
		n.checkSumLocked(ctx, fmt.Sprintf("row %v of %q given %v", n.values(key), child, parents), row)
	}
	return nil
}

// distribution validates a map over the domain and converts it to index form.
func (n *Network[V]) distribution(probs map[V]float64) ([]float64, error) {
	dist := make([]float64, len(n.domain))
	for v, p := range probs {
		i, ok := n.index[v]
		if !ok {
			return nil, fmt.Errorf("value %v is not in the value domain", v)
		}
		if err := checkProbability(p); err != nil {
			return nil, fmt.Errorf("value %v: %w", v, err)
		}
		dist[i] = p
	}
	for _, v := range n.domain {
		if _, ok := probs[v]; !ok {
			return nil, fmt.Errorf("no probability given for value %v", v)
		}
	}
	return dist, nil
}

func (n *Network[V]) table(arity int, rows []Row[V]) (*CPT, error) {
	size := 1
	for range arity {
		size *= len(n.domain)
		if size > maxTableRows {
			return nil, fmt.Errorf("table for %d parents over %d values is too large", arity, len(n.domain))
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("probability table is empty")
	}

	cpt := newCPT(len(n.domain), arity)
	key := make([]int, arity)
	for _, row := range rows {
		if len(row.Given) != arity {
			return nil, fmt.Errorf("key %v has %d values, expected one per parent (%d)", row.Given, len(row.Given), arity)
		}
		for i, v := range row.Given {
			idx, ok := n.index[v]
			if !ok {
				return nil, fmt.Errorf("key %v contains value %v which is not in the value domain", row.Given, v)
			}
			key[i] = idx
		}
		dist, err := n.distribution(row.Probs)
		if err != nil {
			return nil, fmt.Errorf("row for key %v: %w", row.Given, err)
		}
		at := cpt.Index(key)
		if cpt.rows[at] != nil {
			return nil, fmt.Errorf("key %v is given more than once", row.Given)
		}
		cpt.rows[at] = dist
	}
	return cpt, nil
}

func (n *Network[V]) checkSum(ctx context.Context, subject string, dist []float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.checkSumLocked(ctx, subject, dist)
}

func (n *Network[V]) checkSumLocked(ctx context.Context, subject string, dist []float64) {
	sum := 0.0
	for _, p := range dist {
		sum += p
	}
	if sum < 1-SumTolerance || sum > 1+SumTolerance {
		w := Warning{Subject: subject, Sum: sum}
		n.warnings = append(n.warnings, w)
		ctxlog.FromContext(ctx).Warn("Probabilities may not sum to 1.", "subject", subject, "sum", sum)
	}
}

func (n *Network[V]) values(key []int) []V {
	vs := make([]V, len(key))
	for i, k := range key {
		vs[i] = n.domain[k]
	}
	return vs
}

// Warnings returns the sum-to-one warnings recorded so far.
func (n *Network[V]) Warnings() []Warning {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.warnings)
}

// Domain returns a copy of the value domain in position order.
func (n *Network[V]) Domain() []V {
	return slices.Clone(n.domain)
}

// DomainSize is the number of values in the domain.
func (n *Network[V]) DomainSize() int {
	return len(n.domain)
}

// ValueIndex returns the position of v in the domain.
func (n *Network[V]) ValueIndex(v V) (int, bool) {
	i, ok := n.index[v]
	return i, ok
}

// Value returns the domain value at position i.
func (n *Network[V]) Value(i int) V {
	return n.domain[i]
}

// Len is the number of nodes.
func (n *Network[V]) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.nodes)
}

// NodeID resolves a node name.
func (n *Network[V]) NodeID(name string) (int, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	id, ok := n.names[name]
	return id, ok
}

// Names returns node names in ID order.
func (n *Network[V]) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, len(n.nodes))
	for i, nd := range n.nodes {
		names[i] = nd.Name
	}
	return names
}

// ResolveEvidence converts named evidence into index form.
func (n *Network[V]) ResolveEvidence(evidence map[string]V) (Evidence, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ev := make(Evidence, len(evidence))
	for name, v := range evidence {
		id, ok := n.names[name]
		if !ok {
			return nil, &QueryError{Name: name, Reason: "node not found"}
		}
		idx, ok := n.index[v]
		if !ok {
			return nil, &QueryError{Name: name, Reason: fmt.Sprintf("value %v is not in the value domain", v)}
		}
		ev[id] = idx
	}
	return ev, nil
}

// Complete reports the first node that cannot take part in inference yet:
// a non-root node whose dependency was never declared.
func (n *Network[V]) Complete() error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return complete(n.nodes)
}

func complete(nodes []*Node) error {
	for _, nd := range nodes {
		if nd.Role != Root && nd.CPT == nil {
			return constructionErr("check network", nd.Name, "%s node has no parents or probability table", nd.Role)
		}
	}
	return nil
}
