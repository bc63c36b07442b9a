package propagation

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/beliefgrid/internal/ctxlog"
	"github.com/vk/beliefgrid/internal/msgstore"
	"github.com/vk/beliefgrid/network"
)

// Stats summarizes one propagation run.
type Stats struct {
	// Sweeps is the number of passes over the graph. The tree scheduler
	// always makes two; the fixpoint scheduler counts its final empty sweep.
	Sweeps         int
	PiMessages     int
	LambdaMessages int
}

// Scheduler decides the order in which messages are computed.
type Scheduler interface {
	// Name identifies the strategy in logs and configuration.
	Name() string
	// Schedule fills store with every message it can compute.
	Schedule(ctx context.Context, g Graph, ev network.Evidence, store *msgstore.Store) (Stats, error)
}

// Propagate runs s on a fresh store and checks that every edge received both
// its pi- and its lambda-message.
func Propagate(ctx context.Context, g Graph, ev network.Evidence, s Scheduler) (*msgstore.Store, Stats, error) {
	logger := ctxlog.FromContext(ctx).With("strategy", s.Name())

	edges := 0
	for _, nd := range g.Nodes() {
		edges += len(nd.Parents)
	}
	store := msgstore.New(edges)

	logger.Debug("Propagation started.", "nodes", len(g.Nodes()), "edges", edges, "evidence", len(ev))
	stats, err := s.Schedule(ctxlog.WithLogger(ctx, logger), g, ev, store)
	if err != nil {
		return nil, stats, err
	}
	if err := checkComplete(g, store); err != nil {
		return nil, stats, err
	}
	logger.Debug("Propagation finished.", "sweeps", stats.Sweeps, "pi", stats.PiMessages, "lambda", stats.LambdaMessages)
	return store, stats, nil
}

func checkComplete(g Graph, store *msgstore.Store) error {
	nodes := g.Nodes()
	for _, nd := range nodes {
		for _, p := range nd.Parents {
			if !store.HasPi(p, nd.ID) {
				return fmt.Errorf("%w: no pi-message from %q to %q", network.ErrIncompletePropagation, nodes[p].Name, nd.Name)
			}
			if !store.HasLambda(nd.ID, p) {
				return fmt.Errorf("%w: no lambda-message from %q to %q", network.ErrIncompletePropagation, nd.Name, nodes[p].Name)
			}
		}
	}
	return nil
}

// send computes the message from nd to the neighbour to, whichever direction
// the edge between them points.
func send(nd *network.Node, to int, ev network.Evidence, store *msgstore.Store, size int, stats *Stats) error {
	if pos := nd.ParentPosition(to); pos >= 0 {
		msg, err := lambdaMessage(nd, pos, ev, store, size)
		if err != nil {
			return err
		}
		store.SetLambda(nd.ID, to, msg)
		stats.LambdaMessages++
		return nil
	}
	msg, err := piMessage(nd, to, ev, store, size)
	if err != nil {
		return err
	}
	store.SetPi(nd.ID, to, msg)
	stats.PiMessages++
	return nil
}

// TreeScheduler computes every message exactly once with a collect pass and
// a distribute pass over each component of the undirected skeleton.
type TreeScheduler struct{}

func (TreeScheduler) Name() string { return "tree" }

func (TreeScheduler) Schedule(ctx context.Context, g Graph, ev network.Evidence, store *msgstore.Store) (Stats, error) {
	logger := ctxlog.FromContext(ctx)
	nodes := g.Nodes()
	size := g.DomainSize()
	stats := Stats{Sweeps: 2}

	visited := make([]bool, len(nodes))
	via := make([]int, len(nodes))
	for pivot := range nodes {
		if visited[pivot] {
			continue
		}

		// order lists the component so that every node follows the
		// neighbour it was discovered from.
		order := []int{pivot}
		visited[pivot] = true
		via[pivot] = -1
		for i := 0; i < len(order); i++ {
			v := nodes[order[i]]
			for _, w := range neighbours(v) {
				if !visited[w] {
					visited[w] = true
					via[w] = v.ID
					order = append(order, w)
				}
			}
		}
		logger.Debug("Component ordered.", "pivot", nodes[pivot].Name, "size", len(order))

		for i := len(order) - 1; i > 0; i-- {
			v := order[i]
			if err := send(nodes[v], via[v], ev, store, size, &stats); err != nil {
				return stats, treeErr(nodes, v, via[v], err)
			}
		}
		for _, v := range order {
			for _, w := range neighbours(nodes[v]) {
				if via[w] != v {
					continue
				}
				if err := send(nodes[v], w, ev, store, size, &stats); err != nil {
					return stats, treeErr(nodes, v, w, err)
				}
			}
		}
	}
	return stats, nil
}

func treeErr(nodes []*network.Node, from, to int, err error) error {
	if errors.Is(err, errNotReady) {
		return fmt.Errorf("%w: message from %q to %q has missing inputs; is the network a polytree?", network.ErrIncompletePropagation, nodes[from].Name, nodes[to].Name)
	}
	return fmt.Errorf("message from %q to %q: %w", nodes[from].Name, nodes[to].Name, err)
}

func neighbours(nd *network.Node) []int {
	out := make([]int, 0, len(nd.Parents)+len(nd.Children))
	out = append(out, nd.Parents...)
	return append(out, nd.Children...)
}

// FixpointScheduler sweeps all nodes in ID order, emitting each message once
// its inputs are present, until a sweep adds nothing.
type FixpointScheduler struct{}

func (FixpointScheduler) Name() string { return "fixpoint" }

func (FixpointScheduler) Schedule(ctx context.Context, g Graph, ev network.Evidence, store *msgstore.Store) (Stats, error) {
	logger := ctxlog.FromContext(ctx)
	nodes := g.Nodes()
	size := g.DomainSize()
	var stats Stats

	for {
		stats.Sweeps++
		added := 0
		for _, nd := range nodes {
			if allParentPis(nd, store) {
				for _, c := range nd.Children {
					if store.HasPi(nd.ID, c) || !childLambdasExcept(nd, c, store) {
						continue
					}
					if err := send(nd, c, ev, store, size, &stats); err != nil {
						return stats, fmt.Errorf("pi-message from %q to %q: %w", nd.Name, nodes[c].Name, err)
					}
					added++
				}
			}
			if childLambdasExcept(nd, -1, store) {
				for _, p := range nd.Parents {
					if store.HasLambda(nd.ID, p) || !parentPisExcept(nd, p, store) {
						continue
					}
					if err := send(nd, p, ev, store, size, &stats); err != nil {
						return stats, fmt.Errorf("lambda-message from %q to %q: %w", nd.Name, nodes[p].Name, err)
					}
					added++
				}
			}
		}
		logger.Debug("Sweep finished.", "sweep", stats.Sweeps, "added", added)
		if added == 0 {
			return stats, nil
		}
	}
}

func allParentPis(nd *network.Node, store *msgstore.Store) bool {
	return parentPisExcept(nd, -1, store)
}

func parentPisExcept(nd *network.Node, exclude int, store *msgstore.Store) bool {
	for _, p := range nd.Parents {
		if p != exclude && !store.HasPi(p, nd.ID) {
			return false
		}
	}
	return true
}

func childLambdasExcept(nd *network.Node, exclude int, store *msgstore.Store) bool {
	for _, c := range nd.Children {
		if c != exclude && !store.HasLambda(c, nd.ID) {
			return false
		}
	}
	return true
}
