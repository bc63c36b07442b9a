// Package inference is the public entry point for exact belief propagation
// over a network.Network. An Engine is bound to one network and may serve any
// number of concurrent Infer calls; each call works on its own snapshot,
// message store and result.
package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/beliefgrid/internal/belief"
	"github.com/vk/beliefgrid/internal/ctxlog"
	"github.com/vk/beliefgrid/internal/propagation"
	"github.com/vk/beliefgrid/network"
)

// Strategy selects the message scheduler.
type Strategy string

const (
	// StrategyTree computes every message once in a collect and a distribute
	// pass over the polytree.
	StrategyTree Strategy = "tree"
	// StrategyFixpoint sweeps all nodes until no further message can be
	// produced.
	StrategyFixpoint Strategy = "fixpoint"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case StrategyTree:
		return StrategyTree, nil
	case StrategyFixpoint:
		return StrategyFixpoint, nil
	default:
		return "", fmt.Errorf("unknown strategy %q: must be 'tree' or 'fixpoint'", s)
	}
}

func (s Strategy) scheduler() propagation.Scheduler {
	if s == StrategyFixpoint {
		return propagation.FixpointScheduler{}
	}
	return propagation.TreeScheduler{}
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	strategy Strategy
}

// WithStrategy overrides the default tree strategy.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// Stats describes the propagation work done by one Infer call.
type Stats struct {
	Strategy       Strategy
	Sweeps         int
	PiMessages     int
	LambdaMessages int
}

// Engine runs inference over a single network.
type Engine[V comparable] struct {
	net      *network.Network[V]
	strategy Strategy
}

// New binds an engine to net.
func New[V comparable](net *network.Network[V], opts ...Option) *Engine[V] {
	o := options{strategy: StrategyTree}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine[V]{net: net, strategy: o.strategy}
}

// Strategy reports the scheduler in use.
func (e *Engine[V]) Strategy() Strategy {
	return e.strategy
}

// Infer computes the posterior distribution of every node given evidence,
// a map from node name to observed value.
//
// Errors: *network.QueryError for unknown names or out-of-domain values,
// *network.ConstructionError when a non-root node was never given a
// dependency, *network.InconsistentEvidenceError when the evidence has zero
// probability under the model.
func (e *Engine[V]) Infer(ctx context.Context, evidence map[string]V) (*Posteriors[V], error) {
	logger := ctxlog.FromContext(ctx)

	ev, err := e.net.ResolveEvidence(evidence)
	if err != nil {
		return nil, err
	}
	// Nodes are only ever appended, so every resolved ID is in the snapshot.
	snap := e.net.Snapshot()
	if err := snap.Complete(); err != nil {
		return nil, err
	}
	store, pstats, err := propagation.Propagate(ctx, snap, ev, e.strategy.scheduler())
	if err != nil {
		return nil, fmt.Errorf("propagation failed: %w", err)
	}

	probs, err := belief.Combine(snap, ev, store)
	if err != nil {
		return nil, err
	}

	stats := Stats{
		Strategy:       e.strategy,
		Sweeps:         pstats.Sweeps,
		PiMessages:     pstats.PiMessages,
		LambdaMessages: pstats.LambdaMessages,
	}
	logger.Debug("Inference complete.", "nodes", len(probs), "evidence", len(ev), "sweeps", stats.Sweeps)

	names := make([]string, len(snap.Nodes()))
	for i, nd := range snap.Nodes() {
		names[i] = nd.Name
	}
	return &Posteriors[V]{net: e.net, names: names, probs: probs, stats: stats}, nil
}

// InferredProbability returns P(name = value | evidence) from a result of
// Infer.
func (e *Engine[V]) InferredProbability(p *Posteriors[V], name string, value V) (float64, error) {
	return p.Probability(name, value)
}
