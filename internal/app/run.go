package app

import (
	"context"
	"fmt"

	"github.com/vk/beliefgrid/inference"
	"github.com/vk/beliefgrid/internal/builder"
	"github.com/vk/beliefgrid/internal/config"
	"github.com/vk/beliefgrid/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Run loads the network definitions, builds the network, runs inference
// with the combined evidence and writes the report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Info("Run started.", "paths", a.config.NetworkPaths, "strategy", a.config.Strategy)

	model, err := a.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load network definition: %w", err)
	}
	for name, v := range a.config.Evidence {
		if prev, ok := model.Evidence[name]; ok && prev != v {
			a.logger.Debug("Evidence overridden from the command line.", "node", name, "file_value", prev, "value", v)
		}
		model.Evidence[name] = v
	}

	res, err := builder.Build(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to build network: %w", err)
	}

	if a.config.Describe {
		if err := res.Network.Describe(a.outW); err != nil {
			return fmt.Errorf("failed to describe network: %w", err)
		}
	}

	strategy, err := inference.ParseStrategy(a.config.Strategy)
	if err != nil {
		return err
	}
	engine := inference.New(res.Network, inference.WithStrategy(strategy))
	post, err := engine.Infer(ctx, res.Evidence)
	if err != nil {
		return fmt.Errorf("inference failed: %w", err)
	}

	rep := newReport(a.runID, res, post)
	switch a.config.Output {
	case OutputJSON:
		err = rep.writeJSON(a.outW)
	default:
		err = rep.writeText(a.outW)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	stats := post.Stats()
	a.logger.Info("Run finished.", "nodes", len(rep.Nodes), "sweeps", stats.Sweeps, "pi_messages", stats.PiMessages, "lambda_messages", stats.LambdaMessages)
	return nil
}

// load runs every loader over the configured paths concurrently and merges
// the results in loader order.
func (a *App) load(ctx context.Context) (*config.Model, error) {
	parts := make([]*config.Model, len(a.loaders))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range a.loaders {
		g.Go(func() error {
			m, err := l.Load(gctx, a.config.NetworkPaths...)
			if err != nil {
				return err
			}
			parts[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	model := config.NewModel()
	for _, p := range parts {
		if err := model.Merge(p); err != nil {
			return nil, err
		}
	}
	a.logger.Debug("Configuration loaded and translated into unified model.", "loaders", len(a.loaders), "nodes", len(model.Nodes))
	return model, nil
}
