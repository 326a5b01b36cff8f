package app

import (
	"context"
	"fmt"

	"github.com/vk/circuitgraph/internal/config"
	"github.com/vk/circuitgraph/internal/ctxlog"
	"github.com/vk/circuitgraph/internal/execution"
	"github.com/vk/circuitgraph/internal/sink"
	"github.com/vk/circuitgraph/internal/translator"
	"golang.org/x/sync/errgroup"
)

// Run encodes every loaded architecture and writes the results to the
// configured sinks in declaration order. The first failure cancels the
// remaining work.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	archs := a.model.Architectures
	if len(archs) == 0 {
		a.logger.Warn("No architectures found, nothing to encode.")
		return nil
	}

	sinks, err := a.openSinks(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sinks.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close sinks: %w", cerr)
		}
	}()

	a.logger.Info("🚀 Encoding architectures...", "count", len(archs), "workers", a.config.workers())
	records := make([]*sink.Record, len(archs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.workers())
	for i, arch := range archs {
		g.Go(func() error {
			rec, err := a.encodeArchitecture(gctx, arch)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, rec := range records {
		if err := sinks.Write(ctx, rec); err != nil {
			return err
		}
	}

	a.logger.Info("🏁 Encoding finished.", "count", len(records))
	return nil
}

func (a *App) encodeArchitecture(ctx context.Context, arch *config.Architecture) (*sink.Record, error) {
	ctx, logger := ctxlog.With(ctx, "architecture", arch.Name)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enc, err := arch.Encoding()
	if err != nil {
		return nil, err
	}
	kinds, err := arch.Allowed()
	if err != nil {
		return nil, err
	}
	cat, err := a.cache.Get(kinds)
	if err != nil {
		return nil, fmt.Errorf("architecture %q: %w", arch.Name, err)
	}

	opts := EncodeOptions{Catalog: cat}
	if arch.Seed != nil {
		opts.Rand = translator.NewSource(*arch.Seed)
	}
	if a.config.Schedule == ScheduleMoments {
		opts.Adapter = execution.NewMoments(enc.Registers, cat)
	}

	res, err := Encode(ctx, enc, opts)
	if err != nil {
		return nil, fmt.Errorf("architecture %q: %w", arch.Name, err)
	}

	logger.Info("Encoded architecture.", "operations", len(res.Program), "nodes", res.Graph.Len(), "edges", len(res.Graph.Edges()))
	return &sink.Record{
		Name:       arch.Name,
		Vocabulary: cat.Kinds(),
		Program:    res.Program,
		Graph:      res.Graph,
	}, nil
}

// openSinks builds the sinks named by the configuration. JSON lines are
// always written.
func (a *App) openSinks(ctx context.Context) (sink.Multi, error) {
	var sinks sink.Multi
	fail := func(err error) (sink.Multi, error) {
		_ = sinks.Close()
		return nil, err
	}

	if path := a.config.OutputPath; path == "" || path == "-" {
		sinks = append(sinks, sink.NewJSONLines(a.outW))
	} else {
		s, err := sink.CreateJSONLines(path)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	if a.config.DOTDir != "" {
		s, err := sink.NewDOTDir(a.config.DOTDir)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	if a.config.PublishURL != "" {
		s, err := sink.Dial(ctx, sink.PublisherConfig{
			URL:                a.config.PublishURL,
			Namespace:          a.config.PublishNamespace,
			Event:              a.config.PublishEvent,
			InsecureSkipVerify: a.config.InsecureSkipVerify,
		})
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	a.logger.Debug("Sinks opened.", "count", len(sinks))
	return sinks, nil
}
