// Package check implements the consistency, cycle and orphan checks that
// run over a completed relationship graph.
package check

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
)

// Labeler formats an identifier for messages, e.g. "ADR-0001".
type Labeler func(models.ID) string

// Options tunes the checks.
type Options struct {
	Label Labeler
	// DedupeCycles reports each distinct cycle once instead of once per
	// member node.
	DedupeCycles bool
}

func (o Options) label() Labeler {
	if o.Label != nil {
		return o.Label
	}
	return func(id models.ID) string { return string(id) }
}

// Results holds each checker's findings in production order.
type Results struct {
	Consistency []models.Finding
	Cycles      []models.Finding
	Orphans     []models.Finding
}

// Run executes the three checks in parallel over g. The graph is only
// read and every checker appends to its own slice. The error is non-nil
// only when ctx is cancelled before the checks finish.
func Run(ctx context.Context, g *graph.Graph, opts Options) (*Results, error) {
	label := opts.label()
	res := &Results{}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		res.Consistency = Consistency(g, label)
		return nil
	})
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		res.Cycles = Cycles(g, label, opts.DedupeCycles)
		return nil
	})
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		res.Orphans = Orphans(g, label)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
