package augment

import (
	"context"

	"golang.org/x/sync/errgroup"

	"hale/internal/domain/history"
)

// Variant is one transformed copy of a history together with the group
// element that produced it.
type Variant struct {
	Index     int                  `json:"index" bson:"index"`
	Transform Transform            `json:"transform" bson:"transform"`
	History   *history.GameHistory `json:"history" bson:"history"`
}

type Augmenter struct {
	tables  *history.Tables
	group   []Transform
	workers int
}

// NewAugmenter returns an Augmenter that runs up to workers transforms at
// once; workers <= 1 runs them one after another.
func NewAugmenter(tables *history.Tables, workers int) *Augmenter {
	if workers < 1 {
		workers = 1
	}
	return &Augmenter{
		tables:  tables,
		group:   Group(),
		workers: workers,
	}
}

func (a *Augmenter) Group() []Transform {
	return append([]Transform(nil), a.group...)
}

// Augment returns every symmetric variant of h in group order. Each
// variant owns its data; h is only read.
func (a *Augmenter) Augment(ctx context.Context, h *history.GameHistory) ([]Variant, error) {
	out := make([]Variant, len(a.group))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, t := range a.group {
		if gctx.Err() != nil {
			break
		}
		i, t := i, t // per-iteration copies (go1.22 loopvar semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Variant{Index: i, Transform: t, History: Apply(h, t, a.tables)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stream hands the variants to fn one at a time in group order without
// keeping them all in memory. It stops at the first error from fn.
func (a *Augmenter) Stream(ctx context.Context, h *history.GameHistory, fn func(Variant) error) error {
	for i, t := range a.group {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(Variant{Index: i, Transform: t, History: Apply(h, t, a.tables)}); err != nil {
			return err
		}
	}
	return nil
}
