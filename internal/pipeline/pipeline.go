package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Mapper transforms the item at index i.
type Mapper[T, R any] func(ctx context.Context, i int, item T) (R, error)

// Map runs fn over items on at most workers goroutines. Results keep the
// order of items. The first error cancels the remaining work and is returned.
func Map[T, R any](ctx context.Context, items []T, workers int, fn Mapper[T, R]) ([]R, error) {
	if len(items) == 0 || fn == nil {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}

	out := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, i, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
