// Package fanout calls one function over many inputs concurrently and keeps
// the outcomes in input order. Readiness uses it so a slow store check does
// not delay the others.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of fn for one item.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn once per item and returns after every call has finished.
// results[i] always belongs to items[i]; an error from one item never stops
// the others.
//
// A positive limit caps the calls in flight. Items that are scheduled after
// ctx is done are then recorded with ctx.Err() and fn is skipped for them.
// With limit <= 0 every item starts at once and fn is always called.
func Run[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			if limit > 0 && ctx.Err() != nil {
				results[i].Err = ctx.Err()
				return nil
			}
			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
