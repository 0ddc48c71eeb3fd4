package extract

import (
	"context"

	"github.com/dgallion1/cadboq/internal/drawing"
	"golang.org/x/sync/errgroup"
)

// ExtractParallel splits entities into contiguous batches, measures each batch
// on its own goroutine, and merges the unrounded partials before rounding once.
// Counts match Extract exactly; float totals match up to summation order.
func ExtractParallel(ctx context.Context, entities []drawing.Entity, workers int) (Result, error) {
	if workers <= 1 || len(entities) < 2*workers {
		return Extract(entities), nil
	}

	batches := Partition(entities, workers)
	partials := make([]Result, len(batches))

	g, ctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, e := range batch {
				partials[i].add(e)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var total Result
	for _, p := range partials {
		total.Merge(p)
	}
	return total.Rounded(), nil
}

// Partition splits entities into at most n contiguous, near-equal batches.
func Partition(entities []drawing.Entity, n int) [][]drawing.Entity {
	if n <= 0 {
		n = 1
	}
	if n > len(entities) {
		n = len(entities)
	}
	batches := make([][]drawing.Entity, 0, n)
	size, rem := len(entities)/max(n, 1), len(entities)%max(n, 1)
	start := 0
	for i := range n {
		end := start + size
		if i < rem {
			end++
		}
		batches = append(batches, entities[start:end])
		start = end
	}
	return batches
}
