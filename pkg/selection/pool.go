package selection

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool bounds how many scoring goroutines a selector runs at once. Every
// call waits for the goroutines it started, so nothing outlives it.
type Pool struct {
	workers int
}

// NewPool returns a pool of the given size, or of GOMAXPROCS when workers is not positive
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

func (p *Pool) Workers() int {
	return p.workers
}

// Map calls fn for every i in [0, n) and returns once all calls returned.
// The first error cancels the context handed to the remaining calls.
func (p *Pool) Map(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, i)
		})
	}
	return g.Wait()
}

// Spawn starts fn once per worker in g
func (p *Pool) Spawn(g *errgroup.Group, fn func() error) {
	for i := 0; i < p.workers; i++ {
		g.Go(fn)
	}
}
