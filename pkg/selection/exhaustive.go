package selection

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"mifs/pkg/errors"
	"mifs/pkg/mi"
)

type combination struct {
	index   int
	members []int
}

type scored struct {
	index   int
	members []int
	score   float64
}

// better orders by score, then by enumeration index so equal scores resolve
// to the same combination whatever order they arrive in
func (s scored) better(other scored) bool {
	return s.score > other.score || (s.score == other.score && s.index < other.index)
}

// Exhaustive scores every k-subset of features by its joint mutual
// information with the targets and returns the best one. Subsets are scored
// on the pool workers while a reducer keeps only the best result seen.
func Exhaustive(ctx context.Context, ds mi.Table, features, targets []string, k int, opts Options) (*Combination, error) {
	if k < 1 {
		return nil, errors.InvalidInput("number of features to search must be positive, got %d", k)
	}
	if k > len(features) {
		return nil, errors.InvalidInput("cannot choose %d features out of %d", k, len(features))
	}
	engine, release, err := opts.engine(ds)
	if err != nil {
		return nil, err
	}
	defer release()
	if err := validate(engine, features, targets); err != nil {
		return nil, err
	}

	pool := opts.pool()
	progress := opts.progress()
	total := combin.Binomial(len(features), k)
	logger := log.Ctx(ctx)
	logger.Debug().Int("Combinations", total).Int("Workers", pool.Workers()).Msg("exhaustive search started")
	progress.Start("exhaustive search", total)
	defer progress.Finish()

	jobs := make(chan combination)
	results := make(chan scored, pool.Workers())
	done := make(chan struct{})
	best := make(chan *scored, 1)

	go func() {
		best <- reduceMax(results, done)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		gen := combin.NewCombinationGenerator(len(features), k)
		for index := 0; gen.Next(); index++ {
			select {
			case jobs <- combination{index: index, members: gen.Combination(nil)}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	pool.Spawn(g, func() error {
		for job := range jobs {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := engine.Evaluate(names(features, job.members), targets, false)
			if err != nil {
				return err
			}
			results <- scored{index: job.index, members: job.members, score: score}
			progress.Advance(1)
		}
		return nil
	})

	// every combination was dispatched and every worker returned before the
	// reducer is told to finish
	err = g.Wait()
	close(results)
	close(done)
	winner := <-best
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, errors.New(errors.CodeInternalError, "exhaustive search produced no result")
	}

	logger.Debug().Strs("Features", names(features, winner.members)).Float64("Score", winner.score).Msg("exhaustive search finished")
	return &Combination{Features: names(features, winner.members), Score: winner.score}, nil
}

// reduceMax keeps the best result received until done is closed, then drains
// whatever is still buffered in results before returning.
func reduceMax(results <-chan scored, done <-chan struct{}) *scored {
	var best *scored
	keep := func(r scored) {
		if best == nil || r.better(*best) {
			best = &r
		}
	}
	for {
		select {
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			keep(r)
		case <-done:
			if results != nil {
				for r := range results {
					keep(r)
				}
			}
			return best
		}
	}
}

func names(features []string, members []int) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = features[m]
	}
	return out
}
