package selection

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"mifs/pkg/errors"
	"mifs/pkg/mi"
	"mifs/pkg/strategy"
)

const (
	MethodForward    = "forward"
	MethodBackward   = "backward"
	MethodExhaustive = "exhaustive"
)

// Forward grows the selected set one feature at a time, committing the
// candidate kind scores best given what is already selected, until
// min(k, len(features)) features are selected. k = 0 selects one feature.
// Ties go to the candidate listed first in features.
func Forward(ctx context.Context, ds mi.Table, features, targets []string, k int, kind strategy.Kind, opts Options) (*Result, error) {
	g, release, err := newGreedy(ds, features, targets, k, kind, opts)
	if err != nil {
		return nil, err
	}
	defer release()

	k = g.clamp(k)
	candidates := append([]string(nil), features...)
	result := &Result{Method: MethodForward, Strategy: kind}

	g.progress.Start("forward selection", k)
	defer g.progress.Finish()
	for len(result.Selected) < k {
		selected := append([]string(nil), result.Selected...)
		scores, err := g.scoreAll(ctx, candidates, func(string) []string { return selected })
		if err != nil {
			return nil, err
		}
		i := extremum(scores, kind.Maximize())
		result.Selected = append(result.Selected, candidates[i])
		result.Steps = append(result.Steps, Step{Feature: candidates[i], Score: scores[i]})
		log.Ctx(ctx).Debug().Str("Feature", candidates[i]).Float64("Score", scores[i]).Msg("selected")
		candidates = remove(candidates, i)
		g.progress.Advance(1)
	}
	result.Discarded = candidates
	return result, nil
}

// Backward shrinks the candidate set one feature at a time, discarding the
// candidate kind scores worst against the remaining candidates, itself
// included, until min(k, len(features)) remain. Strategies are maximize oriented, so the
// discarded feature is the one with the minimum score. MRMR is rejected.
func Backward(ctx context.Context, ds mi.Table, features, targets []string, k int, kind strategy.Kind, opts Options) (*Result, error) {
	if !kind.Backward() {
		return nil, errors.StrategyMismatch("%s cannot drive backward elimination: its redundancy term is undefined when removing features", kind)
	}
	g, release, err := newGreedy(ds, features, targets, k, kind, opts)
	if err != nil {
		return nil, err
	}
	defer release()

	k = g.clamp(k)
	candidates := append([]string(nil), features...)
	result := &Result{Method: MethodBackward, Strategy: kind}

	g.progress.Start("backward elimination", len(features)-k)
	defer g.progress.Finish()
	for len(candidates) > k {
		remaining := append([]string(nil), candidates...)
		scores, err := g.scoreAll(ctx, candidates, func(string) []string { return remaining })
		if err != nil {
			return nil, err
		}
		i := extremum(scores, !kind.Maximize())
		result.Discarded = append(result.Discarded, candidates[i])
		result.Steps = append(result.Steps, Step{Feature: candidates[i], Score: scores[i]})
		log.Ctx(ctx).Debug().Str("Feature", candidates[i]).Float64("Score", scores[i]).Msg("discarded")
		candidates = remove(candidates, i)
		g.progress.Advance(1)
	}
	result.Selected = candidates
	return result, nil
}

type greedy struct {
	kind     strategy.Kind
	targets  []string
	features int
	engine   *mi.Engine
	pool     *Pool
	progress Reporter
}

func newGreedy(ds mi.Table, features, targets []string, k int, kind strategy.Kind, opts Options) (*greedy, func(), error) {
	if k < 0 {
		return nil, nil, errors.InvalidInput("number of features to select must not be negative, got %d", k)
	}
	engine, release, err := opts.engine(ds)
	if err != nil {
		return nil, nil, err
	}
	if err := validate(engine, features, targets); err != nil {
		release()
		return nil, nil, err
	}
	return &greedy{
		kind:     kind,
		targets:  targets,
		features: len(features),
		engine:   engine,
		pool:     opts.pool(),
		progress: opts.progress(),
	}, release, nil
}

func (g *greedy) clamp(k int) int {
	if k == 0 {
		k = 1
	}
	if k > g.features {
		k = g.features
	}
	return k
}

// scoreAll scores every candidate concurrently. scores[i] belongs to candidates[i].
func (g *greedy) scoreAll(ctx context.Context, candidates []string, selected func(candidate string) []string) ([]float64, error) {
	scores := make([]float64, len(candidates))
	err := g.pool.Map(ctx, len(candidates), func(ctx context.Context, i int) error {
		score, err := g.kind.Score(candidates[i], selected(candidates[i]), g.targets, g.engine)
		if err != nil {
			return errors.Wrapf(err, "scoring %s with %s", candidates[i], g.kind)
		}
		scores[i] = score
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// extremum returns the index of the first maximum, or of the first minimum
// when maximize is false. NaN scores are skipped; 0 is returned when every
// score is NaN.
func extremum(scores []float64, maximize bool) int {
	best := -1
	for i, s := range scores {
		if math.IsNaN(s) {
			continue
		}
		if best < 0 || (maximize && s > scores[best]) || (!maximize && s < scores[best]) {
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func remove(names []string, i int) []string {
	out := make([]string, 0, len(names)-1)
	out = append(out, names[:i]...)
	return append(out, names[i+1:]...)
}
