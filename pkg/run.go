package pkg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mifs/pkg/io"
	"mifs/pkg/mi"
	"mifs/pkg/model"
	"mifs/pkg/selection"
	"mifs/pkg/strategy"
)

type RunParameters struct {
	Data io.DataParameters

	// Features are the candidates. Every column that is not a target is a
	// candidate when empty.
	Features []string
	Targets  []string

	// OneHot lists categorical columns replaced by binary columns before
	// scoring. They are still named by their parent in Features and Targets.
	OneHot []string

	K        int
	Method   string
	Strategy string

	MI            mi.Config
	Workers       int
	ProgressEvery int

	OutputFile string
}

// Run loads the dataset, runs the requested selection method over it and
// writes the resulting feature,score table to OutputFile when set.
func Run(ctx context.Context, p RunParameters) (*Report, error) {
	ctx = withRun(ctx)
	logger := log.Ctx(ctx)

	kind := strategy.MIM
	if p.Method != selection.MethodExhaustive {
		var err error
		if kind, err = strategy.Parse(p.Strategy); err != nil {
			return nil, err
		}
	}

	ds, err := loadDataset(ctx, p.Data, p.OneHot)
	if err != nil {
		return nil, err
	}
	features := p.Features
	if len(features) == 0 {
		features = candidates(ds, p.OneHot, p.Targets)
	}

	engine, err := newEngine(ds, p.MI)
	if err != nil {
		return nil, err
	}
	defer engine.Release()

	opts := selection.Options{
		Engine:   engine,
		Pool:     selection.NewPool(p.Workers),
		Progress: selection.NewLogReporter(*logger, p.ProgressEvery),
	}
	logger.Info().Str("Method", p.Method).Int("Candidates", len(features)).Strs("Targets", p.Targets).Int("K", p.K).Msg("running selection")

	var report *Report
	switch p.Method {
	case selection.MethodForward, "":
		result, err := selection.Forward(ctx, ds, features, p.Targets, p.K, kind, opts)
		if err != nil {
			return nil, err
		}
		report = resultReport(result)
	case selection.MethodBackward:
		result, err := selection.Backward(ctx, ds, features, p.Targets, p.K, kind, opts)
		if err != nil {
			return nil, err
		}
		report = resultReport(result)
	case selection.MethodExhaustive:
		c, err := selection.Exhaustive(ctx, ds, features, p.Targets, p.K, opts)
		if err != nil {
			return nil, err
		}
		report = combinationReport(c)
	default:
		return nil, fmt.Errorf("unknown method %q", p.Method)
	}

	report.Log(*logger)
	if err := report.WriteFile(p.OutputFile); err != nil {
		return nil, err
	}
	return report, nil
}

// MutualInformation loads the dataset and returns I(x;y), normalized by the
// joint entropy when asked.
func MutualInformation(ctx context.Context, data io.DataParameters, oneHot, x, y []string, config mi.Config, normalized bool) (float64, error) {
	ctx = withRun(ctx)
	ds, err := loadDataset(ctx, data, oneHot)
	if err != nil {
		return 0, err
	}
	engine, err := newEngine(ds, config)
	if err != nil {
		return 0, err
	}
	defer engine.Release()

	value, err := engine.Evaluate(x, y, normalized)
	if err != nil {
		return 0, err
	}
	log.Ctx(ctx).Info().Strs("X", x).Strs("Y", y).Bool("Normalized", normalized).Float64("MI", value).Msg("")
	return value, nil
}

func newEngine(ds *io.Dataset, config mi.Config) (*mi.Engine, error) {
	if config == (mi.Config{}) {
		config = mi.DefaultConfig()
	}
	return mi.NewEngine(ds, config)
}

func withRun(ctx context.Context) context.Context {
	return log.With().Str("run", uuid.New().String()).Logger().WithContext(ctx)
}

func loadDataset(ctx context.Context, p io.DataParameters, oneHot []string) (*io.Dataset, error) {
	ds, dataErrors, err := io.LoadData(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error loading data: %w", err)
	}
	printDataErrors(ctx, dataErrors)
	log.Ctx(ctx).Debug().Int("Rows", ds.Rows()).Int("Columns", len(ds.Columns)).Int("Skipped", len(dataErrors)).Msg("data loaded")

	if len(oneHot) > 0 {
		if ds, err = io.OneHot(ds, oneHot...); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// candidates lists the dataset columns that are not targets, one-hot columns
// folded back into their parent.
func candidates(ds *io.Dataset, oneHot, targets []string) []string {
	expanded := io.NewSet(oneHot...)
	skip := io.NewSet(targets...)
	var out []string
	for _, name := range ds.ColumnNames() {
		if parent := model.OneHotParent(name); expanded.Contains(parent) {
			name = parent
		}
		if skip.Contains(name) {
			continue
		}
		skip[name] = io.Void
		out = append(out, name)
	}
	return out
}
