// Package selection implements greedy forward selection, greedy backward
// elimination and exhaustive search of feature subsets scored with mutual
// information against a set of targets.
package selection

import (
	"mifs/pkg/errors"
	"mifs/pkg/mi"
	"mifs/pkg/strategy"
)

type Options struct {
	// Engine is reused when set and left to its owner. Otherwise an engine
	// is built from the dataset with MI and released before returning.
	Engine *mi.Engine
	MI     mi.Config

	Pool     *Pool
	Progress Reporter
}

func (o Options) pool() *Pool {
	if o.Pool == nil {
		return NewPool(0)
	}
	return o.Pool
}

func (o Options) progress() Reporter {
	if o.Progress == nil {
		return NopReporter()
	}
	return o.Progress
}

// engine returns the engine to score with and the function releasing it
func (o Options) engine(ds mi.Table) (*mi.Engine, func(), error) {
	if o.Engine != nil {
		return o.Engine, func() {}, nil
	}
	if ds == nil {
		return nil, nil, errors.InvalidInput("neither a dataset nor a mutual information engine was given")
	}
	config := o.MI
	if config == (mi.Config{}) {
		config = mi.DefaultConfig()
	}
	e, err := mi.NewEngine(ds, config)
	if err != nil {
		return nil, nil, err
	}
	return e, e.Release, nil
}

// Step is a feature committed by a greedy selector and the score that justified it
type Step struct {
	Feature string
	Score   float64
}

type Result struct {
	Method   string
	Strategy strategy.Kind

	// Selected holds the kept features: in commit order for forward
	// selection, in input order for backward elimination.
	Selected []string

	// Discarded holds the features left out: in input order for forward
	// selection, in removal order for backward elimination.
	Discarded []string

	// Steps pairs every committed feature with its score, in commit order
	Steps []Step
}

// Combination is a feature subset with its joint mutual information against the targets
type Combination struct {
	Features []string
	Score    float64
}

// validate checks that features and targets are non-empty, free of
// repetitions, known to the engine and disjoint once one-hot parents are
// expanded into their columns.
func validate(e *mi.Engine, features, targets []string) error {
	if len(features) == 0 {
		return errors.InvalidInput("no candidate features given")
	}
	if len(targets) == 0 {
		return errors.InvalidInput("no targets given")
	}
	if err := unique("feature", features); err != nil {
		return err
	}
	if err := unique("target", targets); err != nil {
		return err
	}

	owner := map[string]string{}
	for _, f := range features {
		columns, err := e.Resolve([]string{f})
		if err != nil {
			return err
		}
		for _, c := range columns {
			owner[c] = f
		}
	}
	for _, t := range targets {
		columns, err := e.Resolve([]string{t})
		if err != nil {
			return err
		}
		for _, c := range columns {
			if f, ok := owner[c]; ok {
				return errors.InvalidInput("target %s overlaps feature %s", t, f)
			}
		}
	}
	return nil
}

func unique(what string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return errors.InvalidInput("%s %s listed twice", what, n)
		}
		seen[n] = true
	}
	return nil
}
