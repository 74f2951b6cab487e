// Package strategy holds the scoring formulas greedy selectors use to rank a
// candidate feature given the features already selected.
//
// Every formula starts from the relevance of the candidate alone and, once
// something has been selected, combines pairwise or joint mutual information
// with the selected set. All of them rank higher scores as more desirable.
package strategy

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"mifs/pkg/errors"
)

// Evaluator computes I(X;Y), or I(X;Y)/H(X,Y) when normalized is set
type Evaluator interface {
	Evaluate(x, y []string, normalized bool) (float64, error)
}

type Kind int

const (
	// MIM is Mutual Information Maximization, Battiti (1994)
	MIM Kind = iota
	// DISR is Double Input Symmetrical Relevance, Meyer (2006)
	DISR
	// JMI is pairwise Joint Mutual Information, Yang (1999)
	JMI
	// JMIM is Joint Mutual Information Maximization, Bennasar (2015). It
	// scores with raw mutual information and is the unnormalized
	// counterpart of NJMIM.
	JMIM
	// NJMIM is the entropy normalized JMIM, Bennasar (2015)
	NJMIM
	// MRMR is Max-Relevance Min-Redundancy, Peng (2005)
	MRMR
	// VDISR scores the candidate jointly with the whole selected set
	VDISR
	// VMRMR1 replaces the mean pairwise redundancy with I(candidate; selected)
	VMRMR1
	// VMRMR2 also replaces the relevance term with I(selected + candidate; targets)
	VMRMR2
)

var names = map[Kind]string{
	MIM:    "mim",
	DISR:   "disr",
	JMI:    "jmi",
	JMIM:   "jmim",
	NJMIM:  "njmim",
	MRMR:   "mrmr",
	VDISR:  "vdisr",
	VMRMR1: "vmrmr1",
	VMRMR2: "vmrmr2",
}

// Kinds lists every strategy in declaration order
func Kinds() []Kind {
	return []Kind{MIM, DISR, JMI, JMIM, NJMIM, MRMR, VDISR, VMRMR1, VMRMR2}
}

func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func Parse(name string) (Kind, error) {
	for k, n := range names {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return 0, errors.InvalidInput("unknown strategy %q", name)
}

// Maximize reports whether higher scores are better. A backward eliminator
// discards the candidate with the worst score, so it minimizes these.
func (k Kind) Maximize() bool {
	return true
}

// Backward reports whether the strategy can rank candidates for removal.
// The MRMR redundancy term against the remaining set is meaningless there.
func (k Kind) Backward() bool {
	return k != MRMR
}

// Score rates candidate given the selected features and the targets
func (k Kind) Score(candidate string, selected, targets []string, mi Evaluator) (float64, error) {
	c := []string{candidate}
	if len(selected) == 0 || k == MIM {
		return mi.Evaluate(c, targets, k.normalized())
	}

	switch k {
	case DISR:
		return reduce(selected, stats.Sum, func(s string) (float64, error) {
			return mi.Evaluate([]string{candidate, s}, targets, true)
		})
	case JMI:
		return reduce(selected, stats.Sum, func(s string) (float64, error) {
			return mi.Evaluate([]string{candidate, s}, targets, false)
		})
	case JMIM, NJMIM:
		return reduce(selected, stats.Min, func(s string) (float64, error) {
			return mi.Evaluate([]string{candidate, s}, targets, k == NJMIM)
		})
	case MRMR:
		relevance, err := mi.Evaluate(c, targets, false)
		if err != nil {
			return 0, err
		}
		redundancy, err := reduce(selected, stats.Mean, func(s string) (float64, error) {
			return mi.Evaluate(c, []string{s}, false)
		})
		if err != nil {
			return 0, err
		}
		return relevance - redundancy, nil
	case VDISR:
		return mi.Evaluate(append(c, selected...), targets, true)
	case VMRMR1, VMRMR2:
		var relevance float64
		var err error
		if k == VMRMR1 {
			relevance, err = mi.Evaluate(c, targets, false)
		} else {
			relevance, err = mi.Evaluate(append(append([]string{}, selected...), candidate), targets, false)
		}
		if err != nil {
			return 0, err
		}
		redundancy, err := mi.Evaluate(c, selected, false)
		if err != nil {
			return 0, err
		}
		return relevance - redundancy, nil
	default:
		return 0, errors.InvalidInput("unknown strategy %v", k)
	}
}

// normalized tells whether the first iteration uses the normalized relevance
func (k Kind) normalized() bool {
	switch k {
	case DISR, NJMIM, VDISR:
		return true
	default:
		return false
	}
}

func reduce(selected []string, combine func(stats.Float64Data) (float64, error), term func(string) (float64, error)) (float64, error) {
	values := make(stats.Float64Data, len(selected))
	for i, s := range selected {
		v, err := term(s)
		if err != nil {
			return 0, err
		}
		values[i] = v
	}
	return combine(values)
}
