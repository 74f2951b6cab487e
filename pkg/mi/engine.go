package mi

import (
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"mifs/pkg/errors"
	"mifs/pkg/model"
)

const (
	DefaultBins      = 10
	DefaultPrecision = 3

	// bounds of the joint probability mass accepted from the estimator
	minMass = 0.97
	maxMass = 1.03
)

type Config struct {
	// Bins is the number of equal width bins continuous columns are cut into
	Bins int
	// Precision is the number of decimal digits results are rounded to
	Precision int
}

func DefaultConfig() Config {
	return Config{Bins: DefaultBins, Precision: DefaultPrecision}
}

func (c Config) Validate() error {
	if c.Bins < 1 {
		return errors.ConfigInvalid("number of bins must be positive, got %d", c.Bins)
	}
	if c.Precision < 0 {
		return errors.ConfigInvalid("precision must not be negative, got %d", c.Precision)
	}
	return nil
}

// Table is the read access the engine needs to a dataset
type Table interface {
	ColumnNames() []string
	ColumnKind(j int) model.Kind
	Rows() int
	Column(j int) []float64
}

// Engine answers repeated mutual information queries over a dataset that is
// discretized once, at construction. It is safe for concurrent use.
type Engine struct {
	Config

	columns []string
	index   map[string]int
	rows    int

	mu     sync.RWMutex
	binned [][]int
}

func NewEngine(t Table, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	columns := t.ColumnNames()
	e := &Engine{
		Config:  config,
		columns: columns,
		index:   make(map[string]int, len(columns)),
		rows:    t.Rows(),
		binned:  make([][]int, len(columns)),
	}
	for j, name := range columns {
		e.index[name] = j
		switch t.ColumnKind(j) {
		case model.Categorical:
			e.binned[j] = Passthrough(t.Column(j))
		default:
			e.binned[j] = Discretize(t.Column(j), config.Bins)
		}
	}
	log.Debug().Int("Columns", len(columns)).Int("Rows", e.rows).Int("Bins", config.Bins).Msg("discretized dataset")
	return e, nil
}

// Columns returns the names of the binned columns in dataset order
func (e *Engine) Columns() []string {
	out := make([]string, len(e.columns))
	copy(out, e.columns)
	return out
}

// Resolve rewrites ids into binned column names, expanding one-hot parents
func (e *Engine) Resolve(ids []string) ([]string, error) {
	return ExpandOneHot(e.columns, ids)
}

// Evaluate computes I(X;Y) between the column groups x and y, or
// I(X;Y)/H(X,Y) when normalized is set. A degenerate group with zero joint
// entropy makes the normalized value NaN.
func (e *Engine) Evaluate(x, y []string, normalized bool) (float64, error) {
	if len(x) == 0 || len(y) == 0 {
		return 0, errors.InvalidInput("mutual information needs two non-empty feature groups")
	}
	cx, err := e.Resolve(x)
	if err != nil {
		return 0, err
	}
	cy, err := e.Resolve(y)
	if err != nil {
		return 0, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.binned == nil {
		return 0, errors.New(errors.CodeReleased, "mutual information engine was released")
	}

	mi, err := score(Estimate(e.binned, e.indices(cx), e.indices(cy), e.rows), normalized, e.Precision)
	if err != nil {
		return 0, errors.Wrapf(err, "evaluating I(%v;%v)", x, y)
	}
	return mi, nil
}

// score turns a probability table into a rounded mutual information value,
// failing when the table breaks the estimator invariants.
func score(table ProbabilityTable, normalized bool, precision int) (float64, error) {
	mass := table.Mass()
	if !(mass >= minMass && mass <= maxMass) {
		return 0, errors.InvariantViolation("probability space not covered: joint mass %f", mass)
	}

	mi := table.MutualInformation()
	if normalized {
		mi /= table.JointEntropy()
	}
	mi = round(mi, precision)
	if mi < 0 {
		return 0, errors.InvariantViolation("mutual information is negative: %f", mi)
	}
	return mi, nil
}

// Release drops the binned table. Every later Evaluate fails.
func (e *Engine) Release() {
	e.mu.Lock()
	e.binned = nil
	e.mu.Unlock()
}

func (e *Engine) indices(names []string) []int {
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = e.index[n]
	}
	return idx
}

// round rounds half to even, so a tiny negative estimate becomes -0
func round(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.RoundToEven(v*scale) / scale
}
