package io

import (
	"fmt"
	"math"
	"strconv"

	"github.com/nlpodyssey/spago/pkg/mat"

	"mifs/pkg/model"
)

// Dataset is an immutable table of samples. Continuous columns hold their
// parsed values, categorical columns hold the code of their label.
type Dataset struct {
	*model.Metadata
	Values *mat.Dense
}

func NewDataset(metadata *model.Metadata, values *mat.Dense) *Dataset {
	return &Dataset{Metadata: metadata, Values: values}
}

func (d *Dataset) Rows() int {
	return d.Values.Rows()
}

func (d *Dataset) ColumnNames() []string {
	return d.Names()
}

func (d *Dataset) ColumnKind(j int) model.Kind {
	return d.Columns[j].Kind
}

// Column returns a copy of the values of column j in row order
func (d *Dataset) Column(j int) []float64 {
	values := make([]float64, d.Rows())
	for i := range values {
		values[i] = d.Values.At(i, j)
	}
	return values
}

type void struct{}

var Void = void{}

type Set map[string]void

func NewSet(values ...string) Set {
	set := Set{}
	for _, val := range values {
		set[val] = Void
	}
	return set
}

func (s Set) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

type DataError struct {
	Line  int
	Error string
}

// builder accumulates raw records from any source and decides column kinds
// once every record has been seen.
type builder struct {
	header      []string
	categorical Set
	records     [][]string
	lines       []int
}

func newBuilder(header []string, categorical Set) (*builder, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("empty data header")
	}
	seen := NewSet()
	for _, col := range header {
		if col == "" {
			return nil, fmt.Errorf("empty column name in data header")
		}
		if seen.Contains(col) {
			return nil, fmt.Errorf("duplicated column %s in data header", col)
		}
		seen[col] = Void
	}
	for col := range categorical {
		if !seen.Contains(col) {
			return nil, fmt.Errorf("categorical column %s not found in data header", col)
		}
	}
	return &builder{header: header, categorical: categorical}, nil
}

func (b *builder) add(line int, record []string) *DataError {
	if len(record) != len(b.header) {
		return &DataError{
			Line:  line,
			Error: fmt.Sprintf("expected %d fields, found %d", len(b.header), len(record)),
		}
	}
	for j, value := range record {
		if value == "" {
			return &DataError{
				Line:  line,
				Error: fmt.Sprintf("missing value for column %s", b.header[j]),
			}
		}
	}
	b.records = append(b.records, record)
	b.lines = append(b.lines, line)
	return nil
}

func (b *builder) build() (*Dataset, error) {
	if len(b.records) == 0 {
		return nil, fmt.Errorf("no valid records")
	}
	columns := make([]model.Column, len(b.header))
	for j, name := range b.header {
		if b.categorical.Contains(name) || !b.numeric(j) {
			columns[j] = model.NewCategoricalColumn(name)
		} else {
			columns[j] = model.NewContinuousColumn(name)
		}
	}

	values := mat.NewEmptyDense(len(b.records), len(columns))
	for i, record := range b.records {
		for j, raw := range record {
			switch columns[j].Kind {
			case model.Categorical:
				values.Set(i, j, float64(columns[j].Categories.ValueFor(raw)))
			default:
				value, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf("error parsing feature %s at line %d: %w", columns[j].Name, b.lines[i], err)
				}
				values.Set(i, j, value)
			}
		}
	}
	return NewDataset(model.NewMetadata(columns), values), nil
}

func (b *builder) numeric(j int) bool {
	for _, record := range b.records {
		value, err := strconv.ParseFloat(record[j], 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return false
		}
	}
	return true
}
