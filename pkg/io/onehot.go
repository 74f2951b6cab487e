package io

import (
	"fmt"

	"github.com/nlpodyssey/spago/pkg/mat"

	"mifs/pkg/model"
)

// OneHot returns a copy of ds where every named categorical column is replaced,
// in place, by one binary column per label. The binary columns are named
// parent#label and ordered by label code.
func OneHot(ds *Dataset, columns ...string) (*Dataset, error) {
	expand := NewSet(columns...)
	for name := range expand {
		j, ok := ds.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("one-hot column %s not found", name)
		}
		if ds.Columns[j].Kind != model.Categorical {
			return nil, fmt.Errorf("one-hot column %s is not categorical", name)
		}
	}

	// source[k] is the column of ds feeding output column k, code[k] the
	// label it encodes or -1 when the column is copied as is
	var outColumns []model.Column
	var source, code []int
	for j, c := range ds.Columns {
		if !expand.Contains(c.Name) {
			outColumns = append(outColumns, c)
			source = append(source, j)
			code = append(code, -1)
			continue
		}
		for label := 0; label < c.Categories.Size(); label++ {
			binary := model.NewCategoricalColumn(model.OneHotName(c.Name, c.Categories.IndexToName[label]))
			binary.Categories.Set("0", 0)
			binary.Categories.Set("1", 1)
			outColumns = append(outColumns, binary)
			source = append(source, j)
			code = append(code, label)
		}
	}

	values := mat.NewEmptyDense(ds.Rows(), len(outColumns))
	for i := 0; i < ds.Rows(); i++ {
		for k := range outColumns {
			v := ds.Values.At(i, source[k])
			if code[k] >= 0 {
				if int(v) == code[k] {
					v = 1
				} else {
					v = 0
				}
			}
			values.Set(i, k, v)
		}
	}
	return NewDataset(model.NewMetadata(outColumns), values), nil
}
