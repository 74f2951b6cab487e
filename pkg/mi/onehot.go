package mi

import (
	"mifs/pkg/errors"
	"mifs/pkg/model"
)

// ExpandOneHot rewrites ids into column names. An id naming a column is kept;
// an id naming the parent of one-hot columns (parent#label) is replaced by all
// of them, in column order. Repeated columns are kept once.
func ExpandOneHot(columns []string, ids []string) ([]string, error) {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	for _, id := range ids {
		if known[id] {
			add(id)
			continue
		}
		found := false
		for _, c := range columns {
			if c != id && model.OneHotParent(c) == id {
				add(c)
				found = true
			}
		}
		if !found {
			return nil, errors.UnknownFeature(id)
		}
	}
	return out, nil
}
