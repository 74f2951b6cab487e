package model

import (
	"fmt"
	"strings"
)

// NameMap implements a bidirectional mapping between a name and an index
type NameMap struct {
	NameToIndex map[string]int
	IndexToName map[int]string
}

func (f NameMap) Set(name string, index int) {
	f.NameToIndex[name] = index
	f.IndexToName[index] = name
}

func (f NameMap) Size() int {
	return len(f.IndexToName)
}

func (f NameMap) ContainsName(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok
}

// ValueFor returns the index of name, adding it with the next free index if unseen
func (f NameMap) ValueFor(name string) int {
	index, ok := f.NameToIndex[name]
	if !ok {
		index = f.Size()
		f.Set(name, index)
	}
	return index
}

func NewNameMap() NameMap {
	return NameMap{
		NameToIndex: map[string]int{},
		IndexToName: map[int]string{},
	}
}

// Kind tells how the values of a column are turned into discrete codes
type Kind int

const (
	// Continuous columns are binned into equal width intervals
	Continuous Kind = iota
	// Categorical columns already hold integer codes and pass through
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Column struct {
	Name string
	Kind Kind

	// Categories maps the labels of a categorical column to their codes.
	// It is empty for continuous columns.
	Categories NameMap
}

func NewContinuousColumn(name string) Column {
	return Column{Name: name, Kind: Continuous, Categories: NewNameMap()}
}

func NewCategoricalColumn(name string) Column {
	return Column{Name: name, Kind: Categorical, Categories: NewNameMap()}
}

type Metadata struct {
	Columns []Column

	// ColumnIndex maps a column name to its position in Columns
	ColumnIndex map[string]int
}

func NewMetadata(columns []Column) *Metadata {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c.Name] = i
	}
	return &Metadata{Columns: columns, ColumnIndex: index}
}

func (d *Metadata) Names() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

func (d *Metadata) Lookup(name string) (int, bool) {
	i, ok := d.ColumnIndex[name]
	return i, ok
}

// OneHotSeparator joins a categorical parent column and one of its labels in
// the name of the binary column encoding that label, as in "color#red".
const OneHotSeparator = "#"

func OneHotName(parent, label string) string {
	return parent + OneHotSeparator + label
}

// OneHotParent returns the parent part of a one-hot column name, or name
// itself when it holds no separator.
func OneHotParent(name string) string {
	if i := strings.Index(name, OneHotSeparator); i >= 0 {
		return name[:i]
	}
	return name
}
