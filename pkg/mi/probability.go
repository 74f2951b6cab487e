package mi

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Cell is one distinct observed combination of values across X and Y
type Cell struct {
	PXY float64
	PX  float64
	PY  float64
}

// ProbabilityTable holds one cell per distinct (x, y) combination, in order
// of first occurrence in the binned table.
type ProbabilityTable []Cell

// Estimate counts the frequencies of the x and y column groups of binned,
// jointly and separately. Each column of binned holds rows codes.
func Estimate(binned [][]int, x, y []int, rows int) ProbabilityTable {
	if rows == 0 {
		return nil
	}
	xy := make([]int, 0, len(x)+len(y))
	xy = append(append(xy, x...), y...)

	idX, nX := groupIDs(binned, x, rows)
	idY, nY := groupIDs(binned, y, rows)
	idXY, nXY := groupIDs(binned, xy, rows)

	countX := make([]int, nX)
	countY := make([]int, nY)
	countXY := make([]int, nXY)
	// representative row of every joint group
	first := make([]int, nXY)
	for i := range first {
		first[i] = -1
	}
	for r := 0; r < rows; r++ {
		countX[idX[r]]++
		countY[idY[r]]++
		countXY[idXY[r]]++
		if first[idXY[r]] < 0 {
			first[idXY[r]] = r
		}
	}

	n := float64(rows)
	table := make(ProbabilityTable, nXY)
	for g, r := range first {
		table[g] = Cell{
			PXY: float64(countXY[g]) / n,
			PX:  float64(countX[idX[r]]) / n,
			PY:  float64(countY[idY[r]]) / n,
		}
	}
	return table
}

// groupIDs assigns every row a dense identifier of its value combination over
// the given columns. Identifiers are numbered in order of first occurrence.
func groupIDs(binned [][]int, columns []int, rows int) ([]int, int) {
	ids := make([]int, rows)
	groups := 1
	for _, c := range columns {
		next := make(map[[2]int]int, groups)
		for r := 0; r < rows; r++ {
			key := [2]int{ids[r], binned[c][r]}
			id, ok := next[key]
			if !ok {
				id = len(next)
				next[key] = id
			}
			ids[r] = id
		}
		groups = len(next)
	}
	return ids, groups
}

func (t ProbabilityTable) Joint() []float64 {
	p := make([]float64, len(t))
	for i, c := range t {
		p[i] = c.PXY
	}
	return p
}

// Mass is the total joint probability, 1 up to floating point error
func (t ProbabilityTable) Mass() float64 {
	return floats.Sum(t.Joint())
}

// MutualInformation is sum p(x,y) log(p(x,y) / p(x) / p(y)), in nats
func (t ProbabilityTable) MutualInformation() float64 {
	terms := make([]float64, len(t))
	for i, c := range t {
		terms[i] = c.PXY * math.Log(c.PXY/(c.PX*c.PY))
	}
	return floats.Sum(terms)
}

// JointEntropy is -sum p(x,y) log p(x,y), in nats
func (t ProbabilityTable) JointEntropy() float64 {
	return stat.Entropy(t.Joint())
}
