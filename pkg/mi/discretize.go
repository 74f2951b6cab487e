package mi

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// widen is the fraction of the value range added to the upper edge so that
// the maximum falls inside the last left-closed bin. A constant column is
// instead widened on both sides by the same fraction of its value.
const widen = 0.001

// Discretize maps values onto bins equal width intervals spanning their
// range. Intervals are closed on the left; codes are in [0, bins).
func Discretize(values []float64, bins int) []int {
	codes := make([]int, len(values))
	if len(values) == 0 {
		return codes
	}
	edges := binEdges(floats.Min(values), floats.Max(values), bins)
	for i, v := range values {
		// first edge strictly above v closes the bin holding v
		code := sort.Search(len(edges), func(e int) bool { return edges[e] > v }) - 1
		if code < 0 {
			code = 0
		} else if code >= bins {
			code = bins - 1
		}
		codes[i] = code
	}
	return codes
}

func binEdges(min, max float64, bins int) []float64 {
	if min == max {
		delta := widen
		if min != 0 {
			delta = widen * math.Abs(min)
		}
		min -= delta
		max += delta
		return linspace(min, max, bins+1)
	}
	edges := linspace(min, max, bins+1)
	edges[bins] += (max - min) * widen
	return edges
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Passthrough keeps categorical codes unchanged
func Passthrough(values []float64) []int {
	codes := make([]int, len(values))
	for i, v := range values {
		codes[i] = int(v)
	}
	return codes
}
