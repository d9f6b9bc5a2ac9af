package division

import "math"

// normalizeFactor returns the multiplier that rescales raw weights so their
// contributions sum to 100. A zero total means every contribution is zero.
func normalizeFactor(totalWeight float64) float64 {
	if totalWeight > 0 {
		return 100 / totalWeight
	}
	return 0
}

// validWeight is the range check applied during division edits. Out-of-range
// entries are dropped, not errored.
func validWeight(w float64) bool {
	return w >= 0 && w <= 100
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// SuggestEqualWeights produces an equal split over count items summing
// exactly to 100, with the remainder spread over the first items.
// Used by client-side forms when adding division entries.
func SuggestEqualWeights(count int) []int {
	if count <= 0 {
		return []int{}
	}
	base := 100 / count
	rem := 100 - base*count
	out := make([]int, count)
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}
