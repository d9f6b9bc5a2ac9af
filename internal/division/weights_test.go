package division

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFactorSumsToHundred(t *testing.T) {
	cases := [][]float64{
		{100},
		{50, 50},
		{30, 30},
		{60, 40},
		{1, 2, 3, 4, 5},
		{0.5, 0.25, 0.25},
		{33, 33, 33},
		{99.9, 0.1},
	}
	for _, weights := range cases {
		total := 0.0
		for _, w := range weights {
			total += w
		}
		norm := normalizeFactor(total)
		sum := 0.0
		for _, w := range weights {
			sum += w * norm
		}
		assert.InDelta(t, 100, sum, 1e-9, "weights %v", weights)
	}
}

func TestNormalizeFactorZeroTotal(t *testing.T) {
	assert.Zero(t, normalizeFactor(0))
	assert.Zero(t, normalizeFactor(-5))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(math.NaN()))
	assert.Equal(t, 0.0, clamp01(-0.1))
	assert.Equal(t, 0.0, clamp01(0))
	assert.Equal(t, 0.5, clamp01(0.5))
	assert.Equal(t, 1.0, clamp01(1))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.Equal(t, 1.0, clamp01(math.Inf(1)))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 50.0, round2(30*(100.0/60.0)))
	assert.Equal(t, 33.33, round2(100.0/3.0))
	assert.Equal(t, 66.67, round2(200.0/3.0))
}

func TestSuggestEqualWeights(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, SuggestEqualWeights(3))
	assert.Equal(t, []int{100}, SuggestEqualWeights(1))
	assert.Equal(t, []int{50, 50}, SuggestEqualWeights(2))
	assert.Empty(t, SuggestEqualWeights(0))
	assert.Empty(t, SuggestEqualWeights(-2))

	for n := 1; n <= 20; n++ {
		weights := SuggestEqualWeights(n)
		require.Len(t, weights, n)
		sum, min, max := 0, weights[0], weights[0]
		for _, w := range weights {
			sum += w
			if w < min {
				min = w
			}
			if w > max {
				max = w
			}
		}
		assert.Equal(t, 100, sum, "n=%d", n)
		assert.LessOrEqual(t, max-min, 1, "n=%d spread", n)
	}
}
