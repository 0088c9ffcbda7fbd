package classify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Category
	}{
		{0, Category{TierLow, Green, LabelLow}},
		{0.1, Category{TierLow, Green, LabelLow}},
		{0.3999, Category{TierLow, Green, LabelLow}},
		{0.4, Category{TierMedium, Yellow, LabelMedium}},
		{0.55, Category{TierMedium, Yellow, LabelMedium}},
		{0.6999, Category{TierMedium, Yellow, LabelMedium}},
		{0.7, Category{TierHigh, Red, LabelHigh}},
		{0.85, Category{TierHigh, Red, LabelHigh}},
		{1, Category{TierHigh, Red, LabelHigh}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ForScore(tc.score), "score %v", tc.score)
	}
}

func TestForScoreSweep(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		score := float64(i) / 1000
		got := TierForScore(score)
		switch {
		case score < 0.4:
			assert.Equal(t, TierLow, got, "score %v", score)
		case score < 0.7:
			assert.Equal(t, TierMedium, got, "score %v", score)
		default:
			assert.Equal(t, TierHigh, got, "score %v", score)
		}
	}
}

func TestForScoreNaNFallsToLow(t *testing.T) {
	assert.Equal(t, TierLow, TierForScore(math.NaN()))
}

func TestForLikelihoodIgnoresScore(t *testing.T) {
	assert.Equal(t, Red, ForLikelihood("High").Color)
	assert.Equal(t, Yellow, ForLikelihood("Medium").Color)
	assert.Equal(t, Green, ForLikelihood("Low").Color)
}

func TestForLikelihoodUnknownIsLow(t *testing.T) {
	for _, v := range []string{"", "high", "HIGH", "Very High", "unknown", " Medium"} {
		assert.Equal(t, TierLow, ForLikelihood(v).Tier, "likelihood %q", v)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "85.0%", Percent(0.85, 1))
	assert.Equal(t, "85%", Percent(0.85, 0))
	assert.Equal(t, "0.0%", Percent(0, 1))
	assert.Equal(t, "100%", Percent(1, 0))
	assert.Equal(t, "N/A", Percent(math.NaN(), 1))
}

func TestGuideOrder(t *testing.T) {
	g := Guide()
	if assert.Len(t, g, 3) {
		assert.Equal(t, TierLow, g[0].Category.Tier)
		assert.Equal(t, TierMedium, g[1].Category.Tier)
		assert.Equal(t, TierHigh, g[2].Category.Tier)
	}
}
