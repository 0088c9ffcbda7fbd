package classify

import (
	"math"
	"strconv"
)

type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Red    Color = "red"
)

const (
	HighThreshold   = 0.7
	MediumThreshold = 0.4
)

const (
	LabelHigh   = "Likely AI-Generated"
	LabelMedium = "Possibly AI-Generated"
	LabelLow    = "Likely Human-Written"
)

// Category is the presentation bucket shared by text color, background,
// badge fill, progress fill and sentence highlight.
type Category struct {
	Tier  Tier
	Color Color
	Label string
}

var categories = map[Tier]Category{
	TierHigh:   {Tier: TierHigh, Color: Red, Label: LabelHigh},
	TierMedium: {Tier: TierMedium, Color: Yellow, Label: LabelMedium},
	TierLow:    {Tier: TierLow, Color: Green, Label: LabelLow},
}

// TierForScore partitions [0,1] into three tiers. Each threshold belongs to
// the tier above it.
func TierForScore(score float64) Tier {
	if score >= HighThreshold {
		return TierHigh
	}
	if score >= MediumThreshold {
		return TierMedium
	}
	return TierLow
}

// ForScore derives the category from a raw score. Used for overall results.
func ForScore(score float64) Category {
	return categories[TierForScore(score)]
}

// ForLikelihood maps an upstream ai_likelihood label without looking at any
// score. Anything other than exactly "High" or "Medium" is Low.
func ForLikelihood(likelihood string) Category {
	switch Tier(likelihood) {
	case TierHigh:
		return categories[TierHigh]
	case TierMedium:
		return categories[TierMedium]
	default:
		return categories[TierLow]
	}
}

func Of(t Tier) Category {
	if c, ok := categories[t]; ok {
		return c
	}
	return categories[TierLow]
}

// Percent renders score*100 with a fixed number of decimals, e.g. "85.0%".
func Percent(score float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	v := score * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64) + "%"
}

type GuideEntry struct {
	Category    Category
	Title       string
	Description string
}

// Guide returns the interpretation legend, lowest tier first.
func Guide() []GuideEntry {
	return []GuideEntry{
		{Category: categories[TierLow], Title: "Low Score", Description: "Human-written content"},
		{Category: categories[TierMedium], Title: "Medium Score", Description: "AI-assisted content"},
		{Category: categories[TierHigh], Title: "High Score", Description: "AI-generated content"},
	}
}
