// Package risk maps suspicion scores to tiers, colors and drawn radii.
// Every visual attribute derived from a score goes through this package so
// node color, halo color and legend can never disagree.
package risk

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type Tier int

const (
	Low Tier = iota
	Medium
	High
	Critical
)

const (
	CriticalThreshold = 70.0
	HighThreshold     = 50.0
	MediumThreshold   = 30.0

	MinScore = 0.0
	MaxScore = 100.0

	// BaseRadius is the drawn radius (logical units) of a zero-score node.
	BaseRadius = 12.0
)

var (
	Red    = colorful.Color{R: 0xef / 255.0, G: 0x44 / 255.0, B: 0x44 / 255.0}
	Orange = colorful.Color{R: 0xf9 / 255.0, G: 0x73 / 255.0, B: 0x16 / 255.0}
	Blue   = colorful.Color{R: 0x3b / 255.0, G: 0x82 / 255.0, B: 0xf6 / 255.0}
	Green  = colorful.Color{R: 0x22 / 255.0, G: 0xc5 / 255.0, B: 0x5e / 255.0}
)

// Tiers lists every tier from most to least severe.
var Tiers = []Tier{Critical, High, Medium, Low}

// Clamp bounds a score to [0, 100].
func Clamp(score float64) float64 {
	if score < MinScore || score != score {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Classify buckets a score into its tier.
func Classify(score float64) Tier {
	if score >= CriticalThreshold {
		return Critical
	}
	if score >= HighThreshold {
		return High
	}
	if score >= MediumThreshold {
		return Medium
	}
	return Low
}

func Color(score float64) colorful.Color {
	return Classify(score).Color()
}

func Label(score float64) string {
	return Classify(score).String()
}

// Radius grows with the score and never shrinks.
func Radius(score float64) float64 {
	return BaseRadius + Clamp(score)/10
}

func (t Tier) Color() colorful.Color {
	switch t {
	case Critical:
		return Red
	case High:
		return Orange
	case Medium:
		return Blue
	default:
		return Green
	}
}

// Min is the lowest score that classifies as t.
func (t Tier) Min() float64 {
	switch t {
	case Critical:
		return CriticalThreshold
	case High:
		return HighThreshold
	case Medium:
		return MediumThreshold
	default:
		return MinScore
	}
}

func (t Tier) String() string {
	switch t {
	case Critical:
		return "Critical"
	case High:
		return "High"
	case Medium:
		return "Medium"
	default:
		return "Low"
	}
}

// ParseTier accepts tier names case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return Critical, nil
	case "high":
		return High, nil
	case "medium":
		return Medium, nil
	case "low":
		return Low, nil
	}
	return Low, fmt.Errorf("unknown risk tier %q", s)
}
