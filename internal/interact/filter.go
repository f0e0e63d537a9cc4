// Package interact holds the UI state of the network view and the pure
// queries over it: visibility, hit-testing and pointer handling.
package interact

import (
	"fmt"
	"strings"

	"fraudnet/internal/risk"
)

// RiskFilter restricts visible nodes to one tier, or none.
type RiskFilter int

const (
	FilterAll RiskFilter = iota
	FilterCritical
	FilterHigh
	FilterMedium
	FilterLow
)

// Filters is the keyboard cycling order.
var Filters = []RiskFilter{FilterAll, FilterCritical, FilterHigh, FilterMedium, FilterLow}

func (f RiskFilter) String() string {
	switch f {
	case FilterCritical:
		return "Critical"
	case FilterHigh:
		return "High"
	case FilterMedium:
		return "Medium"
	case FilterLow:
		return "Low"
	default:
		return "All"
	}
}

// Matches reports whether a score passes the filter.
func (f RiskFilter) Matches(score float64) bool {
	switch f {
	case FilterCritical:
		return risk.Classify(score) == risk.Critical
	case FilterHigh:
		return risk.Classify(score) == risk.High
	case FilterMedium:
		return risk.Classify(score) == risk.Medium
	case FilterLow:
		return risk.Classify(score) == risk.Low
	default:
		return true
	}
}

func (f RiskFilter) Next() RiskFilter {
	return Filters[(int(f)+1)%len(Filters)]
}

func (f RiskFilter) Prev() RiskFilter {
	return Filters[(int(f)+len(Filters)-1)%len(Filters)]
}

// ParseRiskFilter accepts "all" or any tier name.
func ParseRiskFilter(s string) (RiskFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	}
	t, err := risk.ParseTier(s)
	if err != nil {
		return FilterAll, fmt.Errorf("parse risk filter: %w", err)
	}
	return FromTier(t), nil
}

func FromTier(t risk.Tier) RiskFilter {
	switch t {
	case risk.Critical:
		return FilterCritical
	case risk.High:
		return FilterHigh
	case risk.Medium:
		return FilterMedium
	default:
		return FilterLow
	}
}
