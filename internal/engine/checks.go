package engine

import (
	"fmt"

	"fraudnet/internal/network"
	"fraudnet/internal/risk"
)

const (
	StatusHealthy  = "OK"
	StatusWarning  = "WARN"
	StatusCritical = "CRIT"

	CriticalShareWarning  = 10.0 // percent of flagged accounts
	CriticalShareCritical = 25.0
	RingCoverageWarning   = 30.0 // percent of flagged accounts inside a ring
	RingCoverageCritical  = 60.0
	DroppedEdgeWarning    = 1.0
)

// CheckResult is one line of the network health report.
type CheckResult struct {
	Name   string
	Value  float64
	Status string
}

func getStatus(value, warning, critical float64) string {
	if value >= critical {
		return StatusCritical
	}
	if value >= warning {
		return StatusWarning
	}
	return StatusHealthy
}

// Evaluate grades a built model for the summary report and status bar.
func Evaluate(m *network.Model, stats network.BuildStats) []CheckResult {
	var result []CheckResult
	if m == nil || m.Empty() {
		return append(result, CheckResult{Name: "Flagged Accounts", Value: 0, Status: StatusHealthy})
	}

	total := float64(m.Len())
	counts := map[risk.Tier]int{}
	inRing := 0
	for _, n := range m.Nodes {
		counts[n.Tier()]++
		if n.InRing() {
			inRing++
		}
	}

	result = append(result, CheckResult{
		Name:   "Flagged Accounts",
		Value:  total,
		Status: StatusHealthy,
	})

	critShare := 100 * float64(counts[risk.Critical]) / total
	result = append(result, CheckResult{
		Name:   "Critical Share",
		Value:  critShare,
		Status: getStatus(critShare, CriticalShareWarning, CriticalShareCritical),
	})

	coverage := 100 * float64(inRing) / total
	result = append(result, CheckResult{
		Name:   "Ring Coverage",
		Value:  coverage,
		Status: getStatus(coverage, RingCoverageWarning, RingCoverageCritical),
	})

	// One line per ring, graded by its strongest member.
	for _, g := range m.Rings() {
		top := 0.0
		for _, i := range g.Members {
			if s := m.Nodes[i].RiskScore; s > top {
				top = s
			}
		}
		result = append(result, CheckResult{
			Name:   fmt.Sprintf("Ring %s Peak", g.ID),
			Value:  top,
			Status: getStatus(top, risk.HighThreshold, risk.CriticalThreshold),
		})
	}

	// Edges pointing outside the flagged set are expected but worth noting.
	dropped := float64(stats.DroppedEdges)
	dropStatus := StatusHealthy
	if dropped >= DroppedEdgeWarning {
		dropStatus = StatusWarning
	}
	result = append(result, CheckResult{
		Name:   "Dropped Edges",
		Value:  dropped,
		Status: dropStatus,
	})

	return result
}
