package engine

import (
	"testing"

	"fraudnet/internal/dataset"
	"fraudnet/internal/network"
)

func ring(id string) *string { return &id }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		analysis *dataset.Analysis
		expected map[string]string // check name -> expected status
	}{
		{
			name:     "No Dataset",
			analysis: nil,
			expected: map[string]string{"Flagged Accounts": StatusHealthy},
		},
		{
			name: "All Low",
			analysis: &dataset.Analysis{SuspiciousAccounts: []dataset.Account{
				{AccountID: "a", SuspicionScore: 10},
				{AccountID: "b", SuspicionScore: 20},
			}},
			expected: map[string]string{
				"Critical Share": StatusHealthy,
				"Ring Coverage":  StatusHealthy,
				"Dropped Edges":  StatusHealthy,
			},
		},
		{
			name: "Critical Ring",
			analysis: &dataset.Analysis{SuspiciousAccounts: []dataset.Account{
				{AccountID: "a", SuspicionScore: 90, RingID: ring("R1")},
				{AccountID: "b", SuspicionScore: 40, RingID: ring("R1")},
			}},
			expected: map[string]string{
				"Critical Share": StatusCritical,
				"Ring Coverage":  StatusCritical,
				"Ring R1 Peak":   StatusCritical,
			},
		},
		{
			name: "Dropped Edges Warn",
			analysis: &dataset.Analysis{
				SuspiciousAccounts: []dataset.Account{{AccountID: "a", SuspicionScore: 10}},
				GraphData:          &dataset.GraphData{Links: []dataset.Link{{Source: "a", Target: "x", Amount: 5}}},
			},
			expected: map[string]string{"Dropped Edges": StatusWarning},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, stats := network.BuildWithStats(tt.analysis)
			results := Evaluate(m, stats)
			for name, want := range tt.expected {
				found := false
				for _, res := range results {
					if res.Name == name {
						found = true
						if res.Status != want {
							t.Errorf("Metric %s: expected %s, got %s (value %.2f)", name, want, res.Status, res.Value)
						}
					}
				}
				if !found {
					t.Errorf("Metric %s not found in results", name)
				}
			}
		})
	}
}

func TestGetStatus(t *testing.T) {
	if got := getStatus(10, 10, 25); got != StatusWarning {
		t.Errorf("boundary value should warn, got %s", got)
	}
	if got := getStatus(24.9, 10, 25); got != StatusWarning {
		t.Errorf("expected WARN, got %s", got)
	}
	if got := getStatus(25, 10, 25); got != StatusCritical {
		t.Errorf("expected CRIT, got %s", got)
	}
}
