// Package dataset defines the analysis response consumed by the
// visualization engine and the sources that can supply it.
package dataset

import "context"

// Analysis is the detection pipeline output. A nil *Analysis is the valid
// "nothing uploaded yet" state.
type Analysis struct {
	AnalysisID         string     `json:"analysis_id,omitempty"`
	Timestamp          string     `json:"timestamp,omitempty"`
	SuspiciousAccounts []Account  `json:"suspicious_accounts"`
	FraudRings         []Ring     `json:"fraud_rings,omitempty"`
	GraphData          *GraphData `json:"graph_data,omitempty"`
	Summary            *Summary   `json:"summary,omitempty"`
}

// Account is one flagged account.
type Account struct {
	AccountID        string   `json:"account_id"`
	SuspicionScore   float64  `json:"suspicion_score"`
	RiskLevel        string   `json:"risk_level,omitempty"`
	DetectedPatterns []string `json:"detected_patterns,omitempty"`
	RingID           *string  `json:"ring_id,omitempty"`
}

// Ring returns the ring id or "" when the account belongs to none.
func (a Account) Ring() string {
	if a.RingID == nil {
		return ""
	}
	return *a.RingID
}

type Ring struct {
	RingID         string   `json:"ring_id"`
	MemberAccounts []string `json:"member_accounts"`
	PatternType    string   `json:"pattern_type,omitempty"`
	RiskScore      float64  `json:"risk_score"`
}

type GraphData struct {
	Nodes []GraphNode `json:"nodes,omitempty"`
	Links []Link      `json:"links,omitempty"`
}

// GraphNode carries degree enrichment for any account in the analyzed graph.
type GraphNode struct {
	ID         string  `json:"id"`
	Suspicious bool    `json:"suspicious"`
	RingID     *string `json:"ring_id,omitempty"`
	InDegree   int     `json:"in_degree"`
	OutDegree  int     `json:"out_degree"`
}

// Link is a transaction edge; its endpoints may or may not be suspicious.
type Link struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Amount     float64 `json:"amount"`
	TxnCount   int     `json:"txn_count,omitempty"`
	Suspicious bool    `json:"suspicious,omitempty"`
}

type Summary struct {
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	TotalTransactions         int     `json:"total_transactions"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	ProcessingTimeSeconds     float64 `json:"processing_time_seconds"`
}

// RingByID returns ring metadata when the analysis carries it.
func (a *Analysis) RingByID(id string) (Ring, bool) {
	if a == nil || id == "" {
		return Ring{}, false
	}
	for _, r := range a.FraudRings {
		if r.RingID == id {
			return r, true
		}
	}
	return Ring{}, false
}

// Source supplies analyses to the engine. Implementations must be safe to
// call repeatedly; each call returns a fresh snapshot.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Analysis, error)
}
