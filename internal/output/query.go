package output

import (
	"sort"

	"fraudnet/internal/dataset"
	"fraudnet/internal/interact"
	"fraudnet/internal/network"
)

// AccountRow is the query view of one flagged account.
type AccountRow struct {
	AccountID        string   `json:"account_id"`
	SuspicionScore   float64  `json:"suspicion_score"`
	Tier             string   `json:"tier"`
	Color            string   `json:"color"`
	RingID           string   `json:"ring_id,omitempty"`
	DetectedPatterns []string `json:"detected_patterns,omitempty"`
	InDegree         int      `json:"in_degree"`
	OutDegree        int      `json:"out_degree"`
}

// RingView lists one ring with its members.
type RingView struct {
	RingID      string       `json:"ring_id"`
	PatternType string       `json:"pattern_type,omitempty"`
	RiskScore   float64      `json:"risk_score"`
	Members     []AccountRow `json:"members"`
	Transfers   []Transfer   `json:"transfers"`
}

type Transfer struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Amount   float64 `json:"amount"`
	TxnCount int     `json:"txn_count"`
}

func rowOf(n network.Node) AccountRow {
	return AccountRow{
		AccountID:        n.ID,
		SuspicionScore:   n.RiskScore,
		Tier:             n.Tier().String(),
		Color:            n.Color().Hex(),
		RingID:           n.RingID,
		DetectedPatterns: n.DetectedPatterns,
		InDegree:         n.InDegree,
		OutDegree:        n.OutDegree,
	}
}

// QueryAccounts applies the same visibility rule as the network view and
// returns matches ordered by score. limit <= 0 means no limit.
func QueryAccounts(m *network.Model, search string, filter interact.RiskFilter, limit int) []AccountRow {
	if m == nil {
		return nil
	}
	state := interact.State{Search: search, Filter: filter}
	var out []AccountRow
	for _, n := range TopAccounts(m, m.Len()) {
		if !state.Visible(n) {
			continue
		}
		out = append(out, rowOf(n))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// RingMembers returns a ring's members and the transfers among them.
func RingMembers(m *network.Model, a *dataset.Analysis, ringID string) (RingView, bool) {
	if m == nil {
		return RingView{}, false
	}
	for _, g := range m.Rings() {
		if g.ID != ringID {
			continue
		}
		view := RingView{RingID: g.ID}
		if meta, ok := a.RingByID(g.ID); ok {
			view.PatternType = meta.PatternType
			view.RiskScore = meta.RiskScore
		}
		inRing := map[string]bool{}
		for _, i := range g.Members {
			n := m.Nodes[i]
			inRing[n.ID] = true
			view.Members = append(view.Members, rowOf(n))
		}
		sort.Slice(view.Members, func(i, j int) bool {
			return view.Members[i].SuspicionScore > view.Members[j].SuspicionScore
		})
		for _, e := range m.Edges {
			if inRing[e.SourceID] && inRing[e.TargetID] {
				view.Transfers = append(view.Transfers, transferOf(e))
			}
		}
		return view, true
	}
	return RingView{}, false
}

// AccountView is one account with its ring context and transfers.
type AccountView struct {
	Account       AccountRow `json:"account"`
	PatternType   string     `json:"ring_pattern_type,omitempty"`
	RingRiskScore float64    `json:"ring_risk_score,omitempty"`
	Incoming      []Transfer `json:"incoming"`
	Outgoing      []Transfer `json:"outgoing"`
	Inflow        float64    `json:"inflow"`
	Outflow       float64    `json:"outflow"`
}

// AccountDetails looks up one account by exact id.
func AccountDetails(m *network.Model, a *dataset.Analysis, id string) (AccountView, bool) {
	if m == nil {
		return AccountView{}, false
	}
	n, ok := m.Node(id)
	if !ok {
		return AccountView{}, false
	}
	view := AccountView{Account: rowOf(n), Incoming: []Transfer{}, Outgoing: []Transfer{}}
	if meta, ok := a.RingByID(n.RingID); ok {
		view.PatternType = meta.PatternType
		view.RingRiskScore = meta.RiskScore
	}
	in, out := m.EdgesOf(id)
	for _, e := range in {
		view.Incoming = append(view.Incoming, transferOf(e))
		view.Inflow += e.Amount
	}
	for _, e := range out {
		view.Outgoing = append(view.Outgoing, transferOf(e))
		view.Outflow += e.Amount
	}
	return view, true
}

func transferOf(e network.Edge) Transfer {
	return Transfer{Source: e.SourceID, Target: e.TargetID, Amount: e.Amount, TxnCount: e.TxnCount}
}
