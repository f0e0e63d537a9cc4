package network

import (
	"fraudnet/internal/dataset"
	"fraudnet/internal/risk"
)

// BuildStats reports what the builder discarded. Nothing here is an error;
// partially observed graphs are expected.
type BuildStats struct {
	SkippedAccounts int // missing id or duplicate id
	DroppedEdges    int // endpoint not in the suspicious set, or a self-loop
	MergedEdges     int // parallel edges folded into one
}

// Build converts an analysis into the node/edge model. A nil analysis
// yields an empty model.
func Build(a *dataset.Analysis) *Model {
	m, _ := BuildWithStats(a)
	return m
}

func BuildWithStats(a *dataset.Analysis) (*Model, BuildStats) {
	var stats BuildStats
	if a == nil {
		return newModel(nil, nil), stats
	}

	degrees := make(map[string]dataset.GraphNode)
	var links []dataset.Link
	if a.GraphData != nil {
		for _, gn := range a.GraphData.Nodes {
			if _, seen := degrees[gn.ID]; !seen {
				degrees[gn.ID] = gn
			}
		}
		links = a.GraphData.Links
	}

	nodes := make([]Node, 0, len(a.SuspiciousAccounts))
	seen := make(map[string]struct{}, len(a.SuspiciousAccounts))
	for _, acct := range a.SuspiciousAccounts {
		if acct.AccountID == "" {
			stats.SkippedAccounts++
			continue
		}
		if _, dup := seen[acct.AccountID]; dup {
			stats.SkippedAccounts++
			continue
		}
		seen[acct.AccountID] = struct{}{}

		n := Node{
			ID:               acct.AccountID,
			RiskScore:        risk.Clamp(acct.SuspicionScore),
			RingID:           acct.Ring(),
			DetectedPatterns: append([]string(nil), acct.DetectedPatterns...),
		}
		if gn, ok := degrees[acct.AccountID]; ok {
			n.InDegree = max(gn.InDegree, 0)
			n.OutDegree = max(gn.OutDegree, 0)
		}
		nodes = append(nodes, n)
	}

	edges := make([]Edge, 0, len(links))
	pair := make(map[[2]string]int)
	for _, l := range links {
		_, srcOK := seen[l.Source]
		_, dstOK := seen[l.Target]
		if !srcOK || !dstOK || l.Source == l.Target {
			stats.DroppedEdges++
			continue
		}
		key := [2]string{l.Source, l.Target}
		if i, ok := pair[key]; ok {
			edges[i].Amount += l.Amount
			edges[i].TxnCount += max(l.TxnCount, 1)
			stats.MergedEdges++
			continue
		}
		pair[key] = len(edges)
		edges = append(edges, Edge{
			SourceID: l.Source,
			TargetID: l.Target,
			Amount:   l.Amount,
			TxnCount: max(l.TxnCount, 1),
		})
	}

	return newModel(nodes, edges), stats
}
