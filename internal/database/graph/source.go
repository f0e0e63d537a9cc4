package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fraudnet/internal/dataset"
)

// Source assembles an analysis from the graph on every Load.
type Source struct {
	q    Querier
	name string
	log  *slog.Logger
}

func NewSource(q Querier, name string, log *slog.Logger) *Source {
	if log == nil {
		log = slog.Default()
	}
	return &Source{q: q, name: name, log: log}
}

func (s *Source) Name() string {
	return "neo4j:" + s.name
}

// Load returns nil when the graph holds no flagged accounts.
func (s *Source) Load(ctx context.Context) (*dataset.Analysis, error) {
	start := time.Now()

	rows, err := s.q.ExecuteCypher(ctx, accountsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	accounts := accountsFromRows(rows)
	if len(accounts) == 0 {
		return nil, nil
	}

	a := &dataset.Analysis{SuspiciousAccounts: accounts, GraphData: &dataset.GraphData{}}

	if rows, err = s.q.ExecuteCypher(ctx, ringsCypher, nil); err != nil {
		return nil, fmt.Errorf("query rings: %w", err)
	}
	a.FraudRings = ringsFromRows(rows)

	if rows, err = s.q.ExecuteCypher(ctx, degreesCypher, nil); err != nil {
		return nil, fmt.Errorf("query degrees: %w", err)
	}
	a.GraphData.Nodes = nodesFromRows(rows)

	if rows, err = s.q.ExecuteCypher(ctx, transfersCypher, nil); err != nil {
		return nil, fmt.Errorf("query transfers: %w", err)
	}
	a.GraphData.Links = linksFromRows(rows)

	s.log.Debug("analysis loaded",
		"source", s.Name(),
		"accounts", len(a.SuspiciousAccounts),
		"links", len(a.GraphData.Links),
		"took", time.Since(start),
	)
	return a, nil
}

func accountsFromRows(rows []map[string]any) []dataset.Account {
	out := make([]dataset.Account, 0, len(rows))
	for _, r := range rows {
		id := asString(r["account_id"])
		if id == "" {
			continue
		}
		acc := dataset.Account{
			AccountID:        id,
			SuspicionScore:   asFloat(r["suspicion_score"]),
			RiskLevel:        asString(r["risk_level"]),
			DetectedPatterns: asStrings(r["detected_patterns"]),
		}
		if ring := asString(r["ring_id"]); ring != "" {
			acc.RingID = &ring
		}
		out = append(out, acc)
	}
	return out
}

func ringsFromRows(rows []map[string]any) []dataset.Ring {
	var out []dataset.Ring
	for _, r := range rows {
		id := asString(r["ring_id"])
		if id == "" {
			continue
		}
		out = append(out, dataset.Ring{
			RingID:         id,
			PatternType:    asString(r["pattern_type"]),
			RiskScore:      asFloat(r["risk_score"]),
			MemberAccounts: asStrings(r["members"]),
		})
	}
	return out
}

func nodesFromRows(rows []map[string]any) []dataset.GraphNode {
	out := make([]dataset.GraphNode, 0, len(rows))
	for _, r := range rows {
		n := dataset.GraphNode{
			ID:         asString(r["id"]),
			Suspicious: asBool(r["suspicious"]),
			InDegree:   asInt(r["in_degree"]),
			OutDegree:  asInt(r["out_degree"]),
		}
		if ring := asString(r["ring_id"]); ring != "" {
			n.RingID = &ring
		}
		out = append(out, n)
	}
	return out
}

func linksFromRows(rows []map[string]any) []dataset.Link {
	out := make([]dataset.Link, 0, len(rows))
	for _, r := range rows {
		out = append(out, dataset.Link{
			Source:     asString(r["source"]),
			Target:     asString(r["target"]),
			Amount:     asFloat(r["amount"]),
			TxnCount:   asInt(r["txn_count"]),
			Suspicious: asBool(r["suspicious"]),
		})
	}
	return out
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
