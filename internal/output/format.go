package output

import (
	"fmt"
	"sort"
	"strings"

	"fraudnet/internal/dataset"
	"fraudnet/internal/engine"
	"fraudnet/internal/network"
	"fraudnet/internal/risk"
)

// Section constants to avoid hardcoded strings
const (
	SectionHealth = "health"
	SectionTiers  = "tiers"
	SectionRings  = "rings"
	SectionTop    = "top"
)

// DefaultTopN is how many accounts the top section lists.
const DefaultTopN = 10

// UI/view-model types (no printing here)
type Item struct {
	Key    string
	Label  string
	Value  float64
	Unit   string
	Status string
	Note   string
}

type Section struct {
	ID    string
	Title string
	Items []Item
}

type ReportView struct {
	AnalysisID string
	Accounts   int
	Edges      int
	Rings      int
	Sections   []Section
}

// BuildReport converts health checks and the built model into UI-ready
// sections.
func BuildReport(results []engine.CheckResult, m *network.Model, a *dataset.Analysis, topN int) ReportView {
	if topN <= 0 {
		topN = DefaultTopN
	}
	view := ReportView{}
	if a != nil {
		view.AnalysisID = a.AnalysisID
	}
	if m != nil {
		view.Accounts = m.Len()
		view.Edges = len(m.Edges)
		view.Rings = len(m.Rings())
	}

	health := Section{ID: SectionHealth, Title: "Network Health"}
	for _, r := range results {
		unit := ""
		if strings.Contains(strings.ToLower(r.Name), "share") || strings.Contains(strings.ToLower(r.Name), "coverage") {
			unit = "%"
		}
		health.Items = append(health.Items, Item{
			Key:    strings.ReplaceAll(strings.ToLower(r.Name), " ", "_"),
			Label:  r.Name,
			Value:  r.Value,
			Unit:   unit,
			Status: r.Status,
		})
	}

	tiers := Section{ID: SectionTiers, Title: "Risk Tiers"}
	rings := Section{ID: SectionRings, Title: "Fraud Rings"}
	top := Section{ID: SectionTop, Title: "Top Accounts"}

	if m != nil {
		counts := map[risk.Tier]int{}
		for _, n := range m.Nodes {
			counts[n.Tier()]++
		}
		for _, t := range risk.Tiers {
			tiers.Items = append(tiers.Items, Item{
				Key:    strings.ToLower(t.String()),
				Label:  t.String(),
				Value:  float64(counts[t]),
				Status: tierStatus(t, counts[t]),
				Note:   t.Color().Hex(),
			})
		}

		for _, g := range m.Rings() {
			peak := 0.0
			for _, i := range g.Members {
				peak = max(peak, m.Nodes[i].RiskScore)
			}
			note := fmt.Sprintf("%d members", len(g.Members))
			if meta, ok := a.RingByID(g.ID); ok && meta.PatternType != "" {
				note = fmt.Sprintf("%s, %s", meta.PatternType, note)
			}
			rings.Items = append(rings.Items, Item{
				Key:    g.ID,
				Label:  g.ID,
				Value:  peak,
				Status: scoreStatus(peak),
				Note:   note,
			})
		}

		for _, n := range TopAccounts(m, topN) {
			top.Items = append(top.Items, Item{
				Key:    n.ID,
				Label:  n.ID,
				Value:  n.RiskScore,
				Status: scoreStatus(n.RiskScore),
				Note:   n.RingID,
			})
		}
	}

	view.Sections = []Section{health, tiers, rings, top}
	return view
}

// TopAccounts returns up to n nodes ordered by score, then id.
func TopAccounts(m *network.Model, n int) []network.Node {
	nodes := append([]network.Node(nil), m.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].RiskScore != nodes[j].RiskScore {
			return nodes[i].RiskScore > nodes[j].RiskScore
		}
		return nodes[i].ID < nodes[j].ID
	})
	if len(nodes) > n {
		nodes = nodes[:n]
	}
	return nodes
}

func scoreStatus(score float64) string {
	switch risk.Classify(score) {
	case risk.Critical:
		return engine.StatusCritical
	case risk.High:
		return engine.StatusWarning
	default:
		return engine.StatusHealthy
	}
}

func tierStatus(t risk.Tier, count int) string {
	if count == 0 {
		return engine.StatusHealthy
	}
	switch t {
	case risk.Critical:
		return engine.StatusCritical
	case risk.High:
		return engine.StatusWarning
	default:
		return engine.StatusHealthy
	}
}

func (v ReportView) SectionByID(id string) *Section {
	for i := range v.Sections {
		if v.Sections[i].ID == id {
			return &v.Sections[i]
		}
	}
	return nil
}

func (s Section) ItemByKey(key string) *Item {
	for i := range s.Items {
		if s.Items[i].Key == key {
			return &s.Items[i]
		}
	}
	return nil
}
