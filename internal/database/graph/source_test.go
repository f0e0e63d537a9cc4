package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudnet/internal/dataset"
	"fraudnet/internal/network"
)

type fakeQuerier struct {
	rows  map[string][]map[string]any
	fail  string
	calls int
}

func (f *fakeQuerier) ExecuteCypher(_ context.Context, query string, _ map[string]any) ([]map[string]any, error) {
	f.calls++
	if query == f.fail {
		return nil, errors.New("boom")
	}
	return f.rows[query], nil
}

func cycleRows() *fakeQuerier {
	return &fakeQuerier{rows: map[string][]map[string]any{
		accountsCypher: {
			{"account_id": "A", "suspicion_score": 85.0, "risk_level": "critical", "ring_id": "RING_001", "detected_patterns": []any{"cycle_participant"}},
			{"account_id": "B", "suspicion_score": int64(55), "ring_id": "RING_001"},
			{"account_id": "C", "suspicion_score": 20.0, "ring_id": "RING_001"},
			{"account_id": nil},
		},
		ringsCypher: {
			{"ring_id": "RING_001", "pattern_type": "cycle", "risk_score": 69.0, "members": []any{"A", "B", "C"}},
		},
		degreesCypher: {
			{"id": "A", "suspicious": true, "ring_id": "RING_001", "in_degree": int64(1), "out_degree": int64(1)},
			{"id": "D", "suspicious": false, "in_degree": int64(1), "out_degree": int64(0)},
		},
		transfersCypher: {
			{"source": "A", "target": "B", "amount": 1500.0, "txn_count": int64(1), "suspicious": true},
			{"source": "B", "target": "C", "amount": int64(1400), "txn_count": int64(1), "suspicious": true},
			{"source": "C", "target": "A", "amount": 1300.0, "txn_count": int64(1), "suspicious": true},
			{"source": "C", "target": "D", "amount": 90.0, "txn_count": int64(2), "suspicious": false},
		},
	}}
}

func TestSourceLoad(t *testing.T) {
	src := NewSource(cycleRows(), "fraud", nil)
	assert.Equal(t, "neo4j:fraud", src.Name())

	a, err := src.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a)

	require.Len(t, a.SuspiciousAccounts, 3, "rows without an id are skipped")
	assert.Equal(t, 55.0, a.SuspiciousAccounts[1].SuspicionScore, "integer scores convert")
	assert.Equal(t, []string{"cycle_participant"}, a.SuspiciousAccounts[0].DetectedPatterns)

	require.Len(t, a.FraudRings, 1)
	assert.Equal(t, []string{"A", "B", "C"}, a.FraudRings[0].MemberAccounts)
	assert.Equal(t, 1400.0, a.GraphData.Links[1].Amount)

	m, stats := network.BuildWithStats(a)
	assert.Equal(t, 3, m.Len())
	assert.Len(t, m.Edges, 3)
	assert.Equal(t, 1, stats.DroppedEdges)
	n, _ := m.Node("A")
	assert.Equal(t, 1, n.InDegree)
}

func TestSourceEmptyGraph(t *testing.T) {
	q := &fakeQuerier{}
	a, err := NewSource(q, "fraud", nil).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.Equal(t, 1, q.calls, "no follow-up queries without accounts")
}

func TestSourceErrors(t *testing.T) {
	for _, query := range []string{accountsCypher, ringsCypher, degreesCypher, transfersCypher} {
		q := cycleRows()
		q.fail = query
		_, err := NewSource(q, "fraud", nil).Load(context.Background())
		assert.Error(t, err)
	}
}

func TestIngestParams(t *testing.T) {
	ring := "R9"
	a := &dataset.Analysis{
		SuspiciousAccounts: []dataset.Account{
			{AccountID: "x", SuspicionScore: 71, RingID: &ring},
			{AccountID: "", SuspicionScore: 10},
			{AccountID: "y", SuspicionScore: 12},
		},
		FraudRings: []dataset.Ring{{RingID: "R9", PatternType: "fan_in"}},
		GraphData: &dataset.GraphData{Links: []dataset.Link{
			{Source: "x", Target: "y", Amount: 5},
			{Source: "", Target: "y", Amount: 5},
		}},
	}

	accounts := accountParams(a)
	require.Len(t, accounts, 2)
	assert.Equal(t, "R9", accounts[0]["ring_id"])
	assert.Nil(t, accounts[1]["ring_id"])
	assert.Equal(t, []string{}, accounts[1]["detected_patterns"])

	assert.Len(t, ringParams(a), 1)

	links := linkParams(a)
	require.Len(t, links, 1)
	assert.Equal(t, int64(1), links[0]["txn_count"])

	assert.Empty(t, linkParams(&dataset.Analysis{}))
}

func TestNewNeo4jClientRequiresURI(t *testing.T) {
	_, err := NewNeo4jClient(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrMissingURI)
}

func TestConvertNeo4jValue(t *testing.T) {
	in := map[string]any{"list": []any{int64(1), "a"}, "n": 2.5}
	out := convertNeo4jValue(in).(map[string]any)
	assert.Equal(t, []any{int64(1), "a"}, out["list"])
	assert.Equal(t, 2.5, out["n"])
}
