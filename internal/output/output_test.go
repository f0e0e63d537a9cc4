package output

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudnet/internal/dataset"
	"fraudnet/internal/engine"
	"fraudnet/internal/interact"
)

func cycleSource() dataset.Source {
	return dataset.NewFileSource(filepath.Join("..", "dataset", "testdata", "cycle.json"))
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Load(context.Context) (*dataset.Analysis, error) {
	return nil, errors.New("unreachable")
}

func TestRunPipeline(t *testing.T) {
	p, err := RunPipeline(context.Background(), cycleSource(), 2)
	require.NoError(t, err)

	assert.Equal(t, 3, p.Report.Accounts)
	assert.Equal(t, 3, p.Report.Edges)
	assert.Equal(t, 1, p.Report.Rings)
	assert.Equal(t, 1, p.Stats.DroppedEdges)

	tiers := p.Report.SectionByID(SectionTiers)
	require.NotNil(t, tiers)
	assert.Equal(t, 1.0, tiers.ItemByKey("critical").Value)
	assert.Equal(t, engine.StatusCritical, tiers.ItemByKey("critical").Status)
	assert.Equal(t, 0.0, tiers.ItemByKey("medium").Value)
	assert.Equal(t, "#ef4444", tiers.ItemByKey("critical").Note)

	rings := p.Report.SectionByID(SectionRings)
	ring := rings.ItemByKey("RING_001")
	require.NotNil(t, ring)
	assert.Equal(t, 85.0, ring.Value)
	assert.Equal(t, "cycle, 3 members", ring.Note)

	top := p.Report.SectionByID(SectionTop)
	require.Len(t, top.Items, 2)
	assert.Equal(t, "A", top.Items[0].Label)
	assert.Equal(t, "B", top.Items[1].Label)

	health := p.Report.SectionByID(SectionHealth)
	require.NotNil(t, health.ItemByKey("critical_share"))
	assert.Equal(t, "%", health.ItemByKey("critical_share").Unit)

	assert.Nil(t, p.Report.SectionByID("nope"))
}

func TestRunPipelineErrors(t *testing.T) {
	_, err := RunPipeline(context.Background(), failingSource{}, 0)
	assert.ErrorContains(t, err, "load failing")
}

func TestProcessEmpty(t *testing.T) {
	p := Process(nil, 0)
	assert.Zero(t, p.Report.Accounts)
	assert.Empty(t, p.Report.SectionByID(SectionTop).Items)
	assert.Empty(t, p.Report.SectionByID(SectionTiers).Items)
}

func TestQueryAccounts(t *testing.T) {
	p, err := RunPipeline(context.Background(), cycleSource(), 0)
	require.NoError(t, err)

	all := QueryAccounts(p.Model, "", interact.FilterAll, 0)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].AccountID)
	assert.Equal(t, "Critical", all[0].Tier)

	high := QueryAccounts(p.Model, "", interact.FilterHigh, 0)
	require.Len(t, high, 1)
	assert.Equal(t, "B", high[0].AccountID)

	assert.Len(t, QueryAccounts(p.Model, "c", interact.FilterAll, 0), 1, "case-insensitive search")
	assert.Len(t, QueryAccounts(p.Model, "", interact.FilterAll, 2), 2)
	assert.Nil(t, QueryAccounts(nil, "", interact.FilterAll, 0))
}

func TestRingMembers(t *testing.T) {
	p, err := RunPipeline(context.Background(), cycleSource(), 0)
	require.NoError(t, err)

	ring, ok := RingMembers(p.Model, p.Analysis, "RING_001")
	require.True(t, ok)
	assert.Equal(t, "cycle", ring.PatternType)
	assert.Equal(t, 69.0, ring.RiskScore)
	require.Len(t, ring.Members, 3)
	assert.Equal(t, "A", ring.Members[0].AccountID)
	assert.Len(t, ring.Transfers, 3)

	_, ok = RingMembers(p.Model, p.Analysis, "RING_404")
	assert.False(t, ok)
}
