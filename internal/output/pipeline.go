package output

import (
	"context"
	"fmt"

	"fraudnet/internal/dataset"
	"fraudnet/internal/engine"
	"fraudnet/internal/network"
)

// PipelinePayload is everything the summary and query surfaces read.
type PipelinePayload struct {
	Analysis *dataset.Analysis
	Model    *network.Model
	Stats    network.BuildStats
	Checks   []engine.CheckResult
	Report   ReportView
}

// Process runs Build -> Evaluate -> Report over an analysis already in
// hand.
func Process(a *dataset.Analysis, topN int) *PipelinePayload {
	m, stats := network.BuildWithStats(a)
	checks := engine.Evaluate(m, stats)
	return &PipelinePayload{
		Analysis: a,
		Model:    m,
		Stats:    stats,
		Checks:   checks,
		Report:   BuildReport(checks, m, a, topN),
	}
}

// RunPipeline executes Load -> Build -> Evaluate -> Report.
func RunPipeline(ctx context.Context, src dataset.Source, topN int) (*PipelinePayload, error) {
	a, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	return Process(a, topN), nil
}
