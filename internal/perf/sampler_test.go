package perf

import (
	"context"
	"testing"
)

func TestSamplerCollect(t *testing.T) {
	ctx := context.Background()

	s, err := NewSampler(ctx)
	if err != nil {
		t.Fatalf("NewSampler failed: %v", err)
	}
	if s.Name() != "Perf" {
		t.Errorf("unexpected name %q", s.Name())
	}

	first, err := s.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if first.RSSBytes == 0 {
		t.Error("expected non-zero RSS for the test process")
	}
	if first.Goroutines < 1 {
		t.Errorf("expected at least one goroutine, got %d", first.Goroutines)
	}

	second, err := s.Collect(ctx)
	if err != nil {
		t.Fatalf("second Collect failed: %v", err)
	}
	if second.CPUPercent < 0 {
		t.Errorf("cpu percent must not be negative, got %f", second.CPUPercent)
	}
	t.Logf("perf sample: %s", second)
}

func TestSampleString(t *testing.T) {
	s := Sample{CPUPercent: 12.34, RSSBytes: 3 << 20, SysMemPercent: 41}
	want := "cpu 12.3% · rss 3.0 MiB · sys mem 41%"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
