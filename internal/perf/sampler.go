// Package perf samples the resource use of the running fraudnet process so
// the frame budget can be watched from the status bar.
package perf

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Sample is one reading.
type Sample struct {
	At            time.Time `json:"at"`
	CPUPercent    float64   `json:"cpu_percent"`
	RSSBytes      uint64    `json:"rss_bytes"`
	SysMemPercent float64   `json:"sys_mem_percent"`
	Goroutines    int       `json:"goroutines"`
}

// RSSMiB returns resident memory in MiB.
func (s Sample) RSSMiB() float64 {
	return float64(s.RSSBytes) / (1 << 20)
}

func (s Sample) String() string {
	return fmt.Sprintf("cpu %.1f%% · rss %.1f MiB · sys mem %.0f%%", s.CPUPercent, s.RSSMiB(), s.SysMemPercent)
}

type Sampler struct {
	proc *process.Process
}

// NewSampler attaches to the current process.
func NewSampler(ctx context.Context) (*Sampler, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to attach to process: %w", err)
	}
	return &Sampler{proc: p}, nil
}

func (s *Sampler) Name() string {
	return "Perf"
}

// Collect takes one sample. CPU percent is measured since the previous
// call, so the first reading is usually zero.
func (s *Sampler) Collect(ctx context.Context) (Sample, error) {
	out := Sample{At: time.Now(), Goroutines: runtime.NumGoroutine()}

	cpuPct, err := s.proc.PercentWithContext(ctx, 0)
	if err != nil {
		return out, fmt.Errorf("failed to read cpu percent: %w", err)
	}
	out.CPUPercent = cpuPct

	memInfo, err := s.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return out, fmt.Errorf("failed to read memory info: %w", err)
	}
	out.RSSBytes = memInfo.RSS

	// System memory is informational; a failure here is not fatal.
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		out.SysMemPercent = vm.UsedPercent
	}
	return out, nil
}
