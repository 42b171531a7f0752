package cpu

import (
	"context"
	"math"
)

// CoreSample is the utilization of one logical core at one instant
type CoreSample struct {
	ID    int     `json:"id"`
	Usage float64 `json:"usage"`
}

// Snapshot holds one CoreSample per logical core, ordered by ID starting at 1
// A Snapshot is never modified after it has been handed out
type Snapshot []CoreSample

// Clone returns a copy that shares no memory with s
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Sampler reads per-core utilization since its previous call
type Sampler interface {
	Sample(ctx context.Context) (Snapshot, error)
}

// NewSampler creates a sampler for the current platform. It fails when the
// platform's counters cannot be read at all
func NewSampler() (Sampler, error) {
	return newPlatformSampler()
}

// fromUsages numbers usages 1..n and clamps each into [0,100]
func fromUsages(usages []float64) Snapshot {
	snap := make(Snapshot, len(usages))
	for i, u := range usages {
		snap[i] = CoreSample{ID: i + 1, Usage: clampPercent(u)}
	}
	return snap
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
