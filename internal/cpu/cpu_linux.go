//go:build linux

package cpu

import (
	"context"
	"fmt"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
)

// LinuxSampler computes per-core usage from /proc/stat counters via gopsutil
type LinuxSampler struct {
	mu      sync.Mutex
	tracker timesTracker
}

// newPlatformSampler creates a Linux sampler and primes it with a first read
func newPlatformSampler() (Sampler, error) {
	s := &LinuxSampler{}
	if _, err := s.Sample(context.Background()); err != nil {
		return nil, fmt.Errorf("read cpu counters: %w", err)
	}
	return s, nil
}

// Sample returns usage per core since the previous call
func (s *LinuxSampler) Sample(ctx context.Context) (Snapshot, error) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.next(times), nil
}
