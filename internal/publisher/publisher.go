package publisher

import (
	"context"
	"sync"
	"time"

	"github.com/CristiGvl/picoCPUMon/internal/cpu"
	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"
)

// DefaultPeriod is the sampling interval used when none is configured
const DefaultPeriod = 500 * time.Millisecond

const (
	histMinUs  = 1
	histMaxUs  = 60_000_000
	histSigFig = 3
)

// Writer receives each new snapshot
type Writer interface {
	Write(cpu.Snapshot)
}

// Stats describes the publisher's work so far
type Stats struct {
	Ticks     uint64 `json:"ticks"`
	Writes    uint64 `json:"writes"`
	Skipped   uint64 `json:"skipped"`
	TickP50Us int64  `json:"tick_p50_us"`
	TickP99Us int64  `json:"tick_p99_us"`
}

// Publisher samples on a fixed period and writes every snapshot to its
// Writer. It is the only writer of that state
type Publisher struct {
	sampler cpu.Sampler
	out     Writer
	period  time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	stats    Stats
	tickHist *hdrhistogram.Histogram
}

// New creates a publisher. A non-positive period falls back to DefaultPeriod
func New(sampler cpu.Sampler, out Writer, period time.Duration, logger *zap.Logger) *Publisher {
	if period <= 0 {
		period = DefaultPeriod
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		sampler:  sampler,
		out:      out,
		period:   period,
		logger:   logger,
		tickHist: hdrhistogram.New(histMinUs, histMaxUs, histSigFig),
	}
}

// Run ticks immediately and then once per period until ctx is done. A tick
// that overruns the period is followed by the next one without waiting; two
// ticks never overlap
func (p *Publisher) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		start := time.Now()
		p.tick(ctx)
		elapsed := time.Since(start)

		wait := p.period - elapsed
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}

func (p *Publisher) tick(ctx context.Context) {
	start := time.Now()
	snap, err := p.sampler.Sample(ctx)
	if err == nil {
		p.out.Write(snap)
	}
	elapsed := time.Since(start)

	p.mu.Lock()
	p.stats.Ticks++
	if err != nil {
		p.stats.Skipped++
	} else {
		p.stats.Writes++
	}
	_ = p.tickHist.RecordValue(histMicros(elapsed))
	p.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// previous snapshot stays published
		p.logger.Warn("cpu sample failed, keeping previous snapshot", zap.Error(err))
		return
	}
	p.logger.Debug("published snapshot", zap.Int("cores", len(snap)), zap.Duration("took", elapsed))
}

// histMicros converts d to microseconds clamped into the histogram's range,
// so overlong ticks land in the top bucket instead of being dropped
func histMicros(d time.Duration) int64 {
	us := d.Microseconds()
	switch {
	case us < histMinUs:
		return histMinUs
	case us > histMaxUs:
		return histMaxUs
	}
	return us
}

// Stats returns counters and tick-duration quantiles
func (p *Publisher) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.TickP50Us = p.tickHist.ValueAtQuantile(50)
	s.TickP99Us = p.tickHist.ValueAtQuantile(99)
	return s
}
