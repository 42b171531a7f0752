package cpu

import "github.com/shirou/gopsutil/v3/cpu"

// busyAndTotal splits a counter set into busy and total jiffies. Guest time is
// already accounted in User and Nice on linux, so it is not added again
func busyAndTotal(t cpu.TimesStat) (busy, total float64) {
	total = t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
	busy = total - t.Idle - t.Iowait
	return busy, total
}

// usageBetween returns the busy share of the interval between prev and cur in percent
func usageBetween(prev, cur cpu.TimesStat) float64 {
	prevBusy, prevTotal := busyAndTotal(prev)
	curBusy, curTotal := busyAndTotal(cur)

	dTotal := curTotal - prevTotal
	if dTotal <= 0 {
		return 0
	}
	dBusy := curBusy - prevBusy
	if dBusy <= 0 {
		return 0
	}
	return clampPercent(dBusy / dTotal * 100)
}

// timesTracker keeps the previous per-core counters between samples
type timesTracker struct {
	prev []cpu.TimesStat
}

// next computes per-core usage against the previous counters and stores cur
// for the following call. The first call, and any call after the core count
// changed, yields a zero warm-up reading for every core
func (t *timesTracker) next(cur []cpu.TimesStat) Snapshot {
	usages := make([]float64, len(cur))
	if len(t.prev) == len(cur) {
		for i := range cur {
			usages[i] = usageBetween(t.prev[i], cur[i])
		}
	}
	t.prev = append(t.prev[:0], cur...)
	return fromUsages(usages)
}
