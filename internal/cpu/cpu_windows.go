//go:build windows

package cpu

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/StackExchange/wmi"
)

// WindowsSampler reads the formatted per-processor counters from WMI
type WindowsSampler struct{}

// newPlatformSampler creates a Windows sampler after checking WMI answers
func newPlatformSampler() (Sampler, error) {
	s := &WindowsSampler{}
	if _, err := s.Sample(context.Background()); err != nil {
		return nil, fmt.Errorf("query processor counters: %w", err)
	}
	return s, nil
}

// Win32_PerfFormattedData_PerfOS_Processor represents one processor counter row
type Win32_PerfFormattedData_PerfOS_Processor struct {
	Name                 string
	PercentProcessorTime uint64
}

// Sample returns usage per core. WMI averages over its own refresh interval,
// so no counters are kept between calls
func (s *WindowsSampler) Sample(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []Win32_PerfFormattedData_PerfOS_Processor
	err := wmi.Query("SELECT Name, PercentProcessorTime FROM Win32_PerfFormattedData_PerfOS_Processor", &rows)
	if err != nil {
		return nil, err
	}

	return fromProcessorRows(rows), nil
}

// fromProcessorRows drops aggregate rows such as "_Total" and orders the rest
// by their numeric instance name
func fromProcessorRows(rows []Win32_PerfFormattedData_PerfOS_Processor) Snapshot {
	type core struct {
		index int
		usage float64
	}

	cores := make([]core, 0, len(rows))
	for _, row := range rows {
		index, err := strconv.Atoi(row.Name)
		if err != nil {
			continue
		}
		cores = append(cores, core{index: index, usage: float64(row.PercentProcessorTime)})
	}
	sort.Slice(cores, func(i, j int) bool { return cores[i].index < cores[j].index })

	usages := make([]float64, len(cores))
	for i, c := range cores {
		usages[i] = c.usage
	}
	return fromUsages(usages)
}
