//go:build !linux && !windows

package cpu

import "fmt"

// newPlatformSampler fails on platforms without a sampler
func newPlatformSampler() (Sampler, error) {
	return nil, fmt.Errorf("CPU monitoring not supported on this platform")
}
