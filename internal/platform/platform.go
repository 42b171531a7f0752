package platform

import (
	"fmt"
	"runtime"
)

// SupportedOS represents supported operating systems
type SupportedOS string

const (
	Linux   SupportedOS = "linux"
	Windows SupportedOS = "windows"
)

// GetOS returns the current operating system
func GetOS() SupportedOS {
	return SupportedOS(runtime.GOOS)
}

// IsSupported reports whether per-core sampling is available on os
func IsSupported(os SupportedOS) bool {
	return os == Linux || os == Windows
}

// ValidateSupport returns an error if the current OS cannot be sampled
func ValidateSupport() error {
	return validate(GetOS())
}

func validate(os SupportedOS) error {
	if !IsSupported(os) {
		return fmt.Errorf("per-core CPU sampling not supported on %s (supported: %s, %s)", os, Linux, Windows)
	}
	return nil
}
