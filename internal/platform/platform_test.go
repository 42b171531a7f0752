package platform

import (
	"strings"
	"testing"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		os   SupportedOS
		want bool
	}{
		{Linux, true},
		{Windows, true},
		{"darwin", false},
		{"plan9", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.os), func(t *testing.T) {
			if got := IsSupported(tt.os); got != tt.want {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.os, got, tt.want)
			}
		})
	}
}

func TestValidateSupportMatchesCurrentOS(t *testing.T) {
	err := ValidateSupport()
	if IsSupported(GetOS()) && err != nil {
		t.Fatalf("ValidateSupport() = %v on supported OS %s", err, GetOS())
	}
	if !IsSupported(GetOS()) && err == nil {
		t.Fatalf("ValidateSupport() = nil on unsupported OS %s", GetOS())
	}
}

func TestValidateNamesSampler(t *testing.T) {
	err := validate("plan9")
	if err == nil {
		t.Fatal("validate(plan9) = nil, want error")
	}
	if !strings.Contains(err.Error(), "per-core CPU sampling not supported on plan9") {
		t.Errorf("validate(plan9) = %q", err)
	}
	if err := validate(Linux); err != nil {
		t.Errorf("validate(linux) = %v", err)
	}
}
