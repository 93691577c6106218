package config

import (
	"testing"

	"github.com/pkg/errors"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := DefaultNormalizeOptions().Validate(); err != nil {
		t.Errorf("normalize defaults: %v", err)
	}
	if err := DefaultDedupeOptions().Validate(); err != nil {
		t.Errorf("dedupe defaults: %v", err)
	}
	if err := DefaultPackageOptions().Validate(); err != nil {
		t.Errorf("package defaults: %v", err)
	}
	if DefaultDedupeOptions().Verbose {
		t.Error("dedupe should not report every duplicate pair by default")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func() error
	}{
		{"zero width", func() error {
			o := DefaultNormalizeOptions()
			o.Width = 0
			return o.Validate()
		}},
		{"quality above 100", func() error {
			o := DefaultNormalizeOptions()
			o.Quality = 101
			return o.Validate()
		}},
		{"alpha mode", func() error {
			o := DefaultNormalizeOptions()
			o.Mode = ModeRGBA
			return o.Validate()
		}},
		{"unknown collision policy", func() error {
			o := DefaultNormalizeOptions()
			o.Collision = "merge"
			return o.Validate()
		}},
		{"pattern with directory", func() error {
			o := DefaultNormalizeOptions()
			o.Pattern = "normal/*.jpg"
			return o.Validate()
		}},
		{"hash size not a multiple of 8", func() error {
			o := DefaultDedupeOptions()
			o.HashSize = 12
			return o.Validate()
		}},
		{"unknown hash kind", func() error {
			o := DefaultDedupeOptions()
			o.HashKind = "wavelet"
			return o.Validate()
		}},
		{"archive without npz suffix", func() error {
			o := DefaultPackageOptions()
			o.ArchivePath = "data.zip"
			return o.Validate()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mutate(); errors.Cause(err) != ErrInvalidOptions {
				t.Errorf("got %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestModes(t *testing.T) {
	for _, m := range []Mode{ModeGray, ModeRGB, ModeRGBA} {
		back, ok := ModeForChannels(m.Channels())
		if !ok || back != m {
			t.Errorf("%s: round trip gave %s", m, back)
		}
	}
	if _, ok := ModeForChannels(2); ok {
		t.Error("2 channels should not map to a mode")
	}
}
