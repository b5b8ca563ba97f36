package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-audio-oversampler/internal/testutil"
)

// TestBesselI0 tests BesselI0 against known values.
func TestBesselI0(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		expected  float64
		tolerance float64
	}{
		{"Zero", 0.0, 1.0, 1e-15},
		{"Small positive", 0.5, 1.063483344, 1e-7},
		{"One", 1.0, 1.266065848, 1e-7},
		{"Two", 2.0, 2.279585307, 1e-7},
		{"Three", 3.0, 4.880792565, 1e-7},
		{"Four", 4.0, 11.30192217, 1e-7},
		{"Five", 5.0, 27.23987183, 1e-7},
		{"Ten", 10.0, 2815.716628, 1e-6},
		{"Twenty", 20.0, 4.355828e7, 1e-5},
		{"Small negative", -0.5, 1.063483344, 1e-7},
		{"Negative one", -1.0, 1.266065848, 1e-7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BesselI0(tt.x)
			testutil.AssertRelativeError(t, tt.expected, result, tt.tolerance)
		})
	}
}

// TestBesselI0_Symmetry tests I₀(x) = I₀(-x).
func TestBesselI0_Symmetry(t *testing.T) {
	for _, x := range []float64{0.1, 1.0, 2.5, 5.0, 10.0} {
		assert.InDelta(t, BesselI0(x), BesselI0(-x), 1e-10, "x=%v", x)
	}
}

func TestBesselI0_Monotonic(t *testing.T) {
	prev := BesselI0(0)
	for x := 0.25; x <= 15; x += 0.25 {
		cur := BesselI0(x)
		assert.Greater(t, cur, prev, "I₀ must increase at x=%v", x)
		prev = cur
	}
}

// TestKaiserBeta tests the three regions of Kaiser's β formula.
func TestKaiserBeta(t *testing.T) {
	tests := []struct {
		name        string
		attenuation float64
		expected    float64
		tolerance   float64
	}{
		{"below_medium", 15, 0, 1e-12},
		{"medium_lower_edge", 21, 0, 1e-12},
		{"medium_40dB", 40, 3.3953, 1e-3}, // 0.5842·19^0.4 + 0.07886·19
		{"high_60dB", 60, 0.1102 * (60 - 8.7), 1e-12},
		{"high_80dB", 80, 0.1102 * (80 - 8.7), 1e-12},
		{"high_120dB", 120, 0.1102 * (120 - 8.7), 1e-12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, KaiserBeta(tt.attenuation), tt.tolerance)
		})
	}
}
