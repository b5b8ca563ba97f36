package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-audio-oversampler/internal/mathutil"
)

// Window selects the taper applied to the ideal sinc kernel.
type Window int

const (
	// WindowHamming is the default taper: w[i] = 0.54 − 0.46·cos(2πi/L).
	WindowHamming Window = iota

	// WindowKaiser uses a Kaiser window designed for 80 dB stopband
	// attenuation. It trades a wider transition band for a deeper stopband.
	WindowKaiser
)

// String returns the lower-case window name.
func (w Window) String() string {
	switch w {
	case WindowHamming:
		return "hamming"
	case WindowKaiser:
		return "kaiser"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

// Valid reports whether w is a known window.
func (w Window) Valid() bool {
	return w == WindowHamming || w == WindowKaiser
}

// ParseWindow maps a window name to its Window value.
func ParseWindow(name string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "hamming":
		return WindowHamming, nil
	case "kaiser":
		return WindowKaiser, nil
	default:
		return 0, fmt.Errorf("unknown window %q (want hamming or kaiser)", name)
	}
}

// Apply multiplies s in place by the window of length len(s).
func (w Window) Apply(s []float64) {
	switch w {
	case WindowKaiser:
		window := KaiserWindow(len(s), mathutil.KaiserBeta(kaiserAttenuationDB))
		for i := range s {
			s[i] *= window[i]
		}
	default:
		applyHamming(s)
	}
}

// HammingWindow returns the Hamming window of the given length.
//
// The period is the full length L, not L−1, so the taper peaks at L/2
// and the first coefficient is 0.08.
func HammingWindow(length int) []float64 {
	if length < 1 {
		return []float64{}
	}
	window := make([]float64, length)
	for i := range window {
		window[i] = 1
	}
	applyHamming(window)
	return window
}

func applyHamming(s []float64) {
	n := float64(len(s))
	for i := range s {
		s[i] *= hammingA0 - hammingA1*math.Cos(twoPi*float64(i)/n)
	}
}

// KaiserWindow generates a Kaiser window of the specified length and β parameter.
//
// The window is symmetric, w[i] = w[length-1-i], and peaks at 1.0 in the
// middle:
//
//	w[n] = I₀(β·sqrt(1 − ((n − α)/α)²)) / I₀(β),  α = (length−1)/2
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	alpha := float64(length-1) / windowNormalizationFactor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(math.Max(0, 1.0-x*x))) / i0Beta
	}

	return window
}
