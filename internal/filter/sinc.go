// Package filter designs the windowed-sinc low-pass kernels used to
// band-limit the oversampled signal.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

// Sinc returns sin(x)/x, with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if math.Abs(x) < sincZeroThreshold {
		return 1
	}
	return math.Sin(x) / x
}

// KernelLength returns the kernel length for transition bandwidth beta:
// the smallest odd L with L ≥ ceil(4/beta). Smaller beta gives a longer,
// sharper filter. Non-positive (and NaN) beta is clamped to 1e-10.
func KernelLength(beta float64) int {
	if !(beta > minTransitionBandwidth) {
		beta = minTransitionBandwidth
	}

	length := int(math.Ceil(kernelLengthNumerator / beta))
	if length%2 == 0 {
		length++
	}
	return length
}

// DesignSincLowPass allocates and designs a low-pass kernel for the given
// transition bandwidth and oversampling factor. The cutoff sits at
// Nyquist/factor and the coefficients sum to 1.
func DesignSincLowPass(beta float64, factor int, window Window) ([]float64, error) {
	if factor < 1 {
		return nil, fmt.Errorf("invalid oversampling factor %d (must be >= 1)", factor)
	}
	if !window.Valid() {
		return nil, fmt.Errorf("invalid window %v", window)
	}

	length := KernelLength(beta)
	if length > maxKernelLength {
		return nil, fmt.Errorf("transition bandwidth %g needs %d taps (maximum %d)", beta, length, maxKernelLength)
	}

	kernel := make([]float64, length)
	FillSincLowPass(kernel, factor, window)
	return kernel, nil
}

// FillSincLowPass overwrites kernel with a windowed-sinc low-pass whose
// cutoff is 0.5/factor cycles per sample:
//
//	h[i] = sinc(2π·fc·(i − (L−1)/2)) · w[i] / Σ
//
// factor values below 1 are treated as 1.
func FillSincLowPass(kernel []float64, factor int, window Window) {
	if len(kernel) == 0 {
		return
	}
	factor = max(factor, 1)

	fc := cutoffScale / float64(factor)
	center := float64(len(kernel)-1) / windowNormalizationFactor
	for i := range kernel {
		kernel[i] = Sinc(twoPi * fc * (float64(i) - center))
	}

	window.Apply(kernel)

	// Unity gain at DC
	sum := f64.Sum(kernel)
	if math.Abs(sum) > sincZeroThreshold {
		f64.Scale(kernel, kernel, 1/sum)
	}
}
