// Package testutil provides reusable test helpers for the oversampler packages.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance   = 1e-10
	MagnitudeTolerance = 1e-2
	WindowTolerance    = 1e-10
)

// halfDivisor is used for finding center indices in symmetric arrays.
const halfDivisor = 2

// AssertSymmetric verifies that a slice is symmetric (s[i] == s[n-1-i]).
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"slice not symmetric at i=%d: s[%d]=%f != s[%d]=%f", i, i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertDCGain verifies that the sum of coefficients equals the expected DC gain.
func AssertDCGain(t *testing.T, coeffs []float64, expectedGain, tolerance float64) bool {
	t.Helper()
	sum := floats.Sum(coeffs)
	return assert.InDelta(t, expectedGain, sum, tolerance,
		"DC gain = %f, want %f", sum, expectedGain)
}

// AssertCenterIsMax verifies that the center element is the maximum value.
func AssertCenterIsMax(t *testing.T, s []float64) bool {
	t.Helper()
	if len(s) == 0 {
		return assert.Fail(t, "empty slice")
	}
	centerIdx := len(s) / halfDivisor
	maxIdx := floats.MaxIdx(s)
	if s[maxIdx] > s[centerIdx] {
		return assert.Fail(t, "center is not max",
			"s[%d]=%f > center s[%d]=%f", maxIdx, s[maxIdx], centerIdx, s[centerIdx])
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertOddLength verifies that a slice has an odd length.
func AssertOddLength(t *testing.T, s []float64) bool {
	t.Helper()
	return assert.Equal(t, 1, len(s)%halfDivisor, "slice length %d is not odd", len(s))
}

// AssertSlicesInDelta compares two slices element by element.
func AssertSlicesInDelta(t *testing.T, expected, actual []float64, delta float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if math.Abs(expected[i]-actual[i]) > delta {
			return assert.Fail(t, "slices differ",
				"index %d: expected %.12f, actual %.12f (delta %g)", i, expected[i], actual[i], delta)
		}
	}
	return true
}

// LinearConvolve returns the full linear convolution of signal and kernel,
// len(signal)+len(kernel)-1 samples long. It is the O(N·M) reference the
// FFT paths are checked against.
func LinearConvolve(signal, kernel []float64) []float64 {
	if len(signal) == 0 || len(kernel) == 0 {
		return nil
	}
	out := make([]float64, len(signal)+len(kernel)-1)
	for i, x := range signal {
		for k, h := range kernel {
			out[i+k] += x * h
		}
	}
	return out
}

// Sine generates n samples of a unit sine at freq cycles per sample.
func Sine(n int, freq float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.Sin(2 * math.Pi * freq * float64(i))
	}
	return s
}

// Ramp generates n samples of a deterministic, non-repeating test signal.
func Ramp(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.Sin(float64(i)*0.37) + 0.25*math.Cos(float64(i)*1.91)
	}
	return s
}
