package filter

import "math"

const (
	// Kernel length formula: L = ceil(kernelLengthNumerator / β), forced odd.
	kernelLengthNumerator = 4.0

	// Transition bandwidths at or below zero are clamped to this value.
	minTransitionBandwidth = 1e-10

	// Largest kernel DesignSincLowPass will allocate.
	maxKernelLength = 1 << 20

	// Cutoff at Nyquist/factor, expressed in cycles per oversampled sample.
	cutoffScale = 0.5

	// Window normalization
	windowNormalizationFactor = 2.0

	// Sinc function constants
	sincZeroThreshold = 1e-10

	// Hamming window coefficients: w[i] = a0 - a1·cos(2πi/L)
	hammingA0 = 0.54
	hammingA1 = 0.46

	// Stopband attenuation the Kaiser window option is designed for.
	kaiserAttenuationDB = 80.0

	twoPi = 2 * math.Pi
)
