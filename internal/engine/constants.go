package engine

// Oversampler design constants.
const (
	// TransitionBandwidth is the normalized transition width of the band-limiting
	// filter. 1/16 yields a 65-tap kernel, so the carried padding (64) divides
	// evenly by every power-of-two factor up to 64.
	TransitionBandwidth = 0.0625

	// minFactor is the smallest oversampling factor (1 = pass-through rate).
	minFactor = 1

	// minBlockSize is the smallest configurable block size.
	minBlockSize = 1
)

// FFT convolution constants.
const (
	// fftHermitianDivisor is used to calculate unique frequency bins in real FFT.
	// Due to Hermitian symmetry, a real FFT of size N has N/2 + 1 unique complex coefficients.
	fftHermitianDivisor = 2
)
