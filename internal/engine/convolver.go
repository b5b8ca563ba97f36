package engine

import (
	"errors"
	"fmt"

	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Convolver construction errors.
var (
	ErrEmptyKernel    = errors.New("engine: empty kernel")
	ErrInvalidFFTSize = errors.New("engine: invalid FFT size")
	ErrKernelTooLong  = errors.New("engine: kernel longer than FFT size")
	ErrSpectrumLength = errors.New("engine: spectrum length does not match FFT size")
)

// FFTConvolver performs a fixed-size cyclic convolution of a buffer with a
// kernel, in place. Callers that need linear convolution provide at least
// len(kernel)-1 trailing zeros (see OverlapBuffer).
//
// All buffers are allocated at construction; Process never allocates.
// A convolver owns its transform plan exclusively and is not safe for
// concurrent use.
type FFTConvolver struct {
	fft  *fourier.FFT
	size int

	// Precomputed kernel in frequency domain
	kernelFFT []complex128
	scale     float64 // 1/size for IFFT normalization (gonum doesn't normalize)

	// Working buffers
	work       []float64
	signalFFT  []complex128
	productFFT []complex128

	diag *Diagnostics
}

// NewFFTConvolver creates a convolver of the given transform size. The
// kernel is zero-padded to size and transformed once.
func NewFFTConvolver(kernel []float64, size int) (*FFTConvolver, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, size)
	}
	if len(kernel) > size {
		return nil, fmt.Errorf("%w: kernel %d, size %d", ErrKernelTooLong, len(kernel), size)
	}

	fft := fourier.NewFFT(size)
	padded := make([]float64, size)
	copy(padded, kernel)
	spectrum := fft.Coefficients(nil, padded)

	return newConvolver(fft, spectrum, size), nil
}

// NewFFTConvolverFromSpectrum creates a convolver from a kernel that was
// already zero-padded to size and transformed (size/2+1 Hermitian bins,
// gonum's real FFT layout). The spectrum is copied.
func NewFFTConvolverFromSpectrum(spectrum []complex128, size int) (*FFTConvolver, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, size)
	}
	if bins := size/fftHermitianDivisor + 1; len(spectrum) != bins {
		return nil, fmt.Errorf("%w: got %d bins, want %d", ErrSpectrumLength, len(spectrum), bins)
	}

	owned := make([]complex128, len(spectrum))
	copy(owned, spectrum)
	return newConvolver(fourier.NewFFT(size), owned, size), nil
}

func newConvolver(fft *fourier.FFT, spectrum []complex128, size int) *FFTConvolver {
	bins := size/fftHermitianDivisor + 1
	return &FFTConvolver{
		fft:        fft,
		size:       size,
		kernelFFT:  spectrum,
		scale:      1.0 / float64(size),
		work:       make([]float64, size),
		signalFFT:  make([]complex128, bins),
		productFFT: make([]complex128, bins),
		diag:       &Diagnostics{},
	}
}

// Size returns the transform size.
func (c *FFTConvolver) Size() int {
	return c.size
}

// Diagnostics returns the counters this convolver records into.
func (c *FFTConvolver) Diagnostics() *Diagnostics {
	return c.diag
}

// Process convolves buf with the kernel in place.
//
// A buffer shorter than Size is treated as zero-padded to Size and only
// its own length is written back. For a longer buffer only the first Size
// samples are processed; the remainder is left untouched. Both cases are
// counted in the diagnostics.
func (c *FFTConvolver) Process(buf []float64) {
	n := len(buf)
	switch {
	case n < c.size:
		c.diag.shortBuffers.Add(1)
	case n > c.size:
		c.diag.longBuffers.Add(1)
		n = c.size
	}

	copy(c.work, buf[:n])
	clear(c.work[n:])

	c.signalFFT = c.fft.Coefficients(c.signalFFT, c.work)
	c128.Mul(c.productFFT, c.signalFFT, c.kernelFFT)
	c.work = c.fft.Sequence(c.work, c.productFFT)

	f64.Scale(buf[:n], c.work[:n], c.scale)
}
