package engine

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-oversampler/internal/filter"
)

// ErrInvalidConfig is returned by NewOversampler for unusable parameters.
var ErrInvalidConfig = errors.New("engine: invalid oversampler config")

// Config holds the construction parameters of a single-channel Oversampler.
type Config struct {
	Factor       int           // integer oversampling factor, >= 1
	MaxBlockSize int           // largest base-rate block passed to WithOversample
	Window       filter.Window // window applied to the band-limiting kernel
}

// Oversampler runs a caller-supplied function at factor times the base
// sample rate of a mono stream.
//
// One windowed-sinc kernel serves both the anti-imaging filter (after
// zero-stuffing) and the anti-aliasing filter (before decimation). The two
// filters share a single FFT convolver but carry independent overlap state.
// All memory is allocated by NewOversampler; WithOversample never allocates.
type Oversampler struct {
	factor       int
	maxBlockSize int
	padding      int
	phase        int // decimation phase, padding mod factor

	kernel   []float64
	osBuffer []float64 // maxBlockSize * factor

	conv         *FFTConvolver
	antiImaging  *OverlapBuffer
	antiAliasing *OverlapBuffer
	filterFn     func([]float64) error

	diag Diagnostics
}

// NewOversampler designs the kernel and allocates every buffer the engine
// will use.
func NewOversampler(cfg Config) (*Oversampler, error) {
	if cfg.Factor < minFactor {
		return nil, fmt.Errorf("%w: factor %d", ErrInvalidConfig, cfg.Factor)
	}
	if cfg.MaxBlockSize < minBlockSize {
		return nil, fmt.Errorf("%w: max block size %d", ErrInvalidConfig, cfg.MaxBlockSize)
	}

	kernel, err := filter.DesignSincLowPass(TransitionBandwidth, cfg.Factor, cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	osSize := cfg.MaxBlockSize * cfg.Factor
	padding := len(kernel) - 1

	conv, err := NewFFTConvolver(kernel, osSize+padding)
	if err != nil {
		return nil, err
	}
	antiImaging, err := NewOverlapBuffer(osSize, padding)
	if err != nil {
		return nil, err
	}
	antiAliasing, err := NewOverlapBuffer(osSize, padding)
	if err != nil {
		return nil, err
	}

	o := &Oversampler{
		factor:       cfg.Factor,
		maxBlockSize: cfg.MaxBlockSize,
		padding:      padding,
		phase:        padding % cfg.Factor,
		kernel:       kernel,
		osBuffer:     make([]float64, osSize),
		conv:         conv,
		antiImaging:  antiImaging,
		antiAliasing: antiAliasing,
	}
	conv.diag = &o.diag
	antiImaging.diag = &o.diag
	antiAliasing.diag = &o.diag
	o.filterFn = o.filter
	return o, nil
}

func (o *Oversampler) filter(ext []float64) error {
	o.conv.Process(ext)
	return nil
}

// CheckBlockSize panics if a block of n samples exceeds MaxBlockSize.
func (o *Oversampler) CheckBlockSize(n int) {
	if n > o.maxBlockSize {
		panic(fmt.Sprintf("engine: block of %d samples exceeds max block size %d", n, o.maxBlockSize))
	}
}

// WithOversample upsamples block, calls fn on the oversampled signal, and
// decimates the result back into block in place.
//
// fn receives exactly len(block)*Factor samples and may modify them. Its
// error is returned unchanged after the block has been fully processed, so
// the stream stays consistent whatever fn reports. A nil fn is an identity.
//
// WithOversample panics if len(block) exceeds MaxBlockSize.
func (o *Oversampler) WithOversample(block []float64, fn func([]float64) error) error {
	o.CheckBlockSize(len(block))

	osLen := len(block) * o.factor
	up := o.osBuffer[:osLen]

	ZeroStuff(up, block, o.factor)
	_ = o.antiImaging.Process(up, o.filterFn)

	var err error
	if fn != nil {
		err = fn(up)
	}

	_ = o.antiAliasing.Process(up, o.filterFn)
	Decimate(block, up, o.factor, o.phase)

	o.diag.blocks.Add(1)
	o.diag.samplesIn.Add(uint64(len(block)))
	o.diag.samplesOut.Add(uint64(osLen))
	return err
}

// Latency returns the delay, in base-rate samples, between a sample
// entering WithOversample and the same sample leaving it.
func (o *Oversampler) Latency() int {
	return o.padding / o.factor
}

// Reset clears the filter history of both stages.
func (o *Oversampler) Reset() {
	o.antiImaging.Reset()
	o.antiAliasing.Reset()
	clear(o.osBuffer)
}

// Factor returns the oversampling factor.
func (o *Oversampler) Factor() int { return o.factor }

// MaxBlockSize returns the largest block accepted by WithOversample.
func (o *Oversampler) MaxBlockSize() int { return o.maxBlockSize }

// KernelLength returns the number of taps of the band-limiting kernel.
func (o *Oversampler) KernelLength() int { return len(o.kernel) }

// FFTSize returns the transform size of the shared convolver.
func (o *Oversampler) FFTSize() int { return o.conv.Size() }

// Diagnostics returns the engine's counters. Safe to read concurrently
// with WithOversample.
func (o *Oversampler) Diagnostics() *Diagnostics { return &o.diag }

// ZeroStuff writes src into dst at every factor-th position, scaled by
// factor to preserve passband gain, with zeros in between. dst must hold
// at least len(src)*factor samples.
func ZeroStuff(dst, src []float64, factor int) {
	gain := float64(factor)
	for i, s := range src {
		base := i * factor
		dst[base] = s * gain
		clear(dst[base+1 : base+factor])
	}
}

// Decimate fills dst with every factor-th sample of src starting at phase.
// src must hold at least (len(dst)-1)*factor+phase+1 samples.
func Decimate(dst, src []float64, factor, phase int) {
	for i := range dst {
		dst[i] = src[i*factor+phase]
	}
}
