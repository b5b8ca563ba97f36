package oversampler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tphakala/go-audio-oversampler/internal/engine"
	"github.com/tphakala/go-audio-oversampler/internal/filter"
)

// Window selects the taper applied to the band-limiting kernel.
type Window = filter.Window

// Available windows.
const (
	// WindowHamming is the default window.
	WindowHamming = filter.WindowHamming

	// WindowKaiser trades a slightly wider transition for deeper stopband
	// attenuation and an exactly linear phase.
	WindowKaiser = filter.WindowKaiser
)

// Common errors returned by the oversampler.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid oversampler configuration")

	// ErrChannelOutOfRange indicates a channel index outside [0, Channels).
	ErrChannelOutOfRange = errors.New("channel out of range")

	// ErrChannelMismatch indicates ProcessMulti got the wrong number of blocks.
	ErrChannelMismatch = errors.New("channel count mismatch")
)

// Config holds oversampling configuration.
type Config struct {
	// Factor is the integer oversampling factor (1-64).
	// The callback runs at Factor times the base sample rate.
	Factor int

	// MaxBlockSize is the largest block, in base-rate samples, that will be
	// passed to Process. All buffers are sized from it up front.
	MaxBlockSize int

	// Channels is the number of independent audio channels.
	Channels int

	// Window selects the kernel window. The zero value is WindowHamming.
	Window Window

	// EnableParallel enables parallel channel processing in ProcessMulti.
	// When true, channels are processed concurrently using goroutines.
	// Intended for offline rendering; has no effect on mono audio.
	EnableParallel bool
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Factor < minFactor || c.Factor > maxFactor {
		return fmt.Errorf("%w: factor must be %d-%d", ErrInvalidConfig, minFactor, maxFactor)
	}

	if c.MaxBlockSize < minBlockSize {
		return fmt.Errorf("%w: max block size must be at least %d", ErrInvalidConfig, minBlockSize)
	}

	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	if !c.Window.Valid() {
		return fmt.Errorf("%w: unknown window %d", ErrInvalidConfig, int(c.Window))
	}

	return nil
}

// Info describes a configured oversampler.
type Info struct {
	// Algorithm describes the processing chain.
	Algorithm string

	// Window names the kernel window.
	Window string

	// Factor is the oversampling factor.
	Factor int

	// FilterLength is the number of kernel taps.
	FilterLength int

	// FFTSize is the transform size of each channel's convolver.
	FFTSize int

	// Latency is the processing latency in base-rate samples.
	Latency int

	// MemoryUsage is the approximate buffer memory in bytes.
	MemoryUsage int64
}

// Oversampler runs a callback at an integer multiple of the base sample
// rate for one or more channels.
//
// Each channel owns its own engine, so different channels may be
// processed from different goroutines. Calls for the same channel must be
// serialized.
type Oversampler struct {
	config   Config
	channels []*channelState
}

// channelState binds a channel engine to the scratch its non-float64 and
// multi-channel entry points need, so those paths do not allocate.
type channelState struct {
	engine  *engine.Oversampler
	index   int
	scratch []float64 // float32 conversion, MaxBlockSize

	multiFn func(channel int, up []float64) error
	callFn  func(up []float64) error // bound to call
}

func (c *channelState) call(up []float64) error {
	return c.multiFn(c.index, up)
}

// New creates an oversampler. All buffers are allocated here.
func New(config *Config) (*Oversampler, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := &Oversampler{
		config:   *config,
		channels: make([]*channelState, config.Channels),
	}

	for ch := range o.channels {
		eng, err := engine.NewOversampler(engine.Config{
			Factor:       config.Factor,
			MaxBlockSize: config.MaxBlockSize,
			Window:       config.Window,
		})
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		state := &channelState{
			engine:  eng,
			index:   ch,
			scratch: make([]float64, config.MaxBlockSize),
		}
		state.callFn = state.call
		o.channels[ch] = state
	}

	return o, nil
}

// Process oversamples one block of channel in place.
//
// fn receives len(block)*Factor samples at the oversampled rate and may
// modify them; its error is returned unchanged. A nil fn passes the signal
// through band-limited and delayed by Latency samples.
//
// Process panics if len(block) exceeds MaxBlockSize.
func (o *Oversampler) Process(channel int, block []float64, fn func(up []float64) error) error {
	state, err := o.channel(channel)
	if err != nil {
		return err
	}
	return state.engine.WithOversample(block, fn)
}

// ProcessFloat32 is like Process but for float32 samples. Samples are
// converted to float64 at the boundary through preallocated scratch.
func (o *Oversampler) ProcessFloat32(channel int, block []float32, fn func(up []float64) error) error {
	state, err := o.channel(channel)
	if err != nil {
		return err
	}
	state.engine.CheckBlockSize(len(block))

	buf := state.scratch[:len(block)]
	for i, v := range block {
		buf[i] = float64(v)
	}
	err = state.engine.WithOversample(buf, fn)
	for i, v := range buf {
		block[i] = float32(v)
	}
	return err
}

// ProcessMulti processes one block per channel.
// When EnableParallel is true in config, channels are processed concurrently
// and fn may be called from several goroutines at once.
// Otherwise, channels are processed sequentially.
func (o *Oversampler) ProcessMulti(blocks [][]float64, fn func(channel int, up []float64) error) error {
	if len(blocks) != len(o.channels) {
		return fmt.Errorf("%w: expected %d channels, got %d", ErrChannelMismatch, len(o.channels), len(blocks))
	}

	if fn == nil {
		fn = passThrough
	}

	// Sequential processing (default or when parallel disabled).
	// Every channel is processed even after a callback error so the
	// channels stay aligned; the first error is returned.
	if !o.config.EnableParallel || len(blocks) <= 1 {
		var firstErr error
		for ch, state := range o.channels {
			state.multiFn = fn
			if err := state.engine.WithOversample(blocks[ch], state.callFn); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("channel %d: %w", ch, err)
			}
		}
		return firstErr
	}

	// Parallel processing: process channels concurrently
	var wg sync.WaitGroup
	errChan := make(chan error, len(blocks))

	for ch, state := range o.channels {
		state.multiFn = fn
		wg.Add(1)
		go func(channel int, state *channelState) {
			defer wg.Done()

			if err := state.engine.WithOversample(blocks[channel], state.callFn); err != nil {
				errChan <- fmt.Errorf("channel %d: %w", channel, err)
			}
		}(ch, state)
	}

	wg.Wait()
	close(errChan)

	// Check for errors
	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}

func passThrough(int, []float64) error { return nil }

func (o *Oversampler) channel(channel int) (*channelState, error) {
	if channel < 0 || channel >= len(o.channels) {
		return nil, fmt.Errorf("%w: %d (channels: %d)", ErrChannelOutOfRange, channel, len(o.channels))
	}
	return o.channels[channel], nil
}

// Latency returns the processing latency in base-rate samples.
func (o *Oversampler) Latency() int {
	return o.channels[0].engine.Latency()
}

// Reset clears the filter history of every channel.
func (o *Oversampler) Reset() {
	for _, state := range o.channels {
		state.engine.Reset()
	}
}

// Factor returns the oversampling factor.
func (o *Oversampler) Factor() int {
	return o.config.Factor
}

// MaxBlockSize returns the largest block accepted by Process.
func (o *Oversampler) MaxBlockSize() int {
	return o.config.MaxBlockSize
}

// Channels returns the number of channels.
func (o *Oversampler) Channels() int {
	return len(o.channels)
}

// GetStatistics returns processing statistics summed over all channels.
// Safe to call while other goroutines are processing.
func (o *Oversampler) GetStatistics() map[string]int64 {
	var total engine.DiagnosticsSnapshot
	for _, state := range o.channels {
		s := state.engine.Diagnostics().Snapshot()
		total.Blocks += s.Blocks
		total.SamplesIn += s.SamplesIn
		total.SamplesOut += s.SamplesOut
		total.ShortBuffers += s.ShortBuffers
		total.LongBuffers += s.LongBuffers
		total.TruncatedBlocks += s.TruncatedBlocks
	}

	return map[string]int64{
		"blocks":          int64(total.Blocks),
		"samplesIn":       int64(total.SamplesIn),
		"samplesOut":      int64(total.SamplesOut),
		"shortBuffers":    int64(total.ShortBuffers),
		"longBuffers":     int64(total.LongBuffers),
		"truncatedBlocks": int64(total.TruncatedBlocks),
	}
}

// GetInfo returns information about the oversampler.
func (o *Oversampler) GetInfo() Info {
	eng := o.channels[0].engine
	info := Info{
		Algorithm:    "zero-stuff + FFT windowed-sinc",
		Window:       o.config.Window.String(),
		Factor:       o.config.Factor,
		FilterLength: eng.KernelLength(),
		FFTSize:      eng.FFTSize(),
		Latency:      eng.Latency(),
	}

	// Per channel: oversampled buffer, two overlap scratch+padding pairs,
	// convolver work buffer and three spectra, plus the float32 scratch.
	osSize := int64(o.config.Factor * o.config.MaxBlockSize)
	padding := int64(eng.KernelLength() - 1)
	fftSize := int64(eng.FFTSize())
	bins := fftSize/2 + 1
	perChannel := osSize +
		2*(osSize+2*padding) +
		fftSize + 2*3*bins +
		int64(eng.KernelLength()) +
		int64(o.config.MaxBlockSize)
	info.MemoryUsage = perChannel * bytesPerFloat64 * int64(len(o.channels))

	return info
}
