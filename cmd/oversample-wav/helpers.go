package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	// Open input file
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	// Create WAV decoder
	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	// Read format info
	format := decoder.Format()
	rate := format.SampleRate
	channels := format.NumChannels
	bitDepth := int(decoder.BitDepth)

	if channels < 1 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s has no channels", path)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", rate, channels, bitDepth)
	}

	// Get total duration for progress reporting
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}
	totalFrames := int64(duration.Seconds() * float64(rate))

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        rate,
		channels:    channels,
		bitDepth:    bitDepth,
		totalFrames: totalFrames,
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates the output file and a PCM encoder for it.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	// Create output file
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved samples to the output file.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	w.buf.Data = samples
	return w.encoder.Write(w.buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// processBuffers holds all preallocated buffers for the processing loop.
type processBuffers struct {
	intBuffer   *audio.IntBuffer
	channelBufs [][]float64
	views       [][]float64 // per-call block views into channelBufs
	outputInts  []int
	invMaxVal   float64
	maxVal      float64
}

// newProcessBuffers creates and preallocates all processing buffers.
func newProcessBuffers(channels, bitDepth, blockSize int, format *audio.Format) *processBuffers {
	channelBufs := make([][]float64, channels)
	for ch := range channels {
		channelBufs[ch] = make([]float64, blockSize)
	}

	maxVal := getMaxValue(bitDepth)

	return &processBuffers{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, blockSize*channels),
			Format: format,
		},
		channelBufs: channelBufs,
		views:       make([][]float64, channels),
		outputInts:  make([]int, blockSize*channels),
		invMaxVal:   1.0 / maxVal,
		maxVal:      maxVal,
	}
}

// blocks returns the first frames samples of every channel buffer.
func (b *processBuffers) blocks(frames int) [][]float64 {
	for ch, buf := range b.channelBufs {
		b.views[ch] = buf[:frames]
	}
	return b.views
}

// shaper is a memoryless nonlinearity applied at the oversampled rate.
type shaper func(up []float64) error

// multi adapts s to the per-channel callback of ProcessMulti.
func (s shaper) multi() func(int, []float64) error {
	return func(_ int, up []float64) error {
		return s(up)
	}
}

// parseShape returns the waveshaper named by name with the given input gain.
func parseShape(name string, drive float64) (shaper, error) {
	if drive <= 0 || math.IsNaN(drive) || math.IsInf(drive, 0) {
		return nil, fmt.Errorf("drive must be a positive finite number, got %v", drive)
	}

	switch strings.ToLower(name) {
	case "none":
		return func(up []float64) error {
			for i, v := range up {
				up[i] = v * drive
			}
			return nil
		}, nil
	case "tanh":
		return func(up []float64) error {
			for i, v := range up {
				up[i] = math.Tanh(v * drive)
			}
			return nil
		}, nil
	case "softclip":
		// Cubic soft clipper: x - x³/3 on [-1, 1], saturating at ±2/3.
		return func(up []float64) error {
			for i, v := range up {
				x := math.Max(-1, math.Min(1, v*drive))
				up[i] = x - x*x*x/3
			}
			return nil
		}, nil
	case "hardclip":
		return func(up []float64) error {
			for i, v := range up {
				up[i] = math.Max(-1, math.Min(1, v*drive))
			}
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown shape %q (want none, tanh, softclip or hardclip)", name)
	}
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalFrames: totalFrames,
		verbose:     verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// deinterleaveInto converts interleaved int samples into preallocated per-channel buffers.
func deinterleaveInto(data []int, channelBufs [][]float64, numChannels, frames int, invMaxVal float64) {
	// Fast path for mono
	if numChannels == monoChannels {
		buf := channelBufs[0]
		for i := range frames {
			buf[i] = float64(data[i]) * invMaxVal
		}
		return
	}

	// Fast path for stereo
	if numChannels == stereoChannels {
		buf0, buf1 := channelBufs[0], channelBufs[1]
		for i := range frames {
			idx := i * stereoChannels
			buf0[i] = float64(data[idx]) * invMaxVal
			buf1[i] = float64(data[idx+1]) * invMaxVal
		}
		return
	}

	// General case
	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = float64(data[base+ch]) * invMaxVal
		}
	}
}

// interleaveInto converts frames [from, to) of the per-channel buffers into
// clamped, interleaved int samples. Returns the number of elements written.
func interleaveInto(channels [][]float64, from, to int, dst []int, maxVal float64) int {
	numChannels := len(channels)
	n := 0
	for i := from; i < to; i++ {
		for ch := range numChannels {
			sample := math.Max(-1, math.Min(1, channels[ch][i]))
			dst[n] = int(math.Round(sample * maxVal))
			n++
		}
	}
	return n
}
