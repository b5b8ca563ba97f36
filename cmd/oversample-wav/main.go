// Command oversample-wav applies a nonlinear waveshaper to a WAV file at an
// oversampled rate, so the harmonics it generates do not alias.
//
// Usage:
//
//	oversample-wav -factor 4 -shape tanh -drive 4 input.wav output.wav
//	oversample-wav -factor 8 -shape hardclip -drive 2 -window kaiser input.wav output.wav
//	oversample-wav -factor 1 -shape tanh input.wav naive.wav   # no oversampling, for comparison
//
// The output has the same sample rate, bit depth and length as the input;
// the processing latency is compensated.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	oversampler "github.com/tphakala/go-audio-oversampler"
	"github.com/tphakala/go-audio-oversampler/internal/filter"
)

const (
	// Channel count constants for fast paths
	monoChannels   = 1
	stereoChannels = 2

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%

	// CLI defaults
	defaultFactor    = 4
	defaultBlockSize = 1024
	defaultDrive     = 1.0
	minRequiredArgs  = 2
	percentScale     = 100

	// WAV format constants
	wavFormatPCM = 1
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Parse command line flags
	factor := flag.Int("factor", defaultFactor, "Oversampling factor (1-64)")
	blockSize := flag.Int("block", defaultBlockSize, "Block size in frames")
	shapeName := flag.String("shape", "tanh", "Waveshaper: none, tanh, softclip, hardclip")
	drive := flag.Float64("drive", defaultDrive, "Linear gain applied before the waveshaper")
	windowName := flag.String("window", "hamming", "Kernel window: hamming, kaiser")
	parallel := flag.Bool("parallel", true, "Enable parallel channel processing (faster for stereo/multichannel)")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	// Validate arguments before setting up profiling
	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -factor 4 -drive 4 guitar.wav fuzz.wav          # 4x oversampled tanh drive\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -factor 8 -shape hardclip mix.wav clipped.wav   # 8x oversampled clipper\n", os.Args[0])
		return errors.New("insufficient arguments")
	}

	shape, err := parseShape(*shapeName, *drive)
	if err != nil {
		return err
	}
	window, err := filter.ParseWindow(*windowName)
	if err != nil {
		return err
	}

	// Start CPU profiling if requested (for PGO)
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	inputPath := args[0]
	outputPath := args[1]

	opts := processOptions{
		factor:    *factor,
		blockSize: *blockSize,
		window:    window,
		shape:     shape,
		parallel:  *parallel,
		verbose:   *verbose,
	}

	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Factor: %dx, block: %d frames, window: %s", opts.factor, opts.blockSize, window)
		log.Printf("Shape: %s, drive: %.2f", *shapeName, *drive)
		if *parallel {
			log.Printf("Parallel: enabled (concurrent channel processing)")
		} else {
			log.Printf("Parallel: disabled (sequential processing)")
		}
	}

	// Process the file
	start := time.Now()
	stats, err := oversampleWAV(inputPath, outputPath, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// Print summary
	fmt.Printf("Processed %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %dx oversampling (%d Hz internal)\n",
		stats.rate, stats.channels, stats.bitDepth, stats.factor, stats.rate*stats.factor)
	fmt.Printf("  %d frames, latency %d frames (compensated)\n", stats.frames, stats.latency)
	if stats.degraded > 0 {
		fmt.Printf("  Warning: %d degraded blocks\n", stats.degraded)
	}
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.frames)/float64(stats.rate)/elapsed.Seconds())

	return nil
}

// processOptions carries the CLI settings into the processing loop.
type processOptions struct {
	factor    int
	blockSize int
	window    oversampler.Window
	shape     shaper
	parallel  bool
	verbose   bool
}

type processStats struct {
	rate     int
	channels int
	bitDepth int
	factor   int
	latency  int
	frames   int64
	degraded int64
}

// oversampleWAV streams inputPath through the oversampled waveshaper into
// outputPath, compensating the oversampler latency.
func oversampleWAV(inputPath, outputPath string, opts processOptions) (stats *processStats, err error) {
	// 1. Open and validate input
	input, err := openWAVInput(inputPath, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	// 2. Create oversampler
	o, err := oversampler.New(&oversampler.Config{
		Factor:         opts.factor,
		MaxBlockSize:   opts.blockSize,
		Channels:       input.channels,
		Window:         opts.window,
		EnableParallel: opts.parallel,
	})
	if err != nil {
		return nil, err
	}

	// 3. Create output writer
	output, err := createWAVOutput(outputPath, input.rate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (important for WAV header updates)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	// 4. Initialize processing buffers
	buffers := newProcessBuffers(input.channels, input.bitDepth, opts.blockSize, input.format)

	// 5. Initialize tracking
	stats = &processStats{
		rate:     input.rate,
		channels: input.channels,
		bitDepth: input.bitDepth,
		factor:   opts.factor,
		latency:  o.Latency(),
	}
	progress := newProgressTracker(input.totalFrames, opts.verbose)
	skip := o.Latency() // leading frames still owed to the filter delay
	shapeMulti := opts.shape.multi()

	process := func(frames int) error {
		if err := o.ProcessMulti(buffers.blocks(frames), shapeMulti); err != nil {
			return fmt.Errorf("processing failed: %w", err)
		}

		// Drop the frames that cover the filter delay.
		from := min(skip, frames)
		skip -= from
		if from == frames {
			return nil
		}

		n := interleaveInto(buffers.channelBufs, from, frames, buffers.outputInts, buffers.maxVal)
		if err := output.WriteSamples(buffers.outputInts[:n]); err != nil {
			return fmt.Errorf("failed to write audio data: %w", err)
		}
		stats.frames += int64(frames - from)
		return nil
	}

	// 6. Main processing loop
	for {
		buffers.intBuffer.Data = buffers.intBuffer.Data[:cap(buffers.intBuffer.Data)]
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		frames := n / input.channels
		if frames == 0 {
			break
		}

		deinterleaveInto(buffers.intBuffer.Data[:frames*input.channels], buffers.channelBufs, input.channels, frames, buffers.invMaxVal)
		if err := process(frames); err != nil {
			return nil, err
		}
		progress.reportIfNeeded(stats.frames)
	}

	// 7. Flush the filter delay with silence
	for remaining := o.Latency(); remaining > 0; {
		frames := min(remaining, opts.blockSize)
		for ch := range buffers.channelBufs {
			clear(buffers.channelBufs[ch][:frames])
		}
		if err := process(frames); err != nil {
			return nil, err
		}
		remaining -= frames
	}

	statistics := o.GetStatistics()
	stats.degraded = statistics["longBuffers"] + statistics["truncatedBlocks"]
	if opts.verbose {
		log.Printf("Statistics: %v", statistics)
	}

	return stats, nil
}
