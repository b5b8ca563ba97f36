// Package oversampler runs nonlinear audio processing at an integer multiple
// of the stream's sample rate, in real time and in pure Go.
//
// Waveshapers, saturators and other nonlinear stages create harmonics above
// the Nyquist frequency of the base rate, which fold back as aliasing. The
// oversampler zero-stuffs each block to factor times the rate, removes the
// spectral images with a windowed-sinc low-pass filter, hands the
// oversampled signal to a caller-supplied function, filters again to remove
// everything the function pushed above the base Nyquist frequency, and
// decimates back in place.
//
// # Features
//
//   - Any integer factor from 1 to 64
//   - Fixed, exact latency reported by [Oversampler.Latency]
//   - FFT convolution with streaming overlap-add state between blocks
//   - No allocation on the processing path once constructed
//   - Hamming (default) or Kaiser kernel window
//   - Multi-channel support with optional parallel channel processing
//   - Optional SIMD acceleration via github.com/tphakala/simd
//
// # Quick Start
//
// For one-shot processing of a whole signal:
//
//	output, err := oversampler.OversampleMono(input, 4, func(up []float64) error {
//	    for i, v := range up {
//	        up[i] = math.Tanh(3 * v)
//	    }
//	    return nil
//	})
//
// For streaming use, construct once and process blocks:
//
//	o, err := oversampler.New(&oversampler.Config{
//	    Factor:       4,
//	    MaxBlockSize: 256,
//	    Channels:     2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for block := range blocks {
//	    if err := o.Process(0, block, shape); err != nil {
//	        log.Print(err)
//	    }
//	}
//
// The error returned by the callback is passed back unchanged, which gives
// the processing function a way to report side information (for example,
// that it clipped) without stopping the stream.
//
// # Latency
//
// The kernel has 65 taps. Filtering twice at the oversampled rate delays
// the signal by 64 oversampled samples, which is 64/factor base-rate
// samples. Decimation picks the phase that makes this delay an exact
// integer, so compensating it is a plain shift. [OversampleMono] and
// [OversampleStereo] do this shift for you.
//
// # Thread Safety
//
// Channels own independent state and may be processed concurrently, which
// [Oversampler.ProcessMulti] does when [Config.EnableParallel] is set.
// Calls for the same channel must be serialized. [Oversampler.GetStatistics]
// may be called from any goroutine.
package oversampler
