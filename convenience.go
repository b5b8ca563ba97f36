package oversampler

import (
	"github.com/tphakala/go-audio-oversampler/internal/simdops"
)

// NewMono creates a single-channel oversampler with DefaultMaxBlockSize.
func NewMono(factor int) (*Oversampler, error) {
	return New(&Config{
		Factor:       factor,
		MaxBlockSize: DefaultMaxBlockSize,
		Channels:     monoChannels,
	})
}

// NewStereo creates a two-channel oversampler with DefaultMaxBlockSize.
func NewStereo(factor int) (*Oversampler, error) {
	return New(&Config{
		Factor:       factor,
		MaxBlockSize: DefaultMaxBlockSize,
		Channels:     stereoChannels,
	})
}

// OversampleMono is a convenience function for one-shot mono processing.
// It runs fn at factor times the input rate over the whole signal and
// returns a result aligned with the input: the processing latency is
// flushed with trailing silence and dropped from the head.
func OversampleMono(input []float64, factor int, fn func(up []float64) error) ([]float64, error) {
	o, err := NewMono(factor)
	if err != nil {
		return nil, err
	}

	buf, err := runCompensated(o, [][]float64{input}, func(_ int, up []float64) error {
		if fn == nil {
			return nil
		}
		return fn(up)
	})
	if err != nil {
		return nil, err
	}
	return buf[0], nil
}

// OversampleStereo is a convenience function for one-shot stereo processing.
// fn is applied to both channels; see OversampleMono for alignment.
func OversampleStereo(left, right []float64, factor int, fn func(up []float64) error) (leftOut, rightOut []float64, err error) {
	o, err := NewStereo(factor)
	if err != nil {
		return nil, nil, err
	}

	n := min(len(left), len(right))
	out, err := runCompensated(o, [][]float64{left[:n], right[:n]}, func(_ int, up []float64) error {
		if fn == nil {
			return nil
		}
		return fn(up)
	})
	if err != nil {
		return nil, nil, err
	}
	return out[0], out[1], nil
}

// runCompensated streams equally long channels through o, appends Latency
// samples of silence, and returns each channel shifted back into alignment.
func runCompensated(o *Oversampler, input [][]float64, fn func(channel int, up []float64) error) ([][]float64, error) {
	n := len(input[0])
	latency := o.Latency()

	work := make([][]float64, len(input))
	for ch := range input {
		work[ch] = make([]float64, n+latency)
		copy(work[ch], input[ch])
	}

	blocks := make([][]float64, len(input))
	for start := 0; start < n+latency; start += o.MaxBlockSize() {
		end := min(start+o.MaxBlockSize(), n+latency)
		for ch := range work {
			blocks[ch] = work[ch][start:end]
		}
		if err := o.ProcessMulti(blocks, fn); err != nil {
			return nil, err
		}
	}

	for ch := range work {
		work[ch] = work[ch][latency:]
	}
	return work, nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo(left, right []float64) []float64 {
	return interleave(left, right)
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo(interleaved []float64) (left, right []float64) {
	return deinterleave(interleaved)
}

// InterleaveToStereoFloat32 is the float32 variant of InterleaveToStereo.
func InterleaveToStereoFloat32(left, right []float32) []float32 {
	return interleave(left, right)
}

// DeinterleaveFromStereoFloat32 is the float32 variant of DeinterleaveFromStereo.
func DeinterleaveFromStereoFloat32(interleaved []float32) (left, right []float32) {
	return deinterleave(interleaved)
}

func interleave[F simdops.Float](left, right []F) []F {
	n := min(len(left), len(right))
	result := make([]F, n*stereoChannels)
	simdops.For[F]().Interleave2(result, left[:n], right[:n])
	return result
}

func deinterleave[F simdops.Float](interleaved []F) (left, right []F) {
	n := len(interleaved) / stereoChannels
	left = make([]F, n)
	right = make([]F, n)
	simdops.For[F]().Deinterleave2(left, right, interleaved[:n*stereoChannels])
	return left, right
}
