package oversampler

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonoStereo(t *testing.T) {
	mono, err := NewMono(4)
	require.NoError(t, err)
	assert.Equal(t, 1, mono.Channels())
	assert.Equal(t, DefaultMaxBlockSize, mono.MaxBlockSize())

	stereo, err := NewStereo(2)
	require.NoError(t, err)
	assert.Equal(t, 2, stereo.Channels())
	assert.Equal(t, 32, stereo.Latency())

	_, err = NewMono(0)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOversampleMono_IsLatencyCompensated(t *testing.T) {
	for _, factor := range []int{1, 2, 3, 4, 8} {
		input := sine(2000, 0.01)
		output, err := OversampleMono(input, factor, nil)
		require.NoError(t, err)
		require.Len(t, output, len(input))

		// Skip the filter start-up at the head.
		for i := 100; i < len(input)-100; i++ {
			require.InDelta(t, input[i], output[i], 1e-2, "factor %d sample %d", factor, i)
		}
	}
}

func TestOversampleMono_AppliesCallback(t *testing.T) {
	input := sine(1500, 0.005)
	output, err := OversampleMono(input, 4, func(up []float64) error {
		for i := range up {
			up[i] *= 0.5
		}
		return nil
	})
	require.NoError(t, err)

	for i := 100; i < len(input)-100; i++ {
		require.InDelta(t, 0.5*input[i], output[i], 1e-2, "sample %d", i)
	}
}

func TestOversampleMono_ReducesAliasing(t *testing.T) {
	// A hard clipper at the base rate folds harmonics of a high tone back
	// into the band. Oversampling the same clipper removes most of that.
	const (
		n    = 4096
		freq = 0.21
	)
	input := sine(n, freq)
	for i := range input {
		input[i] *= 4
	}

	clip := func(s []float64) {
		for i, v := range s {
			s[i] = math.Max(-1, math.Min(1, v))
		}
	}

	naive := append([]float64(nil), input...)
	clip(naive)

	oversampled, err := OversampleMono(input, 4, func(up []float64) error {
		clip(up)
		return nil
	})
	require.NoError(t, err)

	// Third harmonic at 0.63 aliases to 0.37; measure energy there.
	aliasNaive := toneMagnitude(naive[512:n-512], 0.37)
	aliasOver := toneMagnitude(oversampled[512:n-512], 0.37)
	assert.Less(t, aliasOver, aliasNaive/4, "naive %g oversampled %g", aliasNaive, aliasOver)
}

// toneMagnitude returns the normalized DFT magnitude of s at freq cycles/sample.
func toneMagnitude(s []float64, freq float64) float64 {
	var re, im float64
	for i, v := range s {
		w := 2 * math.Pi * freq * float64(i)
		re += v * math.Cos(w)
		im -= v * math.Sin(w)
	}
	return math.Hypot(re, im) / float64(len(s))
}

func TestOversampleMono_CallbackError(t *testing.T) {
	errStop := errors.New("stop")
	_, err := OversampleMono(sine(64, 0.1), 2, func([]float64) error { return errStop })
	require.ErrorIs(t, err, errStop)
}

func TestOversampleStereo(t *testing.T) {
	left := sine(1200, 0.01)
	right := sine(1000, 0.02)

	leftOut, rightOut, err := OversampleStereo(left, right, 4, nil)
	require.NoError(t, err)
	require.Len(t, leftOut, 1000)
	require.Len(t, rightOut, 1000)

	for i := 100; i < 900; i++ {
		require.InDelta(t, left[i], leftOut[i], 1e-2, "left sample %d", i)
		require.InDelta(t, right[i], rightOut[i], 1e-2, "right sample %d", i)
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	left := []float64{1, 2, 3}
	right := []float64{-1, -2, -3, -4}

	interleaved := InterleaveToStereo(left, right)
	assert.Equal(t, []float64{1, -1, 2, -2, 3, -3}, interleaved)

	l, r := DeinterleaveFromStereo(append(interleaved, 9))
	assert.Equal(t, left, l)
	assert.Equal(t, right[:3], r)
}

func TestInterleaveRoundTripFloat32(t *testing.T) {
	left := []float32{0.5, 0.25}
	right := []float32{-0.5, -0.25}

	interleaved := InterleaveToStereoFloat32(left, right)
	assert.Equal(t, []float32{0.5, -0.5, 0.25, -0.25}, interleaved)

	l, r := DeinterleaveFromStereoFloat32(interleaved)
	assert.Equal(t, left, l)
	assert.Equal(t, right, r)
}
