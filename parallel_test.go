package oversampler

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProcessMultiParallel tests that parallel processing produces the same result as sequential.
func TestProcessMultiParallel(t *testing.T) {
	const (
		channels   = 4
		blockSize  = 128
		numBlocks  = 8
		numSamples = blockSize * numBlocks
	)

	// Use different phases for each channel to ensure they're processed independently
	input := make([][]float64, channels)
	for ch := range channels {
		input[ch] = make([]float64, numSamples)
		for i := range numSamples {
			phase := float64(ch) * math.Pi / 4
			input[ch][i] = math.Sin(2*math.Pi*0.01*float64(i) + phase)
		}
	}

	run := func(parallel bool) [][]float64 {
		o, err := New(&Config{
			Factor:         4,
			MaxBlockSize:   blockSize,
			Channels:       channels,
			EnableParallel: parallel,
		})
		require.NoError(t, err)

		out := make([][]float64, channels)
		for ch := range input {
			out[ch] = append([]float64(nil), input[ch]...)
		}
		blocks := make([][]float64, channels)
		for start := 0; start < numSamples; start += blockSize {
			for ch := range out {
				blocks[ch] = out[ch][start : start+blockSize]
			}
			require.NoError(t, o.ProcessMulti(blocks, func(_ int, up []float64) error {
				for i, v := range up {
					up[i] = math.Tanh(1.5 * v)
				}
				return nil
			}))
		}
		return out
	}

	seq := run(false)
	par := run(true)

	// Verify outputs are identical (bit-exact)
	for ch := range channels {
		assert.Equal(t, seq[ch], par[ch], "channel %d", ch)
	}
}

func TestProcessMulti_CallbackSeesChannelIndex(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		o, err := New(&Config{Factor: 2, MaxBlockSize: 16, Channels: 3, EnableParallel: parallel})
		require.NoError(t, err)

		var seen [3]atomic.Int32
		blocks := [][]float64{make([]float64, 16), make([]float64, 16), make([]float64, 16)}
		require.NoError(t, o.ProcessMulti(blocks, func(ch int, up []float64) error {
			assert.Len(t, up, 32)
			seen[ch].Add(1)
			return nil
		}))

		for ch := range seen {
			assert.Equal(t, int32(1), seen[ch].Load(), "parallel=%v channel %d", parallel, ch)
		}
	}
}

func TestProcessMulti_ChannelMismatch(t *testing.T) {
	o, err := New(&Config{Factor: 2, MaxBlockSize: 16, Channels: 2})
	require.NoError(t, err)

	err = o.ProcessMulti([][]float64{make([]float64, 16)}, nil)
	require.ErrorIs(t, err, ErrChannelMismatch)
}

func TestProcessMulti_PropagatesCallbackError(t *testing.T) {
	errOverload := errors.New("overload")

	for _, parallel := range []bool{false, true} {
		o, err := New(&Config{Factor: 2, MaxBlockSize: 16, Channels: 2, EnableParallel: parallel})
		require.NoError(t, err)

		blocks := [][]float64{make([]float64, 16), make([]float64, 16)}
		err = o.ProcessMulti(blocks, func(ch int, _ []float64) error {
			if ch == 1 {
				return errOverload
			}
			return nil
		})
		require.ErrorIs(t, err, errOverload, "parallel=%v", parallel)
		assert.Contains(t, err.Error(), "channel 1")
	}
}

func TestProcessMulti_CallbackErrorKeepsChannelsAligned(t *testing.T) {
	errClipped := errors.New("clipped")
	ramp := func() [][]float64 {
		return [][]float64{{1, 2, 3, 4, 5, 6, 7, 8}, {8, 7, 6, 5, 4, 3, 2, 1}}
	}

	for _, parallel := range []bool{false, true} {
		o, err := New(&Config{Factor: 2, MaxBlockSize: 8, Channels: 2, EnableParallel: parallel})
		require.NoError(t, err)
		ref, err := New(&Config{Factor: 2, MaxBlockSize: 8, Channels: 2})
		require.NoError(t, err)

		for range 8 {
			got, want := ramp(), ramp()
			err := o.ProcessMulti(got, func(int, []float64) error { return errClipped })
			require.ErrorIs(t, err, errClipped, "parallel=%v", parallel)
			require.NoError(t, ref.ProcessMulti(want, nil))

			for ch := range got {
				assert.Equal(t, want[ch], got[ch], "parallel=%v channel %d", parallel, ch)
			}
		}
	}
}

func TestProcessMulti_SequentialReturnsFirstError(t *testing.T) {
	o, err := New(&Config{Factor: 2, MaxBlockSize: 16, Channels: 3})
	require.NoError(t, err)

	var calls int
	blocks := [][]float64{make([]float64, 16), make([]float64, 16), make([]float64, 16)}
	err = o.ProcessMulti(blocks, func(ch int, _ []float64) error {
		calls++
		if ch > 0 {
			return errors.New("overload")
		}
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel 1")
	assert.Equal(t, 3, calls)
}

func TestProcessMulti_SequentialZeroAllocations(t *testing.T) {
	o, err := New(&Config{Factor: 4, MaxBlockSize: 64, Channels: 2})
	require.NoError(t, err)

	blocks := [][]float64{make([]float64, 64), make([]float64, 64)}
	shape := func(_ int, up []float64) error {
		for i, v := range up {
			up[i] = 0.5 * v
		}
		return nil
	}

	allocs := testing.AllocsPerRun(50, func() {
		_ = o.ProcessMulti(blocks, shape)
	})
	assert.Zero(t, allocs)
}

// BenchmarkProcessMulti compares sequential and parallel channel processing.
func BenchmarkProcessMulti(b *testing.B) {
	for _, tc := range []struct {
		name     string
		parallel bool
	}{
		{"Sequential", false},
		{"Parallel", true},
	} {
		b.Run(tc.name, func(b *testing.B) {
			const channels = 8
			o, err := New(&Config{Factor: 4, MaxBlockSize: 512, Channels: channels, EnableParallel: tc.parallel})
			if err != nil {
				b.Fatal(err)
			}
			blocks := make([][]float64, channels)
			for ch := range blocks {
				blocks[ch] = sine(512, 0.01)
			}
			shape := func(_ int, up []float64) error {
				for i, v := range up {
					up[i] = math.Tanh(v)
				}
				return nil
			}

			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				_ = o.ProcessMulti(blocks, shape)
			}
		})
	}
}
