package engine

import (
	"errors"
	"fmt"

	"github.com/tphakala/simd/f64"
)

// ErrInvalidOverlap is returned for non-positive block sizes or negative padding.
var ErrInvalidOverlap = errors.New("engine: invalid overlap buffer size")

// OverlapBuffer turns a block-wise filter into a streaming one using
// overlap-add.
//
// Each block is extended with Padding zeros and handed to the filter
// function. The head of the filtered result receives the tail carried over
// from the previous block, the first len(block) samples are written back,
// and the remaining Padding samples become the carry for the next block.
// For any kernel of length <= Padding+1 the concatenated output equals the
// linear convolution of the concatenated input.
type OverlapBuffer struct {
	maxBlockSize int
	padding      []float64
	inner        []float64 // maxBlockSize + len(padding)

	diag *Diagnostics
}

// NewOverlapBuffer creates an overlap buffer for blocks of up to
// maxBlockSize samples carrying padding samples between blocks.
func NewOverlapBuffer(maxBlockSize, padding int) (*OverlapBuffer, error) {
	if maxBlockSize < minBlockSize || padding < 0 {
		return nil, fmt.Errorf("%w: max block %d, padding %d", ErrInvalidOverlap, maxBlockSize, padding)
	}
	return &OverlapBuffer{
		maxBlockSize: maxBlockSize,
		padding:      make([]float64, padding),
		inner:        make([]float64, maxBlockSize+padding),
		diag:         &Diagnostics{},
	}, nil
}

// MaxBlockSize returns the largest block processed without truncation.
func (b *OverlapBuffer) MaxBlockSize() int {
	return b.maxBlockSize
}

// Padding returns the number of samples carried between blocks.
func (b *OverlapBuffer) Padding() int {
	return len(b.padding)
}

// Diagnostics returns the counters this buffer records into.
func (b *OverlapBuffer) Diagnostics() *Diagnostics {
	return b.diag
}

// Process runs fn over buf extended by Padding zeros and writes the
// overlap-added result back into buf.
//
// Blocks longer than MaxBlockSize are truncated: only the first
// MaxBlockSize samples are processed and the event is counted. The error
// returned by fn is passed through unchanged; the buffer state is updated
// regardless.
func (b *OverlapBuffer) Process(buf []float64, fn func([]float64) error) error {
	n := len(buf)
	if n > b.maxBlockSize {
		b.diag.truncatedBlocks.Add(1)
		n = b.maxBlockSize
	}
	p := len(b.padding)
	ext := b.inner[:n+p]

	copy(ext, buf[:n])
	clear(ext[n:])

	err := fn(ext)

	f64.Add(ext[:p], ext[:p], b.padding)
	copy(buf[:n], ext[:n])
	copy(b.padding, ext[n:])

	return err
}

// Reset discards the carried tail.
func (b *OverlapBuffer) Reset() {
	clear(b.padding)
	clear(b.inner)
}
