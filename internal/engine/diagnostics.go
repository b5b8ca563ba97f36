package engine

import "sync/atomic"

// Diagnostics counts degraded-mode events raised on the audio thread.
//
// Counters are atomic so a control thread can read them while the audio
// thread keeps writing; recording an event never blocks or allocates.
type Diagnostics struct {
	shortBuffers    atomic.Uint64
	longBuffers     atomic.Uint64
	truncatedBlocks atomic.Uint64
	blocks          atomic.Uint64
	samplesIn       atomic.Uint64
	samplesOut      atomic.Uint64
}

// DiagnosticsSnapshot is a point-in-time copy of Diagnostics.
type DiagnosticsSnapshot struct {
	// ShortBuffers counts convolutions fed fewer samples than the FFT size.
	// The missing tail was treated as zeros.
	ShortBuffers uint64

	// LongBuffers counts convolutions fed more samples than the FFT size.
	// Samples past the FFT size were left unprocessed.
	LongBuffers uint64

	// TruncatedBlocks counts blocks the overlap buffer cut down to its
	// configured maximum.
	TruncatedBlocks uint64

	// Blocks, SamplesIn and SamplesOut track oversampler throughput.
	Blocks     uint64
	SamplesIn  uint64
	SamplesOut uint64
}

// Degraded reports whether any event that can produce audible artifacts
// was recorded. Short buffers are excluded: partial blocks are zero-padded
// without loss.
func (s DiagnosticsSnapshot) Degraded() bool {
	return s.LongBuffers > 0 || s.TruncatedBlocks > 0
}

// Snapshot returns the current counter values.
func (d *Diagnostics) Snapshot() DiagnosticsSnapshot {
	return DiagnosticsSnapshot{
		ShortBuffers:    d.shortBuffers.Load(),
		LongBuffers:     d.longBuffers.Load(),
		TruncatedBlocks: d.truncatedBlocks.Load(),
		Blocks:          d.blocks.Load(),
		SamplesIn:       d.samplesIn.Load(),
		SamplesOut:      d.samplesOut.Load(),
	}
}

// Clear zeroes all counters.
func (d *Diagnostics) Clear() {
	d.shortBuffers.Store(0)
	d.longBuffers.Store(0)
	d.truncatedBlocks.Store(0)
	d.blocks.Store(0)
	d.samplesIn.Store(0)
	d.samplesOut.Store(0)
}
