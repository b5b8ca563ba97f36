// Package simdops provides SIMD buffer operations for float32 and float64
// behind one generic entry point, so the sample-format boundary of the
// public API is written once for both precisions.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops provides SIMD-accelerated operations for type F.
type Ops[F Float] struct {
	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], dst[2]=a[1], ...
	Interleave2 func(dst, a, b []F)

	// Deinterleave2 splits src into a and b: a[0]=src[0], b[0]=src[1], ...
	Deinterleave2 func(a, b, src []F)
}

var (
	ops32 = Ops[float32]{
		Interleave2:   f32.Interleave2,
		Deinterleave2: f32.Deinterleave2,
	}
	ops64 = Ops[float64]{
		Interleave2:   f64.Interleave2,
		Deinterleave2: f64.Deinterleave2,
	}
)

// For returns the Ops instance for type F.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}
