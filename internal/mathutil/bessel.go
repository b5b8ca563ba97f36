// Package mathutil provides the special functions used by filter design.
package mathutil

import (
	"math"
)

// BesselI0 computes the modified Bessel function of the first kind, order zero: I₀(x).
// It is the shape function of the Kaiser window.
//
// The power series
//
//	I₀(x) = Σ ((x/2)^k / k!)²
//
// converges for every x; terms are accumulated until they stop contributing
// to the sum at float64 precision.
func BesselI0(x float64) float64 {
	half := math.Abs(x) / halfDivisor
	sum := 1.0
	term := 1.0

	for k := 1; k < besselMaxTerms; k++ {
		f := half / float64(k)
		term *= f * f
		sum += term
		if term < sum*besselSeriesEpsilon {
			break
		}
	}

	return sum
}

// KaiserBeta calculates the Kaiser window β parameter for a desired
// stopband attenuation in dB.
//
// Uses Kaiser's empirical formula:
//
//	β = 0.1102·(A − 8.7)                         for A > 50
//	β = 0.5842·(A − 21)^0.4 + 0.07886·(A − 21)   for 21 ≤ A ≤ 50
//	β = 0                                        for A < 21
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserAttHigh:
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	case attenuation >= kaiserAttMedium:
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	default:
		return 0.0
	}
}
