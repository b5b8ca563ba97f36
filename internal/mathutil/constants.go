package mathutil

// Bessel series constants
const (
	// Relative size below which a series term no longer changes the sum.
	besselSeriesEpsilon = 1e-17

	// Upper bound on series terms; I₀ converges long before this for
	// every argument a Kaiser window produces.
	besselMaxTerms = 500

	halfDivisor = 2.0
)

// Kaiser window formula constants
// From Kaiser & Schafer's empirical formulas
const (
	kaiserAttHigh   = 50.0 // High attenuation threshold (dB)
	kaiserAttMedium = 21.0 // Medium attenuation threshold (dB)

	kaiserBetaHighCoeff1 = 0.1102 // Coefficient for high attenuation
	kaiserBetaHighOffset = 8.7    // Offset for high attenuation

	kaiserBetaMediumCoeff1 = 0.5842  // Primary coefficient for medium attenuation
	kaiserBetaMediumPower  = 0.4     // Power for medium attenuation formula
	kaiserBetaMediumCoeff2 = 0.07886 // Secondary coefficient for medium attenuation
)
