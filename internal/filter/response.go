package filter

import (
	"math"
)

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which response was calculated (normalized, 0 to 0.5)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse evaluates the DTFT of a FIR filter at numPoints
// frequencies evenly spaced over [0, 0.5).
func ComputeFrequencyResponse(coeffs []float64, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = 512
	}

	response := FilterResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	for k := range numPoints {
		freq := float64(k) / float64(windowNormalizationFactor*numPoints)
		response.Frequencies[k] = freq
		response.Magnitude[k], response.Phase[k] = ResponseAt(coeffs, freq)
	}

	return response
}

// ResponseAt returns the magnitude and phase of H(e^jω) at one normalized
// frequency (cycles per sample).
func ResponseAt(coeffs []float64, freq float64) (magnitude, phase float64) {
	var realPart, imagPart float64
	omega := twoPi * freq

	for n, h := range coeffs {
		angle := omega * float64(n)
		realPart += h * math.Cos(angle)
		imagPart -= h * math.Sin(angle)
	}

	return math.Hypot(realPart, imagPart), math.Atan2(imagPart, realPart)
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	const (
		minMagnitude = 1e-10 // Avoid log(0)
		dbMultiplier = 20.0  // 20*log10 for magnitude
	)

	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}
