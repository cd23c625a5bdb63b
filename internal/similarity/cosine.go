// Package similarity provides the scoring functions used to compare candidates and jobs.
package similarity

import "math"

// Cosine returns the dot product of two unit vectors, clamped to [0, 1] and rounded to 6 places.
// Vectors of different length, or empty vectors, score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}

	// vectors are non-negative, so anything outside [0,1] is float drift
	if dot < 0 {
		return 0.0
	}
	if dot > 1 {
		return 1.0
	}
	return Round(dot, 6)
}

// Round rounds x to the given number of decimal places, half away from zero.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
