package gait

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// kernelTruncate is the kernel half-width in standard deviations.
const kernelTruncate = 4.0

// gaussianKernel returns a normalized Gaussian of the given sigma, cut off
// at truncate*sigma samples on each side.
func gaussianKernel(sigma, truncate float64) []float64 {
	radius := int(truncate*sigma + 0.5)
	k := make([]float64, 2*radius+1)
	for i := -radius; i <= radius; i++ {
		x := float64(i)
		k[i+radius] = math.Exp(-0.5 * x * x / (sigma * sigma))
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}

// smooth convolves values with kernel. Samples beyond either end are taken
// from the half-sample mirror image of the signal (d c b a | a b c d | d c b a).
func smooth(values, kernel []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	radius := len(kernel) / 2
	window := make([]float64, len(kernel))
	for i := range values {
		for j := -radius; j <= radius; j++ {
			window[j+radius] = values[reflect(i+j, n)]
		}
		out[i] = floats.Dot(kernel, window)
	}
	return out
}

// reflect maps any integer index onto [0, n) by mirroring about the edges.
func reflect(i, n int) int {
	period := 2 * n
	m := i % period
	if m < 0 {
		m += period
	}
	if m >= n {
		m = period - 1 - m
	}
	return m
}
