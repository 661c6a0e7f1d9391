package common

import (
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// CircularCrossCorrelation computes r[k] = sum_i x[i] * y[(i-k) mod n] for
// every lag k using the FFT. x and y must have the same length.
func CircularCrossCorrelation(x, y []float64) []float64 {
	n := len(x)
	if n == 0 || len(y) != n {
		return []float64{}
	}

	// mjibson/go-dsp handles all sizes, including non-power-of-2 lengths such as 12
	X := fft.FFTReal(x)
	Y := fft.FFTReal(y)

	product := make([]complex128, n)
	for i := range product {
		product[i] = X[i] * complex(real(Y[i]), -imag(Y[i]))
	}

	inverse := fft.IFFT(product)
	result := make([]float64, n)
	for i, val := range inverse {
		result[i] = real(val)
	}
	return result
}

// CircularPearson returns the Pearson correlation between x and y rotated
// by every lag k, where rotation k moves y[0] to position k. Rotation keeps
// the mean and norm of y, so one FFT pass covers all lags.
func CircularPearson(x, y []float64) []float64 {
	n := len(x)
	if n == 0 || len(y) != n {
		return []float64{}
	}

	xc := Center(x)
	yc := Center(y)

	denom := floats.Norm(xc, 2) * floats.Norm(yc, 2)
	scores := CircularCrossCorrelation(xc, yc)
	if denom < 1e-12 {
		for i := range scores {
			scores[i] = 0
		}
		return scores
	}

	floats.Scale(1/denom, scores)
	return scores
}
