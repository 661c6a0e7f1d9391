package common

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical helpers shared by the tonal algorithms, using gonum for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Center returns a copy of data with its mean removed
func Center(data []float64) []float64 {
	centered := make([]float64, len(data))
	copy(centered, data)
	if len(data) == 0 {
		return centered
	}
	floats.AddConst(-Mean(data), centered)
	return centered
}

// SumNormalize scales a non-negative distribution so it sums to 1.
// All-zero input is returned unchanged.
func SumNormalize(data []float64) []float64 {
	normalized := make([]float64, len(data))
	copy(normalized, data)

	sum := floats.Sum(normalized)
	if sum <= 0 {
		return normalized
	}
	floats.Scale(1/sum, normalized)
	return normalized
}
