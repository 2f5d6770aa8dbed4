package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile computes the p-th percentile (0-100) of data using linear
// interpolation between closest ranks (the R-7/Excel method).
func Percentile(data []float64, p float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("empty data")
	}

	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile %f must be between 0 and 100", p)
	}

	// Create a copy and sort
	values := make([]float64, len(data))
	copy(values, data)
	sort.Float64s(values)

	return linearInterpolation(values, p/100.0), nil
}

// Median computes the 50th percentile of data.
func Median(data []float64) (float64, error) {
	return Percentile(data, 50)
}

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopStdDev calculates the population standard deviation using gonum
func PopStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.PopStdDev(data, nil)
}

// linearInterpolation implements the linear interpolation percentile method
// Formula: h = (n-1) * q + 1, where q is the quantile
func linearInterpolation(data []float64, q float64) float64 {
	n := len(data)
	h := float64(n-1)*q + 1.0

	if h <= 1.0 {
		return data[0]
	}
	if h >= float64(n) {
		return data[n-1]
	}

	// Linear interpolation between floor and ceiling
	lower := int(math.Floor(h)) - 1 // Convert to 0-based index
	upper := int(math.Ceil(h)) - 1

	if lower == upper {
		return data[lower]
	}

	fraction := h - math.Floor(h)
	return data[lower] + fraction*(data[upper]-data[lower])
}
