package conditioning

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/respkit/respkit/algorithms/stats"
)

// DetrendMethod selects how Detrend removes a trend from the signal
type DetrendMethod int

const (
	// DetrendLinear subtracts a least-squares linear fit
	DetrendLinear DetrendMethod = iota

	// DetrendConstant subtracts the mean
	DetrendConstant
)

// Detrend returns a copy of signal with the trend removed.
func Detrend(signal []float64, method DetrendMethod) ([]float64, error) {
	n := len(signal)
	if n == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	out := make([]float64, n)

	switch method {
	case DetrendLinear:
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = float64(i)
		}
		alpha, beta := stat.LinearRegression(xs, signal, nil, false)
		for i, x := range signal {
			out[i] = x - (alpha + beta*float64(i))
		}

	case DetrendConstant:
		mean := stats.Mean(signal)
		for i, x := range signal {
			out[i] = x - mean
		}

	default:
		return nil, fmt.Errorf("unknown detrend method: %d", method)
	}

	return out, nil
}

// Scale normalizes signal to zero mean and unit variance (population
// standard deviation). A constant signal yields NaN values, matching the
// division-by-zero semantics of the underlying formula; callers should
// detrend or validate first.
func Scale(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}

	mean := stats.Mean(signal)
	std := stats.PopStdDev(signal)

	out := make([]float64, len(signal))
	for i, x := range signal {
		out[i] = (x - mean) / std
	}
	return out
}
