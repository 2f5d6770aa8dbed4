package conditioning

import (
	"math"
)

// MovingMeanStd computes the mean and sample standard deviation of signal in
// a centered moving window of winLen samples. Positions where the window
// cannot be fully centered are NaN, which leaves the leading and trailing
// floor(winLen/2) samples undefined.
func MovingMeanStd(signal []float64, winLen int) (mean, std []float64) {
	n := len(signal)
	mean = make([]float64, n)
	std = make([]float64, n)

	if winLen <= 0 || winLen > n {
		for i := range mean {
			mean[i] = math.NaN()
			std[i] = math.NaN()
		}
		return mean, std
	}

	// Prefix sums of x and x^2 for O(1) window statistics.
	sum := make([]float64, n+1)
	sumSq := make([]float64, n+1)
	for i, x := range signal {
		sum[i+1] = sum[i] + x
		sumSq[i+1] = sumSq[i] + x*x
	}

	w := float64(winLen)
	for i := 0; i < n; i++ {
		// Centered window; even lengths lean one sample to the left.
		end := i + 1 + (winLen-1)/2
		start := end - winLen
		if start < 0 || end > n {
			mean[i] = math.NaN()
			std[i] = math.NaN()
			continue
		}

		s := sum[end] - sum[start]
		sq := sumSq[end] - sumSq[start]
		m := s / w
		mean[i] = m

		if winLen < 2 {
			std[i] = math.NaN()
			continue
		}

		// Sample variance; clamp tiny negative values from cancellation.
		variance := (sq - s*s/w) / (w - 1)
		if variance < 0 {
			variance = 0
		}
		std[i] = math.Sqrt(variance)
	}

	return mean, std
}

// MovingZScore normalizes signal to a moving z-score over a centered window
// of winLen samples:
//
//	z[i] = (signal[i] - mean(window_i)) / (std(window_i) + noiseFloor)
//
// A non-zero noiseFloor keeps the denominator defined on near-constant
// stretches. Edge samples where the window does not fit are NaN.
func MovingZScore(signal []float64, winLen int, noiseFloor float64) []float64 {
	mean, std := MovingMeanStd(signal, winLen)

	z := make([]float64, len(signal))
	for i, x := range signal {
		z[i] = (x - mean[i]) / (std[i] + noiseFloor)
	}
	return z
}
