package holds

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Histogram computes an equal-width histogram of data with the given number
// of bins, normalized to a probability mass. Bins are half-open except the
// last, which also includes the maximum value. The returned edges slice has
// bins+1 entries. A constant input is binned over [v-0.5, v+0.5].
func Histogram(data []float64, bins int) (pmf, edges []float64, err error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("empty data")
	}
	if bins < 1 {
		return nil, nil, fmt.Errorf("bins must be at least 1, got %d", bins)
	}

	lo := floats.Min(data)
	hi := floats.Max(data)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges = make([]float64, bins+1)
	floats.Span(edges, lo, hi)

	counts := make([]float64, bins)
	width := (hi - lo) / float64(bins)
	for _, v := range data {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	total := float64(len(data))
	for i := range counts {
		counts[i] /= total
	}
	return counts, edges, nil
}

// localMaxima returns indices i where x[i] strictly exceeds both neighbors.
func localMaxima(x []float64) []int {
	var peaks []int
	for i := 1; i < len(x)-1; i++ {
		if x[i] > x[i-1] && x[i] > x[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// prominence of a single peak: the height of the peak above the higher of
// the two lowest points reachable before meeting a sample taller than the
// peak. wlen > 0 restricts the search to a window of wlen samples centered
// on the peak; wlen <= 0 searches to the signal ends. Also returns the
// positions of the left and right bases.
func prominence(x []float64, peak, wlen int) (prom float64, leftBase, rightBase int) {
	iMin := 0
	iMax := len(x) - 1
	if wlen > 0 {
		// Effective window is the nearest odd length, half on each side.
		half := wlen / 2
		iMin = max(iMin, peak-half)
		iMax = min(iMax, peak+half)
	}

	height := x[peak]

	leftMin := height
	leftBase = peak
	for i := peak - 1; i >= iMin && x[i] <= height; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
			leftBase = i
		}
	}

	rightMin := height
	rightBase = peak
	for i := peak + 1; i <= iMax && x[i] <= height; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
			rightBase = i
		}
	}

	return height - math.Max(leftMin, rightMin), leftBase, rightBase
}

// widthBounds computes the fractional positions where the signal crosses the
// evaluation height on both sides of peak, with the evaluation height taken
// at relHeight of the peak's full-window prominence below the peak. The
// search is bounded by the peak's bases.
func widthBounds(x []float64, peak int, relHeight float64) (lo, hi float64) {
	prom, leftBase, rightBase := prominence(x, peak, 0)
	height := x[peak] - prom*relHeight

	// Walk left until the signal falls below the evaluation height.
	i := peak
	for i > leftBase && height < x[i] {
		i--
	}
	lo = float64(i)
	if x[i] < height {
		// Interpolate the crossing between i and i+1.
		lo += (height - x[i]) / (x[i+1] - x[i])
	}

	// Walk right likewise.
	i = peak
	for i < rightBase && height < x[i] {
		i++
	}
	hi = float64(i)
	if x[i] < height {
		hi -= (height - x[i]) / (x[i-1] - x[i])
	}

	return lo, hi
}
