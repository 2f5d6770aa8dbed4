package extrema

import (
	"fmt"
	"math"
)

// Extremum represents a detected local extremum in a time series
type Extremum struct {
	Index int     // Sample index in the series
	Value float64 // Series value at the extremum
}

// Detect finds local maxima and minima of signal using a hysteresis rule: a
// running maximum is confirmed as a peak once the series drops more than
// delta below it and no sample within the next lookahead samples exceeds it
// (symmetrically for minima). NaN samples never satisfy a comparison, so
// undefined stretches (e.g. moving z-score edges) are skipped.
//
// The first confirmed extremum is discarded: the initial sample seeds both
// running values, so the first confirmation is a false hit on it.
func Detect(signal []float64, delta float64, lookahead int) (maxima, minima []Extremum, err error) {
	if lookahead < 1 {
		return nil, nil, fmt.Errorf("lookahead must be at least 1, got %d", lookahead)
	}
	if delta < 0 || math.IsNaN(delta) {
		return nil, nil, fmt.Errorf("delta must be a non-negative number, got %g", delta)
	}

	length := len(signal)

	mn := math.Inf(1)
	mx := math.Inf(-1)
	var mnPos, mxPos int

	// Tracks whether the first confirmed extremum was a maximum.
	firstConfirmed := false
	firstIsMax := false

	for index := 0; index < length-lookahead; index++ {
		y := signal[index]

		if y > mx {
			mx = y
			mxPos = index
		}
		if y < mn {
			mn = y
			mnPos = index
		}

		// Look for a maximum.
		if y < mx-delta && !math.IsInf(mx, 1) {
			// Confirm only if nothing within the lookahead exceeds it.
			if windowMax(signal[index:index+lookahead]) < mx {
				maxima = append(maxima, Extremum{Index: mxPos, Value: mx})
				if !firstConfirmed {
					firstConfirmed = true
					firstIsMax = true
				}
				// Only minima can follow.
				mx = math.Inf(1)
				mn = math.Inf(1)
				if index+lookahead >= length {
					break
				}
				continue
			}
		}

		// Look for a minimum.
		if y > mn+delta && !math.IsInf(mn, -1) {
			if windowMin(signal[index:index+lookahead]) > mn {
				minima = append(minima, Extremum{Index: mnPos, Value: mn})
				if !firstConfirmed {
					firstConfirmed = true
					firstIsMax = false
				}
				// Only maxima can follow.
				mn = math.Inf(-1)
				mx = math.Inf(-1)
				if index+lookahead >= length {
					break
				}
			}
		}
	}

	// Remove the false hit on the first running value.
	if firstConfirmed {
		if firstIsMax {
			maxima = maxima[1:]
		} else {
			minima = minima[1:]
		}
	}

	return maxima, minima, nil
}

// TrimAlternation trims detected extrema so the sequence starts and ends
// with a trough: a leading peak before the first trough and a trailing peak
// after the last trough are dropped (a recording is taken to begin and end
// at rest). After trimming, exactly len(troughs)-1 peaks must remain and
// indices must strictly alternate; anything else means the detection
// parameters are incompatible with the data and is returned as an error.
func TrimAlternation(maxima, minima []Extremum) (peaks, troughs []Extremum, err error) {
	peaks = maxima
	troughs = minima

	if len(peaks) > 0 && len(troughs) > 0 {
		if peaks[0].Index < troughs[0].Index {
			peaks = peaks[1:]
		}
	}
	if len(peaks) > 0 && len(troughs) > 0 {
		if peaks[len(peaks)-1].Index > troughs[len(troughs)-1].Index {
			peaks = peaks[:len(peaks)-1]
		}
	}

	if len(peaks) != len(troughs)-1 {
		return nil, nil, fmt.Errorf("expected %d peaks, got %d", len(troughs)-1, len(peaks))
	}

	for i, p := range peaks {
		if p.Index <= troughs[i].Index || p.Index >= troughs[i+1].Index {
			return nil, nil, fmt.Errorf("extrema do not alternate at peak %d (index %d)", i, p.Index)
		}
	}

	return peaks, troughs, nil
}

// windowMax returns the maximum of w, propagating NaN.
func windowMax(w []float64) float64 {
	m := math.Inf(-1)
	for _, v := range w {
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v > m {
			m = v
		}
	}
	return m
}

// windowMin returns the minimum of w, propagating NaN.
func windowMin(w []float64) float64 {
	m := math.Inf(1)
	for _, v := range w {
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v < m {
			m = v
		}
	}
	return m
}
