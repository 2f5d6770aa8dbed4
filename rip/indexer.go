package rip

import (
	"fmt"
	"math"
)

type rounding int

const (
	roundNearest rounding = iota
	roundCeil
	roundFloor
)

// timeToSample converts a time stamp to a sample index with the given
// rounding policy.
func (r *Record) timeToSample(t float64, m rounding) int {
	switch m {
	case roundCeil:
		return int(math.Ceil(t * r.sampFreq))
	case roundFloor:
		return int(math.Floor(t * r.sampFreq))
	default:
		return int(math.Round(t * r.sampFreq))
	}
}

// TimeIndexer accesses samples of one recording by time stamps.
type TimeIndexer struct {
	r *Record
}

// ByTime returns an indexer for time-stamp-based access.
func (r *Record) ByTime() TimeIndexer {
	return TimeIndexer{r: r}
}

// At returns the sample nearest to time t.
func (ti TimeIndexer) At(t float64) (float64, error) {
	idx := ti.r.timeToSample(t, roundNearest)
	if idx < 0 || idx >= len(ti.r.resp) {
		return 0, fmt.Errorf("time %g s outside the recording (%g s)", t, ti.r.Duration())
	}
	return ti.r.resp[idx], nil
}

// Range returns the samples in the time interval [t0, t1), resolving the
// bounds with a ceil-start/floor-end policy. Bounds beyond the recording
// are clamped. The returned slice shares storage with the Record.
func (ti TimeIndexer) Range(t0, t1 float64) ([]float64, error) {
	if t1 < t0 {
		return nil, fmt.Errorf("interval ends before it starts: [%g, %g)", t0, t1)
	}

	start := ti.r.timeToSample(t0, roundCeil)
	end := ti.r.timeToSample(t1, roundFloor)

	start = max(start, 0)
	end = min(end, len(ti.r.resp))
	if start >= end {
		return nil, nil
	}
	return ti.r.resp[start:end], nil
}

// RangeStep is Range with a time-domain stride: every step seconds one
// sample is taken, with the stride resolved to the nearest whole number of
// samples.
func (ti TimeIndexer) RangeStep(t0, t1, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %g", step)
	}

	window, err := ti.Range(t0, t1)
	if err != nil {
		return nil, err
	}

	stride := ti.r.timeToSample(step, roundNearest)
	if stride < 1 {
		return nil, fmt.Errorf("step %g s is below the sampling interval", step)
	}

	var out []float64
	for i := 0; i < len(window); i += stride {
		out = append(out, window[i])
	}
	return out, nil
}
