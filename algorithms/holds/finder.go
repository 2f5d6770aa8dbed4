package holds

import (
	"math"
	"sort"
)

// Candidate is a half-open sample interval [Start, End) of negligible
// respiratory movement.
type Candidate struct {
	Start int
	End   int
}

// Duration returns the candidate's length in samples.
func (c Candidate) Duration() int {
	return c.End - c.Start
}

// FindWithinInterval locates hold candidates within a single inhalation or
// exhalation interval. A hold shows up as a prominent mode in the amplitude
// histogram of the interval: the signal dwells in a narrow amplitude band.
// For every qualifying histogram peak the longest contiguous run of samples
// inside that peak's amplitude band (at 80% relative width) becomes a
// candidate; overlapping candidates are merged. Returns nil when no
// histogram peak is prominent enough.
//
// Candidates are expressed relative to the interval's own start and sorted
// by start.
func FindWithinInterval(intr []float64, peakProminence float64, bins int) ([]Candidate, error) {
	pmf, edges, err := Histogram(intr, bins)
	if err != nil {
		return nil, err
	}

	// Histogram peaks whose local prominence (5-bin window) qualifies.
	var peaks []int
	for _, p := range localMaxima(pmf) {
		if prom, _, _ := prominence(pmf, p, 5); prom > peakProminence {
			peaks = append(peaks, p)
		}
	}
	if len(peaks) == 0 {
		return nil, nil
	}

	var cands []Candidate
	for _, p := range peaks {
		lo, hi := widthBounds(pmf, p, 0.8)

		// Translate fractional bin positions back to amplitude bounds.
		bot := edges[int(math.Round(lo))]
		top := edges[int(math.Round(hi))]
		if bot > top {
			bot, top = top, bot
		}

		if c, ok := longestRun(intr, bot, top); ok {
			cands = append(cands, c)
		}
	}

	// Merge overlapping candidates from different histogram peaks.
	sort.Slice(cands, func(i, j int) bool { return cands[i].Start < cands[j].Start })

	var merged []Candidate
	for _, c := range cands {
		if len(merged) > 0 && c.Start <= merged[len(merged)-1].End {
			merged[len(merged)-1].End = max(merged[len(merged)-1].End, c.End)
		} else {
			merged = append(merged, c)
		}
	}
	return merged, nil
}

// longestRun finds the longest contiguous run of samples with bot <= x <= top.
// Only the single longest run is returned even when the band is visited in
// several disjoint places. Ties keep the earliest run.
func longestRun(x []float64, bot, top float64) (Candidate, bool) {
	best := Candidate{}
	found := false

	start := -1
	for i, v := range x {
		inBand := v >= bot && v <= top
		if inBand && start < 0 {
			start = i
		} else if !inBand && start >= 0 {
			if !found || i-start > best.Duration() {
				best = Candidate{Start: start, End: i}
				found = true
			}
			start = -1
		}
	}
	if start >= 0 {
		if !found || len(x)-start > best.Duration() {
			best = Candidate{Start: start, End: len(x)}
			found = true
		}
	}

	return best, found
}
