package rip

import (
	"math"

	"github.com/respkit/respkit/algorithms/stats"
	"github.com/respkit/respkit/rip/config"
)

// Range holds the percentile-filtered respiratory range bounds.
type Range struct {
	Bot float64 `json:"range_bot"` // amplitude bound at troughs
	Top float64 `json:"range_top"` // amplitude bound at peaks
}

// EstimateRange calculates the respiratory range. Outlying observations are
// excluded by taking cfg.Bot of the trough amplitudes and cfg.Top of the
// peak amplitudes (5th and 95th percentile by default). The estimate is
// recomputed wholesale on each call.
func (r *Record) EstimateRange(cfg config.RangeConfig) (Range, error) {
	if err := cfg.Validate(); err != nil {
		return Range{}, err
	}
	if len(r.troughs) == 0 || len(r.peaks) == 0 {
		return Range{}, ErrNoCycles
	}

	troughVals := make([]float64, len(r.troughs))
	for i, t := range r.troughs {
		troughVals[i] = r.resp[t]
	}
	peakVals := make([]float64, len(r.peaks))
	for i, p := range r.peaks {
		peakVals[i] = r.resp[p]
	}

	bot, err := stats.Percentile(troughVals, cfg.Bot)
	if err != nil {
		return Range{}, err
	}
	top, err := stats.Percentile(peakVals, cfg.Top)
	if err != nil {
		return Range{}, err
	}
	return Range{Bot: bot, Top: top}, nil
}

// EstimateREL estimates the resting expiratory level (REL). Since REL is
// largely influenced by posture shifts, it is evaluated dynamically: one
// value per cycle, the median signal level at troughs in the preceding
// cfg.Lookbehind seconds. Cycles with fewer than cfg.MinLen prior troughs
// in the window get NaN.
func (r *Record) EstimateREL(cfg config.RELConfig) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(r.troughs) == 0 {
		return nil, ErrNoCycles
	}

	lookbehind := cfg.Lookbehind * r.sampFreq
	rel := make([]float64, len(r.troughs)-1)

	for i, trough := range r.troughs[:len(r.troughs)-1] {
		var prev []float64
		for _, t := range r.troughs {
			if t < trough && float64(t) > float64(trough)-lookbehind {
				prev = append(prev, r.resp[t])
			}
		}

		if len(prev) >= cfg.MinLen {
			med, err := stats.Median(prev)
			if err != nil {
				return nil, err
			}
			rel[i] = med
		} else {
			rel[i] = math.NaN()
		}
	}

	return rel, nil
}
