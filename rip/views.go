package rip

import (
	"sort"

	"github.com/respkit/respkit/annotate"
)

// Span is a half-open time interval in seconds.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the span length in seconds.
func (s Span) Duration() float64 {
	return s.End - s.Start
}

// sampleSpan is a half-open sample-index interval.
type sampleSpan struct {
	start, end int
	label      string
}

// Troughs returns the exhalation-end sample indices.
func (r *Record) Troughs() []int {
	out := make([]int, len(r.troughs))
	copy(out, r.troughs)
	return out
}

// Peaks returns the inhalation-end sample indices.
func (r *Record) Peaks() []int {
	out := make([]int, len(r.peaks))
	copy(out, r.peaks)
	return out
}

// Cycles returns the start and end times of respiratory cycles. Cycle i runs
// from trough i to trough i+1, so adjacent cycles tile the analyzed part of
// the recording.
func (r *Record) Cycles() []Span {
	if len(r.troughs) == 0 {
		return nil
	}
	out := make([]Span, len(r.troughs)-1)
	for i := range out {
		out[i] = r.span(r.troughs[i], r.troughs[i+1])
	}
	return out
}

// Inhalations returns the start and end times of inhalations.
func (r *Record) Inhalations() []Span {
	out := make([]Span, len(r.peaks))
	for i := range out {
		out[i] = r.span(r.troughs[i], r.peaks[i])
	}
	return out
}

// Exhalations returns the start and end times of exhalations.
func (r *Record) Exhalations() []Span {
	out := make([]Span, len(r.peaks))
	for i := range out {
		out[i] = r.span(r.peaks[i], r.troughs[i+1])
	}
	return out
}

// Segments returns all inhalations and exhalations sorted by end time in
// increasing (chronological) order.
func (r *Record) Segments() []Span {
	segs := r.segmentSamples()
	out := make([]Span, len(segs))
	for i, s := range segs {
		out[i] = r.span(s.start, s.end)
	}
	return out
}

// Holds returns the start and end times of detected breath holds.
func (r *Record) Holds() []Span {
	out := make([]Span, len(r.holds))
	for i, h := range r.holds {
		out[i] = r.span(h.Start, h.End)
	}
	return out
}

// segmentSamples returns inhalation and exhalation sample intervals sorted
// chronologically by end sample.
func (r *Record) segmentSamples() []sampleSpan {
	segs := make([]sampleSpan, 0, 2*len(r.peaks))
	for i := range r.peaks {
		segs = append(segs, sampleSpan{start: r.troughs[i], end: r.peaks[i], label: "in"})
		segs = append(segs, sampleSpan{start: r.peaks[i], end: r.troughs[i+1], label: "out"})
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].end < segs[j].end })
	return segs
}

func (r *Record) span(start, end int) Span {
	return Span{
		Start: float64(start) / r.sampFreq,
		End:   float64(end) / r.sampFreq,
	}
}

// == Annotation views ==

// CyclesTier returns a "cycles" tier with inhalations labeled "in" and
// exhalations labeled "out".
func (r *Record) CyclesTier() (*annotate.Tier, error) {
	if len(r.troughs) == 0 {
		return nil, ErrNoCycles
	}

	tier := annotate.NewTier("cycles")
	for _, s := range r.segmentSamples() {
		span := r.span(s.start, s.end)
		if err := tier.Add(annotate.Interval{Start: span.Start, End: span.End, Label: s.label}); err != nil {
			return nil, err
		}
	}
	return tier, nil
}

// HoldsTier returns a "holds" tier with every hold labeled "hold".
func (r *Record) HoldsTier() (*annotate.Tier, error) {
	tier := annotate.NewTier("holds")
	for _, h := range r.Holds() {
		if err := tier.Add(annotate.Interval{Start: h.Start, End: h.End, Label: "hold"}); err != nil {
			return nil, err
		}
	}
	return tier, nil
}

// SpliceHolds returns the cycle segmentation with detected holds spliced in:
// each hold interrupts the surrounding inhalation or exhalation intervals,
// which are truncated around it. The result is a sorted, non-overlapping
// tier covering the analyzed part of the recording.
func (r *Record) SpliceHolds() (*annotate.Tier, error) {
	if len(r.troughs) == 0 {
		return nil, ErrNoCycles
	}

	segs := r.segmentSamples()
	hs := r.Holds()
	tier := annotate.NewTier("cycles+holds")
	if len(segs) == 0 {
		// A lone trough segments nothing.
		return tier, nil
	}

	j := 0
	cursor := r.span(segs[0].start, segs[0].end).Start
	for _, s := range segs {
		span := r.span(s.start, s.end)
		if cursor < span.Start {
			cursor = span.Start
		}
		for cursor < span.End {
			if j < len(hs) && hs[j].Start < span.End {
				h := hs[j]
				if h.Start > cursor {
					if err := tier.Add(annotate.Interval{Start: cursor, End: h.Start, Label: s.label}); err != nil {
						return nil, err
					}
				}
				// The hold is emitted at full extent even when it crosses
				// into the next segment; the remainder of that segment
				// resumes after it.
				if err := tier.Add(annotate.Interval{Start: h.Start, End: h.End, Label: "hold"}); err != nil {
					return nil, err
				}
				cursor = h.End
				j++
			} else {
				if err := tier.Add(annotate.Interval{Start: cursor, End: span.End, Label: s.label}); err != nil {
					return nil, err
				}
				cursor = span.End
			}
		}
	}
	return tier, nil
}
