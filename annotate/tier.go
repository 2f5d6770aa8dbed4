// Package annotate provides an ordered interval-annotation container and
// writers for common annotation file formats (Praat TextGrid, ELAN EAF and
// plain tables).
package annotate

import (
	"fmt"
)

// Interval is a labeled time interval in seconds.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
}

// Duration returns the interval length in seconds.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// Tier is an ordered, named set of non-overlapping labeled intervals.
type Tier struct {
	Name      string     `json:"name"`
	Intervals []Interval `json:"intervals"`
}

// NewTier creates an empty tier with the given name.
func NewTier(name string) *Tier {
	return &Tier{Name: name}
}

// Add appends an interval to the tier. The interval must be well-formed and
// must start at or after the end of the previous interval.
func (t *Tier) Add(iv Interval) error {
	if iv.End < iv.Start {
		return fmt.Errorf("interval ends before it starts: [%g, %g]", iv.Start, iv.End)
	}
	if n := len(t.Intervals); n > 0 && iv.Start < t.Intervals[n-1].End {
		return fmt.Errorf("interval [%g, %g] overlaps tier %q ending at %g",
			iv.Start, iv.End, t.Name, t.Intervals[n-1].End)
	}
	t.Intervals = append(t.Intervals, iv)
	return nil
}

// AddAll appends intervals in order, stopping at the first error.
func (t *Tier) AddAll(ivs ...Interval) error {
	for _, iv := range ivs {
		if err := t.Add(iv); err != nil {
			return err
		}
	}
	return nil
}

// WithLabel returns the intervals carrying the given label, in order.
func (t *Tier) WithLabel(label string) []Interval {
	var out []Interval
	for _, iv := range t.Intervals {
		if iv.Label == label {
			out = append(out, iv)
		}
	}
	return out
}

// Start returns the start time of the first interval, or 0 for an empty tier.
func (t *Tier) Start() float64 {
	if len(t.Intervals) == 0 {
		return 0
	}
	return t.Intervals[0].Start
}

// End returns the end time of the last interval, or 0 for an empty tier.
func (t *Tier) End() float64 {
	if len(t.Intervals) == 0 {
		return 0
	}
	return t.Intervals[len(t.Intervals)-1].End
}

// Document is a collection of tiers over a common time axis.
type Document struct {
	Tiers []*Tier `json:"tiers"`
}

// AddTier appends a tier to the document.
func (d *Document) AddTier(t *Tier) {
	d.Tiers = append(d.Tiers, t)
}

// Tier returns the tier with the given name, or nil.
func (d *Document) Tier(name string) *Tier {
	for _, t := range d.Tiers {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// End returns the latest end time across all tiers.
func (d *Document) End() float64 {
	end := 0.0
	for _, t := range d.Tiers {
		if e := t.End(); e > end {
			end = e
		}
	}
	return end
}
