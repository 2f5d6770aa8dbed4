// Package rip segments respiratory-belt (RIP) recordings into physiological
// events. A Record holds one recording's sample buffer; the analysis
// pipeline normalizes it to a moving z-score, finds inhalation peaks and
// exhalation troughs, locates breath holds inside each segment, and derives
// summary quantities (respiratory range, resting expiratory level) used in
// speech-breathing research.
package rip

import (
	"errors"
	"fmt"

	"github.com/respkit/respkit/algorithms/conditioning"
	"github.com/respkit/respkit/algorithms/extrema"
	"github.com/respkit/respkit/algorithms/holds"
	"github.com/respkit/respkit/annotate"
	"github.com/respkit/respkit/logging"
	"github.com/respkit/respkit/rip/config"
	"github.com/respkit/respkit/ripio"
)

// ErrNotImplemented marks analyses that are declared but not implemented.
var ErrNotImplemented = errors.New("not implemented")

// ErrNoCycles is returned by operations that need a cycle segmentation
// before one has been computed or supplied.
var ErrNoCycles = errors.New("no cycle segmentation: run FindCycles or supply one")

// Record is one analysis session over a single recording. The sample buffer
// is mutated in place by the conditioning methods; derived state (extrema,
// holds, REL, range) is not invalidated automatically, so conditioning after
// detection requires re-running the detection. Records are not safe for
// concurrent use.
type Record struct {
	resp     []float64
	sampFreq float64

	// Strictly alternating extremum sample indices; troughs always bracket
	// peaks, so len(peaks) == len(troughs)-1.
	troughs []int
	peaks   []int

	holds []holds.Candidate

	logger logging.Logger
}

// New creates a Record from a sample buffer and its sampling frequency.
func New(resp []float64, sampFreq float64) (*Record, error) {
	if len(resp) == 0 {
		return nil, fmt.Errorf("empty respiratory signal")
	}
	if sampFreq <= 0 {
		return nil, fmt.Errorf("sampling frequency must be positive, got %g", sampFreq)
	}
	return &Record{
		resp:     resp,
		sampFreq: sampFreq,
		logger: logging.WithFields(logging.Fields{
			"component": "rip",
		}),
	}, nil
}

// FromWAV reads a recording from a WAV file.
func FromWAV(path string) (*Record, error) {
	resp, sampFreq, err := ripio.ReadWAVFile(path)
	if err != nil {
		return nil, err
	}
	return New(resp, sampFreq)
}

// FromTable reads a recording from a delimited table, either one value
// column with an explicit sampling frequency or timestamp/value columns.
// See ripio.ReadTable for the column rules.
func FromTable(path string, delimiter rune, sampFreq float64) (*Record, error) {
	resp, freq, err := ripio.ReadTableFile(path, delimiter, sampFreq)
	if err != nil {
		return nil, err
	}
	return New(resp, freq)
}

// FromSegmentation creates a Record with the cycle segmentation taken from
// an externally produced cycles tier instead of running the detector. The
// tier must alternate "in" and "out" intervals covering whole cycles:
// troughs are the starts of inhalations plus the end of the final
// exhalation, peaks are the inhalation ends.
func FromSegmentation(resp []float64, sampFreq float64, seg *annotate.Tier) (*Record, error) {
	r, err := New(resp, sampFreq)
	if err != nil {
		return nil, err
	}

	inhalations := seg.WithLabel("in")
	exhalations := seg.WithLabel("out")
	if len(inhalations) == 0 {
		return nil, fmt.Errorf("segmentation tier %q has no \"in\" intervals", seg.Name)
	}
	if len(exhalations) != len(inhalations) {
		return nil, fmt.Errorf("segmentation tier %q has %d inhalations but %d exhalations",
			seg.Name, len(inhalations), len(exhalations))
	}

	for _, iv := range inhalations {
		r.troughs = append(r.troughs, r.timeToSample(iv.Start, roundNearest))
		r.peaks = append(r.peaks, r.timeToSample(iv.End, roundNearest))
	}
	r.troughs = append(r.troughs, r.timeToSample(exhalations[len(exhalations)-1].End, roundNearest))

	if err := r.checkAlternation(); err != nil {
		return nil, err
	}
	return r, nil
}

// Samples returns the underlying sample buffer. The slice is shared with
// the Record; treat it as read-only.
func (r *Record) Samples() []float64 {
	return r.resp
}

// SampFreq returns the sampling frequency in Hz.
func (r *Record) SampFreq() float64 {
	return r.sampFreq
}

// Len returns the number of samples.
func (r *Record) Len() int {
	return len(r.resp)
}

// Duration returns the recording length in seconds.
func (r *Record) Duration() float64 {
	return float64(len(r.resp)) / r.sampFreq
}

// == Signal conditioning ==
//
// Conditioning mutates the stored buffer. The steps are sequentially
// ordered: later analysis assumes any desired conditioning has already
// happened.

// Detrend removes a linear trend (or the mean) from the signal.
func (r *Record) Detrend(method conditioning.DetrendMethod) error {
	out, err := conditioning.Detrend(r.resp, method)
	if err != nil {
		return err
	}
	r.resp = out
	return nil
}

// RemoveBaseline removes low-frequency baseline fluctuation by subtracting
// a rectangular FFT low-pass of winSec seconds (60 s covers typical posture
// drift).
func (r *Record) RemoveBaseline(winSec float64) error {
	out, err := conditioning.RemoveBaseline(r.resp, r.sampFreq, winSec)
	if err != nil {
		return err
	}
	r.resp = out
	return nil
}

// Scale normalizes the whole signal to zero mean and unit variance.
func (r *Record) Scale() {
	r.resp = conditioning.Scale(r.resp)
}

// Resample changes the sampling frequency using FFT resampling. The buffer
// and the stored frequency update together.
func (r *Record) Resample(newFreq float64) error {
	out, err := conditioning.ResampleRate(r.resp, r.sampFreq, newFreq)
	if err != nil {
		return err
	}
	r.resp = out
	r.sampFreq = newFreq
	return nil
}

// == Event detection ==

// FindCycles locates inhalation peaks and exhalation troughs. The signal is
// first normalized to a moving z-score over cfg.WinLen seconds, then run
// through hysteresis extremum detection, and the extrema are trimmed so the
// sequence starts and ends with a trough. A failure to establish that
// alternation means the parameters are incompatible with the data and is
// returned as an error; previously stored extrema are left untouched.
func (r *Record) FindCycles(cfg config.CycleConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	winLen := int(cfg.WinLen * r.sampFreq)
	scaled := conditioning.MovingZScore(r.resp, winLen, cfg.NoiseFloor)

	maxima, minima, err := extrema.Detect(scaled, cfg.Delta, cfg.Lookahead)
	if err != nil {
		return err
	}

	peaks, troughs, err := extrema.TrimAlternation(maxima, minima)
	if err != nil {
		return fmt.Errorf("cycle detection failed (delta=%g, lookahead=%d): %w",
			cfg.Delta, cfg.Lookahead, err)
	}

	r.troughs = make([]int, len(troughs))
	for i, tr := range troughs {
		r.troughs[i] = tr.Index
	}
	r.peaks = make([]int, len(peaks))
	for i, p := range peaks {
		r.peaks[i] = p.Index
	}

	r.logger.Debug("cycle detection finished", logging.Fields{
		"troughs": len(r.troughs),
		"peaks":   len(r.peaks),
	})
	return nil
}

// FindHolds locates breath holds inside every inhalation and exhalation
// interval and consolidates them across interval boundaries: candidates
// closer than cfg.MinHoldGap are coalesced, and holds shorter than
// cfg.MinHoldDur are dropped. Requires a cycle segmentation.
func (r *Record) FindHolds(cfg config.HoldConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(r.troughs) == 0 {
		return ErrNoCycles
	}

	// Visit inhalation/exhalation intervals in chronological order of their
	// end sample, so the candidate list is ordered for the merge sweep.
	var cands []holds.Candidate
	for _, seg := range r.segmentSamples() {
		segCands, err := holds.FindWithinInterval(r.resp[seg.start:seg.end], cfg.PeakProminence, cfg.Bins)
		if err != nil {
			return fmt.Errorf("hold detection in [%d, %d): %w", seg.start, seg.end, err)
		}
		for _, c := range segCands {
			cands = append(cands, holds.Candidate{Start: seg.start + c.Start, End: seg.start + c.End})
		}
	}

	r.holds = holds.Consolidate(cands, cfg.MinHoldGap*r.sampFreq, cfg.MinHoldDur*r.sampFreq)

	r.logger.Debug("hold detection finished", logging.Fields{
		"candidates": len(cands),
		"holds":      len(r.holds),
	})
	return nil
}

// FindLaughters would locate laughter episodes in the respiratory signal.
func (r *Record) FindLaughters() error {
	return fmt.Errorf("laughter detection: %w", ErrNotImplemented)
}

// checkAlternation verifies the stored extremum invariant.
func (r *Record) checkAlternation() error {
	if len(r.peaks) != len(r.troughs)-1 {
		return fmt.Errorf("expected %d peaks, got %d", len(r.troughs)-1, len(r.peaks))
	}
	for i, p := range r.peaks {
		if p <= r.troughs[i] || p >= r.troughs[i+1] {
			return fmt.Errorf("extrema do not alternate at peak %d (sample %d)", i, p)
		}
	}
	return nil
}
