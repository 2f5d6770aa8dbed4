package rip

import (
	"errors"
	"math"
	"testing"

	"github.com/respkit/respkit/algorithms/conditioning"
	"github.com/respkit/respkit/algorithms/holds"
	"github.com/respkit/respkit/rip/config"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) <= tol
}

// breathingSignal simulates quiet breathing at 0.25 Hz sampled at 20 Hz:
// troughs fall on multiples of 80 samples, crests midway between them.
func breathingSignal(seconds float64) ([]float64, float64) {
	sampFreq := 20.0
	n := int(seconds * sampFreq)
	out := make([]float64, n)
	for i := range out {
		out[i] = -math.Cos(2 * math.Pi * 0.25 * float64(i) / sampFreq)
	}
	return out, sampFreq
}

// testRecord builds a Record with a hand-made segmentation for view and
// estimator tests.
func testRecord(t *testing.T, resp []float64, sampFreq float64, troughs, peaks []int) *Record {
	t.Helper()
	r, err := New(resp, sampFreq)
	if err != nil {
		t.Fatal(err)
	}
	r.troughs = troughs
	r.peaks = peaks
	if err := r.checkAlternation(); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, 100); err == nil {
		t.Error("expected error for empty signal")
	}
	if _, err := New([]float64{1}, 0); err == nil {
		t.Error("expected error for non-positive sampling frequency")
	}
}

func TestRecordBasics(t *testing.T) {
	resp := []float64{1, 2, 3, 4}
	r, err := New(resp, 2)
	if err != nil {
		t.Fatal(err)
	}
	if r.Len() != 4 {
		t.Errorf("Len: got %d, want 4", r.Len())
	}
	if r.SampFreq() != 2 {
		t.Errorf("SampFreq: got %g, want 2", r.SampFreq())
	}
	if r.Duration() != 2 {
		t.Errorf("Duration: got %g, want 2", r.Duration())
	}
	if got := r.Samples(); &got[0] != &resp[0] {
		t.Error("Samples should expose the underlying buffer")
	}
}

func TestFindCycles(t *testing.T) {
	resp, sampFreq := breathingSignal(60)
	r, err := New(resp, sampFreq)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.FindCycles(config.DefaultCycleConfig()); err != nil {
		t.Fatal(err)
	}

	troughs := r.Troughs()
	peaks := r.Peaks()

	if len(peaks) != len(troughs)-1 {
		t.Fatalf("got %d peaks for %d troughs, want exactly one fewer",
			len(peaks), len(troughs))
	}
	if len(peaks) < 9 || len(peaks) > 13 {
		t.Fatalf("got %d cycles from 15 breaths, want roughly one per interior breath", len(peaks))
	}

	for i, p := range peaks {
		if p <= troughs[i] || p >= troughs[i+1] {
			t.Fatalf("peak %d (sample %d) outside its trough bracket [%d, %d]",
				i, p, troughs[i], troughs[i+1])
		}
		// Crests lie at samples 40+80k.
		if d := distanceToGrid(p-40, 80); d > 3 {
			t.Errorf("peak %d at sample %d is %d samples from the nearest crest", i, p, d)
		}
	}
	for i, tr := range troughs {
		if d := distanceToGrid(tr, 80); d > 3 {
			t.Errorf("trough %d at sample %d is %d samples from the nearest trough", i, tr, d)
		}
	}

	// Cycles must tile the analyzed stretch.
	cycles := r.Cycles()
	if len(cycles) != len(peaks) {
		t.Fatalf("got %d cycles for %d peaks", len(cycles), len(peaks))
	}
	for i := 1; i < len(cycles); i++ {
		if cycles[i].Start != cycles[i-1].End {
			t.Errorf("gap between cycle %d and %d: %g vs %g",
				i-1, i, cycles[i-1].End, cycles[i].Start)
		}
	}
}

// distanceToGrid returns the distance from v to the nearest multiple of step.
func distanceToGrid(v, step int) int {
	m := ((v % step) + step) % step
	return min(m, step-m)
}

func TestFindCycles_ConstantSignal(t *testing.T) {
	resp := make([]float64, 1200)
	for i := range resp {
		resp[i] = 2
	}
	r, err := New(resp, 20)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.FindCycles(config.DefaultCycleConfig()); err == nil {
		t.Error("expected an explicit failure on a constant signal")
	}
	if len(r.Troughs()) != 0 {
		t.Error("failed detection must not store extrema")
	}
}

func TestFindCycles_InvalidConfig(t *testing.T) {
	resp, sampFreq := breathingSignal(60)
	r, err := New(resp, sampFreq)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultCycleConfig()
	cfg.Lookahead = 0
	if err := r.FindCycles(cfg); err == nil {
		t.Error("expected config validation error")
	}
}

// holdRecord builds two breath cycles with a 40-sample flat stretch in the
// first exhalation, the canonical breath-hold shape.
func holdRecord(t *testing.T) *Record {
	t.Helper()

	resp := make([]float64, 400)
	for i := range resp {
		switch {
		case i < 100:
			resp[i] = -1 + 0.02*float64(i)
		case i < 200:
			if i >= 140 && i < 180 {
				resp[i] = 0
			} else {
				resp[i] = 1 - 0.02*float64(i-100)
			}
		case i < 300:
			resp[i] = -1 + 0.02*float64(i-200)
		default:
			resp[i] = 1 - 0.02*float64(i-300)
		}
	}

	return testRecord(t, resp, 100, []int{0, 200, 399}, []int{100, 300})
}

func TestFindHolds(t *testing.T) {
	r := holdRecord(t)

	if err := r.FindHolds(config.DefaultHoldConfig()); err != nil {
		t.Fatal(err)
	}

	hs := r.Holds()
	if len(hs) != 1 {
		t.Fatalf("got %d holds, want 1: %v", len(hs), hs)
	}
	if !almostEqual(hs[0].Start, 1.4, tolerance) || !almostEqual(hs[0].End, 1.8, tolerance) {
		t.Errorf("hold: got [%g, %g], want [1.4, 1.8]", hs[0].Start, hs[0].End)
	}
}

func TestFindHolds_NoHolds(t *testing.T) {
	resp, sampFreq := breathingSignal(60)
	r, err := New(resp, sampFreq)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.FindCycles(config.DefaultCycleConfig()); err != nil {
		t.Fatal(err)
	}

	// Clean sinusoidal breathing dwells nowhere.
	if err := r.FindHolds(config.DefaultHoldConfig()); err != nil {
		t.Fatal(err)
	}
	if hs := r.Holds(); len(hs) != 0 {
		t.Errorf("got %d holds on hold-free breathing: %v", len(hs), hs)
	}
}

func TestFindHolds_RequiresCycles(t *testing.T) {
	r, err := New(make([]float64, 100), 20)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.FindHolds(config.DefaultHoldConfig()); !errors.Is(err, ErrNoCycles) {
		t.Errorf("got %v, want ErrNoCycles", err)
	}
}

func TestFindHolds_Invariants(t *testing.T) {
	r := holdRecord(t)
	cfg := config.DefaultHoldConfig()
	if err := r.FindHolds(cfg); err != nil {
		t.Fatal(err)
	}

	var prev holds.Candidate
	for i, h := range r.holds {
		if float64(h.Duration()) < cfg.MinHoldDur*r.sampFreq {
			t.Errorf("hold %d shorter than the minimum duration: %v", i, h)
		}
		if i > 0 && float64(h.Start-prev.End) < cfg.MinHoldGap*r.sampFreq {
			t.Errorf("holds %d and %d closer than the minimum gap", i-1, i)
		}
		prev = h
	}
}

func TestFindLaughters(t *testing.T) {
	r, err := New([]float64{1, 2, 3}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.FindLaughters(); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("got %v, want ErrNotImplemented", err)
	}
}

func TestConditioning(t *testing.T) {
	resp, sampFreq := breathingSignal(60)
	for i := range resp {
		resp[i] += 3 // DC offset
	}
	r, err := New(resp, sampFreq)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Detrend(conditioning.DetrendLinear); err != nil {
		t.Fatal(err)
	}
	var mean float64
	for _, v := range r.Samples() {
		mean += v
	}
	mean /= float64(r.Len())
	if !almostEqual(mean, 0, tolerance) {
		t.Errorf("mean after detrending: got %g, want 0", mean)
	}

	if err := r.Resample(10); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 600 || r.SampFreq() != 10 {
		t.Errorf("after resampling: %d samples at %g Hz, want 600 at 10",
			r.Len(), r.SampFreq())
	}
}

func TestRemoveBaseline_WindowTooLong(t *testing.T) {
	r, err := New(make([]float64, 100), 20) // 5 s recording
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RemoveBaseline(60); err == nil {
		t.Error("expected error when the baseline window exceeds the recording")
	}
}
