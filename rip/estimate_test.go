package rip

import (
	"errors"
	"math"
	"testing"

	"github.com/respkit/respkit/rip/config"
)

func TestEstimateRange(t *testing.T) {
	resp := make([]float64, 201)
	resp[0] = -1
	resp[100] = -0.9
	resp[200] = -1.1
	resp[50] = 1
	resp[150] = 1.2
	r := testRecord(t, resp, 100, []int{0, 100, 200}, []int{50, 150})

	rng, err := r.EstimateRange(config.DefaultRangeConfig())
	if err != nil {
		t.Fatal(err)
	}

	// 5th percentile of {-1.1, -1, -0.9} and 95th of {1, 1.2} with linear
	// interpolation between closest ranks.
	if !almostEqual(rng.Bot, -1.09, tolerance) {
		t.Errorf("Bot: got %g, want -1.09", rng.Bot)
	}
	if !almostEqual(rng.Top, 1.19, tolerance) {
		t.Errorf("Top: got %g, want 1.19", rng.Top)
	}
}

func TestEstimateRange_Extremes(t *testing.T) {
	resp := make([]float64, 201)
	resp[0] = -2
	resp[100] = -1
	resp[200] = -3
	resp[50] = 2
	resp[150] = 3
	r := testRecord(t, resp, 100, []int{0, 100, 200}, []int{50, 150})

	rng, err := r.EstimateRange(config.RangeConfig{Bot: 0, Top: 100})
	if err != nil {
		t.Fatal(err)
	}
	if rng.Bot != -3 || rng.Top != 3 {
		t.Errorf("got [%g, %g], want [-3, 3]", rng.Bot, rng.Top)
	}
}

func TestEstimateRange_Errors(t *testing.T) {
	r, err := New([]float64{1, 2}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.EstimateRange(config.DefaultRangeConfig()); !errors.Is(err, ErrNoCycles) {
		t.Errorf("got %v, want ErrNoCycles", err)
	}

	seg := testRecord(t, make([]float64, 201), 100, []int{0, 100, 200}, []int{50, 150})
	if _, err := seg.EstimateRange(config.RangeConfig{Bot: -5, Top: 95}); err == nil {
		t.Error("expected config validation error")
	}
}

func TestEstimateREL(t *testing.T) {
	resp := make([]float64, 301)
	resp[0] = -1.0
	resp[100] = -0.8
	resp[200] = -0.6
	resp[300] = -0.4
	r := testRecord(t, resp, 100, []int{0, 100, 200, 300}, []int{50, 150, 250})

	rel, err := r.EstimateREL(config.DefaultRELConfig(1.5))
	if err != nil {
		t.Fatal(err)
	}
	if len(rel) != 3 {
		t.Fatalf("got %d values, want one per cycle", len(rel))
	}

	// The first cycle has no prior trough inside the window.
	if !math.IsNaN(rel[0]) {
		t.Errorf("rel[0]: got %g, want NaN", rel[0])
	}
	// The 1.5 s window reaches exactly one trough back.
	if !almostEqual(rel[1], -1.0, tolerance) {
		t.Errorf("rel[1]: got %g, want -1", rel[1])
	}
	if !almostEqual(rel[2], -0.8, tolerance) {
		t.Errorf("rel[2]: got %g, want -0.8", rel[2])
	}
}

func TestEstimateREL_MinLen(t *testing.T) {
	resp := make([]float64, 301)
	resp[0] = -1.0
	resp[100] = -0.8
	resp[200] = -0.6
	r := testRecord(t, resp, 100, []int{0, 100, 200, 300}, []int{50, 150, 250})

	cfg := config.RELConfig{Lookbehind: 10, MinLen: 2}
	rel, err := r.EstimateREL(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// With two prior troughs required, only the third cycle qualifies.
	if !math.IsNaN(rel[0]) || !math.IsNaN(rel[1]) {
		t.Errorf("rel[0], rel[1]: got %g, %g, want NaN, NaN", rel[0], rel[1])
	}
	if !almostEqual(rel[2], -0.9, tolerance) {
		t.Errorf("rel[2]: got %g, want the median -0.9", rel[2])
	}
}

func TestEstimateREL_Errors(t *testing.T) {
	r, err := New([]float64{1, 2}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.EstimateREL(config.DefaultRELConfig(60)); !errors.Is(err, ErrNoCycles) {
		t.Errorf("got %v, want ErrNoCycles", err)
	}
	if _, err := r.EstimateREL(config.RELConfig{Lookbehind: 0, MinLen: 1}); err == nil {
		t.Error("expected config validation error")
	}
}
