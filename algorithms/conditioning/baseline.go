package conditioning

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

// FFTConvolveSame convolves a with b in the frequency domain and returns the
// central len(a) samples of the full convolution ("same" mode). Both inputs
// must have equal, non-zero length.
func FFTConvolveSame(a, b []float64) ([]float64, error) {
	n := len(a)
	if n == 0 || len(b) != n {
		return nil, fmt.Errorf("inputs must have equal non-zero length, got %d and %d", n, len(b))
	}

	// Zero-pad both inputs to the full convolution length.
	full := 2*n - 1
	pa := make([]float64, full)
	pb := make([]float64, full)
	copy(pa, a)
	copy(pb, b)

	fa := fft.FFTReal(pa)
	fb := fft.FFTReal(pb)
	for i := range fa {
		fa[i] *= fb[i]
	}

	conv := fft.IFFT(fa)

	// Central slice of the full convolution.
	start := (n - 1) / 2
	out := make([]float64, n)
	for i := range out {
		out[i] = real(conv[start+i])
	}
	return out, nil
}

// LowPass applies a zero-phase rectangular low-pass filter of winLen samples
// by FFT convolution with a centered boxcar, following the smoothing scheme
// of the Breathmetrics respiratory toolbox (Noto et al. 2018, Chemical
// Senses).
func LowPass(signal []float64, winLen int) ([]float64, error) {
	n := len(signal)
	if n == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if winLen <= 0 || winLen > n {
		return nil, fmt.Errorf("window length %d out of range for %d samples", winLen, n)
	}

	// Boxcar of winLen ones centered in a zero vector of signal length.
	win := make([]float64, n)
	marLeft := (n - winLen + 1) / 2
	marRight := (n + winLen) / 2
	for i := marLeft; i < marRight; i++ {
		win[i] = 1
	}

	smoothed, err := FFTConvolveSame(signal, win)
	if err != nil {
		return nil, err
	}
	for i := range smoothed {
		smoothed[i] /= float64(winLen)
	}
	return smoothed, nil
}

// RemoveBaseline subtracts the low-frequency baseline fluctuation obtained by
// low-pass filtering signal with a rectangular window of winSec seconds.
func RemoveBaseline(signal []float64, sampFreq, winSec float64) ([]float64, error) {
	winLen := int(winSec * sampFreq)
	low, err := LowPass(signal, winLen)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(signal))
	for i, x := range signal {
		out[i] = x - low[i]
	}
	return out, nil
}
