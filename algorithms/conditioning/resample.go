package conditioning

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

// Resample changes the number of samples in signal to num using the FFT
// method: the spectrum is truncated or zero-padded to the new length, so the
// result is band-limited interpolation of the input. Assumes the signal is
// approximately periodic over the analysis window, which holds well enough
// for long respiratory recordings.
func Resample(signal []float64, num int) ([]float64, error) {
	nx := len(signal)
	if nx == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if num <= 0 {
		return nil, fmt.Errorf("target sample count must be positive, got %d", num)
	}

	spec := fft.FFTReal(signal)

	resamp := make([]complex128, num)
	n := min(num, nx)
	nyq := n/2 + 1

	// Positive frequencies.
	copy(resamp[:nyq], spec[:nyq])

	// Negative frequencies, excluding the shared Nyquist bin.
	for i := 1; i <= n-nyq; i++ {
		resamp[num-i] = spec[nx-i]
	}

	// Treat the Nyquist component for even window sizes.
	if n%2 == 0 {
		switch {
		case num < nx:
			// Downsampling: fold the mirrored bin into the new Nyquist.
			resamp[n/2] += spec[nx-n/2]
		case num > nx:
			// Upsampling: split the old Nyquist between the two new bins.
			resamp[n/2] /= 2
			resamp[num-n/2] = resamp[n/2]
		}
	}

	out := fft.IFFT(resamp)
	scale := float64(num) / float64(nx)

	res := make([]float64, num)
	for i, c := range out {
		res[i] = real(c) * scale
	}
	return res, nil
}

// ResampleRate resamples signal from sampFreq to newFreq. The output has
// floor(duration * newFreq) samples.
func ResampleRate(signal []float64, sampFreq, newFreq float64) ([]float64, error) {
	if sampFreq <= 0 || newFreq <= 0 {
		return nil, fmt.Errorf("sampling frequencies must be positive, got %g and %g", sampFreq, newFreq)
	}

	dur := float64(len(signal)) / sampFreq
	num := int(dur * newFreq)
	return Resample(signal, num)
}
