package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the one-sided magnitude spectrum of data, bins 0 to
// n/2, each scaled by 1/n. Any length works.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	spectrum := fft.FFTReal(data)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i]) / float64(n)
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the largest non-DC bin of
// data sampled every dt seconds, and that bin's magnitude. The mean is
// removed first. Fewer than four samples give zeros.
func DominantFrequency(data []float64, dt float64) (freq, magnitude float64) {
	n := len(data)
	if n < 4 || dt <= 0 {
		return 0, 0
	}

	mean := stat.Mean(data, nil)
	centred := make([]float64, n)
	for i, v := range data {
		centred[i] = v - mean
	}

	ps := PowerSpectrum(centred)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(n) * dt), ps[best]
}
