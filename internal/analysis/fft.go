package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// spectrum returns the bin magnitudes of data with its mean removed, and
// the transform used to map bins to frequencies.
func spectrum(data []float64) ([]float64, *fourier.FFT) {
	if len(data) < 2 {
		return nil, nil
	}
	centred := make([]float64, len(data))
	copy(centred, data)
	floats.AddConst(-stat.Mean(data, nil), centred)

	fft := fourier.NewFFT(len(data))
	coeff := fft.Coefficients(nil, centred)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps, fft
}

// PowerSpectrum returns the magnitude of every non-negative frequency bin
// of data with its mean removed. Bin i is i/len(data) cycles per sample.
func PowerSpectrum(data []float64) []float64 {
	ps, _ := spectrum(data)
	return ps
}

// DominantFrequency is the frequency in Hz of the strongest non-DC bin for
// samples taken every dt seconds. It is zero when there is no oscillation.
func DominantFrequency(data []float64, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	ps, fft := spectrum(data)
	if len(ps) < 2 {
		return 0
	}
	idx := floats.MaxIdx(ps[1:]) + 1
	if ps[idx] < 1e-9 {
		return 0
	}
	return fft.Freq(idx) / dt
}
