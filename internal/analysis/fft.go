package analysis

import (
	"errors"
	"math"
	"math/cmplx"
)

var ErrTooShort = errors.New("analysis: series too short")

// FFT is a radix-2 transform; len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum zero-pads data to a power of two, removes the mean and
// returns the magnitude of the first half of the spectrum.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}

	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// Spectrum is the result of DominantPeriod.
type Spectrum struct {
	Power     []float64
	Frequency float64
	Period    float64
}

// DominantPeriod finds the strongest non-zero frequency of a series sampled
// every sampleDt. Period is +Inf when no oscillation is found.
func DominantPeriod(series []float64, sampleDt float64) (Spectrum, error) {
	if len(series) < 4 || !(sampleDt > 0) {
		return Spectrum{}, ErrTooShort
	}

	ps := PowerSpectrum(series)
	n := 2 * len(ps)

	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}

	out := Spectrum{Power: ps, Period: math.Inf(1)}
	if ps[peak] > 1e-9 {
		out.Frequency = float64(peak) / (float64(n) * sampleDt)
		out.Period = 1 / out.Frequency
	}
	return out, nil
}
