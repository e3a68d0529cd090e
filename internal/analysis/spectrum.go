package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X[k]|² for k in [0, n/2] of the mean-removed,
// Hann-windowed series.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range series {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2+1)
	for k := range ps {
		a := cmplx.Abs(spectrum[k])
		ps[k] = a * a
	}
	return ps
}

// DominantPeriod returns the period in samples of the strongest non-zero
// frequency, and its share of the total power. A flat series reports 0.
func DominantPeriod(series []float64) (float64, float64) {
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0, 0
	}

	total, best, bestK := 0.0, 0.0, 0
	for k := 1; k < len(ps); k++ {
		total += ps[k]
		if ps[k] > best {
			best, bestK = ps[k], k
		}
	}
	if bestK == 0 || total < 1e-12 {
		return 0, 0
	}
	return float64(len(series)) / float64(bestK), best / total
}

// ExactPeriod returns the smallest p ≤ maxPeriod such that the last 2p
// samples each equal the sample p before them, or 0 if there is none.
func ExactPeriod(series []int, maxPeriod int) int {
	n := len(series)
	for p := 1; p <= maxPeriod && 3*p <= n; p++ {
		ok := true
		for i := n - 2*p; i < n; i++ {
			if series[i] != series[i-p] {
				ok = false
				break
			}
		}
		if ok {
			return p
		}
	}
	return 0
}
