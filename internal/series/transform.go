package series

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// LogReturns converts a price series into log returns, dropping the
// undefined first point: r_t = ln(P_t / P_{t-1}).
func LogReturns(prices *Series) (*Series, error) {
	if prices.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 prices for returns, got %d", ErrInsufficientData, prices.Len())
	}
	logP, err := prices.Log()
	if err != nil {
		return nil, err
	}
	out := make([]float64, logP.Len()-1)
	for i := 1; i < logP.Len(); i++ {
		out[i-1] = logP.values[i] - logP.values[i-1]
	}
	return New(logP.dates[1:], out)
}

// RollingZScore standardizes each point against the trailing window's mean
// and sample standard deviation. The first window-1 points are undefined, as
// is any point whose window has zero variance.
func RollingZScore(s *Series, window int) (*Optional, error) {
	if window < 2 {
		return nil, fmt.Errorf("rolling window must be at least 2, got %d", window)
	}
	out := make([]Value, s.Len())
	for i := window - 1; i < s.Len(); i++ {
		w := s.values[i-window+1 : i+1]
		mu, sigma := stat.MeanStdDev(w, nil)
		if sigma == 0 || math.IsNaN(sigma) {
			out[i] = Undefined
			continue
		}
		out[i] = Defined((s.values[i] - mu) / sigma)
	}
	return NewOptional(s.dates, out)
}

// Diff returns the first difference of the series, one point shorter.
func Diff(s *Series) (*Series, error) {
	if s.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points to difference, got %d", ErrInsufficientData, s.Len())
	}
	out := make([]float64, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		out[i-1] = s.values[i] - s.values[i-1]
	}
	return New(s.dates[1:], out)
}
