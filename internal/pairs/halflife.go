package pairs

import (
	"fmt"
	"math"

	"golang-statarb/internal/series"

	"gonum.org/v1/gonum/stat"
)

// OUHalfLife estimates the Ornstein-Uhlenbeck half-life of a mean-reverting
// series via an AR(1) fit on levels: s_t = a + b*s_{t-1}. Returns +Inf when
// b >= 1 (no reversion) and NaN when b <= 0 (half-life undefined).
func OUHalfLife(s *series.Series) (float64, error) {
	if s.Len() < 3 {
		return 0, fmt.Errorf("%w: need at least 3 points for an AR(1) fit, got %d", series.ErrInsufficientData, s.Len())
	}
	vals := s.Values()
	xs := vals[:len(vals)-1]
	ys := vals[1:]
	_, b := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(b) {
		return 0, fmt.Errorf("%w: AR(1) fit undefined for constant series", series.ErrDegenerateSignal)
	}
	if b >= 1 {
		return math.Inf(1), nil
	}
	if b <= 0 {
		return math.NaN(), nil
	}
	return -math.Ln2 / math.Log(b), nil
}
