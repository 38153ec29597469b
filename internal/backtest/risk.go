package backtest

import (
	"fmt"
	"math"

	"golang-statarb/internal/series"

	"gonum.org/v1/gonum/stat"
)

// VolTargetWeights scales exposure toward a target annualized volatility:
// w_t = clip(targetVol / realizedVol_t, cap), where realized vol is the
// rolling sample stdev of simple returns over lookback days, annualized.
// Weights are 0 until the lookback fills or while realized vol is zero.
func VolTargetWeights(prices *series.Series, targetVol float64, lookback int, cap float64) (*series.Series, error) {
	if targetVol <= 0 {
		return nil, fmt.Errorf("target vol must be positive, got %g", targetVol)
	}
	if lookback < 2 {
		return nil, fmt.Errorf("vol lookback must be at least 2, got %d", lookback)
	}
	if cap <= 0 {
		return nil, fmt.Errorf("weight cap must be positive, got %g", cap)
	}
	if prices.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 prices", series.ErrInsufficientData)
	}

	rets := make([]float64, prices.Len()-1)
	for i := 1; i < prices.Len(); i++ {
		rets[i-1] = prices.Value(i)/prices.Value(i-1) - 1
	}

	weights := make([]float64, prices.Len())
	for i := lookback; i < prices.Len(); i++ {
		w := rets[i-lookback : i]
		vol := stat.StdDev(w, nil) * math.Sqrt(TradingDaysPerYear)
		if vol == 0 {
			continue
		}
		weights[i] = math.Min(targetVol/vol, cap)
	}
	return series.New(prices.Dates(), weights)
}
