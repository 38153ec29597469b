package backtest

import (
	"fmt"
	"math"

	"golang-statarb/internal/series"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor for daily data.
const TradingDaysPerYear = 252

// Summary reduces a net PnL series to the standard performance numbers.
// Returns are computed on the reconstructed equity curve (cumulative net PnL
// plus initial capital); MaxDrawdown is the worst peak-to-trough dollar move
// on that curve.
type Summary struct {
	AnnReturn      float64 `json:"ann_return"`
	AnnVol         float64 `json:"ann_vol"`
	Sharpe         float64 `json:"sharpe"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	AvgDailyReturn float64 `json:"avg_daily_return"`
	HitRate        float64 `json:"hit_rate"`
}

// Summarize computes the summary for a net PnL series and a starting
// capital. Sharpe is reported as 0 when volatility is zero.
func Summarize(netPnL []float64, initialCapital float64) (Summary, error) {
	if len(netPnL) == 0 {
		return Summary{}, fmt.Errorf("%w: empty pnl series", series.ErrInsufficientData)
	}
	if initialCapital <= 0 {
		return Summary{}, fmt.Errorf("initial capital must be positive, got %g", initialCapital)
	}

	equity := make([]float64, len(netPnL))
	rets := make([]float64, len(netPnL))
	prevEq := initialCapital
	hits := 0
	for i, pnl := range netPnL {
		equity[i] = prevEq + pnl
		rets[i] = pnl / prevEq
		prevEq = equity[i]
		if pnl > 0 {
			hits++
		}
	}

	mean := stat.Mean(rets, nil)
	sd := 0.0
	if len(rets) > 1 {
		sd = stat.StdDev(rets, nil)
	}
	annRet := mean * TradingDaysPerYear
	annVol := sd * math.Sqrt(TradingDaysPerYear)

	sharpe := 0.0
	if annVol > 0 {
		sharpe = annRet / annVol
	}

	peak := math.Inf(-1)
	maxDD := 0.0
	for _, eq := range equity {
		if eq > peak {
			peak = eq
		}
		if dd := eq - peak; dd < maxDD {
			maxDD = dd
		}
	}

	return Summary{
		AnnReturn:      annRet,
		AnnVol:         annVol,
		Sharpe:         sharpe,
		MaxDrawdown:    maxDD,
		AvgDailyReturn: mean,
		HitRate:        float64(hits) / float64(len(netPnL)),
	}, nil
}
