package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_HandComputed(t *testing.T) {
	// Capital 1000: equity goes 1100 then 1050.
	s, err := Summarize([]float64{100, -50}, 1000)
	require.NoError(t, err)

	r1 := 0.1
	r2 := -50.0 / 1100.0
	mean := (r1 + r2) / 2
	sd := math.Sqrt(math.Pow(r1-mean, 2) + math.Pow(r2-mean, 2)) // sample, n-1 = 1

	assert.InDelta(t, mean, s.AvgDailyReturn, 1e-12)
	assert.InDelta(t, mean*252, s.AnnReturn, 1e-12)
	assert.InDelta(t, sd*math.Sqrt(252), s.AnnVol, 1e-12)
	assert.InDelta(t, (mean*252)/(sd*math.Sqrt(252)), s.Sharpe, 1e-12)
	assert.InDelta(t, -50.0, s.MaxDrawdown, 1e-12)
	assert.InDelta(t, 0.5, s.HitRate, 1e-12)
}

func TestSummarize_ZeroVolatility(t *testing.T) {
	s, err := Summarize([]float64{0, 0, 0}, 1000)
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.AnnVol)
	assert.Equal(t, 0.0, s.Sharpe, "sharpe must be 0 when vol is 0, not NaN")
	assert.Equal(t, 0.0, s.HitRate)
	assert.Equal(t, 0.0, s.MaxDrawdown)
}

func TestSummarize_DrawdownTracksWorstPeakToTrough(t *testing.T) {
	// Equity: 1100, 1300, 1000, 1200. Worst drop is 1300 -> 1000.
	s, err := Summarize([]float64{100, 200, -300, 200}, 1000)
	require.NoError(t, err)
	assert.InDelta(t, -300.0, s.MaxDrawdown, 1e-12)
}

func TestSummarize_Errors(t *testing.T) {
	_, err := Summarize(nil, 1000)
	assert.Error(t, err)

	_, err = Summarize([]float64{1}, 0)
	assert.Error(t, err)

	_, err = Summarize([]float64{1}, -100)
	assert.Error(t, err)
}

func TestVolTargetWeights(t *testing.T) {
	vals := make([]float64, 30)
	for i := range vals {
		vals[i] = 100 + 2*math.Sin(float64(i)*1.3)
	}
	prices := mustSeries(t, vals)

	w, err := VolTargetWeights(prices, 0.10, 5, 2.0)
	require.NoError(t, err)
	require.Equal(t, prices.Len(), w.Len())

	for i := 0; i < 5; i++ {
		assert.Equal(t, 0.0, w.Value(i), "weight before lookback fills")
	}
	for i := 5; i < w.Len(); i++ {
		assert.Greater(t, w.Value(i), 0.0)
		assert.LessOrEqual(t, w.Value(i), 2.0)
	}
}

func TestVolTargetWeights_CapBinds(t *testing.T) {
	// Nearly flat prices make realized vol tiny; weights hit the cap.
	vals := make([]float64, 20)
	for i := range vals {
		vals[i] = 100 + 1e-6*math.Sin(float64(i))
	}
	w, err := VolTargetWeights(mustSeries(t, vals), 0.10, 5, 1.5)
	require.NoError(t, err)
	for i := 5; i < w.Len(); i++ {
		assert.Equal(t, 1.5, w.Value(i))
	}
}

func TestVolTargetWeights_FlatPricesGiveZeroWeight(t *testing.T) {
	w, err := VolTargetWeights(constPrices(t, 100, 15), 0.10, 5, 2.0)
	require.NoError(t, err)
	for i := 0; i < w.Len(); i++ {
		assert.Equal(t, 0.0, w.Value(i))
	}
}

func TestVolTargetWeights_Validation(t *testing.T) {
	prices := constPrices(t, 100, 15)

	_, err := VolTargetWeights(prices, 0, 5, 2)
	assert.Error(t, err)
	_, err = VolTargetWeights(prices, 0.1, 1, 2)
	assert.Error(t, err)
	_, err = VolTargetWeights(prices, 0.1, 5, 0)
	assert.Error(t, err)
}
