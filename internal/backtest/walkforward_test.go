package backtest

import (
	"math"
	"testing"
	"time"

	"golang-statarb/internal/series"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cointegratedPrices builds a pair whose log prices share a common factor
// with a small mean-reverting spread, enough for every train fit to succeed.
func cointegratedPrices(t *testing.T, n int) (*series.Series, *series.Series) {
	t.Helper()
	pa := make([]float64, n)
	pb := make([]float64, n)
	for i := 0; i < n; i++ {
		fi := float64(i)
		logB := 4 + 0.001*fi + 0.05*math.Sin(fi/3)
		spread := 0.01*math.Pow(-1, fi) + 0.002*math.Sin(fi*1.7)
		pb[i] = math.Exp(logB)
		pa[i] = math.Exp(0.3 + 1.2*logB + spread)
	}
	return mustSeries(t, pa), mustSeries(t, pb)
}

func wfConfig() WalkForwardConfig {
	return WalkForwardConfig{
		TrainDays:     60,
		TestDays:      20,
		RollingWindow: 10,
		Params:        baseParams(),
	}
}

func TestWalkForward_SegmentLayout(t *testing.T) {
	pxA, pxB := cointegratedPrices(t, 110)

	ledger, segments, err := WalkForward(pxA, pxB, wfConfig())
	require.NoError(t, err)

	// 110 observations fit segments at offsets 0 and 20; the tail after day
	// 99 cannot fill a test window and is discarded.
	require.Len(t, segments, 2)
	assert.Len(t, ledger.Rows, 40)
	for _, seg := range segments {
		assert.Equal(t, 20, seg.TestDays)
	}
	assert.NotEqual(t, segments[0].Label, segments[1].Label)

	// Test windows are contiguous and non-overlapping: no date repeats and
	// dates are strictly increasing across the concatenated ledger.
	seen := make(map[time.Time]bool)
	for i, row := range ledger.Rows {
		assert.False(t, seen[row.Date], "date %s appears twice", row.Date)
		seen[row.Date] = true
		if i > 0 {
			assert.True(t, ledger.Rows[i-1].Date.Before(row.Date))
		}
	}

	// Rows carry their segment label.
	assert.Equal(t, segments[0].Label, ledger.Rows[0].Segment)
	assert.Equal(t, segments[1].Label, ledger.Rows[39].Segment)
}

func TestWalkForward_EquityIsRunningSum(t *testing.T) {
	pxA, pxB := cointegratedPrices(t, 180)
	cfg := wfConfig()
	cfg.Params.CommissionPerShare = 0.005

	ledger, _, err := WalkForward(pxA, pxB, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, ledger.Rows)

	sum := 0.0
	for i, row := range ledger.Rows {
		sum += row.NetPnL
		assert.InDelta(t, sum, row.Equity, 1e-9, "equity on row %d", i)
	}
}

func TestWalkForward_FitsOnTrainOnly(t *testing.T) {
	pxA, pxB := cointegratedPrices(t, 110)

	_, segments, err := WalkForward(pxA, pxB, wfConfig())
	require.NoError(t, err)

	// Both segments should recover roughly the construction parameters from
	// their own train windows.
	for _, seg := range segments {
		assert.InDelta(t, 1.2, seg.Beta, 0.1, "segment %s", seg.Label)
	}
}

func TestWalkForward_InsufficientData(t *testing.T) {
	pxA, pxB := cointegratedPrices(t, 70)

	_, _, err := WalkForward(pxA, pxB, wfConfig())
	assert.ErrorIs(t, err, series.ErrInsufficientData)
}

func TestWalkForward_ConfigValidation(t *testing.T) {
	pxA, pxB := cointegratedPrices(t, 110)

	tests := []struct {
		name   string
		mutate func(*WalkForwardConfig)
	}{
		{"zero train", func(c *WalkForwardConfig) { c.TrainDays = 0 }},
		{"zero test", func(c *WalkForwardConfig) { c.TestDays = 0 }},
		{"window too small", func(c *WalkForwardConfig) { c.RollingWindow = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := wfConfig()
			tt.mutate(&cfg)
			_, _, err := WalkForward(pxA, pxB, cfg)
			assert.Error(t, err)
		})
	}
}
