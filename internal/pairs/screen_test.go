package pairs

import (
	"math"
	"testing"
	"time"

	"golang-statarb/internal/series"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func mustSeries(t *testing.T, values []float64) *series.Series {
	t.Helper()
	dates := make([]time.Time, len(values))
	for i := range values {
		dates[i] = day(i)
	}
	s, err := series.New(dates, values)
	require.NoError(t, err)
	return s
}

func TestScreen(t *testing.T) {
	base := []float64{0.01, -0.02, 0.015, 0.005, -0.01, 0.02}
	scaled := make([]float64, len(base))
	inverted := make([]float64, len(base))
	noisy := make([]float64, len(base))
	for i, v := range base {
		scaled[i] = 2 * v
		inverted[i] = -v
		noisy[i] = v + 0.01*math.Sin(float64(i)*1.7)
	}

	returns := map[string]*series.Series{
		"A": mustSeries(t, base),
		"B": mustSeries(t, scaled),
		"C": mustSeries(t, inverted),
		"D": mustSeries(t, noisy),
		"E": mustSeries(t, []float64{0.01, 0.01, 0.01, 0.01, 0.01, 0.01}), // constant
	}
	universe := []string{"A", "B", "C", "D", "E"}

	got, err := Screen(returns, universe, 0.5)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	// Descending by |rho|, threshold respected, no constant-series pairs.
	for i, c := range got {
		assert.GreaterOrEqual(t, math.Abs(c.Rho), 0.5)
		assert.NotEqual(t, "E", c.A)
		assert.NotEqual(t, "E", c.B)
		if i > 0 {
			assert.LessOrEqual(t, math.Abs(c.Rho), math.Abs(got[i-1].Rho))
		}
	}

	// A-B are perfectly correlated and rank first.
	assert.Equal(t, "A", got[0].A)
	assert.Equal(t, "B", got[0].B)
	assert.InDelta(t, 1.0, got[0].Rho, 1e-12)
}

func TestScreen_NegativeCorrelationCountsByMagnitude(t *testing.T) {
	base := []float64{0.01, -0.02, 0.015, 0.005, -0.01}
	inverted := make([]float64, len(base))
	for i, v := range base {
		inverted[i] = -v
	}
	returns := map[string]*series.Series{
		"A": mustSeries(t, base),
		"C": mustSeries(t, inverted),
	}

	got, err := Screen(returns, []string{"A", "C"}, 0.9)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, -1.0, got[0].Rho, 1e-12)
}

func TestScreen_NoSymmetricDuplicates(t *testing.T) {
	base := []float64{0.01, -0.02, 0.015, 0.005, -0.01}
	scaled := make([]float64, len(base))
	for i, v := range base {
		scaled[i] = 3 * v
	}
	returns := map[string]*series.Series{
		"A": mustSeries(t, base),
		"B": mustSeries(t, scaled),
	}

	got, err := Screen(returns, []string{"A", "B"}, 0.5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestScreen_InvalidThreshold(t *testing.T) {
	returns := map[string]*series.Series{}
	for _, bad := range []float64{0, -0.2, 1.5} {
		_, err := Screen(returns, nil, bad)
		assert.Error(t, err)
	}
}

func TestScreen_MissingTickerSkipped(t *testing.T) {
	base := []float64{0.01, -0.02, 0.015, 0.005, -0.01}
	returns := map[string]*series.Series{
		"A": mustSeries(t, base),
	}

	got, err := Screen(returns, []string{"A", "GHOST"}, 0.5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
