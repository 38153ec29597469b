package pairs

import (
	"math"
	"testing"

	"golang-statarb/internal/series"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cointegratedPair builds logPA = alpha + beta*logPB + e with a strongly
// mean-reverting deterministic disturbance.
func cointegratedPair(t *testing.T, n int, alpha, beta float64) (*series.Series, *series.Series) {
	t.Helper()
	logB := make([]float64, n)
	logA := make([]float64, n)
	for i := 0; i < n; i++ {
		fi := float64(i)
		logB[i] = 4 + 0.001*fi + 0.05*math.Sin(fi/3)
		e := 0.01*math.Pow(-1, fi) + 0.002*math.Sin(fi*1.7)
		logA[i] = alpha + beta*logB[i] + e
	}
	return mustSeries(t, logA), mustSeries(t, logB)
}

func TestFitEngleGranger_RecoversParameters(t *testing.T) {
	logA, logB := cointegratedPair(t, 200, 0.5, 1.3)

	res, err := FitEngleGranger(logA, logB, FitOptions{})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.Alpha, 0.05)
	assert.InDelta(t, 1.3, res.Beta, 0.05)
	assert.True(t, res.Stationary)
	assert.Less(t, res.PValue, 0.05)
	assert.Equal(t, 200, res.Residual.Len())
}

func TestFitEngleGranger_IdenticalSeries(t *testing.T) {
	vals := make([]float64, 50)
	for i := range vals {
		vals[i] = 4 + 0.1*math.Sin(float64(i)/2)
	}
	s := mustSeries(t, vals)

	// Zero-variance residual takes the degenerate path: stationary by fiat.
	res, err := FitEngleGranger(s, s, FitOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Beta, 1e-9)
	assert.InDelta(t, 0.0, res.Alpha, 1e-9)
	assert.True(t, res.Stationary)
	assert.Equal(t, 0.0, res.PValue)
	assert.True(t, math.IsInf(res.ADFStat, -1))
}

func TestFitEngleGranger_TrendingResidualNotStationary(t *testing.T) {
	n := 150
	logB := make([]float64, n)
	logA := make([]float64, n)
	for i := 0; i < n; i++ {
		fi := float64(i)
		logB[i] = 5 + 0.05*math.Sin(fi/4)
		logA[i] = 2 + logB[i] + 0.005*fi // residual carries a linear trend
	}

	res, err := FitEngleGranger(mustSeries(t, logA), mustSeries(t, logB), FitOptions{})
	require.NoError(t, err)
	assert.False(t, res.Stationary)
	assert.Greater(t, res.PValue, 0.05)
}

func TestFitEngleGranger_InsufficientData(t *testing.T) {
	logA, logB := cointegratedPair(t, 10, 0, 1)
	_, err := FitEngleGranger(logA, logB, FitOptions{})
	assert.ErrorIs(t, err, series.ErrInsufficientData)
}

func TestFitEngleGranger_ConstantRegressor(t *testing.T) {
	flat := make([]float64, 60)
	varying := make([]float64, 60)
	for i := range flat {
		flat[i] = 3
		varying[i] = 3 + 0.1*math.Sin(float64(i))
	}
	_, err := FitEngleGranger(mustSeries(t, varying), mustSeries(t, flat), FitOptions{})
	assert.ErrorIs(t, err, series.ErrDegenerateSignal)
}

func TestFitEngleGranger_OptionValidation(t *testing.T) {
	logA, logB := cointegratedPair(t, 100, 0, 1)

	_, err := FitEngleGranger(logA, logB, FitOptions{Significance: 1.2})
	assert.Error(t, err)

	_, err = FitEngleGranger(logA, logB, FitOptions{MinSamples: 5})
	assert.Error(t, err)

	_, err = FitEngleGranger(logA, logB, FitOptions{ADFLag: -2})
	assert.Error(t, err)
}

func TestFitEngleGranger_ADFLagSelection(t *testing.T) {
	logA, logB := cointegratedPair(t, 200, 0.5, 1.3)

	def, err := FitEngleGranger(logA, logB, FitOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultADFLag, def.ADFLag)

	zero, err := FitEngleGranger(logA, logB, FitOptions{ADFLag: ADFLagZero})
	require.NoError(t, err)
	assert.Equal(t, 0, zero.ADFLag)
	assert.True(t, zero.Stationary)
}

func TestApplyHedge(t *testing.T) {
	logA, logB := cointegratedPair(t, 60, 0.5, 1.3)

	resid, err := ApplyHedge(logA, logB, 0.5, 1.3)
	require.NoError(t, err)
	require.Equal(t, 60, resid.Len())
	for i := 0; i < resid.Len(); i++ {
		want := logA.Value(i) - 0.5 - 1.3*logB.Value(i)
		assert.InDelta(t, want, resid.Value(i), 1e-12)
	}
}
