package pairs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMackinnonP_Saturation(t *testing.T) {
	assert.Equal(t, 1.0, mackinnonP(3.0))
	assert.Equal(t, 0.0, mackinnonP(-20.0))
}

func TestMackinnonP_Monotone(t *testing.T) {
	taus := []float64{-6, -4, -2.5, -1, 0, 1}
	for i := 1; i < len(taus); i++ {
		assert.Less(t, mackinnonP(taus[i-1]), mackinnonP(taus[i]),
			"p-value must increase with tau")
	}
}

func TestMackinnonP_FivePercentCriticalValue(t *testing.T) {
	// The asymptotic 5% critical value for the constant-only case is about
	// -2.86; the surface should put the p-value right at 0.05 there.
	assert.InDelta(t, 0.05, mackinnonP(-2.861), 0.005)
}

func TestADFTest_MeanRevertingSeries(t *testing.T) {
	x := make([]float64, 200)
	for i := range x {
		fi := float64(i)
		x[i] = 0.01*math.Pow(-1, fi) + 0.002*math.Sin(fi*1.7)
	}

	tau, p, err := adfTest(x, 1)
	require.NoError(t, err)
	assert.Less(t, tau, -3.0)
	assert.Less(t, p, 0.05)
}

func TestADFTest_TrendingSeries(t *testing.T) {
	x := make([]float64, 200)
	for i := range x {
		x[i] = 0.05*float64(i) + 0.01*math.Sin(float64(i))
	}

	_, p, err := adfTest(x, 1)
	require.NoError(t, err)
	assert.Greater(t, p, 0.05)
}

func TestADFTest_LagZero(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		fi := float64(i)
		x[i] = 0.01*math.Pow(-1, fi) + 0.002*math.Sin(fi*1.7)
	}

	tau, p, err := adfTest(x, 0)
	require.NoError(t, err)
	assert.Less(t, tau, -3.0)
	assert.Less(t, p, 0.05)
}

func TestADFTest_Errors(t *testing.T) {
	_, _, err := adfTest([]float64{1, 2, 3}, 1)
	assert.Error(t, err, "too few rows for the regression")

	_, _, err = adfTest(make([]float64, 50), -1)
	assert.Error(t, err, "negative lag")
}
