package pairs

import (
	"math"
	"testing"

	"golang-statarb/internal/series"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJohansen_CointegratedPair(t *testing.T) {
	n := 250
	walk := make([]float64, n)
	spreadTo := make([]float64, n)
	level := 4.0
	for i := 0; i < n; i++ {
		fi := float64(i)
		level += 0.02 * math.Sin(fi*1.1+0.3)
		walk[i] = level
		spreadTo[i] = level + 0.002*math.Sin(fi*5)
	}

	res, err := Johansen([]*series.Series{mustSeries(t, walk), mustSeries(t, spreadTo)}, 1)
	require.NoError(t, err)

	require.Len(t, res.Eigenvalues, 2)
	require.Len(t, res.TraceStats, 2)
	require.Len(t, res.CriticalVal, 2)
	assert.Equal(t, 15.41, res.CriticalVal[0])
	assert.Equal(t, 3.76, res.CriticalVal[1])

	// Eigenvalues in [0, 1), descending.
	for i, l := range res.Eigenvalues {
		assert.GreaterOrEqual(t, l, 0.0)
		assert.Less(t, l, 1.0)
		if i > 0 {
			assert.LessOrEqual(t, l, res.Eigenvalues[i-1])
		}
	}

	// The spread is tiny and mean-reverting: at least one cointegrating
	// relation must be found.
	assert.GreaterOrEqual(t, res.Rank, 1)
	assert.Greater(t, res.TraceStats[0], res.CriticalVal[0])
}

func TestJohansen_Validation(t *testing.T) {
	s := mustSeries(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	_, err := Johansen([]*series.Series{s}, 1)
	assert.Error(t, err, "basket too small")

	seven := make([]*series.Series, 7)
	for i := range seven {
		seven[i] = s
	}
	_, err = Johansen(seven, 1)
	assert.Error(t, err, "basket too large")

	_, err = Johansen([]*series.Series{s, s}, 0)
	assert.Error(t, err, "lag must be positive")

	short := mustSeries(t, []float64{1, 2, 3, 4, 5})
	_, err = Johansen([]*series.Series{short, short}, 1)
	assert.ErrorIs(t, err, series.ErrInsufficientData)
}
