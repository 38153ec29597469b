package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func days(ns ...int) []time.Time {
	out := make([]time.Time, len(ns))
	for i, n := range ns {
		out[i] = day(n)
	}
	return out
}

func mustSeries(t *testing.T, dates []time.Time, values []float64) *Series {
	t.Helper()
	s, err := New(dates, values)
	require.NoError(t, err)
	return s
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		dates   []time.Time
		values  []float64
		wantErr bool
	}{
		{
			name:   "valid series",
			dates:  days(0, 1, 2),
			values: []float64{1, 2, 3},
		},
		{
			name:    "length mismatch",
			dates:   days(0, 1),
			values:  []float64{1},
			wantErr: true,
		},
		{
			name:    "duplicate date",
			dates:   days(0, 1, 1),
			values:  []float64{1, 2, 3},
			wantErr: true,
		},
		{
			name:    "decreasing date",
			dates:   days(0, 2, 1),
			values:  []float64{1, 2, 3},
			wantErr: true,
		},
		{
			name:   "empty series",
			dates:  nil,
			values: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.dates, tt.values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	dates := days(0, 1)
	values := []float64{1, 2}
	s := mustSeries(t, dates, values)

	values[0] = 99
	assert.Equal(t, 1.0, s.Value(0))
}

func TestSeries_Between(t *testing.T) {
	s := mustSeries(t, days(0, 1, 2, 3, 4), []float64{10, 11, 12, 13, 14})

	sub, err := s.Between(day(1), day(3))
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Len())
	assert.Equal(t, 11.0, sub.Value(0))
	assert.Equal(t, 13.0, sub.Value(2))

	empty, err := s.Between(day(10), day(20))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestSeries_Log(t *testing.T) {
	s := mustSeries(t, days(0, 1), []float64{1, math.E})
	logged, err := s.Log()
	require.NoError(t, err)
	assert.InDelta(t, 0, logged.Value(0), 1e-12)
	assert.InDelta(t, 1, logged.Value(1), 1e-12)

	bad := mustSeries(t, days(0, 1), []float64{1, -2})
	_, err = bad.Log()
	assert.Error(t, err)
}

func TestAlign(t *testing.T) {
	a := mustSeries(t, days(0, 1, 2, 4), []float64{1, 2, 3, 5})
	b := mustSeries(t, days(1, 2, 3, 4), []float64{20, 30, 40, 50})

	alignedA, alignedB, err := Align(a, b)
	require.NoError(t, err)
	assert.Equal(t, days(1, 2, 4), alignedA.Dates())
	assert.Equal(t, []float64{2, 3, 5}, alignedA.Values())
	assert.Equal(t, []float64{20, 30, 50}, alignedB.Values())
}

func TestAlign_NoOverlap(t *testing.T) {
	a := mustSeries(t, days(0, 1), []float64{1, 2})
	b := mustSeries(t, days(5, 6), []float64{3, 4})

	_, _, err := Align(a, b)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAlignAll(t *testing.T) {
	a := mustSeries(t, days(0, 1, 2, 3), []float64{1, 2, 3, 4})
	b := mustSeries(t, days(1, 2, 3), []float64{20, 30, 40})
	c := mustSeries(t, days(0, 2, 3), []float64{100, 300, 400})

	aligned, err := AlignAll([]*Series{a, b, c})
	require.NoError(t, err)
	require.Len(t, aligned, 3)
	for _, s := range aligned {
		assert.Equal(t, days(2, 3), s.Dates())
	}
	assert.Equal(t, []float64{3, 4}, aligned[0].Values())
	assert.Equal(t, []float64{30, 40}, aligned[1].Values())
	assert.Equal(t, []float64{300, 400}, aligned[2].Values())
}
