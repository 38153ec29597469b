package series

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInsufficientData signals too few overlapping observations for a
	// computation. Callers decide whether to skip the candidate or abort.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateSignal signals a zero-variance input that makes a
	// correlation or z-score undefined. Recoverable: the pair is skipped.
	ErrDegenerateSignal = errors.New("degenerate signal")
)

// Series is a date-indexed sequence of float64 values. The date index is
// strictly increasing with no duplicates.
type Series struct {
	dates  []time.Time
	values []float64
}

// New builds a Series after validating the index invariants.
func New(dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, fmt.Errorf("dates and values length mismatch: %d vs %d", len(dates), len(values))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			return nil, fmt.Errorf("date index not strictly increasing at position %d (%s)", i, dates[i].Format("2006-01-02"))
		}
	}
	s := &Series{
		dates:  make([]time.Time, len(dates)),
		values: make([]float64, len(values)),
	}
	copy(s.dates, dates)
	copy(s.values, values)
	return s, nil
}

func (s *Series) Len() int             { return len(s.values) }
func (s *Series) Date(i int) time.Time { return s.dates[i] }
func (s *Series) Value(i int) float64  { return s.values[i] }

// Dates returns a copy of the date index.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Values returns a copy of the value slice.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Slice returns the sub-series covering positions [i, j).
func (s *Series) Slice(i, j int) (*Series, error) {
	if i < 0 || j > len(s.values) || i > j {
		return nil, fmt.Errorf("invalid slice bounds [%d, %d) for series of length %d", i, j, len(s.values))
	}
	return New(s.dates[i:j], s.values[i:j])
}

// Between returns the sub-series with start <= date <= end.
func (s *Series) Between(start, end time.Time) (*Series, error) {
	lo := 0
	for lo < len(s.dates) && s.dates[lo].Before(start) {
		lo++
	}
	hi := lo
	for hi < len(s.dates) && !s.dates[hi].After(end) {
		hi++
	}
	return s.Slice(lo, hi)
}

// Log returns the elementwise natural log. All values must be positive.
func (s *Series) Log() (*Series, error) {
	out := make([]float64, len(s.values))
	for i, v := range s.values {
		if v <= 0 {
			return nil, fmt.Errorf("non-positive value %g at %s: cannot take log", v, s.dates[i].Format("2006-01-02"))
		}
		out[i] = math.Log(v)
	}
	return New(s.dates, out)
}

// Align intersects two series on their common dates, preserving order.
// Both inputs keep a strictly increasing index, so a single merge walk
// suffices.
func Align(a, b *Series) (*Series, *Series, error) {
	var (
		dates []time.Time
		avals []float64
		bvals []float64
		i, j  int
	)
	for i < a.Len() && j < b.Len() {
		da, db := a.dates[i], b.dates[j]
		switch {
		case da.Before(db):
			i++
		case db.Before(da):
			j++
		default:
			dates = append(dates, da)
			avals = append(avals, a.values[i])
			bvals = append(bvals, b.values[j])
			i++
			j++
		}
	}
	if len(dates) == 0 {
		return nil, nil, fmt.Errorf("%w: no overlapping dates", ErrInsufficientData)
	}
	alignedA, err := New(dates, avals)
	if err != nil {
		return nil, nil, err
	}
	alignedB, err := New(dates, bvals)
	if err != nil {
		return nil, nil, err
	}
	return alignedA, alignedB, nil
}

// AlignAll intersects any number of series on their common dates.
func AlignAll(list []*Series) ([]*Series, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no series to align", ErrInsufficientData)
	}
	common := list[0]
	for _, s := range list[1:] {
		var err error
		common, _, err = Align(common, s)
		if err != nil {
			return nil, err
		}
	}
	dates := common.Dates()
	out := make([]*Series, len(list))
	for i, s := range list {
		byDate := make(map[time.Time]float64, s.Len())
		for j, d := range s.dates {
			byDate[d] = s.values[j]
		}
		vals := make([]float64, len(dates))
		for j, d := range dates {
			vals[j] = byDate[d]
		}
		aligned, err := New(dates, vals)
		if err != nil {
			return nil, err
		}
		out[i] = aligned
	}
	return out, nil
}
