package series

import (
	"fmt"
	"time"
)

// Value is an optional float64. Valid is false where a signal is undefined,
// e.g. before a rolling window has filled or where a window has zero
// variance. Undefined is "no signal", never a numeric error.
type Value struct {
	Float64 float64
	Valid   bool
}

func Defined(v float64) Value { return Value{Float64: v, Valid: true} }

var Undefined = Value{}

// Optional is a date-indexed sequence of optional values, sharing the index
// shape of the Series it was derived from.
type Optional struct {
	dates  []time.Time
	values []Value
}

func NewOptional(dates []time.Time, values []Value) (*Optional, error) {
	if len(dates) != len(values) {
		return nil, fmt.Errorf("dates and values length mismatch: %d vs %d", len(dates), len(values))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			return nil, fmt.Errorf("date index not strictly increasing at position %d", i)
		}
	}
	o := &Optional{
		dates:  make([]time.Time, len(dates)),
		values: make([]Value, len(values)),
	}
	copy(o.dates, dates)
	copy(o.values, values)
	return o, nil
}

func (o *Optional) Len() int             { return len(o.values) }
func (o *Optional) Date(i int) time.Time { return o.dates[i] }
func (o *Optional) At(i int) Value       { return o.values[i] }

// DefinedCount reports how many entries carry a value.
func (o *Optional) DefinedCount() int {
	n := 0
	for _, v := range o.values {
		if v.Valid {
			n++
		}
	}
	return n
}
