package series

import (
	"fmt"
	"sort"
	"time"
)

// Clean aligns a ticker table on the union of all date indexes, forward-fills
// gaps of up to maxFill consecutive dates, and drops dates that still miss a
// value for any ticker. This mirrors the loader contract: sorted ascending,
// limited forward-fill, remaining-NA rows dropped.
func Clean(table map[string]*Series, maxFill int) (map[string]*Series, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: empty price table", ErrInsufficientData)
	}
	if maxFill < 0 {
		return nil, fmt.Errorf("max forward fill must be >= 0, got %d", maxFill)
	}

	seen := make(map[time.Time]struct{})
	var union []time.Time
	for _, s := range table {
		for _, d := range s.dates {
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				union = append(union, d)
			}
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i].Before(union[j]) })

	// Per-ticker forward-filled values on the union index; ok marks holes
	// that exceeded the fill limit or precede the first observation.
	filled := make(map[string][]float64, len(table))
	okRows := make([]bool, len(union))
	for i := range okRows {
		okRows[i] = true
	}
	for ticker, s := range table {
		byDate := make(map[time.Time]float64, s.Len())
		for i, d := range s.dates {
			byDate[d] = s.values[i]
		}
		vals := make([]float64, len(union))
		var last float64
		haveLast := false
		gap := 0
		for i, d := range union {
			if v, ok := byDate[d]; ok {
				vals[i] = v
				last, haveLast, gap = v, true, 0
				continue
			}
			gap++
			if haveLast && gap <= maxFill {
				vals[i] = last
			} else {
				okRows[i] = false
			}
		}
		filled[ticker] = vals
	}

	var keptDates []time.Time
	var keptIdx []int
	for i, ok := range okRows {
		if ok {
			keptDates = append(keptDates, union[i])
			keptIdx = append(keptIdx, i)
		}
	}
	if len(keptDates) == 0 {
		return nil, fmt.Errorf("%w: no complete rows after alignment", ErrInsufficientData)
	}

	out := make(map[string]*Series, len(table))
	for ticker, vals := range filled {
		kept := make([]float64, len(keptIdx))
		for i, idx := range keptIdx {
			kept[i] = vals[idx]
		}
		s, err := New(keptDates, kept)
		if err != nil {
			return nil, err
		}
		out[ticker] = s
	}
	return out, nil
}
