package pairs

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang-statarb/internal/series"

	"gonum.org/v1/gonum/stat"
)

// Candidate is a screened pair with its return correlation.
type Candidate struct {
	A   string
	B   string
	Rho float64
}

// Screen computes the Pearson correlation of returns for every unordered
// pair in the universe and keeps pairs with |rho| >= minCorr, ordered by
// descending |rho|. Ties keep the original enumeration order (stable sort).
// Pairs with non-finite correlation (constant series) are excluded, as are
// pairs without enough overlapping dates.
func Screen(returns map[string]*series.Series, universe []string, minCorr float64) ([]Candidate, error) {
	if minCorr <= 0 || minCorr > 1 {
		return nil, fmt.Errorf("min correlation must be in (0, 1], got %g", minCorr)
	}
	var out []Candidate
	for i := 0; i < len(universe); i++ {
		for j := i + 1; j < len(universe); j++ {
			a, b := universe[i], universe[j]
			ra, ok := returns[a]
			if !ok {
				continue
			}
			rb, ok := returns[b]
			if !ok {
				continue
			}
			rho, err := correlation(ra, rb)
			if err != nil {
				// A degenerate or too-short pair is skipped, not fatal.
				if errors.Is(err, series.ErrInsufficientData) || errors.Is(err, series.ErrDegenerateSignal) {
					continue
				}
				return nil, err
			}
			if math.Abs(rho) >= minCorr {
				out = append(out, Candidate{A: a, B: b, Rho: rho})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Rho) > math.Abs(out[j].Rho)
	})
	return out, nil
}

func correlation(a, b *series.Series) (float64, error) {
	alignedA, alignedB, err := series.Align(a, b)
	if err != nil {
		return 0, err
	}
	if alignedA.Len() < 2 {
		return 0, fmt.Errorf("%w: need at least 2 overlapping returns", series.ErrInsufficientData)
	}
	rho := stat.Correlation(alignedA.Values(), alignedB.Values(), nil)
	if math.IsNaN(rho) || math.IsInf(rho, 0) {
		return 0, fmt.Errorf("%w: correlation undefined for constant series", series.ErrDegenerateSignal)
	}
	return rho, nil
}
