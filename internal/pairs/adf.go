package pairs

import (
	"fmt"
	"math"

	"golang-statarb/internal/series"

	"gonum.org/v1/gonum/mat"
)

// adfTest runs an Augmented Dickey-Fuller unit-root test with a constant-only
// deterministic term and a fixed number of lagged differences:
//
//	dx_t = c + gamma*x_{t-1} + sum_i phi_i*dx_{t-i} + e_t
//
// It returns the t-statistic of gamma and its MacKinnon approximate p-value.
// The lag order is fixed (not data-driven), so the test is deterministic for
// a given input.
func adfTest(x []float64, lag int) (tau, pvalue float64, err error) {
	if lag < 0 {
		return 0, 0, fmt.Errorf("adf lag must be >= 0, got %d", lag)
	}
	n := len(x)
	rows := n - 1 - lag
	cols := 2 + lag
	if rows <= cols {
		return 0, 0, fmt.Errorf("%w: %d observations leave %d rows for %d ADF regressors", series.ErrInsufficientData, n, rows, cols)
	}

	dx := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx[i] = x[i+1] - x[i]
	}

	design := mat.NewDense(rows, cols, nil)
	y := make([]float64, rows)
	for r := 0; r < rows; r++ {
		t := r + lag // index into dx
		y[r] = dx[t]
		design.Set(r, 0, 1)
		design.Set(r, 1, x[t]) // level lagged one period
		for i := 1; i <= lag; i++ {
			design.Set(r, 1+i, dx[t-i])
		}
	}

	coef, stderr, err := olsFit(design, y)
	if err != nil {
		return 0, 0, err
	}
	if stderr[1] == 0 {
		return 0, 0, fmt.Errorf("%w: zero standard error in ADF regression", series.ErrDegenerateSignal)
	}
	tau = coef[1] / stderr[1]
	return tau, mackinnonP(tau), nil
}

// MacKinnon (1994) regression-surface coefficients for the approximate
// asymptotic p-value of the ADF tau statistic, constant-only case, one
// series. Outside [tauMin, tauMax] the p-value saturates at 0 or 1.
const (
	tauMaxC  = 2.74
	tauMinC  = -18.83
	tauStarC = -1.61
)

var (
	tauCSmallP = []float64{2.1659, 1.4412, 0.038269}
	tauCLargeP = []float64{1.7339, 0.93202, -0.12745, -0.010368}
)

func mackinnonP(tau float64) float64 {
	switch {
	case tau > tauMaxC:
		return 1.0
	case tau < tauMinC:
		return 0.0
	}
	coeffs := tauCLargeP
	if tau <= tauStarC {
		coeffs = tauCSmallP
	}
	return normCDF(polyval(coeffs, tau))
}

// polyval evaluates a polynomial with coefficients ordered lowest first.
func polyval(coeffs []float64, x float64) float64 {
	sum := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		sum = sum*x + coeffs[i]
	}
	return sum
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
