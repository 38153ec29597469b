package pairs

import (
	"fmt"
	"math"
	"sort"

	"golang-statarb/internal/series"

	"gonum.org/v1/gonum/mat"
)

// johansenTraceCV5 holds 5% critical values for the Johansen trace statistic
// with an unrestricted constant (Osterwald-Lenum 1992, Table 1), indexed by
// the number of remaining non-stationary directions m = p - r.
var johansenTraceCV5 = []float64{0, 3.76, 15.41, 29.68, 47.21, 68.52, 94.15}

// JohansenResult reports the cointegration-rank trace test for a basket.
type JohansenResult struct {
	Eigenvalues []float64
	TraceStats  []float64
	CriticalVal []float64
	Rank        int
}

// Johansen runs the trace test for the cointegration rank of a basket of
// log-price series, with a constant deterministic term and kARDiff lagged
// differences. Baskets of 2 to 6 instruments are supported (the critical
// value table stops there).
func Johansen(logPrices []*series.Series, kARDiff int) (*JohansenResult, error) {
	p := len(logPrices)
	if p < 2 || p > 6 {
		return nil, fmt.Errorf("johansen basket size must be between 2 and 6, got %d", p)
	}
	if kARDiff < 1 {
		return nil, fmt.Errorf("johansen lag order must be >= 1, got %d", kARDiff)
	}

	aligned, err := series.AlignAll(logPrices)
	if err != nil {
		return nil, err
	}
	T := aligned[0].Len()
	k := kARDiff
	n := T - 1 - k
	minRows := (1 + k*p) + p + 1
	if n < minRows {
		return nil, fmt.Errorf("%w: %d observations leave %d rows, need %d", series.ErrInsufficientData, T, n, minRows)
	}

	// Levels y (T x p) and first differences dy ((T-1) x p).
	y := mat.NewDense(T, p, nil)
	for j, s := range aligned {
		for i := 0; i < T; i++ {
			y.Set(i, j, s.Value(i))
		}
	}
	dy := mat.NewDense(T-1, p, nil)
	for i := 0; i < T-1; i++ {
		for j := 0; j < p; j++ {
			dy.Set(i, j, y.At(i+1, j)-y.At(i, j))
		}
	}

	// Z0: current differences; Z1: lagged levels; ZK: constant plus lagged
	// differences. Row t covers dy index t = k .. T-2.
	z0 := mat.NewDense(n, p, nil)
	z1 := mat.NewDense(n, p, nil)
	zk := mat.NewDense(n, 1+k*p, nil)
	for r := 0; r < n; r++ {
		t := r + k
		for j := 0; j < p; j++ {
			z0.Set(r, j, dy.At(t, j))
			z1.Set(r, j, y.At(t, j))
		}
		zk.Set(r, 0, 1)
		for lagIdx := 1; lagIdx <= k; lagIdx++ {
			for j := 0; j < p; j++ {
				zk.Set(r, 1+(lagIdx-1)*p+j, dy.At(t-lagIdx, j))
			}
		}
	}

	r0, err := residualize(z0, zk)
	if err != nil {
		return nil, err
	}
	r1, err := residualize(z1, zk)
	if err != nil {
		return nil, err
	}

	fn := float64(n)
	var s00, s01, s10, s11 mat.Dense
	s00.Mul(r0.T(), r0)
	s00.Scale(1/fn, &s00)
	s01.Mul(r0.T(), r1)
	s01.Scale(1/fn, &s01)
	s10.Mul(r1.T(), r0)
	s10.Scale(1/fn, &s10)
	s11.Mul(r1.T(), r1)
	s11.Scale(1/fn, &s11)

	var s00Inv, s11Inv mat.Dense
	if err := s00Inv.Inverse(&s00); err != nil {
		return nil, fmt.Errorf("S00 not invertible: %w", err)
	}
	if err := s11Inv.Inverse(&s11); err != nil {
		return nil, fmt.Errorf("S11 not invertible: %w", err)
	}

	var m, tmp mat.Dense
	tmp.Mul(&s10, &s00Inv)
	tmp.Mul(&tmp, &s01)
	m.Mul(&s11Inv, &tmp)

	var eig mat.Eigen
	if ok := eig.Factorize(&m, mat.EigenNone); !ok {
		return nil, fmt.Errorf("eigen decomposition failed for johansen matrix")
	}
	raw := eig.Values(nil)
	lambdas := make([]float64, p)
	for i, v := range raw {
		l := real(v)
		// Numerical noise can push eigenvalues slightly outside [0, 1).
		if l < 0 {
			l = 0
		}
		if l > 1-1e-12 {
			l = 1 - 1e-12
		}
		lambdas[i] = l
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(lambdas)))

	res := &JohansenResult{
		Eigenvalues: lambdas,
		TraceStats:  make([]float64, p),
		CriticalVal: make([]float64, p),
	}
	for r := 0; r < p; r++ {
		sum := 0.0
		for i := r; i < p; i++ {
			sum += math.Log(1 - lambdas[i])
		}
		res.TraceStats[r] = -fn * sum
		res.CriticalVal[r] = johansenTraceCV5[p-r]
		if res.TraceStats[r] > res.CriticalVal[r] {
			res.Rank++
		}
	}
	return res, nil
}

// residualize returns the residuals of regressing each column of y on x.
func residualize(y, x *mat.Dense) (*mat.Dense, error) {
	var qr mat.QR
	qr.Factorize(x)
	var b mat.Dense
	if err := qr.SolveTo(&b, false, y); err != nil {
		return nil, fmt.Errorf("singular auxiliary regression: %w", err)
	}
	var fitted mat.Dense
	fitted.Mul(x, &b)
	var resid mat.Dense
	resid.Sub(y, &fitted)
	return &resid, nil
}
