package pairs

import (
	"fmt"
	"math"

	"golang-statarb/internal/series"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultMinSamples is the minimum overlapping sample size for a
	// meaningful cointegration fit.
	DefaultMinSamples = 30

	// DefaultADFLag is the fixed lag order for the residual unit-root test.
	DefaultADFLag = 1

	// ADFLagZero selects the lag-0 Dickey-Fuller regression. The FitOptions
	// zero value means "use the default lag", so lag 0 needs an explicit
	// sentinel.
	ADFLagZero = -1

	// DefaultSignificance is the ADF significance level below which the
	// residual is called stationary.
	DefaultSignificance = 0.05

	// residualVarGuard catches the degenerate perfectly-cointegrated case
	// (e.g. a series regressed on itself), where the ADF regression would be
	// singular. Such residuals are reported stationary with p = 0.
	residualVarGuard = 1e-12
)

// FitOptions tunes the Engle-Granger estimation. Zero values fall back to
// the package defaults; pass ADFLagZero for the lag-0 regression.
type FitOptions struct {
	Significance float64
	ADFLag       int
	MinSamples   int
}

func (o FitOptions) withDefaults() (FitOptions, error) {
	if o.Significance == 0 {
		o.Significance = DefaultSignificance
	}
	if o.Significance < 0 || o.Significance >= 1 {
		return o, fmt.Errorf("significance level must be in (0, 1), got %g", o.Significance)
	}
	if o.MinSamples == 0 {
		o.MinSamples = DefaultMinSamples
	}
	if o.MinSamples < 10 {
		return o, fmt.Errorf("minimum sample size must be at least 10, got %d", o.MinSamples)
	}
	switch {
	case o.ADFLag == ADFLagZero:
		o.ADFLag = 0
	case o.ADFLag < 0:
		return o, fmt.Errorf("invalid adf lag %d", o.ADFLag)
	case o.ADFLag == 0:
		o.ADFLag = DefaultADFLag
	}
	return o, nil
}

// Result holds the two-step Engle-Granger estimate for a pair:
// logPA = Alpha + Beta*logPB + residual.
type Result struct {
	Alpha      float64
	Beta       float64
	Residual   *series.Series
	ADFStat    float64
	PValue     float64
	ADFLag     int
	Stationary bool
}

// FitEngleGranger regresses logPA on a constant and logPB with exact OLS,
// then runs the ADF test on the residual. Stationary is a policy verdict,
// not an error: it is computed and reported even when false, and the caller
// decides whether to skip the pair.
func FitEngleGranger(logPA, logPB *series.Series, opts FitOptions) (*Result, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	a, b, err := series.Align(logPA, logPB)
	if err != nil {
		return nil, err
	}
	if a.Len() < opts.MinSamples {
		return nil, fmt.Errorf("%w: %d overlapping observations, need %d", series.ErrInsufficientData, a.Len(), opts.MinSamples)
	}

	xs, ys := b.Values(), a.Values()
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("%w: OLS undefined for constant regressor", series.ErrDegenerateSignal)
	}

	resid := make([]float64, a.Len())
	for i := range resid {
		resid[i] = ys[i] - alpha - beta*xs[i]
	}
	residual, err := series.New(a.Dates(), resid)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Alpha:    alpha,
		Beta:     beta,
		Residual: residual,
		ADFLag:   opts.ADFLag,
	}

	if stat.Variance(resid, nil) < residualVarGuard {
		res.ADFStat = math.Inf(-1)
		res.PValue = 0
		res.Stationary = true
		return res, nil
	}

	tau, pvalue, err := adfTest(resid, opts.ADFLag)
	if err != nil {
		return nil, err
	}
	res.ADFStat = tau
	res.PValue = pvalue
	res.Stationary = pvalue < opts.Significance
	return res, nil
}

// ApplyHedge computes out-of-sample residuals from previously fitted
// parameters: logPA - alpha - beta*logPB over the common dates. Used by the
// walk-forward harness, which must never re-fit on test data.
func ApplyHedge(logPA, logPB *series.Series, alpha, beta float64) (*series.Series, error) {
	a, b, err := series.Align(logPA, logPB)
	if err != nil {
		return nil, err
	}
	out := make([]float64, a.Len())
	for i := 0; i < a.Len(); i++ {
		out[i] = a.Value(i) - alpha - beta*b.Value(i)
	}
	return series.New(a.Dates(), out)
}
