package backtest

import (
	"fmt"

	"golang-statarb/internal/pairs"
	"golang-statarb/internal/series"
)

// WalkForwardConfig drives the rolling out-of-sample harness.
type WalkForwardConfig struct {
	TrainDays     int
	TestDays      int
	RollingWindow int
	Significance  float64
	ADFLag        int
	Params        Params
}

func (c WalkForwardConfig) validate() error {
	if c.TrainDays <= 0 {
		return fmt.Errorf("train window must be positive, got %d", c.TrainDays)
	}
	if c.TestDays <= 0 {
		return fmt.Errorf("test window must be positive, got %d", c.TestDays)
	}
	if c.RollingWindow < 2 {
		return fmt.Errorf("rolling window must be at least 2, got %d", c.RollingWindow)
	}
	return c.Params.validate()
}

// SegmentResult records the parameters fitted on one train window and
// applied to the following test window.
type SegmentResult struct {
	Label      string  `json:"label"`
	Alpha      float64 `json:"alpha"`
	Beta       float64 `json:"beta"`
	PValue     float64 `json:"adf_pvalue"`
	Stationary bool    `json:"stationary"`
	TestDays   int     `json:"test_days"`
}

// WalkForward partitions the pair's common date index into consecutive
// (train, test) segments, sliding forward by TestDays each iteration and
// discarding a trailing partial test window. Each segment fits the
// cointegration parameters on its train slice only and applies them
// out-of-sample: the test-slice residuals come from the frozen alpha/beta,
// and the z-score is computed from test data alone with the configured
// rolling window. Segment ledgers are concatenated chronologically and the
// equity column is recomputed as a running sum across the whole ledger.
func WalkForward(pxA, pxB *series.Series, cfg WalkForwardConfig) (*Ledger, []SegmentResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	a, b, err := series.Align(pxA, pxB)
	if err != nil {
		return nil, nil, err
	}
	n := a.Len()
	if n < cfg.TrainDays+cfg.TestDays {
		return nil, nil, fmt.Errorf("%w: %d observations cannot fill one train+test segment of %d",
			series.ErrInsufficientData, n, cfg.TrainDays+cfg.TestDays)
	}

	logA, err := a.Log()
	if err != nil {
		return nil, nil, err
	}
	logB, err := b.Log()
	if err != nil {
		return nil, nil, err
	}

	var (
		out      Ledger
		segments []SegmentResult
	)
	for start := 0; start+cfg.TrainDays+cfg.TestDays <= n; start += cfg.TestDays {
		trainEnd := start + cfg.TrainDays
		testEnd := trainEnd + cfg.TestDays

		trainA, err := logA.Slice(start, trainEnd)
		if err != nil {
			return nil, nil, err
		}
		trainB, err := logB.Slice(start, trainEnd)
		if err != nil {
			return nil, nil, err
		}
		eg, err := pairs.FitEngleGranger(trainA, trainB, pairs.FitOptions{
			Significance: cfg.Significance,
			ADFLag:       cfg.ADFLag,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("segment starting %s: %w", a.Date(start).Format("2006-01-02"), err)
		}

		testLogA, err := logA.Slice(trainEnd, testEnd)
		if err != nil {
			return nil, nil, err
		}
		testLogB, err := logB.Slice(trainEnd, testEnd)
		if err != nil {
			return nil, nil, err
		}
		resid, err := pairs.ApplyHedge(testLogA, testLogB, eg.Alpha, eg.Beta)
		if err != nil {
			return nil, nil, err
		}
		z, err := series.RollingZScore(resid, cfg.RollingWindow)
		if err != nil {
			return nil, nil, err
		}

		testA, err := a.Slice(trainEnd, testEnd)
		if err != nil {
			return nil, nil, err
		}
		testB, err := b.Slice(trainEnd, testEnd)
		if err != nil {
			return nil, nil, err
		}
		ledger, err := Run(testA, testB, eg.Beta, z, cfg.Params)
		if err != nil {
			return nil, nil, err
		}

		label := fmt.Sprintf("%s_%s",
			a.Date(start).Format("2006-01-02"),
			a.Date(testEnd-1).Format("2006-01-02"))
		for i := range ledger.Rows {
			ledger.Rows[i].Segment = label
		}
		out.Rows = append(out.Rows, ledger.Rows...)
		segments = append(segments, SegmentResult{
			Label:      label,
			Alpha:      eg.Alpha,
			Beta:       eg.Beta,
			PValue:     eg.PValue,
			Stationary: eg.Stationary,
			TestDays:   testEnd - trainEnd,
		})
	}

	// Per-segment equity restarts at zero; rebuild the running sum over the
	// concatenated ledger.
	equity := 0.0
	for i := range out.Rows {
		equity += out.Rows[i].NetPnL
		out.Rows[i].Equity = equity
	}
	return &out, segments, nil
}
