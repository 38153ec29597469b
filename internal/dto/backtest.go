package dto

import "golang-statarb/internal/backtest"

// BacktestRequest simulates a single pair over the full sample.
type BacktestRequest struct {
	TickerA string `json:"ticker_a" validate:"required"`
	TickerB string `json:"ticker_b" validate:"required"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// BacktestResponse carries the fitted parameters, the Johansen trace-test
// rank as a cross-check on the Engle-Granger verdict, and the daily ledger.
type BacktestResponse struct {
	TickerA      string           `json:"ticker_a"`
	TickerB      string           `json:"ticker_b"`
	Alpha        float64          `json:"alpha"`
	Beta         float64          `json:"beta"`
	ADFPValue    float64          `json:"adf_pvalue"`
	Stationary   bool             `json:"stationary"`
	JohansenRank *int             `json:"johansen_rank,omitempty"`
	Summary      backtest.Summary `json:"summary"`
	Days         int              `json:"days"`
	Ledger       []backtest.Row   `json:"ledger,omitempty"`
}

// WalkForwardRequest validates a pair out-of-sample on rolling segments.
// Zero window sizes fall back to the configured defaults.
type WalkForwardRequest struct {
	TickerA   string `json:"ticker_a" validate:"required"`
	TickerB   string `json:"ticker_b" validate:"required"`
	Start     string `json:"start"`
	End       string `json:"end"`
	TrainDays int    `json:"train_days" validate:"omitempty,min=1"`
	TestDays  int    `json:"test_days" validate:"omitempty,min=1"`
}

type WalkForwardResponse struct {
	TickerA  string                   `json:"ticker_a"`
	TickerB  string                   `json:"ticker_b"`
	Segments []backtest.SegmentResult `json:"segments"`
	Summary  backtest.Summary         `json:"summary"`
	Days     int                      `json:"days"`
	Ledger   []backtest.Row           `json:"ledger,omitempty"`
}
