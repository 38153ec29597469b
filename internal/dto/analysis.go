package dto

import "golang-statarb/internal/backtest"

// AnalyzeRequest runs the full screen -> cointegration -> backtest pipeline
// over a universe. Empty fields fall back to the configured defaults.
type AnalyzeRequest struct {
	Tickers []string `json:"tickers" validate:"omitempty,min=2"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	TopN    int      `json:"top_n" validate:"omitempty,min=1"`
}

// PairResult is one screened candidate's outcome. Skipped pairs keep their
// screening stats and carry the reason they were excluded from the ranking.
// WeightA/WeightB are the latest vol-target sizing weights per leg, present
// only when a target vol is configured.
type PairResult struct {
	TickerA      string            `json:"ticker_a"`
	TickerB      string            `json:"ticker_b"`
	Rho          float64           `json:"rho"`
	Alpha        float64           `json:"alpha,omitempty"`
	Beta         float64           `json:"beta,omitempty"`
	ADFPValue    float64           `json:"adf_pvalue,omitempty"`
	Stationary   bool              `json:"stationary"`
	HalfLifeDays *float64          `json:"half_life_days,omitempty"`
	WeightA      float64           `json:"weight_a,omitempty"`
	WeightB      float64           `json:"weight_b,omitempty"`
	Summary      *backtest.Summary `json:"summary,omitempty"`
	SkipReason   string            `json:"skip_reason,omitempty"`
}

type AnalyzeResponse struct {
	Start      string       `json:"start"`
	End        string       `json:"end"`
	Candidates int          `json:"candidates"`
	Results    []PairResult `json:"results"`
	Skipped    []PairResult `json:"skipped,omitempty"`
	BestPair   string       `json:"best_pair,omitempty"`
}
