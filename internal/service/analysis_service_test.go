package service

import (
	"context"
	"math"
	"testing"
	"time"

	"golang-statarb/config"
	"golang-statarb/internal/dto"
	"golang-statarb/internal/repository"
	"golang-statarb/internal/series"
	"golang-statarb/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPriceRepo struct {
	prices map[string]*series.Series
}

func (s *stubPriceRepo) GetDailyPrices(_ context.Context, param dto.GetPricesParam) (map[string]*series.Series, error) {
	out := make(map[string]*series.Series, len(param.Tickers))
	for _, t := range param.Tickers {
		if px, ok := s.prices[t]; ok {
			out[t] = px
		}
	}
	return out, nil
}

func testUniverse(t *testing.T, n int) map[string]*series.Series {
	t.Helper()
	dates := make([]time.Time, n)
	pa := make([]float64, n)
	pb := make([]float64, n)
	pc := make([]float64, n)
	for i := 0; i < n; i++ {
		fi := float64(i)
		dates[i] = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		logB := 4 + 0.001*fi + 0.05*math.Sin(fi/3)
		spread := 0.01*math.Pow(-1, fi) + 0.002*math.Sin(fi*1.7)
		pb[i] = math.Exp(logB)
		pa[i] = math.Exp(0.3 + 1.2*logB + spread)
		pc[i] = 50 + 0.1*fi + 3*math.Sin(fi*0.9+1) // unrelated drifting series
	}
	mk := func(vals []float64) *series.Series {
		s, err := series.New(dates, vals)
		require.NoError(t, err)
		return s
	}
	return map[string]*series.Series{"AAA": mk(pa), "BBB": mk(pb), "CCC": mk(pc)}
}

func pipelineConfig() *config.Config {
	return &config.Config{
		Universe: config.Universe{
			Tickers: []string{"AAA", "BBB", "CCC"},
			Start:   "2023-01-01",
			End:     "2023-12-31",
		},
		Screening: config.Screening{
			MinCorrelation: 0.3,
			TopN:           10,
			MaxConcurrency: 2,
		},
		Cointegration: config.Cointegration{SignificanceLevel: 0.05, ADFLag: 1, MinSamples: 30},
		Signal:        config.Signal{RollingWindow: 20, ZEntry: 2.0, ZExit: 0.5, ZStop: 4.0},
		Backtest:      config.Backtest{InitialCapital: 1000000, PerTradeNotional: 100000, DollarNeutral: true},
		Risk:          config.Risk{TimeStopDays: 60},
	}
}

func newTestAnalysisService(t *testing.T, prices map[string]*series.Series) AnalysisService {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	repo := &repository.Repository{PriceRepo: &stubPriceRepo{prices: prices}}
	return NewAnalysisService(pipelineConfig(), log, repo)
}

func TestAnalyze_RanksCointegratedPairFirst(t *testing.T) {
	svc := newTestAnalysisService(t, testUniverse(t, 250))

	resp, err := svc.Analyze(context.Background(), dto.AnalyzeRequest{})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Results)
	assert.NotEmpty(t, resp.BestPair)
	assert.Greater(t, resp.Candidates, 0)

	// The constructed AAA-BBB pair is cointegrated and must survive the
	// stationarity gate.
	var found *dto.PairResult
	for i := range resp.Results {
		r := &resp.Results[i]
		if r.TickerA == "AAA" && r.TickerB == "BBB" {
			found = r
			break
		}
	}
	require.NotNil(t, found, "AAA-BBB missing from ranked results")
	assert.True(t, found.Stationary)
	assert.Less(t, found.ADFPValue, 0.05)
	assert.InDelta(t, 1.2, found.Beta, 0.1)
	require.NotNil(t, found.Summary)

	// Ranked results are sorted by Sharpe descending.
	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].Summary.Sharpe, resp.Results[i].Summary.Sharpe)
	}

	// Skipped pairs carry a reason and no summary.
	for _, r := range resp.Skipped {
		assert.NotEmpty(t, r.SkipReason)
		assert.Nil(t, r.Summary)
	}
}

func TestAnalyze_ExplicitTickersOverrideUniverse(t *testing.T) {
	svc := newTestAnalysisService(t, testUniverse(t, 250))

	resp, err := svc.Analyze(context.Background(), dto.AnalyzeRequest{Tickers: []string{"AAA", "BBB"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "AAA-BBB", resp.BestPair)
}

func TestAnalyze_TooFewTickers(t *testing.T) {
	svc := newTestAnalysisService(t, testUniverse(t, 250))

	_, err := svc.Analyze(context.Background(), dto.AnalyzeRequest{Tickers: []string{"AAA"}})
	assert.Error(t, err)
}

func TestAnalyze_InvalidDateRange(t *testing.T) {
	svc := newTestAnalysisService(t, testUniverse(t, 250))

	_, err := svc.Analyze(context.Background(), dto.AnalyzeRequest{Start: "2024-06-01", End: "2024-01-01"})
	assert.Error(t, err)
}

func TestLatest_NoDatabase(t *testing.T) {
	svc := newTestAnalysisService(t, testUniverse(t, 250))

	_, err := svc.Latest(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}
