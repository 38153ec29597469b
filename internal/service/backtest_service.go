package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-statarb/config"
	"golang-statarb/internal/backtest"
	"golang-statarb/internal/dto"
	"golang-statarb/internal/model"
	"golang-statarb/internal/pairs"
	"golang-statarb/internal/repository"
	"golang-statarb/internal/series"
	"golang-statarb/pkg/logger"
	"golang-statarb/pkg/utils"
)

// BacktestService simulates an explicitly requested pair, either over the
// full sample or through the rolling walk-forward harness.
type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResponse, error)
	RunWalkForward(ctx context.Context, req dto.WalkForwardRequest) (*dto.WalkForwardResponse, error)
	Latest(ctx context.Context, limit int) ([]model.BacktestRun, error)
}

type backtestService struct {
	cfg  *config.Config
	log  *logger.Logger
	repo *repository.Repository
}

func NewBacktestService(cfg *config.Config, log *logger.Logger, repo *repository.Repository) BacktestService {
	return &backtestService{cfg: cfg, log: log, repo: repo}
}

func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResponse, error) {
	pxA, pxB, start, end, err := s.loadPair(ctx, req.TickerA, req.TickerB, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	logA, err := pxA.Log()
	if err != nil {
		return nil, err
	}
	logB, err := pxB.Log()
	if err != nil {
		return nil, err
	}
	eg, err := pairs.FitEngleGranger(logA, logB, pairs.FitOptions{
		Significance: s.cfg.Cointegration.SignificanceLevel,
		ADFLag:       s.cfg.Cointegration.ADFLag,
		MinSamples:   s.cfg.Cointegration.MinSamples,
	})
	if err != nil {
		return nil, err
	}
	if !eg.Stationary {
		s.log.WarnContext(ctx, "Residual not stationary, backtest results are suspect",
			logger.StringField("pair", req.TickerA+"-"+req.TickerB),
			logger.FloatField("adf_pvalue", eg.PValue))
	}

	z, err := series.RollingZScore(eg.Residual, s.cfg.Signal.RollingWindow)
	if err != nil {
		return nil, err
	}
	params := s.engineParams()
	ledger, err := backtest.Run(pxA, pxB, eg.Beta, z, params)
	if err != nil {
		return nil, err
	}
	summary, err := backtest.Summarize(ledger.NetPnL(), s.cfg.Backtest.InitialCapital)
	if err != nil {
		return nil, err
	}

	s.persistRun(ctx, model.BacktestKindSingle, req.TickerA, req.TickerB, start, end, len(ledger.Rows), params, summary)

	resp := &dto.BacktestResponse{
		TickerA:    req.TickerA,
		TickerB:    req.TickerB,
		Alpha:      eg.Alpha,
		Beta:       eg.Beta,
		ADFPValue:  eg.PValue,
		Stationary: eg.Stationary,
		Summary:    summary,
		Days:       len(ledger.Rows),
		Ledger:     ledger.Rows,
	}
	// Johansen rank as a second opinion on the pair's cointegration.
	if jr, err := pairs.Johansen([]*series.Series{logA, logB}, 1); err == nil {
		rank := jr.Rank
		resp.JohansenRank = &rank
	}
	return resp, nil
}

func (s *backtestService) RunWalkForward(ctx context.Context, req dto.WalkForwardRequest) (*dto.WalkForwardResponse, error) {
	pxA, pxB, start, end, err := s.loadPair(ctx, req.TickerA, req.TickerB, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	trainDays := req.TrainDays
	if trainDays <= 0 {
		trainDays = s.cfg.WalkForward.TrainDays
	}
	testDays := req.TestDays
	if testDays <= 0 {
		testDays = s.cfg.WalkForward.TestDays
	}
	params := s.engineParams()
	ledger, segments, err := backtest.WalkForward(pxA, pxB, backtest.WalkForwardConfig{
		TrainDays:     trainDays,
		TestDays:      testDays,
		RollingWindow: s.cfg.Signal.RollingWindow,
		Significance:  s.cfg.Cointegration.SignificanceLevel,
		ADFLag:        s.cfg.Cointegration.ADFLag,
		Params:        params,
	})
	if err != nil {
		return nil, err
	}
	summary, err := backtest.Summarize(ledger.NetPnL(), s.cfg.Backtest.InitialCapital)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "Walk-forward complete",
		logger.StringField("pair", req.TickerA+"-"+req.TickerB),
		logger.IntField("segments", len(segments)),
		logger.FloatField("sharpe", summary.Sharpe))

	s.persistRun(ctx, model.BacktestKindWalkForward, req.TickerA, req.TickerB, start, end, len(ledger.Rows), params, summary)

	return &dto.WalkForwardResponse{
		TickerA:  req.TickerA,
		TickerB:  req.TickerB,
		Segments: segments,
		Summary:  summary,
		Days:     len(ledger.Rows),
		Ledger:   ledger.Rows,
	}, nil
}

// Latest returns the most recently persisted backtest runs.
func (s *backtestService) Latest(ctx context.Context, limit int) ([]model.BacktestRun, error) {
	if s.repo.BacktestRunRepo == nil {
		return nil, fmt.Errorf("no database configured")
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.BacktestRunRepo.GetLatest(ctx, limit)
}

func (s *backtestService) loadPair(ctx context.Context, tickerA, tickerB, startStr, endStr string) (*series.Series, *series.Series, time.Time, time.Time, error) {
	var zero time.Time
	if startStr == "" {
		startStr = s.cfg.Universe.Start
	}
	if endStr == "" {
		endStr = s.cfg.Universe.End
	}
	start, end, err := utils.ValidateDateRange(startStr, endStr)
	if err != nil {
		return nil, nil, zero, zero, err
	}
	prices, err := s.repo.PriceRepo.GetDailyPrices(ctx, dto.GetPricesParam{
		Tickers: []string{tickerA, tickerB},
		Start:   start,
		End:     end,
	})
	if err != nil {
		return nil, nil, zero, zero, err
	}
	pxA, ok := prices[tickerA]
	if !ok {
		return nil, nil, zero, zero, fmt.Errorf("no price data for %s", tickerA)
	}
	pxB, ok := prices[tickerB]
	if !ok {
		return nil, nil, zero, zero, fmt.Errorf("no price data for %s", tickerB)
	}
	return pxA, pxB, start, end, nil
}

func (s *backtestService) engineParams() backtest.Params {
	return backtest.Params{
		ZEntry:             s.cfg.Signal.ZEntry,
		ZExit:              s.cfg.Signal.ZExit,
		ZStop:              s.cfg.Signal.ZStop,
		TimeStopDays:       s.cfg.Risk.TimeStopDays,
		PerTradeNotional:   s.cfg.Backtest.PerTradeNotional,
		CommissionPerShare: s.cfg.Costs.CommissionPerShare,
		SpreadBps:          s.cfg.Costs.SpreadBps,
		SlippageBps:        s.cfg.Costs.SlippageBps,
		DollarNeutral:      s.cfg.Backtest.DollarNeutral,
	}
}

func (s *backtestService) persistRun(ctx context.Context, kind, tickerA, tickerB string, start, end time.Time, days int, params backtest.Params, summary backtest.Summary) {
	if s.repo.BacktestRunRepo == nil {
		return
	}
	paramsJSON, _ := json.Marshal(params)
	summaryJSON, _ := json.Marshal(summary)
	run := &model.BacktestRun{
		Kind:      kind,
		TickerA:   tickerA,
		TickerB:   tickerB,
		StartDate: start,
		EndDate:   end,
		Days:      days,
		Params:    paramsJSON,
		Summary:   summaryJSON,
	}
	if err := s.repo.BacktestRunRepo.Create(ctx, run); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist backtest run",
			logger.StringField("pair", tickerA+"-"+tickerB), logger.ErrorField(err))
	}
}
