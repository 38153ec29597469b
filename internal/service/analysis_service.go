package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
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

	"golang.org/x/sync/errgroup"
)

// AnalysisService runs the full research pipeline: correlation screen,
// Engle-Granger estimation per candidate, z-score backtest, and a ranked
// results table.
type AnalysisService interface {
	Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	Latest(ctx context.Context, limit int) ([]model.PairAnalysis, error)
}

type analysisService struct {
	cfg  *config.Config
	log  *logger.Logger
	repo *repository.Repository
}

func NewAnalysisService(cfg *config.Config, log *logger.Logger, repo *repository.Repository) AnalysisService {
	return &analysisService{cfg: cfg, log: log, repo: repo}
}

func (s *analysisService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	tickers := req.Tickers
	if len(tickers) == 0 {
		tickers = s.cfg.Universe.Tickers
	}
	if len(tickers) < 2 {
		return nil, fmt.Errorf("need at least 2 tickers, got %d", len(tickers))
	}
	startStr, endStr := req.Start, req.End
	if startStr == "" {
		startStr = s.cfg.Universe.Start
	}
	if endStr == "" {
		endStr = s.cfg.Universe.End
	}
	start, end, err := utils.ValidateDateRange(startStr, endStr)
	if err != nil {
		return nil, err
	}
	topN := req.TopN
	if topN <= 0 {
		topN = s.cfg.Screening.TopN
	}
	if topN <= 0 {
		topN = 10
	}

	prices, err := s.repo.PriceRepo.GetDailyPrices(ctx, dto.GetPricesParam{Tickers: tickers, Start: start, End: end})
	if err != nil {
		return nil, err
	}

	// Universe order drives candidate enumeration order; keep the request
	// order, dropping tickers that failed to load.
	universe := make([]string, 0, len(prices))
	for _, t := range tickers {
		if _, ok := prices[t]; ok {
			universe = append(universe, t)
		}
	}

	returns := make(map[string]*series.Series, len(prices))
	for _, t := range universe {
		ret, err := series.LogReturns(prices[t])
		if err != nil {
			s.log.WarnContext(ctx, "Skipping ticker without computable returns",
				logger.StringField("ticker", t), logger.ErrorField(err))
			continue
		}
		if lb := s.cfg.Screening.LookbackDays; lb > 0 && ret.Len() > lb {
			ret, err = ret.Slice(ret.Len()-lb, ret.Len())
			if err != nil {
				return nil, err
			}
		}
		returns[t] = ret
	}

	candidates, err := pairs.Screen(returns, universe, s.cfg.Screening.MinCorrelation)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no pairs passed the correlation screen at min_correlation=%g", s.cfg.Screening.MinCorrelation)
	}
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	s.log.InfoContext(ctx, "Screened pair candidates",
		logger.IntField("candidates", len(candidates)),
		logger.FloatField("min_correlation", s.cfg.Screening.MinCorrelation))

	// Candidate evaluations are independent: each goroutine writes only its
	// own result slot.
	results := make([]dto.PairResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	maxConcurrency := s.cfg.Screening.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	g.SetLimit(maxConcurrency)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			results[i] = s.evaluatePair(gctx, prices, cand)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ranked, skipped []dto.PairResult
	for _, r := range results {
		if r.SkipReason != "" {
			s.log.InfoContext(ctx, "Skipped pair",
				logger.StringField("pair", r.TickerA+"-"+r.TickerB),
				logger.StringField("reason", r.SkipReason))
			skipped = append(skipped, r)
			continue
		}
		ranked = append(ranked, r)
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("no candidate produced a valid backtest (%d screened, %d skipped)", len(candidates), len(skipped))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Summary.Sharpe > ranked[j].Summary.Sharpe
	})

	s.persistResults(ctx, ranked, start, end)

	return &dto.AnalyzeResponse{
		Start:      startStr,
		End:        endStr,
		Candidates: len(candidates),
		Results:    ranked,
		Skipped:    skipped,
		BestPair:   ranked[0].TickerA + "-" + ranked[0].TickerB,
	}, nil
}

func (s *analysisService) evaluatePair(ctx context.Context, prices map[string]*series.Series, cand pairs.Candidate) dto.PairResult {
	result := dto.PairResult{TickerA: cand.A, TickerB: cand.B, Rho: cand.Rho}
	skip := func(format string, args ...interface{}) dto.PairResult {
		result.SkipReason = fmt.Sprintf(format, args...)
		return result
	}

	pxA, pxB := prices[cand.A], prices[cand.B]
	logA, err := pxA.Log()
	if err != nil {
		return skip("log prices: %v", err)
	}
	logB, err := pxB.Log()
	if err != nil {
		return skip("log prices: %v", err)
	}

	eg, err := pairs.FitEngleGranger(logA, logB, pairs.FitOptions{
		Significance: s.cfg.Cointegration.SignificanceLevel,
		ADFLag:       s.cfg.Cointegration.ADFLag,
		MinSamples:   s.cfg.Cointegration.MinSamples,
	})
	if err != nil {
		return skip("cointegration fit: %v", err)
	}
	result.Alpha = eg.Alpha
	result.Beta = eg.Beta
	result.ADFPValue = eg.PValue
	result.Stationary = eg.Stationary

	if hl, err := pairs.OUHalfLife(eg.Residual); err == nil && !math.IsNaN(hl) && !math.IsInf(hl, 0) {
		result.HalfLifeDays = &hl
	}

	if !eg.Stationary {
		return skip("residual not stationary, p=%.3g", eg.PValue)
	}

	z, err := series.RollingZScore(eg.Residual, s.cfg.Signal.RollingWindow)
	if err != nil {
		return skip("z-score: %v", err)
	}
	ledger, err := backtest.Run(pxA, pxB, eg.Beta, z, s.engineParams())
	if err != nil {
		return skip("backtest: %v", err)
	}
	summary, err := backtest.Summarize(ledger.NetPnL(), s.cfg.Backtest.InitialCapital)
	if err != nil {
		return skip("summary: %v", err)
	}
	result.Summary = &summary
	result.WeightA = s.latestVolTargetWeight(pxA)
	result.WeightB = s.latestVolTargetWeight(pxB)
	return result
}

// latestVolTargetWeight reports the current vol-target sizing weight for one
// leg, 0 when risk targeting is not configured or the lookback has not filled.
func (s *analysisService) latestVolTargetWeight(prices *series.Series) float64 {
	r := s.cfg.Risk
	if r.TargetVol <= 0 || r.VolLookback < 2 || r.WeightCap <= 0 {
		return 0
	}
	w, err := backtest.VolTargetWeights(prices, r.TargetVol, r.VolLookback, r.WeightCap)
	if err != nil || w.Len() == 0 {
		return 0
	}
	return w.Value(w.Len() - 1)
}

func (s *analysisService) engineParams() backtest.Params {
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

// Latest returns the most recently persisted pair analyses.
func (s *analysisService) Latest(ctx context.Context, limit int) ([]model.PairAnalysis, error) {
	if s.repo.PairAnalysisRepo == nil {
		return nil, fmt.Errorf("no database configured")
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.PairAnalysisRepo.GetLatest(ctx, limit)
}

func (s *analysisService) persistResults(ctx context.Context, ranked []dto.PairResult, start, end time.Time) {
	if s.repo.PairAnalysisRepo == nil {
		s.log.DebugContext(ctx, "No database configured, skipping persistence")
		return
	}
	params, _ := json.Marshal(s.engineParams())
	for _, r := range ranked {
		summary, _ := json.Marshal(r.Summary)
		record := &model.PairAnalysis{
			TickerA:      r.TickerA,
			TickerB:      r.TickerB,
			StartDate:    start,
			EndDate:      end,
			Rho:          r.Rho,
			Alpha:        r.Alpha,
			Beta:         r.Beta,
			ADFPValue:    r.ADFPValue,
			Stationary:   r.Stationary,
			HalfLifeDays: r.HalfLifeDays,
			Summary:      summary,
			Params:       params,
		}
		if err := s.repo.PairAnalysisRepo.Create(ctx, record); err != nil {
			s.log.ErrorContext(ctx, "Failed to persist pair analysis",
				logger.StringField("pair", r.TickerA+"-"+r.TickerB), logger.ErrorField(err))
		}
	}
}
