package service

import (
	"context"

	"golang-statarb/config"
	"golang-statarb/internal/dto"
	"golang-statarb/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService re-runs the configured universe analysis on a cron
// schedule so the database keeps a fresh ranking.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

type schedulerService struct {
	cfg      *config.Config
	log      *logger.Logger
	analysis AnalysisService
	cron     *cron.Cron
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, analysis AnalysisService) SchedulerService {
	return &schedulerService{
		cfg:      cfg,
		log:      log,
		analysis: analysis,
		cron:     cron.New(),
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		s.log.Info("Scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Scheduler.AnalyzeCron, func() {
		s.runAnalysis(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Scheduler started", logger.StringField("analyze_cron", s.cfg.Scheduler.AnalyzeCron))
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Scheduler stopped")
}

func (s *schedulerService) runAnalysis(ctx context.Context) {
	s.log.InfoContext(ctx, "Running scheduled universe analysis")
	resp, err := s.analysis.Analyze(ctx, dto.AnalyzeRequest{})
	if err != nil {
		s.log.ErrorContext(ctx, "Scheduled analysis failed", logger.ErrorField(err))
		return
	}
	s.log.InfoContext(ctx, "Scheduled analysis complete",
		logger.IntField("candidates", resp.Candidates),
		logger.IntField("ranked", len(resp.Results)),
		logger.StringField("best_pair", resp.BestPair))
}
