package service

import (
	"golang-statarb/config"
	"golang-statarb/internal/repository"
	"golang-statarb/pkg/logger"
)

type Service struct {
	AnalysisService  AnalysisService
	BacktestService  BacktestService
	SchedulerService SchedulerService
}

func NewService(cfg *config.Config, log *logger.Logger, repo *repository.Repository) *Service {
	analysis := NewAnalysisService(cfg, log, repo)
	return &Service{
		AnalysisService:  analysis,
		BacktestService:  NewBacktestService(cfg, log, repo),
		SchedulerService: NewSchedulerService(cfg, log, analysis),
	}
}
