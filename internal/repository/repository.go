package repository

import (
	"golang-statarb/config"
	"golang-statarb/pkg/cache"
	"golang-statarb/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	PriceRepo        PriceRepository
	PairAnalysisRepo PairAnalysisRepository
	BacktestRunRepo  BacktestRunRepository
}

// NewRepository wires the data sources. db may be nil for CLI runs without
// persistence; the persistence repos are then left unset and services skip
// saving.
func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	priceRepo, err := NewAlphaVantageRepository(cfg, inmemoryCache, log)
	if err != nil {
		return nil, err
	}

	repo := &Repository{PriceRepo: priceRepo}
	if db != nil {
		repo.PairAnalysisRepo = NewPairAnalysisRepository(db)
		repo.BacktestRunRepo = NewBacktestRunRepository(db)
	}
	return repo, nil
}
