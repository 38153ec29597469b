package repository

import (
	"context"

	"golang-statarb/internal/model"

	"gorm.io/gorm"
)

type PairAnalysisRepository interface {
	Create(ctx context.Context, analysis *model.PairAnalysis) error
	GetLatest(ctx context.Context, limit int) ([]model.PairAnalysis, error)
}

type pairAnalysisRepository struct {
	db *gorm.DB
}

func NewPairAnalysisRepository(db *gorm.DB) PairAnalysisRepository {
	return &pairAnalysisRepository{db: db}
}

func (r *pairAnalysisRepository) Create(ctx context.Context, analysis *model.PairAnalysis) error {
	return r.db.WithContext(ctx).Create(analysis).Error
}

func (r *pairAnalysisRepository) GetLatest(ctx context.Context, limit int) ([]model.PairAnalysis, error) {
	var out []model.PairAnalysis
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
