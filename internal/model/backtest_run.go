package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BacktestKindSingle      = "single"
	BacktestKindWalkForward = "walkforward"
)

// BacktestRun records one simulation (full-sample or walk-forward) with its
// parameters and summary metrics.
type BacktestRun struct {
	ID        uint           `gorm:"primarykey"`
	Kind      string         `gorm:"not null"`
	TickerA   string         `gorm:"not null"`
	TickerB   string         `gorm:"not null"`
	StartDate time.Time      `gorm:"not null"`
	EndDate   time.Time      `gorm:"not null"`
	Days      int            `gorm:"not null"`
	Params    datatypes.JSON `gorm:"type:jsonb"`
	Summary   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}
