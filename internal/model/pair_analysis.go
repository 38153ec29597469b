package model

import (
	"time"

	"gorm.io/datatypes"
)

// PairAnalysis is one screened and backtested pair from an analysis run.
type PairAnalysis struct {
	ID           uint           `gorm:"primarykey"`
	TickerA      string         `gorm:"not null"`
	TickerB      string         `gorm:"not null"`
	StartDate    time.Time      `gorm:"not null"`
	EndDate      time.Time      `gorm:"not null"`
	Rho          float64        `gorm:"not null"`
	Alpha        float64        `gorm:"not null"`
	Beta         float64        `gorm:"not null"`
	ADFPValue    float64        `gorm:"column:adf_p_value;not null"`
	Stationary   bool           `gorm:"not null"`
	HalfLifeDays *float64       `gorm:"null"`
	Summary      datatypes.JSON `gorm:"type:jsonb"`
	Params       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (PairAnalysis) TableName() string {
	return "pair_analyses"
}
