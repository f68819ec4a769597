package sqlite

import "time"

// StrategyModel keeps map and floor in their own columns for listing; the
// board and view live in Payload as JSON.
type StrategyModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	MapID       string `gorm:"not null;index"`
	Floor       string `gorm:"not null"`
	Payload     string `gorm:"not null"`
	EntityCount int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (StrategyModel) TableName() string { return "strategies" }

type ActivityModel struct {
	ID         uint   `gorm:"primaryKey"`
	Action     string `gorm:"not null;index"`
	StrategyID string `gorm:"not null;default:''"`
	SessionID  string `gorm:"not null;default:''"`
	Metadata   string `gorm:"not null;default:''"`
	CreatedAt  time.Time
}

func (ActivityModel) TableName() string { return "activities" }
