package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ilovko/r6s/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	_ "modernc.org/sqlite"
)

type StrategyRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
}

func NewStrategyRepository(db *gorm.DB, logger *slog.Logger) *StrategyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &StrategyRepository{db: db, logger: logger}
}

type strategyPayload struct {
	domain.Board
	domain.View
}

func (r *StrategyRepository) ListStrategies(ctx context.Context) ([]domain.Strategy, error) {
	rows := make([]StrategyModel, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	// a row that no longer decodes is left out; GetStrategy still reports it
	result := make([]domain.Strategy, 0, len(rows))
	for _, m := range rows {
		s, err := toStrategy(m)
		if err != nil {
			r.logger.WarnContext(ctx, "skipping unreadable strategy", "id", m.ID, "err", err)
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (r *StrategyRepository) GetStrategy(ctx context.Context, id string) (domain.Strategy, error) {
	var m StrategyModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Strategy{}, fmt.Errorf("strategy %s: %w", id, domain.ErrNotFound)
		}
		return domain.Strategy{}, err
	}
	return toStrategy(m)
}

func (r *StrategyRepository) UpsertStrategy(ctx context.Context, value domain.Strategy) (domain.Strategy, error) {
	payload, err := json.Marshal(strategyPayload{Board: value.Board, View: value.View})
	if err != nil {
		return domain.Strategy{}, err
	}
	m := StrategyModel{
		ID:          value.ID,
		Name:        value.Name,
		MapID:       string(value.Map),
		Floor:       string(value.Floor),
		Payload:     string(payload),
		EntityCount: value.Board.Count(),
		CreatedAt:   value.CreatedAt,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "map_id", "floor", "payload", "entity_count", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return domain.Strategy{}, err
	}
	return r.GetStrategy(ctx, value.ID)
}

func (r *StrategyRepository) DeleteStrategy(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&StrategyModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("strategy %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *StrategyRepository) CreateActivity(ctx context.Context, value domain.Activity) error {
	m := ActivityModel{
		Action:     value.Action,
		StrategyID: value.StrategyID,
		SessionID:  value.SessionID,
		Metadata:   value.Metadata,
		CreatedAt:  value.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListActivity returns the newest entries in chronological order.
func (r *StrategyRepository) ListActivity(ctx context.Context, limit int) ([]domain.Activity, error) {
	rows := make([]ActivityModel, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Activity, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		m := rows[i]
		result = append(result, domain.Activity{
			ID:         m.ID,
			Action:     m.Action,
			StrategyID: m.StrategyID,
			SessionID:  m.SessionID,
			Metadata:   m.Metadata,
			CreatedAt:  m.CreatedAt,
		})
	}
	return result, nil
}

func toStrategy(m StrategyModel) (domain.Strategy, error) {
	var p strategyPayload
	if err := json.Unmarshal([]byte(m.Payload), &p); err != nil {
		return domain.Strategy{}, fmt.Errorf("strategy %s: %w: %v", m.ID, domain.ErrMalformedDocument, err)
	}
	return domain.Strategy{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		Board:     p.Board.Clone(),
		View:      p.View,
	}, nil
}
