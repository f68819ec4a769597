package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownSession    = errors.New("unknown session")
	ErrUnknownMap        = errors.New("unknown map")
	ErrUnknownFloor      = errors.New("unknown floor")
	ErrUnknownLayer      = errors.New("unknown layer")
	ErrUnknownTool       = errors.New("unknown tool")
	ErrUnknownRole       = errors.New("unknown role")
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrMalformedDocument = errors.New("malformed strategy document")
	ErrLayerLocked       = errors.New("layer is hidden or locked")
	ErrStorageOffline    = errors.New("strategy storage unavailable")
)

// StrategyRepository persists strategy records keyed by Strategy.ID.
type StrategyRepository interface {
	ListStrategies(ctx context.Context) ([]Strategy, error)
	GetStrategy(ctx context.Context, id string) (Strategy, error)
	UpsertStrategy(ctx context.Context, value Strategy) (Strategy, error)
	DeleteStrategy(ctx context.Context, id string) error

	CreateActivity(ctx context.Context, value Activity) error
	ListActivity(ctx context.Context, limit int) ([]Activity, error)
}
