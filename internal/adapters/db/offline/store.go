// Package offline stands in for a strategy store that could not be opened.
// Reads come back empty, activity is dropped and writes fail with
// domain.ErrStorageOffline, so editing keeps working without persistence.
package offline

import (
	"context"
	"fmt"

	"github.com/Ilovko/r6s/internal/domain"
)

type Store struct {
	cause error
}

// New records why the real store is unavailable; it is reported on writes.
func New(cause error) *Store {
	return &Store{cause: cause}
}

func (s *Store) err() error {
	if s.cause == nil {
		return domain.ErrStorageOffline
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageOffline, s.cause)
}

func (s *Store) ListStrategies(ctx context.Context) ([]domain.Strategy, error) {
	return []domain.Strategy{}, nil
}

func (s *Store) GetStrategy(ctx context.Context, id string) (domain.Strategy, error) {
	return domain.Strategy{}, s.err()
}

func (s *Store) UpsertStrategy(ctx context.Context, value domain.Strategy) (domain.Strategy, error) {
	return domain.Strategy{}, s.err()
}

func (s *Store) DeleteStrategy(ctx context.Context, id string) error {
	return s.err()
}

func (s *Store) CreateActivity(ctx context.Context, value domain.Activity) error {
	return nil
}

func (s *Store) ListActivity(ctx context.Context, limit int) ([]domain.Activity, error) {
	return []domain.Activity{}, nil
}
