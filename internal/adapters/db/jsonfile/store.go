package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Ilovko/r6s/internal/domain"
)

// Store keeps strategies and the activity log in one JSON file. A file that
// cannot be parsed is moved aside and the store starts empty.
type Store struct {
	path   string
	logger *slog.Logger

	mu   sync.RWMutex
	data fileData
}

type fileData struct {
	Strategies map[string]domain.Strategy `json:"strategies"`
	Activity   []domain.Activity          `json:"activity"`
}

const maxActivity = 1000

func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		path:   path,
		logger: logger,
		data:   fileData{Strategies: map[string]domain.Strategy{}},
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, s.flush()
	case err != nil:
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		aside := path + ".corrupt"
		logger.Warn("strategy file unreadable, starting empty", "path", path, "moved_to", aside, "err", err)
		if err := os.Rename(path, aside); err != nil {
			return nil, err
		}
		s.data = fileData{Strategies: map[string]domain.Strategy{}}
		return s, s.flush()
	}
	if s.data.Strategies == nil {
		s.data.Strategies = map[string]domain.Strategy{}
	}
	return s, nil
}

// flush writes through a temp file so a crash never leaves half a document.
// Callers hold the write lock or own s exclusively.
func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) ListStrategies(_ context.Context) ([]domain.Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Strategy, 0, len(s.data.Strategies))
	for _, v := range s.data.Strategies {
		v.Board = v.Board.Clone()
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetStrategy(_ context.Context, id string) (domain.Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data.Strategies[id]
	if !ok {
		return domain.Strategy{}, fmt.Errorf("strategy %s: %w", id, domain.ErrNotFound)
	}
	v.Board = v.Board.Clone()
	return v, nil
}

func (s *Store) UpsertStrategy(_ context.Context, value domain.Strategy) (domain.Strategy, error) {
	if value.ID == "" {
		return domain.Strategy{}, errors.New("strategy id is required")
	}
	value.Board = value.Board.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.data.Strategies[value.ID]
	s.data.Strategies[value.ID] = value
	if err := s.flush(); err != nil {
		if existed {
			s.data.Strategies[value.ID] = prev
		} else {
			delete(s.data.Strategies, value.ID)
		}
		return domain.Strategy{}, err
	}
	return value, nil
}

func (s *Store) DeleteStrategy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.data.Strategies[id]
	if !ok {
		return fmt.Errorf("strategy %s: %w", id, domain.ErrNotFound)
	}
	delete(s.data.Strategies, id)
	if err := s.flush(); err != nil {
		s.data.Strategies[id] = prev
		return err
	}
	return nil
}

func (s *Store) CreateActivity(_ context.Context, value domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last uint
	if n := len(s.data.Activity); n > 0 {
		last = s.data.Activity[n-1].ID
	}
	value.ID = last + 1
	s.data.Activity = append(s.data.Activity, value)
	if over := len(s.data.Activity) - maxActivity; over > 0 {
		s.data.Activity = append([]domain.Activity(nil), s.data.Activity[over:]...)
	}
	return s.flush()
}

func (s *Store) ListActivity(_ context.Context, limit int) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.data.Activity
	if limit > 0 && limit < len(items) {
		items = items[len(items)-limit:]
	}
	return append([]domain.Activity{}, items...), nil
}
