package offline

import (
	"context"
	"errors"
	"testing"

	"github.com/Ilovko/r6s/internal/domain"
)

func TestStoreDegrades(t *testing.T) {
	ctx := context.Background()
	store := New(errors.New("mkdir /ro: read-only file system"))

	items, err := store.ListStrategies(ctx)
	if err != nil || items == nil || len(items) != 0 {
		t.Fatalf("list should be empty, got %v %v", items, err)
	}
	if _, err := store.UpsertStrategy(ctx, domain.Strategy{ID: "s1"}); !errors.Is(err, domain.ErrStorageOffline) {
		t.Fatalf("save should report offline storage, got %v", err)
	}
	if _, err := store.GetStrategy(ctx, "s1"); !errors.Is(err, domain.ErrStorageOffline) {
		t.Fatalf("get should report offline storage, got %v", err)
	}
	if err := store.DeleteStrategy(ctx, "s1"); !errors.Is(err, domain.ErrStorageOffline) {
		t.Fatalf("delete should report offline storage, got %v", err)
	}
	if err := store.CreateActivity(ctx, domain.Activity{Action: "strategy.export"}); err != nil {
		t.Fatalf("activity should be dropped silently: %v", err)
	}
	acts, err := store.ListActivity(ctx, 10)
	if err != nil || len(acts) != 0 {
		t.Fatalf("activity should be empty, got %v %v", acts, err)
	}
}
