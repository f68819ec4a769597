package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Ilovko/r6s/internal/adapters/db/offline"
	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

type memoryRepo struct {
	mu         sync.Mutex
	strategies map[string]domain.Strategy
	activity   []domain.Activity
	listErr    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{strategies: map[string]domain.Strategy{}}
}

func (r *memoryRepo) ListStrategies(context.Context) ([]domain.Strategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Strategy, 0, len(r.strategies))
	for _, s := range r.strategies {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) GetStrategy(_ context.Context, id string) (domain.Strategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.strategies[id]
	if !ok {
		return domain.Strategy{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) UpsertStrategy(_ context.Context, value domain.Strategy) (domain.Strategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[value.ID] = value
	return value, nil
}

func (r *memoryRepo) DeleteStrategy(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.strategies, id)
	return nil
}

func (r *memoryRepo) CreateActivity(_ context.Context, value domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	value.ID = uint(len(r.activity) + 1)
	r.activity = append(r.activity, value)
	return nil
}

func (r *memoryRepo) ListActivity(_ context.Context, limit int) ([]domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.activity) {
		limit = len(r.activity)
	}
	return append([]domain.Activity(nil), r.activity[len(r.activity)-limit:]...), nil
}

func newTestService(repo domain.StrategyRepository) *EditorService {
	svc := NewEditorService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), editor.DefaultPreferences())
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestSaveLoadOverwriteDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(repo)
	id, _ := svc.OpenSession(ctx)

	if _, _, err := svc.Pointer(id, PointerInput{Phase: PointerDown, X: 100, Y: 100}); err != nil {
		t.Fatalf("pointer: %v", err)
	}
	saved, err := svc.SaveStrategy(ctx, id, "", "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("save should assign an id")
	}
	if !strings.HasPrefix(saved.Name, "Dust2-") || !strings.HasSuffix(saved.Name, "-2026-03-14") {
		t.Fatalf("unexpected default name %q", saved.Name)
	}

	svc.Pointer(id, PointerInput{Phase: PointerDown, X: 300, Y: 300})
	over, err := svc.SaveStrategy(ctx, id, saved.ID, "retake B")
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if over.ID != saved.ID || len(repo.strategies) != 1 {
		t.Fatalf("overwrite must reuse the id")
	}
	if len(over.Units) != 2 {
		t.Fatalf("overwrite should store the current board, got %d units", len(over.Units))
	}

	if _, err := svc.SaveStrategy(ctx, id, "missing", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("overwriting an unknown id: %v", err)
	}

	other, _ := svc.OpenSession(ctx)
	frame, err := svc.LoadStrategy(ctx, other, saved.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(frame.Board.Units) != 2 {
		t.Fatalf("loaded frame should show both units, got %d", len(frame.Board.Units))
	}

	if err := svc.DeleteStrategy(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := svc.ListStrategies(ctx); len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}

	acts, err := svc.ListActivity(ctx, 0)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	var actions []string
	for _, a := range acts {
		actions = append(actions, a.Action)
	}
	if got := strings.Join(actions, ","); got != "strategy.save,strategy.save,strategy.load,strategy.delete" {
		t.Fatalf("unexpected activity %q", got)
	}
}

func TestListStrategiesDegradesToEmpty(t *testing.T) {
	repo := newMemoryRepo()
	repo.listErr = errors.New("disk on fire")
	svc := newTestService(repo)
	got := svc.ListStrategies(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestEditingWithoutStorage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(offline.New(errors.New("read-only file system")))
	id, _ := svc.OpenSession(ctx)

	out, frame, err := svc.Pointer(id, PointerInput{Phase: PointerDown, X: 40, Y: 40})
	if err != nil || out.Kind != editor.OutcomeCreated || len(frame.Board.Units) != 1 {
		t.Fatalf("editing should work without storage: %+v %v", out, err)
	}
	if _, _, err := svc.Export(ctx, id); err != nil {
		t.Fatalf("export does not need storage: %v", err)
	}
	if got := svc.ListStrategies(ctx); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
	if _, err := svc.SaveStrategy(ctx, id, "", "retake"); !errors.Is(err, domain.ErrStorageOffline) {
		t.Fatalf("save should report offline storage, got %v", err)
	}
	if frame, err := svc.Frame(id); err != nil || len(frame.Board.Units) != 1 {
		t.Fatalf("failed save changed the session: %v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	if _, err := svc.Undo("nope"); !errors.Is(err, domain.ErrUnknownSession) {
		t.Fatalf("expected unknown session, got %v", err)
	}
}

func TestChangeMapNeedsConfirm(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemoryRepo())
	id, _ := svc.OpenSession(ctx)
	svc.Pointer(id, PointerInput{Phase: PointerDown, X: 10, Y: 10})

	change, err := svc.ChangeMap(id, "mirage", false)
	if err != nil || !change.NeedsConfirm || change.Frame.View.Map != domain.DefaultMap {
		t.Fatalf("unexpected change %+v %v", change, err)
	}
	change, err = svc.ChangeMap(id, "mirage", true)
	if err != nil || change.NeedsConfirm || change.Frame.View.Map != "mirage" || change.Frame.Board.Count() != 0 {
		t.Fatalf("confirmed change %+v %v", change, err)
	}
}

func TestExportImportBetweenSessions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemoryRepo())
	a, _ := svc.OpenSession(ctx)
	b, _ := svc.OpenSession(ctx)
	svc.SelectTool(a, domain.ToolCalloutDanger)
	svc.Pointer(a, PointerInput{Phase: PointerDown, X: 40, Y: 40})

	name, data, err := svc.Export(ctx, a)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name != "fps-strategy-dust2-ground.json" {
		t.Fatalf("unexpected name %q", name)
	}
	frame, err := svc.Import(ctx, b, data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(frame.Board.Callouts) != 1 {
		t.Fatalf("callout not imported")
	}
	if _, err := svc.Import(ctx, b, []byte("  ")); !errors.Is(err, domain.ErrMalformedDocument) {
		t.Fatalf("empty import: %v", err)
	}
}

func TestWatchReceivesFrames(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemoryRepo())
	id, _ := svc.OpenSession(ctx)
	frames, cancel, err := svc.Watch(id)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer cancel()

	svc.Zoom(id, ZoomIn)
	select {
	case f := <-frames:
		if f.View.Zoom <= 1 {
			t.Fatalf("expected zoomed frame, got %v", f.View.Zoom)
		}
	case <-time.After(time.Second):
		t.Fatalf("no frame published")
	}

	svc.CloseSession(id)
	if _, ok := <-frames; ok {
		t.Fatalf("closing the session should close watchers")
	}
}

func TestConcurrentPointerInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemoryRepo())
	id, _ := svc.OpenSession(ctx)
	svc.SelectTool(id, domain.ToolCalloutWatch)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.Pointer(id, PointerInput{Phase: PointerDown, X: float64(i * 100), Y: 0})
		}(i)
	}
	wg.Wait()
	frame, _ := svc.Frame(id)
	if n := len(frame.Board.Callouts); n != 20 {
		t.Fatalf("expected 20 callouts, got %d", n)
	}
}
