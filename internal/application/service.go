package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

type PointerPhase string

const (
	PointerDown PointerPhase = "down"
	PointerMove PointerPhase = "move"
	PointerUp   PointerPhase = "up"
)

type PointerInput struct {
	Phase PointerPhase `json:"phase"`
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
}

type ZoomAction string

const (
	ZoomIn    ZoomAction = "in"
	ZoomOut   ZoomAction = "out"
	ZoomReset ZoomAction = "reset"
)

type LayerFlag string

const (
	LayerVisible LayerFlag = "visible"
	LayerLocked  LayerFlag = "locked"
)

type MapChange struct {
	NeedsConfirm bool         `json:"needs_confirm"`
	Frame        editor.Frame `json:"frame"`
}

type session struct {
	mu      sync.Mutex
	editor  *editor.Editor
	watches map[int]chan editor.Frame
	nextID  int
}

// EditorService owns the open editing sessions and the strategy store. Each
// session's editor is only touched while holding that session's lock.
type EditorService struct {
	repo   domain.StrategyRepository
	logger *slog.Logger
	prefs  editor.Preferences
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewEditorService(repo domain.StrategyRepository, logger *slog.Logger, prefs editor.Preferences) *EditorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EditorService{
		repo:     repo,
		logger:   logger,
		prefs:    prefs,
		now:      time.Now,
		sessions: map[string]*session{},
	}
}

func (s *EditorService) OpenSession(ctx context.Context) (string, editor.Frame) {
	id := uuid.NewString()
	e := editor.New(
		editor.WithLogger(s.logger.With("session", id)),
		editor.WithPreferences(s.prefs),
	)
	s.mu.Lock()
	s.sessions[id] = &session{editor: e, watches: map[int]chan editor.Frame{}}
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "session opened", "session", id)
	return id, e.Frame()
}

func (s *EditorService) CloseSession(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	sess.mu.Lock()
	for key, ch := range sess.watches {
		close(ch)
		delete(sess.watches, key)
	}
	sess.mu.Unlock()
}

func (s *EditorService) SessionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (s *EditorService) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSession, id)
	}
	return sess, nil
}

// Do runs fn against the session's editor under its lock and returns the
// resulting frame. Watchers receive the frame when fn succeeds.
func (s *EditorService) Do(id string, fn func(*editor.Editor) error) (editor.Frame, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return editor.Frame{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess.editor); err != nil {
		return sess.editor.Frame(), err
	}
	frame := sess.editor.Frame()
	sess.publish(frame)
	return frame, nil
}

// Watch subscribes to frames produced by any transport for the session.
// The returned cancel func must be called once the caller stops reading.
func (s *EditorService) Watch(id string) (<-chan editor.Frame, func(), error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	key := sess.nextID
	sess.nextID++
	ch := make(chan editor.Frame, 8)
	sess.watches[key] = ch
	cancel := func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if c, ok := sess.watches[key]; ok {
			close(c)
			delete(sess.watches, key)
		}
	}
	return ch, cancel, nil
}

func (sess *session) publish(frame editor.Frame) {
	for _, ch := range sess.watches {
		select {
		case ch <- frame:
		default:
			// slow watcher, it will catch up with the next frame
		}
	}
}

func (s *EditorService) Frame(id string) (editor.Frame, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return editor.Frame{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.editor.Frame(), nil
}

func (s *EditorService) SelectTool(id string, tool domain.Tool) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error {
		e.SelectTool(tool)
		return nil
	})
}

func (s *EditorService) Pointer(id string, in PointerInput) (editor.Outcome, editor.Frame, error) {
	var out editor.Outcome
	frame, err := s.Do(id, func(e *editor.Editor) error {
		p := domain.Position{X: in.X, Y: in.Y}
		switch in.Phase {
		case PointerDown:
			out = e.PointerDown(p)
		case PointerMove:
			out = e.PointerMove(p)
		case PointerUp:
			out = e.PointerUp(p)
		default:
			return fmt.Errorf("unknown pointer phase %q", in.Phase)
		}
		return nil
	})
	return out, frame, err
}

func (s *EditorService) Wheel(id string, deltaY float64) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error {
		e.Wheel(deltaY)
		return nil
	})
}

func (s *EditorService) Zoom(id string, action ZoomAction) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error {
		switch action {
		case ZoomIn:
			e.ZoomIn()
		case ZoomOut:
			e.ZoomOut()
		case ZoomReset:
			e.ResetView()
		default:
			return fmt.Errorf("unknown zoom action %q", action)
		}
		return nil
	})
}

func (s *EditorService) SetFloor(id string, floor domain.Floor) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error {
		if !e.SetFloor(floor) {
			return fmt.Errorf("%w: %q on %s", domain.ErrUnknownFloor, floor, e.State().Map)
		}
		return nil
	})
}

// ChangeMap switches maps. Without confirm a non-empty board is left alone
// and NeedsConfirm is set.
func (s *EditorService) ChangeMap(id string, mapID domain.MapID, confirm bool) (MapChange, error) {
	var needs bool
	frame, err := s.Do(id, func(e *editor.Editor) error {
		if confirm {
			return e.ConfirmMapChange(mapID)
		}
		var err error
		needs, err = e.RequestMapChange(mapID)
		return err
	})
	return MapChange{NeedsConfirm: needs, Frame: frame}, err
}

func (s *EditorService) ToggleLayer(id string, category domain.LayerCategory, flag LayerFlag) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error {
		switch flag {
		case LayerVisible:
			e.ToggleLayerVisible(category)
		case LayerLocked:
			e.ToggleLayerLocked(category)
		default:
			return fmt.Errorf("unknown layer flag %q", flag)
		}
		return nil
	})
}

func (s *EditorService) SelectRole(id string, side domain.Side, role domain.Role) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error { return e.SelectRole(side, role) })
}

func (s *EditorService) SelectOperator(id string, op domain.Operator) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error { return e.SelectOperator(op) })
}

func (s *EditorService) ChangeRole(id, unitID string, op domain.Operator) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error { return e.ChangeRole(unitID, op) })
}

func (s *EditorService) Key(id string, ev editor.KeyEvent) (editor.KeyAction, editor.Frame, error) {
	var action editor.KeyAction
	frame, err := s.Do(id, func(e *editor.Editor) error {
		action = e.HandleKey(ev)
		return nil
	})
	return action, frame, err
}

func (s *EditorService) Undo(id string) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error {
		e.Undo()
		return nil
	})
}

func (s *EditorService) Redo(id string) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error {
		e.Redo()
		return nil
	})
}

func (s *EditorService) Clear(id string) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error {
		e.Clear()
		return nil
	})
}

func (s *EditorService) SetLanguage(id string, lang domain.Language) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error { return e.SetLanguage(lang) })
}

func (s *EditorService) SetTheme(id string, theme domain.Theme) (editor.Frame, error) {
	return s.Do(id, func(e *editor.Editor) error { return e.SetTheme(theme) })
}

// Export returns the session document and the file name to offer it under.
func (s *EditorService) Export(ctx context.Context, id string) (string, []byte, error) {
	var (
		name string
		data []byte
	)
	_, err := s.Do(id, func(e *editor.Editor) error {
		var err error
		name = e.ExportFilename()
		data, err = e.Export()
		return err
	})
	if err != nil {
		return "", nil, err
	}
	s.writeActivity(ctx, "document.export", "", id, name)
	return name, data, nil
}

func (s *EditorService) Import(ctx context.Context, id string, data []byte) (editor.Frame, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return editor.Frame{}, fmt.Errorf("%w: empty document", domain.ErrMalformedDocument)
	}
	frame, err := s.Do(id, func(e *editor.Editor) error { return e.Import(data) })
	if err != nil {
		return frame, err
	}
	s.writeActivity(ctx, "document.import", "", id, fmt.Sprintf("%d bytes", len(data)))
	return frame, nil
}

// SaveStrategy stores the session under a new id, or overwrites strategyID
// when it is set. An empty name falls back to the map, floor and date.
func (s *EditorService) SaveStrategy(ctx context.Context, sessionID, strategyID, name string) (domain.Strategy, error) {
	var record domain.Strategy
	_, err := s.Do(sessionID, func(e *editor.Editor) error {
		name = strings.TrimSpace(name)
		if name == "" {
			name = e.DefaultName(s.now().Format("2006-01-02"))
		}
		record = domain.Strategy{
			ID:        strategyID,
			Name:      name,
			CreatedAt: s.now().UTC(),
			Board:     e.Board(),
			View:      e.View(),
		}
		return nil
	})
	if err != nil {
		return domain.Strategy{}, err
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	} else {
		existing, err := s.repo.GetStrategy(ctx, record.ID)
		if err != nil {
			return domain.Strategy{}, fmt.Errorf("overwrite %s: %w", record.ID, err)
		}
		record.CreatedAt = existing.CreatedAt
	}

	saved, err := s.repo.UpsertStrategy(ctx, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "save strategy", "id", record.ID, "err", err)
		return domain.Strategy{}, err
	}
	s.writeActivity(ctx, "strategy.save", saved.ID, sessionID, saved.Name)
	return saved, nil
}

// ListStrategies never fails: an unreadable store lists as empty.
func (s *EditorService) ListStrategies(ctx context.Context) []domain.Strategy {
	items, err := s.repo.ListStrategies(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "list strategies", "err", err)
		return []domain.Strategy{}
	}
	return items
}

func (s *EditorService) GetStrategy(ctx context.Context, id string) (domain.Strategy, error) {
	if id == "" {
		return domain.Strategy{}, errors.New("strategy id is required")
	}
	return s.repo.GetStrategy(ctx, id)
}

func (s *EditorService) LoadStrategy(ctx context.Context, sessionID, strategyID string) (editor.Frame, error) {
	record, err := s.GetStrategy(ctx, strategyID)
	if err != nil {
		return editor.Frame{}, err
	}
	frame, err := s.Do(sessionID, func(e *editor.Editor) error { return e.Load(record) })
	if err != nil {
		return frame, err
	}
	s.writeActivity(ctx, "strategy.load", record.ID, sessionID, record.Name)
	return frame, nil
}

func (s *EditorService) DeleteStrategy(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("strategy id is required")
	}
	if err := s.repo.DeleteStrategy(ctx, id); err != nil {
		return err
	}
	s.writeActivity(ctx, "strategy.delete", id, "", "")
	return nil
}

func (s *EditorService) ListActivity(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.repo.ListActivity(ctx, limit)
}

func (s *EditorService) writeActivity(ctx context.Context, action, strategyID, sessionID, metadata string) {
	err := s.repo.CreateActivity(ctx, domain.Activity{
		Action:     action,
		StrategyID: strategyID,
		SessionID:  sessionID,
		Metadata:   metadata,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "write activity", "action", action, "err", err)
	}
}
