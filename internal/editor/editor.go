package editor

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Ilovko/r6s/internal/domain"
)

// State is everything the editor knows besides the entities themselves.
// It is owned by one Editor and passed explicitly to whatever reads it.
type State struct {
	Tool     domain.Tool
	Side     domain.Side
	Operator domain.Operator
	Map      domain.MapID
	Floor    domain.Floor
	Language domain.Language
	Theme    domain.Theme
	Layers   domain.Layers
	Viewport Viewport
}

type Preferences struct {
	Language domain.Language
	Theme    domain.Theme
}

func DefaultPreferences() Preferences {
	return Preferences{Language: domain.LanguageKorean, Theme: domain.ThemeLight}
}

type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeCreated
	OutcomeErased
	OutcomeDragStarted
	OutcomeMoved
	OutcomeDragEnded
	OutcomeDrawStarted
	OutcomePreview
	OutcomePanStarted
	OutcomePanned
	OutcomePanEnded
	OutcomeRoleChangeRequested
	OutcomeRejected
)

var outcomeNames = [...]string{
	OutcomeNone:                "none",
	OutcomeCreated:             "created",
	OutcomeErased:              "erased",
	OutcomeDragStarted:         "dragStarted",
	OutcomeMoved:               "moved",
	OutcomeDragEnded:           "dragEnded",
	OutcomeDrawStarted:         "drawStarted",
	OutcomePreview:             "preview",
	OutcomePanStarted:          "panStarted",
	OutcomePanned:              "panned",
	OutcomePanEnded:            "panEnded",
	OutcomeRoleChangeRequested: "roleChangeRequested",
	OutcomeRejected:            "rejected",
}

func (k OutcomeKind) String() string {
	if int(k) >= 0 && int(k) < len(outcomeNames) {
		return outcomeNames[k]
	}
	return fmt.Sprintf("outcome(%d)", int(k))
}

func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *OutcomeKind) UnmarshalText(b []byte) error {
	for i, name := range outcomeNames {
		if name == string(b) {
			*k = OutcomeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Outcome reports what a pointer event did. Category and ID are set when an
// entity was involved.
type Outcome struct {
	Kind     OutcomeKind          `json:"kind"`
	Category domain.LayerCategory `json:"category,omitempty"`
	ID       string               `json:"id,omitempty"`
}

// Mutated reports whether the event changed the entity collections.
func (o Outcome) Mutated() bool {
	switch o.Kind {
	case OutcomeCreated, OutcomeErased, OutcomeMoved:
		return true
	}
	return false
}

type gestureKind int

const (
	gestureIdle gestureKind = iota
	gestureDraw
	gestureDrag
	gesturePan
)

type gesture struct {
	kind gestureKind

	// draw
	category domain.LayerCategory
	color    domain.MarkColor
	start    domain.Position
	current  domain.Position

	// drag
	target Target
	offset domain.Position
	moved  bool

	// pan
	origin domain.Position
}

// Preview is the provisional shape of an in-progress draw.
type Preview struct {
	Category domain.LayerCategory `json:"category"`
	Start    domain.Position      `json:"start"`
	End      domain.Position      `json:"end"`
	Color    domain.MarkColor     `json:"color,omitempty"`
}

type Editor struct {
	state   State
	model   *Model
	history *History
	gesture gesture
	logger  *slog.Logger
	newID   func() string
	limit   int
}

type Option func(*Editor)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

func WithPreferences(p Preferences) Option {
	return func(e *Editor) {
		if p.Language.Valid() {
			e.state.Language = p.Language
		}
		if p.Theme.Valid() {
			e.state.Theme = p.Theme
		}
	}
}

func WithHistoryLimit(n int) Option {
	return func(e *Editor) { e.limit = n }
}

func New(opts ...Option) *Editor {
	m, _ := domain.LookupMap(domain.DefaultMap)
	prefs := DefaultPreferences()
	e := &Editor{
		state: State{
			Tool:     domain.ToolUnit,
			Side:     domain.SideAttack,
			Operator: domain.DefaultOperator,
			Map:      m.ID,
			Floor:    m.FirstFloor(),
			Language: prefs.Language,
			Theme:    prefs.Theme,
			Layers:   domain.DefaultLayers(),
			Viewport: NewViewport(),
		},
		model:  NewModel(),
		logger: slog.Default(),
		newID:  uuid.NewString,
		limit:  HistoryLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = NewHistory(e.model.Snapshot(), e.limit)
	return e
}

func (e *Editor) State() State { return e.state }

// Board returns a copy of every entity on every floor.
func (e *Editor) Board() domain.Board { return e.model.Snapshot() }

func (e *Editor) View() domain.View {
	return domain.View{
		Map:      e.state.Map,
		Floor:    e.state.Floor,
		Zoom:     e.state.Viewport.Zoom,
		Pan:      e.state.Viewport.Pan,
		Layers:   e.state.Layers,
		Language: e.state.Language,
		Theme:    e.state.Theme,
	}
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Preview returns the provisional mark or barrier while a draw is in
// progress.
func (e *Editor) Preview() (Preview, bool) {
	if e.gesture.kind != gestureDraw {
		return Preview{}, false
	}
	return Preview{
		Category: e.gesture.category,
		Start:    e.gesture.start,
		End:      e.gesture.current,
		Color:    e.gesture.color,
	}, true
}

func (e *Editor) PointerDown(device domain.Position) Outcome {
	if e.gesture.kind != gestureIdle {
		e.endGesture()
	}
	if e.state.Tool == domain.ToolPan {
		e.gesture = gesture{kind: gesturePan, origin: device.Sub(e.state.Viewport.Pan)}
		return Outcome{Kind: OutcomePanStarted}
	}
	p := e.state.Viewport.ToModel(device)
	if target, ok := hitTest(e.model, e.state.Layers, e.state.Floor, p); ok {
		if target.Category != domain.LayerMarks || e.state.Tool == domain.ToolErase {
			return e.pressEntity(target, p)
		}
	}
	return e.pressCanvas(p)
}

func (e *Editor) PointerMove(device domain.Position) Outcome {
	switch e.gesture.kind {
	case gesturePan:
		e.state.Viewport.Pan = device.Sub(e.gesture.origin)
		return Outcome{Kind: OutcomePanned}
	case gestureDrag:
		t := e.gesture.target
		if !Interactable(e.state.Layers, t.Category) {
			return Outcome{Kind: OutcomeRejected, Category: t.Category, ID: t.ID}
		}
		if !e.dragTo(e.state.Viewport.ToModel(device)) {
			return Outcome{Kind: OutcomeNone}
		}
		e.gesture.moved = true
		return Outcome{Kind: OutcomeMoved, Category: t.Category, ID: t.ID}
	case gestureDraw:
		e.gesture.current = e.state.Viewport.ToModel(device)
		return Outcome{Kind: OutcomePreview, Category: e.gesture.category}
	case gestureIdle:
	}
	return Outcome{Kind: OutcomeNone}
}

func (e *Editor) PointerUp(device domain.Position) Outcome {
	g := e.gesture
	e.gesture = gesture{}
	switch g.kind {
	case gesturePan:
		return Outcome{Kind: OutcomePanEnded}
	case gestureDrag:
		if g.moved {
			e.record()
		}
		return Outcome{Kind: OutcomeDragEnded, Category: g.target.Category, ID: g.target.ID}
	case gestureDraw:
		if !Interactable(e.state.Layers, g.category) {
			return Outcome{Kind: OutcomeRejected, Category: g.category}
		}
		end := e.state.Viewport.ToModel(device)
		id := e.newID()
		switch g.category {
		case domain.LayerMarks:
			e.model.AddMark(domain.Mark{ID: id, Start: g.start, End: end, Color: g.color, Floor: e.state.Floor})
		case domain.LayerBarriers:
			e.model.AddBarrier(domain.Barrier{ID: id, Start: g.start, End: end, Floor: e.state.Floor})
		default:
			return Outcome{Kind: OutcomeNone}
		}
		e.record()
		return Outcome{Kind: OutcomeCreated, Category: g.category, ID: id}
	case gestureIdle:
	}
	return Outcome{Kind: OutcomeNone}
}

func (e *Editor) pressEntity(target Target, p domain.Position) Outcome {
	if e.state.Layers.Get(target.Category).Locked {
		return Outcome{Kind: OutcomeRejected, Category: target.Category, ID: target.ID}
	}
	switch e.state.Tool {
	case domain.ToolMove:
		return e.beginDrag(target, p)
	case domain.ToolErase:
		return e.erase(target)
	case domain.ToolUnit:
		if target.Category == domain.LayerUnits {
			return Outcome{Kind: OutcomeRoleChangeRequested, Category: target.Category, ID: target.ID}
		}
		return Outcome{Kind: OutcomeNone, Category: target.Category, ID: target.ID}
	case domain.ToolMarkBlue, domain.ToolMarkRed, domain.ToolBarrier,
		domain.ToolCalloutDanger, domain.ToolCalloutWatch, domain.ToolCalloutObjective, domain.ToolPan:
		return Outcome{Kind: OutcomeNone, Category: target.Category, ID: target.ID}
	}
	return Outcome{Kind: OutcomeNone}
}

func (e *Editor) pressCanvas(p domain.Position) Outcome {
	tool := e.state.Tool
	category, ok := tool.Category()
	if !ok {
		// move and erase need something under the pointer
		return Outcome{Kind: OutcomeNone}
	}
	if !Interactable(e.state.Layers, category) {
		return Outcome{Kind: OutcomeRejected, Category: category}
	}
	switch tool {
	case domain.ToolUnit:
		u := domain.Unit{
			ID:       e.newID(),
			Position: p,
			Side:     e.state.Side,
			Operator: e.state.Operator,
			Label:    e.nextLabel(e.state.Side, e.state.Floor),
			Floor:    e.state.Floor,
		}
		e.model.AddUnit(u)
		e.record()
		return Outcome{Kind: OutcomeCreated, Category: category, ID: u.ID}
	case domain.ToolCalloutDanger, domain.ToolCalloutWatch, domain.ToolCalloutObjective:
		kind, _ := tool.CalloutKind()
		c := domain.Callout{ID: e.newID(), Position: p, Kind: kind, Floor: e.state.Floor}
		e.model.AddCallout(c)
		e.record()
		return Outcome{Kind: OutcomeCreated, Category: category, ID: c.ID}
	case domain.ToolMarkBlue, domain.ToolMarkRed, domain.ToolBarrier:
		color, _ := tool.MarkColor()
		e.gesture = gesture{kind: gestureDraw, category: category, color: color, start: p, current: p}
		return Outcome{Kind: OutcomeDrawStarted, Category: category}
	case domain.ToolMove, domain.ToolErase, domain.ToolPan:
	}
	return Outcome{Kind: OutcomeNone}
}

func (e *Editor) beginDrag(target Target, p domain.Position) Outcome {
	var anchor domain.Position
	switch target.Category {
	case domain.LayerUnits:
		u, _ := e.model.Unit(target.ID)
		anchor = u.Position
	case domain.LayerCallouts:
		c, _ := e.model.Callout(target.ID)
		anchor = c.Position
	case domain.LayerBarriers:
		b, _ := e.model.Barrier(target.ID)
		anchor = b.Start
	default:
		return Outcome{Kind: OutcomeNone}
	}
	e.gesture = gesture{kind: gestureDrag, target: target, offset: p.Sub(anchor)}
	return Outcome{Kind: OutcomeDragStarted, Category: target.Category, ID: target.ID}
}

func (e *Editor) dragTo(p domain.Position) bool {
	t := e.gesture.target
	pos := p.Sub(e.gesture.offset)
	switch t.Category {
	case domain.LayerUnits:
		return e.model.MoveUnit(t.ID, pos)
	case domain.LayerCallouts:
		return e.model.MoveCallout(t.ID, pos)
	case domain.LayerBarriers:
		b, ok := e.model.Barrier(t.ID)
		if !ok {
			return false
		}
		return e.model.TranslateBarrier(t.ID, pos.Sub(b.Start))
	}
	return false
}

func (e *Editor) erase(target Target) Outcome {
	var removed bool
	switch target.Category {
	case domain.LayerUnits:
		removed = e.model.RemoveUnit(target.ID)
	case domain.LayerMarks:
		removed = e.model.RemoveMark(target.ID)
	case domain.LayerCallouts:
		removed = e.model.RemoveCallout(target.ID)
	case domain.LayerBarriers:
		removed = e.model.RemoveBarrier(target.ID)
	}
	if !removed {
		return Outcome{Kind: OutcomeNone}
	}
	e.record()
	return Outcome{Kind: OutcomeErased, Category: target.Category, ID: target.ID}
}

// endGesture closes whatever gesture is open. A drag that already moved its
// entity is recorded; a provisional draw is dropped.
func (e *Editor) endGesture() {
	if e.gesture.kind == gestureDrag && e.gesture.moved {
		e.record()
	}
	e.gesture = gesture{}
}

// nextLabel continues after the highest label already used by the side on
// the floor, so removing a unit never renumbers the others and never leads
// to a duplicate.
func (e *Editor) nextLabel(side domain.Side, floor domain.Floor) string {
	prefix := side.LabelPrefix()
	highest := 0
	for _, u := range e.model.units {
		if u.Side != side || u.Floor != floor {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(u.Label, prefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return prefix + strconv.Itoa(highest+1)
}

func (e *Editor) record() {
	e.history.Record(e.model.Snapshot())
}

// SelectTool makes t the active tool. Any provisional draw is discarded.
func (e *Editor) SelectTool(t domain.Tool) {
	if t == e.state.Tool {
		return
	}
	e.endGesture()
	e.state.Tool = t
}

func (e *Editor) SelectSide(side domain.Side) error {
	if !side.Valid() {
		return fmt.Errorf("side %q: %w", side, domain.ErrUnknownRole)
	}
	if e.state.Side == side {
		return nil
	}
	for _, info := range domain.Roles() {
		if info.Side == side {
			e.state.Side = side
			e.state.Operator = info.Operators[0]
			return nil
		}
	}
	return domain.ErrUnknownRole
}

// SelectRole picks the first operator of the role for the next placement.
func (e *Editor) SelectRole(side domain.Side, role domain.Role) error {
	info, err := domain.LookupRole(side, role)
	if err != nil {
		return err
	}
	e.state.Side = side
	e.state.Operator = info.Operators[0]
	return nil
}

func (e *Editor) SelectOperator(op domain.Operator) error {
	info, ok := domain.RoleOf(op)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownOperator, op)
	}
	e.state.Side = info.Side
	e.state.Operator = op
	return nil
}

// ChangeRole swaps the operator of an existing unit. The operator must
// belong to the unit's side.
func (e *Editor) ChangeRole(id string, op domain.Operator) error {
	info, ok := domain.RoleOf(op)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownOperator, op)
	}
	u, ok := e.model.Unit(id)
	if !ok {
		return domain.ErrNotFound
	}
	if info.Side != u.Side {
		return fmt.Errorf("%w: %q does not play %s", domain.ErrUnknownOperator, op, u.Side)
	}
	if !Interactable(e.state.Layers, domain.LayerUnits) {
		return domain.ErrLayerLocked
	}
	if u.Operator == op {
		return nil
	}
	e.model.SetUnitOperator(id, op)
	e.record()
	return nil
}

func (e *Editor) Wheel(deltaY float64) { e.state.Viewport.Wheel(deltaY) }
func (e *Editor) ZoomIn()              { e.state.Viewport.ZoomIn() }
func (e *Editor) ZoomOut()             { e.state.Viewport.ZoomOut() }
func (e *Editor) ResetView()           { e.state.Viewport.Reset() }

// SetFloor switches the active floor. Floors the current map lacks are
// ignored and reported as false.
func (e *Editor) SetFloor(f domain.Floor) bool {
	m, err := domain.LookupMap(e.state.Map)
	if err != nil || !m.HasFloor(f) {
		return false
	}
	if f != e.state.Floor {
		e.endGesture()
		e.state.Floor = f
	}
	return true
}

// RequestMapChange adopts the map at once when the board is empty. With
// entities on the board it changes nothing and reports that confirmation is
// needed.
func (e *Editor) RequestMapChange(id domain.MapID) (needsConfirm bool, err error) {
	m, err := domain.LookupMap(id)
	if err != nil {
		return false, err
	}
	if m.ID == e.state.Map {
		return false, nil
	}
	if !e.model.Empty() {
		return true, nil
	}
	e.endGesture()
	e.state.Map = m.ID
	e.state.Floor = m.FirstFloor()
	return false, nil
}

// ConfirmMapChange discards every entity and switches to the map's first
// floor.
func (e *Editor) ConfirmMapChange(id domain.MapID) error {
	m, err := domain.LookupMap(id)
	if err != nil {
		return err
	}
	e.gesture = gesture{}
	hadEntities := !e.model.Empty()
	e.model.Clear()
	e.state.Map = m.ID
	e.state.Floor = m.FirstFloor()
	if hadEntities {
		e.record()
	}
	e.logger.Info("map changed", "map", m.ID, "cleared", hadEntities)
	return nil
}

// Clear removes every entity on every floor.
func (e *Editor) Clear() {
	e.gesture = gesture{}
	if e.model.Empty() {
		return
	}
	e.model.Clear()
	e.record()
}

func (e *Editor) Undo() bool {
	e.endGesture()
	b, ok := e.history.Undo()
	if ok {
		e.model.Restore(b)
	}
	return ok
}

func (e *Editor) Redo() bool {
	e.endGesture()
	b, ok := e.history.Redo()
	if ok {
		e.model.Restore(b)
	}
	return ok
}

func (e *Editor) ToggleLayerVisible(c domain.LayerCategory) { toggleVisible(&e.state.Layers, c) }
func (e *Editor) ToggleLayerLocked(c domain.LayerCategory)  { toggleLocked(&e.state.Layers, c) }

func (e *Editor) SetLanguage(l domain.Language) error {
	if !l.Valid() {
		return fmt.Errorf("language %q: %w", l, domain.ErrMalformedDocument)
	}
	e.state.Language = l
	return nil
}

func (e *Editor) SetTheme(t domain.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("theme %q: %w", t, domain.ErrMalformedDocument)
	}
	e.state.Theme = t
	return nil
}

// Load replaces the whole board and view from a saved strategy. Nothing
// changes when the strategy does not validate.
func (e *Editor) Load(s domain.Strategy) error {
	if err := validateView(s.View); err != nil {
		return err
	}
	if err := validateBoard(s.Board, s.View.Map); err != nil {
		return err
	}
	e.gesture = gesture{}
	e.model.Restore(s.Board)
	e.applyView(s.View)
	e.record()
	e.logger.Info("strategy loaded", "id", s.ID, "name", s.Name, "entities", s.Board.Count())
	return nil
}

func (e *Editor) applyView(v domain.View) {
	e.state.Map = v.Map
	e.state.Floor = v.Floor
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	e.state.Viewport = Viewport{Zoom: ClampZoom(zoom), Pan: v.Pan}
	e.state.Layers = v.Layers
	e.state.Language = v.Language
	e.state.Theme = v.Theme
}

// DefaultName is the suggested strategy name for the current map and floor.
func (e *Editor) DefaultName(date string) string {
	name := string(e.state.Map)
	if m, err := domain.LookupMap(e.state.Map); err == nil {
		name = m.Name
	}
	return fmt.Sprintf("%s-%s-%s", name, domain.FloorName(e.state.Floor, e.state.Language), date)
}

// Frame is what a renderer needs: the active floor's visible entities plus
// view state.
type Frame struct {
	View     domain.View     `json:"view"`
	Tool     domain.Tool     `json:"tool"`
	Side     domain.Side     `json:"side"`
	Operator domain.Operator `json:"operator"`
	Board    domain.Board    `json:"board"`
	Preview  *Preview        `json:"preview,omitempty"`
	Floors   []domain.Floor  `json:"floors"`
	CanUndo  bool            `json:"canUndo"`
	CanRedo  bool            `json:"canRedo"`
}

func (e *Editor) Frame() Frame {
	board := e.model.OnFloor(e.state.Floor)
	if !e.state.Layers.Units.Visible {
		board.Units = nil
	}
	if !e.state.Layers.Marks.Visible {
		board.Marks = nil
	}
	if !e.state.Layers.Callouts.Visible {
		board.Callouts = nil
	}
	if !e.state.Layers.Barriers.Visible {
		board.Barriers = nil
	}
	f := Frame{
		View:     e.View(),
		Tool:     e.state.Tool,
		Side:     e.state.Side,
		Operator: e.state.Operator,
		Board:    board,
		CanUndo:  e.history.CanUndo(),
		CanRedo:  e.history.CanRedo(),
	}
	if m, err := domain.LookupMap(e.state.Map); err == nil {
		f.Floors = m.Floors
	}
	if p, ok := e.Preview(); ok {
		f.Preview = &p
	}
	return f
}
