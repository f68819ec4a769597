package editor

import (
	"encoding/json"
	"fmt"

	"github.com/Ilovko/r6s/internal/domain"
)

// Document is the exported form of a session: the board plus view state,
// without a name, id or timestamp.
type Document struct {
	Units    []domain.Unit    `json:"players"`
	Marks    []domain.Mark    `json:"arrows"`
	Callouts []domain.Callout `json:"markers"`
	Barriers []domain.Barrier `json:"walls"`
	Map      domain.MapID     `json:"map"`
	Floor    domain.Floor     `json:"floor"`
	Zoom     float64          `json:"zoom"`
	Pan      domain.Position  `json:"pan"`
	Layers   domain.Layers    `json:"layers"`
	Language domain.Language  `json:"language"`
	Theme    domain.Theme     `json:"theme"`
}

// importDocument mirrors Document with every field optional.
type importDocument struct {
	Units    *[]domain.Unit    `json:"players"`
	Marks    *[]domain.Mark    `json:"arrows"`
	Callouts *[]domain.Callout `json:"markers"`
	Barriers *[]domain.Barrier `json:"walls"`
	Map      *domain.MapID     `json:"map"`
	Floor    *domain.Floor     `json:"floor"`
	Zoom     *float64          `json:"zoom"`
	Pan      *domain.Position  `json:"pan"`
	Layers   json.RawMessage   `json:"layers"`
	Language *domain.Language  `json:"language"`
	Theme    *domain.Theme     `json:"theme"`
}

func (e *Editor) Document() Document {
	b := e.model.Snapshot()
	v := e.View()
	return Document{
		Units:    orEmpty(b.Units),
		Marks:    orEmpty(b.Marks),
		Callouts: orEmpty(b.Callouts),
		Barriers: orEmpty(b.Barriers),
		Map:      v.Map,
		Floor:    v.Floor,
		Zoom:     v.Zoom,
		Pan:      v.Pan,
		Layers:   v.Layers,
		Language: v.Language,
		Theme:    v.Theme,
	}
}

func (e *Editor) Export() ([]byte, error) {
	return json.MarshalIndent(e.Document(), "", "  ")
}

// ExportFilename names the export after the current map and floor.
func (e *Editor) ExportFilename() string {
	return fmt.Sprintf("fps-strategy-%s-%s.json", e.state.Map, e.state.Floor)
}

// Import applies a document produced by Export. Fields missing from the
// document keep their current value. A document that fails to decode or
// validate leaves the editor untouched.
func (e *Editor) Import(data []byte) error {
	board, view, err := e.decodeImport(data)
	if err != nil {
		e.logger.Warn("import rejected", "err", err)
		return err
	}
	e.gesture = gesture{}
	e.model.Restore(board)
	e.applyView(view)
	e.record()
	e.logger.Info("document imported", "map", view.Map, "floor", view.Floor, "entities", board.Count())
	return nil
}

func (e *Editor) decodeImport(data []byte) (domain.Board, domain.View, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Board{}, domain.View{}, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}

	view := e.View()
	if doc.Map != nil {
		view.Map = *doc.Map
	}
	m, err := domain.LookupMap(view.Map)
	if err != nil {
		return domain.Board{}, domain.View{}, fmt.Errorf("%w: map %q", domain.ErrMalformedDocument, view.Map)
	}
	switch {
	case doc.Floor != nil:
		view.Floor = *doc.Floor
	case !m.HasFloor(view.Floor):
		view.Floor = m.FirstFloor()
	}
	if doc.Zoom != nil {
		view.Zoom = *doc.Zoom
	}
	if doc.Pan != nil {
		view.Pan = *doc.Pan
	}
	if len(doc.Layers) > 0 && string(doc.Layers) != "null" {
		// categories missing from the object keep their flags
		if err := json.Unmarshal(doc.Layers, &view.Layers); err != nil {
			return domain.Board{}, domain.View{}, fmt.Errorf("%w: layers: %v", domain.ErrMalformedDocument, err)
		}
	}
	if doc.Language != nil {
		view.Language = *doc.Language
	}
	if doc.Theme != nil {
		view.Theme = *doc.Theme
	}
	if err := validateView(view); err != nil {
		return domain.Board{}, domain.View{}, err
	}

	board := e.model.Snapshot()
	if doc.Units != nil {
		board.Units = *doc.Units
	}
	if doc.Marks != nil {
		board.Marks = *doc.Marks
	}
	if doc.Callouts != nil {
		board.Callouts = *doc.Callouts
	}
	if doc.Barriers != nil {
		board.Barriers = *doc.Barriers
	}
	board = board.Clone()
	if err := validateBoard(board, view.Map); err != nil {
		return domain.Board{}, domain.View{}, err
	}
	return board, view, nil
}

func validateView(v domain.View) error {
	m, err := domain.LookupMap(v.Map)
	if err != nil {
		return fmt.Errorf("%w: map %q", domain.ErrMalformedDocument, v.Map)
	}
	if !m.HasFloor(v.Floor) {
		return fmt.Errorf("%w: floor %q is not on %s", domain.ErrMalformedDocument, v.Floor, m.ID)
	}
	if !v.Language.Valid() {
		return fmt.Errorf("%w: language %q", domain.ErrMalformedDocument, v.Language)
	}
	if !v.Theme.Valid() {
		return fmt.Errorf("%w: theme %q", domain.ErrMalformedDocument, v.Theme)
	}
	return nil
}

// validateBoard checks that every entity has an id unique in its category,
// sits on a floor of the map and carries known tags.
func validateBoard(b domain.Board, mapID domain.MapID) error {
	m, err := domain.LookupMap(mapID)
	if err != nil {
		return fmt.Errorf("%w: map %q", domain.ErrMalformedDocument, mapID)
	}
	check := func(category domain.LayerCategory, seen map[string]bool, id string, floor domain.Floor) error {
		if id == "" {
			return fmt.Errorf("%w: %s entry without id", domain.ErrMalformedDocument, category)
		}
		if !validID(id) {
			return fmt.Errorf("%w: %s id %q", domain.ErrMalformedDocument, category, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate %s id %q", domain.ErrMalformedDocument, category, id)
		}
		seen[id] = true
		if !m.HasFloor(floor) {
			return fmt.Errorf("%w: %s %q on floor %q not on %s", domain.ErrMalformedDocument, category, id, floor, m.ID)
		}
		return nil
	}

	seen := map[string]bool{}
	for _, u := range b.Units {
		if err := check(domain.LayerUnits, seen, u.ID, u.Floor); err != nil {
			return err
		}
		if !u.Side.Valid() {
			return fmt.Errorf("%w: unit %q side %q", domain.ErrMalformedDocument, u.ID, u.Side)
		}
		if info, ok := domain.RoleOf(u.Operator); !ok || info.Side != u.Side {
			return fmt.Errorf("%w: unit %q operator %q for side %q", domain.ErrMalformedDocument, u.ID, u.Operator, u.Side)
		}
	}
	seen = map[string]bool{}
	for _, a := range b.Marks {
		if err := check(domain.LayerMarks, seen, a.ID, a.Floor); err != nil {
			return err
		}
		if !a.Color.Valid() {
			return fmt.Errorf("%w: arrow %q color %q", domain.ErrMalformedDocument, a.ID, a.Color)
		}
	}
	seen = map[string]bool{}
	for _, c := range b.Callouts {
		if err := check(domain.LayerCallouts, seen, c.ID, c.Floor); err != nil {
			return err
		}
		if !c.Kind.Valid() {
			return fmt.Errorf("%w: marker %q type %q", domain.ErrMalformedDocument, c.ID, c.Kind)
		}
	}
	seen = map[string]bool{}
	for _, w := range b.Barriers {
		if err := check(domain.LayerBarriers, seen, w.ID, w.Floor); err != nil {
			return err
		}
	}
	return nil
}

const maxIDLength = 64

// validID accepts the ids this editor and the original tool generate:
// letters, digits, '-' and '_'.
func validID(id string) bool {
	if len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
