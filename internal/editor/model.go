package editor

import "github.com/Ilovko/r6s/internal/domain"

// Model holds the four entity collections in placement order. The order is
// the render order inside each category.
type Model struct {
	units    []domain.Unit
	marks    []domain.Mark
	callouts []domain.Callout
	barriers []domain.Barrier
}

func NewModel() *Model {
	return &Model{}
}

func (m *Model) AddUnit(u domain.Unit)       { m.units = append(m.units, u) }
func (m *Model) AddMark(a domain.Mark)       { m.marks = append(m.marks, a) }
func (m *Model) AddCallout(c domain.Callout) { m.callouts = append(m.callouts, c) }
func (m *Model) AddBarrier(b domain.Barrier) { m.barriers = append(m.barriers, b) }

func (m *Model) RemoveUnit(id string) bool {
	var ok bool
	m.units, ok = removeByID(m.units, id, func(u domain.Unit) string { return u.ID })
	return ok
}

func (m *Model) RemoveMark(id string) bool {
	var ok bool
	m.marks, ok = removeByID(m.marks, id, func(a domain.Mark) string { return a.ID })
	return ok
}

func (m *Model) RemoveCallout(id string) bool {
	var ok bool
	m.callouts, ok = removeByID(m.callouts, id, func(c domain.Callout) string { return c.ID })
	return ok
}

func (m *Model) RemoveBarrier(id string) bool {
	var ok bool
	m.barriers, ok = removeByID(m.barriers, id, func(b domain.Barrier) string { return b.ID })
	return ok
}

func (m *Model) Unit(id string) (domain.Unit, bool) {
	for _, u := range m.units {
		if u.ID == id {
			return u, true
		}
	}
	return domain.Unit{}, false
}

func (m *Model) Callout(id string) (domain.Callout, bool) {
	for _, c := range m.callouts {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Callout{}, false
}

func (m *Model) Barrier(id string) (domain.Barrier, bool) {
	for _, b := range m.barriers {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Barrier{}, false
}

func (m *Model) MoveUnit(id string, pos domain.Position) bool {
	for i := range m.units {
		if m.units[i].ID == id {
			m.units[i].Position = pos
			return true
		}
	}
	return false
}

func (m *Model) SetUnitOperator(id string, op domain.Operator) bool {
	for i := range m.units {
		if m.units[i].ID == id {
			m.units[i].Operator = op
			return true
		}
	}
	return false
}

func (m *Model) MoveCallout(id string, pos domain.Position) bool {
	for i := range m.callouts {
		if m.callouts[i].ID == id {
			m.callouts[i].Position = pos
			return true
		}
	}
	return false
}

// TranslateBarrier shifts both corners of a barrier by delta.
func (m *Model) TranslateBarrier(id string, delta domain.Position) bool {
	for i := range m.barriers {
		if m.barriers[i].ID == id {
			m.barriers[i].Start = m.barriers[i].Start.Add(delta)
			m.barriers[i].End = m.barriers[i].End.Add(delta)
			return true
		}
	}
	return false
}

// OnFloor projects every collection onto one floor. The result is a copy.
func (m *Model) OnFloor(floor domain.Floor) domain.Board {
	var b domain.Board
	for _, u := range m.units {
		if u.Floor == floor {
			b.Units = append(b.Units, u)
		}
	}
	for _, a := range m.marks {
		if a.Floor == floor {
			b.Marks = append(b.Marks, a)
		}
	}
	for _, c := range m.callouts {
		if c.Floor == floor {
			b.Callouts = append(b.Callouts, c)
		}
	}
	for _, w := range m.barriers {
		if w.Floor == floor {
			b.Barriers = append(b.Barriers, w)
		}
	}
	return b
}

func (m *Model) Clear() {
	m.units, m.marks, m.callouts, m.barriers = nil, nil, nil, nil
}

func (m *Model) Empty() bool {
	return len(m.units) == 0 && len(m.marks) == 0 && len(m.callouts) == 0 && len(m.barriers) == 0
}

// Snapshot returns a deep copy of all four collections.
func (m *Model) Snapshot() domain.Board {
	return domain.Board{
		Units:    m.units,
		Marks:    m.marks,
		Callouts: m.callouts,
		Barriers: m.barriers,
	}.Clone()
}

// Restore replaces every collection with a copy of b.
func (m *Model) Restore(b domain.Board) {
	c := b.Clone()
	m.units, m.marks, m.callouts, m.barriers = c.Units, c.Marks, c.Callouts, c.Barriers
}

func removeByID[T any](items []T, id string, key func(T) string) ([]T, bool) {
	for i, item := range items {
		if key(item) == id {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}
