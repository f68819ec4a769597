package editor

import (
	"math"

	"github.com/Ilovko/r6s/internal/domain"
)

const (
	unitHalfSize  = 18
	calloutRadius = 15
	markHalfWidth = 5
)

type Target struct {
	Category domain.LayerCategory `json:"category"`
	ID       string               `json:"id"`
}

// hitTest finds the topmost entity under p on the floor. Units draw above
// callouts, callouts above marks, marks above barriers; within a category
// the most recently placed entity is on top. Hidden categories are skipped.
func hitTest(m *Model, layers domain.Layers, floor domain.Floor, p domain.Position) (Target, bool) {
	if layers.Units.Visible {
		for i := len(m.units) - 1; i >= 0; i-- {
			u := m.units[i]
			if u.Floor == floor && math.Abs(p.X-u.Position.X) <= unitHalfSize && math.Abs(p.Y-u.Position.Y) <= unitHalfSize {
				return Target{Category: domain.LayerUnits, ID: u.ID}, true
			}
		}
	}
	if layers.Callouts.Visible {
		for i := len(m.callouts) - 1; i >= 0; i-- {
			c := m.callouts[i]
			if c.Floor == floor && math.Hypot(p.X-c.Position.X, p.Y-c.Position.Y) <= calloutRadius {
				return Target{Category: domain.LayerCallouts, ID: c.ID}, true
			}
		}
	}
	if layers.Marks.Visible {
		for i := len(m.marks) - 1; i >= 0; i-- {
			a := m.marks[i]
			if a.Floor == floor && segmentDistance(p, a.Start, a.End) <= markHalfWidth {
				return Target{Category: domain.LayerMarks, ID: a.ID}, true
			}
		}
	}
	if layers.Barriers.Visible {
		for i := len(m.barriers) - 1; i >= 0; i-- {
			b := m.barriers[i]
			if b.Floor != floor {
				continue
			}
			lo, hi := b.Bounds()
			if p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y {
				return Target{Category: domain.LayerBarriers, ID: b.ID}, true
			}
		}
	}
	return Target{}, false
}

func segmentDistance(p, a, b domain.Position) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
