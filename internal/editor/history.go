package editor

import "github.com/Ilovko/r6s/internal/domain"

const HistoryLimit = 50

// History is a bounded list of board snapshots with a cursor. The snapshot
// at the cursor always equals the live board.
type History struct {
	snapshots []domain.Board
	index     int
	limit     int
}

func NewHistory(baseline domain.Board, limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &History{snapshots: []domain.Board{baseline.Clone()}, limit: limit}
}

// Record drops any redo branch, appends b and trims the oldest snapshots
// beyond the limit.
func (h *History) Record(b domain.Board) {
	h.snapshots = append(h.snapshots[:h.index+1], b.Clone())
	if over := len(h.snapshots) - h.limit; over > 0 {
		h.snapshots = append([]domain.Board(nil), h.snapshots[over:]...)
	}
	h.index = len(h.snapshots) - 1
}

func (h *History) Undo() (domain.Board, bool) {
	if !h.CanUndo() {
		return domain.Board{}, false
	}
	h.index--
	return h.snapshots[h.index].Clone(), true
}

func (h *History) Redo() (domain.Board, bool) {
	if !h.CanRedo() {
		return domain.Board{}, false
	}
	h.index++
	return h.snapshots[h.index].Clone(), true
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.snapshots)-1 }

func (h *History) Len() int   { return len(h.snapshots) }
func (h *History) Index() int { return h.index }
