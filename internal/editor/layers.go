package editor

import "github.com/Ilovko/r6s/internal/domain"

const lockedOpacity = 0.6

// Interactable reports whether entities of the category may be created,
// dragged or erased.
func Interactable(l domain.Layers, c domain.LayerCategory) bool {
	s := l.Get(c)
	return s.Visible && !s.Locked
}

// Opacity is the render opacity for a visible category.
func Opacity(l domain.Layers, c domain.LayerCategory) float64 {
	if l.Get(c).Locked {
		return lockedOpacity
	}
	return 1
}

func toggleVisible(l *domain.Layers, c domain.LayerCategory) {
	s := l.Get(c)
	s.Visible = !s.Visible
	l.Set(c, s)
}

func toggleLocked(l *domain.Layers, c domain.LayerCategory) {
	s := l.Get(c)
	s.Locked = !s.Locked
	l.Set(c, s)
}
