package editor

import "github.com/Ilovko/r6s/internal/domain"

const (
	MinZoom = 0.1
	MaxZoom = 5.0

	wheelOut   = 0.9
	wheelIn    = 1.1
	buttonStep = 1.2
)

// Viewport maps model coordinates to device coordinates:
// device = model*zoom + pan. Zoom is anchored at the origin, so the point
// under the cursor drifts while zooming.
type Viewport struct {
	Zoom float64
	Pan  domain.Position
}

func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

func (v Viewport) ToDevice(p domain.Position) domain.Position {
	return p.Scale(v.Zoom).Add(v.Pan)
}

func (v Viewport) ToModel(p domain.Position) domain.Position {
	return p.Sub(v.Pan).Scale(1 / v.Zoom)
}

// Wheel applies a scroll gesture. Positive deltaY scrolls away and zooms out.
func (v *Viewport) Wheel(deltaY float64) {
	if deltaY > 0 {
		v.setZoom(v.Zoom * wheelOut)
		return
	}
	v.setZoom(v.Zoom * wheelIn)
}

func (v *Viewport) ZoomIn()  { v.setZoom(v.Zoom * buttonStep) }
func (v *Viewport) ZoomOut() { v.setZoom(v.Zoom / buttonStep) }

func (v *Viewport) Reset() {
	v.Zoom = 1
	v.Pan = domain.Position{}
}

func (v *Viewport) setZoom(z float64) {
	v.Zoom = ClampZoom(z)
}

func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
