package editor

import (
	"math"
	"testing"

	"github.com/Ilovko/r6s/internal/domain"
)

func TestWheelOutThenInCompounds(t *testing.T) {
	v := NewViewport()
	v.Wheel(100)
	v.Wheel(-100)
	if math.Abs(v.Zoom-0.99) > 1e-9 {
		t.Fatalf("0.9 then 1.1 should compound to 0.99, got %v", v.Zoom)
	}
	if v.Pan != (domain.Position{}) {
		t.Fatalf("wheel must not pan")
	}
}

func TestZoomClamp(t *testing.T) {
	v := NewViewport()
	for i := 0; i < 50; i++ {
		v.ZoomIn()
	}
	if v.Zoom != MaxZoom {
		t.Fatalf("expected max zoom, got %v", v.Zoom)
	}
	for i := 0; i < 100; i++ {
		v.Wheel(1)
	}
	if v.Zoom != MinZoom {
		t.Fatalf("expected min zoom, got %v", v.Zoom)
	}
}

func TestZoomButtonsAreInverse(t *testing.T) {
	v := NewViewport()
	v.ZoomIn()
	if math.Abs(v.Zoom-1.2) > 1e-9 {
		t.Fatalf("zoom in: %v", v.Zoom)
	}
	v.ZoomOut()
	if math.Abs(v.Zoom-1) > 1e-9 {
		t.Fatalf("zoom out: %v", v.Zoom)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	v := Viewport{Zoom: 2.5, Pan: domain.Position{X: -40, Y: 15}}
	model := domain.Position{X: 12, Y: 7}
	device := v.ToDevice(model)
	if device != (domain.Position{X: -10, Y: 32.5}) {
		t.Fatalf("forward transform: %+v", device)
	}
	back := v.ToModel(device)
	if math.Abs(back.X-model.X) > 1e-9 || math.Abs(back.Y-model.Y) > 1e-9 {
		t.Fatalf("inverse transform: %+v", back)
	}
}

func TestResetView(t *testing.T) {
	e := newTestEditor()
	e.ZoomIn()
	e.SelectTool(domain.ToolPan)
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(30, 30))
	e.PointerUp(pt(30, 30))
	e.ResetView()
	if v := e.State().Viewport; v.Zoom != 1 || v.Pan != (domain.Position{}) {
		t.Fatalf("reset: %+v", v)
	}
}
