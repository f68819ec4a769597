package editor

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/Ilovko/r6s/internal/domain"
)

func populated(t *testing.T) *Editor {
	t.Helper()
	e := newTestEditor()
	click(e, pt(100, 100))
	e.SelectTool(domain.ToolMarkRed)
	e.PointerDown(pt(0, 0))
	e.PointerUp(pt(80, 40))
	e.SelectTool(domain.ToolCalloutObjective)
	click(e, pt(300, 300))
	e.SetFloor(domain.FloorUpper)
	e.SelectTool(domain.ToolBarrier)
	e.PointerDown(pt(10, 10))
	e.PointerUp(pt(60, 20))
	e.ZoomIn()
	e.ToggleLayerLocked(domain.LayerMarks)
	if err := e.SetTheme(domain.ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	return e
}

func TestExportImportRoundTrip(t *testing.T) {
	src := populated(t)
	data, err := src.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newTestEditor()
	if err := dst.Import(data); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(dst.Board(), src.Board()) {
		t.Fatalf("board mismatch:\n%+v\n%+v", dst.Board(), src.Board())
	}
	if !reflect.DeepEqual(dst.View(), src.View()) {
		t.Fatalf("view mismatch:\n%+v\n%+v", dst.View(), src.View())
	}
	if !dst.CanUndo() {
		t.Fatalf("import should be recorded")
	}
}

func TestExportUsesDocumentFieldNames(t *testing.T) {
	data, err := newTestEditor().Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"players", "arrows", "markers", "walls", "map", "floor", "zoom", "pan", "layers", "language", "theme"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing %q in export", key)
		}
	}
	if string(raw["players"]) != "[]" {
		t.Fatalf("empty collections should export as arrays, got %s", raw["players"])
	}
}

func TestImportKeepsAbsentFields(t *testing.T) {
	e := populated(t)
	before := e.Board()
	view := e.View()

	if err := e.Import([]byte(`{"theme":"light","layers":{"walls":{"visible":false,"locked":false}}}`)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(e.Board(), before) {
		t.Fatalf("entities changed by a view-only import")
	}
	got := e.View()
	if got.Theme != domain.ThemeLight {
		t.Fatalf("theme not applied")
	}
	if got.Layers.Barriers.Visible {
		t.Fatalf("walls layer not applied")
	}
	if !got.Layers.Marks.Locked {
		t.Fatalf("arrows layer flags should be kept")
	}
	if got.Zoom != view.Zoom || got.Map != view.Map || got.Floor != view.Floor {
		t.Fatalf("absent view fields changed: %+v", got)
	}
}

func TestImportReplacesPresentCollectionsOnly(t *testing.T) {
	e := populated(t)
	doc := `{"players":[{"id":"p1","position":{"x":5,"y":5},"team":"defense","type":"Smoke","label":"CT1","floor":"ground"}]}`
	if err := e.Import([]byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}
	b := e.Board()
	if len(b.Units) != 1 || b.Units[0].ID != "p1" {
		t.Fatalf("players not replaced: %+v", b.Units)
	}
	if len(b.Marks) != 1 || len(b.Callouts) != 1 || len(b.Barriers) != 1 {
		t.Fatalf("absent collections should be kept: %+v", b)
	}
}

func TestImportFailureLeavesStateUntouched(t *testing.T) {
	cases := map[string]string{
		"malformed":        `{"players": [`,
		"unknown map":      `{"map":"nuke"}`,
		"floor not on map": `{"map":"cache","floor":"upper"}`,
		"entity off map":   `{"walls":[{"id":"w","start":{"x":0,"y":0},"end":{"x":1,"y":1},"floor":"basement"}]}`,
		"duplicate ids":    `{"markers":[{"id":"m","position":{"x":0,"y":0},"type":"danger","floor":"ground"},{"id":"m","position":{"x":1,"y":1},"type":"watch","floor":"ground"}]}`,
		"bad color":        `{"arrows":[{"id":"a","start":{"x":0,"y":0},"end":{"x":1,"y":1},"color":"green","floor":"ground"}]}`,
		"bad language":     `{"language":"fr"}`,
		"wrong type":       `{"zoom":"big"}`,
		"quote in id":      `{"players":[{"id":"u');alert(1);('","position":{"x":5,"y":5},"team":"attack","type":"Ash","label":"T1","floor":"ground"}]}`,
		"slash in id":      `{"walls":[{"id":"w/../x","start":{"x":0,"y":0},"end":{"x":1,"y":1},"floor":"ground"}]}`,
		"markup in id":     `{"markers":[{"id":"<b>","position":{"x":0,"y":0},"type":"danger","floor":"ground"}]}`,
		"unknown operator": `{"players":[{"id":"p1","position":{"x":5,"y":5},"team":"attack","type":"Nobody","label":"T1","floor":"ground"}]}`,
		"foreign operator": `{"players":[{"id":"p1","position":{"x":5,"y":5},"team":"defense","type":"Ash","label":"CT1","floor":"ground"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			e := populated(t)
			board, view, index := e.Board(), e.View(), e.history.Index()
			err := e.Import([]byte(doc))
			if !errors.Is(err, domain.ErrMalformedDocument) {
				t.Fatalf("expected malformed document error, got %v", err)
			}
			if !reflect.DeepEqual(e.Board(), board) || !reflect.DeepEqual(e.View(), view) {
				t.Fatalf("failed import mutated state")
			}
			if e.history.Index() != index {
				t.Fatalf("failed import recorded history")
			}
		})
	}
}

func TestImportAcceptsOriginalToolIDs(t *testing.T) {
	e := newTestEditor()
	doc := `{"players":[{"id":"attack-1699999999999","position":{"x":5,"y":5},"team":"attack","type":"Ash","label":"T1","floor":"ground"}],` +
		`"markers":[{"id":"marker-1699999999999","position":{"x":1,"y":1},"type":"watch","floor":"ground"}]}`
	if err := e.Import([]byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if b := e.Board(); len(b.Units) != 1 || len(b.Callouts) != 1 {
		t.Fatalf("unexpected board %+v", b)
	}
}

func TestImportMapWithoutFloorUsesFirstFloor(t *testing.T) {
	e := newTestEditor()
	e.SetFloor(domain.FloorUpper)
	if err := e.Import([]byte(`{"map":"cache"}`)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if s := e.State(); s.Map != "cache" || s.Floor != domain.FloorGround {
		t.Fatalf("unexpected map/floor %s/%s", s.Map, s.Floor)
	}
}

func TestExportFilename(t *testing.T) {
	e := newTestEditor()
	e.SetFloor(domain.FloorUpper)
	if got := e.ExportFilename(); got != "fps-strategy-dust2-upper.json" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestLoadReplacesEverything(t *testing.T) {
	src := populated(t)
	s := domain.Strategy{ID: "s1", Name: "retake", Board: src.Board(), View: src.View()}

	e := newTestEditor()
	click(e, pt(500, 500))
	if err := e.Load(s); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(e.Board(), s.Board) || !reflect.DeepEqual(e.View(), s.View) {
		t.Fatalf("load did not replace state")
	}

	bad := s
	bad.View.Floor = "attic"
	if err := e.Load(bad); err == nil {
		t.Fatalf("expected error for unknown floor")
	}
	if !reflect.DeepEqual(e.Board(), s.Board) {
		t.Fatalf("failed load mutated the board")
	}
}

func TestPropertyExportImportRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := newTestEditor()
		steps := rapid.IntRange(0, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			applyRandomAction(t, src)
		}
		if rapid.Bool().Draw(t, "upper") {
			src.SetFloor(domain.FloorUpper)
		}
		for i := rapid.IntRange(0, 3).Draw(t, "wheel"); i > 0; i-- {
			src.Wheel(rapid.Float64Range(-5, 5).Draw(t, "delta"))
		}
		_ = src.SetLanguage(rapid.SampledFrom([]domain.Language{domain.LanguageKorean, domain.LanguageEnglish, domain.LanguageJapanese}).Draw(t, "lang"))

		data, err := src.Export()
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		dst := newTestEditor()
		if err := dst.Import(data); err != nil {
			t.Fatalf("import: %v\n%s", err, data)
		}
		if !reflect.DeepEqual(dst.Board(), src.Board()) || !reflect.DeepEqual(dst.View(), src.View()) {
			t.Fatalf("round trip mismatch for %s", strings.TrimSpace(string(data)))
		}
	})
}
