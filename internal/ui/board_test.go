package ui

import (
	"bytes"
	"context"
	"encoding/json"
	htmlstd "html"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

func sampleFrame() editor.Frame {
	layers := domain.DefaultLayers()
	layers.Marks.Locked = true
	return editor.Frame{
		View: domain.View{Map: "dust2", Floor: domain.FloorGround, Zoom: 1.5, Pan: domain.Position{X: 10, Y: -5}, Layers: layers, Language: domain.LanguageEnglish, Theme: domain.ThemeDark},
		Tool: domain.ToolBarrier,
		Board: domain.Board{
			Units:    []domain.Unit{{ID: "u1", Position: domain.Position{X: 100, Y: 100}, Side: domain.SideDefense, Operator: "Smoke", Label: "CT1", Floor: domain.FloorGround}},
			Marks:    []domain.Mark{{ID: "a1", Start: domain.Position{X: 0, Y: 0}, End: domain.Position{X: 50, Y: 0}, Color: domain.MarkRed, Floor: domain.FloorGround}},
			Callouts: []domain.Callout{{ID: "c1", Position: domain.Position{X: 10, Y: 10}, Kind: domain.CalloutDanger, Floor: domain.FloorGround}},
			Barriers: []domain.Barrier{{ID: "w1", Start: domain.Position{X: 60, Y: 40}, End: domain.Position{X: 20, Y: 10}, Floor: domain.FloorGround}},
		},
		Preview: &editor.Preview{Category: domain.LayerBarriers, Start: domain.Position{X: 1, Y: 1}, End: domain.Position{X: 5, Y: 9}},
		Floors:  []domain.Floor{domain.FloorGround, domain.FloorUpper},
	}
}

func TestBoardRenderOrderAndTransform(t *testing.T) {
	var buf bytes.Buffer
	if err := Board("s1", sampleFrame()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	walls := strings.Index(out, "layer-walls")
	arrows := strings.Index(out, "layer-arrows")
	markers := strings.Index(out, "layer-markers")
	players := strings.Index(out, "layer-players")
	if !(walls >= 0 && walls < arrows && arrows < markers && markers < players) {
		t.Fatalf("unexpected layer order: %d %d %d %d", walls, arrows, markers, players)
	}
	if !strings.Contains(out, `transform="translate(10 -5) scale(1.5)"`) {
		t.Fatalf("missing viewport transform:\n%s", out)
	}
	if !strings.Contains(out, `class="layer-arrows" opacity="0.6"`) {
		t.Fatalf("locked layer should be dimmed")
	}
	if !strings.Contains(out, `x="20" y="10" width="40" height="30"`) {
		t.Fatalf("barrier should render as its bounding rectangle")
	}
	if !strings.Contains(out, `class="preview"`) {
		t.Fatalf("preview missing")
	}
	if !strings.Contains(out, "/sessions/s1/pointer") {
		t.Fatalf("pointer handlers missing")
	}
}

func TestToolbarDisablesLockedTools(t *testing.T) {
	var buf bytes.Buffer
	if err := Toolbar("s1", sampleFrame()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `<button disabled data-on:click="@post(&#34;/sessions/s1/tool/blueArrow&#34;)">Blue arrow</button>`) {
		t.Fatalf("arrow tools should be disabled while arrows are locked:\n%s", out)
	}
	if !strings.Contains(out, `<button class="active" data-on:click="@post(&#34;/sessions/s1/tool/wall&#34;)">Wall</button>`) {
		t.Fatalf("active tool not marked")
	}
	if strings.Contains(out, "/floor/basement") {
		t.Fatalf("dust2 has no basement")
	}
}

func TestPageEscapesUserText(t *testing.T) {
	var buf bytes.Buffer
	items := []domain.Strategy{{ID: "x", Name: `<script>alert(1)</script>`, View: domain.View{Map: "dust2"}}}
	if err := BoardPage("s1", sampleFrame(), items).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Fatalf("strategy name must be escaped")
	}
	if !strings.Contains(buf.String(), `lang="en"`) {
		t.Fatalf("page language missing")
	}
}

func TestTextFallsBack(t *testing.T) {
	if got := Text(domain.LanguageJapanese, "undo"); got != "元に戻す" {
		t.Fatalf("ja: %q", got)
	}
	if got := Text(domain.Language("fr"), "undo"); got != "Undo" {
		t.Fatalf("fallback: %q", got)
	}
	if got := Text(domain.LanguageEnglish, "missing.key"); got != "missing.key" {
		t.Fatalf("unknown key: %q", got)
	}
}

var (
	actionAttr = regexp.MustCompile(`data-on:[a-z0-9_.:]+="([^"]*)"`)
	dataIDAttr = regexp.MustCompile(`data-id="([^"]*)"`)
	postCall   = regexp.MustCompile(`@post\(("(?:[^"\\]|\\.)*")\)`)
)

// postedPaths decodes every datastar action attribute the way a browser
// would and returns the decoded segments of each @post target. It fails
// when an attribute holds anything besides the expected @post calls.
func postedPaths(t *testing.T, out string) [][]string {
	t.Helper()
	var paths [][]string
	for _, m := range actionAttr.FindAllStringSubmatch(out, -1) {
		expr := htmlstd.UnescapeString(m[1])
		calls := postCall.FindAllStringSubmatch(expr, -1)
		if len(calls) != strings.Count(expr, "@post(") {
			t.Fatalf("@post argument is not a single string literal: %s", expr)
		}
		rest := postCall.ReplaceAllString(expr, "")
		if strings.Contains(rest, "alert") {
			t.Fatalf("id escaped its string literal: %s", expr)
		}
		for _, call := range calls {
			var path string
			if err := json.Unmarshal([]byte(call[1]), &path); err != nil {
				t.Fatalf("decode %s: %v", call[1], err)
			}
			path, _, _ = strings.Cut(path, "?")
			var segments []string
			for _, raw := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
				seg, err := url.PathUnescape(raw)
				if err != nil {
					t.Fatalf("segment %q: %v", raw, err)
				}
				segments = append(segments, seg)
			}
			paths = append(paths, segments)
		}
	}
	return paths
}

func TestComponentsKeepHostileIDsInsideAttributes(t *testing.T) {
	hostile := []string{
		`u');alert(1);('`,
		`x" data-on:click="alert(1)`,
		`a/b/../c`,
		`<img src=x onerror=alert(1)>`,
	}
	for _, id := range hostile {
		frame := sampleFrame()
		frame.Board.Units[0].ID = id
		frame.Board.Barriers[0].ID = id
		unit := frame.Board.Units[0]
		strategies := []domain.Strategy{{ID: id, Name: "retake", View: domain.View{Map: "dust2"}}}

		cases := map[string]struct {
			component templ.Component
			want      []string
		}{
			"page":       {BoardPage(id, frame, strategies), []string{"sessions", id, "pointer"}},
			"toolbar":    {Toolbar(id, frame), []string{"sessions", id, "tool", "wall"}},
			"board":      {Board(id, frame), []string{"sessions", id, "wheel"}},
			"map":        {MapConfirm(id, domain.LanguageEnglish, "cache"), []string{"sessions", id, "map", "cache"}},
			"role":       {RoleDialog("s1", domain.LanguageEnglish, unit), []string{"sessions", "s1", "units", id, "operator", "Smoke"}},
			"strategies": {StrategyList("s1", domain.LanguageEnglish, strategies), []string{"sessions", "s1", "strategies", id, "load"}},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				var buf bytes.Buffer
				if err := tc.component.Render(context.Background(), &buf); err != nil {
					t.Fatalf("render: %v", err)
				}
				out := buf.String()
				if strings.Contains(out, "<img") || strings.Contains(out, `" data-on:click="alert`) {
					t.Fatalf("raw id leaked into markup:\n%s", out)
				}
				found := false
				for _, segments := range postedPaths(t, out) {
					if strings.Join(segments, "\x00") == strings.Join(tc.want, "\x00") {
						found = true
					}
				}
				if !found {
					t.Fatalf("no @post to %q in:\n%s", tc.want, out)
				}
				for _, m := range dataIDAttr.FindAllStringSubmatch(out, -1) {
					if got := htmlstd.UnescapeString(m[1]); got != id && got != "a1" && got != "c1" {
						t.Fatalf("data-id decoded to %q", got)
					}
				}
			})
		}
	}
}
