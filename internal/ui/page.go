package ui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

const datastarScript = `<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"></script>`

func html(build func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		build(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string { return templ.EscapeString(s) }

// sessionPath joins path segments under /sessions/{id}, escaping each one.
func sessionPath(sessionID string, segments ...string) string {
	var b strings.Builder
	b.WriteString("/sessions/")
	b.WriteString(url.PathEscape(sessionID))
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

// postAction is a datastar @post expression ready for a double quoted
// attribute. The path is a JSON string literal, then attribute escaped.
func postAction(path string) string {
	arg, err := templ.JSONString(path)
	if err != nil {
		arg = `""`
	}
	return esc("@post(" + arg + ")")
}

// BoardPage is the full editor page for one session.
func BoardPage(sessionID string, frame editor.Frame, strategies []domain.Strategy) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := frame.View.Language
		colors := paletteFor(frame.View.Theme)
		head := fmt.Sprintf(`<!doctype html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
%s
<style>
body { margin:0; font-family:system-ui,sans-serif; background:%s; color:%s; }
.shell { display:flex; gap:12px; padding:12px; }
.panel { background:%s; border:1px solid %s; border-radius:8px; padding:8px; }
button.active { outline:2px solid #3b82f6; }
button[disabled] { opacity:.4; }
.flash.error { color:#dc2626; }
</style>
</head>
<body data-signals="{phase:'',x:0,y:0,deltaY:0,key:'',code:'',shift:false,ctrl:false,meta:false,inTextInput:false,strategyName:''}"
 data-on:keydown__window="$key=evt.key; $code=evt.code; $shift=evt.shiftKey; $ctrl=evt.ctrlKey; $meta=evt.metaKey; $inTextInput=['INPUT','TEXTAREA','SELECT'].includes(evt.target.tagName); %s">
<div id="flash"></div>
<div class="shell">
`, lang, esc(Text(lang, "title")), datastarScript, colors.Page, colors.Text, colors.Panel, colors.Border, postAction(sessionPath(sessionID, "key")))
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		for _, c := range []templ.Component{
			Toolbar(sessionID, frame),
			Board(sessionID, frame),
			StrategyList(sessionID, lang, strategies),
		} {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>\n</body>\n</html>\n")
		return err
	})
}

// Toolbar lists tools, sides, floors, maps and layer toggles. Tools whose
// layer is hidden or locked are disabled.
func Toolbar(sessionID string, frame editor.Frame) templ.Component {
	return html(func(b *strings.Builder) {
		lang := frame.View.Language
		path := func(segments ...string) string { return sessionPath(sessionID, segments...) }
		b.WriteString(`<aside id="toolbar" class="panel">`)

		b.WriteString(`<section class="tools">`)
		for _, t := range domain.Tools() {
			disabled := false
			if c, ok := t.Category(); ok && !editor.Interactable(frame.View.Layers, c) {
				disabled = true
			}
			b.WriteString(button(Text(lang, "tool."+t.String()), path("tool", t.String()), t == frame.Tool, disabled))
		}
		b.WriteString(`</section>`)

		b.WriteString(`<section class="roster">`)
		for _, info := range domain.Roles() {
			label := fmt.Sprintf("%s · %s", Text(lang, "side."+string(info.Side)), info.Role)
			active := info.Side == frame.Side && containsOperator(info.Operators, frame.Operator)
			b.WriteString(button(label, path("role", string(info.Side), string(info.Role)), active, false))
		}
		b.WriteString(fmt.Sprintf(`<div class="operator">%s</div>`, esc(string(frame.Operator))))
		b.WriteString(`</section>`)

		b.WriteString(`<section class="floors">`)
		for _, f := range frame.Floors {
			b.WriteString(button(domain.FloorName(f, lang), path("floor", string(f)), f == frame.View.Floor, false))
		}
		b.WriteString(`</section>`)

		b.WriteString(`<section class="maps">`)
		for _, m := range domain.Maps() {
			b.WriteString(button(m.Name, path("map", string(m.ID)), m.ID == frame.View.Map, false))
		}
		b.WriteString(`</section>`)

		b.WriteString(`<section class="layers">`)
		for _, c := range domain.LayerCategories {
			s := frame.View.Layers.Get(c)
			name := Text(lang, "layer."+string(c))
			b.WriteString(fmt.Sprintf(`<div class="layer">%s `, esc(name)))
			b.WriteString(button(visibilityGlyph(s.Visible), path("layers", string(c), "visible"), s.Visible, false))
			b.WriteString(button(lockGlyph(s.Locked), path("layers", string(c), "locked"), s.Locked, false))
			b.WriteString(`</div>`)
		}
		b.WriteString(`</section>`)

		b.WriteString(`<section class="history">`)
		b.WriteString(button(Text(lang, "undo"), path("undo"), false, !frame.CanUndo))
		b.WriteString(button(Text(lang, "redo"), path("redo"), false, !frame.CanRedo))
		b.WriteString(button(Text(lang, "clear"), path("clear"), false, false))
		b.WriteString(button(Text(lang, "zoomIn"), path("zoom", "in"), false, false))
		b.WriteString(button(Text(lang, "zoomOut"), path("zoom", "out"), false, false))
		b.WriteString(button(Text(lang, "resetView"), path("zoom", "reset"), false, false))
		b.WriteString(fmt.Sprintf(`<span class="zoom">%d%%</span>`, int(frame.View.Zoom*100+0.5)))
		b.WriteString(`</section>`)

		b.WriteString(`</aside>`)
	})
}

// MapConfirm asks before a map change discards the board.
func MapConfirm(sessionID string, lang domain.Language, mapID domain.MapID) templ.Component {
	return html(func(b *strings.Builder) {
		b.WriteString(fmt.Sprintf(`<div id="flash" class="flash confirm">%s `, esc(Text(lang, "confirmMapChange"))))
		b.WriteString(button("OK", sessionPath(sessionID, "map", string(mapID))+"?confirm=1", false, false))
		b.WriteString(`</div>`)
	})
}

// RoleDialog offers the operators of a unit's side.
func RoleDialog(sessionID string, lang domain.Language, unit domain.Unit) templ.Component {
	return html(func(b *strings.Builder) {
		b.WriteString(fmt.Sprintf(`<div id="flash" class="flash dialog"><strong>%s %s</strong>`, esc(Text(lang, "roleChange")), esc(unit.Label)))
		for _, info := range domain.Roles() {
			if info.Side != unit.Side {
				continue
			}
			for _, op := range info.Operators {
				b.WriteString(button(string(op), sessionPath(sessionID, "units", unit.ID, "operator", string(op)), op == unit.Operator, false))
			}
		}
		b.WriteString(`</div>`)
	})
}

func StrategyList(sessionID string, lang domain.Language, items []domain.Strategy) templ.Component {
	return html(func(b *strings.Builder) {
		b.WriteString(`<aside id="strategies" class="panel">`)
		b.WriteString(fmt.Sprintf(`<h3>%s</h3>`, esc(Text(lang, "strategies"))))
		b.WriteString(`<input data-bind:strategy-name type="text">`)
		b.WriteString(button(Text(lang, "save"), sessionPath(sessionID, "strategies"), false, false))
		b.WriteString(fmt.Sprintf(`<a href="%s" download>%s</a>`, esc(sessionPath(sessionID, "export")), esc(Text(lang, "export"))))
		if len(items) == 0 {
			b.WriteString(fmt.Sprintf(`<p class="empty">%s</p>`, esc(Text(lang, "noStrategies"))))
		}
		b.WriteString(`<ul>`)
		for _, s := range items {
			b.WriteString(fmt.Sprintf(`<li data-id="%s">%s <small>%s · %s</small> `,
				esc(s.ID), esc(s.Name), esc(string(s.Map)), s.CreatedAt.Format("2006-01-02")))
			b.WriteString(button(Text(lang, "load"), sessionPath(sessionID, "strategies", s.ID, "load"), false, false))
			b.WriteString(button(Text(lang, "delete"), sessionPath(sessionID, "strategies", s.ID, "delete"), false, false))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul></aside>`)
	})
}

func Flash(message, kind string) templ.Component {
	return html(func(b *strings.Builder) {
		b.WriteString(fmt.Sprintf(`<div id="flash" class="flash %s">%s</div>`, esc(kind), esc(message)))
	})
}

func button(label, path string, active, disabled bool) string {
	class := ""
	if active {
		class = ` class="active"`
	}
	attr := ""
	if disabled {
		attr = " disabled"
	}
	return fmt.Sprintf(`<button%s%s data-on:click="%s">%s</button>`, class, attr, postAction(path), esc(label))
}

func containsOperator(ops []domain.Operator, op domain.Operator) bool {
	for _, candidate := range ops {
		if candidate == op {
			return true
		}
	}
	return false
}

func visibilityGlyph(visible bool) string {
	if visible {
		return "👁"
	}
	return "—"
}

func lockGlyph(locked bool) string {
	if locked {
		return "🔒"
	}
	return "🔓"
}
