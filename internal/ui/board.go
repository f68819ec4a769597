package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

const (
	boardWidth  = 1200
	boardHeight = 800
)

// Board renders the active floor as an SVG element with id "board". Draw
// order is walls, arrows, markers, operators.
func Board(sessionID string, frame editor.Frame) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, renderBoard(sessionID, frame))
		return err
	})
}

func renderBoard(sessionID string, frame editor.Frame) string {
	view := frame.View
	colors := paletteFor(view.Theme)
	background := "#d4a574"
	if m, err := domain.LookupMap(view.Map); err == nil {
		background = m.Background[view.Theme]
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<svg id="board" xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" data-tool="%s" style="background:%s;touch-action:none"`,
		boardWidth, boardHeight, frame.Tool, background))
	b.WriteString(pointerHandlers(sessionID))
	b.WriteString(">\n")
	b.WriteString(`  <defs><marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto"><polygon points="0 0, 10 3.5, 0 7" fill="context-stroke"/></marker></defs>` + "\n")
	b.WriteString(fmt.Sprintf(`  <g transform="translate(%s %s) scale(%s)">`+"\n",
		formatFloat(view.Pan.X), formatFloat(view.Pan.Y), formatFloat(view.Zoom)))

	layers := view.Layers
	group := func(c domain.LayerCategory, elements []string) {
		if len(elements) == 0 {
			return
		}
		b.WriteString(fmt.Sprintf(`    <g class="layer-%s" opacity="%s">`+"\n", c, formatFloat(editor.Opacity(layers, c))))
		for _, el := range elements {
			b.WriteString("      ")
			b.WriteString(el)
			b.WriteString("\n")
		}
		b.WriteString("    </g>\n")
	}
	group(domain.LayerBarriers, renderBarriers(frame.Board.Barriers, colors))
	group(domain.LayerMarks, renderMarks(frame.Board.Marks))
	group(domain.LayerCallouts, renderCallouts(frame.Board.Callouts))
	group(domain.LayerUnits, renderUnits(frame.Board.Units, colors))

	if p := frame.Preview; p != nil {
		b.WriteString("    ")
		b.WriteString(renderPreview(*p, colors))
		b.WriteString("\n")
	}
	b.WriteString("  </g>\n</svg>")
	return b.String()
}

func pointerHandlers(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	post := postAction(sessionPath(sessionID, "pointer"))
	wheel := postAction(sessionPath(sessionID, "wheel"))
	return fmt.Sprintf(` data-on:pointerdown="$phase='down'; $x=evt.offsetX; $y=evt.offsetY; %[1]s"`+
		` data-on:pointermove__throttle.30ms="$phase='move'; $x=evt.offsetX; $y=evt.offsetY; %[1]s"`+
		` data-on:pointerup="$phase='up'; $x=evt.offsetX; $y=evt.offsetY; %[1]s"`+
		` data-on:wheel__prevent="$deltaY=evt.deltaY; %[2]s"`, post, wheel)
}

func renderBarriers(items []domain.Barrier, colors palette) []string {
	out := make([]string, 0, len(items))
	for _, w := range items {
		lo, hi := w.Bounds()
		out = append(out, fmt.Sprintf(`<rect data-id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="2"/>`,
			templ.EscapeString(w.ID), formatFloat(lo.X), formatFloat(lo.Y), formatFloat(hi.X-lo.X), formatFloat(hi.Y-lo.Y), colors.Barrier, colors.Border))
	}
	return out
}

func renderMarks(items []domain.Mark) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, fmt.Sprintf(`<line data-id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="3" marker-end="url(#arrowhead)"/>`,
			templ.EscapeString(a.ID), formatFloat(a.Start.X), formatFloat(a.Start.Y), formatFloat(a.End.X), formatFloat(a.End.Y), a.Color))
	}
	return out
}

func renderCallouts(items []domain.Callout) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		glyph := calloutGlyphs[c.Kind]
		out = append(out, fmt.Sprintf(`<g data-id="%s"><circle cx="%s" cy="%s" r="15" fill="%s"/><text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" fill="#fff" font-size="16">%s</text></g>`,
			templ.EscapeString(c.ID), formatFloat(c.Position.X), formatFloat(c.Position.Y), glyph.Color,
			formatFloat(c.Position.X), formatFloat(c.Position.Y), glyph.Glyph))
	}
	return out
}

func renderUnits(items []domain.Unit, colors palette) []string {
	out := make([]string, 0, len(items))
	for _, u := range items {
		fill := colors.Attack
		if u.Side == domain.SideDefense {
			fill = colors.Defense
		}
		stroke := fill
		if info, ok := domain.RoleOf(u.Operator); ok {
			stroke = info.Color
		}
		out = append(out, fmt.Sprintf(`<g data-id="%s"><rect x="%s" y="%s" width="36" height="36" rx="6" fill="%s" stroke="%s" stroke-width="3"/><text x="%s" y="%s" text-anchor="middle" font-size="11" fill="#fff">%s</text><title>%s</title></g>`,
			templ.EscapeString(u.ID), formatFloat(u.Position.X-18), formatFloat(u.Position.Y-18), fill, stroke,
			formatFloat(u.Position.X), formatFloat(u.Position.Y+4), templ.EscapeString(u.Label), templ.EscapeString(string(u.Operator))))
	}
	return out
}

func renderPreview(p editor.Preview, colors palette) string {
	if p.Category == domain.LayerBarriers {
		lo, hi := domain.Barrier{Start: p.Start, End: p.End}.Bounds()
		return fmt.Sprintf(`<rect class="preview" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-dasharray="6 4"/>`,
			formatFloat(lo.X), formatFloat(lo.Y), formatFloat(hi.X-lo.X), formatFloat(hi.Y-lo.Y), colors.Barrier)
	}
	return fmt.Sprintf(`<line class="preview" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="3" stroke-dasharray="6 4" marker-end="url(#arrowhead)"/>`,
		formatFloat(p.Start.X), formatFloat(p.Start.Y), formatFloat(p.End.X), formatFloat(p.End.Y), p.Color)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
