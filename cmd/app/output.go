package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPos(p domain.Position) string {
	return formatFloat(p.X) + "," + formatFloat(p.Y)
}

func formatOutcome(o editor.Outcome) string {
	if o.ID == "" {
		return o.Kind.String()
	}
	return fmt.Sprintf("%s %s %s", o.Kind, o.Category, o.ID)
}

func layerFlags(s domain.LayerState) string {
	flags := []string{}
	if !s.Visible {
		flags = append(flags, "hidden")
	}
	if s.Locked {
		flags = append(flags, "locked")
	}
	if len(flags) == 0 {
		return "on"
	}
	return strings.Join(flags, ",")
}

func printFrame(f editor.Frame) {
	floors := make([]string, 0, len(f.Floors))
	for _, fl := range f.Floors {
		floors = append(floors, string(fl))
	}
	layers := make([]string, 0, len(domain.LayerCategories))
	for _, c := range domain.LayerCategories {
		layers = append(layers, string(c)+"="+layerFlags(f.View.Layers.Get(c)))
	}
	printKV([][2]string{
		{"map", string(f.View.Map)},
		{"floor", fmt.Sprintf("%s (%s)", f.View.Floor, strings.Join(floors, " "))},
		{"zoom", fmt.Sprintf("%d%%", int(f.View.Zoom*100+0.5))},
		{"pan", formatPos(f.View.Pan)},
		{"tool", f.Tool.String()},
		{"side", string(f.Side)},
		{"operator", string(f.Operator)},
		{"layers", strings.Join(layers, " ")},
		{"history", fmt.Sprintf("undo=%t redo=%t", f.CanUndo, f.CanRedo)},
	})

	rows := make([][]string, 0, f.Board.Count())
	for _, u := range f.Board.Units {
		rows = append(rows, []string{string(domain.LayerUnits), u.ID, u.Label + " " + string(u.Operator), formatPos(u.Position)})
	}
	for _, m := range f.Board.Marks {
		rows = append(rows, []string{string(domain.LayerMarks), m.ID, string(m.Color), formatPos(m.Start) + " -> " + formatPos(m.End)})
	}
	for _, c := range f.Board.Callouts {
		rows = append(rows, []string{string(domain.LayerCallouts), c.ID, string(c.Kind), formatPos(c.Position)})
	}
	for _, b := range f.Board.Barriers {
		rows = append(rows, []string{string(domain.LayerBarriers), b.ID, "", formatPos(b.Start) + " -> " + formatPos(b.End)})
	}
	if len(rows) > 0 {
		fmt.Println()
		printTable([]string{"LAYER", "ID", "DETAIL", "POSITION"}, rows)
	}
}

func printMaps(items []domain.MapInfo) {
	rows := make([][]string, 0, len(items))
	for _, m := range items {
		floors := make([]string, 0, len(m.Floors))
		for _, f := range m.Floors {
			floors = append(floors, string(f))
		}
		rows = append(rows, []string{string(m.ID), m.Name, strings.Join(floors, ",")})
	}
	printTable([]string{"ID", "NAME", "FLOORS"}, rows)
}

func printStrategies(items []domain.Strategy) {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			string(s.Map),
			string(s.Floor),
			strconv.Itoa(s.Board.Count()),
			formatTime(s.CreatedAt),
		})
	}
	printTable([]string{"ID", "NAME", "MAP", "FLOOR", "ENTITIES", "CREATED_AT"}, rows)
}

func printActivity(items []domain.Activity) {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(a.ID), 10),
			a.Action,
			orDash(a.StrategyID),
			orDash(a.SessionID),
			orDash(a.Metadata),
			formatTime(a.CreatedAt),
		})
	}
	printTable([]string{"ID", "ACTION", "STRATEGY", "SESSION", "METADATA", "CREATED_AT"}, rows)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
