package domain

import "time"

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Position) Scale(f float64) Position {
	return Position{X: p.X * f, Y: p.Y * f}
}

type Side string

const (
	SideAttack  Side = "attack"
	SideDefense Side = "defense"
)

func (s Side) Valid() bool {
	switch s {
	case SideAttack, SideDefense:
		return true
	}
	return false
}

// LabelPrefix is the label stem used for units of this side.
func (s Side) LabelPrefix() string {
	if s == SideDefense {
		return "CT"
	}
	return "T"
}

type Unit struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Side     Side     `json:"team"`
	Operator Operator `json:"type"`
	Label    string   `json:"label"`
	Floor    Floor    `json:"floor"`
}

type MarkColor string

const (
	MarkBlue MarkColor = "#3b82f6"
	MarkRed  MarkColor = "#ef4444"
)

func (c MarkColor) Valid() bool {
	switch c {
	case MarkBlue, MarkRed:
		return true
	}
	return false
}

type Mark struct {
	ID    string    `json:"id"`
	Start Position  `json:"start"`
	End   Position  `json:"end"`
	Color MarkColor `json:"color"`
	Floor Floor     `json:"floor"`
}

type CalloutKind string

const (
	CalloutDanger    CalloutKind = "danger"
	CalloutWatch     CalloutKind = "watch"
	CalloutObjective CalloutKind = "objective"
)

func (k CalloutKind) Valid() bool {
	switch k {
	case CalloutDanger, CalloutWatch, CalloutObjective:
		return true
	}
	return false
}

type Callout struct {
	ID       string      `json:"id"`
	Position Position    `json:"position"`
	Kind     CalloutKind `json:"type"`
	Floor    Floor       `json:"floor"`
}

type Barrier struct {
	ID    string   `json:"id"`
	Start Position `json:"start"`
	End   Position `json:"end"`
	Floor Floor    `json:"floor"`
}

// Bounds returns the axis-aligned rectangle spanned by the two corners.
func (b Barrier) Bounds() (lo, hi Position) {
	lo, hi = b.Start, b.End
	if hi.X < lo.X {
		lo.X, hi.X = hi.X, lo.X
	}
	if hi.Y < lo.Y {
		lo.Y, hi.Y = hi.Y, lo.Y
	}
	return lo, hi
}

// Board is a value copy of all four entity collections.
type Board struct {
	Units    []Unit    `json:"players"`
	Marks    []Mark    `json:"arrows"`
	Callouts []Callout `json:"markers"`
	Barriers []Barrier `json:"walls"`
}

func (b Board) Empty() bool {
	return len(b.Units) == 0 && len(b.Marks) == 0 && len(b.Callouts) == 0 && len(b.Barriers) == 0
}

func (b Board) Count() int {
	return len(b.Units) + len(b.Marks) + len(b.Callouts) + len(b.Barriers)
}

// Clone returns a deep copy. Empty collections come back nil.
func (b Board) Clone() Board {
	return Board{
		Units:    cloneSlice(b.Units),
		Marks:    cloneSlice(b.Marks),
		Callouts: cloneSlice(b.Callouts),
		Barriers: cloneSlice(b.Barriers),
	}
}

func cloneSlice[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

type LayerCategory string

const (
	LayerUnits    LayerCategory = "players"
	LayerMarks    LayerCategory = "arrows"
	LayerCallouts LayerCategory = "markers"
	LayerBarriers LayerCategory = "walls"
)

var LayerCategories = []LayerCategory{LayerUnits, LayerMarks, LayerCallouts, LayerBarriers}

func ParseLayerCategory(raw string) (LayerCategory, error) {
	for _, c := range LayerCategories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", ErrUnknownLayer
}

type LayerState struct {
	Visible bool `json:"visible"`
	Locked  bool `json:"locked"`
}

type Layers struct {
	Units    LayerState `json:"players"`
	Marks    LayerState `json:"arrows"`
	Callouts LayerState `json:"markers"`
	Barriers LayerState `json:"walls"`
}

func DefaultLayers() Layers {
	open := LayerState{Visible: true}
	return Layers{Units: open, Marks: open, Callouts: open, Barriers: open}
}

func (l Layers) Get(c LayerCategory) LayerState {
	switch c {
	case LayerUnits:
		return l.Units
	case LayerMarks:
		return l.Marks
	case LayerCallouts:
		return l.Callouts
	case LayerBarriers:
		return l.Barriers
	}
	return LayerState{}
}

func (l *Layers) Set(c LayerCategory, s LayerState) {
	switch c {
	case LayerUnits:
		l.Units = s
	case LayerMarks:
		l.Marks = s
	case LayerCallouts:
		l.Callouts = s
	case LayerBarriers:
		l.Barriers = s
	}
}

type Language string

const (
	LanguageKorean   Language = "ko"
	LanguageEnglish  Language = "en"
	LanguageJapanese Language = "ja"
)

func (l Language) Valid() bool {
	switch l {
	case LanguageKorean, LanguageEnglish, LanguageJapanese:
		return true
	}
	return false
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// View is the non-entity session state persisted next to a board.
type View struct {
	Map      MapID    `json:"map"`
	Floor    Floor    `json:"floor"`
	Zoom     float64  `json:"zoom"`
	Pan      Position `json:"pan"`
	Layers   Layers   `json:"layers"`
	Language Language `json:"language"`
	Theme    Theme    `json:"theme"`
}

type Strategy struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Board
	View
}

type Activity struct {
	ID         uint      `json:"id"`
	Action     string    `json:"action"`
	StrategyID string    `json:"strategy_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	Metadata   string    `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
