package domain

import "fmt"

// Tool is the active pointer tool. The set is closed; consumers switch over
// every value.
type Tool int

const (
	ToolUnit Tool = iota
	ToolMarkBlue
	ToolMarkRed
	ToolMove
	ToolErase
	ToolPan
	ToolBarrier
	ToolCalloutDanger
	ToolCalloutWatch
	ToolCalloutObjective
)

var toolNames = map[Tool]string{
	ToolUnit:             "player",
	ToolMarkBlue:         "blueArrow",
	ToolMarkRed:          "redArrow",
	ToolMove:             "move",
	ToolErase:            "erase",
	ToolPan:              "pan",
	ToolBarrier:          "wall",
	ToolCalloutDanger:    "danger",
	ToolCalloutWatch:     "watch",
	ToolCalloutObjective: "objective",
}

func Tools() []Tool {
	return []Tool{
		ToolUnit, ToolMarkBlue, ToolMarkRed, ToolMove, ToolErase,
		ToolPan, ToolBarrier, ToolCalloutDanger, ToolCalloutWatch, ToolCalloutObjective,
	}
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

func ParseTool(raw string) (Tool, error) {
	for tool, name := range toolNames {
		if name == raw {
			return tool, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, raw)
}

func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tool) UnmarshalText(b []byte) error {
	parsed, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Category is the layer a tool creates entities in. Move, erase and pan
// act on whatever they hit and report false.
func (t Tool) Category() (LayerCategory, bool) {
	switch t {
	case ToolUnit:
		return LayerUnits, true
	case ToolMarkBlue, ToolMarkRed:
		return LayerMarks, true
	case ToolBarrier:
		return LayerBarriers, true
	case ToolCalloutDanger, ToolCalloutWatch, ToolCalloutObjective:
		return LayerCallouts, true
	case ToolMove, ToolErase, ToolPan:
		return "", false
	}
	return "", false
}

func (t Tool) MarkColor() (MarkColor, bool) {
	switch t {
	case ToolMarkBlue:
		return MarkBlue, true
	case ToolMarkRed:
		return MarkRed, true
	case ToolUnit, ToolMove, ToolErase, ToolPan, ToolBarrier,
		ToolCalloutDanger, ToolCalloutWatch, ToolCalloutObjective:
		return "", false
	}
	return "", false
}

func (t Tool) CalloutKind() (CalloutKind, bool) {
	switch t {
	case ToolCalloutDanger:
		return CalloutDanger, true
	case ToolCalloutWatch:
		return CalloutWatch, true
	case ToolCalloutObjective:
		return CalloutObjective, true
	case ToolUnit, ToolMarkBlue, ToolMarkRed, ToolMove, ToolErase, ToolPan, ToolBarrier:
		return "", false
	}
	return "", false
}
