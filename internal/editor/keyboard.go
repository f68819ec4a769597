package editor

import (
	"strings"

	"github.com/Ilovko/r6s/internal/domain"
)

// KeyEvent is a key press as a browser reports it. Key holds the produced
// character or a named key such as "Delete" or "F1"; Code holds the
// physical key ("Digit1") so Shift+1 is recognizable on any layout.
type KeyEvent struct {
	Key         string `json:"key"`
	Code        string `json:"code,omitempty"`
	Shift       bool   `json:"shift,omitempty"`
	Ctrl        bool   `json:"ctrl,omitempty"`
	Meta        bool   `json:"meta,omitempty"`
	InTextInput bool   `json:"inTextInput,omitempty"`
}

// KeyAction is what a shortcut asks the surrounding UI to do. Tool, floor,
// undo and redo shortcuts are applied by the editor itself.
type KeyAction string

const (
	KeyNone       KeyAction = ""
	KeyTool       KeyAction = "tool"
	KeyFloor      KeyAction = "floor"
	KeyUndo       KeyAction = "undo"
	KeyRedo       KeyAction = "redo"
	KeyOpenSave   KeyAction = "openSave"
	KeyOpenLoad   KeyAction = "openLoad"
	KeyOpenHelp   KeyAction = "openHelp"
	KeyIgnored    KeyAction = "ignored"
	KeySuppressed KeyAction = "suppressed"
)

var toolKeys = map[string]domain.Tool{
	"1": domain.ToolMarkBlue,
	"2": domain.ToolMarkRed,
	"3": domain.ToolMove,
	"4": domain.ToolErase,
	"5": domain.ToolPan,
	"q": domain.ToolBarrier,
	"w": domain.ToolCalloutDanger,
	"e": domain.ToolCalloutWatch,
	"r": domain.ToolCalloutObjective,
}

var floorKeys = map[string]domain.Floor{
	"1": domain.FloorGround,
	"2": domain.FloorUpper,
	"3": domain.FloorLower,
	"4": domain.FloorBasement,
}

// HandleKey applies a keyboard shortcut.
func (e *Editor) HandleKey(ev KeyEvent) KeyAction {
	if ev.InTextInput {
		return KeySuppressed
	}
	key := strings.ToLower(ev.Key)

	if ev.Ctrl || ev.Meta {
		switch key {
		case "s":
			return KeyOpenSave
		case "o":
			return KeyOpenLoad
		case "z":
			e.Undo()
			return KeyUndo
		case "y":
			e.Redo()
			return KeyRedo
		}
		return KeyNone
	}

	if ev.Shift {
		if f, ok := floorKeys[digitOf(ev)]; ok {
			if !e.SetFloor(f) {
				return KeyIgnored
			}
			return KeyFloor
		}
		return KeyNone
	}

	switch key {
	case "f1":
		return KeyOpenHelp
	case "delete", "backspace":
		e.SelectTool(domain.ToolErase)
		return KeyTool
	}
	if t, ok := toolKeys[key]; ok {
		e.SelectTool(t)
		return KeyTool
	}
	return KeyNone
}

// digitOf recovers the digit for shifted number keys, where Key is "!" or
// "@" on most layouts.
func digitOf(ev KeyEvent) string {
	if d, ok := strings.CutPrefix(ev.Code, "Digit"); ok {
		return d
	}
	return ev.Key
}
