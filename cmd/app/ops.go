package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Ilovko/r6s/internal/application"
	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

type sessionResult struct {
	Session string       `json:"session"`
	Frame   editor.Frame `json:"frame"`
}

type pointerResult struct {
	Outcome editor.Outcome `json:"outcome"`
	Frame   editor.Frame   `json:"frame"`
}

type keyResult struct {
	Action editor.KeyAction `json:"action"`
	Frame  editor.Frame     `json:"frame"`
}

func sessionPath(cfg cliConfig, suffix string) string {
	return "/api/sessions/" + url.PathEscape(cfg.Session) + suffix
}

// doSessionCall covers the session operations whose unix socket params and
// HTTP body are the same object plus the session id.
func doSessionCall(ctx context.Context, cfg cliConfig, method, suffix string, params map[string]any, out any) error {
	if cfg.Transport == "uds" {
		rpcParams := map[string]any{"session": cfg.Session}
		for k, v := range params {
			rpcParams[k] = v
		}
		return newRPCClient(cfg.Socket).call(ctx, method, rpcParams, out)
	}
	var body any
	if params != nil {
		body = params
	} else {
		body = map[string]any{}
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, sessionPath(cfg, suffix), body, out)
}

func doMapsList(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "maps.list", nil, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, "/api/maps", nil, out)
}

func doSessionOpen(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "session.open", nil, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, "/api/sessions", map[string]any{}, out)
}

func doSessionShow(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "session.show", map[string]any{"session": cfg.Session}, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, sessionPath(cfg, ""), nil, out)
}

func doSessionClose(ctx context.Context, cfg cliConfig) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "session.close", map[string]any{"session": cfg.Session}, nil)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodDelete, sessionPath(cfg, ""), nil, nil)
}

func doEditorTool(ctx context.Context, cfg cliConfig, tool domain.Tool, out any) error {
	return doSessionCall(ctx, cfg, "editor.tool", "/tool", map[string]any{"tool": tool}, out)
}

func doEditorPointer(ctx context.Context, cfg cliConfig, in application.PointerInput, out any) error {
	return doSessionCall(ctx, cfg, "editor.pointer", "/pointer", map[string]any{"phase": in.Phase, "x": in.X, "y": in.Y}, out)
}

func doEditorWheel(ctx context.Context, cfg cliConfig, delta float64, out any) error {
	return doSessionCall(ctx, cfg, "editor.wheel", "/wheel", map[string]any{"delta_y": delta}, out)
}

func doEditorZoom(ctx context.Context, cfg cliConfig, action application.ZoomAction, out any) error {
	if cfg.Transport == "uds" {
		return doSessionCall(ctx, cfg, "editor.zoom", "", map[string]any{"action": action}, out)
	}
	return doSessionCall(ctx, cfg, "", "/zoom/"+url.PathEscape(string(action)), nil, out)
}

func doEditorFloor(ctx context.Context, cfg cliConfig, floor domain.Floor, out any) error {
	return doSessionCall(ctx, cfg, "editor.floor", "/floor", map[string]any{"floor": floor}, out)
}

func doEditorMap(ctx context.Context, cfg cliConfig, mapID domain.MapID, confirm bool, out any) error {
	return doSessionCall(ctx, cfg, "editor.map", "/map", map[string]any{"map": mapID, "confirm": confirm}, out)
}

func doEditorLayer(ctx context.Context, cfg cliConfig, category domain.LayerCategory, flag application.LayerFlag, out any) error {
	return doSessionCall(ctx, cfg, "editor.layer", "/layers", map[string]any{"category": category, "flag": flag}, out)
}

func doEditorRole(ctx context.Context, cfg cliConfig, side domain.Side, role domain.Role, out any) error {
	return doSessionCall(ctx, cfg, "editor.role", "/role", map[string]any{"side": side, "role": role}, out)
}

func doEditorOperator(ctx context.Context, cfg cliConfig, unitID string, op domain.Operator, out any) error {
	return doSessionCall(ctx, cfg, "editor.operator", "/operator", map[string]any{"unit_id": unitID, "operator": op}, out)
}

func doEditorKey(ctx context.Context, cfg cliConfig, ev editor.KeyEvent, out any) error {
	return doSessionCall(ctx, cfg, "editor.key", "/key", map[string]any{
		"key":   ev.Key,
		"code":  ev.Code,
		"shift": ev.Shift,
		"ctrl":  ev.Ctrl,
		"meta":  ev.Meta,
	}, out)
}

func doEditorUndo(ctx context.Context, cfg cliConfig, out *editor.Frame) error {
	return doSessionCall(ctx, cfg, "editor.undo", "/undo", nil, out)
}

func doEditorRedo(ctx context.Context, cfg cliConfig, out *editor.Frame) error {
	return doSessionCall(ctx, cfg, "editor.redo", "/redo", nil, out)
}

func doEditorClear(ctx context.Context, cfg cliConfig, out *editor.Frame) error {
	return doSessionCall(ctx, cfg, "editor.clear", "/clear", nil, out)
}

func doEditorLanguage(ctx context.Context, cfg cliConfig, lang domain.Language, out any) error {
	return doSessionCall(ctx, cfg, "editor.language", "/language", map[string]any{"language": lang}, out)
}

func doEditorTheme(ctx context.Context, cfg cliConfig, theme domain.Theme, out any) error {
	return doSessionCall(ctx, cfg, "editor.theme", "/theme", map[string]any{"theme": theme}, out)
}

func doStrategiesList(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "strategies.list", nil, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, "/api/strategies", nil, out)
}

func doStrategiesSave(ctx context.Context, cfg cliConfig, id, name string, out any) error {
	params := map[string]any{"session": cfg.Session, "id": id, "name": name}
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "strategies.save", params, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, "/api/strategies", params, out)
}

func doStrategiesLoad(ctx context.Context, cfg cliConfig, id string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "strategies.load", map[string]any{"session": cfg.Session, "id": id}, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, "/api/strategies/"+url.PathEscape(id)+"/load", map[string]any{"session": cfg.Session}, out)
}

func doStrategiesDelete(ctx context.Context, cfg cliConfig, id string) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "strategies.delete", map[string]any{"id": id}, nil)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodDelete, "/api/strategies/"+url.PathEscape(id), nil, nil)
}

func doExport(ctx context.Context, cfg cliConfig) (string, []byte, error) {
	if cfg.Transport == "uds" {
		var out struct {
			Filename string          `json:"filename"`
			Document json.RawMessage `json:"document"`
		}
		if err := newRPCClient(cfg.Socket).call(ctx, "document.export", map[string]any{"session": cfg.Session}, &out); err != nil {
			return "", nil, err
		}
		return out.Filename, out.Document, nil
	}
	return newAPIClient(cfg.Server).download(ctx, sessionPath(cfg, "/export"))
}

func doImport(ctx context.Context, cfg cliConfig, data []byte, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "document.import", map[string]any{"session": cfg.Session, "document": json.RawMessage(data)}, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, sessionPath(cfg, "/import"), json.RawMessage(data), out)
}

func doActivityList(ctx context.Context, cfg cliConfig, limit int, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "activity.list", map[string]any{"limit": limit}, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, "/api/activity?limit="+strconv.Itoa(limit), nil, out)
}
