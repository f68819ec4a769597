package rpcjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ilovko/r6s/internal/application"
	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

type Server struct {
	service  *application.EditorService
	logger   *slog.Logger
	listener net.Listener
	path     string
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type sessionParams struct {
	Session string `json:"session"`
}

type PointerResult struct {
	Outcome editor.Outcome `json:"outcome"`
	Frame   editor.Frame   `json:"frame"`
}

type KeyResult struct {
	Action editor.KeyAction `json:"action"`
	Frame  editor.Frame     `json:"frame"`
}

type SessionResult struct {
	Session string       `json:"session"`
	Frame   editor.Frame `json:"frame"`
}

type ExportResult struct {
	Filename string          `json:"filename"`
	Document json.RawMessage `json:"document"`
}

func Start(path string, service *application.EditorService, logger *slog.Logger) (*Server, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rpc socket path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		_ = os.Remove(path)
		return nil, err
	}

	s := &Server{service: service, logger: logger, listener: ln, path: path}
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			_ = enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}, ID: nil})
			return
		}

		resp := s.dispatch(context.Background(), req)
		if resp.Error != nil {
			s.logger.Debug("rpc error", "method", req.Method, "code", resp.Error.Code, "message", resp.Error.Message)
		}
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	if req.JSONRPC != "2.0" || strings.TrimSpace(req.Method) == "" {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32600, Message: "invalid request"}, ID: req.ID}
	}

	svc := s.service
	switch req.Method {
	case "maps.list":
		return ok(req.ID, domain.Maps())
	case "session.open":
		id, frame := svc.OpenSession(ctx)
		return ok(req.ID, SessionResult{Session: id, Frame: frame})
	case "session.show":
		return call(req, func(p sessionParams) (any, error) { return svc.Frame(p.Session) })
	case "session.close":
		return call(req, func(p sessionParams) (any, error) {
			svc.CloseSession(p.Session)
			return map[string]any{"closed": p.Session}, nil
		})

	case "editor.tool":
		return call(req, func(p struct {
			sessionParams
			Tool domain.Tool `json:"tool"`
		}) (any, error) {
			return svc.SelectTool(p.Session, p.Tool)
		})
	case "editor.pointer":
		return call(req, func(p struct {
			sessionParams
			application.PointerInput
		}) (any, error) {
			out, frame, err := svc.Pointer(p.Session, p.PointerInput)
			return PointerResult{Outcome: out, Frame: frame}, err
		})
	case "editor.wheel":
		return call(req, func(p struct {
			sessionParams
			DeltaY float64 `json:"delta_y"`
		}) (any, error) {
			return svc.Wheel(p.Session, p.DeltaY)
		})
	case "editor.zoom":
		return call(req, func(p struct {
			sessionParams
			Action application.ZoomAction `json:"action"`
		}) (any, error) {
			return svc.Zoom(p.Session, p.Action)
		})
	case "editor.floor":
		return call(req, func(p struct {
			sessionParams
			Floor domain.Floor `json:"floor"`
		}) (any, error) {
			return svc.SetFloor(p.Session, p.Floor)
		})
	case "editor.map":
		return call(req, func(p struct {
			sessionParams
			Map     domain.MapID `json:"map"`
			Confirm bool         `json:"confirm"`
		}) (any, error) {
			return svc.ChangeMap(p.Session, p.Map, p.Confirm)
		})
	case "editor.layer":
		return call(req, func(p struct {
			sessionParams
			Category domain.LayerCategory  `json:"category"`
			Flag     application.LayerFlag `json:"flag"`
		}) (any, error) {
			if _, err := domain.ParseLayerCategory(string(p.Category)); err != nil {
				return nil, err
			}
			return svc.ToggleLayer(p.Session, p.Category, p.Flag)
		})
	case "editor.role":
		return call(req, func(p struct {
			sessionParams
			Side domain.Side `json:"side"`
			Role domain.Role `json:"role"`
		}) (any, error) {
			return svc.SelectRole(p.Session, p.Side, p.Role)
		})
	case "editor.operator":
		return call(req, func(p struct {
			sessionParams
			UnitID   string          `json:"unit_id"`
			Operator domain.Operator `json:"operator"`
		}) (any, error) {
			if p.UnitID == "" {
				return svc.SelectOperator(p.Session, p.Operator)
			}
			return svc.ChangeRole(p.Session, p.UnitID, p.Operator)
		})
	case "editor.key":
		return call(req, func(p struct {
			sessionParams
			editor.KeyEvent
		}) (any, error) {
			action, frame, err := svc.Key(p.Session, p.KeyEvent)
			return KeyResult{Action: action, Frame: frame}, err
		})
	case "editor.undo":
		return call(req, func(p sessionParams) (any, error) { return svc.Undo(p.Session) })
	case "editor.redo":
		return call(req, func(p sessionParams) (any, error) { return svc.Redo(p.Session) })
	case "editor.clear":
		return call(req, func(p sessionParams) (any, error) { return svc.Clear(p.Session) })
	case "editor.language":
		return call(req, func(p struct {
			sessionParams
			Language domain.Language `json:"language"`
		}) (any, error) {
			return svc.SetLanguage(p.Session, p.Language)
		})
	case "editor.theme":
		return call(req, func(p struct {
			sessionParams
			Theme domain.Theme `json:"theme"`
		}) (any, error) {
			return svc.SetTheme(p.Session, p.Theme)
		})

	case "strategies.list":
		return ok(req.ID, svc.ListStrategies(ctx))
	case "strategies.save":
		return call(req, func(p struct {
			sessionParams
			ID   string `json:"id"`
			Name string `json:"name"`
		}) (any, error) {
			return svc.SaveStrategy(ctx, p.Session, p.ID, p.Name)
		})
	case "strategies.load":
		return call(req, func(p struct {
			sessionParams
			ID string `json:"id"`
		}) (any, error) {
			return svc.LoadStrategy(ctx, p.Session, p.ID)
		})
	case "strategies.delete":
		return call(req, func(p struct {
			ID string `json:"id"`
		}) (any, error) {
			return map[string]any{"deleted": p.ID}, svc.DeleteStrategy(ctx, p.ID)
		})

	case "document.export":
		return call(req, func(p sessionParams) (any, error) {
			name, data, err := svc.Export(ctx, p.Session)
			return ExportResult{Filename: name, Document: data}, err
		})
	case "document.import":
		return call(req, func(p struct {
			sessionParams
			Document json.RawMessage `json:"document"`
		}) (any, error) {
			return svc.Import(ctx, p.Session, p.Document)
		})

	case "activity.list":
		var p struct {
			Limit int `json:"limit"`
		}
		if len(req.Params) > 0 && !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		items, err := svc.ListActivity(ctx, p.Limit)
		if err != nil {
			return internalError(req.ID, err)
		}
		return ok(req.ID, items)
	}

	return response{JSONRPC: "2.0", Error: &rpcError{Code: -32601, Message: "method not found"}, ID: req.ID}
}

// call decodes params into P and runs fn, mapping its error onto a JSON-RPC
// error.
func call[P any](req request, fn func(P) (any, error)) response {
	var p P
	if !decodeParams(req.Params, &p) {
		return invalidParams(req.ID)
	}
	out, err := fn(p)
	if err != nil {
		return appError(req.ID, err)
	}
	return ok(req.ID, out)
}

func decodeParams(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func ok(id any, result any) response {
	return response{JSONRPC: "2.0", Result: result, ID: id}
}

func invalidParams(id any) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: -32602, Message: "invalid params"}, ID: id}
}

func appError(id any, err error) response {
	code := 40000
	switch {
	case errors.Is(err, domain.ErrUnknownSession), errors.Is(err, domain.ErrNotFound):
		code = 40400
	case errors.Is(err, domain.ErrLayerLocked):
		code = 40900
	case errors.Is(err, domain.ErrMalformedDocument):
		code = 42200
	case errors.Is(err, domain.ErrStorageOffline):
		code = 50300
	}
	return response{JSONRPC: "2.0", Error: &rpcError{Code: code, Message: err.Error()}, ID: id}
}

func internalError(id any, err error) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: 50000, Message: fmt.Sprintf("internal error: %v", err)}, ID: id}
}
