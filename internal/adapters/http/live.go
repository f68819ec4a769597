package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/Ilovko/r6s/internal/application"
	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

// LiveInput is one client message on the live channel. Type selects which
// of the other fields apply.
type LiveInput struct {
	Type   string           `json:"type"`
	Phase  string           `json:"phase,omitempty"`
	X      float64          `json:"x,omitempty"`
	Y      float64          `json:"y,omitempty"`
	DeltaY float64          `json:"delta_y,omitempty"`
	Tool   string           `json:"tool,omitempty"`
	Key    *editor.KeyEvent `json:"key,omitempty"`
}

// LiveMessage is sent to the client: a frame after every change to the
// session, an outcome after pointer input, or an error.
type LiveMessage struct {
	Type    string           `json:"type"`
	Frame   *editor.Frame    `json:"frame,omitempty"`
	Outcome *editor.Outcome  `json:"outcome,omitempty"`
	Action  editor.KeyAction `json:"action,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frames, cancel, err := h.service.Watch(id)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	defer cancel()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to accept", "err", err)
		return
	}
	defer conn.CloseNow()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	h.logger.DebugContext(ctx, "live channel opened", "session", id)

	go func() {
		defer stop()
		for {
			var in LiveInput
			if err := wsjson.Read(ctx, conn, &in); err != nil {
				return
			}
			reply, err := h.applyLive(id, in)
			if err != nil {
				reply = LiveMessage{Type: "error", Error: err.Error()}
			}
			if reply.Type == "" {
				continue
			}
			if err := wsjson.Write(ctx, conn, reply); err != nil {
				return
			}
		}
	}()

	frame, err := h.service.Frame(id)
	if err != nil {
		conn.Close(websocket.StatusGoingAway, "session closed")
		return
	}
	if err := wsjson.Write(ctx, conn, LiveMessage{Type: "frame", Frame: &frame}); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case f, ok := <-frames:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "session closed")
				return
			}
			if err := wsjson.Write(ctx, conn, LiveMessage{Type: "frame", Frame: &f}); err != nil {
				return
			}
		}
	}
}

// applyLive runs one input against the session. Frames reach the client
// through the watch channel, so only outcomes and key actions are replied.
func (h *Handler) applyLive(id string, in LiveInput) (LiveMessage, error) {
	switch in.Type {
	case "pointer":
		out, _, err := h.service.Pointer(id, application.PointerInput{Phase: application.PointerPhase(in.Phase), X: in.X, Y: in.Y})
		if err != nil {
			return LiveMessage{}, err
		}
		return LiveMessage{Type: "outcome", Outcome: &out}, nil
	case "wheel":
		_, err := h.service.Wheel(id, in.DeltaY)
		return LiveMessage{}, err
	case "tool":
		tool, err := domain.ParseTool(in.Tool)
		if err != nil {
			return LiveMessage{}, err
		}
		_, err = h.service.SelectTool(id, tool)
		return LiveMessage{}, err
	case "key":
		if in.Key == nil {
			return LiveMessage{}, errors.New("key message without key")
		}
		action, _, err := h.service.Key(id, *in.Key)
		if err != nil {
			return LiveMessage{}, err
		}
		return LiveMessage{Type: "action", Action: action}, nil
	case "undo":
		_, err := h.service.Undo(id)
		return LiveMessage{}, err
	case "redo":
		_, err := h.service.Redo(id)
		return LiveMessage{}, err
	default:
		return LiveMessage{}, fmt.Errorf("unknown message type %q", in.Type)
	}
}
