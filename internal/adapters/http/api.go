package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ilovko/r6s/internal/application"
	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

const maxDocumentBytes = 4 << 20

func (h *Handler) handleAPIListMaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Maps())
}

func (h *Handler) handleAPIListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.SessionIDs())
}

func (h *Handler) handleAPIOpenSession(w http.ResponseWriter, r *http.Request) {
	id, frame := h.service.OpenSession(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"session": id, "frame": frame})
}

func (h *Handler) handleAPIFrame(w http.ResponseWriter, r *http.Request) {
	frame, err := h.service.Frame(chi.URLParam(r, "id"))
	writeFrame(w, frame, err)
}

func (h *Handler) handleAPICloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.service.Frame(id); err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	h.service.CloseSession(id)
	writeJSON(w, http.StatusOK, map[string]any{"closed": id})
}

func (h *Handler) handleAPIPointer(w http.ResponseWriter, r *http.Request) {
	var req application.PointerInput
	if !decodeBody(w, r, &req) {
		return
	}
	out, frame, err := h.service.Pointer(chi.URLParam(r, "id"), req)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outcome": out, "frame": frame})
}

type apiWheelRequest struct {
	DeltaY float64 `json:"delta_y"`
}

func (h *Handler) handleAPIWheel(w http.ResponseWriter, r *http.Request) {
	var req apiWheelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	frame, err := h.service.Wheel(chi.URLParam(r, "id"), req.DeltaY)
	writeFrame(w, frame, err)
}

func (h *Handler) handleAPIZoom(w http.ResponseWriter, r *http.Request) {
	frame, err := h.service.Zoom(chi.URLParam(r, "id"), application.ZoomAction(chi.URLParam(r, "action")))
	writeFrame(w, frame, err)
}

type apiToolRequest struct {
	Tool domain.Tool `json:"tool"`
}

func (h *Handler) handleAPITool(w http.ResponseWriter, r *http.Request) {
	var req apiToolRequest
	if !decodeBody(w, r, &req) {
		return
	}
	frame, err := h.service.SelectTool(chi.URLParam(r, "id"), req.Tool)
	writeFrame(w, frame, err)
}

type apiFloorRequest struct {
	Floor domain.Floor `json:"floor"`
}

func (h *Handler) handleAPIFloor(w http.ResponseWriter, r *http.Request) {
	var req apiFloorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	frame, err := h.service.SetFloor(chi.URLParam(r, "id"), req.Floor)
	writeFrame(w, frame, err)
}

type apiMapRequest struct {
	Map     domain.MapID `json:"map"`
	Confirm bool         `json:"confirm"`
}

func (h *Handler) handleAPIMap(w http.ResponseWriter, r *http.Request) {
	var req apiMapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	change, err := h.service.ChangeMap(chi.URLParam(r, "id"), req.Map, req.Confirm)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, change)
}

type apiLayerRequest struct {
	Category string                `json:"category"`
	Flag     application.LayerFlag `json:"flag"`
}

func (h *Handler) handleAPILayer(w http.ResponseWriter, r *http.Request) {
	var req apiLayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	category, err := domain.ParseLayerCategory(req.Category)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	frame, err := h.service.ToggleLayer(chi.URLParam(r, "id"), category, req.Flag)
	writeFrame(w, frame, err)
}

type apiRoleRequest struct {
	Side domain.Side `json:"side"`
	Role domain.Role `json:"role"`
}

func (h *Handler) handleAPIRole(w http.ResponseWriter, r *http.Request) {
	var req apiRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	frame, err := h.service.SelectRole(chi.URLParam(r, "id"), req.Side, req.Role)
	writeFrame(w, frame, err)
}

type apiOperatorRequest struct {
	UnitID   string          `json:"unit_id"`
	Operator domain.Operator `json:"operator"`
}

// handleAPIOperator picks the operator for new units, or reassigns an
// existing unit when unit_id is set.
func (h *Handler) handleAPIOperator(w http.ResponseWriter, r *http.Request) {
	var req apiOperatorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	var (
		frame editor.Frame
		err   error
	)
	if req.UnitID == "" {
		frame, err = h.service.SelectOperator(id, req.Operator)
	} else {
		frame, err = h.service.ChangeRole(id, req.UnitID, req.Operator)
	}
	writeFrame(w, frame, err)
}

func (h *Handler) handleAPIKey(w http.ResponseWriter, r *http.Request) {
	var req editor.KeyEvent
	if !decodeBody(w, r, &req) {
		return
	}
	action, frame, err := h.service.Key(chi.URLParam(r, "id"), req)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"action": action, "frame": frame})
}

func (h *Handler) handleAPIUndo(w http.ResponseWriter, r *http.Request) {
	frame, err := h.service.Undo(chi.URLParam(r, "id"))
	writeFrame(w, frame, err)
}

func (h *Handler) handleAPIRedo(w http.ResponseWriter, r *http.Request) {
	frame, err := h.service.Redo(chi.URLParam(r, "id"))
	writeFrame(w, frame, err)
}

func (h *Handler) handleAPIClear(w http.ResponseWriter, r *http.Request) {
	frame, err := h.service.Clear(chi.URLParam(r, "id"))
	writeFrame(w, frame, err)
}

type apiLanguageRequest struct {
	Language domain.Language `json:"language"`
}

func (h *Handler) handleAPILanguage(w http.ResponseWriter, r *http.Request) {
	var req apiLanguageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	frame, err := h.service.SetLanguage(chi.URLParam(r, "id"), req.Language)
	writeFrame(w, frame, err)
}

type apiThemeRequest struct {
	Theme domain.Theme `json:"theme"`
}

func (h *Handler) handleAPITheme(w http.ResponseWriter, r *http.Request) {
	var req apiThemeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	frame, err := h.service.SetTheme(chi.URLParam(r, "id"), req.Theme)
	writeFrame(w, frame, err)
}

// handleAPIImport takes the raw document as the request body.
func (h *Handler) handleAPIImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	frame, err := h.service.Import(r.Context(), chi.URLParam(r, "id"), data)
	writeFrame(w, frame, err)
}

func (h *Handler) handleAPIListStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListStrategies(r.Context()))
}

type apiSaveStrategyRequest struct {
	Session string `json:"session"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

func (h *Handler) handleAPISaveStrategy(w http.ResponseWriter, r *http.Request) {
	var req apiSaveStrategyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	saved, err := h.service.SaveStrategy(r.Context(), req.Session, req.ID, req.Name)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleAPIGetStrategy(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetStrategy(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleAPIDeleteStrategy(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := h.service.DeleteStrategy(r.Context(), sid); err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": sid})
}

type apiLoadStrategyRequest struct {
	Session string `json:"session"`
}

func (h *Handler) handleAPILoadStrategy(w http.ResponseWriter, r *http.Request) {
	var req apiLoadStrategyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	frame, err := h.service.LoadStrategy(r.Context(), req.Session, chi.URLParam(r, "sid"))
	writeFrame(w, frame, err)
}

func (h *Handler) handleAPIListActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.service.ListActivity(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDocumentBytes)).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return false
	}
	return true
}

func writeFrame(w http.ResponseWriter, frame editor.Frame, err error) {
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, frame)
}
