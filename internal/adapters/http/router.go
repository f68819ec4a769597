package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/Ilovko/r6s/internal/application"
	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
	"github.com/Ilovko/r6s/internal/ui"
)

type Handler struct {
	service *application.EditorService
	logger  *slog.Logger
}

func NewRouter(service *application.EditorService, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{service: service, logger: logger}
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/maps", h.handleAPIListMaps)
		api.Get("/sessions", h.handleAPIListSessions)
		api.Post("/sessions", h.handleAPIOpenSession)
		api.Route("/sessions/{id}", func(s chi.Router) {
			s.Get("/", h.handleAPIFrame)
			s.Delete("/", h.handleAPICloseSession)
			s.Post("/pointer", h.handleAPIPointer)
			s.Post("/wheel", h.handleAPIWheel)
			s.Post("/zoom/{action}", h.handleAPIZoom)
			s.Post("/tool", h.handleAPITool)
			s.Post("/floor", h.handleAPIFloor)
			s.Post("/map", h.handleAPIMap)
			s.Post("/layers", h.handleAPILayer)
			s.Post("/role", h.handleAPIRole)
			s.Post("/operator", h.handleAPIOperator)
			s.Post("/key", h.handleAPIKey)
			s.Post("/undo", h.handleAPIUndo)
			s.Post("/redo", h.handleAPIRedo)
			s.Post("/clear", h.handleAPIClear)
			s.Post("/language", h.handleAPILanguage)
			s.Post("/theme", h.handleAPITheme)
			s.Get("/export", h.handleExport)
			s.Post("/import", h.handleAPIImport)
		})
		api.Get("/strategies", h.handleAPIListStrategies)
		api.Post("/strategies", h.handleAPISaveStrategy)
		api.Get("/strategies/{sid}", h.handleAPIGetStrategy)
		api.Delete("/strategies/{sid}", h.handleAPIDeleteStrategy)
		api.Post("/strategies/{sid}/load", h.handleAPILoadStrategy)
		api.Get("/activity", h.handleAPIListActivity)
	})

	r.Get("/ws/sessions/{id}", h.handleLive)

	r.Get("/", h.handleHome)
	r.Route("/sessions/{id}", func(s chi.Router) {
		s.Get("/", h.handleBoardPage)
		s.Get("/export", h.handleExport)
		s.Post("/pointer", h.handlePointer)
		s.Post("/wheel", h.handleWheel)
		s.Post("/key", h.handleKey)
		s.Post("/tool/{tool}", h.handleTool)
		s.Post("/role/{side}/{role}", h.handleRole)
		s.Post("/units/{unitID}/operator/{op}", h.handleUnitOperator)
		s.Post("/floor/{floor}", h.handleFloor)
		s.Post("/map/{map}", h.handleMap)
		s.Post("/layers/{category}/{flag}", h.handleLayer)
		s.Post("/zoom/{action}", h.handleZoom)
		s.Post("/undo", h.handleUndo)
		s.Post("/redo", h.handleRedo)
		s.Post("/clear", h.handleClear)
		s.Post("/strategies", h.handleSaveStrategy)
		s.Post("/strategies/{sid}/load", h.handleLoadStrategy)
		s.Post("/strategies/{sid}/delete", h.handleDeleteStrategy)
	})

	return r
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	id, _ := h.service.OpenSession(r.Context())
	http.Redirect(w, r, "/sessions/"+id, http.StatusSeeOther)
}

func (h *Handler) handleBoardPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frame, err := h.service.Frame(id)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := ui.BoardPage(id, frame, h.service.ListStrategies(r.Context())).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type pointerSignals struct {
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func (h *Handler) handlePointer(w http.ResponseWriter, r *http.Request) {
	var sig pointerSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid signals")
		return
	}
	id := chi.URLParam(r, "id")
	out, frame, err := h.service.Pointer(id, application.PointerInput{Phase: application.PointerPhase(sig.Phase), X: sig.X, Y: sig.Y})
	if err != nil {
		h.renderFlash(r.Context(), w, statusFor(err), err.Error())
		return
	}

	switch out.Kind {
	case editor.OutcomeRoleChangeRequested:
		if unit, ok := findUnit(frame.Board, out.ID); ok {
			renderHTMLFragments(r.Context(), w, http.StatusOK, ui.Board(id, frame), ui.RoleDialog(id, frame.View.Language, unit))
			return
		}
	case editor.OutcomeRejected:
		renderHTMLFragments(r.Context(), w, http.StatusOK,
			ui.Flash(ui.Text(frame.View.Language, "layer."+string(out.Category))+" "+ui.Text(frame.View.Language, "locked"), "info"))
		return
	case editor.OutcomeMoved, editor.OutcomePanned, editor.OutcomePreview:
		renderHTMLFragments(r.Context(), w, http.StatusOK, ui.Board(id, frame))
		return
	}
	h.renderEditor(r.Context(), w, id, frame)
}

type wheelSignals struct {
	DeltaY float64 `json:"deltaY"`
}

func (h *Handler) handleWheel(w http.ResponseWriter, r *http.Request) {
	var sig wheelSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid signals")
		return
	}
	id := chi.URLParam(r, "id")
	frame, err := h.service.Wheel(id, sig.DeltaY)
	h.respondFrame(w, r, id, frame, err)
}

type keySignals struct {
	Key         string `json:"key"`
	Code        string `json:"code"`
	Shift       bool   `json:"shift"`
	Ctrl        bool   `json:"ctrl"`
	Meta        bool   `json:"meta"`
	InTextInput bool   `json:"inTextInput"`
}

func (h *Handler) handleKey(w http.ResponseWriter, r *http.Request) {
	var sig keySignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid signals")
		return
	}
	id := chi.URLParam(r, "id")
	action, frame, err := h.service.Key(id, editor.KeyEvent(sig))
	if err != nil {
		h.renderFlash(r.Context(), w, statusFor(err), err.Error())
		return
	}
	lang := frame.View.Language
	switch action {
	case editor.KeyNone, editor.KeyIgnored, editor.KeySuppressed:
		w.WriteHeader(http.StatusNoContent)
	case editor.KeyOpenSave, editor.KeyOpenLoad:
		renderHTMLFragments(r.Context(), w, http.StatusOK, ui.StrategyList(id, lang, h.service.ListStrategies(r.Context())))
	case editor.KeyOpenHelp:
		renderHTMLFragments(r.Context(), w, http.StatusOK, ui.Flash(ui.Text(lang, "help"), "info"))
	default:
		h.renderEditor(r.Context(), w, id, frame)
	}
}

func (h *Handler) handleTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tool, err := domain.ParseTool(chi.URLParam(r, "tool"))
	if err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}
	frame, err := h.service.SelectTool(id, tool)
	h.respondFrame(w, r, id, frame, err)
}

func (h *Handler) handleRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frame, err := h.service.SelectRole(id, domain.Side(chi.URLParam(r, "side")), domain.Role(chi.URLParam(r, "role")))
	h.respondFrame(w, r, id, frame, err)
}

func (h *Handler) handleUnitOperator(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frame, err := h.service.ChangeRole(id, chi.URLParam(r, "unitID"), domain.Operator(chi.URLParam(r, "op")))
	if err != nil {
		h.renderFlash(r.Context(), w, statusFor(err), err.Error())
		return
	}
	renderHTMLFragments(r.Context(), w, http.StatusOK, ui.Board(id, frame), ui.Flash("", "info"))
}

func (h *Handler) handleFloor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frame, err := h.service.SetFloor(id, domain.Floor(chi.URLParam(r, "floor")))
	h.respondFrame(w, r, id, frame, err)
}

func (h *Handler) handleMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mapID := domain.MapID(chi.URLParam(r, "map"))
	change, err := h.service.ChangeMap(id, mapID, r.URL.Query().Get("confirm") == "1")
	if err != nil {
		h.renderFlash(r.Context(), w, statusFor(err), err.Error())
		return
	}
	if change.NeedsConfirm {
		renderHTMLFragments(r.Context(), w, http.StatusOK, ui.MapConfirm(id, change.Frame.View.Language, mapID))
		return
	}
	renderHTMLFragments(r.Context(), w, http.StatusOK,
		ui.Toolbar(id, change.Frame),
		ui.Board(id, change.Frame),
		ui.Flash("", "info"),
	)
}

func (h *Handler) handleLayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	category, err := domain.ParseLayerCategory(chi.URLParam(r, "category"))
	if err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}
	frame, err := h.service.ToggleLayer(id, category, application.LayerFlag(chi.URLParam(r, "flag")))
	h.respondFrame(w, r, id, frame, err)
}

func (h *Handler) handleZoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frame, err := h.service.Zoom(id, application.ZoomAction(chi.URLParam(r, "action")))
	h.respondFrame(w, r, id, frame, err)
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frame, err := h.service.Undo(id)
	h.respondFrame(w, r, id, frame, err)
}

func (h *Handler) handleRedo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frame, err := h.service.Redo(id)
	h.respondFrame(w, r, id, frame, err)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frame, err := h.service.Clear(id)
	h.respondFrame(w, r, id, frame, err)
}

type saveSignals struct {
	StrategyName string `json:"strategyName"`
}

func (h *Handler) handleSaveStrategy(w http.ResponseWriter, r *http.Request) {
	var sig saveSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid signals")
		return
	}
	id := chi.URLParam(r, "id")
	saved, err := h.service.SaveStrategy(r.Context(), id, "", sig.StrategyName)
	if err != nil {
		h.renderFlash(r.Context(), w, statusFor(err), err.Error())
		return
	}
	frame, _ := h.service.Frame(id)
	renderHTMLFragments(r.Context(), w, http.StatusOK,
		ui.Flash(ui.Text(frame.View.Language, "save")+": "+saved.Name, "info"),
		ui.StrategyList(id, frame.View.Language, h.service.ListStrategies(r.Context())),
	)
}

func (h *Handler) handleLoadStrategy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	frame, err := h.service.LoadStrategy(r.Context(), id, chi.URLParam(r, "sid"))
	h.respondFrame(w, r, id, frame, err)
}

func (h *Handler) handleDeleteStrategy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteStrategy(r.Context(), chi.URLParam(r, "sid")); err != nil {
		h.renderFlash(r.Context(), w, statusFor(err), err.Error())
		return
	}
	frame, _ := h.service.Frame(id)
	renderHTMLFragments(r.Context(), w, http.StatusOK, ui.StrategyList(id, frame.View.Language, h.service.ListStrategies(r.Context())))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.service.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// respondFrame re-renders the toolbar and board, or a flash on error.
func (h *Handler) respondFrame(w http.ResponseWriter, r *http.Request, id string, frame editor.Frame, err error) {
	if err != nil {
		h.renderFlash(r.Context(), w, statusFor(err), err.Error())
		return
	}
	h.renderEditor(r.Context(), w, id, frame)
}

func (h *Handler) renderEditor(ctx context.Context, w http.ResponseWriter, id string, frame editor.Frame) {
	renderHTMLFragments(ctx, w, http.StatusOK, ui.Toolbar(id, frame), ui.Board(id, frame))
}

func findUnit(b domain.Board, id string) (domain.Unit, bool) {
	for _, u := range b.Units {
		if u.ID == id {
			return u, true
		}
	}
	return domain.Unit{}, false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownSession), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorageOffline):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func renderHTMLFragments(ctx context.Context, w http.ResponseWriter, status int, fragments ...templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	for _, fragment := range fragments {
		if fragment == nil {
			continue
		}
		_ = fragment.Render(ctx, w)
	}
}

func (h *Handler) renderFlash(ctx context.Context, w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if status >= 400 {
		h.logger.DebugContext(ctx, "request failed", "status", status, "err", message)
		_ = ui.Flash(message, "error").Render(ctx, w)
		return
	}
	_ = ui.Flash(message, "info").Render(ctx, w)
}
