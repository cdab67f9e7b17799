package handlers

import (
	"garage-spot-service/internal/api/dto"
	"garage-spot-service/internal/platform/apperr"
	"garage-spot-service/internal/platform/obs"
	"garage-spot-service/internal/services"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionHandler drives drag sessions: one pending overlay per client screen.
type SessionHandler struct {
	Sessions *services.SessionManager
	Logger   *zap.Logger
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(h.Logger, w, r, http.StatusBadRequest, "session id is required")
		return nil, false
	}
	s, err := h.Sessions.Get(r.Context(), id)
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return nil, false
	}
	return s, true
}

// persist snapshots the overlay. A failure only costs restart durability, so
// the request still succeeds.
func (h *SessionHandler) persist(r *http.Request, s *services.Session) {
	if err := h.Sessions.Persist(r.Context(), s); err != nil {
		h.Logger.Warn("persist session failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
	}
}

func (h *SessionHandler) writeLayout(w http.ResponseWriter, r *http.Request, status int, s *services.Session) {
	layout, garage, err := s.Layout(r.Context())
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	pending, err := s.Pending(r.Context())
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}

	writeJSON(h.Logger, w, r, status, dto.SessionLayoutResponse{
		SessionID:    s.ID,
		Garage:       garage,
		Scale:        s.Viewport.Scale,
		PanelWidth:   s.Viewport.PanelWidth,
		PendingCount: len(pending),
		Layout:       layoutResponse(layout, pending),
	})
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if !decodeJSON(h.Logger, w, r, &req, true) {
		return
	}
	if req.Scale < 0 || req.PanelWidth < 0 {
		writeError(h.Logger, w, r, http.StatusBadRequest, "scale and panel_width must not be negative")
		return
	}

	s, err := h.Sessions.Create(r.Context(), services.Viewport{Scale: req.Scale, PanelWidth: req.PanelWidth})
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}

	if garage := strings.TrimSpace(req.Garage); garage != "" {
		if err := s.SetGarage(r.Context(), garage); err != nil {
			_ = h.Sessions.Close(r.Context(), s.ID)
			writeAppError(h.Logger, w, r, classify(err))
			return
		}
		h.persist(r, s)
	}

	h.writeLayout(w, r, http.StatusCreated, s)
}

func (h *SessionHandler) Layout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeLayout(w, r, http.StatusOK, s)
}

func (h *SessionHandler) SetGarage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req dto.SetGarageRequest
	if !decodeJSON(h.Logger, w, r, &req, false) {
		return
	}

	if err := s.SetGarage(r.Context(), strings.TrimSpace(req.Garage)); err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	h.persist(r, s)
	h.writeLayout(w, r, http.StatusOK, s)
}

func (h *SessionHandler) DragStart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req dto.DragStartRequest
	if !decodeJSON(h.Logger, w, r, &req, false) {
		return
	}
	truckID := strings.TrimSpace(req.TruckID)
	if truckID == "" {
		writeError(h.Logger, w, r, http.StatusBadRequest, "truck_id is required")
		return
	}

	if err := s.DragStart(r.Context(), truckID, services.Point(req.Pointer)); err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) DragMove(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req dto.DragMoveRequest
	if !decodeJSON(h.Logger, w, r, &req, false) {
		return
	}

	res, err := s.DragMove(r.Context(), services.Point(req.Pointer))
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	if res.Navigated {
		h.persist(r, s)
	}

	writeJSON(h.Logger, w, r, http.StatusOK, dto.DragMoveResponse{
		Translation: dto.PointRequest(res.Translation),
		Edge:        res.Edge,
		Navigated:   res.Navigated,
		Garage:      res.Garage,
	})
}

func (h *SessionHandler) DragEnd(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req dto.DragEndRequest
	if !decodeJSON(h.Logger, w, r, &req, false) {
		return
	}

	res, err := s.DragEnd(r.Context(), services.Point(req.Pointer), req.OverYard)
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	h.persist(r, s)

	writeJSON(h.Logger, w, r, http.StatusOK, dto.DropResponse{
		Kind:        string(res.Kind),
		TruckID:     res.TruckID,
		Spot:        res.Spot,
		SwappedWith: res.SwappedWith,
	})
}

func (h *SessionHandler) DragCancel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.CancelDrag(r.Context()); err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	truckID := strings.TrimSpace(r.URL.Query().Get("truck_id"))
	if truckID == "" {
		writeError(h.Logger, w, r, http.StatusBadRequest, "truck_id query parameter is required")
		return
	}

	lanes, err := s.Preview(r.Context(), truckID)
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	_, garage, err := s.Layout(r.Context())
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}

	writeJSON(h.Logger, w, r, http.StatusOK, previewResponse(garage, truckID, lanes))
}

func (h *SessionHandler) Changes(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	pending, err := s.Pending(r.Context())
	if err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	writeJSON(h.Logger, w, r, http.StatusOK, dto.ChangesResponse{Changes: pendingResponse(pending.List())})
}

// Commit saves the overlay. A failed save keeps every pending change and
// answers 502 so the client can retry.
func (h *SessionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	saved, err := s.Commit(r.Context())
	if err != nil {
		err = classify(err)
		if apperr.Is(err, apperr.CodeInternal) {
			err = apperr.Wrap(apperr.CodeUpstream, err, "saving changes failed; pending changes kept")
		}
		writeAppError(h.Logger, w, r, err)
		return
	}
	h.persist(r, s)

	res := dto.CommitResponse{Saved: make([]dto.SpotChangeResponse, 0, len(saved))}
	for _, c := range saved {
		res.Saved = append(res.Saved, dto.SpotChangeResponse{TruckID: c.TruckID, NewSpot: c.NewSpot})
	}
	writeJSON(h.Logger, w, r, http.StatusOK, res)
}

func (h *SessionHandler) Discard(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Discard(r.Context()); err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	h.persist(r, s)
	h.writeLayout(w, r, http.StatusOK, s)
}

// Refresh reloads the committed trucks. Pending changes survive.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Refresh(r.Context()); err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	h.persist(r, s)
	h.writeLayout(w, r, http.StatusOK, s)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if err := h.Sessions.Close(r.Context(), id); err != nil {
		writeAppError(h.Logger, w, r, classify(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
