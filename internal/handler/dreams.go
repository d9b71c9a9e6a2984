package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"oneiro/internal/domain/models"
	"oneiro/internal/domain/services"
	"oneiro/internal/httputil"
)

// DreamHandler handles journal HTTP requests.
type DreamHandler struct {
	dreamService services.DreamService
	logger       *slog.Logger
}

// NewDreamHandler creates a new dream handler.
func NewDreamHandler(dreamService services.DreamService, logger *slog.Logger) *DreamHandler {
	return &DreamHandler{
		dreamService: dreamService,
		logger:       logger,
	}
}

// ListDreams lists entries newest-first.
// GET /api/dreams?emotion=positive&limit=3
func (h *DreamHandler) ListDreams(w http.ResponseWriter, r *http.Request) {
	var filter services.ListFilter

	if emotion := r.URL.Query().Get("emotion"); emotion != "" {
		e := models.Emotion(emotion)
		if !models.ValidEmotion(e) {
			httputil.RespondError(w, http.StatusBadRequest, "emotion must be one of positive, negative, neutral")
			return
		}
		filter.Emotion = e
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}

	httputil.RespondJSON(w, http.StatusOK, h.dreamService.ListDreams(r.Context(), filter))
}

// CreateDream creates a new entry.
// POST /api/dreams
func (h *DreamHandler) CreateDream(w http.ResponseWriter, r *http.Request) {
	var req services.CreateDreamRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dream, err := h.dreamService.CreateDream(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, dream)
}

// GetDream retrieves an entry by id.
// GET /api/dreams/{id}
func (h *DreamHandler) GetDream(w http.ResponseWriter, r *http.Request) {
	dream, err := h.dreamService.GetDream(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dream)
}

// UpdateDream applies a partial update.
// PATCH /api/dreams/{id}
func (h *DreamHandler) UpdateDream(w http.ResponseWriter, r *http.Request) {
	var patch models.DreamPatch
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dream, err := h.dreamService.UpdateDream(r.Context(), r.PathValue("id"), &patch)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dream)
}

// DeleteDream removes an entry. Deletion is idempotent: an unknown id
// still yields 204.
// DELETE /api/dreams/{id}
func (h *DreamHandler) DeleteDream(w http.ResponseWriter, r *http.Request) {
	if err := h.dreamService.DeleteDream(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Timeline returns entries grouped by the month of their dream date.
// GET /api/dreams/timeline
func (h *DreamHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.dreamService.Timeline(r.Context()))
}

// Stats returns aggregate statistics over the full collection.
// GET /api/dreams/stats
func (h *DreamHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.dreamService.Stats(r.Context()))
}

// HealthCheck is a simple liveness endpoint.
// GET /health
func (h *DreamHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now(),
	})
}
