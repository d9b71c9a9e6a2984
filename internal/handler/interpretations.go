package handler

import (
	"log/slog"
	"net/http"

	"oneiro/internal/domain/services"
	"oneiro/internal/httputil"
)

// InterpretationHandler handles interpretation HTTP requests.
type InterpretationHandler struct {
	dreamService services.DreamService
	logger       *slog.Logger
}

// NewInterpretationHandler creates a new interpretation handler.
func NewInterpretationHandler(dreamService services.DreamService, logger *slog.Logger) *InterpretationHandler {
	return &InterpretationHandler{
		dreamService: dreamService,
		logger:       logger,
	}
}

// InterpretDream generates an interpretation for a stored entry and
// appends it to the entry's history.
// POST /api/dreams/{id}/interpretation
func (h *InterpretationHandler) InterpretDream(w http.ResponseWriter, r *http.Request) {
	rec, err := h.dreamService.InterpretDream(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rec)
}

// Preview generates a draft for the supplied title and content without
// persisting anything.
// POST /api/interpretations/preview
func (h *InterpretationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req services.PreviewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := h.dreamService.PreviewInterpretation(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, draft)
}
