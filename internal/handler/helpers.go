package handler

import (
	"errors"
	"net/http"

	"oneiro/internal/domain"
	"oneiro/internal/httputil"
	"oneiro/internal/interpreter"
)

// handleError converts domain and interpreter errors to HTTP responses.
// The two actionable states for clients are critical interpretation
// failures (502/503) and storage write failures (500); everything the
// store recovers from internally never reaches this point.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, interpreter.ErrNotConfigured):
		httputil.RespondError(w, http.StatusServiceUnavailable, "interpretation service not available")
	case interpreter.IsCritical(err):
		httputil.RespondError(w, http.StatusBadGateway, "interpretation service unreachable, check network")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
