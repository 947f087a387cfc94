// Package api exposes the deposit core over HTTP/JSON for the GUI and
// automation callers. It maps the service error taxonomy onto status codes
// and keeps all lifecycle rules inside the services it fronts.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"tiredepot/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps sentinel errors to HTTP status codes:
// validation 400, not found 404, invalid transition and barcode conflicts
// 409, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrInvalidTransition), errors.Is(err, common.ErrBarcodeTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
