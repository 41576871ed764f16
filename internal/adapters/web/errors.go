package web

import (
	"encoding/json"
	"net/http"

	"cakeshop/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps typed domain errors to HTTP status codes and falls
// back to 500 for anything unrecognized.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsNotFound(err):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case core.IsBrokenReference(err):
		writeError(w, r, err.Error(), "BROKEN_REFERENCE", http.StatusConflict)
	case core.IsInvalidQuantity(err):
		writeError(w, r, err.Error(), "INVALID_QUANTITY", http.StatusUnprocessableEntity)
	case core.IsStoreUnavailable(err):
		writeError(w, r, err.Error(), "STORE_UNAVAILABLE", http.StatusServiceUnavailable)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
