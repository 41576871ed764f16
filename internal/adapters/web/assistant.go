package web

import (
	"net/http"

	"cakeshop/internal/core"
)

// interpretRestock handles POST /api/assistant/restock.
// Body: { note }. The note is a natural-language delivery description; the
// response is a typed proposal for human review, nothing is written.
func (h *Handler) interpretRestock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Note string `json:"note"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Note == "" {
		writeError(w, r, "note is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.InterpretRestock(r.Context(), body.Note)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Proposal)
}

// applyRestock handles POST /api/assistant/restock/apply.
// Body: a reviewed RestockProposal as returned by interpretRestock.
func (h *Handler) applyRestock(w http.ResponseWriter, r *http.Request) {
	var proposal core.RestockProposal
	if !decodeJSON(w, r, &proposal) {
		return
	}

	result, err := h.svc.ApplyRestock(r.Context(), proposal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Ingredients)
}
