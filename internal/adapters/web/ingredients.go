package web

import (
	"net/http"
	"time"

	"cakeshop/internal/app"

	"github.com/shopspring/decimal"
)

// listIngredients handles GET /api/ingredients.
func (h *Handler) listIngredients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListIngredients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Ingredients)
}

// getIngredient handles GET /api/ingredients/{id}.
func (h *Handler) getIngredient(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetIngredient(r.Context(), urlID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Ingredient)
}

type ingredientBody struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Quantity    string `json:"quantity"`
	PerQuantity string `json:"per_quantity"`
	UnitPrice   string `json:"unit_price"`
	ExpiresOn   string `json:"expires_on"` // YYYY-MM-DD, optional
}

// toRequest validates and converts the body. id overrides the body id when set
// (PUT routes carry it in the URL).
func (b ingredientBody) toRequest(id string) (app.UpsertIngredientRequest, string) {
	if id == "" {
		id = b.ID
	}
	if id == "" {
		return app.UpsertIngredientRequest{}, "id is required"
	}
	if b.Name == "" {
		return app.UpsertIngredientRequest{}, "name is required"
	}
	if b.Unit == "" {
		return app.UpsertIngredientRequest{}, "unit is required"
	}

	qty, err := decimal.NewFromString(b.Quantity)
	if err != nil {
		return app.UpsertIngredientRequest{}, "invalid quantity"
	}

	per := decimal.NewFromInt(1)
	if b.PerQuantity != "" {
		per, err = decimal.NewFromString(b.PerQuantity)
		if err != nil {
			return app.UpsertIngredientRequest{}, "invalid per_quantity"
		}
	}

	price := decimal.Zero
	if b.UnitPrice != "" {
		price, err = decimal.NewFromString(b.UnitPrice)
		if err != nil {
			return app.UpsertIngredientRequest{}, "invalid unit_price"
		}
	}

	var expires *time.Time
	if b.ExpiresOn != "" {
		t, err := time.Parse("2006-01-02", b.ExpiresOn)
		if err != nil {
			return app.UpsertIngredientRequest{}, "invalid expires_on, expected YYYY-MM-DD"
		}
		expires = &t
	}

	return app.UpsertIngredientRequest{
		ID:          id,
		Name:        b.Name,
		Unit:        b.Unit,
		Quantity:    qty,
		PerQuantity: per,
		UnitPrice:   price,
		ExpiresOn:   expires,
	}, ""
}

// createIngredient handles POST /api/ingredients.
// Body: { id, name, unit, quantity, per_quantity?, unit_price?, expires_on? }
func (h *Handler) createIngredient(w http.ResponseWriter, r *http.Request) {
	var body ingredientBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, msg := body.toRequest("")
	if msg != "" {
		writeError(w, r, msg, "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.CreateIngredient(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Ingredient)
}

// updateIngredient handles PUT /api/ingredients/{id}.
func (h *Handler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	var body ingredientBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, msg := body.toRequest(urlID(r))
	if msg != "" {
		writeError(w, r, msg, "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.UpdateIngredient(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Ingredient)
}

// deleteIngredient handles DELETE /api/ingredients/{id}.
func (h *Handler) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteIngredient(r.Context(), urlID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// adjustStock handles POST /api/ingredients/{id}/adjust.
// Body: { delta, note? }
func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delta string `json:"delta"`
		Note  string `json:"note"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	delta, err := decimal.NewFromString(body.Delta)
	if err != nil || delta.IsZero() {
		writeError(w, r, "delta must be a non-zero decimal", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.AdjustStock(r.Context(), app.AdjustStockRequest{
		IngredientID: urlID(r),
		Delta:        delta,
		Note:         body.Note,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Ingredient)
}
