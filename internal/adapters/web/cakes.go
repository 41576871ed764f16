package web

import (
	"net/http"

	"cakeshop/internal/app"

	"github.com/shopspring/decimal"
)

// listCakes handles GET /api/cakes.
func (h *Handler) listCakes(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCakes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Cakes)
}

// getCake handles GET /api/cakes/{id}.
func (h *Handler) getCake(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetCake(r.Context(), urlID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Cake)
}

type cakeBody struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RecipeID    string `json:"recipe_id"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

func (b cakeBody) toRequest(id string) (app.UpsertCakeRequest, string) {
	if id == "" {
		id = b.ID
	}
	if id == "" {
		return app.UpsertCakeRequest{}, "id is required"
	}
	if b.Name == "" {
		return app.UpsertCakeRequest{}, "name is required"
	}
	if b.RecipeID == "" {
		return app.UpsertCakeRequest{}, "recipe_id is required"
	}

	price := decimal.Zero
	if b.Price != "" {
		var err error
		price, err = decimal.NewFromString(b.Price)
		if err != nil {
			return app.UpsertCakeRequest{}, "invalid price"
		}
	}

	return app.UpsertCakeRequest{
		ID:          id,
		Name:        b.Name,
		RecipeID:    b.RecipeID,
		Price:       price,
		Description: b.Description,
	}, ""
}

// createCake handles POST /api/cakes.
// Body: { id, name, recipe_id, price?, description? }
func (h *Handler) createCake(w http.ResponseWriter, r *http.Request) {
	var body cakeBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, msg := body.toRequest("")
	if msg != "" {
		writeError(w, r, msg, "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.CreateCake(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Cake)
}

// updateCake handles PUT /api/cakes/{id}.
func (h *Handler) updateCake(w http.ResponseWriter, r *http.Request) {
	var body cakeBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, msg := body.toRequest(urlID(r))
	if msg != "" {
		writeError(w, r, msg, "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.UpdateCake(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Cake)
}

// deleteCake handles DELETE /api/cakes/{id}.
func (h *Handler) deleteCake(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCake(r.Context(), urlID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
