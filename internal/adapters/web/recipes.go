package web

import (
	"fmt"
	"net/http"

	"cakeshop/internal/app"

	"github.com/shopspring/decimal"
)

// listRecipes handles GET /api/recipes.
func (h *Handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListRecipes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Recipes)
}

// getRecipe handles GET /api/recipes/{id}.
func (h *Handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetRecipe(r.Context(), urlID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Recipe)
}

type recipeBody struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Lines []struct {
		IngredientID    string `json:"ingredient_id"`
		QuantityPerUnit string `json:"quantity_per_unit"`
	} `json:"lines"`
}

func (b recipeBody) toRequest(id string) (app.UpsertRecipeRequest, string) {
	if id == "" {
		id = b.ID
	}
	if id == "" {
		return app.UpsertRecipeRequest{}, "id is required"
	}
	if b.Name == "" {
		return app.UpsertRecipeRequest{}, "name is required"
	}
	if len(b.Lines) == 0 {
		return app.UpsertRecipeRequest{}, "at least one line is required"
	}

	req := app.UpsertRecipeRequest{ID: id, Name: b.Name}
	for i, l := range b.Lines {
		if l.IngredientID == "" {
			return app.UpsertRecipeRequest{}, fmt.Sprintf("line %d: ingredient_id is required", i+1)
		}
		qty, err := decimal.NewFromString(l.QuantityPerUnit)
		if err != nil {
			return app.UpsertRecipeRequest{}, fmt.Sprintf("line %d: invalid quantity_per_unit", i+1)
		}
		req.Lines = append(req.Lines, app.RecipeLineRequest{
			IngredientID:    l.IngredientID,
			QuantityPerUnit: qty,
		})
	}
	return req, ""
}

// createRecipe handles POST /api/recipes.
// Body: { id, name, lines: [{ingredient_id, quantity_per_unit}] }
func (h *Handler) createRecipe(w http.ResponseWriter, r *http.Request) {
	var body recipeBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, msg := body.toRequest("")
	if msg != "" {
		writeError(w, r, msg, "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.CreateRecipe(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Recipe)
}

// updateRecipe handles PUT /api/recipes/{id}.
func (h *Handler) updateRecipe(w http.ResponseWriter, r *http.Request) {
	var body recipeBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, msg := body.toRequest(urlID(r))
	if msg != "" {
		writeError(w, r, msg, "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.UpdateRecipe(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Recipe)
}

// deleteRecipe handles DELETE /api/recipes/{id}.
func (h *Handler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRecipe(r.Context(), urlID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
