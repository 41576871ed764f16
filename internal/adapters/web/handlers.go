package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"cakeshop/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// ── Ingredients ───────────────────────────────────────────────────────────
	r.Get("/api/ingredients", h.listIngredients)
	r.Post("/api/ingredients", h.createIngredient)
	r.Get("/api/ingredients/{id}", h.getIngredient)
	r.Put("/api/ingredients/{id}", h.updateIngredient)
	r.Delete("/api/ingredients/{id}", h.deleteIngredient)
	r.Post("/api/ingredients/{id}/adjust", h.adjustStock)

	// ── Cakes ─────────────────────────────────────────────────────────────────
	r.Get("/api/cakes", h.listCakes)
	r.Post("/api/cakes", h.createCake)
	r.Get("/api/cakes/{id}", h.getCake)
	r.Put("/api/cakes/{id}", h.updateCake)
	r.Delete("/api/cakes/{id}", h.deleteCake)

	// ── Recipes ───────────────────────────────────────────────────────────────
	r.Get("/api/recipes", h.listRecipes)
	r.Post("/api/recipes", h.createRecipe)
	r.Get("/api/recipes/{id}", h.getRecipe)
	r.Put("/api/recipes/{id}", h.updateRecipe)
	r.Delete("/api/recipes/{id}", h.deleteRecipe)

	// ── Orders & resolution ───────────────────────────────────────────────────
	r.Get("/api/orders", h.listOrders)
	r.Post("/api/orders", h.placeOrder)
	r.Get("/api/orders/{id}", h.getOrder)
	r.Post("/api/orders/{id}/cancel", h.cancelOrder)
	r.Post("/api/orders/{id}/fulfill", h.fulfillOrder)
	r.Get("/api/orders/{id}/ingredients", h.resolveOrderIngredients)
	r.Get("/api/orders/{id}/usage", h.orderUsage)

	// ── AI restock assistant ──────────────────────────────────────────────────
	r.Post("/api/assistant/restock", h.interpretRestock)
	r.Post("/api/assistant/restock/apply", h.applyRestock)

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// urlID extracts the {id} URL parameter.
func urlID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
