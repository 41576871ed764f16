package web

import (
	"fmt"
	"net/http"

	"cakeshop/internal/app"
)

// listOrders handles GET /api/orders. An optional ?status= query filters by
// order status.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}

// getOrder handles GET /api/orders/{id}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetOrder(r.Context(), urlID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// placeOrder handles POST /api/orders.
// Body: { customer_name, customer_email?, order_date?, notes?, lines: [{cake_id, quantity}] }
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CustomerName  string `json:"customer_name"`
		CustomerEmail string `json:"customer_email"`
		OrderDate     string `json:"order_date"`
		Notes         string `json:"notes"`
		Lines         []struct {
			CakeID   string `json:"cake_id"`
			Quantity int    `json:"quantity"`
		} `json:"lines"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if body.CustomerName == "" {
		writeError(w, r, "customer_name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	req := app.PlaceOrderRequest{
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		OrderDate:     body.OrderDate,
		Notes:         body.Notes,
	}
	for i, l := range body.Lines {
		if l.CakeID == "" {
			writeError(w, r, fmt.Sprintf("line %d: cake_id is required", i+1), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.Lines = append(req.Lines, app.OrderLineRequest{CakeID: l.CakeID, Quantity: l.Quantity})
	}

	result, err := h.svc.PlaceOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// cancelOrder handles POST /api/orders/{id}/cancel.
func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CancelOrder(r.Context(), urlID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// fulfillOrder handles POST /api/orders/{id}/fulfill. The response carries the
// transitioned order and the remaining-stock report it was fulfilled against.
func (h *Handler) fulfillOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.FulfillOrder(r.Context(), urlID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		Order  any `json:"order"`
		Report any `json:"report"`
	}
	writeJSON(w, response{Order: result.Order, Report: result.Report})
}

// resolveOrderIngredients handles GET /api/orders/{id}/ingredients.
func (h *Handler) resolveOrderIngredients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ResolveOrderIngredients(r.Context(), urlID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Report)
}

// orderUsage handles GET /api/orders/{id}/usage.
func (h *Handler) orderUsage(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.OrderIngredientUsage(r.Context(), urlID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		OrderID string `json:"order_id"`
		Entries any    `json:"entries"`
	}
	writeJSON(w, response{OrderID: result.OrderID, Entries: result.Entries})
}
