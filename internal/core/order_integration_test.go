package core_test

import (
	"context"
	"testing"

	"cakeshop/internal/core"
)

func TestOrderService_PlaceAndFetch(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewOrderService(pool)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, core.PlaceOrderInput{
		CustomerName:  "Maya Patel",
		CustomerEmail: "maya@example.com",
		OrderDate:     "2026-09-01",
		Lines: []core.OrderLineInput{
			{CakeID: "C001", Quantity: 2}, // 2 × 18.50
			{CakeID: "C002", Quantity: 1}, // 1 × 16.00
		},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if order.Status != core.OrderStatusPlaced {
		t.Errorf("expected PLACED, got %s", order.Status)
	}
	if !order.Total.Equal(dec("53.00")) {
		t.Errorf("expected total 53.00, got %s", order.Total)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Lines))
	}
	// Lines carry catalog name and price captured at order time.
	if order.Lines[0].CakeName != "Chocolate Cake" || !order.Lines[0].UnitPrice.Equal(dec("18.50")) {
		t.Errorf("unexpected first line: %+v", order.Lines[0])
	}

	fetched, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if fetched.ID != order.ID || len(fetched.Lines) != 2 {
		t.Errorf("fetched order does not match placed order: %+v", fetched)
	}

	if _, err := svc.GetOrder(ctx, "00000000-0000-0000-0000-000000000000"); !core.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

// Order lines snapshot the catalog name and price at placement; later catalog
// edits or deletions must not change what a fetched order shows.
func TestOrderService_LinesCaptureCatalogAtOrderTime(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	cakes := core.NewCakeService(pool)
	ctx := context.Background()

	order, err := orders.PlaceOrder(ctx, core.PlaceOrderInput{
		CustomerName: "Maya Patel",
		Lines: []core.OrderLineInput{
			{CakeID: "C001", Quantity: 1},
			{CakeID: "C002", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if _, err := cakes.UpdateCake(ctx, "C001", core.CakeInput{
		Name: "Triple Chocolate", RecipeID: "R001", Price: dec("25.00"),
	}); err != nil {
		t.Fatalf("UpdateCake failed: %v", err)
	}
	if err := cakes.DeleteCake(ctx, "C002"); err != nil {
		t.Fatalf("DeleteCake failed: %v", err)
	}

	fetched, err := orders.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if fetched.Lines[0].CakeName != "Chocolate Cake" || !fetched.Lines[0].UnitPrice.Equal(dec("18.50")) {
		t.Errorf("line 1 must keep the order-time snapshot, got %+v", fetched.Lines[0])
	}
	if fetched.Lines[1].CakeName != "Vanilla Dream" || !fetched.Lines[1].UnitPrice.Equal(dec("16.00")) {
		t.Errorf("line 2 must keep the order-time snapshot, got %+v", fetched.Lines[1])
	}
	if !fetched.Total.Equal(dec("50.50")) {
		t.Errorf("total must be priced at order time, got %s", fetched.Total)
	}

	// Every line column, cake_name included, was written by PlaceOrder itself.
	var unnamed int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM order_lines WHERE order_id = $1 AND cake_name = ''", order.ID).Scan(&unnamed); err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if unnamed != 0 {
		t.Errorf("expected every order line to carry a cake name, %d blank", unnamed)
	}
}

func TestOrderService_PlaceValidation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewOrderService(pool)
	ctx := context.Background()

	if _, err := svc.PlaceOrder(ctx, core.PlaceOrderInput{
		CustomerName: "Maya Patel",
		Lines:        []core.OrderLineInput{{CakeID: "C001", Quantity: 0}},
	}); !core.IsInvalidQuantity(err) {
		t.Errorf("expected InvalidQuantityError for zero quantity, got %v", err)
	}

	if _, err := svc.PlaceOrder(ctx, core.PlaceOrderInput{
		CustomerName: "Maya Patel",
		Lines:        []core.OrderLineInput{{CakeID: "CXXX", Quantity: 1}},
	}); !core.IsNotFound(err) {
		t.Errorf("expected NotFoundError for unknown cake, got %v", err)
	}

	if _, err := svc.PlaceOrder(ctx, core.PlaceOrderInput{}); err == nil {
		t.Error("expected error placing order without customer name")
	}
}

func TestOrderService_Lifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewOrderService(pool)
	ctx := context.Background()

	place := func() *core.Order {
		t.Helper()
		o, err := svc.PlaceOrder(ctx, core.PlaceOrderInput{
			CustomerName: "Jonas Weber",
			Lines:        []core.OrderLineInput{{CakeID: "C001", Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("PlaceOrder failed: %v", err)
		}
		return o
	}

	// PLACED → FULFILLED, then no further transitions.
	o1 := place()
	fulfilled, err := svc.FulfillOrder(ctx, o1.ID)
	if err != nil {
		t.Fatalf("FulfillOrder failed: %v", err)
	}
	if fulfilled.Status != core.OrderStatusFulfilled {
		t.Errorf("expected FULFILLED, got %s", fulfilled.Status)
	}
	if _, err := svc.CancelOrder(ctx, o1.ID); err == nil {
		t.Error("cancelling a fulfilled order must fail")
	}
	if _, err := svc.FulfillOrder(ctx, o1.ID); err == nil {
		t.Error("fulfilling twice must fail")
	}

	// PLACED → CANCELLED, then no fulfillment.
	o2 := place()
	cancelled, err := svc.CancelOrder(ctx, o2.ID)
	if err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	if cancelled.Status != core.OrderStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
	if _, err := svc.FulfillOrder(ctx, o2.ID); err == nil {
		t.Error("fulfilling a cancelled order must fail")
	}

	// Status filter.
	placedStatus := core.OrderStatusPlaced
	placed, err := svc.ListOrders(ctx, &placedStatus)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(placed) != 0 {
		t.Errorf("expected no PLACED orders left, got %d", len(placed))
	}
	all, err := svc.ListOrders(ctx, nil)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 orders total, got %d", len(all))
	}
}
