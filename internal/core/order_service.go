package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderLineInput is one cake position in a new order.
type OrderLineInput struct {
	CakeID   string
	Quantity int
}

// PlaceOrderInput carries everything needed to place a new order.
type PlaceOrderInput struct {
	CustomerName  string
	CustomerEmail string
	OrderDate     string // YYYY-MM-DD; empty means today
	Notes         string
	Lines         []OrderLineInput
}

// OrderService manages the customer order lifecycle. Fulfilling an order records
// a status transition only. Ingredient stock is never decremented; remaining
// quantities stay a read-time projection owned by the ResolutionService.
type OrderService interface {
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, status *OrderStatus) ([]Order, error)
	// CancelOrder transitions PLACED → CANCELLED.
	CancelOrder(ctx context.Context, id string) (*Order, error)
	// FulfillOrder transitions PLACED → FULFILLED.
	FulfillOrder(ctx context.Context, id string) (*Order, error)
}

type orderService struct {
	pool *pgxpool.Pool
}

func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool}
}

// PlaceOrder prices each line from the catalog at order time and writes the
// header and lines in one transaction. Line quantities must be positive whole
// numbers of cakes.
func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*Order, error) {
	if in.CustomerName == "" {
		return nil, fmt.Errorf("customer name is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "begin order placement", Err: err}
	}
	defer tx.Rollback(ctx)

	type pricedLine struct {
		cakeID    string
		cakeName  string
		quantity  int
		unitPrice decimal.Decimal
	}
	var priced []pricedLine
	var total decimal.Decimal

	for i, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{
				Kind:  KindOrder,
				Field: fmt.Sprintf("line %d quantity", i+1),
				Value: strconv.Itoa(line.Quantity),
			}
		}

		var name string
		var price decimal.Decimal
		err := tx.QueryRow(ctx, "SELECT name, price FROM cakes WHERE id = $1", line.CakeID).Scan(&name, &price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &NotFoundError{Kind: KindCake, ID: line.CakeID}
			}
			return nil, &StoreUnavailableError{Op: "resolve cake", Err: err}
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		priced = append(priced, pricedLine{cakeID: line.CakeID, cakeName: name, quantity: line.Quantity, unitPrice: price})
	}

	orderID := uuid.NewString()
	orderDate := in.OrderDate
	if orderDate == "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO orders (id, customer_name, customer_email, status, order_date, total, notes)
			VALUES ($1, $2, $3, 'PLACED', CURRENT_DATE, $4, $5)
		`, orderID, in.CustomerName, in.CustomerEmail, total, in.Notes)
	} else {
		_, err = tx.Exec(ctx, `
			INSERT INTO orders (id, customer_name, customer_email, status, order_date, total, notes)
			VALUES ($1, $2, $3, 'PLACED', $4, $5, $6)
		`, orderID, in.CustomerName, in.CustomerEmail, orderDate, total, in.Notes)
	}
	if err != nil {
		return nil, &StoreUnavailableError{Op: "insert order", Err: err}
	}

	for i, line := range priced {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, line_number, cake_id, cake_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, orderID, i+1, line.cakeID, line.cakeName, line.quantity, line.unitPrice)
		if err != nil {
			return nil, &StoreUnavailableError{Op: fmt.Sprintf("insert order line %d", i+1), Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &StoreUnavailableError{Op: "commit order placement", Err: err}
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*Order, error) {
	return fetchOrderQ(ctx, s.pool, id)
}

func (s *orderService) ListOrders(ctx context.Context, status *OrderStatus) ([]Order, error) {
	query := `
		SELECT id, customer_name, customer_email, status, order_date::text, total, notes, created_at
		FROM orders
	`
	args := []any{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "list orders", Err: err}
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.Status,
			&o.OrderDate, &o.Total, &o.Notes, &o.CreatedAt); err != nil {
			return nil, &StoreUnavailableError{Op: "scan order", Err: err}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreUnavailableError{Op: "iterate orders", Err: err}
	}
	return orders, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, id, OrderStatusPlaced, OrderStatusCancelled)
}

func (s *orderService) FulfillOrder(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, id, OrderStatusPlaced, OrderStatusFulfilled)
}

// transition locks the order, verifies the expected current status, and writes
// the new one.
func (s *orderService) transition(ctx context.Context, id string, from, to OrderStatus) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "begin order transition", Err: err}
	}
	defer tx.Rollback(ctx)

	var status OrderStatus
	err = tx.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1 FOR UPDATE", id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: KindOrder, ID: id}
		}
		return nil, &StoreUnavailableError{Op: "lock order", Err: err}
	}
	if status != from {
		return nil, fmt.Errorf("order %s cannot move to %s: status is %s (must be %s)", id, to, status, from)
	}

	if _, err := tx.Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", to, id); err != nil {
		return nil, &StoreUnavailableError{Op: "update order status", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &StoreUnavailableError{Op: "commit order transition", Err: err}
	}
	return s.GetOrder(ctx, id)
}
