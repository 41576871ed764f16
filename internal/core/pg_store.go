package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// storeErr classifies a query failure: pgx.ErrNoRows becomes a typed NotFound
// for the given entity, everything else is wrapped as StoreUnavailable.
func storeErr(op string, kind EntityKind, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return &StoreUnavailableError{Op: op, Err: err}
}

// PGStore implements EntityStore over Postgres. All reads run against the pool;
// callers that need a stable snapshot across several lookups hold a repeatable-read
// transaction instead, but single-order resolution tolerates the default isolation.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) GetIngredient(ctx context.Context, id string) (*Ingredient, error) {
	return scanIngredientRow(s.pool.QueryRow(ctx, `
		SELECT id, name, unit, quantity, per_quantity, unit_price, expires_on, created_at, updated_at
		FROM ingredients
		WHERE id = $1
	`, id), id)
}

func scanIngredientRow(row pgx.Row, id string) (*Ingredient, error) {
	var ing Ingredient
	err := row.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.Quantity, &ing.PerQuantity,
		&ing.UnitPrice, &ing.ExpiresOn, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return nil, storeErr("get ingredient", KindIngredient, id, err)
	}
	if ing.Quantity.IsNegative() {
		return nil, &InvalidQuantityError{Kind: KindIngredient, ID: ing.ID, Field: "quantity", Value: ing.Quantity.String()}
	}
	return &ing, nil
}

// GetIngredients returns the subset of requested ids that exist, keyed by id.
// Per-id NotFound decisions stay with the caller.
func (s *PGStore) GetIngredients(ctx context.Context, ids []string) (map[string]*Ingredient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, unit, quantity, per_quantity, unit_price, expires_on, created_at, updated_at
		FROM ingredients
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "get ingredients", Err: err}
	}
	defer rows.Close()

	found := make(map[string]*Ingredient, len(ids))
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.Quantity, &ing.PerQuantity,
			&ing.UnitPrice, &ing.ExpiresOn, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			return nil, &StoreUnavailableError{Op: "scan ingredient", Err: err}
		}
		if ing.Quantity.IsNegative() {
			return nil, &InvalidQuantityError{Kind: KindIngredient, ID: ing.ID, Field: "quantity", Value: ing.Quantity.String()}
		}
		found[ing.ID] = &ing
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreUnavailableError{Op: "iterate ingredients", Err: err}
	}
	return found, nil
}

func (s *PGStore) GetCake(ctx context.Context, id string) (*Cake, error) {
	var c Cake
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, recipe_id, price, description, created_at
		FROM cakes
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.RecipeID, &c.Price, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, storeErr("get cake", KindCake, id, err)
	}
	return &c, nil
}

func (s *PGStore) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var r Recipe
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM recipes
		WHERE id = $1
	`, id).Scan(&r.ID, &r.Name, &r.CreatedAt)
	if err != nil {
		return nil, storeErr("get recipe", KindRecipe, id, err)
	}

	lines, err := fetchRecipeLines(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	r.Lines = lines
	return &r, nil
}

func fetchRecipeLines(ctx context.Context, q pgxQuerier, recipeID string) ([]RecipeLine, error) {
	rows, err := q.Query(ctx, `
		SELECT line_number, ingredient_id, quantity_per_unit
		FROM recipe_lines
		WHERE recipe_id = $1
		ORDER BY line_number
	`, recipeID)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "get recipe lines", Err: err}
	}
	defer rows.Close()

	var lines []RecipeLine
	for rows.Next() {
		var l RecipeLine
		if err := rows.Scan(&l.LineNumber, &l.IngredientID, &l.QuantityPerUnit); err != nil {
			return nil, &StoreUnavailableError{Op: "scan recipe line", Err: err}
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreUnavailableError{Op: "iterate recipe lines", Err: err}
	}
	return lines, nil
}

func (s *PGStore) GetOrder(ctx context.Context, id string) (*Order, error) {
	return fetchOrderQ(ctx, s.pool, id)
}

func fetchOrderQ(ctx context.Context, q pgxQuerier, id string) (*Order, error) {
	var o Order
	err := q.QueryRow(ctx, `
		SELECT id, customer_name, customer_email, status, order_date::text, total, notes, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.Status, &o.OrderDate, &o.Total, &o.Notes, &o.CreatedAt)
	if err != nil {
		return nil, storeErr("get order", KindOrder, id, err)
	}

	// cake_name is captured at order time, like unit_price, so lines stay
	// readable after catalog edits or deletions.
	rows, err := q.Query(ctx, `
		SELECT line_number, cake_id, cake_name, quantity, unit_price
		FROM order_lines
		WHERE order_id = $1
		ORDER BY line_number
	`, id)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "get order lines", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.LineNumber, &l.CakeID, &l.CakeName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, &StoreUnavailableError{Op: "scan order line", Err: err}
		}
		if l.Quantity <= 0 {
			return nil, &InvalidQuantityError{
				Kind:  KindOrder,
				ID:    o.ID,
				Field: fmt.Sprintf("line %d quantity", l.LineNumber),
				Value: fmt.Sprintf("%d", l.Quantity),
			}
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreUnavailableError{Op: "iterate order lines", Err: err}
	}
	return &o, nil
}
