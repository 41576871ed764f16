package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// IngredientInput carries the writable fields of an ingredient.
type IngredientInput struct {
	Name        string
	Unit        string
	Quantity    decimal.Decimal
	PerQuantity decimal.Decimal
	UnitPrice   decimal.Decimal
	ExpiresOn   *time.Time
}

// IngredientService manages the ingredient inventory: master data plus explicit
// stock adjustments. The resolution core never calls these write paths; stock
// stays a read-time projection there.
type IngredientService interface {
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*Ingredient, error)
	CreateIngredient(ctx context.Context, id string, in IngredientInput) (*Ingredient, error)
	UpdateIngredient(ctx context.Context, id string, in IngredientInput) (*Ingredient, error)
	DeleteIngredient(ctx context.Context, id string) error

	// AdjustStock applies a signed stock delta (goods receipt, spoilage, stocktake
	// correction) and records a movement row. The adjustment may not drive the
	// quantity negative.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal, note string) (*Ingredient, error)
}

type ingredientService struct {
	pool *pgxpool.Pool
}

func NewIngredientService(pool *pgxpool.Pool) IngredientService {
	return &ingredientService{pool: pool}
}

func validateIngredientInput(id string, in IngredientInput) error {
	if in.Quantity.IsNegative() {
		return &InvalidQuantityError{Kind: KindIngredient, ID: id, Field: "quantity", Value: in.Quantity.String()}
	}
	if in.PerQuantity.IsNegative() {
		return &InvalidQuantityError{Kind: KindIngredient, ID: id, Field: "per_quantity", Value: in.PerQuantity.String()}
	}
	if in.UnitPrice.IsNegative() {
		return &InvalidQuantityError{Kind: KindIngredient, ID: id, Field: "unit_price", Value: in.UnitPrice.String()}
	}
	return nil
}

func (s *ingredientService) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, unit, quantity, per_quantity, unit_price, expires_on, created_at, updated_at
		FROM ingredients
		ORDER BY id
	`)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "list ingredients", Err: err}
	}
	defer rows.Close()

	var ingredients []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.Quantity, &ing.PerQuantity,
			&ing.UnitPrice, &ing.ExpiresOn, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			return nil, &StoreUnavailableError{Op: "scan ingredient", Err: err}
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreUnavailableError{Op: "iterate ingredients", Err: err}
	}
	return ingredients, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id string) (*Ingredient, error) {
	return scanIngredientRow(s.pool.QueryRow(ctx, `
		SELECT id, name, unit, quantity, per_quantity, unit_price, expires_on, created_at, updated_at
		FROM ingredients
		WHERE id = $1
	`, id), id)
}

func (s *ingredientService) CreateIngredient(ctx context.Context, id string, in IngredientInput) (*Ingredient, error) {
	if id == "" {
		return nil, fmt.Errorf("ingredient id is required")
	}
	if err := validateIngredientInput(id, in); err != nil {
		return nil, err
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM ingredients WHERE id = $1)", id).Scan(&exists); err != nil {
		return nil, &StoreUnavailableError{Op: "check ingredient", Err: err}
	}
	if exists {
		return nil, fmt.Errorf("ingredient %s already exists", id)
	}

	var ing Ingredient
	err := s.pool.QueryRow(ctx, `
		INSERT INTO ingredients (id, name, unit, quantity, per_quantity, unit_price, expires_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, unit, quantity, per_quantity, unit_price, expires_on, created_at, updated_at
	`, id, in.Name, in.Unit, in.Quantity, in.PerQuantity, in.UnitPrice, in.ExpiresOn).Scan(
		&ing.ID, &ing.Name, &ing.Unit, &ing.Quantity, &ing.PerQuantity,
		&ing.UnitPrice, &ing.ExpiresOn, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "create ingredient", Err: err}
	}
	return &ing, nil
}

func (s *ingredientService) UpdateIngredient(ctx context.Context, id string, in IngredientInput) (*Ingredient, error) {
	if err := validateIngredientInput(id, in); err != nil {
		return nil, err
	}

	var ing Ingredient
	err := s.pool.QueryRow(ctx, `
		UPDATE ingredients
		SET name = $1, unit = $2, quantity = $3, per_quantity = $4, unit_price = $5,
		    expires_on = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING id, name, unit, quantity, per_quantity, unit_price, expires_on, created_at, updated_at
	`, in.Name, in.Unit, in.Quantity, in.PerQuantity, in.UnitPrice, in.ExpiresOn, id).Scan(
		&ing.ID, &ing.Name, &ing.Unit, &ing.Quantity, &ing.PerQuantity,
		&ing.UnitPrice, &ing.ExpiresOn, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err != nil {
		return nil, storeErr("update ingredient", KindIngredient, id, err)
	}
	return &ing, nil
}

func (s *ingredientService) DeleteIngredient(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM ingredients WHERE id = $1", id)
	if err != nil {
		return &StoreUnavailableError{Op: "delete ingredient", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: KindIngredient, ID: id}
	}
	return nil
}

// AdjustStock locks the ingredient row, applies the delta, and appends a
// stock_movements record in one transaction.
func (s *ingredientService) AdjustStock(ctx context.Context, id string, delta decimal.Decimal, note string) (*Ingredient, error) {
	if delta.IsZero() {
		return nil, &InvalidQuantityError{Kind: KindIngredient, ID: id, Field: "delta", Value: delta.String()}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "begin stock adjustment", Err: err}
	}
	defer tx.Rollback(ctx)

	var current decimal.Decimal
	err = tx.QueryRow(ctx, "SELECT quantity FROM ingredients WHERE id = $1 FOR UPDATE", id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: KindIngredient, ID: id}
		}
		return nil, &StoreUnavailableError{Op: "lock ingredient", Err: err}
	}

	newQty := current.Add(delta)
	if newQty.IsNegative() {
		return nil, fmt.Errorf("adjustment would drive ingredient %s negative: on hand %s, delta %s",
			id, current.String(), delta.String())
	}

	var ing Ingredient
	err = tx.QueryRow(ctx, `
		UPDATE ingredients
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, unit, quantity, per_quantity, unit_price, expires_on, created_at, updated_at
	`, newQty, id).Scan(
		&ing.ID, &ing.Name, &ing.Unit, &ing.Quantity, &ing.PerQuantity,
		&ing.UnitPrice, &ing.ExpiresOn, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "update stock", Err: err}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (ingredient_id, delta, note)
		VALUES ($1, $2, $3)
	`, id, delta, note)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "insert stock movement", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &StoreUnavailableError{Op: "commit stock adjustment", Err: err}
	}
	return &ing, nil
}
