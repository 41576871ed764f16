package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CakeInput carries the writable fields of a catalog cake.
type CakeInput struct {
	Name        string
	RecipeID    string
	Price       decimal.Decimal
	Description string
}

// CakeService manages the cake catalog.
type CakeService interface {
	ListCakes(ctx context.Context) ([]Cake, error)
	GetCake(ctx context.Context, id string) (*Cake, error)
	CreateCake(ctx context.Context, id string, in CakeInput) (*Cake, error)
	UpdateCake(ctx context.Context, id string, in CakeInput) (*Cake, error)
	DeleteCake(ctx context.Context, id string) error
}

type cakeService struct {
	pool *pgxpool.Pool
}

func NewCakeService(pool *pgxpool.Pool) CakeService {
	return &cakeService{pool: pool}
}

// checkRecipeExists rejects writes that would introduce a dangling recipe
// reference. Recipes deleted afterwards still dangle; resolution reports those.
func (s *cakeService) checkRecipeExists(ctx context.Context, cakeID, recipeID string) error {
	if recipeID == "" {
		return fmt.Errorf("cake %s: recipe id is required", cakeID)
	}
	var exists bool
	if err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)", recipeID).Scan(&exists); err != nil {
		return &StoreUnavailableError{Op: "check recipe", Err: err}
	}
	if !exists {
		return &BrokenReferenceError{From: KindCake, FromID: cakeID, To: KindRecipe, ToID: recipeID}
	}
	return nil
}

func (s *cakeService) ListCakes(ctx context.Context) ([]Cake, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, recipe_id, price, description, created_at
		FROM cakes
		ORDER BY id
	`)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "list cakes", Err: err}
	}
	defer rows.Close()

	var cakes []Cake
	for rows.Next() {
		var c Cake
		if err := rows.Scan(&c.ID, &c.Name, &c.RecipeID, &c.Price, &c.Description, &c.CreatedAt); err != nil {
			return nil, &StoreUnavailableError{Op: "scan cake", Err: err}
		}
		cakes = append(cakes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreUnavailableError{Op: "iterate cakes", Err: err}
	}
	return cakes, nil
}

func (s *cakeService) GetCake(ctx context.Context, id string) (*Cake, error) {
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

func (s *cakeService) CreateCake(ctx context.Context, id string, in CakeInput) (*Cake, error) {
	if id == "" {
		return nil, fmt.Errorf("cake id is required")
	}
	if in.Price.IsNegative() {
		return nil, &InvalidQuantityError{Kind: KindCake, ID: id, Field: "price", Value: in.Price.String()}
	}
	if err := s.checkRecipeExists(ctx, id, in.RecipeID); err != nil {
		return nil, err
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM cakes WHERE id = $1)", id).Scan(&exists); err != nil {
		return nil, &StoreUnavailableError{Op: "check cake", Err: err}
	}
	if exists {
		return nil, fmt.Errorf("cake %s already exists", id)
	}

	var c Cake
	err := s.pool.QueryRow(ctx, `
		INSERT INTO cakes (id, name, recipe_id, price, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, recipe_id, price, description, created_at
	`, id, in.Name, in.RecipeID, in.Price, in.Description).Scan(
		&c.ID, &c.Name, &c.RecipeID, &c.Price, &c.Description, &c.CreatedAt,
	)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "create cake", Err: err}
	}
	return &c, nil
}

func (s *cakeService) UpdateCake(ctx context.Context, id string, in CakeInput) (*Cake, error) {
	if in.Price.IsNegative() {
		return nil, &InvalidQuantityError{Kind: KindCake, ID: id, Field: "price", Value: in.Price.String()}
	}
	if err := s.checkRecipeExists(ctx, id, in.RecipeID); err != nil {
		return nil, err
	}

	var c Cake
	err := s.pool.QueryRow(ctx, `
		UPDATE cakes
		SET name = $1, recipe_id = $2, price = $3, description = $4
		WHERE id = $5
		RETURNING id, name, recipe_id, price, description, created_at
	`, in.Name, in.RecipeID, in.Price, in.Description, id).Scan(
		&c.ID, &c.Name, &c.RecipeID, &c.Price, &c.Description, &c.CreatedAt,
	)
	if err != nil {
		return nil, storeErr("update cake", KindCake, id, err)
	}
	return &c, nil
}

func (s *cakeService) DeleteCake(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM cakes WHERE id = $1", id)
	if err != nil {
		return &StoreUnavailableError{Op: "delete cake", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: KindCake, ID: id}
	}
	return nil
}
