package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RecipeLineInput is one ingredient requirement in a recipe write.
type RecipeLineInput struct {
	IngredientID    string
	QuantityPerUnit decimal.Decimal
}

// RecipeInput carries the writable fields of a recipe. Line order is preserved.
type RecipeInput struct {
	Name  string
	Lines []RecipeLineInput
}

// RecipeService manages recipes. A recipe is immutable during resolution; writes
// replace the full line set atomically.
type RecipeService interface {
	ListRecipes(ctx context.Context) ([]Recipe, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	CreateRecipe(ctx context.Context, id string, in RecipeInput) (*Recipe, error)
	UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

type recipeService struct {
	pool *pgxpool.Pool
}

func NewRecipeService(pool *pgxpool.Pool) RecipeService {
	return &recipeService{pool: pool}
}

// validateRecipeLines checks every line for a known ingredient and a positive
// quantity before anything is written.
func (s *recipeService) validateRecipeLines(ctx context.Context, recipeID string, lines []RecipeLineInput) error {
	if len(lines) == 0 {
		return fmt.Errorf("recipe %s must have at least one ingredient line", recipeID)
	}
	for i, line := range lines {
		if line.QuantityPerUnit.IsNegative() || line.QuantityPerUnit.IsZero() {
			return &InvalidQuantityError{
				Kind:  KindRecipe,
				ID:    recipeID,
				Field: fmt.Sprintf("line %d quantity_per_unit", i+1),
				Value: line.QuantityPerUnit.String(),
			}
		}
		var exists bool
		if err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM ingredients WHERE id = $1)", line.IngredientID).Scan(&exists); err != nil {
			return &StoreUnavailableError{Op: "check ingredient", Err: err}
		}
		if !exists {
			return &BrokenReferenceError{From: KindRecipe, FromID: recipeID, To: KindIngredient, ToID: line.IngredientID}
		}
	}
	return nil
}

func (s *recipeService) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name, created_at FROM recipes ORDER BY id")
	if err != nil {
		return nil, &StoreUnavailableError{Op: "list recipes", Err: err}
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			return nil, &StoreUnavailableError{Op: "scan recipe", Err: err}
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreUnavailableError{Op: "iterate recipes", Err: err}
	}

	for i := range recipes {
		lines, err := fetchRecipeLines(ctx, s.pool, recipes[i].ID)
		if err != nil {
			return nil, err
		}
		recipes[i].Lines = lines
	}
	return recipes, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var r Recipe
	err := s.pool.QueryRow(ctx, "SELECT id, name, created_at FROM recipes WHERE id = $1", id).
		Scan(&r.ID, &r.Name, &r.CreatedAt)
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

func (s *recipeService) CreateRecipe(ctx context.Context, id string, in RecipeInput) (*Recipe, error) {
	if id == "" {
		return nil, fmt.Errorf("recipe id is required")
	}
	if err := s.validateRecipeLines(ctx, id, in.Lines); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "begin recipe creation", Err: err}
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)", id).Scan(&exists); err != nil {
		return nil, &StoreUnavailableError{Op: "check recipe", Err: err}
	}
	if exists {
		return nil, fmt.Errorf("recipe %s already exists", id)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO recipes (id, name) VALUES ($1, $2)", id, in.Name); err != nil {
		return nil, &StoreUnavailableError{Op: "create recipe", Err: err}
	}
	if err := insertRecipeLines(ctx, tx, id, in.Lines); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &StoreUnavailableError{Op: "commit recipe creation", Err: err}
	}
	return s.GetRecipe(ctx, id)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*Recipe, error) {
	if err := s.validateRecipeLines(ctx, id, in.Lines); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "begin recipe update", Err: err}
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "UPDATE recipes SET name = $1 WHERE id = $2", in.Name, id)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "update recipe", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Kind: KindRecipe, ID: id}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM recipe_lines WHERE recipe_id = $1", id); err != nil {
		return nil, &StoreUnavailableError{Op: "clear recipe lines", Err: err}
	}
	if err := insertRecipeLines(ctx, tx, id, in.Lines); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &StoreUnavailableError{Op: "commit recipe update", Err: err}
	}
	return s.GetRecipe(ctx, id)
}

func insertRecipeLines(ctx context.Context, tx pgx.Tx, recipeID string, lines []RecipeLineInput) error {
	for i, line := range lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO recipe_lines (recipe_id, line_number, ingredient_id, quantity_per_unit)
			VALUES ($1, $2, $3, $4)
		`, recipeID, i+1, line.IngredientID, line.QuantityPerUnit)
		if err != nil {
			return &StoreUnavailableError{Op: fmt.Sprintf("insert recipe line %d", i+1), Err: err}
		}
	}
	return nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &StoreUnavailableError{Op: "begin recipe deletion", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM recipe_lines WHERE recipe_id = $1", id); err != nil {
		return &StoreUnavailableError{Op: "delete recipe lines", Err: err}
	}
	tag, err := tx.Exec(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return &StoreUnavailableError{Op: "delete recipe", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: KindRecipe, ID: id}
	}

	if err := tx.Commit(ctx); err != nil {
		return &StoreUnavailableError{Op: "commit recipe deletion", Err: err}
	}
	return nil
}
