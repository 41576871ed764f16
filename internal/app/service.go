package app

import (
	"context"

	"cakeshop/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ListIngredients returns the full ingredient inventory.
	ListIngredients(ctx context.Context) (*IngredientListResult, error)

	// GetIngredient returns a single ingredient by id.
	GetIngredient(ctx context.Context, id string) (*IngredientResult, error)

	// CreateIngredient adds a new ingredient to the inventory.
	CreateIngredient(ctx context.Context, req UpsertIngredientRequest) (*IngredientResult, error)

	// UpdateIngredient replaces an ingredient's master data.
	UpdateIngredient(ctx context.Context, req UpsertIngredientRequest) (*IngredientResult, error)

	// DeleteIngredient removes an ingredient. Recipes referencing it will fail
	// resolution with a missing-ingredient error afterwards.
	DeleteIngredient(ctx context.Context, id string) error

	// AdjustStock applies a signed stock delta with an audit note.
	AdjustStock(ctx context.Context, req AdjustStockRequest) (*IngredientResult, error)

	// ListCakes returns the cake catalog.
	ListCakes(ctx context.Context) (*CakeListResult, error)

	// GetCake returns a single catalog cake by id.
	GetCake(ctx context.Context, id string) (*CakeResult, error)

	// CreateCake adds a cake to the catalog. The referenced recipe must exist.
	CreateCake(ctx context.Context, req UpsertCakeRequest) (*CakeResult, error)

	// UpdateCake replaces a cake's catalog data.
	UpdateCake(ctx context.Context, req UpsertCakeRequest) (*CakeResult, error)

	// DeleteCake removes a cake from the catalog.
	DeleteCake(ctx context.Context, id string) error

	// ListRecipes returns all recipes with their ingredient lines.
	ListRecipes(ctx context.Context) (*RecipeListResult, error)

	// GetRecipe returns a single recipe by id.
	GetRecipe(ctx context.Context, id string) (*RecipeResult, error)

	// CreateRecipe adds a recipe. Every line must reference an existing
	// ingredient with a positive quantity-per-unit.
	CreateRecipe(ctx context.Context, req UpsertRecipeRequest) (*RecipeResult, error)

	// UpdateRecipe replaces a recipe's name and full line set atomically.
	UpdateRecipe(ctx context.Context, req UpsertRecipeRequest) (*RecipeResult, error)

	// DeleteRecipe removes a recipe. Cakes referencing it will fail resolution
	// with a broken-reference error afterwards.
	DeleteRecipe(ctx context.Context, id string) error

	// PlaceOrder creates a new PLACED order, pricing lines from the catalog.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResult, error)

	// GetOrder returns a single order with its line items.
	GetOrder(ctx context.Context, id string) (*OrderResult, error)

	// ListOrders returns all orders, optionally filtered by status.
	ListOrders(ctx context.Context, status string) (*OrderListResult, error)

	// CancelOrder transitions a PLACED order to CANCELLED.
	CancelOrder(ctx context.Context, id string) (*OrderResult, error)

	// FulfillOrder transitions a PLACED order to FULFILLED and returns the
	// remaining-stock report for the ingredients it consumed. Stock itself is
	// not decremented.
	FulfillOrder(ctx context.Context, id string) (*FulfillResult, error)

	// ResolveOrderIngredients computes the remaining-stock report for an order
	// without changing anything: which ingredients the order consumes, how much,
	// and what would be left on hand. Negative remaining quantities signal
	// oversell and are reported as-is.
	ResolveOrderIngredients(ctx context.Context, orderID string) (*ResolutionResult, error)

	// OrderIngredientUsage returns only the aggregated per-ingredient usage of
	// an order, without the stock join.
	OrderIngredientUsage(ctx context.Context, orderID string) (*UsageResult, error)

	// InterpretRestock sends a natural-language delivery note to the AI agent
	// and returns a typed restock proposal for human review.
	InterpretRestock(ctx context.Context, note string) (*RestockResult, error)

	// ApplyRestock commits a reviewed restock proposal through the
	// stock-adjustment path. Must only be called after explicit user approval.
	ApplyRestock(ctx context.Context, proposal core.RestockProposal) (*IngredientListResult, error)
}
