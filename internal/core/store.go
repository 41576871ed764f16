package core

import "context"

// EntityStore is the read contract the resolution pipeline consumes.
//
// Implementations must return *NotFoundError for a missing id and wrap transport
// failures as *StoreUnavailableError, and must give all lookups issued within one
// resolution a consistent view of the data (a snapshot read is sufficient).
// Cancellation of ctx must be propagated, never swallowed.
type EntityStore interface {
	GetOrder(ctx context.Context, id string) (*Order, error)
	GetCake(ctx context.Context, id string) (*Cake, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	GetIngredient(ctx context.Context, id string) (*Ingredient, error)

	// GetIngredients is the batch variant of GetIngredient. It returns the subset
	// of requested ids that exist, keyed by id; absent ids are simply omitted so
	// the caller keeps the per-id NotFound decision.
	GetIngredients(ctx context.Context, ids []string) (map[string]*Ingredient, error)
}
