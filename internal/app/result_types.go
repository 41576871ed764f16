package app

import "cakeshop/internal/core"

// IngredientResult is returned by single-ingredient operations.
type IngredientResult struct {
	Ingredient *core.Ingredient
}

// IngredientListResult is returned by ListIngredients and ApplyRestock.
type IngredientListResult struct {
	Ingredients []core.Ingredient
}

// CakeResult is returned by single-cake operations.
type CakeResult struct {
	Cake *core.Cake
}

// CakeListResult is returned by ListCakes.
type CakeListResult struct {
	Cakes []core.Cake
}

// RecipeResult is returned by single-recipe operations.
type RecipeResult struct {
	Recipe *core.Recipe
}

// RecipeListResult is returned by ListRecipes.
type RecipeListResult struct {
	Recipes []core.Recipe
}

// OrderResult is returned by order operations.
type OrderResult struct {
	Order *core.Order
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.Order
}

// ResolutionResult is returned by ResolveOrderIngredients.
type ResolutionResult struct {
	Report *core.ResolutionReport
}

// FulfillResult is returned by FulfillOrder: the transitioned order plus the
// ingredient report computed against the stock snapshot at fulfillment time.
type FulfillResult struct {
	Order  *core.Order
	Report *core.ResolutionReport
}

// UsageResult is returned by OrderIngredientUsage.
type UsageResult struct {
	OrderID string
	Entries []core.UsageEntry
}

// RestockResult is returned by InterpretRestock.
type RestockResult struct {
	Proposal *core.RestockProposal
}
