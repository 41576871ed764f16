package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertIngredientRequest is the input for creating or updating an ingredient.
type UpsertIngredientRequest struct {
	ID          string
	Name        string
	Unit        string
	Quantity    decimal.Decimal
	PerQuantity decimal.Decimal
	UnitPrice   decimal.Decimal
	ExpiresOn   *time.Time
}

// AdjustStockRequest is the input for an explicit stock adjustment.
type AdjustStockRequest struct {
	IngredientID string
	Delta        decimal.Decimal
	Note         string
}

// UpsertCakeRequest is the input for creating or updating a catalog cake.
type UpsertCakeRequest struct {
	ID          string
	Name        string
	RecipeID    string
	Price       decimal.Decimal
	Description string
}

// RecipeLineRequest is a single ingredient line within an UpsertRecipeRequest.
type RecipeLineRequest struct {
	IngredientID    string
	QuantityPerUnit decimal.Decimal
}

// UpsertRecipeRequest is the input for creating or updating a recipe.
type UpsertRecipeRequest struct {
	ID    string
	Name  string
	Lines []RecipeLineRequest
}

// OrderLineRequest is a single cake position within a PlaceOrderRequest.
type OrderLineRequest struct {
	CakeID   string
	Quantity int
}

// PlaceOrderRequest is the input for placing a new order.
type PlaceOrderRequest struct {
	CustomerName  string
	CustomerEmail string
	OrderDate     string // YYYY-MM-DD; empty means today
	Notes         string
	Lines         []OrderLineRequest
}
