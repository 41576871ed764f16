package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is a stocked raw material. Quantity is the current stock on hand,
// tracked in the ingredient's own unit (grams, millilitres, pieces). PerQuantity
// is the batch size that UnitPrice buys, used for purchasing math only.
type Ingredient struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	PerQuantity decimal.Decimal `json:"per_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ExpiresOn   *time.Time      `json:"expires_on,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecipeLine is one ingredient requirement within a recipe. QuantityPerUnit is
// the amount consumed to produce a single cake.
type RecipeLine struct {
	LineNumber      int             `json:"line_number"`
	IngredientID    string          `json:"ingredient_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}

// Recipe is the fixed, ordered list of ingredient requirements for one kind of cake.
type Recipe struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Lines     []RecipeLine `json:"lines"`
	CreatedAt time.Time    `json:"created_at"`
}

// Cake is a catalog product. RecipeID references the recipe that produces it.
// The reference is checked when a cake is created but not enforced afterwards,
// so it can dangle if the recipe is deleted later; resolution reports that as a
// broken reference rather than treating it as zero usage.
type Cake struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	RecipeID    string          `json:"recipe_id"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderLine is one purchased cake position. Quantity is a whole number of cakes;
// UnitPrice is the catalog price captured at order time.
type OrderLine struct {
	LineNumber int             `json:"line_number"`
	CakeID     string          `json:"cake_id"`
	CakeName   string          `json:"cake_name,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Order is a customer purchase of one or more cake line items. Orders are
// immutable once placed; only their status changes.
type Order struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Status        OrderStatus     `json:"status"`
	OrderDate     string          `json:"order_date"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes,omitempty"`
	Lines         []OrderLine     `json:"lines"`
	CreatedAt     time.Time       `json:"created_at"`
}

// UsageEntry is the total quantity of one ingredient consumed by an order.
// Derived, never persisted.
type UsageEntry struct {
	IngredientID string          `json:"ingredient_id"`
	TotalUsed    decimal.Decimal `json:"total_used"`
}

// RemainingStock is the per-ingredient outcome of resolving an order against
// current stock. Remaining may be negative: the order consumed more than is on
// hand (oversold). It is reported as-is, never clamped.
type RemainingStock struct {
	IngredientID string          `json:"ingredient_id"`
	Used         decimal.Decimal `json:"used"`
	Current      decimal.Decimal `json:"current"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// StockMovement is an audit record of one explicit stock adjustment.
type StockMovement struct {
	ID           int             `json:"id"`
	IngredientID string          `json:"ingredient_id"`
	Delta        decimal.Decimal `json:"delta"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RestockItem is a single ingredient receipt within an AI-generated restock proposal.
type RestockItem struct {
	IngredientID string `json:"ingredient_id" jsonschema_description:"The exact ingredient id from the provided ingredient catalog"`
	Quantity     string `json:"quantity" jsonschema_description:"The amount received, in the ingredient's own unit, as a positive decimal string (e.g. '20000' for 20 kg when the unit is grams)"`
	Note         string `json:"note" jsonschema_description:"Short free-text note describing this receipt line"`
}

// RestockProposal is the AI-generated interpretation of a natural-language
// delivery note. It is only a proposal: stock changes are applied separately,
// after explicit confirmation.
type RestockProposal struct {
	Summary    string        `json:"summary" jsonschema_description:"A brief summary of the delivery"`
	Confidence float64       `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning  string        `json:"reasoning" jsonschema_description:"Explanation for how the note was interpreted, including any unit conversions"`
	Items      []RestockItem `json:"items" jsonschema_description:"One entry per ingredient received"`
}
