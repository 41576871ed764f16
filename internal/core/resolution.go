package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// RecipeRequirement is one (ingredient, quantity-per-cake) pair produced by
// expanding a cake's recipe.
type RecipeRequirement struct {
	IngredientID    string
	QuantityPerUnit decimal.Decimal
}

// RecipeExpander resolves a cake id to the ordered ingredient requirements of
// its recipe. Pure lookup plus expansion; no side effects.
type RecipeExpander struct {
	store EntityStore
}

func NewRecipeExpander(store EntityStore) *RecipeExpander {
	return &RecipeExpander{store: store}
}

// Expand returns the recipe lines for one cake, in recipe order. A missing cake
// is NotFound; a cake whose recipe id resolves nowhere is BrokenReference, never
// a silent zero. A negative quantity-per-unit read from the store is rejected as
// InvalidQuantity.
func (e *RecipeExpander) Expand(ctx context.Context, cakeID string) ([]RecipeRequirement, error) {
	cake, err := e.store.GetCake(ctx, cakeID)
	if err != nil {
		return nil, err
	}

	recipe, err := e.store.GetRecipe(ctx, cake.RecipeID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, &BrokenReferenceError{From: KindCake, FromID: cake.ID, To: KindRecipe, ToID: cake.RecipeID}
		}
		return nil, err
	}

	reqs := make([]RecipeRequirement, 0, len(recipe.Lines))
	for _, line := range recipe.Lines {
		if line.QuantityPerUnit.IsNegative() {
			return nil, &InvalidQuantityError{
				Kind:  KindRecipe,
				ID:    recipe.ID,
				Field: fmt.Sprintf("line %d quantity_per_unit", line.LineNumber),
				Value: line.QuantityPerUnit.String(),
			}
		}
		reqs = append(reqs, RecipeRequirement{
			IngredientID:    line.IngredientID,
			QuantityPerUnit: line.QuantityPerUnit,
		})
	}
	return reqs, nil
}

// UsageAggregator folds an order's cake line items into total ingredient usage.
type UsageAggregator struct {
	expander *RecipeExpander
}

func NewUsageAggregator(expander *RecipeExpander) *UsageAggregator {
	return &UsageAggregator{expander: expander}
}

// Aggregate returns the total quantity consumed per ingredient across all line
// items: for every (cake, quantityOrdered) it adds quantityOrdered × quantityPerUnit
// to the ingredient's running total. Repeated ingredients, whether across cakes or
// within one recipe, always sum, never overwrite. Any expansion error aborts the whole
// aggregation with no partial result. An empty line slice yields an empty map.
func (a *UsageAggregator) Aggregate(ctx context.Context, lines []OrderLine) (map[string]decimal.Decimal, error) {
	usage := make(map[string]decimal.Decimal, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{
				Kind:  KindOrder,
				Field: fmt.Sprintf("line %d quantity", line.LineNumber),
				Value: strconv.Itoa(line.Quantity),
			}
		}

		reqs, err := a.expander.Expand(ctx, line.CakeID)
		if err != nil {
			return nil, err
		}

		ordered := decimal.NewFromInt(int64(line.Quantity))
		for _, req := range reqs {
			usage[req.IngredientID] = usage[req.IngredientID].Add(ordered.Mul(req.QuantityPerUnit))
		}
	}
	return usage, nil
}

// StockResolver joins aggregated usage against current ingredient stock.
type StockResolver struct {
	store EntityStore
}

func NewStockResolver(store EntityStore) *StockResolver {
	return &StockResolver{store: store}
}

// Resolve produces one RemainingStock entry per used ingredient, sorted ascending
// by ingredient id. An ingredient consumed by the order but absent from the store
// (deleted after the recipe was written) is a hard NotFound, not a skip. Negative
// remaining quantities are valid output: oversell is the caller's policy call.
func (r *StockResolver) Resolve(ctx context.Context, usage map[string]decimal.Decimal) ([]RemainingStock, error) {
	if len(usage) == 0 {
		return []RemainingStock{}, nil
	}

	ids := make([]string, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stock, err := r.store.GetIngredients(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]RemainingStock, 0, len(ids))
	for _, id := range ids {
		ing, ok := stock[id]
		if !ok {
			return nil, &NotFoundError{Kind: KindIngredient, ID: id}
		}
		if ing.Quantity.IsNegative() {
			return nil, &InvalidQuantityError{Kind: KindIngredient, ID: id, Field: "quantity", Value: ing.Quantity.String()}
		}

		used := usage[id]
		entries = append(entries, RemainingStock{
			IngredientID: id,
			Used:         used,
			Current:      ing.Quantity,
			Remaining:    ing.Quantity.Sub(used),
		})
	}
	return entries, nil
}

// ResolutionReport is the outcome of resolving one order's ingredient consumption.
// Empty marks an order with no line items: a success state, distinguishable from
// both an error and a populated report. Entries is non-nil either way.
type ResolutionReport struct {
	OrderID string           `json:"order_id"`
	Empty   bool             `json:"empty"`
	Entries []RemainingStock `json:"entries"`
}

// ResolutionService orchestrates expander → aggregator → resolver for one order.
// Resolution is a pure read over a stock snapshot: it never writes stock back, so
// concurrent resolutions need no locking and resolving the same order twice yields
// identical results.
type ResolutionService struct {
	store      EntityStore
	aggregator *UsageAggregator
	resolver   *StockResolver
}

func NewResolutionService(store EntityStore) *ResolutionService {
	return &ResolutionService{
		store:      store,
		aggregator: NewUsageAggregator(NewRecipeExpander(store)),
		resolver:   NewStockResolver(store),
	}
}

// ResolveOrder loads the order and returns the remaining-stock report for every
// ingredient it touches. Failures are typed: NotFound (order, cake, or ingredient),
// BrokenReference (cake→recipe), InvalidQuantity, StoreUnavailable. All-or-nothing:
// one bad line item invalidates the whole report.
func (s *ResolutionService) ResolveOrder(ctx context.Context, orderID string) (*ResolutionReport, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if len(order.Lines) == 0 {
		return &ResolutionReport{OrderID: order.ID, Empty: true, Entries: []RemainingStock{}}, nil
	}

	usage, err := s.aggregator.Aggregate(ctx, order.Lines)
	if err != nil {
		return nil, err
	}

	entries, err := s.resolver.Resolve(ctx, usage)
	if err != nil {
		return nil, err
	}

	return &ResolutionReport{OrderID: order.ID, Entries: entries}, nil
}

// UsageForOrder returns the aggregated ingredient usage for an order without
// joining stock, sorted ascending by ingredient id.
func (s *ResolutionService) UsageForOrder(ctx context.Context, orderID string) ([]UsageEntry, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	usage, err := s.aggregator.Aggregate(ctx, order.Lines)
	if err != nil {
		return nil, err
	}

	entries := make([]UsageEntry, 0, len(usage))
	for id, total := range usage {
		entries = append(entries, UsageEntry{IngredientID: id, TotalUsed: total})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].IngredientID < entries[j].IngredientID })
	return entries, nil
}
