package app

import (
	"context"
	"fmt"
	"strings"

	"cakeshop/internal/ai"
	"cakeshop/internal/core"

	"github.com/shopspring/decimal"
)

type appService struct {
	ingredients core.IngredientService
	cakes       core.CakeService
	recipes     core.RecipeService
	orders      core.OrderService
	resolution  *core.ResolutionService
	agent       *ai.Agent
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	ingredients core.IngredientService,
	cakes core.CakeService,
	recipes core.RecipeService,
	orders core.OrderService,
	resolution *core.ResolutionService,
	agent *ai.Agent,
) ApplicationService {
	return &appService{
		ingredients: ingredients,
		cakes:       cakes,
		recipes:     recipes,
		orders:      orders,
		resolution:  resolution,
		agent:       agent,
	}
}

// ── Ingredients ──────────────────────────────────────────────────────────────

func (s *appService) ListIngredients(ctx context.Context) (*IngredientListResult, error) {
	ingredients, err := s.ingredients.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return &IngredientListResult{Ingredients: ingredients}, nil
}

func (s *appService) GetIngredient(ctx context.Context, id string) (*IngredientResult, error) {
	ing, err := s.ingredients.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &IngredientResult{Ingredient: ing}, nil
}

func (s *appService) CreateIngredient(ctx context.Context, req UpsertIngredientRequest) (*IngredientResult, error) {
	ing, err := s.ingredients.CreateIngredient(ctx, req.ID, core.IngredientInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		PerQuantity: req.PerQuantity,
		UnitPrice:   req.UnitPrice,
		ExpiresOn:   req.ExpiresOn,
	})
	if err != nil {
		return nil, err
	}
	return &IngredientResult{Ingredient: ing}, nil
}

func (s *appService) UpdateIngredient(ctx context.Context, req UpsertIngredientRequest) (*IngredientResult, error) {
	ing, err := s.ingredients.UpdateIngredient(ctx, req.ID, core.IngredientInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		PerQuantity: req.PerQuantity,
		UnitPrice:   req.UnitPrice,
		ExpiresOn:   req.ExpiresOn,
	})
	if err != nil {
		return nil, err
	}
	return &IngredientResult{Ingredient: ing}, nil
}

func (s *appService) DeleteIngredient(ctx context.Context, id string) error {
	return s.ingredients.DeleteIngredient(ctx, id)
}

func (s *appService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*IngredientResult, error) {
	ing, err := s.ingredients.AdjustStock(ctx, req.IngredientID, req.Delta, req.Note)
	if err != nil {
		return nil, err
	}
	return &IngredientResult{Ingredient: ing}, nil
}

// ── Cakes ────────────────────────────────────────────────────────────────────

func (s *appService) ListCakes(ctx context.Context) (*CakeListResult, error) {
	cakes, err := s.cakes.ListCakes(ctx)
	if err != nil {
		return nil, err
	}
	return &CakeListResult{Cakes: cakes}, nil
}

func (s *appService) GetCake(ctx context.Context, id string) (*CakeResult, error) {
	cake, err := s.cakes.GetCake(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CakeResult{Cake: cake}, nil
}

func (s *appService) CreateCake(ctx context.Context, req UpsertCakeRequest) (*CakeResult, error) {
	cake, err := s.cakes.CreateCake(ctx, req.ID, core.CakeInput{
		Name:        req.Name,
		RecipeID:    req.RecipeID,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	return &CakeResult{Cake: cake}, nil
}

func (s *appService) UpdateCake(ctx context.Context, req UpsertCakeRequest) (*CakeResult, error) {
	cake, err := s.cakes.UpdateCake(ctx, req.ID, core.CakeInput{
		Name:        req.Name,
		RecipeID:    req.RecipeID,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	return &CakeResult{Cake: cake}, nil
}

func (s *appService) DeleteCake(ctx context.Context, id string) error {
	return s.cakes.DeleteCake(ctx, id)
}

// ── Recipes ──────────────────────────────────────────────────────────────────

func (s *appService) ListRecipes(ctx context.Context) (*RecipeListResult, error) {
	recipes, err := s.recipes.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return &RecipeListResult{Recipes: recipes}, nil
}

func (s *appService) GetRecipe(ctx context.Context, id string) (*RecipeResult, error) {
	recipe, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RecipeResult{Recipe: recipe}, nil
}

func recipeLinesFromRequest(lines []RecipeLineRequest) []core.RecipeLineInput {
	out := make([]core.RecipeLineInput, len(lines))
	for i, l := range lines {
		out[i] = core.RecipeLineInput{
			IngredientID:    l.IngredientID,
			QuantityPerUnit: l.QuantityPerUnit,
		}
	}
	return out
}

func (s *appService) CreateRecipe(ctx context.Context, req UpsertRecipeRequest) (*RecipeResult, error) {
	recipe, err := s.recipes.CreateRecipe(ctx, req.ID, core.RecipeInput{
		Name:  req.Name,
		Lines: recipeLinesFromRequest(req.Lines),
	})
	if err != nil {
		return nil, err
	}
	return &RecipeResult{Recipe: recipe}, nil
}

func (s *appService) UpdateRecipe(ctx context.Context, req UpsertRecipeRequest) (*RecipeResult, error) {
	recipe, err := s.recipes.UpdateRecipe(ctx, req.ID, core.RecipeInput{
		Name:  req.Name,
		Lines: recipeLinesFromRequest(req.Lines),
	})
	if err != nil {
		return nil, err
	}
	return &RecipeResult{Recipe: recipe}, nil
}

func (s *appService) DeleteRecipe(ctx context.Context, id string) error {
	return s.recipes.DeleteRecipe(ctx, id)
}

// ── Orders & resolution ──────────────────────────────────────────────────────

func (s *appService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResult, error) {
	lines := make([]core.OrderLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.OrderLineInput{CakeID: l.CakeID, Quantity: l.Quantity}
	}

	order, err := s.orders.PlaceOrder(ctx, core.PlaceOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		OrderDate:     req.OrderDate,
		Notes:         req.Notes,
		Lines:         lines,
	})
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) GetOrder(ctx context.Context, id string) (*OrderResult, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) ListOrders(ctx context.Context, status string) (*OrderListResult, error) {
	var statusPtr *core.OrderStatus
	if status != "" {
		st := core.OrderStatus(strings.ToUpper(status))
		statusPtr = &st
	}
	orders, err := s.orders.ListOrders(ctx, statusPtr)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) CancelOrder(ctx context.Context, id string) (*OrderResult, error) {
	order, err := s.orders.CancelOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

// FulfillOrder resolves the order first, so a broken recipe graph or missing
// ingredient blocks the status transition; only a clean report fulfills.
func (s *appService) FulfillOrder(ctx context.Context, id string) (*FulfillResult, error) {
	report, err := s.resolution.ResolveOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FulfillOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FulfillResult{Order: order, Report: report}, nil
}

func (s *appService) ResolveOrderIngredients(ctx context.Context, orderID string) (*ResolutionResult, error) {
	report, err := s.resolution.ResolveOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &ResolutionResult{Report: report}, nil
}

func (s *appService) OrderIngredientUsage(ctx context.Context, orderID string) (*UsageResult, error) {
	entries, err := s.resolution.UsageForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &UsageResult{OrderID: orderID, Entries: entries}, nil
}

// ── AI restock assistant ─────────────────────────────────────────────────────

// InterpretRestock builds the ingredient catalog context and hands the note to
// the agent.
func (s *appService) InterpretRestock(ctx context.Context, note string) (*RestockResult, error) {
	ingredients, err := s.ingredients.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}

	var catalog []string
	for _, ing := range ingredients {
		catalog = append(catalog, fmt.Sprintf("- %s %s (unit: %s, on hand: %s)",
			ing.ID, ing.Name, ing.Unit, ing.Quantity.String()))
	}

	proposal, err := s.agent.InterpretRestock(ctx, note, strings.Join(catalog, "\n"))
	if err != nil {
		return nil, err
	}
	return &RestockResult{Proposal: proposal}, nil
}

// ApplyRestock validates the proposal, verifies every ingredient exists, then
// applies the receipts through the stock-adjustment path.
func (s *appService) ApplyRestock(ctx context.Context, proposal core.RestockProposal) (*IngredientListResult, error) {
	proposal.Normalize()
	if err := proposal.Validate(); err != nil {
		return nil, err
	}

	// Check all ids up front so a bad item rejects the proposal before any
	// adjustment lands.
	for _, item := range proposal.Items {
		if _, err := s.ingredients.GetIngredient(ctx, item.IngredientID); err != nil {
			return nil, err
		}
	}

	for _, item := range proposal.Items {
		qty, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q for ingredient %s: %v", item.Quantity, item.IngredientID, err)
		}
		note := item.Note
		if note == "" {
			note = "restock: " + proposal.Summary
		}
		if _, err := s.ingredients.AdjustStock(ctx, item.IngredientID, qty, note); err != nil {
			return nil, fmt.Errorf("failed to apply restock for ingredient %s: %w", item.IngredientID, err)
		}
	}

	return s.ListIngredients(ctx)
}
