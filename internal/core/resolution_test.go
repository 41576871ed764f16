package core_test

import (
	"context"
	"errors"
	"testing"

	"cakeshop/internal/core"

	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory EntityStore for resolution tests.
type fakeStore struct {
	orders      map[string]*core.Order
	cakes       map[string]*core.Cake
	recipes     map[string]*core.Recipe
	ingredients map[string]*core.Ingredient
	failWith    error // when set, every call fails with this error
}

func (f *fakeStore) GetOrder(ctx context.Context, id string) (*core.Order, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: core.KindOrder, ID: id}
	}
	return o, nil
}

func (f *fakeStore) GetCake(ctx context.Context, id string) (*core.Cake, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	c, ok := f.cakes[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: core.KindCake, ID: id}
	}
	return c, nil
}

func (f *fakeStore) GetRecipe(ctx context.Context, id string) (*core.Recipe, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	r, ok := f.recipes[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: core.KindRecipe, ID: id}
	}
	return r, nil
}

func (f *fakeStore) GetIngredient(ctx context.Context, id string) (*core.Ingredient, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	ing, ok := f.ingredients[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: core.KindIngredient, ID: id}
	}
	return ing, nil
}

func (f *fakeStore) GetIngredients(ctx context.Context, ids []string) (map[string]*core.Ingredient, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make(map[string]*core.Ingredient, len(ids))
	for _, id := range ids {
		if ing, ok := f.ingredients[id]; ok {
			out[id] = ing
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// bakeryStore builds the standard fixture: flour-only chocolate cake using
// 50 g per cake against 1000 g on hand.
func bakeryStore() *fakeStore {
	return &fakeStore{
		orders: map[string]*core.Order{},
		cakes: map[string]*core.Cake{
			"C001": {ID: "C001", Name: "Chocolate Cake", RecipeID: "R001"},
			"C002": {ID: "C002", Name: "Vanilla Dream", RecipeID: "R002"},
			"C999": {ID: "C999", Name: "Orphan Cake", RecipeID: "R999"},
		},
		recipes: map[string]*core.Recipe{
			"R001": {ID: "R001", Name: "Chocolate Base", Lines: []core.RecipeLine{
				{LineNumber: 1, IngredientID: "E001", QuantityPerUnit: dec("50")},
			}},
			"R002": {ID: "R002", Name: "Vanilla Sponge", Lines: []core.RecipeLine{
				{LineNumber: 1, IngredientID: "E001", QuantityPerUnit: dec("45")},
				{LineNumber: 2, IngredientID: "E002", QuantityPerUnit: dec("35")},
			}},
		},
		ingredients: map[string]*core.Ingredient{
			"E001": {ID: "E001", Name: "Wheat Flour", Unit: "g", Quantity: dec("1000")},
			"E002": {ID: "E002", Name: "Sugar", Unit: "g", Quantity: dec("800")},
		},
	}
}

func TestResolutionService_ResolveOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("single cake single ingredient", func(t *testing.T) {
		store := bakeryStore()
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "C001", Quantity: 12},
		}}
		svc := core.NewResolutionService(store)

		report, err := svc.ResolveOrder(ctx, "O1")
		if err != nil {
			t.Fatalf("ResolveOrder failed: %v", err)
		}
		if report.Empty {
			t.Error("report should not be marked empty")
		}
		if len(report.Entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(report.Entries))
		}
		e := report.Entries[0]
		if e.IngredientID != "E001" {
			t.Errorf("expected E001, got %s", e.IngredientID)
		}
		if !e.Used.Equal(dec("600")) {
			t.Errorf("expected used 600, got %s", e.Used)
		}
		if !e.Remaining.Equal(dec("400")) {
			t.Errorf("expected remaining 400, got %s", e.Remaining)
		}
	})

	t.Run("oversell reported negative, not clamped", func(t *testing.T) {
		store := bakeryStore()
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "C001", Quantity: 25},
		}}
		svc := core.NewResolutionService(store)

		report, err := svc.ResolveOrder(ctx, "O1")
		if err != nil {
			t.Fatalf("ResolveOrder failed: %v", err)
		}
		if !report.Entries[0].Remaining.Equal(dec("-250")) {
			t.Errorf("expected remaining -250, got %s", report.Entries[0].Remaining)
		}
	})

	t.Run("empty order is a distinct success", func(t *testing.T) {
		store := bakeryStore()
		store.orders["O1"] = &core.Order{ID: "O1"}
		svc := core.NewResolutionService(store)

		report, err := svc.ResolveOrder(ctx, "O1")
		if err != nil {
			t.Fatalf("ResolveOrder failed: %v", err)
		}
		if !report.Empty {
			t.Error("expected Empty=true for order with no lines")
		}
		if report.Entries == nil || len(report.Entries) != 0 {
			t.Errorf("expected non-nil empty entries, got %#v", report.Entries)
		}
	})

	t.Run("shared ingredients sum across cakes", func(t *testing.T) {
		store := bakeryStore()
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "C001", Quantity: 2}, // 100 g flour
			{LineNumber: 2, CakeID: "C002", Quantity: 3}, // 135 g flour, 105 g sugar
		}}
		svc := core.NewResolutionService(store)

		report, err := svc.ResolveOrder(ctx, "O1")
		if err != nil {
			t.Fatalf("ResolveOrder failed: %v", err)
		}
		if len(report.Entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(report.Entries))
		}
		// Ascending by ingredient id.
		if report.Entries[0].IngredientID != "E001" || report.Entries[1].IngredientID != "E002" {
			t.Errorf("entries not sorted ascending: %s, %s",
				report.Entries[0].IngredientID, report.Entries[1].IngredientID)
		}
		if !report.Entries[0].Used.Equal(dec("235")) {
			t.Errorf("expected flour usage 235, got %s", report.Entries[0].Used)
		}
		if !report.Entries[1].Used.Equal(dec("105")) {
			t.Errorf("expected sugar usage 105, got %s", report.Entries[1].Used)
		}
	})

	t.Run("repeated cake lines are additive", func(t *testing.T) {
		store := bakeryStore()
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "C001", Quantity: 4},
			{LineNumber: 2, CakeID: "C001", Quantity: 6},
		}}
		svc := core.NewResolutionService(store)

		report, err := svc.ResolveOrder(ctx, "O1")
		if err != nil {
			t.Fatalf("ResolveOrder failed: %v", err)
		}
		if !report.Entries[0].Used.Equal(dec("500")) {
			t.Errorf("expected used 500, got %s", report.Entries[0].Used)
		}
	})

	t.Run("line order does not change the report", func(t *testing.T) {
		lines := []core.OrderLine{
			{LineNumber: 1, CakeID: "C001", Quantity: 2},
			{LineNumber: 2, CakeID: "C002", Quantity: 3},
		}
		reversed := []core.OrderLine{lines[1], lines[0]}

		storeA := bakeryStore()
		storeA.orders["O1"] = &core.Order{ID: "O1", Lines: lines}
		storeB := bakeryStore()
		storeB.orders["O1"] = &core.Order{ID: "O1", Lines: reversed}

		reportA, err := core.NewResolutionService(storeA).ResolveOrder(ctx, "O1")
		if err != nil {
			t.Fatalf("ResolveOrder A failed: %v", err)
		}
		reportB, err := core.NewResolutionService(storeB).ResolveOrder(ctx, "O1")
		if err != nil {
			t.Fatalf("ResolveOrder B failed: %v", err)
		}

		if len(reportA.Entries) != len(reportB.Entries) {
			t.Fatalf("entry counts differ: %d vs %d", len(reportA.Entries), len(reportB.Entries))
		}
		for i := range reportA.Entries {
			a, b := reportA.Entries[i], reportB.Entries[i]
			if a.IngredientID != b.IngredientID || !a.Used.Equal(b.Used) || !a.Remaining.Equal(b.Remaining) {
				t.Errorf("entry %d differs: %+v vs %+v", i, a, b)
			}
		}
	})

	t.Run("missing order", func(t *testing.T) {
		svc := core.NewResolutionService(bakeryStore())
		_, err := svc.ResolveOrder(ctx, "nope")
		var nf *core.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if nf.Kind != core.KindOrder || nf.ID != "nope" {
			t.Errorf("error should name the missing order, got %+v", nf)
		}
	})

	t.Run("missing cake", func(t *testing.T) {
		store := bakeryStore()
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "CXXX", Quantity: 1},
		}}
		svc := core.NewResolutionService(store)

		_, err := svc.ResolveOrder(ctx, "O1")
		var nf *core.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if nf.Kind != core.KindCake || nf.ID != "CXXX" {
			t.Errorf("error should name the missing cake, got %+v", nf)
		}
	})

	t.Run("cake with dangling recipe reference", func(t *testing.T) {
		store := bakeryStore()
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "C999", Quantity: 1},
		}}
		svc := core.NewResolutionService(store)

		_, err := svc.ResolveOrder(ctx, "O1")
		var br *core.BrokenReferenceError
		if !errors.As(err, &br) {
			t.Fatalf("expected BrokenReferenceError, got %v", err)
		}
		if br.FromID != "C999" || br.ToID != "R999" {
			t.Errorf("broken reference should name both sides, got %+v", br)
		}
	})

	t.Run("ingredient deleted after recipe written", func(t *testing.T) {
		store := bakeryStore()
		delete(store.ingredients, "E001")
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "C001", Quantity: 1},
		}}
		svc := core.NewResolutionService(store)

		_, err := svc.ResolveOrder(ctx, "O1")
		var nf *core.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if nf.Kind != core.KindIngredient || nf.ID != "E001" {
			t.Errorf("error should name the missing ingredient, got %+v", nf)
		}
	})

	t.Run("non-positive line quantity", func(t *testing.T) {
		for _, qty := range []int{0, -3} {
			store := bakeryStore()
			store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
				{LineNumber: 1, CakeID: "C001", Quantity: qty},
			}}
			svc := core.NewResolutionService(store)

			_, err := svc.ResolveOrder(ctx, "O1")
			if !core.IsInvalidQuantity(err) {
				t.Errorf("quantity %d: expected InvalidQuantityError, got %v", qty, err)
			}
		}
	})

	t.Run("negative recipe quantity", func(t *testing.T) {
		store := bakeryStore()
		store.recipes["R001"].Lines[0].QuantityPerUnit = dec("-5")
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "C001", Quantity: 1},
		}}
		svc := core.NewResolutionService(store)

		if _, err := svc.ResolveOrder(ctx, "O1"); !core.IsInvalidQuantity(err) {
			t.Errorf("expected InvalidQuantityError, got %v", err)
		}
	})

	t.Run("negative stored stock", func(t *testing.T) {
		store := bakeryStore()
		store.ingredients["E001"].Quantity = dec("-10")
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "C001", Quantity: 1},
		}}
		svc := core.NewResolutionService(store)

		if _, err := svc.ResolveOrder(ctx, "O1"); !core.IsInvalidQuantity(err) {
			t.Errorf("expected InvalidQuantityError, got %v", err)
		}
	})

	t.Run("store failure passes through", func(t *testing.T) {
		store := bakeryStore()
		store.failWith = &core.StoreUnavailableError{Op: "get order", Err: errors.New("connection refused")}
		svc := core.NewResolutionService(store)

		if _, err := svc.ResolveOrder(ctx, "O1"); !core.IsStoreUnavailable(err) {
			t.Errorf("expected StoreUnavailableError, got %v", err)
		}
	})

	t.Run("resolution never mutates stock", func(t *testing.T) {
		store := bakeryStore()
		store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
			{LineNumber: 1, CakeID: "C001", Quantity: 12},
		}}
		svc := core.NewResolutionService(store)

		first, err := svc.ResolveOrder(ctx, "O1")
		if err != nil {
			t.Fatalf("first resolve failed: %v", err)
		}
		second, err := svc.ResolveOrder(ctx, "O1")
		if err != nil {
			t.Fatalf("second resolve failed: %v", err)
		}
		if !first.Entries[0].Remaining.Equal(second.Entries[0].Remaining) {
			t.Errorf("repeated resolution drifted: %s vs %s",
				first.Entries[0].Remaining, second.Entries[0].Remaining)
		}
		if !store.ingredients["E001"].Quantity.Equal(dec("1000")) {
			t.Errorf("stock was mutated: %s", store.ingredients["E001"].Quantity)
		}
	})
}

func TestResolutionService_UsageForOrder(t *testing.T) {
	ctx := context.Background()
	store := bakeryStore()
	store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
		{LineNumber: 1, CakeID: "C002", Quantity: 2},
	}}
	svc := core.NewResolutionService(store)

	entries, err := svc.UsageForOrder(ctx, "O1")
	if err != nil {
		t.Fatalf("UsageForOrder failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].IngredientID != "E001" || !entries[0].TotalUsed.Equal(dec("90")) {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].IngredientID != "E002" || !entries[1].TotalUsed.Equal(dec("70")) {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

// Resolving two single-line orders separately must sum to the usage of one
// combined order.
func TestResolutionService_UsageAdditiveAcrossOrders(t *testing.T) {
	ctx := context.Background()
	store := bakeryStore()
	store.orders["OA"] = &core.Order{ID: "OA", Lines: []core.OrderLine{
		{LineNumber: 1, CakeID: "C001", Quantity: 2},
	}}
	store.orders["OB"] = &core.Order{ID: "OB", Lines: []core.OrderLine{
		{LineNumber: 1, CakeID: "C002", Quantity: 3},
	}}
	store.orders["OC"] = &core.Order{ID: "OC", Lines: []core.OrderLine{
		{LineNumber: 1, CakeID: "C001", Quantity: 2},
		{LineNumber: 2, CakeID: "C002", Quantity: 3},
	}}
	svc := core.NewResolutionService(store)

	usageA, err := svc.UsageForOrder(ctx, "OA")
	if err != nil {
		t.Fatalf("UsageForOrder OA failed: %v", err)
	}
	usageB, err := svc.UsageForOrder(ctx, "OB")
	if err != nil {
		t.Fatalf("UsageForOrder OB failed: %v", err)
	}
	usageC, err := svc.UsageForOrder(ctx, "OC")
	if err != nil {
		t.Fatalf("UsageForOrder OC failed: %v", err)
	}

	summed := map[string]decimal.Decimal{}
	for _, e := range usageA {
		summed[e.IngredientID] = summed[e.IngredientID].Add(e.TotalUsed)
	}
	for _, e := range usageB {
		summed[e.IngredientID] = summed[e.IngredientID].Add(e.TotalUsed)
	}

	if len(usageC) != len(summed) {
		t.Fatalf("combined order touches %d ingredients, separate orders %d", len(usageC), len(summed))
	}
	for _, e := range usageC {
		if !e.TotalUsed.Equal(summed[e.IngredientID]) {
			t.Errorf("%s: combined %s, summed %s", e.IngredientID, e.TotalUsed, summed[e.IngredientID])
		}
	}
}

func TestUsageAggregator_FractionalQuantities(t *testing.T) {
	ctx := context.Background()
	store := bakeryStore()
	store.recipes["R001"].Lines[0].QuantityPerUnit = dec("12.5")
	store.orders["O1"] = &core.Order{ID: "O1", Lines: []core.OrderLine{
		{LineNumber: 1, CakeID: "C001", Quantity: 3},
	}}
	svc := core.NewResolutionService(store)

	entries, err := svc.UsageForOrder(ctx, "O1")
	if err != nil {
		t.Fatalf("UsageForOrder failed: %v", err)
	}
	if !entries[0].TotalUsed.Equal(dec("37.5")) {
		t.Errorf("expected exact decimal 37.5, got %s", entries[0].TotalUsed)
	}
}
