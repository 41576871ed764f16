package core_test

import (
	"testing"

	"cakeshop/internal/core"
)

func TestRestockProposal_Normalize(t *testing.T) {
	p := core.RestockProposal{
		Summary: "  Flour delivery  ",
		Items: []core.RestockItem{
			{IngredientID: " e001 ", Quantity: "  ", Note: " morning truck "},
			{IngredientID: "E002", Quantity: "null"},
		},
	}

	p.Normalize()

	if p.Summary != "Flour delivery" {
		t.Errorf("summary not trimmed: %q", p.Summary)
	}
	if p.Items[0].IngredientID != "E001" {
		t.Errorf("ingredient id not uppercased/trimmed: %q", p.Items[0].IngredientID)
	}
	if p.Items[0].Note != "morning truck" {
		t.Errorf("note not trimmed: %q", p.Items[0].Note)
	}
	if p.Items[0].Quantity != "0" || p.Items[1].Quantity != "0" {
		t.Errorf("blank/null quantities should normalize to 0, got %q and %q",
			p.Items[0].Quantity, p.Items[1].Quantity)
	}
}

func TestRestockProposal_Validate(t *testing.T) {
	tests := []struct {
		name      string
		items     []core.RestockItem
		expectErr bool
	}{
		{
			name: "happy path",
			items: []core.RestockItem{
				{IngredientID: "E001", Quantity: "20000"},
				{IngredientID: "E002", Quantity: "5.5"},
			},
			expectErr: false,
		},
		{
			name:      "no items",
			items:     nil,
			expectErr: true,
		},
		{
			name: "missing ingredient id",
			items: []core.RestockItem{
				{IngredientID: "", Quantity: "100"},
			},
			expectErr: true,
		},
		{
			name: "zero quantity after normalization",
			items: []core.RestockItem{
				{IngredientID: "E001", Quantity: ""},
			},
			expectErr: true,
		},
		{
			name: "negative quantity",
			items: []core.RestockItem{
				{IngredientID: "E001", Quantity: "-50"},
			},
			expectErr: true,
		},
		{
			name: "non-numeric quantity",
			items: []core.RestockItem{
				{IngredientID: "E001", Quantity: "a lot"},
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := core.RestockProposal{Summary: "test", Items: tt.items}
			p.Normalize()
			err := p.Validate()

			if tt.expectErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
