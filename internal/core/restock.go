package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize cleans up LLM output, dealing with common formatting issues before
// validation.
func (p *RestockProposal) Normalize() {
	p.Summary = strings.TrimSpace(p.Summary)

	for i := range p.Items {
		item := &p.Items[i]
		item.IngredientID = strings.ToUpper(strings.TrimSpace(item.IngredientID))
		item.Note = strings.TrimSpace(item.Note)

		if strings.TrimSpace(item.Quantity) == "" || strings.ToLower(item.Quantity) == "null" {
			item.Quantity = "0"
		}
	}
}

// Validate enforces the restock rules: at least one item, known-looking ingredient
// ids, and strictly positive decimal quantities. A proposal that fails here is
// discarded, never partially applied.
func (p *RestockProposal) Validate() error {
	if len(p.Items) == 0 {
		return errors.New("restock proposal must contain at least one item")
	}

	for _, item := range p.Items {
		if item.IngredientID == "" {
			return errors.New("restock item is missing an ingredient id")
		}

		qty, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return fmt.Errorf("invalid quantity %q for ingredient %s: %v", item.Quantity, item.IngredientID, err)
		}
		if qty.IsNegative() || qty.IsZero() {
			return fmt.Errorf("quantity must be > 0 for ingredient %s, got %s", item.IngredientID, item.Quantity)
		}
	}

	return nil
}
