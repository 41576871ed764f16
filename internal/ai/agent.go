package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"cakeshop/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

type AgentService interface {
	InterpretRestock(ctx context.Context, naturalLanguage string, ingredientCatalog string) (*core.RestockProposal, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretRestock turns a natural-language delivery note ("20 kg flour and a
// dozen eggs arrived") into a typed restock proposal against the bakery's
// ingredient catalog. The proposal is validated but never applied here; the
// caller applies it through the stock-adjustment path after confirmation.
func (a *Agent) InterpretRestock(ctx context.Context, naturalLanguage string, ingredientCatalog string) (*core.RestockProposal, error) {
	prompt := fmt.Sprintf(`You are the inventory clerk of a bakery.
Your goal is to interpret a goods delivery described in natural language and propose stock receipt entries.
You MUST use the provided ingredient catalog.
Rules:
1. Use ONLY ingredient ids from the list below.
2. Convert quantities into the ingredient's own unit (e.g. "20 kg" becomes "20000" when the unit is g).
3. Quantities must be exact positive decimal strings.
4. Provide a confidence score (0.0-1.0).
5. Explain your reasoning, including any unit conversions.

Ingredient catalog:
%s

Delivery note: %s`, ingredientCatalog, naturalLanguage)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "restock_proposal",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A proposal for ingredient stock receipts parsed from a delivery note"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var proposal core.RestockProposal
	if err := json.Unmarshal([]byte(content), &proposal); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	proposal.Normalize()
	if err := proposal.Validate(); err != nil {
		return nil, fmt.Errorf("proposal validation failed: %w", err)
	}

	return &proposal, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.RestockProposal
	return reflector.Reflect(v)
}
