package classification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// ItemInfo is what one item looks like to the classifier.
type ItemInfo struct {
	ID        string `json:"id"`
	ItemLine  string `json:"item_line"`
	ItemGroup string `json:"item_group"`
	ItemType  string `json:"item_type"`
}

// Classifier labels a batch of items, returning item id -> labels.
// Implementations may call an external completion service; failures
// apply to the whole batch.
type Classifier interface {
	ClassifyBatch(ctx context.Context, items []ItemInfo) (map[string][]string, error)
}

const systemPrompt = `You are a smart classification intelligence software.
You will receive an array of items containing id, item_line, item_group and item_type.
Based on those details, classify each item as 'hazardous' or 'non-hazardous'.
Use ONLY those two labels and ALWAYS make a classification for every item.`

type batchResult struct {
	Items []struct {
		ID              string   `json:"id"`
		Classifications []string `json:"classifications"`
	} `json:"items"`
}

// OpenAIClassifier calls the OpenAI structured-output endpoint.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

func NewOpenAIClassifier(apiKey, model string) *OpenAIClassifier {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClassifier{client: &client, model: model}
}

func (c *OpenAIClassifier) ClassifyBatch(ctx context.Context, items []ItemInfo) (map[string][]string, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

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
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(systemPrompt + "\n\nItems:\n" + string(payload)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "item_classifications",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Hazard classifications per item id"),
				},
			},
		},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}
	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var result batchResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	out := make(map[string][]string, len(result.Items))
	for _, it := range result.Items {
		out[it.ID] = it.Classifications
	}
	return out, nil
}

func generateSchema() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(&batchResult{})
}
