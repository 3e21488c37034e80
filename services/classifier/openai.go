package classifier

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

type answer struct {
	Classification string `json:"classification" jsonschema:"enum=INFLAMMABLE,enum=TOXIC,enum=FRAGILE,enum=NORMAL"`
}

// OpenAI asks the Responses API for a strict JSON answer.
type OpenAI struct {
	client *openai.Client
	model  string
	schema map[string]any
}

func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	client := openai.NewClient(opts...)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{client: &client, model: model, schema: answerSchema()}
}

func (o *OpenAI) Name() string { return "openai" }

func answerSchema() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	raw, err := json.Marshal(reflector.Reflect(answer{}))
	if err != nil {
		return nil
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil
	}
	return schema
}

func (o *OpenAI) Classify(ctx context.Context, name, description string) (string, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(o.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(fmt.Sprintf(prompt, orNA(name), orNA(description))),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "hazard_classification",
					Strict:      param.NewOpt(true),
					Schema:      o.schema,
					Description: param.NewOpt("Hazard class of a warehouse product"),
				},
			},
		},
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}

	var out answer
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		// not JSON after all, let the extractor look at the text
		return content, nil
	}
	return out.Classification, nil
}
