package ai

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/amoylab/lokal/internal/common/config"
)

// wrapKey holds top level arrays, since structured outputs require an object root
const wrapKey = "items"

type openAI struct {
	client openai.Client
}

func newOpenAI(cfg *config.AIConfig, key string) Generator {
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAI{client: openai.NewClient(opts...)}
}

// Generate ignores grounding; OpenAI compatible endpoints return no citations.
func (o *openAI) Generate(ctx context.Context, req *Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Model: req.Model,
	}

	wrapped := false
	if req.Schema != nil {
		root := req.Schema
		if root.Type != TypeObject {
			root = &Schema{Type: TypeObject, Properties: map[string]*Schema{wrapKey: req.Schema}, Required: []string{wrapKey}}
			wrapped = true
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "response",
					Schema: toJSONSchema(root),
				},
			},
		}
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapProviderError(err)
	}
	if len(completion.Choices) == 0 {
		return &Response{}, nil
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if wrapped {
		if js, ok := extractJSON(text); ok {
			text = gjson.Get(js, wrapKey).Raw
		}
	}
	return &Response{Text: text}, nil
}

func toJSONSchema(s *Schema) map[string]any {
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = toJSONSchema(s.Items)
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = toJSONSchema(p)
		}
		out["properties"] = props
		out["additionalProperties"] = false
		if len(s.Required) > 0 {
			out["required"] = s.Required
		}
	}
	return out
}
