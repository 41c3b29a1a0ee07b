package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/amoylab/lokal/internal/common/config"
)

type gemini struct {
	client *genai.Client
}

func newGemini(ctx context.Context, cfg *config.AIConfig, key string) (Generator, error) {
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return &gemini{client: client}, nil
}

func (g *gemini) Generate(ctx context.Context, req *Request) (*Response, error) {
	gc := &genai.GenerateContentConfig{}
	if req.Schema != nil {
		gc.ResponseMIMEType = "application/json"
		gc.ResponseSchema = toGenaiSchema(req.Schema)
	}
	switch req.Grounding {
	case GroundingSearch:
		gc.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	case GroundingMaps:
		gc.Tools = []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), gc)
	if err != nil {
		return nil, wrapProviderError(err)
	}

	out := &Response{Text: strings.TrimSpace(resp.Text())}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, c := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			switch {
			case c == nil:
			case c.Maps != nil:
				out.Chunks = append(out.Chunks, Chunk{Kind: "maps", URI: c.Maps.URI, Title: c.Maps.Title, Text: c.Maps.Text})
			case c.Web != nil:
				out.Chunks = append(out.Chunks, Chunk{Kind: "web", URI: c.Web.URI, Title: c.Web.Title})
			}
		}
	}
	return out, nil
}

var genaiTypes = map[SchemaType]genai.Type{
	TypeObject: genai.TypeObject,
	TypeArray:  genai.TypeArray,
	TypeString: genai.TypeString,
	TypeNumber: genai.TypeNumber,
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = toGenaiSchema(p)
		}
	}
	return out
}
