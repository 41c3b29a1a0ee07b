package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/amoylab/lokal/internal/common/config"
)

// BuildAPIKey may be set at link time with
// -ldflags "-X github.com/amoylab/lokal/internal/ai.BuildAPIKey=..."
var BuildAPIKey string

// Grounding selects the retrieval tool attached to a request
type Grounding int

const (
	GroundingNone Grounding = iota
	GroundingSearch
	GroundingMaps
)

// SchemaType is a JSON schema primitive
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
	TypeNumber SchemaType = "number"
)

// Schema is a provider neutral subset of JSON schema
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
}

// Request is a single generation call
type Request struct {
	Model     string
	Prompt    string
	Schema    *Schema // when set the response text is JSON matching it
	Grounding Grounding
}

// Chunk is one grounding citation
type Chunk struct {
	Kind  string `json:"kind"` // web or maps
	URI   string `json:"uri"`
	Title string `json:"title"`
	Text  string `json:"text,omitempty"`
}

// Response is the generated text plus its citations
type Response struct {
	Text   string
	Chunks []Chunk
}

// Generator is a generative model backend
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// GeneratorFactory builds a generator for one call
type GeneratorFactory func(ctx context.Context, cfg *config.AIConfig) (Generator, error)

// NewGenerator builds the backend selected by cfg.Provider
func NewGenerator(ctx context.Context, cfg *config.AIConfig) (Generator, error) {
	key := resolveAPIKey(cfg)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	switch cfg.Provider {
	case "gemini", "":
		return newGemini(ctx, cfg, key)
	case "openai":
		return newOpenAI(cfg, key), nil
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrConfiguration, cfg.Provider)
	}
}

// resolveAPIKey picks the first non-empty key: build time, config, API_KEY,
// GEMINI_API_KEY and, for the openai provider, OPENAI_API_KEY.
func resolveAPIKey(cfg *config.AIConfig) string {
	candidates := []string{BuildAPIKey, cfg.APIKey, os.Getenv("API_KEY"), os.Getenv("GEMINI_API_KEY")}
	if cfg.Provider == "openai" {
		candidates = append(candidates, os.Getenv("OPENAI_API_KEY"))
	}
	for _, k := range candidates {
		if k = strings.TrimSpace(k); k != "" {
			return k
		}
	}
	return ""
}

// extractJSON strips markdown fences some models wrap around JSON output
// and reports whether what remains is valid JSON.
func extractJSON(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if s == "" || !gjson.Valid(s) {
		return "", false
	}
	return s, true
}
