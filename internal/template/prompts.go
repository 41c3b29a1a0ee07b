package template

import (
	"embed"
	"fmt"
	"sync"
)

// Prompt names, one per file under prompts/
const (
	PromptReverseGeocode = "reverse_geocode"
	PromptGeocode        = "geocode"
	PromptDeals          = "deals"
	PromptLeads          = "leads"
	PromptOutreachEmail  = "outreach_email"
	PromptPlaces         = "places"
	PromptDealContent    = "deal_content"
	PromptAnalyzeDeal    = "analyze_deal"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var (
	defaultRenderer     *Renderer
	defaultRendererOnce sync.Once
)

// Prompt renders the named embedded prompt with data
func Prompt(name string, data any) (string, error) {
	raw, err := promptFS.ReadFile("prompts/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("unknown prompt %q: %w", name, err)
	}
	defaultRendererOnce.Do(func() { defaultRenderer = NewRenderer() })
	out, err := defaultRenderer.Render(string(raw), data)
	if err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", name, err)
	}
	return out, nil
}
