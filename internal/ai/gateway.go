package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/internal/database"
	"github.com/amoylab/lokal/internal/template"
	"github.com/amoylab/lokal/pkg/metrics"
	"github.com/amoylab/lokal/pkg/trace"
)

const (
	tracerName = "lokal/ai"

	dealCount = 6
	leadCount = 5

	locationFallback = "Current Location"
	locationUnknown  = "Unknown Location"
	emailFallback    = "Could not generate email."
	adviceFallback   = "Make the discount clear and add a short deadline to create urgency."
)

// Gateway runs the content generation operations. Every call builds its own
// generator, so key changes take effect without a restart.
type Gateway struct {
	cfg          *config.AIConfig
	mockData     bool
	newGenerator GeneratorFactory
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewGateway creates a gateway. mockData enables the demo deal fallback.
func NewGateway(cfg *config.AIConfig, mockData bool, logger *zap.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		cfg:          cfg,
		mockData:     mockData,
		newGenerator: NewGenerator,
		logger:       logger.Named("ai"),
		metrics:      m,
	}
}

// observe opens the span and returns the function that closes it and
// records the outcome.
func (g *Gateway) observe(ctx context.Context, op string) (context.Context, func(Outcome, error)) {
	span := trace.Tracer(tracerName).Start(ctx, "ai."+op).
		WithAttrs(attribute.String("ai.operation", op), attribute.String("ai.provider", g.cfg.Provider))
	start := time.Now()

	return span.Ctx, func(outcome Outcome, err error) {
		span.WithAttrs(attribute.String("ai.outcome", string(outcome)))
		if err != nil {
			span.Fail(err)
			g.logger.Warn("ai call degraded",
				zap.String("operation", op),
				zap.String("outcome", string(outcome)),
				zap.Error(err))
		}
		span.End()
		g.metrics.AIRequestDone(op, string(outcome), start)
	}
}

func (g *Gateway) generate(ctx context.Context, req *Request) (*Response, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	gen, err := g.newGenerator(ctx, g.cfg)
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, req)
}

// generateJSON decodes the JSON response into out. An empty body yields
// OutcomeEmpty with a nil error.
func (g *Gateway) generateJSON(ctx context.Context, req *Request, out any) (Outcome, error) {
	resp, err := g.generate(ctx, req)
	if err != nil {
		return Classify(err), err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return OutcomeEmpty, nil
	}
	js, ok := extractJSON(resp.Text)
	if !ok {
		return OutcomeFailed, fmt.Errorf("%w: not JSON", ErrInvalidOutput)
	}
	if err := json.Unmarshal([]byte(js), out); err != nil {
		return OutcomeFailed, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	return OutcomeOK, nil
}

func prompt(name string, data any) (string, error) {
	p, err := template.Prompt(name, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return p, nil
}

type placeData struct {
	Lat, Lng    float64
	City, Query string
	Count       int
}

// ReverseGeocode names the city at the coordinates
func (g *Gateway) ReverseGeocode(ctx context.Context, lat, lng float64) Result[string] {
	ctx, done := g.observe(ctx, "reverse_geocode")

	p, err := prompt(template.PromptReverseGeocode, placeData{Lat: lat, Lng: lng})
	if err != nil {
		done(OutcomeConfiguration, err)
		return result(locationFallback, OutcomeConfiguration, err)
	}
	resp, err := g.generate(ctx, &Request{Model: g.cfg.Model, Prompt: p})
	if err != nil {
		outcome := Classify(err)
		done(outcome, err)
		return result(locationFallback, outcome, err)
	}
	city := strings.TrimSpace(resp.Text)
	if city == "" {
		done(OutcomeEmpty, nil)
		return result(locationUnknown, OutcomeEmpty, nil)
	}
	done(OutcomeOK, nil)
	return result(city, OutcomeOK, nil)
}

// GeocodeCity resolves a city name to coordinates, nil on failure
func (g *Gateway) GeocodeCity(ctx context.Context, query string) Result[*GeoPoint] {
	ctx, done := g.observe(ctx, "geocode")

	p, err := prompt(template.PromptGeocode, placeData{Query: query})
	if err != nil {
		done(OutcomeConfiguration, err)
		return result[*GeoPoint](nil, OutcomeConfiguration, err)
	}
	var point GeoPoint
	outcome, err := g.generateJSON(ctx, &Request{Model: g.cfg.Model, Prompt: p, Schema: geoSchema}, &point)
	done(outcome, err)
	if outcome != OutcomeOK {
		return result[*GeoPoint](nil, outcome, err)
	}
	return result(&point, OutcomeOK, nil)
}

// FetchNearbyDeals generates deals around the location. They are never
// stored. On failure the list is empty, or the demo deals in mock mode.
func (g *Gateway) FetchNearbyDeals(ctx context.Context, lat, lng float64, city string) Result[[]*database.DealView] {
	ctx, done := g.observe(ctx, "nearby_deals")

	degraded := func(outcome Outcome, err error) Result[[]*database.DealView] {
		done(outcome, err)
		if g.mockData && outcome != OutcomeOK {
			return result(fallbackDeals(), outcome, err)
		}
		return result([]*database.DealView{}, outcome, err)
	}

	p, err := prompt(template.PromptDeals, placeData{Lat: lat, Lng: lng, City: city, Count: dealCount})
	if err != nil {
		return degraded(OutcomeConfiguration, err)
	}
	var items []aiDeal
	outcome, err := g.generateJSON(ctx, &Request{Model: g.cfg.Model, Prompt: p, Schema: dealsSchema}, &items)
	if outcome == OutcomeOK && len(items) == 0 {
		outcome = OutcomeEmpty
	}
	if outcome != OutcomeOK {
		return degraded(outcome, err)
	}

	deals := make([]*database.DealView, 0, len(items))
	for i, it := range items {
		id := it.ID
		if id == "" {
			id = uuid.NewString()
		}
		deals = append(deals, &database.DealView{
			ID:           id,
			BusinessID:   fmt.Sprintf("ai-gen-%d", i),
			BusinessName: it.BusinessName,
			Title:        it.Title,
			Description:  it.Description,
			Discount:     it.Discount,
			Category:     it.Category,
			Distance:     it.Distance,
			ImageURL:     fmt.Sprintf("https://picsum.photos/400/300?random=%d", i+rand.IntN(1000)),
			Code:         it.Code,
			Expiry:       it.Expiry,
			Website:      it.Website,
			IsActive:     true,
		})
	}
	done(OutcomeOK, nil)
	return result(deals, OutcomeOK, nil)
}

// FetchBusinessLeads suggests businesses to invite; every lead starts as new
func (g *Gateway) FetchBusinessLeads(ctx context.Context, lat, lng float64, city string) Result[[]*Lead] {
	ctx, done := g.observe(ctx, "business_leads")

	p, err := prompt(template.PromptLeads, placeData{Lat: lat, Lng: lng, City: city, Count: leadCount})
	if err != nil {
		done(OutcomeConfiguration, err)
		return result([]*Lead{}, OutcomeConfiguration, err)
	}
	var leads []*Lead
	outcome, err := g.generateJSON(ctx, &Request{Model: g.cfg.Model, Prompt: p, Schema: leadsSchema}, &leads)
	if outcome == OutcomeOK && len(leads) == 0 {
		outcome = OutcomeEmpty
	}
	done(outcome, err)
	if outcome != OutcomeOK {
		return result([]*Lead{}, outcome, err)
	}

	for _, l := range leads {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		l.ContactStatus = string(cnst.LeadStatusNew)
	}
	return result(leads, OutcomeOK, nil)
}

// GenerateOutreachEmail drafts a search grounded invitation email. A
// permission refusal is reported as OutcomePermissionDenied so the client
// can ask for a different key.
func (g *Gateway) GenerateOutreachEmail(ctx context.Context, businessName, businessType string) Result[*EmailDraft] {
	ctx, done := g.observe(ctx, "outreach_email")

	p, err := prompt(template.PromptOutreachEmail, map[string]any{
		"AppName":      g.cfg.Outreach.BrandName,
		"Region":       g.cfg.Outreach.Region,
		"ContactEmail": g.cfg.Outreach.ContactEmail,
		"ContactPhone": g.cfg.Outreach.ContactPhone,
		"BusinessName": businessName,
		"BusinessType": businessType,
	})
	if err != nil {
		done(OutcomeConfiguration, err)
		return result[*EmailDraft](nil, OutcomeConfiguration, err)
	}

	resp, err := g.generate(ctx, &Request{Model: g.cfg.SearchModel, Prompt: p, Grounding: GroundingSearch})
	if err != nil {
		outcome := Classify(err)
		done(outcome, err)
		return result[*EmailDraft](nil, outcome, err)
	}

	draft := &EmailDraft{Text: resp.Text, Sources: resp.Chunks}
	if draft.Sources == nil {
		draft.Sources = []Chunk{}
	}
	if draft.Text == "" {
		draft.Text = emailFallback
		done(OutcomeEmpty, nil)
		return result(draft, OutcomeEmpty, nil)
	}
	done(OutcomeOK, nil)
	return result(draft, OutcomeOK, nil)
}

// SearchLocalPlaces returns the places cited by a maps grounded search,
// preferring maps data over plain web citations.
func (g *Gateway) SearchLocalPlaces(ctx context.Context, query string, lat, lng float64) Result[[]*Place] {
	ctx, done := g.observe(ctx, "search_places")

	p, err := prompt(template.PromptPlaces, placeData{Lat: lat, Lng: lng, Query: query})
	if err != nil {
		done(OutcomeConfiguration, err)
		return result([]*Place{}, OutcomeConfiguration, err)
	}
	resp, err := g.generate(ctx, &Request{Model: g.cfg.MapsModel, Prompt: p, Grounding: GroundingMaps})
	if err != nil {
		outcome := Classify(err)
		done(outcome, err)
		return result([]*Place{}, outcome, err)
	}

	places := placesFromChunks(resp.Chunks)
	if len(places) == 0 {
		done(OutcomeEmpty, nil)
		return result(places, OutcomeEmpty, nil)
	}
	done(OutcomeOK, nil)
	return result(places, OutcomeOK, nil)
}

// placesFromChunks keeps one place per grounding URI. Chunks without a URI
// cannot be opened by the client and are dropped. Maps chunks carry no
// formatted address, so their text snippet stands in for it.
func placesFromChunks(chunks []Chunk) []*Place {
	places := make([]*Place, 0, len(chunks))
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		if c.URI == "" || seen[c.URI] {
			continue
		}
		seen[c.URI] = true
		place := &Place{Title: c.Title, URI: c.URI, Source: c.Kind}
		if c.Kind == "maps" {
			place.Address = c.Text
		}
		places = append(places, place)
	}
	return places
}

// GenerateDealContent suggests copy for a new deal, nil on failure
func (g *Gateway) GenerateDealContent(ctx context.Context, businessName, businessType string) Result[*DealContent] {
	ctx, done := g.observe(ctx, "deal_content")

	p, err := prompt(template.PromptDealContent, map[string]any{"BusinessName": businessName, "BusinessType": businessType})
	if err != nil {
		done(OutcomeConfiguration, err)
		return result[*DealContent](nil, OutcomeConfiguration, err)
	}
	var content DealContent
	outcome, err := g.generateJSON(ctx, &Request{Model: g.cfg.Model, Prompt: p, Schema: dealContentSchema}, &content)
	done(outcome, err)
	if outcome != OutcomeOK {
		return result[*DealContent](nil, outcome, err)
	}
	content.Code = strings.ToUpper(strings.ReplaceAll(content.Code, " ", ""))
	return result(&content, OutcomeOK, nil)
}

// AnalyzeDeal returns a short improvement tip for the deal
func (g *Gateway) AnalyzeDeal(ctx context.Context, deal DealSummary) Result[string] {
	ctx, done := g.observe(ctx, "analyze_deal")

	p, err := prompt(template.PromptAnalyzeDeal, map[string]any{"Deal": deal})
	if err != nil {
		done(OutcomeConfiguration, err)
		return result(adviceFallback, OutcomeConfiguration, err)
	}
	resp, err := g.generate(ctx, &Request{Model: g.cfg.Model, Prompt: p})
	if err != nil {
		outcome := Classify(err)
		done(outcome, err)
		return result(adviceFallback, outcome, err)
	}
	tip := strings.TrimSpace(resp.Text)
	if tip == "" {
		done(OutcomeEmpty, nil)
		return result(adviceFallback, OutcomeEmpty, nil)
	}
	done(OutcomeOK, nil)
	return result(tip, OutcomeOK, nil)
}
