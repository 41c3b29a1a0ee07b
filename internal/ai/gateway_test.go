package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/pkg/metrics"
)

// fakeGenerator answers every request with a fixed response or error
type fakeGenerator struct {
	resp *Response
	err  error
	reqs []*Request
}

func (f *fakeGenerator) Generate(_ context.Context, req *Request) (*Response, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testConfig() *config.AIConfig {
	return &config.AIConfig{
		Provider:    "gemini",
		Model:       "base-model",
		SearchModel: "search-model",
		MapsModel:   "maps-model",
		Outreach:    config.OutreachConfig{BrandName: "Lokal", Region: "East Coast, USA", ContactEmail: "team@lokal.app"},
	}
}

func newTestGateway(gen *fakeGenerator, mock bool) *Gateway {
	g := NewGateway(testConfig(), mock, zap.NewNop(), nil)
	g.newGenerator = func(context.Context, *config.AIConfig) (Generator, error) { return gen, nil }
	return g
}

var denied = &ProviderError{Provider: "gemini", StatusCode: 403, Status: "PERMISSION_DENIED", Message: "billing"}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeOK, Classify(nil))
	assert.Equal(t, OutcomeConfiguration, Classify(ErrMissingAPIKey))
	assert.Equal(t, OutcomePermissionDenied, Classify(denied))
	assert.Equal(t, OutcomePermissionDenied, Classify(&ProviderError{Status: "permission_denied"}))
	assert.Equal(t, OutcomeFailed, Classify(&ProviderError{StatusCode: 500}))
	assert.Equal(t, OutcomeFailed, Classify(errors.New("boom")))
}

func TestReverseGeocode(t *testing.T) {
	gen := &fakeGenerator{resp: &Response{Text: " Raleigh \n"}}
	res := newTestGateway(gen, false).ReverseGeocode(context.Background(), 35.78, -78.64)
	assert.Equal(t, "Raleigh", res.Value)
	assert.True(t, res.OK())
	assert.Equal(t, "base-model", gen.reqs[0].Model)
	assert.Contains(t, gen.reqs[0].Prompt, "Latitude: 35.780000")

	res = newTestGateway(&fakeGenerator{resp: &Response{}}, false).ReverseGeocode(context.Background(), 0, 0)
	assert.Equal(t, "Unknown Location", res.Value)
	assert.Equal(t, OutcomeEmpty, res.Outcome)

	res = newTestGateway(&fakeGenerator{err: errors.New("down")}, false).ReverseGeocode(context.Background(), 0, 0)
	assert.Equal(t, "Current Location", res.Value)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestMissingKeyIsConfiguration(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	g := NewGateway(testConfig(), false, zap.NewNop(), nil)

	res := g.ReverseGeocode(context.Background(), 1, 2)
	assert.Equal(t, OutcomeConfiguration, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrMissingAPIKey)
	assert.Equal(t, "Current Location", res.Value)
}

func TestGeocodeCity(t *testing.T) {
	gen := &fakeGenerator{resp: &Response{Text: "```json\n{\"lat\": 35.78, \"lng\": -78.64, \"city\": \"Raleigh, NC\"}\n```"}}
	res := newTestGateway(gen, false).GeocodeCity(context.Background(), "raleigh")
	require.True(t, res.OK())
	assert.Equal(t, "Raleigh, NC", res.Value.City)
	assert.InDelta(t, -78.64, res.Value.Lng, 1e-9)
	assert.Equal(t, geoSchema, gen.reqs[0].Schema)

	res = newTestGateway(&fakeGenerator{resp: &Response{Text: "somewhere north"}}, false).GeocodeCity(context.Background(), "x")
	assert.Nil(t, res.Value)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrInvalidOutput)
}

const dealsJSON = `[
 {"id":"d1","businessName":"Taco Town","title":"Taco Tuesday","description":"2 for 1","discount":"BOGO","category":"food","distance":"0.2 miles","code":"TACO","expiry":"Tue","website":"https://taco.town"},
 {"id":"","businessName":"Fix It","title":"Phone repair","description":"Screens","discount":"10% OFF","category":"service","distance":"1 mile","code":"FIX","expiry":"May","website":"https://fix.it"}
]`

func TestFetchNearbyDeals(t *testing.T) {
	gen := &fakeGenerator{resp: &Response{Text: dealsJSON}}
	res := newTestGateway(gen, false).FetchNearbyDeals(context.Background(), 35.78, -78.64, "Raleigh")
	require.True(t, res.OK())
	require.Len(t, res.Value, 2)

	assert.Equal(t, "d1", res.Value[0].ID)
	assert.Equal(t, "ai-gen-0", res.Value[0].BusinessID)
	assert.Equal(t, "ai-gen-1", res.Value[1].BusinessID)
	assert.NotEmpty(t, res.Value[1].ID)
	assert.True(t, strings.HasPrefix(res.Value[0].ImageURL, "https://picsum.photos/400/300?random="))
	assert.Contains(t, gen.reqs[0].Prompt, "Generate 6 realistic local deals/coupons for businesses in Raleigh")
}

func TestFetchNearbyDeals_Fallback(t *testing.T) {
	failing := &fakeGenerator{err: errors.New("quota")}

	res := newTestGateway(failing, false).FetchNearbyDeals(context.Background(), 0, 0, "")
	assert.Empty(t, res.Value)
	assert.NotNil(t, res.Value)
	assert.Equal(t, OutcomeFailed, res.Outcome)

	res = newTestGateway(failing, true).FetchNearbyDeals(context.Background(), 0, 0, "")
	require.Len(t, res.Value, 3)
	assert.Equal(t, "mock-1", res.Value[0].ID)
	assert.Equal(t, OutcomeFailed, res.Outcome)

	res = newTestGateway(&fakeGenerator{resp: &Response{Text: "[]"}}, false).FetchNearbyDeals(context.Background(), 0, 0, "")
	assert.Empty(t, res.Value)
	assert.Equal(t, OutcomeEmpty, res.Outcome)
}

func TestFetchBusinessLeads_ForcesNewStatus(t *testing.T) {
	gen := &fakeGenerator{resp: &Response{Text: `[{"id":"l1","name":"Cafe Uno","type":"Cafe","location":"Main St","contactStatus":"signed_up"},{"name":"Gym","type":"Fitness","location":"5th Ave"}]`}}
	res := newTestGateway(gen, false).FetchBusinessLeads(context.Background(), 1, 2, "Cary")
	require.True(t, res.OK())
	require.Len(t, res.Value, 2)
	for _, l := range res.Value {
		assert.Equal(t, "new", l.ContactStatus)
		assert.NotEmpty(t, l.ID)
	}
	assert.Equal(t, leadsSchema, gen.reqs[0].Schema)

	res = newTestGateway(&fakeGenerator{err: denied}, false).FetchBusinessLeads(context.Background(), 1, 2, "Cary")
	assert.Empty(t, res.Value)
	assert.Equal(t, OutcomePermissionDenied, res.Outcome)
}

func TestGenerateOutreachEmail(t *testing.T) {
	gen := &fakeGenerator{resp: &Response{
		Text:   "Dear Taco Town, ...",
		Chunks: []Chunk{{Kind: "web", URI: "https://taco.town", Title: "Taco Town"}},
	}}
	res := newTestGateway(gen, false).GenerateOutreachEmail(context.Background(), "Taco Town", "Restaurant")
	require.True(t, res.OK())
	assert.Equal(t, "Dear Taco Town, ...", res.Value.Text)
	require.Len(t, res.Value.Sources, 1)

	req := gen.reqs[0]
	assert.Equal(t, "search-model", req.Model)
	assert.Equal(t, GroundingSearch, req.Grounding)
	assert.Contains(t, req.Prompt, `I am the owner of "Lokal", a local deals app for the East Coast, USA.`)
	assert.Contains(t, req.Prompt, "Email: team@lokal.app")

	res = newTestGateway(&fakeGenerator{resp: &Response{}}, false).GenerateOutreachEmail(context.Background(), "A", "B")
	assert.Equal(t, "Could not generate email.", res.Value.Text)
	assert.Equal(t, OutcomeEmpty, res.Outcome)

	res = newTestGateway(&fakeGenerator{err: denied}, false).GenerateOutreachEmail(context.Background(), "A", "B")
	assert.Nil(t, res.Value)
	assert.Equal(t, OutcomePermissionDenied, res.Outcome)
}

func TestSearchLocalPlaces(t *testing.T) {
	gen := &fakeGenerator{resp: &Response{Chunks: []Chunk{
		{Kind: "maps", URI: "https://maps.google.com/?cid=1", Title: "Taco Town", Text: "1 Main St"},
		{Kind: "web", URI: "https://blog.example/tacos", Title: "Best tacos"},
		{Kind: "maps", URI: "https://maps.google.com/?cid=1", Title: "dup"},
		{Kind: "web", Title: "no uri"},
	}}}
	res := newTestGateway(gen, false).SearchLocalPlaces(context.Background(), "tacos", 1, 2)
	require.True(t, res.OK())
	require.Len(t, res.Value, 2)
	assert.Equal(t, "1 Main St", res.Value[0].Address)
	assert.Equal(t, "maps", res.Value[0].Source)
	assert.Equal(t, "web", res.Value[1].Source)
	assert.Empty(t, res.Value[1].Address)
	assert.Equal(t, GroundingMaps, gen.reqs[0].Grounding)
	assert.Equal(t, "maps-model", gen.reqs[0].Model)

	res = newTestGateway(&fakeGenerator{err: errors.New("x")}, false).SearchLocalPlaces(context.Background(), "tacos", 1, 2)
	assert.Empty(t, res.Value)
	assert.Equal(t, OutcomeFailed, res.Outcome)
}

func TestGenerateDealContent(t *testing.T) {
	gen := &fakeGenerator{resp: &Response{Text: `{"title":"Taco Blast","description":"Two tacos","discount":"BOGO","code":"taco 2"}`}}
	res := newTestGateway(gen, false).GenerateDealContent(context.Background(), "Taco Town", "Restaurant")
	require.True(t, res.OK())
	assert.Equal(t, "TACO2", res.Value.Code)

	res = newTestGateway(&fakeGenerator{resp: &Response{Text: "{broken"}}, false).GenerateDealContent(context.Background(), "A", "B")
	assert.Nil(t, res.Value)
	assert.Equal(t, OutcomeFailed, res.Outcome)
}

func TestAnalyzeDeal(t *testing.T) {
	gen := &fakeGenerator{resp: &Response{Text: "Add an end date."}}
	res := newTestGateway(gen, false).AnalyzeDeal(context.Background(), DealSummary{Title: "Sale", Discount: "10% OFF"})
	assert.Equal(t, "Add an end date.", res.Value)
	assert.Contains(t, gen.reqs[0].Prompt, "Business: a local business")

	res = newTestGateway(&fakeGenerator{err: errors.New("x")}, false).AnalyzeDeal(context.Background(), DealSummary{})
	assert.Equal(t, adviceFallback, res.Value)
}

func TestGatewayMetrics(t *testing.T) {
	m := metrics.New(config.MetricsConfig{Namespace: "t"})
	g := newTestGateway(&fakeGenerator{err: denied}, false)
	g.metrics = m

	g.GenerateOutreachEmail(context.Background(), "A", "B")
	g.ReverseGeocode(context.Background(), 0, 0)

	n, err := testutil.GatherAndCount(m.Registry(), "t_ai_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	cfg := &config.AIConfig{Provider: "gemini"}
	assert.Empty(t, resolveAPIKey(cfg))

	t.Setenv("GEMINI_API_KEY", "gem")
	assert.Equal(t, "gem", resolveAPIKey(cfg))
	t.Setenv("API_KEY", "generic")
	assert.Equal(t, "generic", resolveAPIKey(cfg))
	cfg.APIKey = "from-config"
	assert.Equal(t, "from-config", resolveAPIKey(cfg))

	old := BuildAPIKey
	BuildAPIKey = "baked"
	t.Cleanup(func() { BuildAPIKey = old })
	assert.Equal(t, "baked", resolveAPIKey(cfg))

	BuildAPIKey = ""
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	oc := &config.AIConfig{Provider: "openai"}
	t.Setenv("OPENAI_API_KEY", "sk")
	assert.Equal(t, "sk", resolveAPIKey(oc))
}

func TestExtractJSON(t *testing.T) {
	js, ok := extractJSON("```json\n[1,2]\n```")
	assert.True(t, ok)
	assert.Equal(t, "[1,2]", js)

	_, ok = extractJSON("not json")
	assert.False(t, ok)
	_, ok = extractJSON("   ")
	assert.False(t, ok)
}
