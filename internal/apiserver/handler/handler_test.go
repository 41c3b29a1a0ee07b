package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/ai"
	"github.com/amoylab/lokal/internal/auth"
	"github.com/amoylab/lokal/internal/auth/jwt"
	"github.com/amoylab/lokal/internal/catalog"
	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/internal/contract"
	"github.com/amoylab/lokal/internal/database"
	"github.com/amoylab/lokal/internal/history"
	"github.com/amoylab/lokal/internal/ledger"
	"github.com/amoylab/lokal/internal/prefs"
	"github.com/amoylab/lokal/internal/profile"
	"github.com/amoylab/lokal/pkg/metrics"
)

const adminEmail = "owner@lokal.app"

type testEnv struct {
	router *gin.Engine
	db     database.Database
	auth   *auth.Service
}

// newTestEnv wires the full router over in-memory stores. aiURL points the
// openai provider at a fake server; empty leaves the gateway without a key.
func newTestEnv(t *testing.T, aiURL string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := config.Parse([]byte("metrics:\n  enabled: true\n"))
	require.NoError(t, err)
	cfg.Auth.SuperAdmins = config.StringList{adminEmail}
	cfg.Auth.JWT = config.JWTConfig{SecretKey: "0123456789abcdef0123456789abcdef", Duration: time.Hour}
	cfg.AI.Provider = "openai"
	cfg.AI.Model = "gpt-4o-mini"
	cfg.AI.SearchModel = "gpt-4o-mini"
	cfg.AI.MapsModel = "gpt-4o-mini"
	if aiURL != "" {
		cfg.AI.APIKey = "sk-test"
		cfg.AI.BaseURL = aiURL + "/v1/"
	}

	logger := zap.NewNop()
	db, err := database.NewDatabase(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.New(cfg.Metrics)
	js, err := jwt.NewService(cfg.Auth.JWT)
	require.NoError(t, err)
	authSvc := auth.NewService(db, js, nil, logger)
	catalogSvc, err := catalog.NewService(db, &cfg.Catalog, logger)
	require.NoError(t, err)
	prefsStore := prefs.NewMemoryStore(logger)
	t.Cleanup(func() { _ = prefsStore.Close() })

	svc := &Services{
		Auth:      authSvc,
		Profiles:  profile.NewResolver(db, &cfg.Auth, logger, m),
		Catalog:   catalogSvc,
		Ledger:    ledger.New(db, logger, m),
		Contracts: contract.NewService(db, logger),
		Gateway:   ai.NewGateway(&cfg.AI, cfg.Catalog.MockData, logger, m),
		History:   history.NewRecorder(history.NewMemoryStore(logger, cnst.PromptHistoryLimit), logger, m),
		Prefs:     prefsStore,
		Metrics:   m,
	}
	return &testEnv{router: NewRouter(cfg, svc, logger), db: db, auth: authSvc}
}

func (e *testEnv) signUp(t *testing.T, email string) string {
	t.Helper()
	sess, err := e.auth.SignUp(context.Background(), email, "secret1")
	require.NoError(t, err)
	return sess.Token
}

func (e *testEnv) do(t *testing.T, method, target, token string, body any) (*httptest.ResponseRecorder, gjson.Result) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w, gjson.ParseBytes(w.Body.Bytes())
}

func addBusinessWithDeal(t *testing.T, db database.Database) (*database.Business, *database.Deal) {
	t.Helper()
	ctx := context.Background()
	b := &database.Business{Name: "Corner Cafe", Category: string(cnst.CategoryFood), IsActive: true}
	require.NoError(t, db.CreateBusiness(ctx, b))
	d := &database.Deal{BusinessID: b.ID, Title: "Free Latte", Discount: "100% OFF", IsActive: true}
	require.NoError(t, db.CreateDeal(ctx, d))
	return b, d
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, "")

	w, body := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body.Get("status").String())

	w, _ = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lokal_http_requests_total")
}

func TestAuthRoutes(t *testing.T) {
	env := newTestEnv(t, "")

	w, body := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "ann@lokal.app", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)
	token := body.Get("data.access_token").String()
	assert.NotEmpty(t, token)

	w, body = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "ann@lokal.app", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ErrorEmailExists", body.Get("code").String())

	w, body = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "bo@lokal.app", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body.Get("error").String(), "6")

	w, _ = env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{"email": "ann@lokal.app", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{"email": "ann@lokal.app", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token = body.Get("data.access_token").String()

	w, body = env.do(t, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann@lokal.app", body.Get("user.email").String())

	w, _ = env.do(t, http.MethodGet, "/api/auth/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/auth/oauth/google", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ErrorOAuthProviderUnsupported", body.Get("code").String())
}

func TestConsumerFlow(t *testing.T) {
	env := newTestEnv(t, "")
	token := env.signUp(t, "carla@lokal.app")
	b, d := addBusinessWithDeal(t, env.db)

	w, body := env.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "consumer", body.Get("data.role").String())
	assert.Equal(t, int64(cnst.StarterPoints), body.Get("data.points").Int())

	w, body = env.do(t, http.MethodGet, "/api/deals", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Corner Cafe", body.Get("data.0.businessName").String())
	assert.Equal(t, b.ID, body.Get("data.0.business_id").String())

	w, body = env.do(t, http.MethodPost, "/api/deals/"+d.ID+"/save", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Get("saved").Bool())

	_, body = env.do(t, http.MethodGet, "/api/deals/saved", token, nil)
	assert.Equal(t, int64(1), body.Get("data.#").Int())
	assert.Equal(t, cnst.SavedDealDistance, body.Get("data.0.distance").String())

	_, body = env.do(t, http.MethodGet, "/api/deals/"+d.ID+"/saved", token, nil)
	assert.True(t, body.Get("data.saved").Bool())

	w, body = env.do(t, http.MethodPost, "/api/deals/"+d.ID+"/redeem", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(cnst.PointsPerRedemption), body.Get("data.points_awarded").Int())
	assert.Equal(t, "0", body.Get("data.commission_due").String())
	assert.Contains(t, body.Get("message").String(), "50")

	_, body = env.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, int64(cnst.StarterPoints+cnst.PointsPerRedemption), body.Get("data.points").Int())

	_, body = env.do(t, http.MethodGet, "/api/redemptions/count", token, nil)
	assert.Equal(t, int64(1), body.Get("count").Int())

	w, body = env.do(t, http.MethodPost, "/api/deals/missing/redeem", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ErrorDealNotFound", body.Get("code").String())

	w, _ = env.do(t, http.MethodPatch, "/api/profile", token, map[string]string{"full_name": "Carla"})
	assert.Equal(t, http.StatusOK, w.Code)
	_, body = env.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, "Carla", body.Get("data.full_name").String())
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t, "")
	consumer := env.signUp(t, "dan@lokal.app")
	admin := env.signUp(t, adminEmail)

	w, body := env.do(t, http.MethodGet, "/api/admin/businesses", consumer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ErrorAdminRequired", body.Get("code").String())

	w, _ = env.do(t, http.MethodGet, "/api/admin/businesses", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, body = env.do(t, http.MethodGet, "/api/profile", admin, nil)
	assert.Equal(t, "admin", body.Get("data.role").String())
	assert.Equal(t, int64(cnst.SuperAdminStarterPoints), body.Get("data.points").Int())
}

func TestAdminCatalog(t *testing.T) {
	env := newTestEnv(t, "")
	admin := env.signUp(t, adminEmail)

	w, body := env.do(t, http.MethodPost, "/api/admin/businesses", admin, map[string]string{"name": "Book Nook", "category": "retail"})
	require.Equal(t, http.StatusCreated, w.Code)
	businessID := body.Get("data.id").String()
	assert.True(t, body.Get("data.is_active").Bool())

	w, body = env.do(t, http.MethodPost, "/api/admin/businesses", admin, map[string]string{"name": "Bad", "category": "cars"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ErrorCategoryInvalid", body.Get("code").String())

	w, body = env.do(t, http.MethodPost, "/api/admin/deals", admin, map[string]string{"business_id": businessID, "title": "2 for 1", "discount": "50% OFF"})
	require.Equal(t, http.StatusCreated, w.Code)
	dealID := body.Get("data.id").String()
	assert.Len(t, body.Get("data.code").String(), 8)

	w, body = env.do(t, http.MethodDelete, "/api/admin/businesses/"+businessID, admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ErrorBusinessHasDeals", body.Get("code").String())

	w, _ = env.do(t, http.MethodPut, "/api/admin/businesses/"+businessID+"/active", admin, map[string]bool{"is_active": false})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodPatch, "/api/admin/deals/"+dealID, admin, map[string]bool{"is_active": false})
	assert.Equal(t, http.StatusOK, w.Code)
	_, body = env.do(t, http.MethodGet, "/api/deals", "", nil)
	assert.Equal(t, int64(0), body.Get("data.#").Int())

	_, body = env.do(t, http.MethodGet, "/api/admin/businesses/"+businessID+"/deals", admin, nil)
	assert.Equal(t, int64(1), body.Get("data.#").Int())

	w, _ = env.do(t, http.MethodDelete, "/api/admin/deals/"+dealID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, http.MethodDelete, "/api/admin/businesses/"+businessID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodPatch, "/api/admin/businesses/"+businessID, admin, map[string]string{"name": "Gone"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ErrorBusinessNotFound", body.Get("code").String())
}

func TestContractsAndCommission(t *testing.T) {
	env := newTestEnv(t, "")
	admin := env.signUp(t, adminEmail)
	consumer := env.signUp(t, "eve@lokal.app")
	b, d := addBusinessWithDeal(t, env.db)

	w, body := env.do(t, http.MethodPost, "/api/admin/contracts", admin, map[string]any{
		"business_id":           b.ID,
		"commission_percentage": "10",
		"contact":               map[string]string{"name": "Olga", "email": "olga@cafe.test"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Olga", body.Get("data.contact_info.name").String())

	w, _ = env.do(t, http.MethodPost, "/api/admin/contracts", admin, map[string]any{"business_id": b.ID, "commission_percentage": "120"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, body = env.do(t, http.MethodGet, "/api/admin/contracts", admin, nil)
	assert.Equal(t, int64(1), body.Get("data.#").Int())

	_, _ = env.do(t, http.MethodGet, "/api/profile", consumer, nil)
	w, body = env.do(t, http.MethodPost, "/api/deals/"+d.ID+"/redeem", consumer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", body.Get("data.commission_due").String())

	_, body = env.do(t, http.MethodGet, "/api/admin/usage", admin, nil)
	require.Equal(t, int64(1), body.Get("data.#").Int())
	usageID := body.Get("data.0.id").String()
	assert.Equal(t, "Free Latte - 100% OFF", body.Get("data.0.deal_snapshot").String())

	w, _ = env.do(t, http.MethodPut, "/api/admin/usage/"+usageID+"/payment", admin, map[string]string{"amount_received": "4.00"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodPut, "/api/admin/usage/missing/payment", admin, map[string]string{"amount_received": "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ErrorUsageNotFound", body.Get("code").String())

	w, body = env.do(t, http.MethodPost, "/api/admin/leads", admin, map[string]any{"leads": []map[string]string{{"name": "Bike Shop", "type": "Retail"}}})
	require.Equal(t, http.StatusCreated, w.Code)
	leadID := body.Get("data.0.id").String()

	w, body = env.do(t, http.MethodPut, "/api/admin/leads/"+leadID+"/status", admin, map[string]string{"status": "won"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ErrorLeadStatusInvalid", body.Get("code").String())

	w, _ = env.do(t, http.MethodPut, "/api/admin/leads/"+leadID+"/status", admin, map[string]string{"status": "contacted"})
	assert.Equal(t, http.StatusOK, w.Code)
}

// newFakeOpenAI answers every chat completion with content, or with status
// when it is not 200.
func newFakeOpenAI(t *testing.T, status int, content string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"denied","type":"invalid_request_error","code":"forbidden"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "c1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestAI_DealContentRecordsHistory(t *testing.T) {
	url := newFakeOpenAI(t, http.StatusOK, `{"title":"Happy Hour","description":"Half price","discount":"50% OFF","code":"happy 50"}`)
	env := newTestEnv(t, url)
	admin := env.signUp(t, adminEmail)

	w, body := env.do(t, http.MethodPost, "/api/admin/ai/deal", admin, map[string]string{"businessName": "Corner Cafe", "businessType": "Cafe"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body.Get("data.outcome").String())
	assert.Equal(t, "HAPPY50", body.Get("data.value.code").String())

	_, body = env.do(t, http.MethodGet, "/api/history?type=deal", admin, nil)
	require.Equal(t, int64(1), body.Get("data.#").Int())
	assert.Equal(t, "Corner Cafe", body.Get("data.0.query").String())
	assert.Equal(t, "Cafe", body.Get("data.0.params.type").String())

	w, _ = env.do(t, http.MethodDelete, "/api/history", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	_, body = env.do(t, http.MethodGet, "/api/history", admin, nil)
	assert.Equal(t, int64(0), body.Get("data.#").Int())
}

func TestAI_DegradedAndErrors(t *testing.T) {
	t.Run("invalid output is a degraded 200", func(t *testing.T) {
		env := newTestEnv(t, newFakeOpenAI(t, http.StatusOK, "no json here"))
		token := env.signUp(t, "fay@lokal.app")

		w, body := env.do(t, http.MethodGet, "/api/ai/deals?lat=35.1&lng=-80.8&city=Charlotte", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "failed", body.Get("data.outcome").String())
		assert.Equal(t, int64(0), body.Get("data.value.#").Int())
	})

	t.Run("permission denied", func(t *testing.T) {
		env := newTestEnv(t, newFakeOpenAI(t, http.StatusForbidden, ""))
		admin := env.signUp(t, adminEmail)

		w, body := env.do(t, http.MethodPost, "/api/admin/ai/email", admin, map[string]string{"businessName": "Cafe"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ErrorAIPermissionDenied", body.Get("code").String())
	})

	t.Run("missing key", func(t *testing.T) {
		env := newTestEnv(t, "")
		token := env.signUp(t, "gus@lokal.app")

		w, body := env.do(t, http.MethodPost, "/api/ai/geocode", token, map[string]string{"query": "Austin"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "ErrorAIConfiguration", body.Get("code").String())
	})

	t.Run("missing key keeps the location fallback", func(t *testing.T) {
		env := newTestEnv(t, "")
		token := env.signUp(t, "ida@lokal.app")

		w, body := env.do(t, http.MethodGet, "/api/ai/location?lat=1&lng=2", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Current Location", body.Get("data.value").String())
		assert.Equal(t, "configuration", body.Get("data.outcome").String())
	})

	t.Run("permission denied keeps the leads fallback", func(t *testing.T) {
		env := newTestEnv(t, newFakeOpenAI(t, http.StatusForbidden, ""))
		admin := env.signUp(t, adminEmail)

		w, body := env.do(t, http.MethodGet, "/api/admin/ai/leads?lat=1&lng=2&city=Austin", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "permission_denied", body.Get("data.outcome").String())
		assert.Equal(t, int64(0), body.Get("data.value.#").Int())
	})
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t, "")
	token := env.signUp(t, "hal@lokal.app")

	_, body := env.do(t, http.MethodGet, "/api/settings", token, nil)
	assert.False(t, body.Get("data.darkMode").Bool())
	assert.True(t, body.Get("data.sound").Bool())
	assert.True(t, body.Get("data.haptic").Bool())

	w, body := env.do(t, http.MethodPut, "/api/settings", token, map[string]bool{"darkMode": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Get("data.darkMode").Bool())
	assert.True(t, body.Get("data.sound").Bool())

	_, body = env.do(t, http.MethodGet, "/api/settings", token, nil)
	assert.True(t, body.Get("data.darkMode").Bool())
}
