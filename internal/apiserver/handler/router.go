package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/ai"
	"github.com/amoylab/lokal/internal/apiserver/middleware"
	"github.com/amoylab/lokal/internal/auth"
	"github.com/amoylab/lokal/internal/catalog"
	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/internal/common/errorx"
	"github.com/amoylab/lokal/internal/contract"
	"github.com/amoylab/lokal/internal/history"
	"github.com/amoylab/lokal/internal/i18n"
	"github.com/amoylab/lokal/internal/ledger"
	"github.com/amoylab/lokal/internal/prefs"
	"github.com/amoylab/lokal/internal/profile"
	"github.com/amoylab/lokal/pkg/metrics"
	"github.com/amoylab/lokal/pkg/version"
)

// Services are the components the HTTP surface is built on
type Services struct {
	Auth      *auth.Service
	Profiles  *profile.Resolver
	Catalog   *catalog.Service
	Ledger    *ledger.Ledger
	Contracts *contract.Service
	Gateway   *ai.Gateway
	History   *history.Recorder
	Prefs     prefs.Store
	Metrics   *metrics.Metrics
}

// NewRouter wires every route of the API
func NewRouter(cfg *config.LokalConfig, svc *Services, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	errs := errorx.NewErrorHandler(logger)
	r.Use(errs.TraceMiddleware(), errs.RecoveryMiddleware(), errs.ErrorMiddleware())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if cfg.Metrics.Enabled && svc.Metrics != nil {
		r.Use(svc.Metrics.Middleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(svc.Metrics.Handler()))
	}
	r.Use(middleware.AccessLog(logger), middleware.CORS(cfg.Server.CORS), i18n.LanguageMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})

	authH := NewAuthHandler(svc.Auth, &cfg.Auth.OAuth, logger)
	profileH := NewProfileHandler(svc.Profiles)
	catalogH := NewCatalogHandler(svc.Catalog, logger)
	redeemH := NewRedemptionHandler(svc.Ledger)
	contractH := NewContractHandler(svc.Contracts)
	aiH := NewAIHandler(svc.Gateway, svc.History)
	historyH := NewHistoryHandler(svc.History.Store())
	settingsH := NewSettingsHandler(svc.Prefs, logger)

	api := r.Group("/api")

	public := api.Group("")
	{
		public.POST("/auth/signup", authH.SignUp)
		public.POST("/auth/signin", authH.SignIn)
		public.GET("/auth/providers", authH.Providers)
		public.GET("/auth/oauth/:provider", authH.OAuthLogin)
		public.GET("/auth/oauth/:provider/callback", authH.OAuthCallback)
		public.GET("/deals", catalogH.GetDeals)
	}

	authed := api.Group("", middleware.JWTAuthMiddleware(svc.Auth))
	{
		authed.POST("/auth/signout", authH.SignOut)
		authed.GET("/auth/session", authH.Session)

		authed.GET("/profile", profileH.GetProfile)
		authed.PATCH("/profile", profileH.UpdateProfile)

		authed.GET("/deals/saved", catalogH.GetSavedDeals)
		authed.GET("/deals/:id/saved", catalogH.IsDealSaved)
		authed.POST("/deals/:id/save", catalogH.ToggleSaveDeal)
		authed.POST("/deals/:id/redeem", redeemH.RedeemDeal)
		authed.GET("/redemptions/count", redeemH.RedemptionCount)

		authed.GET("/ai/location", aiH.ReverseGeocode)
		authed.POST("/ai/geocode", aiH.GeocodeCity)
		authed.GET("/ai/deals", aiH.NearbyDeals)
		authed.POST("/ai/places", aiH.SearchPlaces)

		authed.GET("/history", historyH.List)
		authed.DELETE("/history", historyH.Clear)

		authed.GET("/settings", settingsH.Get)
		authed.PUT("/settings", settingsH.Set)
		authed.GET("/settings/stream", settingsH.Stream)
	}

	admin := authed.Group("/admin", middleware.RequireAdmin(svc.Profiles))
	{
		admin.GET("/businesses", catalogH.GetBusinesses)
		admin.POST("/businesses", catalogH.AddBusiness)
		admin.PATCH("/businesses/:id", catalogH.UpdateBusiness)
		admin.PUT("/businesses/:id/active", catalogH.SetBusinessActive)
		admin.DELETE("/businesses/:id", catalogH.DeleteBusiness)
		admin.GET("/businesses/:id/deals", catalogH.GetDealsByBusiness)

		admin.POST("/deals", catalogH.AddDeal)
		admin.PATCH("/deals/:id", catalogH.UpdateDeal)
		admin.DELETE("/deals/:id", catalogH.DeleteDeal)

		admin.GET("/contracts", contractH.GetContracts)
		admin.POST("/contracts", contractH.AddContract)
		admin.GET("/usage", contractH.GetUsageDetails)
		admin.PUT("/usage/:id/payment", contractH.UpdateUsagePayment)
		admin.GET("/leads", contractH.GetLeads)
		admin.POST("/leads", contractH.SaveLeads)
		admin.PUT("/leads/:id/status", contractH.UpdateLeadStatus)

		admin.GET("/ai/leads", aiH.BusinessLeads)
		admin.POST("/ai/email", aiH.OutreachEmail)
		admin.POST("/ai/deal", aiH.DealContent)
		admin.POST("/ai/analyze", aiH.AnalyzeDeal)
	}

	return r
}
