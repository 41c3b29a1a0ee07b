package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amoylab/lokal/internal/ai"
	"github.com/amoylab/lokal/internal/apiserver/middleware"
	"github.com/amoylab/lokal/internal/common/dto"
	"github.com/amoylab/lokal/internal/history"
	"github.com/amoylab/lokal/internal/i18n"
)

// AIHandler exposes the AI gateway. Degraded results are answered with 200
// and their outcome. Routes whose degraded value is null answer permission
// and configuration problems as errors instead.
type AIHandler struct {
	gateway  *ai.Gateway
	recorder *history.Recorder
}

func NewAIHandler(gateway *ai.Gateway, recorder *history.Recorder) *AIHandler {
	return &AIHandler{gateway: gateway, recorder: recorder}
}

func sendResult[T any](c *gin.Context, r ai.Result[T]) {
	i18n.Success(i18n.SuccessAIResult).
		WithPayload(dto.AIResponse[T]{Value: r.Value, Outcome: r.Outcome}).
		Send(c)
}

// sendStrictResult is sendResult for routes without a usable fallback value
func sendStrictResult[T any](c *gin.Context, r ai.Result[T]) {
	if coded := aiError(r.Outcome); coded != nil {
		i18n.RespondWithError(c, coded)
		return
	}
	sendResult(c, r)
}

func coords(lat, lng float64) map[string]string {
	return map[string]string{
		"lat": strconv.FormatFloat(lat, 'f', 6, 64),
		"lng": strconv.FormatFloat(lng, 'f', 6, 64),
	}
}

func (h *AIHandler) record(c *gin.Context, typ history.Type, query string, params map[string]string) {
	id, _ := middleware.Identity(c)
	h.recorder.Record(c.Request.Context(), id.UserID, typ, query, params)
}

// ReverseGeocode handles GET /api/ai/location?lat=&lng=
func (h *AIHandler) ReverseGeocode(c *gin.Context) {
	var q dto.LocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	sendResult(c, h.gateway.ReverseGeocode(c.Request.Context(), q.Lat, q.Lng))
}

// GeocodeCity handles POST /api/ai/geocode
func (h *AIHandler) GeocodeCity(c *gin.Context) {
	var req dto.GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	h.record(c, history.TypeSearch, req.Query, nil)
	sendStrictResult(c, h.gateway.GeocodeCity(c.Request.Context(), req.Query))
}

// NearbyDeals handles GET /api/ai/deals?lat=&lng=&city=
func (h *AIHandler) NearbyDeals(c *gin.Context) {
	var q dto.LocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	params := coords(q.Lat, q.Lng)
	if q.City != "" {
		params["city"] = q.City
	}
	h.record(c, history.TypeSearch, q.City, params)
	sendResult(c, h.gateway.FetchNearbyDeals(c.Request.Context(), q.Lat, q.Lng, q.City))
}

// BusinessLeads handles GET /api/admin/ai/leads?lat=&lng=&city=
func (h *AIHandler) BusinessLeads(c *gin.Context) {
	var q dto.LocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	sendResult(c, h.gateway.FetchBusinessLeads(c.Request.Context(), q.Lat, q.Lng, q.City))
}

// OutreachEmail handles POST /api/admin/ai/email
func (h *AIHandler) OutreachEmail(c *gin.Context) {
	var req dto.BusinessPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	h.record(c, history.TypeEmail, req.BusinessName, map[string]string{"type": req.BusinessType})
	sendStrictResult(c, h.gateway.GenerateOutreachEmail(c.Request.Context(), req.BusinessName, req.BusinessType))
}

// SearchPlaces handles POST /api/ai/places
func (h *AIHandler) SearchPlaces(c *gin.Context) {
	var req dto.PlaceSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	h.record(c, history.TypeSearch, req.Query, coords(req.Lat, req.Lng))
	sendResult(c, h.gateway.SearchLocalPlaces(c.Request.Context(), req.Query, req.Lat, req.Lng))
}

// DealContent handles POST /api/admin/ai/deal
func (h *AIHandler) DealContent(c *gin.Context) {
	var req dto.BusinessPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	h.record(c, history.TypeDeal, req.BusinessName, map[string]string{"type": req.BusinessType})
	sendStrictResult(c, h.gateway.GenerateDealContent(c.Request.Context(), req.BusinessName, req.BusinessType))
}

// AnalyzeDeal handles POST /api/admin/ai/analyze
func (h *AIHandler) AnalyzeDeal(c *gin.Context) {
	var req dto.AnalyzeDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	sendResult(c, h.gateway.AnalyzeDeal(c.Request.Context(), req.DealSummary))
}
