package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/apiserver/middleware"
	"github.com/amoylab/lokal/internal/catalog"
	"github.com/amoylab/lokal/internal/common/dto"
	"github.com/amoylab/lokal/internal/i18n"
)

// CatalogHandler serves businesses, deals and saved deals
type CatalogHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

func NewCatalogHandler(svc *catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: svc, logger: logger.Named("apiserver.handler.catalog")}
}

// GetDeals handles GET /api/deals
func (h *CatalogHandler) GetDeals(c *gin.Context) {
	deals, err := h.catalog.GetDeals(c.Request.Context())
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessDeals).WithPayload(deals).Send(c)
}

// GetSavedDeals handles GET /api/deals/saved
func (h *CatalogHandler) GetSavedDeals(c *gin.Context) {
	id, _ := middleware.Identity(c)
	deals, err := h.catalog.GetSavedDeals(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessSavedDeals).WithPayload(deals).Send(c)
}

// IsDealSaved handles GET /api/deals/:id/saved
func (h *CatalogHandler) IsDealSaved(c *gin.Context) {
	id, _ := middleware.Identity(c)
	saved, err := h.catalog.IsDealSaved(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessSavedDeals).WithPayload(dto.ToggleSaveResponse{Saved: saved}).Send(c)
}

// ToggleSaveDeal handles POST /api/deals/:id/save
func (h *CatalogHandler) ToggleSaveDeal(c *gin.Context) {
	id, _ := middleware.Identity(c)
	saved, err := h.catalog.ToggleSaveDeal(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err, i18n.ErrorDealNotFound, nil)
		return
	}
	i18n.Success(i18n.SuccessDealSaveToggled).WithPayload(gin.H{"saved": saved}).Send(c)
}

// GetBusinesses handles GET /api/admin/businesses
func (h *CatalogHandler) GetBusinesses(c *gin.Context) {
	list, err := h.catalog.GetBusinesses(c.Request.Context())
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessBusinesses).WithPayload(list).Send(c)
}

// AddBusiness handles POST /api/admin/businesses
func (h *CatalogHandler) AddBusiness(c *gin.Context) {
	var in catalog.BusinessInput
	if err := c.ShouldBindJSON(&in); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	b, err := h.catalog.AddBusiness(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, nil, i18n.ErrorBusinessCreateFailed)
		return
	}
	i18n.Created(i18n.SuccessBusinessCreated).WithPayload(b).Send(c)
}

// UpdateBusiness handles PATCH /api/admin/businesses/:id
func (h *CatalogHandler) UpdateBusiness(c *gin.Context) {
	var patch catalog.BusinessPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	if err := h.catalog.UpdateBusiness(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondError(c, err, i18n.ErrorBusinessNotFound, nil)
		return
	}
	i18n.Success(i18n.SuccessBusinessUpdated).Send(c)
}

// SetBusinessActive handles PUT /api/admin/businesses/:id/active
func (h *CatalogHandler) SetBusinessActive(c *gin.Context) {
	var req dto.SoftDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	if err := h.catalog.SoftDeleteBusiness(c.Request.Context(), c.Param("id"), req.IsActive); err != nil {
		respondError(c, err, i18n.ErrorBusinessNotFound, nil)
		return
	}
	i18n.Success(i18n.SuccessBusinessUpdated).Send(c)
}

// DeleteBusiness handles DELETE /api/admin/businesses/:id
func (h *CatalogHandler) DeleteBusiness(c *gin.Context) {
	if err := h.catalog.DeleteBusiness(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, i18n.ErrorBusinessNotFound, nil)
		return
	}
	i18n.Success(i18n.SuccessBusinessDeleted).Send(c)
}

// GetDealsByBusiness handles GET /api/admin/businesses/:id/deals
func (h *CatalogHandler) GetDealsByBusiness(c *gin.Context) {
	deals, err := h.catalog.GetDealsByBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessDeals).WithPayload(deals).Send(c)
}

// AddDeal handles POST /api/admin/deals
func (h *CatalogHandler) AddDeal(c *gin.Context) {
	var in catalog.DealInput
	if err := c.ShouldBindJSON(&in); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	deal, err := h.catalog.AddDeal(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, i18n.ErrorBusinessNotFound, i18n.ErrorDealCreateFailed)
		return
	}
	i18n.Created(i18n.SuccessDealCreated).WithPayload(deal).Send(c)
}

// UpdateDeal handles PATCH /api/admin/deals/:id
func (h *CatalogHandler) UpdateDeal(c *gin.Context) {
	var patch catalog.DealPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	if err := h.catalog.UpdateDeal(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondError(c, err, i18n.ErrorDealNotFound, nil)
		return
	}
	i18n.Success(i18n.SuccessDealUpdated).Send(c)
}

// DeleteDeal handles DELETE /api/admin/deals/:id
func (h *CatalogHandler) DeleteDeal(c *gin.Context) {
	if err := h.catalog.DeleteDeal(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, i18n.ErrorDealNotFound, nil)
		return
	}
	i18n.Success(i18n.SuccessDealDeleted).Send(c)
}
