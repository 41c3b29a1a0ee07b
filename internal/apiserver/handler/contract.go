package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/amoylab/lokal/internal/common/dto"
	"github.com/amoylab/lokal/internal/contract"
	"github.com/amoylab/lokal/internal/i18n"
)

// ContractHandler serves contracts, the commission ledger and leads
type ContractHandler struct {
	contracts *contract.Service
}

func NewContractHandler(svc *contract.Service) *ContractHandler {
	return &ContractHandler{contracts: svc}
}

// GetContracts handles GET /api/admin/contracts
func (h *ContractHandler) GetContracts(c *gin.Context) {
	list, err := h.contracts.GetContracts(c.Request.Context())
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessContracts).WithPayload(list).Send(c)
}

// AddContract handles POST /api/admin/contracts
func (h *ContractHandler) AddContract(c *gin.Context) {
	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	view, err := h.contracts.AddContract(c.Request.Context(), req.Input, req.Contact)
	if err != nil {
		respondError(c, err, i18n.ErrorBusinessNotFound, i18n.ErrorContractCreateFailed)
		return
	}
	i18n.Created(i18n.SuccessContractCreated).WithPayload(view).Send(c)
}

// GetUsageDetails handles GET /api/admin/usage
func (h *ContractHandler) GetUsageDetails(c *gin.Context) {
	list, err := h.contracts.GetUsageDetails(c.Request.Context())
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessUsageDetails).WithPayload(list).Send(c)
}

// UpdateUsagePayment handles PUT /api/admin/usage/:id/payment
func (h *ContractHandler) UpdateUsagePayment(c *gin.Context) {
	var req dto.UsagePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	var paidAt time.Time
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	if err := h.contracts.UpdateUsagePayment(c.Request.Context(), c.Param("id"), req.AmountReceived, paidAt); err != nil {
		respondError(c, err, i18n.ErrorUsageNotFound, nil)
		return
	}
	i18n.Success(i18n.SuccessUsagePaid).Send(c)
}

// SaveLeads handles POST /api/admin/leads
func (h *ContractHandler) SaveLeads(c *gin.Context) {
	var req dto.SaveLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	saved, err := h.contracts.SaveLeads(c.Request.Context(), req.Leads)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Created(i18n.SuccessLeads).WithPayload(saved).Send(c)
}

// GetLeads handles GET /api/admin/leads
func (h *ContractHandler) GetLeads(c *gin.Context) {
	list, err := h.contracts.GetLeads(c.Request.Context())
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessLeads).WithPayload(list).Send(c)
}

// UpdateLeadStatus handles PUT /api/admin/leads/:id/status
func (h *ContractHandler) UpdateLeadStatus(c *gin.Context) {
	var req dto.LeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	if err := h.contracts.UpdateLeadStatus(c.Request.Context(), c.Param("id"), cnst.LeadStatus(req.Status)); err != nil {
		respondError(c, err, i18n.ErrorLeadNotFound, nil)
		return
	}
	i18n.Success(i18n.SuccessLeadUpdated).Send(c)
}
