package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/amoylab/lokal/internal/apiserver/middleware"
	"github.com/amoylab/lokal/internal/i18n"
	"github.com/amoylab/lokal/internal/ledger"
)

// RedemptionHandler serves deal redemption
type RedemptionHandler struct {
	ledger *ledger.Ledger
}

func NewRedemptionHandler(l *ledger.Ledger) *RedemptionHandler {
	return &RedemptionHandler{ledger: l}
}

// RedeemDeal handles POST /api/deals/:id/redeem
func (h *RedemptionHandler) RedeemDeal(c *gin.Context) {
	id, _ := middleware.Identity(c)
	receipt, err := h.ledger.RedeemDeal(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		respondError(c, err, i18n.ErrorDealNotFound, i18n.ErrorRedeemFailed)
		return
	}
	i18n.Success(i18n.SuccessDealRedeemed).
		With("Points", receipt.PointsAwarded).
		WithPayload(receipt).
		Send(c)
}

// RedemptionCount handles GET /api/redemptions/count
func (h *RedemptionHandler) RedemptionCount(c *gin.Context) {
	id, _ := middleware.Identity(c)
	n, err := h.ledger.RedemptionCount(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessRedemptionCount).WithPayload(gin.H{"count": n}).Send(c)
}
