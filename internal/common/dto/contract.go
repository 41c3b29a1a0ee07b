package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/amoylab/lokal/internal/contract"
)

// CreateContractRequest is the body of a new contract with its owner contact
type CreateContractRequest struct {
	contract.Input
	Contact contract.ContactInput `json:"contact"`
}

// UsagePaymentRequest marks a usage row paid. A missing paid_at means now.
type UsagePaymentRequest struct {
	AmountReceived decimal.Decimal `json:"amount_received"`
	PaidAt         *time.Time      `json:"paid_at"`
}

// SaveLeadsRequest stores AI-suggested leads
type SaveLeadsRequest struct {
	Leads []contract.Lead `json:"leads" binding:"required"`
}

// LeadStatusRequest moves a lead through the outreach funnel
type LeadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
