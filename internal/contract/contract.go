package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/amoylab/lokal/internal/database"
)

var (
	// ErrInvalidCommission is returned for percentages outside 0..100
	ErrInvalidCommission = errors.New("commission percentage must be between 0 and 100")
	// ErrInvalidLeadStatus is returned for statuses other than new, contacted and signed_up
	ErrInvalidLeadStatus = errors.New("invalid lead status")
)

type (
	// Input describes a new contract
	Input struct {
		BusinessID           string          `json:"business_id"`
		CommissionPercentage decimal.Decimal `json:"commission_percentage"`
		Status               string          `json:"status"`
		StartDate            *time.Time      `json:"start_date"`
		Notes                string          `json:"notes"`
	}

	// ContactInput describes the owner contact of a contract
	ContactInput struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		Email   string `json:"email"`
	}

	// Lead is a prospective business to be stored
	Lead struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Location string `json:"location"`
		City     string `json:"city"`
	}
)

// Store is the slice of the database the contract service needs
type Store interface {
	database.ContractStore
	database.UsageStore
	database.LeadStore
}

// Service manages contracts, the commission ledger and business leads
type Service struct {
	db     Store
	logger *zap.Logger
}

func NewService(db Store, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger.Named("contract")}
}

func (s *Service) GetContracts(ctx context.Context) ([]*database.ContractView, error) {
	contracts, err := s.db.ListContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// AddContract writes the contract, its contact and the owner link as three
// independent inserts. Only the contract insert is fatal; a failed contact or
// link leaves the contract in place without contact info.
func (s *Service) AddContract(ctx context.Context, in Input, contact ContactInput) (*database.ContractView, error) {
	if in.CommissionPercentage.IsNegative() || in.CommissionPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidCommission
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = cnst.ContractStatusActive
	}

	c := &database.Contract{
		BusinessID:           in.BusinessID,
		CommissionPercentage: in.CommissionPercentage,
		Status:               status,
		StartDate:            in.StartDate,
		Notes:                in.Notes,
	}
	if err := s.db.CreateContract(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	view := &database.ContractView{Contract: *c}

	cc := &database.ContractContact{
		Name:    contact.Name,
		Phone:   contact.Phone,
		Address: contact.Address,
		Email:   contact.Email,
	}
	if err := s.db.CreateContact(ctx, cc); err != nil {
		s.logger.Error("failed to create contract contact",
			zap.String("contract_id", c.ID),
			zap.Error(err))
		return view, nil
	}

	link := &database.ContractAssignment{ContractID: c.ID, ContactID: cc.ID, Role: cnst.AssignmentRoleOwner}
	if err := s.db.CreateAssignment(ctx, link); err != nil {
		s.logger.Error("failed to link contract contact",
			zap.String("contract_id", c.ID),
			zap.String("contact_id", cc.ID),
			zap.Error(err))
		return view, nil
	}

	view.ContactInfo = cc
	return view, nil
}

// ContractForBusiness returns the newest active contract or database.ErrNotFound
func (s *Service) ContractForBusiness(ctx context.Context, businessID string) (*database.Contract, error) {
	return s.db.GetActiveContract(ctx, businessID)
}

func (s *Service) GetUsageDetails(ctx context.Context) ([]*database.ConsumerUsage, error) {
	usage, err := s.db.ListUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage: %w", err)
	}
	return usage, nil
}

// UpdateUsagePayment records a payment. The amount is not checked against the
// commission due.
func (s *Service) UpdateUsagePayment(ctx context.Context, usageID string, amount decimal.Decimal, paidAt time.Time) error {
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	if err := s.db.MarkUsagePaid(ctx, usageID, amount, paidAt); err != nil {
		return fmt.Errorf("failed to update usage payment: %w", err)
	}
	return nil
}

// SaveLeads stores leads with status new
func (s *Service) SaveLeads(ctx context.Context, leads []Lead) ([]*database.BusinessLead, error) {
	rows := make([]*database.BusinessLead, 0, len(leads))
	for _, l := range leads {
		if strings.TrimSpace(l.Name) == "" {
			continue
		}
		rows = append(rows, &database.BusinessLead{
			Name:          l.Name,
			Type:          l.Type,
			Location:      l.Location,
			City:          l.City,
			ContactStatus: string(cnst.LeadStatusNew),
		})
	}
	if err := s.db.CreateLeads(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to save leads: %w", err)
	}
	return rows, nil
}

func (s *Service) GetLeads(ctx context.Context) ([]*database.BusinessLead, error) {
	leads, err := s.db.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

func (s *Service) UpdateLeadStatus(ctx context.Context, id string, status cnst.LeadStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLeadStatus, status)
	}
	if err := s.db.UpdateLeadStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	return nil
}
