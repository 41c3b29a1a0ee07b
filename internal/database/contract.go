package database

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amoylab/lokal/internal/common/cnst"
)

func (s *gormStore) ListContracts(ctx context.Context) ([]*ContractView, error) {
	db := getDBFromContext(ctx, s.db)

	var contracts []*Contract
	if err := db.Order("created_at DESC").Find(&contracts).Error; err != nil {
		return nil, translateError(err)
	}
	views := make([]*ContractView, 0, len(contracts))
	if len(contracts) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(contracts))
	for _, c := range contracts {
		ids = append(ids, c.ID)
	}
	var assignments []*ContractAssignment
	if err := db.Where("contract_id IN ? AND role = ?", ids, cnst.AssignmentRoleOwner).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, translateError(err)
	}

	ownerOf := make(map[string]string, len(assignments))
	contactIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := ownerOf[a.ContractID]; ok {
			continue
		}
		ownerOf[a.ContractID] = a.ContactID
		contactIDs = append(contactIDs, a.ContactID)
	}

	contacts := make(map[string]*ContractContact, len(contactIDs))
	if len(contactIDs) > 0 {
		var rows []*ContractContact
		if err := db.Where("id IN ?", contactIDs).Find(&rows).Error; err != nil {
			return nil, translateError(err)
		}
		for _, c := range rows {
			contacts[c.ID] = c
		}
	}

	for _, c := range contracts {
		views = append(views, &ContractView{Contract: *c, ContactInfo: contacts[ownerOf[c.ID]]})
	}
	return views, nil
}

func (s *gormStore) CreateContract(ctx context.Context, contract *Contract) error {
	return translateError(getDBFromContext(ctx, s.db).Create(contract).Error)
}

func (s *gormStore) CreateContact(ctx context.Context, contact *ContractContact) error {
	return translateError(getDBFromContext(ctx, s.db).Create(contact).Error)
}

func (s *gormStore) CreateAssignment(ctx context.Context, assignment *ContractAssignment) error {
	return translateError(getDBFromContext(ctx, s.db).Create(assignment).Error)
}

func (s *gormStore) GetActiveContract(ctx context.Context, businessID string) (*Contract, error) {
	var contract Contract
	err := getDBFromContext(ctx, s.db).
		Where("business_id = ? AND status = ?", businessID, cnst.ContractStatusActive).
		Order("created_at DESC").
		First(&contract).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &contract, nil
}

func (s *gormStore) CreateUsage(ctx context.Context, usage *ConsumerUsage) error {
	return translateError(getDBFromContext(ctx, s.db).Create(usage).Error)
}

func (s *gormStore) ListUsage(ctx context.Context) ([]*ConsumerUsage, error) {
	var usage []*ConsumerUsage
	err := getDBFromContext(ctx, s.db).Order("redeemed_at DESC").Find(&usage).Error
	return usage, translateError(err)
}

func (s *gormStore) MarkUsagePaid(ctx context.Context, id string, amount decimal.Decimal, paidAt time.Time) error {
	return s.updateByID(ctx, &ConsumerUsage{}, id, map[string]any{
		"amount_received":          decimal.NullDecimal{Decimal: amount, Valid: true},
		"date_commission_was_paid": paidAt,
	})
}

func (s *gormStore) CreateLeads(ctx context.Context, leads []*BusinessLead) error {
	if len(leads) == 0 {
		return nil
	}
	return translateError(getDBFromContext(ctx, s.db).Create(&leads).Error)
}

func (s *gormStore) ListLeads(ctx context.Context) ([]*BusinessLead, error) {
	var leads []*BusinessLead
	err := getDBFromContext(ctx, s.db).Order("created_at DESC").Find(&leads).Error
	return leads, translateError(err)
}

func (s *gormStore) UpdateLeadStatus(ctx context.Context, id, status string) error {
	return s.updateByID(ctx, &BusinessLead{}, id, map[string]any{"contact_status": status})
}
