package database

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Database defines the methods for database operations.
type Database interface {
	BusinessStore
	DealStore
	SavedDealStore
	ProfileStore
	AccountStore
	RedemptionStore
	ContractStore
	UsageStore
	LeadStore

	// Transaction runs fn inside a database transaction. Store calls made with
	// the context passed to fn join the transaction.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the database connection.
	Close() error
}

// BusinessStore persists businesses.
type BusinessStore interface {
	// ListBusinesses returns businesses with their deal count, newest first,
	// skipping the given ids.
	ListBusinesses(ctx context.Context, excludeIDs []string) ([]*BusinessView, error)
	GetBusiness(ctx context.Context, id string) (*Business, error)
	CreateBusiness(ctx context.Context, business *Business) error
	// UpdateBusiness writes only the given columns.
	UpdateBusiness(ctx context.Context, id string, fields map[string]any) error
	// DeleteBusiness fails with ErrHasDependents while the business has deals.
	DeleteBusiness(ctx context.Context, id string) error
}

// DealStore persists deals.
type DealStore interface {
	// ListActiveDeals returns active deals joined with their business, newest first.
	ListActiveDeals(ctx context.Context, excludeBusinessIDs []string) ([]*DealView, error)
	ListDealsByBusiness(ctx context.Context, businessID string) ([]*DealView, error)
	GetDeal(ctx context.Context, id string) (*Deal, error)
	CreateDeal(ctx context.Context, deal *Deal) error
	UpdateDeal(ctx context.Context, id string, fields map[string]any) error
	DeleteDeal(ctx context.Context, id string) error
}

// SavedDealStore persists a user's bookmarked deals.
type SavedDealStore interface {
	ListSavedDeals(ctx context.Context, userID string) ([]*DealView, error)
	IsDealSaved(ctx context.Context, userID, dealID string) (bool, error)
	SaveDeal(ctx context.Context, userID, dealID string) error
	UnsaveDeal(ctx context.Context, userID, dealID string) error
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	CreateProfile(ctx context.Context, profile *Profile) error
	UpdateProfile(ctx context.Context, id string, fields map[string]any) error
	// AddPoints increments the points of a profile in the database.
	AddPoints(ctx context.Context, id string, delta int) error
}

// AccountStore persists authentication identities.
type AccountStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	CreateAccount(ctx context.Context, account *Account) error
}

// RedemptionStore persists redemptions.
type RedemptionStore interface {
	CreateRedemption(ctx context.Context, redemption *Redemption) error
	CountRedemptions(ctx context.Context, userID string) (int64, error)
}

// ContractStore persists contracts and their contacts.
type ContractStore interface {
	ListContracts(ctx context.Context) ([]*ContractView, error)
	CreateContract(ctx context.Context, contract *Contract) error
	CreateContact(ctx context.Context, contact *ContractContact) error
	CreateAssignment(ctx context.Context, assignment *ContractAssignment) error
	// GetActiveContract returns the newest active contract of a business.
	GetActiveContract(ctx context.Context, businessID string) (*Contract, error)
}

// UsageStore persists the commission ledger.
type UsageStore interface {
	CreateUsage(ctx context.Context, usage *ConsumerUsage) error
	ListUsage(ctx context.Context) ([]*ConsumerUsage, error)
	MarkUsagePaid(ctx context.Context, id string, amount decimal.Decimal, paidAt time.Time) error
}

// LeadStore persists business leads.
type LeadStore interface {
	CreateLeads(ctx context.Context, leads []*BusinessLead) error
	ListLeads(ctx context.Context) ([]*BusinessLead, error)
	UpdateLeadStatus(ctx context.Context, id, status string) error
}
