package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// Business is a merchant that owns deals
type Business struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Category   string    `json:"category" gorm:"type:varchar(32);index"`
	Type       string    `json:"type" gorm:"type:varchar(128)"`
	Address    string    `json:"address" gorm:"type:varchar(255)"`
	City       string    `json:"city" gorm:"type:varchar(128)"`
	Website    string    `json:"website" gorm:"type:varchar(512)"`
	ImageURL   string    `json:"imageUrl,omitempty" gorm:"column:image_url;type:varchar(1024)"`
	IsActive   bool      `json:"is_active" gorm:"not null"`
	OwnerEmail string    `json:"ownerEmail,omitempty" gorm:"column:owner_email;type:varchar(255)"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (b *Business) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// BusinessView is a business with its computed deal count
type BusinessView struct {
	Business
	DealCount int64 `json:"dealCount" gorm:"column:deal_count"`
}

// Deal is an offer belonging to exactly one business. Deleting a business
// that still has deals is rejected by the foreign key.
type Deal struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BusinessID  string    `json:"business_id" gorm:"column:business_id;type:varchar(36);not null;index"`
	Business    *Business `json:"-" gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Discount    string    `json:"discount" gorm:"type:varchar(64)"`
	Category    string    `json:"category" gorm:"type:varchar(32)"`
	Distance    string    `json:"distance" gorm:"type:varchar(64)"`
	Code        string    `json:"code" gorm:"type:varchar(64)"`
	Expiry      string    `json:"expiry" gorm:"type:varchar(64)"`
	Website     string    `json:"website" gorm:"type:varchar(512)"`
	IsActive    bool      `json:"is_active" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d *Deal) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

// DealView is a deal enriched with fields of its parent business
type DealView struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	BusinessName string    `json:"businessName"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Discount     string    `json:"discount"`
	Category     string    `json:"category"`
	Distance     string    `json:"distance"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Code         string    `json:"code"`
	Expiry       string    `json:"expiry"`
	Website      string    `json:"website"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile holds role and points for one authenticated user
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Email     string    `json:"email" gorm:"type:varchar(255);index"`
	Role      string    `json:"role" gorm:"type:varchar(16);not null"`
	Points    int       `json:"points" gorm:"not null"`
	FullName  string    `json:"full_name,omitempty" gorm:"column:full_name;type:varchar(255)"`
	AvatarURL string    `json:"avatar_url,omitempty" gorm:"column:avatar_url;type:varchar(1024)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Account is an authentication identity. PasswordHash is empty for OAuth-only accounts.
type Account struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	Provider     string    `json:"provider" gorm:"type:varchar(32)"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (a *Account) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// SavedDeal links a user to a deal they bookmarked
type SavedDeal struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_saved_user_deal"`
	DealID    string    `json:"deal_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_deal"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *SavedDeal) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Redemption is an append-only record of a user redeeming a deal
type Redemption struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);not null;index"`
	DealID    string    `json:"deal_id" gorm:"type:varchar(36);not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Redemption) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// BusinessLead is a prospective partner found by outreach tooling
type BusinessLead struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	Type          string    `json:"type" gorm:"type:varchar(128)"`
	Location      string    `json:"location" gorm:"type:varchar(255)"`
	City          string    `json:"city,omitempty" gorm:"type:varchar(128)"`
	ContactStatus string    `json:"contactStatus" gorm:"column:contact_status;type:varchar(16);not null"`
	CreatedAt     time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (l *BusinessLead) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// Contract fixes the commission a business owes per redemption
type Contract struct {
	ID                   string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BusinessID           string          `json:"business_id" gorm:"type:varchar(36);not null;index"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage" gorm:"type:decimal(5,2);not null"`
	Status               string          `json:"status" gorm:"type:varchar(16);not null;index"`
	StartDate            *time.Time      `json:"start_date,omitempty"`
	Notes                string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt            time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func (c *Contract) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// ContractContact is a person reachable about a contract
type ContractContact struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	Phone     string    `json:"phone" gorm:"type:varchar(64)"`
	Address   string    `json:"address" gorm:"type:varchar(255)"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *ContractContact) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// ContractAssignment links a contact to a contract under a role
type ContractAssignment struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ContractID string    `json:"contract_id" gorm:"type:varchar(36);not null;index"`
	ContactID  string    `json:"contact_id" gorm:"type:varchar(36);not null"`
	Role       string    `json:"role" gorm:"type:varchar(32);not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a *ContractAssignment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// ContractView is a contract with its owner contact, nil when the link is missing
type ContractView struct {
	Contract
	ContactInfo *ContractContact `json:"contact_info,omitempty"`
}

// ConsumerUsage is the commission ledger row written per redemption
type ConsumerUsage struct {
	ID                    string              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DealID                string              `json:"deal_id" gorm:"type:varchar(36);index"`
	BusinessID            string              `json:"business_id" gorm:"type:varchar(36);index"`
	UserID                string              `json:"user_id" gorm:"type:varchar(64);index"`
	DealSnapshot          string              `json:"deal_snapshot" gorm:"type:varchar(512)"`
	ConsumerEmail         string              `json:"consumer_email" gorm:"type:varchar(255)"`
	RedeemedAt            time.Time           `json:"redeemed_at" gorm:"index"`
	CommissionDue         decimal.Decimal     `json:"commission_due" gorm:"type:decimal(10,2);not null"`
	AmountReceived        decimal.NullDecimal `json:"amount_received" gorm:"type:decimal(10,2)"`
	DateCommissionWasPaid *time.Time          `json:"date_commission_was_paid"`
	CreatedAt             time.Time           `json:"createdAt"`
}

func (ConsumerUsage) TableName() string {
	return "consumer_usage_details"
}

func (u *ConsumerUsage) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// Models lists every table managed by AutoMigrate, parents first
func Models() []any {
	return []any{
		&Business{}, &Deal{}, &Profile{}, &Account{}, &SavedDeal{}, &Redemption{},
		&BusinessLead{}, &Contract{}, &ContractContact{}, &ContractAssignment{}, &ConsumerUsage{},
	}
}
