package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/internal/database"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	// ErrInvalidCategory is returned for categories outside food, retail and service
	ErrInvalidCategory = errors.New("invalid category")
	// ErrNameRequired is returned when a business or deal has no name or title
	ErrNameRequired = errors.New("name is required")
)

type (
	// BusinessInput describes a new business
	BusinessInput struct {
		Name       string `json:"name"`
		Category   string `json:"category"`
		Type       string `json:"type"`
		Address    string `json:"address"`
		City       string `json:"city"`
		Website    string `json:"website"`
		ImageURL   string `json:"imageUrl"`
		OwnerEmail string `json:"ownerEmail"`
	}

	// BusinessPatch holds optional business fields; nil fields are untouched
	BusinessPatch struct {
		Name     *string `json:"name"`
		Category *string `json:"category"`
		Type     *string `json:"type"`
		Address  *string `json:"address"`
		City     *string `json:"city"`
		Website  *string `json:"website"`
		ImageURL *string `json:"imageUrl"`
		IsActive *bool   `json:"is_active"`
	}

	// DealInput describes a new deal
	DealInput struct {
		BusinessID  string `json:"business_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Discount    string `json:"discount"`
		Category    string `json:"category"`
		Distance    string `json:"distance"`
		Code        string `json:"code"`
		Expiry      string `json:"expiry"`
		Website     string `json:"website"`
	}

	// DealPatch holds optional deal fields; nil fields are untouched
	DealPatch struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Discount    *string `json:"discount"`
		Code        *string `json:"code"`
		Expiry      *string `json:"expiry"`
		Website     *string `json:"website"`
		IsActive    *bool   `json:"is_active"`
	}
)

// Service manages businesses, deals and saved deals
type Service struct {
	db      database.Database
	cfg     *config.CatalogConfig
	logger  *zap.Logger
	newCode func() string
}

func NewService(db database.Database, cfg *config.CatalogConfig, logger *zap.Logger) (*Service, error) {
	gen, err := nanoid.CustomASCII(codeAlphabet, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to create code generator: %w", err)
	}
	return &Service{
		db:      db,
		cfg:     cfg,
		logger:  logger.Named("catalog"),
		newCode: gen,
	}, nil
}

// MockData reports whether demo data is shown to clients
func (s *Service) MockData() bool {
	return s.cfg.MockData
}

func (s *Service) GetBusinesses(ctx context.Context) ([]*database.BusinessView, error) {
	businesses, err := s.db.ListBusinesses(ctx, s.cfg.ExcludedBusinessIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	return businesses, nil
}

// AddBusiness inserts an active business. A database.ErrPermissionDenied in
// the chain means the store refused the write.
func (s *Service) AddBusiness(ctx context.Context, in BusinessInput) (*database.BusinessView, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if !cnst.Category(in.Category).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}

	b := &database.Business{
		Name:       strings.TrimSpace(in.Name),
		Category:   in.Category,
		Type:       in.Type,
		Address:    in.Address,
		City:       in.City,
		Website:    in.Website,
		ImageURL:   in.ImageURL,
		OwnerEmail: in.OwnerEmail,
		IsActive:   true,
	}
	if err := s.db.CreateBusiness(ctx, b); err != nil {
		if errors.Is(err, database.ErrPermissionDenied) {
			s.logger.Error("business insert rejected by database policy", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to create business: %w", err)
	}
	return &database.BusinessView{Business: *b}, nil
}

func (s *Service) UpdateBusiness(ctx context.Context, id string, patch BusinessPatch) error {
	fields := map[string]any{}
	setString(fields, "name", patch.Name)
	setString(fields, "type", patch.Type)
	setString(fields, "address", patch.Address)
	setString(fields, "city", patch.City)
	setString(fields, "website", patch.Website)
	setString(fields, "image_url", patch.ImageURL)
	if patch.Category != nil && *patch.Category != "" {
		if !cnst.Category(*patch.Category).Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, *patch.Category)
		}
		fields["category"] = *patch.Category
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if err := s.db.UpdateBusiness(ctx, id, fields); err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	return nil
}

// SoftDeleteBusiness flips the active flag without touching deals
func (s *Service) SoftDeleteBusiness(ctx context.Context, id string, active bool) error {
	return s.UpdateBusiness(ctx, id, BusinessPatch{IsActive: &active})
}

// DeleteBusiness removes the business. It fails with database.ErrHasDependents
// while deals still reference it.
func (s *Service) DeleteBusiness(ctx context.Context, id string) error {
	if err := s.db.DeleteBusiness(ctx, id); err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}
	return nil
}

// GetDeals returns active deals for the public feed
func (s *Service) GetDeals(ctx context.Context) ([]*database.DealView, error) {
	deals, err := s.db.ListActiveDeals(ctx, s.cfg.ExcludedBusinessIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	return withDefaults(deals, cnst.DefaultDealDistance), nil
}

func (s *Service) GetDealsByBusiness(ctx context.Context, businessID string) ([]*database.DealView, error) {
	deals, err := s.db.ListDealsByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals of business: %w", err)
	}
	return withDefaults(deals, cnst.DefaultDealDistance), nil
}

func (s *Service) AddDeal(ctx context.Context, in DealInput) (*database.DealView, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrNameRequired
	}
	if in.Category != "" && !cnst.Category(in.Category).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}

	business, err := s.db.GetBusiness(ctx, in.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load business: %w", err)
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		code = s.newCode()
	}
	d := &database.Deal{
		BusinessID:  business.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Discount:    in.Discount,
		Category:    in.Category,
		Distance:    in.Distance,
		Code:        code,
		Expiry:      in.Expiry,
		Website:     in.Website,
		IsActive:    true,
	}
	if err := s.db.CreateDeal(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	view := &database.DealView{
		ID:           d.ID,
		BusinessID:   d.BusinessID,
		BusinessName: business.Name,
		Title:        d.Title,
		Description:  d.Description,
		Discount:     d.Discount,
		Category:     d.Category,
		Distance:     d.Distance,
		ImageURL:     business.ImageURL,
		Code:         d.Code,
		Expiry:       d.Expiry,
		Website:      d.Website,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
	}
	if view.Category == "" {
		view.Category = business.Category
	}
	return withDefaults([]*database.DealView{view}, cnst.DefaultDealDistance)[0], nil
}

func (s *Service) UpdateDeal(ctx context.Context, id string, patch DealPatch) error {
	fields := map[string]any{}
	setString(fields, "title", patch.Title)
	setString(fields, "description", patch.Description)
	setString(fields, "discount", patch.Discount)
	setString(fields, "code", patch.Code)
	setString(fields, "expiry", patch.Expiry)
	setString(fields, "website", patch.Website)
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if err := s.db.UpdateDeal(ctx, id, fields); err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}
	return nil
}

func (s *Service) DeleteDeal(ctx context.Context, id string) error {
	if err := s.db.DeleteDeal(ctx, id); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	return nil
}

func (s *Service) GetSavedDeals(ctx context.Context, userID string) ([]*database.DealView, error) {
	deals, err := s.db.ListSavedDeals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved deals: %w", err)
	}
	return withDefaults(deals, cnst.SavedDealDistance), nil
}

func (s *Service) IsDealSaved(ctx context.Context, userID, dealID string) (bool, error) {
	return s.db.IsDealSaved(ctx, userID, dealID)
}

// ToggleSaveDeal flips whether the user saved the deal and returns the new state
func (s *Service) ToggleSaveDeal(ctx context.Context, userID, dealID string) (bool, error) {
	saved, err := s.db.IsDealSaved(ctx, userID, dealID)
	if err != nil {
		return false, fmt.Errorf("failed to check saved deal: %w", err)
	}
	if saved {
		if err := s.db.UnsaveDeal(ctx, userID, dealID); err != nil {
			return true, fmt.Errorf("failed to unsave deal: %w", err)
		}
		return false, nil
	}
	if err := s.db.SaveDeal(ctx, userID, dealID); err != nil {
		return false, fmt.Errorf("failed to save deal: %w", err)
	}
	return true, nil
}

// setString adds the column unless the patch value is absent or blank
func setString(fields map[string]any, column string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		fields[column] = *v
	}
}

func withDefaults(deals []*database.DealView, distance string) []*database.DealView {
	for _, d := range deals {
		if d.BusinessName == "" {
			d.BusinessName = cnst.DefaultBusinessName
		}
		if d.Distance == "" {
			d.Distance = distance
		}
	}
	return deals
}
