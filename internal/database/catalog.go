package database

import (
	"context"

	"gorm.io/gorm"
)

const dealViewColumns = `deals.id, deals.business_id, deals.title, deals.description, deals.discount,
	COALESCE(NULLIF(deals.category, ''), businesses.category, '') AS category,
	COALESCE(deals.distance, '') AS distance,
	deals.code, deals.expiry, deals.website, deals.is_active, deals.created_at,
	COALESCE(businesses.name, '') AS business_name,
	COALESCE(businesses.image_url, '') AS image_url`

func (s *gormStore) dealViews(ctx context.Context) *gorm.DB {
	return getDBFromContext(ctx, s.db).
		Table("deals").
		Select(dealViewColumns).
		Joins("LEFT JOIN businesses ON businesses.id = deals.business_id")
}

// updateByID applies a column patch to one row, reporting ErrNotFound when
// the row does not exist.
func (s *gormStore) updateByID(ctx context.Context, model any, id string, fields map[string]any) error {
	db := getDBFromContext(ctx, s.db)
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return translateError(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	if len(fields) == 0 {
		return nil
	}
	return translateError(db.Model(model).Where("id = ?", id).Updates(fields).Error)
}

func (s *gormStore) deleteByID(ctx context.Context, model any, id string) error {
	res := getDBFromContext(ctx, s.db).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListBusinesses(ctx context.Context, excludeIDs []string) ([]*BusinessView, error) {
	q := getDBFromContext(ctx, s.db).
		Model(&Business{}).
		Select("businesses.*, (SELECT COUNT(*) FROM deals WHERE deals.business_id = businesses.id) AS deal_count")
	if len(excludeIDs) > 0 {
		q = q.Where("businesses.id NOT IN ?", excludeIDs)
	}

	var businesses []*BusinessView
	err := q.Order("businesses.created_at DESC").Scan(&businesses).Error
	return businesses, translateError(err)
}

func (s *gormStore) GetBusiness(ctx context.Context, id string) (*Business, error) {
	var business Business
	if err := getDBFromContext(ctx, s.db).Where("id = ?", id).First(&business).Error; err != nil {
		return nil, translateError(err)
	}
	return &business, nil
}

func (s *gormStore) CreateBusiness(ctx context.Context, business *Business) error {
	return translateError(getDBFromContext(ctx, s.db).Create(business).Error)
}

func (s *gormStore) UpdateBusiness(ctx context.Context, id string, fields map[string]any) error {
	return s.updateByID(ctx, &Business{}, id, fields)
}

func (s *gormStore) DeleteBusiness(ctx context.Context, id string) error {
	return s.deleteByID(ctx, &Business{}, id)
}

func (s *gormStore) ListActiveDeals(ctx context.Context, excludeBusinessIDs []string) ([]*DealView, error) {
	q := s.dealViews(ctx).Where("deals.is_active = ?", true)
	if len(excludeBusinessIDs) > 0 {
		q = q.Where("deals.business_id NOT IN ?", excludeBusinessIDs)
	}

	var deals []*DealView
	err := q.Order("deals.created_at DESC").Scan(&deals).Error
	return deals, translateError(err)
}

func (s *gormStore) ListDealsByBusiness(ctx context.Context, businessID string) ([]*DealView, error) {
	var deals []*DealView
	err := s.dealViews(ctx).
		Where("deals.business_id = ?", businessID).
		Order("deals.created_at DESC").
		Scan(&deals).Error
	return deals, translateError(err)
}

func (s *gormStore) GetDeal(ctx context.Context, id string) (*Deal, error) {
	var deal Deal
	if err := getDBFromContext(ctx, s.db).Where("id = ?", id).First(&deal).Error; err != nil {
		return nil, translateError(err)
	}
	return &deal, nil
}

func (s *gormStore) CreateDeal(ctx context.Context, deal *Deal) error {
	return translateError(getDBFromContext(ctx, s.db).Omit("Business").Create(deal).Error)
}

func (s *gormStore) UpdateDeal(ctx context.Context, id string, fields map[string]any) error {
	return s.updateByID(ctx, &Deal{}, id, fields)
}

func (s *gormStore) DeleteDeal(ctx context.Context, id string) error {
	return s.deleteByID(ctx, &Deal{}, id)
}

func (s *gormStore) ListSavedDeals(ctx context.Context, userID string) ([]*DealView, error) {
	var deals []*DealView
	err := s.dealViews(ctx).
		Joins("JOIN saved_deals ON saved_deals.deal_id = deals.id").
		Where("saved_deals.user_id = ?", userID).
		Order("saved_deals.created_at DESC").
		Scan(&deals).Error
	return deals, translateError(err)
}

func (s *gormStore) IsDealSaved(ctx context.Context, userID, dealID string) (bool, error) {
	var count int64
	err := getDBFromContext(ctx, s.db).
		Model(&SavedDeal{}).
		Where("user_id = ? AND deal_id = ?", userID, dealID).
		Count(&count).Error
	return count > 0, translateError(err)
}

func (s *gormStore) SaveDeal(ctx context.Context, userID, dealID string) error {
	return translateError(getDBFromContext(ctx, s.db).Create(&SavedDeal{UserID: userID, DealID: dealID}).Error)
}

func (s *gormStore) UnsaveDeal(ctx context.Context, userID, dealID string) error {
	return translateError(getDBFromContext(ctx, s.db).
		Where("user_id = ? AND deal_id = ?", userID, dealID).
		Delete(&SavedDeal{}).Error)
}
