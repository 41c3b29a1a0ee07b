package database

import (
	"context"

	"gorm.io/gorm"
)

func (s *gormStore) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var profile Profile
	if err := getDBFromContext(ctx, s.db).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

func (s *gormStore) CreateProfile(ctx context.Context, profile *Profile) error {
	return translateError(getDBFromContext(ctx, s.db).Create(profile).Error)
}

func (s *gormStore) UpdateProfile(ctx context.Context, id string, fields map[string]any) error {
	return s.updateByID(ctx, &Profile{}, id, fields)
}

func (s *gormStore) AddPoints(ctx context.Context, id string, delta int) error {
	res := getDBFromContext(ctx, s.db).
		Model(&Profile{}).
		Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	if err := getDBFromContext(ctx, s.db).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

func (s *gormStore) CreateAccount(ctx context.Context, account *Account) error {
	return translateError(getDBFromContext(ctx, s.db).Create(account).Error)
}

func (s *gormStore) CreateRedemption(ctx context.Context, redemption *Redemption) error {
	return translateError(getDBFromContext(ctx, s.db).Create(redemption).Error)
}

func (s *gormStore) CountRedemptions(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := getDBFromContext(ctx, s.db).Model(&Redemption{}).Where("user_id = ?", userID).Count(&count).Error
	return count, translateError(err)
}
