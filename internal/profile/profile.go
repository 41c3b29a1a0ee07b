package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/amoylab/lokal/internal/database"
	"github.com/amoylab/lokal/pkg/metrics"
)

// Identity is the authenticated user as the core sees it
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// Patch holds optional profile fields; nil fields are left untouched
type Patch struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// AdminChecker decides whether an email is bootstrapped as admin
type AdminChecker interface {
	IsSuperAdmin(email string) bool
}

// Resolver resolves the profile of an authenticated user, creating it on
// first access.
type Resolver struct {
	db      database.ProfileStore
	admins  AdminChecker
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewResolver(db database.ProfileStore, admins AdminChecker, logger *zap.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		db:      db,
		admins:  admins,
		logger:  logger.Named("profile"),
		metrics: m,
	}
}

// GetUserProfile returns the stored profile or creates it. When the insert
// fails the constructed profile is still returned and may not match the store.
func (r *Resolver) GetUserProfile(ctx context.Context, id Identity) (*database.Profile, error) {
	if id.UserID == "" {
		return nil, errors.New("empty user id")
	}

	p, err := r.db.GetProfile(ctx, id.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p = &database.Profile{
		ID:     id.UserID,
		Email:  strings.TrimSpace(id.Email),
		Role:   string(cnst.RoleConsumer),
		Points: cnst.StarterPoints,
	}
	if r.admins != nil && r.admins.IsSuperAdmin(id.Email) {
		p.Role = string(cnst.RoleAdmin)
		p.Points = cnst.SuperAdminStarterPoints
	}

	if err := r.db.CreateProfile(ctx, p); err != nil {
		r.logger.Warn("failed to persist new profile, returning unsaved profile",
			zap.String("user_id", id.UserID),
			zap.Error(err))
		r.metrics.ProfileCreated(p.Role, false)
		return p, nil
	}
	r.logger.Info("created profile", zap.String("user_id", id.UserID), zap.String("role", p.Role))
	r.metrics.ProfileCreated(p.Role, true)
	return p, nil
}

// UpdateUserProfile writes the non-nil fields of patch
func (r *Resolver) UpdateUserProfile(ctx context.Context, userID string, patch Patch) error {
	fields := map[string]any{}
	if patch.FullName != nil {
		fields["full_name"] = *patch.FullName
	}
	if patch.AvatarURL != nil {
		fields["avatar_url"] = *patch.AvatarURL
	}
	if err := r.db.UpdateProfile(ctx, userID, fields); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// IsAdmin reports whether the identity resolves to an admin profile
func (r *Resolver) IsAdmin(ctx context.Context, id Identity) (bool, error) {
	p, err := r.GetUserProfile(ctx, id)
	if err != nil {
		return false, err
	}
	return p.Role == string(cnst.RoleAdmin), nil
}
