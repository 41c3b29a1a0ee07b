package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/amoylab/lokal/internal/auth/jwt"
	"github.com/amoylab/lokal/internal/database"
	"github.com/amoylab/lokal/internal/profile"
)

// MinPasswordLength is the shortest password SignUp accepts
const MinPasswordLength = 6

const providerEmail = "email"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
	ErrInvalidState        = errors.New("invalid oauth state")
	ErrOAuthExchange       = errors.New("oauth exchange failed")
)

// Session is what a successful sign-in hands back to the client
type Session struct {
	Token     string           `json:"access_token"`
	TokenType string           `json:"token_type"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      profile.Identity `json:"user"`
}

// Service signs users up and in and resolves bearer tokens
type Service struct {
	accounts  database.AccountStore
	jwt       *jwt.Service
	providers map[string]ExternalOAuth
	logger    *zap.Logger
}

// NewService creates the authentication service. Providers without client
// credentials are left out.
func NewService(accounts database.AccountStore, jwtService *jwt.Service, providers []ExternalOAuth, logger *zap.Logger) *Service {
	s := &Service{
		accounts:  accounts,
		jwt:       jwtService,
		providers: make(map[string]ExternalOAuth, len(providers)),
		logger:    logger.Named("auth"),
	}
	for _, p := range providers {
		s.providers[p.Name()] = p
	}
	return s
}

// SignUp creates a password account and starts a session for it
func (s *Service) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &database.Account{Email: email, PasswordHash: string(hash), Provider: providerEmail}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("account created", zap.String("user_id", account.ID))
	return s.issue(account)
}

// SignIn checks the password of an existing account
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account.PasswordHash == "" {
		// oauth-only account
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(account)
}

// Session resolves a bearer token to the identity it was issued for
func (s *Service) Session(token string) (*profile.Identity, error) {
	claims, err := s.jwt.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	return &profile.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *Service) issue(account *database.Account) (*Session, error) {
	token, expiresAt, err := s.jwt.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      profile.Identity{UserID: account.ID, Email: account.Email},
	}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
