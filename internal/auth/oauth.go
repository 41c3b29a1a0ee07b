package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/internal/database"
)

const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"

	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,email,picture"
)

// ExternalOAuth is one redirect-flow identity provider
type ExternalOAuth interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, token *oauth2.Token) (*ExternalUserInfo, error)
}

// ExternalUserInfo represents user information from external OAuth providers
type ExternalUserInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// provider implements ExternalOAuth on top of an oauth2.Config
type provider struct {
	name        string
	conf        *oauth2.Config
	userInfoURL string
}

var _ ExternalOAuth = (*provider)(nil)

func newProvider(name string, cfg config.OAuthProviderConfig, endpoint oauth2.Endpoint, userInfoURL string, defaultScopes []string) *provider {
	scopes := []string(cfg.Scopes)
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	return &provider{
		name: name,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

// NewProviders builds the providers that have client credentials configured
func NewProviders(cfg config.OAuthConfig) []ExternalOAuth {
	var out []ExternalOAuth
	if cfg.Google.Enabled() {
		out = append(out, newProvider(ProviderGoogle, cfg.Google, google.Endpoint, googleUserInfoURL,
			[]string{"openid", "email", "profile"}))
	}
	if cfg.Facebook.Enabled() {
		out = append(out, newProvider(ProviderFacebook, cfg.Facebook, facebook.Endpoint, facebookUserInfoURL,
			[]string{"email", "public_profile"}))
	}
	return out
}

func (p *provider) Name() string {
	return p.name
}

func (p *provider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.conf.Exchange(ctx, code)
}

func (p *provider) UserInfo(ctx context.Context, token *oauth2.Token) (*ExternalUserInfo, error) {
	resp, err := p.conf.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s user info: %w", p.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s user info returned status %d", p.name, resp.StatusCode)
	}

	var info ExternalUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode %s user info: %w", p.name, err)
	}
	info.Provider = p.name
	return &info, nil
}

// Providers lists the enabled provider names
func (s *Service) Providers() []string {
	out := make([]string, 0, len(s.providers))
	for _, name := range []string{ProviderGoogle, ProviderFacebook} {
		if _, ok := s.providers[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// AuthURL returns the consent page URL carrying a signed state
func (s *Service) AuthURL(providerName string) (string, error) {
	p, ok := s.providers[providerName]
	if !ok {
		return "", ErrUnsupportedProvider
	}
	state, err := s.jwt.GenerateState(providerName, uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}
	return p.AuthURL(state), nil
}

// Callback completes the redirect flow: it checks the state, exchanges the
// code, fetches the user info and upserts the account.
func (s *Service) Callback(ctx context.Context, providerName, code, state string) (*Session, error) {
	p, ok := s.providers[providerName]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	if code == "" || s.jwt.ValidateState(state, providerName) != nil {
		return nil, ErrInvalidState
	}

	token, err := p.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("oauth code exchange failed", zap.String("provider", providerName), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}
	info, err := p.UserInfo(ctx, token)
	if err != nil {
		s.logger.Warn("oauth user info failed", zap.String("provider", providerName), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}

	email, err := normalizeEmail(info.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: provider returned no usable email", ErrOAuthExchange)
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	switch {
	case errors.Is(err, database.ErrNotFound):
		account = &database.Account{Email: email, Provider: providerName}
		if err := s.accounts.CreateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		s.logger.Info("account created from oauth",
			zap.String("provider", providerName), zap.String("user_id", account.ID))
	case err != nil:
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return s.issue(account)
}
