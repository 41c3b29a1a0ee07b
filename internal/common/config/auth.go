package config

import (
	"strings"
	"time"
)

type (
	// AuthConfig defines the authentication configuration
	AuthConfig struct {
		JWT         JWTConfig   `yaml:"jwt"`
		SuperAdmins StringList  `yaml:"super_admins"` // emails bootstrapped as admin on first profile fetch
		OAuth       OAuthConfig `yaml:"oauth"`
	}

	// JWTConfig configures session tokens
	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// OAuthConfig holds the redirect-flow providers
	OAuthConfig struct {
		// SuccessRedirect is where the browser lands after a callback, the
		// token is appended as a fragment.
		SuccessRedirect string              `yaml:"success_redirect"`
		Google          OAuthProviderConfig `yaml:"google"`
		Facebook        OAuthProviderConfig `yaml:"facebook"`
	}

	// OAuthProviderConfig configures one OAuth2 client
	OAuthProviderConfig struct {
		ClientID     string     `yaml:"client_id"`
		ClientSecret string     `yaml:"client_secret"`
		RedirectURL  string     `yaml:"redirect_url"`
		Scopes       StringList `yaml:"scopes"`
	}
)

// Enabled reports whether the provider has client credentials
func (c OAuthProviderConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// IsSuperAdmin reports whether the email is on the super-admin allow-list
func (c *AuthConfig) IsSuperAdmin(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, admin := range c.SuperAdmins {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}
