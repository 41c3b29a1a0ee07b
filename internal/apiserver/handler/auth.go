package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/apiserver/middleware"
	"github.com/amoylab/lokal/internal/auth"
	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/internal/common/dto"
	"github.com/amoylab/lokal/internal/i18n"
)

// AuthHandler serves sign-up, sign-in and the OAuth redirect flow
type AuthHandler struct {
	auth   *auth.Service
	cfg    *config.OAuthConfig
	logger *zap.Logger
}

func NewAuthHandler(authService *auth.Service, cfg *config.OAuthConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		cfg:    cfg,
		logger: logger.Named("apiserver.handler.auth"),
	}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	sess, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Created(i18n.SuccessSignUp).WithPayload(sess).Send(c)
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	sess, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessSignIn).WithPayload(sess).Send(c)
}

// SignOut handles POST /api/auth/signout. Tokens are stateless, so the
// client drops its copy.
func (h *AuthHandler) SignOut(c *gin.Context) {
	i18n.Success(i18n.SuccessSignOut).Send(c)
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	id, _ := middleware.Identity(c)
	i18n.Success(i18n.SuccessSession).WithPayload(gin.H{"user": id}).Send(c)
}

// Providers handles GET /api/auth/providers
func (h *AuthHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.auth.Providers()})
}

// OAuthLogin handles GET /api/auth/oauth/:provider
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	provider := c.Param("provider")
	authURL, err := h.auth.AuthURL(provider)
	if err != nil {
		if errors.Is(err, auth.ErrUnsupportedProvider) {
			i18n.RespondWithError(c, i18n.ErrorOAuthProviderUnsupported.WithParam("Provider", provider))
			return
		}
		respondError(c, err, nil, nil)
		return
	}

	h.logger.Info("initiating OAuth login",
		zap.String("provider", provider),
		zap.String("remote_addr", c.ClientIP()))

	if c.Query("redirect") == "true" {
		c.Redirect(http.StatusFound, authURL)
		return
	}
	c.JSON(http.StatusOK, dto.OAuthURLResponse{Provider: provider, URL: authURL})
}

// OAuthCallback handles GET /api/auth/oauth/:provider/callback
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")
	sess, err := h.auth.Callback(c.Request.Context(), provider, c.Query("code"), c.Query("state"))
	if err != nil {
		h.logger.Warn("OAuth callback failed",
			zap.String("provider", provider),
			zap.String("remote_addr", c.ClientIP()),
			zap.Error(err))

		switch {
		case errors.Is(err, auth.ErrUnsupportedProvider):
			i18n.RespondWithError(c, i18n.ErrorOAuthProviderUnsupported.WithParam("Provider", provider))
		case errors.Is(err, auth.ErrOAuthExchange):
			i18n.RespondWithError(c, i18n.ErrorOAuthExchangeFailed.WithParam("Provider", provider))
		default:
			respondError(c, err, nil, nil)
		}
		return
	}

	if h.cfg.SuccessRedirect != "" {
		// token travels in the fragment so it never reaches server logs
		fragment := url.Values{}
		fragment.Set("access_token", sess.Token)
		fragment.Set("user_id", sess.User.UserID)
		c.Redirect(http.StatusTemporaryRedirect, h.cfg.SuccessRedirect+"#"+fragment.Encode())
		return
	}
	i18n.Success(i18n.SuccessSignIn).WithPayload(sess).Send(c)
}
