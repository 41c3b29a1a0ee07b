package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/amoylab/lokal/internal/i18n"
	"github.com/amoylab/lokal/internal/profile"
)

// SessionResolver turns a bearer token into the identity it was issued for
type SessionResolver interface {
	Session(token string) (*profile.Identity, error)
}

// AdminResolver decides whether an identity has the admin role
type AdminResolver interface {
	IsAdmin(ctx context.Context, id profile.Identity) (bool, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token and stores
// the identity on the context.
func JWTAuthMiddleware(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			i18n.RespondWithError(c, i18n.ErrUnauthorized)
			return
		}

		id, err := sessions.Session(token)
		if err != nil {
			i18n.RespondWithError(c, i18n.ErrUnauthorized)
			return
		}

		c.Set(cnst.CtxIdentity, *id)
		c.Next()
	}
}

// RequireAdmin must run after JWTAuthMiddleware
func RequireAdmin(admins AdminResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := Identity(c)
		if !ok {
			i18n.RespondWithError(c, i18n.ErrUnauthorized)
			return
		}

		isAdmin, err := admins.IsAdmin(c.Request.Context(), id)
		if err != nil {
			i18n.RespondWithError(c, err)
			return
		}
		if !isAdmin {
			i18n.RespondWithError(c, i18n.ErrorAdminRequired)
			return
		}
		c.Next()
	}
}

// Identity returns the authenticated identity of the request
func Identity(c *gin.Context) (profile.Identity, bool) {
	v, ok := c.Get(cnst.CtxIdentity)
	if !ok {
		return profile.Identity{}, false
	}
	id, ok := v.(profile.Identity)
	return id, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
		return parts[1], true
	}
	// EventSource cannot set headers
	if token := c.Query("access_token"); token != "" {
		return token, true
	}
	return "", false
}
