package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/amoylab/lokal/internal/apiserver/middleware"
	"github.com/amoylab/lokal/internal/i18n"
	"github.com/amoylab/lokal/internal/profile"
)

// ProfileHandler serves the caller's own profile
type ProfileHandler struct {
	profiles *profile.Resolver
}

func NewProfileHandler(profiles *profile.Resolver) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, _ := middleware.Identity(c)
	p, err := h.profiles.GetUserProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessProfile).WithPayload(p).Send(c)
}

// UpdateProfile handles PATCH /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var patch profile.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	id, _ := middleware.Identity(c)
	if err := h.profiles.UpdateUserProfile(c.Request.Context(), id.UserID, patch); err != nil {
		respondError(c, err, nil, i18n.ErrorProfileUpdateFailed)
		return
	}
	i18n.Success(i18n.SuccessProfileUpdated).WithPayload(gin.H{"success": true}).Send(c)
}
