package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/apiserver/middleware"
	"github.com/amoylab/lokal/internal/i18n"
	"github.com/amoylab/lokal/internal/prefs"
)

const settingsKeepAlive = 30 * time.Second

// SettingsHandler serves the per-user UI settings
type SettingsHandler struct {
	store  prefs.Store
	logger *zap.Logger
}

func NewSettingsHandler(store prefs.Store, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{store: store, logger: logger.Named("apiserver.handler.settings")}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	id, _ := middleware.Identity(c)
	s, err := h.store.Get(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessSettings).WithPayload(s).Send(c)
}

// Set handles PUT /api/settings. Fields missing from the body keep their
// current value.
func (h *SettingsHandler) Set(c *gin.Context) {
	id, _ := middleware.Identity(c)
	current, err := h.store.Get(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	if err := c.ShouldBindJSON(&current); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	if err := h.store.Set(c.Request.Context(), id.UserID, current); err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessSettingsUpdated).WithPayload(current).Send(c)
}

// Stream handles GET /api/settings/stream as server-sent events. The current
// settings are sent first, then every change.
func (h *SettingsHandler) Stream(c *gin.Context) {
	id, _ := middleware.Identity(c)
	ctx := c.Request.Context()

	current, err := h.store.Get(ctx, id.UserID)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	updates, err := h.store.Subscribe(ctx, id.UserID)
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("settings", current)
	c.Writer.Flush()

	ticker := time.NewTicker(settingsKeepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case s, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("settings", s)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
	h.logger.Debug("settings stream closed", zap.String("user_id", id.UserID))
}
