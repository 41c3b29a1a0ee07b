package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/amoylab/lokal/internal/apiserver/middleware"
	"github.com/amoylab/lokal/internal/history"
	"github.com/amoylab/lokal/internal/i18n"
)

// HistoryHandler serves the caller's prompt history
type HistoryHandler struct {
	store history.Store
}

func NewHistoryHandler(store history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List handles GET /api/history?type=
func (h *HistoryHandler) List(c *gin.Context) {
	id, _ := middleware.Identity(c)
	entries, err := h.store.List(c.Request.Context(), id.UserID, history.Type(c.Query("type")))
	if err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessHistory).WithPayload(entries).Send(c)
}

// Clear handles DELETE /api/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	id, _ := middleware.Identity(c)
	if err := h.store.Clear(c.Request.Context(), id.UserID); err != nil {
		respondError(c, err, nil, nil)
		return
	}
	i18n.Success(i18n.SuccessHistoryCleared).Send(c)
}
