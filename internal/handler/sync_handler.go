package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/pkg/response"
)

type syncService interface {
	Status() dto.SyncStatus
	Refresh(ctx context.Context) (dto.SyncStatus, error)
}

// SyncHandler exposes record store synchronisation.
type SyncHandler struct {
	service syncService
}

// NewSyncHandler constructs the handler.
func NewSyncHandler(svc syncService) *SyncHandler {
	return &SyncHandler{service: svc}
}

// Status godoc
// @Summary Sync status
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Status(), nil)
}

// Refresh godoc
// @Summary Reload every table from the record store
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /sync/refresh [post]
func (h *SyncHandler) Refresh(c *gin.Context) {
	status, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
