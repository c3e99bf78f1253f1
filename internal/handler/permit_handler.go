package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
	"github.com/noah-isme/siap-guru-api/pkg/response"
)

type permitService interface {
	Issue(ctx context.Context, req dto.IssuePermitRequest) (*dto.IssuePermitResult, error)
	Delete(ctx context.Context, id string) error
	History(teacherID string) []models.AttendanceRecord
}

// PermitHandler exposes leave and sick permits issued by administrators.
type PermitHandler struct {
	service permitService
}

// NewPermitHandler constructs the handler.
func NewPermitHandler(svc permitService) *PermitHandler {
	return &PermitHandler{service: svc}
}

// History godoc
// @Summary Permit history
// @Tags Permits
// @Produce json
// @Security BearerAuth
// @Param teacherId query string false "Only permits of this teacher"
// @Success 200 {object} response.Envelope
// @Router /permits [get]
func (h *PermitHandler) History(c *gin.Context) {
	records := h.service.History(strings.ToUpper(strings.TrimSpace(c.Query("teacherId"))))
	response.JSON(c, http.StatusOK, records, &models.Pagination{Page: 1, PageSize: len(records), TotalCount: len(records)})
}

// Issue godoc
// @Summary Issue a permit
// @Description Writes one admin-locked record per scheduled slot of the teacher on the date
// @Tags Permits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.IssuePermitRequest true "Permit"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /permits [post]
func (h *PermitHandler) Issue(c *gin.Context) {
	var req dto.IssuePermitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid permit payload"))
		return
	}
	res, err := h.service.Issue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Delete godoc
// @Summary Delete a permit record
// @Tags Permits
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /permits/{id} [delete]
func (h *PermitHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
