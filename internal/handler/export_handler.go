package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/service"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
	"github.com/noah-isme/siap-guru-api/pkg/response"
)

type exportService interface {
	AttendanceReport(ctx context.Context, format string, q dto.DashboardQuery) (*service.ExportFile, error)
	Agenda(ctx context.Context) (*service.ExportFile, error)
}

// ExportHandler streams generated reports.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Attendance godoc
// @Summary Download the attendance recap
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Param filter query string false "DAILY, WEEKLY, MONTHLY or SEMESTER"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param month query string false "Month 01-12 for MONTHLY"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/attendance [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	var q dto.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	file, err := h.service.AttendanceReport(c.Request.Context(), c.DefaultQuery("format", "csv"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// Agenda godoc
// @Summary School agenda as iCalendar
// @Tags Exports
// @Produce text/calendar
// @Success 200 {file} file
// @Router /exports/agenda.ics [get]
func (h *ExportHandler) Agenda(c *gin.Context) {
	file, err := h.service.Agenda(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
