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

type attendanceService interface {
	Form(date, classID string) (*dto.AttendanceForm, error)
	Submit(ctx context.Context, req dto.SubmitAttendanceRequest) (*dto.SubmitAttendanceResult, error)
	DeleteRecords(ctx context.Context, req dto.DeleteAttendanceRequest) (*dto.BulkResult, error)
	ClassDaySchedule(date, classID string) (*dto.MonitoringView, error)
}

// AttendanceHandler serves the class representative form and admin record maintenance.
type AttendanceHandler struct {
	service attendanceService
	today   func() string
}

// NewAttendanceHandler constructs the handler. today supplies the default date.
func NewAttendanceHandler(svc attendanceService, today func() string) *AttendanceHandler {
	return &AttendanceHandler{service: svc, today: today}
}

func (h *AttendanceHandler) date(c *gin.Context) string {
	if date := strings.TrimSpace(c.Query("date")); date != "" {
		return date
	}
	if h.today != nil {
		return h.today()
	}
	return ""
}

// Form godoc
// @Summary Derived attendance form
// @Description Groups the class timetable of the date into teaching blocks, applying calendar events and existing records
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Param classId query string false "Class ID. Class representatives default to their own class; empty yields an empty form for others"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/form [get]
func (h *AttendanceHandler) Form(c *gin.Context) {
	classID := strings.TrimSpace(c.Query("classId"))
	if claims := claimsFromContext(c); claims == nil || classID != "" || claims.Role == models.RoleClassRep {
		scoped, err := scopedClassID(c, classID)
		if err != nil {
			response.Error(c, err)
			return
		}
		classID = scoped
	}
	form, err := h.service.Form(h.date(c), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// Submit godoc
// @Summary Submit attendance blocks
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitAttendanceRequest true "Submission"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /attendance/submit [post]
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req dto.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	classID, err := scopedClassID(c, req.ClassID)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.ClassID = classID

	res, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Delete godoc
// @Summary Delete attendance records
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.DeleteAttendanceRequest true "Record ids"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /attendance [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	var req dto.DeleteAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid delete payload"))
		return
	}
	res, err := h.service.DeleteRecords(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Monitoring godoc
// @Summary Class day schedule with recorded outcomes
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Param classId query string false "Class ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/monitoring [get]
func (h *AttendanceHandler) Monitoring(c *gin.Context) {
	classID, err := scopedClassID(c, c.Query("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.ClassDaySchedule(h.date(c), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
