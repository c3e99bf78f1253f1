package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
	"github.com/noah-isme/siap-guru-api/pkg/response"
)

type masterDataService interface {
	Teachers() []models.Teacher
	CreateTeacher(ctx context.Context, req dto.TeacherRequest) (*models.Teacher, error)
	UpdateTeacher(ctx context.Context, id string, req dto.TeacherRequest) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
	Schedule() []models.ScheduleSlot
	UpsertSlot(ctx context.Context, req dto.ScheduleSlotRequest) (*models.ScheduleSlot, error)
	Settings() models.AppSettings
	UpdateSettings(ctx context.Context, req dto.SettingsRequest) (*models.AppSettings, error)
	Events() []models.CalendarEvent
	CreateEvent(ctx context.Context, req dto.EventRequest) (*models.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id string, req dto.EventRequest) (*models.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	RestoreDefaults(ctx context.Context) (*dto.BulkResult, error)
	Reference() dto.ReferenceData
}

// MasterDataHandler serves the roster, timetable, settings and agenda.
type MasterDataHandler struct {
	service masterDataService
}

// NewMasterDataHandler constructs the handler.
func NewMasterDataHandler(svc masterDataService) *MasterDataHandler {
	return &MasterDataHandler{service: svc}
}

func listMeta(n int) *models.Pagination {
	return &models.Pagination{Page: 1, PageSize: n, TotalCount: n}
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *MasterDataHandler) ListTeachers(c *gin.Context) {
	teachers := h.service.Teachers()
	response.JSON(c, http.StatusOK, teachers, listMeta(len(teachers)))
}

// CreateTeacher godoc
// @Summary Create teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.TeacherRequest true "Teacher"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teachers [post]
func (h *MasterDataHandler) CreateTeacher(c *gin.Context) {
	var req dto.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	teacher, err := h.service.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// UpdateTeacher godoc
// @Summary Update teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Param payload body dto.TeacherRequest true "Teacher"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *MasterDataHandler) UpdateTeacher(c *gin.Context) {
	var req dto.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	teacher, err := h.service.UpdateTeacher(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// DeleteTeacher godoc
// @Summary Delete teacher
// @Tags Teachers
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [delete]
func (h *MasterDataHandler) DeleteTeacher(c *gin.Context) {
	if err := h.service.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSchedule godoc
// @Summary Weekly timetable
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *MasterDataHandler) ListSchedule(c *gin.Context) {
	slots := h.service.Schedule()
	response.JSON(c, http.StatusOK, slots, listMeta(len(slots)))
}

// UpsertSlot godoc
// @Summary Replace one timetable row
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ScheduleSlotRequest true "Timetable row"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule [put]
func (h *MasterDataHandler) UpsertSlot(c *gin.Context) {
	var req dto.ScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	slot, err := h.service.UpsertSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// GetSettings godoc
// @Summary Academic settings
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *MasterDataHandler) GetSettings(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Settings(), nil)
}

// UpdateSettings godoc
// @Summary Update academic year and semester
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SettingsRequest true "Settings"
// @Success 200 {object} response.Envelope
// @Router /settings [put]
func (h *MasterDataHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid settings payload"))
		return
	}
	settings, err := h.service.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// ListEvents godoc
// @Summary School agenda
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *MasterDataHandler) ListEvents(c *gin.Context) {
	events := h.service.Events()
	response.JSON(c, http.StatusOK, events, listMeta(len(events)))
}

// CreateEvent godoc
// @Summary Create calendar event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EventRequest true "Event"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events [post]
func (h *MasterDataHandler) CreateEvent(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	ev, err := h.service.CreateEvent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ev)
}

// UpdateEvent godoc
// @Summary Update calendar event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body dto.EventRequest true "Event"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id} [put]
func (h *MasterDataHandler) UpdateEvent(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	ev, err := h.service.UpdateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ev, nil)
}

// DeleteEvent godoc
// @Summary Delete calendar event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *MasterDataHandler) DeleteEvent(c *gin.Context) {
	if err := h.service.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RestoreDefaults godoc
// @Summary Restore seed teachers, timetable and settings
// @Description Writes every seed row one at a time. Failed rows are listed in error.details and nothing is rolled back
// @Tags Master Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /master-data/restore [post]
func (h *MasterDataHandler) RestoreDefaults(c *gin.Context) {
	res, err := h.service.RestoreDefaults(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Reference godoc
// @Summary Static lookups
// @Description Classes, periods, note choices, subject names and the months of the active semester
// @Tags Master Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference [get]
func (h *MasterDataHandler) Reference(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Reference(), nil)
}
