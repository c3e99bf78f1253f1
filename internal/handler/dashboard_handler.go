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

type dashboardService interface {
	Overview(ctx context.Context, q dto.DashboardQuery) (*dto.AdminOverview, bool, error)
	ClassDetail(ctx context.Context, classID string, q dto.DashboardQuery) (*dto.ClassDetail, bool, error)
	TeacherDetail(ctx context.Context, teacherID string, q dto.DashboardQuery) (*dto.TeacherDetail, bool, error)
	ClassRepView(ctx context.Context, classID string, q dto.DashboardQuery) (*dto.ClassRepDashboard, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func bindDashboardQuery(c *gin.Context) (dto.DashboardQuery, error) {
	var q dto.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dashboard query")
	}
	return q, nil
}

// Overview godoc
// @Summary Administrator overview
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param filter query string false "DAILY, WEEKLY, MONTHLY or SEMESTER"
// @Param date query string false "Reference date (YYYY-MM-DD). Defaults to today"
// @Param month query string false "Month 01-12 for MONTHLY"
// @Success 200 {object} response.Envelope
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	q, err := bindDashboardQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, hit, err := h.service.Overview(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil, withMeta(c, hit))
}

// Class godoc
// @Summary Class deep dive
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param classId path string true "Class ID"
// @Param filter query string false "DAILY, WEEKLY, MONTHLY or SEMESTER"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param month query string false "Month 01-12 for MONTHLY"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/classes/{classId} [get]
func (h *DashboardHandler) Class(c *gin.Context) {
	q, err := bindDashboardQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, hit, err := h.service.ClassDetail(c.Request.Context(), strings.ToUpper(c.Param("classId")), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil, withMeta(c, hit))
}

// Teacher godoc
// @Summary Teacher deep dive
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param teacherId path string true "Teacher ID"
// @Param filter query string false "DAILY, WEEKLY, MONTHLY or SEMESTER"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param month query string false "Month 01-12 for MONTHLY"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/teachers/{teacherId} [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	q, err := bindDashboardQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, hit, err := h.service.TeacherDetail(c.Request.Context(), c.Param("teacherId"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil, withMeta(c, hit))
}

// Me godoc
// @Summary Dashboard of the signed-in teacher or class representative
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param filter query string false "DAILY, WEEKLY, MONTHLY or SEMESTER"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param month query string false "Month 01-12 for MONTHLY"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard/me [get]
func (h *DashboardHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	q, err := bindDashboardQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var (
		out interface{}
		hit bool
	)
	switch claims.Role {
	case models.RoleTeacher:
		out, hit, err = h.service.TeacherDetail(c.Request.Context(), claims.UserID, q)
	case models.RoleClassRep:
		out, hit, err = h.service.ClassRepView(c.Request.Context(), claims.Class, q)
	default:
		err = appErrors.Clone(appErrors.ErrForbidden, "administrators use the overview dashboard")
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil, withMeta(c, hit))
}
