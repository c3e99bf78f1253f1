package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/middleware"
	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/internal/service"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decodeEnvelope(body io.Reader) responseEnvelope {
	var env responseEnvelope
	_ = json.NewDecoder(body).Decode(&env)
	return env
}

func newTestContext(method, target, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

var (
	adminClaims    = &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin}
	teacherClaims  = &models.JWTClaims{UserID: "EM", Role: models.RoleTeacher}
	classRepClaims = &models.JWTClaims{UserID: "ketua-7a", Role: models.RoleClassRep, Class: "7A"}
)

type fakeAttendanceSrv struct {
	lastDate, lastClass string
	lastSubmit          dto.SubmitAttendanceRequest
	submitResult        *dto.SubmitAttendanceResult
	submitErr           error
	deleteResult        *dto.BulkResult
	deleteErr           error
}

func (f *fakeAttendanceSrv) Form(date, classID string) (*dto.AttendanceForm, error) {
	f.lastDate, f.lastClass = date, classID
	return &dto.AttendanceForm{Date: date, ClassID: classID, Blocks: []models.Block{}}, nil
}

func (f *fakeAttendanceSrv) Submit(_ context.Context, req dto.SubmitAttendanceRequest) (*dto.SubmitAttendanceResult, error) {
	f.lastSubmit = req
	return f.submitResult, f.submitErr
}

func (f *fakeAttendanceSrv) DeleteRecords(context.Context, dto.DeleteAttendanceRequest) (*dto.BulkResult, error) {
	return f.deleteResult, f.deleteErr
}

func (f *fakeAttendanceSrv) ClassDaySchedule(date, classID string) (*dto.MonitoringView, error) {
	f.lastDate, f.lastClass = date, classID
	return &dto.MonitoringView{Date: date, ClassID: classID, Rows: []dto.MonitoringRow{}}, nil
}

type fakeDashboardSrv struct {
	hit         bool
	err         error
	lastTeacher string
	lastClass   string
	lastQuery   dto.DashboardQuery
}

func (f *fakeDashboardSrv) Overview(_ context.Context, q dto.DashboardQuery) (*dto.AdminOverview, bool, error) {
	f.lastQuery = q
	return &dto.AdminOverview{OverallRate: 70}, f.hit, f.err
}

func (f *fakeDashboardSrv) ClassDetail(_ context.Context, classID string, q dto.DashboardQuery) (*dto.ClassDetail, bool, error) {
	f.lastClass, f.lastQuery = classID, q
	return &dto.ClassDetail{Class: models.ClassInfo{ID: classID}}, f.hit, f.err
}

func (f *fakeDashboardSrv) TeacherDetail(_ context.Context, teacherID string, q dto.DashboardQuery) (*dto.TeacherDetail, bool, error) {
	f.lastTeacher, f.lastQuery = teacherID, q
	return &dto.TeacherDetail{Teacher: models.Teacher{ID: teacherID}}, f.hit, f.err
}

func (f *fakeDashboardSrv) ClassRepView(_ context.Context, classID string, q dto.DashboardQuery) (*dto.ClassRepDashboard, bool, error) {
	f.lastClass, f.lastQuery = classID, q
	return &dto.ClassRepDashboard{Class: models.ClassInfo{ID: classID}}, f.hit, f.err
}

type fakePermitSrv struct {
	issued    dto.IssuePermitRequest
	result    *dto.IssuePermitResult
	err       error
	history   []models.AttendanceRecord
	historyOf string
}

func (f *fakePermitSrv) Issue(_ context.Context, req dto.IssuePermitRequest) (*dto.IssuePermitResult, error) {
	f.issued = req
	return f.result, f.err
}

func (f *fakePermitSrv) Delete(context.Context, string) error { return f.err }

func (f *fakePermitSrv) History(teacherID string) []models.AttendanceRecord {
	f.historyOf = teacherID
	return f.history
}

type fakeMasterDataSrv struct {
	teachers      []models.Teacher
	createErr     error
	restoreResult *dto.BulkResult
	restoreErr    error
}

func (f *fakeMasterDataSrv) Teachers() []models.Teacher { return f.teachers }
func (f *fakeMasterDataSrv) CreateTeacher(_ context.Context, req dto.TeacherRequest) (*models.Teacher, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Teacher{ID: strings.ToUpper(req.ID), Name: req.Name}, nil
}
func (f *fakeMasterDataSrv) UpdateTeacher(_ context.Context, id string, req dto.TeacherRequest) (*models.Teacher, error) {
	return &models.Teacher{ID: id, Name: req.Name}, nil
}
func (f *fakeMasterDataSrv) DeleteTeacher(context.Context, string) error { return nil }
func (f *fakeMasterDataSrv) Schedule() []models.ScheduleSlot          { return []models.ScheduleSlot{} }
func (f *fakeMasterDataSrv) UpsertSlot(_ context.Context, req dto.ScheduleSlotRequest) (*models.ScheduleSlot, error) {
	return &models.ScheduleSlot{Day: req.Day, Period: req.Period}, nil
}
func (f *fakeMasterDataSrv) Settings() models.AppSettings { return models.AppSettings{Semester: models.SemesterEven} }
func (f *fakeMasterDataSrv) UpdateSettings(_ context.Context, req dto.SettingsRequest) (*models.AppSettings, error) {
	return &models.AppSettings{AcademicYear: req.AcademicYear, Semester: req.Semester}, nil
}
func (f *fakeMasterDataSrv) Events() []models.CalendarEvent { return []models.CalendarEvent{} }
func (f *fakeMasterDataSrv) CreateEvent(_ context.Context, req dto.EventRequest) (*models.CalendarEvent, error) {
	return &models.CalendarEvent{ID: "ev-1", Date: req.Date, Name: req.Name, Kind: req.Kind}, nil
}
func (f *fakeMasterDataSrv) UpdateEvent(_ context.Context, id string, req dto.EventRequest) (*models.CalendarEvent, error) {
	return &models.CalendarEvent{ID: id, Date: req.Date, Name: req.Name, Kind: req.Kind}, nil
}
func (f *fakeMasterDataSrv) DeleteEvent(context.Context, string) error { return nil }
func (f *fakeMasterDataSrv) RestoreDefaults(context.Context) (*dto.BulkResult, error) {
	return f.restoreResult, f.restoreErr
}
func (f *fakeMasterDataSrv) Reference() dto.ReferenceData {
	return dto.ReferenceData{Periods: []string{"0", "1"}}
}

type fakeExportSrv struct {
	lastFormat string
	err        error
}

func (f *fakeExportSrv) AttendanceReport(_ context.Context, format string, q dto.DashboardQuery) (*service.ExportFile, error) {
	f.lastFormat = format
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportFile{Filename: "rekap-kehadiran-daily-2024-03-11." + format, ContentType: "text/csv", Payload: []byte("Kelas,Jumlah\n")}, nil
}

func (f *fakeExportSrv) Agenda(context.Context) (*service.ExportFile, error) {
	return &service.ExportFile{Filename: "agenda.ics", ContentType: "text/calendar; charset=utf-8", Payload: []byte("BEGIN:VCALENDAR")}, nil
}

type fakeSyncSrv struct {
	status dto.SyncStatus
	err    error
}

func (f *fakeSyncSrv) Status() dto.SyncStatus { return f.status }
func (f *fakeSyncSrv) Refresh(context.Context) (dto.SyncStatus, error) {
	return f.status, f.err
}

type fakeAuthSrv struct{}

func (fakeAuthSrv) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Password != "secret" {
		return nil, appErrors.ErrInvalidCredentials
	}
	return &dto.LoginResponse{AccessToken: "admin", User: models.User{ID: "admin", Role: models.RoleAdmin}}, nil
}

type fakeTokens map[string]*models.JWTClaims

func (f fakeTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

type storeFlag bool

func (s storeFlag) Configured() bool { return bool(s) }
