package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/masterdata"
	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/pkg/recordstore"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

// PermitInput is everything ExpandPermit needs.
type PermitInput struct {
	TeacherID   string
	Date        string
	Scope       dto.PermitScope
	Periods     []string
	Status      models.AttendanceStatus
	Note        string
	Schedule    []models.ScheduleSlot
	Teachers    []models.Teacher
	Classes     []models.ClassInfo
	SubjectName func(code string) string
}

// ExpandPermit emits one admin-authored record for every lesson the teacher has on the date's
// weekday, optionally limited to the selected periods. Records use the same derived id as class
// submissions, so a permit replaces whatever was recorded for that slot.
func ExpandPermit(in PermitInput) ([]models.AttendanceRecord, error) {
	if strings.TrimSpace(in.TeacherID) == "" || strings.TrimSpace(in.Date) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher and date are required")
	}
	if in.Scope == dto.PermitScopeSpecificHours && len(in.Periods) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "select at least one period")
	}
	day, err := DayName(in.Date)
	if err != nil {
		return nil, err
	}

	subjectName := in.SubjectName
	if subjectName == nil {
		subjectName = masterdata.SubjectName
	}
	selected := make(map[string]struct{}, len(in.Periods))
	for _, p := range in.Periods {
		selected[p] = struct{}{}
	}
	teacherName := nameOr(teacherNames(in.Teachers), in.TeacherID)

	var slots []models.ScheduleSlot
	for _, slot := range in.Schedule {
		if slot.Day != day || !slot.IsTeaching() {
			continue
		}
		if in.Scope == dto.PermitScopeSpecificHours {
			if _, ok := selected[slot.Period]; !ok {
				continue
			}
		}
		slots = append(slots, slot)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return models.ComparePeriods(slots[i].Period, slots[j].Period) < 0
	})

	var records []models.AttendanceRecord
	for _, slot := range slots {
		for _, class := range in.Classes {
			code, teacherID, ok := slot.Assignment(class.ID)
			if !ok || teacherID != in.TeacherID {
				continue
			}
			records = append(records, models.AttendanceRecord{
				ID:            models.RecordID(in.Date, class.ID, slot.Period),
				TeacherID:     in.TeacherID,
				TeacherName:   teacherName,
				Subject:       subjectName(code),
				ClassID:       class.ID,
				Date:          in.Date,
				Period:        slot.Period,
				Status:        in.Status,
				Note:          in.Note,
				AdminAuthored: true,
			})
		}
	}
	if len(records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoScheduledSlots, "teacher has no lessons in the selected periods on "+day)
	}
	return records, nil
}

type permitWriter interface {
	SaveAttendance(ctx context.Context, rec models.AttendanceRecord) error
	DeleteAttendance(ctx context.Context, id string) error
}

// PermitService issues and revokes administrator permits.
type PermitService struct {
	sync      *SyncService
	repo      permitWriter
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPermitService constructs a PermitService.
func NewPermitService(sync *SyncService, repo permitWriter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PermitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermitService{sync: sync, repo: repo, metrics: metrics, validator: validate, logger: logger}
}

// Issue expands and stores a permit. Records that were written stay written even when later
// ones fail; the result lists both.
func (s *PermitService) Issue(ctx context.Context, req dto.IssuePermitRequest) (*dto.IssuePermitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid permit payload")
	}
	if req.Scope == "" {
		req.Scope = dto.PermitScopeFullDay
	}
	if req.Scope != dto.PermitScopeFullDay && req.Scope != dto.PermitScopeSpecificHours {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scope must be FULL_DAY or SPECIFIC_HOURS")
	}
	if req.Status != models.AttendanceStatusLeave && req.Status != models.AttendanceStatusSick {
		return nil, appErrors.Clone(appErrors.ErrValidation, "permit status must be Izin or Sakit")
	}
	if !s.sync.Configured() {
		return nil, appErrors.ErrStoreNotConfigured
	}

	snap := s.sync.Snapshot()
	if _, ok := snap.TeacherByID(req.TeacherID); !ok && req.TeacherID != "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	records, err := ExpandPermit(PermitInput{
		TeacherID: req.TeacherID,
		Date:      req.Date,
		Scope:     req.Scope,
		Periods:   req.Periods,
		Status:    req.Status,
		Note:      strings.TrimSpace(req.Note),
		Schedule:  snap.Schedule,
		Teachers:  snap.Teachers,
		Classes:   masterdata.Classes(),
	})
	if err != nil {
		return nil, err
	}

	ops := make([]writeOp, len(records))
	for i := range records {
		rec := records[i]
		ops[i] = writeOp{id: rec.ID, table: recordstore.TableAttendance, run: func(ctx context.Context) error {
			return s.repo.SaveAttendance(ctx, rec)
		}}
	}
	result, done := runSequential(ctx, s.logger, "issue_permit", ops)
	s.metrics.AddBulkFailures("issue_permit", len(result.Failed))

	written := make([]models.AttendanceRecord, 0, len(records))
	for i, ok := range done {
		if ok {
			written = append(written, records[i])
		}
	}
	if len(written) > 0 {
		s.sync.Commit(ctx, func(st *AppState) *AppState { return st.WithAttendanceUpserted(written...) })
	}
	s.logger.Info("permit issued",
		zap.String("teacher_id", req.TeacherID),
		zap.String("date", req.Date),
		zap.String("status", string(req.Status)),
		zap.Int("records", len(written)),
	)
	return &dto.IssuePermitResult{Records: written, BulkResult: result}, partialFailure("issue permit", result)
}

// Delete removes one admin-authored record.
func (s *PermitService) Delete(ctx context.Context, id string) error {
	rec, ok := s.sync.Snapshot().RecordByID(id)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "permit not found")
	}
	if !rec.AdminAuthored {
		return appErrors.Clone(appErrors.ErrForbidden, "only administrator permits can be removed here")
	}
	if err := s.repo.DeleteAttendance(ctx, id); err != nil {
		return err
	}
	s.sync.Commit(ctx, func(st *AppState) *AppState { return st.WithAttendanceRemoved(id) })
	return nil
}

// History lists admin-authored records, newest date first. Records on the same date keep their
// stored order. An empty teacherID lists every teacher.
func (s *PermitService) History(teacherID string) []models.AttendanceRecord {
	var out []models.AttendanceRecord
	for _, rec := range s.sync.Snapshot().Attendance {
		if !rec.AdminAuthored {
			continue
		}
		if teacherID != "" && rec.TeacherID != teacherID {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if out == nil {
		out = []models.AttendanceRecord{}
	}
	return out
}
