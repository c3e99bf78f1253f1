package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/masterdata"
	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/pkg/recordstore"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

type attendanceWriter interface {
	SaveAttendance(ctx context.Context, rec models.AttendanceRecord) error
	DeleteAttendance(ctx context.Context, id string) error
}

// AttendanceService serves the class representative form and its submission.
type AttendanceService struct {
	sync      *SyncService
	repo      attendanceWriter
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(sync *SyncService, repo attendanceWriter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		sync:      sync,
		repo:      repo,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

func (s *AttendanceService) derive(snap *AppState, date, classID string) (Derivation, error) {
	return DeriveBlocks(DerivationInput{
		Date:     date,
		ClassID:  classID,
		Schedule: snap.Schedule,
		Events:   snap.Settings.Events,
		Records:  snap.Attendance,
		Teachers: snap.Teachers,
	})
}

// Form derives the editable blocks for a class on a date.
func (s *AttendanceService) Form(date, classID string) (*dto.AttendanceForm, error) {
	if classID != "" {
		if _, ok := masterdata.ClassByID(classID); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
	}
	d, err := s.derive(s.sync.Snapshot(), date, classID)
	if err != nil {
		return nil, err
	}
	return &dto.AttendanceForm{
		Date:    d.Date,
		Day:     d.Day,
		ClassID: d.ClassID,
		Locked:  d.Locked,
		Events:  d.Events,
		Blocks:  d.Blocks,
	}, nil
}

func (s *AttendanceService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *AttendanceService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// Submit stores the outcomes chosen for a class day. The canonical blocks are re-derived from the
// current state; the client only chooses status and note for blocks that are not admin-locked.
func (s *AttendanceService) Submit(ctx context.Context, req dto.SubmitAttendanceRequest) (*dto.SubmitAttendanceResult, error) {
	if len(req.Blocks) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to submit")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if _, ok := masterdata.ClassByID(req.ClassID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	if !s.sync.Configured() {
		return nil, appErrors.ErrStoreNotConfigured
	}

	key := req.Date + "|" + req.ClassID
	if !s.acquire(key) {
		return nil, appErrors.ErrSubmissionInFlight
	}
	defer s.release(key)

	d, err := s.derive(s.sync.Snapshot(), req.Date, req.ClassID)
	if err != nil {
		return nil, err
	}
	if d.Locked {
		return nil, appErrors.ErrDateLocked
	}
	if len(d.Blocks) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoScheduledSlots, "class has no lessons on this date")
	}

	blocks, err := overlaySubmission(d.Blocks, req.Blocks)
	if err != nil {
		return nil, err
	}
	records := UngroupBlocks(blocks, req.Date, req.ClassID)

	ops := make([]writeOp, len(records))
	for i := range records {
		rec := records[i]
		ops[i] = writeOp{id: rec.ID, table: recordstore.TableAttendance, run: func(ctx context.Context) error {
			return s.repo.SaveAttendance(ctx, rec)
		}}
	}
	result, done := runSequential(ctx, s.logger, "submit_attendance", ops)
	s.metrics.AddBulkFailures("submit_attendance", len(result.Failed))

	written := make([]models.AttendanceRecord, 0, len(records))
	for i, ok := range done {
		if ok {
			written = append(written, records[i])
		}
	}
	if len(written) > 0 {
		s.sync.Commit(ctx, func(st *AppState) *AppState { return st.WithAttendanceUpserted(written...) })
	}
	s.logger.Info("attendance submitted",
		zap.String("class_id", req.ClassID),
		zap.String("date", req.Date),
		zap.Int("blocks", len(blocks)),
		zap.Int("records", len(written)),
	)
	return &dto.SubmitAttendanceResult{Records: written, BulkResult: result}, partialFailure("submit attendance", result)
}

// overlaySubmission applies client status/note choices to canonical blocks, matched by the first
// period of each block. Locked blocks keep the administrator's values; canonical blocks the client
// did not mention keep their derived values.
func overlaySubmission(canonical []models.Block, submitted []dto.SubmitBlock) ([]models.Block, error) {
	byFirst := make(map[string]int, len(canonical))
	for i, b := range canonical {
		byFirst[b.FirstPeriod()] = i
	}
	out := make([]models.Block, len(canonical))
	copy(out, canonical)

	for _, sb := range submitted {
		i, ok := byFirst[sb.Periods[0]]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %s does not start a scheduled block", sb.Periods[0]))
		}
		if !sb.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", sb.Status))
		}
		if out[i].AdminLocked {
			continue
		}
		out[i].Status = sb.Status
		out[i].Note = strings.TrimSpace(sb.Note)
	}
	return out, nil
}

// DeleteRecords removes attendance records one by one. Unknown ids are reported as failures.
func (s *AttendanceService) DeleteRecords(ctx context.Context, req dto.DeleteAttendanceRequest) (*dto.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delete payload")
	}
	if !s.sync.Configured() {
		return nil, appErrors.ErrStoreNotConfigured
	}

	snap := s.sync.Snapshot()
	ops := make([]writeOp, len(req.IDs))
	for i := range req.IDs {
		id := req.IDs[i]
		ops[i] = writeOp{id: id, table: recordstore.TableAttendance, run: func(ctx context.Context) error {
			if _, ok := snap.RecordByID(id); !ok {
				return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
			}
			return s.repo.DeleteAttendance(ctx, id)
		}}
	}
	result, done := runSequential(ctx, s.logger, "delete_attendance", ops)
	s.metrics.AddBulkFailures("delete_attendance", len(result.Failed))

	removed := make([]string, 0, len(req.IDs))
	for i, ok := range done {
		if ok {
			removed = append(removed, req.IDs[i])
		}
	}
	if len(removed) > 0 {
		s.sync.Commit(ctx, func(st *AppState) *AppState { return st.WithAttendanceRemoved(removed...) })
	}
	return &result, partialFailure("delete attendance", result)
}

// ClassDaySchedule lists every slot of the class on the date's weekday with the recorded outcome.
func (s *AttendanceService) ClassDaySchedule(date, classID string) (*dto.MonitoringView, error) {
	if _, ok := masterdata.ClassByID(classID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	day, err := DayName(date)
	if err != nil {
		return nil, err
	}
	snap := s.sync.Snapshot()
	override, events := resolveOverride(snap.Settings.Events, date)
	names := teacherNames(snap.Teachers)

	recorded := make(map[string]models.AttendanceRecord)
	for _, rec := range snap.Attendance {
		if rec.Date == date && rec.ClassID == classID {
			recorded[rec.Period] = rec
		}
	}

	var slots []models.ScheduleSlot
	for _, slot := range snap.Schedule {
		if slot.Day == day {
			slots = append(slots, slot)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return models.ComparePeriods(slots[i].Period, slots[j].Period) < 0
	})

	view := &dto.MonitoringView{Date: date, Day: day, ClassID: classID, Events: events, Rows: []dto.MonitoringRow{}}
	for _, slot := range slots {
		_, excluded := override.excluded[slot.Period]
		row := dto.MonitoringRow{
			Period:    slot.Period,
			TimeRange: slot.TimeRange,
			Activity:  slot.Activity,
			Teaching:  slot.IsTeaching(),
			Suspended: override.suspended || excluded,
		}
		if row.Teaching {
			code, teacherID, ok := slot.Assignment(classID)
			if !ok {
				continue
			}
			row.SubjectCode = code
			row.Subject = masterdata.SubjectName(code)
			row.TeacherID = teacherID
			row.TeacherName = nameOr(names, teacherID)
			if rec, found := recorded[slot.Period]; found {
				row.Status = rec.Status
				row.Note = rec.Note
				row.AdminLocked = rec.AdminAuthored
			}
		}
		view.Rows = append(view.Rows, row)
	}
	return view, nil
}
