package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/masterdata"
	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/pkg/recordstore"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

type masterDataWriter interface {
	SaveTeacher(ctx context.Context, teacher models.Teacher) error
	DeleteTeacher(ctx context.Context, id string) error
	SaveScheduleSlot(ctx context.Context, slot models.ScheduleSlot) error
	SaveSettings(ctx context.Context, settings models.AppSettings) error
}

// MasterDataService manages the roster, timetable, settings and agenda.
type MasterDataService struct {
	sync      *SyncService
	repo      masterDataWriter
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	newID     func() string

	// settingsMu serialises read-modify-write cycles of the settings aggregate.
	settingsMu sync.Mutex
}

// NewMasterDataService constructs a MasterDataService.
func NewMasterDataService(sync *SyncService, repo masterDataWriter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *MasterDataService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MasterDataService{sync: sync, repo: repo, metrics: metrics, validator: validate, logger: logger, newID: uuid.NewString}
}

func (s *MasterDataService) requireStore() error {
	if !s.sync.Configured() {
		return appErrors.ErrStoreNotConfigured
	}
	return nil
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// Teachers lists the roster in stored order.
func (s *MasterDataService) Teachers() []models.Teacher {
	return append([]models.Teacher(nil), s.sync.Snapshot().Teachers...)
}

func normalizeTeacher(req dto.TeacherRequest) models.Teacher {
	subjects := make([]string, 0, len(req.Subjects))
	for _, code := range req.Subjects {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			subjects = append(subjects, code)
		}
	}
	return models.Teacher{
		ID:       strings.ToUpper(strings.TrimSpace(req.ID)),
		Name:     strings.TrimSpace(req.Name),
		Subjects: subjects,
	}
}

// CreateTeacher adds a roster entry. Ids are upper-cased and must be unique.
func (s *MasterDataService) CreateTeacher(ctx context.Context, req dto.TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	teacher := normalizeTeacher(req)
	if _, exists := s.sync.Snapshot().TeacherByID(teacher.ID); exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("teacher %s already exists", teacher.ID))
	}
	if err := s.repo.SaveTeacher(ctx, teacher); err != nil {
		return nil, err
	}
	s.sync.Commit(ctx, func(st *AppState) *AppState { return st.WithTeacherUpserted(teacher) })
	return &teacher, nil
}

// UpdateTeacher replaces name and subjects. The id cannot change.
func (s *MasterDataService) UpdateTeacher(ctx context.Context, id string, req dto.TeacherRequest) (*models.Teacher, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if req.ID != "" && !strings.EqualFold(strings.TrimSpace(req.ID), id) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id cannot be changed")
	}
	req.ID = id
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if _, exists := s.sync.Snapshot().TeacherByID(id); !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	teacher := normalizeTeacher(req)
	if err := s.repo.SaveTeacher(ctx, teacher); err != nil {
		return nil, err
	}
	s.sync.Commit(ctx, func(st *AppState) *AppState { return st.WithTeacherUpserted(teacher) })
	return &teacher, nil
}

// DeleteTeacher removes a roster entry. Schedule mappings that still reference it keep working and
// fall back to the raw id as display name.
func (s *MasterDataService) DeleteTeacher(ctx context.Context, id string) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	if _, exists := s.sync.Snapshot().TeacherByID(id); !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	if err := s.repo.DeleteTeacher(ctx, id); err != nil {
		return err
	}
	s.sync.Commit(ctx, func(st *AppState) *AppState { return st.WithTeacherRemoved(id) })
	return nil
}

// Schedule returns the timetable ordered by weekday and period.
func (s *MasterDataService) Schedule() []models.ScheduleSlot {
	return s.sync.Snapshot().SortedSchedule()
}

// UpsertSlot replaces one whole timetable row.
func (s *MasterDataService) UpsertSlot(ctx context.Context, req dto.ScheduleSlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid schedule payload")
	}
	day := strings.ToUpper(strings.TrimSpace(req.Day))
	if models.WeekdayIndex(day) < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}
	if !masterdata.IsPeriod(req.Period) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown period %q", req.Period))
	}
	mapping := make(map[string]string, len(req.Mapping))
	for classID, raw := range req.Mapping {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if _, ok := masterdata.ClassByID(classID); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown class %q", classID))
		}
		if _, _, ok := models.ParseAssignment(raw); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("mapping for %s must look like SUBJECT-TEACHER", classID))
		}
		mapping[classID] = strings.ToUpper(raw)
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	slot := models.ScheduleSlot{
		ID:        models.SlotID(day, req.Period),
		Day:       day,
		Period:    req.Period,
		TimeRange: strings.TrimSpace(req.TimeRange),
		Activity:  strings.TrimSpace(req.Activity),
		Mapping:   mapping,
	}
	if err := s.repo.SaveScheduleSlot(ctx, slot); err != nil {
		return nil, err
	}
	s.sync.Commit(ctx, func(st *AppState) *AppState { return st.WithSlotUpserted(slot) })
	return &slot, nil
}

// Settings returns the settings aggregate.
func (s *MasterDataService) Settings() models.AppSettings {
	return s.sync.Snapshot().Settings
}

// UpdateSettings changes the academic year and semester; events are preserved.
func (s *MasterDataService) UpdateSettings(ctx context.Context, req dto.SettingsRequest) (*models.AppSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid settings payload")
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	next := s.sync.Snapshot().Settings
	next.ID = models.SettingsRecordID
	next.AcademicYear = strings.TrimSpace(req.AcademicYear)
	next.Semester = req.Semester
	return s.saveSettings(ctx, next)
}

func (s *MasterDataService) saveSettings(ctx context.Context, settings models.AppSettings) (*models.AppSettings, error) {
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	st := s.sync.Commit(ctx, func(st *AppState) *AppState { return st.WithSettings(settings) })
	out := st.Settings
	return &out, nil
}

// Events lists the agenda ordered by date.
func (s *MasterDataService) Events() []models.CalendarEvent {
	events := append([]models.CalendarEvent(nil), s.sync.Snapshot().Settings.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	if events == nil {
		events = []models.CalendarEvent{}
	}
	return events
}

func (s *MasterDataService) eventFromRequest(req dto.EventRequest) (models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.CalendarEvent{}, validationError(err, "invalid event payload")
	}
	ev := models.CalendarEvent{
		Date: req.Date,
		Name: strings.TrimSpace(req.Name),
		Kind: req.Kind,
	}
	if ev.Name == "" {
		return ev, appErrors.Clone(appErrors.ErrValidation, "event name is required")
	}
	if ev.Kind == models.EventKindSpecificHours {
		if len(req.AffectedPeriods) == 0 {
			return ev, appErrors.Clone(appErrors.ErrValidation, "specific-hours events need at least one period")
		}
		seen := make(map[string]struct{}, len(req.AffectedPeriods))
		for _, p := range req.AffectedPeriods {
			if !masterdata.IsPeriod(p) {
				return ev, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown period %q", p))
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			ev.AffectedPeriods = append(ev.AffectedPeriods, p)
		}
		sort.SliceStable(ev.AffectedPeriods, func(i, j int) bool {
			return models.ComparePeriods(ev.AffectedPeriods[i], ev.AffectedPeriods[j]) < 0
		})
	}
	return ev, nil
}

// dateOccupied reports whether another event already uses date. skipID is ignored.
func dateOccupied(events []models.CalendarEvent, date, skipID string) bool {
	for _, ev := range events {
		if ev.Date == date && ev.ID != skipID {
			return true
		}
	}
	return false
}

// CreateEvent adds an agenda item. Only one event per date is accepted.
func (s *MasterDataService) CreateEvent(ctx context.Context, req dto.EventRequest) (*models.CalendarEvent, error) {
	ev, err := s.eventFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	settings := s.sync.Snapshot().Settings
	if dateOccupied(settings.Events, ev.Date, "") {
		return nil, appErrors.ErrEventDateOccupied
	}
	ev.ID = s.newID()
	settings.Events = append(append([]models.CalendarEvent(nil), settings.Events...), ev)
	if _, err := s.saveSettings(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("calendar event created", zap.String("id", ev.ID), zap.String("date", ev.Date), zap.String("kind", string(ev.Kind)))
	return &ev, nil
}

// UpdateEvent replaces an agenda item.
func (s *MasterDataService) UpdateEvent(ctx context.Context, id string, req dto.EventRequest) (*models.CalendarEvent, error) {
	ev, err := s.eventFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	settings := s.sync.Snapshot().Settings
	events := append([]models.CalendarEvent(nil), settings.Events...)
	index := -1
	for i, existing := range events {
		if existing.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	if dateOccupied(events, ev.Date, id) {
		return nil, appErrors.ErrEventDateOccupied
	}
	ev.ID = id
	events[index] = ev
	settings.Events = events
	if _, err := s.saveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DeleteEvent removes an agenda item.
func (s *MasterDataService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	settings := s.sync.Snapshot().Settings
	kept := make([]models.CalendarEvent, 0, len(settings.Events))
	for _, ev := range settings.Events {
		if ev.ID != id {
			kept = append(kept, ev)
		}
	}
	if len(kept) == len(settings.Events) {
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	settings.Events = kept
	_, err := s.saveSettings(ctx, settings)
	return err
}

// RestoreDefaults writes every seed teacher, then every seed timetable row, then the default
// settings, one request at a time. Existing events are kept. Failed steps are reported and the
// successful ones are not rolled back.
func (s *MasterDataService) RestoreDefaults(ctx context.Context) (*dto.BulkResult, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	teachers := masterdata.Teachers()
	slots := masterdata.Schedule()
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	settings := masterdata.DefaultSettings()
	settings.Events = append([]models.CalendarEvent(nil), s.sync.Snapshot().Settings.Events...)

	ops := make([]writeOp, 0, len(teachers)+len(slots)+1)
	for i := range teachers {
		t := teachers[i]
		ops = append(ops, writeOp{id: t.ID, table: recordstore.TableTeachers, run: func(ctx context.Context) error {
			return s.repo.SaveTeacher(ctx, t)
		}})
	}
	for i := range slots {
		slot := slots[i]
		ops = append(ops, writeOp{id: slot.ID, table: recordstore.TableSchedule, run: func(ctx context.Context) error {
			return s.repo.SaveScheduleSlot(ctx, slot)
		}})
	}
	ops = append(ops, writeOp{id: models.SettingsRecordID, table: recordstore.TableSettings, run: func(ctx context.Context) error {
		return s.repo.SaveSettings(ctx, settings)
	}})

	result, done := runSequential(ctx, s.logger, "restore_defaults", ops)
	s.metrics.AddBulkFailures("restore_defaults", len(result.Failed))

	if result.Succeeded > 0 {
		s.sync.Commit(ctx, func(st *AppState) *AppState {
			next := st
			for i, ok := range done {
				if !ok {
					continue
				}
				switch {
				case i < len(teachers):
					next = next.WithTeacherUpserted(teachers[i])
				case i < len(teachers)+len(slots):
					next = next.WithSlotUpserted(slots[i-len(teachers)])
				default:
					next = next.WithSettings(settings)
				}
			}
			return next
		})
	}
	s.logger.Info("master data restored",
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", len(result.Failed)),
	)
	return &result, partialFailure("restore defaults", result)
}

// Reference bundles the static lookups clients need to render forms and filters.
func (s *MasterDataService) Reference() dto.ReferenceData {
	settings := s.Settings()
	return dto.ReferenceData{
		Classes:        masterdata.Classes(),
		Periods:        masterdata.Periods(),
		NoteChoices:    masterdata.NoteChoices(),
		Subjects:       masterdata.SubjectNames(),
		SemesterMonths: SemesterMonths(settings.Semester),
		Settings:       settings,
	}
}
