package service

import (
	"context"
	"errors"
	"sync"

	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/internal/repository"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

var errTransport = errors.New("connection reset")

type fakeRecordRepo struct {
	mu         sync.Mutex
	configured bool
	dataset    *repository.Dataset
	loadErr    error
	// failIDs makes writes for these ids fail with a sync error.
	failIDs map[string]bool
	// block, when set, is received from before every attendance save.
	block chan struct{}
	// loadStarted is signalled and loadGate received from inside Load when set.
	loadStarted chan struct{}
	loadGate    chan struct{}

	savedAttendance []models.AttendanceRecord
	deleted         []string
	savedTeachers   []models.Teacher
	deletedTeachers []string
	savedSlots      []models.ScheduleSlot
	savedSettings   []models.AppSettings
}

func newFakeRepo() *fakeRecordRepo {
	return &fakeRecordRepo{configured: true, failIDs: map[string]bool{}}
}

func (f *fakeRecordRepo) fail(id string) error {
	if f.failIDs[id] {
		return appErrors.Wrap(errTransport, appErrors.ErrSyncFailed.Code, appErrors.ErrSyncFailed.Status, "failed to save record")
	}
	return nil
}

func (f *fakeRecordRepo) Configured() bool { return f.configured }

func (f *fakeRecordRepo) Load(context.Context) (*repository.Dataset, error) {
	if f.loadStarted != nil {
		f.loadStarted <- struct{}{}
	}
	if f.loadGate != nil {
		<-f.loadGate
	}
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.dataset, nil
}

func (f *fakeRecordRepo) SaveAttendance(_ context.Context, rec models.AttendanceRecord) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(rec.ID); err != nil {
		return err
	}
	f.savedAttendance = append(f.savedAttendance, rec)
	return nil
}

func (f *fakeRecordRepo) DeleteAttendance(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRecordRepo) SaveTeacher(_ context.Context, t models.Teacher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(t.ID); err != nil {
		return err
	}
	f.savedTeachers = append(f.savedTeachers, t)
	return nil
}

func (f *fakeRecordRepo) DeleteTeacher(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(id); err != nil {
		return err
	}
	f.deletedTeachers = append(f.deletedTeachers, id)
	return nil
}

func (f *fakeRecordRepo) SaveScheduleSlot(_ context.Context, slot models.ScheduleSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(slot.ID); err != nil {
		return err
	}
	f.savedSlots = append(f.savedSlots, slot)
	return nil
}

func (f *fakeRecordRepo) SaveSettings(_ context.Context, settings models.AppSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(models.SettingsRecordID); err != nil {
		return err
	}
	f.savedSettings = append(f.savedSettings, settings)
	return nil
}

// Monday 2024-03-11 is the fixture school day.
const fixtureMonday = "2024-03-11"

func kbm(day, period string, mapping map[string]string) models.ScheduleSlot {
	return models.ScheduleSlot{ID: models.SlotID(day, period), Day: day, Period: period, TimeRange: "07:00-07:40", Activity: models.ActivityTeaching, Mapping: mapping}
}

func fixtureSchedule() []models.ScheduleSlot {
	return []models.ScheduleSlot{
		{ID: "SENIN-0", Day: "SENIN", Period: "0", TimeRange: "06:30-07:00", Activity: "Upacara Bendera"},
		kbm("SENIN", "6", map[string]string{"7A": "IPA-RB", "7B": "MAT-EM"}),
		kbm("SENIN", "1", map[string]string{"7A": "MAT-EM", "7B": "IPA-RB"}),
		kbm("SENIN", "2", map[string]string{"7A": "IPA-RB", "7B": "MAT-EM"}),
		kbm("SENIN", "3", map[string]string{"7A": "IPA-RB", "7B": "MAT-EM"}),
		kbm("SENIN", "4", map[string]string{"7A": "IPA-RB", "7B": "BIN-SH"}),
		kbm("SENIN", "5", map[string]string{"7A": "IPA-RB", "7B": "BROKEN"}),
		kbm("SELASA", "1", map[string]string{"7A": "BIN-SH"}),
	}
}

func fixtureTeachers() []models.Teacher {
	return []models.Teacher{
		{ID: "EM", Name: "Emilia Kartika Sari, S.Pd", Subjects: []string{"Matematika"}},
		{ID: "RB", Name: "Rebby Dwi Prataopu, S.Si", Subjects: []string{"Ilmu Pengetahuan Alam"}},
		{ID: "SH", Name: "Dra. Sri Hayati", Subjects: []string{"Bahasa Indonesia"}},
	}
}

func fixtureState(records ...models.AttendanceRecord) *AppState {
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return &AppState{
		Teachers:   fixtureTeachers(),
		Schedule:   fixtureSchedule(),
		Settings:   models.AppSettings{ID: models.SettingsRecordID, AcademicYear: "2023/2024", Semester: models.SemesterEven, Events: []models.CalendarEvent{}},
		Attendance: records,
	}
}

func newTestSync(repo RecordRepository, st *AppState) *SyncService {
	return NewSyncService(repo, NewStateStore(st), nil, nil, nil)
}

func record(date, classID, period, teacherID string, status models.AttendanceStatus) models.AttendanceRecord {
	return models.AttendanceRecord{
		ID:        models.RecordID(date, classID, period),
		TeacherID: teacherID,
		ClassID:   classID,
		Date:      date,
		Period:    period,
		Status:    status,
	}
}
