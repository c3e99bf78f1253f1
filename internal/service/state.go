package service

import (
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/siap-guru-api/internal/masterdata"
	"github.com/noah-isme/siap-guru-api/internal/models"
)

// AppState is an immutable snapshot of every collection the engine works on.
// Readers share snapshots freely; changes produce a new snapshot through the With* helpers,
// which copy the touched collection and leave the receiver untouched.
type AppState struct {
	Teachers   []models.Teacher
	Schedule   []models.ScheduleSlot
	Settings   models.AppSettings
	Attendance []models.AttendanceRecord
	Version    uint64
	LastSync   time.Time
}

// SeedState returns the state used before the record store has answered.
func SeedState() *AppState {
	return &AppState{
		Teachers:   masterdata.Teachers(),
		Schedule:   masterdata.Schedule(),
		Settings:   masterdata.DefaultSettings(),
		Attendance: []models.AttendanceRecord{},
	}
}

func (s *AppState) clone() *AppState {
	next := *s
	return &next
}

// WithAttendanceUpserted replaces records with matching ids and appends the rest.
func (s *AppState) WithAttendanceUpserted(records ...models.AttendanceRecord) *AppState {
	next := s.clone()
	updated := make([]models.AttendanceRecord, len(s.Attendance), len(s.Attendance)+len(records))
	copy(updated, s.Attendance)
	index := make(map[string]int, len(updated))
	for i, rec := range updated {
		index[rec.ID] = i
	}
	for _, rec := range records {
		if i, ok := index[rec.ID]; ok {
			updated[i] = rec
			continue
		}
		index[rec.ID] = len(updated)
		updated = append(updated, rec)
	}
	next.Attendance = updated
	return next
}

// WithAttendanceRemoved drops records by id.
func (s *AppState) WithAttendanceRemoved(ids ...string) *AppState {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	next := s.clone()
	kept := make([]models.AttendanceRecord, 0, len(s.Attendance))
	for _, rec := range s.Attendance {
		if _, ok := drop[rec.ID]; !ok {
			kept = append(kept, rec)
		}
	}
	next.Attendance = kept
	return next
}

// WithTeacherUpserted replaces or appends a roster entry.
func (s *AppState) WithTeacherUpserted(teacher models.Teacher) *AppState {
	next := s.clone()
	roster := make([]models.Teacher, 0, len(s.Teachers)+1)
	replaced := false
	for _, t := range s.Teachers {
		if t.ID == teacher.ID {
			roster = append(roster, teacher)
			replaced = true
			continue
		}
		roster = append(roster, t)
	}
	if !replaced {
		roster = append(roster, teacher)
	}
	next.Teachers = roster
	return next
}

// WithTeacherRemoved drops a roster entry.
func (s *AppState) WithTeacherRemoved(id string) *AppState {
	next := s.clone()
	roster := make([]models.Teacher, 0, len(s.Teachers))
	for _, t := range s.Teachers {
		if t.ID != id {
			roster = append(roster, t)
		}
	}
	next.Teachers = roster
	return next
}

// WithSlotUpserted replaces the (day, period) row or appends it.
func (s *AppState) WithSlotUpserted(slot models.ScheduleSlot) *AppState {
	next := s.clone()
	rows := make([]models.ScheduleSlot, 0, len(s.Schedule)+1)
	replaced := false
	for _, existing := range s.Schedule {
		if existing.Day == slot.Day && existing.Period == slot.Period {
			rows = append(rows, slot)
			replaced = true
			continue
		}
		rows = append(rows, existing)
	}
	if !replaced {
		rows = append(rows, slot)
	}
	next.Schedule = rows
	return next
}

// WithSettings swaps the settings aggregate.
func (s *AppState) WithSettings(settings models.AppSettings) *AppState {
	next := s.clone()
	events := make([]models.CalendarEvent, len(settings.Events))
	copy(events, settings.Events)
	settings.Events = events
	next.Settings = settings
	return next
}

// TeacherByID looks up a roster entry.
func (s *AppState) TeacherByID(id string) (models.Teacher, bool) {
	for _, t := range s.Teachers {
		if t.ID == id {
			return t, true
		}
	}
	return models.Teacher{}, false
}

// RecordByID looks up an attendance record.
func (s *AppState) RecordByID(id string) (models.AttendanceRecord, bool) {
	for _, rec := range s.Attendance {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.AttendanceRecord{}, false
}

// SortedSchedule returns the timetable ordered by weekday then numeric period.
func (s *AppState) SortedSchedule() []models.ScheduleSlot {
	rows := make([]models.ScheduleSlot, len(s.Schedule))
	copy(rows, s.Schedule)
	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := models.WeekdayIndex(rows[i].Day), models.WeekdayIndex(rows[j].Day)
		if di != dj {
			return di < dj
		}
		return models.ComparePeriods(rows[i].Period, rows[j].Period) < 0
	})
	return rows
}

// StateStore holds the current snapshot. Updates are serialised; reads never block on I/O.
type StateStore struct {
	mu      sync.RWMutex
	current *AppState
}

// NewStateStore constructs a store around initial, defaulting to the seed state.
func NewStateStore(initial *AppState) *StateStore {
	if initial == nil {
		initial = SeedState()
	}
	return &StateStore{current: initial}
}

// Snapshot returns the current state. Callers must treat it as read-only.
func (s *StateStore) Snapshot() *AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn to the current snapshot and installs the result with a bumped version.
func (s *StateStore) Update(fn func(*AppState) *AppState) *AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.current)
	if next == nil || next == s.current {
		return s.current
	}
	next.Version = s.current.Version + 1
	s.current = next
	return next
}
