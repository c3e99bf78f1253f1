package models

// Semester is the active half of the academic year.
type Semester string

const (
	SemesterOdd  Semester = "Ganjil"
	SemesterEven Semester = "Genap"
)

// Valid reports whether the semester is known.
func (s Semester) Valid() bool {
	return s == SemesterOdd || s == SemesterEven
}

// SettingsRecordID is the fixed key of the settings singleton.
const SettingsRecordID = "settings"

// AppSettings is the singleton settings aggregate including the agenda.
type AppSettings struct {
	ID           string          `json:"id,omitempty"`
	AcademicYear string          `json:"tahunPelajaran"`
	Semester     Semester        `json:"semester"`
	Events       []CalendarEvent `json:"events"`
}

// EventsOn returns every event scheduled on date in stored order.
func (s AppSettings) EventsOn(date string) []CalendarEvent {
	var matches []CalendarEvent
	for _, ev := range s.Events {
		if ev.Date == date {
			matches = append(matches, ev)
		}
	}
	return matches
}
