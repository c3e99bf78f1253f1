package models

import (
	"strconv"
	"strings"
	"time"
)

// ActivityTeaching marks schedule slots with regular lessons (Kegiatan Belajar Mengajar).
const ActivityTeaching = "KBM"

// Weekday names as stored in the schedule sheet, indexed by time.Weekday.
var weekdayNames = [...]string{"MINGGU", "SENIN", "SELASA", "RABU", "KAMIS", "JUM'AT", "SABTU"}

// WeekdayName returns the schedule day name for the given weekday.
func WeekdayName(day time.Weekday) string {
	return weekdayNames[day]
}

// WeekdayIndex returns the position of a schedule day name, or -1 when unknown.
func WeekdayIndex(name string) int {
	for i, n := range weekdayNames {
		if n == name {
			return i
		}
	}
	return -1
}

// ScheduleSlot is one (day, period) row of the weekly timetable.
// Mapping values have the form SUBJECT-TEACHERID keyed by class id.
type ScheduleSlot struct {
	ID        string            `json:"id,omitempty"`
	Day       string            `json:"hari"`
	Period    string            `json:"jam"`
	TimeRange string            `json:"waktu"`
	Activity  string            `json:"kegiatan"`
	Mapping   map[string]string `json:"mapping"`
}

// SlotID returns the storage key for a timetable row.
func SlotID(day, period string) string {
	return day + "-" + period
}

// IsTeaching reports whether the slot is a lesson slot.
func (s ScheduleSlot) IsTeaching() bool {
	return s.Activity == ActivityTeaching
}

// Assignment resolves the subject code and teacher id for a class.
// ok is false when the class has no entry or the entry lacks the separator.
func (s ScheduleSlot) Assignment(classID string) (subjectCode, teacherID string, ok bool) {
	raw, found := s.Mapping[classID]
	if !found {
		return "", "", false
	}
	return ParseAssignment(raw)
}

// ParseAssignment splits a SUBJECT-TEACHERID mapping value.
func ParseAssignment(raw string) (subjectCode, teacherID string, ok bool) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ComparePeriods orders period ids numerically, falling back to string order for non-numeric ids.
func ComparePeriods(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai - bi
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
