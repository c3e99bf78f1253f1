package models

// EventKind classifies agenda entries.
type EventKind string

const (
	// EventKindHoliday suspends the whole day.
	EventKindHoliday EventKind = "LIBUR"
	// EventKindActivity replaces lessons with a school activity for the whole day.
	EventKindActivity EventKind = "KEGIATAN"
	// EventKindSpecificHours suspends only the affected periods.
	EventKindSpecificHours EventKind = "JAM_KHUSUS"
)

// Valid reports whether the kind is known.
func (k EventKind) Valid() bool {
	switch k {
	case EventKindHoliday, EventKindActivity, EventKindSpecificHours:
		return true
	default:
		return false
	}
}

// SuspendsDay reports whether the event cancels every lesson on its date.
func (k EventKind) SuspendsDay() bool {
	return k == EventKindHoliday || k == EventKindActivity
}

// CalendarEvent is an agenda item stored inside the settings aggregate.
type CalendarEvent struct {
	ID              string    `json:"id"`
	Date            string    `json:"tanggal"`
	Name            string    `json:"nama"`
	Kind            EventKind `json:"tipe"`
	AffectedPeriods []string  `json:"affected_jams,omitempty"`
}
