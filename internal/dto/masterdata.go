package dto

import "github.com/noah-isme/siap-guru-api/internal/models"

// TeacherRequest creates or updates a roster entry.
type TeacherRequest struct {
	ID       string   `json:"id" validate:"required,max=10,alphanum"`
	Name     string   `json:"nama" validate:"required,max=120"`
	Subjects []string `json:"mapel" validate:"dive,required"`
}

// ScheduleSlotRequest replaces one whole timetable row.
type ScheduleSlotRequest struct {
	Day       string            `json:"hari" validate:"required"`
	Period    string            `json:"jam" validate:"required"`
	TimeRange string            `json:"waktu" validate:"required"`
	Activity  string            `json:"kegiatan" validate:"required"`
	Mapping   map[string]string `json:"mapping"`
}

// SettingsRequest updates the academic year and semester.
type SettingsRequest struct {
	AcademicYear string          `json:"tahunPelajaran" validate:"required"`
	Semester     models.Semester `json:"semester" validate:"required,oneof=Ganjil Genap"`
}

// EventRequest creates or updates an agenda item.
type EventRequest struct {
	Date            string           `json:"tanggal" validate:"required,datetime=2006-01-02"`
	Name            string           `json:"nama" validate:"required,max=200"`
	Kind            models.EventKind `json:"tipe" validate:"required,oneof=LIBUR KEGIATAN JAM_KHUSUS"`
	AffectedPeriods []string         `json:"affected_jams"`
}

// MonthOption is one selectable month of the active semester.
type MonthOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ReferenceData bundles static lookups for clients.
type ReferenceData struct {
	Classes        []models.ClassInfo `json:"classes"`
	Periods        []string           `json:"periods"`
	NoteChoices    []string           `json:"noteChoices"`
	Subjects       map[string]string  `json:"subjects"`
	SemesterMonths []MonthOption      `json:"semesterMonths"`
	Settings       models.AppSettings `json:"settings"`
}
