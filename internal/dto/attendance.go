package dto

import "github.com/noah-isme/siap-guru-api/internal/models"

// AttendanceForm is the derived set of editable blocks for one class on one date.
type AttendanceForm struct {
	Date    string                 `json:"date"`
	Day     string                 `json:"day"`
	ClassID string                 `json:"classId"`
	Locked  bool                   `json:"locked"`
	Events  []models.CalendarEvent `json:"events,omitempty"`
	Blocks  []models.Block         `json:"blocks"`
}

// SubmitBlock carries the outcome chosen for one block. Periods identify the block.
type SubmitBlock struct {
	Periods []string                `json:"jams" validate:"required,min=1,dive,required"`
	Status  models.AttendanceStatus `json:"status" validate:"required"`
	Note    string                  `json:"catatan" validate:"max=500"`
}

// SubmitAttendanceRequest is the payload posted by a class representative.
type SubmitAttendanceRequest struct {
	Date    string        `json:"date" validate:"required,datetime=2006-01-02"`
	ClassID string        `json:"classId" validate:"required"`
	Blocks  []SubmitBlock `json:"blocks" validate:"required,min=1,dive"`
}

// DeleteAttendanceRequest lists record ids to remove.
type DeleteAttendanceRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// BulkFailure describes one failed sub-operation of a bulk write.
type BulkFailure struct {
	ID    string `json:"id"`
	Table string `json:"table"`
	Error string `json:"error"`
}

// BulkResult summarises a sequential bulk write. Succeeded writes are never rolled back.
type BulkResult struct {
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Failed    []BulkFailure `json:"failed,omitempty"`
}

// OK reports whether every sub-operation succeeded.
func (r BulkResult) OK() bool {
	return len(r.Failed) == 0
}

// SubmitAttendanceResult returns the records written by a submission.
type SubmitAttendanceResult struct {
	Records []models.AttendanceRecord `json:"records"`
	BulkResult
}

// MonitoringRow is one timetable slot of a class with its recorded outcome.
type MonitoringRow struct {
	Period      string                  `json:"jam"`
	TimeRange   string                  `json:"waktu"`
	Activity    string                  `json:"kegiatan"`
	Teaching    bool                    `json:"teaching"`
	Suspended   bool                    `json:"suspended"`
	SubjectCode string                  `json:"subjectCode,omitempty"`
	Subject     string                  `json:"mapel,omitempty"`
	TeacherID   string                  `json:"id_guru,omitempty"`
	TeacherName string                  `json:"nama_guru,omitempty"`
	Status      models.AttendanceStatus `json:"status,omitempty"`
	Note        string                  `json:"catatan,omitempty"`
	AdminLocked bool                    `json:"admin_locked,omitempty"`
}

// MonitoringView is the day schedule of a class annotated with recorded attendance.
type MonitoringView struct {
	Date    string                 `json:"date"`
	Day     string                 `json:"day"`
	ClassID string                 `json:"classId"`
	Events  []models.CalendarEvent `json:"events,omitempty"`
	Rows    []MonitoringRow        `json:"rows"`
}
