package models

import "strings"

// AttendanceStatus represents the recorded outcome for a teacher in one period.
// Values match the strings stored in the attendance sheet.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Hadir"
	AttendanceStatusLeave   AttendanceStatus = "Izin"
	AttendanceStatusSick    AttendanceStatus = "Sakit"
	AttendanceStatusAbsent  AttendanceStatus = "Tidak Hadir"
)

// DefaultPresentNote is attached to derived blocks that nobody has filled in yet.
const DefaultPresentNote = "Hadir tepat waktu"

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusLeave, AttendanceStatusSick, AttendanceStatusAbsent:
		return true
	default:
		return false
	}
}

// DistributionBucket is the reporting label of a status. Absent is always reported as "Alpha".
func (s AttendanceStatus) DistributionBucket() string {
	if s == AttendanceStatusAbsent {
		return BucketAlpha
	}
	return string(s)
}

// Distribution bucket labels used by every report.
const (
	BucketPresent = "Hadir"
	BucketLeave   = "Izin"
	BucketSick    = "Sakit"
	BucketAlpha   = "Alpha"
)

// AttendanceRecord is one teacher-period observation for a class on a date.
type AttendanceRecord struct {
	ID            string           `json:"id"`
	TeacherID     string           `json:"id_guru"`
	TeacherName   string           `json:"nama_guru"`
	Subject       string           `json:"mapel"`
	ClassID       string           `json:"id_kelas"`
	Date          string           `json:"tanggal"`
	Period        string           `json:"jam"`
	Status        AttendanceStatus `json:"status"`
	Note          string           `json:"catatan"`
	AdminAuthored bool             `json:"is_admin_input"`
}

// RecordID builds the natural key of an attendance record. It is the only uniqueness
// constraint: writing a record with the same (date, class, period) replaces the previous one.
func RecordID(date, classID, period string) string {
	return date + "-" + classID + "-" + period
}

// NormalizeDate trims spreadsheet datetime values such as 2024-03-15T00:00:00.000Z to the ISO date.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 10 && raw[10] == 'T' {
		return raw[:10]
	}
	return raw
}
