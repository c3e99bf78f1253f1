package repository

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/noah-isme/siap-guru-api/internal/models"
)

// The spreadsheet web app serialises cells loosely: periods may arrive as numbers, booleans
// as "TRUE", nested values as JSON text. The flex types below accept those shapes.

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var b bool
		if errB := json.Unmarshal(data, &b); errB != nil {
			return err
		}
		*f = flexString(strconv.FormatBool(b))
		return nil
	}
	*f = flexString(n.String())
	return nil
}

type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	switch strings.ToLower(string(s)) {
	case "true", "1", "ya", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}
	if data[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item != "" {
				out = append(out, string(item))
			}
		}
		*f = out
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	raw := string(s)
	if strings.HasPrefix(raw, "[") {
		return f.UnmarshalJSON([]byte(raw))
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*f = out
	return nil
}

type flexMapping map[string]string

func (f *flexMapping) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = flexMapping{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*f = flexMapping{}
			return nil
		}
		return f.UnmarshalJSON([]byte(s))
	}
	var raw map[string]flexString
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(flexMapping, len(raw))
	for k, v := range raw {
		out[k] = string(v)
	}
	*f = out
	return nil
}

type wireAttendance struct {
	ID            flexString `json:"id"`
	TeacherID     flexString `json:"id_guru"`
	TeacherName   flexString `json:"nama_guru"`
	Subject       flexString `json:"mapel"`
	ClassID       flexString `json:"id_kelas"`
	Date          flexString `json:"tanggal"`
	Period        flexString `json:"jam"`
	Status        flexString `json:"status"`
	Note          flexString `json:"catatan"`
	AdminAuthored flexBool   `json:"is_admin_input"`
}

func (w wireAttendance) model() models.AttendanceRecord {
	rec := models.AttendanceRecord{
		ID:            string(w.ID),
		TeacherID:     string(w.TeacherID),
		TeacherName:   string(w.TeacherName),
		Subject:       string(w.Subject),
		ClassID:       string(w.ClassID),
		Date:          models.NormalizeDate(string(w.Date)),
		Period:        string(w.Period),
		Status:        models.AttendanceStatus(w.Status),
		Note:          string(w.Note),
		AdminAuthored: bool(w.AdminAuthored),
	}
	if rec.ID == "" && rec.Date != "" && rec.ClassID != "" && rec.Period != "" {
		rec.ID = models.RecordID(rec.Date, rec.ClassID, rec.Period)
	}
	return rec
}

type wireTeacher struct {
	ID       flexString  `json:"id"`
	Name     flexString  `json:"nama"`
	Subjects flexStrings `json:"mapel"`
}

func (w wireTeacher) model() models.Teacher {
	subjects := []string(w.Subjects)
	if subjects == nil {
		subjects = []string{}
	}
	return models.Teacher{ID: string(w.ID), Name: string(w.Name), Subjects: subjects}
}

type wireSlot struct {
	ID        flexString  `json:"id"`
	Day       flexString  `json:"hari"`
	Period    flexString  `json:"jam"`
	TimeRange flexString  `json:"waktu"`
	Activity  flexString  `json:"kegiatan"`
	Mapping   flexMapping `json:"mapping"`
}

func (w wireSlot) model() models.ScheduleSlot {
	slot := models.ScheduleSlot{
		ID:        string(w.ID),
		Day:       strings.ToUpper(string(w.Day)),
		Period:    string(w.Period),
		TimeRange: string(w.TimeRange),
		Activity:  string(w.Activity),
		Mapping:   map[string]string(w.Mapping),
	}
	if slot.Mapping == nil {
		slot.Mapping = map[string]string{}
	}
	if slot.ID == "" {
		slot.ID = models.SlotID(slot.Day, slot.Period)
	}
	return slot
}

type wireEvent struct {
	ID              flexString  `json:"id"`
	Date            flexString  `json:"tanggal"`
	Name            flexString  `json:"nama"`
	Kind            flexString  `json:"tipe"`
	AffectedPeriods flexStrings `json:"affected_jams"`
}

func (w wireEvent) model() models.CalendarEvent {
	return models.CalendarEvent{
		ID:              string(w.ID),
		Date:            models.NormalizeDate(string(w.Date)),
		Name:            string(w.Name),
		Kind:            models.EventKind(w.Kind),
		AffectedPeriods: []string(w.AffectedPeriods),
	}
}

type wireEvents []wireEvent

func (f *wireEvents) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*f = nil
			return nil
		}
		data = []byte(s)
	}
	var items []wireEvent
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*f = items
	return nil
}

type wireSettings struct {
	ID           flexString  `json:"id"`
	AcademicYear flexString  `json:"tahunPelajaran"`
	Semester     flexString  `json:"semester"`
	Events       *wireEvents `json:"events"`
}
