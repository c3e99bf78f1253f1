package service

import (
	"sort"
	"time"

	"github.com/noah-isme/siap-guru-api/internal/masterdata"
	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// DerivationInput gathers the collections block derivation reads. SubjectName defaults to the
// master data table.
type DerivationInput struct {
	Date        string
	ClassID     string
	Schedule    []models.ScheduleSlot
	Events      []models.CalendarEvent
	Records     []models.AttendanceRecord
	Teachers    []models.Teacher
	SubjectName func(code string) string
}

// Derivation is the result of DeriveBlocks.
type Derivation struct {
	Date    string
	Day     string
	ClassID string
	// Locked is set when a holiday or activity day suspends every lesson.
	Locked bool
	Events []models.CalendarEvent
	Blocks []models.Block
}

// ParseDate validates an ISO date.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must use the YYYY-MM-DD format")
	}
	return d, nil
}

// DayName returns the schedule weekday name of an ISO date.
func DayName(date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return models.WeekdayName(d.Weekday()), nil
}

// dayOverride is the combined effect of every event on one date. When several events share
// a date, any holiday or activity suspends the day and specific-hours periods are unioned.
type dayOverride struct {
	suspended bool
	excluded  map[string]struct{}
}

func resolveOverride(events []models.CalendarEvent, date string) (dayOverride, []models.CalendarEvent) {
	override := dayOverride{excluded: map[string]struct{}{}}
	var matched []models.CalendarEvent
	for _, ev := range events {
		if ev.Date != date {
			continue
		}
		matched = append(matched, ev)
		switch {
		case ev.Kind.SuspendsDay():
			override.suspended = true
		case ev.Kind == models.EventKindSpecificHours:
			for _, p := range ev.AffectedPeriods {
				override.excluded[p] = struct{}{}
			}
		}
	}
	return override, matched
}

// teachingSlots returns the lesson slots of day that map classID, ordered by period.
func teachingSlots(schedule []models.ScheduleSlot, day, classID string, excluded map[string]struct{}) []models.ScheduleSlot {
	var slots []models.ScheduleSlot
	for _, slot := range schedule {
		if slot.Day != day || !slot.IsTeaching() {
			continue
		}
		if _, ok := slot.Mapping[classID]; !ok {
			continue
		}
		if _, skip := excluded[slot.Period]; skip {
			continue
		}
		slots = append(slots, slot)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return models.ComparePeriods(slots[i].Period, slots[j].Period) < 0
	})
	return slots
}

func teacherNames(teachers []models.Teacher) map[string]string {
	names := make(map[string]string, len(teachers))
	for _, t := range teachers {
		names[t.ID] = t.Name
	}
	return names
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

// DeriveBlocks builds the editable blocks of a class for a date. An empty ClassID yields an
// empty, unlocked derivation. The only failure is a malformed date.
func DeriveBlocks(in DerivationInput) (Derivation, error) {
	out := Derivation{Date: in.Date, ClassID: in.ClassID, Blocks: []models.Block{}}
	day, err := DayName(in.Date)
	if err != nil {
		return out, err
	}
	out.Day = day

	override, matched := resolveOverride(in.Events, in.Date)
	out.Events = matched
	if in.ClassID == "" {
		return out, nil
	}
	if override.suspended {
		out.Locked = true
		return out, nil
	}

	subjectName := in.SubjectName
	if subjectName == nil {
		subjectName = masterdata.SubjectName
	}
	names := teacherNames(in.Teachers)

	adminByTeacher := make(map[string]models.AttendanceRecord)
	existing := make(map[string]models.AttendanceRecord)
	for _, rec := range in.Records {
		if rec.Date != in.Date {
			continue
		}
		if _, seen := adminByTeacher[rec.TeacherID]; rec.AdminAuthored && !seen {
			adminByTeacher[rec.TeacherID] = rec
		}
		if _, seen := existing[rec.Period]; rec.ClassID == in.ClassID && !seen {
			existing[rec.Period] = rec
		}
	}

	for _, slot := range teachingSlots(in.Schedule, day, in.ClassID, override.excluded) {
		code, teacherID, ok := slot.Assignment(in.ClassID)
		if !ok {
			continue
		}
		block := models.Block{
			Periods:     []string{slot.Period},
			TeacherID:   teacherID,
			TeacherName: nameOr(names, teacherID),
			Subject:     subjectName(code),
			Status:      models.AttendanceStatusPresent,
			Note:        models.DefaultPresentNote,
		}
		if admin, locked := adminByTeacher[teacherID]; locked {
			block.Status = admin.Status
			block.Note = admin.Note
			block.AdminLocked = true
		} else if rec, found := existing[slot.Period]; found {
			block.Status = rec.Status
			if rec.Note != "" {
				block.Note = rec.Note
			}
		}

		if n := len(out.Blocks); n > 0 && sameRun(out.Blocks[n-1], block) {
			out.Blocks[n-1].Periods = append(out.Blocks[n-1].Periods, slot.Period)
			continue
		}
		out.Blocks = append(out.Blocks, block)
	}
	return out, nil
}

func sameRun(open, next models.Block) bool {
	return open.TeacherID == next.TeacherID && open.Subject == next.Subject && open.AdminLocked == next.AdminLocked
}

// UngroupBlocks expands blocks back to one record per period, each keyed by RecordID.
func UngroupBlocks(blocks []models.Block, date, classID string) []models.AttendanceRecord {
	var records []models.AttendanceRecord
	for _, block := range blocks {
		for _, period := range block.Periods {
			records = append(records, models.AttendanceRecord{
				ID:            models.RecordID(date, classID, period),
				TeacherID:     block.TeacherID,
				TeacherName:   block.TeacherName,
				Subject:       block.Subject,
				ClassID:       classID,
				Date:          date,
				Period:        period,
				Status:        block.Status,
				Note:          block.Note,
				AdminAuthored: block.AdminLocked,
			})
		}
	}
	return records
}
