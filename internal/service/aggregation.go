package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

// TimeFilter names a reporting window.
type TimeFilter string

const (
	FilterDaily    TimeFilter = "DAILY"
	FilterWeekly   TimeFilter = "WEEKLY"
	FilterMonthly  TimeFilter = "MONTHLY"
	FilterSemester TimeFilter = "SEMESTER"
)

const weeklyWindow = 7 * 24 * time.Hour

// ParseTimeFilter accepts a filter name case-insensitively. Empty means DAILY.
func ParseTimeFilter(raw string) (TimeFilter, error) {
	switch f := TimeFilter(strings.ToUpper(strings.TrimSpace(raw))); f {
	case "":
		return FilterDaily, nil
	case FilterDaily, FilterWeekly, FilterMonthly, FilterSemester:
		return f, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown filter %q", raw))
	}
}

// Window is a resolved reporting window. Reference is the moment the window is measured from;
// Month ("01".."12") applies to MONTHLY and defaults to the reference month.
type Window struct {
	Filter    TimeFilter
	Reference time.Time
	Month     string
}

func (w Window) month() string {
	if w.Month != "" {
		return w.Month
	}
	return fmt.Sprintf("%02d", int(w.Reference.Month()))
}

// Info echoes the window for responses.
func (w Window) Info() dto.WindowInfo {
	info := dto.WindowInfo{Filter: string(w.Filter), Reference: w.Reference.Format(dateLayout)}
	if w.Filter == FilterMonthly {
		info.Month = w.month()
	}
	return info
}

// Includes reports whether a record falls inside the window.
//
// DAILY matches the reference date exactly. WEEKLY keeps records dated at most 7×24h before the
// reference instant and never after it. MONTHLY matches month and the reference year.
// SEMESTER keeps everything.
func (w Window) Includes(rec models.AttendanceRecord) bool {
	switch w.Filter {
	case FilterDaily:
		return rec.Date == w.Reference.Format(dateLayout)
	case FilterWeekly:
		recorded, err := time.ParseInLocation(dateLayout, rec.Date, w.Reference.Location())
		if err != nil {
			return false
		}
		delta := w.Reference.Sub(recorded)
		return delta >= 0 && delta <= weeklyWindow
	case FilterMonthly:
		if len(rec.Date) < 7 {
			return false
		}
		return rec.Date[5:7] == w.month() && rec.Date[:4] == fmt.Sprintf("%04d", w.Reference.Year())
	case FilterSemester:
		return true
	default:
		return false
	}
}

// FilterRecords returns the records inside the window, preserving order.
func FilterRecords(records []models.AttendanceRecord, w Window) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		if w.Includes(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// RatePercent rounds present/total*100 half-up; zero totals yield zero.
func RatePercent(present, total int) int {
	if total <= 0 {
		return 0
	}
	return (present*200 + total) / (2 * total)
}

func summarize(count, present int) dto.RateSummary {
	return dto.RateSummary{Count: count, PresentCount: present, RatePercent: RatePercent(present, count)}
}

// Aggregation is the result of Aggregate.
type Aggregation struct {
	ByClass   map[string]dto.RateSummary
	Classes   []dto.ClassRate
	ByTeacher []dto.TeacherRate
	ByStatus  dto.StatusTotals
}

// CountStatuses tallies records by outcome.
func CountStatuses(records []models.AttendanceRecord) dto.StatusTotals {
	var totals dto.StatusTotals
	for _, rec := range records {
		totals.Total++
		switch rec.Status {
		case models.AttendanceStatusPresent:
			totals.Present++
		case models.AttendanceStatusLeave, models.AttendanceStatusSick:
			totals.LeaveOrSick++
		case models.AttendanceStatusAbsent:
			totals.Absent++
		}
	}
	return totals
}

type tally struct {
	count, present int
}

// Aggregate computes per-class and per-teacher rates over the records inside the window.
// Every known class and teacher appears even without records; unknown ids found in records
// are appended in encounter order. Teachers are ranked by rate, ties keeping roster order.
func Aggregate(records []models.AttendanceRecord, w Window, classes []models.ClassInfo, teachers []models.Teacher) Aggregation {
	filtered := FilterRecords(records, w)

	classTally := map[string]*tally{}
	classOrder := make([]string, 0, len(classes))
	classNames := map[string]string{}
	for _, c := range classes {
		classTally[c.ID] = &tally{}
		classOrder = append(classOrder, c.ID)
		classNames[c.ID] = c.Name
	}
	teacherTally := map[string]*tally{}
	teacherOrder := make([]string, 0, len(teachers))
	names := map[string]string{}
	for _, t := range teachers {
		teacherTally[t.ID] = &tally{}
		teacherOrder = append(teacherOrder, t.ID)
		names[t.ID] = t.Name
	}

	for _, rec := range filtered {
		ct, ok := classTally[rec.ClassID]
		if !ok {
			ct = &tally{}
			classTally[rec.ClassID] = ct
			classOrder = append(classOrder, rec.ClassID)
		}
		tt, ok := teacherTally[rec.TeacherID]
		if !ok {
			tt = &tally{}
			teacherTally[rec.TeacherID] = tt
			teacherOrder = append(teacherOrder, rec.TeacherID)
			if rec.TeacherName != "" {
				names[rec.TeacherID] = rec.TeacherName
			}
		}
		ct.count++
		tt.count++
		if rec.Status == models.AttendanceStatusPresent {
			ct.present++
			tt.present++
		}
	}

	agg := Aggregation{
		ByClass:   make(map[string]dto.RateSummary, len(classOrder)),
		Classes:   make([]dto.ClassRate, 0, len(classOrder)),
		ByTeacher: make([]dto.TeacherRate, 0, len(teacherOrder)),
		ByStatus:  CountStatuses(filtered),
	}
	for _, id := range classOrder {
		summary := summarize(classTally[id].count, classTally[id].present)
		agg.ByClass[id] = summary
		name := classNames[id]
		if name == "" {
			name = id
		}
		agg.Classes = append(agg.Classes, dto.ClassRate{ClassID: id, ClassName: name, RateSummary: summary})
	}
	for _, id := range teacherOrder {
		agg.ByTeacher = append(agg.ByTeacher, dto.TeacherRate{
			TeacherID:   id,
			Name:        nameOr(names, id),
			RateSummary: summarize(teacherTally[id].count, teacherTally[id].present),
		})
	}
	sort.SliceStable(agg.ByTeacher, func(i, j int) bool {
		return agg.ByTeacher[i].RatePercent > agg.ByTeacher[j].RatePercent
	})
	return agg
}

// GroupBy selects the distribution key.
type GroupBy string

const (
	GroupByClass   GroupBy = "class"
	GroupByTeacher GroupBy = "teacher"
)

// Distribute buckets records into Hadir/Izin/Sakit/Alpha per class or teacher, in first-seen order.
// label maps a key to its display name; nil keeps the key (or the denormalised teacher name).
func Distribute(records []models.AttendanceRecord, by GroupBy, label func(key string) string) []dto.DistributionRow {
	rows := []dto.DistributionRow{}
	index := map[string]int{}
	for _, rec := range records {
		key := rec.ClassID
		fallback := rec.ClassID
		if by == GroupByTeacher {
			key = rec.TeacherID
			fallback = rec.TeacherName
		}
		i, ok := index[key]
		if !ok {
			name := fallback
			if label != nil {
				if l := label(key); l != "" {
					name = l
				}
			}
			if name == "" {
				name = key
			}
			index[key] = len(rows)
			rows = append(rows, dto.DistributionRow{Key: key, Label: name})
			i = len(rows) - 1
		}
		row := &rows[i]
		switch rec.Status.DistributionBucket() {
		case models.BucketPresent:
			row.Hadir++
		case models.BucketLeave:
			row.Izin++
		case models.BucketSick:
			row.Sakit++
		case models.BucketAlpha:
			row.Alpha++
		}
		row.Total++
	}
	return rows
}

var monthLabels = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"}

// SemesterMonths lists the months offered by MONTHLY filters: July to December for the odd
// semester, January to June for the even one.
func SemesterMonths(semester models.Semester) []dto.MonthOption {
	start := 1
	if semester == models.SemesterOdd {
		start = 7
	}
	months := make([]dto.MonthOption, 0, 6)
	for m := start; m < start+6; m++ {
		months = append(months, dto.MonthOption{Value: fmt.Sprintf("%02d", m), Label: monthLabels[m-1]})
	}
	return months
}
