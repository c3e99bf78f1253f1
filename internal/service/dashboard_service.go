package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/masterdata"
	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
	Location *time.Location
}

// DashboardService composes the role dashboards from the in-memory state.
type DashboardService struct {
	sync       *SyncService
	attendance *AttendanceService
	cache      *CacheService
	logger     *zap.Logger
	now        func() time.Time
	cfg        DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(sync *SyncService, attendance *AttendanceService, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{sync: sync, attendance: attendance, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// Today returns the current school date.
func (s *DashboardService) Today() string {
	return s.now().In(s.cfg.Location).Format(dateLayout)
}

// ResolveWindow turns query parameters into a Window. The reference instant is midnight of the
// requested date (today when empty) in the school timezone.
func (s *DashboardService) ResolveWindow(q dto.DashboardQuery) (Window, error) {
	filter, err := ParseTimeFilter(q.Filter)
	if err != nil {
		return Window{}, err
	}
	date := strings.TrimSpace(q.Date)
	if date == "" {
		date = s.Today()
	}
	ref, err := time.ParseInLocation(dateLayout, date, s.cfg.Location)
	if err != nil {
		return Window{}, appErrors.Clone(appErrors.ErrValidation, "date must use the YYYY-MM-DD format")
	}
	w := Window{Filter: filter, Reference: ref}
	if month := strings.TrimSpace(q.Month); month != "" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return Window{}, appErrors.Clone(appErrors.ErrValidation, "month must be between 01 and 12")
		}
		w.Month = fmt.Sprintf("%02d", m)
	}
	return w, nil
}

func windowKey(w Window) []string {
	return []string{string(w.Filter), w.Reference.Format(dateLayout), w.Month}
}

// cached serves dest from cache when possible, otherwise builds and stores it.
func (s *DashboardService) cached(ctx context.Context, key string, dest interface{}, build func() error) (bool, error) {
	if hit, err := s.cache.Get(ctx, key, dest); err == nil && hit {
		return true, nil
	}
	if err := build(); err != nil {
		return false, err
	}
	_ = s.cache.Set(ctx, key, dest, s.cfg.CacheTTL)
	return false, nil
}

// Overview is the administrator dashboard. The bool reports a cache hit.
func (s *DashboardService) Overview(ctx context.Context, q dto.DashboardQuery) (*dto.AdminOverview, bool, error) {
	w, err := s.ResolveWindow(q)
	if err != nil {
		return nil, false, err
	}
	snap := s.sync.Snapshot()
	var out dto.AdminOverview
	hit, err := s.cached(ctx, DashboardKey("overview", snap.Version, windowKey(w)...), &out, func() error {
		agg := Aggregate(snap.Attendance, w, masterdata.Classes(), snap.Teachers)
		out = dto.AdminOverview{
			Window:       w.Info(),
			Totals:       agg.ByStatus,
			OverallRate:  RatePercent(agg.ByStatus.Present, agg.ByStatus.Total),
			ByClass:      agg.Classes,
			ByTeacher:    agg.ByTeacher,
			Distribution: Distribute(FilterRecords(snap.Attendance, w), GroupByClass, classLabel),
		}
		return nil
	})
	return &out, hit, err
}

// ClassDetail drills into one class and distributes its records by teacher.
func (s *DashboardService) ClassDetail(ctx context.Context, classID string, q dto.DashboardQuery) (*dto.ClassDetail, bool, error) {
	class, ok := masterdata.ClassByID(classID)
	if !ok {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	w, err := s.ResolveWindow(q)
	if err != nil {
		return nil, false, err
	}
	snap := s.sync.Snapshot()
	var out dto.ClassDetail
	hit, err := s.cached(ctx, DashboardKey("class", snap.Version, append([]string{classID}, windowKey(w)...)...), &out, func() error {
		records := recordsWhere(FilterRecords(snap.Attendance, w), func(r models.AttendanceRecord) bool { return r.ClassID == classID })
		totals := CountStatuses(records)
		names := teacherNames(snap.Teachers)
		out = dto.ClassDetail{
			Window:       w.Info(),
			Class:        class,
			Summary:      summarize(totals.Total, totals.Present),
			Totals:       totals,
			Distribution: Distribute(records, GroupByTeacher, func(id string) string { return names[id] }),
			Records:      records,
		}
		return nil
	})
	return &out, hit, err
}

// TeacherDetail drills into one teacher and distributes their records by class.
func (s *DashboardService) TeacherDetail(ctx context.Context, teacherID string, q dto.DashboardQuery) (*dto.TeacherDetail, bool, error) {
	snap := s.sync.Snapshot()
	teacher, ok := snap.TeacherByID(teacherID)
	if !ok {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	w, err := s.ResolveWindow(q)
	if err != nil {
		return nil, false, err
	}
	var out dto.TeacherDetail
	hit, err := s.cached(ctx, DashboardKey("teacher", snap.Version, append([]string{teacherID}, windowKey(w)...)...), &out, func() error {
		records := recordsWhere(FilterRecords(snap.Attendance, w), func(r models.AttendanceRecord) bool { return r.TeacherID == teacherID })
		totals := CountStatuses(records)
		out = dto.TeacherDetail{
			Window:       w.Info(),
			Teacher:      teacher,
			Summary:      summarize(totals.Total, totals.Present),
			Totals:       totals,
			Distribution: Distribute(records, GroupByClass, classLabel),
			Records:      records,
		}
		return nil
	})
	return &out, hit, err
}

// ClassRepView shows a class representative how each teacher of their class performs and what
// today's schedule looks like.
func (s *DashboardService) ClassRepView(ctx context.Context, classID string, q dto.DashboardQuery) (*dto.ClassRepDashboard, bool, error) {
	class, ok := masterdata.ClassByID(classID)
	if !ok {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	w, err := s.ResolveWindow(q)
	if err != nil {
		return nil, false, err
	}
	snap := s.sync.Snapshot()
	var out dto.ClassRepDashboard
	hit, err := s.cached(ctx, DashboardKey("classrep", snap.Version, append([]string{classID}, windowKey(w)...)...), &out, func() error {
		records := recordsWhere(snap.Attendance, func(r models.AttendanceRecord) bool { return r.ClassID == classID })
		agg := Aggregate(records, w, []models.ClassInfo{class}, nil)
		today, err := s.attendance.ClassDaySchedule(w.Reference.Format(dateLayout), classID)
		if err != nil {
			return err
		}
		out = dto.ClassRepDashboard{
			Window:    w.Info(),
			Class:     class,
			Summary:   agg.ByClass[classID],
			ByTeacher: agg.ByTeacher,
			Today:     *today,
		}
		return nil
	})
	return &out, hit, err
}

func recordsWhere(records []models.AttendanceRecord, keep func(models.AttendanceRecord) bool) []models.AttendanceRecord {
	out := []models.AttendanceRecord{}
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func classLabel(id string) string {
	if class, ok := masterdata.ClassByID(id); ok {
		return class.Name
	}
	return ""
}
