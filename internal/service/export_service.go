package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/masterdata"
	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/pkg/export"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	SchoolName string
	Location   *time.Location
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders attendance reports and the agenda feed.
type ExportService struct {
	sync       *SyncService
	dashboards *DashboardService
	ics        *export.ICSExporter
	logger     *zap.Logger
	now        func() time.Time
	cfg        ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(sync *SyncService, dashboards *DashboardService, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.SchoolName == "" {
		cfg.SchoolName = "SIAP GURU"
	}
	return &ExportService{
		sync:       sync,
		dashboards: dashboards,
		ics:        export.NewICSExporter("-//" + cfg.SchoolName + "//SIAP GURU//ID"),
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// AttendanceReport renders class rates, teacher ranking, the class distribution and the raw
// records of the window in the requested format.
func (s *ExportService) AttendanceReport(ctx context.Context, format string, q dto.DashboardQuery) (*ExportFile, error) {
	exporter, err := export.ForFormat(export.Format(strings.ToLower(strings.TrimSpace(format))))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	w, err := s.dashboards.ResolveWindow(q)
	if err != nil {
		return nil, err
	}

	snap := s.sync.Snapshot()
	records := FilterRecords(snap.Attendance, w)
	agg := Aggregate(snap.Attendance, w, masterdata.Classes(), snap.Teachers)

	doc := export.Document{
		Title:    "Rekap Kehadiran Guru " + s.cfg.SchoolName,
		Subtitle: windowSubtitle(w, snap.Settings),
		Datasets: []export.Dataset{
			classRateDataset(agg.Classes),
			teacherRateDataset(agg.ByTeacher),
			distributionDataset(Distribute(records, GroupByClass, classLabel)),
			recordDataset(records),
		},
	}
	payload, err := exporter.Render(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.logger.Info("attendance report exported",
		zap.String("format", exporter.Extension()),
		zap.String("filter", string(w.Filter)),
		zap.Int("records", len(records)),
	)
	return &ExportFile{
		Filename:    fmt.Sprintf("rekap-kehadiran-%s-%s.%s", strings.ToLower(string(w.Filter)), w.Reference.Format(dateLayout), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Payload:     payload,
	}, nil
}

func windowSubtitle(w Window, settings models.AppSettings) string {
	label := fmt.Sprintf("Tahun Pelajaran %s, Semester %s", settings.AcademicYear, settings.Semester)
	switch w.Filter {
	case FilterDaily:
		return label + ", tanggal " + w.Reference.Format(dateLayout)
	case FilterWeekly:
		return label + ", 7 hari sampai " + w.Reference.Format(dateLayout)
	case FilterMonthly:
		m, _ := strconv.Atoi(w.month())
		return fmt.Sprintf("%s, bulan %s %d", label, monthLabels[m-1], w.Reference.Year())
	default:
		return label
	}
}

func classRateDataset(rows []dto.ClassRate) export.Dataset {
	ds := export.Dataset{Name: "Per Kelas", Headers: []string{"Kelas", "Jumlah", "Hadir", "Persentase"}}
	for _, r := range rows {
		ds.Rows = append(ds.Rows, map[string]string{
			"Kelas":      r.ClassName,
			"Jumlah":     strconv.Itoa(r.Count),
			"Hadir":      strconv.Itoa(r.PresentCount),
			"Persentase": strconv.Itoa(r.RatePercent) + "%",
		})
	}
	return ds
}

func teacherRateDataset(rows []dto.TeacherRate) export.Dataset {
	ds := export.Dataset{Name: "Peringkat Guru", Headers: []string{"Kode", "Nama", "Jumlah", "Hadir", "Persentase"}}
	for _, r := range rows {
		ds.Rows = append(ds.Rows, map[string]string{
			"Kode":       r.TeacherID,
			"Nama":       r.Name,
			"Jumlah":     strconv.Itoa(r.Count),
			"Hadir":      strconv.Itoa(r.PresentCount),
			"Persentase": strconv.Itoa(r.RatePercent) + "%",
		})
	}
	return ds
}

func distributionDataset(rows []dto.DistributionRow) export.Dataset {
	ds := export.Dataset{Name: "Distribusi", Headers: []string{"Kelas", models.BucketPresent, models.BucketLeave, models.BucketSick, models.BucketAlpha, "Total"}}
	for _, r := range rows {
		ds.Rows = append(ds.Rows, map[string]string{
			"Kelas":              r.Label,
			models.BucketPresent: strconv.Itoa(r.Hadir),
			models.BucketLeave:   strconv.Itoa(r.Izin),
			models.BucketSick:    strconv.Itoa(r.Sakit),
			models.BucketAlpha:   strconv.Itoa(r.Alpha),
			"Total":              strconv.Itoa(r.Total),
		})
	}
	return ds
}

func recordDataset(records []models.AttendanceRecord) export.Dataset {
	ds := export.Dataset{Name: "Data Kehadiran", Headers: []string{"Tanggal", "Kelas", "Jam", "Guru", "Mapel", "Status", "Catatan", "Input Admin"}}
	for _, rec := range records {
		admin := "Tidak"
		if rec.AdminAuthored {
			admin = "Ya"
		}
		ds.Rows = append(ds.Rows, map[string]string{
			"Tanggal":     rec.Date,
			"Kelas":       rec.ClassID,
			"Jam":         rec.Period,
			"Guru":        rec.TeacherName,
			"Mapel":       rec.Subject,
			"Status":      rec.Status.DistributionBucket(),
			"Catatan":     rec.Note,
			"Input Admin": admin,
		})
	}
	return ds
}

// Agenda renders the calendar events as an iCalendar feed. Suspending events are transparent so
// they do not block personal calendars.
func (s *ExportService) Agenda(ctx context.Context) (*ExportFile, error) {
	settings := s.sync.Snapshot().Settings
	entries := make([]export.CalendarEntry, 0, len(settings.Events))
	for _, ev := range settings.Events {
		date, err := time.ParseInLocation(dateLayout, ev.Date, s.cfg.Location)
		if err != nil {
			s.logger.Warn("skipping event with malformed date", zap.String("id", ev.ID), zap.String("date", ev.Date))
			continue
		}
		uid := ev.ID
		if uid == "" {
			uid = uuid.NewSHA1(uuid.NameSpaceURL, []byte(ev.Date+"|"+ev.Name)).String()
		}
		entry := export.CalendarEntry{
			UID:         uid,
			Date:        date,
			Summary:     ev.Name,
			Category:    string(ev.Kind),
			Transparent: ev.Kind.SuspendsDay(),
		}
		if ev.Kind == models.EventKindSpecificHours && len(ev.AffectedPeriods) > 0 {
			entry.Description = "Jam ke-" + strings.Join(ev.AffectedPeriods, ", ") + " ditiadakan"
		}
		entries = append(entries, entry)
	}
	payload, err := s.ics.Render(entries, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render agenda")
	}
	return &ExportFile{Filename: "agenda.ics", ContentType: s.ics.ContentType(), Payload: payload}, nil
}
