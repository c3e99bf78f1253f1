package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/masterdata"
	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/internal/repository"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

const cronRefreshTimeout = 2 * time.Minute

// RecordRepository is the persistence surface every write path goes through.
type RecordRepository interface {
	Configured() bool
	Load(ctx context.Context) (*repository.Dataset, error)
	SaveAttendance(ctx context.Context, rec models.AttendanceRecord) error
	DeleteAttendance(ctx context.Context, id string) error
	SaveTeacher(ctx context.Context, teacher models.Teacher) error
	DeleteTeacher(ctx context.Context, id string) error
	SaveScheduleSlot(ctx context.Context, slot models.ScheduleSlot) error
	SaveSettings(ctx context.Context, settings models.AppSettings) error
}

// SyncService owns the in-memory state and keeps it aligned with the record store.
type SyncService struct {
	repo    RecordRepository
	state   *StateStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time

	refreshMu sync.Mutex
	mu        sync.RWMutex
	status    string
	lastErr   string

	// commitMu orders commits against the snapshot swap of a refresh. While a refresh is
	// loading, every commit is also logged in pending and replayed onto the fetched data.
	commitMu  sync.Mutex
	recording bool
	pending   []func(*AppState) *AppState
}

// NewSyncService constructs the service. A nil state store starts from the seed data.
func NewSyncService(repo RecordRepository, state *StateStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *SyncService {
	if state == nil {
		state = NewStateStore(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		repo:    repo,
		state:   state,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		status:  dto.SyncStatusOffline,
	}
}

// Configured reports whether the record store can be reached at all.
func (s *SyncService) Configured() bool {
	return s.repo != nil && s.repo.Configured()
}

// Snapshot returns the current application state.
func (s *SyncService) Snapshot() *AppState {
	return s.state.Snapshot()
}

// Refresh downloads every table and swaps in a new snapshot. On failure the last known good
// snapshot stays in place and the status flips to error.
func (s *SyncService) Refresh(ctx context.Context) (dto.SyncStatus, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if !s.Configured() {
		s.setStatus(dto.SyncStatusOffline, "")
		return s.Status(), appErrors.ErrStoreNotConfigured
	}

	s.startRecording()
	ds, err := s.repo.Load(ctx)
	if err != nil {
		s.stopRecording()
		s.setStatus(dto.SyncStatusError, err.Error())
		s.logger.Error("record store refresh failed", zap.Error(err))
		return s.Status(), err
	}

	next, replayed := s.install(ds, s.now())
	s.metrics.SetStateVersion(next.Version)
	s.setStatus(dto.SyncStatusSynced, "")
	_ = s.cache.InvalidateDashboards(ctx)

	s.logger.Info("record store refreshed",
		zap.Uint64("version", next.Version),
		zap.Int("attendance", len(next.Attendance)),
		zap.Int("teachers", len(next.Teachers)),
		zap.Int("schedule", len(next.Schedule)),
		zap.Int("events", len(next.Settings.Events)),
		zap.Int("replayed_commits", replayed),
	)
	return s.Status(), nil
}

func (s *SyncService) startRecording() {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.recording = true
	s.pending = nil
}

func (s *SyncService) stopRecording() {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.recording = false
	s.pending = nil
}

// install swaps in the downloaded dataset with every commit made since the load started
// applied on top, so writes confirmed during the download are not lost.
func (s *SyncService) install(ds *repository.Dataset, syncedAt time.Time) (*AppState, int) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	pending := s.pending
	s.recording = false
	s.pending = nil

	next := s.state.Update(func(*AppState) *AppState {
		fresh := stateFromDataset(ds, syncedAt)
		for _, fn := range pending {
			if applied := fn(fresh); applied != nil {
				fresh = applied
			}
		}
		return fresh
	})
	return next, len(pending)
}

// stateFromDataset builds a snapshot from downloaded tables. Empty roster or timetable tables
// fall back to the seed so a freshly provisioned spreadsheet still yields a usable form.
func stateFromDataset(ds *repository.Dataset, syncedAt time.Time) *AppState {
	next := &AppState{
		Teachers:   ds.Teachers,
		Schedule:   ds.Schedule,
		Attendance: ds.Attendance,
		LastSync:   syncedAt,
	}
	if len(next.Teachers) == 0 {
		next.Teachers = masterdata.Teachers()
	}
	if len(next.Schedule) == 0 {
		next.Schedule = masterdata.Schedule()
	}
	if next.Attendance == nil {
		next.Attendance = []models.AttendanceRecord{}
	}
	if ds.Settings != nil {
		next.Settings = *ds.Settings
	} else {
		next.Settings = masterdata.DefaultSettings()
	}
	if next.Settings.Events == nil {
		next.Settings.Events = []models.CalendarEvent{}
	}
	return next
}

// Status reports sync freshness and collection sizes.
func (s *SyncService) Status() dto.SyncStatus {
	snap := s.state.Snapshot()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := dto.SyncStatus{
		Status:     s.status,
		Configured: s.Configured(),
		LastError:  s.lastErr,
		Version:    snap.Version,
		Counts: map[string]int{
			"attendance": len(snap.Attendance),
			"teachers":   len(snap.Teachers),
			"schedule":   len(snap.Schedule),
			"events":     len(snap.Settings.Events),
		},
	}
	if !snap.LastSync.IsZero() {
		last := snap.LastSync
		out.LastSync = &last
	}
	return out
}

func (s *SyncService) setStatus(status, lastErr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != status {
		s.logger.Info("sync status changed", zap.String("from", s.status), zap.String("to", status))
	}
	s.status = status
	s.lastErr = lastErr
}

// Commit installs a copy-on-write change after a confirmed write and drops cached dashboards.
func (s *SyncService) Commit(ctx context.Context, fn func(*AppState) *AppState) *AppState {
	s.commitMu.Lock()
	next := s.state.Update(fn)
	if s.recording {
		s.pending = append(s.pending, fn)
	}
	s.commitMu.Unlock()
	s.metrics.SetStateVersion(next.Version)
	_ = s.cache.InvalidateDashboards(ctx)
	return next
}

// StartCron schedules periodic refreshes. Overlapping runs are skipped. Callers stop the returned
// scheduler on shutdown.
func (s *SyncService) StartCron(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cronRefreshTimeout)
		defer cancel()
		if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, appErrors.ErrStoreNotConfigured) {
			s.logger.Warn("scheduled refresh failed", zap.Error(err))
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	s.logger.Info("scheduled record store refresh", zap.String("schedule", spec))
	return c, nil
}
