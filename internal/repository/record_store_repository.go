package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/pkg/recordstore"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

// StoreClient is the transport used by RecordStoreRepository.
type StoreClient interface {
	Configured() bool
	FetchAll(ctx context.Context) (*recordstore.Payload, error)
	Upsert(ctx context.Context, table recordstore.Table, data interface{}) error
	Delete(ctx context.Context, table recordstore.Table, id string) error
}

// Dataset is the decoded content of every table. Settings is nil when the store has none.
type Dataset struct {
	Attendance []models.AttendanceRecord
	Teachers   []models.Teacher
	Schedule   []models.ScheduleSlot
	Settings   *models.AppSettings
}

// RecordStoreRepository maps domain models onto the record store tables.
type RecordStoreRepository struct {
	client StoreClient
}

// NewRecordStoreRepository constructs the repository.
func NewRecordStoreRepository(client StoreClient) *RecordStoreRepository {
	return &RecordStoreRepository{client: client}
}

// Configured reports whether the underlying endpoint is usable.
func (r *RecordStoreRepository) Configured() bool {
	return r.client != nil && r.client.Configured()
}

// Load fetches and decodes every table.
func (r *RecordStoreRepository) Load(ctx context.Context) (*Dataset, error) {
	if !r.Configured() {
		return nil, appErrors.ErrStoreNotConfigured
	}
	payload, err := r.client.FetchAll(ctx)
	if err != nil {
		return nil, mapStoreError(err, "failed to fetch record store data")
	}
	return decodePayload(payload)
}

func decodePayload(payload *recordstore.Payload) (*Dataset, error) {
	ds := &Dataset{}

	var attendance []wireAttendance
	if err := decodeTable(payload.Attendance, &attendance); err != nil {
		return nil, decodeError("attendance", err)
	}
	ds.Attendance = make([]models.AttendanceRecord, 0, len(attendance))
	for _, w := range attendance {
		rec := w.model()
		if rec.ID == "" {
			continue
		}
		ds.Attendance = append(ds.Attendance, rec)
	}

	var teachers []wireTeacher
	if err := decodeTable(payload.Teachers, &teachers); err != nil {
		return nil, decodeError("teachers", err)
	}
	for _, w := range teachers {
		if t := w.model(); t.ID != "" {
			ds.Teachers = append(ds.Teachers, t)
		}
	}

	var slots []wireSlot
	if err := decodeTable(payload.Schedule, &slots); err != nil {
		return nil, decodeError("schedule", err)
	}
	for _, w := range slots {
		if s := w.model(); s.Day != "" && s.Period != "" {
			ds.Schedule = append(ds.Schedule, s)
		}
	}

	var settings []wireSettings
	if err := decodeTable(payload.Settings, &settings); err != nil {
		return nil, decodeError("settings", err)
	}
	if len(settings) > 0 {
		cfg := settings[0]
		out := models.AppSettings{
			ID:           models.SettingsRecordID,
			AcademicYear: string(cfg.AcademicYear),
			Semester:     models.Semester(cfg.Semester),
			Events:       []models.CalendarEvent{},
		}
		events := cfg.Events
		if events == nil {
			var topLevel wireEvents
			if err := decodeTable(payload.Events, &topLevel); err != nil {
				return nil, decodeError("events", err)
			}
			events = &topLevel
		}
		for _, ev := range *events {
			if m := ev.model(); m.ID != "" {
				out.Events = append(out.Events, m)
			}
		}
		ds.Settings = &out
	}

	return ds, nil
}

func decodeTable(raw json.RawMessage, dest interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func decodeError(table string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrSyncFailed.Code, appErrors.ErrSyncFailed.Status,
		fmt.Sprintf("record store returned an unreadable %s table", table))
}

// SaveAttendance upserts one attendance record.
func (r *RecordStoreRepository) SaveAttendance(ctx context.Context, rec models.AttendanceRecord) error {
	return r.upsert(ctx, recordstore.TableAttendance, rec)
}

// DeleteAttendance removes one attendance record.
func (r *RecordStoreRepository) DeleteAttendance(ctx context.Context, id string) error {
	return r.delete(ctx, recordstore.TableAttendance, id)
}

// SaveTeacher upserts one roster entry.
func (r *RecordStoreRepository) SaveTeacher(ctx context.Context, teacher models.Teacher) error {
	return r.upsert(ctx, recordstore.TableTeachers, teacher)
}

// DeleteTeacher removes one roster entry.
func (r *RecordStoreRepository) DeleteTeacher(ctx context.Context, id string) error {
	return r.delete(ctx, recordstore.TableTeachers, id)
}

// SaveScheduleSlot upserts one timetable row.
func (r *RecordStoreRepository) SaveScheduleSlot(ctx context.Context, slot models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = models.SlotID(slot.Day, slot.Period)
	}
	return r.upsert(ctx, recordstore.TableSchedule, slot)
}

// SaveSettings upserts the settings singleton together with its events.
func (r *RecordStoreRepository) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	settings.ID = models.SettingsRecordID
	if settings.Events == nil {
		settings.Events = []models.CalendarEvent{}
	}
	return r.upsert(ctx, recordstore.TableSettings, settings)
}

func (r *RecordStoreRepository) upsert(ctx context.Context, table recordstore.Table, data interface{}) error {
	if !r.Configured() {
		return appErrors.ErrStoreNotConfigured
	}
	if err := r.client.Upsert(ctx, table, data); err != nil {
		return mapStoreError(err, fmt.Sprintf("failed to save %s record", table))
	}
	return nil
}

func (r *RecordStoreRepository) delete(ctx context.Context, table recordstore.Table, id string) error {
	if !r.Configured() {
		return appErrors.ErrStoreNotConfigured
	}
	if err := r.client.Delete(ctx, table, id); err != nil {
		return mapStoreError(err, fmt.Sprintf("failed to delete %s record", table))
	}
	return nil
}

func mapStoreError(err error, message string) error {
	if errors.Is(err, recordstore.ErrNotConfigured) {
		return appErrors.ErrStoreNotConfigured
	}
	return appErrors.Wrap(err, appErrors.ErrSyncFailed.Code, appErrors.ErrSyncFailed.Status, message)
}
