package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/pkg/recordstore"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

type storeCall struct {
	table recordstore.Table
	data  interface{}
	id    string
}

type fakeStoreClient struct {
	configured bool
	payload    *recordstore.Payload
	fetchErr   error
	writeErr   error
	upserts    []storeCall
	deletes    []storeCall
}

func (f *fakeStoreClient) Configured() bool { return f.configured }

func (f *fakeStoreClient) FetchAll(context.Context) (*recordstore.Payload, error) {
	return f.payload, f.fetchErr
}

func (f *fakeStoreClient) Upsert(_ context.Context, table recordstore.Table, data interface{}) error {
	f.upserts = append(f.upserts, storeCall{table: table, data: data})
	return f.writeErr
}

func (f *fakeStoreClient) Delete(_ context.Context, table recordstore.Table, id string) error {
	f.deletes = append(f.deletes, storeCall{table: table, id: id})
	return f.writeErr
}

func rawJSON(s string) json.RawMessage { return json.RawMessage(s) }

func TestLoadDecodesLooseSpreadsheetValues(t *testing.T) {
	client := &fakeStoreClient{configured: true, payload: &recordstore.Payload{
		Attendance: rawJSON(`[
			{"id":"2024-03-15-7A-2","id_guru":"FA","nama_guru":"Fakhita","mapel":"Seni","id_kelas":"7A","tanggal":"2024-03-15T00:00:00.000Z","jam":2,"status":"Hadir","catatan":"","is_admin_input":"TRUE"},
			{"id_guru":"EM","id_kelas":"7B","tanggal":"2024-03-15","jam":"3","status":"Izin","is_admin_input":false},
			{"status":"Hadir"}
		]`),
		Teachers: rawJSON(`[{"id":"SH","nama":"Dra. Sri Hayati","mapel":"Bahasa Indonesia, PPKn"},{"id":"","nama":"x"}]`),
		Schedule: rawJSON(`[{"hari":"senin","jam":2,"waktu":"07.40 - 08.20","kegiatan":"KBM","mapping":"{\"7A\":\"SENI-FA\"}"}]`),
		Settings: rawJSON(`[{"id":"settings","tahunPelajaran":"2025/2026","semester":"Ganjil","events":"[{\"id\":\"1\",\"tanggal\":\"2024-05-02\",\"nama\":\"Rapat\",\"tipe\":\"JAM_KHUSUS\",\"affected_jams\":\"3,4\"}]"}]`),
	}}

	ds, err := NewRecordStoreRepository(client).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Attendance, 2)
	first := ds.Attendance[0]
	assert.Equal(t, "2024-03-15", first.Date)
	assert.Equal(t, "2", first.Period)
	assert.True(t, first.AdminAuthored)
	assert.Equal(t, "2024-03-15-7B-3", ds.Attendance[1].ID)
	assert.False(t, ds.Attendance[1].AdminAuthored)

	require.Len(t, ds.Teachers, 1)
	assert.Equal(t, []string{"Bahasa Indonesia", "PPKn"}, ds.Teachers[0].Subjects)

	require.Len(t, ds.Schedule, 1)
	assert.Equal(t, "SENIN", ds.Schedule[0].Day)
	assert.Equal(t, "SENIN-2", ds.Schedule[0].ID)
	assert.Equal(t, "SENI-FA", ds.Schedule[0].Mapping["7A"])

	require.NotNil(t, ds.Settings)
	assert.Equal(t, models.SemesterOdd, ds.Settings.Semester)
	require.Len(t, ds.Settings.Events, 1)
	assert.Equal(t, []string{"3", "4"}, ds.Settings.Events[0].AffectedPeriods)
	assert.Equal(t, models.EventKindSpecificHours, ds.Settings.Events[0].Kind)
}

func TestLoadFallsBackToTopLevelEvents(t *testing.T) {
	client := &fakeStoreClient{configured: true, payload: &recordstore.Payload{
		Settings: rawJSON(`[{"tahunPelajaran":"2025/2026","semester":"Genap"}]`),
		Events:   rawJSON(`[{"id":"9","tanggal":"2024-05-01","nama":"Hari Buruh","tipe":"LIBUR"}]`),
	}}

	ds, err := NewRecordStoreRepository(client).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ds.Settings)
	require.Len(t, ds.Settings.Events, 1)
	assert.Equal(t, models.EventKindHoliday, ds.Settings.Events[0].Kind)
	assert.Empty(t, ds.Attendance)
}

func TestLoadWithoutSettingsLeavesNil(t *testing.T) {
	client := &fakeStoreClient{configured: true, payload: &recordstore.Payload{Settings: rawJSON(`[]`)}}
	ds, err := NewRecordStoreRepository(client).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ds.Settings)
}

func TestLoadErrors(t *testing.T) {
	_, err := NewRecordStoreRepository(&fakeStoreClient{}).Load(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrStoreNotConfigured)

	_, err = NewRecordStoreRepository(&fakeStoreClient{configured: true, fetchErr: errors.New("timeout")}).Load(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrSyncFailed)

	_, err = NewRecordStoreRepository(&fakeStoreClient{configured: true, fetchErr: recordstore.ErrNotConfigured}).Load(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrStoreNotConfigured)

	bad := &fakeStoreClient{configured: true, payload: &recordstore.Payload{Attendance: rawJSON(`{"not":"a list"}`)}}
	_, err = NewRecordStoreRepository(bad).Load(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrSyncFailed)
}

func TestWritesTargetTables(t *testing.T) {
	client := &fakeStoreClient{configured: true}
	repo := NewRecordStoreRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.SaveAttendance(ctx, models.AttendanceRecord{ID: "a"}))
	require.NoError(t, repo.SaveTeacher(ctx, models.Teacher{ID: "SH"}))
	require.NoError(t, repo.SaveScheduleSlot(ctx, models.ScheduleSlot{Day: "SENIN", Period: "2"}))
	require.NoError(t, repo.SaveSettings(ctx, models.AppSettings{AcademicYear: "2025/2026"}))
	require.NoError(t, repo.DeleteAttendance(ctx, "a"))
	require.NoError(t, repo.DeleteTeacher(ctx, "SH"))

	require.Len(t, client.upserts, 4)
	assert.Equal(t, recordstore.TableAttendance, client.upserts[0].table)
	assert.Equal(t, recordstore.TableTeachers, client.upserts[1].table)
	assert.Equal(t, "SENIN-2", client.upserts[2].data.(models.ScheduleSlot).ID)
	settings := client.upserts[3].data.(models.AppSettings)
	assert.Equal(t, "settings", settings.ID)
	assert.NotNil(t, settings.Events)
	assert.Equal(t, []storeCall{{table: recordstore.TableAttendance, id: "a"}, {table: recordstore.TableTeachers, id: "SH"}}, client.deletes)
}

func TestWriteErrorsAreMapped(t *testing.T) {
	client := &fakeStoreClient{configured: true, writeErr: errors.New("connection reset")}
	err := NewRecordStoreRepository(client).SaveAttendance(context.Background(), models.AttendanceRecord{ID: "a"})
	assert.ErrorIs(t, err, appErrors.ErrSyncFailed)

	err = NewRecordStoreRepository(&fakeStoreClient{}).DeleteAttendance(context.Background(), "a")
	assert.ErrorIs(t, err, appErrors.ErrStoreNotConfigured)
}
