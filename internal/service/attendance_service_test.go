package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

func newAttendanceFixture(repo *fakeRecordRepo, st *AppState) (*AttendanceService, *SyncService) {
	syncSvc := newTestSync(repo, st)
	return NewAttendanceService(syncSvc, repo, nil, nil, nil), syncSvc
}

func TestAttendanceFormDerivesBlocks(t *testing.T) {
	svc, _ := newAttendanceFixture(newFakeRepo(), fixtureState())

	form, err := svc.Form(fixtureMonday, "7A")
	require.NoError(t, err)
	assert.Equal(t, "SENIN", form.Day)
	assert.Len(t, form.Blocks, 2)

	empty, err := svc.Form(fixtureMonday, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Blocks)

	_, err = svc.Form(fixtureMonday, "10Z")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAttendanceSubmitWritesOneRecordPerPeriod(t *testing.T) {
	repo := newFakeRepo()
	svc, syncSvc := newAttendanceFixture(repo, fixtureState())
	before := syncSvc.Snapshot().Version

	result, err := svc.Submit(context.Background(), dto.SubmitAttendanceRequest{
		Date:    fixtureMonday,
		ClassID: "7A",
		Blocks: []dto.SubmitBlock{
			{Periods: []string{"1"}, Status: models.AttendanceStatusPresent, Note: "Hadir tepat waktu"},
			{Periods: []string{"2", "3", "4", "5", "6"}, Status: models.AttendanceStatusAbsent, Note: " Izin tanpa keterangan "},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.OK())
	require.Len(t, result.Records, 6)
	assert.Len(t, repo.savedAttendance, 6)

	for _, rec := range result.Records[1:] {
		assert.Equal(t, models.AttendanceStatusAbsent, rec.Status)
		assert.Equal(t, "Izin tanpa keterangan", rec.Note)
		assert.False(t, rec.AdminAuthored)
	}

	snap := syncSvc.Snapshot()
	assert.Greater(t, snap.Version, before)
	assert.Len(t, snap.Attendance, 6)

	form, err := svc.Form(fixtureMonday, "7A")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusAbsent, form.Blocks[1].Status)
}

func TestAttendanceSubmitKeepsAdminLockedBlocks(t *testing.T) {
	admin := record(fixtureMonday, "7B", "1", "RB", models.AttendanceStatusSick)
	admin.Note = "Sakit dengan surat"
	admin.AdminAuthored = true
	repo := newFakeRepo()
	svc, _ := newAttendanceFixture(repo, fixtureState(admin))

	result, err := svc.Submit(context.Background(), dto.SubmitAttendanceRequest{
		Date:    fixtureMonday,
		ClassID: "7A",
		Blocks: []dto.SubmitBlock{
			{Periods: []string{"2"}, Status: models.AttendanceStatusPresent},
		},
	})
	require.NoError(t, err)
	for _, rec := range result.Records {
		if rec.TeacherID != "RB" {
			continue
		}
		assert.True(t, rec.AdminAuthored)
		assert.Equal(t, models.AttendanceStatusSick, rec.Status)
		assert.Equal(t, "Sakit dengan surat", rec.Note)
	}
}

func TestAttendanceSubmitRejections(t *testing.T) {
	ctx := context.Background()
	holiday := fixtureState()
	holiday.Settings.Events = []models.CalendarEvent{{ID: "ev", Date: fixtureMonday, Name: "Libur", Kind: models.EventKindHoliday}}

	cases := []struct {
		name  string
		state *AppState
		req   dto.SubmitAttendanceRequest
		want  error
	}{
		{
			name:  "empty blocks",
			state: fixtureState(),
			req:   dto.SubmitAttendanceRequest{Date: fixtureMonday, ClassID: "7A"},
			want:  appErrors.ErrValidation,
		},
		{
			name:  "holiday",
			state: holiday,
			req:   dto.SubmitAttendanceRequest{Date: fixtureMonday, ClassID: "7A", Blocks: []dto.SubmitBlock{{Periods: []string{"1"}, Status: models.AttendanceStatusPresent}}},
			want:  appErrors.ErrDateLocked,
		},
		{
			name:  "no lessons",
			state: fixtureState(),
			req:   dto.SubmitAttendanceRequest{Date: "2024-03-13", ClassID: "7A", Blocks: []dto.SubmitBlock{{Periods: []string{"1"}, Status: models.AttendanceStatusPresent}}},
			want:  appErrors.ErrNoScheduledSlots,
		},
		{
			name:  "unknown block",
			state: fixtureState(),
			req:   dto.SubmitAttendanceRequest{Date: fixtureMonday, ClassID: "7A", Blocks: []dto.SubmitBlock{{Periods: []string{"3"}, Status: models.AttendanceStatusPresent}}},
			want:  appErrors.ErrValidation,
		},
		{
			name:  "unknown status",
			state: fixtureState(),
			req:   dto.SubmitAttendanceRequest{Date: fixtureMonday, ClassID: "7A", Blocks: []dto.SubmitBlock{{Periods: []string{"1"}, Status: "Bolos"}}},
			want:  appErrors.ErrValidation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc, _ := newAttendanceFixture(repo, tc.state)
			_, err := svc.Submit(ctx, tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, repo.savedAttendance, "nothing reaches the store")
		})
	}
}

func TestAttendanceSubmitRequiresConfiguredStore(t *testing.T) {
	repo := newFakeRepo()
	repo.configured = false
	svc, _ := newAttendanceFixture(repo, fixtureState())
	_, err := svc.Submit(context.Background(), dto.SubmitAttendanceRequest{
		Date: fixtureMonday, ClassID: "7A",
		Blocks: []dto.SubmitBlock{{Periods: []string{"1"}, Status: models.AttendanceStatusPresent}},
	})
	assert.ErrorIs(t, err, appErrors.ErrStoreNotConfigured)
}

func TestAttendanceSubmitGuardsReentry(t *testing.T) {
	repo := newFakeRepo()
	repo.block = make(chan struct{})
	svc, _ := newAttendanceFixture(repo, fixtureState())
	req := dto.SubmitAttendanceRequest{
		Date: fixtureMonday, ClassID: "7A",
		Blocks: []dto.SubmitBlock{{Periods: []string{"1"}, Status: models.AttendanceStatusPresent}},
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), req)
		done <- err
	}()

	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return len(svc.inFlight) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrSubmissionInFlight)

	close(repo.block)
	require.NoError(t, <-done)

	repo.block = nil
	_, err = svc.Submit(context.Background(), req)
	assert.NoError(t, err, "the guard is released after completion")
}

func TestAttendanceDeleteRecordsContinuesPastFailures(t *testing.T) {
	a := record(fixtureMonday, "7A", "1", "EM", models.AttendanceStatusPresent)
	b := record(fixtureMonday, "7A", "2", "RB", models.AttendanceStatusPresent)
	c := record(fixtureMonday, "7A", "3", "RB", models.AttendanceStatusPresent)
	repo := newFakeRepo()
	repo.failIDs[b.ID] = true
	svc, syncSvc := newAttendanceFixture(repo, fixtureState(a, b, c))

	result, err := svc.DeleteRecords(context.Background(), dto.DeleteAttendanceRequest{IDs: []string{a.ID, b.ID, "missing", c.ID}})
	assert.ErrorIs(t, err, appErrors.ErrPartialFailure)
	require.NotNil(t, result)
	assert.Equal(t, 4, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Len(t, result.Failed, 2)
	assert.Equal(t, []string{a.ID, c.ID}, repo.deleted)

	remaining := syncSvc.Snapshot().Attendance
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID)
}

func TestClassDaySchedule(t *testing.T) {
	rec := record(fixtureMonday, "7A", "1", "EM", models.AttendanceStatusSick)
	st := fixtureState(rec)
	st.Settings.Events = []models.CalendarEvent{{ID: "ev", Date: fixtureMonday, Kind: models.EventKindSpecificHours, AffectedPeriods: []string{"6"}}}
	svc, _ := newAttendanceFixture(newFakeRepo(), st)

	view, err := svc.ClassDaySchedule(fixtureMonday, "7A")
	require.NoError(t, err)
	require.Len(t, view.Rows, 7)

	assert.Equal(t, "0", view.Rows[0].Period)
	assert.False(t, view.Rows[0].Teaching)
	assert.Equal(t, "Upacara Bendera", view.Rows[0].Activity)

	assert.Equal(t, "EM", view.Rows[1].TeacherID)
	assert.Equal(t, "Matematika", view.Rows[1].Subject)
	assert.Equal(t, models.AttendanceStatusSick, view.Rows[1].Status)

	assert.True(t, view.Rows[6].Suspended)
	assert.False(t, view.Rows[5].Suspended)
}
