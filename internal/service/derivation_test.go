package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

func deriveFixture(t *testing.T, classID string, mutate func(*DerivationInput)) Derivation {
	t.Helper()
	in := DerivationInput{
		Date:     fixtureMonday,
		ClassID:  classID,
		Schedule: fixtureSchedule(),
		Teachers: fixtureTeachers(),
	}
	if mutate != nil {
		mutate(&in)
	}
	d, err := DeriveBlocks(in)
	require.NoError(t, err)
	return d
}

func periodsOf(blocks []models.Block) [][]string {
	out := make([][]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Periods
	}
	return out
}

func TestDeriveBlocksGroupsConsecutivePeriods(t *testing.T) {
	d := deriveFixture(t, "7A", nil)

	assert.Equal(t, "SENIN", d.Day)
	assert.False(t, d.Locked)
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, [][]string{{"1"}, {"2", "3", "4", "5", "6"}}, periodsOf(d.Blocks))

	ipa := d.Blocks[1]
	assert.Equal(t, "RB", ipa.TeacherID)
	assert.Equal(t, "Rebby Dwi Prataopu, S.Si", ipa.TeacherName)
	assert.Equal(t, "Ilmu Pengetahuan Alam", ipa.Subject)
	assert.Equal(t, models.AttendanceStatusPresent, ipa.Status)
	assert.Equal(t, models.DefaultPresentNote, ipa.Note)
	assert.False(t, ipa.AdminLocked)
}

func TestDeriveBlocksSplitsAtTeacherChange(t *testing.T) {
	d := deriveFixture(t, "7A", func(in *DerivationInput) {
		for i, slot := range in.Schedule {
			if slot.Day == "SENIN" && models.ComparePeriods(slot.Period, "4") >= 0 {
				in.Schedule[i].Mapping = map[string]string{"7A": "IPA-MY"}
			}
		}
	})

	assert.Equal(t, [][]string{{"1"}, {"2", "3"}, {"4", "5", "6"}}, periodsOf(d.Blocks))
	assert.Equal(t, "MY", d.Blocks[2].TeacherID)
	assert.Equal(t, "MY", d.Blocks[2].TeacherName, "unknown teachers fall back to the raw id")
}

func TestDeriveBlocksSkipsMalformedMappingsAndNonTeachingSlots(t *testing.T) {
	d := deriveFixture(t, "7B", nil)

	assert.Equal(t, [][]string{{"1"}, {"2", "3"}, {"4"}, {"6"}}, periodsOf(d.Blocks))
	for _, b := range d.Blocks {
		assert.NotContains(t, b.Periods, "0")
		assert.NotContains(t, b.Periods, "5")
	}
}

func TestDeriveBlocksEmptyClassYieldsEmptyList(t *testing.T) {
	d := deriveFixture(t, "", nil)
	assert.Empty(t, d.Blocks)
	assert.False(t, d.Locked)
}

func TestDeriveBlocksRejectsMalformedDate(t *testing.T) {
	_, err := DeriveBlocks(DerivationInput{Date: "11/03/2024", ClassID: "7A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestDeriveBlocksHolidaySuspendsDay(t *testing.T) {
	for _, kind := range []models.EventKind{models.EventKindHoliday, models.EventKindActivity} {
		d := deriveFixture(t, "7A", func(in *DerivationInput) {
			in.Events = []models.CalendarEvent{{ID: "ev", Date: fixtureMonday, Name: "Libur", Kind: kind}}
		})
		assert.True(t, d.Locked, kind)
		assert.Empty(t, d.Blocks, kind)
		assert.Len(t, d.Events, 1)
	}
}

func TestDeriveBlocksHolidayOnOtherDateIsIgnored(t *testing.T) {
	d := deriveFixture(t, "7A", func(in *DerivationInput) {
		in.Events = []models.CalendarEvent{{ID: "ev", Date: "2024-05-01", Name: "Hari Buruh", Kind: models.EventKindHoliday}}
	})
	assert.False(t, d.Locked)
	assert.Len(t, d.Blocks, 2)
}

func TestDeriveBlocksSpecificHoursExcludesPeriods(t *testing.T) {
	d := deriveFixture(t, "7A", func(in *DerivationInput) {
		in.Events = []models.CalendarEvent{{ID: "ev", Date: fixtureMonday, Name: "Rapat", Kind: models.EventKindSpecificHours, AffectedPeriods: []string{"3", "4"}}}
	})

	assert.False(t, d.Locked)
	assert.Equal(t, [][]string{{"1"}, {"2", "5", "6"}}, periodsOf(d.Blocks))
}

func TestDeriveBlocksMergesEventsOnSameDate(t *testing.T) {
	d := deriveFixture(t, "7A", func(in *DerivationInput) {
		in.Events = []models.CalendarEvent{
			{ID: "a", Date: fixtureMonday, Kind: models.EventKindSpecificHours, AffectedPeriods: []string{"1"}},
			{ID: "b", Date: fixtureMonday, Kind: models.EventKindSpecificHours, AffectedPeriods: []string{"6"}},
		}
	})
	assert.Equal(t, [][]string{{"2", "3", "4", "5"}}, periodsOf(d.Blocks))

	d = deriveFixture(t, "7A", func(in *DerivationInput) {
		in.Events = []models.CalendarEvent{
			{ID: "a", Date: fixtureMonday, Kind: models.EventKindSpecificHours, AffectedPeriods: []string{"1"}},
			{ID: "b", Date: fixtureMonday, Kind: models.EventKindHoliday},
		}
	})
	assert.True(t, d.Locked)
	assert.Empty(t, d.Blocks)
}

func TestDeriveBlocksReusesExistingRecords(t *testing.T) {
	sick := record(fixtureMonday, "7A", "1", "EM", models.AttendanceStatusSick)
	sick.Note = "Sakit dengan surat"
	absent := record(fixtureMonday, "7A", "2", "RB", models.AttendanceStatusAbsent)
	otherClass := record(fixtureMonday, "7B", "1", "RB", models.AttendanceStatusAbsent)

	d := deriveFixture(t, "7A", func(in *DerivationInput) {
		in.Records = []models.AttendanceRecord{sick, absent, otherClass}
	})

	// status is not part of the run key, so the block keeps the outcome of its first period
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, models.AttendanceStatusSick, d.Blocks[0].Status)
	assert.Equal(t, "Sakit dengan surat", d.Blocks[0].Note)
	assert.Equal(t, []string{"2", "3", "4", "5", "6"}, d.Blocks[1].Periods)
	assert.Equal(t, models.AttendanceStatusAbsent, d.Blocks[1].Status)
	assert.Equal(t, models.DefaultPresentNote, d.Blocks[1].Note, "empty notes fall back to the default")
}

func TestDeriveBlocksAdminRecordTakesPrecedence(t *testing.T) {
	student := record(fixtureMonday, "7A", "1", "EM", models.AttendanceStatusPresent)
	student.Note = "Hadir tepat waktu"
	admin := record(fixtureMonday, "7A", "1", "EM", models.AttendanceStatusLeave)
	admin.Note = "Dinas luar"
	admin.AdminAuthored = true

	for name, records := range map[string][]models.AttendanceRecord{
		"admin last":  {student, admin},
		"admin first": {admin, student},
	} {
		d := deriveFixture(t, "7A", func(in *DerivationInput) { in.Records = records })
		require.NotEmpty(t, d.Blocks, name)
		first := d.Blocks[0]
		assert.True(t, first.AdminLocked, name)
		assert.Equal(t, models.AttendanceStatusLeave, first.Status, name)
		assert.Equal(t, "Dinas luar", first.Note, name)
	}
}

func TestDeriveBlocksAdminLockCoversTeacherAcrossClasses(t *testing.T) {
	admin := record(fixtureMonday, "7B", "2", "RB", models.AttendanceStatusSick)
	admin.AdminAuthored = true

	d := deriveFixture(t, "7A", func(in *DerivationInput) {
		in.Records = []models.AttendanceRecord{admin}
	})

	require.Len(t, d.Blocks, 2)
	assert.True(t, d.Blocks[1].AdminLocked)
	assert.Equal(t, models.AttendanceStatusSick, d.Blocks[1].Status)
	assert.False(t, d.Blocks[0].AdminLocked)
}

func TestUngroupBlocksRoundTrip(t *testing.T) {
	d := deriveFixture(t, "7A", nil)
	d.Blocks[1].Status = models.AttendanceStatusAbsent
	d.Blocks[1].Note = "Izin tanpa keterangan"

	records := UngroupBlocks(d.Blocks, fixtureMonday, "7A")

	require.Len(t, records, 6)
	seen := map[string]bool{}
	for _, rec := range records {
		assert.Equal(t, models.RecordID(fixtureMonday, "7A", rec.Period), rec.ID)
		assert.False(t, seen[rec.Period], "period %s emitted twice", rec.Period)
		seen[rec.Period] = true
		if rec.Period == "1" {
			assert.Equal(t, models.AttendanceStatusPresent, rec.Status)
			continue
		}
		assert.Equal(t, models.AttendanceStatusAbsent, rec.Status)
		assert.Equal(t, "Izin tanpa keterangan", rec.Note)
		assert.Equal(t, "RB", rec.TeacherID)
	}

	again := deriveFixture(t, "7A", func(in *DerivationInput) { in.Records = records })
	assert.Equal(t, periodsOf(d.Blocks), periodsOf(again.Blocks))
	assert.Equal(t, models.AttendanceStatusAbsent, again.Blocks[1].Status)
}
