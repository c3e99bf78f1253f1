package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordID(t *testing.T) {
	assert.Equal(t, "2024-03-15-7A-2", RecordID("2024-03-15", "7A", "2"))
}

func TestParseAssignment(t *testing.T) {
	subject, teacher, ok := ParseAssignment("SENI-FA")
	assert.True(t, ok)
	assert.Equal(t, "SENI", subject)
	assert.Equal(t, "FA", teacher)

	for _, raw := range []string{"SENI", "", "A-B-C", "-FA", "SENI-"} {
		_, _, ok := ParseAssignment(raw)
		assert.False(t, ok, raw)
	}
}

func TestSlotAssignment(t *testing.T) {
	slot := ScheduleSlot{Mapping: map[string]string{"7A": "MAT-EM", "7B": "MAT"}}
	_, teacher, ok := slot.Assignment("7A")
	assert.True(t, ok)
	assert.Equal(t, "EM", teacher)
	_, _, ok = slot.Assignment("7B")
	assert.False(t, ok)
	_, _, ok = slot.Assignment("9C")
	assert.False(t, ok)
}

func TestComparePeriods(t *testing.T) {
	assert.Negative(t, ComparePeriods("2", "10"))
	assert.Positive(t, ComparePeriods("8", "0"))
	assert.Zero(t, ComparePeriods("3", "3"))
	assert.Negative(t, ComparePeriods("1", "x"))
	assert.Positive(t, ComparePeriods("x", "1"))
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, "MINGGU", WeekdayName(time.Sunday))
	assert.Equal(t, "JUM'AT", WeekdayName(time.Friday))
	assert.Equal(t, 6, WeekdayIndex("SABTU"))
	assert.Equal(t, -1, WeekdayIndex("FRIDAY"))
}

func TestStatusBuckets(t *testing.T) {
	assert.Equal(t, "Alpha", AttendanceStatusAbsent.DistributionBucket())
	assert.Equal(t, "Hadir", AttendanceStatusPresent.DistributionBucket())
	assert.True(t, AttendanceStatusSick.Valid())
	assert.False(t, AttendanceStatus("Alpha").Valid())
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-03-15", NormalizeDate("2024-03-15T00:00:00.000Z"))
	assert.Equal(t, "2024-03-15", NormalizeDate(" 2024-03-15 "))
}

func TestEventsOn(t *testing.T) {
	settings := AppSettings{Events: []CalendarEvent{
		{ID: "1", Date: "2024-05-01", Kind: EventKindHoliday},
		{ID: "2", Date: "2024-05-02", Kind: EventKindSpecificHours},
	}}
	assert.Len(t, settings.EventsOn("2024-05-01"), 1)
	assert.Empty(t, settings.EventsOn("2024-05-03"))
	assert.True(t, EventKindActivity.SuspendsDay())
	assert.False(t, EventKindSpecificHours.SuspendsDay())
}
