package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEntry is an all-day agenda item rendered into an iCalendar feed.
type CalendarEntry struct {
	UID         string
	Date        time.Time
	Summary     string
	Description string
	Category    string
	Transparent bool
}

// ICSExporter renders agenda entries as an iCalendar document.
type ICSExporter struct {
	ProductID string
}

// NewICSExporter constructs an ICS exporter identified by productID.
func NewICSExporter(productID string) *ICSExporter {
	return &ICSExporter{ProductID: productID}
}

// ContentType reports the iCalendar media type.
func (e *ICSExporter) ContentType() string { return "text/calendar; charset=utf-8" }

// Render serialises entries into a VCALENDAR with one all-day VEVENT per entry.
func (e *ICSExporter) Render(entries []CalendarEntry, stamp time.Time) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.ProductID)

	for _, entry := range entries {
		if entry.UID == "" {
			return nil, fmt.Errorf("calendar entry %q has no uid", entry.Summary)
		}
		event := cal.AddEvent(entry.UID)
		event.SetDtStampTime(stamp.UTC())
		event.SetAllDayStartAt(entry.Date)
		event.SetAllDayEndAt(entry.Date.AddDate(0, 0, 1))
		event.SetSummary(entry.Summary)
		if entry.Description != "" {
			event.SetDescription(entry.Description)
		}
		if entry.Category != "" {
			event.SetProperty(ics.ComponentPropertyCategories, entry.Category)
		}
		if entry.Transparent {
			event.SetProperty(ics.ComponentPropertyTransp, "TRANSPARENT")
		} else {
			event.SetProperty(ics.ComponentPropertyTransp, "OPAQUE")
		}
	}

	return []byte(cal.Serialize()), nil
}
