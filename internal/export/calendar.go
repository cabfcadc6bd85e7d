package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/ishita-lives/schedulr/internal/model"
)

const icsLayout = "20060102T150405"

// Calendar builds an iCalendar feed with one weekly recurring event per
// enrolled class. Enrollments without a loaded Class are skipped. The first
// occurrence falls on the first matching weekday on or after from.
func Calendar(enrollments []*model.Enrollment, from time.Time, loc *time.Location) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//schedulr//weekly classes//EN")
	cal.SetXWRTimezone(loc.String())

	stamp := from.UTC()
	seen := make(map[string]bool, len(enrollments))
	for _, e := range enrollments {
		if e.Class == nil {
			continue
		}
		uid := fmt.Sprintf("%s-%s@schedulr", e.ClassID, e.StudentID)
		if seen[uid] {
			continue
		}
		seen[uid] = true

		start := FirstOccurrence(e.Class, from, loc)
		end := start.Add(time.Duration(e.Class.Interval().Duration()) * time.Minute)

		summary := e.Class.Subject
		if e.Student != nil {
			summary = fmt.Sprintf("%s: %s", e.Student.Name, e.Class.Subject)
		}

		event := cal.AddEvent(uid)
		event.SetDtStampTime(stamp)
		event.SetSummary(summary)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLayout), ics.WithTZID(loc.String()))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLayout), ics.WithTZID(loc.String()))
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", byDay[e.Class.DayOfWeek]))
	}

	return cal.Serialize()
}

// FirstOccurrence returns the start of the class on the first date on or after
// from (taken in loc) that falls on the class's weekday.
func FirstOccurrence(class *model.ClassSlot, from time.Time, loc *time.Location) time.Time {
	local := from.In(loc)
	offset := (class.DayOfWeek - int(local.Weekday()) + 7) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d+offset, class.StartTime.Hour(), class.StartTime.Minute(), 0, 0, loc)
}

var byDay = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

