package formatting

import (
	"fmt"
	"time"

	"github.com/ishita-lives/schedulr/internal/model"
)

// DateLayout is the date format users type and see.
const DateLayout = "2006-01-02"

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateWithWeekday formats t as "2006-01-02 (Monday)".
func FormatDateWithWeekday(t time.Time) string {
	return t.Format("2006-01-02 (Monday)")
}

func FormatTimeRange(start, end model.Clock) string {
	return fmt.Sprintf("%s-%s", start, end)
}

// FormatDuration formats minutes as "45 min", "1 h" or "1 h 30 min".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d h", hours)
	}
	return fmt.Sprintf("%d h %d min", hours, mins)
}

// FormatSlot formats a class as "Monday 09:00-10:00".
func FormatSlot(c *model.ClassSlot) string {
	return fmt.Sprintf("%s %s", model.WeekdayName(c.DayOfWeek), FormatTimeRange(c.StartTime, c.EndTime))
}
