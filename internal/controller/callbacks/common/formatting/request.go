package formatting

import (
	"fmt"
	"strings"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/service"
)

// FormatRequest renders a change request as a short multi-line card.
func FormatRequest(r *model.ChangeRequest) string {
	display := GetChangeStatusDisplay(r.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", display.Emoji, display.Text)
	fmt.Fprintf(&b, "📅 %s\n", FormatDateWithWeekday(r.RequestedDate))
	fmt.Fprintf(&b, "🕘 %s → %s\n", FormatTimeRange(r.OldStart, r.OldEnd), FormatTimeRange(r.NewStart, r.NewEnd))
	fmt.Fprintf(&b, "💬 %s", r.Reason)
	return b.String()
}

// FormatNotice renders a decided request for the student's guardian.
func FormatNotice(n *service.ChangeNotice) string {
	display := GetChangeStatusDisplay(n.Request.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Schedule change %s\n\n", display.Emoji, strings.ToLower(display.Text))
	if n.Student != nil {
		fmt.Fprintf(&b, "👤 %s\n", n.Student.Name)
	}
	if n.Class != nil {
		fmt.Fprintf(&b, "📚 %s (%s)\n", n.Class.Subject, FormatSlot(n.Class))
	}
	if n.Teacher != nil {
		fmt.Fprintf(&b, "🎓 %s\n", n.Teacher.Name)
	}
	fmt.Fprintf(&b, "📅 %s\n", FormatDateWithWeekday(n.Request.RequestedDate))
	fmt.Fprintf(&b, "🕘 %s → %s", FormatTimeRange(n.Request.OldStart, n.Request.OldEnd), FormatTimeRange(n.Request.NewStart, n.Request.NewEnd))
	return b.String()
}

// FormatEnrollment formats an enrollment with its class as one line.
func FormatEnrollment(e *model.Enrollment) string {
	var who string
	if e.Student != nil {
		who = e.Student.Name + ": "
	}
	if e.Class == nil {
		return who + e.ClassID.String()
	}
	return fmt.Sprintf("%s%s, %s", who, e.Class.Subject, FormatSlot(e.Class))
}

// FormatStats renders dashboard counters.
func FormatStats(s *service.Stats) string {
	return fmt.Sprintf("📊 Overview\n\n📚 Classes: %d\n👤 Students: %d\n⏳ Pending requests: %d",
		s.Classes, s.Students, s.PendingRequests)
}
