package common

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common/formatting"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common/keyboard"
	"github.com/ishita-lives/schedulr/internal/model"
)

// RequestsPerPage is how many change requests one /requests page shows.
const RequestsPerPage = 5

// RequestsScreen renders one page of pending change requests with the
// buttons the actor may use on each.
func RequestsScreen(requests []*model.ChangeRequest, actor model.Actor, page int) (string, *models.InlineKeyboardMarkup) {
	if len(requests) == 0 {
		return "📭 No pending schedule change requests.", nil
	}

	p := keyboard.Paginate(len(requests), RequestsPerPage, page)

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Pending schedule change requests: %d\n", len(requests))

	kb := keyboard.NewBuilder()
	for i, r := range requests[p.From:p.To] {
		n := p.From + i + 1
		fmt.Fprintf(&b, "\n#%d\n%s\n", n, formatting.FormatRequest(r))

		var row []models.InlineKeyboardButton
		if actor.Role == model.RoleAdmin || actor.Role == model.RoleTeacher {
			row = append(row,
				keyboard.Action(fmt.Sprintf("✅ #%d", n), ChangeApprove, r.ID),
				keyboard.Action(fmt.Sprintf("🚫 #%d", n), ChangeReject, r.ID),
			)
		}
		if actor.IsAdmin() || r.RequestedBy == actor.ID {
			row = append(row, keyboard.Action(fmt.Sprintf("❌ Cancel #%d", n), ChangeCancel, r.ID))
		}
		kb.Row(row...)
	}
	kb.AddPagination(RequestsPage, p)

	return b.String(), kb.Build()
}

// EnrollmentPicker lists enrollments as buttons that start a change request.
func EnrollmentPicker(enrollments []*model.Enrollment) (string, *models.InlineKeyboardMarkup) {
	if len(enrollments) == 0 {
		return "📭 There are no enrollments to change.", nil
	}

	kb := keyboard.NewBuilder()
	for _, e := range enrollments {
		kb.Row(keyboard.Action(formatting.FormatEnrollment(e), ChangeNew, e.ID))
	}
	return "🔁 Which class do you want to move?", kb.Build()
}

// Markup converts a possibly nil keyboard into a reply markup that is nil
// when there are no buttons.
func Markup(kb *models.InlineKeyboardMarkup) models.ReplyMarkup {
	if kb == nil {
		return nil
	}
	return kb
}
