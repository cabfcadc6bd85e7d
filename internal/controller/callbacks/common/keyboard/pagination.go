package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// NoopData is callback data for buttons that only display information.
const NoopData = "noop"

// Page is one window over a list of n items. Index is 0-based.
type Page struct {
	Index, Total int
	From, To     int
}

// Paginate clamps page into range and returns the window it covers.
// An empty list yields a single empty page.
func Paginate(n, perPage, page int) Page {
	total := max((n+perPage-1)/perPage, 1)
	page = min(max(page, 0), total-1)
	from := page * perPage
	return Page{
		Index: page,
		Total: total,
		From:  from,
		To:    min(from+perPage, n),
	}
}

// PaginationButtons returns the ⬅️ page ➡️ row, or nil when everything fits
// on one page.
func PaginationButtons(prefix string, p Page) []models.InlineKeyboardButton {
	if p.Total <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton
	if p.Index > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, p.Index-1)))
	}
	buttons = append(buttons, Button(fmt.Sprintf("📄 %d/%d", p.Index+1, p.Total), NoopData))
	if p.Index < p.Total-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, p.Index+1)))
	}
	return buttons
}

func (b *Builder) AddPagination(prefix string, p Page) *Builder {
	return b.Row(PaginationButtons(prefix, p)...)
}
