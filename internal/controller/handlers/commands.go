package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common/formatting"
	"github.com/ishita-lives/schedulr/internal/controller/state"
	"github.com/ishita-lives/schedulr/internal/export"
	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/render"
)

// HandleStart greets a linked user with the commands for their role.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}

	name := account.DisplayName
	if name == "" {
		name = update.Message.From.FirstName
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("👋 Hi, %s!\n\nYou are signed in as %s.\n\n%s", name, account.Role, HelpText(account.Role)), nil)
}

func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, HelpText(account.Role), nil)
}

// HelpText lists the commands available to role.
func HelpText(role model.Role) string {
	var sb strings.Builder
	sb.WriteString("📚 Commands:\n\n")
	sb.WriteString("/schedule - Weekly timetable\n")
	sb.WriteString("/classes - Class list\n")
	sb.WriteString("/export - Timetable as an Excel file\n")
	sb.WriteString("/calendar - Enrolled classes as a calendar file\n")
	sb.WriteString("/requests - Pending schedule change requests\n")
	if role == model.RoleAdmin || role == model.RoleGuardian {
		sb.WriteString("/newrequest - Ask to move a class on one date\n")
	}
	sb.WriteString("/stats - Overview\n")
	sb.WriteString("/cancel - Stop the current dialog\n")
	sb.WriteString("/help - This help")
	return sb.String()
}

// HandleCancel abandons the current dialog.
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.StateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Nothing to cancel.", nil)
		return
	}

	h.StateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Cancelled.\n\nUse /help to see the commands.", nil)
}

// HandleSchedule sends the viewer's weekly grid as an image.
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	grid, err := h.Grid.BuildWeeklyGrid(ctx, account.Actor())
	if err != nil {
		h.reportError(ctx, b, chatID, "build weekly grid", err)
		return
	}
	if grid.IsEmpty() {
		h.sendMessage(ctx, b, chatID, "📭 No classes to show yet.", nil)
		return
	}

	image, err := render.GridImage(grid)
	if err != nil {
		h.reportError(ctx, b, chatID, "render grid", err)
		return
	}

	cells := grid.Cells()
	var caption strings.Builder
	fmt.Fprintf(&caption, "🗓 Weekly schedule: %d classes", len(cells))
	for _, c := range cells {
		fmt.Fprintf(&caption, "\n• %s, %s (%d/%d)", c.Class.Subject, formatting.FormatSlot(c.Class), c.Enrolled, c.Class.Capacity)
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "schedule.png", Data: bytes.NewReader(image)},
		Caption: truncateCaption(caption.String()),
	})
	if err != nil {
		h.Logger.Error("Failed to send schedule image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleClasses lists the visible classes as text.
func (h *Handlers) HandleClasses(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	classes, err := h.Catalog.ListClasses(ctx, account.Actor())
	if err != nil {
		h.reportError(ctx, b, chatID, "list classes", err)
		return
	}
	if len(classes) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 No classes.", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("📚 Classes:\n")
	for _, c := range classes {
		fmt.Fprintf(&sb, "\n• %s, %s, %s, capacity %d",
			c.Subject, formatting.FormatSlot(c), formatting.FormatDuration(c.Interval().Duration()), c.Capacity)
	}
	h.sendMessage(ctx, b, chatID, sb.String(), nil)
}

// HandleExport sends the weekly grid as an XLSX workbook.
func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	grid, err := h.Grid.BuildWeeklyGrid(ctx, account.Actor())
	if err != nil {
		h.reportError(ctx, b, chatID, "build weekly grid", err)
		return
	}

	buf, filename, err := export.GridWorkbook(grid)
	if err != nil {
		h.reportError(ctx, b, chatID, "export workbook", err)
		return
	}

	h.sendDocument(ctx, b, chatID, filename, buf.Bytes(), "📊 Weekly schedule")
}

// HandleCalendar sends the viewer's enrolled classes as an iCalendar file.
func (h *Handlers) HandleCalendar(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	enrollments, err := h.Enrollments.EnrollmentsForActor(ctx, account.Actor())
	if err != nil {
		h.reportError(ctx, b, chatID, "list enrollments", err)
		return
	}
	if len(enrollments) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 No enrolled classes.", nil)
		return
	}

	feed := export.Calendar(enrollments, h.Now(), h.Location)
	h.sendDocument(ctx, b, chatID, "schedule.ics", []byte(feed), "📆 Import into your calendar app")
}

// HandleStats sends the viewer's dashboard counters.
func (h *Handlers) HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	stats, err := h.Stats.Stats(ctx, account.Actor())
	if err != nil {
		h.reportError(ctx, b, chatID, "stats", err)
		return
	}
	h.sendMessage(ctx, b, chatID, formatting.FormatStats(stats), nil)
}

// HandleRequests lists pending change requests with decision buttons.
func (h *Handlers) HandleRequests(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	requests, err := h.Changes.ListRequests(ctx, account.Actor(), model.ChangeStatusPending)
	if err != nil {
		h.reportError(ctx, b, chatID, "list change requests", err)
		return
	}

	text, kb := common.RequestsScreen(requests, account.Actor(), 0)
	h.sendMessage(ctx, b, chatID, text, kb)
}

// HandleTextMessage feeds free text into the user's active dialog.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	switch current := h.StateManager.GetState(telegramID); current {
	case state.StateNone:
		return
	case state.StateChangeDate:
		h.handleChangeDateStep(ctx, b, update)
	case state.StateChangeTimes:
		h.handleChangeTimesStep(ctx, b, update)
	case state.StateChangeReason:
		h.handleChangeReasonStep(ctx, b, update)
	default:
		h.Logger.Warn("Unknown state", zap.String("state", string(current)))
		h.StateManager.ClearState(telegramID)
	}
}

// Telegram rejects photo captions longer than this.
const maxCaptionLength = 1024

func truncateCaption(s string) string {
	r := []rune(s)
	if len(r) <= maxCaptionLength {
		return s
	}
	return string(r[:maxCaptionLength-1]) + "…"
}
