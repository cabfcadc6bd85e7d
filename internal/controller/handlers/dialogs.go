package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common/formatting"
	"github.com/ishita-lives/schedulr/internal/controller/state"
	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/service"
)

// HandleNewRequest starts the change-request dialog by listing the
// enrollments the sender may move.
func (h *Handlers) HandleNewRequest(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	if account.Role == model.RoleTeacher {
		h.reportError(ctx, b, chatID, "new change request", &service.ForbiddenError{Action: "request schedule changes"})
		return
	}

	enrollments, err := h.Enrollments.EnrollmentsForActor(ctx, account.Actor())
	if err != nil {
		h.reportError(ctx, b, chatID, "list enrollments", err)
		return
	}

	h.StateManager.ClearState(update.Message.From.ID)
	text, kb := common.EnrollmentPicker(enrollments)
	h.sendMessage(ctx, b, chatID, text, kb)
}

func (h *Handlers) handleChangeDateStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	input := strings.TrimSpace(update.Message.Text)

	date, err := time.ParseInLocation(formatting.DateLayout, input, h.Location)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Use the YYYY-MM-DD format, e.g. 2026-03-09.\n\nTry again:")
		return
	}

	h.StateManager.SetData(telegramID, state.KeyDate, date.Format(formatting.DateLayout))
	h.StateManager.SetState(telegramID, state.StateChangeTimes)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Date: %s\n\n🕘 Step 2 of 3: send the new time as HH:MM-HH:MM, e.g. 16:00-17:00", formatting.FormatDateWithWeekday(date)), nil)
}

func (h *Handlers) handleChangeTimesStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	start, end, ok := ParseTimeRange(update.Message.Text)
	if !ok {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Use the HH:MM-HH:MM format, e.g. 16:00-17:00.\n\nTry again:")
		return
	}

	h.StateManager.SetData(telegramID, state.KeyStartTime, start)
	h.StateManager.SetData(telegramID, state.KeyEndTime, end)
	h.StateManager.SetState(telegramID, state.StateChangeReason)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ New time: %s-%s\n\n💬 Step 3 of 3: why is the change needed?", start, end), nil)
}

func (h *Handlers) handleChangeReasonStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		h.StateManager.ClearState(telegramID)
		return
	}

	in, err := h.changeInput(telegramID, update.Message.Text)
	if err != nil {
		h.Logger.Warn("Incomplete change request dialog", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.StateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ The dialog data was lost. Start again with /newrequest")
		return
	}

	req, err := h.Changes.RequestChange(ctx, account.Actor(), in)
	if err != nil {
		h.reportError(ctx, b, chatID, "request change", err)
		h.rewindDialog(ctx, b, telegramID, chatID, err)
		return
	}

	h.StateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, chatID, "✅ Request sent to the teacher\n\n"+formatting.FormatRequest(req), nil)

	notice, err := h.Changes.Notice(ctx, req.ID)
	if err != nil {
		h.Logger.Error("Failed to load change notice", zap.String("request_id", req.ID.String()), zap.Error(err))
		return
	}
	common.NotifyTeacher(ctx, b, h.Logger, notice)
}

// changeInput assembles the request from the dialog data and the reason text.
func (h *Handlers) changeInput(telegramID int64, reason string) (service.ChangeInput, error) {
	rawID, ok1 := h.StateManager.GetString(telegramID, state.KeyEnrollmentID)
	rawDate, ok2 := h.StateManager.GetString(telegramID, state.KeyDate)
	start, ok3 := h.StateManager.GetString(telegramID, state.KeyStartTime)
	end, ok4 := h.StateManager.GetString(telegramID, state.KeyEndTime)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return service.ChangeInput{}, errors.New("missing dialog data")
	}

	enrollmentID, err := uuid.Parse(rawID)
	if err != nil {
		return service.ChangeInput{}, fmt.Errorf("parse enrollment id: %w", err)
	}
	date, err := time.ParseInLocation(formatting.DateLayout, rawDate, h.Location)
	if err != nil {
		return service.ChangeInput{}, fmt.Errorf("parse date: %w", err)
	}

	return service.ChangeInput{
		EnrollmentID:  enrollmentID,
		RequestedDate: date,
		NewStartTime:  start,
		NewEndTime:    end,
		Reason:        strings.TrimSpace(reason),
	}, nil
}

// rewindDialog sends the user back to the step whose input was rejected.
// Other failures end the dialog.
func (h *Handlers) rewindDialog(ctx context.Context, b *bot.Bot, telegramID, chatID int64, err error) {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		h.StateManager.ClearState(telegramID)
		return
	}

	switch verr.Field {
	case "requested_date":
		h.StateManager.SetState(telegramID, state.StateChangeDate)
		h.sendMessage(ctx, b, chatID, "📅 Send another date (YYYY-MM-DD):", nil)
	case "new_start_time", "new_end_time":
		h.StateManager.SetState(telegramID, state.StateChangeTimes)
		h.sendMessage(ctx, b, chatID, "🕘 Send another time (HH:MM-HH:MM):", nil)
	case "reason":
		h.sendMessage(ctx, b, chatID, "💬 Send the reason again:", nil)
	default:
		h.StateManager.ClearState(telegramID)
	}
}

// ParseTimeRange splits "HH:MM-HH:MM" into two valid clock strings.
func ParseTimeRange(s string) (start, end string, ok bool) {
	start, end, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return "", "", false
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if _, err := model.ParseClock(start); err != nil {
		return "", "", false
	}
	if _, err := model.ParseClock(end); err != nil {
		return "", "", false
	}
	return start, end, true
}
