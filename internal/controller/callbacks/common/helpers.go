package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// Callback data prefixes. IDs follow the colon.
const (
	ChangeApprove = "chg_approve:"   // chg_approve:<request id>
	ChangeReject  = "chg_reject:"    // chg_reject:<request id>
	ChangeCancel  = "chg_cancel:"    // chg_cancel:<request id>
	ChangeNew     = "chg_new:"       // chg_new:<enrollment id>
	RequestsPage  = "requests_page:" // requests_page:<page>
)

// AnswerCallback answers a callback query with a toast.
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert answers a callback query with a modal alert.
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback returns the callback's message unless it is inaccessible.
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseIDFromCallback extracts the UUID after prefix, e.g.
// "chg_approve:0b6f…" -> 0b6f….
func ParseIDFromCallback(data, prefix string) (uuid.UUID, error) {
	raw, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return uuid.Nil, ErrInvalidFormat
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return id, nil
}

// ParsePageFromCallback extracts a non-negative page number after prefix.
func ParsePageFromCallback(data, prefix string) (int, error) {
	raw, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return 0, ErrInvalidFormat
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, ErrInvalidFormat
	}
	return page, nil
}
