package keyboard

import (
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// Builder assembles inline keyboards row by row.
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Row appends a row; empty rows are skipped.
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: callbackData}
}

// Action is a button whose callback data is prefix followed by the record id.
// A prefix plus a uuid stays well under Telegram's 64 byte limit.
func Action(text, prefix string, id uuid.UUID) models.InlineKeyboardButton {
	return Button(text, prefix+id.String())
}

// Build returns nil when no row was added, so callers can pass the result
// straight to a message without sending an empty keyboard.
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	if len(b.rows) == 0 {
		return nil
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: b.rows}
}
