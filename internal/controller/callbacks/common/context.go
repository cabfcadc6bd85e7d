package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks/callbacktypes"
	"github.com/ishita-lives/schedulr/internal/model"
)

// HandlerContext carries what every callback handler needs: the resolved
// account, the originating message and the shared dependencies.
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	Account    *model.Account
	TelegramID int64
	ChatID     int64
}

func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadAccount resolves the sender's Telegram ID to an account.
func (hc *HandlerContext) LoadAccount() error {
	account, err := ResolveAccount(hc.Ctx, hc.Handler, hc.TelegramID)
	if err != nil {
		return err
	}
	hc.Account = account
	return nil
}

func (hc *HandlerContext) Actor() model.Actor {
	return hc.Account.Actor()
}

func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// Fail shows err to the user. Errors that are not the user's fault are
// logged and shown as a generic apology.
func (hc *HandlerContext) Fail(op string, err error) {
	if !IsUserError(err) {
		hc.Handler.Logger.Error("Callback failed",
			zap.String("op", op),
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
	hc.AnswerAlert(ErrorMessage(err))
}

// Send posts a new message to the callback's chat.
func (hc *HandlerContext) Send(params *bot.SendMessageParams) {
	params.ChatID = hc.ChatID
	if _, err := hc.Bot.SendMessage(hc.Ctx, params); err != nil {
		hc.Handler.Logger.Error("Failed to send message",
			zap.Int64("chat_id", hc.ChatID),
			zap.Error(err))
	}
}

// Edit replaces the text and keyboard of the callback's message.
func (hc *HandlerContext) Edit(text string, kb *models.InlineKeyboardMarkup) {
	markup := Markup(kb)
	if hc.Message == nil {
		hc.Send(&bot.SendMessageParams{Text: text, ReplyMarkup: markup})
		return
	}
	_, err := hc.Bot.EditMessageText(hc.Ctx, &bot.EditMessageTextParams{
		ChatID:      hc.ChatID,
		MessageID:   hc.Message.ID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		hc.Handler.Logger.Error("Failed to edit message",
			zap.Int64("chat_id", hc.ChatID),
			zap.Int("message_id", hc.Message.ID),
			zap.Error(err))
	}
}

// ResolveAccount returns the sender's account or ErrUnknownAccount.
func ResolveAccount(ctx context.Context, h *callbacktypes.Handler, telegramID int64) (*model.Account, error) {
	account, err := h.Accounts.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnknownAccount
	}
	return account, nil
}
