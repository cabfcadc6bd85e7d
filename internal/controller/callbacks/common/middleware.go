package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks/callbacktypes"
)

// WithAccount builds a HandlerContext, resolves the sender's account and
// runs handler. On failure it answers the callback and returns.
func WithAccount(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.LoadAccount(); err != nil {
		hc.Fail("load account", err)
		return
	}

	handler(hc)
}
