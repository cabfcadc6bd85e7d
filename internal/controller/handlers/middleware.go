package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common"
	"github.com/ishita-lives/schedulr/internal/model"
)

// requireAccount resolves the sender to a linked account.
// It replies to the user and returns false when that is not possible.
func (h *Handlers) requireAccount(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Account, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	account, err := common.ResolveAccount(ctx, h.Handler, update.Message.From.ID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, "resolve account", err)
		return nil, false
	}

	return account, true
}
