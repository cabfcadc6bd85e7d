package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks/callbacktypes"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/changes"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common/keyboard"
	"github.com/ishita-lives/schedulr/internal/model"
)

// Route sends a callback query to its handler by data prefix.
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	case data == keyboard.NoopData:
		common.AnswerCallback(ctx, b, callback.ID, "")

	case strings.HasPrefix(data, common.ChangeApprove):
		changes.HandleDecide(ctx, b, callback, h, common.ChangeApprove, model.ChangeStatusApproved)
	case strings.HasPrefix(data, common.ChangeReject):
		changes.HandleDecide(ctx, b, callback, h, common.ChangeReject, model.ChangeStatusRejected)
	case strings.HasPrefix(data, common.ChangeCancel):
		changes.HandleCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ChangeNew):
		changes.HandleStartRequest(ctx, b, callback, h)
	case strings.HasPrefix(data, common.RequestsPage):
		changes.HandleRequestsPage(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Unknown action")
	}
}
