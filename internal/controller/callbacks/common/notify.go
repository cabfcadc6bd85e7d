package common

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common/formatting"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common/keyboard"
	"github.com/ishita-lives/schedulr/internal/service"
)

// NotifyGuardian tells the student's guardian about a decision. Guardians
// without a linked Telegram account are skipped.
func NotifyGuardian(ctx context.Context, b *bot.Bot, logger *zap.Logger, notice *service.ChangeNotice) {
	if notice.Guardian == nil || notice.Guardian.TelegramID == nil {
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *notice.Guardian.TelegramID,
		Text:   formatting.FormatNotice(notice),
	})
	if err != nil {
		logger.Error("Failed to notify guardian",
			zap.String("request_id", notice.Request.ID.String()),
			zap.String("guardian_id", notice.Guardian.ID.String()),
			zap.Error(err))
	}
}

// NotifyTeacher sends a new request to the owning teacher with decision buttons.
func NotifyTeacher(ctx context.Context, b *bot.Bot, logger *zap.Logger, notice *service.ChangeNotice) {
	if notice.Teacher == nil || notice.Teacher.TelegramID == nil {
		return
	}

	text := "🔔 New schedule change request\n\n"
	if notice.Student != nil {
		text += fmt.Sprintf("👤 %s\n", notice.Student.Name)
	}
	if notice.Class != nil {
		text += fmt.Sprintf("📚 %s (%s)\n", notice.Class.Subject, formatting.FormatSlot(notice.Class))
	}
	text += formatting.FormatRequest(notice.Request)

	id := notice.Request.ID
	kb := keyboard.NewBuilder().
		Row(keyboard.Action("✅ Approve", ChangeApprove, id), keyboard.Action("🚫 Reject", ChangeReject, id)).
		Build()

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      *notice.Teacher.TelegramID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		logger.Error("Failed to notify teacher",
			zap.String("request_id", id.String()),
			zap.String("teacher_id", notice.Teacher.ID.String()),
			zap.Error(err))
	}
}
