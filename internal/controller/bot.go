package controller

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/callbacktypes"
	"github.com/ishita-lives/schedulr/internal/controller/handlers"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(botInstance *bot.Bot, deps *callbacktypes.Handler) *BotController {
	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(deps),
		callbackHandler: callbacks.NewHandler(deps),
		logger:          deps.Logger,
	}
}

// RegisterHandlers wires commands, dialog text and inline buttons, then
// publishes the command menu.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	commands := map[string]bot.HandlerFunc{
		"/start":      c.handlers.HandleStart,
		"/help":       c.handlers.HandleHelp,
		"/cancel":     c.handlers.HandleCancel,
		"/schedule":   c.handlers.HandleSchedule,
		"/classes":    c.handlers.HandleClasses,
		"/export":     c.handlers.HandleExport,
		"/calendar":   c.handlers.HandleCalendar,
		"/requests":   c.handlers.HandleRequests,
		"/newrequest": c.handlers.HandleNewRequest,
		"/stats":      c.handlers.HandleStats,
	}
	for pattern, handler := range commands {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, pattern, bot.MatchTypeExact, handler)
	}

	// Dialog steps: any plain text that is not a command
	c.bot.RegisterHandlerMatchFunc(isDialogText, c.handlers.HandleTextMessage)

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "schedule", Description: "🗓 Weekly timetable"},
		{Command: "classes", Description: "📚 Class list"},
		{Command: "requests", Description: "📋 Pending change requests"},
		{Command: "newrequest", Description: "🔁 Ask to move a class"},
		{Command: "export", Description: "📊 Timetable as Excel"},
		{Command: "calendar", Description: "📆 Calendar file"},
		{Command: "stats", Description: "📈 Overview"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

func isDialogText(update *models.Update) bool {
	return update.Message != nil && update.Message.Text != "" && !strings.HasPrefix(update.Message.Text, "/")
}

// Start polls for updates until ctx is cancelled.
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
}
