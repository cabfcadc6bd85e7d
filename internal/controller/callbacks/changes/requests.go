// Package changes handles the inline buttons of the schedule-change workflow.
package changes

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ishita-lives/schedulr/internal/controller/callbacks/callbacktypes"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/common/formatting"
	"github.com/ishita-lives/schedulr/internal/controller/state"
	"github.com/ishita-lives/schedulr/internal/model"
)

// HandleDecide approves or rejects a request, then tells the guardian.
func HandleDecide(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, prefix string, decision model.ChangeStatus) {
	common.WithAccount(ctx, b, callback, h, func(hc *common.HandlerContext) {
		requestID, err := common.ParseIDFromCallback(callback.Data, prefix)
		if err != nil {
			hc.Fail("parse request id", err)
			return
		}

		notice, err := h.Changes.Decide(ctx, hc.Actor(), requestID, decision)
		if err != nil {
			hc.Fail("decide change request", err)
			return
		}

		display := formatting.GetChangeStatusDisplay(notice.Request.Status)
		hc.Answer(display.Emoji + " " + display.Text)
		hc.Edit(formatting.FormatNotice(notice), nil)

		common.NotifyGuardian(ctx, b, h.Logger, notice)
	})
}

// HandleCancel withdraws a pending request.
func HandleCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAccount(ctx, b, callback, h, func(hc *common.HandlerContext) {
		requestID, err := common.ParseIDFromCallback(callback.Data, common.ChangeCancel)
		if err != nil {
			hc.Fail("parse request id", err)
			return
		}

		req, err := h.Changes.Cancel(ctx, hc.Actor(), requestID)
		if err != nil {
			hc.Fail("cancel change request", err)
			return
		}

		hc.Answer("❌ Request cancelled")
		hc.Edit(formatting.FormatRequest(req), nil)
	})
}

// HandleRequestsPage shows another page of the /requests list.
func HandleRequestsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAccount(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParsePageFromCallback(callback.Data, common.RequestsPage)
		if err != nil {
			hc.Fail("parse page", err)
			return
		}

		requests, err := h.Changes.ListRequests(ctx, hc.Actor(), model.ChangeStatusPending)
		if err != nil {
			hc.Fail("list change requests", err)
			return
		}

		text, kb := common.RequestsScreen(requests, hc.Actor(), page)
		hc.Answer("")
		hc.Edit(text, kb)
	})
}

// HandleStartRequest starts the change-request dialog for the picked enrollment.
func HandleStartRequest(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAccount(ctx, b, callback, h, func(hc *common.HandlerContext) {
		enrollmentID, err := common.ParseIDFromCallback(callback.Data, common.ChangeNew)
		if err != nil {
			hc.Fail("parse enrollment id", err)
			return
		}

		h.StateManager.ClearState(hc.TelegramID)
		h.StateManager.SetState(hc.TelegramID, state.StateChangeDate)
		h.StateManager.SetData(hc.TelegramID, state.KeyEnrollmentID, enrollmentID.String())

		hc.Answer("")
		hc.Send(&bot.SendMessageParams{
			Text: "📅 Step 1 of 3: on which date should the class move?\n\n" +
				"Send the date as YYYY-MM-DD, e.g. " + h.Now().In(h.Location).Format(formatting.DateLayout) + "\n\n" +
				"Use /cancel to stop.",
		})
	})
}
