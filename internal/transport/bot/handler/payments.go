package handler

import (
	"context"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_gifts/internal/transport/bot/view"
	"tg_gifts/pkg/logx"
)

const depositPayload = "stars_deposit"

// sendInvoice выставляет счёт в звёздах. Для валюты XTR provider token
// не нужен, цена ровно одна.
func (h *Handler) sendInvoice(ctx *th.Context, chatID int64, amount int64) error {
	_, err := ctx.Bot().SendInvoice(ctx, &telego.SendInvoiceParams{
		ChatID:      tu.ID(chatID),
		Title:       view.DepositTitle,
		Description: view.DepositDescription,
		Payload:     depositPayload,
		Currency:    "XTR",
		Prices:      []telego.LabeledPrice{{Label: "XTR", Amount: int(amount)}},
	})
	return err
}

// OnPreCheckout подтверждает любой чекаут с нашим payload.
func (h *Handler) OnPreCheckout(ctx *th.Context, update telego.Update) error {
	query := update.PreCheckoutQuery
	if query == nil {
		return nil
	}

	return ctx.Bot().AnswerPreCheckoutQuery(ctx, &telego.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: query.ID,
		Ok:                 query.InvoicePayload == depositPayload,
	})
}

func (h *Handler) OnSuccessfulPayment(ctx *th.Context, msg telego.Message) error {
	payment := msg.SuccessfulPayment
	if payment == nil {
		return nil
	}

	logger(ctx).Info("deposit received",
		logx.FieldBalance, payment.TotalAmount,
		logx.FieldChatID, msg.Chat.ID,
	)

	if err := h.send(ctx, msg.Chat.ID, view.DepositDone); err != nil {
		return err
	}

	if _, err := h.balance.Refresh(ctx); err != nil {
		logger(ctx).Warn("balance refresh after deposit failed", logx.Error(err))
	}

	return h.menu.Refresh(ctx, msg.MessageID)
}

// IsSuccessfulPayment — предикат роутинга платёжных сообщений.
func IsSuccessfulPayment(_ context.Context, update telego.Update) bool {
	return update.Message != nil && update.Message.SuccessfulPayment != nil
}

// IsPreCheckout — предикат роутинга пречекаут-запросов.
func IsPreCheckout(_ context.Context, update telego.Update) bool {
	return update.PreCheckoutQuery != nil
}
