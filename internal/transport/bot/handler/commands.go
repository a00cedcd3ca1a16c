package handler

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_gifts/internal/transport/bot/view"
	"tg_gifts/pkg/logx"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	if _, err := h.balance.Refresh(ctx); err != nil {
		logger(ctx).Warn("balance refresh on /start failed", logx.Error(err))
	}

	return h.menu.Refresh(ctx, msg.MessageID)
}

func (h *Handler) OnCancel(ctx *th.Context, msg telego.Message) error {
	h.wizard.Cancel(msg.Chat.ID)

	if err := h.send(ctx, msg.Chat.ID, view.Cancelled); err != nil {
		return err
	}

	return h.menu.Refresh(ctx, msg.MessageID)
}

func (h *Handler) OnWithdrawAll(ctx *th.Context, msg telego.Message) error {
	h.wizard.Cancel(msg.Chat.ID)
	return h.askWithdrawAll(ctx, msg.Chat.ID, msg.MessageID)
}

// OnWizardInput — текст вне команд. Интересен только когда оператор
// находится внутри мастера, иначе молча игнорируется.
func (h *Handler) OnWizardInput(ctx *th.Context, msg telego.Message) error {
	if !h.wizard.Active(msg.Chat.ID) {
		return nil
	}

	res := h.wizard.Handle(msg.Chat.ID, msg.Text)

	switch {
	case res.Patch != nil:
		if err := h.store.Save(ctx, *res.Patch); err != nil {
			return err
		}
		if err := h.sendHTML(ctx, msg.Chat.ID, view.ConfigSaved); err != nil {
			return err
		}
		return h.menu.Refresh(ctx, msg.MessageID)

	case res.DepositAmount > 0:
		return h.sendInvoice(ctx, msg.Chat.ID, res.DepositAmount)

	case res.RefundTxnID != "":
		return h.refundOne(ctx, msg.Chat.ID, msg.MessageID, res.RefundTxnID)

	case res.WithdrawAll:
		return h.askWithdrawAll(ctx, msg.Chat.ID, msg.MessageID)

	case res.Cancelled:
		if err := h.send(ctx, msg.Chat.ID, res.Reply); err != nil {
			return err
		}
		return h.menu.Refresh(ctx, msg.MessageID)

	case res.Reply != "":
		return h.sendHTML(ctx, msg.Chat.ID, res.Reply)
	}

	return nil
}

func (h *Handler) refundOne(ctx *th.Context, chatID int64, messageID int, txnID string) error {
	if err := h.tg.RefundTransaction(ctx, h.adminID, txnID); err != nil {
		return h.sendHTML(ctx, chatID, view.RefundFailed(err))
	}

	if _, err := h.balance.Refresh(ctx); err != nil {
		logger(ctx).Warn("balance refresh after refund failed", logx.Error(err))
	}

	if err := h.send(ctx, chatID, view.RefundDone); err != nil {
		return err
	}

	return h.menu.Refresh(ctx, messageID)
}

func (h *Handler) askWithdrawAll(ctx *th.Context, chatID int64, messageID int) error {
	bal, err := h.balance.Refresh(ctx)
	if err != nil {
		return err
	}

	if bal <= 0 {
		if err := h.send(ctx, chatID, view.WithdrawAllEmpty); err != nil {
			return err
		}
		return h.menu.Refresh(ctx, messageID)
	}

	_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: tu.ID(chatID),
		Text:   view.WithdrawAllConfirm,
		ReplyMarkup: tu.InlineKeyboard(
			tu.InlineKeyboardRow(
				tu.InlineKeyboardButton("✅ Да").WithCallbackData("withdraw_all_confirm"),
				tu.InlineKeyboardButton("🚫 Нет").WithCallbackData("withdraw_all_cancel"),
			),
		),
	})
	return err
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    tu.ID(chatID),
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: tu.ID(chatID),
		Text:   text,
	})
	return err
}
