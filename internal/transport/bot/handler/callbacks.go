package handler

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/samber/lo"

	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/infrastructure/store"
	"tg_gifts/internal/transport/bot/view"
	"tg_gifts/pkg/logx"
)

func (h *Handler) OnToggleActive(ctx *th.Context, query telego.CallbackQuery) error {
	cfg, err := h.store.Load(ctx)
	if err != nil {
		return h.answerAlert(ctx, query, "❌ Ошибка чтения конфигурации")
	}

	// Флаг done не трогаем: после выполненного прогона сначала нужно
	// сбросить счётчик.
	if err = h.store.Save(ctx, store.Patch{Active: lo.ToPtr(!cfg.Active)}); err != nil {
		return h.answerAlert(ctx, query, "❌ Ошибка сохранения")
	}

	if err = h.redrawMenu(ctx, query); err != nil {
		return err
	}

	return h.answer(ctx, query, "Статус обновлён")
}

func (h *Handler) OnEditConfig(ctx *th.Context, query telego.CallbackQuery) error {
	chatID := query.Message.GetChat().ID
	prompt := h.wizard.StartConfigure(chatID)

	if err := h.sendHTML(ctx, chatID, prompt); err != nil {
		return err
	}

	return h.answer(ctx, query, "")
}

func (h *Handler) OnResetBought(ctx *th.Context, query telego.CallbackQuery) error {
	err := h.store.Save(ctx, store.Patch{
		Bought: lo.ToPtr(int64(0)),
		Active: lo.ToPtr(false),
		Done:   lo.ToPtr(false),
	})
	if err != nil {
		return h.answerAlert(ctx, query, "❌ Ошибка сохранения")
	}

	if err = h.redrawMenu(ctx, query); err != nil {
		return err
	}

	return h.answer(ctx, query, view.ResetDone)
}

func (h *Handler) OnShowHelp(ctx *th.Context, query telego.CallbackQuery) error {
	cfg, err := h.store.Load(ctx)
	if err != nil {
		return h.answerAlert(ctx, query, "❌ Ошибка чтения конфигурации")
	}

	chatID := query.Message.GetChat().ID
	target := view.TargetDisplay(cfg.Recipient(), h.adminID)

	_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    tu.ID(chatID),
		Text:      view.HelpText(target),
		ParseMode: telego.ModeHTML,
		ReplyMarkup: tu.InlineKeyboard(
			tu.InlineKeyboardRow(
				tu.InlineKeyboardButton("🧸 Купить за ★15").WithCallbackData("buy_bear"),
			),
		),
	})
	if err != nil {
		return err
	}

	return h.answer(ctx, query, "")
}

// OnBuyBear — тестовая покупка мишки текущему получателю.
func (h *Handler) OnBuyBear(ctx *th.Context, query telego.CallbackQuery) error {
	cfg, err := h.store.Load(ctx)
	if err != nil {
		return h.answerAlert(ctx, query, "❌ Ошибка чтения конфигурации")
	}

	chatID := query.Message.GetChat().ID
	recipient := cfg.Recipient()
	gift := entity.Gift{ID: testGiftID, Price: testGiftPrice}

	if err = h.buyer.Buy(ctx, gift, recipient); err != nil {
		logger(ctx).Warn("test purchase failed", logx.FieldGiftID, gift.ID, logx.Error(err))

		if err = h.sendHTML(ctx, chatID, view.TestBuyFailed); err != nil {
			return err
		}
		return h.answer(ctx, query, "")
	}

	target := view.TargetDisplay(recipient, h.adminID)
	if err = h.sendHTML(ctx, chatID, view.TestBuySuccess(target)); err != nil {
		return err
	}

	if err = h.menu.Refresh(ctx, query.Message.GetMessageID()); err != nil {
		return err
	}

	return h.answer(ctx, query, "")
}

func (h *Handler) OnDepositMenu(ctx *th.Context, query telego.CallbackQuery) error {
	chatID := query.Message.GetChat().ID
	prompt := h.wizard.StartDeposit(chatID)

	if err := h.sendHTML(ctx, chatID, prompt); err != nil {
		return err
	}

	return h.answer(ctx, query, "")
}

func (h *Handler) OnRefundMenu(ctx *th.Context, query telego.CallbackQuery) error {
	chatID := query.Message.GetChat().ID
	prompt := h.wizard.StartRefund(chatID)

	if err := h.sendHTML(ctx, chatID, prompt); err != nil {
		return err
	}

	return h.answer(ctx, query, "")
}

func (h *Handler) OnWithdrawAllConfirm(ctx *th.Context, query telego.CallbackQuery) error {
	chatID := query.Message.GetChat().ID
	messageID := query.Message.GetMessageID()

	_, _ = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:    tu.ID(chatID),
		MessageID: messageID,
		Text:      view.WithdrawAllProgress,
	})

	report, err := h.balance.RefundAll(ctx, h.tg, h.adminID)
	if err != nil {
		logger(ctx).Error("withdraw all failed", logx.Error(err))
		if err = h.sendHTML(ctx, chatID, view.RefundFailed(err)); err != nil {
			return err
		}
		return h.answer(ctx, query, "")
	}

	text := view.WithdrawAllReport(report.Refunded, report.Count, report.Left)
	if report.Count == 0 {
		text = view.WithdrawAllEmpty
	}

	if err = h.send(ctx, chatID, text); err != nil {
		return err
	}

	if err = h.menu.Refresh(ctx, messageID); err != nil {
		return err
	}

	return h.answer(ctx, query, "")
}

func (h *Handler) OnWithdrawAllCancel(ctx *th.Context, query telego.CallbackQuery) error {
	chatID := query.Message.GetChat().ID
	messageID := query.Message.GetMessageID()

	_, _ = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:    tu.ID(chatID),
		MessageID: messageID,
		Text:      view.Cancelled,
	})

	if err := h.menu.Refresh(ctx, messageID); err != nil {
		return err
	}

	return h.answer(ctx, query, "")
}

// redrawMenu редактирует само сообщение меню по месту, без пересоздания.
func (h *Handler) redrawMenu(ctx *th.Context, query telego.CallbackQuery) error {
	cfg, err := h.store.Load(ctx)
	if err != nil {
		return err
	}

	_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        view.ConfigSummary(cfg, h.adminID),
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: ActionKeyboard(cfg.Active),
	})
	if err != nil {
		// Telegram отвергает правку, если текст не изменился. Не фатально.
		logger(ctx).Debug("menu edit skipped", logx.Error(err))
	}

	return nil
}

func (h *Handler) answer(ctx *th.Context, query telego.CallbackQuery, text string) error {
	params := tu.CallbackQuery(query.ID)
	if text != "" {
		params = params.WithText(text)
	}
	return ctx.Bot().AnswerCallbackQuery(ctx, params)
}

func (h *Handler) answerAlert(ctx *th.Context, query telego.CallbackQuery, text string) error {
	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).WithText(text).WithShowAlert())
}
