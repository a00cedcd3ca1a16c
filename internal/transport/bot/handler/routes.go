package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"tg_gifts/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	// Пречекаут отвечаем до любых проверок: Telegram ждёт ответ 10 секунд.
	bh.Handle(h.OnPreCheckout, IsPreCheckout)

	msgGroup := bh.Group(th.AnyMessage())
	msgGroup.Use(middleware.AdminOnly(adminID))

	msgGroup.HandleMessage(h.OnSuccessfulPayment, IsSuccessfulPayment)
	msgGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	msgGroup.HandleMessage(h.OnCancel, th.CommandEqual("cancel"))
	msgGroup.HandleMessage(h.OnWithdrawAll, th.CommandEqual("withdraw_all"))

	// Остальной текст уходит в мастер, если тот активен.
	msgGroup.HandleMessage(h.OnWizardInput, th.AnyMessage())

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminID))

	cbGroup.HandleCallbackQuery(h.OnToggleActive, th.CallbackDataEqual("toggle_active"))
	cbGroup.HandleCallbackQuery(h.OnEditConfig, th.CallbackDataEqual("edit_config"))
	cbGroup.HandleCallbackQuery(h.OnResetBought, th.CallbackDataEqual("reset_bought"))
	cbGroup.HandleCallbackQuery(h.OnShowHelp, th.CallbackDataEqual("show_help"))
	cbGroup.HandleCallbackQuery(h.OnBuyBear, th.CallbackDataEqual("buy_bear"))
	cbGroup.HandleCallbackQuery(h.OnDepositMenu, th.CallbackDataEqual("deposit_menu"))
	cbGroup.HandleCallbackQuery(h.OnRefundMenu, th.CallbackDataEqual("refund_menu"))
	cbGroup.HandleCallbackQuery(h.OnWithdrawAllConfirm, th.CallbackDataEqual("withdraw_all_confirm"))
	cbGroup.HandleCallbackQuery(h.OnWithdrawAllCancel, th.CallbackDataEqual("withdraw_all_cancel"))
}
