package view

import (
	"fmt"
	"strings"

	"tg_gifts/internal/domain/entity"
)

const Version = "1.1.0"

const (
	AccessDeniedMessage = "✅ Вы сможете получать подарки от этого бота.\n⛔️ У вас нет доступа к панели управления."
	AccessDeniedAlert   = "⛔️ Нет доступа"

	PromptMinPrice    = "💰 Минимальная цена подарка, например: <code>5000</code>\n\n/cancel — отменить"
	PromptMaxPrice    = "💰 Максимальная цена подарка, например: <code>10000</code>\n\n/cancel — отменить"
	PromptMinSupply   = "📦 Минимальный саплай подарка, например: <code>1000</code>\n\n/cancel — отменить"
	PromptMaxSupply   = "📦 Максимальный саплай подарка, например: <code>10000</code>\n\n/cancel — отменить"
	PromptTargetCount = "🎁 Количество подарков, например: <code>5</code>\n\n/cancel — отменить"
	PromptDeposit     = "💰 Введите сумму для пополнения, например: <code>5000</code>\n\n/cancel — отменить"
	PromptRefund      = "🆔 Введите ID транзакции для возврата:\n\n/withdraw_all — вывести весь баланс\n/cancel — отменить"

	ErrNotPositive       = "🚫 Введите положительное число. Попробуйте ещё раз."
	ErrMaxBelowMinPrice  = "🚫 Максимальная цена не может быть меньше минимальной."
	ErrMaxBelowMinSupply = "🚫 Максимальный саплай не может быть меньше минимального. Попробуйте ещё раз."
	ErrBadRecipient      = "🚫 Если получатель аккаунт, необходимо ввести ID аккаунта. Если получатель канал, то необходимо ввести username канала, который начинается с @. Попробуйте ещё раз."
	ErrDepositRange      = "🚫 Введите число от 1 до 10000."

	Started = "🚀 Бот запущен. Нажмите /start для меню."

	Cancelled   = "🚫 Действие отменено."
	ConfigSaved = "✅ Конфигурация обновлена.\n⚠️ Не забудьте поменять 🟢 статус!"

	DepositTitle       = "Бот для подарков"
	DepositDescription = "Пополнение баланса"
	DepositDone        = "✅ Баланс успешно пополнен."

	RefundDone          = "✅ Возврат успешно выполнен."
	WithdrawAllConfirm  = "⚠️ Вы уверены, что хотите вывести все звёзды?"
	WithdrawAllProgress = "⏳ Выполняется вывод звёзд..."
	WithdrawAllEmpty    = "⚠️ Не найдено звёзд для возврата."

	TestBuyFailed = "⚠️ Покупка подарка 🧸 за ★15 невозможна.\n💰 Пополните баланс."

	ResetDone = "Счётчик покупок сброшен."
)

func PromptRecipient(operatorID int64) string {
	return fmt.Sprintf(
		"👤 Введите адрес получателя:\n\n"+
			"• <b>ID пользователя</b> (например ваш: <code>%d</code>)\n"+
			"• Или <b>username канала</b> (например: <code>@channel</code>)\n\n"+
			"❗️ Узнать ID пользователя тут @userinfobot\n\n"+
			"/cancel — отменить",
		operatorID,
	)
}

// TargetDisplay показывает получателя: канал как @username, оператор —
// с пометкой, чужой аккаунт — просто ID.
func TargetDisplay(recipient entity.Recipient, operatorID int64) string {
	if recipient.IsChannel() {
		return fmt.Sprintf("@%s (Канал)", recipient.ChannelHandle)
	}
	if recipient.UserID == operatorID {
		return fmt.Sprintf("<code>%d</code> (Вы)", recipient.UserID)
	}
	return fmt.Sprintf("<code>%d</code>", recipient.UserID)
}

func ConfigSummary(cfg entity.Config, operatorID int64) string {
	status := "🔴 Неактивен"
	if cfg.Active {
		status = "🟢 Активен"
	}

	return fmt.Sprintf(
		"🚦 <b>Статус:</b> %s\n\n"+
			"💰 <b>Цена</b>: %d – %d ★\n"+
			"📦 <b>Саплай</b>: %d – %d\n"+
			"🎁 <b>Количество</b>: %d / %d\n"+
			"👤 <b>Получатель</b>: %s\n\n"+
			"💰 <b>Баланс</b>: %d ★\n",
		status,
		cfg.MinPrice, cfg.MaxPrice,
		cfg.MinSupply, cfg.MaxSupply,
		cfg.Bought, cfg.TargetCount,
		TargetDisplay(cfg.Recipient(), operatorID),
		cfg.Balance,
	)
}

func HelpText(targetDisplay string) string {
	return fmt.Sprintf(
		"<b>🛠 Управление ботом (v%s):</b>\n\n"+
			"<b>🟢 Включить / 🔴 Выключить</b> — запускает или останавливает покупки.\n"+
			"<b>✏️ Изменить</b> — пошаговое изменение параметров конфигурации.\n"+
			"<b>♻️ Сбросить счётчик</b> — обнуляет количество уже купленных подарков.\n"+
			"<b>💰 Пополнить</b> — депозит звёзд в бот.\n"+
			"<b>↩️ Вывести</b> — возврат звёзд по ID транзакции.\n\n"+
			"<b>📌 Подсказки:</b>\n\n"+
			"❕ Если получатель подарка — другой пользователь, он должен зайти в этот бот и нажать <code>/start</code>.\n"+
			"❕ После изменения конфигурации, покупки автоматически не стартуют — включите 🟢 вручную.\n"+
			"❗️ Получатель подарка <b>аккаунт</b> — пишите <b>id</b> пользователя (узнать можно тут @userinfobot).\n"+
			"❗️ Получатель подарка <b>канал</b> — пишите <b>username</b> канала.\n"+
			"❓ Как посмотреть <b>ID транзакции</b> для возврата звёзд? Нажми на сообщение об оплате в чате с ботом и там будет ID транзакции.\n"+
			"✅ Хотите протестировать бот? Купите подарок 🧸 за ★15, получатель %s.",
		Version,
		targetDisplay,
	)
}

// RunSummaryText — итог прогона для оператора: построчно по типам подарков,
// затем общая сумма и получатель.
func RunSummaryText(s entity.RunSummary) string {
	var sb strings.Builder

	switch s.Outcome {
	case entity.RunCompleted:
		sb.WriteString("✅ Все подарки куплены!\n\n")
	case entity.RunStalled:
		sb.WriteString("⚠️ Покупка остановлена.\n💰 Пополните баланс.\n\n")
	}

	for _, line := range s.Lines {
		sb.WriteString(fmt.Sprintf("📦 <b>ID:</b> %s | 💰 %d ★ × %d\n", line.GiftID, line.Price, line.Count))
	}
	if len(s.Lines) > 0 {
		sb.WriteString("\n")
	}

	if s.Outcome == entity.RunCompleted {
		sb.WriteString(fmt.Sprintf("💸 <b>Общая сумма:</b> %d ★\n", s.TotalSpent))
	} else {
		sb.WriteString(fmt.Sprintf("💸 <b>Итого потрачено:</b> %d ★\n", s.TotalSpent))
		sb.WriteString(fmt.Sprintf("🎁 <b>Куплено:</b> %d из %d\n", s.Bought, s.TargetCount))
	}
	sb.WriteString(fmt.Sprintf("👤 <b>Получатель:</b> %s", s.Recipient))

	return sb.String()
}

func TestBuySuccess(targetDisplay string) string {
	return fmt.Sprintf("✅ Подарок 🧸 за ★15 куплен. Получатель: %s.", targetDisplay)
}

func RefundFailed(err error) string {
	return fmt.Sprintf("🚫 Ошибка при возврате:\n<code>%v</code>", err)
}

func WithdrawAllReport(refunded int64, count int, left int64) string {
	msg := fmt.Sprintf("✅ Возвращено: ★%d\n🔄 Транзакций: %d", refunded, count)
	if left > 0 {
		msg += fmt.Sprintf("\n💰 Остаток звёзд: %d", left)
	}
	return msg
}
