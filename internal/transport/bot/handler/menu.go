package handler

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/samber/lo"

	"tg_gifts/internal/infrastructure/store"
	"tg_gifts/internal/transport/bot/view"
	"tg_gifts/pkg/logx"
)

// Menu владеет единственным управляющим сообщением в чате оператора:
// старое меню удаляется, новое отправляется, его ID персистится.
type Menu struct {
	bot     *telego.Bot
	store   ConfigStore
	adminID int64
}

func NewMenu(bot *telego.Bot, configStore ConfigStore, adminID int64) *Menu {
	return &Menu{
		bot:     bot,
		store:   configStore,
		adminID: adminID,
	}
}

// Refresh перерисовывает меню. currentMessageID нужен, чтобы не удалить
// сообщение, под которым меню и перерисовывается.
func (m *Menu) Refresh(ctx context.Context, currentMessageID int) error {
	cfg, err := m.store.Load(ctx)
	if err != nil {
		return err
	}

	m.deleteStale(ctx, cfg.LastMenuMessageID, currentMessageID)

	sent, err := m.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      tu.ID(m.adminID),
		Text:        view.ConfigSummary(cfg, m.adminID),
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: ActionKeyboard(cfg.Active),
	})
	if err != nil {
		return err
	}

	return m.store.Save(ctx, store.Patch{MenuMessageID: lo.ToPtr(int64(sent.MessageID))})
}

func (m *Menu) deleteStale(ctx context.Context, lastID *int64, currentMessageID int) {
	if lastID == nil || int(*lastID) == currentMessageID {
		return
	}

	err := m.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    tu.ID(m.adminID),
		MessageID: int(*lastID),
	})
	if err != nil && !strings.Contains(err.Error(), "message to delete not found") {
		logger(ctx).Warn("failed to delete stale menu", logx.FieldMessageID, *lastID, logx.Error(err))
	}
}

func ActionKeyboard(active bool) *telego.InlineKeyboardMarkup {
	toggleText := "🟢 Включить"
	if active {
		toggleText = "🔴 Выключить"
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(toggleText).WithCallbackData("toggle_active"),
			tu.InlineKeyboardButton("✏️ Изменить").WithCallbackData("edit_config"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("♻️ Сбросить").WithCallbackData("reset_bought"),
			tu.InlineKeyboardButton("❓ Помощь").WithCallbackData("show_help"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("💰 Пополнить").WithCallbackData("deposit_menu"),
			tu.InlineKeyboardButton("↩️ Вывести").WithCallbackData("refund_menu"),
		),
	)
}
