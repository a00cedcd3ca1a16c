package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/transport/bot/view"
	"tg_gifts/pkg/contextx"
	"tg_gifts/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type BalanceRefresher interface {
	Refresh(ctx context.Context) (int64, error)
}

type MenuRefresher interface {
	Refresh(ctx context.Context, currentMessageID int) error
}

// TelegramBot доставляет оператору итоги прогонов движка. После каждого
// итога баланс пересчитывается и меню перерисовывается.
type TelegramBot struct {
	bot     *telego.Bot
	chatID  int64
	balance BalanceRefresher
	menu    MenuRefresher
}

func NewTelegramBot(bot *telego.Bot, chatID int64, balance BalanceRefresher, menu MenuRefresher) *TelegramBot {
	return &TelegramBot{
		bot:     bot,
		chatID:  chatID,
		balance: balance,
		menu:    menu,
	}
}

// Run запускает обработку итогов из канала.
func (b *TelegramBot) Run(ctx context.Context, summaries <-chan entity.RunSummary) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case summary, ok := <-summaries:
			if !ok {
				return nil
			}
			if err := b.SendSummary(ctx, summary); err != nil {
				logger(ctx).Error("failed to send run summary", logx.Error(err))
			}
		}
	}
}

func (b *TelegramBot) SendSummary(ctx context.Context, summary entity.RunSummary) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		view.RunSummaryText(summary),
	).WithParseMode(telego.ModeHTML)

	sent, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	if _, err = b.balance.Refresh(ctx); err != nil {
		logger(ctx).Warn("balance refresh after summary failed", logx.Error(err))
	}

	if err = b.menu.Refresh(ctx, sent.MessageID); err != nil {
		logger(ctx).Warn("menu refresh after summary failed", logx.Error(err))
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
