package telegram

import (
	"fmt"

	"github.com/mymmrac/telego"
)

// Client оборачивает Bot API: отправка подарков, каталог, звёздный леджер
// и возвраты. Рендеринг сообщений сюда не входит — это слой transport/bot.
type Client struct {
	bot *telego.Bot
}

func NewClient(bot *telego.Bot) *Client {
	return &Client{bot: bot}
}

func NewClientFromToken(token string) (*Client, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return NewClient(bot), nil
}
