package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"

	"tg_gifts/internal/domain"
	"tg_gifts/internal/domain/entity"
	"tg_gifts/pkg/errcodes"
	"tg_gifts/pkg/lox"
)

const requestTimeout = 15 * time.Second

// SendGift отправляет подарок получателю. Отказ Bot API и сетевой сбой
// различаются кодом ошибки: первый не ретраится, второй — ретраится.
func (c *Client) SendGift(ctx context.Context, recipient entity.Recipient, giftID string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	params := &telego.SendGiftParams{GiftID: giftID}
	if recipient.IsChannel() {
		params.ChatID = telego.ChatID{Username: "@" + recipient.ChannelHandle}
	} else {
		params.UserID = recipient.UserID
	}

	if err := c.bot.SendGift(ctx, params); err != nil {
		return classify(err, "send gift")
	}

	return nil
}

// ListCatalog возвращает доступные подарки из магазина.
func (c *Client) ListCatalog(ctx context.Context) ([]entity.Gift, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := c.bot.GetAvailableGifts(ctx)
	if err != nil {
		return nil, classify(err, "get available gifts")
	}

	return lox.Map(res.Gifts, func(g telego.Gift) entity.Gift {
		return entity.Gift{
			ID:        g.ID,
			Price:     int64(g.StarCount),
			Supply:    int64(g.TotalCount),
			StickerID: g.Sticker.FileID,
		}
	}), nil
}

// ListTransactions возвращает одну страницу звёздного леджера. Направление
// выводится из наличия источника: есть источник — зачисление от пользователя,
// нет — списание ботом.
func (c *Client) ListTransactions(ctx context.Context, offset, limit int) ([]entity.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := c.bot.GetStarTransactions(ctx, &telego.GetStarTransactionsParams{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, classify(err, "get star transactions")
	}

	return lox.Map(res.Transactions, func(t telego.StarTransaction) entity.Transaction {
		direction := entity.TxnDebit
		if t.Source != nil {
			direction = entity.TxnCredit
		}
		return entity.Transaction{
			ID:        t.ID,
			Amount:    int64(t.Amount),
			Direction: direction,
		}
	}), nil
}

// RefundTransaction возвращает звёзды по ID транзакции.
func (c *Client) RefundTransaction(ctx context.Context, userID int64, txnID string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	err := c.bot.RefundStarPayment(ctx, &telego.RefundStarPaymentParams{
		UserID:                  userID,
		TelegramPaymentChargeID: txnID,
	})
	if err != nil {
		return classify(err, "refund star payment")
	}

	return nil
}

func classify(err error, message string) error {
	var apiErr *telegoapi.Error
	if errors.As(err, &apiErr) {
		return domain.WrapError(err, errcodes.TelegramRejected, fmt.Sprintf("%s: rejected by api", message))
	}

	return domain.WrapError(err, errcodes.TelegramUnavailable, fmt.Sprintf("%s: network failure", message))
}
