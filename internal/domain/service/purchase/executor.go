package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"tg_gifts/internal/domain"
	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/infrastructure/store"
	"tg_gifts/internal/metrics"
	"tg_gifts/pkg/contextx"
	"tg_gifts/pkg/errcodes"
	"tg_gifts/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultRetries = 3

type GiftSender interface {
	SendGift(ctx context.Context, recipient entity.Recipient, giftID string) error
}

type BalanceKeeper interface {
	Refresh(ctx context.Context) (int64, error)
	ApplyDelta(ctx context.Context, delta int64) (int64, error)
}

type ConfigStore interface {
	Save(ctx context.Context, patch store.Patch) error
}

// Executor выполняет одну покупку с ограниченными ретраями. Баланс
// списывается только после подтверждённой отправки — спекулятивного
// декремента не бывает.
type Executor struct {
	sender  GiftSender
	balance BalanceKeeper
	store   ConfigStore
	retries int
	wait    func(ctx context.Context, d time.Duration) error
}

func NewExecutor(sender GiftSender, balance BalanceKeeper, configStore ConfigStore) *Executor {
	return &Executor{
		sender:  sender,
		balance: balance,
		store:   configStore,
		retries: defaultRetries,
		wait:    waitCtx,
	}
}

func (e *Executor) WithRetries(retries int) *Executor {
	if retries > 0 {
		e.retries = retries
	}
	return e
}

// WithWaitFunc подменяет паузу бэкоффа, чтобы тесты шли без wall-clock.
func (e *Executor) WithWaitFunc(wait func(ctx context.Context, d time.Duration) error) *Executor {
	e.wait = wait
	return e
}

// Buy покупает один подарок. Нехватка средств не ретраится: движок
// выключается до пополнения. Сетевые сбои ретраятся с бэкоффом 2^attempt
// секунд, отказ Bot API обрывает попытки сразу.
func (e *Executor) Buy(ctx context.Context, gift entity.Gift, recipient entity.Recipient) error {
	current, err := e.balance.Refresh(ctx)
	if err != nil {
		metrics.PurchaseFailuresTotal.WithLabelValues(string(errcodes.TelegramUnavailable)).Inc()
		return fmt.Errorf("refresh balance: %w", err)
	}

	if current < gift.Price {
		logger(ctx).Warn("insufficient balance, deactivating engine",
			logx.FieldGiftID, gift.ID, logx.FieldPrice, gift.Price, logx.FieldBalance, current)

		if err := e.store.Save(ctx, store.Patch{Active: lo.ToPtr(false)}); err != nil {
			logger(ctx).Error("failed to deactivate engine", logx.Error(err))
		}

		metrics.PurchaseFailuresTotal.WithLabelValues(string(errcodes.InsufficientFunds)).Inc()

		return domain.NewError(errcodes.InsufficientFunds,
			fmt.Sprintf("gift %s costs %d, balance %d", gift.ID, gift.Price, current))
	}

	var lastErr error

	for attempt := 1; attempt <= e.retries; attempt++ {
		err := e.sender.SendGift(ctx, recipient, gift.ID)
		if err == nil {
			newBalance, err := e.balance.ApplyDelta(ctx, -gift.Price)
			if err != nil {
				logger(ctx).Error("balance bookkeeping failed after purchase", logx.Error(err))
			}

			metrics.PurchasesTotal.Inc()
			metrics.StarsSpentTotal.Add(float64(gift.Price))

			logger(ctx).Info("gift purchased",
				logx.FieldGiftID, gift.ID, logx.FieldPrice, gift.Price, logx.FieldBalance, newBalance)

			return nil
		}

		if domain.HasCode(err, errcodes.TelegramRejected) {
			logger(ctx).Error("purchase rejected by api", logx.FieldGiftID, gift.ID, logx.Error(err))
			metrics.PurchaseFailuresTotal.WithLabelValues(string(errcodes.TelegramRejected)).Inc()
			return err
		}

		lastErr = err
		delay := time.Duration(1<<attempt) * time.Second

		logger(ctx).Error("purchase attempt failed, backing off",
			logx.FieldGiftID, gift.ID, "attempt", attempt, "of", e.retries, "delay", delay, logx.Error(err))

		if werr := e.wait(ctx, delay); werr != nil {
			return werr
		}
	}

	metrics.PurchaseFailuresTotal.WithLabelValues(string(errcodes.TelegramUnavailable)).Inc()

	return domain.WrapError(lastErr, errcodes.TelegramUnavailable,
		fmt.Sprintf("gift %s not bought after %d attempts", gift.ID, e.retries))
}

func waitCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
