package balance

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/infrastructure/store"
	"tg_gifts/internal/metrics"
	"tg_gifts/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultPageSize = 100

type LedgerClient interface {
	ListTransactions(ctx context.Context, offset, limit int) ([]entity.Transaction, error)
}

type ConfigStore interface {
	Load(ctx context.Context) (entity.Config, error)
	Save(ctx context.Context, patch store.Patch) error
}

// Reconciler восстанавливает баланс из звёздного леджера. Refresh авторитетен,
// ApplyDelta — только быстрая локальная коррекция после покупки.
type Reconciler struct {
	ledger   LedgerClient
	store    ConfigStore
	pageSize int
}

func NewReconciler(ledger LedgerClient, configStore ConfigStore) *Reconciler {
	return &Reconciler{
		ledger:   ledger,
		store:    configStore,
		pageSize: defaultPageSize,
	}
}

func (r *Reconciler) WithPageSize(size int) *Reconciler {
	if size > 0 {
		r.pageSize = size
	}
	return r
}

// Refresh обходит весь леджер постранично, складывает зачисления минус
// списания, персистит результат и возвращает его. Вызывается на старте
// движка, после депозитов и возвратов — везде, где кэш мог протухнуть.
func (r *Reconciler) Refresh(ctx context.Context) (int64, error) {
	var (
		offset  int
		balance int64
	)

	for {
		txns, err := r.ledger.ListTransactions(ctx, offset, r.pageSize)
		if err != nil {
			return 0, fmt.Errorf("list transactions: %w", err)
		}
		if len(txns) == 0 {
			break
		}

		for _, txn := range txns {
			balance += txn.Signed()
		}

		offset += len(txns)
	}

	metrics.BalanceStars.Set(float64(balance))

	if err := r.store.Save(ctx, store.Patch{Balance: lo.ToPtr(balance)}); err != nil {
		return balance, fmt.Errorf("persist balance: %w", err)
	}

	logger(ctx).Debug("balance reconciled", "balance", balance)

	return balance, nil
}

// ApplyDelta корректирует закэшированный баланс без полного пересчёта.
// Результат никогда не уходит ниже нуля.
func (r *Reconciler) ApplyDelta(ctx context.Context, delta int64) (int64, error) {
	cfg, err := r.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load config: %w", err)
	}

	newBalance := max(cfg.Balance+delta, 0)

	metrics.BalanceStars.Set(float64(newBalance))

	if err := r.store.Save(ctx, store.Patch{Balance: lo.ToPtr(newBalance)}); err != nil {
		return newBalance, fmt.Errorf("persist balance: %w", err)
	}

	return newBalance, nil
}
