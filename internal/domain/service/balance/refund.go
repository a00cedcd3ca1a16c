package balance

import (
	"context"
	"fmt"

	"tg_gifts/internal/domain/entity"
	"tg_gifts/pkg/logx"
)

type RefundClient interface {
	RefundTransaction(ctx context.Context, userID int64, txnID string) error
}

// Report — итог массового возврата.
type Report struct {
	Refunded int64 // возвращено звёзд
	Count    int   // успешных возвратов
	Left     int64 // баланс после пересчёта
}

// RefundAll возвращает все зачисления оператора по одному. Неудачные
// возвраты (например, старше срока возврата) пропускаются. В конце
// баланс пересчитывается по леджеру.
func (r *Reconciler) RefundAll(ctx context.Context, refunder RefundClient, userID int64) (Report, error) {
	var report Report

	offset := 0
	for {
		txns, err := r.ledger.ListTransactions(ctx, offset, r.pageSize)
		if err != nil {
			return report, fmt.Errorf("list transactions: %w", err)
		}
		if len(txns) == 0 {
			break
		}

		for _, txn := range txns {
			if txn.Direction != entity.TxnCredit {
				continue
			}

			if err := refunder.RefundTransaction(ctx, userID, txn.ID); err != nil {
				logger(ctx).Warn("refund skipped", "txn-id", txn.ID, logx.Error(err))
				continue
			}

			report.Refunded += txn.Amount
			report.Count++
		}

		offset += len(txns)
	}

	left, err := r.Refresh(ctx)
	if err != nil {
		return report, fmt.Errorf("refresh after refunds: %w", err)
	}
	report.Left = left

	return report, nil
}
