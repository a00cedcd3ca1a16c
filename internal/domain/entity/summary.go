package entity

import "github.com/samber/lo"

type RunOutcome string

const (
	// RunCompleted — куплено bought >= target, движок выключен, done=true.
	RunCompleted RunOutcome = "completed"
	// RunStalled — подходящие подарки были, но цель не добита; done остаётся
	// false, чтобы цикл возобновился после пополнения.
	RunStalled RunOutcome = "stalled"
)

// Purchase — одна успешная покупка из леджера текущего прогона.
type Purchase struct {
	GiftID string
	Price  int64
}

// PurchaseLine — агрегированная строка отчёта: один тип подарка.
type PurchaseLine struct {
	GiftID string
	Price  int64
	Count  int64
}

// RunSummary — итог прогона для оператора.
type RunSummary struct {
	Outcome     RunOutcome
	Lines       []PurchaseLine
	TotalSpent  int64
	Bought      int64
	TargetCount int64
	Recipient   Recipient
}

func NewRunSummary(outcome RunOutcome, purchases []Purchase, bought, target int64, recipient Recipient) RunSummary {
	grouped := lo.GroupBy(purchases, func(p Purchase) string { return p.GiftID })

	// Порядок строк — порядок первой покупки каждого подарка.
	seen := make(map[string]bool, len(grouped))
	lines := make([]PurchaseLine, 0, len(grouped))
	var total int64

	for _, p := range purchases {
		total += p.Price
		if seen[p.GiftID] {
			continue
		}
		seen[p.GiftID] = true
		lines = append(lines, PurchaseLine{
			GiftID: p.GiftID,
			Price:  p.Price,
			Count:  int64(len(grouped[p.GiftID])),
		})
	}

	return RunSummary{
		Outcome:     outcome,
		Lines:       lines,
		TotalSpent:  total,
		Bought:      bought,
		TargetCount: target,
		Recipient:   recipient,
	}
}
