package config

import "time"

type Engine struct {
	CycleInterval time.Duration `env:"ENGINE_CYCLE_INTERVAL" envDefault:"100ms" validate:"gt=0"`
	PurchaseDelay time.Duration `env:"ENGINE_PURCHASE_DELAY" envDefault:"100ms" validate:"gte=0"`
	Retries       int           `env:"ENGINE_PURCHASE_RETRIES" envDefault:"3" validate:"gte=1"`
	// Размер страницы при обходе леджера транзакций.
	LedgerPageSize int `env:"ENGINE_LEDGER_PAGE_SIZE" envDefault:"100" validate:"gte=1"`
}
