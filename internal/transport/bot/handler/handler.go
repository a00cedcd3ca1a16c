package handler

import (
	"context"

	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/domain/service/balance"
	"tg_gifts/internal/infrastructure/store"
	"tg_gifts/internal/infrastructure/telegram"
	"tg_gifts/internal/transport/bot/wizard"
	"tg_gifts/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ConfigStore interface {
	Load(ctx context.Context) (entity.Config, error)
	Save(ctx context.Context, patch store.Patch) error
}

type Buyer interface {
	Buy(ctx context.Context, gift entity.Gift, recipient entity.Recipient) error
}

// Тестовая покупка из меню помощи: мишка за 15 звёзд.
const (
	testGiftID    = "5170233102089322756"
	testGiftPrice = 15
)

type Handler struct {
	store   ConfigStore
	balance *balance.Reconciler
	tg      *telegram.Client
	buyer   Buyer
	wizard  *wizard.Manager
	menu    *Menu
	adminID int64
}

func New(
	configStore ConfigStore,
	reconciler *balance.Reconciler,
	tgClient *telegram.Client,
	buyer Buyer,
	wizardManager *wizard.Manager,
	menu *Menu,
	adminID int64,
) *Handler {
	return &Handler{
		store:   configStore,
		balance: reconciler,
		tg:      tgClient,
		buyer:   buyer,
		wizard:  wizardManager,
		menu:    menu,
		adminID: adminID,
	}
}
