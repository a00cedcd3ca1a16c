package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	"golang.org/x/sync/errgroup"

	"tg_gifts/internal/config"
	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/domain/service/balance"
	"tg_gifts/internal/domain/service/purchase"
	"tg_gifts/internal/infrastructure/notifier"
	"tg_gifts/internal/infrastructure/store"
	"tg_gifts/internal/infrastructure/telegram"
	transport "tg_gifts/internal/transport/bot"
	"tg_gifts/internal/transport/bot/handler"
	"tg_gifts/internal/transport/bot/view"
	"tg_gifts/internal/transport/bot/wizard"
	"tg_gifts/internal/worker"
	"tg_gifts/pkg/application/modules"
	"tg_gifts/pkg/logx"
)

const appName = "tg_gifts"

func Run(ctx context.Context, log *slog.Logger, cancel context.CancelFunc) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	// 2. Документ конфигурации
	configStore := store.New(cfg.Store.Path, store.Defaults(cfg.Bot.AdminID))
	if _, err = configStore.Load(ctx); err != nil {
		return fmt.Errorf("config store load: %w", err)
	}
	log.Info("config store OK", "path", cfg.Store.Path)

	// 3. Telegram Bot API, один клиент на всё приложение
	bot, err := telego.NewBot(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	tgClient := telegram.NewClient(bot)

	// 4. Сервисы
	reconciler := balance.NewReconciler(tgClient, configStore).
		WithPageSize(cfg.Engine.LedgerPageSize)

	executor := purchase.NewExecutor(tgClient, reconciler, configStore).
		WithRetries(cfg.Engine.Retries)

	summariesCh := make(chan entity.RunSummary, 16)

	engine := worker.NewEngine(configStore, tgClient, executor, reconciler, summariesCh).
		WithIntervals(cfg.Engine.CycleInterval, cfg.Engine.PurchaseDelay)

	// 5. Транспорт
	menu := handler.NewMenu(bot, configStore, cfg.Bot.AdminID)
	wizardManager := wizard.NewManager(cfg.Bot.AdminID)
	commandHandler := handler.New(configStore, reconciler, tgClient, executor, wizardManager, menu, cfg.Bot.AdminID)

	var masker logx.SensitiveDataMaskerInterface = logx.NewSensitiveDataMasker()
	if !cfg.Log.MaskSensitive {
		masker = logx.NewNopSensitiveDataMasker()
	}

	botTransport, err := transport.New(ctx, bot, commandHandler, cfg.Bot.AdminID, masker)
	if err != nil {
		return fmt.Errorf("bot transport: %w", err)
	}

	alertBot := notifier.NewTelegramBot(bot, cfg.Bot.AdminID, reconciler, menu)

	// Стартовое сообщение заодно проверяет токен и доступность оператора.
	if err := alertBot.SendText(ctx, view.Started); err != nil {
		log.Warn("startup notification failed, check token and admin id", "error", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	modules.ProbeServer{
		Name:          appName,
		Version:       view.Version,
		ListenAddress: cfg.Probe.ProbeAddress,
	}.Run(gCtx, g)

	modules.MetricServer{
		ListenAddress: cfg.Probe.MetricsAddress,
	}.Run(gCtx, g)

	g.Go(func() error {
		defer close(summariesCh)

		if err := engine.Run(gCtx); err != nil && gCtx.Err() == nil {
			return fmt.Errorf("engine: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := alertBot.Run(gCtx, summariesCh); err != nil && gCtx.Err() == nil {
			return fmt.Errorf("notifier: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := botTransport.Run(gCtx); err != nil && gCtx.Err() == nil {
			return fmt.Errorf("bot transport: %w", err)
		}
		return nil
	})

	log.Info("application started", "admin", cfg.Bot.AdminID)

	if err := g.Wait(); err != nil {
		cancel()
		return err
	}

	log.Info("application stopping...")
	return nil
}
