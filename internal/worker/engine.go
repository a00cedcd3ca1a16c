package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/domain/service/catalog"
	"tg_gifts/internal/infrastructure/store"
	"tg_gifts/internal/metrics"
	"tg_gifts/pkg/contextx"
	"tg_gifts/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// State — фаза движка в пределах цикла. Между рестартами процесса
// состояние живёт только в документе конфигурации (active/done/bought).
type State string

const (
	StateIdle      State = "idle"
	StateScanning  State = "scanning"
	StateBuying    State = "buying"
	StateCompleted State = "completed"
	StateStalled   State = "stalled"
)

type ConfigStore interface {
	Load(ctx context.Context) (entity.Config, error)
	Save(ctx context.Context, patch store.Patch) error
}

type CatalogClient interface {
	ListCatalog(ctx context.Context) ([]entity.Gift, error)
}

type Buyer interface {
	Buy(ctx context.Context, gift entity.Gift, recipient entity.Recipient) error
}

type BalanceRefresher interface {
	Refresh(ctx context.Context) (int64, error)
}

// Engine — оркестратор скупки: каждый цикл читает документ, фильтрует
// каталог и докупает до цели. Итоги прогона уходят в канал summaries.
type Engine struct {
	store     ConfigStore
	catalog   CatalogClient
	buyer     Buyer
	balance   BalanceRefresher
	summaries chan<- entity.RunSummary

	cycleInterval time.Duration
	purchaseDelay time.Duration
	wait          func(ctx context.Context, d time.Duration) error

	// Control fields
	mu         sync.Mutex
	state      State
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewEngine(
	configStore ConfigStore,
	catalogClient CatalogClient,
	buyer Buyer,
	balance BalanceRefresher,
	summaries chan<- entity.RunSummary,
) *Engine {
	return &Engine{
		store:         configStore,
		catalog:       catalogClient,
		buyer:         buyer,
		balance:       balance,
		summaries:     summaries,
		cycleInterval: 100 * time.Millisecond,
		purchaseDelay: 100 * time.Millisecond,
		wait:          waitCtx,
		state:         StateIdle,
	}
}

func (e *Engine) WithIntervals(cycle, purchase time.Duration) *Engine {
	if cycle > 0 {
		e.cycleInterval = cycle
	}
	if purchase >= 0 {
		e.purchaseDelay = purchase
	}
	return e
}

// WithWaitFunc подменяет паузы, чтобы тесты шагали по циклам без sleep.
func (e *Engine) WithWaitFunc(wait func(ctx context.Context, d time.Duration) error) *Engine {
	e.wait = wait
	return e
}

func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isRunning {
		return errors.New("engine is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancelFunc = cancel
	e.isRunning = true

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			e.mu.Lock()
			e.isRunning = false
			e.cancelFunc = nil
			e.mu.Unlock()
		}()

		if err := e.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(runCtx).Error("engine stopped", logx.Error(err))
		}
	}()

	return nil
}

func (e *Engine) Stop() {
	e.mu.Lock()

	if !e.isRunning {
		e.mu.Unlock()
		return
	}

	if e.cancelFunc != nil {
		e.cancelFunc()
	}
	e.mu.Unlock()

	e.wg.Wait()
}

func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isRunning
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Run крутит циклы до отмены контекста. Ошибка одного цикла логируется
// и не валит процесс.
func (e *Engine) Run(ctx context.Context) error {
	logger(ctx).Info("acquisition engine started")

	if _, err := e.balance.Refresh(ctx); err != nil {
		logger(ctx).Warn("initial balance refresh failed", logx.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("acquisition engine stopped")
			return ctx.Err()
		default:
		}

		// Каждый цикл получает свой trace id, чтобы логи покупок одного
		// цикла были связаны.
		cycleCtx := contextx.WithTraceID(ctx, contextx.NewTraceID())

		if err := e.RunCycle(cycleCtx); err != nil && !errors.Is(err, context.Canceled) {
			traceID, _ := contextx.TraceIDFromContext(cycleCtx)
			logger(ctx).Error("engine cycle failed", logx.Stringer(logx.FieldTraceID, traceID), logx.Error(err))
		}

		if err := e.wait(ctx, e.cycleInterval); err != nil {
			logger(ctx).Info("acquisition engine stopped")
			return err
		}
	}
}

// RunCycle выполняет ровно один цикл. Вынесен отдельно, чтобы тесты
// шагали по циклам детерминированно.
func (e *Engine) RunCycle(ctx context.Context) error {
	metrics.CyclesTotal.Inc()

	cfg, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Выключенный или завершённый прогон — no-op помимо ожидания.
	if !cfg.Active || cfg.Done {
		e.setState(StateIdle)
		return nil
	}

	e.setState(StateScanning)

	items, err := e.catalog.ListCatalog(ctx)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}

	eligible := catalog.Filter(items, cfg.MinPrice, cfg.MaxPrice, cfg.MinSupply, cfg.MaxSupply)
	if len(eligible) == 0 {
		e.setState(StateIdle)
		return nil
	}

	recipient := cfg.Recipient()
	var purchases []entity.Purchase

	e.setState(StateBuying)

	for _, gift := range eligible {
		logger(ctx).Info("eligible gift",
			logx.FieldGiftID, gift.ID, logx.FieldPrice, gift.Price, "supply", gift.Supply)

		for cfg.Bought < cfg.TargetCount {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := e.buyer.Buy(ctx, gift, recipient); err != nil {
				logger(ctx).Warn("purchase failed", logx.FieldGiftID, gift.ID, logx.Error(err))
				break
			}

			cfg.Bought++
			purchases = append(purchases, entity.Purchase{GiftID: gift.ID, Price: gift.Price})

			if err := e.store.Save(ctx, store.Patch{Bought: lo.ToPtr(cfg.Bought)}); err != nil {
				logger(ctx).Error("failed to persist bought counter", logx.Error(err))
			}

			// Небольшая пауза между покупками, чтобы не упереться в рейт-лимит.
			if err := e.wait(ctx, e.purchaseDelay); err != nil {
				return err
			}
		}

		// Завершение имеет приоритет над остановкой.
		if cfg.Bought >= cfg.TargetCount && !cfg.Done {
			return e.complete(ctx, cfg, purchases, recipient)
		}
	}

	if cfg.Bought < cfg.TargetCount && !cfg.Done {
		return e.stall(ctx, cfg, purchases, recipient)
	}

	return nil
}

func (e *Engine) complete(ctx context.Context, cfg entity.Config, purchases []entity.Purchase, recipient entity.Recipient) error {
	if err := e.store.Save(ctx, store.Patch{
		Active: lo.ToPtr(false),
		Done:   lo.ToPtr(true),
	}); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}

	e.setState(StateCompleted)

	logger(ctx).Info("run completed", "bought", cfg.Bought, "target", cfg.TargetCount)

	return e.emit(ctx, entity.NewRunSummary(entity.RunCompleted, purchases, cfg.Bought, cfg.TargetCount, recipient))
}

// stall выключает движок, но оставляет done=false: после пополнения баланса
// прогон можно продолжить с того же счётчика.
func (e *Engine) stall(ctx context.Context, cfg entity.Config, purchases []entity.Purchase, recipient entity.Recipient) error {
	if err := e.store.Save(ctx, store.Patch{Active: lo.ToPtr(false)}); err != nil {
		return fmt.Errorf("persist stall: %w", err)
	}

	e.setState(StateStalled)

	logger(ctx).Warn("run stalled", "bought", cfg.Bought, "target", cfg.TargetCount)

	return e.emit(ctx, entity.NewRunSummary(entity.RunStalled, purchases, cfg.Bought, cfg.TargetCount, recipient))
}

func (e *Engine) emit(ctx context.Context, summary entity.RunSummary) error {
	select {
	case e.summaries <- summary:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
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
