package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg_gifts/internal/domain"
	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/infrastructure/store"
	"tg_gifts/internal/worker"
	"tg_gifts/pkg/errcodes"
)

type fakeStore struct {
	cfg entity.Config
}

func (f *fakeStore) Load(context.Context) (entity.Config, error) {
	return f.cfg, nil
}

func (f *fakeStore) Save(_ context.Context, patch store.Patch) error {
	if patch.Bought != nil {
		f.cfg.Bought = *patch.Bought
	}
	if patch.Active != nil {
		f.cfg.Active = *patch.Active
	}
	if patch.Done != nil {
		f.cfg.Done = *patch.Done
	}
	if patch.Balance != nil {
		f.cfg.Balance = *patch.Balance
	}
	return nil
}

type fakeCatalog struct {
	gifts []entity.Gift
	err   error
}

func (f *fakeCatalog) ListCatalog(context.Context) ([]entity.Gift, error) {
	return f.gifts, f.err
}

// fakeBuyer успешно покупает maxBuys раз, дальше отдаёт failWith.
type fakeBuyer struct {
	maxBuys  int
	failWith error
	bought   []entity.Gift
}

func (f *fakeBuyer) Buy(_ context.Context, gift entity.Gift, _ entity.Recipient) error {
	if len(f.bought) >= f.maxBuys {
		return f.failWith
	}
	f.bought = append(f.bought, gift)
	return nil
}

type fakeRefresher struct{}

func (fakeRefresher) Refresh(context.Context) (int64, error) { return 0, nil }

func newEngine(st *fakeStore, cat *fakeCatalog, buyer *fakeBuyer, summaries chan entity.RunSummary) *worker.Engine {
	return worker.NewEngine(st, cat, buyer, fakeRefresher{}, summaries).
		WithWaitFunc(func(context.Context, time.Duration) error { return nil })
}

func activeConfig(target int64) entity.Config {
	return entity.Config{
		MinPrice:    100,
		MaxPrice:    200,
		MinSupply:   100,
		MaxSupply:   1000,
		TargetCount: target,
		Active:      true,
	}
}

func TestCycleCompletesRun(t *testing.T) {
	rq := require.New(t)

	st := &fakeStore{cfg: activeConfig(2)}
	cat := &fakeCatalog{gifts: []entity.Gift{{ID: "a", Price: 150, Supply: 500}}}
	buyer := &fakeBuyer{maxBuys: 10}
	summaries := make(chan entity.RunSummary, 1)

	e := newEngine(st, cat, buyer, summaries)

	rq.NoError(e.RunCycle(context.Background()))

	rq.Len(buyer.bought, 2)
	rq.Equal(int64(2), st.cfg.Bought)
	rq.False(st.cfg.Active)
	rq.True(st.cfg.Done)
	rq.Equal(worker.StateCompleted, e.State())

	summary := <-summaries
	rq.Equal(entity.RunCompleted, summary.Outcome)
	rq.Equal(int64(300), summary.TotalSpent)
	rq.Len(summary.Lines, 1)
	rq.Equal(entity.PurchaseLine{GiftID: "a", Price: 150, Count: 2}, summary.Lines[0])
}

func TestCycleStallsWhenPurchasesFail(t *testing.T) {
	rq := require.New(t)

	st := &fakeStore{cfg: activeConfig(5)}
	cat := &fakeCatalog{gifts: []entity.Gift{{ID: "a", Price: 150, Supply: 500}}}
	buyer := &fakeBuyer{
		maxBuys:  1,
		failWith: domain.NewError(errcodes.InsufficientFunds, "balance 0"),
	}
	summaries := make(chan entity.RunSummary, 1)

	e := newEngine(st, cat, buyer, summaries)

	rq.NoError(e.RunCycle(context.Background()))

	// Остановка выключает движок, но done остаётся false: после пополнения
	// прогон продолжится с того же счётчика.
	rq.Equal(int64(1), st.cfg.Bought)
	rq.False(st.cfg.Active)
	rq.False(st.cfg.Done)
	rq.Equal(worker.StateStalled, e.State())

	summary := <-summaries
	rq.Equal(entity.RunStalled, summary.Outcome)
	rq.Equal(int64(1), summary.Bought)
	rq.Equal(int64(5), summary.TargetCount)
	rq.Equal(int64(150), summary.TotalSpent)
}

func TestCycleResumesAfterStall(t *testing.T) {
	rq := require.New(t)

	st := &fakeStore{cfg: activeConfig(3)}
	cat := &fakeCatalog{gifts: []entity.Gift{{ID: "a", Price: 150, Supply: 500}}}
	buyer := &fakeBuyer{
		maxBuys:  1,
		failWith: domain.NewError(errcodes.InsufficientFunds, "balance 0"),
	}
	summaries := make(chan entity.RunSummary, 2)

	e := newEngine(st, cat, buyer, summaries)

	rq.NoError(e.RunCycle(context.Background()))
	rq.Equal(int64(1), st.cfg.Bought)

	// Оператор пополнил баланс и включил движок.
	st.cfg.Active = true
	buyer.maxBuys = 10

	rq.NoError(e.RunCycle(context.Background()))

	rq.Equal(int64(3), st.cfg.Bought)
	rq.True(st.cfg.Done)

	<-summaries
	summary := <-summaries
	rq.Equal(entity.RunCompleted, summary.Outcome)
	rq.Equal(int64(3), summary.Bought)
	// В отчёт попадают только покупки текущего прогона.
	rq.Equal(int64(300), summary.TotalSpent)
}

func TestCycleIdleWhenInactive(t *testing.T) {
	rq := require.New(t)

	cfg := activeConfig(2)
	cfg.Active = false

	st := &fakeStore{cfg: cfg}
	buyer := &fakeBuyer{maxBuys: 10}
	summaries := make(chan entity.RunSummary, 1)

	e := newEngine(st, &fakeCatalog{gifts: []entity.Gift{{ID: "a", Price: 150, Supply: 500}}}, buyer, summaries)

	rq.NoError(e.RunCycle(context.Background()))

	rq.Empty(buyer.bought)
	rq.Empty(summaries)
	rq.Equal(worker.StateIdle, e.State())
}

func TestCycleIdleWhenDone(t *testing.T) {
	rq := require.New(t)

	cfg := activeConfig(2)
	cfg.Bought = 2
	cfg.Done = true

	st := &fakeStore{cfg: cfg}
	buyer := &fakeBuyer{maxBuys: 10}
	summaries := make(chan entity.RunSummary, 1)

	e := newEngine(st, &fakeCatalog{gifts: []entity.Gift{{ID: "a", Price: 150, Supply: 500}}}, buyer, summaries)

	rq.NoError(e.RunCycle(context.Background()))

	rq.Empty(buyer.bought)
	rq.Empty(summaries)
}

func TestCycleNoEligibleGiftsIsNotAStall(t *testing.T) {
	rq := require.New(t)

	st := &fakeStore{cfg: activeConfig(2)}
	cat := &fakeCatalog{gifts: []entity.Gift{{ID: "cheap", Price: 10, Supply: 500}}}
	buyer := &fakeBuyer{maxBuys: 10}
	summaries := make(chan entity.RunSummary, 1)

	e := newEngine(st, cat, buyer, summaries)

	rq.NoError(e.RunCycle(context.Background()))

	// Пустой отбор — ждём следующего дропа, движок остаётся включённым.
	rq.Empty(buyer.bought)
	rq.Empty(summaries)
	rq.True(st.cfg.Active)
	rq.Equal(worker.StateIdle, e.State())
}

func TestCycleBuysMostExpensiveFirst(t *testing.T) {
	rq := require.New(t)

	st := &fakeStore{cfg: activeConfig(2)}
	cat := &fakeCatalog{gifts: []entity.Gift{
		{ID: "mid", Price: 150, Supply: 500},
		{ID: "top", Price: 200, Supply: 500},
	}}
	buyer := &fakeBuyer{maxBuys: 10}
	summaries := make(chan entity.RunSummary, 1)

	e := newEngine(st, cat, buyer, summaries)

	rq.NoError(e.RunCycle(context.Background()))

	rq.Len(buyer.bought, 2)
	rq.Equal("top", buyer.bought[0].ID)
	rq.Equal("top", buyer.bought[1].ID)
}

func TestStartStop(t *testing.T) {
	rq := require.New(t)

	cfg := activeConfig(2)
	cfg.Active = false

	st := &fakeStore{cfg: cfg}
	summaries := make(chan entity.RunSummary, 1)

	e := newEngine(st, &fakeCatalog{}, &fakeBuyer{}, summaries)

	rq.NoError(e.Start(context.Background()))
	rq.True(e.IsRunning())
	rq.Error(e.Start(context.Background()))

	e.Stop()
	rq.False(e.IsRunning())
}
