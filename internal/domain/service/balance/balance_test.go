package balance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tg_gifts/internal/domain/entity"
	"tg_gifts/internal/domain/service/balance"
	"tg_gifts/internal/infrastructure/store"
)

type fakeLedger struct {
	txns  []entity.Transaction
	calls int
	err   error
}

func (f *fakeLedger) ListTransactions(_ context.Context, offset, limit int) ([]entity.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	if offset >= len(f.txns) {
		return nil, nil
	}

	end := min(offset+limit, len(f.txns))

	return f.txns[offset:end], nil
}

type fakeStore struct {
	cfg     entity.Config
	patches []store.Patch
}

func (f *fakeStore) Load(context.Context) (entity.Config, error) {
	return f.cfg, nil
}

func (f *fakeStore) Save(_ context.Context, patch store.Patch) error {
	f.patches = append(f.patches, patch)
	if patch.Balance != nil {
		f.cfg.Balance = *patch.Balance
	}
	return nil
}

func credit(id string, amount int64) entity.Transaction {
	return entity.Transaction{ID: id, Amount: amount, Direction: entity.TxnCredit}
}

func debit(id string, amount int64) entity.Transaction {
	return entity.Transaction{ID: id, Amount: amount, Direction: entity.TxnDebit}
}

func TestRefreshSumsAcrossPages(t *testing.T) {
	rq := require.New(t)

	ledger := &fakeLedger{txns: []entity.Transaction{
		credit("t1", 1000),
		debit("t2", 150),
		credit("t3", 500),
		debit("t4", 150),
		credit("t5", 25),
	}}
	st := &fakeStore{}

	// Страница в 2 записи заставляет обойти леджер в три захода.
	r := balance.NewReconciler(ledger, st).WithPageSize(2)

	got, err := r.Refresh(context.Background())
	rq.NoError(err)
	rq.Equal(int64(1225), got)
	rq.Equal(int64(1225), st.cfg.Balance)
	rq.GreaterOrEqual(ledger.calls, 3)
}

func TestRefreshEmptyLedger(t *testing.T) {
	rq := require.New(t)

	st := &fakeStore{cfg: entity.Config{Balance: 500}}
	r := balance.NewReconciler(&fakeLedger{}, st)

	got, err := r.Refresh(context.Background())
	rq.NoError(err)
	rq.Zero(got)
	rq.Zero(st.cfg.Balance)
}

func TestRefreshLedgerError(t *testing.T) {
	rq := require.New(t)

	ledger := &fakeLedger{err: errors.New("telegram down")}
	st := &fakeStore{}
	r := balance.NewReconciler(ledger, st)

	_, err := r.Refresh(context.Background())
	rq.Error(err)
	rq.Empty(st.patches)
}

func TestApplyDelta(t *testing.T) {
	rq := require.New(t)

	st := &fakeStore{cfg: entity.Config{Balance: 300}}
	r := balance.NewReconciler(&fakeLedger{}, st)

	got, err := r.ApplyDelta(context.Background(), -150)
	rq.NoError(err)
	rq.Equal(int64(150), got)
	rq.Equal(int64(150), st.cfg.Balance)
}

func TestApplyDeltaFloorsAtZero(t *testing.T) {
	rq := require.New(t)

	st := &fakeStore{cfg: entity.Config{Balance: 100}}
	r := balance.NewReconciler(&fakeLedger{}, st)

	got, err := r.ApplyDelta(context.Background(), -500)
	rq.NoError(err)
	rq.Zero(got)
}

type fakeRefunder struct {
	refunded []string
	failOn   map[string]bool
}

func (f *fakeRefunder) RefundTransaction(_ context.Context, _ int64, txnID string) error {
	if f.failOn[txnID] {
		return errors.New("charge not found")
	}
	f.refunded = append(f.refunded, txnID)
	return nil
}

func TestRefundAll(t *testing.T) {
	rq := require.New(t)

	ledger := &fakeLedger{txns: []entity.Transaction{
		credit("t1", 1000),
		debit("t2", 150),
		credit("t3", 500),
	}}
	st := &fakeStore{}
	r := balance.NewReconciler(ledger, st).WithPageSize(2)

	refunder := &fakeRefunder{}

	report, err := r.RefundAll(context.Background(), refunder, 1)
	rq.NoError(err)

	// Возвращаются только зачисления, списания не трогаем.
	rq.Equal([]string{"t1", "t3"}, refunder.refunded)
	rq.Equal(int64(1500), report.Refunded)
	rq.Equal(2, report.Count)
}

func TestRefundAllSkipsFailed(t *testing.T) {
	rq := require.New(t)

	ledger := &fakeLedger{txns: []entity.Transaction{
		credit("t1", 1000),
		credit("t2", 500),
	}}
	st := &fakeStore{}
	r := balance.NewReconciler(ledger, st)

	refunder := &fakeRefunder{failOn: map[string]bool{"t1": true}}

	report, err := r.RefundAll(context.Background(), refunder, 1)
	rq.NoError(err)
	rq.Equal([]string{"t2"}, refunder.refunded)
	rq.Equal(int64(500), report.Refunded)
	rq.Equal(1, report.Count)
}
