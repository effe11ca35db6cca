package billing

import (
	"context"
	"sync"

	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	apperrors "antelope-chat-api/pkg/errors"
)

// 事务在这些内存实现上是空操作，原子性由账本的键互斥保证
type fakeTransactor struct{}

func (fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUsageRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.DailyUsage
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{rows: make(map[string]*entity.DailyUsage)}
}

func usageKey(chainID, accountName, date string) string {
	return chainID + "/" + accountName + "/" + date
}

func (f *fakeUsageRepo) Get(ctx context.Context, chainID, accountName, date string) (*entity.DailyUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[usageKey(chainID, accountName, date)]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (f *fakeUsageRepo) Increment(ctx context.Context, chainID, accountName, date string, inputTokens, outputTokens int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := usageKey(chainID, accountName, date)
	row, ok := f.rows[key]
	if !ok {
		row = &entity.DailyUsage{ChainID: chainID, AccountName: accountName, Date: date}
		f.rows[key] = row
	}
	row.RequestCount++
	row.TotalInputTokens += inputTokens
	row.TotalOutputTokens += outputTokens
	return nil
}

func (f *fakeUsageRepo) ListRecent(ctx context.Context, chainID, accountName string, days int) ([]*entity.DailyUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.DailyUsage
	for _, row := range f.rows {
		if row.ChainID == chainID && row.AccountName == accountName {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeBalanceRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.CreditBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{rows: make(map[string]*entity.CreditBalance)}
}

func (f *fakeBalanceRepo) Get(ctx context.Context, chainID, accountName string) (*entity.CreditBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[accountKey(chainID, accountName)]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (f *fakeBalanceRepo) GetForUpdate(ctx context.Context, chainID, accountName string) (*entity.CreditBalance, error) {
	return f.Get(ctx, chainID, accountName)
}

func (f *fakeBalanceRepo) Create(ctx context.Context, balance *entity.CreditBalance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *balance
	f.rows[accountKey(balance.ChainID, balance.AccountName)] = &clone
	return nil
}

func (f *fakeBalanceRepo) Update(ctx context.Context, balance *entity.CreditBalance) error {
	return f.Create(ctx, balance)
}

type fakeTxRepo struct {
	mu     sync.Mutex
	list   []*entity.CreditTransaction
	byHash map[string]bool
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{byHash: make(map[string]bool)}
}

func (f *fakeTxRepo) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tx.TxHash != nil {
		if f.byHash[*tx.TxHash] {
			return apperrors.ErrDuplicateTransaction
		}
		f.byHash[*tx.TxHash] = true
	}
	clone := *tx
	f.list = append(f.list, &clone)
	return nil
}

func (f *fakeTxRepo) ExistsByTxHash(ctx context.Context, txHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byHash[txHash], nil
}

func (f *fakeTxRepo) ListByAccount(ctx context.Context, chainID, accountName string, pagination repository.Pagination) (*repository.PagedResult[*entity.CreditTransaction], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []*entity.CreditTransaction
	for _, tx := range f.list {
		if tx.ChainID == chainID && tx.AccountName == accountName {
			clone := *tx
			items = append(items, &clone)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), pagination), nil
}

func newTestLedger() (*Ledger, *fakeUsageRepo, *fakeBalanceRepo, *fakeTxRepo) {
	usage := newFakeUsageRepo()
	balances := newFakeBalanceRepo()
	txs := newFakeTxRepo()
	return NewLedger(fakeTransactor{}, usage, balances, txs), usage, balances, txs
}
