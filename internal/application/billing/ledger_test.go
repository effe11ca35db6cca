package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"antelope-chat-api/internal/domain/entity"
	apperrors "antelope-chat-api/pkg/errors"
)

func TestRecordUsageFreeModeSkipsBalance(t *testing.T) {
	ledger, usage, balances, txs := newTestLedger()

	err := ledger.RecordUsage(context.Background(), "telos", "alice", ModeFree, 100, 200, "claude-sonnet-4")
	if err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}

	row, err := usage.Get(context.Background(), "telos", "alice", entity.UsageDate(time.Now()))
	if err != nil || row == nil {
		t.Fatalf("usage row missing: %v", err)
	}
	if row.RequestCount != 1 || row.TotalInputTokens != 100 || row.TotalOutputTokens != 200 {
		t.Fatalf("usage row = %+v", row)
	}

	balance, _ := balances.Get(context.Background(), "telos", "alice")
	if balance != nil {
		t.Fatal("free mode must not create a balance row")
	}
	if len(txs.list) != 0 {
		t.Fatal("free mode must not append credit transactions")
	}
}

func TestRecordUsageByokModeSkipsBalance(t *testing.T) {
	ledger, _, balances, txs := newTestLedger()

	if err := ledger.RecordUsage(context.Background(), "telos", "alice", ModeBYOK, 50, 50, "gpt-4o"); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if balance, _ := balances.Get(context.Background(), "telos", "alice"); balance != nil {
		t.Fatal("byok mode must not touch balances")
	}
	if len(txs.list) != 0 {
		t.Fatal("byok mode must not append credit transactions")
	}
}

func TestRecordUsagePaidModeDebits(t *testing.T) {
	ledger, _, balances, txs := newTestLedger()
	seed := &entity.CreditBalance{ChainID: "telos", AccountName: "alice", BalanceTokens: 10000}
	if err := balances.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	if err := ledger.RecordUsage(context.Background(), "telos", "alice", ModePaid, 1500, 2500, "claude-sonnet-4"); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}

	balance, _ := balances.Get(context.Background(), "telos", "alice")
	if balance.BalanceTokens != 6000 {
		t.Fatalf("balance = %d, want 6000", balance.BalanceTokens)
	}

	if len(txs.list) != 1 {
		t.Fatalf("expected 1 usage transaction, got %d", len(txs.list))
	}
	tx := txs.list[0]
	if tx.Type != entity.CreditTransactionTypeUsage {
		t.Errorf("type = %s", tx.Type)
	}
	if tx.TokenUnitsDelta != -4000 || tx.BalanceAfter != 6000 {
		t.Errorf("delta = %d balance_after = %d", tx.TokenUnitsDelta, tx.BalanceAfter)
	}
	if tx.Model == nil || *tx.Model != "claude-sonnet-4" {
		t.Errorf("model = %v", tx.Model)
	}
}

// 余额不足时夹到 0，流水 delta 记实际扣减量
func TestRecordUsagePaidModeClampsToZero(t *testing.T) {
	ledger, _, balances, txs := newTestLedger()
	seed := &entity.CreditBalance{ChainID: "telos", AccountName: "alice", BalanceTokens: 1000}
	if err := balances.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	if err := ledger.RecordUsage(context.Background(), "telos", "alice", ModePaid, 3000, 3000, "m"); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}

	balance, _ := balances.Get(context.Background(), "telos", "alice")
	if balance.BalanceTokens != 0 {
		t.Fatalf("balance = %d, want 0", balance.BalanceTokens)
	}
	tx := txs.list[0]
	if tx.TokenUnitsDelta != -1000 || tx.BalanceAfter != 0 {
		t.Fatalf("delta = %d balance_after = %d, want -1000 / 0", tx.TokenUnitsDelta, tx.BalanceAfter)
	}
}

// 无上报用量的付费请求只计请求数，不产生零额流水
func TestRecordUsagePaidModeZeroTokens(t *testing.T) {
	ledger, usage, balances, txs := newTestLedger()
	seed := &entity.CreditBalance{ChainID: "telos", AccountName: "alice", BalanceTokens: 5000}
	if err := balances.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	if err := ledger.RecordUsage(context.Background(), "telos", "alice", ModePaid, 0, 0, "m"); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}

	row, _ := usage.Get(context.Background(), "telos", "alice", entity.UsageDate(time.Now()))
	if row == nil || row.RequestCount != 1 {
		t.Fatalf("usage row = %+v, want request_count 1", row)
	}
	balance, _ := balances.Get(context.Background(), "telos", "alice")
	if balance.BalanceTokens != 5000 {
		t.Fatalf("balance = %d, zero usage must not debit", balance.BalanceTokens)
	}
	if len(txs.list) != 0 {
		t.Fatalf("transactions = %d, zero usage must not append a record", len(txs.list))
	}
}

// 同一账户键的并发付费落账必须精确求和
func TestRecordUsageConcurrentSameAccount(t *testing.T) {
	ledger, usage, balances, txs := newTestLedger()
	seed := &entity.CreditBalance{ChainID: "telos", AccountName: "alice", BalanceTokens: 100000}
	if err := balances.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.RecordUsage(context.Background(), "telos", "alice", ModePaid, 100, 100, "m"); err != nil {
				t.Errorf("RecordUsage: %v", err)
			}
		}()
	}
	wg.Wait()

	balance, _ := balances.Get(context.Background(), "telos", "alice")
	if balance.BalanceTokens != 100000-workers*200 {
		t.Fatalf("balance = %d, want %d", balance.BalanceTokens, 100000-workers*200)
	}
	row, _ := usage.Get(context.Background(), "telos", "alice", entity.UsageDate(time.Now()))
	if row.RequestCount != workers {
		t.Fatalf("request_count = %d, want %d", row.RequestCount, workers)
	}
	if len(txs.list) != workers {
		t.Fatalf("transactions = %d, want %d", len(txs.list), workers)
	}
}

func TestCreditDeposit(t *testing.T) {
	ledger, _, balances, txs := newTestLedger()

	newBalance, err := ledger.CreditDeposit(context.Background(), "telos", "alice", 2.5, "aa11")
	if err != nil {
		t.Fatalf("CreditDeposit: %v", err)
	}
	if newBalance != 625000 {
		t.Fatalf("newBalance = %d, want 625000", newBalance)
	}

	balance, _ := balances.Get(context.Background(), "telos", "alice")
	if balance.BalanceTokens != 625000 || balance.TotalDepositedTLOS != 2.5 {
		t.Fatalf("balance row = %+v", balance)
	}

	tx := txs.list[0]
	if tx.Type != entity.CreditTransactionTypeDeposit || tx.TxHash == nil || *tx.TxHash != "aa11" {
		t.Fatalf("deposit tx = %+v", tx)
	}
	if tx.TokenUnitsDelta != 625000 || tx.BalanceAfter != 625000 {
		t.Fatalf("delta = %d balance_after = %d", tx.TokenUnitsDelta, tx.BalanceAfter)
	}

	// 二次充值累加
	newBalance, err = ledger.CreditDeposit(context.Background(), "telos", "alice", 1.0, "bb22")
	if err != nil {
		t.Fatalf("second CreditDeposit: %v", err)
	}
	if newBalance != 875000 {
		t.Fatalf("newBalance = %d, want 875000", newBalance)
	}
}

// 换算向下取整：不足 1 Token 单位的尾数丢弃
func TestCreditDepositFloorsTokenUnits(t *testing.T) {
	ledger, _, _, _ := newTestLedger()

	newBalance, err := ledger.CreditDeposit(context.Background(), "telos", "alice", 0.0000041, "cc33")
	if err != nil {
		t.Fatalf("CreditDeposit: %v", err)
	}
	// 0.0000041 * 250000 = 1.025 -> 1
	if newBalance != 1 {
		t.Fatalf("newBalance = %d, want 1", newBalance)
	}
}

func TestCreditDepositDuplicateHash(t *testing.T) {
	ledger, _, balances, _ := newTestLedger()

	if _, err := ledger.CreditDeposit(context.Background(), "telos", "alice", 1.0, "dd44"); err != nil {
		t.Fatalf("first deposit: %v", err)
	}

	_, err := ledger.CreditDeposit(context.Background(), "telos", "alice", 1.0, "dd44")
	if !errors.Is(err, apperrors.ErrDuplicateTransaction) {
		t.Fatalf("err = %v, want ErrDuplicateTransaction", err)
	}

	balance, _ := balances.Get(context.Background(), "telos", "alice")
	if balance.BalanceTokens != 250000 {
		t.Fatalf("balance = %d, duplicate must not credit twice", balance.BalanceTokens)
	}
}

// 同 hash 并发入账：恰好一次成功
func TestCreditDepositConcurrentSameHash(t *testing.T) {
	ledger, _, balances, _ := newTestLedger()

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, duplicates := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.CreditDeposit(context.Background(), "telos", "alice", 4.0, "ee55")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrDuplicateTransaction):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || duplicates != workers-1 {
		t.Fatalf("successes = %d duplicates = %d", successes, duplicates)
	}
	balance, _ := balances.Get(context.Background(), "telos", "alice")
	if balance.BalanceTokens != 1000000 {
		t.Fatalf("balance = %d, want 1000000", balance.BalanceTokens)
	}
}
