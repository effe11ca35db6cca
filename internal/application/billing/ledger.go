// Package billing 实现额度判定、信用账本与充值核销
package billing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	apperrors "antelope-chat-api/pkg/errors"
	"antelope-chat-api/pkg/logger"
	"antelope-chat-api/pkg/metrics"
)

// 计费合约常量
const (
	// FreeRequestsPerDay 每个账户每 UTC 日的免费请求数
	FreeRequestsPerDay = 5
	// TokensPerTLOS 每 1 TLOS 兑换的 Token 单位数
	TokensPerTLOS int64 = 250000
)

// Ledger 信用账本。所有余额变动在数据库事务内完成，
// 同一账户键的写互斥，不同账户键并行。
type Ledger struct {
	tx           repository.Transactor
	usage        repository.DailyUsageRepository
	balances     repository.CreditBalanceRepository
	transactions repository.CreditTransactionRepository

	accountLocks *keyedMutex
	depositLocks *keyedMutex
	now          func() time.Time
}

// NewLedger 创建账本服务
func NewLedger(
	tx repository.Transactor,
	usage repository.DailyUsageRepository,
	balances repository.CreditBalanceRepository,
	transactions repository.CreditTransactionRepository,
) *Ledger {
	return &Ledger{
		tx:           tx,
		usage:        usage,
		balances:     balances,
		transactions: transactions,
		accountLocks: newKeyedMutex(),
		depositLocks: newKeyedMutex(),
		now:          time.Now,
	}
}

// WithClock 注入时钟
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

func accountKey(chainID, accountName string) string {
	return chainID + "/" + accountName
}

// TokensForTLOS 把 TLOS 金额换算为 Token 单位，向下取整
func TokensForTLOS(amount float64) int64 {
	return int64(math.Floor(amount * float64(TokensPerTLOS)))
}

// RecordUsage 请求完成后落账。所有模式累加当日用量；
// 付费模式额外在同一事务内扣减余额并追加 usage 流水，余额向下夹到 0。
func (l *Ledger) RecordUsage(ctx context.Context, chainID, accountName string, mode Mode, inputTokens, outputTokens int64, model string) error {
	unlock := l.accountLocks.Lock(accountKey(chainID, accountName))
	defer unlock()

	today := entity.UsageDate(l.now())
	totalTokens := inputTokens + outputTokens

	return l.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := l.usage.Increment(ctx, chainID, accountName, today, inputTokens, outputTokens); err != nil {
			return apperrors.ErrStorageError.WithError(err)
		}

		if mode != ModePaid {
			return nil
		}
		// 模型未报告用量（如完成前断连）时不动余额，流水里不留零额记录
		if totalTokens == 0 {
			return nil
		}

		balance, err := l.balances.GetForUpdate(ctx, chainID, accountName)
		if err != nil {
			return apperrors.ErrStorageError.WithError(err)
		}
		if balance == nil {
			// 付费模式但余额行缺失：按零余额处理，不产生负债
			balance = &entity.CreditBalance{ChainID: chainID, AccountName: accountName}
			if err := l.balances.Create(ctx, balance); err != nil {
				return apperrors.ErrStorageError.WithError(err)
			}
		}

		newBalance := balance.BalanceTokens - totalTokens
		if newBalance < 0 {
			newBalance = 0
		}
		// delta 记实际扣减量，保证流水重放能得到当前余额
		debited := balance.BalanceTokens - newBalance

		balance.BalanceTokens = newBalance
		if err := l.balances.Update(ctx, balance); err != nil {
			return apperrors.ErrStorageError.WithError(err)
		}

		usageTx := &entity.CreditTransaction{
			ChainID:         chainID,
			AccountName:     accountName,
			Type:            entity.CreditTransactionTypeUsage,
			InputTokens:     &inputTokens,
			OutputTokens:    &outputTokens,
			TotalTokens:     &totalTokens,
			Model:           &model,
			TokenUnitsDelta: -debited,
			BalanceAfter:    newBalance,
		}
		if err := l.transactions.Create(ctx, usageTx); err != nil {
			return apperrors.ErrStorageError.WithError(err)
		}

		metrics.CreditTokensDebited.Add(float64(debited))
		if debited < totalTokens {
			logger.Warn(ctx, "usage exceeded remaining balance, clamped to zero",
				"chain_id", chainID,
				"account", accountName,
				"total_tokens", totalTokens,
				"debited", debited,
			)
		}
		return nil
	})
}

// CreditDeposit 入账一笔已核验的链上充值。同一 txHash 至多入账一次。
// 返回入账后的余额。
func (l *Ledger) CreditDeposit(ctx context.Context, chainID, accountName string, tlosAmount float64, txHash string) (int64, error) {
	unlockTx := l.depositLocks.Lock(txHash)
	defer unlockTx()
	unlockAccount := l.accountLocks.Lock(accountKey(chainID, accountName))
	defer unlockAccount()

	exists, err := l.transactions.ExistsByTxHash(ctx, txHash)
	if err != nil {
		return 0, apperrors.ErrStorageError.WithError(err)
	}
	if exists {
		metrics.CreditDepositsTotal.WithLabelValues("duplicate").Inc()
		return 0, apperrors.ErrDuplicateTransaction
	}

	tokenUnits := TokensForTLOS(tlosAmount)
	if tokenUnits < 0 {
		return 0, apperrors.ErrInvalidAmount.WithDetail(fmt.Sprintf("amount %v", tlosAmount))
	}

	var newBalance int64
	err = l.tx.WithTransaction(ctx, func(ctx context.Context) error {
		balance, err := l.balances.GetForUpdate(ctx, chainID, accountName)
		if err != nil {
			return apperrors.ErrStorageError.WithError(err)
		}
		if balance == nil {
			balance = &entity.CreditBalance{
				ChainID:            chainID,
				AccountName:        accountName,
				BalanceTokens:      tokenUnits,
				TotalDepositedTLOS: tlosAmount,
			}
			if err := l.balances.Create(ctx, balance); err != nil {
				return apperrors.ErrStorageError.WithError(err)
			}
		} else {
			balance.BalanceTokens += tokenUnits
			balance.TotalDepositedTLOS += tlosAmount
			if err := l.balances.Update(ctx, balance); err != nil {
				return apperrors.ErrStorageError.WithError(err)
			}
		}
		newBalance = balance.BalanceTokens

		depositTx := &entity.CreditTransaction{
			ChainID:         chainID,
			AccountName:     accountName,
			Type:            entity.CreditTransactionTypeDeposit,
			TLOSAmount:      &tlosAmount,
			TxHash:          &txHash,
			TokenUnitsDelta: tokenUnits,
			BalanceAfter:    newBalance,
		}
		// 唯一约束兜底：并发同 hash 时败者在这里回滚
		if err := l.transactions.Create(ctx, depositTx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateTransaction) {
			metrics.CreditDepositsTotal.WithLabelValues("duplicate").Inc()
			return 0, apperrors.ErrDuplicateTransaction
		}
		metrics.CreditDepositsTotal.WithLabelValues("error").Inc()
		return 0, err
	}

	metrics.CreditDepositsTotal.WithLabelValues("success").Inc()
	logger.Info(ctx, "credit deposit recorded",
		"chain_id", chainID,
		"account", accountName,
		"tlos_amount", tlosAmount,
		"token_units", tokenUnits,
		"new_balance", newBalance,
	)
	return newBalance, nil
}
