// Package billing 实现额度判定、信用账本与充值核销
package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"antelope-chat-api/internal/application/appconfig"
	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/infrastructure/antelope"
	apperrors "antelope-chat-api/pkg/errors"
	"antelope-chat-api/pkg/logger"
)

// TransactionFetcher 结算链交易查询
type TransactionFetcher interface {
	GetTransaction(ctx context.Context, txID string) (*antelope.TransactionResult, error)
}

// DepositResult 一次核销的结果
type DepositResult struct {
	TxHash      string  `json:"tx_hash"`
	TLOSAmount  float64 `json:"tlos_amount"`
	TokenUnits  int64   `json:"token_units"`
	NewBalance  int64   `json:"new_balance"`
	FromAccount string  `json:"from_account"`
}

// Verifier 充值核销器：在结算链上查交易，找到打给收款钱包的
// 代币转账后换算成 Token 单位入账。
type Verifier struct {
	hyperion TransactionFetcher
	ledger   *Ledger
	config   *appconfig.Cache

	symbol   string
	contract string
}

// NewVerifier 创建核销器。symbol/contract 为结算代币（默认 TLOS / eosio.token）。
func NewVerifier(hyperion TransactionFetcher, ledger *Ledger, config *appconfig.Cache, symbol, contract string) *Verifier {
	if symbol == "" {
		symbol = "TLOS"
	}
	if contract == "" {
		contract = "eosio.token"
	}
	return &Verifier{
		hyperion: hyperion,
		ledger:   ledger,
		config:   config,
		symbol:   symbol,
		contract: contract,
	}
}

// VerifyAndCredit 核验链上交易并入账
func (v *Verifier) VerifyAndCredit(ctx context.Context, transactionID, chainID, accountName string) (*DepositResult, error) {
	wallet, err := v.config.Get(ctx, entity.ConfigKeyAppWallet)
	if err != nil {
		return nil, apperrors.ErrStorageError.WithError(err)
	}
	if wallet == "" {
		return nil, apperrors.ErrWalletNotConfigured
	}

	tx, err := v.hyperion.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !tx.Executed {
		return nil, apperrors.ErrTxNotFound.WithDetail("transaction not executed")
	}

	// 在交易的 actions 中找打给收款钱包的结算代币转账
	var transfer *antelope.TransactionAction
	for i := range tx.Actions {
		act := &tx.Actions[i]
		if act.Act.Account == v.contract && act.Act.Name == "transfer" && act.Act.Data.To == wallet {
			transfer = act
			break
		}
	}
	if transfer == nil {
		return nil, apperrors.ErrNoQualifyingTransfer
	}

	amount, err := v.parseQuantity(transfer.Act.Data.Quantity)
	if err != nil {
		return nil, err
	}

	newBalance, err := v.ledger.CreditDeposit(ctx, chainID, accountName, amount, transactionID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "deposit verified and credited",
		"tx_hash", transactionID,
		"chain_id", chainID,
		"account", accountName,
		"amount", amount,
	)
	return &DepositResult{
		TxHash:      transactionID,
		TLOSAmount:  amount,
		TokenUnits:  TokensForTLOS(amount),
		NewBalance:  newBalance,
		FromAccount: transfer.Act.Data.From,
	}, nil
}

// parseQuantity 解析 "12.3456 TLOS" 形式的数量串
func (v *Verifier) parseQuantity(quantity string) (float64, error) {
	parts := strings.Fields(quantity)
	if len(parts) != 2 {
		return 0, apperrors.ErrInvalidAmount.WithDetail(fmt.Sprintf("malformed quantity %q", quantity))
	}
	if parts[1] != v.symbol {
		return 0, apperrors.ErrUnsupportedToken.WithDetail(fmt.Sprintf("got %s, want %s", parts[1], v.symbol))
	}
	amount, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, apperrors.ErrInvalidAmount.WithDetail(fmt.Sprintf("malformed amount %q", parts[0]))
	}
	if amount <= 0 {
		return 0, apperrors.ErrInvalidAmount.WithDetail(fmt.Sprintf("non-positive amount %v", amount))
	}
	return amount, nil
}
