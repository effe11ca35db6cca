package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"antelope-chat-api/internal/application/appconfig"
	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/infrastructure/antelope"
	apperrors "antelope-chat-api/pkg/errors"
)

type staticConfigRepo struct {
	values map[string]string
}

func (s *staticConfigRepo) Get(ctx context.Context, key string) (*entity.AppConfig, error) {
	if v, ok := s.values[key]; ok {
		return &entity.AppConfig{Key: key, Value: v}, nil
	}
	return nil, nil
}

func (s *staticConfigRepo) Set(ctx context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *staticConfigRepo) List(ctx context.Context) ([]*entity.AppConfig, error) {
	var out []*entity.AppConfig
	for k, v := range s.values {
		out = append(out, &entity.AppConfig{Key: k, Value: v})
	}
	return out, nil
}

type fakeFetcher struct {
	tx  *antelope.TransactionResult
	err error
}

func (f *fakeFetcher) GetTransaction(ctx context.Context, txID string) (*antelope.TransactionResult, error) {
	return f.tx, f.err
}

func transferTx(contract, name, to, quantity string) *antelope.TransactionResult {
	tx := &antelope.TransactionResult{Executed: true, TrxID: "ff66"}
	var action antelope.TransactionAction
	action.Act.Account = contract
	action.Act.Name = name
	action.Act.Data.From = "alice"
	action.Act.Data.To = to
	action.Act.Data.Quantity = quantity
	action.Act.Data.Memo = "credits"
	tx.Actions = append(tx.Actions, action)
	return tx
}

func newTestVerifier(fetcher TransactionFetcher, wallet string) (*Verifier, *Ledger) {
	ledger, _, _, _ := newTestLedger()
	values := map[string]string{}
	if wallet != "" {
		values[entity.ConfigKeyAppWallet] = wallet
	}
	cache := appconfig.NewCache(&staticConfigRepo{values: values}, time.Minute)
	return NewVerifier(fetcher, ledger, cache, "TLOS", "eosio.token"), ledger
}

func TestVerifyAndCreditSuccess(t *testing.T) {
	fetcher := &fakeFetcher{tx: transferTx("eosio.token", "transfer", "chatwallet11", "2.0000 TLOS")}
	verifier, _ := newTestVerifier(fetcher, "chatwallet11")

	result, err := verifier.VerifyAndCredit(context.Background(), "ff66", "telos", "alice")
	if err != nil {
		t.Fatalf("VerifyAndCredit: %v", err)
	}
	if result.TLOSAmount != 2.0 || result.NewBalance != 500000 {
		t.Fatalf("result = %+v", result)
	}
	if result.FromAccount != "alice" {
		t.Errorf("from = %s", result.FromAccount)
	}
}

func TestVerifyAndCreditWalletNotConfigured(t *testing.T) {
	fetcher := &fakeFetcher{tx: transferTx("eosio.token", "transfer", "chatwallet11", "2.0000 TLOS")}
	verifier, _ := newTestVerifier(fetcher, "")

	_, err := verifier.VerifyAndCredit(context.Background(), "ff66", "telos", "alice")
	if !errors.Is(err, apperrors.ErrWalletNotConfigured) {
		t.Fatalf("err = %v, want ErrWalletNotConfigured", err)
	}
}

func TestVerifyAndCreditTxNotFound(t *testing.T) {
	fetcher := &fakeFetcher{err: apperrors.ErrTxNotFound}
	verifier, _ := newTestVerifier(fetcher, "chatwallet11")

	_, err := verifier.VerifyAndCredit(context.Background(), "dead", "telos", "alice")
	if !errors.Is(err, apperrors.ErrTxNotFound) {
		t.Fatalf("err = %v, want ErrTxNotFound", err)
	}
}

func TestVerifyAndCreditNotExecuted(t *testing.T) {
	tx := transferTx("eosio.token", "transfer", "chatwallet11", "2.0000 TLOS")
	tx.Executed = false
	verifier, _ := newTestVerifier(&fakeFetcher{tx: tx}, "chatwallet11")

	_, err := verifier.VerifyAndCredit(context.Background(), "ff66", "telos", "alice")
	if !errors.Is(err, apperrors.ErrTxNotFound) {
		t.Fatalf("err = %v, want ErrTxNotFound", err)
	}
}

func TestVerifyAndCreditNoQualifyingTransfer(t *testing.T) {
	tests := []struct {
		name string
		tx   *antelope.TransactionResult
	}{
		{"transfer to someone else", transferTx("eosio.token", "transfer", "otherwallet1", "2.0000 TLOS")},
		{"non-transfer action", transferTx("eosio.token", "issue", "chatwallet11", "2.0000 TLOS")},
		{"wrong contract", transferTx("fake.token", "transfer", "chatwallet11", "2.0000 TLOS")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier, _ := newTestVerifier(&fakeFetcher{tx: tt.tx}, "chatwallet11")
			_, err := verifier.VerifyAndCredit(context.Background(), "ff66", "telos", "alice")
			if !errors.Is(err, apperrors.ErrNoQualifyingTransfer) {
				t.Fatalf("err = %v, want ErrNoQualifyingTransfer", err)
			}
		})
	}
}

func TestVerifyAndCreditQuantityParsing(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		wantErr  *apperrors.AppError
	}{
		{"wrong symbol", "2.0000 EOS", apperrors.ErrUnsupportedToken},
		{"garbage amount", "abc TLOS", apperrors.ErrInvalidAmount},
		{"zero amount", "0.0000 TLOS", apperrors.ErrInvalidAmount},
		{"missing symbol", "2.0000", apperrors.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{tx: transferTx("eosio.token", "transfer", "chatwallet11", tt.quantity)}
			verifier, _ := newTestVerifier(fetcher, "chatwallet11")
			_, err := verifier.VerifyAndCredit(context.Background(), "ff66", "telos", "alice")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// 响应里的入账单位必须与账本写入的一致，尾数向下取整
func TestVerifyAndCreditTokenUnitsMatchLedger(t *testing.T) {
	fetcher := &fakeFetcher{tx: transferTx("eosio.token", "transfer", "chatwallet11", "3.0000041 TLOS")}
	verifier, _ := newTestVerifier(fetcher, "chatwallet11")

	result, err := verifier.VerifyAndCredit(context.Background(), "ff66", "telos", "alice")
	if err != nil {
		t.Fatalf("VerifyAndCredit: %v", err)
	}
	// 3.0000041 * 250000 = 750001.025 -> 750001
	if result.TokenUnits != 750001 {
		t.Fatalf("token_units = %d, want 750001", result.TokenUnits)
	}
	if result.TokenUnits != result.NewBalance {
		t.Fatalf("token_units %d != new_balance %d on a fresh account", result.TokenUnits, result.NewBalance)
	}
}

func TestVerifyAndCreditDuplicatePropagates(t *testing.T) {
	fetcher := &fakeFetcher{tx: transferTx("eosio.token", "transfer", "chatwallet11", "1.0000 TLOS")}
	verifier, _ := newTestVerifier(fetcher, "chatwallet11")

	if _, err := verifier.VerifyAndCredit(context.Background(), "ff66", "telos", "alice"); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	_, err := verifier.VerifyAndCredit(context.Background(), "ff66", "telos", "alice")
	if !errors.Is(err, apperrors.ErrDuplicateTransaction) {
		t.Fatalf("err = %v, want ErrDuplicateTransaction", err)
	}
}
