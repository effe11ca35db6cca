package billing

import (
	"context"
	"testing"
	"time"

	"antelope-chat-api/internal/domain/entity"
)

func TestCheckAllowanceFreeTier(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	today := entity.UsageDate(fixed)

	tests := []struct {
		name          string
		requestCount  int
		balanceTokens int64
		wantAllowed   bool
		wantMode      Mode
		wantRemaining int
	}{
		{"no usage yet", 0, 0, true, ModeFree, 5},
		{"partial usage", 3, 0, true, ModeFree, 2},
		{"last free request", 4, 0, true, ModeFree, 1},
		{"exhausted no balance", 5, 0, false, ModePaid, 0},
		{"exhausted with balance", 5, 1000, true, ModePaid, 0},
		{"over limit with balance", 9, 1, true, ModePaid, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage := newFakeUsageRepo()
			balances := newFakeBalanceRepo()
			checker := NewAllowanceChecker(usage, balances, FreeRequestsPerDay).
				WithClock(func() time.Time { return fixed })

			for i := 0; i < tt.requestCount; i++ {
				if err := usage.Increment(context.Background(), "telos", "alice", today, 10, 10); err != nil {
					t.Fatalf("Increment: %v", err)
				}
			}
			if tt.balanceTokens > 0 {
				err := balances.Create(context.Background(), &entity.CreditBalance{
					ChainID: "telos", AccountName: "alice", BalanceTokens: tt.balanceTokens,
				})
				if err != nil {
					t.Fatalf("Create balance: %v", err)
				}
			}

			got, err := checker.CheckAllowance(context.Background(), "telos", "alice")
			if err != nil {
				t.Fatalf("CheckAllowance: %v", err)
			}
			if got.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if got.Mode != tt.wantMode {
				t.Errorf("Mode = %v, want %v", got.Mode, tt.wantMode)
			}
			if got.FreeRemaining != tt.wantRemaining {
				t.Errorf("FreeRemaining = %d, want %d", got.FreeRemaining, tt.wantRemaining)
			}
		})
	}
}

// 免费额度按 UTC 日历日重置
func TestCheckAllowanceUTCDayBoundary(t *testing.T) {
	usage := newFakeUsageRepo()
	balances := newFakeBalanceRepo()

	current := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	checker := NewAllowanceChecker(usage, balances, FreeRequestsPerDay).
		WithClock(func() time.Time { return current })

	for i := 0; i < FreeRequestsPerDay; i++ {
		if err := usage.Increment(context.Background(), "telos", "bob", entity.UsageDate(current), 1, 1); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}

	got, err := checker.CheckAllowance(context.Background(), "telos", "bob")
	if err != nil {
		t.Fatalf("CheckAllowance: %v", err)
	}
	if got.Allowed {
		t.Fatal("expected disallowed before midnight")
	}

	// 跨过 UTC 午夜后重新获得免费额度
	current = current.Add(2 * time.Minute)
	got, err = checker.CheckAllowance(context.Background(), "telos", "bob")
	if err != nil {
		t.Fatalf("CheckAllowance: %v", err)
	}
	if !got.Allowed || got.Mode != ModeFree || got.FreeRemaining != FreeRequestsPerDay {
		t.Fatalf("after midnight: got %+v, want fresh free allowance", got)
	}
}

// 不同账户的额度互不影响
func TestCheckAllowanceIsolatedPerAccount(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	usage := newFakeUsageRepo()
	balances := newFakeBalanceRepo()
	checker := NewAllowanceChecker(usage, balances, FreeRequestsPerDay).
		WithClock(func() time.Time { return fixed })

	for i := 0; i < FreeRequestsPerDay; i++ {
		if err := usage.Increment(context.Background(), "telos", "alice", entity.UsageDate(fixed), 1, 1); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}

	got, err := checker.CheckAllowance(context.Background(), "telos", "carol")
	if err != nil {
		t.Fatalf("CheckAllowance: %v", err)
	}
	if !got.Allowed || got.FreeRemaining != FreeRequestsPerDay {
		t.Fatalf("carol should have full allowance, got %+v", got)
	}

	// 同名账户、不同链也是独立的键
	got, err = checker.CheckAllowance(context.Background(), "eos", "alice")
	if err != nil {
		t.Fatalf("CheckAllowance: %v", err)
	}
	if !got.Allowed || got.FreeRemaining != FreeRequestsPerDay {
		t.Fatalf("alice@eos should have full allowance, got %+v", got)
	}
}
