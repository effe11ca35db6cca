package appconfig

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"antelope-chat-api/internal/domain/entity"
)

type fakeConfigRepo struct {
	listCalls atomic.Int64
	rows      []*entity.AppConfig
}

func (f *fakeConfigRepo) Get(ctx context.Context, key string) (*entity.AppConfig, error) {
	for _, row := range f.rows {
		if row.Key == key {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeConfigRepo) Set(ctx context.Context, key, value string) error {
	for _, row := range f.rows {
		if row.Key == key {
			row.Value = value
			return nil
		}
	}
	f.rows = append(f.rows, &entity.AppConfig{Key: key, Value: value})
	return nil
}

func (f *fakeConfigRepo) List(ctx context.Context) ([]*entity.AppConfig, error) {
	f.listCalls.Add(1)
	return f.rows, nil
}

func TestCacheServesFromMemoryWithinTTL(t *testing.T) {
	repo := &fakeConfigRepo{rows: []*entity.AppConfig{
		{Key: entity.ConfigKeyAppWallet, Value: "chatwallet11"},
	}}
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCacheWithClock(repo, 5*time.Minute, func() time.Time { return current })

	for i := 0; i < 10; i++ {
		got, err := cache.Get(context.Background(), entity.ConfigKeyAppWallet)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != "chatwallet11" {
			t.Fatalf("got %q, want chatwallet11", got)
		}
	}

	if calls := repo.listCalls.Load(); calls != 1 {
		t.Fatalf("expected 1 reload within TTL, got %d", calls)
	}
}

func TestCacheReloadsAfterExpiry(t *testing.T) {
	repo := &fakeConfigRepo{rows: []*entity.AppConfig{
		{Key: entity.ConfigKeyAppWallet, Value: "chatwallet11"},
	}}
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCacheWithClock(repo, 5*time.Minute, func() time.Time { return current })

	if _, err := cache.Get(context.Background(), entity.ConfigKeyAppWallet); err != nil {
		t.Fatalf("Get: %v", err)
	}

	repo.rows[0].Value = "newwallet222"
	current = current.Add(5*time.Minute + time.Second)

	got, err := cache.Get(context.Background(), entity.ConfigKeyAppWallet)
	if err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if got != "newwallet222" {
		t.Fatalf("got %q, want newwallet222", got)
	}
	if calls := repo.listCalls.Load(); calls != 2 {
		t.Fatalf("expected reload after expiry, got %d list calls", calls)
	}
}

func TestCacheUnknownKeyReturnsEmpty(t *testing.T) {
	repo := &fakeConfigRepo{}
	cache := NewCache(repo, time.Minute)

	got, err := cache.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestCacheSetInvalidates(t *testing.T) {
	repo := &fakeConfigRepo{}
	cache := NewCache(repo, time.Hour)

	if _, err := cache.Get(context.Background(), entity.ConfigKeyAppWallet); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := cache.Set(context.Background(), entity.ConfigKeyAppWallet, "wallet12345a"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := cache.Get(context.Background(), entity.ConfigKeyAppWallet)
	if err != nil {
		t.Fatalf("Get after Set: %v", err)
	}
	if got != "wallet12345a" {
		t.Fatalf("got %q, want wallet12345a", got)
	}
}
