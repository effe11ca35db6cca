package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"antelope-chat-api/internal/config"
	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/infrastructure/llm"
	apperrors "antelope-chat-api/pkg/errors"
)

type memSettingsRepo struct {
	rows map[string]*entity.UserSettings
	err  error
}

func (f *memSettingsRepo) GetByUserID(ctx context.Context, userID string) (*entity.UserSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[userID], nil
}

func (f *memSettingsRepo) Upsert(ctx context.Context, settings *entity.UserSettings) error {
	f.rows[settings.UserID] = settings
	return nil
}

func testFactory() *llm.Factory {
	return llm.NewFactory(&config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "openai",
			Providers: map[string]config.ProviderConfig{
				"openai": {
					APIKey:        "sk-test",
					Model:         "gpt-test",
					FallbackModel: "gpt-test-mini",
					MaxTokens:     1024,
					Temperature:   0.7,
					Timeout:       time.Minute,
				},
			},
		},
	})
}

func TestResolveBuiltinForUserWithoutSettings(t *testing.T) {
	resolver := NewResolver(testFactory(), &memSettingsRepo{rows: map[string]*entity.UserSettings{}})

	res, err := resolver.Resolve(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Builtin {
		t.Error("expected builtin resolution")
	}
	if res.Provider != "openai" || res.Model != "gpt-test" || res.FallbackModel != "gpt-test-mini" {
		t.Errorf("resolution = %+v", res)
	}
	if res.ChatModel == nil {
		t.Error("chat model must be constructed")
	}
}

func TestResolveStoredByokSettings(t *testing.T) {
	repo := &memSettingsRepo{rows: map[string]*entity.UserSettings{
		"user-2": {
			UserID:     "user-2",
			UseBuiltin: false,
			Provider:   "anthropic",
			Model:      "claude-test",
			APIKey:     "sk-user",
		},
	}}
	resolver := NewResolver(testFactory(), repo)

	res, err := resolver.Resolve(context.Background(), "user-2", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Builtin {
		t.Error("stored key must resolve to byok")
	}
	if res.Provider != "anthropic" || res.Model != "claude-test" {
		t.Errorf("resolution = %+v", res)
	}
}

func TestResolveAnonymousOverride(t *testing.T) {
	resolver := NewResolver(testFactory(), &memSettingsRepo{rows: map[string]*entity.UserSettings{}})

	res, err := resolver.Resolve(context.Background(), "", &ProviderOverride{
		Provider: "google",
		APIKey:   "key",
		Model:    "gemini-test",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Builtin || res.Provider != "google" {
		t.Errorf("resolution = %+v", res)
	}
}

func TestResolveAnonymousWithoutConfig(t *testing.T) {
	resolver := NewResolver(testFactory(), &memSettingsRepo{rows: map[string]*entity.UserSettings{}})

	tests := []struct {
		name     string
		override *ProviderOverride
	}{
		{"nil override", nil},
		{"incomplete override", &ProviderOverride{Provider: "openai"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), "", tt.override)
			if !errors.Is(err, apperrors.ErrLLMNotConfigured) {
				t.Fatalf("err = %v, want ErrLLMNotConfigured", err)
			}
		})
	}
}

// 设置读取失败时退回请求体配置而不是直接报错
func TestResolveSettingsErrorFallsBackToOverride(t *testing.T) {
	repo := &memSettingsRepo{err: errors.New("db down")}
	resolver := NewResolver(testFactory(), repo)

	res, err := resolver.Resolve(context.Background(), "user-3", &ProviderOverride{
		Provider: "openai",
		APIKey:   "key",
		Model:    "gpt-test",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.ChatModel == nil {
		t.Error("chat model must be constructed")
	}
}
