// Package llm 管理 Eino ChatModel 客户端
package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"antelope-chat-api/internal/config"
	apperrors "antelope-chat-api/pkg/errors"
)

// 各提供商的 OpenAI 兼容接口地址
var providerBaseURLs = map[string]string{
	"anthropic": "https://api.anthropic.com/v1",
	"openai":    "",
	"google":    "https://generativelanguage.googleapis.com/v1beta/openai",
	"chutes":    "https://llm.chutes.ai/v1",
}

// Factory 管理 Eino ChatModel 实例。
// 服务端配置的提供商惰性创建并缓存；用户自带 Key 的模型每次请求新建，不落缓存。
type Factory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewFactory 创建 LLM 工厂
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// DefaultProvider 内置模式的默认提供商名
func (f *Factory) DefaultProvider() string {
	return f.config.DefaultProvider
}

// Provider 查询服务端配置的提供商
func (f *Factory) Provider(name string) (config.ProviderConfig, bool) {
	cfg, ok := f.config.Providers[name]
	return cfg, ok
}

// Get 获取服务端配置的 ChatModel，name 为空时用默认提供商
func (f *Factory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok || providerCfg.APIKey == "" {
		return nil, apperrors.ErrLLMNotConfigured.WithDetail(fmt.Sprintf("provider %s", name))
	}

	chatModel, err := newChatModel(ctx, name, providerCfg.APIKey, providerCfg.Model, providerCfg)
	if err != nil {
		return nil, err
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// NewDynamic 用请求携带的 Key 创建一次性 ChatModel（BYOK 模式）
func (f *Factory) NewDynamic(ctx context.Context, provider, apiKey, modelName string) (model.BaseChatModel, error) {
	if provider == "" || apiKey == "" || modelName == "" {
		return nil, apperrors.ErrLLMNotConfigured
	}
	return newChatModel(ctx, provider, apiKey, modelName, config.ProviderConfig{})
}

func newChatModel(ctx context.Context, provider, apiKey, modelName string, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		url, ok := providerBaseURLs[strings.ToLower(provider)]
		if !ok {
			return nil, apperrors.ErrLLMNotConfigured.WithDetail(fmt.Sprintf("unsupported provider %s", provider))
		}
		baseURL = url
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	modelCfg := &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
		Timeout: timeout,
	}
	if cfg.MaxTokens > 0 {
		modelCfg.MaxTokens = &cfg.MaxTokens
	}
	if cfg.Temperature > 0 {
		modelCfg.Temperature = ptrFloat32(float32(cfg.Temperature))
	}

	chatModel, err := openai.NewChatModel(ctx, modelCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model for %s: %w", provider, err)
	}
	return chatModel, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
