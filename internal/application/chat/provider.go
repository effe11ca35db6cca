package chat

import (
	"context"

	"github.com/cloudwego/eino/components/model"

	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/internal/infrastructure/llm"
	apperrors "antelope-chat-api/pkg/errors"
	"antelope-chat-api/pkg/logger"
)

// ProviderOverride 请求体携带的 LLM 配置（用户自带 Key）
type ProviderOverride struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	Model    string `json:"model"`
}

func (o *ProviderOverride) complete() bool {
	return o != nil && o.Provider != "" && o.APIKey != "" && o.Model != ""
}

// Resolution 本次请求的模型决议。
// Builtin 为真表示走服务端 Key，计费由额度检查决定；否则为用户自带 Key，不计费。
type Resolution struct {
	Builtin       bool
	Provider      string
	Model         string
	FallbackModel string
	ChatModel     model.BaseChatModel
}

// Resolver 决定一次对话用哪个模型和谁的 Key
type Resolver struct {
	factory  *llm.Factory
	settings repository.UserSettingsRepository
}

// NewResolver 创建模型决议器
func NewResolver(factory *llm.Factory, settings repository.UserSettingsRepository) *Resolver {
	return &Resolver{factory: factory, settings: settings}
}

// Resolve 按优先级决议：
//  1. 已登录且设置为内置模式（或无设置记录）：服务端配置的提供商
//  2. 已登录且存档了自带 Key：用存档的 provider/key/model
//  3. 请求体携带完整 llmConfig：用请求里的配置
//  4. 都没有：ErrLLMNotConfigured
func (r *Resolver) Resolve(ctx context.Context, userID string, override *ProviderOverride) (*Resolution, error) {
	if userID != "" {
		settings, err := r.settings.GetByUserID(ctx, userID)
		switch {
		case err != nil:
			// 设置读取失败退回请求体配置，与登录态异常同样处理
			logger.Warn(ctx, "load user settings failed, falling back to request config",
				"user_id", userID, "error", err)
		case settings == nil || settings.UseBuiltin:
			return r.resolveBuiltin(ctx)
		case settings.Provider != "" && settings.APIKey != "" && settings.Model != "":
			chatModel, err := r.factory.NewDynamic(ctx, settings.Provider, settings.APIKey, settings.Model)
			if err != nil {
				return nil, err
			}
			return &Resolution{
				Provider:  settings.Provider,
				Model:     settings.Model,
				ChatModel: chatModel,
			}, nil
		}
		// 设置存在但不完整，继续看请求体
	}

	if override.complete() {
		chatModel, err := r.factory.NewDynamic(ctx, override.Provider, override.APIKey, override.Model)
		if err != nil {
			return nil, err
		}
		return &Resolution{
			Provider:  override.Provider,
			Model:     override.Model,
			ChatModel: chatModel,
		}, nil
	}

	return nil, apperrors.ErrLLMNotConfigured
}

func (r *Resolver) resolveBuiltin(ctx context.Context) (*Resolution, error) {
	name := r.factory.DefaultProvider()
	cfg, ok := r.factory.Provider(name)
	if !ok {
		return nil, apperrors.ErrLLMNotConfigured.WithDetail("default provider " + name)
	}
	chatModel, err := r.factory.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Builtin:       true,
		Provider:      name,
		Model:         cfg.Model,
		FallbackModel: cfg.FallbackModel,
		ChatModel:     chatModel,
	}, nil
}
