// Package dto 定义 HTTP 层的请求与响应结构
package dto

import (
	"encoding/json"

	"antelope-chat-api/internal/application/chat"
	"antelope-chat-api/internal/domain/entity"
)

// Response 统一响应信封
type Response[T any] struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// --- 认证 ---

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新 Token 请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// --- 对话 ---

// ChatRequest 一次对话请求。匿名用户必须自带 llm_config；
// chain_id + account_name 是内置模式下的计费身份。
type ChatRequest struct {
	Messages []chat.Message `json:"messages" binding:"required,min=1"`

	ChainID     string `json:"chain_id"`
	AccountName string `json:"account_name"`

	ChainEndpoint    string `json:"chain_endpoint"`
	HyperionEndpoint string `json:"hyperion_endpoint"`

	LLMConfig *chat.ProviderOverride `json:"llm_config"`
}

// --- 计费 ---

// CreditSummaryResponse 额度与余额总览
type CreditSummaryResponse struct {
	ChainID       string `json:"chain_id"`
	AccountName   string `json:"account_name"`
	Allowed       bool   `json:"allowed"`
	Mode          string `json:"mode"`
	FreeRemaining int    `json:"free_remaining"`
	BalanceTokens int64  `json:"balance_tokens"`

	RecentUsage []*entity.DailyUsage `json:"recent_usage,omitempty"`
}

// VerifyDepositRequest 充值核销请求
type VerifyDepositRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,len=64"`
	ChainID       string `json:"chain_id" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
}

// --- 用户设置 ---

// SettingsResponse LLM 偏好设置。自带 Key 永不回显，只回显是否已存。
type SettingsResponse struct {
	UseBuiltin bool   `json:"use_builtin"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	HasAPIKey  bool   `json:"has_api_key"`
}

// UpdateSettingsRequest 更新 LLM 偏好设置。
// APIKey 为空表示保留已存的 Key。
type UpdateSettingsRequest struct {
	UseBuiltin bool   `json:"use_builtin"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	APIKey     string `json:"api_key"`
}

// --- 对话存档 ---

// SaveConversationRequest 创建/覆盖一段对话
type SaveConversationRequest struct {
	Title    string          `json:"title" binding:"required,max=256"`
	Messages json.RawMessage `json:"messages" binding:"required"`
}

// ConversationSummary 列表项，不携带消息体
type ConversationSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
}

// --- 收藏与反馈 ---

// CreateBookmarkRequest 收藏一个链上对象
type CreateBookmarkRequest struct {
	Type   string `json:"type" binding:"required,oneof=account transaction block contract"`
	Target string `json:"target" binding:"required,max=128"`
	Note   string `json:"note" binding:"max=512"`
}

// CreateFeedbackRequest 对一条回答的反馈
type CreateFeedbackRequest struct {
	ConversationID string `json:"conversation_id"`
	Rating         string `json:"rating" binding:"required,oneof=up down"`
	Comment        string `json:"comment" binding:"max=2048"`
}

// --- 链上对象检索 ---

// LookupResponse 检索结果：type 为 account/transaction/block
type LookupResponse struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
