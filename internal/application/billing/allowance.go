// Package billing 实现额度判定、信用账本与充值核销
package billing

import (
	"context"
	"strconv"
	"time"

	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/pkg/metrics"
)

// Mode 请求的计费模式
type Mode string

const (
	// ModeFree 当日免费额度内
	ModeFree Mode = "free"
	// ModePaid 消耗预充值余额
	ModePaid Mode = "paid"
	// ModeBYOK 用户自带 Key，不触碰余额
	ModeBYOK Mode = "byok"
)

// Allowance 一次额度判定的结果
type Allowance struct {
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason,omitempty"`
	Mode          Mode   `json:"mode"`
	FreeRemaining int    `json:"free_remaining"`
	BalanceTokens int64  `json:"balance_tokens"`
}

// AllowanceChecker 按 (链, 账户) 判定当前请求走免费、付费还是拒绝。
// 判定是乐观的：不做预留，真正的扣费发生在请求完成后。
type AllowanceChecker struct {
	usage      repository.DailyUsageRepository
	balances   repository.CreditBalanceRepository
	freePerDay int
	now        func() time.Time
}

// NewAllowanceChecker 创建额度判定器
func NewAllowanceChecker(usage repository.DailyUsageRepository, balances repository.CreditBalanceRepository, freePerDay int) *AllowanceChecker {
	if freePerDay <= 0 {
		freePerDay = FreeRequestsPerDay
	}
	return &AllowanceChecker{
		usage:      usage,
		balances:   balances,
		freePerDay: freePerDay,
		now:        time.Now,
	}
}

// WithClock 注入时钟，测试 UTC 日界用
func (c *AllowanceChecker) WithClock(now func() time.Time) *AllowanceChecker {
	c.now = now
	return c
}

// CheckAllowance 判定额度。日界取 UTC 日历日。
func (c *AllowanceChecker) CheckAllowance(ctx context.Context, chainID, accountName string) (*Allowance, error) {
	today := entity.UsageDate(c.now())

	usage, err := c.usage.Get(ctx, chainID, accountName, today)
	if err != nil {
		return nil, err
	}

	requestCount := 0
	if usage != nil {
		requestCount = usage.RequestCount
	}

	if requestCount < c.freePerDay {
		return c.observe(&Allowance{
			Allowed:       true,
			Mode:          ModeFree,
			FreeRemaining: c.freePerDay - requestCount,
		}), nil
	}

	// 免费额度用尽，查付费余额
	balance, err := c.balances.Get(ctx, chainID, accountName)
	if err != nil {
		return nil, err
	}

	balanceTokens := int64(0)
	if balance != nil {
		balanceTokens = balance.BalanceTokens
	}

	if balanceTokens > 0 {
		return c.observe(&Allowance{
			Allowed:       true,
			Mode:          ModePaid,
			BalanceTokens: balanceTokens,
		}), nil
	}

	return c.observe(&Allowance{
		Allowed: false,
		Reason:  "Free requests exhausted and no credit balance. Purchase credits to continue.",
		Mode:    ModePaid,
	}), nil
}

func (c *AllowanceChecker) observe(a *Allowance) *Allowance {
	metrics.AllowanceChecksTotal.WithLabelValues(string(a.Mode), strconv.FormatBool(a.Allowed)).Inc()
	return a
}
