package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"antelope-chat-api/internal/application/billing"
	"antelope-chat-api/internal/domain/repository"
	"antelope-chat-api/internal/interfaces/http/dto"
	apperrors "antelope-chat-api/pkg/errors"
)

// CreditsHandler 额度查询与充值核销端点。
// 计费身份是 (chain_id, account_name)，与应用登录态无关。
type CreditsHandler struct {
	checker      *billing.AllowanceChecker
	verifier     *billing.Verifier
	usage        repository.DailyUsageRepository
	transactions repository.CreditTransactionRepository
}

// NewCreditsHandler 创建计费处理器
func NewCreditsHandler(
	checker *billing.AllowanceChecker,
	verifier *billing.Verifier,
	usage repository.DailyUsageRepository,
	transactions repository.CreditTransactionRepository,
) *CreditsHandler {
	return &CreditsHandler{
		checker:      checker,
		verifier:     verifier,
		usage:        usage,
		transactions: transactions,
	}
}

// Summary 返回某账户的额度判定结果与近期用量
func (h *CreditsHandler) Summary(c *gin.Context) {
	chainID := c.Query("chain_id")
	accountName := c.Query("account_name")
	if chainID == "" || accountName == "" {
		respondError(c, apperrors.ErrInvalidParam.WithDetail("chain_id and account_name are required"))
		return
	}

	ctx := c.Request.Context()
	allowance, err := h.checker.CheckAllowance(ctx, chainID, accountName)
	if err != nil {
		respondError(c, err)
		return
	}

	recent, err := h.usage.ListRecent(ctx, chainID, accountName, 30)
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}

	respondOK(c, dto.CreditSummaryResponse{
		ChainID:       chainID,
		AccountName:   accountName,
		Allowed:       allowance.Allowed,
		Mode:          string(allowance.Mode),
		FreeRemaining: allowance.FreeRemaining,
		BalanceTokens: allowance.BalanceTokens,
		RecentUsage:   recent,
	})
}

// Transactions 分页返回某账户的信用流水
func (h *CreditsHandler) Transactions(c *gin.Context) {
	chainID := c.Query("chain_id")
	accountName := c.Query("account_name")
	if chainID == "" || accountName == "" {
		respondError(c, apperrors.ErrInvalidParam.WithDetail("chain_id and account_name are required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.transactions.ListByAccount(c.Request.Context(), chainID, accountName, repository.NewPagination(page, pageSize))
	if err != nil {
		respondError(c, apperrors.ErrStorageError.WithError(err))
		return
	}
	respondOK(c, result)
}

// Verify 核验一笔链上转账并入账
func (h *CreditsHandler) Verify(c *gin.Context) {
	var req dto.VerifyDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	result, err := h.verifier.VerifyAndCredit(c.Request.Context(), req.TransactionID, req.ChainID, req.AccountName)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}
