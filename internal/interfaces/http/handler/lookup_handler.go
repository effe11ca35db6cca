package handler

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"antelope-chat-api/internal/infrastructure/antelope"
	"antelope-chat-api/internal/interfaces/http/dto"
	apperrors "antelope-chat-api/pkg/errors"
)

var (
	// accountRe Antelope 账户名：1-12 位 a-z 1-5 和点，点不打头不收尾
	accountRe = regexp.MustCompile(`^[a-z1-5][a-z1-5.]{0,10}[a-z1-5]$|^[a-z1-5]$`)
	// txRe 交易 ID：64 位十六进制
	txRe = regexp.MustCompile(`^[a-f0-9]{64}$`)
	// blockRe 块号：纯数字
	blockRe = regexp.MustCompile(`^[0-9]+$`)
)

// LookupHandler 链上对象检索端点：按查询串形态识别账户、交易或块
type LookupHandler struct {
	chainTimeout time.Duration
}

// NewLookupHandler 创建检索处理器
func NewLookupHandler(chainTimeout time.Duration) *LookupHandler {
	if chainTimeout <= 0 {
		chainTimeout = 10 * time.Second
	}
	return &LookupHandler{chainTimeout: chainTimeout}
}

// Lookup 识别并查询链上对象。
// 形如 account@permission 的查询串按账户处理，权限后缀丢弃。
func (h *LookupHandler) Lookup(c *gin.Context) {
	query := strings.TrimSpace(strings.ToLower(c.Query("q")))
	chainEndpoint := c.Query("chain_endpoint")
	hyperionEndpoint := c.Query("hyperion_endpoint")

	if query == "" {
		respondError(c, apperrors.ErrInvalidParam.WithDetail("q is required"))
		return
	}
	if chainEndpoint == "" {
		respondError(c, apperrors.ErrInvalidParam.WithDetail("chain_endpoint is required"))
		return
	}

	// 去掉权限后缀
	if at := strings.IndexByte(query, '@'); at > 0 {
		query = query[:at]
	}

	chain := antelope.NewChainClient(chainEndpoint, h.chainTimeout)
	ctx := c.Request.Context()

	var (
		result *dto.LookupResponse
		err    error
	)
	switch {
	case txRe.MatchString(query):
		result, err = h.lookupTransaction(ctx, chain, hyperionEndpoint, query)
	case blockRe.MatchString(query):
		result, err = h.lookupBlock(ctx, chain, query)
	case accountRe.MatchString(query):
		result, err = h.lookupAccount(ctx, chain, query)
	default:
		respondError(c, apperrors.ErrInvalidParam.WithDetail("query is not an account, transaction id or block number"))
		return
	}

	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *LookupHandler) lookupAccount(ctx context.Context, chain *antelope.ChainClient, name string) (*dto.LookupResponse, error) {
	data, err := chain.GetAccount(ctx, name)
	if err != nil {
		return nil, err
	}
	return &dto.LookupResponse{Type: "account", Data: data}, nil
}

func (h *LookupHandler) lookupBlock(ctx context.Context, chain *antelope.ChainClient, blockNum string) (*dto.LookupResponse, error) {
	data, err := chain.GetBlock(ctx, blockNum)
	if err != nil {
		return nil, err
	}
	return &dto.LookupResponse{Type: "block", Data: data}, nil
}

// lookupTransaction 优先走 Hyperion，未配置时退回节点 history 插件
func (h *LookupHandler) lookupTransaction(ctx context.Context, chain *antelope.ChainClient, hyperionEndpoint, txID string) (*dto.LookupResponse, error) {
	if hyperionEndpoint != "" {
		hyperion := antelope.NewHyperionClient(hyperionEndpoint, h.chainTimeout)
		tx, err := hyperion.GetTransaction(ctx, txID)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(tx)
		if err != nil {
			return nil, apperrors.ErrInternalError.WithError(err)
		}
		return &dto.LookupResponse{Type: "transaction", Data: data}, nil
	}

	data, err := chain.GetTransactionV1(ctx, txID)
	if err != nil {
		return nil, err
	}
	return &dto.LookupResponse{Type: "transaction", Data: data}, nil
}
