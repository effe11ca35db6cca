// Package antelope 提供 Antelope 链 RPC 与 Hyperion 历史服务的 HTTP 客户端
package antelope

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "antelope-chat-api/pkg/errors"
)

// HyperionClient Hyperion 历史服务客户端。所有接口都是 GET + query string。
type HyperionClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewHyperionClient 创建 Hyperion 客户端，endpoint 形如 https://mainnet.telos.net
func NewHyperionClient(endpoint string, timeout time.Duration) *HyperionClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HyperionClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
	}
}

// Query 调用任意 Hyperion 路径，返回原始 JSON
func (c *HyperionClient) Query(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "antelope.HyperionClient.Query")
	defer span.End()

	u := c.endpoint + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.ErrChainUnreachable.WithError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.ErrChainUnreachable.WithError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: extractMessage(data)}
	}
	return data, nil
}

// ActionsRequest get_actions 查询参数
type ActionsRequest struct {
	Account string
	Filter  string
	Skip    int
	Limit   int
	Sort    string
	After   string
	Before  string
	Simple  bool
}

func (c *HyperionClient) GetActions(ctx context.Context, req ActionsRequest) (json.RawMessage, error) {
	params := url.Values{}
	setStr(params, "account", req.Account)
	setStr(params, "filter", req.Filter)
	setInt(params, "skip", req.Skip)
	setInt(params, "limit", req.Limit)
	setStr(params, "sort", req.Sort)
	setStr(params, "after", req.After)
	setStr(params, "before", req.Before)
	if req.Simple {
		params.Set("simple", "true")
	}
	return c.Query(ctx, "/v2/history/get_actions", params)
}

// TransfersRequest get_transfers 查询参数
type TransfersRequest struct {
	From     string
	To       string
	Symbol   string
	Contract string
	Skip     int
	Limit    int
	After    string
	Before   string
}

func (c *HyperionClient) GetTransfers(ctx context.Context, req TransfersRequest) (json.RawMessage, error) {
	params := url.Values{}
	setStr(params, "from", req.From)
	setStr(params, "to", req.To)
	setStr(params, "symbol", req.Symbol)
	setStr(params, "contract", req.Contract)
	setInt(params, "skip", req.Skip)
	setInt(params, "limit", req.Limit)
	setStr(params, "after", req.After)
	setStr(params, "before", req.Before)
	return c.Query(ctx, "/v2/history/get_transfers", params)
}

func (c *HyperionClient) GetCreatedAccounts(ctx context.Context, account string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("account", account)
	return c.Query(ctx, "/v2/history/get_created_accounts", params)
}

func (c *HyperionClient) GetCreator(ctx context.Context, account string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("account", account)
	return c.Query(ctx, "/v2/history/get_creator", params)
}

func (c *HyperionClient) GetTokens(ctx context.Context, account string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("account", account)
	return c.Query(ctx, "/v2/state/get_tokens", params)
}

func (c *HyperionClient) GetKeyAccounts(ctx context.Context, publicKey string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("public_key", publicKey)
	return c.Query(ctx, "/v2/state/get_key_accounts", params)
}

// TransactionAction 交易内的一条 action（只解析转账核销需要的字段）
type TransactionAction struct {
	Act struct {
		Account string `json:"account"`
		Name    string `json:"name"`
		Data    struct {
			From     string `json:"from"`
			To       string `json:"to"`
			Quantity string `json:"quantity"`
			Memo     string `json:"memo"`
		} `json:"data"`
	} `json:"act"`
}

// TransactionResult get_transaction 响应
type TransactionResult struct {
	Executed bool                `json:"executed"`
	TrxID    string              `json:"trx_id"`
	Actions  []TransactionAction `json:"actions"`
}

// GetTransaction 按交易 ID 查询，交易不存在时返回 ErrTxNotFound
func (c *HyperionClient) GetTransaction(ctx context.Context, txID string) (*TransactionResult, error) {
	params := url.Values{}
	params.Set("id", txID)
	data, err := c.Query(ctx, "/v2/history/get_transaction", params)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
			return nil, apperrors.ErrTxNotFound
		}
		return nil, err
	}

	var result TransactionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	// Hyperion 对未知交易可能返回 200 + 空 actions
	if result.TrxID == "" && len(result.Actions) == 0 {
		return nil, apperrors.ErrTxNotFound
	}
	return &result, nil
}

func setStr(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func setInt(params url.Values, key string, value int) {
	if value > 0 {
		params.Set(key, strconv.Itoa(value))
	}
}
