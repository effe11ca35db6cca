// Package antelope 提供 Antelope 链 RPC 与 Hyperion 历史服务的 HTTP 客户端
package antelope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	apperrors "antelope-chat-api/pkg/errors"
)

var tracer = otel.Tracer("antelope")

// APIError 链端返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chain api error: status=%d message=%s", e.StatusCode, e.Message)
}

// ChainClient nodeos 链 API 客户端。所有接口都是 POST JSON。
type ChainClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewChainClient 创建链 API 客户端，endpoint 形如 https://mainnet.telos.net
func NewChainClient(endpoint string, timeout time.Duration) *ChainClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ChainClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
	}
}

// Call 调用任意链 API 路径，返回原始 JSON
func (c *ChainClient) Call(ctx context.Context, path string, body any) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "antelope.ChainClient.Call")
	defer span.End()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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

func (c *ChainClient) GetInfo(ctx context.Context) (json.RawMessage, error) {
	return c.Call(ctx, "/v1/chain/get_info", map[string]any{})
}

func (c *ChainClient) GetAccount(ctx context.Context, accountName string) (json.RawMessage, error) {
	return c.Call(ctx, "/v1/chain/get_account", map[string]any{"account_name": accountName})
}

func (c *ChainClient) GetBlock(ctx context.Context, blockNumOrID string) (json.RawMessage, error) {
	return c.Call(ctx, "/v1/chain/get_block", map[string]any{"block_num_or_id": blockNumOrID})
}

func (c *ChainClient) GetABI(ctx context.Context, accountName string) (json.RawMessage, error) {
	return c.Call(ctx, "/v1/chain/get_abi", map[string]any{"account_name": accountName})
}

func (c *ChainClient) GetCurrencyBalance(ctx context.Context, code, account, symbol string) (json.RawMessage, error) {
	body := map[string]any{"code": code, "account": account}
	if symbol != "" {
		body["symbol"] = symbol
	}
	return c.Call(ctx, "/v1/chain/get_currency_balance", body)
}

// GetTransactionV1 查询历史交易，需要节点开启 history 插件
func (c *ChainClient) GetTransactionV1(ctx context.Context, txID string) (json.RawMessage, error) {
	return c.Call(ctx, "/v1/history/get_transaction", map[string]any{"id": txID})
}

func (c *ChainClient) GetProducers(ctx context.Context, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 21
	}
	return c.Call(ctx, "/v1/chain/get_producers", map[string]any{"json": true, "limit": limit})
}

// TableRowsRequest get_table_rows 请求参数
type TableRowsRequest struct {
	Code       string `json:"code"`
	Scope      string `json:"scope"`
	Table      string `json:"table"`
	LowerBound string `json:"lower_bound,omitempty"`
	UpperBound string `json:"upper_bound,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	IndexPos   string `json:"index_position,omitempty"`
	KeyType    string `json:"key_type,omitempty"`
	Reverse    bool   `json:"reverse,omitempty"`
	JSON       bool   `json:"json"`
}

func (c *ChainClient) GetTableRows(ctx context.Context, req TableRowsRequest) (json.RawMessage, error) {
	req.JSON = true
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Scope == "" {
		req.Scope = req.Code
	}
	return c.Call(ctx, "/v1/chain/get_table_rows", req)
}

func extractMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   struct {
			What string `json:"what"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error.What != "" {
			return body.Error.What
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if len(data) > 200 {
		data = data[:200]
	}
	return string(data)
}
