package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"antelope-chat-api/internal/infrastructure/antelope"
)

const (
	toolNameGetActions         = "get_actions"
	toolNameGetTransfers       = "get_transfers"
	toolNameGetCreatedAccounts = "get_created_accounts"
	toolNameGetCreator         = "get_creator"
	toolNameGetTokens          = "get_tokens"
	toolNameGetKeyAccounts     = "get_key_accounts"
)

type getActionsTool struct {
	hyperion *antelope.HyperionClient
}

func (t *getActionsTool) GetType() string { return toolNameGetActions }

func (t *getActionsTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetActions,
		Desc: "Get action history for an account from Hyperion. Returns recent actions with full trace data. Can filter by contract:action.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"account": {Type: schema.String, Desc: "The account name to get actions for", Required: true},
			"filter":  {Type: schema.String, Desc: "Filter by contract:action (e.g. 'eosio.token:transfer')"},
			"limit":   {Type: schema.Integer, Desc: "Max results to return (default 20)"},
			"skip":    {Type: schema.Integer, Desc: "Number of results to skip for pagination"},
			"after":   {Type: schema.String, Desc: "Only actions after this ISO8601 date"},
			"before":  {Type: schema.String, Desc: "Only actions before this ISO8601 date"},
		}),
	}, nil
}

func (t *getActionsTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Account string `json:"account"`
		Filter  string `json:"filter"`
		Limit   int    `json:"limit"`
		Skip    int    `json:"skip"`
		After   string `json:"after"`
		Before  string `json:"before"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.Account == "" {
		return "", fmt.Errorf("missing account")
	}
	if args.Limit <= 0 {
		args.Limit = 10
	}

	raw, err := t.hyperion.GetActions(ctx, antelope.ActionsRequest{
		Account: args.Account,
		Filter:  args.Filter,
		Limit:   args.Limit,
		Skip:    args.Skip,
		After:   args.After,
		Before:  args.Before,
		Simple:  true,
	})
	if err != nil {
		return toolError(err, "Failed to fetch actions"), nil
	}

	actions, total := decodeSimpleActions(raw)
	for i, a := range actions {
		actions[i] = trimActionData(a)
	}

	return toolResult(map[string]any{
		"actions": actions,
		"account": args.Account,
		"total":   total,
	})
}

func decodeSimpleActions(raw json.RawMessage) ([]map[string]any, map[string]any) {
	var result struct {
		SimpleActions []map[string]any `json:"simple_actions"`
		Actions       []map[string]any `json:"actions"`
		Total         map[string]any   `json:"total"`
	}
	_ = json.Unmarshal(raw, &result)

	actions := result.SimpleActions
	if len(actions) == 0 {
		actions = result.Actions
	}
	if actions == nil {
		actions = []map[string]any{}
	}
	total := result.Total
	if total == nil {
		total = map[string]any{"value": 0, "relation": "eq"}
	}
	return actions, total
}

// trimActionData 截断超长的动作数据以节省 Token，只保留前 5 个字段
func trimActionData(action map[string]any) map[string]any {
	data, ok := action["data"].(map[string]any)
	if !ok {
		return action
	}
	encoded, err := json.Marshal(data)
	if err != nil || len(encoded) <= 500 {
		return action
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	trimmed := make(map[string]any, 6)
	for _, k := range head(keys, 5) {
		trimmed[k] = data[k]
	}
	if len(keys) > 5 {
		trimmed["_trimmed"] = fmt.Sprintf("%d more fields", len(keys)-5)
	}

	out := make(map[string]any, len(action))
	for k, v := range action {
		out[k] = v
	}
	out["data"] = trimmed
	return out
}

type getTransfersTool struct {
	hyperion *antelope.HyperionClient
}

func (t *getTransfersTool) GetType() string { return toolNameGetTransfers }

func (t *getTransfersTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetTransfers,
		Desc: "Get token transfer history for an account. Shows all incoming and outgoing transfers.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"account":  {Type: schema.String, Desc: "The account to get transfers for", Required: true},
			"symbol":   {Type: schema.String, Desc: "Filter by token symbol (e.g. 'EOS')"},
			"contract": {Type: schema.String, Desc: "Filter by token contract (default 'eosio.token')"},
			"limit":    {Type: schema.Integer, Desc: "Max results to return (default 20)"},
			"after":    {Type: schema.String, Desc: "Only transfers after this ISO8601 date"},
			"before":   {Type: schema.String, Desc: "Only transfers before this ISO8601 date"},
		}),
	}, nil
}

func (t *getTransfersTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Account  string `json:"account"`
		Contract string `json:"contract"`
		Limit    int    `json:"limit"`
		After    string `json:"after"`
		Before   string `json:"before"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.Account == "" {
		return "", fmt.Errorf("missing account")
	}
	if args.Contract == "" {
		args.Contract = "eosio.token"
	}
	if args.Limit <= 0 {
		args.Limit = 20
	}

	// 用带 transfer 过滤的 get_actions 实现，比 get_transfers 接口兼容性更好
	raw, err := t.hyperion.GetActions(ctx, antelope.ActionsRequest{
		Account: args.Account,
		Filter:  args.Contract + ":transfer",
		Limit:   args.Limit,
		After:   args.After,
		Before:  args.Before,
		Simple:  true,
	})
	if err != nil {
		return toolError(err, "Failed to fetch transfers"), nil
	}

	actions, _ := decodeSimpleActions(raw)
	transfers := make([]map[string]any, 0, len(actions))
	for _, a := range actions {
		timestamp := a["timestamp"]
		if timestamp == nil {
			timestamp = a["@timestamp"]
		}
		data, _ := a["data"].(map[string]any)
		transfers = append(transfers, map[string]any{
			"timestamp": timestamp,
			"from":      data["from"],
			"to":        data["to"],
			"quantity":  data["quantity"],
			"memo":      data["memo"],
			"contract":  a["contract"],
			"block":     a["block"],
		})
	}

	return toolResult(map[string]any{"transfers": transfers, "account": args.Account})
}

type getCreatedAccountsTool struct {
	hyperion *antelope.HyperionClient
}

func (t *getCreatedAccountsTool) GetType() string { return toolNameGetCreatedAccounts }

func (t *getCreatedAccountsTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetCreatedAccounts,
		Desc: "Get all accounts that were created by a given account.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"account": {Type: schema.String, Desc: "The creator account name", Required: true},
		}),
	}, nil
}

func (t *getCreatedAccountsTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Account string `json:"account"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.Account == "" {
		return "", fmt.Errorf("missing account")
	}

	raw, err := t.hyperion.GetCreatedAccounts(ctx, args.Account)
	if err != nil {
		return toolError(err, "Failed to fetch created accounts"), nil
	}
	var result struct {
		Accounts json.RawMessage `json:"accounts"`
	}
	_ = json.Unmarshal(raw, &result)
	accounts := result.Accounts
	if len(accounts) == 0 {
		accounts = json.RawMessage("[]")
	}
	return toolResult(map[string]any{"accounts": accounts, "query_account": args.Account})
}

type getCreatorTool struct {
	hyperion *antelope.HyperionClient
}

func (t *getCreatorTool) GetType() string { return toolNameGetCreator }

func (t *getCreatorTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetCreator,
		Desc: "Find out who created a specific account and when.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"account": {Type: schema.String, Desc: "The account name to look up the creator for", Required: true},
		}),
	}, nil
}

func (t *getCreatorTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Account string `json:"account"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.Account == "" {
		return "", fmt.Errorf("missing account")
	}

	raw, err := t.hyperion.GetCreator(ctx, args.Account)
	if err != nil {
		return toolError(err, "Failed to fetch creator"), nil
	}
	var result struct {
		Creator   string `json:"creator"`
		Timestamp string `json:"timestamp"`
	}
	_ = json.Unmarshal(raw, &result)
	return toolResult(map[string]any{
		"account":   args.Account,
		"creator":   result.Creator,
		"timestamp": result.Timestamp,
	})
}

type getTokensTool struct {
	hyperion *antelope.HyperionClient
}

func (t *getTokensTool) GetType() string { return toolNameGetTokens }

func (t *getTokensTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetTokens,
		Desc: "Get all token balances held by an account across all contracts. Richer than get_currency_balance as it discovers all tokens automatically.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"account": {Type: schema.String, Desc: "The account name to get token balances for", Required: true},
		}),
	}, nil
}

func (t *getTokensTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Account string `json:"account"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.Account == "" {
		return "", fmt.Errorf("missing account")
	}

	raw, err := t.hyperion.GetTokens(ctx, args.Account)
	if err != nil {
		return toolError(err, "Failed to fetch tokens"), nil
	}
	var result struct {
		Tokens json.RawMessage `json:"tokens"`
	}
	_ = json.Unmarshal(raw, &result)
	tokens := result.Tokens
	if len(tokens) == 0 {
		tokens = json.RawMessage("[]")
	}
	return toolResult(map[string]any{"tokens": tokens, "account": args.Account})
}

type getKeyAccountsTool struct {
	hyperion *antelope.HyperionClient
}

func (t *getKeyAccountsTool) GetType() string { return toolNameGetKeyAccounts }

func (t *getKeyAccountsTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetKeyAccounts,
		Desc: "Get all accounts associated with a given public key.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"public_key": {Type: schema.String, Desc: "The public key to look up (e.g. 'EOS6MR...')", Required: true},
		}),
	}, nil
}

func (t *getKeyAccountsTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		PublicKey string `json:"public_key"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.PublicKey == "" {
		return "", fmt.Errorf("missing public_key")
	}

	raw, err := t.hyperion.GetKeyAccounts(ctx, args.PublicKey)
	if err != nil {
		return toolError(err, "Failed to fetch key accounts"), nil
	}
	var result struct {
		AccountNames []string `json:"account_names"`
	}
	_ = json.Unmarshal(raw, &result)
	if result.AccountNames == nil {
		result.AccountNames = []string{}
	}
	return toolResult(map[string]any{"account_names": result.AccountNames})
}
