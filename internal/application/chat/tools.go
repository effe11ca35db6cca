package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"antelope-chat-api/internal/infrastructure/antelope"
)

const (
	toolNameGetAccount         = "get_account"
	toolNameGetBlock           = "get_block"
	toolNameGetTransaction     = "get_transaction"
	toolNameGetTableRows       = "get_table_rows"
	toolNameGetABI             = "get_abi"
	toolNameGetCurrencyBalance = "get_currency_balance"
	toolNameGetProducers       = "get_producers"
	toolNameBuildTransaction   = "build_transaction"
	toolNameGetContractGuide   = "get_contract_guide"
)

// BuildTools 装配本次请求可用的链上查询工具。
// 未连接链端点时返回空集；Hyperion 工具仅在提供了历史服务端点时加入。
func BuildTools(chain *antelope.ChainClient, hyperion *antelope.HyperionClient, chainHint string) []tool.BaseTool {
	if chain == nil {
		return nil
	}

	tools := []tool.BaseTool{
		&getAccountTool{chain: chain},
		&getBlockTool{chain: chain},
		&getTransactionTool{chain: chain},
		&getTableRowsTool{chain: chain},
		&getABITool{chain: chain},
		&getCurrencyBalanceTool{chain: chain},
		&getProducersTool{chain: chain},
		&buildTransactionTool{},
		&getContractGuideTool{chainHint: chainHint},
	}

	if hyperion != nil {
		tools = append(tools,
			&getActionsTool{hyperion: hyperion},
			&getTransfersTool{hyperion: hyperion},
			&getCreatedAccountsTool{hyperion: hyperion},
			&getCreatorTool{hyperion: hyperion},
			&getTokensTool{hyperion: hyperion},
			&getKeyAccountsTool{hyperion: hyperion},
		)
	}
	return tools
}

// 工具的失败不中断对话，错误以 JSON 载荷返回给模型
func toolError(err error, fallback string) string {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

func toolResult(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal tool result: %w", err)
	}
	return string(b), nil
}

type getAccountTool struct {
	chain *antelope.ChainClient
}

func (t *getAccountTool) GetType() string { return toolNameGetAccount }

func (t *getAccountTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetAccount,
		Desc: "Get detailed information about an Antelope blockchain account including balances, resources (RAM, CPU, NET), and permissions.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"account_name": {
				Type:     schema.String,
				Desc:     "The account name to look up (e.g. 'eosio.token')",
				Required: true,
			},
		}),
	}, nil
}

func (t *getAccountTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		AccountName string `json:"account_name"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.AccountName == "" {
		return "", fmt.Errorf("missing account_name")
	}

	raw, err := t.chain.GetAccount(ctx, args.AccountName)
	if err != nil {
		return toolError(err, "Failed to fetch account"), nil
	}

	var account struct {
		AccountName       string          `json:"account_name"`
		CoreLiquidBalance string          `json:"core_liquid_balance"`
		RAMUsage          int64           `json:"ram_usage"`
		RAMQuota          int64           `json:"ram_quota"`
		CPULimit          json.RawMessage `json:"cpu_limit"`
		NetLimit          json.RawMessage `json:"net_limit"`
		TotalResources    struct {
			CPUWeight string `json:"cpu_weight"`
			NetWeight string `json:"net_weight"`
		} `json:"total_resources"`
		Permissions []struct {
			PermName     string `json:"perm_name"`
			Parent       string `json:"parent"`
			RequiredAuth struct {
				Threshold int             `json:"threshold"`
				Keys      json.RawMessage `json:"keys"`
				Accounts  json.RawMessage `json:"accounts"`
			} `json:"required_auth"`
		} `json:"permissions"`
		VoterInfo json.RawMessage `json:"voter_info"`
	}
	if err := json.Unmarshal(raw, &account); err != nil {
		return toolError(err, "Failed to fetch account"), nil
	}

	balance := account.CoreLiquidBalance
	if balance == "" {
		balance = "0"
	}
	cpuStaked := account.TotalResources.CPUWeight
	if cpuStaked == "" {
		cpuStaked = "0"
	}
	netStaked := account.TotalResources.NetWeight
	if netStaked == "" {
		netStaked = "0"
	}

	permissions := make([]map[string]any, 0, len(account.Permissions))
	for _, p := range account.Permissions {
		permissions = append(permissions, map[string]any{
			"name":      p.PermName,
			"parent":    p.Parent,
			"threshold": p.RequiredAuth.Threshold,
			"keys":      p.RequiredAuth.Keys,
			"accounts":  p.RequiredAuth.Accounts,
		})
	}

	return toolResult(map[string]any{
		"account_name": account.AccountName,
		"balance":      balance,
		"ram":          map[string]any{"used": account.RAMUsage, "quota": account.RAMQuota},
		"cpu":          account.CPULimit,
		"net":          account.NetLimit,
		"cpu_staked":   cpuStaked,
		"net_staked":   netStaked,
		"permissions":  permissions,
		"voter_info":   account.VoterInfo,
	})
}

type getBlockTool struct {
	chain *antelope.ChainClient
}

func (t *getBlockTool) GetType() string { return toolNameGetBlock }

func (t *getBlockTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetBlock,
		Desc: "Get information about a specific block by block number.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"block_num": {
				Type:     schema.Integer,
				Desc:     "The block number to look up",
				Required: true,
			},
		}),
	}, nil
}

func (t *getBlockTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		BlockNum int64 `json:"block_num"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.BlockNum <= 0 {
		return "", fmt.Errorf("missing block_num")
	}

	raw, err := t.chain.GetBlock(ctx, fmt.Sprintf("%d", args.BlockNum))
	if err != nil {
		return toolError(err, "Failed to fetch block"), nil
	}

	var block struct {
		BlockNum     int64  `json:"block_num"`
		ID           string `json:"id"`
		Timestamp    string `json:"timestamp"`
		Producer     string `json:"producer"`
		Confirmed    int    `json:"confirmed"`
		Transactions []struct {
			Status        string          `json:"status"`
			CPUUsageUs    int64           `json:"cpu_usage_us"`
			NetUsageWords int64           `json:"net_usage_words"`
			Trx           json.RawMessage `json:"trx"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &block); err != nil {
		return toolError(err, "Failed to fetch block"), nil
	}

	txs := make([]map[string]any, 0, 10)
	for _, tx := range block.Transactions {
		if len(txs) >= 10 {
			break
		}
		// trx 字段可能是纯哈希字符串或含 id 的对象
		var id string
		if err := json.Unmarshal(tx.Trx, &id); err != nil {
			var obj struct {
				ID string `json:"id"`
			}
			_ = json.Unmarshal(tx.Trx, &obj)
			id = obj.ID
		}
		txs = append(txs, map[string]any{
			"id":              id,
			"status":          tx.Status,
			"cpu_usage_us":    tx.CPUUsageUs,
			"net_usage_words": tx.NetUsageWords,
		})
	}

	return toolResult(map[string]any{
		"block_num":         block.BlockNum,
		"id":                block.ID,
		"timestamp":         block.Timestamp,
		"producer":          block.Producer,
		"confirmed":         block.Confirmed,
		"transaction_count": len(block.Transactions),
		"transactions":      txs,
	})
}

type getTransactionTool struct {
	chain *antelope.ChainClient
}

func (t *getTransactionTool) GetType() string { return toolNameGetTransaction }

func (t *getTransactionTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetTransaction,
		Desc: "Look up a transaction by its transaction ID. Note: requires history plugin on the endpoint.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"transaction_id": {
				Type:     schema.String,
				Desc:     "The transaction ID (hash) to look up",
				Required: true,
			},
		}),
	}, nil
}

func (t *getTransactionTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		TransactionID string `json:"transaction_id"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.TransactionID == "" {
		return "", fmt.Errorf("missing transaction_id")
	}

	raw, err := t.chain.GetTransactionV1(ctx, args.TransactionID)
	if err != nil {
		return toolError(err, "Failed to fetch transaction"), nil
	}

	var tx struct {
		ID        string `json:"id"`
		BlockNum  int64  `json:"block_num"`
		BlockTime string `json:"block_time"`
		Trx       struct {
			Receipt struct {
				Status string `json:"status"`
			} `json:"receipt"`
			Trx struct {
				Actions json.RawMessage `json:"actions"`
			} `json:"trx"`
		} `json:"trx"`
	}
	if err := json.Unmarshal(raw, &tx); err != nil {
		return toolError(err, "Failed to fetch transaction"), nil
	}

	actions := tx.Trx.Trx.Actions
	if len(actions) == 0 {
		actions = json.RawMessage("[]")
	}
	return toolResult(map[string]any{
		"id":         tx.ID,
		"block_num":  tx.BlockNum,
		"block_time": tx.BlockTime,
		"actions":    actions,
		"status":     tx.Trx.Receipt.Status,
	})
}

type getTableRowsTool struct {
	chain *antelope.ChainClient
}

func (t *getTableRowsTool) GetType() string { return toolNameGetTableRows }

func (t *getTableRowsTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetTableRows,
		Desc: "Query rows from a smart contract table. Use this to read on-chain data from any contract.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"code":        {Type: schema.String, Desc: "The contract account name (e.g. 'eosio.token')", Required: true},
			"table":       {Type: schema.String, Desc: "The table name (e.g. 'accounts')", Required: true},
			"scope":       {Type: schema.String, Desc: "The scope (usually the account name or contract name)", Required: true},
			"limit":       {Type: schema.Integer, Desc: "Max rows to return (default 10)"},
			"lower_bound": {Type: schema.String, Desc: "Lower bound for key"},
			"upper_bound": {Type: schema.String, Desc: "Upper bound for key"},
			"index_position": {
				Type: schema.String,
				Desc: "Secondary index position (e.g. '2'), optional",
			},
			"key_type": {Type: schema.String, Desc: "Key type for secondary index (e.g. 'i64'), optional"},
			"reverse":  {Type: schema.Boolean, Desc: "Reverse iteration order, optional"},
		}),
	}, nil
}

func (t *getTableRowsTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Code       string `json:"code"`
		Table      string `json:"table"`
		Scope      string `json:"scope"`
		Limit      int    `json:"limit"`
		LowerBound string `json:"lower_bound"`
		UpperBound string `json:"upper_bound"`
		IndexPos   string `json:"index_position"`
		KeyType    string `json:"key_type"`
		Reverse    bool   `json:"reverse"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.Code == "" || args.Table == "" {
		return "", fmt.Errorf("missing code or table")
	}

	raw, err := t.chain.GetTableRows(ctx, antelope.TableRowsRequest{
		Code:       args.Code,
		Scope:      args.Scope,
		Table:      args.Table,
		LowerBound: args.LowerBound,
		UpperBound: args.UpperBound,
		Limit:      args.Limit,
		IndexPos:   args.IndexPos,
		KeyType:    args.KeyType,
		Reverse:    args.Reverse,
	})
	if err != nil {
		return toolError(err, "Failed to fetch table rows"), nil
	}
	return string(raw), nil
}

type getABITool struct {
	chain *antelope.ChainClient
}

func (t *getABITool) GetType() string { return toolNameGetABI }

func (t *getABITool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetABI,
		Desc: "Get the ABI (Application Binary Interface) of a smart contract. Shows available tables, actions, and data structures.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"account_name": {Type: schema.String, Desc: "The contract account name", Required: true},
		}),
	}, nil
}

func (t *getABITool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		AccountName string `json:"account_name"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.AccountName == "" {
		return "", fmt.Errorf("missing account_name")
	}

	raw, err := t.chain.GetABI(ctx, args.AccountName)
	if err != nil {
		return toolError(err, "Failed to fetch ABI"), nil
	}

	var result struct {
		AccountName string `json:"account_name"`
		ABI         *struct {
			Actions []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"actions"`
			Tables []struct {
				Name string `json:"name"`
			} `json:"tables"`
			Structs []struct {
				Name   string          `json:"name"`
				Fields json.RawMessage `json:"fields"`
			} `json:"structs"`
		} `json:"abi"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return toolError(err, "Failed to fetch ABI"), nil
	}
	if result.ABI == nil {
		return toolError(nil, "No ABI found for this account"), nil
	}

	actionTypes := make(map[string]bool, len(result.ABI.Actions))
	actions := make([]string, 0, len(result.ABI.Actions))
	for _, a := range result.ABI.Actions {
		actionTypes[a.Type] = true
		actions = append(actions, a.Name)
	}
	tables := make([]string, 0, len(result.ABI.Tables))
	for _, tb := range result.ABI.Tables {
		tables = append(tables, tb.Name)
	}
	// 只保留动作引用的 struct 以节省 Token
	structs := make([]map[string]any, 0)
	for _, s := range result.ABI.Structs {
		if actionTypes[s.Name] {
			structs = append(structs, map[string]any{"name": s.Name, "fields": s.Fields})
		}
	}

	return toolResult(map[string]any{
		"account_name": result.AccountName,
		"tables":       tables,
		"actions":      actions,
		"structs":      structs,
	})
}

type getCurrencyBalanceTool struct {
	chain *antelope.ChainClient
}

func (t *getCurrencyBalanceTool) GetType() string { return toolNameGetCurrencyBalance }

func (t *getCurrencyBalanceTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetCurrencyBalance,
		Desc: "Get token balances for an account from a specific token contract.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"code":    {Type: schema.String, Desc: "The token contract (e.g. 'eosio.token')", Required: true},
			"account": {Type: schema.String, Desc: "The account to check balance for", Required: true},
			"symbol":  {Type: schema.String, Desc: "Token symbol filter (e.g. 'EOS')"},
		}),
	}, nil
}

func (t *getCurrencyBalanceTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Code    string `json:"code"`
		Account string `json:"account"`
		Symbol  string `json:"symbol"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.Code == "" || args.Account == "" {
		return "", fmt.Errorf("missing code or account")
	}

	raw, err := t.chain.GetCurrencyBalance(ctx, args.Code, args.Account, args.Symbol)
	if err != nil {
		return toolError(err, "Failed to fetch balance"), nil
	}
	var balances []string
	if err := json.Unmarshal(raw, &balances); err != nil {
		return toolError(err, "Failed to fetch balance"), nil
	}
	return toolResult(map[string]any{"account": args.Account, "balances": balances})
}

type getProducersTool struct {
	chain *antelope.ChainClient
}

func (t *getProducersTool) GetType() string { return toolNameGetProducers }

func (t *getProducersTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetProducers,
		Desc: "Get the list of block producers on the chain.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"limit": {Type: schema.Integer, Desc: "Max producers to return (default 21)"},
		}),
	}, nil
}

func (t *getProducersTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Limit int `json:"limit"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)

	raw, err := t.chain.GetProducers(ctx, args.Limit)
	if err != nil {
		return toolError(err, "Failed to fetch producers"), nil
	}

	var result struct {
		Rows []struct {
			Owner        string `json:"owner"`
			TotalVotes   string `json:"total_votes"`
			URL          string `json:"url"`
			IsActive     int    `json:"is_active"`
			UnpaidBlocks int64  `json:"unpaid_blocks"`
		} `json:"rows"`
		TotalProducerVoteWeight string `json:"total_producer_vote_weight"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return toolError(err, "Failed to fetch producers"), nil
	}

	producers := make([]map[string]any, 0, len(result.Rows))
	for _, p := range result.Rows {
		producers = append(producers, map[string]any{
			"owner":         p.Owner,
			"total_votes":   p.TotalVotes,
			"url":           p.URL,
			"is_active":     p.IsActive,
			"unpaid_blocks": p.UnpaidBlocks,
		})
	}
	return toolResult(map[string]any{
		"producers":                  producers,
		"total_producer_vote_weight": result.TotalProducerVoteWeight,
	})
}

// ProposedAction 交易提案中的单个动作
type ProposedAction struct {
	Account string          `json:"account"`
	Name    string          `json:"name"`
	Data    json.RawMessage `json:"data"`
}

type buildTransactionTool struct{}

func (t *buildTransactionTool) GetType() string { return toolNameBuildTransaction }

func (t *buildTransactionTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameBuildTransaction,
		Desc: "Build a transaction proposal for the user to review and sign. Use this when the user wants to perform any on-chain action (transfer tokens, stake, buy RAM, etc). The transaction will be shown to the user for approval — they must explicitly sign it.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"actions": {
				Type:     schema.Array,
				Desc:     "The actions to include in the transaction",
				Required: true,
				ElemInfo: &schema.ParameterInfo{
					Type: schema.Object,
					SubParams: map[string]*schema.ParameterInfo{
						"account": {Type: schema.String, Desc: "The contract to call", Required: true},
						"name":    {Type: schema.String, Desc: "The action name", Required: true},
						"data":    {Type: schema.Object, Desc: "The action data", Required: true},
					},
				},
			},
			"description": {
				Type:     schema.String,
				Desc:     "Human-readable description of what this transaction does",
				Required: true,
			},
		}),
	}, nil
}

// InvokableRun 不广播交易，只产出待签名的提案，由前端渲染为表单卡片
func (t *buildTransactionTool) InvokableRun(_ context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Actions     []ProposedAction `json:"actions"`
		Description string           `json:"description"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if len(args.Actions) == 0 {
		return "", fmt.Errorf("missing actions")
	}

	return toolResult(map[string]any{
		"type":        "transaction_proposal",
		"description": args.Description,
		"actions":     args.Actions,
		"status":      "pending_signature",
	})
}

type getContractGuideTool struct {
	chainHint string
}

func (t *getContractGuideTool) GetType() string { return toolNameGetContractGuide }

func (t *getContractGuideTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGetContractGuide,
		Desc: "Load a curated usage guide for a well-known smart contract (action parameter formats, table scopes, common gotchas). Use this BEFORE building transactions for a known contract.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"contract": {Type: schema.String, Desc: "The contract account name (e.g. 'eosio.token')", Required: true},
		}),
	}, nil
}

func (t *getContractGuideTool) InvokableRun(_ context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Contract string `json:"contract"`
	}
	_ = json.Unmarshal([]byte(argumentsInJSON), &args)
	if args.Contract == "" {
		return "", fmt.Errorf("missing contract")
	}

	guide := GetContractGuide(args.Contract, t.chainHint)
	if guide == nil {
		b, _ := json.Marshal(map[string]any{
			"error":     fmt.Sprintf("no guide found for %s", args.Contract),
			"available": ListAvailableGuides(t.chainHint),
		})
		return string(b), nil
	}
	return toolResult(guide)
}
