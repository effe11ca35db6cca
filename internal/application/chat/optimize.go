package chat

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// OptimizeOptions 消息压缩参数
type OptimizeOptions struct {
	// KeepRecentToolRounds 保留完整工具结果的最近轮数
	KeepRecentToolRounds int
	// MaxMessages 触发窗口截断的消息数上限
	MaxMessages int
}

// DefaultOptimizeOptions 默认压缩参数
func DefaultOptimizeOptions() OptimizeOptions {
	return OptimizeOptions{KeepRecentToolRounds: 2, MaxMessages: 20}
}

// OptimizeMessages 压缩发送给模型的消息以降低 Token 消耗。
// 旧的工具结果替换为单行摘要，超长对话做窗口截断。
// 不修改入参，客户端保留的完整数据不受影响。
func OptimizeMessages(messages []Message, opts OptimizeOptions) []Message {
	if opts.KeepRecentToolRounds <= 0 {
		opts.KeepRecentToolRounds = 2
	}
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = 20
	}

	msgs := cloneMessages(messages)

	// 倒序遍历助手消息，统计工具结果轮数。
	// 一轮指一条至少含一个工具结果的助手消息。
	toolRoundsSeen := 0
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := &msgs[i]
		if msg.Role != "assistant" || len(msg.Parts) == 0 {
			continue
		}

		hasToolResult := false
		for _, p := range msg.Parts {
			if p.Type == partTypeToolInvocation && p.ToolInvocation != nil && p.ToolInvocation.State == toolStateResult {
				hasToolResult = true
				break
			}
		}
		if !hasToolResult {
			continue
		}

		toolRoundsSeen++
		if toolRoundsSeen <= opts.KeepRecentToolRounds {
			continue
		}

		for j := range msg.Parts {
			p := &msg.Parts[j]
			if p.Type != partTypeToolInvocation || p.ToolInvocation == nil {
				continue
			}
			inv := p.ToolInvocation
			if inv.State != toolStateResult || len(inv.Output) == 0 {
				continue
			}
			// 已经是摘要的输出不再压缩，重复调用结果不变
			if alreadySummarized(inv.Output) {
				continue
			}
			summary := summarizeToolOutput(inv.ToolName, inv.Output)
			replaced, _ := json.Marshal(map[string]any{"_summarized": true, "summary": summary})
			inv.Output = replaced
		}
	}

	// 窗口截断：保留首条用户消息、一条衔接提示和最近 MaxMessages 条
	if len(msgs) > opts.MaxMessages {
		firstUserIdx := -1
		for i := range msgs {
			if msgs[i].Role == "user" {
				firstUserIdx = i
				break
			}
		}
		recent := msgs[len(msgs)-opts.MaxMessages:]
		bridge := Message{Role: "assistant", Content: "[Prior conversation context omitted for brevity]"}

		if firstUserIdx >= 0 && firstUserIdx < len(msgs)-opts.MaxMessages {
			windowed := make([]Message, 0, len(recent)+2)
			windowed = append(windowed, msgs[firstUserIdx], bridge)
			windowed = append(windowed, recent...)
			msgs = windowed
		} else {
			windowed := make([]Message, 0, len(recent)+1)
			windowed = append(windowed, bridge)
			windowed = append(windowed, recent...)
			msgs = windowed
		}
	}

	return msgs
}

func cloneMessages(messages []Message) []Message {
	msgs := make([]Message, len(messages))
	for i, m := range messages {
		msgs[i] = m
		if len(m.Parts) > 0 {
			parts := make([]MessagePart, len(m.Parts))
			for j, p := range m.Parts {
				parts[j] = p
				if p.ToolInvocation != nil {
					inv := *p.ToolInvocation
					parts[j].ToolInvocation = &inv
				}
			}
			msgs[i].Parts = parts
		}
	}
	return msgs
}

type summarizer func(o map[string]any) string

var summarizers = map[string]summarizer{
	"get_account": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_account error: " + e
		}
		ramPct := 0
		if ram, ok := o["ram"].(map[string]any); ok {
			quota := num(ram["quota"])
			if quota > 0 {
				ramPct = int(math.Round(num(ram["used"]) / quota * 100))
			}
		}
		return fmt.Sprintf("Account %v: balance %v, RAM %d%% used, CPU staked %v",
			o["account_name"], o["balance"], ramPct, o["cpu_staked"])
	},

	"get_abi": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_abi error: " + e
		}
		actions := strList(o["actions"])
		tables := strList(o["tables"])
		return fmt.Sprintf("ABI for %v: %d actions [%s], %d tables [%s]",
			o["account_name"], len(actions), strings.Join(head(actions, 5), ", "),
			len(tables), strings.Join(head(tables, 5), ", "))
	},

	"get_actions": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_actions error: " + e
		}
		total := 0.0
		if t, ok := o["total"].(map[string]any); ok {
			total = num(t["value"])
		}
		var recent []string
		if actions, ok := o["actions"].([]any); ok {
			for _, a := range head(actions, 3) {
				am, _ := a.(map[string]any)
				contract := firstStr(am, "contract")
				name := firstStr(am, "action")
				if act, ok := am["act"].(map[string]any); ok {
					if contract == "?" {
						contract = firstStr(act, "account")
					}
					if name == "?" {
						name = firstStr(act, "name")
					}
				}
				recent = append(recent, contract+"::"+name)
			}
		}
		return fmt.Sprintf("Action history: %d total. Recent: %s", int(total), strings.Join(recent, ", "))
	},

	"get_table_rows": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_table_rows error: " + e
		}
		rows := 0
		if r, ok := o["rows"].([]any); ok {
			rows = len(r)
		}
		more := ""
		if truthy(o["more"]) {
			more = " (more available)"
		}
		return fmt.Sprintf("Table query: %d rows returned%s", rows, more)
	},

	"get_tokens": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_tokens error: " + e
		}
		tokens, _ := o["tokens"].([]any)
		var top []string
		for _, t := range head(tokens, 3) {
			tm, _ := t.(map[string]any)
			amount := tm["amount"]
			if amount == nil {
				amount = tm["balance"]
			}
			if amount == nil {
				amount = "?"
			}
			symbol, _ := tm["symbol"].(string)
			top = append(top, strings.TrimSpace(fmt.Sprintf("%v %s", amount, symbol)))
		}
		return fmt.Sprintf("Tokens for %v: %d tokens. Top: %s", o["account"], len(tokens), strings.Join(top, ", "))
	},

	"get_transfers": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_transfers error: " + e
		}
		transfers, _ := o["transfers"].([]any)
		return fmt.Sprintf("Transfer history for %v: %d transfers returned", o["account"], len(transfers))
	},

	"get_block": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_block error: " + e
		}
		return fmt.Sprintf("Block #%v: producer %v, %v txs, time %v",
			o["block_num"], o["producer"], o["transaction_count"], o["timestamp"])
	},

	"get_transaction": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_transaction error: " + e
		}
		id := "?"
		if s, ok := o["id"].(string); ok && len(s) >= 8 {
			id = s[:8] + "..."
		}
		status, _ := o["status"].(string)
		if status == "" {
			status = "executed"
		}
		actionCount := 0
		if a, ok := o["actions"].([]any); ok {
			actionCount = len(a)
		}
		return fmt.Sprintf("Tx %s: %s, block %v, %d actions", id, status, o["block_num"], actionCount)
	},

	"get_currency_balance": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_currency_balance error: " + e
		}
		return fmt.Sprintf("Balances for %v: %s", o["account"], strings.Join(strList(o["balances"]), ", "))
	},

	"get_producers": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_producers error: " + e
		}
		producers, _ := o["producers"].([]any)
		var top []string
		for _, p := range head(producers, 5) {
			pm, _ := p.(map[string]any)
			if owner, ok := pm["owner"].(string); ok {
				top = append(top, owner)
			}
		}
		return fmt.Sprintf("%d block producers. Top: %s", len(producers), strings.Join(top, ", "))
	},

	"get_created_accounts": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_created_accounts error: " + e
		}
		accounts, _ := o["accounts"].([]any)
		return fmt.Sprintf("%d accounts created by %v", len(accounts), o["query_account"])
	},

	"get_creator": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_creator error: " + e
		}
		timestamp := o["timestamp"]
		if timestamp == nil || timestamp == "" {
			timestamp = "unknown date"
		}
		return fmt.Sprintf("Account %v created by %v on %v", o["account"], o["creator"], timestamp)
	},

	"get_key_accounts": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_key_accounts error: " + e
		}
		names := strList(o["account_names"])
		return fmt.Sprintf("%d accounts found: %s", len(names), strings.Join(names, ", "))
	},

	"build_transaction": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "build_transaction error: " + e
		}
		desc := o["description"]
		if desc == nil || desc == "" {
			desc = "action"
		}
		return fmt.Sprintf("Transaction proposal (%v): %v", o["status"], desc)
	},

	"get_contract_guide": func(o map[string]any) string {
		if e := errField(o); e != "" {
			return "get_contract_guide: " + e
		}
		summary := o["summary"]
		if summary == nil || summary == "" {
			summary = "loaded"
		}
		return fmt.Sprintf("Contract guide for %v: %v", o["contract"], summary)
	},
}

// alreadySummarized 判断工具输出是否已被替换为摘要
func alreadySummarized(output json.RawMessage) bool {
	var o struct {
		Summarized bool `json:"_summarized"`
	}
	return json.Unmarshal(output, &o) == nil && o.Summarized
}

// summarizeToolOutput 按工具名生成单行摘要，未知工具退化为截断 JSON
func summarizeToolOutput(toolName string, output json.RawMessage) string {
	var o map[string]any
	if err := json.Unmarshal(output, &o); err == nil {
		if fn, ok := summarizers[toolName]; ok {
			return fn(o)
		}
	}
	s := string(output)
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		return "[tool output]"
	}
	return s
}

func errField(o map[string]any) string {
	if e, ok := o["error"].(string); ok && e != "" {
		return e
	}
	return ""
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case nil:
		return false
	}
	return true
}

func strList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		out = append(out, fmt.Sprintf("%v", e))
	}
	return out
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func firstStr(m map[string]any, key string) string {
	if m == nil {
		return "?"
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return "?"
}
