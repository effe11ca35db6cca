package chat

import (
	"context"
	"strings"

	"antelope-chat-api/internal/application/appconfig"
	"antelope-chat-api/internal/domain/entity"
)

const defaultSystemPrompt = `You are an Antelope blockchain explorer assistant. You help users understand and interact with Antelope-based blockchains (EOS, WAX, Telos, etc.).

You have access to tools that let you query on-chain data in real-time. Use them to answer questions about accounts, transactions, blocks, smart contracts, and token balances.

When a user wants to perform an action on the blockchain (transfer tokens, stake resources, buy RAM, vote for producers, etc.), use the build_transaction tool to create a transaction proposal. The user will review and sign it with their wallet.

Guidelines:
- Always use tools to fetch real data rather than making assumptions
- Present data clearly and explain what it means
- When building transactions, ONLY call the build_transaction tool. Do NOT add any text before or after the tool call — no explanations, no summaries, no "here's your transaction" text. The tool result renders as an editable form card, which is all the user needs to see. Any extra text clutters the UI.
- When the user reports a transaction error (e.g. "[Transaction Error: ...]"), analyze the error message and automatically attempt to build a corrected transaction. Common fixes include: adjusting token precision/symbol, fixing account names, checking permissions, or adjusting resource amounts.
- If the chain endpoint is not connected, let the user know they need to connect first
- Be concise but informative
- When you receive a [System: ...] message about a chain or wallet change, introduce yourself briefly (1-2 sentences), mention what chain/account they're on, and suggest a few things you can help with. Don't repeat the system message — just respond naturally as a greeting.`

// BuildSystemPrompt 组装系统提示词。
// 基础文案可被 app_config 表的 system_prompt 键覆盖，
// 链端点、Hyperion 和钱包的段落按本次请求的连接状态追加。
func BuildSystemPrompt(ctx context.Context, config *appconfig.Cache, chainEndpoint, hyperionEndpoint, walletAccount string) string {
	base := defaultSystemPrompt
	if config != nil {
		if custom, err := config.Get(ctx, entity.ConfigKeySystemPrompt); err == nil && strings.TrimSpace(custom) != "" {
			base = custom
		}
	}

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n\n")

	if chainEndpoint != "" {
		sb.WriteString("Connected chain endpoint: " + chainEndpoint)
	} else {
		sb.WriteString("No chain connected — inform the user they should connect to a chain to query on-chain data.")
	}
	sb.WriteString("\n\n")

	if hyperionEndpoint != "" {
		sb.WriteString("Hyperion history API is available. You can query full action history, token transfers, account creation history, token holdings across all contracts, and key-to-account lookups using the get_actions, get_transfers, get_created_accounts, get_creator, get_tokens, and get_key_accounts tools.")
		sb.WriteString("\n\n")
	}

	if walletAccount != "" {
		sb.WriteString(`The user's connected wallet account is: ` + walletAccount + `. When they say "my account", "my balance", etc., use this account name. When building transactions, use this as the "from" account.`)
	} else {
		sb.WriteString("No wallet connected.")
	}

	return sb.String()
}
