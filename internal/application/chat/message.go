// Package chat 实现工具编排的对话流水线
package chat

import (
	"encoding/json"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Message 客户端提交的对话消息。
// 助手消息可携带结构化的 parts，其中工具调用结果用于 UI 卡片渲染，
// 发送给模型前由 OptimizeMessages 做摘要压缩。
type Message struct {
	Role    string        `json:"role"`
	Content string        `json:"content"`
	Parts   []MessagePart `json:"parts,omitempty"`
}

// MessagePart 消息片段，type 为 text 或 tool-invocation
type MessagePart struct {
	Type           string          `json:"type"`
	Text           string          `json:"text,omitempty"`
	ToolInvocation *ToolInvocation `json:"toolInvocation,omitempty"`
}

// ToolInvocation 一次工具调用的记录，state 为 result 时 Output 有效
type ToolInvocation struct {
	State      string          `json:"state"`
	ToolName   string          `json:"toolName"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	Args       json.RawMessage `json:"args,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}

const (
	partTypeText           = "text"
	partTypeToolInvocation = "tool-invocation"
	toolStateResult        = "result"
)

// text 取消息的纯文本内容，优先 parts 中的 text 片段
func (m *Message) text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Type == partTypeText {
			sb.WriteString(p.Text)
		}
	}
	if sb.Len() == 0 {
		return m.Content
	}
	return sb.String()
}

// toSchemaMessages 把客户端消息转为 Eino 消息。
// 历史工具调用展开为 assistant tool_calls + tool 消息对，
// 让模型看到与当初调用时一致的消息结构。
func toSchemaMessages(messages []Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		switch schema.RoleType(msg.Role) {
		case schema.User:
			out = append(out, schema.UserMessage(msg.text()))
		case schema.System:
			out = append(out, schema.SystemMessage(msg.text()))
		case schema.Assistant:
			assistant := &schema.Message{Role: schema.Assistant, Content: msg.text()}
			var toolMsgs []*schema.Message
			for _, p := range msg.Parts {
				if p.Type != partTypeToolInvocation || p.ToolInvocation == nil {
					continue
				}
				inv := p.ToolInvocation
				if inv.State != toolStateResult {
					continue
				}
				assistant.ToolCalls = append(assistant.ToolCalls, schema.ToolCall{
					ID: inv.ToolCallID,
					Function: schema.FunctionCall{
						Name:      inv.ToolName,
						Arguments: string(inv.Args),
					},
				})
				toolMsgs = append(toolMsgs, schema.ToolMessage(string(inv.Output), inv.ToolCallID, schema.WithToolName(inv.ToolName)))
			}
			out = append(out, assistant)
			out = append(out, toolMsgs...)
		default:
			out = append(out, &schema.Message{Role: schema.RoleType(msg.Role), Content: msg.text()})
		}
	}
	return out
}
