package chat

import (
	"encoding/json"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestToSchemaMessagesRoleMapping(t *testing.T) {
	msgs := []Message{
		{Role: "system", Content: "you are helpful"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}

	out := toSchemaMessages(msgs)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	want := []schema.RoleType{schema.System, schema.User, schema.Assistant}
	for i, role := range want {
		if out[i].Role != role {
			t.Errorf("out[%d].Role = %s, want %s", i, out[i].Role, role)
		}
	}
	if out[1].Content != "hi" {
		t.Errorf("user content = %q", out[1].Content)
	}
}

// 历史工具调用展开为 assistant tool_calls + tool 消息对
func TestToSchemaMessagesExpandsToolRounds(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "balance?"},
		{
			Role: "assistant",
			Parts: []MessagePart{
				{Type: partTypeText, Text: "checked"},
				{Type: partTypeToolInvocation, ToolInvocation: &ToolInvocation{
					State:      toolStateResult,
					ToolName:   "get_currency_balance",
					ToolCallID: "call-1",
					Args:       json.RawMessage(`{"account":"alice"}`),
					Output:     json.RawMessage(`{"balances":["1.0000 TLOS"]}`),
				}},
			},
		},
	}

	out := toSchemaMessages(msgs)
	if len(out) != 3 {
		t.Fatalf("len = %d, want user + assistant + tool", len(out))
	}
	if out[0].Role != schema.User {
		t.Errorf("out[0].Role = %s", out[0].Role)
	}
	assistant := out[1]
	if assistant.Role != schema.Assistant || len(assistant.ToolCalls) != 1 {
		t.Fatalf("assistant = %+v", assistant)
	}
	if assistant.ToolCalls[0].Function.Name != "get_currency_balance" {
		t.Errorf("tool call name = %s", assistant.ToolCalls[0].Function.Name)
	}
	toolMsg := out[2]
	if toolMsg.Role != schema.Tool || toolMsg.ToolCallID != "call-1" {
		t.Fatalf("tool message = %+v", toolMsg)
	}
}
