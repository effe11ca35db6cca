package chat

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func toolResultMessage(toolName string, output string) Message {
	return Message{
		Role: "assistant",
		Parts: []MessagePart{
			{
				Type: partTypeToolInvocation,
				ToolInvocation: &ToolInvocation{
					State:    toolStateResult,
					ToolName: toolName,
					Args:     json.RawMessage(`{}`),
					Output:   json.RawMessage(output),
				},
			},
		},
	}
}

func isSummarized(t *testing.T, msg Message) (bool, string) {
	t.Helper()
	inv := msg.Parts[0].ToolInvocation
	var out map[string]any
	if err := json.Unmarshal(inv.Output, &out); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	summarized, _ := out["_summarized"].(bool)
	summary, _ := out["summary"].(string)
	return summarized, summary
}

func TestOptimizeMessagesKeepsRecentToolRounds(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "q1"},
		toolResultMessage("get_table_rows", `{"rows":[1,2,3],"more":false}`),
		{Role: "user", Content: "q2"},
		toolResultMessage("get_table_rows", `{"rows":[1],"more":true}`),
		{Role: "user", Content: "q3"},
		toolResultMessage("get_table_rows", `{"rows":[],"more":false}`),
	}

	out := OptimizeMessages(msgs, DefaultOptimizeOptions())

	// 最早一轮被摘要，最近两轮保留原始输出
	if ok, summary := isSummarized(t, out[1]); !ok {
		t.Fatal("oldest tool round should be summarized")
	} else if summary != "Table query: 3 rows returned" {
		t.Fatalf("summary = %q", summary)
	}
	if ok, _ := isSummarized(t, out[3]); ok {
		t.Fatal("second-most-recent tool round must keep full output")
	}
	if ok, _ := isSummarized(t, out[5]); ok {
		t.Fatal("most recent tool round must keep full output")
	}

	// 入参不被修改
	var original map[string]any
	if err := json.Unmarshal(msgs[1].Parts[0].ToolInvocation.Output, &original); err != nil {
		t.Fatalf("unmarshal original: %v", err)
	}
	if _, ok := original["_summarized"]; ok {
		t.Fatal("OptimizeMessages must not mutate caller data")
	}
}

func TestOptimizeMessagesWindowing(t *testing.T) {
	var msgs []Message
	msgs = append(msgs, Message{Role: "user", Content: "the very first question"})
	for i := 0; i < 30; i++ {
		msgs = append(msgs, Message{Role: "user", Content: fmt.Sprintf("follow-up %d", i)})
		msgs = append(msgs, Message{Role: "assistant", Content: fmt.Sprintf("answer %d", i)})
	}

	out := OptimizeMessages(msgs, DefaultOptimizeOptions())

	if len(out) != 22 {
		t.Fatalf("len = %d, want 22 (first user + bridge + last 20)", len(out))
	}
	if out[0].Content != "the very first question" {
		t.Errorf("first message = %q", out[0].Content)
	}
	if out[1].Role != "assistant" || out[1].Content != "[Prior conversation context omitted for brevity]" {
		t.Errorf("bridge = %+v", out[1])
	}
	if out[len(out)-1].Content != "answer 29" {
		t.Errorf("last message = %q", out[len(out)-1].Content)
	}
}

// 重复压缩结果不变：已摘要的输出不二次摘要，窗口截断收敛
func TestOptimizeMessagesIdempotent(t *testing.T) {
	var msgs []Message
	msgs = append(msgs, Message{Role: "user", Content: "the very first question"})
	for i := 0; i < 12; i++ {
		msgs = append(msgs, Message{Role: "user", Content: fmt.Sprintf("follow-up %d", i)})
		msgs = append(msgs, toolResultMessage("get_table_rows", fmt.Sprintf(`{"rows":[%d],"more":false}`, i)))
	}

	once := OptimizeMessages(msgs, DefaultOptimizeOptions())
	twice := OptimizeMessages(once, DefaultOptimizeOptions())

	if !reflect.DeepEqual(once, twice) {
		t.Fatal("second pass must not change an already optimized list")
	}

	// 摘要保留第一次的内容，没有被再次压缩
	for _, msg := range twice {
		if len(msg.Parts) == 0 {
			continue
		}
		if ok, summary := isSummarized(t, msg); ok && !strings.HasPrefix(summary, "Table query: 1 rows") {
			t.Fatalf("summary degraded on second pass: %q", summary)
		}
	}
}

func TestOptimizeMessagesShortConversationUntouched(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	}
	out := OptimizeMessages(msgs, DefaultOptimizeOptions())
	if len(out) != 2 || out[0].Content != "hello" || out[1].Content != "hi" {
		t.Fatalf("out = %+v", out)
	}
}

func TestSummarizeToolOutputFormats(t *testing.T) {
	tests := []struct {
		tool   string
		output string
		want   string
	}{
		{
			"get_account",
			`{"account_name":"alice","balance":"10.0000 TLOS","ram":{"used":50,"quota":100},"cpu_staked":"1.0000 TLOS"}`,
			"Account alice: balance 10.0000 TLOS, RAM 50% used, CPU staked 1.0000 TLOS",
		},
		{
			"get_abi",
			`{"account_name":"eosio.token","actions":["transfer","issue"],"tables":["accounts","stat"]}`,
			"ABI for eosio.token: 2 actions [transfer, issue], 2 tables [accounts, stat]",
		},
		{
			"get_transfers",
			`{"account":"alice","transfers":[{},{},{}]}`,
			"Transfer history for alice: 3 transfers returned",
		},
		{
			"get_transaction",
			`{"id":"abcdef0123456789","status":"executed","block_num":42,"actions":[{}]}`,
			"Tx abcdef01...: executed, block 42, 1 actions",
		},
		{
			"get_key_accounts",
			`{"account_names":["alice","bob"]}`,
			"2 accounts found: alice, bob",
		},
		{
			"build_transaction",
			`{"status":"pending_signature","description":"Transfer 1 TLOS"}`,
			"Transaction proposal (pending_signature): Transfer 1 TLOS",
		},
		{
			"get_contract_guide",
			`{"contract":"eosio.token","summary":"token stuff"}`,
			"Contract guide for eosio.token: token stuff",
		},
		{
			"get_account",
			`{"error":"account not found"}`,
			"get_account error: account not found",
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.tool, i), func(t *testing.T) {
			got := summarizeToolOutput(tt.tool, json.RawMessage(tt.output))
			if got != tt.want {
				t.Errorf("got %q\nwant %q", got, tt.want)
			}
		})
	}
}

// 未注册的工具名退化为截断 JSON
func TestSummarizeToolOutputFallback(t *testing.T) {
	big := `{"blob":"` + strings.Repeat("x", 400) + `"}`
	got := summarizeToolOutput("some_unknown_tool", json.RawMessage(big))
	if len(got) != 200 {
		t.Fatalf("len = %d, want 200", len(got))
	}
	if !strings.HasPrefix(got, `{"blob":"xxx`) {
		t.Fatalf("got %q", got[:20])
	}
}
