package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"antelope-chat-api/internal/application/appconfig"
	"antelope-chat-api/internal/application/billing"
	"antelope-chat-api/internal/infrastructure/antelope"
	einoobs "antelope-chat-api/internal/observability/eino"
	apperrors "antelope-chat-api/pkg/errors"
	"antelope-chat-api/pkg/logger"
	"antelope-chat-api/pkg/metrics"
)

// DefaultMaxToolRounds 单次对话允许的最大工具轮数
const DefaultMaxToolRounds = 5

// Event 流水线产出的流式事件，由 HTTP 层转为 SSE
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

const (
	EventContent    = "content"
	EventToolCall   = "tool_call"
	EventToolResult = "tool_result"
	EventUsage      = "usage"
)

// ContentDelta 增量文本
type ContentDelta struct {
	Text string `json:"text"`
}

// ToolCallData 模型发起的一次工具调用
type ToolCallData struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// ToolResultData 工具调用的结果
type ToolResultData struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Output json.RawMessage `json:"output"`
}

// UsageData 本次请求的 Token 用量
type UsageData struct {
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	Mode         string `json:"mode"`
}

// Request 一次对话请求
type Request struct {
	Messages []Message

	// ChainID + AccountName 是计费身份（请求自带的链和钱包账户）
	ChainID     string
	AccountName string

	ChainEndpoint    string
	HyperionEndpoint string

	Resolution *Resolution
}

// Pipeline 对话流水线：额度检查、消息压缩、ReAct 工具循环、流式输出和用量落账
type Pipeline struct {
	checker      *billing.AllowanceChecker
	ledger       *billing.Ledger
	config       *appconfig.Cache
	chainTimeout time.Duration

	graphOnce sync.Once
	graph     compose.Runnable[*pipelineState, *pipelineState]
	graphErr  error

	toolsNodeOnce sync.Once
	toolsNode     *compose.ToolsNode
	toolsNodeErr  error
}

// NewPipeline 创建对话流水线
func NewPipeline(checker *billing.AllowanceChecker, ledger *billing.Ledger, config *appconfig.Cache, chainTimeout time.Duration) *Pipeline {
	if chainTimeout <= 0 {
		chainTimeout = 10 * time.Second
	}
	return &Pipeline{
		checker:      checker,
		ledger:       ledger,
		config:       config,
		chainTimeout: chainTimeout,
	}
}

type pipelineState struct {
	req  *Request
	res  *Resolution
	mode billing.Mode

	chatModel model.BaseChatModel
	messages  []*schema.Message

	tools         []einotool.BaseTool
	lastAssistant *schema.Message
	toolRounds    int
	maxToolRounds int

	inputTokens  int64
	outputTokens int64
	modelUsed    string
	modelInvoked bool
	fallbackUsed bool

	events chan<- Event
}

// emit 向事件通道写入，客户端断开后不再阻塞
func (st *pipelineState) emit(ctx context.Context, ev Event) {
	select {
	case st.events <- ev:
	case <-ctx.Done():
	}
}

// Run 执行一次对话。事件写入 events 通道，调用方负责消费；
// 返回非 nil 错误表示流水线在产出最终回复前失败。
// 无论成败，只要模型被调用过就落一条用量（自带 Key 模式除外）。
func (p *Pipeline) Run(ctx context.Context, req *Request, events chan<- Event) (err error) {
	if req == nil || req.Resolution == nil {
		return apperrors.ErrInvalidParam.WithDetail("missing request or resolution")
	}
	res := req.Resolution
	start := time.Now()

	mode := billing.ModeBYOK
	if res.Builtin {
		if req.ChainID == "" || req.AccountName == "" {
			return apperrors.ErrInvalidParam.WithDetail("chain_id and account_name are required for built-in mode")
		}
		allowance, cerr := p.checker.CheckAllowance(ctx, req.ChainID, req.AccountName)
		if cerr != nil {
			return cerr
		}
		if !allowance.Allowed {
			metrics.ChatRequestsTotal.WithLabelValues(string(allowance.Mode), "denied").Inc()
			return apperrors.ErrQuotaExceeded.WithDetail(allowance.Reason)
		}
		mode = allowance.Mode
	}

	st := &pipelineState{
		req:           req,
		res:           res,
		mode:          mode,
		maxToolRounds: DefaultMaxToolRounds,
		modelUsed:     res.Model,
		events:        events,
	}

	ctx = einoobs.WithProvider(ctx, res.Provider)

	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.ChatRequestsTotal.WithLabelValues(string(mode), status).Inc()
		metrics.ChatDuration.WithLabelValues(res.Provider).Observe(time.Since(start).Seconds())

		// 用量落账脱离请求生命周期，客户端断开也要记上
		if st.modelInvoked && res.Builtin {
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if rerr := p.ledger.RecordUsage(rctx, req.ChainID, req.AccountName, mode, st.inputTokens, st.outputTokens, st.modelUsed); rerr != nil {
				logger.Error(rctx, "record usage failed", rerr,
					"chain_id", req.ChainID,
					"account", req.AccountName,
					"mode", string(mode),
				)
			}
		}
	}()

	graph, gerr := p.getGraph()
	if gerr != nil {
		return gerr
	}

	_, err = graph.Invoke(ctx, st, compose.WithRuntimeMaxSteps(20))
	return err
}

func (p *Pipeline) getGraph() (compose.Runnable[*pipelineState, *pipelineState], error) {
	p.graphOnce.Do(func() {
		p.graph, p.graphErr = p.buildGraph(context.Background())
	})
	return p.graph, p.graphErr
}

// getToolsNode 懒加载 Eino 标准工具执行节点。
// 工具列表按请求动态传入（compose.WithToolList），节点本身可复用。
func (p *Pipeline) getToolsNode() (*compose.ToolsNode, error) {
	p.toolsNodeOnce.Do(func() {
		p.toolsNode, p.toolsNodeErr = compose.NewToolNode(context.Background(), &compose.ToolsNodeConfig{
			Tools: nil,

			// 顺序执行，链上查询之间可能有依赖
			ExecuteSequentially: true,

			// 模型幻觉出未知工具时返回 JSON 错误提示，让它下一轮自我修正
			UnknownToolsHandler: func(_ context.Context, name, _ string) (string, error) {
				b, _ := json.Marshal(map[string]any{
					"error": fmt.Sprintf("unknown tool: %s", strings.TrimSpace(name)),
				})
				return string(b), nil
			},
		})
	})
	return p.toolsNode, p.toolsNodeErr
}

// buildGraph 构建 ReAct 循环图：init -> model <-> tools -> finalize
func (p *Pipeline) buildGraph(ctx context.Context) (compose.Runnable[*pipelineState, *pipelineState], error) {
	graph := compose.NewGraph[*pipelineState, *pipelineState]()

	toolsNode, err := p.getToolsNode()
	if err != nil {
		return nil, err
	}

	// init: 压缩历史消息、组装系统提示词和工具集、绑定工具到模型
	if err := graph.AddLambdaNode("init", compose.InvokableLambda(func(ctx context.Context, st *pipelineState) (*pipelineState, error) {
		if st == nil || st.req == nil || st.res == nil {
			return nil, fmt.Errorf("state is nil")
		}

		optimized := OptimizeMessages(st.req.Messages, DefaultOptimizeOptions())
		system := BuildSystemPrompt(ctx, p.config, st.req.ChainEndpoint, st.req.HyperionEndpoint, st.req.AccountName)

		st.messages = append([]*schema.Message{schema.SystemMessage(system)}, toSchemaMessages(optimized)...)

		var chain *antelope.ChainClient
		var hyperion *antelope.HyperionClient
		if st.req.ChainEndpoint != "" {
			chain = antelope.NewChainClient(st.req.ChainEndpoint, p.chainTimeout)
		}
		if st.req.HyperionEndpoint != "" {
			hyperion = antelope.NewHyperionClient(st.req.HyperionEndpoint, p.chainTimeout)
		}
		st.tools = BuildTools(chain, hyperion, st.req.ChainID)

		chatModel := st.res.ChatModel
		if len(st.tools) > 0 {
			toolInfos := make([]*schema.ToolInfo, 0, len(st.tools))
			for i := range st.tools {
				info, err := st.tools[i].Info(ctx)
				if err != nil {
					return nil, err
				}
				toolInfos = append(toolInfos, info)
			}
			if tcm, ok := chatModel.(model.ToolCallingChatModel); ok {
				withTools, err := tcm.WithTools(toolInfos)
				if err == nil && withTools != nil {
					chatModel = withTools
				}
			}
		}
		st.chatModel = chatModel
		return st, nil
	}), compose.WithNodeName("chat.init")); err != nil {
		return nil, err
	}

	// model: 流式调用模型，增量文本实时下发，整条消息拼接后进入状态
	if err := graph.AddLambdaNode("model", compose.InvokableLambda(func(ctx context.Context, st *pipelineState) (*pipelineState, error) {
		if st == nil || st.chatModel == nil {
			return nil, fmt.Errorf("state is nil")
		}

		st.modelInvoked = true
		outMsg, emitted, err := p.streamOnce(ctx, st, nil)

		// 主模型在产出任何内容前硬失败时，用备用模型重试一次
		if err != nil && !emitted && !st.fallbackUsed && st.res.Builtin && st.res.FallbackModel != "" {
			logger.Warn(ctx, "primary model failed, retrying with fallback",
				"provider", st.res.Provider,
				"model", st.res.Model,
				"fallback", st.res.FallbackModel,
				"error", err.Error(),
			)
			st.fallbackUsed = true
			st.modelUsed = st.res.FallbackModel
			metrics.ChatFallbacksTotal.WithLabelValues(st.res.Provider).Inc()
			outMsg, _, err = p.streamOnce(ctx, st, []model.Option{model.WithModel(st.res.FallbackModel)})
		}
		if err != nil {
			return nil, apperrors.ErrLLMCallFailed.WithError(err)
		}
		if outMsg == nil {
			return nil, apperrors.ErrLLMCallFailed.WithDetail("empty llm response")
		}

		if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
			st.inputTokens += int64(outMsg.ResponseMeta.Usage.PromptTokens)
			st.outputTokens += int64(outMsg.ResponseMeta.Usage.CompletionTokens)
		}

		st.lastAssistant = outMsg
		st.messages = append(st.messages, outMsg)
		return st, nil
	}), compose.WithNodeName("chat.model")); err != nil {
		return nil, err
	}

	// tools: 执行模型请求的工具调用，结果事件下发并回灌到消息流
	if err := graph.AddLambdaNode("tools", compose.InvokableLambda(func(ctx context.Context, st *pipelineState) (*pipelineState, error) {
		if st == nil || st.lastAssistant == nil {
			return nil, fmt.Errorf("state is nil")
		}
		if len(st.lastAssistant.ToolCalls) == 0 {
			return st, nil
		}

		for _, tc := range st.lastAssistant.ToolCalls {
			st.emit(ctx, Event{Type: EventToolCall, Data: ToolCallData{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: json.RawMessage(tc.Function.Arguments),
			}})
		}

		outMsgs, err := toolsNode.Invoke(ctx, st.lastAssistant, compose.WithToolList(st.tools...))
		if err != nil {
			return nil, err
		}

		for _, msg := range outMsgs {
			st.emit(ctx, Event{Type: EventToolResult, Data: ToolResultData{
				ID:     msg.ToolCallID,
				Name:   msg.ToolName,
				Output: json.RawMessage(msg.Content),
			}})
		}

		st.messages = append(st.messages, outMsgs...)
		st.toolRounds++
		return st, nil
	}), compose.WithNodeName("chat.tools")); err != nil {
		return nil, err
	}

	// finalize: 下发用量事件并结束
	if err := graph.AddLambdaNode("finalize", compose.InvokableLambda(func(ctx context.Context, st *pipelineState) (*pipelineState, error) {
		if st == nil {
			return nil, fmt.Errorf("state is nil")
		}
		st.emit(ctx, Event{Type: EventUsage, Data: UsageData{
			InputTokens:  st.inputTokens,
			OutputTokens: st.outputTokens,
			Mode:         string(st.mode),
		}})
		return st, nil
	}), compose.WithNodeName("chat.finalize")); err != nil {
		return nil, err
	}

	if err := graph.AddEdge(compose.START, "init"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("init", "model"); err != nil {
		return nil, err
	}

	// 有工具调用且轮数未满则进工具节点，否则收尾。
	// 轮数打满时不报错，带着已有内容直接结束。
	branch := func(ctx context.Context, st *pipelineState) (string, error) {
		if st == nil || st.lastAssistant == nil {
			return "finalize", nil
		}
		if len(st.lastAssistant.ToolCalls) > 0 && st.toolRounds < st.maxToolRounds {
			return "tools", nil
		}
		return "finalize", nil
	}
	if err := graph.AddBranch("model", compose.NewGraphBranch(branch, map[string]bool{"tools": true, "finalize": true})); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("tools", "model"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("finalize", compose.END); err != nil {
		return nil, err
	}

	return graph.Compile(ctx, compose.WithGraphName("chat_pipeline_graph"))
}

// streamOnce 调用一次模型流式接口，增量下发文本并拼出完整消息。
// emitted 表示是否已向客户端下发过内容，用于判断还能不能安全重试。
func (p *Pipeline) streamOnce(ctx context.Context, st *pipelineState, opts []model.Option) (msg *schema.Message, emitted bool, err error) {
	stream, err := st.chatModel.Stream(ctx, st.messages, opts...)
	if err != nil {
		return nil, false, err
	}
	defer stream.Close()

	var chunks []*schema.Message
	for {
		chunk, rerr := stream.Recv()
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return nil, emitted, rerr
		}
		if chunk == nil {
			continue
		}
		if chunk.Content != "" {
			st.emit(ctx, Event{Type: EventContent, Data: ContentDelta{Text: chunk.Content}})
			emitted = true
		}
		chunks = append(chunks, chunk)
	}

	if len(chunks) == 0 {
		return nil, emitted, fmt.Errorf("empty stream response")
	}
	msg, err = schema.ConcatMessages(chunks)
	if err != nil {
		return nil, emitted, err
	}
	return msg, emitted, nil
}
