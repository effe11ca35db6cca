package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"antelope-chat-api/internal/application/appconfig"
	"antelope-chat-api/internal/application/billing"
	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
	apperrors "antelope-chat-api/pkg/errors"
)

// scriptedModel 按脚本逐次吐出预设响应的假模型
type scriptedModel struct {
	mu        sync.Mutex
	responses [][]*schema.Message
	errs      []error
	calls     int
}

func (m *scriptedModel) Generate(ctx context.Context, msgs []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	stream, err := m.Stream(ctx, msgs, opts...)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	var chunks []*schema.Message
	for {
		chunk, rerr := stream.Recv()
		if rerr != nil {
			break
		}
		chunks = append(chunks, chunk)
	}
	return schema.ConcatMessages(chunks)
}

func (m *scriptedModel) Stream(ctx context.Context, msgs []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := m.calls
	m.calls++

	if call < len(m.errs) && m.errs[call] != nil {
		return nil, m.errs[call]
	}
	if call >= len(m.responses) {
		return nil, fmt.Errorf("unexpected model call %d", call)
	}
	return schema.StreamReaderFromArray(m.responses[call]), nil
}

func (m *scriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func textChunks(parts ...string) []*schema.Message {
	out := make([]*schema.Message, 0, len(parts))
	for _, p := range parts {
		out = append(out, &schema.Message{Role: schema.Assistant, Content: p})
	}
	return out
}

func withUsage(chunks []*schema.Message, prompt, completion int) []*schema.Message {
	last := *chunks[len(chunks)-1]
	last.ResponseMeta = &schema.ResponseMeta{
		Usage: &schema.TokenUsage{PromptTokens: prompt, CompletionTokens: completion},
	}
	chunks[len(chunks)-1] = &last
	return chunks
}

func toolCallResponse(id, name, args string, prompt, completion int) []*schema.Message {
	return []*schema.Message{{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			ID:       id,
			Function: schema.FunctionCall{Name: name, Arguments: args},
		}},
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: prompt, CompletionTokens: completion},
		},
	}}
}

// --- 内存版计费依赖 ---

type noopTransactor struct{}

func (noopTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memUsageRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.DailyUsage
}

func newMemUsageRepo() *memUsageRepo { return &memUsageRepo{rows: map[string]*entity.DailyUsage{}} }

func (f *memUsageRepo) key(chainID, accountName, date string) string {
	return chainID + "/" + accountName + "/" + date
}

func (f *memUsageRepo) Get(ctx context.Context, chainID, accountName, date string) (*entity.DailyUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[f.key(chainID, accountName, date)]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (f *memUsageRepo) Increment(ctx context.Context, chainID, accountName, date string, inputTokens, outputTokens int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := f.key(chainID, accountName, date)
	row, ok := f.rows[key]
	if !ok {
		row = &entity.DailyUsage{ChainID: chainID, AccountName: accountName, Date: date}
		f.rows[key] = row
	}
	row.RequestCount++
	row.TotalInputTokens += inputTokens
	row.TotalOutputTokens += outputTokens
	return nil
}

func (f *memUsageRepo) ListRecent(ctx context.Context, chainID, accountName string, days int) ([]*entity.DailyUsage, error) {
	return nil, nil
}

type memBalanceRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.CreditBalance
}

func newMemBalanceRepo() *memBalanceRepo {
	return &memBalanceRepo{rows: map[string]*entity.CreditBalance{}}
}

func (f *memBalanceRepo) Get(ctx context.Context, chainID, accountName string) (*entity.CreditBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[chainID+"/"+accountName]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (f *memBalanceRepo) GetForUpdate(ctx context.Context, chainID, accountName string) (*entity.CreditBalance, error) {
	return f.Get(ctx, chainID, accountName)
}

func (f *memBalanceRepo) Create(ctx context.Context, balance *entity.CreditBalance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *balance
	f.rows[balance.ChainID+"/"+balance.AccountName] = &clone
	return nil
}

func (f *memBalanceRepo) Update(ctx context.Context, balance *entity.CreditBalance) error {
	return f.Create(ctx, balance)
}

type memTxRepo struct {
	mu   sync.Mutex
	list []*entity.CreditTransaction
}

func (f *memTxRepo) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *tx
	f.list = append(f.list, &clone)
	return nil
}

func (f *memTxRepo) ExistsByTxHash(ctx context.Context, txHash string) (bool, error) {
	return false, nil
}

func (f *memTxRepo) ListByAccount(ctx context.Context, chainID, accountName string, pagination repository.Pagination) (*repository.PagedResult[*entity.CreditTransaction], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return repository.NewPagedResult(f.list, int64(len(f.list)), pagination), nil
}

func (f *memTxRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.list)
}

type memConfigRepo struct {
	values map[string]string
}

func (s *memConfigRepo) Get(ctx context.Context, key string) (*entity.AppConfig, error) {
	if v, ok := s.values[key]; ok {
		return &entity.AppConfig{Key: key, Value: v}, nil
	}
	return nil, nil
}

func (s *memConfigRepo) Set(ctx context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *memConfigRepo) List(ctx context.Context) ([]*entity.AppConfig, error) {
	var out []*entity.AppConfig
	for k, v := range s.values {
		out = append(out, &entity.AppConfig{Key: k, Value: v})
	}
	return out, nil
}

type pipelineEnv struct {
	pipeline *Pipeline
	usage    *memUsageRepo
	balances *memBalanceRepo
	txs      *memTxRepo
}

func newPipelineEnv() *pipelineEnv {
	usage := newMemUsageRepo()
	balances := newMemBalanceRepo()
	txs := &memTxRepo{}
	checker := billing.NewAllowanceChecker(usage, balances, billing.FreeRequestsPerDay)
	ledger := billing.NewLedger(noopTransactor{}, usage, balances, txs)
	config := appconfig.NewCache(&memConfigRepo{values: map[string]string{}}, time.Minute)
	return &pipelineEnv{
		pipeline: NewPipeline(checker, ledger, config, 5*time.Second),
		usage:    usage,
		balances: balances,
		txs:      txs,
	}
}

func runPipeline(t *testing.T, p *Pipeline, req *Request) ([]Event, error) {
	t.Helper()
	events := make(chan Event, 128)
	err := p.Run(context.Background(), req, events)
	close(events)
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out, err
}

func collectContent(events []Event) string {
	var sb strings.Builder
	for _, ev := range events {
		if ev.Type == EventContent {
			if delta, ok := ev.Data.(ContentDelta); ok {
				sb.WriteString(delta.Text)
			}
		}
	}
	return sb.String()
}

func findEvent(events []Event, typ string) (Event, bool) {
	for _, ev := range events {
		if ev.Type == typ {
			return ev, true
		}
	}
	return Event{}, false
}

func TestPipelineToolRoundAndUsageRecording(t *testing.T) {
	env := newPipelineEnv()
	chatModel := &scriptedModel{
		responses: [][]*schema.Message{
			toolCallResponse("call_1", "get_contract_guide", `{"contract":"eosio.token"}`, 100, 20),
			withUsage(textChunks("The token ", "guide says hi"), 200, 30),
		},
	}

	req := &Request{
		Messages:      []Message{{Role: "user", Content: "how do I transfer TLOS?"}},
		ChainID:       "telos",
		AccountName:   "alice",
		ChainEndpoint: "http://127.0.0.1:8888",
		Resolution: &Resolution{
			Builtin:   true,
			Provider:  "openai",
			Model:     "gpt-test",
			ChatModel: chatModel,
		},
	}

	events, err := runPipeline(t, env.pipeline, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := collectContent(events); got != "The token guide says hi" {
		t.Errorf("content = %q", got)
	}

	callEv, ok := findEvent(events, EventToolCall)
	if !ok {
		t.Fatal("missing tool_call event")
	}
	if data := callEv.Data.(ToolCallData); data.Name != "get_contract_guide" {
		t.Errorf("tool_call name = %s", data.Name)
	}

	resultEv, ok := findEvent(events, EventToolResult)
	if !ok {
		t.Fatal("missing tool_result event")
	}
	if data := resultEv.Data.(ToolResultData); !strings.Contains(string(data.Output), "eosio.token") {
		t.Errorf("tool_result output = %s", data.Output)
	}

	usageEv, ok := findEvent(events, EventUsage)
	if !ok {
		t.Fatal("missing usage event")
	}
	usage := usageEv.Data.(UsageData)
	if usage.InputTokens != 300 || usage.OutputTokens != 50 {
		t.Errorf("usage = %+v", usage)
	}
	if usage.Mode != string(billing.ModeFree) {
		t.Errorf("mode = %s", usage.Mode)
	}

	// 免费模式：计入当日用量，不动余额流水
	row, _ := env.usage.Get(context.Background(), "telos", "alice", entity.UsageDate(time.Now()))
	if row == nil || row.RequestCount != 1 || row.TotalInputTokens != 300 || row.TotalOutputTokens != 50 {
		t.Fatalf("usage row = %+v", row)
	}
	if env.txs.count() != 0 {
		t.Error("free mode must not create credit transactions")
	}
}

func TestPipelineQuotaDenied(t *testing.T) {
	env := newPipelineEnv()
	today := entity.UsageDate(time.Now())
	for i := 0; i < billing.FreeRequestsPerDay; i++ {
		if err := env.usage.Increment(context.Background(), "telos", "bob", today, 1, 1); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}

	chatModel := &scriptedModel{}
	req := &Request{
		Messages:      []Message{{Role: "user", Content: "hi"}},
		ChainID:       "telos",
		AccountName:   "bob",
		ChainEndpoint: "http://127.0.0.1:8888",
		Resolution:    &Resolution{Builtin: true, Provider: "openai", Model: "gpt-test", ChatModel: chatModel},
	}

	_, err := runPipeline(t, env.pipeline, req)
	if !errors.Is(err, apperrors.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if chatModel.callCount() != 0 {
		t.Error("model must not be called when quota is denied")
	}
}

func TestPipelinePaidModeDebits(t *testing.T) {
	env := newPipelineEnv()
	today := entity.UsageDate(time.Now())
	for i := 0; i < billing.FreeRequestsPerDay; i++ {
		if err := env.usage.Increment(context.Background(), "telos", "carol", today, 1, 1); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}
	seed := &entity.CreditBalance{ChainID: "telos", AccountName: "carol", BalanceTokens: 10000}
	if err := env.balances.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	chatModel := &scriptedModel{
		responses: [][]*schema.Message{withUsage(textChunks("paid answer"), 1000, 500)},
	}
	req := &Request{
		Messages:      []Message{{Role: "user", Content: "hi"}},
		ChainID:       "telos",
		AccountName:   "carol",
		ChainEndpoint: "http://127.0.0.1:8888",
		Resolution:    &Resolution{Builtin: true, Provider: "openai", Model: "gpt-test", ChatModel: chatModel},
	}

	if _, err := runPipeline(t, env.pipeline, req); err != nil {
		t.Fatalf("Run: %v", err)
	}

	balance, _ := env.balances.Get(context.Background(), "telos", "carol")
	if balance.BalanceTokens != 10000-1500 {
		t.Fatalf("balance = %d, want 8500", balance.BalanceTokens)
	}
	if env.txs.count() != 1 {
		t.Fatalf("transactions = %d, want 1", env.txs.count())
	}
}

func TestPipelineByokSkipsLedger(t *testing.T) {
	env := newPipelineEnv()
	chatModel := &scriptedModel{
		responses: [][]*schema.Message{withUsage(textChunks("byok answer"), 10, 10)},
	}
	req := &Request{
		Messages:      []Message{{Role: "user", Content: "hi"}},
		ChainID:       "telos",
		AccountName:   "dave",
		ChainEndpoint: "http://127.0.0.1:8888",
		Resolution:    &Resolution{Provider: "anthropic", Model: "claude-test", ChatModel: chatModel},
	}

	events, err := runPipeline(t, env.pipeline, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := collectContent(events); got != "byok answer" {
		t.Errorf("content = %q", got)
	}

	row, _ := env.usage.Get(context.Background(), "telos", "dave", entity.UsageDate(time.Now()))
	if row != nil {
		t.Error("byok mode must not record daily usage")
	}
	if env.txs.count() != 0 {
		t.Error("byok mode must not create credit transactions")
	}
}

// 主模型在产出任何内容前失败时，切到备用模型重试一次
func TestPipelineFallbackModel(t *testing.T) {
	env := newPipelineEnv()
	chatModel := &scriptedModel{
		errs: []error{errors.New("upstream 500")},
		responses: [][]*schema.Message{
			nil, // 第一次调用走 errs[0]
			withUsage(textChunks("fallback answer"), 50, 25),
		},
	}
	req := &Request{
		Messages:      []Message{{Role: "user", Content: "hi"}},
		ChainID:       "telos",
		AccountName:   "erin",
		ChainEndpoint: "http://127.0.0.1:8888",
		Resolution: &Resolution{
			Builtin:       true,
			Provider:      "openai",
			Model:         "gpt-test",
			FallbackModel: "gpt-fallback",
			ChatModel:     chatModel,
		},
	}

	events, err := runPipeline(t, env.pipeline, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := collectContent(events); got != "fallback answer" {
		t.Errorf("content = %q", got)
	}
	if chatModel.callCount() != 2 {
		t.Errorf("calls = %d, want 2", chatModel.callCount())
	}
}

func TestPipelineBuiltinRequiresAccount(t *testing.T) {
	env := newPipelineEnv()
	req := &Request{
		Messages:   []Message{{Role: "user", Content: "hi"}},
		Resolution: &Resolution{Builtin: true, Provider: "openai", Model: "gpt-test", ChatModel: &scriptedModel{}},
	}
	_, err := runPipeline(t, env.pipeline, req)
	if !errors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("err = %v, want ErrInvalidParam", err)
	}
}

func TestPipelineModelErrorSurfaced(t *testing.T) {
	env := newPipelineEnv()
	chatModel := &scriptedModel{errs: []error{errors.New("boom")}}
	req := &Request{
		Messages:      []Message{{Role: "user", Content: "hi"}},
		ChainID:       "telos",
		AccountName:   "frank",
		ChainEndpoint: "http://127.0.0.1:8888",
		Resolution:    &Resolution{Builtin: true, Provider: "openai", Model: "gpt-test", ChatModel: chatModel},
	}

	_, err := runPipeline(t, env.pipeline, req)
	if !errors.Is(err, apperrors.ErrLLMCallFailed) {
		t.Fatalf("err = %v, want ErrLLMCallFailed", err)
	}

	// 失败的请求仍计入当日请求数
	row, _ := env.usage.Get(context.Background(), "telos", "frank", entity.UsageDate(time.Now()))
	if row == nil || row.RequestCount != 1 {
		t.Fatalf("usage row = %+v, want request_count 1", row)
	}
}
