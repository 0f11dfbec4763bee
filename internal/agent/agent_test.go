package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/coral-agents/coral-interface-agent/internal/config"
	"github.com/coral-agents/coral-interface-agent/internal/schema"
	"github.com/coral-agents/coral-interface-agent/internal/tools"
)

type fakeTool struct {
	name   string
	schema string
	result string
	calls  int
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake " + f.name }
func (f *fakeTool) Parameters() json.RawMessage {
	if f.schema == "" {
		return json.RawMessage(`{"type": "object", "properties": {}}`)
	}
	return json.RawMessage(f.schema)
}
func (f *fakeTool) Execute(context.Context, map[string]any) (string, error) {
	f.calls++
	return f.result, nil
}

// scriptedProvider replays a fixed sequence of responses.
type scriptedProvider struct {
	responses []schema.LLMResponse
	errs      []error
	calls     int
	lastSeen  schema.Messages
}

func (p *scriptedProvider) DefaultModel() string { return "test-model" }

func (p *scriptedProvider) Chat(_ context.Context, msgs schema.Messages, _ []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	i := p.calls
	p.calls++
	p.lastSeen = msgs.Clone()
	if i < len(p.errs) && p.errs[i] != nil {
		return schema.LLMResponse{}, p.errs[i]
	}
	if i >= len(p.responses) {
		return schema.LLMResponse{}, fmt.Errorf("unexpected call %d", i)
	}
	return p.responses[i], nil
}

func textResponse(s string) schema.LLMResponse {
	return schema.LLMResponse{Content: &s, FinishReason: "stop"}
}

func toolResponse(name string) schema.LLMResponse {
	return schema.LLMResponse{
		ToolCalls: []schema.ToolCallRequest{
			{Id: "call_1", Name: name, Arguments: map[string]any{}},
		},
		FinishReason: "tool_calls",
	}
}

func testSettings() Settings {
	return Settings{Model: "test-model", MaxTokens: 1000, Temperature: 0.3, MaxIter: 5}
}

func TestLoopRunner_TerminalResponse(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{textResponse("done")}}
	runner := NewLoopRunner(provider, testSettings())

	conv := schema.NewMessages()
	conv.AddSystem("system")
	conv.AddUser("go")

	content, used, err := runner.Run(context.Background(), conv, tools.NewToolList())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if content != "done" {
		t.Errorf("content = %q, want %q", content, "done")
	}
	if len(used) != 0 {
		t.Errorf("tools used = %v, want none", used)
	}
}

func TestLoopRunner_ExecutesToolThenFinishes(t *testing.T) {
	list := &fakeTool{name: "list_agents", result: "[]"}
	provider := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse("list_agents"),
		textResponse("no agents connected"),
	}}
	runner := NewLoopRunner(provider, testSettings())

	conv := schema.NewMessages()
	conv.AddUser("go")

	content, used, err := runner.Run(context.Background(), conv, tools.NewToolList(list))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if list.calls != 1 {
		t.Errorf("tool executed %d times, want 1", list.calls)
	}
	if len(used) != 1 || used[0] != "list_agents" {
		t.Errorf("tools used = %v", used)
	}
	if content != "no agents connected" {
		t.Errorf("content = %q", content)
	}
}

func TestLoopRunner_UnknownToolFeedsErrorBack(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse("vanished"),
		textResponse("recovered"),
	}}
	runner := NewLoopRunner(provider, testSettings())

	conv := schema.NewMessages()
	conv.AddUser("go")

	content, _, err := runner.Run(context.Background(), conv, tools.NewToolList())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if content != "recovered" {
		t.Errorf("content = %q", content)
	}
	// The error string is delivered as a tool result, not a loop failure.
	seen := provider.lastSeen.Messages
	last := seen[len(seen)-1]
	if last.Role != "tool" || !strings.Contains(last.Content.(string), "not found") {
		t.Errorf("expected 'not found' tool result, got %+v", last)
	}
}

func TestLoopRunner_LLMErrorSurfaces(t *testing.T) {
	sentinel := errors.New("backend down")
	provider := &scriptedProvider{errs: []error{sentinel}}
	runner := NewLoopRunner(provider, testSettings())

	conv := schema.NewMessages()
	conv.AddUser("go")

	_, _, err := runner.Run(context.Background(), conv, tools.NewToolList())
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want wrapped %v", err, sentinel)
	}
}

func TestLoopRunner_IterationBudget(t *testing.T) {
	tool := &fakeTool{name: "spin", result: "again"}
	var responses []schema.LLMResponse
	for i := 0; i < 10; i++ {
		responses = append(responses, toolResponse("spin"))
	}
	provider := &scriptedProvider{responses: responses}
	settings := testSettings()
	settings.MaxIter = 3
	runner := NewLoopRunner(provider, settings)

	conv := schema.NewMessages()
	conv.AddUser("go")

	_, used, err := runner.Run(context.Background(), conv, tools.NewToolList(tool))
	if err == nil {
		t.Fatal("expected iteration budget error")
	}
	if len(used) != 3 {
		t.Errorf("tools used = %d, want 3", len(used))
	}
}

func TestDescribeTools_EscapesBraces(t *testing.T) {
	tool := &fakeTool{
		name:   "send_message",
		schema: `{"type": "object", "properties": {"threadId": {"type": "string"}, "content": {"type": "string"}}}`,
	}
	out := DescribeTools([]schema.Tool{tool})

	if !strings.Contains(out, "Tool: send_message") {
		t.Errorf("missing tool name: %q", out)
	}
	if !strings.Contains(out, "Args: [content, threadId]") {
		t.Errorf("missing sorted arg names: %q", out)
	}
	if !strings.Contains(out, "{{") || !strings.Contains(out, "}}") {
		t.Errorf("braces not escaped: %q", out)
	}
	// No single braces may survive in the schema portion.
	schemaPart := out[strings.Index(out, "Schema:"):]
	cleaned := strings.ReplaceAll(strings.ReplaceAll(schemaPart, "{{", ""), "}}", "")
	if strings.ContainsAny(cleaned, "{}") {
		t.Errorf("unescaped brace in schema: %q", schemaPart)
	}
}

func TestBuildSystemPrompt_RuntimeToolNames(t *testing.T) {
	coral := []schema.Tool{&fakeTool{name: "list_agents"}}

	devCfg := config.DefaultConfig()
	devCfg.Runtime = config.RuntimeDevmode
	dev := BuildSystemPrompt(&devCfg, coral, []schema.Tool{&fakeTool{name: "ask_human"}})
	if !strings.Contains(dev, "`ask_human`") {
		t.Error("devmode prompt should name ask_human")
	}

	dockerCfg := config.DefaultConfig()
	dockerCfg.Runtime = config.RuntimeDocker
	docker := BuildSystemPrompt(&dockerCfg, coral, nil)
	if !strings.Contains(docker, "`request-question`") || !strings.Contains(docker, "`answer-question`") {
		t.Error("docker prompt should name request-question and answer-question")
	}
	if strings.Contains(docker, "`ask_human`") {
		t.Error("docker prompt should not name ask_human")
	}
}

func TestBuildSystemPrompt_EmbedsMentionGuidance(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MentionsTimeout = 30 * time.Second
	cfg.MentionsMaxPolls = 7

	prompt := BuildSystemPrompt(&cfg, nil, nil)
	if !strings.Contains(prompt, "timeoutMs=30000") {
		t.Errorf("mentions timeout not embedded: %q", prompt)
	}
	if !strings.Contains(prompt, "up to 7 times") {
		t.Errorf("mentions poll count not embedded")
	}
	if !strings.Contains(prompt, "You MUST NEVER finish the chain") {
		t.Error("missing never-finish instruction")
	}
}

func TestRunner_RetriesFailedCyclesUntilCancelled(t *testing.T) {
	provider := &scriptedProvider{errs: []error{
		errors.New("boom 1"), errors.New("boom 2"), errors.New("boom 3"),
	}}

	cfg := config.DefaultConfig()
	cfg.Model.Name = "test-model"
	cfg.CycleInterval = time.Millisecond
	cfg.ErrorBackoff = time.Millisecond

	runner := NewRunner(provider, tools.NewToolList(), "system", &cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := runner.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v, want deadline exceeded", err)
	}
	if provider.calls < 2 {
		t.Errorf("provider called %d times, want continued retries", provider.calls)
	}
	if runner.LastError() == nil {
		t.Error("LastError should record the most recent cycle failure")
	}
}

func TestRunner_SleepsBetweenSuccessfulCycles(t *testing.T) {
	var responses []schema.LLMResponse
	for i := 0; i < 50; i++ {
		responses = append(responses, textResponse("ok"))
	}
	provider := &scriptedProvider{responses: responses}

	cfg := config.DefaultConfig()
	cfg.Model.Name = "test-model"
	cfg.CycleInterval = 10 * time.Millisecond
	cfg.ErrorBackoff = time.Millisecond

	runner := NewRunner(provider, tools.NewToolList(), "system", &cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	_ = runner.Run(ctx)
	// ~35ms with a 10ms interval allows at most a handful of cycles.
	if provider.calls < 1 || provider.calls > 6 {
		t.Errorf("provider called %d times, want pacing to bound cycles", provider.calls)
	}
}
