package llmutils

import (
	"testing"

	"github.com/coral-agents/coral-interface-agent/internal/schema"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("a long string", 6); got != "a long..." {
		t.Errorf("Truncate = %q", got)
	}
}

func TestStripThink(t *testing.T) {
	in := "<think>pondering\nthings</think>  the answer "
	if got := StripThink(in); got != "the answer" {
		t.Errorf("StripThink = %q", got)
	}
	if got := StripThink("no think blocks"); got != "no think blocks" {
		t.Errorf("StripThink = %q", got)
	}
}

func TestStringOrDefault(t *testing.T) {
	if got := StringOrDefault("", "fallback"); got != "fallback" {
		t.Errorf("StringOrDefault = %q", got)
	}
	if got := StringOrDefault("value", "fallback"); got != "value" {
		t.Errorf("StringOrDefault = %q", got)
	}
}

func TestToolHint(t *testing.T) {
	hint := ToolHint([]schema.ToolCallResponse{
		{Name: "send_message", Arguments: map[string]any{"content": "hello"}},
		{Name: "list_agents", Arguments: map[string]any{}},
	})
	if hint != `send_message("hello"), list_agents` {
		t.Errorf("ToolHint = %q", hint)
	}
}
