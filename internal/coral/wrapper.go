package coral

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/coral-agents/coral-interface-agent/internal/schema"
)

// waitForMentionsTool is the server tool whose output carries the XML
// ResolvedMessage payload.
const waitForMentionsTool = "wait_for_mentions"

// remoteTool wraps a single tool discovered on the Coral Server and implements
// schema.Tool, so the agent loop treats it exactly like a local tool.
type remoteTool struct {
	client      *Client
	name        string
	description string
	parameters  json.RawMessage
}

func (t *remoteTool) Name() string                { return t.name }
func (t *remoteTool) Description() string         { return t.description }
func (t *remoteTool) Parameters() json.RawMessage { return t.parameters }

func (t *remoteTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	result, err := t.client.CallTool(ctx, t.name, params)
	if err != nil {
		return "", err
	}

	if t.name == waitForMentionsTool {
		for _, msg := range ParseResolvedMessages(result) {
			slog.Info("resolved message",
				"thread", msg.ThreadID, "sender", msg.SenderID, "len", len(msg.Content))
		}
	}
	return result, nil
}

var _ schema.Tool = (*remoteTool)(nil)
