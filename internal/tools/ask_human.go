package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coral-agents/coral-interface-agent/internal/human"
	"github.com/coral-agents/coral-interface-agent/internal/schema"
)

// AskHumanName is the tool name the devmode prompt refers to.
const AskHumanName = "ask_human"

var askHumanSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"question": {
			"type": "string",
			"description": "The question to ask the user"
		}
	},
	"required": ["question"]
}`)

// AskHumanTool exposes a human.Asker through the same schema.Tool interface
// the remote Coral tools use.
type AskHumanTool struct {
	asker human.Asker
}

// NewAskHumanTool creates an AskHumanTool over the given asker.
func NewAskHumanTool(asker human.Asker) *AskHumanTool {
	return &AskHumanTool{asker: asker}
}

func (t *AskHumanTool) Name() string { return AskHumanName }

func (t *AskHumanTool) Description() string {
	return "Ask the user a question and wait for a response."
}

func (t *AskHumanTool) Parameters() json.RawMessage { return askHumanSchema }

func (t *AskHumanTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	question, _ := params["question"].(string)
	if question == "" {
		return "", fmt.Errorf("ask_human: missing question argument")
	}
	return t.asker.Ask(ctx, question)
}

var _ schema.Tool = (*AskHumanTool)(nil)
