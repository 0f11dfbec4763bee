// Package agent runs the interface agent: the LLM ↔ tool loop for a single
// interaction cycle, and the unbounded cycle loop around it.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/coral-agents/coral-interface-agent/internal/schema"
	"github.com/coral-agents/coral-interface-agent/internal/shared/llmutils"
	"github.com/coral-agents/coral-interface-agent/internal/tools"
)

// Settings bounds a single interaction cycle.
type Settings struct {
	Model       string
	MaxTokens   int
	Temperature float64
	MaxIter     int
}

// LoopRunner executes the LLM ↔ tool iteration loop for one cycle.
type LoopRunner struct {
	provider schema.LLMProvider
	settings Settings
}

func NewLoopRunner(provider schema.LLMProvider, settings Settings) LoopRunner {
	return LoopRunner{provider: provider, settings: settings}
}

// Run drives the conversation until the model stops calling tools or MaxIter
// is reached. LLM and iteration-budget failures surface as errors so the
// caller's cycle loop can apply its backoff.
func (r *LoopRunner) Run(ctx context.Context, conversation schema.Messages, tls *tools.ToolList) (finalContent string, toolsUsed []string, err error) {
	for i := 0; i < r.settings.MaxIter; i++ {
		resp, err := r.provider.Chat(ctx,
			conversation,
			tls.Definitions(),
			schema.NewChatOptions(r.settings.Model, r.settings.MaxTokens, r.settings.Temperature),
		)
		if err != nil {
			return "", toolsUsed, fmt.Errorf("LLM call: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			// Terminal response.
			content := ""
			if resp.Content != nil {
				content = *resp.Content
			}
			return llmutils.StripThink(content), toolsUsed, nil
		}

		slog.Debug("Model requested tools", "hint", llmutils.ToolHint(resp.ToolCalls))

		// Append assistant turn with tool calls.
		var toolCalls []schema.ToolCall
		for _, tc := range resp.ToolCalls {
			toolCalls = append(toolCalls, schema.ToolCall{ID: tc.Id, Name: tc.Name, Arguments: tc.Arguments})
		}
		conversation.AddAssistant(resp.Content, toolCalls)

		// Execute each tool.
		for _, tc := range resp.ToolCalls {
			toolsUsed = append(toolsUsed, tc.Name)
			argsJSON, _ := json.Marshal(tc.Arguments)

			slog.Info("Tool call", "name", tc.Name, "args", llmutils.Truncate(string(argsJSON), 200))

			var result string
			if t := tls.Get(tc.Name); t != nil {
				result, err = t.Execute(ctx, tc.Arguments)
				if err != nil {
					// Tool failures feed back into the conversation so the
					// model can recover; only context cancellation aborts.
					if ctx.Err() != nil {
						return "", toolsUsed, ctx.Err()
					}
					result = fmt.Sprintf("Error: %v", err)
				}
			} else {
				result = fmt.Sprintf("Error: Tool '%s' not found", tc.Name)
			}

			conversation.AddToolResult(tc.Id, tc.Name, result)
		}
	}

	return "", toolsUsed, fmt.Errorf("no final answer after %d tool iterations", r.settings.MaxIter)
}
