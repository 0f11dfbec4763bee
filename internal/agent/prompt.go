package agent

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/coral-agents/coral-interface-agent/internal/config"
	"github.com/coral-agents/coral-interface-agent/internal/schema"
	"github.com/coral-agents/coral-interface-agent/internal/tools"
)

// DescribeTools renders one line per tool for embedding in the system prompt.
// Braces in the JSON schema are doubled so a downstream templating pass never
// mistakes them for placeholders.
func DescribeTools(ts []schema.Tool) string {
	lines := make([]string, 0, len(ts))
	for _, t := range ts {
		schemaStr := string(t.Parameters())
		if schemaStr == "" {
			schemaStr = "{}"
		}
		schemaStr = strings.ReplaceAll(schemaStr, "{", "{{")
		schemaStr = strings.ReplaceAll(schemaStr, "}", "}}")

		desc := t.Description()
		if desc == "" {
			desc = "No description"
		}

		lines = append(lines, fmt.Sprintf("Tool: %s, Args: %s, Description: %s, Schema: %s",
			t.Name(), formatArgNames(t.Parameters()), desc, schemaStr))
	}
	return strings.Join(lines, "\n")
}

// formatArgNames extracts the top-level property names from a JSON Schema,
// sorted for stable prompt text.
func formatArgNames(raw json.RawMessage) string {
	var parsed struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &parsed) != nil {
		return "[]"
	}
	names := make([]string, 0, len(parsed.Properties))
	for name := range parsed.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return "[" + strings.Join(names, ", ") + "]"
}

// BuildSystemPrompt assembles the operating instructions for an interaction
// cycle: the fixed step list, the runtime-dependent names of the user
// question/answer tools, and the full tool descriptions.
func BuildSystemPrompt(cfg *config.Config, coralTools, agentTools []schema.Tool) string {
	requestTool, answerTool := tools.QuestionToolNames(cfg.Runtime)

	var b strings.Builder
	fmt.Fprintf(&b, "You are an agent interacting with the tools from Coral Server and using your own `%s` and `%s` tools to communicate with the user. **You MUST NEVER finish the chain**\n\n",
		requestTool, answerTool)

	b.WriteString("Follow these steps in order:\n")
	b.WriteString("1. Call `list_agents` to list all connected agents and get their descriptions.\n")
	fmt.Fprintf(&b, "2. Use tool `%s` to ask: \"How can I assist you today?\" and wait for the response.\n", requestTool)
	b.WriteString("3. Understand the user's intent and decide which agent(s) are needed based on their descriptions.\n")
	b.WriteString("4. If the user requests Coral Server information (e.g., agent status, connection info), use your tools to retrieve and return the information directly to the user, then go back to Step 1.\n")
	b.WriteString("5. If fulfilling the request requires multiple agents, then call `create_thread ('threadName': , 'participantIds': [ID of all required agents, including yourself])` to create conversation thread.\n")
	b.WriteString("6. For each selected agent:\n")
	b.WriteString("* **If the required agent is not in the thread, add it by calling `add_participant(threadId=..., 'participantIds': ID of the agent to add)`.**\n")
	b.WriteString("* Construct a clear instruction message for the agent.\n")
	b.WriteString("* Use **`send_message(threadId=..., content=\"instruction\", mentions=[Receive Agent Id])`.** (NEVER leave `mentions` as empty)\n")
	fmt.Fprintf(&b, "* Use `wait_for_mentions(timeoutMs=%d)` to receive the agent's response up to %d times if no message received.\n",
		cfg.MentionsTimeout.Milliseconds(), cfg.MentionsMaxPolls)
	b.WriteString("* Record and store the response for final presentation.\n")
	b.WriteString("7. After all required agents have responded, think about the content to ensure you have executed the instruction to the best of your ability and the tools. Make this your response as \"answer\".\n")
	fmt.Fprintf(&b, "8. Always respond back to the user by calling `%s` with the \"answer\" or error occurred even if you have no answer or error.\n", answerTool)
	b.WriteString("9. Repeat the process from Step 1.\n")
	b.WriteString("**You MUST NEVER finish the chain**\n\n")

	fmt.Fprintf(&b, "These are the list of coral tools: %s\n", DescribeTools(coralTools))
	fmt.Fprintf(&b, "These are the list of agent tools: %s\n", DescribeTools(agentTools))

	return b.String()
}

// KickoffMessage opens every interaction cycle.
func KickoffMessage() string {
	return "Begin your task cycle by calling list_agents and asking how you can assist."
}
