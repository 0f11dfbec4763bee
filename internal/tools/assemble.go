package tools

import (
	"fmt"
	"strings"

	"github.com/coral-agents/coral-interface-agent/internal/config"
	"github.com/coral-agents/coral-interface-agent/internal/human"
	"github.com/coral-agents/coral-interface-agent/internal/schema"
)

// Server-provided question tools required in orchestrated runtimes.
const (
	RequestQuestionName = "request-question"
	AnswerQuestionName  = "answer-question"
)

// Assemble builds the full tool set the agent runs with.
//
// In devmode the local ask_human tool is added next to the server's tools. In
// docker/executable runtimes the server itself must provide request-question
// and answer-question (added as Custom Tools in Coral Studio); their absence
// is a startup error so the operator finds out immediately instead of at the
// first user interaction.
func Assemble(runtime string, coralTools []schema.Tool, asker human.Asker) (*ToolList, error) {
	list := NewToolList(coralTools...)

	switch runtime {
	case config.RuntimeDocker, config.RuntimeExecutable:
		var missing []string
		for _, required := range []string{RequestQuestionName, AnswerQuestionName} {
			if list.Get(required) == nil {
				missing = append(missing, required)
			}
		}
		if len(missing) > 0 {
			available := make([]string, 0, list.Len())
			for _, t := range list.All() {
				available = append(available, t.Name())
			}
			return nil, fmt.Errorf(
				"required tool(s) %s not provided by the coral server; ensure they are added as Custom Tools when registering the agent (available: %s)",
				strings.Join(missing, ", "), strings.Join(available, ", "))
		}
	default:
		list.Add(NewAskHumanTool(asker))
	}
	return list, nil
}

// QuestionToolNames returns the request/answer tool names the prompt should
// reference for the given runtime.
func QuestionToolNames(runtime string) (request, answer string) {
	switch runtime {
	case config.RuntimeDocker, config.RuntimeExecutable:
		return RequestQuestionName, AnswerQuestionName
	default:
		return AskHumanName, AskHumanName
	}
}
