package human

import (
	"context"
	"log/slog"
)

// SeededAsker returns a response pre-seeded by the orchestrator instead of
// blocking on a person. Used in docker/executable runtimes where no terminal
// exists. A missing seed is logged as an error but still yields an empty
// answer rather than failing the cycle.
type SeededAsker struct {
	response string
}

// NewSeededAsker creates a SeededAsker with the configured response.
func NewSeededAsker(response string) *SeededAsker {
	return &SeededAsker{response: response}
}

func (s *SeededAsker) Ask(_ context.Context, question string) (string, error) {
	slog.Info("agent question (non-interactive)", "question", question)
	if s.response == "" {
		slog.Error("no HUMAN_RESPONSE configured by the orchestrator")
	}
	return s.response, nil
}
