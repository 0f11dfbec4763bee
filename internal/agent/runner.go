package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/coral-agents/coral-interface-agent/internal/config"
	"github.com/coral-agents/coral-interface-agent/internal/schema"
	"github.com/coral-agents/coral-interface-agent/internal/tools"
)

// Runner is the long-lived cycle loop. Each cycle runs one full interaction
// (list agents, ask the human, orchestrate peers, answer) and then sleeps.
// Cycle failures are logged and retried forever with a shorter backoff;
// Runner only returns once ctx is cancelled.
type Runner struct {
	loop         LoopRunner
	tools        *tools.ToolList
	systemPrompt string

	cycleInterval time.Duration
	errorBackoff  time.Duration

	// Iteration counter and last error, kept for logging only.
	cycles  int
	lastErr error
}

func NewRunner(provider schema.LLMProvider, tls *tools.ToolList, systemPrompt string, cfg *config.Config) *Runner {
	return &Runner{
		loop: NewLoopRunner(provider, Settings{
			Model:       cfg.Model.Name,
			MaxTokens:   cfg.Model.MaxTokens,
			Temperature: cfg.Model.Temperature,
			MaxIter:     cfg.MaxIter,
		}),
		tools:         tls,
		systemPrompt:  systemPrompt,
		cycleInterval: cfg.CycleInterval,
		errorBackoff:  cfg.ErrorBackoff,
	}
}

// Run loops until ctx is cancelled. It never returns on a cycle failure.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.cycles++
		cycleID := uuid.NewString()[:8]
		slog.Info("Starting new interaction cycle", "cycle", r.cycles, "id", cycleID)

		answer, used, err := r.runCycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.lastErr = err
			slog.Error("Error during cycle", "cycle", r.cycles, "id", cycleID, "err", err)
			if err := sleepCtx(ctx, r.errorBackoff); err != nil {
				return err
			}
			continue
		}

		slog.Info("Cycle complete", "cycle", r.cycles, "id", cycleID,
			"tools_used", len(used), "answer_len", len(answer))
		if err := sleepCtx(ctx, r.cycleInterval); err != nil {
			return err
		}
	}
}

// runCycle runs one interaction on a fresh conversation.
func (r *Runner) runCycle(ctx context.Context) (string, []string, error) {
	conversation := schema.NewMessages()
	conversation.AddSystem(r.systemPrompt)
	conversation.AddUser(KickoffMessage())
	return r.loop.Run(ctx, conversation, r.tools)
}

// LastError reports the most recent cycle failure, for the status surface.
func (r *Runner) LastError() error { return r.lastErr }

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
