package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coral-agents/coral-interface-agent/internal/config"
	"github.com/coral-agents/coral-interface-agent/internal/coral"
	"github.com/coral-agents/coral-interface-agent/internal/retry"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Connect once and show the server's tools and resources",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	serverURL, err := coral.ServerURL(cfg.ServerURL, cfg.AgentID, cfg.AgentDescription)
	if err != nil {
		return err
	}

	// Status is a one-shot probe, no point in the full attempt budget.
	client, err := coral.Dial(ctx, serverURL, cfg.AgentID, retry.Config{MaxAttempts: 1})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Close()

	fmt.Printf("Agent:   %s\n", cfg.AgentID)
	fmt.Printf("Server:  %s\n", cfg.ServerURL)
	fmt.Printf("Runtime: %s\n", cfg.Runtime)
	fmt.Printf("Model:   %s (%s)\n\n", cfg.Model.Name, cfg.Model.Provider)

	ts, err := client.Tools(ctx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	fmt.Printf("Tools (%d):\n", len(ts))
	for _, t := range ts {
		fmt.Printf("  %-24s %s\n", t.Name(), t.Description())
	}

	items, err := client.Resources(ctx)
	if err != nil {
		fmt.Printf("\nResources: unavailable (%v)\n", err)
		return nil
	}
	fmt.Printf("\nResources (%d):\n", len(items))
	for _, sum := range coral.SummarizeResources(items) {
		if sum.Status == coral.StatusFailed {
			fmt.Printf("  %2d. ✗ %s\n", sum.Index, sum.Error)
			continue
		}
		fmt.Printf("  %2d. ✓ %v\n", sum.Index, sum.Details["uri"])
	}
	return nil
}
