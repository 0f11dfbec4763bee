package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coral-agents/coral-interface-agent/internal/config"
	"github.com/coral-agents/coral-interface-agent/internal/dependency"
)

var agentVerbose bool

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Connect to the Coral Server and run the interaction loop",
	RunE:  runAgent,
}

func init() {
	agentCmd.Flags().BoolVarP(&agentVerbose, "verbose", "v", false, "Verbose logging")
}

func runAgent(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if agentVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Connecting to Coral Server: %s\n", cfg.ServerURL)

	// Failing to establish the connection after the configured attempts
	// is fatal; everything after this point retries forever.
	container, err := dependency.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer container.Close()

	fmt.Printf("Connected to MCP server as %s\n", cfg.AgentID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return container.Runner().Run(gctx) })
	g.Go(func() error { return container.Diagnostics().Run(gctx) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "agent error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
