// Package cmd implements the coral-interface CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "coral-interface",
	Short: "coral-interface - user-facing agent for a Coral multi-agent network",
	Long: "coral-interface connects to a Coral Server, discovers the other agents " +
		"on the network, and relays the user's requests to them.",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(statusCmd)
}
