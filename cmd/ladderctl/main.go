package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ladderctl",
		Short: "Ladder-logic scan engine controller",
		Long: `ladderctl runs a single-threaded ladder-logic scan engine: memory
banks, timers, counters, and a network/node program graph, reachable over a
line-oriented admin protocol.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newSetCmd())
	rootCmd.AddCommand(newDeployCmd())
	rootCmd.AddCommand(newFetchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
