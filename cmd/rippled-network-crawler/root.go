package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the crawler.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rippled-network-crawler",
		Short: "Map the topology of a rippled peer-to-peer network",
		Long: `rippled-network-crawler discovers the topology of a rippled overlay network.

Starting from one known node it fetches that node's /crawl document,
then transitively asks every newly discovered peer for its own peer
list, and aggregates the answers into a single topology snapshot.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
