// Command aihub runs the personal AI hub: the HTTP API with its background
// generation jobs, the news scheduler, and maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "aihub",
	Short:         "Personal AI hub server",
	Long:          "aihub runs multi-step generation workflows (cover letters, proposals, travel plans, weekly reports, translations) behind a REST API and keeps a summarized news feed.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
