package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/minju-kim98/personal-ai-hub/internal/news"
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Run news jobs once",
}

func init() {
	newsCmd.AddCommand(
		newsJobCommand("fetch", "Fetch, summarize and store new articles", news.JobFetch),
		newsJobCommand("cleanup", "Delete articles past the retention window", news.JobCleanup),
	)
	rootCmd.AddCommand(newsCmd)
}

func newsJobCommand(use, short, job string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), LoadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.news.RunNow(cmd.Context(), job)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
