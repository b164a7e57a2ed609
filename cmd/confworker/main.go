package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "confworker",
	Short: "Upcoming conferences feed and AI summary worker",
	Long: `confworker serves the normalized upcoming-conferences list and proxies
conference summary requests to a hosted model. Configuration is read from
CONFWORKER_* environment variables.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSummarizeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
