package main

import (
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "replaylens",
	Short:   "Move-by-move analysis of lichess games using cloud evaluations",
	Version: version,
	Long: `Replaylens fetches finished lichess games, scores every move against
the lichess cloud evaluation database, and serves the resulting reports
over HTTP.

Examples:
  # Run the HTTP service
  replaylens serve

  # Analyze one game from the command line
  replaylens analyze https://lichess.org/AbCdEf12`,
}
