// Package main provides the replaylens service and CLI for analyzing
// lichess games against the cloud evaluation database.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
