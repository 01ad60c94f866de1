// Package main provides the entry point for the AccrediTrack HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "accreditrack",
	Short: "AccrediTrack HTTP API Server",
	Long:  "AccrediTrack tracks accreditation benchmark tasks from assignment through evidence upload and coordinator review via REST API.",
	// usage output is noise on runtime errors
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
