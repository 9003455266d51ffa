// Package main provides the entry point for the noteflow CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "noteflow",
	Short: "Export notes and dispatch them for AI analysis",
	Long:  "Noteflow exports note bodies from a notes directory into plain-text artifacts, then submits each artifact to an AI analysis API and stores the responses alongside the artifacts.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
