// Package main provides the entry point for the career planner service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "career_agent",
	Short: "Agentic AI skill gap career planner",
	Long:  "Career planner analyzes a resume against a target role through a multi-step AI pipeline, producing a skill gap report and a 30/60/90-day learning roadmap served over REST.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
