package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/careerpath/planner/internal/agents"
	"github.com/careerpath/planner/internal/config"
	"github.com/careerpath/planner/internal/extraction"
	"github.com/careerpath/planner/internal/llm"
	"github.com/careerpath/planner/internal/logger"
)

var analyzeTargetRole string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Run the analysis pipeline once and print the result",
	Long:  "Runs skill assessment, market demand, skill gap, and learning path generation for a local resume file without starting the server or touching the database.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTargetRole, "role", "", "Target role to analyze against (required)")
	if err := analyzeCmd.MarkFlagRequired("role"); err != nil {
		panic(fmt.Sprintf("failed to mark role flag as required: %v", err))
	}
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	resumeText, err := extraction.FromUpload(filepath.Base(args[0]), data)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}
	resumeText = extraction.Truncate(resumeText, cfg.ResumeCharLimit)

	ctx := context.Background()

	llmCfg := llm.DefaultConfig()
	llmCfg.Model = cfg.Model
	client, err := llm.NewGeminiClient(ctx, llmCfg, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	planner := agents.NewPlanner(client, log, agents.RetryPolicy{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
	})

	result, err := planner.Analyze(ctx, resumeText, analyzeTargetRole)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
