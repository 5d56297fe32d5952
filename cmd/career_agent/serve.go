package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careerpath/planner/internal/agents"
	"github.com/careerpath/planner/internal/config"
	"github.com/careerpath/planner/internal/db"
	"github.com/careerpath/planner/internal/llm"
	"github.com/careerpath/planner/internal/logger"
	"github.com/careerpath/planner/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes resume upload, progress tracking, and adaptive roadmap endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

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

	srv := server.New(server.Config{
		Port:            cfg.Port,
		ResumeCharLimit: cfg.ResumeCharLimit,
	}, database, planner, log)

	return srv.Start()
}
