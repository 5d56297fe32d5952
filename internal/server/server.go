// Package server provides the HTTP REST API for the career planner.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careerpath/planner/internal/agents"
	"github.com/careerpath/planner/internal/db"
	"github.com/careerpath/planner/internal/types"
)

// Analyzer runs the agent pipeline for one resume/role pair.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, targetRole string) (*agents.AnalysisResult, error)
}

// Store is the persistence surface the handlers need.
type Store interface {
	CreateUserProfile(ctx context.Context, profile *db.UserProfile) (uuid.UUID, error)
	GetUserProfile(ctx context.Context, id uuid.UUID) (*db.UserProfile, error)
	CreateProgressTasks(ctx context.Context, userID uuid.UUID, roadmap map[string][]types.RoadmapTask) error
	MarkTaskCompleted(ctx context.Context, userID uuid.UUID, period string, taskIndex int) error
	CountProgress(ctx context.Context, userID uuid.UUID) (completed, total int, err error)
	ListProgress(ctx context.Context, userID uuid.UUID) ([]db.Progress, error)
}

// Config holds server configuration
type Config struct {
	Port            int
	ResumeCharLimit int
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	store           Store
	analyzer        Analyzer
	log             *zap.Logger
	resumeCharLimit int
}

// New creates a new server instance
func New(cfg Config, store Store, analyzer Analyzer, log *zap.Logger) *Server {
	s := &Server{
		store:           store,
		analyzer:        analyzer,
		log:             log,
		resumeCharLimit: cfg.ResumeCharLimit,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /upload-resume", s.handleUploadResume)
	mux.HandleFunc("POST /update-progress", s.handleUpdateProgress)
	mux.HandleFunc("GET /progress/{user_id}", s.handleGetProgress)
	mux.HandleFunc("GET /adaptive-roadmap/{user_id}", s.handleAdaptiveRoadmap)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withCORS(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // pipeline runs block the handler
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds permissive CORS headers; the original deployment served a
// browser frontend from a different origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, detail string) {
	s.jsonResponse(w, status, map[string]string{"detail": detail})
}
