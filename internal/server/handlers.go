package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careerpath/planner/internal/db"
	"github.com/careerpath/planner/internal/extraction"
	"github.com/careerpath/planner/internal/scoring"
	"github.com/careerpath/planner/internal/types"
)

// detailAIUnavailable is the only error detail the pipeline boundary exposes.
// The real cause is logged, never returned to the client.
const detailAIUnavailable = "AI service unavailable, try again later"

const maxUploadBytes = 10 << 20

// UploadResumeResponse is the aggregate result of one pipeline run.
type UploadResumeResponse struct {
	UserID         uuid.UUID                      `json:"user_id"`
	TargetRole     string                         `json:"target_role"`
	CurrentSkills  []string                       `json:"current_skills"`
	MissingSkills  []string                       `json:"missing_skills"`
	ReadinessScore int                            `json:"readiness_score"`
	Roadmap        map[string][]types.RoadmapTask `json:"roadmap"`
}

// ProgressResponse reports roadmap completion for a user.
type ProgressResponse struct {
	CompletedTasks       int     `json:"completed_tasks"`
	TotalTasks           int     `json:"total_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// AdaptiveRoadmapResponse carries the recomputed readiness and the roadmap
// with up-to-date completion flags.
type AdaptiveRoadmapResponse struct {
	ReadinessScore int                            `json:"readiness_score"`
	Roadmap        map[string][]types.RoadmapTask `json:"roadmap"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "Agentic AI Skill Gap Planner running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUploadResume accepts a resume document and a target role, runs the
// full agent pipeline, and persists the outcome as a new user profile.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	targetRole := r.FormValue("target_role")
	if targetRole == "" {
		s.errorResponse(w, http.StatusBadRequest, "target_role is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	resumeText, err := extraction.FromUpload(header.Filename, data)
	if err != nil {
		s.log.Warn("resume text extraction failed",
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		s.errorResponse(w, http.StatusBadRequest, "could not extract text from resume")
		return
	}

	// Truncated once here; retries inside the pipeline re-send the same text.
	resumeText = extraction.Truncate(resumeText, s.resumeCharLimit)

	result, err := s.analyzer.Analyze(r.Context(), resumeText, targetRole)
	if err != nil {
		s.log.Error("pipeline failed", zap.String("target_role", targetRole), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, detailAIUnavailable)
		return
	}

	profile := &db.UserProfile{
		ResumeText:     resumeText,
		TargetRole:     targetRole,
		Skills:         result.SkillProfile.Skills,
		MissingSkills:  result.SkillGap.MissingSkills,
		Roadmap:        result.LearningPath.Roadmap,
		ReadinessScore: result.LearningPath.CareerReadinessScore,
	}
	userID, err := s.store.CreateUserProfile(r.Context(), profile)
	if err != nil {
		s.log.Error("failed to persist user profile", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to save analysis")
		return
	}
	if err := s.store.CreateProgressTasks(r.Context(), userID, result.LearningPath.Roadmap); err != nil {
		s.log.Error("failed to persist progress tasks", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to save analysis")
		return
	}

	s.jsonResponse(w, http.StatusOK, UploadResumeResponse{
		UserID:         userID,
		TargetRole:     targetRole,
		CurrentSkills:  result.SkillProfile.Skills,
		MissingSkills:  result.SkillGap.MissingSkills,
		ReadinessScore: result.LearningPath.CareerReadinessScore,
		Roadmap:        result.LearningPath.Roadmap,
	})
}

// handleUpdateProgress marks a roadmap task completed.
func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.MarkTaskCompleted(r.Context(), req.UserID, req.Period, req.TaskIndex); err != nil {
		s.errorResponse(w, http.StatusNotFound, "task not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Task marked as completed"})
}

// handleGetProgress reports how much of the roadmap a user has completed.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.parseUserID(w, r)
	if !ok {
		return
	}

	completed, total, err := s.store.CountProgress(r.Context(), userID)
	if err != nil {
		s.log.Error("failed to count progress", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	if total == 0 {
		s.errorResponse(w, http.StatusNotFound, "user not found")
		return
	}

	percentage := math.Round(float64(completed)/float64(total)*10000) / 100

	s.jsonResponse(w, http.StatusOK, ProgressResponse{
		CompletedTasks:       completed,
		TotalTasks:           total,
		CompletionPercentage: percentage,
	})
}

// handleAdaptiveRoadmap recomputes readiness from task completions and
// returns the roadmap with current completion flags. The stored score stays
// the initial one so the recomputation is idempotent.
func (s *Server) handleAdaptiveRoadmap(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.parseUserID(w, r)
	if !ok {
		return
	}

	profile, err := s.store.GetUserProfile(r.Context(), userID)
	if err != nil {
		s.log.Error("failed to load user profile", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "user not found")
		return
	}

	tasks, err := s.store.ListProgress(r.Context(), userID)
	if err != nil {
		s.log.Error("failed to load progress", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	completed := 0
	roadmap := mergeCompletion(profile.Roadmap, tasks)
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
	}

	s.jsonResponse(w, http.StatusOK, AdaptiveRoadmapResponse{
		ReadinessScore: scoring.AdaptiveReadiness(profile.ReadinessScore, completed),
		Roadmap:        roadmap,
	})
}

func (s *Server) parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}
	return userID, true
}

// mergeCompletion overlays progress-row completion flags onto the persisted
// roadmap without mutating the stored copy.
func mergeCompletion(roadmap map[string][]types.RoadmapTask, tasks []db.Progress) map[string][]types.RoadmapTask {
	merged := make(map[string][]types.RoadmapTask, len(roadmap))
	for period, periodTasks := range roadmap {
		copied := make([]types.RoadmapTask, len(periodTasks))
		copy(copied, periodTasks)
		merged[period] = copied
	}
	for _, task := range tasks {
		if periodTasks, ok := merged[task.Period]; ok && task.TaskIndex < len(periodTasks) {
			periodTasks[task.TaskIndex].Completed = task.Completed
		}
	}
	return merged
}
