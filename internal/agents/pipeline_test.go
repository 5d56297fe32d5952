package agents

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careerpath/planner/internal/scoring"
)

// Prompt markers unique to each template, used to route mock responses.
const (
	markerSkill  = "AI resume analyzer"
	markerMarket = "job market expert"
	markerGap    = "Compare user skills"
	markerPath   = "career coach AI"
)

func dataAnalystRoutes() map[string]string {
	return map[string]string{
		markerSkill:  `{"skills": ["Python", "SQL", "HTML"], "experience_level": "Intermediate", "summary": "Experienced Python developer"}`,
		markerMarket: `{"required_skills": ["Python", "SQL", "Power BI", "Statistics", "Excel"], "trend": "High", "summary": "Analysts remain in demand"}`,
		markerGap:    `{"missing_skills": ["Power BI", "Statistics", "Excel"], "priority": "High"}`,
		markerPath: `{"roadmap": {
			"30": [{"skill": "Power BI", "goal": "Learn basics of Power BI", "resources": "Microsoft Learn", "mini_project": "Build a mini project using Power BI"}],
			"60": [{"skill": "Statistics", "goal": "Learn basics of Statistics", "resources": "Khan Academy", "mini_project": "Build a mini project using Statistics"}],
			"90": [{"skill": "Excel", "goal": "Learn basics of Excel", "resources": "Excel docs", "mini_project": "Build a mini project using Excel"}]
		}, "career_readiness_score": 55}`,
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	client := newRoutingClient(dataAnalystRoutes())
	planner := NewPlanner(client, zap.NewNop(), testPolicy())

	result, err := planner.Analyze(context.Background(),
		"Experienced Python developer with SQL and HTML", "data analyst")
	require.NoError(t, err)

	assert.NotEmpty(t, result.SkillProfile.Skills)
	assert.Equal(t,
		[]string{"Python", "SQL", "Power BI", "Statistics", "Excel"},
		result.MarketProfile.RequiredSkills)

	// missing = required minus skills, as a set
	assert.ElementsMatch(t,
		[]string{"Power BI", "Statistics", "Excel"},
		result.SkillGap.MissingSkills)

	// readiness consistent with 100 - 15*|missing| clamped at 20
	want := scoring.InitialReadiness(len(result.SkillGap.MissingSkills))
	assert.Equal(t, want, result.LearningPath.CareerReadinessScore)
	assert.Equal(t, 3, result.LearningPath.TaskCount())
}

func TestAnalyze_GapStepSeesUpstreamOutput(t *testing.T) {
	routes := dataAnalystRoutes()
	client := newRoutingClient(routes)

	var gapPrompt string
	var mu sync.Mutex
	wrapped := &mockClient{respond: func(_ int, prompt string) (string, error) {
		if containsMarker(prompt, markerGap) {
			mu.Lock()
			gapPrompt = prompt
			mu.Unlock()
		}
		return client.Generate(context.Background(), prompt)
	}}

	planner := NewPlanner(wrapped, zap.NewNop(), testPolicy())
	_, err := planner.Analyze(context.Background(), "resume", "data analyst")
	require.NoError(t, err)

	// step N output feeds step N+1 input
	assert.Contains(t, gapPrompt, "Python")
	assert.Contains(t, gapPrompt, "Power BI")
}

func TestAnalyze_TerminalFailureAbortsRun(t *testing.T) {
	routes := dataAnalystRoutes()
	routes[markerPath] = "the model rambles and never produces JSON"
	client := newRoutingClient(routes)

	planner := NewPlanner(client, zap.NewNop(), testPolicy())
	result, err := planner.Analyze(context.Background(), "resume", "data analyst")

	require.Error(t, err)
	assert.Nil(t, result, "no partial results on failure")

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepLearningPath, stepErr.Step)
}

func TestAnalyze_TransportFailurePropagates(t *testing.T) {
	client := &mockClient{respond: func(_ int, _ string) (string, error) {
		return "", errors.New("service unreachable")
	}}

	planner := NewPlanner(client, zap.NewNop(), testPolicy())
	_, err := planner.Analyze(context.Background(), "resume", "data analyst")
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
}

func containsMarker(prompt, marker string) bool {
	return strings.Contains(prompt, marker)
}
