package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careerpath/planner/internal/types"
)

func newTestPlanner(client *mockClient) *Planner {
	return NewPlanner(client, zap.NewNop(), testPolicy())
}

func TestAssessSkills_ValidResponse(t *testing.T) {
	client := &mockClient{respond: func(_ int, _ string) (string, error) {
		return `{"skills": ["Python", "SQL"], "experience_level": "Intermediate", "summary": "Backend developer"}`, nil
	}}

	profile, err := newTestPlanner(client).AssessSkills(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "SQL"}, profile.Skills)
	assert.Equal(t, "Intermediate", profile.ExperienceLevel)
	assert.Equal(t, 1, client.callCount())
}

func TestAssessSkills_FencedResponse(t *testing.T) {
	client := &mockClient{respond: func(_ int, _ string) (string, error) {
		return "```json\n{\"skills\": [\"Go\"], \"experience_level\": \"Advanced\", \"summary\": \"Systems engineer\"}\n```", nil
	}}

	profile, err := newTestPlanner(client).AssessSkills(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, profile.Skills)
}

func TestAssessSkills_RecoversOnThirdAttempt(t *testing.T) {
	client := &mockClient{respond: func(call int, _ string) (string, error) {
		if call < 3 {
			return "sorry, no JSON today", nil
		}
		return `{"skills": ["Python"], "experience_level": "Beginner", "summary": "Student"}`, nil
	}}

	profile, err := newTestPlanner(client).AssessSkills(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, profile.Skills)
	assert.Equal(t, 3, client.callCount(), "must have invoked the client exactly 3 times")
}

func TestAssessSkills_FailsAfterThreeAttempts(t *testing.T) {
	client := &mockClient{respond: func(_ int, _ string) (string, error) {
		return "still no JSON", nil
	}}

	_, err := newTestPlanner(client).AssessSkills(context.Background(), "resume text")
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepSkillAssessment, stepErr.Step)
	assert.Equal(t, 3, client.callCount())
}

func TestAssessSkills_SchemaViolationRetries(t *testing.T) {
	client := &mockClient{respond: func(call int, _ string) (string, error) {
		if call == 1 {
			// missing required experience_level and summary
			return `{"skills": ["Python"]}`, nil
		}
		return `{"skills": ["Python"], "experience_level": "Beginner", "summary": "Student"}`, nil
	}}

	profile, err := newTestPlanner(client).AssessSkills(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, 2, client.callCount())
	assert.NotNil(t, profile)
}

func TestAssessSkills_TransportErrorRetries(t *testing.T) {
	client := &mockClient{respond: func(call int, _ string) (string, error) {
		if call == 1 {
			return "", errors.New("rate limited")
		}
		return `{"skills": ["Python"], "experience_level": "Beginner", "summary": "Student"}`, nil
	}}

	_, err := newTestPlanner(client).AssessSkills(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, 2, client.callCount())
}

func TestAssessMarket_ValidResponse(t *testing.T) {
	client := &mockClient{respond: func(_ int, prompt string) (string, error) {
		assert.Contains(t, prompt, "data analyst")
		return `{"required_skills": ["Python", "SQL", "Power BI"], "trend": "High", "summary": "Strong demand"}`, nil
	}}

	profile, err := newTestPlanner(client).AssessMarket(context.Background(), "data analyst")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "SQL", "Power BI"}, profile.RequiredSkills)
	assert.Equal(t, "High", profile.Trend)
}

func TestAnalyzeGap_NormalizesToSetDifference(t *testing.T) {
	// The model answers with a wrong list; normalization enforces the
	// set-difference invariant regardless.
	client := &mockClient{respond: func(_ int, _ string) (string, error) {
		return `{"missing_skills": ["Python", "Kubernetes"], "priority": "High"}`, nil
	}}

	gap, err := newTestPlanner(client).AnalyzeGap(context.Background(),
		[]string{"Python", "SQL"},
		[]string{"Python", "Docker", "AWS"},
	)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Docker", "AWS"}, gap.MissingSkills)
	assert.Equal(t, "High", gap.Priority)
}

func TestBuildLearningPath_NormalizesPeriodsAndScore(t *testing.T) {
	client := &mockClient{respond: func(_ int, _ string) (string, error) {
		// Model omits the 60/90 periods and the score.
		return `{"roadmap": {"30": [{"skill": "Docker", "goal": "Learn basics of Docker", "resources": "Docker docs", "mini_project": "Containerize an app"}]}}`, nil
	}}

	gap := &types.SkillGapProfile{MissingSkills: []string{"Docker", "AWS"}, Priority: "High"}
	path, err := newTestPlanner(client).BuildLearningPath(context.Background(), gap)
	require.NoError(t, err)

	for _, period := range []string{"30", "60", "90"} {
		_, ok := path.Roadmap[period]
		assert.True(t, ok, "period %s must exist", period)
	}
	// 2 missing skills: 100 - 15*2 = 70
	assert.Equal(t, 70, path.CareerReadinessScore)
	assert.False(t, path.Roadmap["30"][0].Completed, "tasks default to not completed")
}

func TestDiffSkills(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		owned    []string
		want     []string
	}{
		{
			name:     "partial overlap",
			required: []string{"Python", "Docker", "AWS"},
			owned:    []string{"Python", "SQL"},
			want:     []string{"Docker", "AWS"},
		},
		{
			name:     "case insensitive",
			required: []string{"python", "Docker"},
			owned:    []string{"Python"},
			want:     []string{"Docker"},
		},
		{
			name:     "duplicates dropped",
			required: []string{"Docker", "docker", "AWS"},
			owned:    nil,
			want:     []string{"Docker", "AWS"},
		},
		{
			name:     "nothing missing",
			required: []string{"Python"},
			owned:    []string{"Python", "SQL"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiffSkills(tt.required, tt.owned))
		})
	}
}

func TestIntersectSkills(t *testing.T) {
	got := IntersectSkills([]string{"Python", "SQL", "HTML"}, []string{"python", "Power BI", "SQL"})
	assert.Equal(t, []string{"Python", "SQL"}, got)
}

func TestRetryDelay_IsRespected(t *testing.T) {
	client := &mockClient{respond: func(call int, _ string) (string, error) {
		if call == 1 {
			return "garbage", nil
		}
		return `{"skills": ["Python"], "experience_level": "Beginner", "summary": "Student"}`, nil
	}}

	delay := 30 * time.Millisecond
	planner := NewPlanner(client, zap.NewNop(), RetryPolicy{MaxAttempts: 3, Delay: delay})

	start := time.Now()
	_, err := planner.AssessSkills(context.Background(), "resume text")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), delay)
}
