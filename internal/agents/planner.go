package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/careerpath/planner/internal/llm"
	"github.com/careerpath/planner/internal/logger"
	"github.com/careerpath/planner/internal/prompts"
	"github.com/careerpath/planner/internal/schemas"
	"github.com/careerpath/planner/internal/scoring"
	"github.com/careerpath/planner/internal/types"
)

// Step names used in logs and terminal errors.
const (
	StepSkillAssessment = "skill-assessment"
	StepMarketDemand    = "market-demand"
	StepSkillGap        = "skill-gap"
	StepLearningPath    = "learning-path"
)

// Planner runs the four agent steps against an LLM client. It is safe for
// concurrent use; all state is set at construction.
type Planner struct {
	client llm.Client
	log    *zap.Logger
	retry  RetryPolicy

	skillPrompt  string
	marketPrompt string
	gapPrompt    string
	pathPrompt   string
}

// NewPlanner creates a Planner with the given client, logger, and retry policy.
func NewPlanner(client llm.Client, log *zap.Logger, retry RetryPolicy) *Planner {
	return &Planner{
		client:       client,
		log:          log,
		retry:        retry,
		skillPrompt:  prompts.MustGet(prompts.KeySkillAssessment),
		marketPrompt: prompts.MustGet(prompts.KeyMarketDemand),
		gapPrompt:    prompts.MustGet(prompts.KeySkillGap),
		pathPrompt:   prompts.MustGet(prompts.KeyLearningPath),
	}
}

// AssessSkills extracts a SkillProfile from resume text. The caller truncates
// the text to the cost budget before invoking the pipeline.
func (p *Planner) AssessSkills(ctx context.Context, resumeText string) (*types.SkillProfile, error) {
	prompt := prompts.Format(p.skillPrompt, map[string]string{"ResumeText": resumeText})

	var profile types.SkillProfile
	err := p.retry.Do(ctx, p.log, StepSkillAssessment, func() error {
		return p.completeStep(ctx, StepSkillAssessment, prompt, schemas.StepSkillProfile, &profile)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AssessMarket produces a MarketProfile for a target role.
func (p *Planner) AssessMarket(ctx context.Context, targetRole string) (*types.MarketProfile, error) {
	prompt := prompts.Format(p.marketPrompt, map[string]string{"TargetRole": targetRole})

	var profile types.MarketProfile
	err := p.retry.Do(ctx, p.log, StepMarketDemand, func() error {
		return p.completeStep(ctx, StepMarketDemand, prompt, schemas.StepMarketProfile, &profile)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AnalyzeGap derives a SkillGapProfile from the user's and the market's skill
// lists. The model supplies the priority; missing_skills is normalized to the
// exact set difference market minus user afterwards, so the result never
// contains skills the user already has or the market never asked for.
func (p *Planner) AnalyzeGap(ctx context.Context, userSkills, marketSkills []string) (*types.SkillGapProfile, error) {
	prompt := prompts.Format(p.gapPrompt, map[string]string{
		"UserSkills":   strings.Join(userSkills, ", "),
		"MarketSkills": strings.Join(marketSkills, ", "),
	})

	var gap types.SkillGapProfile
	err := p.retry.Do(ctx, p.log, StepSkillGap, func() error {
		return p.completeStep(ctx, StepSkillGap, prompt, schemas.StepSkillGap, &gap)
	})
	if err != nil {
		return nil, err
	}

	gap.MissingSkills = DiffSkills(marketSkills, userSkills)

	strengths := IntersectSkills(userSkills, marketSkills)
	p.log.Info("skill gap computed",
		zap.Strings("missing_skills", gap.MissingSkills),
		zap.Strings("strengths", strengths),
		zap.String("priority", gap.Priority),
	)
	return &gap, nil
}

// BuildLearningPath produces a LearningPathProfile for a skill gap.
func (p *Planner) BuildLearningPath(ctx context.Context, gap *types.SkillGapProfile) (*types.LearningPathProfile, error) {
	gapJSON, err := json.Marshal(gap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skill gap: %w", err)
	}
	prompt := prompts.Format(p.pathPrompt, map[string]string{"SkillGap": string(gapJSON)})

	var path types.LearningPathProfile
	err = p.retry.Do(ctx, p.log, StepLearningPath, func() error {
		return p.completeStep(ctx, StepLearningPath, prompt, schemas.StepLearningPath, &path)
	})
	if err != nil {
		return nil, err
	}

	normalizeLearningPath(&path, len(gap.MissingSkills))
	return &path, nil
}

// completeStep runs one attempt of a step: call the LLM, extract the JSON
// span, validate it against the step schema, and decode into out. Every
// failure mode returns an error so the retry policy re-runs the whole thing.
func (p *Planner) completeStep(ctx context.Context, step, prompt, schemaStep string, out interface {
	Validate() error
}) error {
	p.log.Debug("sending prompt",
		zap.String("step", step),
		zap.Int("prompt_chars", len(prompt)),
	)

	raw, err := p.client.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("llm call failed: %w", err)
	}
	p.log.Debug("received response",
		zap.String("step", step),
		zap.String("response_head", logger.TruncateForLog(raw, 200)),
	)

	doc, err := llm.ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := schemas.ValidateStep(schemaStep, doc); err != nil {
		return err
	}
	if err := json.Unmarshal(doc, out); err != nil {
		return &llm.ParseError{Message: "failed to decode step output", Cause: err}
	}
	return out.Validate()
}

// normalizeLearningPath guarantees the canonical 30/60/90 keys exist and that
// the readiness score respects the gap-based scoring rule when the model
// omits it or pushes it outside the clamp.
func normalizeLearningPath(path *types.LearningPathProfile, missingCount int) {
	if path.Roadmap == nil {
		path.Roadmap = make(map[string][]types.RoadmapTask)
	}
	for _, period := range types.RoadmapPeriods {
		if path.Roadmap[period] == nil {
			path.Roadmap[period] = []types.RoadmapTask{}
		}
	}
	if path.CareerReadinessScore <= 0 || path.CareerReadinessScore > 100 {
		path.CareerReadinessScore = scoring.InitialReadiness(missingCount)
	}
}

// DiffSkills returns the elements of required absent from owned, preserving
// the order of required. Comparison is case-insensitive and duplicates are
// dropped.
func DiffSkills(required, owned []string) []string {
	have := make(map[string]struct{}, len(owned))
	for _, s := range owned {
		have[normalizeSkill(s)] = struct{}{}
	}

	missing := make([]string, 0, len(required))
	seen := make(map[string]struct{}, len(required))
	for _, s := range required {
		key := normalizeSkill(s)
		if _, ok := have[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		missing = append(missing, s)
	}
	return missing
}

// IntersectSkills returns the elements present in both lists, preserving the
// order of owned.
func IntersectSkills(owned, required []string) []string {
	want := make(map[string]struct{}, len(required))
	for _, s := range required {
		want[normalizeSkill(s)] = struct{}{}
	}

	var strengths []string
	seen := make(map[string]struct{}, len(owned))
	for _, s := range owned {
		key := normalizeSkill(s)
		if _, ok := want[key]; !ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		strengths = append(strengths, s)
	}
	return strengths
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
