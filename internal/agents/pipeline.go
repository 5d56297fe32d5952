package agents

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/careerpath/planner/internal/types"
)

// AnalysisResult bundles the output of all four pipeline steps for one run.
type AnalysisResult struct {
	SkillProfile  *types.SkillProfile        `json:"skill_profile"`
	MarketProfile *types.MarketProfile       `json:"market_profile"`
	SkillGap      *types.SkillGapProfile     `json:"skill_gap"`
	LearningPath  *types.LearningPathProfile `json:"learning_path"`
}

// Analyze runs the full pipeline: skill assessment and market demand first
// (concurrently; they have no data dependency on each other), then the skill
// gap, then the learning path. A terminal failure in any step aborts the run
// with no partial result.
func (p *Planner) Analyze(ctx context.Context, resumeText, targetRole string) (*AnalysisResult, error) {
	g, gctx := errgroup.WithContext(ctx)

	var skillProfile *types.SkillProfile
	var marketProfile *types.MarketProfile

	g.Go(func() error {
		profile, err := p.AssessSkills(gctx, resumeText)
		if err != nil {
			return err
		}
		skillProfile = profile
		return nil
	})
	g.Go(func() error {
		profile, err := p.AssessMarket(gctx, targetRole)
		if err != nil {
			return err
		}
		marketProfile = profile
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gap, err := p.AnalyzeGap(ctx, skillProfile.Skills, marketProfile.RequiredSkills)
	if err != nil {
		return nil, err
	}

	path, err := p.BuildLearningPath(ctx, gap)
	if err != nil {
		return nil, err
	}

	p.log.Info("analysis complete",
		zap.String("target_role", targetRole),
		zap.Int("skills", len(skillProfile.Skills)),
		zap.Int("missing_skills", len(gap.MissingSkills)),
		zap.Int("roadmap_tasks", path.TaskCount()),
		zap.Int("readiness_score", path.CareerReadinessScore),
	)

	return &AnalysisResult{
		SkillProfile:  skillProfile,
		MarketProfile: marketProfile,
		SkillGap:      gap,
		LearningPath:  path,
	}, nil
}
