package proposal

import (
	"context"
	"fmt"

	"github.com/minju-kim98/personal-ai-hub/extract"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/model"
	"github.com/minju-kim98/personal-ai-hub/workflow"
)

func defaultPlan(idea string) Plan {
	return Plan{
		Title: workflows.Truncate(idea, titleRunes),
		Questions: []Question{
			{Category: CategoryMarket, Question: "시장 규모"},
			{Category: CategoryMarket, Question: "경쟁사 분석"},
			{Category: CategoryLegal, Question: "관련 법률"},
			{Category: CategoryTech, Question: "기술 트렌드"},
		},
	}
}

func (w *Workflow) plan(ctx context.Context, s *State) error {
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Mini, planPrompt(s.Input))
	if err != nil {
		return err
	}
	p := extract.JSON(out, defaultPlan(s.Input.Idea),
		extract.WithLabel(StepPlan), extract.WithLogger(w.deps.Logger))
	if p.Title == "" {
		p.Title = workflows.Truncate(s.Input.Idea, titleRunes)
	}
	s.Plan = p

	topics := p.Topics()
	return job.NewReporter(w.deps.Jobs, s.JobID).Progress(ctx, map[string]any{
		"current_phase":   "planning",
		"research_topics": topics[:min(len(topics), topicsShown)],
		"message":         "리서치 계획 수립 완료",
	})
}

// research builds one research phase. Phases are independent of each other's
// output and see only the questions of their own category.
func (w *Workflow) research(category, phase, message string, prompt func(Input, []string) string) workflow.StepFunc[State] {
	return func(ctx context.Context, s *State) error {
		err := job.NewReporter(w.deps.Jobs, s.JobID).Progress(ctx, map[string]any{
			"current_phase": phase,
			"message":       message,
		})
		if err != nil {
			return err
		}

		out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5, prompt(s.Input, s.Plan.For(category)))
		if err != nil {
			return err
		}
		switch category {
		case CategoryMarket:
			s.MarketResearch = out
		case CategoryLegal:
			s.LegalResearch = out
		case CategoryTech:
			s.TechResearch = out
		}
		return nil
	}
}

func (w *Workflow) write(ctx context.Context, s *State) error {
	err := job.NewReporter(w.deps.Jobs, s.JobID).Progress(ctx, map[string]any{
		"current_phase": "writing",
		"message":       "기획서 작성 중...",
	})
	if err != nil {
		return err
	}

	out, err := w.deps.Gateway.Invoke(ctx, model.AliasClaudeOpus45, writePrompt(s))
	if err != nil {
		return err
	}
	s.Content = out
	s.ResearchData = map[string]string{
		CategoryMarket: workflows.Truncate(s.MarketResearch, researchRunes),
		CategoryLegal:  workflows.Truncate(s.LegalResearch, researchRunes),
		CategoryTech:   workflows.Truncate(s.TechResearch, researchRunes),
	}
	return nil
}

func (w *Workflow) save(ctx context.Context, s *State) error {
	_, err := w.deps.Jobs.CreateArtifact(ctx, job.KindProposal, s.JobID, map[string]any{
		"title":         s.Plan.Title,
		"content":       s.Content,
		"research_data": s.ResearchData,
	})
	if err != nil {
		return fmt.Errorf("save proposal: %w", err)
	}
	return job.Complete(ctx, w.deps.Jobs, s.JobID, map[string]any{"title": s.Plan.Title})
}
