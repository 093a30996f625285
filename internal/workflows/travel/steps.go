package travel

import (
	"context"
	"fmt"
	"slices"

	"github.com/minju-kim98/personal-ai-hub/extract"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/model"
)

// PlaceCategories are the keys of the places recommendation.
var PlaceCategories = []string{"restaurants", "cafes", "attractions", "accommodations"}

// DefaultChecklist is used when the checklist reply cannot be decoded.
var DefaultChecklist = []string{"신분증", "충전기", "보조배터리", "여벌 옷", "세면도구", "상비약", "현금"}

func emptyPlaces() map[string]any {
	out := make(map[string]any, len(PlaceCategories))
	for _, c := range PlaceCategories {
		out[c] = []any{}
	}
	return out
}

type timeline struct {
	Days []map[string]any `json:"days"`
}

func (w *Workflow) step(ctx context.Context, s *State, step, message string) error {
	return job.NewReporter(w.deps.Jobs, s.JobID).Step(ctx, step, message)
}

func (w *Workflow) searchPlaces(ctx context.Context, s *State) error {
	if err := w.step(ctx, s, "searching_places", "장소 검색 중..."); err != nil {
		return err
	}
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Mini, placesPrompt(s.Input))
	if err != nil {
		return err
	}
	s.Places = extract.JSON(out, emptyPlaces(),
		extract.WithLabel(StepSearchPlaces), extract.WithLogger(w.deps.Logger))
	return nil
}

func (w *Workflow) createTimeline(ctx context.Context, s *State) error {
	if err := w.step(ctx, s, "creating_timeline", "일정 계획 중..."); err != nil {
		return err
	}
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Mini, timelinePrompt(s))
	if err != nil {
		return err
	}
	tl := extract.JSON(out, timeline{Days: []map[string]any{}},
		extract.WithLabel(StepCreateTimeline), extract.WithLogger(w.deps.Logger))
	s.Timeline = tl.Days
	if s.Timeline == nil {
		s.Timeline = []map[string]any{}
	}
	return nil
}

func (w *Workflow) calculateBudget(ctx context.Context, s *State) error {
	if err := w.step(ctx, s, "calculating_budget", "예상 비용 계산 중..."); err != nil {
		return err
	}
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Nano, budgetPrompt(s))
	if err != nil {
		return err
	}
	s.Budget = extract.JSON(out, map[string]any{"total": 0, "note": "비용 계산 실패"},
		extract.WithLabel(StepCalculateBudget), extract.WithLogger(w.deps.Logger))
	return nil
}

func (w *Workflow) createChecklist(ctx context.Context, s *State) error {
	if err := w.step(ctx, s, "creating_checklist", "준비물 정리 중..."); err != nil {
		return err
	}
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Nano, checklistPrompt(s.Input))
	if err != nil {
		return err
	}
	s.Checklist = extract.JSON(out, slices.Clone(DefaultChecklist),
		extract.WithLabel(StepCreateChecklist),
		extract.WithLogger(w.deps.Logger),
		extract.WithBrackets('[', ']'),
	)
	return nil
}

func (w *Workflow) savePlan(ctx context.Context, s *State) error {
	title := s.Input.Title()
	_, err := w.deps.Jobs.CreateArtifact(ctx, job.KindTravel, s.JobID, map[string]any{
		"title":      title,
		"start_date": s.Input.StartDate,
		"end_date":   s.Input.EndDate,
		"content": map[string]any{
			"places":    s.Places,
			"timeline":  s.Timeline,
			"budget":    s.Budget,
			"checklist": s.Checklist,
		},
	})
	if err != nil {
		return fmt.Errorf("save travel plan: %w", err)
	}
	return job.Complete(ctx, w.deps.Jobs, s.JobID, map[string]any{"title": title})
}
