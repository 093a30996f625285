package weeklyreport

import (
	"context"
	"fmt"

	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/model"
)

const (
	promptDateLayout = "2006.01.02"
	recordDateLayout = "2006-01-02"
)

func (w *Workflow) analyzeStyle(ctx context.Context, s *State) error {
	docs, err := w.deps.Documents.ListDocuments(ctx, s.UserID, job.DocumentFilter{
		Categories:      []job.Category{job.CategoryWeeklyReport},
		IDs:             s.Input.ReferenceDocumentIDs,
		ExcludeArchived: true,
		Limit:           1,
	})
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if len(docs) > 0 {
		s.ReferenceStyle = workflows.Truncate(docs[0].Content, styleRunes)
	}
	return nil
}

func (w *Workflow) generateReport(ctx context.Context, s *State) error {
	if err := job.NewReporter(w.deps.Jobs, s.JobID).Step(ctx, "generating", "보고서 작성 중..."); err != nil {
		return err
	}
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Mini, reportPrompt(s))
	if err != nil {
		return err
	}
	s.Content = out
	return nil
}

func (w *Workflow) saveReport(ctx context.Context, s *State) error {
	_, err := w.deps.Jobs.CreateArtifact(ctx, job.KindWeeklyReport, s.JobID, map[string]any{
		"week_start": s.WeekStart.Format(recordDateLayout),
		"week_end":   s.WeekEnd.Format(recordDateLayout),
		"content":    s.Content,
	})
	if err != nil {
		return fmt.Errorf("save weekly report: %w", err)
	}
	return job.Complete(ctx, w.deps.Jobs, s.JobID, map[string]any{
		"report_preview": workflows.Truncate(s.Content, previewRunes),
	})
}
