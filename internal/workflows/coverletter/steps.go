package coverletter

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/minju-kim98/personal-ai-hub/extract"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/model"
)

const (
	fallbackFeedback = "분석을 완료했습니다."
	fallbackScore    = 80.0
	letterSeparator  = "\n\n---\n\n"
)

func defaultRequirements() Requirements {
	return Requirements{
		Position:     "지원 직무",
		Requirements: []string{},
		Preferred:    []string{},
		Questions:    []string{"자기소개", "지원동기", "입사 후 포부"},
		Keywords:     []string{},
	}
}

func (w *Workflow) collectDocuments(ctx context.Context, s *State) error {
	docs, err := w.deps.Documents.ListDocuments(ctx, s.UserID, job.DocumentFilter{
		Categories:      []job.Category{job.CategoryResume, job.CategoryPortfolio, job.CategoryCoverLetter},
		ExcludeArchived: true,
	})
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	// newest first: keep the latest resume and portfolio. document_ids only
	// narrows which earlier letters are used as the style reference.
	for _, d := range docs {
		if d.Content == "" {
			continue
		}
		switch d.Category {
		case job.CategoryResume:
			if s.Resume == "" {
				s.Resume = d.Content
			}
		case job.CategoryPortfolio:
			if s.Portfolio == "" {
				s.Portfolio = d.Content
			}
		case job.CategoryCoverLetter:
			if len(s.Input.DocumentIDs) > 0 && !slices.Contains(s.Input.DocumentIDs, d.ID) {
				continue
			}
			if len(s.PriorLetters) < MaxPriorLetters {
				s.PriorLetters = append(s.PriorLetters, d.Content)
			}
		}
	}
	w.deps.Logger.DebugContext(ctx, "collected reference documents",
		"job_id", s.JobID,
		"has_resume", s.Resume != "",
		"has_portfolio", s.Portfolio != "",
		"prior_letters", len(s.PriorLetters),
	)
	return nil
}

func (w *Workflow) researchCompany(ctx context.Context, s *State) error {
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Mini, researchPrompt(s.Input.CompanyName))
	if err != nil {
		return err
	}
	s.CompanyResearch = out
	return nil
}

func (w *Workflow) analyzeJobPosting(ctx context.Context, s *State) error {
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Mini, analyzePrompt(s.Input.JobPosting))
	if err != nil {
		return err
	}
	s.Requirements = extract.JSON(out, defaultRequirements(),
		extract.WithLabel(StepAnalyzeJobPosting), extract.WithLogger(w.deps.Logger))
	return nil
}

func (w *Workflow) generateDraft(ctx context.Context, s *State) error {
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasClaudeSonnet45, draftPrompt(s))
	if err != nil {
		return err
	}
	s.Draft = extract.JSON(out, map[string]any{"자기소개서": out},
		extract.WithLabel(StepGenerateDraft), extract.WithLogger(w.deps.Logger))
	s.Iteration++
	return nil
}

type comparison struct {
	Score    json.Number `json:"similarity_score"`
	Feedback string      `json:"feedback"`
}

// comparisonSchema rejects scores outside 0..100; such a reply is treated
// like an unreadable one.
const comparisonSchema = `{
  "type": "object",
  "properties": {
    "similarity_score": {"type": "number", "minimum": 0, "maximum": 100},
    "feedback": {"type": "string"}
  }
}`

func (w *Workflow) compareIdentity(ctx context.Context, s *State) error {
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasClaudeHaiku45, comparePrompt(s))
	if err != nil {
		return err
	}

	c := extract.JSON(out, comparison{Feedback: fallbackFeedback},
		extract.WithLabel(StepCompareIdentity), extract.WithLogger(w.deps.Logger),
		extract.WithSchema(comparisonSchema))
	s.Score, s.Feedback = fallbackScore, c.Feedback
	if c.Score != "" {
		if score, err := c.Score.Float64(); err == nil {
			s.Score = score
		} else {
			s.Feedback = fallbackFeedback
		}
	}

	return job.NewReporter(w.deps.Jobs, s.JobID).Progress(ctx, map[string]any{
		"current_step": "comparing",
		"iteration":    s.Iteration,
		"score":        s.Score,
		"message":      fmt.Sprintf("동일인물 유사도: %g%%", s.Score),
	})
}

func (w *Workflow) revise(ctx context.Context, s *State) error {
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasClaudeSonnet45, revisePrompt(s))
	if err != nil {
		return err
	}
	s.History = append(s.History, Revision{
		Iteration: s.Iteration,
		Score:     s.Score,
		Feedback:  s.Feedback,
		Content:   s.Draft,
	})
	s.Draft = extract.JSON(out, s.Draft,
		extract.WithLabel(StepRevise), extract.WithLogger(w.deps.Logger))
	s.Iteration++
	return nil
}

func (w *Workflow) finalize(ctx context.Context, s *State) error {
	history := s.History
	if history == nil {
		history = []Revision{}
	}
	_, err := w.deps.Jobs.CreateArtifact(ctx, job.KindCoverLetter, s.JobID, map[string]any{
		"company_name":     s.Input.CompanyName,
		"job_posting":      s.Input.JobPosting,
		"content":          s.Draft,
		"final_score":      s.Score,
		"iteration_count":  s.Iteration,
		"revision_history": history,
	})
	if err != nil {
		return fmt.Errorf("save cover letter: %w", err)
	}
	return job.Complete(ctx, w.deps.Jobs, s.JobID, map[string]any{
		"final_score": s.Score,
		"iterations":  s.Iteration,
	})
}

func joinedPriorLetters(s *State) string {
	n := min(len(s.PriorLetters), 2)
	return workflows.Truncate(strings.Join(s.PriorLetters[:n], letterSeparator), 2000)
}
