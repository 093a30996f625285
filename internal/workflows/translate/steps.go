package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/model"
)

func (w *Workflow) prepare(ctx context.Context, s *State) error {
	s.Input.SourceLanguage = workflows.OrDefault(strings.TrimSpace(s.Input.SourceLanguage), AutoDetect)
	message := "번역 중..."
	if s.Input.TranslationType == TypeEmail {
		message = "이메일 작성 중..."
	}
	return job.NewReporter(w.deps.Jobs, s.JobID).Step(ctx, s.Input.TranslationType, message)
}

func (w *Workflow) translateText(ctx context.Context, s *State) error {
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Mini, textPrompt(s.Input))
	if err != nil {
		return err
	}
	s.Translated = strings.TrimSpace(out)
	return nil
}

func (w *Workflow) translateSRT(ctx context.Context, s *State) error {
	blocks := parseSRT(s.Input.Content)
	all := batches(blocks, SRTBatchSize)
	out := make([]string, 0, len(blocks))
	reporter := job.NewReporter(w.deps.Jobs, s.JobID)

	for i, batch := range all {
		pending := texts(batch)
		if len(pending) == 0 {
			for _, b := range batch {
				out = append(out, b.raw)
			}
			continue
		}

		reply, err := w.deps.Gateway.Invoke(ctx, model.AliasGPT5Mini, srtPrompt(s.Input.TargetLanguage, pending))
		if err != nil {
			return fmt.Errorf("batch %d/%d: %w", i+1, len(all), err)
		}
		out = append(out, merge(batch, reply)...)

		err = reporter.Progress(ctx, map[string]any{
			"current_step": TypeSRT,
			"batch":        i + 1,
			"batches":      len(all),
			"message":      fmt.Sprintf("자막 번역 중... (%d/%d)", i+1, len(all)),
		})
		if err != nil {
			return err
		}
	}
	s.Translated = strings.Join(out, "\n\n")
	return nil
}

func (w *Workflow) writeEmail(ctx context.Context, s *State) error {
	out, err := w.deps.Gateway.Invoke(ctx, model.AliasClaudeHaiku45, emailPrompt(s.Input))
	if err != nil {
		return err
	}
	s.Translated = strings.TrimSpace(out)
	return nil
}

func (w *Workflow) save(ctx context.Context, s *State) error {
	_, err := w.deps.Jobs.CreateArtifact(ctx, job.KindTranslate, s.JobID, map[string]any{
		"source_language":    s.Input.SourceLanguage,
		"target_language":    s.Input.TargetLanguage,
		"translation_type":   s.Input.TranslationType,
		"original_content":   s.Input.Content,
		"translated_content": s.Translated,
	})
	if err != nil {
		return fmt.Errorf("save translation: %w", err)
	}
	return job.Complete(ctx, w.deps.Jobs, s.JobID, map[string]any{"translated_content": s.Translated})
}
