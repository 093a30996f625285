// Package translate translates plain text and SRT subtitles and drafts
// emails in a target language.
package translate

import (
	"context"
	"fmt"

	"github.com/minju-kim98/personal-ai-hub/client"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/model"
	"github.com/minju-kim98/personal-ai-hub/workflow"
)

const (
	StepPrepare       = "prepare"
	StepTranslateText = "translate_text"
	StepTranslateSRT  = "translate_srt"
	StepWriteEmail    = "write_email"
	StepSave          = "save_translation"
)

// Translation types.
const (
	TypeText  = "text"
	TypeSRT   = "srt"
	TypeEmail = "email"
)

// AutoDetect is the source language when none is given.
const AutoDetect = "auto"

// Aliases lists the models this workflow calls.
var Aliases = []string{model.AliasGPT5Mini, model.AliasClaudeHaiku45}

// Input is the request body for a translation job. For emails Content holds
// the key points and Context the situation.
type Input struct {
	TranslationType string `json:"translation_type" validate:"required,oneof=text srt email"`
	SourceLanguage  string `json:"source_language,omitempty"`
	TargetLanguage  string `json:"target_language" validate:"required,min=2"`
	Content         string `json:"content" validate:"required"`
	Context         string `json:"context,omitempty" validate:"required_if=TranslationType email"`
}

// State is the per-run record.
type State struct {
	JobID  string
	UserID string
	Input  Input

	Translated string
}

// Workflow is the compiled translation graph plus its dependencies.
type Workflow struct {
	deps  workflows.Deps
	graph *workflow.Graph[State]
}

var _ workflows.Workflow = (*Workflow)(nil)

// Build compiles the graph once.
func Build(deps workflows.Deps) (*Workflow, error) {
	if err := deps.Check(false); err != nil {
		return nil, err
	}
	if err := client.ValidateAliases(Aliases...); err != nil {
		return nil, err
	}
	w := &Workflow{deps: deps.WithDefaults()}

	g, err := workflow.NewGraph[State](string(job.KindTranslate)).
		AddStep(StepPrepare, w.prepare).
		AddStep(StepTranslateText, w.translateText).
		AddStep(StepTranslateSRT, w.translateSRT).
		AddStep(StepWriteEmail, w.writeEmail).
		AddStep(StepSave, w.save).
		SetEntry(StepPrepare).
		AddConditionalEdge(StepPrepare, route, map[string]string{
			TypeText:  StepTranslateText,
			TypeSRT:   StepTranslateSRT,
			TypeEmail: StepWriteEmail,
		}).
		AddEdge(StepTranslateText, StepSave).
		AddEdge(StepTranslateSRT, StepSave).
		AddEdge(StepWriteEmail, StepSave).
		AddEdge(StepSave, workflow.End).
		Compile()
	if err != nil {
		return nil, err
	}
	w.graph = g
	return w, nil
}

func route(s *State) string { return s.Input.TranslationType }

// Kind returns job.KindTranslate.
func (w *Workflow) Kind() job.Kind { return job.KindTranslate }

// Graph exposes the compiled topology.
func (w *Workflow) Graph() *workflow.Graph[State] { return w.graph }

// Run executes the graph for one job.
func (w *Workflow) Run(ctx context.Context, req workflows.Request, opts ...workflow.Option) error {
	_, err := w.run(ctx, req, opts...)
	return err
}

func (w *Workflow) run(ctx context.Context, req workflows.Request, opts ...workflow.Option) (*workflow.Result[State], error) {
	in, err := workflows.DecodeInput[Input](req.Input)
	if err != nil {
		return nil, err
	}
	state := &State{JobID: req.JobID, UserID: req.UserID, Input: *in}
	res, err := w.graph.Run(ctx, state, opts...)
	if err != nil {
		return res, fmt.Errorf("translate %s: %w", in.TranslationType, err)
	}
	return res, nil
}
