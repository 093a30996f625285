// Package weeklyreport drafts this week's status report in the style of the
// user's previous reports.
package weeklyreport

import (
	"context"
	"fmt"
	"time"

	"github.com/minju-kim98/personal-ai-hub/client"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/model"
	"github.com/minju-kim98/personal-ai-hub/workflow"
)

const (
	StepAnalyzeStyle   = "analyze_style"
	StepGenerateReport = "generate_report"
	StepSaveReport     = "save_report"
)

const (
	styleRunes   = 2000
	previewRunes = 500
)

// Aliases lists the models this workflow calls.
var Aliases = []string{model.AliasGPT5Mini}

// Input is the request body for a weekly report job.
type Input struct {
	TasksCompleted       string   `json:"tasks_completed" validate:"required"`
	NextWeekPlan         string   `json:"next_week_plan,omitempty"`
	BossPreferences      string   `json:"boss_preferences,omitempty"`
	ReferenceDocumentIDs []string `json:"reference_document_ids" validate:"omitempty,dive,uuid"`
}

// Week returns Monday and Friday of the week containing t, at midnight in
// t's location.
func Week(t time.Time) (start, end time.Time) {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start = day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 4)
}

// State is the per-run record.
type State struct {
	JobID  string
	UserID string
	Input  Input

	WeekStart time.Time
	WeekEnd   time.Time

	ReferenceStyle string
	Content        string
}

// Workflow is the compiled weekly report graph plus its dependencies.
type Workflow struct {
	deps  workflows.Deps
	graph *workflow.Graph[State]
}

var _ workflows.Workflow = (*Workflow)(nil)

// Build compiles the graph once.
func Build(deps workflows.Deps) (*Workflow, error) {
	if err := deps.Check(true); err != nil {
		return nil, err
	}
	if err := client.ValidateAliases(Aliases...); err != nil {
		return nil, err
	}
	w := &Workflow{deps: deps.WithDefaults()}

	g, err := workflow.NewGraph[State](string(job.KindWeeklyReport)).
		AddStep(StepAnalyzeStyle, w.analyzeStyle).
		AddStep(StepGenerateReport, w.generateReport).
		AddStep(StepSaveReport, w.saveReport).
		SetEntry(StepAnalyzeStyle).
		AddEdge(StepAnalyzeStyle, StepGenerateReport).
		AddEdge(StepGenerateReport, StepSaveReport).
		AddEdge(StepSaveReport, workflow.End).
		Compile()
	if err != nil {
		return nil, err
	}
	w.graph = g
	return w, nil
}

// Kind returns job.KindWeeklyReport.
func (w *Workflow) Kind() job.Kind { return job.KindWeeklyReport }

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
	if err := job.NewReporter(w.deps.Jobs, req.JobID).Step(ctx, "starting", "시작 중..."); err != nil {
		return nil, fmt.Errorf("report start: %w", err)
	}
	// fixed once so the prompt and the saved record agree
	start, end := Week(w.deps.Now())
	state := &State{
		JobID:     req.JobID,
		UserID:    req.UserID,
		Input:     *in,
		WeekStart: start,
		WeekEnd:   end,
	}
	return w.graph.Run(ctx, state, opts...)
}
