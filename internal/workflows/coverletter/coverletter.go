// Package coverletter generates a cover letter for a job posting and revises
// it until it reads like the applicant's earlier letters.
//
// The compare/revise cycle is bounded by MaxIterations through the graph's
// own decision function.
package coverletter

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
	// PassScore ends the revise loop.
	PassScore = 85.0
	// MaxIterations caps drafts plus revisions.
	MaxIterations = 10
	// MaxPriorLetters is how many earlier letters are collected.
	MaxPriorLetters = 3
)

// Step names.
const (
	StepCollectDocuments  = "collect_documents"
	StepResearchCompany   = "research_company"
	StepAnalyzeJobPosting = "analyze_job_posting"
	StepGenerateDraft     = "generate_draft"
	StepCompareIdentity   = "compare_identity"
	StepRevise            = "revise_cover_letter"
	StepFinalize          = "finalize"
)

const (
	routeRevise   = "revise"
	routeFinalize = "finalize"
)

// Aliases lists the models this workflow calls.
var Aliases = []string{model.AliasGPT5Mini, model.AliasClaudeSonnet45, model.AliasClaudeHaiku45}

// Input is the request body for a cover letter job.
type Input struct {
	CompanyName            string   `json:"company_name" validate:"required,max=255"`
	JobPosting             string   `json:"job_posting" validate:"required"`
	DocumentIDs            []string `json:"document_ids" validate:"omitempty,dive,uuid"`
	AdditionalInstructions string   `json:"additional_instructions,omitempty"`
}

// Requirements is the structured reading of a job posting.
type Requirements struct {
	Position     string   `json:"position"`
	Requirements []string `json:"requirements"`
	Preferred    []string `json:"preferred"`
	Questions    []string `json:"questions"`
	Keywords     []string `json:"keywords"`
}

// Revision is a superseded draft.
type Revision struct {
	Iteration int            `json:"iteration"`
	Score     float64        `json:"score"`
	Feedback  string         `json:"feedback"`
	Content   map[string]any `json:"content"`
}

// State is the per-run record.
type State struct {
	JobID  string
	UserID string
	Input  Input

	Resume       string
	Portfolio    string
	PriorLetters []string

	CompanyResearch string
	Requirements    Requirements

	Draft     map[string]any
	Score     float64
	Feedback  string
	Iteration int
	History   []Revision
}

// Workflow is the compiled cover letter graph plus its dependencies.
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

	g, err := workflow.NewGraph[State](string(job.KindCoverLetter)).
		AddStep(StepCollectDocuments, w.collectDocuments).
		AddStep(StepResearchCompany, w.researchCompany).
		AddStep(StepAnalyzeJobPosting, w.analyzeJobPosting).
		AddStep(StepGenerateDraft, w.generateDraft).
		AddStep(StepCompareIdentity, w.compareIdentity).
		AddStep(StepRevise, w.revise).
		AddStep(StepFinalize, w.finalize).
		SetEntry(StepCollectDocuments).
		AddEdge(StepCollectDocuments, StepResearchCompany).
		AddEdge(StepResearchCompany, StepAnalyzeJobPosting).
		AddEdge(StepAnalyzeJobPosting, StepGenerateDraft).
		AddEdge(StepGenerateDraft, StepCompareIdentity).
		AddConditionalEdge(StepCompareIdentity, Decide, map[string]string{
			routeRevise:   StepRevise,
			routeFinalize: StepFinalize,
		}).
		AddEdge(StepRevise, StepCompareIdentity).
		AddEdge(StepFinalize, workflow.End).
		Compile()
	if err != nil {
		return nil, err
	}
	w.graph = g
	return w, nil
}

// Kind returns job.KindCoverLetter.
func (w *Workflow) Kind() job.Kind { return job.KindCoverLetter }

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
	state := &State{JobID: req.JobID, UserID: req.UserID, Input: *in}
	return w.graph.Run(ctx, state, opts...)
}

// Decide routes after a comparison: finalize once the letter passes, the
// iteration budget is spent, or there is nothing to compare against.
func Decide(s *State) string {
	if s.Score >= PassScore || s.Iteration >= MaxIterations || len(s.PriorLetters) == 0 {
		return routeFinalize
	}
	return routeRevise
}
