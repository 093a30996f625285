// Package proposal turns a product idea into a researched business proposal.
package proposal

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
	StepPlan           = "create_research_plan"
	StepMarketResearch = "conduct_market_research"
	StepLegalResearch  = "conduct_legal_research"
	StepTechResearch   = "conduct_tech_research"
	StepWrite          = "write_proposal"
	StepSave           = "save_proposal"
)

// Research categories a planned question may belong to.
const (
	CategoryMarket = "market"
	CategoryLegal  = "legal"
	CategoryTech   = "tech"
)

const (
	titleRunes    = 50
	researchRunes = 1000
	topicsShown   = 5
)

// Aliases lists the models this workflow calls.
var Aliases = []string{model.AliasGPT5Mini, model.AliasGPT5, model.AliasClaudeOpus45}

// Input is the request body for a proposal job.
type Input struct {
	Idea                string `json:"idea" validate:"required"`
	TargetMarket        string `json:"target_market,omitempty"`
	BudgetRange         string `json:"budget_range,omitempty"`
	SpecialRequirements string `json:"special_requirements,omitempty"`
}

// Question is one planned research question.
type Question struct {
	Category string `json:"category"`
	Question string `json:"question"`
}

// Plan is the research plan the first step produces.
type Plan struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Topics returns the question texts in plan order.
func (p Plan) Topics() []string {
	out := make([]string, 0, len(p.Questions))
	for _, q := range p.Questions {
		out = append(out, q.Question)
	}
	return out
}

// For returns the questions tagged with category.
func (p Plan) For(category string) []string {
	var out []string
	for _, q := range p.Questions {
		if q.Category == category {
			out = append(out, q.Question)
		}
	}
	return out
}

// State is the per-run record.
type State struct {
	JobID  string
	UserID string
	Input  Input

	Plan Plan

	MarketResearch string
	LegalResearch  string
	TechResearch   string

	Content      string
	ResearchData map[string]string
}

// Workflow is the compiled proposal graph plus its dependencies.
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

	g, err := workflow.NewGraph[State](string(job.KindProposal)).
		AddStep(StepPlan, w.plan).
		AddStep(StepMarketResearch, w.research(CategoryMarket, "market_research", "시장 조사 진행 중...", marketPrompt)).
		AddStep(StepLegalResearch, w.research(CategoryLegal, "legal_research", "법률/규제 조사 진행 중...", legalPrompt)).
		AddStep(StepTechResearch, w.research(CategoryTech, "tech_research", "기술 조사 진행 중...", techPrompt)).
		AddStep(StepWrite, w.write).
		AddStep(StepSave, w.save).
		SetEntry(StepPlan).
		AddEdge(StepPlan, StepMarketResearch).
		AddEdge(StepMarketResearch, StepLegalResearch).
		AddEdge(StepLegalResearch, StepTechResearch).
		AddEdge(StepTechResearch, StepWrite).
		AddEdge(StepWrite, StepSave).
		AddEdge(StepSave, workflow.End).
		Compile()
	if err != nil {
		return nil, err
	}
	w.graph = g
	return w, nil
}

// Kind returns job.KindProposal.
func (w *Workflow) Kind() job.Kind { return job.KindProposal }

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
