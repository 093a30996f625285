// Package travel plans a trip or a date course: places, a day-by-day
// timeline, a budget and a packing checklist.
package travel

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
	StepSearchPlaces    = "search_places"
	StepCreateTimeline  = "create_timeline"
	StepCalculateBudget = "calculate_budget"
	StepCreateChecklist = "create_checklist"
	StepSavePlan        = "save_plan"
)

// Trip types.
const (
	TypeTravel = "travel"
	TypeDate   = "date"
)

// DateLayout is the wire format of start and end dates.
const DateLayout = "2006-01-02"

// Aliases lists the models this workflow calls.
var Aliases = []string{model.AliasGPT5Mini, model.AliasGPT5Nano}

// Input is the request body for a travel job.
type Input struct {
	TravelType      string   `json:"travel_type" validate:"required,oneof=travel date"`
	StartDate       string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	Departure       string   `json:"departure" validate:"required"`
	Destination     string   `json:"destination" validate:"required"`
	Interests       []string `json:"interests,omitempty"`
	BudgetRange     string   `json:"budget_range,omitempty"`
	Companions      string   `json:"companions,omitempty"`
	SpecialRequests string   `json:"special_requests,omitempty"`
}

// Dates parses the trip window and rejects an end before the start.
func (in Input) Dates() (start, end time.Time, err error) {
	if start, err = time.Parse(DateLayout, in.StartDate); err != nil {
		return start, end, fmt.Errorf("start_date: %w", err)
	}
	if end, err = time.Parse(DateLayout, in.EndDate); err != nil {
		return start, end, fmt.Errorf("end_date: %w", err)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("end_date %s is before start_date %s", in.EndDate, in.StartDate)
	}
	return start, end, nil
}

// Label is the Korean name of the trip type.
func (in Input) Label() string {
	if in.TravelType == TypeTravel {
		return "여행"
	}
	return "데이트"
}

// Title names the saved plan.
func (in Input) Title() string {
	return fmt.Sprintf("%s %s (%s ~ %s)", in.Destination, in.Label(), in.StartDate, in.EndDate)
}

// State is the per-run record.
type State struct {
	JobID  string
	UserID string
	Input  Input

	Places    map[string]any
	Timeline  []map[string]any
	Budget    map[string]any
	Checklist []string
}

// Workflow is the compiled travel graph plus its dependencies.
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

	g, err := workflow.NewGraph[State](string(job.KindTravel)).
		AddStep(StepSearchPlaces, w.searchPlaces).
		AddStep(StepCreateTimeline, w.createTimeline).
		AddStep(StepCalculateBudget, w.calculateBudget).
		AddStep(StepCreateChecklist, w.createChecklist).
		AddStep(StepSavePlan, w.savePlan).
		SetEntry(StepSearchPlaces).
		AddEdge(StepSearchPlaces, StepCreateTimeline).
		AddEdge(StepCreateTimeline, StepCalculateBudget).
		AddEdge(StepCalculateBudget, StepCreateChecklist).
		AddEdge(StepCreateChecklist, StepSavePlan).
		AddEdge(StepSavePlan, workflow.End).
		Compile()
	if err != nil {
		return nil, err
	}
	w.graph = g
	return w, nil
}

// Kind returns job.KindTravel.
func (w *Workflow) Kind() job.Kind { return job.KindTravel }

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
	if _, _, err := in.Dates(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	state := &State{JobID: req.JobID, UserID: req.UserID, Input: *in}
	return w.graph.Run(ctx, state, opts...)
}
