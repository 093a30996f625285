package workflow

import "time"

// EventType names a point in a run that observers can react to.
type EventType string

const (
	EventRunStart      EventType = "run_start"
	EventRunEnd        EventType = "run_end"
	EventRunError      EventType = "run_error"
	EventStepStart     EventType = "step_start"
	EventStepEnd       EventType = "step_end"
	EventStepError     EventType = "step_error"
	EventRouteSelected EventType = "route_selected"
)

// Event feeds observers such as the launcher's step metrics and debug logs.
// Route and Next are only set on EventRouteSelected; Duration only on step
// end or error.
type Event struct {
	Type      EventType
	Workflow  string
	StepName  string
	Route     string
	Next      string
	Duration  time.Duration
	Error     error
	Timestamp time.Time
}

// TerminationReason records why Run returned.
type TerminationReason string

const (
	TerminationComplete          TerminationReason = "complete"
	TerminationError             TerminationReason = "error"              // a step returned an error
	TerminationInvalidTransition TerminationReason = "invalid_transition" // decision picked an undeclared label
	TerminationMaxSteps          TerminationReason = "max_steps"
	TerminationCancelled         TerminationReason = "cancelled"
)

// Result is the outcome of a run. It is returned on failure too, with the
// path up to and including the step that failed.
type Result[S any] struct {
	Name        string
	State       *S
	Path        []string // executed steps in order, repeats included
	Termination TerminationReason
}

// Visits counts how many times step ran.
func (r *Result[S]) Visits(step string) int {
	n := 0
	for _, p := range r.Path {
		if p == step {
			n++
		}
	}
	return n
}
