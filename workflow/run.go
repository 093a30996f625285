package workflow

import (
	"context"
	"fmt"
	"time"
)

// Run executes the graph from its entry step against state until End is
// reached or a step fails. state is mutated in place.
func (g *Graph[S]) Run(ctx context.Context, state *S, opts ...Option) (*Result[S], error) {
	rc := newRunConfig(opts)
	res := &Result[S]{Name: g.name, State: state}

	fail := func(reason TerminationReason, err error) (*Result[S], error) {
		res.Termination = reason
		rc.emit(Event{Type: EventRunError, Workflow: g.name, Error: err})
		return res, err
	}

	rc.emit(Event{Type: EventRunStart, Workflow: g.name, StepName: g.entry})

	current := g.entry
	for current != End {
		if err := ctx.Err(); err != nil {
			return fail(TerminationCancelled, fmt.Errorf("%w before step %q: %w", ErrWorkflowCancelled, current, err))
		}
		if rc.maxSteps > 0 && len(res.Path) >= rc.maxSteps {
			return fail(TerminationMaxSteps, fmt.Errorf("%w: %d steps, next %q", ErrMaxSteps, len(res.Path), current))
		}

		res.Path = append(res.Path, current)
		if err := g.runStep(ctx, current, state, rc); err != nil {
			return fail(TerminationError, err)
		}

		next, err := g.next(current, state, rc)
		if err != nil {
			return fail(TerminationInvalidTransition, err)
		}
		current = next
	}

	res.Termination = TerminationComplete
	rc.emit(Event{Type: EventRunEnd, Workflow: g.name})
	return res, nil
}

func (g *Graph[S]) runStep(ctx context.Context, name string, state *S, rc *runConfig) error {
	stepCtx := ctx
	if rc.stepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, rc.stepTimeout)
		defer cancel()
	}

	rc.emit(Event{Type: EventStepStart, Workflow: g.name, StepName: name})
	start := time.Now()

	if err := g.steps[name](stepCtx, state); err != nil {
		rc.emit(Event{Type: EventStepError, Workflow: g.name, StepName: name, Duration: time.Since(start), Error: err})
		return &StepError{StepName: name, Err: err}
	}

	rc.emit(Event{Type: EventStepEnd, Workflow: g.name, StepName: name, Duration: time.Since(start)})
	return nil
}

func (g *Graph[S]) next(from string, state *S, rc *runConfig) (string, error) {
	e := g.edges[from]
	if !e.conditional() {
		return e.to, nil
	}

	label := e.decide(state)
	to, ok := e.routes[label]
	if !ok {
		return "", &TransitionError{Workflow: g.name, From: from, Label: label, Declared: sortedKeys(e.routes)}
	}
	rc.emit(Event{Type: EventRouteSelected, Workflow: g.name, StepName: from, Route: label, Next: to})
	return to, nil
}
