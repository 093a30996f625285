package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTransition matches every *TransitionError.
	ErrInvalidTransition = errors.New("workflow: invalid transition")

	// ErrInvalidGraph matches every *GraphError.
	ErrInvalidGraph = errors.New("workflow: invalid graph")

	// ErrMaxSteps indicates the run hit the WithMaxSteps guard.
	ErrMaxSteps = errors.New("workflow: step limit exceeded")

	// ErrWorkflowCancelled indicates the context ended between steps.
	ErrWorkflowCancelled = errors.New("workflow: cancelled")
)

// StepError wraps errors from step execution.
type StepError struct {
	StepName string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow: step %q failed: %v", e.StepName, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// TransitionError reports a decision label that the conditional edge out of
// From does not declare.
type TransitionError struct {
	Workflow string
	From     string
	Label    string
	Declared []string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("workflow %s: step %q chose undeclared label %q (declared: %s)",
		e.Workflow, e.From, e.Label, strings.Join(e.Declared, ", "))
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// GraphError lists everything wrong with a graph declaration.
type GraphError struct {
	Workflow string
	Problems []string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("workflow %s: invalid graph: %s", e.Workflow, strings.Join(e.Problems, "; "))
}

func (e *GraphError) Is(target error) bool {
	return target == ErrInvalidGraph
}
