package job

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a job, artifact or document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTerminal is returned for any write to a completed or failed job.
	ErrTerminal = errors.New("job is in a terminal state")

	// ErrArtifactExists is returned when a job already has an artifact.
	ErrArtifactExists = errors.New("artifact already exists for job")
)

// StatusError reports an illegal status transition.
type StatusError struct {
	ID   string
	From Status
	To   Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("job %s: illegal status transition %s -> %s", e.ID, e.From, e.To)
}

// Is lets errors.Is(err, ErrTerminal) match transitions out of a terminal status.
func (e *StatusError) Is(target error) bool {
	return target == ErrTerminal && e.From.Terminal()
}

// CheckTransition returns nil if a job in from may move to to.
func CheckTransition(id string, from, to Status) error {
	if from.CanTransition(to) {
		return nil
	}
	return &StatusError{ID: id, From: from, To: to}
}
