package job

import (
	"context"
	"encoding/json"
)

// Store persists jobs and their artifacts. Each operation is atomic for a
// single job; no method spans jobs.
//
// Every mutating method returns ErrTerminal once the job is completed or
// failed, and ErrNotFound for an unknown id.
type Store interface {
	// Create stores j as pending and returns its id. An empty j.ID is assigned.
	Create(ctx context.Context, j *Job) (string, error)
	Get(ctx context.Context, id string) (*Job, error)
	SetStatus(ctx context.Context, id string, status Status) error
	// MergeProgress replaces the progress blob wholesale and reasserts processing.
	MergeProgress(ctx context.Context, id string, progress map[string]any) error
	SetOutput(ctx context.Context, id string, output map[string]any) error
	SetError(ctx context.Context, id string, message string) error
	SetCompletedNow(ctx context.Context, id string) error
	CreateArtifact(ctx context.Context, kind Kind, jobID string, fields map[string]any) (*Artifact, error)
	GetArtifact(ctx context.Context, jobID string) (*Artifact, error)
	LoadInput(ctx context.Context, id string) (json.RawMessage, error)
}

// Complete writes output, stamps completion, and moves the job to completed.
func Complete(ctx context.Context, s Store, id string, output map[string]any) error {
	if err := s.SetOutput(ctx, id, output); err != nil {
		return err
	}
	if err := s.SetCompletedNow(ctx, id); err != nil {
		return err
	}
	return s.SetStatus(ctx, id, StatusCompleted)
}

// Fail records message and moves the job to failed.
func Fail(ctx context.Context, s Store, id string, message string) error {
	if err := s.SetError(ctx, id, message); err != nil {
		return err
	}
	return s.SetStatus(ctx, id, StatusFailed)
}
