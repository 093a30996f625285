package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/minju-kim98/personal-ai-hub/job"
)

var _ job.Store = (*Store)(nil)

// Create stores j as pending.
func (s *Store) Create(_ context.Context, j *job.Job) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *j
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if _, ok := s.jobs[rec.ID]; ok {
		return "", fmt.Errorf("job %s already exists", rec.ID)
	}
	rec.Status = job.StatusPending
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	raw, err := encode(rec)
	if err != nil {
		return "", err
	}
	s.jobs[rec.ID] = raw
	return rec.ID, nil
}

// Get returns a copy of the job.
func (s *Store) Get(_ context.Context, id string) (*job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(id)
}

func (s *Store) load(id string) (*job.Job, error) {
	raw, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, job.ErrNotFound)
	}
	return decode[job.Job](raw)
}

// update applies fn to a live job under the write lock. Terminal jobs are
// rejected before fn runs.
func (s *Store) update(id string, fn func(j *job.Job) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.load(id)
	if err != nil {
		return err
	}
	if j.Status.Terminal() {
		return fmt.Errorf("job %s is %s: %w", id, j.Status, job.ErrTerminal)
	}
	if err := fn(j); err != nil {
		return err
	}
	raw, err := encode(j)
	if err != nil {
		return err
	}
	s.jobs[id] = raw
	return nil
}

func (s *Store) SetStatus(_ context.Context, id string, status job.Status) error {
	return s.update(id, func(j *job.Job) error {
		if err := job.CheckTransition(id, j.Status, status); err != nil {
			return err
		}
		j.Status = status
		return nil
	})
}

func (s *Store) MergeProgress(_ context.Context, id string, progress map[string]any) error {
	return s.update(id, func(j *job.Job) error {
		if err := job.CheckTransition(id, j.Status, job.StatusProcessing); err != nil {
			return err
		}
		j.Status = job.StatusProcessing
		j.Progress = progress
		return nil
	})
}

func (s *Store) SetOutput(_ context.Context, id string, output map[string]any) error {
	return s.update(id, func(j *job.Job) error {
		j.Output = output
		return nil
	})
}

func (s *Store) SetError(_ context.Context, id string, message string) error {
	return s.update(id, func(j *job.Job) error {
		j.Error = message
		return nil
	})
}

func (s *Store) SetCompletedNow(_ context.Context, id string) error {
	return s.update(id, func(j *job.Job) error {
		now := s.now()
		j.CompletedAt = &now
		return nil
	})
}

func (s *Store) LoadInput(ctx context.Context, id string) (json.RawMessage, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return j.Input, nil
}

// CreateArtifact stores the single artifact for jobID.
func (s *Store) CreateArtifact(_ context.Context, kind job.Kind, jobID string, fields map[string]any) (*job.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.load(jobID)
	if err != nil {
		return nil, err
	}
	if j.Status.Terminal() {
		return nil, fmt.Errorf("job %s is %s: %w", jobID, j.Status, job.ErrTerminal)
	}
	if _, ok := s.artifacts[jobID]; ok {
		return nil, fmt.Errorf("job %s: %w", jobID, job.ErrArtifactExists)
	}

	a := &job.Artifact{
		ID:        s.newID(),
		JobID:     jobID,
		Kind:      kind,
		Fields:    fields,
		CreatedAt: s.now(),
	}
	raw, err := encode(a)
	if err != nil {
		return nil, err
	}
	s.artifacts[jobID] = raw
	return decode[job.Artifact](raw)
}

func (s *Store) GetArtifact(_ context.Context, jobID string) (*job.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.artifacts[jobID]
	if !ok {
		return nil, fmt.Errorf("artifact for job %s: %w", jobID, job.ErrNotFound)
	}
	return decode[job.Artifact](raw)
}
