package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/minju-kim98/personal-ai-hub/job"
)

var _ job.Store = (*Store)(nil)

const jobColumns = `id, user_id, kind, status, input, progress, output, error, created_at, completed_at`

func (s *Store) Create(ctx context.Context, j *job.Job) (string, error) {
	id := j.ID
	if id == "" {
		id = s.newID()
	}
	created := j.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	input := []byte(j.Input)
	if len(input) == 0 {
		input = []byte("{}")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, user_id, kind, status, input, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, j.UserID, string(j.Kind), string(job.StatusPending), input, created,
	)
	if err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (*job.Job, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, job.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func scanJob(row pgx.Row) (*job.Job, error) {
	var (
		j                       job.Job
		kind, status            string
		input, progress, output []byte
		completed               *time.Time
	)
	if err := row.Scan(&j.ID, &j.UserID, &kind, &status, &input, &progress, &output,
		&j.Error, &j.CreatedAt, &completed); err != nil {
		return nil, err
	}
	j.Kind, j.Status = job.Kind(kind), job.Status(status)
	j.Input = json.RawMessage(input)
	j.CompletedAt = completed

	var err error
	if j.Progress, err = decodeMap(progress); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	if j.Output, err = decodeMap(output); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	return &j, nil
}

// mutate locks the job row, rejects terminal jobs, and runs fn in the same
// transaction.
func (s *Store) mutate(ctx context.Context, id string, fn func(tx pgx.Tx, status job.Status) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("job %s: %w", id, job.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock job: %w", err)
	}
	current := job.Status(status)
	if current.Terminal() {
		return fmt.Errorf("job %s is %s: %w", id, current, job.ErrTerminal)
	}

	if err := fn(tx, current); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) SetStatus(ctx context.Context, id string, status job.Status) error {
	return s.mutate(ctx, id, func(tx pgx.Tx, current job.Status) error {
		if err := job.CheckTransition(id, current, status); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE jobs SET status = $1 WHERE id = $2`, string(status), id)
		return err
	})
}

func (s *Store) MergeProgress(ctx context.Context, id string, progress map[string]any) error {
	raw, err := jsonColumn(progress)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	return s.mutate(ctx, id, func(tx pgx.Tx, current job.Status) error {
		if err := job.CheckTransition(id, current, job.StatusProcessing); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE jobs SET status = $1, progress = $2 WHERE id = $3`,
			string(job.StatusProcessing), raw, id)
		return err
	})
}

func (s *Store) SetOutput(ctx context.Context, id string, output map[string]any) error {
	raw, err := jsonColumn(output)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return s.mutate(ctx, id, func(tx pgx.Tx, _ job.Status) error {
		_, err := tx.Exec(ctx, `UPDATE jobs SET output = $1 WHERE id = $2`, raw, id)
		return err
	})
}

func (s *Store) SetError(ctx context.Context, id string, message string) error {
	return s.mutate(ctx, id, func(tx pgx.Tx, _ job.Status) error {
		_, err := tx.Exec(ctx, `UPDATE jobs SET error = $1 WHERE id = $2`, message, id)
		return err
	})
}

func (s *Store) SetCompletedNow(ctx context.Context, id string) error {
	now := s.now()
	return s.mutate(ctx, id, func(tx pgx.Tx, _ job.Status) error {
		_, err := tx.Exec(ctx, `UPDATE jobs SET completed_at = $1 WHERE id = $2`, now, id)
		return err
	})
}

func (s *Store) LoadInput(ctx context.Context, id string) (json.RawMessage, error) {
	var input []byte
	err := s.pool.QueryRow(ctx, `SELECT input FROM jobs WHERE id = $1`, id).Scan(&input)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, job.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}
	return json.RawMessage(input), nil
}

func (s *Store) CreateArtifact(ctx context.Context, kind job.Kind, jobID string, fields map[string]any) (*job.Artifact, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	a := &job.Artifact{
		ID:        s.newID(),
		JobID:     jobID,
		Kind:      kind,
		CreatedAt: s.now(),
	}

	err = s.mutate(ctx, jobID, func(tx pgx.Tx, _ job.Status) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM artifacts WHERE job_id = $1)`, jobID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("job %s: %w", jobID, job.ErrArtifactExists)
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO artifacts (id, job_id, kind, fields, created_at) VALUES ($1, $2, $3, $4, $5)`,
			a.ID, jobID, string(kind), raw, a.CreatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	if a.Fields, err = decodeMap(raw); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) GetArtifact(ctx context.Context, jobID string) (*job.Artifact, error) {
	var (
		a    job.Artifact
		kind string
		raw  []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, job_id, kind, fields, created_at FROM artifacts WHERE job_id = $1`, jobID,
	).Scan(&a.ID, &a.JobID, &kind, &raw, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("artifact for job %s: %w", jobID, job.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	a.Kind = job.Kind(kind)
	if a.Fields, err = decodeMap(raw); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &a, nil
}
