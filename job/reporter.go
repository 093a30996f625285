package job

import "context"

// Reporter writes progress snapshots for one job.
type Reporter struct {
	store Store
	id    string
}

// NewReporter binds a reporter to job id.
func NewReporter(s Store, id string) *Reporter {
	return &Reporter{store: s, id: id}
}

// Progress replaces the job's progress with p.
func (r *Reporter) Progress(ctx context.Context, p map[string]any) error {
	return r.store.MergeProgress(ctx, r.id, p)
}

// Step is shorthand for the common {current_step, message} snapshot.
func (r *Reporter) Step(ctx context.Context, step, message string) error {
	return r.Progress(ctx, map[string]any{"current_step": step, "message": message})
}
