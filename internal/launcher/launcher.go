// Package launcher runs generation workflows in the background, detached
// from the request that submitted them.
//
// Run is the single recovery boundary: whatever a workflow returns or
// panics with ends as a failed job, and a failure to record that is only
// logged.
package launcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/minju-kim98/personal-ai-hub/internal/metrics"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/workflow"
)

// ErrUnknownKind is returned for a kind with no registered workflow.
var ErrUnknownKind = errors.New("launcher: unknown job kind")

const eventBuffer = 64

// Launcher creates jobs and runs their workflows.
type Launcher struct {
	registry *Registry
	jobs     job.Store
	logger   *slog.Logger
	runOpts  []workflow.Option

	wg      sync.WaitGroup
	running atomic.Int64
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(lc *Launcher) {
		lc.logger = l
	}
}

// WithRunOptions are passed to every workflow run.
func WithRunOptions(opts ...workflow.Option) Option {
	return func(lc *Launcher) {
		lc.runOpts = append(lc.runOpts, opts...)
	}
}

// New creates a launcher over registry and jobs.
func New(registry *Registry, jobs job.Store, opts ...Option) *Launcher {
	l := &Launcher{
		registry: registry,
		jobs:     jobs,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit creates a pending job and starts its workflow. It returns as soon
// as the job exists; the run continues after ctx is cancelled.
func (l *Launcher) Submit(ctx context.Context, kind job.Kind, userID string, input json.RawMessage) (*job.Job, error) {
	if _, ok := l.registry.Get(kind); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	id, err := l.jobs.Create(ctx, &job.Job{UserID: userID, Kind: kind, Input: input})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	j, err := l.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Launch(ctx, kind, workflows.Request{JobID: id, UserID: userID, Input: input})
	return j, nil
}

// Launch runs the workflow for req on its own goroutine.
func (l *Launcher) Launch(ctx context.Context, kind job.Kind, req workflows.Request) {
	ctx = context.WithoutCancel(ctx)
	l.wg.Add(1)
	l.running.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.running.Add(-1)
		_ = l.Run(ctx, kind, req)
	}()
}

// Run executes one job synchronously: mark it processing, run the workflow,
// and record any failure on the job. The returned error is the workflow's.
func (l *Launcher) Run(ctx context.Context, kind job.Kind, req workflows.Request) (err error) {
	logger := l.logger.With("job_id", req.JobID, "kind", kind)

	metrics.JobsStarted.WithLabelValues(string(kind)).Inc()
	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "workflow panicked", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
		status := job.StatusCompleted
		if err != nil {
			status = job.StatusFailed
			logger.ErrorContext(ctx, "job failed", "error", err)
			l.fail(ctx, logger, req.JobID, err)
		} else {
			logger.InfoContext(ctx, "job completed")
		}
		metrics.JobsFinished.WithLabelValues(string(kind), string(status)).Inc()
	}()

	w, ok := l.registry.Get(kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err := l.jobs.SetStatus(ctx, req.JobID, job.StatusProcessing); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	logger.InfoContext(ctx, "job started")

	events := make(chan workflow.Event, eventBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.observe(ctx, logger, events)
	}()
	defer func() {
		close(events)
		<-done
	}()

	opts := append([]workflow.Option{workflow.WithEvents(events)}, l.runOpts...)
	return w.Run(ctx, req, opts...)
}

// fail is best effort; the job may already be terminal or gone.
func (l *Launcher) fail(ctx context.Context, logger *slog.Logger, id string, cause error) {
	if err := job.Fail(ctx, l.jobs, id, cause.Error()); err != nil {
		logger.WarnContext(ctx, "could not record job failure", "error", err)
	}
}

func (l *Launcher) observe(ctx context.Context, logger *slog.Logger, events <-chan workflow.Event) {
	for ev := range events {
		switch ev.Type {
		case workflow.EventStepEnd:
			metrics.StepDuration.WithLabelValues(ev.Workflow, ev.StepName).Observe(ev.Duration.Seconds())
			logger.DebugContext(ctx, "step finished", "step", ev.StepName, "duration", ev.Duration)
		case workflow.EventStepError:
			metrics.StepDuration.WithLabelValues(ev.Workflow, ev.StepName).Observe(ev.Duration.Seconds())
			logger.DebugContext(ctx, "step failed", "step", ev.StepName, "error", ev.Error)
		case workflow.EventRouteSelected:
			logger.DebugContext(ctx, "route selected", "step", ev.StepName, "route", ev.Route, "next", ev.Next)
		}
	}
}

// Running reports how many launched runs have not finished.
func (l *Launcher) Running() int {
	return int(l.running.Load())
}

// Wait blocks until every launched run finishes or ctx is done.
func (l *Launcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
