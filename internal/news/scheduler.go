package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduled job names, also accepted by RunNow.
const (
	JobFetch   = "news_fetch"
	JobCleanup = "news_cleanup"
)

// Default schedules.
const (
	FetchInterval   = "@every 6h"
	MorningFetch    = "0 6 * * *"
	CleanupSchedule = "0 3 * * *"
)

// ErrUnknownJob is returned by RunNow for an unrecognized name.
var ErrUnknownJob = errors.New("news: unknown job")

// RunResult is what a manual run reports.
type RunResult struct {
	Job     string `json:"job"`
	Stats   *Stats `json:"stats,omitempty"`
	Deleted int    `json:"deleted,omitempty"`
}

// Scheduler runs ingestion and cleanup on cron schedules. Overlapping runs
// of the same entry are skipped.
type Scheduler struct {
	cron      *cron.Cron
	ingestor  *Ingestor
	retention time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithRetention sets how long Cleanup keeps articles.
func WithRetention(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.retention = d
	}
}

// WithLocation sets the time zone cron expressions are read in.
func WithLocation(loc *time.Location) SchedulerOption {
	return func(s *Scheduler) {
		s.cron = newCron(s.logger, loc)
	}
}

// WithRunTimeout bounds each scheduled run.
func WithRunTimeout(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(ingestor *Ingestor, logger *slog.Logger, opts ...SchedulerOption) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cron:      newCron(logger, time.Local),
		ingestor:  ingestor,
		retention: DefaultRetention,
		timeout:   time.Hour,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newCron(logger *slog.Logger, loc *time.Location) *cron.Cron {
	l := cronLogger{logger}
	return cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	entries := []struct {
		spec string
		job  string
	}{
		{FetchInterval, JobFetch},
		{MorningFetch, JobFetch},
		{CleanupSchedule, JobCleanup},
	}
	for _, e := range entries {
		name := e.job
		if _, err := s.cron.AddFunc(e.spec, func() { s.scheduled(name) }); err != nil {
			return fmt.Errorf("schedule %s %q: %w", name, e.spec, err)
		}
	}
	s.cron.Start()
	s.logger.Info("news scheduler started", "entries", len(s.cron.Entries()))
	return nil
}

// Stop halts the schedule and waits for running jobs or ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("news scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries reports the registered schedule count.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) scheduled(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.RunNow(ctx, name); err != nil {
		s.logger.Error("scheduled news job failed", "job", name, "error", err)
	}
}

// RunNow runs a job immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) (*RunResult, error) {
	switch name {
	case JobFetch:
		stats, err := s.ingestor.Run(ctx)
		if err != nil {
			return nil, err
		}
		return &RunResult{Job: name, Stats: &stats}, nil
	case JobCleanup:
		n, err := s.ingestor.Cleanup(ctx, s.retention)
		if err != nil {
			return nil, err
		}
		return &RunResult{Job: name, Deleted: n}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
