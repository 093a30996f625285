package workflow

import "time"

// Option tunes one Run.
type Option func(*runConfig)

type runConfig struct {
	stepTimeout time.Duration
	maxSteps    int
	events      chan<- Event
}

// WithStepTimeout gives each step its own deadline under the run context.
func WithStepTimeout(d time.Duration) Option {
	return func(rc *runConfig) { rc.stepTimeout = d }
}

// WithMaxSteps stops a run after n step executions. The cover-letter revise
// cycle is bounded by its own counter; this is the backstop.
func WithMaxSteps(n int) Option {
	return func(rc *runConfig) { rc.maxSteps = n }
}

// WithEvents streams run, step and route events to ch. A full channel drops
// events rather than stalling the run.
func WithEvents(ch chan<- Event) Option {
	return func(rc *runConfig) { rc.events = ch }
}

func newRunConfig(opts []Option) *runConfig {
	rc := &runConfig{}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

func (rc *runConfig) emit(ev Event) {
	if rc.events == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case rc.events <- ev:
	default:
	}
}
