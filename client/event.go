package client

import (
	"time"

	hub "github.com/minju-kim98/personal-ai-hub"
)

// EventType is the phase of a gateway call an Event reports.
type EventType string

const (
	EventRequestStart    EventType = "request_start"
	EventRequestComplete EventType = "request_complete"
	EventRequestError    EventType = "request_error"
)

// Event describes one step of a single Invoke. Usage and CostUSD are only set
// on completion; Error only on failure.
type Event struct {
	Type        EventType
	Alias       string // what the workflow asked for
	Model       string // what the provider was sent
	Provider    hub.Provider
	Temperature float64
	Duration    time.Duration
	Usage       *hub.Usage
	CostUSD     float64
	Error       error
	Timestamp   time.Time
}

// emit delivers ev if the listener has room. Gateway calls never wait on
// observers.
func emit(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case ch <- ev:
	default:
	}
}
