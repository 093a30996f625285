package job

import (
	"encoding/json"
	"time"
)

// Kind identifies which workflow a job runs.
type Kind string

const (
	KindCoverLetter  Kind = "cover_letter"
	KindProposal     Kind = "proposal"
	KindTranslate    Kind = "translate"
	KindTravel       Kind = "travel"
	KindWeeklyReport Kind = "weekly_report"
)

// Kinds returns every known kind.
func Kinds() []Kind {
	return []Kind{KindCoverLetter, KindProposal, KindTranslate, KindTravel, KindWeeklyReport}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindCoverLetter, KindProposal, KindTranslate, KindTravel, KindWeeklyReport:
		return true
	}
	return false
}

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether a job in s may move to to.
// processing -> processing is allowed so progress writes can reassert it.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusProcessing || to == StatusFailed
	case StatusProcessing:
		return to == StatusProcessing || to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// Job is one generation request.
type Job struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Kind        Kind            `json:"kind"`
	Status      Status          `json:"status"`
	Input       json.RawMessage `json:"input"`
	Progress    map[string]any  `json:"progress,omitempty"`
	Output      map[string]any  `json:"output,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Artifact is the durable result of a finished workflow, one per job.
type Artifact struct {
	ID        string         `json:"id"`
	JobID     string         `json:"job_id"`
	Kind      Kind           `json:"kind"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
}
