// Package workflows holds what the generation workflows share: their
// dependencies, the run request, and input decoding.
package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	hub "github.com/minju-kim98/personal-ai-hub"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/workflow"
)

// Invoker is the slice of the model gateway the workflows need.
type Invoker interface {
	Invoke(ctx context.Context, alias, prompt string, opts ...hub.Option) (string, error)
}

// Deps are the collaborators every workflow is built with.
type Deps struct {
	Gateway   Invoker
	Jobs      job.Store
	Documents job.DocumentStore
	Now       func() time.Time
	Logger    *slog.Logger
}

// WithDefaults fills the optional fields.
func (d Deps) WithDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// Check reports missing required collaborators.
func (d Deps) Check(needDocuments bool) error {
	switch {
	case d.Gateway == nil:
		return fmt.Errorf("workflows: gateway is required")
	case d.Jobs == nil:
		return fmt.Errorf("workflows: job store is required")
	case needDocuments && d.Documents == nil:
		return fmt.Errorf("workflows: document store is required")
	}
	return nil
}

// Request starts one run of a workflow for an existing job.
type Request struct {
	JobID  string
	UserID string
	Input  json.RawMessage
}

// Workflow is a compiled generation workflow ready to run jobs of one kind.
type Workflow interface {
	Kind() job.Kind
	Run(ctx context.Context, req Request, opts ...workflow.Option) error
}

var validate = validator.New()

// DecodeInput unmarshals raw into T and validates its struct tags.
func DecodeInput[T any](raw json.RawMessage) (*T, error) {
	var in T
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := validate.Struct(&in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return &in, nil
}

// ValidateInput checks struct tags on an already-decoded input.
func ValidateInput(in any) error {
	return validate.Struct(in)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// OrDefault returns s, or def when s is empty.
func OrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// MustJSON renders v for embedding in a prompt.
func MustJSON(v any, indent bool) string {
	var b []byte
	var err error
	if indent {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return "{}"
	}
	return string(b)
}
