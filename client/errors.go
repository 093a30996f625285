package client

import (
	"fmt"

	hub "github.com/minju-kim98/personal-ai-hub"
)

// InvocationError reports a failed model call. Err is the provider error,
// a configuration error, or the context error when the call timed out.
type InvocationError struct {
	Alias    string
	Model    string
	Provider hub.Provider
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s (%s/%s): %v", e.Alias, e.Provider, e.Model, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// MissingAPIKeyError is returned when a model is used but no API key
// is configured for that model's provider.
type MissingAPIKeyError struct {
	Provider hub.Provider
	Model    string
}

func (e *MissingAPIKeyError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}
