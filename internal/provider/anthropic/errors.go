package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	hub "github.com/minju-kim98/personal-ai-hub"
)

// classify tags SDK API errors with a hub category and the server's retry
// hint. Transport and context errors are returned as they are.
func classify(err error) error {
	var apiErr *anthropic.Error
	if err == nil || !errors.As(err, &apiErr) {
		return err
	}
	return hub.NewStatusError("anthropic api", apiErr.StatusCode, hub.ParseRetryAfter(apiErr.Response), err)
}
