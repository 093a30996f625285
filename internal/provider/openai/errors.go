package openai

import (
	"errors"

	hub "github.com/minju-kim98/personal-ai-hub"
	"github.com/openai/openai-go"
)

// classify tags SDK API errors with a hub category and the server's retry
// hint. Transport and context errors are returned as they are.
func classify(err error) error {
	var apiErr *openai.Error
	if err == nil || !errors.As(err, &apiErr) {
		return err
	}
	return hub.NewStatusError("openai api", apiErr.StatusCode, hub.ParseRetryAfter(apiErr.Response), err)
}
