package google

import (
	"errors"

	hub "github.com/minju-kim98/personal-ai-hub"
	"google.golang.org/genai"
)

// classify tags genai API errors with a hub category. APIError carries no
// headers, so there is never a retry hint.
func classify(err error) error {
	var apiErr genai.APIError
	if err == nil || !errors.As(err, &apiErr) {
		return err
	}
	return hub.NewStatusError("google api", apiErr.Code, 0, err)
}
