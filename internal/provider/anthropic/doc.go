// Package anthropic adapts the Anthropic Messages API to the gateway's
// single-prompt completion contract.
//
// A Client is bound to one model and one temperature; the gateway caches one
// Client per pair.
//
//	c := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"),
//	    anthropic.WithModel("claude-haiku-4-5-20251001"),
//	    anthropic.WithTemperature(0.7),
//	)
//	resp, err := c.Complete(ctx, "Compare these two letters ...")
//
// API errors are returned as categorized [hub.Error] values so callers can
// tell rate limits and server faults from bad requests.
package anthropic
