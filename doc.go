// Package hub holds the types shared by every layer of the personal AI hub:
// the error taxonomy used to classify provider failures, provider identifiers,
// and the options accepted by a single model invocation.
//
// The hub runs document-generation jobs (cover letters, proposals, travel plans,
// weekly reports, translations) as multi-step workflows over large language
// models, and periodically ingests news from RSS feeds.
//
// # Layout
//
//   - [github.com/minju-kim98/personal-ai-hub/model]: logical model aliases
//   - [github.com/minju-kim98/personal-ai-hub/client]: the model gateway
//   - [github.com/minju-kim98/personal-ai-hub/extract]: JSON extraction with fallbacks
//   - [github.com/minju-kim98/personal-ai-hub/job]: jobs, documents, artifacts and their stores
//   - [github.com/minju-kim98/personal-ai-hub/workflow]: the step graph engine
//
// # Basic Usage
//
//	gw := client.New(client.Config{
//	    APIKeys: client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	})
//
//	text, err := gw.Invoke(ctx, "gpt-5-mini", "Summarize this posting ...",
//	    hub.WithTemperature(0.2))
//	if err != nil {
//	    var invErr *client.InvocationError
//	    if errors.As(err, &invErr) && hub.IsTransient(err) {
//	        // surface as a failed job; callers decide whether to resubmit
//	    }
//	}
package hub
