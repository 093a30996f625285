// Package client is the model gateway: it turns a logical model alias into a
// configured provider client and sends single-prompt completions through it.
//
// Aliases are resolved through the model package. A provider client is built
// lazily the first time a (model, temperature) pair is used and is reused for
// the life of the process:
//
//	gw := client.New(client.Config{
//	    APIKeys: client.APIKeys{
//	        Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
//	        Google:    os.Getenv("GOOGLE_API_KEY"),
//	    },
//	    Timeout: 3 * time.Minute,
//	})
//
//	text, err := gw.Invoke(ctx, "claude-sonnet-4.5", prompt)
//
// The gateway never retries. A provider failure is returned once as an
// [InvocationError]; deciding what to do next belongs to the caller.
//
// # Events
//
// Config.Events receives request start, completion and error events. Sends
// never block; a full channel drops events.
package client
