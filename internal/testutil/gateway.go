// Package testutil holds shared test helpers: a scripted model gateway and
// a Postgres endpoint for integration tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hub "github.com/minju-kim98/personal-ai-hub"
)

// Reply is one scripted gateway answer.
type Reply struct {
	Text string
	Err  error
}

// Text scripts a successful reply.
func Text(s string) Reply { return Reply{Text: s} }

// Fail scripts a failing call.
func Fail(err error) Reply { return Reply{Err: err} }

// Call records one gateway invocation.
type Call struct {
	Alias  string
	Prompt string
}

type rule struct {
	alias    string
	contains string
	replies  []Reply
	served   int
}

func (r *rule) matches(alias, prompt string) bool {
	return (r.alias == "" || r.alias == alias) && strings.Contains(prompt, r.contains)
}

// next returns scripted replies in order, repeating the last one.
func (r *rule) next() Reply {
	i := r.served
	if i >= len(r.replies) {
		i = len(r.replies) - 1
	}
	r.served++
	return r.replies[i]
}

// Gateway is a scripted stand-in for the model gateway. Rules are matched
// in the order they were added; an unmatched call fails.
type Gateway struct {
	mu    sync.Mutex
	rules []*rule
	def   *Reply
	calls []Call
}

// NewGateway returns a gateway with no rules.
func NewGateway() *Gateway {
	return &Gateway{}
}

// On answers calls to alias whose prompt contains substr. An empty alias
// matches any model.
func (g *Gateway) On(alias, substr string, replies ...Reply) *Gateway {
	if len(replies) == 0 {
		panic("testutil: On needs at least one reply")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules = append(g.rules, &rule{alias: alias, contains: substr, replies: replies})
	return g
}

// Default answers every call no rule matches.
func (g *Gateway) Default(r Reply) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.def = &r
	return g
}

// Invoke implements the workflows' gateway contract.
func (g *Gateway) Invoke(ctx context.Context, alias, prompt string, _ ...hub.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, Call{Alias: alias, Prompt: prompt})

	for _, r := range g.rules {
		if r.matches(alias, prompt) {
			reply := r.next()
			return reply.Text, reply.Err
		}
	}
	if g.def != nil {
		return g.def.Text, g.def.Err
	}
	return "", fmt.Errorf("testutil: no scripted reply for %s (prompt %.60q)", alias, prompt)
}

// Calls returns every invocation so far.
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// Count returns how many calls went to alias with a prompt containing substr.
func (g *Gateway) Count(alias, substr string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if (alias == "" || c.Alias == alias) && strings.Contains(c.Prompt, substr) {
			n++
		}
	}
	return n
}

// Aliases lists the alias of every call in order.
func (g *Gateway) Aliases() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	for i, c := range g.calls {
		out[i] = c.Alias
	}
	return out
}
