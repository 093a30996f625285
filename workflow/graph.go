package workflow

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
)

// End is the reserved target that terminates a run.
const End = "__end__"

// StepFunc mutates the run's state. A non-nil error aborts the run.
type StepFunc[S any] func(ctx context.Context, state *S) error

// DecideFunc picks a label for a conditional edge from the post-step state.
type DecideFunc[S any] func(state *S) string

type edge[S any] struct {
	to     string // unconditional target
	decide DecideFunc[S]
	routes map[string]string
}

func (e edge[S]) conditional() bool { return e.decide != nil }

// Builder declares a graph. Problems are collected and reported by Compile.
type Builder[S any] struct {
	name     string
	order    []string
	steps    map[string]StepFunc[S]
	edges    map[string]edge[S]
	entry    string
	problems []string
}

// NewGraph starts a graph declaration.
func NewGraph[S any](name string) *Builder[S] {
	return &Builder[S]{
		name:  name,
		steps: make(map[string]StepFunc[S]),
		edges: make(map[string]edge[S]),
	}
}

func (b *Builder[S]) problem(format string, args ...any) {
	b.problems = append(b.problems, fmt.Sprintf(format, args...))
}

// AddStep declares a named step.
func (b *Builder[S]) AddStep(name string, fn StepFunc[S]) *Builder[S] {
	switch {
	case name == "" || name == End:
		b.problem("reserved or empty step name %q", name)
	case fn == nil:
		b.problem("step %q has no function", name)
	case b.steps[name] != nil:
		b.problem("duplicate step %q", name)
	default:
		b.steps[name] = fn
		b.order = append(b.order, name)
	}
	return b
}

// SetEntry sets the first step.
func (b *Builder[S]) SetEntry(name string) *Builder[S] {
	if b.entry != "" {
		b.problem("entry already set to %q", b.entry)
	}
	b.entry = name
	return b
}

// AddEdge declares an unconditional transition. to may be End.
func (b *Builder[S]) AddEdge(from, to string) *Builder[S] {
	if _, ok := b.edges[from]; ok {
		b.problem("step %q already has an outgoing edge", from)
		return b
	}
	b.edges[from] = edge[S]{to: to}
	return b
}

// AddConditionalEdge declares that after from runs, decide picks a label and
// routes maps that label to the next step (or End).
func (b *Builder[S]) AddConditionalEdge(from string, decide DecideFunc[S], routes map[string]string) *Builder[S] {
	if _, ok := b.edges[from]; ok {
		b.problem("step %q already has an outgoing edge", from)
		return b
	}
	if decide == nil || len(routes) == 0 {
		b.problem("conditional edge from %q needs a decision and at least one route", from)
		return b
	}
	copied := make(map[string]string, len(routes))
	for label, to := range routes {
		copied[label] = to
	}
	b.edges[from] = edge[S]{decide: decide, routes: copied}
	return b
}

// Compile validates the declaration and returns an immutable graph.
func (b *Builder[S]) Compile() (*Graph[S], error) {
	problems := append([]string(nil), b.problems...)
	exists := func(name string) bool {
		_, ok := b.steps[name]
		return ok || name == End
	}

	if b.entry == "" {
		problems = append(problems, "no entry step")
	} else if _, ok := b.steps[b.entry]; !ok {
		problems = append(problems, fmt.Sprintf("entry %q is not a step", b.entry))
	}

	for _, name := range b.order {
		if _, ok := b.edges[name]; !ok {
			problems = append(problems, fmt.Sprintf("step %q has no outgoing edge", name))
		}
	}

	froms := make([]string, 0, len(b.edges))
	for from := range b.edges {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, from := range froms {
		if _, ok := b.steps[from]; !ok {
			problems = append(problems, fmt.Sprintf("edge from unknown step %q", from))
		}
		e := b.edges[from]
		if !e.conditional() {
			if !exists(e.to) {
				problems = append(problems, fmt.Sprintf("edge %q -> unknown step %q", from, e.to))
			}
			continue
		}
		for _, label := range sortedKeys(e.routes) {
			if to := e.routes[label]; !exists(to) {
				problems = append(problems, fmt.Sprintf("route %q from %q -> unknown step %q", label, from, to))
			}
		}
	}

	if len(problems) > 0 {
		return nil, &GraphError{Workflow: b.name, Problems: problems}
	}

	return &Graph[S]{
		name:  b.name,
		entry: b.entry,
		order: slices.Clone(b.order),
		steps: maps.Clone(b.steps),
		edges: maps.Clone(b.edges),
	}, nil
}

// MustCompile is Compile for package-level graphs; it panics on error.
func (b *Builder[S]) MustCompile() *Graph[S] {
	g, err := b.Compile()
	if err != nil {
		panic(err)
	}
	return g
}

// Graph is a compiled, immutable workflow graph. It is safe for concurrent runs.
type Graph[S any] struct {
	name  string
	entry string
	order []string
	steps map[string]StepFunc[S]
	edges map[string]edge[S]
}

// Name returns the graph name.
func (g *Graph[S]) Name() string { return g.name }

// Entry returns the first step.
func (g *Graph[S]) Entry() string { return g.entry }

// Nodes returns step names in declaration order.
func (g *Graph[S]) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Successors returns the possible next steps of name, sorted. End is
// included when reachable.
func (g *Graph[S]) Successors(name string) []string {
	e, ok := g.edges[name]
	if !ok {
		return nil
	}
	if !e.conditional() {
		return []string{e.to}
	}
	seen := make(map[string]bool)
	var out []string
	for _, to := range e.routes {
		if !seen[to] {
			seen[to] = true
			out = append(out, to)
		}
	}
	sort.Strings(out)
	return out
}

// Labels returns the declared labels of a conditional edge, sorted.
func (g *Graph[S]) Labels(name string) []string {
	e, ok := g.edges[name]
	if !ok || !e.conditional() {
		return nil
	}
	return sortedKeys(e.routes)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
