package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	Count int
	Log   []string
}

func appendStep(name string) StepFunc[counterState] {
	return func(_ context.Context, s *counterState) error {
		s.Log = append(s.Log, name)
		return nil
	}
}

func TestCompileValidGraph(t *testing.T) {
	g, err := NewGraph[counterState]("ok").
		AddStep("a", appendStep("a")).
		AddStep("b", appendStep("b")).
		AddStep("c", appendStep("c")).
		SetEntry("a").
		AddEdge("a", "b").
		AddConditionalEdge("b", func(*counterState) string { return "done" }, map[string]string{
			"again": "a",
			"other": "c",
			"done":  End,
		}).
		AddEdge("c", End).
		Compile()
	require.NoError(t, err)

	assert.Equal(t, "ok", g.Name())
	assert.Equal(t, "a", g.Entry())
	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())
	assert.Equal(t, []string{"b"}, g.Successors("a"))
	assert.Equal(t, []string{End, "a", "c"}, g.Successors("b"))
	assert.Equal(t, []string{"again", "done", "other"}, g.Labels("b"))
	assert.Nil(t, g.Labels("a"))
	assert.Nil(t, g.Successors("missing"))
}

func TestCompileReportsProblems(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Builder[counterState]
		problem string
	}{
		{
			name: "no entry",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep("a", appendStep("a")).AddEdge("a", End)
			},
			problem: "no entry step",
		},
		{
			name: "entry not a step",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep("a", appendStep("a")).AddEdge("a", End).SetEntry("z")
			},
			problem: `entry "z" is not a step`,
		},
		{
			name: "duplicate step",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep("a", appendStep("a")).AddStep("a", appendStep("a")).SetEntry("a").AddEdge("a", End)
			},
			problem: `duplicate step "a"`,
		},
		{
			name: "reserved name",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep(End, appendStep("x"))
			},
			problem: "reserved or empty step name",
		},
		{
			name: "dangling step",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep("a", appendStep("a")).AddStep("b", appendStep("b")).SetEntry("a").AddEdge("a", End)
			},
			problem: `step "b" has no outgoing edge`,
		},
		{
			name: "unknown target",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep("a", appendStep("a")).SetEntry("a").AddEdge("a", "nowhere")
			},
			problem: `edge "a" -> unknown step "nowhere"`,
		},
		{
			name: "unknown route target",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep("a", appendStep("a")).SetEntry("a").
					AddConditionalEdge("a", func(*counterState) string { return "x" }, map[string]string{"x": "nowhere"})
			},
			problem: `route "x" from "a" -> unknown step "nowhere"`,
		},
		{
			name: "two outgoing edges",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep("a", appendStep("a")).SetEntry("a").AddEdge("a", End).AddEdge("a", End)
			},
			problem: `step "a" already has an outgoing edge`,
		},
		{
			name: "edge from unknown step",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep("a", appendStep("a")).SetEntry("a").AddEdge("a", End).AddEdge("ghost", End)
			},
			problem: `edge from unknown step "ghost"`,
		},
		{
			name: "empty conditional",
			build: func() *Builder[counterState] {
				return NewGraph[counterState]("g").AddStep("a", appendStep("a")).SetEntry("a").AddConditionalEdge("a", nil, nil)
			},
			problem: "needs a decision",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := tt.build().Compile()
			assert.Nil(t, g)
			require.ErrorIs(t, err, ErrInvalidGraph)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewGraph[counterState]("bad").MustCompile()
	})
}

func TestCompiledGraphIgnoresLaterBuilderChanges(t *testing.T) {
	routes := map[string]string{"done": End}
	b := NewGraph[counterState]("g").
		AddStep("a", appendStep("a")).
		SetEntry("a").
		AddConditionalEdge("a", func(*counterState) string { return "done" }, routes)
	g, err := b.Compile()
	require.NoError(t, err)

	routes["done"] = "nowhere"
	b.AddStep("late", appendStep("late")).AddEdge("late", End)
	assert.NotContains(t, g.steps, "late")
	assert.NotContains(t, g.edges, "late")

	_, err = g.Run(context.Background(), &counterState{})
	assert.NoError(t, err)
}
