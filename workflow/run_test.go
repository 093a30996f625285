package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loopGraph increments Count until it reaches limit, then ends.
func loopGraph(t *testing.T, limit int) *Graph[counterState] {
	t.Helper()
	g, err := NewGraph[counterState]("loop").
		AddStep("start", appendStep("start")).
		AddStep("inc", func(_ context.Context, s *counterState) error {
			s.Count++
			s.Log = append(s.Log, "inc")
			return nil
		}).
		AddStep("finish", appendStep("finish")).
		SetEntry("start").
		AddEdge("start", "inc").
		AddConditionalEdge("inc", func(s *counterState) string {
			if s.Count >= limit {
				return "done"
			}
			return "more"
		}, map[string]string{"more": "inc", "done": "finish"}).
		AddEdge("finish", End).
		Compile()
	require.NoError(t, err)
	return g
}

func TestRunSequentialWithCycle(t *testing.T) {
	g := loopGraph(t, 3)
	state := &counterState{}

	res, err := g.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, TerminationComplete, res.Termination)
	assert.Equal(t, []string{"start", "inc", "inc", "inc", "finish"}, res.Path)
	assert.Equal(t, 3, res.Visits("inc"))
	assert.Same(t, state, res.State)
	assert.Equal(t, 3, state.Count)
	assert.Equal(t, res.Path, state.Log)
}

func TestRunDecisionSeesPostStepState(t *testing.T) {
	var seen []int
	g, err := NewGraph[counterState]("post").
		AddStep("inc", func(_ context.Context, s *counterState) error {
			s.Count = 42
			return nil
		}).
		SetEntry("inc").
		AddConditionalEdge("inc", func(s *counterState) string {
			seen = append(seen, s.Count)
			return "end"
		}, map[string]string{"end": End}).
		Compile()
	require.NoError(t, err)

	_, err = g.Run(context.Background(), &counterState{})
	require.NoError(t, err)
	assert.Equal(t, []int{42}, seen)
}

func TestRunInvalidTransition(t *testing.T) {
	ran := false
	g, err := NewGraph[counterState]("bad-label").
		AddStep("a", appendStep("a")).
		AddStep("b", func(context.Context, *counterState) error {
			ran = true
			return nil
		}).
		SetEntry("a").
		AddConditionalEdge("a", func(*counterState) string { return "surprise" }, map[string]string{"ok": "b"}).
		AddEdge("b", End).
		Compile()
	require.NoError(t, err)

	res, err := g.Run(context.Background(), &counterState{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "a", te.From)
	assert.Equal(t, "surprise", te.Label)
	assert.Equal(t, []string{"ok"}, te.Declared)

	var se *StepError
	assert.False(t, errors.As(err, &se), "transition faults are not step failures")
	assert.Equal(t, TerminationInvalidTransition, res.Termination)
	assert.False(t, ran)
}

func TestRunStepErrorAbortsRemainingSteps(t *testing.T) {
	boom := errors.New("provider exploded")
	var ran []string
	record := func(name string, err error) StepFunc[counterState] {
		return func(context.Context, *counterState) error {
			ran = append(ran, name)
			return err
		}
	}

	g, err := NewGraph[counterState]("abort").
		AddStep("a", record("a", nil)).
		AddStep("b", record("b", boom)).
		AddStep("save", record("save", nil)).
		SetEntry("a").
		AddEdge("a", "b").
		AddEdge("b", "save").
		AddEdge("save", End).
		Compile()
	require.NoError(t, err)

	res, err := g.Run(context.Background(), &counterState{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "b", se.StepName)
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Equal(t, []string{"a", "b"}, res.Path)
	assert.Equal(t, TerminationError, res.Termination)
}

func TestRunNoImplicitStepCeiling(t *testing.T) {
	g := loopGraph(t, 500)
	res, err := g.Run(context.Background(), &counterState{})
	require.NoError(t, err)
	assert.Equal(t, 500, res.Visits("inc"))
}

func TestRunWithMaxSteps(t *testing.T) {
	g := loopGraph(t, 1000)
	res, err := g.Run(context.Background(), &counterState{}, WithMaxSteps(10))
	require.ErrorIs(t, err, ErrMaxSteps)
	assert.Len(t, res.Path, 10)
	assert.Equal(t, TerminationMaxSteps, res.Termination)
}

func TestRunStepTimeout(t *testing.T) {
	g, err := NewGraph[counterState]("slow").
		AddStep("wait", func(ctx context.Context, _ *counterState) error {
			<-ctx.Done()
			return ctx.Err()
		}).
		SetEntry("wait").
		AddEdge("wait", End).
		Compile()
	require.NoError(t, err)

	_, err = g.Run(context.Background(), &counterState{}, WithStepTimeout(10*time.Millisecond))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := loopGraph(t, 1).Run(ctx, &counterState{})
	require.ErrorIs(t, err, ErrWorkflowCancelled)
	assert.Empty(t, res.Path)
	assert.Equal(t, TerminationCancelled, res.Termination)
}

func TestRunEvents(t *testing.T) {
	events := make(chan Event, 32)
	_, err := loopGraph(t, 2).Run(context.Background(), &counterState{}, WithEvents(events))
	require.NoError(t, err)
	close(events)

	var types []EventType
	var routes []string
	for ev := range events {
		types = append(types, ev.Type)
		if ev.Type == EventRouteSelected {
			routes = append(routes, ev.Route+"->"+ev.Next)
		}
		assert.Equal(t, "loop", ev.Workflow)
	}
	assert.Equal(t, EventRunStart, types[0])
	assert.Equal(t, EventRunEnd, types[len(types)-1])
	assert.Equal(t, []string{"more->inc", "done->finish"}, routes)
}

func TestGraphSafeForConcurrentRuns(t *testing.T) {
	g := loopGraph(t, 5)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := &counterState{}
			res, err := g.Run(context.Background(), s)
			assert.NoError(t, err)
			assert.Equal(t, 5, s.Count)
			assert.Len(t, res.Path, 7)
		}()
	}
	wg.Wait()
}
