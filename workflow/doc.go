// Package workflow runs a declared graph of named steps against one mutable
// state value.
//
// A graph is declared once with a Builder and compiled into an immutable
// Graph that any number of runs may share. Each run owns its own state:
//
//	type State struct {
//	    Draft string
//	    Score float64
//	    Iteration int
//	}
//
//	g, err := workflow.NewGraph[State]("cover_letter").
//	    AddStep("draft", draft).
//	    AddStep("compare", compare).
//	    AddStep("revise", revise).
//	    AddStep("finalize", finalize).
//	    SetEntry("draft").
//	    AddEdge("draft", "compare").
//	    AddConditionalEdge("compare", decide, map[string]string{
//	        "revise":   "revise",
//	        "finalize": "finalize",
//	    }).
//	    AddEdge("revise", "compare").
//	    AddEdge("finalize", workflow.End).
//	    Compile()
//
//	res, err := g.Run(ctx, &State{})
//
// # Execution
//
// Steps run strictly one after another. After a step returns, its outgoing
// edge picks the next step; a conditional edge calls its DecideFunc on the
// state the step just produced. A label missing from the edge's map stops the
// run with a *TransitionError, which is an engine fault and is kept distinct
// from a *StepError raised by step code.
//
// Cycles are allowed. The engine imposes no step ceiling unless WithMaxSteps
// is given, so a looping graph must bound itself through its own state.
//
// Reaching End does nothing beyond returning the Result; persisting the
// outcome is the job of the graph's final step.
package workflow
