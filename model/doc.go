// Package model maps the logical model names used by workflows to concrete
// provider models.
//
// Workflows refer to models by alias ("gpt-5-mini", "claude-sonnet-4.5").
// The alias table is exhaustive: resolving a name that is not in the table
// fails with [UnknownAliasError] instead of guessing a provider from the
// name's prefix.
//
//	m, err := model.Resolve("claude-haiku-4.5")
//	if err != nil {
//	    return err // *model.UnknownAliasError
//	}
//	fmt.Println(m.Provider(), m.String()) // anthropic claude-haiku-4-5-20251001
//
// Every model carries its provider's default temperature and its pricing,
// which the gateway uses to report estimated cost per call.
package model
