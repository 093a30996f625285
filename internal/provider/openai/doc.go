// Package openai adapts the OpenAI Chat Completions API to the gateway's
// single-prompt completion contract.
package openai
