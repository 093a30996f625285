// Package google adapts the Gemini API (google.golang.org/genai) to the
// gateway's single-prompt completion contract.
package google
