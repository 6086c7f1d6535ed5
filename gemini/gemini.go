// Package gemini implements [agui.Agent] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating run input into a
// streaming generate call and re-emitting the SDK's iter.Seq2 response
// chunks as protocol events on the run's sink.
package gemini

const (
	defaultModel     = "gemini-3.1-pro-preview"
	defaultMaxTokens = 65536
)
