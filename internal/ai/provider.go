package ai

import "context"

// Prompt is one request to an LLM. Schema, when set, is a JSON Schema the
// response must conform to; SchemaName labels it for the provider.
type Prompt struct {
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

// LLMProvider sends a prompt to an LLM and returns the raw text response.
type LLMProvider interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}
