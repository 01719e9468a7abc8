package ai

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/amishk599/resumekit/internal/model"
)

//go:embed prompts/*.md
var promptFS embed.FS

// Prompts holds every prompt template, keyed by file name (e.g. "email.md").
// Parsed once at package init; reused on every call.
var Prompts = template.Must(template.ParseFS(promptFS, "prompts/*.md"))

const systemPrompt = "You are a career assistant. Always answer with a single JSON object and nothing else."

// promptData is the template input shared by all prompts.
type promptData struct {
	Resume         string
	JobDescription string
	Level          string
}

func newPromptData(data model.StructuredResumeData, jobDescription string) (promptData, error) {
	resume, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return promptData{}, fmt.Errorf("encode resume data: %w", err)
	}
	return promptData{
		Resume:         string(resume),
		JobDescription: strings.TrimSpace(jobDescription),
	}, nil
}

func render(tmpl *template.Template, name string, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// cleanResponse strips a surrounding markdown code fence, if any.
func cleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// JSON Schemas for structured outputs. Strict mode requires every property
// listed in required and no additional properties.

func stringFieldSchema(key string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           map[string]any{key: map[string]any{"type": "string"}},
		"required":             []string{key},
	}
}

func stringListSchema(key string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			key: map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{key},
	}
}

var qaSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"q_and_a": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"question": map[string]any{"type": "string"},
					"answer":   map[string]any{"type": "string"},
				},
				"required": []string{"question", "answer"},
			},
		},
	},
	"required": []string{"q_and_a"},
}

var analysisSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"score":            map[string]any{"type": "integer"},
		"keywords_found":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"keywords_missing": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
	"required": []string{"score", "keywords_found", "keywords_missing"},
}
