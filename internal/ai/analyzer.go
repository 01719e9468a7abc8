package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amishk599/resumekit/internal/model"
)

// ResumeAnalyzer scores a résumé against a job description using an LLM.
type ResumeAnalyzer struct {
	provider LLMProvider
}

// NewResumeAnalyzer creates an analyzer backed by provider.
func NewResumeAnalyzer(provider LLMProvider) *ResumeAnalyzer {
	return &ResumeAnalyzer{provider: provider}
}

// Analyze asks the LLM how well data fits jobDescription for the given
// experience level (e.g. "junior", "senior"). An empty level means "mid".
func (a *ResumeAnalyzer) Analyze(ctx context.Context, data model.StructuredResumeData, jobDescription, level string) (*model.ResumeAnalysis, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("job description is required")
	}
	pd, err := newPromptData(data, jobDescription)
	if err != nil {
		return nil, err
	}
	pd.Level = strings.TrimSpace(level)
	if pd.Level == "" {
		pd.Level = "mid"
	}

	user, err := render(Prompts, "analysis.md", pd)
	if err != nil {
		return nil, err
	}

	raw, err := a.provider.Complete(ctx, Prompt{
		System:     systemPrompt,
		User:       user,
		SchemaName: "resume_analysis",
		Schema:     analysisSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("llm complete: %w", err)
	}

	analysis, err := parseAnalysis(cleanResponse(raw))
	if err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	return analysis, nil
}

// parseAnalysis deserializes the LLM response, clamping the score to 0..100
// and replacing missing keyword lists with empty ones.
func parseAnalysis(raw string) (*model.ResumeAnalysis, error) {
	var ra model.ResumeAnalysis
	if err := json.Unmarshal([]byte(raw), &ra); err != nil {
		return nil, fmt.Errorf("unmarshal analysis JSON: %w", err)
	}

	ra.Score = min(max(ra.Score, 0), 100)
	if ra.KeywordsFound == nil {
		ra.KeywordsFound = []string{}
	}
	if ra.KeywordsMissing == nil {
		ra.KeywordsMissing = []string{}
	}
	return &ra, nil
}
