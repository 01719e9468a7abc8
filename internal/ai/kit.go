package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amishk599/resumekit/internal/model"
)

// Ensure LLMKitGenerator implements model.KitGenerator.
var _ model.KitGenerator = (*LLMKitGenerator)(nil)

// Chain step names, in execution order.
const (
	StepEmail       = "email"
	StepCoverLetter = "cover_letter"
	StepQA          = "q_and_a"
	StepTopics      = "topics"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// LLMKitGenerator builds an application kit by running one LLM call per
// section: email, cover letter, Q&A, then interview topics.
type LLMKitGenerator struct {
	provider LLMProvider
	logger   *slog.Logger
	now      func() time.Time
}

// NewLLMKitGenerator creates a generator backed by provider.
func NewLLMKitGenerator(provider LLMProvider, logger *slog.Logger) *LLMKitGenerator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LLMKitGenerator{provider: provider, logger: logger, now: time.Now}
}

type kitStep struct {
	name   string
	tmpl   string
	schema map[string]any
	apply  func(kit *model.ApplicationKit, raw string) (int, error)
}

var kitSteps = []kitStep{
	{
		name:   StepEmail,
		tmpl:   "email.md",
		schema: stringFieldSchema("email"),
		apply: func(kit *model.ApplicationKit, raw string) (int, error) {
			var out struct {
				Email string `json:"email"`
			}
			if err := json.Unmarshal([]byte(raw), &out); err != nil {
				return 0, err
			}
			if strings.TrimSpace(out.Email) == "" {
				return 0, errors.New("empty email")
			}
			kit.Email = out.Email
			return utf8.RuneCountInString(out.Email), nil
		},
	},
	{
		name:   StepCoverLetter,
		tmpl:   "cover_letter.md",
		schema: stringFieldSchema("cover_letter"),
		apply: func(kit *model.ApplicationKit, raw string) (int, error) {
			var out struct {
				CoverLetter string `json:"cover_letter"`
			}
			if err := json.Unmarshal([]byte(raw), &out); err != nil {
				return 0, err
			}
			if strings.TrimSpace(out.CoverLetter) == "" {
				return 0, errors.New("empty cover letter")
			}
			kit.CoverLetter = out.CoverLetter
			return utf8.RuneCountInString(out.CoverLetter), nil
		},
	},
	{
		name:   StepQA,
		tmpl:   "qa.md",
		schema: qaSchema,
		apply: func(kit *model.ApplicationKit, raw string) (int, error) {
			var out struct {
				QA []model.QAPair `json:"q_and_a"`
			}
			if err := json.Unmarshal([]byte(raw), &out); err != nil {
				return 0, err
			}
			kit.QA = out.QA
			return len(out.QA), nil
		},
	},
	{
		name:   StepTopics,
		tmpl:   "topics.md",
		schema: stringListSchema("topics"),
		apply: func(kit *model.ApplicationKit, raw string) (int, error) {
			var out struct {
				Topics []string `json:"topics"`
			}
			if err := json.Unmarshal([]byte(raw), &out); err != nil {
				return 0, err
			}
			kit.Topics = out.Topics
			return len(out.Topics), nil
		},
	},
}

// Generate runs the chain. A failed step is recorded in kit.Steps and the
// chain moves on; an error is returned only when the context ends or every
// step failed.
func (g *LLMKitGenerator) Generate(ctx context.Context, data model.StructuredResumeData, jobDescription string) (*model.ApplicationKit, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, errors.New("job description is required")
	}
	pd, err := newPromptData(data, jobDescription)
	if err != nil {
		return nil, err
	}

	start := g.now()
	kit := &model.ApplicationKit{Steps: make([]model.ChainStep, 0, len(kitSteps))}
	failed := 0

	for _, step := range kitSteps {
		if err := ctx.Err(); err != nil {
			kit.GenerationTime = g.now().Sub(start)
			return kit, err
		}

		count, err := g.runStep(ctx, step, pd, kit)
		if err != nil {
			failed++
			g.logger.Warn("kit step failed", "step", step.name, "error", err)
			kit.Steps = append(kit.Steps, model.ChainStep{Step: step.name, Status: statusFailed, Error: err.Error()})
			continue
		}
		g.logger.Debug("kit step done", "step", step.name, "count", count)
		kit.Steps = append(kit.Steps, model.ChainStep{Step: step.name, Status: statusSuccess, Count: count})
	}

	kit.GenerationTime = g.now().Sub(start)
	g.logger.Info("application kit generated",
		"steps", len(kitSteps),
		"failed", failed,
		"duration", kit.GenerationTime,
	)

	if failed == len(kitSteps) {
		return kit, fmt.Errorf("all %d kit steps failed", failed)
	}
	return kit, nil
}

func (g *LLMKitGenerator) runStep(ctx context.Context, step kitStep, pd promptData, kit *model.ApplicationKit) (int, error) {
	user, err := render(Prompts, step.tmpl, pd)
	if err != nil {
		return 0, err
	}

	raw, err := g.provider.Complete(ctx, Prompt{
		System:     systemPrompt,
		User:       user,
		SchemaName: step.name,
		Schema:     step.schema,
	})
	if err != nil {
		return 0, fmt.Errorf("llm complete: %w", err)
	}

	count, err := step.apply(kit, cleanResponse(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s response: %w", step.name, err)
	}
	return count, nil
}
