package ai

import (
	"context"
	"errors"

	"github.com/amishk599/resumekit/internal/model"
)

// ErrDisabled is returned by NopKitGenerator.
var ErrDisabled = errors.New("ai features are disabled (set ai.enabled in config)")

// NopKitGenerator is used when ai.enabled is false. It makes no LLM calls.
type NopKitGenerator struct{}

// NewNopKitGenerator returns a NopKitGenerator.
func NewNopKitGenerator() *NopKitGenerator {
	return &NopKitGenerator{}
}

// Generate always fails with ErrDisabled.
func (n *NopKitGenerator) Generate(context.Context, model.StructuredResumeData, string) (*model.ApplicationKit, error) {
	return nil, ErrDisabled
}
