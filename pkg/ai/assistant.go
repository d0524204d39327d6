package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/itsprade/good-morning/pkg/logger"
)

// Assistant implements TaskExtractor and NarrativeGenerator on top of any
// TextGenerator.
type Assistant struct {
	gen TextGenerator
	now func() time.Time
}

func NewAssistant(gen TextGenerator, now func() time.Time) *Assistant {
	if now == nil {
		now = time.Now
	}
	return &Assistant{gen: gen, now: now}
}

// ExtractTasks sends all emails in one prompt. An empty batch is answered
// without calling the model.
func (a *Assistant) ExtractTasks(ctx context.Context, emails []EmailInput) (ExtractionResult, error) {
	if len(emails) == 0 {
		return Extracted(nil), nil
	}

	today := a.now()
	raw, err := a.gen.Generate(ctx, GenerateRequest{
		Purpose:     PurposeExtraction,
		System:      extractionSystemPrompt,
		Prompt:      buildExtractionPrompt(emails, today),
		Temperature: extractionTemperature,
		JSON:        true,
	})
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("extract tasks: %w", err)
	}

	result := parseExtraction(raw, today)
	if result.IsMalformed() {
		logger.Named("ai").Warn("task extraction returned unparseable output",
			zap.String("provider", a.gen.Name()),
			zap.Int("emails", len(emails)),
			zap.Int("raw_len", len(raw)),
		)
	}
	return result, nil
}

func (a *Assistant) GenerateDailySummary(ctx context.Context, in DailySummaryInput) (Narrative, error) {
	raw, err := a.gen.Generate(ctx, GenerateRequest{
		Purpose:     PurposeNarrative,
		System:      narrativeSystemPrompt,
		Prompt:      buildNarrativePrompt(in),
		Temperature: narrativeTemperature,
		JSON:        true,
	})
	if err != nil {
		return Narrative{}, fmt.Errorf("generate daily summary: %w", err)
	}
	return parseNarrative(raw)
}
