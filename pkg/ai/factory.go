package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/itsprade/good-morning/pkg/gemini"
	"github.com/itsprade/good-morning/pkg/metrics"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	GeminiAPIKey string
	GeminiModel  string

	// Ollama endpoint, read on every call
	Settings *RuntimeSettings
}

// NewTextGenerator builds the generator named by cfg.Provider. "auto" uses
// every provider that is configured, with fallback between them.
func NewTextGenerator(cfg Config) (TextGenerator, error) {
	var ollama *OllamaService
	if cfg.Settings != nil {
		ollama = NewOllamaServiceWithGetters(cfg.Settings.OllamaBaseURL, cfg.Settings.OllamaModel)
	} else {
		ollama = NewOllamaService("", "")
	}

	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiGenerator(gemini.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)), nil

	case ProviderOllama:
		return ollama, nil

	case ProviderAuto, "":
		var g TextGenerator
		if cfg.GeminiAPIKey != "" {
			g = NewGeminiGenerator(gemini.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel))
		}
		return NewFallbackService(g, ollama), nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// GeminiGenerator adapts the Gemini client to TextGenerator
type GeminiGenerator struct {
	svc *gemini.GeminiService
}

func NewGeminiGenerator(svc *gemini.GeminiService) *GeminiGenerator {
	return &GeminiGenerator{svc: svc}
}

func (g *GeminiGenerator) Name() string { return string(ProviderGemini) }

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	start := time.Now()
	text, err := g.svc.GenerateContent(ctx, gemini.Request{
		SystemInstruction: req.System,
		Prompt:            req.Prompt,
		Temperature:       req.Temperature,
		JSON:              req.JSON,
	})
	metrics.RecordLLMRequest(g.Name(), string(req.Purpose), statusLabel(err), time.Since(start))
	return text, err
}
