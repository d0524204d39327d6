package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"

	"github.com/itsprade/good-morning/pkg/logger"
)

// FallbackService routes each request through both providers in turn
// - Narrative: Ollama first (local, free), then Gemini
// - Task extraction: Gemini first (better quality), then Ollama
type FallbackService struct {
	gemini TextGenerator
	ollama TextGenerator
	logger *zap.Logger
}

// NewFallbackService creates a fallback router; either provider may be nil
func NewFallbackService(gemini, ollama TextGenerator) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
		logger: logger.Named("ai"),
	}
}

func (f *FallbackService) Name() string { return string(ProviderAuto) }

func (f *FallbackService) order(p Purpose) []TextGenerator {
	var list []TextGenerator
	if p == PurposeNarrative {
		list = []TextGenerator{f.ollama, f.gemini}
	} else {
		list = []TextGenerator{f.gemini, f.ollama}
	}
	out := list[:0]
	for _, g := range list {
		if g != nil {
			out = append(out, g)
		}
	}
	return out
}

func (f *FallbackService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	providers := f.order(req.Purpose)
	if len(providers) == 0 {
		return "", fmt.Errorf("no AI provider available for %s", req.Purpose)
	}

	var errs []error
	for _, p := range providers {
		text, err := p.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
		f.logger.Warn("provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.String("purpose", string(req.Purpose)),
			zap.String("kind", classify(err)),
			zap.Error(err),
		)
	}
	return "", errors.Join(errs...)
}

func classify(err error) string {
	switch {
	case isQuotaError(err):
		return "quota"
	case isConnectionError(err):
		return "connection"
	default:
		return "other"
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return containsAny(err.Error(), "connection refused", "no such host", "network is unreachable",
		"connection reset", "timeout", "dial tcp", "eof")
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err.Error(), "429", "quota", "rate limit", "too many requests", "resource_exhausted")
}

func containsAny(s string, needles ...string) bool {
	s = strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
