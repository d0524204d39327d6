package ai

import (
	"context"
	"errors"
	"time"
)

// Purpose tells the fallback router which provider to try first.
type Purpose string

const (
	PurposeExtraction Purpose = "extraction"
	PurposeNarrative  Purpose = "narrative"
)

// GenerateRequest is one prompt sent to a text model.
type GenerateRequest struct {
	Purpose     Purpose
	System      string
	Prompt      string
	Temperature float64
	JSON        bool
}

// TextGenerator is a language model provider (Gemini, Ollama, ...).
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// EmailInput is one message handed to task extraction.
type EmailInput struct {
	ID      string
	From    string
	Subject string
	Body    string
}

// TaskCandidate is a task the model proposed for one email.
type TaskCandidate struct {
	EmailID     string
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

type ExtractionStatus int

const (
	ExtractionOK ExtractionStatus = iota
	ExtractionMalformed
)

// ExtractionResult is either a list of candidates or a marker that the model
// answered with something that could not be parsed.
type ExtractionResult struct {
	Status     ExtractionStatus
	Candidates []TaskCandidate
	Raw        string
}

func Extracted(candidates []TaskCandidate) ExtractionResult {
	return ExtractionResult{Status: ExtractionOK, Candidates: candidates}
}

func Malformed(raw string) ExtractionResult {
	return ExtractionResult{Status: ExtractionMalformed, Raw: raw}
}

func (r ExtractionResult) IsMalformed() bool {
	return r.Status == ExtractionMalformed
}

// Tasks returns the candidates; a malformed result has none.
func (r ExtractionResult) Tasks() []TaskCandidate {
	if r.IsMalformed() {
		return nil
	}
	return r.Candidates
}

// Meeting is one calendar entry given to the narrative generator.
type Meeting struct {
	Title     string
	StartTime time.Time
}

type DailySummaryInput struct {
	Meetings          []Meeting
	EmailActionsCount int
	EmailSubjects     []string
	TopTasks          []string
}

// Narrative is the two-part daily summary.
type Narrative struct {
	Bold  string
	Light string
}

// ErrMalformedOutput is returned when the model answer has no usable content.
var ErrMalformedOutput = errors.New("malformed model output")

// TaskExtractor turns a batch of emails into task candidates. A provider
// failure is an error; unparseable output is a Malformed result.
type TaskExtractor interface {
	ExtractTasks(ctx context.Context, emails []EmailInput) (ExtractionResult, error)
}

type NarrativeGenerator interface {
	GenerateDailySummary(ctx context.Context, in DailySummaryInput) (Narrative, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
