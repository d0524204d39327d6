package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/internal/email/repository"
	"github.com/itsprade/good-morning/pkg/ai"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/logger"
	"github.com/itsprade/good-morning/pkg/metrics"
)

// PipelineResult counts what happened to the candidates of one run.
type PipelineResult struct {
	Created    []*emaildomain.EmailAction
	Candidates int
	Duplicates int
	Unresolved int
	Malformed  bool
}

// Pipeline turns inbox messages into persisted task suggestions:
// extraction, resolution against the input messages, dedup against pending
// suggestions, persistence.
type Pipeline struct {
	extractor ai.TaskExtractor
	actions   repository.EmailActionRepository
	policy    DedupPolicy
	logger    *zap.Logger
}

func NewPipeline(extractor ai.TaskExtractor, actions repository.EmailActionRepository, policy DedupPolicy) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		actions:   actions,
		policy:    policy,
		logger:    logger.Named("pipeline"),
	}
}

// Run processes one batch. On a persistence error the rows created so far
// stay and are reported in the returned result.
func (p *Pipeline) Run(ctx context.Context, userID string, messages []emaildomain.Message) (PipelineResult, error) {
	var result PipelineResult
	if len(messages) == 0 {
		return result, nil
	}

	inputs := make([]ai.EmailInput, 0, len(messages))
	byID := make(map[string]emaildomain.Message, len(messages))
	for _, m := range messages {
		inputs = append(inputs, ai.EmailInput{ID: m.ID, From: m.Sender, Subject: m.Subject, Body: m.BodyExcerpt})
		byID[m.ID] = m
	}

	extraction, err := p.extractor.ExtractTasks(ctx, inputs)
	if err != nil {
		return result, apperror.Upstream("ai", err)
	}
	if extraction.IsMalformed() {
		metrics.IncrementMalformedExtraction()
		p.logger.Warn("discarding malformed extraction", zap.String("user_id", userID), zap.Int("emails", len(messages)))
		result.Malformed = true
		return result, nil
	}

	candidates := extraction.Tasks()
	result.Candidates = len(candidates)

	existing, err := p.actions.FindSuggested(userID, 0)
	if err != nil {
		return result, fmt.Errorf("failed to load pending suggestions: %w", err)
	}

	defer func() {
		metrics.AddSuggestionsCreated(len(result.Created))
		metrics.AddCandidatesDropped("unresolved", result.Unresolved)
		metrics.AddCandidatesDropped("duplicate", result.Duplicates)
	}()

	for _, c := range candidates {
		c.Title = strings.TrimSpace(c.Title)
		msg, ok := byID[c.EmailID]
		if !ok || c.Title == "" {
			result.Unresolved++
			continue
		}
		if p.policy.IsDuplicate(c, existing) {
			result.Duplicates++
			continue
		}

		action := newSuggestion(userID, msg, c)
		if err := p.actions.Create(action); err != nil {
			return result, fmt.Errorf("failed to save suggestion for message %s: %w", msg.ID, err)
		}
		result.Created = append(result.Created, action)
		existing = append(existing, action)
	}

	p.logger.Info("extraction finished",
		zap.String("user_id", userID),
		zap.Int("emails", len(messages)),
		zap.Int("candidates", result.Candidates),
		zap.Int("created", len(result.Created)),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("unresolved", result.Unresolved))
	return result, nil
}

func newSuggestion(userID string, msg emaildomain.Message, c ai.TaskCandidate) *emaildomain.EmailAction {
	action := &emaildomain.EmailAction{
		UserID:             userID,
		EmailID:            msg.ID,
		Subject:            msg.Subject,
		Sender:             msg.Sender,
		ReceivedAt:         msg.ReceivedAt,
		SuggestedTaskTitle: c.Title,
		SuggestedPriority:  ai.NormalizePriority(c.Priority),
		SuggestedDueDate:   c.DueDate,
		Status:             emaildomain.ActionSuggested,
	}
	if d := strings.TrimSpace(c.Description); d != "" {
		action.SuggestedDescription = &d
	}
	return action
}
