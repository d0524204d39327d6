package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	calendardomain "github.com/itsprade/good-morning/internal/calendar/domain"
	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/internal/summary/domain"
	"github.com/itsprade/good-morning/internal/summary/repository"
	taskdomain "github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/pkg/ai"
	"github.com/itsprade/good-morning/pkg/clock"
	"github.com/itsprade/good-morning/pkg/logger"
	"github.com/itsprade/good-morning/pkg/metrics"
)

const (
	summarySuggestions = 5
	summaryTasks       = 5

	fallbackLightPart = "Stay focused and make it a productive day!"
)

type EventReader interface {
	FindBetween(userID string, from, to time.Time) ([]*calendardomain.Event, error)
}

type SuggestionReader interface {
	FindSuggested(userID string, limit int) ([]*emaildomain.EmailAction, error)
	CountSuggested(userID string) (int64, error)
}

type TaskReader interface {
	FindActive(userID string, limit int) ([]*taskdomain.Task, error)
	CountActive(userID string) (int64, error)
}

type SummaryUsecase interface {
	// GetOrCreate returns the stored summary of the day, generating it on a miss
	GetOrCreate(ctx context.Context, userID, day string) (*domain.Summary, error)
	Invalidate(userID, day string) error
	// Today is GetOrCreate for the current day
	Today(ctx context.Context, userID string) (*domain.Summary, error)
}

type summaryUsecase struct {
	summaries   repository.SummaryRepository
	events      EventReader
	suggestions SuggestionReader
	tasks       TaskReader
	generator   ai.NarrativeGenerator
	clock       clock.Clock
	logger      *zap.Logger
}

func NewSummaryUsecase(
	summaries repository.SummaryRepository,
	events EventReader,
	suggestions SuggestionReader,
	tasks TaskReader,
	generator ai.NarrativeGenerator,
	clk clock.Clock,
) SummaryUsecase {
	return &summaryUsecase{
		summaries:   summaries,
		events:      events,
		suggestions: suggestions,
		tasks:       tasks,
		generator:   generator,
		clock:       clk,
		logger:      logger.Named("summary"),
	}
}

func (u *summaryUsecase) Today(ctx context.Context, userID string) (*domain.Summary, error) {
	return u.GetOrCreate(ctx, userID, clock.Today(u.clock))
}

func (u *summaryUsecase) GetOrCreate(ctx context.Context, userID, day string) (*domain.Summary, error) {
	stored, err := u.summaries.Find(userID, day)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		metrics.IncrementSummaryRequest("hit")
		return fromStored(stored), nil
	}

	row, in, err := u.gather(userID, day)
	if err != nil {
		return nil, err
	}

	narrative, err := u.generator.GenerateDailySummary(ctx, in)
	if err != nil {
		metrics.IncrementSummaryRequest("fallback")
		u.logger.Warn("summary generation failed, using fallback", zap.String("user_id", userID), zap.Error(err))
		return &domain.Summary{
			Bold:     fmt.Sprintf("You have %d tasks and %d meetings today.", row.TasksCount, row.MeetingsCount),
			Light:    fallbackLightPart,
			Day:      day,
			Fallback: true,
		}, nil
	}
	metrics.IncrementSummaryRequest("miss")

	row.BoldPart = narrative.Bold
	row.LightPart = narrative.Light
	if err := u.summaries.Create(row); err != nil {
		// Lost an insert race: the other writer's row wins.
		if existing, findErr := u.summaries.Find(userID, day); findErr == nil && existing != nil {
			return fromStored(existing), nil
		}
		u.logger.Error("failed to store summary", zap.String("user_id", userID), zap.String("day", day), zap.Error(err))
	}
	return &domain.Summary{Bold: row.BoldPart, Light: row.LightPart, Day: day}, nil
}

func (u *summaryUsecase) Invalidate(userID, day string) error {
	return u.summaries.Delete(userID, day)
}

func (u *summaryUsecase) gather(userID, day string) (*domain.DailySummary, ai.DailySummaryInput, error) {
	var in ai.DailySummaryInput

	start, err := clock.ParseDay(day, u.clock.Location())
	if err != nil {
		return nil, in, fmt.Errorf("invalid day %q: %w", day, err)
	}
	events, err := u.events.FindBetween(userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, in, err
	}
	suggested, err := u.suggestions.FindSuggested(userID, summarySuggestions)
	if err != nil {
		return nil, in, err
	}
	suggestedCount, err := u.suggestions.CountSuggested(userID)
	if err != nil {
		return nil, in, err
	}
	active, err := u.tasks.FindActive(userID, summaryTasks)
	if err != nil {
		return nil, in, err
	}
	activeCount, err := u.tasks.CountActive(userID)
	if err != nil {
		return nil, in, err
	}

	for _, e := range events {
		in.Meetings = append(in.Meetings, ai.Meeting{Title: e.Title, StartTime: e.StartTime.In(u.clock.Location())})
	}
	for _, s := range suggested {
		in.EmailSubjects = append(in.EmailSubjects, s.SuggestedTaskTitle)
	}
	for _, t := range active {
		in.TopTasks = append(in.TopTasks, t.Title)
	}
	in.EmailActionsCount = int(suggestedCount)

	row := &domain.DailySummary{
		UserID:            userID,
		Day:               day,
		MeetingsCount:     len(events),
		EmailActionsCount: int(suggestedCount),
		TasksCount:        int(activeCount),
	}
	return row, in, nil
}

func fromStored(s *domain.DailySummary) *domain.Summary {
	return &domain.Summary{Bold: s.BoldPart, Light: s.LightPart, Day: s.Day, Cached: true}
}
