package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	authusecase "github.com/itsprade/good-morning/internal/auth/usecase"
	"github.com/itsprade/good-morning/internal/calendar/domain"
	"github.com/itsprade/good-morning/internal/calendar/repository"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/clock"
	"github.com/itsprade/good-morning/pkg/gcal"
	"github.com/itsprade/good-morning/pkg/googleauth"
	"github.com/itsprade/good-morning/pkg/logger"
)

// EventLister reads events from the user's primary calendar
type EventLister interface {
	ListEvents(ctx context.Context, creds googleauth.Credentials, from, to time.Time) ([]gcal.Event, error)
}

// SummaryInvalidator drops the cached summary of a day
type SummaryInvalidator interface {
	Invalidate(userID, day string) error
}

type CalendarUsecase interface {
	// SyncToday replaces today's stored events with Google's and returns how many were stored
	SyncToday(ctx context.Context, userID string) (int, error)
	TodayEvents(userID string) ([]*domain.Event, error)
}

type calendarUsecase struct {
	credentials authusecase.CredentialProvider
	lister      EventLister
	events      repository.EventRepository
	summaries   SummaryInvalidator
	clock       clock.Clock
	logger      *zap.Logger
}

func NewCalendarUsecase(
	credentials authusecase.CredentialProvider,
	lister EventLister,
	events repository.EventRepository,
	summaries SummaryInvalidator,
	clk clock.Clock,
) CalendarUsecase {
	return &calendarUsecase{
		credentials: credentials,
		lister:      lister,
		events:      events,
		summaries:   summaries,
		clock:       clk,
		logger:      logger.Named("calendar"),
	}
}

func (u *calendarUsecase) SyncToday(ctx context.Context, userID string) (int, error) {
	_, creds, err := u.credentials.GoogleCredentials(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := u.clock.Now()
	from, to := clock.DayBounds(now, u.clock.Location())

	fetched, err := u.lister.ListEvents(ctx, creds, from, to)
	if err != nil {
		return 0, apperror.Upstream("calendar", err)
	}

	events := make([]*domain.Event, 0, len(fetched))
	for _, e := range fetched {
		ev := &domain.Event{
			GoogleEventID: e.ID,
			Title:         e.Title,
			StartTime:     e.Start,
			EndTime:       e.End,
		}
		if e.MeetingLink != "" {
			link := e.MeetingLink
			ev.MeetingLink = &link
		}
		events = append(events, ev)
	}

	if err := u.events.ReplaceDay(userID, from, to, events); err != nil {
		return 0, err
	}

	day := clock.DayKey(now, u.clock.Location())
	if err := u.summaries.Invalidate(userID, day); err != nil {
		u.logger.Warn("failed to invalidate summary", zap.String("user_id", userID), zap.String("day", day), zap.Error(err))
	}

	u.logger.Info("calendar synced", zap.String("user_id", userID), zap.Int("events", len(events)))
	return len(events), nil
}

func (u *calendarUsecase) TodayEvents(userID string) ([]*domain.Event, error) {
	from, to := clock.DayBounds(u.clock.Now(), u.clock.Location())
	return u.events.FindBetween(userID, from, to)
}
