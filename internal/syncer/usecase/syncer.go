package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	authusecase "github.com/itsprade/good-morning/internal/auth/usecase"
	emailusecase "github.com/itsprade/good-morning/internal/email/usecase"
	summarydomain "github.com/itsprade/good-morning/internal/summary/domain"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/clock"
	"github.com/itsprade/good-morning/pkg/config"
	"github.com/itsprade/good-morning/pkg/fcm"
	"github.com/itsprade/good-morning/pkg/logger"
	"github.com/itsprade/good-morning/pkg/metrics"
	"github.com/itsprade/good-morning/pkg/syncguard"
)

const (
	kindMail     = "mail"
	kindCalendar = "calendar"
)

type UserStore interface {
	FindWithGoogleCredential() ([]*authdomain.User, error)
	MarkSynced(userID string, at time.Time) error
}

type MailSyncer interface {
	SyncMail(ctx context.Context, userID string) (*emailusecase.MailSyncResult, error)
}

type CalendarSyncer interface {
	SyncToday(ctx context.Context, userID string) (int, error)
}

type MailboxWatcher interface {
	Watch(ctx context.Context, userID, topicName string) (uint64, error)
}

type Briefing interface {
	Today(ctx context.Context, userID string) (*summarydomain.Summary, error)
}

type Notifier interface {
	SendToUser(ctx context.Context, userID string, n fcm.NotificationData) error
}

// Deps groups what the orchestrator drives. Watcher, Briefing and Notifier
// are optional.
type Deps struct {
	Users       UserStore
	Credentials authusecase.CredentialProvider
	Mail        MailSyncer
	Calendar    CalendarSyncer
	Watcher     MailboxWatcher
	Briefing    Briefing
	Notifier    Notifier
	Guard       syncguard.Guard
	Clock       clock.Clock
}

// Syncer runs manual, onboarding and batch syncs
type Syncer struct {
	Deps
	cfg         config.SyncConfig
	pubsubTopic string
	logger      *zap.Logger
}

func NewSyncer(deps Deps, cfg config.SyncConfig, pubsubTopic string) *Syncer {
	if deps.Guard == nil {
		deps.Guard = syncguard.Noop{}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Syncer{
		Deps:        deps,
		cfg:         cfg,
		pubsubTopic: pubsubTopic,
		logger:      logger.Named("syncer"),
	}
}

// SyncMail runs one guarded mail sync. A concurrent sync of the same user
// is ErrSyncInProgress.
func (s *Syncer) SyncMail(ctx context.Context, userID string) (*emailusecase.MailSyncResult, error) {
	release, ok := s.Guard.TryAcquire(ctx, syncguard.Key(userID, kindMail))
	if !ok {
		metrics.IncrementSyncRun(kindMail, StatusSkipped)
		return nil, apperror.ErrSyncInProgress
	}
	defer release()

	result, err := s.Mail.SyncMail(ctx, userID)
	metrics.IncrementSyncRun(kindMail, statusOf(err))
	return result, err
}

func (s *Syncer) SyncCalendar(ctx context.Context, userID string) (int, error) {
	release, ok := s.Guard.TryAcquire(ctx, syncguard.Key(userID, kindCalendar))
	if !ok {
		metrics.IncrementSyncRun(kindCalendar, StatusSkipped)
		return 0, apperror.ErrSyncInProgress
	}
	defer release()

	n, err := s.Calendar.SyncToday(ctx, userID)
	metrics.IncrementSyncRun(kindCalendar, statusOf(err))
	return n, err
}

// InitialSync is the onboarding sync: calendar and mail run regardless of
// each other's outcome, then the user is marked synced.
func (s *Syncer) InitialSync(ctx context.Context, userID string) (*InitialSyncResult, error) {
	if _, _, err := s.Credentials.GoogleCredentials(ctx, userID); err != nil {
		return nil, err
	}
	if s.cfg.InitialSyncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.InitialSyncTimeout)
		defer cancel()
	}

	result := &InitialSyncResult{
		Calendar: s.calendarStep(ctx, userID),
		Gmail:    s.mailStep(ctx, userID),
	}
	s.renewWatch(ctx, userID)

	if err := s.Users.MarkSynced(userID, s.Clock.Now()); err != nil {
		return result, fmt.Errorf("failed to mark user synced: %w", err)
	}
	s.logger.Info("initial sync finished",
		zap.String("user_id", userID),
		zap.String("calendar", result.Calendar.Status),
		zap.String("gmail", result.Gmail.Status))
	return result, nil
}

// DailySync runs calendar, mail and the optional morning briefing for every
// connected user.
func (s *Syncer) DailySync(ctx context.Context) (*BatchResult, error) {
	return s.runBatch(ctx, "daily", func(ctx context.Context, u *authdomain.User) UserSyncResult {
		cal := s.calendarStep(ctx, u.ID)
		mail := s.mailStep(ctx, u.ID)
		s.renewWatch(ctx, u.ID)
		res := combine(u, &cal, &mail)
		if res.Status == StatusSuccess {
			s.pushBriefing(ctx, u.ID)
		}
		return res
	})
}

func (s *Syncer) SyncAllMail(ctx context.Context) (*BatchResult, error) {
	return s.runBatch(ctx, kindMail, func(ctx context.Context, u *authdomain.User) UserSyncResult {
		mail := s.mailStep(ctx, u.ID)
		return combine(u, nil, &mail)
	})
}

func (s *Syncer) SyncAllCalendars(ctx context.Context) (*BatchResult, error) {
	return s.runBatch(ctx, kindCalendar, func(ctx context.Context, u *authdomain.User) UserSyncResult {
		cal := s.calendarStep(ctx, u.ID)
		return combine(u, &cal, nil)
	})
}

// runBatch fans out one task per user with bounded concurrency. Each task
// writes only its own slot. Users not started before the deadline are
// reported skipped.
func (s *Syncer) runBatch(ctx context.Context, name string, step func(context.Context, *authdomain.User) UserSyncResult) (*BatchResult, error) {
	users, err := s.Users.FindWithGoogleCredential()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	started := time.Now()
	results := make([]UserSyncResult, len(users))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, u := range users {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = UserSyncResult{UserID: u.ID, Email: u.Email, Status: StatusSkipped, Error: err.Error()}
				return nil
			}
			results[i] = step(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	batch := &BatchResult{Results: results}
	for _, r := range results {
		if r.Status == StatusSuccess {
			batch.SyncedUsers++
		}
	}
	s.logger.Info("batch sync finished",
		zap.String("batch", name),
		zap.Int("users", len(users)),
		zap.Int("synced", batch.SyncedUsers),
		zap.Duration("took", time.Since(started)))
	return batch, nil
}

func (s *Syncer) calendarStep(ctx context.Context, userID string) StepResult {
	n, err := s.SyncCalendar(ctx, userID)
	if err != nil {
		s.logger.Warn("calendar sync failed", zap.String("user_id", userID), zap.Error(err))
		return failedStep(err)
	}
	return StepResult{Status: StatusSuccess, Count: n}
}

func (s *Syncer) mailStep(ctx context.Context, userID string) StepResult {
	res, err := s.SyncMail(ctx, userID)
	if err != nil {
		s.logger.Warn("mail sync failed", zap.String("user_id", userID), zap.Error(err))
		return failedStep(err)
	}
	if res.Total == 0 {
		return StepResult{Status: StatusNoEmails}
	}
	return StepResult{Status: StatusSuccess, Count: res.Total, NewSuggestions: res.Count}
}

func (s *Syncer) renewWatch(ctx context.Context, userID string) {
	if s.Watcher == nil || s.pubsubTopic == "" {
		return
	}
	if _, err := s.Watcher.Watch(ctx, userID, s.pubsubTopic); err != nil {
		s.logger.Warn("failed to renew Gmail watch", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *Syncer) pushBriefing(ctx context.Context, userID string) {
	if !s.cfg.PushBriefing || s.Briefing == nil || s.Notifier == nil {
		return
	}
	summary, err := s.Briefing.Today(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to build morning briefing", zap.String("user_id", userID), zap.Error(err))
		return
	}
	err = s.Notifier.SendToUser(ctx, userID, fcm.NotificationData{
		Title:       "☀️ Your day is ready",
		Body:        summary.Bold,
		Data:        map[string]string{"type": "morning_briefing", "day": summary.Day},
		ClickAction: "/",
	})
	if err != nil {
		s.logger.Warn("failed to push morning briefing", zap.String("user_id", userID), zap.Error(err))
	}
}

func failedStep(err error) StepResult {
	if errors.Is(err, apperror.ErrSyncInProgress) {
		return StepResult{Status: StatusSkipped, Error: err.Error()}
	}
	return StepResult{Status: StatusError, Error: err.Error()}
}

func combine(u *authdomain.User, cal, mail *StepResult) UserSyncResult {
	res := UserSyncResult{UserID: u.ID, Email: u.Email, Status: StatusSuccess, Calendar: cal, Gmail: mail}
	for _, step := range []*StepResult{cal, mail} {
		if step == nil {
			continue
		}
		switch step.Status {
		case StatusError:
			res.Status = StatusError
			res.Error = step.Error
		case StatusSkipped:
			if res.Status == StatusSuccess {
				res.Status = StatusSkipped
				res.Error = step.Error
			}
		}
	}
	return res
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
