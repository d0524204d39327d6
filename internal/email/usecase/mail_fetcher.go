package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	authusecase "github.com/itsprade/good-morning/internal/auth/usecase"
	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/clock"
	"github.com/itsprade/good-morning/pkg/config"
	"github.com/itsprade/good-morning/pkg/googleauth"
	"github.com/itsprade/good-morning/pkg/logger"
)

// MailReader is the Gmail surface used by the fetcher
type MailReader interface {
	FetchRecentMessages(ctx context.Context, creds googleauth.Credentials, q emaildomain.FetchQuery) ([]emaildomain.Message, error)
	Watch(ctx context.Context, creds googleauth.Credentials, topicName string) (uint64, error)
}

// MailFetcher reads the bounded window of recent inbox messages for a user
type MailFetcher interface {
	Fetch(ctx context.Context, userID string) ([]emaildomain.Message, error)
	// Watch registers Gmail push notifications for the user's inbox
	Watch(ctx context.Context, userID, topicName string) (uint64, error)
}

type gmailFetcher struct {
	credentials authusecase.CredentialProvider
	reader      MailReader
	cfg         config.MailConfig
	clock       clock.Clock
	logger      *zap.Logger
}

func NewMailFetcher(credentials authusecase.CredentialProvider, reader MailReader, cfg config.MailConfig, clk clock.Clock) MailFetcher {
	return &gmailFetcher{
		credentials: credentials,
		reader:      reader,
		cfg:         cfg,
		clock:       clk,
		logger:      logger.Named("mail_fetcher"),
	}
}

func (f *gmailFetcher) Fetch(ctx context.Context, userID string) ([]emaildomain.Message, error) {
	_, creds, err := f.credentials.GoogleCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}

	windowDays := f.cfg.WindowDays
	if windowDays <= 0 {
		windowDays = 7
	}
	q := emaildomain.FetchQuery{
		Since:       f.clock.Now().AddDate(0, 0, -windowDays),
		MaxMessages: f.cfg.MaxMessages,
		BodyLimit:   f.cfg.BodyLimit,
	}

	messages, err := f.reader.FetchRecentMessages(ctx, creds, q)
	if err != nil {
		return nil, apperror.Upstream("gmail", err)
	}
	f.logger.Debug("fetched inbox window", zap.String("user_id", userID), zap.Int("messages", len(messages)))
	return messages, nil
}

func (f *gmailFetcher) Watch(ctx context.Context, userID, topicName string) (uint64, error) {
	if topicName == "" {
		return 0, errors.New("no Pub/Sub topic configured")
	}
	_, creds, err := f.credentials.GoogleCredentials(ctx, userID)
	if err != nil {
		return 0, err
	}
	historyID, err := f.reader.Watch(ctx, creds, topicName)
	if err != nil {
		return 0, apperror.Upstream("gmail", err)
	}
	return historyID, nil
}
