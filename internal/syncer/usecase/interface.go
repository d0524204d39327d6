package usecase

import (
	"context"

	emailusecase "github.com/itsprade/good-morning/internal/email/usecase"
)

// SyncUsecase is the sync surface exposed to HTTP, cron and the CLI
type SyncUsecase interface {
	SyncMail(ctx context.Context, userID string) (*emailusecase.MailSyncResult, error)
	SyncCalendar(ctx context.Context, userID string) (int, error)
	InitialSync(ctx context.Context, userID string) (*InitialSyncResult, error)
	DailySync(ctx context.Context) (*BatchResult, error)
	SyncAllMail(ctx context.Context) (*BatchResult, error)
	SyncAllCalendars(ctx context.Context) (*BatchResult, error)
}

var _ SyncUsecase = (*Syncer)(nil)
