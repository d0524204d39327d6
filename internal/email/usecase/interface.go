package usecase

import (
	"context"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	taskdomain "github.com/itsprade/good-morning/internal/task/domain"
)

// EmailActionUsecase covers mail sync and the suggestion lifecycle
type EmailActionUsecase interface {
	// SyncMail fetches the inbox window and runs the extraction pipeline
	SyncMail(ctx context.Context, userID string) (*MailSyncResult, error)
	ListSuggestions(userID string, limit int) ([]*emaildomain.EmailAction, error)
	CountSuggestions(userID string) (int64, error)
	// Convert turns a pending suggestion into a task, exactly once
	Convert(userID, actionID string) (*taskdomain.Task, error)
	Dismiss(userID, actionID string) (*emaildomain.EmailAction, error)
}

// TaskStore is the part of the task repository conversion needs
type TaskStore interface {
	Create(task *taskdomain.Task) error
	Delete(id string) error
}

type MailSyncResult struct {
	Count   int    `json:"count"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}
