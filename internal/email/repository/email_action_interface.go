package repository

import (
	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
)

// EmailActionRepository stores task suggestions extracted from mail
type EmailActionRepository interface {
	Create(action *emaildomain.EmailAction) error
	// FindByID returns nil, nil when no row matches
	FindByID(id string) (*emaildomain.EmailAction, error)
	// FindSuggested returns the newest suggested rows by receivedAt; limit <= 0 means all
	FindSuggested(userID string, limit int) ([]*emaildomain.EmailAction, error)
	CountSuggested(userID string) (int64, error)
	// TransitionStatus moves a row out of "suggested". It reports false when
	// the row was no longer suggested.
	TransitionStatus(userID, id string, to emaildomain.ActionStatus, convertedToTaskID *string) (bool, error)
	DeleteByUserID(userID string) error
}
