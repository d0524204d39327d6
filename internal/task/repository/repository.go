package repository

import (
	"time"

	"github.com/itsprade/good-morning/internal/task/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(task *domain.Task) error

	// FindByID returns nil, nil when no row matches
	FindByID(id string) (*domain.Task, error)

	// FindByUserID lists incomplete tasks first, then newest created first
	FindByUserID(userID string) ([]*domain.Task, error)

	// FindActive returns up to limit incomplete tasks in list order
	FindActive(userID string, limit int) ([]*domain.Task, error)

	CountActive(userID string) (int64, error)

	Update(task *domain.Task) error

	Delete(id string) error

	DeleteByUserID(userID string) error

	// FindPendingReminders finds incomplete tasks whose reminder is due and unsent
	FindPendingReminders(now time.Time) ([]*domain.Task, error)

	MarkReminderSent(id string) error
}
