package domain

import "time"

// Priority of a task. Empty means the user never set one.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Source tells where a task came from
type Source string

const (
	SourceManual Source = "manual"
	SourceMail   Source = "mail"
)

// Task is a to-do item created by hand or converted from a mail suggestion
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"userId" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed" gorm:"default:false;index"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Source      Source     `json:"source" gorm:"default:manual"`
	SourceID    *string    `json:"sourceId,omitempty"` // Gmail message id for mail tasks

	ReminderAt   *time.Time `json:"reminderAt,omitempty"`
	ReminderSent bool       `json:"reminderSent" gorm:"default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Valid reports whether p is one of the known priorities or empty.
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}
