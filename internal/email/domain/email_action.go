package domain

import "time"

// ActionStatus is the lifecycle state of a suggestion. Converted and
// dismissed are terminal.
type ActionStatus string

const (
	ActionSuggested ActionStatus = "suggested"
	ActionConverted ActionStatus = "converted"
	ActionDismissed ActionStatus = "dismissed"
)

// EmailAction is a task suggested from one inbox message.
type EmailAction struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"userId" gorm:"not null;index:idx_email_actions_user_status,priority:1"`
	EmailID    string    `json:"emailId" gorm:"not null;index"`
	Subject    string    `json:"subject"`
	Sender     string    `json:"sender"`
	ReceivedAt time.Time `json:"receivedAt"`

	SuggestedTaskTitle   string     `json:"suggestedTaskTitle" gorm:"not null"`
	SuggestedDescription *string    `json:"suggestedDescription,omitempty"`
	SuggestedPriority    string     `json:"suggestedPriority" gorm:"default:medium"`
	SuggestedDueDate     *time.Time `json:"suggestedDueDate,omitempty"`

	Status            ActionStatus `json:"status" gorm:"not null;default:suggested;index:idx_email_actions_user_status,priority:2"`
	ConvertedToTaskID *string      `json:"convertedToTaskId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
