package usecase

import "github.com/itsprade/good-morning/internal/task/domain"

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	CreateTask(userID string, input CreateTaskInput) (*domain.Task, error)

	// GetTaskByID returns NotFound for absent and foreign tasks alike
	GetTaskByID(userID, taskID string) (*domain.Task, error)

	ListTasks(userID string) ([]*domain.Task, error)

	UpdateTask(userID, taskID string, patch TaskUpdateRequest) (*domain.Task, error)

	DeleteTask(userID, taskID string) error

	// SearchTasks ranks the user's tasks against a typo-tolerant query
	SearchTasks(userID, query string) ([]*domain.Task, error)
}

type CreateTaskInput struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	ReminderAt  *string `json:"reminderAt"`
}

// TaskUpdateRequest is a partial update. An empty string clears the
// optional fields.
type TaskUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	ReminderAt  *string `json:"reminderAt,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}
