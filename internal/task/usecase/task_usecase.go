package usecase

import (
	"sort"
	"strings"
	"time"

	"github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/internal/task/repository"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/clock"
	"github.com/itsprade/good-morning/pkg/fuzzy"
)

type taskUsecase struct {
	taskRepo repository.TaskRepository
	clock    clock.Clock
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(taskRepo repository.TaskRepository, clk clock.Clock) TaskUsecase {
	return &taskUsecase{taskRepo: taskRepo, clock: clk}
}

func (u *taskUsecase) CreateTask(userID string, input CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.InvalidInput("title is required")
	}

	task := &domain.Task{
		UserID: userID,
		Title:  title,
		Source: domain.SourceManual,
	}
	if input.Description != nil && *input.Description != "" {
		d := *input.Description
		task.Description = &d
	}

	priority := domain.Priority(strings.ToLower(input.Priority))
	if !priority.Valid() {
		return nil, apperror.InvalidInput("invalid priority %q", input.Priority)
	}
	task.Priority = priority

	var err error
	if input.DueDate != nil {
		if task.DueDate, err = u.parseTime(*input.DueDate, "dueDate"); err != nil {
			return nil, err
		}
	}
	if input.ReminderAt != nil {
		if task.ReminderAt, err = u.parseTime(*input.ReminderAt, "reminderAt"); err != nil {
			return nil, err
		}
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) GetTaskByID(userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.UserID != userID {
		return nil, apperror.NotFound("task")
	}
	return task, nil
}

func (u *taskUsecase) ListTasks(userID string) ([]*domain.Task, error) {
	return u.taskRepo.FindByUserID(userID)
}

func (u *taskUsecase) UpdateTask(userID, taskID string, patch TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if t := strings.TrimSpace(*patch.Title); t != "" {
			task.Title = t
		}
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			task.Description = nil
		} else {
			d := *patch.Description
			task.Description = &d
		}
	}
	if patch.Priority != nil {
		p := domain.Priority(strings.ToLower(*patch.Priority))
		if !p.Valid() {
			return nil, apperror.InvalidInput("invalid priority %q", *patch.Priority)
		}
		task.Priority = p
	}
	if patch.DueDate != nil {
		if task.DueDate, err = u.parseTime(*patch.DueDate, "dueDate"); err != nil {
			return nil, err
		}
	}
	if patch.ReminderAt != nil {
		if task.ReminderAt, err = u.parseTime(*patch.ReminderAt, "reminderAt"); err != nil {
			return nil, err
		}
		task.ReminderSent = false
	}
	if patch.Completed != nil && *patch.Completed != task.Completed {
		task.Completed = *patch.Completed
		if task.Completed {
			now := u.clock.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) DeleteTask(userID, taskID string) error {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return err
	}
	return u.taskRepo.Delete(task.ID)
}

func (u *taskUsecase) SearchTasks(userID, query string) ([]*domain.Task, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.InvalidInput("search query is required")
	}
	tasks, err := u.taskRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	type scored struct {
		task  *domain.Task
		score float64
	}
	var hits []scored
	for _, t := range tasks {
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		if s := fuzzy.Score(query, t.Title, desc); s > 0 {
			hits = append(hits, scored{t, s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	result := make([]*domain.Task, 0, len(hits))
	for _, h := range hits {
		result = append(result, h.task)
	}
	return result, nil
}

// parseTime accepts RFC3339 or YYYY-MM-DD; an empty string means unset.
func (u *taskUsecase) parseTime(s, field string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if t, err := clock.ParseDay(s, u.clock.Location()); err == nil {
		return &t, nil
	}
	return nil, apperror.InvalidInput("%s must be RFC3339 or YYYY-MM-DD", field)
}
