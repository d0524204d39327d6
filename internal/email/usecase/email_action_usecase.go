package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/internal/email/repository"
	taskdomain "github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/clock"
	"github.com/itsprade/good-morning/pkg/logger"
)

type emailActionUsecase struct {
	fetcher      MailFetcher
	pipeline     *Pipeline
	actions      repository.EmailActionRepository
	tasks        TaskStore
	clock        clock.Clock
	reminderHour int
	logger       *zap.Logger
}

func NewEmailActionUsecase(
	fetcher MailFetcher,
	pipeline *Pipeline,
	actions repository.EmailActionRepository,
	tasks TaskStore,
	clk clock.Clock,
	reminderHour int,
) EmailActionUsecase {
	return &emailActionUsecase{
		fetcher:      fetcher,
		pipeline:     pipeline,
		actions:      actions,
		tasks:        tasks,
		clock:        clk,
		reminderHour: reminderHour,
		logger:       logger.Named("email_actions"),
	}
}

func (u *emailActionUsecase) SyncMail(ctx context.Context, userID string) (*MailSyncResult, error) {
	messages, err := u.fetcher.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return &MailSyncResult{Message: "No recent emails found"}, nil
	}

	result, err := u.pipeline.Run(ctx, userID, messages)
	if err != nil {
		return &MailSyncResult{Count: len(result.Created), Total: len(messages)}, err
	}
	return &MailSyncResult{
		Count:   len(result.Created),
		Total:   len(messages),
		Message: fmt.Sprintf("Found %d new action items from %d emails", len(result.Created), len(messages)),
	}, nil
}

func (u *emailActionUsecase) ListSuggestions(userID string, limit int) ([]*emaildomain.EmailAction, error) {
	return u.actions.FindSuggested(userID, limit)
}

func (u *emailActionUsecase) CountSuggestions(userID string) (int64, error) {
	return u.actions.CountSuggested(userID)
}

func (u *emailActionUsecase) findOwned(userID, actionID string) (*emaildomain.EmailAction, error) {
	action, err := u.actions.FindByID(actionID)
	if err != nil {
		return nil, err
	}
	if action == nil || action.UserID != userID {
		return nil, apperror.NotFound("email action")
	}
	return action, nil
}

func (u *emailActionUsecase) Convert(userID, actionID string) (*taskdomain.Task, error) {
	action, err := u.findOwned(userID, actionID)
	if err != nil {
		return nil, err
	}
	if action.Status != emaildomain.ActionSuggested {
		return nil, apperror.InvalidState("email action is already %s", action.Status)
	}

	task := u.taskFromSuggestion(action)
	if err := u.tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	ok, err := u.actions.TransitionStatus(userID, action.ID, emaildomain.ActionConverted, &task.ID)
	if err != nil || !ok {
		if delErr := u.tasks.Delete(task.ID); delErr != nil {
			u.logger.Error("failed to roll back converted task", zap.String("task_id", task.ID), zap.Error(delErr))
		}
		if err != nil {
			return nil, err
		}
		return nil, apperror.InvalidState("email action is no longer suggested")
	}

	u.logger.Info("suggestion converted",
		zap.String("user_id", userID),
		zap.String("email_action_id", action.ID),
		zap.String("task_id", task.ID))
	return task, nil
}

func (u *emailActionUsecase) Dismiss(userID, actionID string) (*emaildomain.EmailAction, error) {
	action, err := u.findOwned(userID, actionID)
	if err != nil {
		return nil, err
	}
	if action.Status != emaildomain.ActionSuggested {
		return nil, apperror.InvalidState("email action is already %s", action.Status)
	}

	ok, err := u.actions.TransitionStatus(userID, action.ID, emaildomain.ActionDismissed, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.InvalidState("email action is no longer suggested")
	}
	action.Status = emaildomain.ActionDismissed
	return action, nil
}

func (u *emailActionUsecase) taskFromSuggestion(action *emaildomain.EmailAction) *taskdomain.Task {
	emailID := action.EmailID
	task := &taskdomain.Task{
		UserID:      action.UserID,
		Title:       action.SuggestedTaskTitle,
		Description: action.SuggestedDescription,
		Priority:    taskdomain.Priority(action.SuggestedPriority),
		DueDate:     action.SuggestedDueDate,
		Source:      taskdomain.SourceMail,
		SourceID:    &emailID,
	}

	if action.SuggestedDueDate != nil {
		loc := u.clock.Location()
		d := action.SuggestedDueDate.In(loc)
		reminder := time.Date(d.Year(), d.Month(), d.Day(), u.reminderHour, 0, 0, 0, loc)
		if reminder.After(u.clock.Now()) {
			task.ReminderAt = &reminder
		}
	}
	return task
}
