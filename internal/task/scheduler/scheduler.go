package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/internal/task/repository"
	"github.com/itsprade/good-morning/pkg/fcm"
	"github.com/itsprade/good-morning/pkg/logger"
)

// Notifier delivers a push notification to every device of a user
type Notifier interface {
	SendToUser(ctx context.Context, userID string, n fcm.NotificationData) error
}

// TaskReminderScheduler sends push reminders for tasks whose reminder is due
type TaskReminderScheduler struct {
	taskRepo repository.TaskRepository
	notifier Notifier
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewTaskReminderScheduler(taskRepo repository.TaskRepository, notifier Notifier) *TaskReminderScheduler {
	return &TaskReminderScheduler{
		taskRepo: taskRepo,
		notifier: notifier,
		interval: time.Minute,
		now:      time.Now,
		logger:   logger.Named("task_scheduler"),
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *TaskReminderScheduler) Start() {
	if s.notifier == nil {
		s.logger.Info("no notifier configured, reminder scheduler disabled")
		return
	}
	s.logger.Info("starting task reminder scheduler", zap.Duration("interval", s.interval))

	go func() {
		s.CheckAndSendReminders(context.Background())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.CheckAndSendReminders(context.Background())
			case <-s.stopChan:
				s.logger.Info("reminder scheduler stopped")
				return
			}
		}
	}()
}

func (s *TaskReminderScheduler) Stop() {
	close(s.stopChan)
}

// CheckAndSendReminders pushes every due reminder once. A reminder is marked
// sent even when delivery fails so a broken device does not get spammed.
func (s *TaskReminderScheduler) CheckAndSendReminders(ctx context.Context) int {
	tasks, err := s.taskRepo.FindPendingReminders(s.now())
	if err != nil {
		s.logger.Error("failed to find pending reminders", zap.Error(err))
		return 0
	}
	if len(tasks) == 0 {
		return 0
	}
	s.logger.Info("sending task reminders", zap.Int("count", len(tasks)))

	sent := 0
	for _, task := range tasks {
		if err := s.notifier.SendToUser(ctx, task.UserID, reminderNotification(task)); err != nil {
			s.logger.Warn("failed to send reminder",
				zap.String("task_id", task.ID),
				zap.String("user_id", task.UserID),
				zap.Error(err))
		} else {
			sent++
		}
		if err := s.taskRepo.MarkReminderSent(task.ID); err != nil {
			s.logger.Error("failed to mark reminder sent", zap.String("task_id", task.ID), zap.Error(err))
		}
	}
	return sent
}

func reminderNotification(task *domain.Task) fcm.NotificationData {
	badge := "🟡"
	switch task.Priority {
	case domain.PriorityHigh:
		badge = "🔴"
	case domain.PriorityLow:
		badge = "🟢"
	}

	body := "You have a task to finish"
	if task.Description != nil && *task.Description != "" {
		body = *task.Description
	}
	if task.DueDate != nil {
		body = fmt.Sprintf("%s\n📅 Due: %s", body, task.DueDate.Format("Jan 2, 2006"))
	}

	return fcm.NotificationData{
		Title: badge + " Reminder: " + task.Title,
		Body:  body,
		Data: map[string]string{
			"type":     "task_reminder",
			"task_id":  task.ID,
			"priority": string(task.Priority),
		},
		ClickAction: "/tasks",
	}
}
