package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/internal/task/repository"
	"github.com/itsprade/good-morning/pkg/database"
	"github.com/itsprade/good-morning/pkg/fcm"
)

type MockNotifier struct {
	SendToUserFunc func(ctx context.Context, userID string, n fcm.NotificationData) error
	Sent           []fcm.NotificationData
}

func (m *MockNotifier) SendToUser(ctx context.Context, userID string, n fcm.NotificationData) error {
	m.Sent = append(m.Sent, n)
	if m.SendToUserFunc != nil {
		return m.SendToUserFunc(ctx, userID, n)
	}
	return nil
}

func TestCheckAndSendReminders(t *testing.T) {
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatal(err)
	}
	repo := repository.NewGormTaskRepository(db)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	past := now.Add(-5 * time.Minute)
	for _, task := range []*domain.Task{
		{ID: "a", UserID: "u1", Title: "Pay rent", Priority: domain.PriorityHigh, ReminderAt: &past},
		{ID: "b", UserID: "u2", Title: "Water plants", ReminderAt: &past},
	} {
		if err := repo.Create(task); err != nil {
			t.Fatal(err)
		}
	}

	notifier := &MockNotifier{
		SendToUserFunc: func(_ context.Context, userID string, _ fcm.NotificationData) error {
			if userID == "u2" {
				return errors.New("no devices reachable")
			}
			return nil
		},
	}
	s := NewTaskReminderScheduler(repo, notifier)
	s.now = func() time.Time { return now }

	if sent := s.CheckAndSendReminders(context.Background()); sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if len(notifier.Sent) != 2 {
		t.Fatalf("attempted %d sends, want 2", len(notifier.Sent))
	}
	for _, n := range notifier.Sent {
		if strings.Contains(n.Title, "Pay rent") && !strings.HasPrefix(n.Title, "🔴") {
			t.Errorf("high priority badge missing: %q", n.Title)
		}
	}

	// Both are marked sent, including the failed delivery.
	if sent := s.CheckAndSendReminders(context.Background()); sent != 0 || len(notifier.Sent) != 2 {
		t.Errorf("second pass resent reminders")
	}
}
