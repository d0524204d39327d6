package repository

import (
	"testing"
	"time"

	"github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/pkg/database"
)

func newTestRepo(t *testing.T) TaskRepository {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewGormTaskRepository(db)
}

func TestFindByUserIDOrdering(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	seed := []struct {
		id        string
		completed bool
		created   time.Time
	}{
		{"old-open", false, base},
		{"new-done", true, base.Add(3 * time.Hour)},
		{"new-open", false, base.Add(2 * time.Hour)},
		{"old-done", true, base.Add(time.Hour)},
	}
	for _, s := range seed {
		task := &domain.Task{ID: s.id, UserID: "u1", Title: s.id, Completed: s.completed, CreatedAt: s.created}
		if err := repo.Create(task); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Create(&domain.Task{UserID: "u2", Title: "foreign"}); err != nil {
		t.Fatal(err)
	}

	tasks, err := repo.FindByUserID("u1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"new-open", "old-open", "new-done", "old-done"}
	if len(tasks) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(want))
	}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, tasks[i].ID, id)
		}
	}

	active, err := repo.CountActive("u1")
	if err != nil || active != 2 {
		t.Errorf("CountActive = %d, %v", active, err)
	}
	top, err := repo.FindActive("u1", 1)
	if err != nil || len(top) != 1 || top[0].ID != "new-open" {
		t.Errorf("FindActive = %v, %v", top, err)
	}
}

func TestFindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)
	task, err := repo.FindByID("nope")
	if err != nil || task != nil {
		t.Fatalf("FindByID = %v, %v; want nil, nil", task, err)
	}
}

func TestPendingReminders(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	for _, task := range []*domain.Task{
		{ID: "due", UserID: "u1", Title: "due", ReminderAt: &past},
		{ID: "later", UserID: "u1", Title: "later", ReminderAt: &future},
		{ID: "done", UserID: "u1", Title: "done", ReminderAt: &past, Completed: true},
		{ID: "sent", UserID: "u1", Title: "sent", ReminderAt: &past, ReminderSent: true},
	} {
		if err := repo.Create(task); err != nil {
			t.Fatal(err)
		}
	}

	pending, err := repo.FindPendingReminders(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != "due" {
		t.Fatalf("pending = %v", pending)
	}

	if err := repo.MarkReminderSent("due"); err != nil {
		t.Fatal(err)
	}
	pending, _ = repo.FindPendingReminders(now)
	if len(pending) != 0 {
		t.Errorf("expected no pending reminders, got %d", len(pending))
	}
}
