package repository

import (
	"testing"
	"time"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/pkg/database"
)

func newTestRepo(t *testing.T) EmailActionRepository {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&emaildomain.EmailAction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewEmailActionRepository(db)
}

func TestFindSuggestedOrderAndScope(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Create(&emaildomain.EmailAction{
			ID: id, UserID: "u1", EmailID: "m-" + id, SuggestedTaskTitle: id,
			ReceivedAt: base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Create(&emaildomain.EmailAction{UserID: "u2", EmailID: "m-x", SuggestedTaskTitle: "x"}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.FindSuggested("u1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("FindSuggested = %v", got)
	}
	if n, _ := repo.CountSuggested("u1"); n != 3 {
		t.Errorf("CountSuggested = %d, want 3", n)
	}
}

func TestTransitionStatusIsConditional(t *testing.T) {
	repo := newTestRepo(t)
	action := &emaildomain.EmailAction{UserID: "u1", EmailID: "m1", SuggestedTaskTitle: "Reply"}
	if err := repo.Create(action); err != nil {
		t.Fatal(err)
	}

	if ok, err := repo.TransitionStatus("u2", action.ID, emaildomain.ActionDismissed, nil); err != nil || ok {
		t.Fatalf("foreign user transition = %v, %v", ok, err)
	}

	taskID := "task-1"
	ok, err := repo.TransitionStatus("u1", action.ID, emaildomain.ActionConverted, &taskID)
	if err != nil || !ok {
		t.Fatalf("first transition = %v, %v", ok, err)
	}
	if ok, _ := repo.TransitionStatus("u1", action.ID, emaildomain.ActionDismissed, nil); ok {
		t.Fatal("terminal status must not change")
	}

	stored, _ := repo.FindByID(action.ID)
	if stored.Status != emaildomain.ActionConverted || stored.ConvertedToTaskID == nil || *stored.ConvertedToTaskID != taskID {
		t.Errorf("stored = %+v", stored)
	}
	if n, _ := repo.CountSuggested("u1"); n != 0 {
		t.Errorf("CountSuggested = %d, want 0", n)
	}
}
