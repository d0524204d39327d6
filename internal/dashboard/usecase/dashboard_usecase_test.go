package usecase

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	calendardomain "github.com/itsprade/good-morning/internal/calendar/domain"
	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	summarydomain "github.com/itsprade/good-morning/internal/summary/domain"
	taskdomain "github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/pkg/clock"
)

type stubSummary struct{}

func (stubSummary) Today(context.Context, string) (*summarydomain.Summary, error) {
	return &summarydomain.Summary{Bold: "Busy day.", Light: "Pace yourself."}, nil
}

type stubEvents struct{}

func (stubEvents) TodayEvents(string) ([]*calendardomain.Event, error) { return nil, nil }

type stubSuggestions struct{ limit int }

func (s *stubSuggestions) ListSuggestions(_ string, limit int) ([]*emaildomain.EmailAction, error) {
	s.limit = limit
	return []*emaildomain.EmailAction{{ID: "a1"}}, nil
}

type stubTasks []*taskdomain.Task

func (s stubTasks) ListTasks(string) ([]*taskdomain.Task, error) { return s, nil }

func TestGreeting(t *testing.T) {
	tests := map[int]string{0: "Good Morning", 11: "Good Morning", 12: "Good Afternoon", 16: "Good Afternoon", 17: "Good Evening", 23: "Good Evening"}
	for hour, want := range tests {
		if got := Greeting(hour); got != want {
			t.Errorf("Greeting(%d) = %q, want %q", hour, got, want)
		}
	}
}

func TestBuildPartitionsTasks(t *testing.T) {
	tasks := stubTasks{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"},
		{ID: "done", Completed: true},
	}
	suggestions := &stubSuggestions{}
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	uc := NewDashboardUsecase(stubSummary{}, stubEvents{}, suggestions, tasks, clock.Fixed{At: now})

	user := &authdomain.User{ID: "u1", Name: "Ana", GoogleAccessToken: "tok"}
	d, err := uc.Build(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	if d.Greeting != "Good Afternoon" || d.Name != "Ana" {
		t.Errorf("header = %q %q", d.Greeting, d.Name)
	}
	if len(d.TopTasks) != 3 || len(d.OtherTasks) != 2 || len(d.CompletedTasks) != 1 {
		t.Errorf("partition = %d/%d/%d", len(d.TopTasks), len(d.OtherTasks), len(d.CompletedTasks))
	}
	if d.TopTasks[0].ID != "a" || d.OtherTasks[0].ID != "d" {
		t.Error("list order not preserved")
	}
	if !d.GoogleConnected || !d.NeedsInitialSync {
		t.Errorf("flags = connected %v, needsInitialSync %v", d.GoogleConnected, d.NeedsInitialSync)
	}
	if suggestions.limit != 5 || d.Events == nil {
		t.Errorf("limit = %d, events = %v", suggestions.limit, d.Events)
	}
	if d.Summary.Bold != "Busy day." {
		t.Errorf("summary = %+v", d.Summary)
	}
}
