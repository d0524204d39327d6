package usecase

import (
	"context"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	calendardomain "github.com/itsprade/good-morning/internal/calendar/domain"
	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	summarydomain "github.com/itsprade/good-morning/internal/summary/domain"
	taskdomain "github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/pkg/clock"
)

const (
	dashboardSuggestions = 5
	dashboardTopTasks    = 3
)

type SummaryProvider interface {
	Today(ctx context.Context, userID string) (*summarydomain.Summary, error)
}

type EventProvider interface {
	TodayEvents(userID string) ([]*calendardomain.Event, error)
}

type SuggestionProvider interface {
	ListSuggestions(userID string, limit int) ([]*emaildomain.EmailAction, error)
}

type TaskProvider interface {
	ListTasks(userID string) ([]*taskdomain.Task, error)
}

// Dashboard is the home page payload
type Dashboard struct {
	Greeting         string                     `json:"greeting"`
	Name             string                     `json:"name"`
	Summary          *summarydomain.Summary     `json:"summary"`
	Events           []*calendardomain.Event    `json:"events"`
	EmailActions     []*emaildomain.EmailAction `json:"emailActions"`
	TopTasks         []*taskdomain.Task         `json:"topTasks"`
	OtherTasks       []*taskdomain.Task         `json:"otherTasks"`
	CompletedTasks   []*taskdomain.Task         `json:"completedTasks"`
	NeedsInitialSync bool                       `json:"needsInitialSync"`
	GoogleConnected  bool                       `json:"googleConnected"`
}

type DashboardUsecase interface {
	Build(ctx context.Context, user *authdomain.User) (*Dashboard, error)
}

type dashboardUsecase struct {
	summaries   SummaryProvider
	events      EventProvider
	suggestions SuggestionProvider
	tasks       TaskProvider
	clock       clock.Clock
}

func NewDashboardUsecase(summaries SummaryProvider, events EventProvider, suggestions SuggestionProvider, tasks TaskProvider, clk clock.Clock) DashboardUsecase {
	return &dashboardUsecase{
		summaries:   summaries,
		events:      events,
		suggestions: suggestions,
		tasks:       tasks,
		clock:       clk,
	}
}

func (u *dashboardUsecase) Build(ctx context.Context, user *authdomain.User) (*Dashboard, error) {
	d := &Dashboard{
		Greeting:         Greeting(u.clock.Now().Hour()),
		Name:             user.Name,
		Events:           []*calendardomain.Event{},
		EmailActions:     []*emaildomain.EmailAction{},
		TopTasks:         []*taskdomain.Task{},
		OtherTasks:       []*taskdomain.Task{},
		CompletedTasks:   []*taskdomain.Task{},
		NeedsInitialSync: user.NeedsInitialSync(),
		GoogleConnected:  user.HasGoogleCredential(),
	}

	events, err := u.events.TodayEvents(user.ID)
	if err != nil {
		return nil, err
	}
	if events != nil {
		d.Events = events
	}

	actions, err := u.suggestions.ListSuggestions(user.ID, dashboardSuggestions)
	if err != nil {
		return nil, err
	}
	if actions != nil {
		d.EmailActions = actions
	}

	tasks, err := u.tasks.ListTasks(user.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		switch {
		case t.Completed:
			d.CompletedTasks = append(d.CompletedTasks, t)
		case len(d.TopTasks) < dashboardTopTasks:
			d.TopTasks = append(d.TopTasks, t)
		default:
			d.OtherTasks = append(d.OtherTasks, t)
		}
	}

	summary, err := u.summaries.Today(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	d.Summary = summary
	return d, nil
}

// Greeting picks the salutation for an hour of the day (0-23).
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good Morning"
	case hour < 17:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}
