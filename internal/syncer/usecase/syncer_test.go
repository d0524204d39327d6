package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	emailusecase "github.com/itsprade/good-morning/internal/email/usecase"
	summarydomain "github.com/itsprade/good-morning/internal/summary/domain"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/clock"
	"github.com/itsprade/good-morning/pkg/config"
	"github.com/itsprade/good-morning/pkg/fcm"
	"github.com/itsprade/good-morning/pkg/googleauth"
	"github.com/itsprade/good-morning/pkg/syncguard"
)

var syncNow = time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

type MockUserStore struct {
	Users  []*authdomain.User
	mu     sync.Mutex
	Synced map[string]time.Time
}

func (m *MockUserStore) FindWithGoogleCredential() ([]*authdomain.User, error) {
	return m.Users, nil
}

func (m *MockUserStore) MarkSynced(userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Synced == nil {
		m.Synced = map[string]time.Time{}
	}
	m.Synced[userID] = at
	return nil
}

type MockCredentials struct {
	Err error
}

func (m *MockCredentials) GoogleCredentials(context.Context, string) (*authdomain.User, googleauth.Credentials, error) {
	return nil, googleauth.Credentials{}, m.Err
}

type MockMail struct {
	SyncMailFunc func(ctx context.Context, userID string) (*emailusecase.MailSyncResult, error)
}

func (m *MockMail) SyncMail(ctx context.Context, userID string) (*emailusecase.MailSyncResult, error) {
	return m.SyncMailFunc(ctx, userID)
}

type MockCalendar struct {
	SyncTodayFunc func(ctx context.Context, userID string) (int, error)
}

func (m *MockCalendar) SyncToday(ctx context.Context, userID string) (int, error) {
	return m.SyncTodayFunc(ctx, userID)
}

type MockBriefing struct{}

func (MockBriefing) Today(context.Context, string) (*summarydomain.Summary, error) {
	return &summarydomain.Summary{Bold: "Three meetings today.", Day: "2026-03-02"}, nil
}

type MockNotifier struct {
	mu    sync.Mutex
	Users []string
}

func (m *MockNotifier) SendToUser(_ context.Context, userID string, _ fcm.NotificationData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users = append(m.Users, userID)
	return nil
}

// lockedGuard refuses every key in held.
type lockedGuard map[string]bool

func (g lockedGuard) TryAcquire(_ context.Context, key string) (func(), bool) {
	if g[key] {
		return nil, false
	}
	return func() {}, true
}

func threeUsers() *MockUserStore {
	return &MockUserStore{Users: []*authdomain.User{
		{ID: "u1", Email: "one@example.com"},
		{ID: "u2", Email: "two@example.com"},
		{ID: "u3", Email: "three@example.com"},
	}}
}

func okMail() *MockMail {
	return &MockMail{SyncMailFunc: func(context.Context, string) (*emailusecase.MailSyncResult, error) {
		return &emailusecase.MailSyncResult{Count: 1, Total: 4}, nil
	}}
}

func TestDailySyncIsolatesFailures(t *testing.T) {
	users := threeUsers()
	notifier := &MockNotifier{}
	s := NewSyncer(Deps{
		Users: users,
		Mail:  okMail(),
		Calendar: &MockCalendar{SyncTodayFunc: func(_ context.Context, userID string) (int, error) {
			if userID == "u2" {
				return 0, apperror.Upstream("calendar", errors.New("token revoked"))
			}
			return 2, nil
		}},
		Briefing: MockBriefing{},
		Notifier: notifier,
		Clock:    clock.Fixed{At: syncNow},
	}, config.SyncConfig{Concurrency: 2, Timeout: time.Minute, PushBriefing: true}, "")

	batch, err := s.DailySync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if batch.SyncedUsers != 2 || len(batch.Results) != 3 {
		t.Fatalf("batch = %+v", batch)
	}

	want := map[string]string{"u1": StatusSuccess, "u2": StatusError, "u3": StatusSuccess}
	for i, r := range batch.Results {
		if r.UserID != users.Users[i].ID {
			t.Errorf("slot %d holds %s", i, r.UserID)
		}
		if r.Status != want[r.UserID] {
			t.Errorf("%s status = %s, want %s", r.UserID, r.Status, want[r.UserID])
		}
	}
	if u2 := batch.Results[1]; u2.Gmail == nil || u2.Gmail.Status != StatusSuccess || u2.Error == "" {
		t.Errorf("u2 mail should still run and error be recorded: %+v", u2)
	}
	if len(notifier.Users) != 2 {
		t.Errorf("briefings pushed to %v", notifier.Users)
	}
}

func TestBatchDeadlineSkipsUnstartedUsers(t *testing.T) {
	users := threeUsers()
	s := NewSyncer(Deps{
		Users: users,
		Mail: &MockMail{SyncMailFunc: func(ctx context.Context, _ string) (*emailusecase.MailSyncResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
		Clock: clock.Fixed{At: syncNow},
	}, config.SyncConfig{Concurrency: 1, Timeout: 20 * time.Millisecond}, "")

	batch, err := s.SyncAllMail(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if batch.Results[0].Status != StatusError {
		t.Errorf("first user = %+v", batch.Results[0])
	}
	for _, r := range batch.Results[1:] {
		if r.Status != StatusSkipped || r.Error == "" {
			t.Errorf("%s = %+v, want skipped", r.UserID, r)
		}
	}
}

func TestManualSyncRespectsGuard(t *testing.T) {
	s := NewSyncer(Deps{
		Users: threeUsers(),
		Mail:  okMail(),
		Guard: lockedGuard{syncguard.Key("u1", "mail"): true},
		Clock: clock.Fixed{At: syncNow},
	}, config.SyncConfig{}, "")

	if _, err := s.SyncMail(context.Background(), "u1"); !errors.Is(err, apperror.ErrSyncInProgress) {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.SyncMail(context.Background(), "u2"); err != nil {
		t.Fatalf("other user: %v", err)
	}

	batch, _ := s.SyncAllMail(context.Background())
	if batch.Results[0].Status != StatusSkipped || batch.Results[1].Status != StatusSuccess {
		t.Errorf("batch = %+v", batch.Results)
	}
}

func TestInitialSyncToleratesPartialFailure(t *testing.T) {
	users := threeUsers()
	s := NewSyncer(Deps{
		Users:       users,
		Credentials: &MockCredentials{},
		Mail: &MockMail{SyncMailFunc: func(context.Context, string) (*emailusecase.MailSyncResult, error) {
			return &emailusecase.MailSyncResult{}, nil
		}},
		Calendar: &MockCalendar{SyncTodayFunc: func(context.Context, string) (int, error) {
			return 0, errors.New("calendar API disabled")
		}},
		Clock: clock.Fixed{At: syncNow},
	}, config.SyncConfig{InitialSyncTimeout: time.Minute}, "")

	res, err := s.InitialSync(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Calendar.Status != StatusError || res.Gmail.Status != StatusNoEmails {
		t.Errorf("result = %+v", res)
	}
	if at, ok := users.Synced["u1"]; !ok || !at.Equal(syncNow) {
		t.Errorf("user not marked synced: %v", users.Synced)
	}
}

func TestInitialSyncWithoutCredential(t *testing.T) {
	users := threeUsers()
	s := NewSyncer(Deps{
		Users:       users,
		Credentials: &MockCredentials{Err: apperror.ErrNoCredential},
		Clock:       clock.Fixed{At: syncNow},
	}, config.SyncConfig{}, "")

	if _, err := s.InitialSync(context.Background(), "u1"); !errors.Is(err, apperror.ErrNoCredential) {
		t.Fatalf("err = %v", err)
	}
	if len(users.Synced) != 0 {
		t.Error("user must not be marked synced")
	}
}
