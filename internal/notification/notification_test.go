package notification

import (
	"context"
	"errors"
	"testing"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	emailusecase "github.com/itsprade/good-morning/internal/email/usecase"
	notifdomain "github.com/itsprade/good-morning/internal/notification/domain"
	"github.com/itsprade/good-morning/internal/notification/repository"
	"github.com/itsprade/good-morning/pkg/database"
	"github.com/itsprade/good-morning/pkg/fcm"
)

type MockSender struct {
	SendToDevicesFunc func(ctx context.Context, tokens []string, n fcm.NotificationData) ([]string, error)
	Calls             int
}

func (m *MockSender) SendToDevices(ctx context.Context, tokens []string, n fcm.NotificationData) ([]string, error) {
	m.Calls++
	return m.SendToDevicesFunc(ctx, tokens, n)
}

func newTokenRepo(t *testing.T) repository.DeviceTokenRepository {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&notifdomain.DeviceToken{}); err != nil {
		t.Fatal(err)
	}
	return repository.NewDeviceTokenRepository(db)
}

func TestNotifierDropsInvalidTokens(t *testing.T) {
	tokens := newTokenRepo(t)
	for _, tok := range []string{"good", "stale"} {
		if err := tokens.Save("u1", tok, "browser"); err != nil {
			t.Fatal(err)
		}
	}
	sender := &MockSender{
		SendToDevicesFunc: func(_ context.Context, got []string, _ fcm.NotificationData) ([]string, error) {
			if len(got) != 2 {
				t.Errorf("sent to %d tokens, want 2", len(got))
			}
			return []string{"stale"}, nil
		},
	}

	n := NewNotifier(tokens, sender)
	if err := n.SendToUser(context.Background(), "u1", fcm.NotificationData{Title: "hi"}); err != nil {
		t.Fatal(err)
	}

	left, _ := tokens.FindByUserID("u1")
	if len(left) != 1 || left[0].Token != "good" {
		t.Errorf("remaining tokens = %v", left)
	}
}

func TestNotifierWithoutSenderIsNoop(t *testing.T) {
	n := NewNotifier(newTokenRepo(t), nil)
	if n.Enabled() {
		t.Fatal("notifier without sender must be disabled")
	}
	if err := n.SendToUser(context.Background(), "u1", fcm.NotificationData{}); err != nil {
		t.Fatal(err)
	}

	var nilNotifier *Notifier
	if err := nilNotifier.SendToUser(context.Background(), "u1", fcm.NotificationData{}); err != nil {
		t.Fatal(err)
	}
}

type stubUsers map[string]*authdomain.User

func (s stubUsers) FindByEmail(email string) (*authdomain.User, error) {
	return s[email], nil
}

type MockMailSyncer struct {
	SyncMailFunc func(ctx context.Context, userID string) (*emailusecase.MailSyncResult, error)
	Calls        []string
}

func (m *MockMailSyncer) SyncMail(ctx context.Context, userID string) (*emailusecase.MailSyncResult, error) {
	m.Calls = append(m.Calls, userID)
	return m.SyncMailFunc(ctx, userID)
}

func TestHandleNotification(t *testing.T) {
	syncer := &MockMailSyncer{
		SyncMailFunc: func(context.Context, string) (*emailusecase.MailSyncResult, error) {
			return &emailusecase.MailSyncResult{Count: 1, Total: 3, Message: "Found 1 new action items from 3 emails"}, nil
		},
	}
	sender := &MockSender{
		SendToDevicesFunc: func(context.Context, []string, fcm.NotificationData) ([]string, error) { return nil, nil },
	}
	tokens := newTokenRepo(t)
	if err := tokens.Save("u1", "tok", ""); err != nil {
		t.Fatal(err)
	}
	l := newListener(stubUsers{"ana@example.com": {ID: "u1"}}, syncer, NewNotifier(tokens, sender))

	tests := []struct {
		name    string
		payload string
		synced  bool
	}{
		{"first notification", `{"emailAddress":"ana@example.com","historyId":10}`, true},
		{"replayed history id", `{"emailAddress":"ana@example.com","historyId":10}`, false},
		{"older history id", `{"emailAddress":"ana@example.com","historyId":7}`, false},
		{"newer history id", `{"emailAddress":"ana@example.com","historyId":11}`, true},
		{"unknown mailbox", `{"emailAddress":"bob@example.com","historyId":99}`, false},
		{"garbage", `not json`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.HandleNotification(context.Background(), []byte(tt.payload)); got != tt.synced {
				t.Errorf("HandleNotification = %v, want %v", got, tt.synced)
			}
		})
	}
	if len(syncer.Calls) != 2 {
		t.Errorf("syncs = %v", syncer.Calls)
	}
	if sender.Calls != 2 {
		t.Errorf("pushes = %d, want 2", sender.Calls)
	}
}

func TestHandleNotificationSyncFailure(t *testing.T) {
	syncer := &MockMailSyncer{
		SyncMailFunc: func(context.Context, string) (*emailusecase.MailSyncResult, error) {
			return nil, errors.New("gmail down")
		},
	}
	l := newListener(stubUsers{"ana@example.com": {ID: "u1"}}, syncer, nil)
	if !l.HandleNotification(context.Background(), []byte(`{"emailAddress":"ana@example.com","historyId":1}`)) {
		t.Error("a failed sync still consumes the notification")
	}
}
