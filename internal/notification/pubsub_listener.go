package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	emailusecase "github.com/itsprade/good-morning/internal/email/usecase"
	"github.com/itsprade/good-morning/pkg/fcm"
	"github.com/itsprade/good-morning/pkg/logger"
)

// GmailNotification is the payload Gmail publishes for a watched inbox
type GmailNotification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    uint64 `json:"historyId"`
}

type UserFinder interface {
	FindByEmail(email string) (*authdomain.User, error)
}

// MailSyncer runs one mail sync for a user
type MailSyncer interface {
	SyncMail(ctx context.Context, userID string) (*emailusecase.MailSyncResult, error)
}

// PubSubListener turns Gmail watch notifications into mail syncs
type PubSubListener struct {
	client    *pubsub.Client
	users     UserFinder
	syncer    MailSyncer
	notifier  *Notifier
	topicName string
	subName   string
	logger    *zap.Logger

	mu            sync.Mutex
	lastHistoryID map[string]uint64
}

func NewPubSubListener(ctx context.Context, projectID, topicName, credentialsFile string, users UserFinder, syncer MailSyncer, notifier *Notifier) (*PubSubListener, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	l := newListener(users, syncer, notifier)
	l.client = client
	l.topicName = topicName
	l.subName = topicName + "-sub"
	return l, nil
}

func newListener(users UserFinder, syncer MailSyncer, notifier *Notifier) *PubSubListener {
	return &PubSubListener{
		users:         users,
		syncer:        syncer,
		notifier:      notifier,
		logger:        logger.Named("pubsub"),
		lastHistoryID: make(map[string]uint64),
	}
}

// Start blocks receiving messages until ctx is done. The subscription is
// created on first use.
func (l *PubSubListener) Start(ctx context.Context) {
	l.logger.Info("starting Gmail push listener", zap.String("topic", l.topicName), zap.String("subscription", l.subName))

	sub := l.client.Subscription(l.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		l.logger.Error("failed to check subscription", zap.Error(err))
		return
	}
	if !exists {
		topic := l.client.Topic(l.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			l.logger.Error("failed to check topic", zap.Error(err))
			return
		}
		if !topicExists {
			l.logger.Error("topic does not exist, cannot create subscription", zap.String("topic", l.topicName))
			return
		}
		sub, err = l.client.CreateSubscription(ctx, l.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			l.logger.Error("failed to create subscription", zap.Error(err))
			return
		}
		l.logger.Info("created subscription", zap.String("subscription", l.subName))
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		l.HandleNotification(ctx, msg.Data)
		msg.Ack()
	})
	if err != nil && ctx.Err() == nil {
		l.logger.Error("receive stopped", zap.Error(err))
	}
}

func (l *PubSubListener) Close() error {
	if l.client == nil {
		return nil
	}
	return l.client.Close()
}

// HandleNotification syncs the mailbox named in a Gmail notification.
// History ids not newer than the last one seen for the user are ignored.
// It reports whether a sync ran.
func (l *PubSubListener) HandleNotification(ctx context.Context, data []byte) bool {
	var n GmailNotification
	if err := json.Unmarshal(data, &n); err != nil {
		l.logger.Warn("failed to decode notification", zap.Error(err))
		return false
	}

	user, err := l.users.FindByEmail(n.EmailAddress)
	if err != nil {
		l.logger.Error("failed to find user", zap.String("email", n.EmailAddress), zap.Error(err))
		return false
	}
	if user == nil {
		l.logger.Debug("notification for unknown mailbox", zap.String("email", n.EmailAddress))
		return false
	}

	if !l.advance(user.ID, n.HistoryID) {
		l.logger.Debug("skipping stale notification",
			zap.String("user_id", user.ID),
			zap.Uint64("history_id", n.HistoryID))
		return false
	}

	result, err := l.syncer.SyncMail(ctx, user.ID)
	if err != nil {
		l.logger.Warn("push-triggered sync failed", zap.String("user_id", user.ID), zap.Error(err))
		return true
	}
	if result != nil && result.Count > 0 {
		if err := l.notifier.SendToUser(ctx, user.ID, fcm.NotificationData{
			Title: "📬 New action items",
			Body:  result.Message,
			Data: map[string]string{
				"type":      "email_actions",
				"historyId": fmt.Sprintf("%d", n.HistoryID),
			},
			ClickAction: "/",
		}); err != nil {
			l.logger.Warn("failed to push new action items", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return true
}

func (l *PubSubListener) advance(userID string, historyID uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.lastHistoryID[userID]; ok && historyID <= last {
		return false
	}
	l.lastHistoryID[userID] = historyID
	return true
}
