package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/itsprade/good-morning/internal/notification/repository"
	"github.com/itsprade/good-morning/pkg/fcm"
	"github.com/itsprade/good-morning/pkg/logger"
	"github.com/itsprade/good-morning/pkg/metrics"
)

// Sender delivers one notification to a set of device tokens and returns
// the tokens FCM rejected.
type Sender interface {
	SendToDevices(ctx context.Context, tokens []string, n fcm.NotificationData) ([]string, error)
}

// Notifier pushes to every registered device of a user. Without a Sender it
// does nothing.
type Notifier struct {
	tokens repository.DeviceTokenRepository
	sender Sender
	logger *zap.Logger
}

func NewNotifier(tokens repository.DeviceTokenRepository, sender Sender) *Notifier {
	return &Notifier{
		tokens: tokens,
		sender: sender,
		logger: logger.Named("notifier"),
	}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.sender != nil
}

func (n *Notifier) SendToUser(ctx context.Context, userID string, data fcm.NotificationData) error {
	if !n.Enabled() {
		return nil
	}
	kind := data.Data["type"]
	if kind == "" {
		kind = "generic"
	}

	registrations, err := n.tokens.FindByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(registrations) == 0 {
		n.logger.Debug("no devices registered", zap.String("user_id", userID))
		metrics.IncrementPushNotification(kind, "no_devices")
		return nil
	}

	tokens := make([]string, 0, len(registrations))
	for _, r := range registrations {
		tokens = append(tokens, r.Token)
	}

	failed, err := n.sender.SendToDevices(ctx, tokens, data)
	if len(failed) > 0 {
		if delErr := n.tokens.DeleteTokens(failed); delErr != nil {
			n.logger.Warn("failed to clean up invalid tokens", zap.String("user_id", userID), zap.Error(delErr))
		}
	}
	if err != nil {
		metrics.IncrementPushNotification(kind, "error")
		return err
	}
	metrics.IncrementPushNotification(kind, "sent")
	n.logger.Info("push sent",
		zap.String("user_id", userID),
		zap.String("type", kind),
		zap.Int("devices", len(tokens)-len(failed)))
	return nil
}
