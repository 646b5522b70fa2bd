package handlers

import (
	"context"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PushSender delivers a push notification to one device token.
// *firebase.App satisfies it; tests substitute fakes.
type PushSender interface {
	SendPush(ctx context.Context, token, title, body string, data map[string]string) error
}

// Notifier records in-app notifications and fans them out to followers.
// Failures are logged, never surfaced to the triggering request.
type Notifier struct {
	notifications repositories.NotificationRepository
	connections   repositories.ConnectionRepository
	users         repositories.UserRepository
	push          PushSender
	log           *zap.Logger
}

// NewNotifier creates a new Notifier. push may be nil when FCM is not
// configured.
func NewNotifier(
	notifications repositories.NotificationRepository,
	connections repositories.ConnectionRepository,
	users repositories.UserRepository,
	push PushSender,
	log *zap.Logger,
) *Notifier {
	return &Notifier{
		notifications: notifications,
		connections:   connections,
		users:         users,
		push:          push,
		log:           log,
	}
}

// Notify records one action against a target for a single owner. Self-actions
// are skipped so users never get notified about their own activity.
func (n *Notifier) Notify(ctx context.Context, proto *models.Notification, actor, actionID primitive.ObjectID) {
	if proto.Owner == actor {
		return
	}

	entry := models.ActionEntry{Actor: actor, ActionID: actionID}
	if err := n.notifications.AppendAction(ctx, proto, entry); err != nil {
		n.log.Warn("failed to record notification",
			zap.String("owner", proto.Owner.Hex()),
			zap.String("action", proto.Action),
			zap.Error(err))
	}
}

// FanToFollowers records the action once per follower of the receiver entity.
func (n *Notifier) FanToFollowers(ctx context.Context, receiverID primitive.ObjectID, proto models.Notification, actor, actionID primitive.ObjectID) {
	followerIDs, err := n.connections.RequestorIDsByReceiver(models.ConnectionFollow, receiverID.Hex())
	if err != nil {
		n.log.Warn("failed to load followers for notification fan-out",
			zap.String("receiver", receiverID.Hex()),
			zap.Error(err))
		return
	}

	for _, hex := range followerIDs {
		owner, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			continue
		}
		p := proto
		p.Owner = owner
		n.Notify(ctx, &p, actor, actionID)
	}
}

// PushToUser sends a push notification to the user's registered device.
func (n *Notifier) PushToUser(ctx context.Context, userID primitive.ObjectID, title, body string) {
	if n.push == nil {
		return
	}

	user, err := n.users.GetUserByID(ctx, userID)
	if err != nil {
		return
	}
	if err := n.push.SendPush(ctx, user.FCMToken, title, body, nil); err != nil {
		n.log.Warn("failed to send push notification",
			zap.String("user", userID.Hex()),
			zap.Error(err))
	}
}
