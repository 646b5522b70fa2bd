package handlers

import (
	"context"
	"testing"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/gearworks/motorhub/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubNotifications struct {
	repositories.NotificationRepository
	appended []models.Notification
}

func (s *stubNotifications) AppendAction(ctx context.Context, proto *models.Notification, entry models.ActionEntry) error {
	s.appended = append(s.appended, *proto)
	return nil
}

type stubConnections struct {
	repositories.ConnectionRepository
	followers []string
}

func (s *stubConnections) RequestorIDsByReceiver(connType, receiverID string) ([]string, error) {
	return s.followers, nil
}

type stubUsers struct {
	repositories.UserRepository
	user *models.User
}

func (s *stubUsers) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.user == nil {
		return nil, repositories.ErrNotFound
	}
	return s.user, nil
}

type recordingPush struct {
	tokens []string
	bodies []string
}

func (p *recordingPush) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	p.tokens = append(p.tokens, token)
	p.bodies = append(p.bodies, body)
	return nil
}

func TestNotifySkipsSelfActions(t *testing.T) {
	notifications := &stubNotifications{}
	actor := primitive.NewObjectID()
	n := NewNotifier(notifications, &stubConnections{}, &stubUsers{}, nil, logger.NewNop())

	n.Notify(context.Background(), &models.Notification{Owner: actor}, actor, primitive.NewObjectID())
	assert.Empty(t, notifications.appended)

	n.Notify(context.Background(), &models.Notification{Owner: primitive.NewObjectID()}, actor, primitive.NewObjectID())
	assert.Len(t, notifications.appended, 1)
}

func TestFanToFollowersRecordsPerFollower(t *testing.T) {
	followerA := primitive.NewObjectID()
	followerB := primitive.NewObjectID()
	actor := primitive.NewObjectID()

	notifications := &stubNotifications{}
	connections := &stubConnections{followers: []string{
		followerA.Hex(),
		"not-a-hex-id", // malformed rows are skipped, not fatal
		followerB.Hex(),
	}}
	n := NewNotifier(notifications, connections, &stubUsers{}, nil, logger.NewNop())

	vehicleID := primitive.NewObjectID()
	proto := models.Notification{
		TargetID:   vehicleID,
		TargetType: models.TypeVehicle,
		Action:     models.ActionPartAdd,
		ActionType: models.TypePart,
	}
	n.FanToFollowers(context.Background(), vehicleID, proto, actor, primitive.NewObjectID())

	require.Len(t, notifications.appended, 2)
	assert.Equal(t, followerA, notifications.appended[0].Owner)
	assert.Equal(t, followerB, notifications.appended[1].Owner)
	for _, rec := range notifications.appended {
		assert.Equal(t, models.ActionPartAdd, rec.Action)
		assert.Equal(t, vehicleID, rec.TargetID)
	}
}

func TestFanToFollowersSkipsTheActor(t *testing.T) {
	actor := primitive.NewObjectID()
	other := primitive.NewObjectID()

	notifications := &stubNotifications{}
	connections := &stubConnections{followers: []string{actor.Hex(), other.Hex()}}
	n := NewNotifier(notifications, connections, &stubUsers{}, nil, logger.NewNop())

	n.FanToFollowers(context.Background(), primitive.NewObjectID(), models.Notification{
		Action: models.ActionPhotoPost,
	}, actor, primitive.NewObjectID())

	require.Len(t, notifications.appended, 1)
	assert.Equal(t, other, notifications.appended[0].Owner)
}

func TestPushToUserUsesRegisteredToken(t *testing.T) {
	userID := primitive.NewObjectID()
	push := &recordingPush{}
	users := &stubUsers{user: &models.User{ID: userID, FCMToken: "device-token"}}
	n := NewNotifier(&stubNotifications{}, &stubConnections{}, users, push, logger.NewNop())

	n.PushToUser(context.Background(), userID, "New follower", "Ada started following you")

	require.Len(t, push.tokens, 1)
	assert.Equal(t, "device-token", push.tokens[0])
	assert.Equal(t, "Ada started following you", push.bodies[0])
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "2010-honda-civic", slugify("2010", "Honda", "Civic"))
	assert.Equal(t, "borla-atak-cat-back", slugify("Borla", "ATAK Cat-Back"))
	assert.Equal(t, "k-n-intake", slugify("K&N", "Intake"))
}
