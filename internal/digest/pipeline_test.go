package digest

import (
	"context"
	"testing"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubVehicleRepo struct{ repositories.VehicleRepository }

func (stubVehicleRepo) OwnedVehicleIDs(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	return nil, nil
}

type stubPostRepo struct{ repositories.PostRepository }

func (stubPostRepo) OwnedPostIDs(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	return nil, nil
}

func (stubPostRepo) LatestByOwner(ctx context.Context, owner primitive.ObjectID, limit int64) ([]models.Post, error) {
	return nil, nil
}

func (stubPostRepo) RecentPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	return nil, nil
}

func (stubPostRepo) EditorialPosts(ctx context.Context, since time.Time) ([]models.Post, error) {
	return nil, nil
}

type stubPartRepo struct{ repositories.PartRepository }

func (stubPartRepo) PartsByOwnerSince(ctx context.Context, owner primitive.ObjectID, since time.Time, limit int64) ([]models.Part, error) {
	return nil, nil
}

type stubImageRepo struct{ repositories.ImageRepository }

func (stubImageRepo) ImagesByOwnerSince(ctx context.Context, owner primitive.ObjectID, since time.Time) ([]models.Image, error) {
	return nil, nil
}

func (stubImageRepo) RecentVehicleImages(ctx context.Context, since time.Time, limit int64) ([]models.Image, error) {
	return nil, nil
}

type stubConnectionRepo struct{ repositories.ConnectionRepository }

func (stubConnectionRepo) ReceiverIDsByRequestor(connType, requestorID, receiverType string) ([]string, error) {
	return nil, nil
}

func (stubConnectionRepo) CountByReceivers(connType string, receiverIDs []string, since time.Time) (int64, error) {
	return 0, nil
}

func (stubConnectionRepo) FindByReceivers(connType string, receiverIDs []string, since time.Time) ([]models.Connection, error) {
	return nil, nil
}

type stubNotificationRepo struct{ repositories.NotificationRepository }

func (stubNotificationRepo) Find(ctx context.Context, filter bson.M, limit int64) ([]models.Notification, error) {
	return nil, nil
}

type stubUserLookupRepo struct {
	repositories.UserRepository
	user *models.User
}

func (s stubUserLookupRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.user, nil
}

type stubEntityRepo struct{}

func (stubEntityRepo) FindByID(ctx context.Context, entityType models.EntityType, id primitive.ObjectID) (*models.Entity, error) {
	return nil, repositories.ErrNotFound
}

func TestBuildDigestZeroActivity(t *testing.T) {
	userID := primitive.NewObjectID()
	user := &models.User{
		ID:          userID,
		FirstName:   "Quiet",
		LastName:    "Member",
		ProfileName: "quietmember",
		Local:       models.LocalAccount{Username: "quiet@motorhub.test"},
	}

	log := zap.NewNop()
	resolver := NewNotificationResolver(stubNotificationRepo{}, stubEntityRepo{}, NewGenerator(firstVariant), log)

	pipeline := NewPipeline(
		stubUserLookupRepo{user: user},
		stubVehicleRepo{},
		stubPartRepo{},
		stubImageRepo{},
		stubPostRepo{},
		stubConnectionRepo{},
		resolver,
		NewAggregator("https://motorhub.test"),
		"https://motorhub.test",
		log,
	)

	windowStart := time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.AddDate(0, 0, 6)

	payload, err := pipeline.BuildDigest(context.Background(), userID, windowStart, windowEnd, NewRunCache())
	require.NoError(t, err)
	require.NotNil(t, payload)

	assert.Zero(t, payload.FollowCountWeek)
	assert.Zero(t, payload.FollowCountTotal)
	assert.Zero(t, payload.LikeCountWeek)
	assert.Zero(t, payload.LikeCountTotal)

	assert.Empty(t, payload.FollowerActivity)
	assert.Empty(t, payload.MyLastPost)
	assert.Empty(t, payload.MyPartsAdded)
	assert.Empty(t, payload.MyPhotosAdded)
	assert.Empty(t, payload.MyNewFollowers)
	assert.Empty(t, payload.RecentPosts)
	assert.Empty(t, payload.RecentPhotos)
	assert.Empty(t, payload.EditorialContent)

	require.NotNil(t, payload.UserInfo)
	assert.Equal(t, "quiet@motorhub.test", payload.UserInfo.Email)
	assert.Equal(t, "8/17/2026", payload.StartDate)
	assert.Equal(t, "8/23/2026", payload.EndDate)
}

func TestRunCacheSharedAcrossUsers(t *testing.T) {
	cache := NewRunCache()

	calls := 0
	for i := 0; i < 3; i++ {
		v, err := cache.GetOrPopulate(CacheRecentPosts, func() (interface{}, error) {
			calls++
			return []PostPreview{{Title: "site-wide"}}, nil
		})
		require.NoError(t, err)
		assert.Len(t, v.([]PostPreview), 1)
	}
	assert.Equal(t, 1, calls)
}
