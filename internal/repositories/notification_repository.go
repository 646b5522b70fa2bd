package repositories

import (
	"context"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultNotificationLimit caps notification fetches when no limit is given.
const DefaultNotificationLimit = 99

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	AppendAction(ctx context.Context, proto *models.Notification, entry models.ActionEntry) error
	Find(ctx context.Context, filter bson.M, limit int64) ([]models.Notification, error)
	GetByOwner(ctx context.Context, owner primitive.ObjectID, skip, limit int64) ([]models.Notification, error)
	CountUnread(ctx context.Context, owner primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, owner primitive.ObjectID) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// Create inserts a new notification
func (r *MongoNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// AppendAction adds an actor entry to the notification for the same
// (owner, target, action) tuple, creating it when none exists. proto
// supplies the type tags used on insert.
func (r *MongoNotificationRepository) AppendAction(ctx context.Context, proto *models.Notification, entry models.ActionEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	filter := bson.M{"owner": proto.Owner, "target_id": proto.TargetID, "action": proto.Action}
	update := bson.M{
		"$push": bson.M{"actions": entry},
		"$set":  bson.M{"has_read": false},
		"$setOnInsert": bson.M{
			"target_type": proto.TargetType,
			"action_type": proto.ActionType,
			"is_hidden":   false,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Find fetches notifications matching filter, excluding the reserved
// BuildGuide sentinel, unread first then newest action first.
func (r *MongoNotificationRepository) Find(ctx context.Context, filter bson.M, limit int64) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}

	query := bson.M{"target_type": bson.M{"$ne": string(models.TypeBuildGuide)}}
	for k, v := range filter {
		query[k] = v
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "has_read", Value: 1}, {Key: "actions.timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetByOwner returns a paginated page of a user's notifications
func (r *MongoNotificationRepository) GetByOwner(ctx context.Context, owner primitive.ObjectID, skip, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "has_read", Value: 1}, {Key: "actions.timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner, "is_hidden": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts a user's unread notifications
func (r *MongoNotificationRepository) CountUnread(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"owner": owner, "has_read": false, "is_hidden": false})
}

// MarkAsRead marks one notification as read
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"has_read": true}})
	return err
}

// MarkAllAsRead marks all of a user's notifications as read
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, owner primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"owner": owner, "has_read": false}, bson.M{"$set": bson.M{"has_read": true}})
	return err
}
