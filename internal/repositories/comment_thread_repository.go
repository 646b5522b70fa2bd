package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentThreadRepository defines the interface for comment operations
type CommentThreadRepository interface {
	CreateComment(ctx context.Context, comment *models.CommentThread) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.CommentThread, error)
	GetCommentsByRoot(ctx context.Context, rootType models.EntityType, rootID primitive.ObjectID, skip, limit int64) ([]models.CommentThread, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
}

// MongoCommentThreadRepository implements CommentThreadRepository for MongoDB
type MongoCommentThreadRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentThreadRepository creates a new MongoCommentThreadRepository
func NewMongoCommentThreadRepository(db *mongo.Database) *MongoCommentThreadRepository {
	return &MongoCommentThreadRepository{collection: db.Collection(models.TypeCommentThread.CollectionName())}
}

// CreateComment stores a new comment in MongoDB
func (r *MongoCommentThreadRepository) CreateComment(ctx context.Context, comment *models.CommentThread) error {
	comment.ID = primitive.NewObjectID()
	comment.CreationTimestamp = time.Now()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a comment by ID from MongoDB
func (r *MongoCommentThreadRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.CommentThread, error) {
	var comment models.CommentThread
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByRoot returns comments under an entity, oldest first
func (r *MongoCommentThreadRepository) GetCommentsByRoot(ctx context.Context, rootType models.EntityType, rootID primitive.ObjectID, skip, limit int64) ([]models.CommentThread, error) {
	filter := bson.M{"root_type": rootType, "root_id": rootID}
	opts := options.Find().
		SetSort(bson.D{{Key: "creation_timestamp", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.CommentThread
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes a comment by ID
func (r *MongoCommentThreadRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
