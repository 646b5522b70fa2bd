package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, update bson.M) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	OwnedPostIDs(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error)
	LatestByOwner(ctx context.Context, owner primitive.ObjectID, limit int64) ([]models.Post, error)
	RecentPosts(ctx context.Context, limit int64) ([]models.Post, error)
	EditorialPosts(ctx context.Context, since time.Time) ([]models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection(models.TypePost.CollectionName())}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreationTimestamp = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "has_deleted": false}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost applies a partial update to a post
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post not found")
	}
	return nil
}

// DeletePost soft-deletes a post
func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	return r.UpdatePost(ctx, id, bson.M{"has_deleted": true})
}

// OwnedPostIDs returns ids of all posts owned by a user
func (r *MongoPostRepository) OwnedPostIDs(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner, "has_deleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// LatestByOwner returns a user's newest posts
func (r *MongoPostRepository) LatestByOwner(ctx context.Context, owner primitive.ObjectID, limit int64) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "creation_timestamp", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner, "has_deleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// RecentPosts returns the newest site-wide posts
func (r *MongoPostRepository) RecentPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "creation_timestamp", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"has_deleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// EditorialPosts returns posts flagged for the weekly digest in the window
func (r *MongoPostRepository) EditorialPosts(ctx context.Context, since time.Time) ([]models.Post, error) {
	filter := bson.M{
		"for_weekly_digest":  true,
		"has_deleted":        false,
		"creation_timestamp": bson.M{"$gte": since},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
