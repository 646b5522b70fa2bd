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

// UserCursor is a forward-only iterator over users. *mongo.Cursor satisfies
// it; tests substitute synthetic cursors.
type UserCursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByProfileName(ctx context.Context, profileName string) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update bson.M) error
	SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error)
	DigestEligibleUsers(ctx context.Context, skip, limit int64) (UserCursor, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(models.TypeUser.CollectionName())}
}

// CreateUser creates a new user in MongoDB
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.Type = "USER"
	user.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by either account email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"local.username": email},
		bson.M{"facebook.email": email},
	}}

	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByProfileName retrieves a user by profile name
func (r *MongoUserRepository) GetUserByProfileName(ctx context.Context, profileName string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"profile_name": profileName}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user document
func (r *MongoUserRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// SearchUsers searches for users by name or profile name (case-insensitive)
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"profile_name": bson.M{"$regex": query, "$options": "i"}},
	}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DigestEligibleUsers opens a cursor over users who opted into digest
// emails and have a usable address, windowed by skip/limit for day
// partitioning.
func (r *MongoUserRepository) DigestEligibleUsers(ctx context.Context, skip, limit int64) (UserCursor, error) {
	filter := bson.M{
		"type": "USER",
		"$and": bson.A{
			bson.M{"notification_settings.newsletters": true},
			bson.M{"notification_settings.weekly_digest": true},
		},
		"$or": bson.A{
			bson.M{"local.username": bson.M{"$exists": true, "$ne": ""}},
			bson.M{"facebook.email": bson.M{"$exists": true, "$ne": ""}},
		},
	}

	opts := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetBatchSize(150)

	return r.collection.Find(ctx, filter, opts)
}
