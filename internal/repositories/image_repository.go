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

// ImageRepository defines the interface for photo data operations
type ImageRepository interface {
	CreateImage(ctx context.Context, image *models.Image) error
	GetImageByID(ctx context.Context, id primitive.ObjectID) (*models.Image, error)
	ImagesByOwnerSince(ctx context.Context, owner primitive.ObjectID, since time.Time) ([]models.Image, error)
	RecentVehicleImages(ctx context.Context, since time.Time, limit int64) ([]models.Image, error)
}

// MongoImageRepository implements ImageRepository for MongoDB
type MongoImageRepository struct {
	collection *mongo.Collection
}

// NewMongoImageRepository creates a new MongoImageRepository
func NewMongoImageRepository(db *mongo.Database) *MongoImageRepository {
	return &MongoImageRepository{collection: db.Collection(models.TypeImage.CollectionName())}
}

// CreateImage stores photo metadata in MongoDB
func (r *MongoImageRepository) CreateImage(ctx context.Context, image *models.Image) error {
	image.ID = primitive.NewObjectID()
	image.CreationTimestamp = time.Now()
	_, err := r.collection.InsertOne(ctx, image)
	return err
}

// GetImageByID retrieves an image by ID from MongoDB
func (r *MongoImageRepository) GetImageByID(ctx context.Context, id primitive.ObjectID) (*models.Image, error) {
	var image models.Image
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// ImagesByOwnerSince returns a user's photos added in the window
func (r *MongoImageRepository) ImagesByOwnerSince(ctx context.Context, owner primitive.ObjectID, since time.Time) ([]models.Image, error) {
	filter := bson.M{
		"owners":             owner,
		"creation_timestamp": bson.M{"$gte": since},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []models.Image
	if err = cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// RecentVehicleImages returns site-wide vehicle photos from the window,
// newest first.
func (r *MongoImageRepository) RecentVehicleImages(ctx context.Context, since time.Time, limit int64) ([]models.Image, error) {
	filter := bson.M{
		"vehicles":           bson.M{"$ne": bson.A{}},
		"creation_timestamp": bson.M{"$gte": since},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "creation_timestamp", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []models.Image
	if err = cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}
