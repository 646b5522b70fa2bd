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

// PartRepository defines the interface for part data operations
type PartRepository interface {
	CreatePart(ctx context.Context, part *models.Part) error
	GetPartByID(ctx context.Context, id primitive.ObjectID) (*models.Part, error)
	GetPartsByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]models.Part, error)
	PartsByOwnerSince(ctx context.Context, owner primitive.ObjectID, since time.Time, limit int64) ([]models.Part, error)
}

// MongoPartRepository implements PartRepository for MongoDB
type MongoPartRepository struct {
	collection *mongo.Collection
}

// NewMongoPartRepository creates a new MongoPartRepository
func NewMongoPartRepository(db *mongo.Database) *MongoPartRepository {
	return &MongoPartRepository{collection: db.Collection(models.TypePart.CollectionName())}
}

// CreatePart creates a new part in MongoDB
func (r *MongoPartRepository) CreatePart(ctx context.Context, part *models.Part) error {
	part.ID = primitive.NewObjectID()
	part.CreationTimestamp = time.Now()
	_, err := r.collection.InsertOne(ctx, part)
	return err
}

// GetPartByID retrieves a part by ID from MongoDB
func (r *MongoPartRepository) GetPartByID(ctx context.Context, id primitive.ObjectID) (*models.Part, error) {
	var part models.Part
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&part)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// GetPartsByVehicle retrieves all parts installed on a vehicle
func (r *MongoPartRepository) GetPartsByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]models.Part, error) {
	opts := options.Find().SetSort(bson.D{{Key: "creation_timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"vehicle": vehicleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var parts []models.Part
	if err = cursor.All(ctx, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// PartsByOwnerSince returns a user's parts added in the window, newest first
func (r *MongoPartRepository) PartsByOwnerSince(ctx context.Context, owner primitive.ObjectID, since time.Time, limit int64) ([]models.Part, error) {
	filter := bson.M{
		"owners":             owner,
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

	var parts []models.Part
	if err = cursor.All(ctx, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}
