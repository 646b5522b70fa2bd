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

// VehicleRepository defines the interface for vehicle data operations
type VehicleRepository interface {
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicleByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	GetVehiclesByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Vehicle, error)
	OwnedVehicleIDs(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error)
	UpdateVehicle(ctx context.Context, id primitive.ObjectID, update bson.M) error
}

// MongoVehicleRepository implements VehicleRepository for MongoDB
type MongoVehicleRepository struct {
	collection *mongo.Collection
}

// NewMongoVehicleRepository creates a new MongoVehicleRepository
func NewMongoVehicleRepository(db *mongo.Database) *MongoVehicleRepository {
	return &MongoVehicleRepository{collection: db.Collection(models.TypeVehicle.CollectionName())}
}

// CreateVehicle creates a new vehicle in MongoDB
func (r *MongoVehicleRepository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	if vehicle.VehicleURLID == "" {
		vehicle.VehicleURLID = vehicle.ID.Hex()
	}
	vehicle.CreationTimestamp = time.Now()
	_, err := r.collection.InsertOne(ctx, vehicle)
	return err
}

// GetVehicleByID retrieves a vehicle by ID from MongoDB
func (r *MongoVehicleRepository) GetVehicleByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetVehiclesByOwner retrieves all vehicles owned by a user
func (r *MongoVehicleRepository) GetVehiclesByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Vehicle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "creation_timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owners": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vehicles []models.Vehicle
	if err = cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// OwnedVehicleIDs returns ids of all vehicles owned by a user
func (r *MongoVehicleRepository) OwnedVehicleIDs(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owners": owner}, opts)
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

// UpdateVehicle applies a partial update to a vehicle
func (r *MongoVehicleRepository) UpdateVehicle(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}
