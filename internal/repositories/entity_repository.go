package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/gearworks/motorhub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("entity not found")

// EntityRepository resolves polymorphic references: a type tag selects the
// collection, the id selects the document.
type EntityRepository interface {
	FindByID(ctx context.Context, entityType models.EntityType, id primitive.ObjectID) (*models.Entity, error)
}

// MongoEntityRepository implements EntityRepository over a fixed lookup
// table of collections keyed by entity type.
type MongoEntityRepository struct {
	collections map[models.EntityType]*mongo.Collection
}

// NewMongoEntityRepository creates a new MongoEntityRepository
func NewMongoEntityRepository(db *mongo.Database) *MongoEntityRepository {
	fetchable := []models.EntityType{
		models.TypeUser,
		models.TypeVehicle,
		models.TypePart,
		models.TypeImage,
		models.TypePost,
		models.TypeCommentThread,
	}

	collections := make(map[models.EntityType]*mongo.Collection, len(fetchable))
	for _, t := range fetchable {
		collections[t] = db.Collection(t.CollectionName())
	}
	return &MongoEntityRepository{collections: collections}
}

// renderProjection limits lookups to the fields digest rendering reads.
var renderProjection = map[models.EntityType]bson.D{
	models.TypeUser: {
		{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1},
		{Key: "name", Value: 1}, {Key: "profile_name", Value: 1},
		{Key: "primary_image", Value: 1}, {Key: "facebook", Value: 1},
		{Key: "mod_score", Value: 1}, {Key: "follower_count", Value: 1},
		{Key: "description", Value: 1}, {Key: "location", Value: 1},
	},
	models.TypeVehicle: {
		{Key: "year", Value: 1}, {Key: "make", Value: 1}, {Key: "model", Value: 1},
		{Key: "slug", Value: 1}, {Key: "vehicle_url_id", Value: 1},
		{Key: "poster", Value: 1}, {Key: "owners", Value: 1},
		{Key: "primary_image", Value: 1}, {Key: "stock", Value: 1},
	},
	models.TypePart: {
		{Key: "brand", Value: 1}, {Key: "name", Value: 1},
		{Key: "owners", Value: 1}, {Key: "vehicle", Value: 1},
		{Key: "part_url_id", Value: 1}, {Key: "slug", Value: 1},
		{Key: "primary_image", Value: 1},
		{Key: "vehicle_year", Value: 1}, {Key: "vehicle_make", Value: 1}, {Key: "vehicle_model", Value: 1},
	},
	models.TypePost: {
		{Key: "owner", Value: 1}, {Key: "owner_profile_name", Value: 1},
		{Key: "title", Value: 1}, {Key: "preview_text", Value: 1},
		{Key: "photos", Value: 1}, {Key: "root_type", Value: 1}, {Key: "root_id", Value: 1},
		{Key: "creation_timestamp", Value: 1},
	},
}

// FindByID resolves one polymorphic reference. Synthetic types return an
// id-only stub without touching the database.
func (r *MongoEntityRepository) FindByID(ctx context.Context, entityType models.EntityType, id primitive.ObjectID) (*models.Entity, error) {
	if entityType.Synthetic() {
		return &models.Entity{Type: entityType, ID: id}, nil
	}

	coll, ok := r.collections[entityType]
	if !ok {
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}

	opts := options.FindOne()
	if proj, ok := renderProjection[entityType]; ok {
		opts.SetProjection(proj)
	}

	res := coll.FindOne(ctx, bson.M{"_id": id}, opts)

	entity := &models.Entity{Type: entityType, ID: id}
	var err error
	switch entityType {
	case models.TypeUser:
		entity.User = &models.User{}
		err = res.Decode(entity.User)
	case models.TypeVehicle:
		entity.Vehicle = &models.Vehicle{}
		err = res.Decode(entity.Vehicle)
	case models.TypePart:
		entity.Part = &models.Part{}
		err = res.Decode(entity.Part)
	case models.TypeImage:
		entity.Image = &models.Image{}
		err = res.Decode(entity.Image)
	case models.TypePost:
		entity.Post = &models.Post{}
		err = res.Decode(entity.Post)
	case models.TypeCommentThread:
		entity.Thread = &models.CommentThread{}
		err = res.Decode(entity.Thread)
	}

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entity, nil
}
