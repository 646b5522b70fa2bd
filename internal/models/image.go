package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image represents an uploaded photo stored in MongoDB. Vehicle photos carry
// denormalized vehicle context so digest rendering can link back without a
// second lookup.
type Image struct {
	ID     primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Owners []primitive.ObjectID `json:"owners,omitempty" bson:"owners,omitempty"`

	Thumb  string `json:"thumb,omitempty" bson:"thumb,omitempty"`
	Medium string `json:"medium,omitempty" bson:"medium,omitempty"`
	Large  string `json:"large,omitempty" bson:"large,omitempty"`

	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`

	Vehicles []ImageVehicleRef `json:"vehicles,omitempty" bson:"vehicles,omitempty"`

	CreationTimestamp time.Time `json:"creation_timestamp" bson:"creation_timestamp"`
}

// ImageVehicleRef is the denormalized slice of a vehicle an image belongs to.
type ImageVehicleRef struct {
	VehicleID         primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	PosterProfileName string             `json:"poster_profile_name" bson:"poster_profile_name"`
	VehicleURLID      string             `json:"vehicle_url_id" bson:"vehicle_url_id"`
	Slug              string             `json:"slug" bson:"slug"`
}

// CreateImageRequest defines the request body for uploading photo metadata
type CreateImageRequest struct {
	Thumb     string `json:"thumb" validate:"required,url"`
	Medium    string `json:"medium,omitempty" validate:"omitempty,url"`
	Large     string `json:"large,omitempty" validate:"omitempty,url"`
	Title     string `json:"title,omitempty" validate:"omitempty,max=160"`
	VehicleID string `json:"vehicle_id,omitempty"`
}
