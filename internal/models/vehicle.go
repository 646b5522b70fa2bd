package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle represents a build page stored in MongoDB.
type Vehicle struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Poster       primitive.ObjectID   `json:"poster" bson:"poster"`
	Owners       []primitive.ObjectID `json:"owners" bson:"owners"`
	Year         int                  `json:"year" bson:"year"`
	Make         string               `json:"make" bson:"make"`
	Model        string               `json:"model" bson:"model"`
	Trim         string               `json:"trim,omitempty" bson:"trim,omitempty"`
	Slug         string               `json:"slug" bson:"slug"`
	VehicleURLID string               `json:"vehicle_url_id" bson:"vehicle_url_id"`
	Description  string               `json:"description,omitempty" bson:"description,omitempty"`

	PrimaryImage *Image        `json:"primary_image,omitempty" bson:"primary_image,omitempty"`
	Stock        *StockVehicle `json:"stock,omitempty" bson:"stock,omitempty"`

	ModScore  int `json:"mod_score" bson:"mod_score"`
	PartCount int `json:"part_count" bson:"part_count"`
	LikeCount int `json:"like_count" bson:"like_count"`

	CreationTimestamp time.Time `json:"creation_timestamp" bson:"creation_timestamp"`
}

// StockVehicle carries factory reference data, including a default image
// used when a build has no photos of its own.
type StockVehicle struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DefaultImage *Image             `json:"default_image,omitempty" bson:"default_image,omitempty"`
}

// FullName renders "2010 Honda Civic".
func (v *Vehicle) FullName() string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

// CreateVehicleRequest defines the request body for adding a vehicle
type CreateVehicleRequest struct {
	Year  int    `json:"year" validate:"required,min=1900,max=2100"`
	Make  string `json:"make" validate:"required,min=1,max=60"`
	Model string `json:"model" validate:"required,min=1,max=60"`
	Trim  string `json:"trim,omitempty" validate:"omitempty,max=60"`
}

// UpdateVehicleRequest defines the request body for editing a vehicle
type UpdateVehicleRequest struct {
	Trim        string `json:"trim,omitempty" validate:"omitempty,max=60"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`
}
