package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Part represents an installed part stored in MongoDB.
type Part struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Owners    []primitive.ObjectID `json:"owners" bson:"owners"`
	Vehicle   primitive.ObjectID   `json:"vehicle" bson:"vehicle"`
	Brand     string               `json:"brand" bson:"brand"`
	Name      string               `json:"name" bson:"name"`
	Category  string               `json:"category,omitempty" bson:"category,omitempty"`
	PartURLID string               `json:"part_url_id" bson:"part_url_id"`
	Slug      string               `json:"slug" bson:"slug"`

	PrimaryImage *Image `json:"primary_image,omitempty" bson:"primary_image,omitempty"`

	// Denormalized vehicle identity for digest rendering.
	VehicleYear  int    `json:"vehicle_year" bson:"vehicle_year"`
	VehicleMake  string `json:"vehicle_make" bson:"vehicle_make"`
	VehicleModel string `json:"vehicle_model" bson:"vehicle_model"`

	CreationTimestamp time.Time `json:"creation_timestamp" bson:"creation_timestamp"`
}

// FullName renders "Borla ATAK Cat-Back".
func (p *Part) FullName() string {
	return p.Brand + " " + p.Name
}

// CreatePartRequest defines the request body for installing a part
type CreatePartRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required"`
	Brand     string `json:"brand" validate:"required,min=1,max=80"`
	Name      string `json:"name" validate:"required,min=1,max=120"`
	Category  string `json:"category,omitempty" validate:"omitempty,max=60"`
}
