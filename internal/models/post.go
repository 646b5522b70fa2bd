package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a wall or vehicle post stored in MongoDB.
type Post struct {
	ID    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Owner primitive.ObjectID `json:"owner" bson:"owner"`

	Title       string  `json:"title,omitempty" bson:"title,omitempty"`
	Content     string  `json:"content,omitempty" bson:"content,omitempty"`
	PreviewText string  `json:"preview_text,omitempty" bson:"preview_text,omitempty"`
	Photos      []Image `json:"photos,omitempty" bson:"photos,omitempty"`

	// Owner identity denormalized for digest rendering.
	OwnerProfileName string `json:"owner_profile_name,omitempty" bson:"owner_profile_name,omitempty"`

	RootType EntityType          `json:"root_type,omitempty" bson:"root_type,omitempty"`
	RootID   *primitive.ObjectID `json:"root_id,omitempty" bson:"root_id,omitempty"`

	InstagramID     string `json:"instagram_id,omitempty" bson:"instagram_id,omitempty"`
	ForWeeklyDigest bool   `json:"for_weekly_digest" bson:"for_weekly_digest"`
	HasDeleted      bool   `json:"has_deleted" bson:"has_deleted"`

	LikeCount    int `json:"like_count" bson:"like_count"`
	CommentCount int `json:"comment_count" bson:"comment_count"`

	CreationTimestamp time.Time `json:"creation_timestamp" bson:"creation_timestamp"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title     string `json:"title,omitempty" validate:"omitempty,max=160"`
	Content   string `json:"content" validate:"required,min=1,max=10000"`
	VehicleID string `json:"vehicle_id,omitempty"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title   string `json:"title,omitempty" validate:"omitempty,max=160"`
	Content string `json:"content,omitempty" validate:"omitempty,min=1,max=10000"`
}
