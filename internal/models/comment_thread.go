package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentThread represents a comment (or reply) stored in MongoDB. RootType
// and RootID point at the entity the thread hangs off: a post, a vehicle, or
// another comment.
type CommentThread struct {
	ID     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Poster primitive.ObjectID `json:"poster" bson:"poster"`
	Text   string             `json:"text" bson:"text"`

	RootType EntityType         `json:"root_type" bson:"root_type"`
	RootID   primitive.ObjectID `json:"root_id" bson:"root_id"`

	CreationTimestamp time.Time `json:"creation_timestamp" bson:"creation_timestamp"`
}

// CreateCommentRequest defines the request body for posting a comment
type CreateCommentRequest struct {
	RootType string `json:"root_type" validate:"required,oneof=Post Vehicle Part Image CommentThread"`
	RootID   string `json:"root_id" validate:"required"`
	Text     string `json:"text" validate:"required,min=1,max=5000"`
}
