package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// EntityType tags which collection a polymorphic reference points at.
// Notification.target_type and action_type carry these values.
type EntityType string

const (
	TypeUser          EntityType = "User"
	TypeVehicle       EntityType = "Vehicle"
	TypePart          EntityType = "Part"
	TypeImage         EntityType = "Image"
	TypePost          EntityType = "Post"
	TypeCommentThread EntityType = "CommentThread"

	// TypeActivity and TypeForumThread targets have no backing collection;
	// the reference is resolved to a synthetic {_id} stub.
	TypeActivity    EntityType = "Activity"
	TypeForumThread EntityType = "ForumThread"

	// TypeConnection only appears as an action_type (FOLLOW/LIKE verbs).
	TypeConnection EntityType = "Connection"

	// TypeBuildGuide is a reserved sentinel excluded from notification
	// queries entirely.
	TypeBuildGuide EntityType = "BuildGuide"
)

// CollectionName maps an entity type to its MongoDB collection.
func (t EntityType) CollectionName() string {
	switch t {
	case TypeUser:
		return "users"
	case TypeVehicle:
		return "vehicles"
	case TypePart:
		return "parts"
	case TypeImage:
		return "images"
	case TypePost:
		return "posts"
	case TypeCommentThread:
		return "comment_threads"
	}
	return ""
}

// Synthetic reports whether references of this type resolve to an id-only
// stub instead of a fetched document.
func (t EntityType) Synthetic() bool {
	return t == TypeActivity || t == TypeForumThread || t == TypeConnection
}

// Entity is the tagged union produced by polymorphic reference resolution.
// Exactly one payload pointer is set for the fetchable types; synthetic
// types carry only the ID.
type Entity struct {
	Type EntityType
	ID   primitive.ObjectID

	User    *User
	Vehicle *Vehicle
	Part    *Part
	Image   *Image
	Post    *Post
	Thread  *CommentThread
}
