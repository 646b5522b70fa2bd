package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification actions (semantic verbs)
const (
	ActionComment     = "COMMENT"
	ActionFollow      = "FOLLOW"
	ActionLike        = "LIKE"
	ActionWallPost    = "WALL_POST"
	ActionVehiclePost = "VEHICLE_POST"
	ActionPhotoPost   = "PHOTO_POST"
	ActionVehicleAdd  = "VEHICLE_ADD"
	ActionPartAdd     = "PART_ADD"
)

// Notification records that actor(s) performed an action against a target,
// shown to Owner. Target and action object live in collections selected by
// their type tags; Actions holds one entry per distinct actor, most recent
// first for display.
type Notification struct {
	ID    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Owner primitive.ObjectID `json:"owner" bson:"owner"`

	TargetID   primitive.ObjectID `json:"target_id" bson:"target_id"`
	TargetType EntityType         `json:"target_type" bson:"target_type"`

	Action     string     `json:"action" bson:"action"`
	ActionType EntityType `json:"action_type" bson:"action_type"`

	Actions []ActionEntry `json:"actions" bson:"actions"`

	HasRead  bool `json:"has_read" bson:"has_read"`
	IsHidden bool `json:"is_hidden" bson:"is_hidden"`
}

// ActionEntry is one actor's occurrence of the action.
type ActionEntry struct {
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	ActionID  primitive.ObjectID `json:"action_id" bson:"action_id"`
	Actor     primitive.ObjectID `json:"actor" bson:"actor"`
}

// LatestAction returns the most recently appended entry, or nil.
func (n *Notification) LatestAction() *ActionEntry {
	if len(n.Actions) == 0 {
		return nil
	}
	return &n.Actions[len(n.Actions)-1]
}
