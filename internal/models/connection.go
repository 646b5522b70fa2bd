package models

import "time"

// Connection types
const (
	ConnectionFollow = "FOLLOW"
	ConnectionLike   = "LIKE"
	ConnectionAdmin  = "ADMIN"
)

// Connection represents a directed social-graph edge (PostgreSQL). The
// requestor is always the acting side and the receiver the object side;
// direction is a recorded column, never inferred from position.
type Connection struct {
	ID uint `json:"id" gorm:"primaryKey"`

	Type string `json:"type" gorm:"size:10;index;uniqueIndex:idx_edge"`

	RequestorID   string `json:"requestor_id" gorm:"size:24;index;uniqueIndex:idx_edge"`
	RequestorType string `json:"requestor_type" gorm:"size:20"`
	ReceiverID    string `json:"receiver_id" gorm:"size:24;index:idx_receiver;uniqueIndex:idx_edge"`
	ReceiverType  string `json:"receiver_type" gorm:"size:20;index:idx_receiver"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreateConnectionRequest defines the request body for follow/like edges
type CreateConnectionRequest struct {
	Type         string `json:"type" validate:"required,oneof=FOLLOW LIKE"`
	ReceiverID   string `json:"receiver_id" validate:"required,len=24"`
	ReceiverType string `json:"receiver_type" validate:"required,oneof=User Vehicle Post"`
}
