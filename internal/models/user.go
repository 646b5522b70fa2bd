package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a member profile stored in MongoDB.
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Type        string             `json:"type" bson:"type"` // always "USER"
	FirstName   string             `json:"first_name" bson:"first_name"`
	LastName    string             `json:"last_name" bson:"last_name"`
	Name        string             `json:"name" bson:"name"`
	ProfileName string             `json:"profile_name" bson:"profile_name"`
	AliasName   string             `json:"alias_name,omitempty" bson:"alias_name,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`

	Local    LocalAccount  `json:"-" bson:"local"`
	Facebook *FacebookLink `json:"-" bson:"facebook,omitempty"`
	Location *Location     `json:"location,omitempty" bson:"location,omitempty"`

	PrimaryImage *Image `json:"primary_image,omitempty" bson:"primary_image,omitempty"`

	ModScore      int `json:"mod_score" bson:"mod_score"`
	FollowerCount int `json:"follower_count" bson:"follower_count"`

	NotificationSettings NotificationSettings `json:"notification_settings" bson:"notification_settings"`

	FCMToken  string    `json:"-" bson:"fcm_token,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// LocalAccount holds email/password credentials; Username doubles as the
// primary email address, matching the legacy account shape.
type LocalAccount struct {
	Username string `bson:"username,omitempty"`
	Password string `bson:"password,omitempty"`
}

// FacebookLink is a linked third-party identity. The ID also derives an
// external profile-picture URL when no primary image exists.
type FacebookLink struct {
	ID    string `bson:"id,omitempty"`
	Email string `bson:"email,omitempty"`
}

type Location struct {
	Name        string `json:"name,omitempty" bson:"name,omitempty"`
	ManualEntry string `json:"manual_entry,omitempty" bson:"manual_entry,omitempty"`
}

// NotificationSettings gates which emails a user receives.
type NotificationSettings struct {
	Newsletters    bool `json:"newsletters" bson:"newsletters"`
	WeeklyDigest   bool `json:"weekly_digest" bson:"weekly_digest"`
	InsideTheBuild bool `json:"inside_the_build" bson:"inside_the_build"`
}

// Email returns the best destination address, or "" when none is usable.
func (u *User) Email() string {
	if u.Local.Username != "" {
		return u.Local.Username
	}
	if u.Facebook != nil && u.Facebook.Email != "" {
		return u.Facebook.Email
	}
	return ""
}

// DisplayName returns the full name, falling back to first + last.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.FirstName + " " + u.LastName
}

// CreateUserRequest defines the request body for registering a new user
type CreateUserRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=50"`
	LastName    string `json:"last_name" validate:"required,min=1,max=50"`
	ProfileName string `json:"profile_name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest defines the request body for profile updates
type UpdateUserRequest struct {
	FirstName   string    `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName    string    `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Description string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location    *Location `json:"location,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
