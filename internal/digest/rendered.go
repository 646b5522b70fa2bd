package digest

import (
	"github.com/gearworks/motorhub/backend/internal/models"
)

// ResolvedNotification is a Notification joined with the entities its type
// tags point at. Built fresh during resolution, never persisted.
type ResolvedNotification struct {
	Notification models.Notification

	// Owner and the first actors resolved to full profiles. Actors is
	// parallel to Notification.Actions; entries past the first two may
	// be nil, rendering only reads the leading pair.
	Owner  *models.User
	Actors []*models.User

	Target       *models.Entity
	ActionObject *models.Entity
}

// Actor returns the resolved actor at index i, or nil.
func (r *ResolvedNotification) Actor(i int) *models.User {
	if i < 0 || i >= len(r.Actors) {
		return nil
	}
	return r.Actors[i]
}

// RenderedNotification is the display form of a resolved notification:
// everything a template needs to show one activity line.
type RenderedNotification struct {
	ResolvedNotification

	Text       string
	ActorText  string
	ActionText string
	TargetText string

	ActorPhoto  string
	TargetPhoto string
	OwnerPhoto  string

	TargetURL string
	ActorURL  string

	ActorFirstName     string
	ActorName          string
	ActorModScore      int
	ActorFollowerCount int
	ActorDescription   string
	ActorLocation      string
	ActorComment       string

	TargetMake  string
	TargetModel string

	Subject      string
	TemplateSlug string
	TemplateName string
	Tags         []string

	SendEmail bool
	SendAPN   bool
}

// PostPreview is a post normalized for digest display.
type PostPreview struct {
	Title             string `json:"title"`
	PreviewText       string `json:"preview_text,omitempty"`
	FeaturedImage     string `json:"featured_image,omitempty"`
	URL               string `json:"url"`
	CreationTimestamp string `json:"creation_timestamp"`
}

// PartPreview is an installed part normalized for digest display.
type PartPreview struct {
	Name        string `json:"name"`
	VehicleName string `json:"vehicle_name"`
}

// PhotoPreview is a photo normalized for digest display.
type PhotoPreview struct {
	Photo             string `json:"photo"`
	PhotoURL          string `json:"photo_url,omitempty"`
	CreationTimestamp string `json:"creation_timestamp"`
}

// UserProfile is a user normalized for digest display.
type UserProfile struct {
	Name          string `json:"name"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	AliasName     string `json:"alias_name"`
	Location      string `json:"location"`
	ModScore      int    `json:"mod_score"`
	FollowerCount int    `json:"follower_count"`
	ProfileName   string `json:"profile_name"`
	URL           string `json:"url"`
	AccountURL    string `json:"account_url"`
	Photo         string `json:"photo"`
	Email         string `json:"email,omitempty"`
}

// FollowerActivity is one aggregated activity line inside a bucket.
type FollowerActivity struct {
	Action       string `json:"action"`
	ActionType   string `json:"action_type"`
	ActorPhoto   string `json:"actor_photo"`
	ActorProfile string `json:"actor_profile"`
	ActorName    string `json:"actor_name"`
	TargetURL    string `json:"target_url"`
	TargetPhoto  string `json:"target_photo"`

	PartName    string `json:"part_name,omitempty"`
	VehicleName string `json:"vehicle_name,omitempty"`
}

// Bucket accumulates one action kind. The POST bucket carries normalized
// posts instead of activity lines.
type Bucket struct {
	Count      int                `json:"count"`
	Activities []FollowerActivity `json:"activities"`
	Posts      []PostPreview      `json:"posts,omitempty"`
}

// ActivitySummary maps action kind to its aggregated bucket.
type ActivitySummary map[string]*Bucket

// DigestPayload is the per-user snapshot handed to the mailer. Built once
// per user per run, consumed once, not persisted.
type DigestPayload struct {
	UserInfo *UserProfile

	FollowCountWeek  int64
	FollowCountTotal int64
	LikeCountWeek    int64
	LikeCountTotal   int64

	FollowerActivity ActivitySummary

	MyLastPost     []PostPreview
	MyPartsAdded   []PartPreview
	MyPhotosAdded  []PhotoPreview
	MyNewFollowers []UserProfile

	RecentPosts      []PostPreview
	RecentPhotos     []PhotoPreview
	EditorialContent []PostPreview

	StartDate string
	EndDate   string
}
