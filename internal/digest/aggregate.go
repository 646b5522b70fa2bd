package digest

import (
	"github.com/gearworks/motorhub/backend/internal/models"
)

// Aggregation buckets. WALL_POST and VEHICLE_POST fold into BucketPost.
const (
	BucketPartAdd    = "PART_ADD"
	BucketPhotoPost  = "PHOTO_POST"
	BucketVehicleAdd = "VEHICLE_ADD"
	BucketPost       = "POST"
)

var aggregatedActions = map[string]string{
	models.ActionPartAdd:     BucketPartAdd,
	models.ActionPhotoPost:   BucketPhotoPost,
	models.ActionVehicleAdd:  BucketVehicleAdd,
	models.ActionWallPost:    BucketPost,
	models.ActionVehiclePost: BucketPost,
}

// Aggregator groups rendered notifications by action kind. Only the fixed
// allow-list is summarized; others pass through untouched elsewhere. The
// aggregator orders by arrival and never caps, consumers apply display
// limits when serializing.
type Aggregator struct {
	baseURL string
}

func NewAggregator(baseURL string) *Aggregator {
	return &Aggregator{baseURL: baseURL}
}

func (a *Aggregator) Aggregate(rendered []RenderedNotification) ActivitySummary {
	summary := make(ActivitySummary)

	for i := range rendered {
		rn := &rendered[i]
		bucketName, ok := aggregatedActions[rn.Notification.Action]
		if !ok {
			continue
		}

		bucket := summary[bucketName]
		if bucket == nil {
			bucket = &Bucket{Activities: []FollowerActivity{}}
			summary[bucketName] = bucket
		}

		if bucketName == BucketPost {
			a.aggregatePost(bucket, rn)
			continue
		}

		activity := FollowerActivity{
			Action:      rn.Notification.Action,
			ActionType:  string(rn.Notification.ActionType),
			ActorPhoto:  rn.ActorPhoto,
			ActorName:   rn.ActorText,
			TargetURL:   a.baseURL + rn.TargetURL,
			TargetPhoto: rn.TargetPhoto,
		}
		if actor := rn.Actor(0); actor != nil {
			activity.ActorProfile = actor.ProfileName
		}

		switch bucketName {
		case BucketPartAdd:
			if part := rn.ActionObject.Part; part != nil {
				activity.PartName = part.FullName()
			}
			if vehicle := rn.Target.Vehicle; vehicle != nil {
				activity.VehicleName = vehicle.FullName()
			}
		case BucketVehicleAdd:
			if vehicle := rn.ActionObject.Vehicle; vehicle != nil {
				activity.VehicleName = vehicle.FullName()
			}
		case BucketPhotoPost:
			if vehicle := rn.Target.Vehicle; vehicle != nil {
				activity.VehicleName = vehicle.FullName()
			}
		}

		bucket.Activities = append(bucket.Activities, activity)
		bucket.Count++
	}

	return summary
}

// aggregatePost normalizes the posted content itself, attributing it to
// the acting user rather than the notification owner.
func (a *Aggregator) aggregatePost(bucket *Bucket, rn *RenderedNotification) {
	post := rn.ActionObject.Post
	if post == nil {
		return
	}
	profile := ""
	if actor := rn.Actor(0); actor != nil {
		profile = actor.ProfileName
	}
	if preview, ok := NormalizePost(post, profile, a.baseURL); ok {
		bucket.Posts = append(bucket.Posts, preview)
		bucket.Count++
	}
}
