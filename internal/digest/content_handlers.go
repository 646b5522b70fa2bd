package digest

import (
	"fmt"

	"github.com/gearworks/motorhub/backend/internal/models"
)

// handler mutates the rendered form in place. Action handlers set the verb
// phrase and actor detail, target handlers set the object phrase, url and
// photo. Unknown keys fall through leaving fields empty.
type handler func(out *RenderedNotification)

var actionHandlers = map[models.EntityType]handler{
	models.TypeCommentThread: func(out *RenderedNotification) {
		out.ActionText = " commented on"
		if out.Notification.TargetType == models.TypeCommentThread {
			out.ActionText = " replied to"
		}
		out.SendEmail = true
		out.SendAPN = true
		fillActorDetails(out)
	},

	models.TypeActivity: func(out *RenderedNotification) {
		out.ActionText = " made a post"
	},

	models.TypeForumThread: func(out *RenderedNotification) {
		out.ActionText = " posted a new topic in"
	},

	models.TypePost: func(out *RenderedNotification) {
		out.ActionText = " made a post"
	},

	models.TypeImage: func(out *RenderedNotification) {
		out.ActionText = " added a new photo"
	},

	models.TypeVehicle: func(out *RenderedNotification) {
		out.ActionText = " added a new ride"
	},

	models.TypePart: func(out *RenderedNotification) {
		out.ActionText = " installed the"
	},

	models.TypeConnection: func(out *RenderedNotification) {
		fillActorDetails(out)

		switch out.Notification.Action {
		case models.ActionFollow:
			out.ActionText = " started following"
			out.SendEmail = true
			out.SendAPN = true
		case models.ActionLike:
			out.ActionText = " liked"
			out.OwnerPhoto = userPhoto(out.Owner)
		}
	},
}

var targetHandlers = map[models.EntityType]handler{
	models.TypeImage: func(out *RenderedNotification) {
		out.TargetText = " your photo."
		if out.Target.Image != nil {
			out.TargetPhoto = out.Target.Image.Thumb
		}
	},

	models.TypeVehicle: targetVehicle,

	models.TypePart: func(out *RenderedNotification) {
		part := out.Target.Part
		if part == nil {
			return
		}
		out.TargetText = " your " + part.FullName() + "."
		if len(part.Owners) > 0 {
			out.TargetURL = fmt.Sprintf("/profile/%s/vehicles/%s/parts/%s",
				part.Owners[0].Hex(), part.Vehicle.Hex(), part.ID.Hex())
		}
		if part.PrimaryImage != nil {
			out.TargetPhoto = part.PrimaryImage.Thumb
		}
	},

	models.TypeActivity: func(out *RenderedNotification) {
		out.TargetText = " your post."
		out.TargetURL = "/post/" + out.Target.ID.Hex()
	},

	models.TypePost: func(out *RenderedNotification) {
		post := out.Target.Post
		if post == nil {
			return
		}
		out.TemplateSlug = "someone-commented-on-your-post"
		out.TemplateName = "Someone Commented on Your Post"

		fillActorDetails(out)
		out.TargetPhoto = userPhoto(out.Owner)

		out.TargetText = " your post: " + post.Title + "."
		out.TargetURL = "?pid=" + post.ID.Hex()
	},

	models.TypeCommentThread: func(out *RenderedNotification) {
		thread := out.Target.Thread
		if thread == nil {
			return
		}
		out.TargetText = " your comment."

		if thread.RootID.IsZero() {
			return
		}
		switch thread.RootType {
		case models.TypeActivity:
			out.TargetURL = "/post/" + thread.RootID.Hex()
		case models.TypeForumThread:
			if len(out.Notification.Actions) > 0 {
				out.TargetURL = "/forum/thread/" + thread.RootID.Hex() +
					"/reply/" + out.Notification.Actions[0].ActionID.Hex()
			}
		case models.TypePost:
			out.TargetURL = "?pid=" + thread.RootID.Hex()
		case models.TypeVehicle:
			out.TargetURL = fmt.Sprintf("/profile/%s/vehicles/%s",
				out.Notification.Owner.Hex(), thread.RootID.Hex())
		}
	},

	models.TypeForumThread: func(out *RenderedNotification) {
		out.TargetText = " your forum post."
		if len(out.Notification.Actions) > 0 {
			out.TargetURL = "/forum/thread/" + out.Target.ID.Hex() +
				"/reply/" + out.Notification.Actions[0].ActionID.Hex()
		}
	},

	models.TypeUser: targetUser,
}

func targetVehicle(out *RenderedNotification) {
	vehicle := out.Target.Vehicle
	if vehicle == nil {
		return
	}
	actorProfile := ""
	if actor := out.Actor(0); actor != nil {
		actorProfile = actor.ProfileName
	}

	switch out.Notification.Action {
	case models.ActionVehicleAdd:
		out.TargetText = " " + vehicle.FullName() + "."
		out.TargetURL = fmt.Sprintf("/%s/%s/%s", actorProfile, vehicle.VehicleURLID, vehicle.Slug)
		out.TargetPhoto = vehiclePhoto(vehicle)

	case models.ActionPhotoPost:
		out.TargetText = " to the " + vehicle.FullName() + "."
		out.TargetURL = fmt.Sprintf("/%s/%s/%s?photo_id=%s",
			actorProfile, vehicle.VehicleURLID, vehicle.Slug, out.ActionObject.ID.Hex())
		if photo := out.ActionObject.Image; photo != nil {
			out.TargetPhoto = photo.Thumb
			if out.TargetPhoto == "" {
				out.TargetPhoto = photo.Medium
			}
		}

	case models.ActionPartAdd:
		if part := out.ActionObject.Part; part != nil {
			out.TargetText = fmt.Sprintf(" %s on the %s.", part.FullName(), vehicle.FullName())
			out.TargetURL = fmt.Sprintf("/%s/%s/%s/%s/%s",
				actorProfile, vehicle.VehicleURLID, vehicle.Slug, part.PartURLID, part.Slug)
		}

	default:
		out.TargetText = " your " + vehicle.FullName() + "."
		ownerProfile := ""
		if out.Owner != nil {
			ownerProfile = out.Owner.ProfileName
		}
		out.TargetURL = fmt.Sprintf("/%s/%s/%s", ownerProfile, vehicle.VehicleURLID, vehicle.Slug)
		out.TargetPhoto = vehiclePhoto(vehicle)
		out.SendEmail = true
		out.SendAPN = true
	}

	out.TargetMake = vehicle.Make
	out.TargetModel = vehicle.Model
}

func targetUser(out *RenderedNotification) {
	n := &out.Notification

	switch n.ActionType {
	case models.TypeActivity:
		out.TargetText = "."
		if latest := n.LatestAction(); latest != nil {
			out.TargetURL = "/post/" + latest.ActionID.Hex()
		}

	case models.TypePost:
		post := out.ActionObject.Post
		switch n.Action {
		case models.ActionWallPost:
			if post != nil && post.Title != "" {
				out.TargetText = ": " + post.Title + "."
			}
		case models.ActionVehiclePost:
			if post != nil {
				out.TargetText = " on their vehicle: " + post.Title + "."
			}
		}
		if latest := n.LatestAction(); latest != nil {
			out.TargetURL = "?pid=" + latest.ActionID.Hex()
		}

	default:
		out.TemplateSlug = "you-have-a-new-follower"
		out.TemplateName = "You Have a New Follower"
		out.TargetText = " you."
		if actor := out.Actor(0); actor != nil {
			out.TargetURL = "/" + actor.ProfileName
		}
	}
}

// vehiclePhoto falls back from the build's own photo to the stock default
// to a fixed placeholder.
func vehiclePhoto(v *models.Vehicle) string {
	if v.PrimaryImage != nil && v.PrimaryImage.Medium != "" {
		return v.PrimaryImage.Medium
	}
	if v.Stock != nil && v.Stock.DefaultImage != nil && v.Stock.DefaultImage.Medium != "" {
		return v.Stock.DefaultImage.Medium
	}
	return defaultVehiclePhotoURL
}
