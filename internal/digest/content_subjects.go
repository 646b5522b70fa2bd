package digest

import (
	"strings"

	"github.com/gearworks/motorhub/backend/internal/models"
)

// chooseSubject runs the copy experiments: for a handful of
// (action, target_type) combinations a variant set is built and one is
// picked, its tag recorded for downstream analytics. Everything else uses
// the notification text as subject.
func (g *Generator) chooseSubject(out *RenderedNotification) {
	n := &out.Notification
	baseTag := out.Tags[0]

	switch {
	case n.Action == models.ActionFollow && n.TargetType == models.TypeUser:
		g.applyVariant(out, []SubjectVariant{
			{Text: "Your Garage is popular", Tag: "Exp-" + baseTag + "-17-4-13-popular"},
		})
		out.TargetPhoto = userPhoto(out.Target.User)

	case n.Action == models.ActionFollow && n.TargetType == models.TypeVehicle:
		out.TemplateSlug = "someone-followed-your-build"
		out.TemplateName = "Someone Followed Your Build"
		out.OwnerPhoto = userPhoto(out.Owner)

		g.applyVariant(out, []SubjectVariant{
			{Text: "Lucky you! You have a new follower for" + out.TargetText, Tag: "Exp-" + baseTag + "-17-4-13-lucky-you"},
			{Text: out.Text, Tag: "Exp-" + baseTag + "-17-4-13-original"},
		})

	case n.Action == models.ActionLike && n.TargetType == models.TypeVehicle:
		out.TemplateSlug = "someone-liked-your-vehicle"
		out.TemplateName = "Someone Liked Your Vehicle"

		g.applyVariant(out, []SubjectVariant{
			{
				Text: "Your " + out.TargetMake + " " + out.TargetModel + " is popular! " +
					out.ActorFirstName + " just liked your ride",
				Tag: "Exp-" + baseTag + "-17-4-13-popular",
			},
		})

	case n.ActionType == models.TypeCommentThread:
		g.commentSubject(out, baseTag)

	default:
		out.Subject = out.Text
	}
}

func (g *Generator) commentSubject(out *RenderedNotification, baseTag string) {
	comment := ""
	if out.ActionObject.Thread != nil {
		comment = TruncateComment(out.ActionObject.Thread.Text)
	}
	out.ActorComment = comment
	out.OwnerPhoto = userPhoto(out.Owner)

	// Target phrase ends with a period; the comment-text variants swap it
	// for a colon and the comment itself.
	withComment := strings.TrimSuffix(out.TargetText, ".") + ": " + comment

	var candidates []SubjectVariant
	switch out.Notification.TargetType {
	case models.TypeCommentThread:
		candidates = []SubjectVariant{
			{Text: out.ActorText + ` just replied to your comment: "` + comment + `"`, Tag: "Exp-" + baseTag + "-17-5-17-comment-text-target"},
			{Text: "Someone just replied to your comment", Tag: "Exp-" + baseTag + "-17-5-17-anon-actor"},
		}
	case models.TypeVehicle:
		candidates = []SubjectVariant{
			{Text: out.ActorText + " just wrote on" + withComment, Tag: "Exp-" + baseTag + "-17-4-13-comment-text-target"},
		}
	case models.TypePost:
		candidates = []SubjectVariant{
			{Text: "Someone just made a comment on" + out.TargetText, Tag: "Exp-" + baseTag + "-17-4-13-anon-actor"},
			{Text: out.Text, Tag: "Exp-" + baseTag + "-17-4-13-actor-name"},
		}
	default:
		candidates = []SubjectVariant{
			{Text: out.ActorText + " just wrote on" + withComment, Tag: "Exp-" + baseTag + "-17-4-13-comment-text-target"},
			{Text: out.ActorText + " just wrote: " + comment, Tag: "Exp-" + baseTag + "-17-4-13-comment-text-no-target"},
			{Text: "Someone just made a comment on" + out.TargetText, Tag: "Exp-" + baseTag + "-17-4-13-anon-actor"},
			{Text: out.Text, Tag: "Exp-" + baseTag + "-17-4-13-actor-name"},
		}
	}

	switch out.Notification.TargetType {
	case models.TypeVehicle:
		out.TemplateSlug = "someone-commented-on-your-vehicle"
		out.TemplateName = "Someone Commented on Your Vehicle"
	case models.TypeCommentThread:
		out.TemplateSlug = "someone-commented-on-your-comment"
		out.TemplateName = "Someone Commented on Your Comment"
	}

	g.applyVariant(out, candidates)
}

func (g *Generator) applyVariant(out *RenderedNotification, candidates []SubjectVariant) {
	chosen := g.choose(candidates)
	out.Subject = chosen.Text
	out.Tags = append(out.Tags, chosen.Tag)
}
