package digest

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/gearworks/motorhub/backend/internal/models"
)

const (
	facebookPictureFormat = "https://graph.facebook.com/v2.9/%s/picture?type=normal"

	defaultAvatarURL       = "https://d3c8j4mxmubrpz.cloudfront.net/email-welcome/welcome-user-no-photo.jpg"
	defaultVehiclePhotoURL = "https://d1oglr07rm6q0i.cloudfront.net/c39a38b2-f459-40ef-945e-b69936484a98.thumb.jpg"
)

// SubjectVariant is one candidate subject line with its analytics tag.
type SubjectVariant struct {
	Text string
	Tag  string
}

// VariantChooser picks one subject variant from a non-empty candidate set.
// Injected so rendering can be made deterministic under test.
type VariantChooser func(candidates []SubjectVariant) SubjectVariant

// RandomVariant chooses uniformly at random.
func RandomVariant(candidates []SubjectVariant) SubjectVariant {
	return candidates[rand.Intn(len(candidates))]
}

// Generator maps a resolved notification to its rendered display form.
// Deterministic for text, urls and photos; only the subject choice varies
// when multiple copy variants exist.
type Generator struct {
	choose VariantChooser
}

func NewGenerator(choose VariantChooser) *Generator {
	if choose == nil {
		choose = RandomVariant
	}
	return &Generator{choose: choose}
}

// Render produces the display form of res, or nil when the record cannot
// be rendered (missing target, action object, or actors).
func (g *Generator) Render(res *ResolvedNotification) *RenderedNotification {
	if res.Target == nil || res.ActionObject == nil || len(res.Notification.Actions) == 0 {
		return nil
	}

	n := &res.Notification

	out := &RenderedNotification{ResolvedNotification: *res}
	out.Tags = []string{n.Action + "-" + string(n.TargetType)}
	out.ActorPhoto = actorPhoto(res)
	out.ActorText = actorText(res)

	if h, ok := actionHandlers[n.ActionType]; ok {
		h(out)
	}
	if h, ok := targetHandlers[n.TargetType]; ok {
		h(out)
	}

	out.Text = out.ActorText + out.ActionText + out.TargetText

	g.chooseSubject(out)

	return out
}

// actorPhoto walks the photo tiers for the leading actors: primary image,
// then the linked facebook picture, then the fixed placeholder.
func actorPhoto(res *ResolvedNotification) string {
	for i := 0; i < 2; i++ {
		actor := res.Actor(i)
		if actor == nil {
			continue
		}
		if actor.PrimaryImage != nil && actor.PrimaryImage.Thumb != "" {
			return actor.PrimaryImage.Thumb
		}
		if actor.Facebook != nil && actor.Facebook.ID != "" {
			return fmt.Sprintf(facebookPictureFormat, actor.Facebook.ID)
		}
	}
	return defaultAvatarURL
}

// userPhoto is the same tier walk for a single profile.
func userPhoto(u *models.User) string {
	if u == nil {
		return defaultAvatarURL
	}
	if u.PrimaryImage != nil && u.PrimaryImage.Thumb != "" {
		return u.PrimaryImage.Thumb
	}
	if u.Facebook != nil && u.Facebook.ID != "" {
		return fmt.Sprintf(facebookPictureFormat, u.Facebook.ID)
	}
	return defaultAvatarURL
}

// actorText joins the leading actor names, collapsing the tail into
// "and N other people".
func actorText(res *ResolvedNotification) string {
	var b strings.Builder
	count := len(res.Notification.Actions)

	if first := res.Actor(0); first != nil {
		b.WriteString(first.FirstName + " " + first.LastName)
	}
	if count == 2 {
		b.WriteString(" and")
	} else if count > 2 {
		b.WriteString(",")
	}
	if second := res.Actor(1); second != nil {
		b.WriteString(" " + second.FirstName + " " + second.LastName)
	}
	if count > 2 {
		noun := "people"
		if count == 3 {
			noun = "person"
		}
		b.WriteString(fmt.Sprintf(", and %d other %s", count-2, noun))
	}
	return b.String()
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// fillActorDetails copies the first actor's profile fields used by the
// richer email templates. Description is capped at 75 words.
func fillActorDetails(out *RenderedNotification) {
	actor := out.Actor(0)
	if actor == nil {
		return
	}
	out.ActorURL = "/" + actor.ProfileName
	out.ActorFirstName = actor.FirstName
	out.ActorName = actor.FirstName + " " + actor.LastName
	out.ActorModScore = actor.ModScore
	out.ActorFollowerCount = actor.FollowerCount

	description := tagPattern.ReplaceAllString(actor.Description, "")
	if words := strings.Fields(description); len(words) > 75 {
		description = strings.Join(words[:75], " ")
	}
	out.ActorDescription = description

	if actor.Location != nil {
		out.ActorLocation = actor.Location.Name
		if out.ActorLocation == "" {
			out.ActorLocation = actor.Location.ManualEntry
		}
	}
}

// TruncateComment cuts free text at 70 characters, then extends from 50 to
// the next whitespace or punctuation boundary and appends an ellipsis.
func TruncateComment(s string) string {
	runes := []rune(s)
	if len(runes) > 70 {
		runes = runes[:70]
	}
	if len(runes) <= 50 {
		return string(runes)
	}

	i := 50
	for i < len(runes) && !strings.ContainsRune(" ,.:?!", runes[i]) {
		i++
	}
	return string(runes[:i]) + "..."
}
