package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func firstVariant(candidates []SubjectVariant) SubjectVariant { return candidates[0] }

func testActor(first, last, profile string) *models.User {
	return &models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   first,
		LastName:    last,
		ProfileName: profile,
	}
}

func followVehicleNotification() *ResolvedNotification {
	actor := testActor("Alex", "Reyes", "alexreyes")
	action := entry(actor.ID, time.Unix(1000, 0))

	return &ResolvedNotification{
		Notification: models.Notification{
			ID:         primitive.NewObjectID(),
			Owner:      primitive.NewObjectID(),
			Action:     models.ActionFollow,
			ActionType: models.TypeConnection,
			TargetType: models.TypeVehicle,
			TargetID:   primitive.NewObjectID(),
			Actions:    []models.ActionEntry{action},
		},
		Owner:  testActor("Dana", "Wells", "danawells"),
		Actors: []*models.User{actor},
		Target: &models.Entity{
			Type: models.TypeVehicle,
			Vehicle: &models.Vehicle{
				ID:           primitive.NewObjectID(),
				Year:         2010,
				Make:         "Honda",
				Model:        "Civic",
				VehicleURLID: "8812",
				Slug:         "2010-honda-civic",
			},
		},
		ActionObject: &models.Entity{
			Type: models.TypeConnection,
			ID:   action.ActionID,
		},
	}
}

func TestRenderFollowVehicle(t *testing.T) {
	g := NewGenerator(firstVariant)

	rn := g.Render(followVehicleNotification())
	require.NotNil(t, rn)

	assert.Equal(t, "Alex Reyes started following your 2010 Honda Civic.", rn.Text)
	assert.True(t, strings.Contains(rn.Text, "following"))
	assert.True(t, strings.HasSuffix(rn.Text, "your 2010 Honda Civic."))

	assert.True(t, rn.SendEmail)
	assert.True(t, rn.SendAPN)
	assert.Equal(t, "someone-followed-your-build", rn.TemplateSlug)
	assert.Equal(t, "FOLLOW-Vehicle", rn.Tags[0])
	assert.Equal(t, defaultVehiclePhotoURL, rn.TargetPhoto)
	assert.Equal(t, "/danawells/8812/2010-honda-civic", rn.TargetURL)
}

func TestRenderDeterministicExceptSubject(t *testing.T) {
	g := NewGenerator(nil) // random chooser

	first := g.Render(followVehicleNotification())
	require.NotNil(t, first)

	for i := 0; i < 20; i++ {
		again := g.Render(followVehicleNotification())
		require.NotNil(t, again)

		assert.Equal(t, first.Text, again.Text)
		assert.Equal(t, first.TargetURL, again.TargetURL)
		assert.Equal(t, first.TargetPhoto, again.TargetPhoto)

		// The subject must always be one of the declared candidates.
		candidates := []string{
			"Lucky you! You have a new follower for" + again.TargetText,
			again.Text,
		}
		assert.Contains(t, candidates, again.Subject)
	}
}

func TestRenderCommentOnVehicle(t *testing.T) {
	actor := testActor("Sam", "Okafor", "samokafor")
	action := entry(actor.ID, time.Unix(2000, 0))
	vehicleID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()

	res := &ResolvedNotification{
		Notification: models.Notification{
			ID:         primitive.NewObjectID(),
			Owner:      ownerID,
			Action:     models.ActionComment,
			ActionType: models.TypeCommentThread,
			TargetType: models.TypeVehicle,
			TargetID:   vehicleID,
			Actions:    []models.ActionEntry{action},
		},
		Owner:  testActor("Dana", "Wells", "danawells"),
		Actors: []*models.User{actor},
		Target: &models.Entity{
			Type: models.TypeVehicle,
			Vehicle: &models.Vehicle{
				ID:           vehicleID,
				Year:         1997,
				Make:         "Mazda",
				Model:        "Miata",
				VehicleURLID: "2231",
				Slug:         "1997-mazda-miata",
			},
		},
		ActionObject: &models.Entity{
			Type: models.TypeCommentThread,
			ID:   action.ActionID,
			Thread: &models.CommentThread{
				ID:     action.ActionID,
				Poster: actor.ID,
				Text:   "Clean setup, what coilovers are those?",
			},
		},
	}

	g := NewGenerator(firstVariant)
	rn := g.Render(res)
	require.NotNil(t, rn)

	assert.Equal(t, " commented on", rn.ActionText)
	assert.Equal(t, "someone-commented-on-your-vehicle", rn.TemplateSlug)
	assert.Equal(t, "Clean setup, what coilovers are those?", rn.ActorComment)
	assert.Contains(t, rn.Subject, "just wrote on")
	assert.Contains(t, rn.Subject, "Clean setup")
	assert.Len(t, rn.Tags, 2)
}

func TestRenderReplyToForumPost(t *testing.T) {
	actor := testActor("Joe", "Marsh", "joemarsh")
	action := entry(actor.ID, time.Unix(4000, 0))
	threadID := primitive.NewObjectID()

	res := &ResolvedNotification{
		Notification: models.Notification{
			ID:         primitive.NewObjectID(),
			Owner:      primitive.NewObjectID(),
			Action:     models.ActionComment,
			ActionType: models.TypeCommentThread,
			TargetType: models.TypeForumThread,
			TargetID:   threadID,
			Actions:    []models.ActionEntry{action},
		},
		Owner:  testActor("Dana", "Wells", "danawells"),
		Actors: []*models.User{actor},
		// Forum threads resolve to an id-only stub.
		Target: &models.Entity{Type: models.TypeForumThread, ID: threadID},
		ActionObject: &models.Entity{
			Type: models.TypeCommentThread,
			ID:   action.ActionID,
			Thread: &models.CommentThread{
				ID:     action.ActionID,
				Poster: actor.ID,
				Text:   "Same problem on my NA, check the crank angle sensor.",
			},
		},
	}

	g := NewGenerator(firstVariant)
	rn := g.Render(res)
	require.NotNil(t, rn)

	assert.Equal(t, "Joe Marsh commented on your forum post.", rn.Text)
	assert.Equal(t, "/forum/thread/"+threadID.Hex()+"/reply/"+action.ActionID.Hex(), rn.TargetURL)
}

func TestRenderCommentRootLinks(t *testing.T) {
	actor := testActor("Noa", "Blake", "noablake")
	action := entry(actor.ID, time.Unix(5000, 0))
	rootID := primitive.NewObjectID()
	targetID := primitive.NewObjectID()

	build := func(rootType models.EntityType, rootID primitive.ObjectID) *ResolvedNotification {
		return &ResolvedNotification{
			Notification: models.Notification{
				ID:         primitive.NewObjectID(),
				Owner:      primitive.NewObjectID(),
				Action:     models.ActionComment,
				ActionType: models.TypeCommentThread,
				TargetType: models.TypeCommentThread,
				TargetID:   targetID,
				Actions:    []models.ActionEntry{action},
			},
			Owner:  testActor("Dana", "Wells", "danawells"),
			Actors: []*models.User{actor},
			Target: &models.Entity{
				Type: models.TypeCommentThread,
				ID:   targetID,
				Thread: &models.CommentThread{
					ID:       targetID,
					RootType: rootType,
					RootID:   rootID,
					Text:     "agreed",
				},
			},
			ActionObject: &models.Entity{
				Type:   models.TypeCommentThread,
				ID:     action.ActionID,
				Thread: &models.CommentThread{ID: action.ActionID, Text: "same here"},
			},
		}
	}

	g := NewGenerator(firstVariant)

	// A comment detached from any root renders text only; there is nowhere
	// to link.
	orphan := g.Render(build(models.EntityType(""), primitive.NilObjectID))
	require.NotNil(t, orphan)
	assert.Equal(t, " your comment.", orphan.TargetText)
	assert.Empty(t, orphan.TargetURL)

	forum := g.Render(build(models.TypeForumThread, rootID))
	require.NotNil(t, forum)
	assert.Equal(t, "/forum/thread/"+rootID.Hex()+"/reply/"+action.ActionID.Hex(), forum.TargetURL)

	post := g.Render(build(models.TypePost, rootID))
	require.NotNil(t, post)
	assert.Equal(t, "?pid="+rootID.Hex(), post.TargetURL)
}

func TestRenderUnknownActionFallsBackToText(t *testing.T) {
	actor := testActor("Kim", "Soto", "kimsoto")
	action := entry(actor.ID, time.Unix(3000, 0))

	res := &ResolvedNotification{
		Notification: models.Notification{
			ID:         primitive.NewObjectID(),
			Owner:      primitive.NewObjectID(),
			Action:     "UNKNOWN_ACTION",
			ActionType: "Mystery",
			TargetType: models.TypeImage,
			TargetID:   primitive.NewObjectID(),
			Actions:    []models.ActionEntry{action},
		},
		Owner:  testActor("Dana", "Wells", "danawells"),
		Actors: []*models.User{actor},
		Target: &models.Entity{
			Type:  models.TypeImage,
			Image: &models.Image{Thumb: "https://cdn.example.com/t.jpg"},
		},
		ActionObject: &models.Entity{Type: "Mystery", ID: action.ActionID},
	}

	g := NewGenerator(firstVariant)
	rn := g.Render(res)
	require.NotNil(t, rn)

	assert.Equal(t, "", rn.ActionText)
	assert.Equal(t, "Kim Soto your photo.", rn.Text)
	assert.Equal(t, rn.Text, rn.Subject)
	assert.False(t, rn.SendEmail)
}

func TestRenderDropsMissingReferences(t *testing.T) {
	g := NewGenerator(firstVariant)

	res := followVehicleNotification()
	res.Target = nil
	assert.Nil(t, g.Render(res))

	res = followVehicleNotification()
	res.ActionObject = nil
	assert.Nil(t, g.Render(res))

	res = followVehicleNotification()
	res.Notification.Actions = nil
	assert.Nil(t, g.Render(res))
}

func TestActorText(t *testing.T) {
	a := testActor("Alex", "Reyes", "alexreyes")
	b := testActor("Sam", "Okafor", "samokafor")

	base := func(count int) *ResolvedNotification {
		res := &ResolvedNotification{Actors: []*models.User{a, b}}
		for i := 0; i < count; i++ {
			res.Notification.Actions = append(res.Notification.Actions, entry(primitive.NewObjectID(), time.Unix(int64(i), 0)))
		}
		return res
	}

	assert.Equal(t, "Alex Reyes and Sam Okafor", actorText(base(2)))
	assert.Equal(t, "Alex Reyes, Sam Okafor, and 1 other person", actorText(base(3)))
	assert.Equal(t, "Alex Reyes, Sam Okafor, and 3 other people", actorText(base(5)))

	single := &ResolvedNotification{Actors: []*models.User{a}}
	single.Notification.Actions = []models.ActionEntry{entry(a.ID, time.Unix(0, 0))}
	assert.Equal(t, "Alex Reyes", actorText(single))
}

func TestTruncateComment(t *testing.T) {
	assert.Equal(t, "short comment", TruncateComment("short comment"))

	exactly50 := strings.Repeat("a", 50)
	assert.Equal(t, exactly50, TruncateComment(exactly50))

	long := "This is a much longer comment that will definitely need truncating somewhere, yes"
	got := TruncateComment(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 73)
	// Cut lands on a word boundary, not mid-word.
	trimmed := strings.TrimSuffix(got, "...")
	assert.True(t, strings.HasPrefix(long, trimmed))
	next := []rune(long)[len([]rune(trimmed))]
	assert.Contains(t, " ,.:?!", string(next))
}

func TestUserPhotoFallbackTiers(t *testing.T) {
	withImage := &models.User{PrimaryImage: &models.Image{Thumb: "https://cdn.example.com/me.jpg"}}
	assert.Equal(t, "https://cdn.example.com/me.jpg", userPhoto(withImage))

	withFacebook := &models.User{Facebook: &models.FacebookLink{ID: "12345"}}
	assert.Equal(t, "https://graph.facebook.com/v2.9/12345/picture?type=normal", userPhoto(withFacebook))

	assert.Equal(t, defaultAvatarURL, userPhoto(&models.User{}))
	assert.Equal(t, defaultAvatarURL, userPhoto(nil))
}
