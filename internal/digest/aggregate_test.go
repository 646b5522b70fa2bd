package digest

import (
	"fmt"
	"testing"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func renderedWithAction(action string, actionType models.EntityType) RenderedNotification {
	actor := testActor("Alex", "Reyes", "alexreyes")

	rn := RenderedNotification{
		ResolvedNotification: ResolvedNotification{
			Notification: models.Notification{
				ID:         primitive.NewObjectID(),
				Action:     action,
				ActionType: actionType,
				Actions:    []models.ActionEntry{entry(actor.ID, time.Unix(0, 0))},
			},
			Actors: []*models.User{actor},
			Target: &models.Entity{
				Type:    models.TypeVehicle,
				Vehicle: &models.Vehicle{Year: 2015, Make: "Subaru", Model: "WRX"},
			},
			ActionObject: &models.Entity{Type: actionType},
		},
		TargetURL: "/alexreyes/1/2015-subaru-wrx",
	}

	switch actionType {
	case models.TypePart:
		rn.ActionObject.Part = &models.Part{Brand: "Cobb", Name: "Accessport"}
	case models.TypeVehicle:
		rn.ActionObject.Vehicle = &models.Vehicle{Year: 2015, Make: "Subaru", Model: "WRX"}
	case models.TypePost:
		rn.ActionObject.Post = &models.Post{
			ID:                primitive.NewObjectID(),
			Title:             fmt.Sprintf("Post %s", primitive.NewObjectID().Hex()),
			CreationTimestamp: time.Unix(0, 0),
		}
	}
	return rn
}

func TestAggregateBucketCounts(t *testing.T) {
	input := []RenderedNotification{
		renderedWithAction(models.ActionPartAdd, models.TypePart),
		renderedWithAction(models.ActionPartAdd, models.TypePart),
		renderedWithAction(models.ActionPhotoPost, models.TypeImage),
		renderedWithAction(models.ActionVehicleAdd, models.TypeVehicle),
		renderedWithAction(models.ActionWallPost, models.TypePost),
		renderedWithAction(models.ActionVehiclePost, models.TypePost),
		renderedWithAction(models.ActionFollow, models.TypeConnection), // not summarized
		renderedWithAction(models.ActionLike, models.TypeConnection),   // not summarized
	}

	a := NewAggregator("https://staging.motorhub.com")
	summary := a.Aggregate(input)

	require.NotNil(t, summary[BucketPartAdd])
	assert.Equal(t, 2, summary[BucketPartAdd].Count)
	assert.Len(t, summary[BucketPartAdd].Activities, 2)

	require.NotNil(t, summary[BucketPhotoPost])
	assert.Equal(t, 1, summary[BucketPhotoPost].Count)

	require.NotNil(t, summary[BucketVehicleAdd])
	assert.Equal(t, 1, summary[BucketVehicleAdd].Count)

	// WALL_POST and VEHICLE_POST fold into POST.
	require.NotNil(t, summary[BucketPost])
	assert.Equal(t, 2, summary[BucketPost].Count)
	assert.Len(t, summary[BucketPost].Posts, 2)

	assert.Nil(t, summary[models.ActionFollow])
	assert.Nil(t, summary[models.ActionLike])

	total := 0
	for _, bucket := range summary {
		total += bucket.Count
	}
	assert.Equal(t, 6, total)
}

func TestAggregateActivityFields(t *testing.T) {
	a := NewAggregator("https://motorhub.test")
	summary := a.Aggregate([]RenderedNotification{
		renderedWithAction(models.ActionPartAdd, models.TypePart),
	})

	activity := summary[BucketPartAdd].Activities[0]
	assert.Equal(t, models.ActionPartAdd, activity.Action)
	assert.Equal(t, "Cobb Accessport", activity.PartName)
	assert.Equal(t, "2015 Subaru WRX", activity.VehicleName)
	assert.Equal(t, "alexreyes", activity.ActorProfile)
	assert.Equal(t, "https://motorhub.test/alexreyes/1/2015-subaru-wrx", activity.TargetURL)
}

func TestAggregateEmptyInput(t *testing.T) {
	a := NewAggregator("https://motorhub.test")
	summary := a.Aggregate(nil)
	assert.Empty(t, summary)
}
