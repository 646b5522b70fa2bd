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

func TestNormalizePostSkipsBlankPosts(t *testing.T) {
	post := models.Post{
		ID:                primitive.NewObjectID(),
		Title:             "   ",
		PreviewText:       "",
		CreationTimestamp: time.Unix(0, 0),
	}
	_, ok := NormalizePost(&post, "someone", "https://motorhub.test")
	assert.False(t, ok)
}

func TestNormalizePostTruncatesLongTitles(t *testing.T) {
	post := models.Post{
		ID:                primitive.NewObjectID(),
		Title:             strings.Repeat("engine swap progress ", 8), // well past 70 chars
		CreationTimestamp: time.Unix(0, 0),
	}
	preview, ok := NormalizePost(&post, "builder", "https://motorhub.test")
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(preview.Title, "..."))
	assert.Contains(t, preview.URL, "/builder?pid="+post.ID.Hex())
}

func TestConsolidatePostsDedupsByTitle(t *testing.T) {
	mine := []PostPreview{{Title: "Turbo install"}, {Title: "New wheels"}}
	siteWide := []PostPreview{{Title: "New wheels"}, {Title: "Track day recap"}}

	got := ConsolidatePosts(mine, siteWide)

	require.Len(t, got, 3)
	assert.Equal(t, "Turbo install", got[0].Title)
	assert.Equal(t, "New wheels", got[1].Title)
	assert.Equal(t, "Track day recap", got[2].Title)
}

func TestConsolidatePostsCapsAt25(t *testing.T) {
	var posts []PostPreview
	for i := 0; i < 40; i++ {
		posts = append(posts, PostPreview{Title: strings.Repeat("x", i+1)})
	}
	assert.Len(t, ConsolidatePosts(posts), 25)
}

func TestNormalizeUser(t *testing.T) {
	u := &models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   "Alex",
		LastName:    "Reyes",
		ProfileName: "alexreyes",
		Local:       models.LocalAccount{Username: "alex@motorhub.test"},
		Location:    &models.Location{Name: "Portland, OR"},
	}

	profile := NormalizeUser(u, "https://motorhub.test")
	require.NotNil(t, profile)
	assert.Equal(t, "Alex Reyes", profile.Name)
	assert.Equal(t, "alex@motorhub.test", profile.Email)
	assert.Equal(t, "Portland, OR", profile.Location)
	assert.Equal(t, "https://motorhub.test/alexreyes", profile.URL)
	assert.Equal(t, defaultAvatarURL, profile.Photo)

	assert.Nil(t, NormalizeUser(nil, "https://motorhub.test"))
}

func TestNormalizeParts(t *testing.T) {
	parts := []models.Part{{
		Brand:        "Borla",
		Name:         "ATAK Cat-Back",
		VehicleYear:  2018,
		VehicleMake:  "Ford",
		VehicleModel: "Mustang",
	}}

	got := NormalizeParts(parts)
	require.Len(t, got, 1)
	assert.Equal(t, "Borla ATAK Cat-Back", got[0].Name)
	assert.Equal(t, "2018 Ford Mustang", got[0].VehicleName)
}

func TestNormalizePhotosBuildsVehicleLink(t *testing.T) {
	img := models.Image{
		ID:    primitive.NewObjectID(),
		Thumb: "https://cdn.example.com/t.jpg",
		Vehicles: []models.ImageVehicleRef{{
			VehicleID:         primitive.NewObjectID(),
			PosterProfileName: "alexreyes",
			VehicleURLID:      "8812",
			Slug:              "2010-honda-civic",
		}},
		CreationTimestamp: time.Unix(0, 0),
	}

	got := NormalizePhotos([]models.Image{img}, "https://motorhub.test")
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/t.jpg", got[0].Photo)
	assert.Equal(t,
		"https://motorhub.test/alexreyes/8812/2010-honda-civic?photo_id="+img.ID.Hex(),
		got[0].PhotoURL)
}
