package digest

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/gearworks/motorhub/backend/internal/models"
)

const dateLayout = "1/2/2006"

// truncateAtWord cuts s after budget characters, extending to the end of
// the word in progress.
func truncateAtWord(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	i := budget
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	return string(runes[:i])
}

// NormalizePost produces the display form of a post. Posts with neither a
// title nor preview text are skipped.
func NormalizePost(post *models.Post, ownerProfile, baseURL string) (PostPreview, bool) {
	title := strings.TrimSpace(post.Title)
	preview := strings.TrimSpace(post.PreviewText)
	if title == "" && preview == "" {
		return PostPreview{}, false
	}

	out := PostPreview{
		CreationTimestamp: post.CreationTimestamp.Format(dateLayout),
		URL:               baseURL,
	}
	if ownerProfile != "" {
		out.URL = baseURL + "/" + ownerProfile + "?pid=" + post.ID.Hex()
	}
	if len(post.Photos) > 0 && post.Photos[0].Large != "" {
		out.FeaturedImage = post.Photos[0].Large
	}
	if preview != "" {
		out.PreviewText = html.UnescapeString(truncateAtWord(preview, 270))
	}

	source := title
	if source == "" {
		source = preview
	}
	if len([]rune(source)) < 70 {
		out.Title = html.UnescapeString(source)
	} else {
		out.Title = html.UnescapeString(truncateAtWord(source, 70)) + "..."
	}

	return out, true
}

// NormalizePosts maps posts to previews using each post's denormalized
// owner profile name.
func NormalizePosts(posts []models.Post, baseURL string) []PostPreview {
	out := make([]PostPreview, 0, len(posts))
	for i := range posts {
		if preview, ok := NormalizePost(&posts[i], posts[i].OwnerProfileName, baseURL); ok {
			out = append(out, preview)
		}
	}
	return out
}

// ConsolidatePosts flattens the groups, removes duplicates by title, and
// keeps the first 25.
func ConsolidatePosts(groups ...[]PostPreview) []PostPreview {
	seen := make(map[string]bool)
	var out []PostPreview
	for _, group := range groups {
		for _, post := range group {
			if seen[post.Title] {
				continue
			}
			seen[post.Title] = true
			out = append(out, post)
		}
	}
	if len(out) > 25 {
		out = out[:25]
	}
	return out
}

func NormalizeParts(parts []models.Part) []PartPreview {
	out := make([]PartPreview, 0, len(parts))
	for i := range parts {
		p := &parts[i]
		out = append(out, PartPreview{
			Name:        p.FullName(),
			VehicleName: fmt.Sprintf("%d %s %s", p.VehicleYear, p.VehicleMake, p.VehicleModel),
		})
	}
	return out
}

func NormalizePhotos(images []models.Image, baseURL string) []PhotoPreview {
	out := make([]PhotoPreview, 0, len(images))
	for i := range images {
		img := &images[i]
		preview := PhotoPreview{
			Photo:             img.Thumb,
			CreationTimestamp: img.CreationTimestamp.Format(dateLayout),
		}
		if preview.Photo == "" {
			preview.Photo = img.Medium
		}
		if len(img.Vehicles) > 0 && img.Vehicles[0].PosterProfileName != "" {
			v := img.Vehicles[0]
			preview.PhotoURL = fmt.Sprintf("%s/%s/%s/%s?photo_id=%s",
				baseURL, v.PosterProfileName, v.VehicleURLID, v.Slug, img.ID.Hex())
		}
		out = append(out, preview)
	}
	return out
}

// NormalizeUser produces the profile block used across digest templates.
func NormalizeUser(u *models.User, baseURL string) *UserProfile {
	if u == nil {
		return nil
	}

	profile := &UserProfile{
		Name:          u.DisplayName(),
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		AliasName:     u.AliasName,
		ModScore:      u.ModScore,
		FollowerCount: u.FollowerCount,
		ProfileName:   u.ProfileName,
		URL:           baseURL + "/" + u.ProfileName,
		AccountURL:    baseURL + "/profile/" + u.ID.Hex() + "/account",
		Email:         u.Email(),
	}
	if u.Location != nil {
		profile.Location = u.Location.ManualEntry
		if profile.Location == "" {
			profile.Location = u.Location.Name
		}
	}

	if u.PrimaryImage != nil && (u.PrimaryImage.Medium != "" || u.PrimaryImage.Thumb != "") {
		profile.Photo = u.PrimaryImage.Medium
		if profile.Photo == "" {
			profile.Photo = u.PrimaryImage.Thumb
		}
	} else if u.Facebook != nil && u.Facebook.ID != "" {
		profile.Photo = fmt.Sprintf(facebookPictureFormat, u.Facebook.ID)
	} else {
		profile.Photo = defaultAvatarURL
	}

	return profile
}
