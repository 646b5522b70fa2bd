package digest

import (
	"fmt"
	"time"
)

// summaryHTML renders the operational summary mail body.
func summaryHTML(summary *RunSummary) string {
	c := summary.Counters
	body := fmt.Sprintf(`
        <h3>Motorhub Task Update: %s</h3>
        <p>Finished sending weekly digest emails for today at %s. Summary stats so far:</p>
        <ul>
            <li>Status: %s</li>
            <li>Current Count: %d</li>
            <li>Sent Count: %d</li>
            <li>Total Sent This Cycle So Far: %d</li>
            <li>Error Count: %d</li>
            <li>No-Email Count: %d</li>
        </ul>
    `, summary.JobName, time.Now().Format("3:04:05 PM"), summary.Status,
		c.Current, c.Sent, c.TotalSoFar, c.Errors, c.NoEmail)

	if summary.Err != nil {
		body += fmt.Sprintf("<p>Error finishing cursor: %v</p>", summary.Err)
	}
	return body
}

// digestMergeVars flattens a payload into the template variable map.
// Per-bucket display caps are applied here, not in the aggregator.
func digestMergeVars(payload *DigestPayload) map[string]interface{} {
	partAdds := payload.FollowerActivity[BucketPartAdd]
	photoAdds := payload.FollowerActivity[BucketPhotoPost]
	vehicleAdds := payload.FollowerActivity[BucketVehicleAdd]

	return map[string]interface{}{
		"user_info":       payload.UserInfo,
		"display_summary": payload.FollowCountWeek > 0 && payload.LikeCountWeek > 0,

		"user_follow_count_last_week": payload.FollowCountWeek,
		"user_follow_count_total":     payload.FollowCountTotal,
		"like_count_last_week":        payload.LikeCountWeek,
		"like_count_total":            payload.LikeCountTotal,

		"recent_posts":             payload.RecentPosts,
		"recent_photos":            payload.RecentPhotos,
		"recent_editorial_content": payload.EditorialContent,

		"follower_part_add_count":    bucketCount(partAdds),
		"follower_part_adds":         bucketActivities(partAdds, 29),
		"follower_photo_add_count":   bucketCount(photoAdds),
		"follower_photo_adds":        bucketActivities(photoAdds, 19),
		"follower_vehicle_add_count": bucketCount(vehicleAdds),
		"follower_vehicle_adds":      bucketActivities(vehicleAdds, 0),

		"my_last_post":     payload.MyLastPost,
		"my_parts_added":   payload.MyPartsAdded,
		"my_photos_added":  payload.MyPhotosAdded,
		"my_new_followers": payload.MyNewFollowers,

		"start_date": payload.StartDate,
		"end_date":   payload.EndDate,
	}
}

func bucketCount(b *Bucket) int {
	if b == nil {
		return 0
	}
	return b.Count
}

func bucketActivities(b *Bucket, limit int) []FollowerActivity {
	if b == nil {
		return []FollowerActivity{}
	}
	activities := b.Activities
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities
}
