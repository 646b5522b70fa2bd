package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pipeline assembles one user's digest payload: a concurrent fan-out of
// independent stat queries joined with the resolved notification summary.
// Site-wide lists (recent posts, recent photos, editorial content) come
// from the run cache after first computation.
type Pipeline struct {
	users       repositories.UserRepository
	vehicles    repositories.VehicleRepository
	parts       repositories.PartRepository
	images      repositories.ImageRepository
	posts       repositories.PostRepository
	connections repositories.ConnectionRepository

	resolver   *NotificationResolver
	aggregator *Aggregator

	baseURL string
	log     *zap.Logger
}

func NewPipeline(
	users repositories.UserRepository,
	vehicles repositories.VehicleRepository,
	parts repositories.PartRepository,
	images repositories.ImageRepository,
	posts repositories.PostRepository,
	connections repositories.ConnectionRepository,
	resolver *NotificationResolver,
	aggregator *Aggregator,
	baseURL string,
	log *zap.Logger,
) *Pipeline {
	return &Pipeline{
		users:       users,
		vehicles:    vehicles,
		parts:       parts,
		images:      images,
		posts:       posts,
		connections: connections,
		resolver:    resolver,
		aggregator:  aggregator,
		baseURL:     baseURL,
		log:         log,
	}
}

// digestActions are the notification verbs summarized for followers.
var digestActions = []string{
	models.ActionWallPost,
	models.ActionVehiclePost,
	models.ActionPhotoPost,
	models.ActionVehicleAdd,
	models.ActionPartAdd,
}

// BuildDigest builds the payload for one user over the given window. A
// branch with no data yields its zero default; a query failure fails the
// whole build and is counted by the caller.
func (p *Pipeline) BuildDigest(ctx context.Context, userID primitive.ObjectID, windowStart, windowEnd time.Time, cache *RunCache) (*DigestPayload, error) {
	// Owned-object ids feed the stat queries below.
	var (
		vehicleIDs  []primitive.ObjectID
		postIDs     []primitive.ObjectID
		followedIDs []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vehicleIDs, err = p.vehicles.OwnedVehicleIDs(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		postIDs, err = p.posts.OwnedPostIDs(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		followedIDs, err = p.connections.ReceiverIDsByRequestor(models.ConnectionFollow, userID.Hex(), string(models.TypeVehicle))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading owned ids for %s: %w", userID.Hex(), err)
	}

	p.log.Debug("digest fan-out",
		zap.String("user_id", userID.Hex()),
		zap.Int("vehicles", len(vehicleIDs)),
		zap.Int("posts", len(postIDs)),
		zap.Int("followed_vehicles", len(followedIDs)))

	followTargets := append(hexIDs(vehicleIDs), userID.Hex())
	vehicleHexIDs := hexIDs(vehicleIDs)
	postHexIDs := hexIDs(postIDs)

	payload := &DigestPayload{
		StartDate: windowStart.Format(dateLayout),
		EndDate:   windowEnd.Format(dateLayout),
	}

	var (
		vehicleLikeWeek, vehicleLikeTotal int64
		postLikeWeek, postLikeTotal       int64
		userInfo                          *models.User
		recentPosts                       []PostPreview
	)

	g, gctx = errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		payload.FollowCountWeek, err = p.connections.CountByReceivers(models.ConnectionFollow, followTargets, windowStart)
		return err
	})
	g.Go(func() error {
		var err error
		vehicleLikeWeek, err = p.connections.CountByReceivers(models.ConnectionLike, vehicleHexIDs, windowStart)
		return err
	})
	g.Go(func() error {
		var err error
		vehicleLikeTotal, err = p.connections.CountByReceivers(models.ConnectionLike, vehicleHexIDs, time.Time{})
		return err
	})
	g.Go(func() error {
		var err error
		postLikeWeek, err = p.connections.CountByReceivers(models.ConnectionLike, postHexIDs, windowStart)
		return err
	})
	g.Go(func() error {
		var err error
		postLikeTotal, err = p.connections.CountByReceivers(models.ConnectionLike, postHexIDs, time.Time{})
		return err
	})

	g.Go(func() error {
		v, err := cache.GetOrPopulate(CacheRecentPosts, func() (interface{}, error) {
			return p.loadRecentPosts(gctx)
		})
		if err != nil {
			return err
		}
		recentPosts = v.([]PostPreview)
		return nil
	})

	g.Go(func() error {
		filter := bson.M{
			"owner":               userID,
			"action":              bson.M{"$in": digestActions},
			"actions.0.timestamp": bson.M{"$gte": windowStart},
		}
		rendered, err := p.resolver.Resolve(gctx, filter, 0)
		if err != nil {
			return err
		}
		payload.FollowerActivity = p.aggregator.Aggregate(rendered)
		return nil
	})

	g.Go(func() error {
		posts, err := p.posts.LatestByOwner(gctx, userID, 1)
		if err != nil {
			return err
		}
		payload.MyLastPost = NormalizePosts(posts, p.baseURL)
		return nil
	})

	g.Go(func() error {
		parts, err := p.parts.PartsByOwnerSince(gctx, userID, windowStart, 10)
		if err != nil {
			return err
		}
		payload.MyPartsAdded = NormalizeParts(parts)
		return nil
	})

	g.Go(func() error {
		images, err := p.images.ImagesByOwnerSince(gctx, userID, windowStart)
		if err != nil {
			return err
		}
		payload.MyPhotosAdded = NormalizePhotos(images, p.baseURL)
		return nil
	})

	g.Go(func() error {
		var err error
		payload.MyNewFollowers, err = p.loadNewFollowers(gctx, followTargets, windowStart)
		return err
	})

	g.Go(func() error {
		var err error
		userInfo, err = p.users.GetUserByID(gctx, userID)
		return err
	})

	g.Go(func() error {
		v, err := cache.GetOrPopulate(CacheRecentPhotos, func() (interface{}, error) {
			images, err := p.images.RecentVehicleImages(gctx, windowStart, 20)
			if err != nil {
				return nil, err
			}
			return NormalizePhotos(images, p.baseURL), nil
		})
		if err != nil {
			return err
		}
		payload.RecentPhotos = v.([]PhotoPreview)
		return nil
	})

	g.Go(func() error {
		v, err := cache.GetOrPopulate(CacheEditorialContent, func() (interface{}, error) {
			posts, err := p.posts.EditorialPosts(gctx, windowStart)
			if err != nil {
				return nil, err
			}
			return NormalizePosts(posts, p.baseURL), nil
		})
		if err != nil {
			return err
		}
		payload.EditorialContent = v.([]PostPreview)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building digest for %s: %w", userID.Hex(), err)
	}

	payload.UserInfo = NormalizeUser(userInfo, p.baseURL)
	if userInfo != nil {
		payload.FollowCountTotal = int64(userInfo.FollowerCount)
	}
	payload.LikeCountWeek = vehicleLikeWeek + postLikeWeek
	payload.LikeCountTotal = vehicleLikeTotal + postLikeTotal

	// The user's own followed-network posts lead the recent list when
	// present, deduplicated by title against the site-wide set.
	if bucket := payload.FollowerActivity[BucketPost]; bucket != nil && len(bucket.Posts) > 0 {
		lead := bucket.Posts
		if len(lead) > 8 {
			lead = lead[:8]
		}
		payload.RecentPosts = ConsolidatePosts(lead, recentPosts)
	} else {
		payload.RecentPosts = recentPosts
	}

	if payload.FollowerActivity == nil {
		payload.FollowerActivity = make(ActivitySummary)
	}

	return payload, nil
}

// loadRecentPosts fetches the newest site-wide posts, putting up to five
// syndicated posts ahead of the rest.
func (p *Pipeline) loadRecentPosts(ctx context.Context) ([]PostPreview, error) {
	posts, err := p.posts.RecentPosts(ctx, 40)
	if err != nil {
		return nil, err
	}

	var syndicated, regular []models.Post
	for _, post := range posts {
		if post.InstagramID != "" {
			syndicated = append(syndicated, post)
		} else {
			regular = append(regular, post)
		}
	}
	if len(syndicated) > 5 {
		syndicated = syndicated[:5]
	}
	return NormalizePosts(append(syndicated, regular...), p.baseURL), nil
}

// loadNewFollowers resolves this week's follower edges to profiles,
// deduplicated by profile name, capped at 19 for display.
func (p *Pipeline) loadNewFollowers(ctx context.Context, receivers []string, since time.Time) ([]UserProfile, error) {
	edges, err := p.connections.FindByReceivers(models.ConnectionFollow, receivers, since)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	followers := make([]UserProfile, 0, len(edges))
	for _, edge := range edges {
		requestorID, err := primitive.ObjectIDFromHex(edge.RequestorID)
		if err != nil {
			continue
		}
		user, err := p.users.GetUserByID(ctx, requestorID)
		if err != nil {
			// A vanished follower is staleness, not a pipeline failure.
			continue
		}
		if seen[user.ProfileName] {
			continue
		}
		seen[user.ProfileName] = true
		followers = append(followers, *NormalizeUser(user, p.baseURL))

		if len(followers) == 19 {
			break
		}
	}
	return followers, nil
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
