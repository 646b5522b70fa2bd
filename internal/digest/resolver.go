package digest

import (
	"context"
	"errors"
	"fmt"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NotificationResolver loads notifications for a query, deduplicates their
// actor history, resolves the polymorphic target and action object, and
// hands the result to the content generator. Records whose references no
// longer resolve are stale and silently dropped; one bad record never
// aborts the batch.
type NotificationResolver struct {
	notifications repositories.NotificationRepository
	entities      repositories.EntityRepository
	generator     *Generator
	log           *zap.Logger
}

func NewNotificationResolver(
	notifications repositories.NotificationRepository,
	entities repositories.EntityRepository,
	generator *Generator,
	log *zap.Logger,
) *NotificationResolver {
	return &NotificationResolver{
		notifications: notifications,
		entities:      entities,
		generator:     generator,
		log:           log,
	}
}

// Resolve fetches up to limit notifications matching filter and renders
// each one. Limit 0 uses the repository default.
func (r *NotificationResolver) Resolve(ctx context.Context, filter bson.M, limit int64) ([]RenderedNotification, error) {
	notifications, err := r.notifications.Find(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}

	rendered := make([]RenderedNotification, 0, len(notifications))
	for i := range notifications {
		notifications[i].Actions = DedupActions(notifications[i].Actions)

		resolved, ok := r.resolveOne(ctx, &notifications[i])
		if !ok {
			continue
		}
		if rn := r.generator.Render(resolved); rn != nil {
			rendered = append(rendered, *rn)
		}
	}
	return rendered, nil
}

// DedupActions removes repeated actors, keeping the later occurrence.
// Scans from the end backward; on a match the earlier entry is removed and
// the scan restarts from the shifted index. Quadratic over a short list.
func DedupActions(actions []models.ActionEntry) []models.ActionEntry {
	for i := len(actions) - 1; i >= 1; i-- {
		for j := i - 1; j >= 0; j-- {
			if actions[i].Actor == actions[j].Actor {
				actions = append(actions[:j], actions[j+1:]...)
				break
			}
		}
	}
	return actions
}

// resolveOne joins one notification with its owner, leading actors, target
// and action object. Returns false when the record is stale.
func (r *NotificationResolver) resolveOne(ctx context.Context, n *models.Notification) (*ResolvedNotification, bool) {
	if n.TargetType == "" || len(n.Actions) == 0 {
		return nil, false
	}

	owner, ok := r.lookupUser(ctx, n, "owner", n.Owner)
	if !ok {
		return nil, false
	}

	target, err := r.entities.FindByID(ctx, n.TargetType, n.TargetID)
	if err != nil {
		r.dropLog(n, "target", err)
		return nil, false
	}

	// The action object belongs to the most recent entry, resolved before
	// any actor filtering below.
	latest := n.LatestAction()
	actionObject, err := r.entities.FindByID(ctx, n.ActionType, latest.ActionID)
	if err != nil {
		r.dropLog(n, "action_object", err)
		return nil, false
	}

	// Only the first two actors show up in rendered text. An entry whose
	// actor no longer resolves is filtered, not fatal; the notification
	// survives as long as one actor remains.
	var (
		kept   []models.ActionEntry
		actors []*models.User
	)
	for i, entry := range n.Actions {
		if i < 2 {
			actor, ok := r.lookupUser(ctx, n, "actor", entry.Actor)
			if !ok {
				continue
			}
			kept = append(kept, entry)
			actors = append(actors, actor)
			continue
		}
		kept = append(kept, entry)
		actors = append(actors, nil)
	}
	if len(kept) == 0 {
		return nil, false
	}
	n.Actions = kept

	return &ResolvedNotification{
		Notification: *n,
		Owner:        owner,
		Actors:       actors,
		Target:       target,
		ActionObject: actionObject,
	}, true
}

func (r *NotificationResolver) lookupUser(ctx context.Context, n *models.Notification, role string, id primitive.ObjectID) (*models.User, bool) {
	if id.IsZero() {
		return nil, false
	}
	entity, err := r.entities.FindByID(ctx, models.TypeUser, id)
	if err != nil {
		r.dropLog(n, role, err)
		return nil, false
	}
	return entity.User, entity.User != nil
}

// dropLog records why a notification was skipped. Missing references are
// expected staleness and logged at debug, anything else at warn.
func (r *NotificationResolver) dropLog(n *models.Notification, field string, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		r.log.Debug("dropping stale notification",
			zap.String("notification_id", n.ID.Hex()),
			zap.String("field", field))
		return
	}
	r.log.Warn("dropping unresolvable notification",
		zap.String("notification_id", n.ID.Hex()),
		zap.String("field", field),
		zap.Error(err))
}
