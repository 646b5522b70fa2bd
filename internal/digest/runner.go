package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/gearworks/motorhub/backend/pkg/config"
	"github.com/gearworks/motorhub/backend/pkg/mailer"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// JobName identifies the weekly digest in logs and summary mail.
	JobName = "motorhub-weekly-digest"

	digestTemplateSlug = "weekly-digest-email-1"
)

// Run states.
const (
	StatusIdle      = "IDLE"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// DigestBuilder is the per-user pipeline the runner drives.
type DigestBuilder interface {
	BuildDigest(ctx context.Context, userID primitive.ObjectID, windowStart, windowEnd time.Time, cache *RunCache) (*DigestPayload, error)
}

// Counters accumulate per-run outcomes. Threaded through the run
// explicitly so final counts are verifiable in isolation.
type Counters struct {
	Current    int
	Sent       int
	Errors     int
	NoEmail    int
	TotalSoFar int
}

// RunSummary is the outcome of one scheduled run.
type RunSummary struct {
	JobName    string
	Status     string
	Counters   Counters
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// partition is one day's slice of the eligible population.
type partition struct {
	skip  int64
	limit int64 // 0 means unbounded, the final slice takes the remainder
	final bool
}

// dayPartitions splits the population across the three scheduled days.
// Summed, the slices cover the whole population with no overlap or gap.
var dayPartitions = map[time.Weekday]partition{
	time.Monday:    {skip: 0, limit: 25000},
	time.Tuesday:   {skip: 25000, limit: 25000},
	time.Wednesday: {skip: 50000, limit: 0, final: true},
}

// BatchRunner walks the eligible-user cursor for one scheduled day,
// building and mailing one digest per user. Per-user failures become
// counters; only a cursor failure fails the run, and even that produces a
// summary instead of crashing the process.
type BatchRunner struct {
	users   repositories.UserRepository
	builder DigestBuilder
	mail    mailer.Mailer
	cfg     *config.Config
	cache   *RunCache
	log     *zap.Logger
}

func NewBatchRunner(
	users repositories.UserRepository,
	builder DigestBuilder,
	mail mailer.Mailer,
	cfg *config.Config,
	log *zap.Logger,
) *BatchRunner {
	return &BatchRunner{
		users:   users,
		builder: builder,
		mail:    mail,
		cfg:     cfg,
		cache:   NewRunCache(),
		log:     log,
	}
}

// Run executes one scheduled tick. Triggered on a non-scheduled day it
// logs and returns an idle summary without touching the cursor.
func (r *BatchRunner) Run(ctx context.Context, now time.Time) *RunSummary {
	summary := &RunSummary{JobName: JobName, Status: StatusRunning, StartedAt: now}

	part, ok := dayPartitions[now.Weekday()]
	if !ok {
		r.log.Error("digest run triggered on unscheduled day",
			zap.String("job", JobName),
			zap.String("weekday", now.Weekday().String()))
		summary.Status = StatusIdle
		summary.FinishedAt = time.Now()
		return summary
	}

	windowStart, windowEnd := digestWindow(now)
	summary.Counters.TotalSoFar = int(part.skip)

	r.log.Info("starting digest run",
		zap.String("job", JobName),
		zap.Int64("skip", part.skip),
		zap.Int64("limit", part.limit),
		zap.Time("window_start", windowStart),
		zap.Time("window_end", windowEnd))

	cursor, err := r.users.DigestEligibleUsers(ctx, part.skip, part.limit)
	if err != nil {
		summary.Status = StatusFailed
		summary.Err = fmt.Errorf("opening user cursor: %w", err)
		r.finish(ctx, summary, part.final)
		return summary
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			summary.Status = StatusFailed
			summary.Err = fmt.Errorf("decoding user: %w", err)
			r.finish(ctx, summary, part.final)
			return summary
		}

		summary.Counters.Current++
		if summary.Counters.Current%50 == 0 {
			r.log.Debug("digest progress",
				zap.Int("current", summary.Counters.Current),
				zap.String("user_id", user.ID.Hex()),
				zap.String("name", user.DisplayName()))
		}

		r.processUser(ctx, &user, windowStart, windowEnd, &summary.Counters)
	}

	if err := cursor.Err(); err != nil {
		summary.Status = StatusFailed
		summary.Err = fmt.Errorf("iterating user cursor: %w", err)
		r.finish(ctx, summary, part.final)
		return summary
	}

	summary.Status = StatusCompleted
	r.finish(ctx, summary, part.final)
	return summary
}

// processUser builds and sends one digest. Every failure path lands in a
// counter; nothing escapes to abort the cursor.
func (r *BatchRunner) processUser(ctx context.Context, user *models.User, windowStart, windowEnd time.Time, c *Counters) {
	payload, err := r.builder.BuildDigest(ctx, user.ID, windowStart, windowEnd, r.cache)
	if err != nil {
		c.Errors++
		r.log.Warn("digest build failed",
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
		return
	}

	if payload.UserInfo == nil || payload.UserInfo.Email == "" {
		c.NoEmail++
		c.Errors++
		return
	}

	result := r.mail.SendTemplate(ctx, mailer.TemplateMessage{
		Template: digestTemplateSlug,
		To:       payload.UserInfo.Email,
		ToName:   payload.UserInfo.Name,
		Vars:     digestMergeVars(payload),
		Tags:     []string{"Weekly-Digest"},
	})
	if result.Failed() {
		c.Errors++
		r.log.Warn("digest send failed",
			zap.String("user_id", user.ID.Hex()),
			zap.String("email", result.Email),
			zap.String("message", result.Message))
		return
	}

	c.Sent++
	c.TotalSoFar++
}

// finish emits the summary mail and clears the run cache on the final day
// of the cycle. Summary mail failures are logged, never retried.
func (r *BatchRunner) finish(ctx context.Context, summary *RunSummary, finalDay bool) {
	summary.FinishedAt = time.Now()

	c := summary.Counters
	r.log.Info("digest run finished",
		zap.String("job", JobName),
		zap.String("status", summary.Status),
		zap.Int("current", c.Current),
		zap.Int("sent", c.Sent),
		zap.Int("errors", c.Errors),
		zap.Int("no_email", c.NoEmail),
		zap.Error(summary.Err))

	subject := fmt.Sprintf("%s - Weekly Digest Update <%s - %s>",
		time.Now().Format(dateLayout), JobName, r.cfg.Env)
	body := summaryHTML(summary)

	if err := r.mail.SendSummary(ctx, r.cfg.SummaryRecipients(), subject, body); err != nil {
		r.log.Error("sending run summary mail failed",
			zap.String("job", JobName),
			zap.Error(err))
	}

	if finalDay {
		r.cache.Clear()
	}
}

// digestWindow computes the reported activity week: the Monday-anchored
// seven days before the current cycle started.
func digestWindow(now time.Time) (time.Time, time.Time) {
	offset := int(now.Weekday()) + 6
	start := now.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	return start, end
}
