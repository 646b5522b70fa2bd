package digest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/gearworks/motorhub/backend/pkg/config"
	"github.com/gearworks/motorhub/backend/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// monday and thursday anchor the scheduled and unscheduled cases.
var (
	monday    = time.Date(2026, time.August, 24, 5, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, time.August, 26, 5, 0, 0, 0, time.UTC)
	thursday  = time.Date(2026, time.August, 27, 5, 0, 0, 0, time.UTC)
)

type fakeCursor struct {
	users []models.User
	idx   int
	err   error
}

func (c *fakeCursor) Next(ctx context.Context) bool {
	if c.idx >= len(c.users) {
		return false
	}
	c.idx++
	return true
}

func (c *fakeCursor) Decode(val interface{}) error {
	*(val.(*models.User)) = c.users[c.idx-1]
	return nil
}

func (c *fakeCursor) Err() error { return c.err }

func (c *fakeCursor) Close(ctx context.Context) error { return nil }

type stubUserRepo struct {
	repositories.UserRepository
	cursor repositories.UserCursor
	err    error
}

func (s *stubUserRepo) DigestEligibleUsers(ctx context.Context, skip, limit int64) (repositories.UserCursor, error) {
	return s.cursor, s.err
}

type fakeBuilder struct {
	build func(userID primitive.ObjectID) (*DigestPayload, error)
}

func (b *fakeBuilder) BuildDigest(ctx context.Context, userID primitive.ObjectID, windowStart, windowEnd time.Time, cache *RunCache) (*DigestPayload, error) {
	return b.build(userID)
}

type fakeMailer struct {
	mu        sync.Mutex
	sent      []mailer.TemplateMessage
	failFor   map[string]bool
	summaries []string
}

func (m *fakeMailer) SendTemplate(ctx context.Context, msg mailer.TemplateMessage) mailer.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[msg.To] {
		return mailer.Result{Key: mailer.ResultError, Code: 500, Email: msg.To}
	}
	m.sent = append(m.sent, msg)
	return mailer.Result{Key: mailer.ResultSent, Code: 200, Email: msg.To}
}

func (m *fakeMailer) SendSummary(ctx context.Context, to []string, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, htmlBody)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{Env: "test", SummaryRecipientsDev: "dev@motorhub.test"}
}

func digestUsers(n int) []models.User {
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{ID: primitive.NewObjectID(), FirstName: "User", LastName: "Test"}
	}
	return users
}

func payloadWithEmail(email string) *DigestPayload {
	return &DigestPayload{
		UserInfo:         &UserProfile{Name: "User Test", Email: email},
		FollowerActivity: make(ActivitySummary),
	}
}

func TestDayPartitionsExact(t *testing.T) {
	mon := dayPartitions[time.Monday]
	tue := dayPartitions[time.Tuesday]
	wed := dayPartitions[time.Wednesday]

	// Consecutive slices: no gap, no overlap, remainder on the last day.
	assert.Equal(t, int64(0), mon.skip)
	assert.Equal(t, mon.skip+mon.limit, tue.skip)
	assert.Equal(t, tue.skip+tue.limit, wed.skip)
	assert.Equal(t, int64(0), wed.limit)

	assert.False(t, mon.final)
	assert.False(t, tue.final)
	assert.True(t, wed.final)

	_, thu := dayPartitions[time.Thursday]
	assert.False(t, thu)
}

func TestRunIsolatesPerUserFailures(t *testing.T) {
	users := digestUsers(5)
	failing := users[2]

	builder := &fakeBuilder{build: func(userID primitive.ObjectID) (*DigestPayload, error) {
		return payloadWithEmail(userID.Hex() + "@motorhub.test"), nil
	}}
	mail := &fakeMailer{failFor: map[string]bool{failing.ID.Hex() + "@motorhub.test": true}}

	runner := NewBatchRunner(
		&stubUserRepo{cursor: &fakeCursor{users: users}},
		builder, mail, testConfig(), zap.NewNop(),
	)

	summary := runner.Run(context.Background(), monday)

	assert.Equal(t, StatusCompleted, summary.Status)
	assert.Equal(t, 5, summary.Counters.Current)
	assert.Equal(t, 5, summary.Counters.Sent+summary.Counters.Errors)
	assert.Equal(t, 4, summary.Counters.Sent)
	assert.Equal(t, 1, summary.Counters.Errors)
	assert.Len(t, mail.sent, 4)
	require.Len(t, mail.summaries, 1)
}

func TestRunCountsNoEmailAsError(t *testing.T) {
	users := digestUsers(3)
	noEmail := users[1].ID

	builder := &fakeBuilder{build: func(userID primitive.ObjectID) (*DigestPayload, error) {
		if userID == noEmail {
			return payloadWithEmail(""), nil
		}
		return payloadWithEmail(userID.Hex() + "@motorhub.test"), nil
	}}
	mail := &fakeMailer{}

	runner := NewBatchRunner(
		&stubUserRepo{cursor: &fakeCursor{users: users}},
		builder, mail, testConfig(), zap.NewNop(),
	)

	summary := runner.Run(context.Background(), monday)

	assert.Equal(t, StatusCompleted, summary.Status)
	assert.Equal(t, 2, summary.Counters.Sent)
	assert.Equal(t, 1, summary.Counters.Errors)
	assert.Equal(t, 1, summary.Counters.NoEmail)
}

func TestRunBuildFailureNeverAbortsCursor(t *testing.T) {
	users := digestUsers(4)
	broken := users[0].ID

	builder := &fakeBuilder{build: func(userID primitive.ObjectID) (*DigestPayload, error) {
		if userID == broken {
			return nil, errors.New("malformed user data")
		}
		return payloadWithEmail(userID.Hex() + "@motorhub.test"), nil
	}}
	mail := &fakeMailer{}

	runner := NewBatchRunner(
		&stubUserRepo{cursor: &fakeCursor{users: users}},
		builder, mail, testConfig(), zap.NewNop(),
	)

	summary := runner.Run(context.Background(), monday)

	assert.Equal(t, StatusCompleted, summary.Status)
	assert.Equal(t, 4, summary.Counters.Current)
	assert.Equal(t, 3, summary.Counters.Sent)
	assert.Equal(t, 1, summary.Counters.Errors)
}

func TestRunUnscheduledDayIsNoOp(t *testing.T) {
	mail := &fakeMailer{}
	runner := NewBatchRunner(
		&stubUserRepo{err: errors.New("cursor must not be opened")},
		&fakeBuilder{}, mail, testConfig(), zap.NewNop(),
	)

	summary := runner.Run(context.Background(), thursday)

	assert.Equal(t, StatusIdle, summary.Status)
	assert.Zero(t, summary.Counters.Current)
	assert.Empty(t, mail.summaries)
}

func TestRunCursorFailureEmitsFailedSummary(t *testing.T) {
	users := digestUsers(2)
	cursorErr := errors.New("connection reset")

	builder := &fakeBuilder{build: func(userID primitive.ObjectID) (*DigestPayload, error) {
		return payloadWithEmail(userID.Hex() + "@motorhub.test"), nil
	}}
	mail := &fakeMailer{}

	runner := NewBatchRunner(
		&stubUserRepo{cursor: &fakeCursor{users: users, err: cursorErr}},
		builder, mail, testConfig(), zap.NewNop(),
	)

	summary := runner.Run(context.Background(), wednesday)

	assert.Equal(t, StatusFailed, summary.Status)
	require.Error(t, summary.Err)
	// Users processed before the failure keep their counts.
	assert.Equal(t, 2, summary.Counters.Sent)
	require.Len(t, mail.summaries, 1)
	assert.Contains(t, mail.summaries[0], "connection reset")
}

func TestRunTotalSoFarSeededFromSkip(t *testing.T) {
	users := digestUsers(2)
	builder := &fakeBuilder{build: func(userID primitive.ObjectID) (*DigestPayload, error) {
		return payloadWithEmail(userID.Hex() + "@motorhub.test"), nil
	}}
	mail := &fakeMailer{}

	runner := NewBatchRunner(
		&stubUserRepo{cursor: &fakeCursor{users: users}},
		builder, mail, testConfig(), zap.NewNop(),
	)

	summary := runner.Run(context.Background(), wednesday)

	assert.Equal(t, 50000+2, summary.Counters.TotalSoFar)
}
