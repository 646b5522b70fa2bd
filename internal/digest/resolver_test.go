package digest

import (
	"testing"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func entry(actor primitive.ObjectID, ts time.Time) models.ActionEntry {
	return models.ActionEntry{
		Timestamp: ts,
		ActionID:  primitive.NewObjectID(),
		Actor:     actor,
	}
}

func TestDedupActions(t *testing.T) {
	actorA := primitive.NewObjectID()
	actorB := primitive.NewObjectID()
	actorC := primitive.NewObjectID()

	t1 := time.Now().Add(-3 * time.Hour)
	t2 := time.Now().Add(-2 * time.Hour)
	t3 := time.Now().Add(-1 * time.Hour)

	tests := []struct {
		name  string
		input []models.ActionEntry
		want  []primitive.ObjectID
	}{
		{
			name:  "no duplicates untouched",
			input: []models.ActionEntry{entry(actorA, t1), entry(actorB, t2)},
			want:  []primitive.ObjectID{actorA, actorB},
		},
		{
			name:  "earlier occurrence removed",
			input: []models.ActionEntry{entry(actorA, t1), entry(actorB, t2), entry(actorA, t3)},
			want:  []primitive.ObjectID{actorB, actorA},
		},
		{
			name:  "triple duplicate keeps only the last",
			input: []models.ActionEntry{entry(actorA, t1), entry(actorA, t2), entry(actorA, t3)},
			want:  []primitive.ObjectID{actorA},
		},
		{
			name: "interleaved duplicates",
			input: []models.ActionEntry{
				entry(actorA, t1), entry(actorB, t1), entry(actorC, t2),
				entry(actorB, t2), entry(actorA, t3),
			},
			want: []primitive.ObjectID{actorC, actorB, actorA},
		},
		{
			name:  "empty list",
			input: nil,
			want:  []primitive.ObjectID{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DedupActions(tc.input)
			require.Len(t, got, len(tc.want))
			for i, actor := range tc.want {
				assert.Equal(t, actor, got[i].Actor, "position %d", i)
			}
		})
	}
}

func TestDedupActionsKeepsLaterOccurrence(t *testing.T) {
	actorA := primitive.NewObjectID()
	actorB := primitive.NewObjectID()

	t1 := time.Unix(100, 0)
	t2 := time.Unix(200, 0)
	t3 := time.Unix(300, 0)

	got := DedupActions([]models.ActionEntry{
		entry(actorA, t1), entry(actorB, t2), entry(actorA, t3),
	})

	require.Len(t, got, 2)
	assert.Equal(t, actorB, got[0].Actor)
	assert.Equal(t, actorA, got[1].Actor)
	// The surviving A entry must be the later one.
	assert.Equal(t, t3, got[1].Timestamp)
}

func TestDedupActionsIdempotent(t *testing.T) {
	actorA := primitive.NewObjectID()
	actorB := primitive.NewObjectID()

	input := []models.ActionEntry{
		entry(actorA, time.Unix(1, 0)),
		entry(actorB, time.Unix(2, 0)),
		entry(actorA, time.Unix(3, 0)),
		entry(actorB, time.Unix(4, 0)),
	}

	once := DedupActions(input)
	twice := DedupActions(append([]models.ActionEntry(nil), once...))
	assert.Equal(t, once, twice)
}

func TestDedupActionsAtMostOnePerActor(t *testing.T) {
	actors := []primitive.ObjectID{
		primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(),
	}

	var input []models.ActionEntry
	for i := 0; i < 12; i++ {
		input = append(input, entry(actors[i%3], time.Unix(int64(i), 0)))
	}

	got := DedupActions(input)

	seen := make(map[primitive.ObjectID]int)
	for _, e := range got {
		seen[e.Actor]++
	}
	for actor, count := range seen {
		assert.Equal(t, 1, count, "actor %s appears more than once", actor.Hex())
	}
	assert.Len(t, got, 3)
}
