package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "planwire.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestProblemRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := ProblemRecord{
		SessionID:      uuid.NewString(),
		Name:           "rooms",
		Source:         "rooms.json",
		Objects:        2,
		Fluents:        2,
		Actions:        1,
		Goals:          1,
		DroppedEffects: 1,
		DecodedAt:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.SaveProblem(ctx, rec))

	got, err := s.ProblemByName(ctx, "rooms")
	require.NoError(t, err)
	assert.Equal(t, rec.SessionID, got.SessionID)
	assert.Equal(t, rec.Source, got.Source)
	assert.Equal(t, rec.Objects, got.Objects)
	assert.Equal(t, rec.DroppedEffects, got.DroppedEffects)
	assert.True(t, rec.DecodedAt.Equal(got.DecodedAt), "DecodedAt = %v, want %v", got.DecodedAt, rec.DecodedAt)
}

func TestProblemByNameMostRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, dropped := range []int{3, 0} {
		require.NoError(t, s.SaveProblem(ctx, ProblemRecord{
			SessionID:      uuid.NewString(),
			Name:           "rooms",
			DroppedEffects: dropped,
			DecodedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.ProblemByName(ctx, "rooms")
	require.NoError(t, err)
	assert.Equal(t, 0, got.DroppedEffects, "most recent record wins")

	_, err = s.ProblemByName(ctx, "ghost")
	assert.Error(t, err)
}

func TestProblemsOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, name := range []string{"first", "second", "third"} {
		require.NoError(t, s.SaveProblem(ctx, ProblemRecord{
			SessionID: uuid.NewString(),
			Name:      name,
			DecodedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recs, err := s.Problems(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "third", recs[0].Name)
	assert.Equal(t, "first", recs[2].Name)
}

func TestPlanRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := PlanRecord{
		SessionID: uuid.NewString(),
		Problem:   "rooms",
		Steps:     2,
		DecodedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.SavePlan(ctx, rec))

	plans, err := s.Plans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, rec.Problem, plans[0].Problem)
	assert.Equal(t, rec.Steps, plans[0].Steps)
}
