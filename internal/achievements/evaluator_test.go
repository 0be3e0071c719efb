package achievements

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/wolfpedia/internal/domain/models"
	"github.com/letsssgooo/wolfpedia/internal/persist"
	"github.com/letsssgooo/wolfpedia/internal/storage/storagetest"
)

func testDefs() []models.Achievement {
	return []models.Achievement{
		{ID: "first-steps", Title: "First Steps", RequiredScore: 10},
		{ID: "wolf-expert", Title: "Wolf Expert", RequiredScore: 50},
		{ID: "expert", Title: "Expert", RequiredScore: 100},
		{ID: "pack-legend", Title: "Pack Legend", RequiredScore: 200},
	}
}

func newEvaluator(t *testing.T, st *storagetest.RecordingStorage) *Evaluator {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(context.Background(), testDefs(), persist.NewRepository(st), log, nil)
}

func ids(items []models.Achievement) []string {
	result := make([]string, 0, len(items))
	for _, a := range items {
		result = append(result, a.ID)
	}

	return result
}

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name  string
		score int
		want  []string
	}{
		{name: "zero score", score: 0, want: []string{}},
		{name: "below first", score: 9, want: []string{}},
		{name: "exact threshold", score: 10, want: []string{"first-steps"}},
		{name: "between thresholds", score: 60, want: []string{"first-steps", "wolf-expert"}},
		{name: "everything", score: 500, want: []string{"first-steps", "wolf-expert", "expert", "pack-legend"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := storagetest.NewRecordingStorage()
			e := newEvaluator(t, st)

			got := e.Evaluate(context.Background(), tc.score)
			assert.Equal(t, tc.want, ids(got))
			assert.Equal(t, tc.want, ids(e.Unlocked()))

			writes := 0
			if len(tc.want) > 0 {
				writes = 1
			}
			assert.Equal(t, writes, st.Writes(persist.KeyAchievements))
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	ctx := context.Background()
	st := storagetest.NewRecordingStorage()
	e := newEvaluator(t, st)

	require.Len(t, e.Evaluate(ctx, 50), 2)
	assert.Empty(t, e.Evaluate(ctx, 50))
	assert.Equal(t, 1, st.Writes(persist.KeyAchievements))
}

func TestEvaluate_Monotonic(t *testing.T) {
	ctx := context.Background()
	e := newEvaluator(t, storagetest.NewRecordingStorage())

	e.Evaluate(ctx, 100)
	// счет после сброса квиза меньше, но открытое остается открытым
	assert.Empty(t, e.Evaluate(ctx, 0))
	assert.Equal(t, []string{"first-steps", "wolf-expert", "expert"}, ids(e.Unlocked()))
	assert.Equal(t, []string{"pack-legend"}, ids(e.Locked()))
}

func TestEvaluate_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	st := storagetest.NewRecordingStorage()

	newEvaluator(t, st).Evaluate(ctx, 10)

	restored := newEvaluator(t, st)
	assert.Equal(t, []string{"first-steps"}, ids(restored.Unlocked()))
}

func TestEvaluate_FailedWriteKeepsMemoryState(t *testing.T) {
	st := storagetest.NewFailingStorage()
	e := newEvaluator(t, st)

	got := e.Evaluate(context.Background(), 10)
	assert.Equal(t, []string{"first-steps"}, ids(got))
	assert.Equal(t, []string{"first-steps"}, ids(e.Unlocked()))
	assert.Equal(t, 1, st.Writes(persist.KeyAchievements))
}

func TestNew_ReconcilesWithDefinitions(t *testing.T) {
	ctx := context.Background()
	st := storagetest.NewRecordingStorage()

	stale, err := json.Marshal(persist.AchievementsRecord{
		Version: 1,
		Items: []persist.AchievementState{
			{ID: "wolf-expert", Unlocked: true},
			{ID: "removed-badge", Unlocked: true},
			{ID: "expert", Unlocked: false},
		},
	})
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, persist.KeyAchievements, stale))

	e := newEvaluator(t, st)

	all := e.All()
	require.Len(t, all, 4)
	assert.Equal(t, []string{"first-steps", "wolf-expert", "expert", "pack-legend"}, ids(all))
	assert.Equal(t, "Wolf Expert", all[1].Title)
	assert.Equal(t, 50, all[1].RequiredScore)
	assert.Equal(t, []string{"wolf-expert"}, ids(e.Unlocked()))
}

func TestNew_LegacyArray(t *testing.T) {
	ctx := context.Background()
	st := storagetest.NewRecordingStorage()
	legacy := `[{"id":"first-steps","title":"Old title","requiredScore":5,"isUnlocked":true}]`
	require.NoError(t, st.Set(ctx, persist.KeyAchievements, []byte(legacy)))

	e := newEvaluator(t, st)
	unlocked := e.Unlocked()
	require.Len(t, unlocked, 1)
	assert.Equal(t, "First Steps", unlocked[0].Title)
	assert.Equal(t, 10, unlocked[0].RequiredScore)
}

func TestNew_CorruptStartsLocked(t *testing.T) {
	ctx := context.Background()
	st := storagetest.NewRecordingStorage()
	require.NoError(t, st.Set(ctx, persist.KeyAchievements, []byte("not json")))

	e := newEvaluator(t, st)
	assert.Empty(t, e.Unlocked())
	assert.Len(t, e.Locked(), 4)
}

func TestProgressAndNext(t *testing.T) {
	ctx := context.Background()
	e := newEvaluator(t, storagetest.NewRecordingStorage())

	assert.InDelta(t, 0.0, e.Progress(), 1e-9)
	next, ok := e.Next()
	require.True(t, ok)
	assert.Equal(t, "first-steps", next.ID)

	e.Evaluate(ctx, 60)
	assert.InDelta(t, 0.5, e.Progress(), 1e-9)
	next, ok = e.Next()
	require.True(t, ok)
	assert.Equal(t, "expert", next.ID)

	e.Evaluate(ctx, 200)
	assert.InDelta(t, 1.0, e.Progress(), 1e-9)
	_, ok = e.Next()
	assert.False(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	e := newEvaluator(t, storagetest.NewRecordingStorage())

	all := e.All()
	all[0].IsUnlocked = true

	assert.Empty(t, e.Unlocked())
}
