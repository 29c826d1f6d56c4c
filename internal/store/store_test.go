package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "qbank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestAppendAndQueryAnswers(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{
		SessionID:  "s1",
		QuestionID: "django-1",
		Category:   "Django Basics",
		Tags:       []string{"django", "orm"},
		Correct:    true,
		Timestamp:  now,
	}))
	require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{
		SessionID:  "s2",
		QuestionID: "python-1",
		Category:   "Python Advanced Topics",
		Tags:       []string{"gil"},
		Correct:    false,
		Timestamp:  now.Add(time.Second),
	}))

	all, err := repo.AnswerHistory(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "django-1", all[0].QuestionID)
	assert.Equal(t, []string{"django", "orm"}, all[0].Tags)
	assert.True(t, all[0].Correct)

	mine, err := repo.SessionAnswers(ctx, "s2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "python-1", mine[0].QuestionID)
}

func TestReplaceLastAnswer(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{
		SessionID:  "s1",
		QuestionID: "django-1",
		Category:   "Django Basics",
		Tags:       []string{"django"},
		Correct:    false,
		Timestamp:  now,
	}))
	require.NoError(t, repo.ReplaceLastAnswer(ctx, AnswerEventData{
		SessionID:  "s1",
		QuestionID: "django-1",
		Category:   "Django Basics",
		Tags:       []string{"django"},
		Correct:    true,
		Timestamp:  now.Add(time.Second),
	}))

	all, err := repo.AnswerHistory(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Correct)

	// Without a prior event the replacement is stored as a new one.
	require.NoError(t, repo.ReplaceLastAnswer(ctx, AnswerEventData{
		SessionID:  "s2",
		QuestionID: "python-1",
		Category:   "Python Advanced Topics",
		Tags:       []string{"gil"},
		Correct:    false,
		Timestamp:  now.Add(2 * time.Second),
	}))
	all, err = repo.AnswerHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTagAccuracy(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()
	ctx := context.Background()

	answers := []struct {
		tags    []string
		correct bool
	}{
		{[]string{"orm"}, true},
		{[]string{"orm"}, false},
		{[]string{"gil"}, true},
	}
	for i, a := range answers {
		require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{
			SessionID:  "s1",
			QuestionID: "q",
			Category:   "C",
			Tags:       a.tags,
			Correct:    a.correct,
			Timestamp:  time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	stats, err := repo.TagAccuracy(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, stats["orm"].Accuracy, 1e-9)
	assert.Equal(t, 2, stats["orm"].Total)
	assert.InDelta(t, 1.0, stats["gil"].Accuracy, 1e-9)
}

func TestAppendSession(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()
	ctx := context.Background()

	data := SessionEventData{
		SessionID: "s1",
		Policy:    "random",
		Total:     10,
		Correct:   7,
		StartedAt: time.Now().Add(-time.Minute),
		EndedAt:   time.Now(),
	}
	require.NoError(t, repo.AppendSession(ctx, data))
	// Duplicate session ids are rejected by the unique constraint.
	require.Error(t, repo.AppendSession(ctx, data))
}

func TestSnapshotSaveLatestPrune(t *testing.T) {
	st := openTestStore(t)
	repo := st.SnapshotRepo()
	ctx := context.Background()

	latest, err := repo.LatestIndex(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for _, payload := range []string{"one", "two", "three"} {
		require.NoError(t, repo.SaveIndex(ctx, []byte(payload)))
	}

	latest, err = repo.LatestIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("three"), latest)

	require.NoError(t, repo.Prune(ctx, 1))
	var count int
	require.NoError(t, st.DB().QueryRow(`SELECT COUNT(*) FROM index_snapshots`).Scan(&count))
	assert.Equal(t, 1, count)
}
