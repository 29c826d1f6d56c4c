package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/qbank/internal/corpus"
	"github.com/abhisek/qbank/internal/logger"
	"github.com/abhisek/qbank/internal/store"
)

// mockEventRepo is a minimal in-memory EventRepo for tests.
type mockEventRepo struct {
	answers  []store.AnswerEventData
	sessions []store.SessionEventData
	tagStats map[string]store.TagStats
}

func (m *mockEventRepo) AppendAnswer(_ context.Context, d store.AnswerEventData) error {
	m.answers = append(m.answers, d)
	return nil
}
func (m *mockEventRepo) ReplaceLastAnswer(_ context.Context, d store.AnswerEventData) error {
	for i := len(m.answers) - 1; i >= 0; i-- {
		if m.answers[i].SessionID == d.SessionID && m.answers[i].QuestionID == d.QuestionID {
			m.answers[i] = d
			return nil
		}
	}
	m.answers = append(m.answers, d)
	return nil
}
func (m *mockEventRepo) AppendSession(_ context.Context, d store.SessionEventData) error {
	m.sessions = append(m.sessions, d)
	return nil
}
func (m *mockEventRepo) AnswerHistory(_ context.Context) ([]store.AnswerEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) SessionAnswers(_ context.Context, _ string) ([]store.AnswerEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) TagAccuracy(_ context.Context) (map[string]store.TagStats, error) {
	return m.tagStats, nil
}

func TestManagerEndProducesReport(t *testing.T) {
	idx := newTestIndex(t, 2, "Django Basics", "Python Advanced Topics")
	repo := &mockEventRepo{}
	m := NewManager(time.Hour, repo, logger.Nop())
	ctx := context.Background()

	s, err := m.Start(ctx, idx, Policy{Kind: PolicyRandom, Seed: 11})
	require.NoError(t, err)

	q, err := s.Current()
	require.NoError(t, err)
	for {
		res, err := m.Submit(ctx, s.ID(), q.ID, true)
		require.NoError(t, err)
		if res.Complete {
			break
		}
		q = *res.Next
	}

	report, err := m.End(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 4, report.Correct)
	assert.Equal(t, CategoryScore{Total: 2, Correct: 2}, report.ByCategory["Django Basics"])
	assert.Equal(t, CategoryScore{Total: 2, Correct: 2}, report.ByCategory["Python Advanced Topics"])

	// Events were persisted and the session is gone.
	assert.Len(t, repo.answers, 4)
	require.Len(t, repo.sessions, 1)
	assert.Equal(t, s.ID(), repo.sessions[0].SessionID)
	_, err = m.Get(s.ID())
	assert.True(t, corpus.IsNotFound(err))
}

func TestManagerResubmitSupersedesEvent(t *testing.T) {
	idx := newTestIndex(t, 3, "Django Basics")
	repo := &mockEventRepo{}
	m := NewManager(time.Hour, repo, logger.Nop())
	ctx := context.Background()

	s, err := m.Start(ctx, idx, Policy{Kind: PolicyRandom, Seed: 3})
	require.NoError(t, err)

	q, err := s.Current()
	require.NoError(t, err)
	_, err = m.Submit(ctx, s.ID(), q.ID, false)
	require.NoError(t, err)
	res, err := m.Submit(ctx, s.ID(), q.ID, true)
	require.NoError(t, err)
	assert.True(t, res.Resubmit)

	// One history entry and one persisted event, both with the final grade.
	history := s.History()
	require.Len(t, history, 1)
	assert.True(t, history[0].Correct)
	require.Len(t, repo.answers, 1)
	assert.Equal(t, q.ID, repo.answers[0].QuestionID)
	assert.True(t, repo.answers[0].Correct)
}

func TestManagerUnknownSession(t *testing.T) {
	m := newTestManager()
	_, err := m.Submit(context.Background(), "nope", "q", true)
	assert.True(t, corpus.IsNotFound(err))
	_, err = m.End(context.Background(), "nope")
	assert.True(t, corpus.IsNotFound(err))
}

func TestManagerCategoryLockedRequiresCategory(t *testing.T) {
	idx := newTestIndex(t, 2, "C")
	m := newTestManager()
	_, err := m.Start(context.Background(), idx, Policy{Kind: PolicyCategoryLocked})
	require.Error(t, err)
}

func TestManagerUnknownCategory(t *testing.T) {
	idx := newTestIndex(t, 2, "C")
	m := newTestManager()
	_, err := m.Start(context.Background(), idx, Policy{Kind: PolicyCategoryLocked, Category: "Rust"})
	assert.True(t, corpus.IsNotFound(err))
}

func TestWeaknessPolicyOrdersWeakTagsFirst(t *testing.T) {
	idx := newTestIndex(t, 2, "Strong Topic", "Weak Topic")
	repo := &mockEventRepo{tagStats: map[string]store.TagStats{
		"strong-topic": {Tag: "strong-topic", Total: 10, Correct: 9, Accuracy: 0.9},
		"weak-topic":   {Tag: "weak-topic", Total: 10, Correct: 2, Accuracy: 0.2},
	}}
	m := NewManager(time.Hour, repo, logger.Nop())

	s, err := m.Start(context.Background(), idx, Policy{Kind: PolicyWeakness})
	require.NoError(t, err)

	q, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "Weak Topic", q.Category)
}

func TestWeaknessPolicyNeutralWithoutHistory(t *testing.T) {
	idx := newTestIndex(t, 2, "B Topic", "A Topic")
	m := NewManager(time.Hour, &mockEventRepo{}, logger.Nop())

	s, err := m.Start(context.Background(), idx, Policy{Kind: PolicyWeakness})
	require.NoError(t, err)

	// No history: deterministic ascending-id order.
	q, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "a-topic-1", q.ID)
}

func TestManagerReapsIdleSessions(t *testing.T) {
	idx := newTestIndex(t, 2, "C")
	m := NewManager(time.Minute, nil, logger.Nop())

	s, err := m.Start(context.Background(), idx, Policy{Kind: PolicyRandom, Seed: 5})
	require.NoError(t, err)

	assert.Zero(t, m.ReapIdle(time.Now()))
	assert.Equal(t, 1, m.ReapIdle(time.Now().Add(2*time.Minute)))
	_, err = m.Get(s.ID())
	assert.True(t, corpus.IsNotFound(err))
}

func TestPolicyLimitCapsQueue(t *testing.T) {
	idx := newTestIndex(t, 10, "C")
	m := newTestManager()

	s, err := m.Start(context.Background(), idx, Policy{Kind: PolicyRandom, Seed: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Remaining())
}
