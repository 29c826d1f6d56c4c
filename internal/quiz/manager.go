package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/qbank/internal/corpus"
	"github.com/abhisek/qbank/internal/store"
)

// CategoryScore is one category's share of a session report.
type CategoryScore struct {
	Total   int
	Correct int
}

// Report summarizes an ended session.
type Report struct {
	SessionID  string
	Policy     PolicyKind
	Total      int
	Correct    int
	ByCategory map[string]CategoryScore
	StartedAt  time.Time
	EndedAt    time.Time
}

// Manager owns all active sessions. Different sessions proceed fully in
// parallel; writes to one session are serialized by its own lock. Idle
// sessions are reaped lazily on manager access, so the manager runs no
// background goroutines.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	idleTimeout time.Duration
	events      store.EventRepo // nil when persistence is disabled
	log         zerolog.Logger
}

// NewManager creates a session manager. events may be nil, in which
// case history is kept only in memory for the session's lifetime.
func NewManager(idleTimeout time.Duration, events store.EventRepo, log zerolog.Logger) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		events:      events,
		log:         log,
	}
}

// Start allocates a session with a queue drawn from idx per the policy.
func (m *Manager) Start(ctx context.Context, idx *corpus.Index, p Policy) (*Session, error) {
	if p.Kind == "" {
		p.Kind = PolicyRandom
	}
	if _, err := ParsePolicyKind(string(p.Kind)); err != nil {
		return nil, err
	}
	if p.Kind == PolicyCategoryLocked && p.Category == "" {
		return nil, fmt.Errorf("category-locked policy requires a category")
	}

	var tagStats map[string]store.TagStats
	if p.Kind == PolicyWeakness && m.events != nil {
		var err error
		tagStats, err = m.events.TagAccuracy(ctx)
		if err != nil {
			return nil, fmt.Errorf("load tag accuracy: %w", err)
		}
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	queue, err := buildQueue(idx, p, tagStats, rng)
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return nil, fmt.Errorf("no questions available for policy %s", p.Kind)
	}

	now := time.Now()
	s := &Session{
		id:         uuid.NewString(),
		policy:     p,
		index:      idx,
		queue:      queue,
		state:      StateCreated,
		startedAt:  now,
		lastActive: now,
	}

	m.mu.Lock()
	m.reapLocked(now)
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.log.Debug().
		Str("session_id", s.id).
		Str("policy", string(p.Kind)).
		Int("queue", len(queue)).
		Msg("session started")
	return s, nil
}

// Get returns an active session by id.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, &corpus.NotFoundError{Kind: "session", Key: sessionID}
	}
	return s, nil
}

// Submit grades an answer in the named session and records the event.
func (m *Manager) Submit(ctx context.Context, sessionID, questionID string, correct bool) (SubmitResult, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return SubmitResult{}, err
	}

	now := time.Now()
	res, err := s.Submit(questionID, correct, now)
	if err != nil {
		return SubmitResult{}, err
	}

	if m.events != nil {
		q, qerr := s.index.Get(questionID)
		if qerr == nil {
			data := store.AnswerEventData{
				SessionID:  sessionID,
				QuestionID: questionID,
				Category:   q.Category,
				Tags:       q.Tags,
				Correct:    correct,
				Timestamp:  now,
			}
			// A re-graded answer supersedes its stored event so the
			// event log stays one row per history entry.
			var aerr error
			if res.Resubmit {
				aerr = m.events.ReplaceLastAnswer(ctx, data)
			} else {
				aerr = m.events.AppendAnswer(ctx, data)
			}
			if aerr != nil {
				m.log.Warn().Err(aerr).Str("session_id", sessionID).Msg("answer event not recorded")
			}
		}
	}
	return res, nil
}

// End completes the session, persists its summary, removes it from the
// registry, and returns the report.
func (m *Manager) End(ctx context.Context, sessionID string) (Report, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return Report{}, err
	}
	s.complete()

	report := buildReport(s)

	if m.events != nil {
		if serr := m.events.AppendSession(ctx, store.SessionEventData{
			SessionID: s.id,
			Policy:    string(s.policy.Kind),
			Category:  s.policy.Category,
			Total:     report.Total,
			Correct:   report.Correct,
			StartedAt: report.StartedAt,
			EndedAt:   report.EndedAt,
		}); serr != nil {
			m.log.Warn().Err(serr).Str("session_id", sessionID).Msg("session event not recorded")
		}
	}

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	m.log.Debug().
		Str("session_id", sessionID).
		Int("total", report.Total).
		Int("correct", report.Correct).
		Msg("session ended")
	return report, nil
}

// ReapIdle removes sessions untouched for longer than the idle timeout
// and returns how many were dropped.
func (m *Manager) ReapIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reapLocked(now)
}

// Active returns the ids of all live sessions, sorted.
func (m *Manager) Active() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) reapLocked(now time.Time) int {
	if m.idleTimeout <= 0 {
		return 0
	}
	reaped := 0
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.idleTimeout {
			delete(m.sessions, id)
			reaped++
			m.log.Debug().Str("session_id", id).Msg("idle session reaped")
		}
	}
	return reaped
}

func buildReport(s *Session) Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := Report{
		SessionID:  s.id,
		Policy:     s.policy.Kind,
		Total:      len(s.history),
		ByCategory: make(map[string]CategoryScore),
		StartedAt:  s.startedAt,
		EndedAt:    time.Now(),
	}
	for _, a := range s.history {
		q, err := s.index.Get(a.QuestionID)
		if err != nil {
			continue
		}
		score := report.ByCategory[q.Category]
		score.Total++
		if a.Correct {
			score.Correct++
			report.Correct++
		}
		report.ByCategory[q.Category] = score
	}
	return report
}
