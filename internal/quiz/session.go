package quiz

import (
	"sync"
	"time"

	"github.com/abhisek/qbank/internal/corpus"
	"github.com/abhisek/qbank/internal/extract"
)

// State is the lifecycle state of a session.
type State int

const (
	// StateCreated means the queue is allocated but nothing has been
	// submitted yet.
	StateCreated State = iota

	// StateInProgress means at least one answer has been recorded.
	StateInProgress

	// StateCompleted is terminal; all further submissions fail.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInProgress:
		return "in-progress"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Answer is one graded entry in a session's history.
type Answer struct {
	QuestionID string
	Correct    bool
	Timestamp  time.Time
}

// SubmitResult is the outcome of a successful submission.
type SubmitResult struct {
	// Next is the question now at the head of the queue, nil when the
	// session just completed.
	Next *extract.Question

	// Complete is true when the queue is exhausted.
	Complete bool

	// Resubmit is true when the call re-graded the most recently
	// answered question instead of advancing the queue.
	Resubmit bool
}

// Session is one quiz run over a fixed question queue. It pins the
// index snapshot it was created against, so a corpus reload mid-session
// never changes the questions in flight. A session is owned by the
// caller that created it; the manager serializes all access through the
// session mutex.
type Session struct {
	mu sync.Mutex

	id         string
	policy     Policy
	index      *corpus.Index
	queue      []string
	cursor     int
	history    []Answer
	state      State
	startedAt  time.Time
	lastActive time.Time
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Policy returns the selection policy the session was created with.
func (s *Session) Policy() Policy {
	return s.policy
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns how many questions have not been answered yet.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) - s.cursor
}

// Current returns the question at the head of the queue.
func (s *Session) Current() (extract.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return extract.Question{}, &InvalidSessionStateError{SessionID: s.id, State: s.state, Op: "current"}
	}
	s.lastActive = time.Now()
	return s.index.Get(s.queue[s.cursor])
}

// Submit grades the question at the head of the queue and advances it.
// The most recently graded question may be re-submitted until the next
// answer arrives; that overwrites its history entry (last-write-wins)
// and returns the same next question, which makes caller retries
// idempotent. Submissions for any other question are rejected.
func (s *Session) Submit(questionID string, correct bool, now time.Time) (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return SubmitResult{}, &InvalidSessionStateError{SessionID: s.id, State: s.state, Op: "submit"}
	}
	s.lastActive = now

	resubmit := false
	head := s.queue[s.cursor]
	switch questionID {
	case head:
		s.history = append(s.history, Answer{QuestionID: questionID, Correct: correct, Timestamp: now})
		s.cursor++
		s.state = StateInProgress
	default:
		if s.cursor > 0 && questionID == s.queue[s.cursor-1] {
			s.history[len(s.history)-1] = Answer{QuestionID: questionID, Correct: correct, Timestamp: now}
			resubmit = true
		} else {
			return SubmitResult{}, &HeadMismatchError{SessionID: s.id, Submitted: questionID, Head: head}
		}
	}

	if s.cursor == len(s.queue) {
		s.state = StateCompleted
		return SubmitResult{Complete: true}, nil
	}

	next, err := s.index.Get(s.queue[s.cursor])
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Next: &next, Resubmit: resubmit}, nil
}

// History returns a copy of the answered history in order.
func (s *Session) History() []Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Answer, len(s.history))
	copy(out, s.history)
	return out
}

// complete marks the session terminal regardless of remaining questions.
func (s *Session) complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateCompleted
}

// idleSince reports the last time the session was touched.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
