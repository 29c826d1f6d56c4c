package store

import (
	"context"
	"time"
)

// AnswerEventData captures one graded answer within a quiz session.
type AnswerEventData struct {
	SessionID  string
	QuestionID string
	Category   string
	Tags       []string
	Correct    bool
	Timestamp  time.Time
}

// AnswerEventRecord is a stored answer event with its sequence id.
type AnswerEventRecord struct {
	ID int64
	AnswerEventData
}

// SessionEventData captures the summary of one completed quiz session.
type SessionEventData struct {
	SessionID string
	Policy    string
	Category  string
	Total     int
	Correct   int
	StartedAt time.Time
	EndedAt   time.Time
}

// TagStats aggregates historical performance for one tag.
type TagStats struct {
	Tag      string
	Total    int
	Correct  int
	Accuracy float64
}

// EventRepo provides append and query access to quiz history events.
type EventRepo interface {
	// AppendAnswer records a graded answer.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// ReplaceLastAnswer overwrites the most recent answer event for the
	// session and question in data, so a re-graded answer is stored
	// once. When no such event exists the data is appended instead.
	ReplaceLastAnswer(ctx context.Context, data AnswerEventData) error

	// AppendSession records a completed session summary.
	AppendSession(ctx context.Context, data SessionEventData) error

	// AnswerHistory returns all answer events in chronological order.
	AnswerHistory(ctx context.Context) ([]AnswerEventRecord, error)

	// SessionAnswers returns the answer events of one session in
	// chronological order.
	SessionAnswers(ctx context.Context, sessionID string) ([]AnswerEventRecord, error)

	// TagAccuracy aggregates the historical correct-rate per tag.
	TagAccuracy(ctx context.Context) (map[string]TagStats, error)
}

// SnapshotRepo manages persisted index snapshots for fast restart.
type SnapshotRepo interface {
	// SaveIndex stores a serialized index snapshot.
	SaveIndex(ctx context.Context, data []byte) error

	// LatestIndex returns the most recent snapshot, or nil if none exist.
	LatestIndex(ctx context.Context) ([]byte, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
