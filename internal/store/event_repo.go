package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	tags, err := json.Marshal(data.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO answer_events (session_id, question_id, category, tags, correct, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.QuestionID, data.Category, string(tags), data.Correct, data.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("append answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) ReplaceLastAnswer(ctx context.Context, data AnswerEventData) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE answer_events SET correct = ?, timestamp = ?
		 WHERE id = (
			SELECT MAX(id) FROM answer_events
			WHERE session_id = ? AND question_id = ?
		 )`,
		data.Correct, data.Timestamp.UTC(), data.SessionID, data.QuestionID,
	)
	if err != nil {
		return fmt.Errorf("replace answer event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return r.AppendAnswer(ctx, data)
	}
	return nil
}

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_events (session_id, policy, category, total, correct, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.Policy, data.Category, data.Total, data.Correct,
		data.StartedAt.UTC(), data.EndedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("append session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AnswerHistory(ctx context.Context) ([]AnswerEventRecord, error) {
	return r.queryAnswers(ctx,
		`SELECT id, session_id, question_id, category, tags, correct, timestamp
		 FROM answer_events ORDER BY id ASC`)
}

func (r *eventRepo) SessionAnswers(ctx context.Context, sessionID string) ([]AnswerEventRecord, error) {
	return r.queryAnswers(ctx,
		`SELECT id, session_id, question_id, category, tags, correct, timestamp
		 FROM answer_events WHERE session_id = ? ORDER BY id ASC`, sessionID)
}

func (r *eventRepo) queryAnswers(ctx context.Context, query string, args ...any) ([]AnswerEventRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var records []AnswerEventRecord
	for rows.Next() {
		var rec AnswerEventRecord
		var tags string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.QuestionID, &rec.Category,
			&tags, &rec.Correct, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for event %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TagAccuracy replays answer events and aggregates per-tag results in
// Go rather than SQL: tags are stored as JSON arrays and the corpus is
// small enough that replay is cheap.
func (r *eventRepo) TagAccuracy(ctx context.Context) (map[string]TagStats, error) {
	records, err := r.AnswerHistory(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]TagStats)
	for _, rec := range records {
		for _, tag := range rec.Tags {
			st := stats[tag]
			st.Tag = tag
			st.Total++
			if rec.Correct {
				st.Correct++
			}
			stats[tag] = st
		}
	}
	for tag, st := range stats {
		st.Accuracy = float64(st.Correct) / float64(st.Total)
		stats[tag] = st
	}
	return stats, nil
}
