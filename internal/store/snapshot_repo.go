package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type snapshotRepo struct {
	db *sql.DB
}

func (r *snapshotRepo) SaveIndex(ctx context.Context, data []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO index_snapshots (created_at, data) VALUES (?, ?)`,
		time.Now().UTC(), data,
	)
	if err != nil {
		return fmt.Errorf("save index snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) LatestIndex(ctx context.Context) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM index_snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest index snapshot: %w", err)
	}
	return data, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM index_snapshots WHERE id NOT IN (
			SELECT id FROM index_snapshots ORDER BY id DESC LIMIT ?
		)`, keep,
	)
	if err != nil {
		return fmt.Errorf("prune index snapshots: %w", err)
	}
	return nil
}
