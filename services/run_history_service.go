package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"ktpPortalAPI/internal/leetcode"
)

// RunHistoryService persists sync run summaries to Postgres so admins can
// audit past runs. The service is optional; callers hold a nil pointer when
// no database is configured.
type RunHistoryService struct {
	db *pgxpool.Pool
}

func NewRunHistoryService(db *pgxpool.Pool) *RunHistoryService {
	return &RunHistoryService{db: db}
}

// EnsureSchema creates the runs table if it does not exist yet.
func (s *RunHistoryService) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS leetcode_runs (
		id UUID PRIMARY KEY,
		triggered_by TEXT NOT NULL,
		updated INT NOT NULL,
		failed TEXT[] NOT NULL DEFAULT '{}',
		skipped INT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	)
	`

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure leetcode_runs schema: %w", err)
	}
	return nil
}

func (s *RunHistoryService) RecordRun(ctx context.Context, trigger string, summary *leetcode.RunSummary) error {
	query := `
	INSERT INTO leetcode_runs (id, triggered_by, updated, failed, skipped, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(
		ctx,
		query,
		summary.RunID,
		trigger,
		summary.Updated,
		summary.Failed,
		summary.Skipped,
		summary.StartedAt,
		summary.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", summary.RunID, err)
	}

	return nil
}

func (s *RunHistoryService) ListRuns(ctx context.Context, limit int) ([]*leetcode.RunRecord, error) {
	query := `
	SELECT id, triggered_by, updated, failed, skipped, started_at, finished_at
	FROM leetcode_runs
	ORDER BY started_at DESC
	LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*leetcode.RunRecord{}
	for rows.Next() {
		run := &leetcode.RunRecord{}
		if err := rows.Scan(
			&run.RunID,
			&run.TriggeredBy,
			&run.Updated,
			&run.Failed,
			&run.Skipped,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return runs, nil
}
