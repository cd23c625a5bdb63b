package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetJobKeywords returns the saved keywords of a job, or nil when none are saved.
func (db *DB) GetJobKeywords(ctx context.Context, jobID uuid.UUID) ([]string, error) {
	var keywords []string
	err := db.pool.QueryRow(ctx,
		`SELECT keywords FROM job_keywords WHERE job_id = $1`,
		jobID,
	).Scan(&keywords)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job keywords: %w", err)
	}
	return keywords, nil
}

// SaveJobKeywords replaces the saved keywords of a job.
func (db *DB) SaveJobKeywords(ctx context.Context, jobID uuid.UUID, keywords []string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_keywords (job_id, keywords) VALUES ($1, $2)
		 ON CONFLICT (job_id) DO UPDATE SET keywords = $2, updated_at = NOW()`,
		jobID, nonNil(keywords),
	)
	if err != nil {
		return fmt.Errorf("failed to save job keywords: %w", err)
	}
	return nil
}
