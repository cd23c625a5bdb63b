package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobmatch/internal/types"
)

const jobColumns = `id, title, description, COALESCE(location, ''), COALESCE(skills, '{}'),
	employment_type, is_active, posted_at`

// GetJob retrieves a job by ID. Returns nil, nil when it does not exist.
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*types.JobPosting, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM job WHERE id = $1`, jobID)

	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListActiveJobs returns up to limit active jobs, most recently posted first.
func (db *DB) ListActiveJobs(ctx context.Context, limit int) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM job
		 WHERE is_active = TRUE
		 ORDER BY posted_at DESC, id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]types.JobPosting, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// UpsertJob creates or replaces a job.
func (db *DB) UpsertJob(ctx context.Context, job *types.JobPosting) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO job (id, title, description, location, skills, employment_type, is_active, posted_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		     title = $2, description = $3, location = NULLIF($4, ''), skills = $5,
		     employment_type = $6, is_active = $7, posted_at = $8, updated_at = NOW()`,
		job.ID, job.Title, job.Description, job.Location, nonNil(job.Skills),
		string(employmentOrDefault(job.EmploymentType)), job.IsActive, job.PostedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job: %w", err)
	}
	return nil
}

func scanJob(row pgx.Row) (*types.JobPosting, error) {
	var j types.JobPosting
	var employment string
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Location, &j.Skills,
		&employment, &j.IsActive, &j.PostedAt); err != nil {
		return nil, err
	}
	j.EmploymentType = types.EmploymentType(employment)
	return &j, nil
}

func employmentOrDefault(t types.EmploymentType) types.EmploymentType {
	if t == "" {
		return types.EmploymentFullTime
	}
	return t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
