package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobmatch/internal/types"
)

const featureColumns = `rf.resume_id, COALESCE(rf.full_name, ''), COALESCE(rf.summary, ''),
	COALESCE(rf.skills, '{}'), COALESCE(rf.languages, '{}'), rf.experience, rf.education, rf.updated_at`

// GetResumeFeatures retrieves the features of a resume. Returns nil, nil when absent.
func (db *DB) GetResumeFeatures(ctx context.Context, resumeID uuid.UUID) (*types.CandidateFeatures, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+featureColumns+` FROM resume_features rf WHERE rf.resume_id = $1`,
		resumeID,
	)

	f, err := scanFeatures(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume features: %w", err)
	}
	return f, nil
}

// ListRecentResumeFeatures returns up to limit feature records, most recently updated first.
func (db *DB) ListRecentResumeFeatures(ctx context.Context, limit int) ([]types.CandidateFeatures, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+featureColumns+`
		 FROM resume_features rf
		 ORDER BY rf.updated_at DESC, rf.resume_id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume features: %w", err)
	}
	return collectFeatures(rows)
}

// ListApplicantFeatures returns the features of every resume that applied to jobID,
// ordered by first application. Applications without features are skipped.
func (db *DB) ListApplicantFeatures(ctx context.Context, jobID uuid.UUID) ([]types.CandidateFeatures, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+featureColumns+`
		 FROM resume_features rf
		 JOIN (
		     SELECT resume_id, MIN(applied_at) AS first_applied
		     FROM application
		     WHERE job_id = $1 AND resume_id IS NOT NULL
		     GROUP BY resume_id
		 ) a ON a.resume_id = rf.resume_id
		 ORDER BY a.first_applied, rf.resume_id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicant features: %w", err)
	}
	return collectFeatures(rows)
}

// UpsertResumeFeatures creates or replaces a feature record.
func (db *DB) UpsertResumeFeatures(ctx context.Context, f *types.CandidateFeatures) error {
	experienceJSON, err := json.Marshal(f.Experience)
	if err != nil {
		return fmt.Errorf("failed to marshal experience: %w", err)
	}
	educationJSON, err := json.Marshal(f.Education)
	if err != nil {
		return fmt.Errorf("failed to marshal education: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_features (resume_id, full_name, summary, skills, languages, experience, education, updated_at)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8)
		 ON CONFLICT (resume_id) DO UPDATE SET
		     full_name = NULLIF($2, ''), summary = NULLIF($3, ''), skills = $4, languages = $5,
		     experience = $6, education = $7, updated_at = $8`,
		f.ResumeID, f.FullName, f.Summary, nonNil(f.Skills), nonNil(f.Languages),
		experienceJSON, educationJSON, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resume features: %w", err)
	}
	return nil
}

// AddApplication records that resumeID applied to jobID. Repeated calls are no-ops.
func (db *DB) AddApplication(ctx context.Context, jobID, resumeID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO application (job_id, resume_id) VALUES ($1, $2)
		 ON CONFLICT (job_id, resume_id) DO NOTHING`,
		jobID, resumeID,
	)
	if err != nil {
		return fmt.Errorf("failed to add application: %w", err)
	}
	return nil
}

func collectFeatures(rows pgx.Rows) ([]types.CandidateFeatures, error) {
	defer rows.Close()

	out := make([]types.CandidateFeatures, 0)
	for rows.Next() {
		f, err := scanFeatures(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume features: %w", err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resume features: %w", err)
	}
	return out, nil
}

func scanFeatures(row pgx.Row) (*types.CandidateFeatures, error) {
	var f types.CandidateFeatures
	var experienceJSON, educationJSON []byte
	if err := row.Scan(&f.ResumeID, &f.FullName, &f.Summary, &f.Skills, &f.Languages,
		&experienceJSON, &educationJSON, &f.UpdatedAt); err != nil {
		return nil, err
	}
	decodeSections(&f, experienceJSON, educationJSON)
	return &f, nil
}

// decodeSections fills the experience and education sections from their JSONB
// columns. Malformed JSON leaves the section empty.
func decodeSections(f *types.CandidateFeatures, experienceJSON, educationJSON []byte) {
	if len(experienceJSON) > 0 {
		_ = json.Unmarshal(experienceJSON, &f.Experience)
	}
	if len(educationJSON) > 0 {
		_ = json.Unmarshal(educationJSON, &f.Education)
	}
}
