// Package sqlitestore is an embedded SQLite implementation of the ranking store,
// used for local runs and in-process tests.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/types"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS job (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	location        TEXT NOT NULL DEFAULT '',
	skills          TEXT NOT NULL DEFAULT '[]',
	employment_type TEXT NOT NULL DEFAULT 'full_time',
	is_active       INTEGER NOT NULL DEFAULT 1,
	posted_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_job_active_posted ON job (is_active, posted_at DESC);

CREATE TABLE IF NOT EXISTS resume_features (
	resume_id   TEXT PRIMARY KEY,
	full_name   TEXT NOT NULL DEFAULT '',
	summary     TEXT NOT NULL DEFAULT '',
	skills      TEXT NOT NULL DEFAULT '[]',
	languages   TEXT NOT NULL DEFAULT '[]',
	experience  TEXT,
	education   TEXT,
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_resume_features_updated ON resume_features (updated_at DESC);

CREATE TABLE IF NOT EXISTS application (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id     TEXT NOT NULL,
	resume_id  TEXT NOT NULL,
	UNIQUE (job_id, resume_id)
);

CREATE TABLE IF NOT EXISTS job_keywords (
	job_id    TEXT PRIMARY KEY,
	keywords  TEXT NOT NULL
);
`

// Store is a SQLite-backed store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Jobs
// -----------------------------------------------------------------------------

const jobColumns = `id, title, description, location, skills, employment_type, is_active, posted_at`

// GetJob returns nil, nil when the job does not exist.
func (s *Store) GetJob(ctx context.Context, jobID uuid.UUID) (*types.JobPosting, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM job WHERE id = ?`, jobID.String())
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListActiveJobs returns up to limit active jobs, most recently posted first.
func (s *Store) ListActiveJobs(ctx context.Context, limit int) ([]types.JobPosting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM job WHERE is_active = 1 ORDER BY posted_at DESC, rowid LIMIT ?`,
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
func (s *Store) UpsertJob(ctx context.Context, job *types.JobPosting) error {
	skills, err := encodeList(job.Skills)
	if err != nil {
		return fmt.Errorf("failed to encode job skills: %w", err)
	}
	employment := job.EmploymentType
	if employment == "" {
		employment = types.EmploymentFullTime
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO job (id, title, description, location, skills, employment_type, is_active, posted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     title = excluded.title, description = excluded.description, location = excluded.location,
		     skills = excluded.skills, employment_type = excluded.employment_type,
		     is_active = excluded.is_active, posted_at = excluded.posted_at`,
		job.ID.String(), job.Title, job.Description, job.Location, skills,
		string(employment), job.IsActive, toNanos(job.PostedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*types.JobPosting, error) {
	var j types.JobPosting
	var id, skills, employment string
	var postedAt int64
	if err := row.Scan(&id, &j.Title, &j.Description, &j.Location, &skills,
		&employment, &j.IsActive, &postedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid job id %q: %w", id, err)
	}
	j.ID = parsed
	j.EmploymentType = types.EmploymentType(employment)
	j.PostedAt = fromNanos(postedAt)
	j.Skills = decodeList(skills)
	return &j, nil
}

// -----------------------------------------------------------------------------
// Candidate features
// -----------------------------------------------------------------------------

const featureColumns = `rf.resume_id, rf.full_name, rf.summary, rf.skills, rf.languages,
	rf.experience, rf.education, rf.updated_at`

// GetResumeFeatures returns nil, nil when the resume has no features.
func (s *Store) GetResumeFeatures(ctx context.Context, resumeID uuid.UUID) (*types.CandidateFeatures, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+featureColumns+` FROM resume_features rf WHERE rf.resume_id = ?`,
		resumeID.String(),
	)
	f, err := scanFeatures(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume features: %w", err)
	}
	return f, nil
}

// ListRecentResumeFeatures returns up to limit feature records, most recently updated first.
func (s *Store) ListRecentResumeFeatures(ctx context.Context, limit int) ([]types.CandidateFeatures, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+featureColumns+` FROM resume_features rf ORDER BY rf.updated_at DESC, rf.rowid LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume features: %w", err)
	}
	return collectFeatures(rows)
}

// ListApplicantFeatures returns the features of every resume that applied to jobID,
// in application order. Applications without features are skipped.
func (s *Store) ListApplicantFeatures(ctx context.Context, jobID uuid.UUID) ([]types.CandidateFeatures, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+featureColumns+`
		 FROM application a
		 JOIN resume_features rf ON rf.resume_id = a.resume_id
		 WHERE a.job_id = ?
		 ORDER BY a.seq`,
		jobID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicant features: %w", err)
	}
	return collectFeatures(rows)
}

// UpsertResumeFeatures creates or replaces a feature record.
func (s *Store) UpsertResumeFeatures(ctx context.Context, f *types.CandidateFeatures) error {
	skills, err := encodeList(f.Skills)
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}
	languages, err := encodeList(f.Languages)
	if err != nil {
		return fmt.Errorf("failed to encode languages: %w", err)
	}
	experience, err := json.Marshal(f.Experience)
	if err != nil {
		return fmt.Errorf("failed to marshal experience: %w", err)
	}
	education, err := json.Marshal(f.Education)
	if err != nil {
		return fmt.Errorf("failed to marshal education: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resume_features (resume_id, full_name, summary, skills, languages, experience, education, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (resume_id) DO UPDATE SET
		     full_name = excluded.full_name, summary = excluded.summary, skills = excluded.skills,
		     languages = excluded.languages, experience = excluded.experience,
		     education = excluded.education, updated_at = excluded.updated_at`,
		f.ResumeID.String(), f.FullName, f.Summary, skills, languages,
		string(experience), string(education), toNanos(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resume features: %w", err)
	}
	return nil
}

// AddApplication records that resumeID applied to jobID. Repeated calls are no-ops.
func (s *Store) AddApplication(ctx context.Context, jobID, resumeID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO application (job_id, resume_id) VALUES (?, ?) ON CONFLICT (job_id, resume_id) DO NOTHING`,
		jobID.String(), resumeID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to add application: %w", err)
	}
	return nil
}

func collectFeatures(rows *sql.Rows) ([]types.CandidateFeatures, error) {
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

func scanFeatures(row scanner) (*types.CandidateFeatures, error) {
	var f types.CandidateFeatures
	var id, skills, languages string
	var experience, education sql.NullString
	var updatedAt int64
	if err := row.Scan(&id, &f.FullName, &f.Summary, &skills, &languages,
		&experience, &education, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid resume id %q: %w", id, err)
	}
	f.ResumeID = parsed
	f.Skills = decodeList(skills)
	f.Languages = decodeList(languages)
	f.UpdatedAt = fromNanos(updatedAt)
	if experience.Valid {
		_ = json.Unmarshal([]byte(experience.String), &f.Experience)
	}
	if education.Valid {
		_ = json.Unmarshal([]byte(education.String), &f.Education)
	}
	return &f, nil
}

// -----------------------------------------------------------------------------
// Keywords
// -----------------------------------------------------------------------------

// GetJobKeywords returns the saved keywords of a job, or nil when none are saved.
func (s *Store) GetJobKeywords(ctx context.Context, jobID uuid.UUID) ([]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT keywords FROM job_keywords WHERE job_id = ?`, jobID.String()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job keywords: %w", err)
	}
	return decodeList(raw), nil
}

// SaveJobKeywords replaces the saved keywords of a job.
func (s *Store) SaveJobKeywords(ctx context.Context, jobID uuid.UUID, keywords []string) error {
	raw, err := encodeList(keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO job_keywords (job_id, keywords) VALUES (?, ?)
		 ON CONFLICT (job_id) DO UPDATE SET keywords = excluded.keywords`,
		jobID.String(), raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save job keywords: %w", err)
	}
	return nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeList parses a JSON string array. Malformed values decode to an empty list.
func decodeList(raw string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// toNanos stores the zero time as 0 so it survives a round trip.
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
