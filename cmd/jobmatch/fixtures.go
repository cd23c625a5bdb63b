package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/schemas"
	"github.com/jonathan/jobmatch/internal/types"
)

// application links a resume to a job it applied to.
type application struct {
	JobID    uuid.UUID `json:"job_id"`
	ResumeID uuid.UUID `json:"resume_id"`
}

// loadCandidates reads and schema-validates a candidate features fixture file.
func loadCandidates(path string) ([]types.CandidateFeatures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file %s: %w", path, err)
	}
	if err := schemas.ValidateCandidates(data); err != nil {
		return nil, fmt.Errorf("invalid candidates file %s: %w", path, err)
	}

	var candidates []types.CandidateFeatures
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidates JSON: %w", err)
	}
	return candidates, nil
}

// loadJobs reads and schema-validates a job postings fixture file.
// Jobs without an employment type default to full time.
func loadJobs(path string) ([]types.JobPosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file %s: %w", path, err)
	}
	if err := schemas.ValidateJobs(data); err != nil {
		return nil, fmt.Errorf("invalid jobs file %s: %w", path, err)
	}

	var jobs []types.JobPosting
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal jobs JSON: %w", err)
	}
	for i := range jobs {
		if jobs[i].EmploymentType == "" {
			jobs[i].EmploymentType = types.EmploymentFullTime
		}
	}
	return jobs, nil
}

// loadApplications reads a JSON array of {"job_id", "resume_id"} pairs.
func loadApplications(path string) ([]application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read applications file %s: %w", path, err)
	}
	var apps []application
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal applications JSON: %w", err)
	}
	return apps, nil
}
