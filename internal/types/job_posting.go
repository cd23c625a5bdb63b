package types

import (
	"time"

	"github.com/google/uuid"
)

// EmploymentType is the contract type of a job posting.
type EmploymentType string

// Employment types accepted by the job portal.
const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentTemporary  EmploymentType = "temporary"
)

// Valid reports whether t is one of the known employment types.
func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship, EmploymentTemporary:
		return true
	}
	return false
}

// JobPosting is the job record the engine ranks against.
type JobPosting struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Location       string         `json:"location,omitempty"`
	Skills         []string       `json:"skills,omitempty"`
	EmploymentType EmploymentType `json:"employment_type"`
	IsActive       bool           `json:"is_active"`
	PostedAt       time.Time      `json:"posted_at"`
}
