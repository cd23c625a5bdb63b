// Package types provides type definitions for structured data used throughout the matching engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CandidateFeatures is the structured resume record produced by the extraction pipeline.
// The engine reads it but never writes it.
type CandidateFeatures struct {
	ResumeID   uuid.UUID         `json:"resume_id"`
	FullName   string            `json:"full_name,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Languages  []string          `json:"languages,omitempty"`
	Experience ExperienceSection `json:"experience"`
	Education  EducationSection  `json:"education"`
	UpdatedAt  time.Time         `json:"updated_at,omitzero"`
}

// ExperienceSection holds the work history items of a resume.
type ExperienceSection struct {
	Items []ExperienceItem `json:"items"`
}

// ExperienceItem is a single position. Missing fields decode to "".
type ExperienceItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// EducationSection holds the education items of a resume.
type EducationSection struct {
	Items []EducationItem `json:"items"`
}

// EducationItem is a single degree. Missing fields decode to "".
type EducationItem struct {
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
}

// UnmarshalJSON accepts {"items": [...]}, a bare array of items, or null.
// Any other shape decodes to an empty section rather than failing the whole record.
func (s *ExperienceSection) UnmarshalJSON(data []byte) error {
	s.Items = nil
	var items []ExperienceItem
	if ok := decodeSection(data, &items); ok {
		s.Items = items
	}
	return nil
}

// UnmarshalJSON accepts {"items": [...]}, a bare array of items, or null.
func (s *EducationSection) UnmarshalJSON(data []byte) error {
	s.Items = nil
	var items []EducationItem
	if ok := decodeSection(data, &items); ok {
		s.Items = items
	}
	return nil
}

// decodeSection decodes loosely typed JSONB section payloads into items.
func decodeSection[T any](data []byte, items *[]T) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false
	}

	switch trimmed[0] {
	case '[':
		return decodeItems(trimmed, items)
	case '{':
		var wrapper struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil || len(wrapper.Items) == 0 {
			return false
		}
		return decodeItems(wrapper.Items, items)
	default:
		return false
	}
}

// decodeItems decodes an array element by element, skipping entries that are not objects.
func decodeItems[T any](data []byte, items *[]T) bool {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	*items = out
	return true
}
