package textproc

import (
	"strings"

	"github.com/jonathan/jobmatch/internal/types"
)

// ResumeText assembles the text document of a candidate.
// Field order is fixed: name, summary, skills, languages, experience, education.
// Changing it changes every score.
func ResumeText(f *types.CandidateFeatures) string {
	if f == nil {
		return ""
	}

	parts := make([]string, 0, 4+len(f.Experience.Items)+len(f.Education.Items))
	parts = append(parts, f.FullName, f.Summary)
	if len(f.Skills) > 0 {
		parts = append(parts, strings.Join(f.Skills, " "))
	}
	if len(f.Languages) > 0 {
		parts = append(parts, strings.Join(f.Languages, " "))
	}
	for _, it := range f.Experience.Items {
		parts = append(parts, strings.TrimSpace(it.Title+" "+it.Description))
	}
	for _, it := range f.Education.Items {
		parts = append(parts, strings.TrimSpace(it.Degree+" "+it.FieldOfStudy))
	}

	return joinNonEmpty(parts)
}

// JobText assembles the text document of a job posting: title, description, location, skills.
func JobText(j *types.JobPosting) string {
	if j == nil {
		return ""
	}

	parts := []string{j.Title, j.Description, j.Location}
	if len(j.Skills) > 0 {
		parts = append(parts, strings.Join(j.Skills, " "))
	}

	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p)
	}
	return sb.String()
}
