package ranking

import (
	"github.com/jonathan/jobmatch/internal/similarity"
	"github.com/jonathan/jobmatch/internal/types"
)

// FormatJobRecommendation maps a scored job to its output record.
func FormatJobRecommendation(job *types.JobPosting, score float64) types.JobRecommendation {
	return types.JobRecommendation{
		JobID:          job.ID.String(),
		Title:          job.Title,
		Location:       job.Location,
		EmploymentType: job.EmploymentType,
		Score:          score,
	}
}

// FormatResumeRecommendation maps a scored candidate to its output record.
func FormatResumeRecommendation(features *types.CandidateFeatures, score float64) types.ResumeRecommendation {
	return types.ResumeRecommendation{
		ResumeID: features.ResumeID.String(),
		FullName: features.FullName,
		Score:    score,
	}
}

// FormatJobMatch maps a skill-overlap job match to its output record.
func FormatJobMatch(job *types.JobPosting, score float64, shared []string) types.JobMatch {
	return types.JobMatch{
		JobID:          job.ID.String(),
		Title:          job.Title,
		Location:       job.Location,
		EmploymentType: job.EmploymentType,
		Score:          score,
		Reasons:        reasons(shared),
	}
}

// FormatCandidateMatch maps a skill-overlap candidate match to its output record.
func FormatCandidateMatch(features *types.CandidateFeatures, score float64, shared []string) types.CandidateMatch {
	return types.CandidateMatch{
		ResumeID: features.ResumeID.String(),
		FullName: features.FullName,
		Score:    score,
		Reasons:  reasons(shared),
	}
}

// FormatCandidateRanking maps a keyword-scored applicant to its output record.
func FormatCandidateRanking(features *types.CandidateFeatures, score float64, matched []string) types.CandidateRanking {
	if matched == nil {
		matched = []string{}
	}
	return types.CandidateRanking{
		ResumeID:      features.ResumeID.String(),
		Score:         score,
		MatchedSkills: matched,
	}
}

func reasons(shared []string) []string {
	reason := similarity.SharedSkillsReason(shared)
	if reason == "" {
		return []string{}
	}
	return []string{reason}
}
