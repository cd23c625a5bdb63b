package types

// JobRecommendation is one entry of a jobs-for-resume recommendation list.
type JobRecommendation struct {
	JobID          string         `json:"job_id"`
	Title          string         `json:"title"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employment_type"`
	Score          float64        `json:"score"`
}

// ResumeRecommendation is one entry of a resumes-for-job recommendation list.
type ResumeRecommendation struct {
	ResumeID string  `json:"resume_id"`
	FullName string  `json:"full_name"`
	Score    float64 `json:"score"`
}

// JobMatch is a skill-overlap match of a job against a candidate.
type JobMatch struct {
	JobID          string         `json:"job_id"`
	Title          string         `json:"title"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employment_type"`
	Score          float64        `json:"score"`
	Reasons        []string       `json:"reasons"`
}

// CandidateMatch is a skill-overlap match of a candidate against a job.
type CandidateMatch struct {
	ResumeID string   `json:"resume_id"`
	FullName string   `json:"full_name"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
}

// CandidateRanking is one applicant scored against a keyword set.
type CandidateRanking struct {
	ResumeID      string   `json:"resumeId"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
}

// KeywordRanking is the full ranked applicant pool of a job.
type KeywordRanking struct {
	JobID    string             `json:"jobId"`
	Keywords []string           `json:"keywords"`
	Rankings []CandidateRanking `json:"rankings"`
}
