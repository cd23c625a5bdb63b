package textproc

import (
	"testing"

	"github.com/jonathan/jobmatch/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestResumeText_FieldOrder(t *testing.T) {
	f := &types.CandidateFeatures{
		FullName:  "Ada Lovelace",
		Summary:   "Analyst",
		Skills:    []string{"Python", "SQL"},
		Languages: []string{"English"},
		Experience: types.ExperienceSection{Items: []types.ExperienceItem{
			{Title: "Engineer", Description: "Built engines"},
			{Title: "", Description: "Consulting"},
		}},
		Education: types.EducationSection{Items: []types.EducationItem{
			{Degree: "BSc", FieldOfStudy: "Mathematics"},
		}},
	}

	assert.Equal(t,
		"Ada Lovelace Analyst Python SQL English Engineer Built engines Consulting BSc Mathematics",
		ResumeText(f))
}

func TestResumeText_SkipsEmptyParts(t *testing.T) {
	f := &types.CandidateFeatures{
		Skills: []string{"Go"},
		Experience: types.ExperienceSection{Items: []types.ExperienceItem{
			{},
		}},
		Education: types.EducationSection{Items: []types.EducationItem{
			{Degree: "PhD"},
		}},
	}

	assert.Equal(t, "Go PhD", ResumeText(f))
}

func TestResumeText_Nil(t *testing.T) {
	assert.Equal(t, "", ResumeText(nil))
	assert.Equal(t, "", ResumeText(&types.CandidateFeatures{}))
}

func TestJobText(t *testing.T) {
	j := &types.JobPosting{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Location:    "Remote",
		Skills:      []string{"Go", "Postgres"},
	}
	assert.Equal(t, "Backend Engineer Build APIs Remote Go Postgres", JobText(j))

	assert.Equal(t, "Backend Engineer", JobText(&types.JobPosting{Title: "Backend Engineer"}))
	assert.Equal(t, "", JobText(nil))
}
