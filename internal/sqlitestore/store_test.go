package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ranking.Store = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "jobmatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var base = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func TestStore_JobRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	job := &types.JobPosting{
		ID:             uuid.New(),
		Title:          "Backend Engineer",
		Description:    "APIs in Go",
		Location:       "Berlin",
		Skills:         []string{"go", "postgres"},
		EmploymentType: types.EmploymentPartTime,
		IsActive:       true,
		PostedAt:       base,
	}
	require.NoError(t, s.UpsertJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *job, *got)

	job.Title = "Staff Engineer"
	job.EmploymentType = ""
	require.NoError(t, s.UpsertJob(ctx, job))
	got, err = s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", got.Title)
	assert.Equal(t, types.EmploymentFullTime, got.EmploymentType)

	missing, err := s.GetJob(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_ListActiveJobs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := &types.JobPosting{ID: uuid.New(), Title: "older", IsActive: true, PostedAt: base}
	newer := &types.JobPosting{ID: uuid.New(), Title: "newer", IsActive: true, PostedAt: base.Add(time.Hour)}
	closed := &types.JobPosting{ID: uuid.New(), Title: "closed", IsActive: false, PostedAt: base.Add(2 * time.Hour)}
	for _, j := range []*types.JobPosting{older, newer, closed} {
		require.NoError(t, s.UpsertJob(ctx, j))
	}

	jobs, err := s.ListActiveJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "newer", jobs[0].Title)
	assert.Equal(t, "older", jobs[1].Title)
	assert.Equal(t, []string{}, jobs[0].Skills)

	jobs, err = s.ListActiveJobs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestStore_FeaturesAndApplicants(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	jobID := uuid.New()

	a := &types.CandidateFeatures{
		ResumeID: uuid.New(),
		FullName: "Ada",
		Skills:   []string{"python", "java"},
		Experience: types.ExperienceSection{Items: []types.ExperienceItem{
			{Title: "Engineer", Description: "Analytical engines"},
		}},
		Education: types.EducationSection{Items: []types.EducationItem{{Degree: "BSc", FieldOfStudy: "Mathematics"}}},
		UpdatedAt: base,
	}
	b := &types.CandidateFeatures{ResumeID: uuid.New(), FullName: "Grace", Skills: []string{"cobol"}, UpdatedAt: base.Add(time.Hour)}
	require.NoError(t, s.UpsertResumeFeatures(ctx, a))
	require.NoError(t, s.UpsertResumeFeatures(ctx, b))

	got, err := s.GetResumeFeatures(ctx, a.ResumeID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.Experience, got.Experience)
	assert.Equal(t, a.Education, got.Education)
	assert.Equal(t, []string{}, got.Languages)

	recent, err := s.ListRecentResumeFeatures(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Grace", recent[0].FullName)

	require.NoError(t, s.AddApplication(ctx, jobID, b.ResumeID))
	require.NoError(t, s.AddApplication(ctx, jobID, a.ResumeID))
	require.NoError(t, s.AddApplication(ctx, jobID, b.ResumeID))
	require.NoError(t, s.AddApplication(ctx, jobID, uuid.New()))

	applicants, err := s.ListApplicantFeatures(ctx, jobID)
	require.NoError(t, err)
	require.Len(t, applicants, 2)
	assert.Equal(t, "Grace", applicants[0].FullName)
	assert.Equal(t, "Ada", applicants[1].FullName)

	none, err := s.ListApplicantFeatures(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_Keywords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	jobID := uuid.New()

	kw, err := s.GetJobKeywords(ctx, jobID)
	require.NoError(t, err)
	assert.Nil(t, kw)

	require.NoError(t, s.SaveJobKeywords(ctx, jobID, []string{"Python", "SQL"}))
	require.NoError(t, s.SaveJobKeywords(ctx, jobID, []string{"Go"}))

	kw, err = s.GetJobKeywords(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, kw)
}

func TestStore_DrivesEngine(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	job := &types.JobPosting{ID: uuid.New(), Title: "Backend", Skills: []string{"python", "docker", "fastapi"}, IsActive: true, PostedAt: base}
	candidate := &types.CandidateFeatures{ResumeID: uuid.New(), Skills: []string{"python", "fastapi", "postgres"}, UpdatedAt: base}
	require.NoError(t, s.UpsertJob(ctx, job))
	require.NoError(t, s.UpsertResumeFeatures(ctx, candidate))

	matches, err := ranking.NewEngine(s).MatchJobsForResume(ctx, candidate.ResumeID, 20)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 0.6667, matches[0].Score)
	assert.Equal(t, []string{"Shared skills: fastapi, python"}, matches[0].Reasons)
}

func TestDecodeList(t *testing.T) {
	assert.Equal(t, []string{}, decodeList(""))
	assert.Equal(t, []string{}, decodeList("null"))
	assert.Equal(t, []string{}, decodeList("{bad"))
	assert.Equal(t, []string{"a", "b"}, decodeList(`["a","b"]`))
}

func TestNanosRoundTrip(t *testing.T) {
	assert.True(t, fromNanos(toNanos(time.Time{})).IsZero())

	ts := time.Date(2025, 3, 1, 9, 0, 0, 123, time.UTC)
	assert.True(t, ts.Equal(fromNanos(toNanos(ts))))
}
