package ranking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchJobsForCandidate_Example(t *testing.T) {
	store := memstore.New()
	job := newJob("Backend Engineer", []string{"python", "docker", "fastapi"}, 0)
	store.AddJobs(job, newJob("Designer", []string{"figma"}, time.Hour))
	candidate := newCandidate("Ada", []string{"python", "fastapi", "postgres"}, 0)

	matches, err := NewEngine(store).MatchJobsForCandidate(context.Background(), &candidate, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, job.ID.String(), matches[0].JobID)
	assert.Equal(t, 0.6667, matches[0].Score)
	assert.Equal(t, []string{"Shared skills: fastapi, python"}, matches[0].Reasons)
}

func TestMatchJobsForCandidate_NilCandidate(t *testing.T) {
	matches, err := NewEngine(memstore.New()).MatchJobsForCandidate(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestMatchJobsForCandidate_DefaultLimit(t *testing.T) {
	store := memstore.New()
	for i := 0; i < DefaultMatchLimit+5; i++ {
		store.AddJobs(newJob(fmt.Sprintf("job-%d", i), []string{"go"}, time.Duration(i)*time.Minute))
	}
	candidate := newCandidate("", []string{"Go"}, 0)
	e := NewEngine(store)

	matches, err := e.MatchJobsForCandidate(context.Background(), &candidate, 0)
	require.NoError(t, err)
	assert.Len(t, matches, DefaultMatchLimit)

	matches, err = e.MatchJobsForCandidate(context.Background(), &candidate, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestMatchJobsForCandidate_ReasonCapsSharedTags(t *testing.T) {
	skills := []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7", "h8"}
	store := memstore.New()
	store.AddJobs(newJob("wide", skills, 0))
	candidate := newCandidate("", skills, 0)

	matches, err := NewEngine(store).MatchJobsForCandidate(context.Background(), &candidate, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].Score)
	assert.Equal(t, []string{"Shared skills: a1, b2, c3, d4, e5, f6"}, matches[0].Reasons)
}

func TestMatchJobsForResume(t *testing.T) {
	store := memstore.New()
	candidate := newCandidate("Ada", []string{"Node.js", "SQL"}, 0)
	job := newJob("API", []string{"node js", "sql", "aws"}, 0)
	store.AddFeatures(candidate)
	store.AddJobs(job)
	e := NewEngine(store)

	matches, err := e.MatchJobsForResume(context.Background(), candidate.ResumeID, 20)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"Shared skills: node js, sql"}, matches[0].Reasons)

	matches, err = e.MatchJobsForResume(context.Background(), uuid.New(), 20)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchCandidatesForJob_OrderAndTies(t *testing.T) {
	store := memstore.New()
	job := newJob("Data Engineer", []string{"python", "sql"}, 0)
	partialOld := newCandidate("old", []string{"python", "excel"}, 0)
	partialNew := newCandidate("new", []string{"python", "excel"}, time.Hour)
	full := newCandidate("full", []string{"Python", "SQL"}, -time.Hour)
	none := newCandidate("none", []string{"java"}, 2*time.Hour)
	store.AddFeatures(partialOld, partialNew, full, none)

	matches, err := NewEngine(store).MatchCandidatesForJob(context.Background(), &job, 10)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "full", matches[0].FullName)
	assert.Equal(t, 1.0, matches[0].Score)
	assert.Equal(t, "new", matches[1].FullName)
	assert.Equal(t, "old", matches[2].FullName)
	assert.Equal(t, 0.5, matches[1].Score)
	assert.Equal(t, []string{"Shared skills: python"}, matches[1].Reasons)
}

func TestMatchCandidatesForJobID(t *testing.T) {
	store := memstore.New()
	job := newJob("Data Engineer", []string{"python"}, 0)
	store.AddJobs(job)
	store.AddFeatures(newCandidate("Ada", []string{"python"}, 0))
	e := NewEngine(store)

	matches, err := e.MatchCandidatesForJobID(context.Background(), job.ID, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	matches, err = e.MatchCandidatesForJobID(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestMatchCandidatesForJob_Cancelled(t *testing.T) {
	store := memstore.New()
	store.AddFeatures(newCandidate("Ada", []string{"python"}, 0))
	job := newJob("x", []string{"python"}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matches, err := NewEngine(store).MatchCandidatesForJob(ctx, &job, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, matches)
}
