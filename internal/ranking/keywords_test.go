package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankResumesByKeywords_Example(t *testing.T) {
	store := memstore.New()
	jobID := uuid.New()
	match := newCandidate("Ada", []string{"python", "java"}, 0)
	miss := newCandidate("Linus", []string{"C"}, 0)
	store.AddFeatures(miss, match)
	store.AddApplication(jobID, miss.ResumeID)
	store.AddApplication(jobID, match.ResumeID)

	ranking, err := NewEngine(store).RankResumesByKeywords(context.Background(), jobID, []string{"Python", "SQL"})
	require.NoError(t, err)

	assert.Equal(t, jobID.String(), ranking.JobID)
	assert.Equal(t, []string{"Python", "SQL"}, ranking.Keywords)
	// Zero scores stay in the list.
	require.Len(t, ranking.Rankings, 2)
	assert.Equal(t, match.ResumeID.String(), ranking.Rankings[0].ResumeID)
	assert.Equal(t, 0.3333, ranking.Rankings[0].Score)
	assert.Equal(t, []string{"python"}, ranking.Rankings[0].MatchedSkills)
	assert.Equal(t, miss.ResumeID.String(), ranking.Rankings[1].ResumeID)
	assert.Equal(t, 0.0, ranking.Rankings[1].Score)
	assert.Equal(t, []string{}, ranking.Rankings[1].MatchedSkills)
}

func TestRankResumesByKeywords_NoTopKTruncation(t *testing.T) {
	store := memstore.New()
	jobID := uuid.New()
	for i := 0; i < 30; i++ {
		c := newCandidate("", []string{"go"}, time.Duration(i)*time.Second)
		store.AddFeatures(c)
		store.AddApplication(jobID, c.ResumeID)
	}

	ranking, err := NewEngine(store).RankResumesByKeywords(context.Background(), jobID, []string{"go"})
	require.NoError(t, err)
	assert.Len(t, ranking.Rankings, 30)
	for _, r := range ranking.Rankings {
		assert.Equal(t, 1.0, r.Score)
	}
}

func TestRankResumesByKeywords_SavedKeywordsFallback(t *testing.T) {
	store := memstore.New()
	jobID := uuid.New()
	c := newCandidate("Ada", []string{"Go", "go", "Kubernetes"}, 0)
	store.AddFeatures(c)
	store.AddApplication(jobID, c.ResumeID)
	require.NoError(t, store.SaveJobKeywords(context.Background(), jobID, []string{"go", "kubernetes"}))

	e := NewEngine(store)
	for _, req := range [][]string{nil, {}, {"", "  "}} {
		ranking, err := e.RankResumesByKeywords(context.Background(), jobID, req)
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "kubernetes"}, ranking.Keywords)
		require.Len(t, ranking.Rankings, 1)
		assert.Equal(t, 1.0, ranking.Rankings[0].Score)
		// Distinct original spellings are all reported.
		assert.Equal(t, []string{"Go", "Kubernetes", "go"}, ranking.Rankings[0].MatchedSkills)
	}
}

func TestRankResumesByKeywords_RequestOverridesSaved(t *testing.T) {
	store := memstore.New()
	jobID := uuid.New()
	c := newCandidate("Ada", []string{"rust"}, 0)
	store.AddFeatures(c)
	store.AddApplication(jobID, c.ResumeID)
	require.NoError(t, store.SaveJobKeywords(context.Background(), jobID, []string{"go"}))

	ranking, err := NewEngine(store).RankResumesByKeywords(context.Background(), jobID, []string{"Rust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust"}, ranking.Keywords)
	assert.Equal(t, 1.0, ranking.Rankings[0].Score)
}

func TestRankResumesByKeywords_NoKeywords(t *testing.T) {
	store := memstore.New()
	jobID := uuid.New()
	c := newCandidate("Ada", []string{"go"}, 0)
	store.AddFeatures(c)
	store.AddApplication(jobID, c.ResumeID)

	ranking, err := NewEngine(store).RankResumesByKeywords(context.Background(), jobID, nil)
	assert.ErrorIs(t, err, ErrNoKeywords)
	assert.Nil(t, ranking)
}

func TestRankResumesByKeywords_NoApplicants(t *testing.T) {
	jobID := uuid.New()
	ranking, err := NewEngine(memstore.New()).RankResumesByKeywords(context.Background(), jobID, []string{"go"})
	require.NoError(t, err)

	data, err := json.Marshal(ranking)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jobId":"`+jobID.String()+`","keywords":["go"],"rankings":[]}`, string(data))
}

func TestRankResumesByKeywords_StoreError(t *testing.T) {
	boom := errors.New("timeout")
	store := failingStore{Store: memstore.New(), err: boom}

	_, err := NewEngine(store).RankResumesByKeywords(context.Background(), uuid.New(), []string{"go"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to list applicant features")
}

func TestCleanKeywords(t *testing.T) {
	assert.Equal(t, []string{"Go", " SQL "}, cleanKeywords([]string{"", "Go", "   ", " SQL "}))
	assert.Empty(t, cleanKeywords(nil))
}

func TestRankDescending(t *testing.T) {
	items := []scored[string]{
		{item: "a", score: 0.2},
		{item: "b", score: 0},
		{item: "c", score: 0.9},
		{item: "d", score: 0.2},
	}

	ranked := rankDescending(items, false, 0)
	got := make([]string, len(ranked))
	for i, r := range ranked {
		got[i] = r.item
	}
	assert.Equal(t, []string{"c", "a", "d"}, got)

	ranked = rankDescending(items, true, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "c", ranked[0].item)
	assert.Equal(t, "a", ranked[1].item)

	// The input is not reordered.
	assert.Equal(t, "a", items[0].item)
}
