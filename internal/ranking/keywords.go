package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/similarity"
	"github.com/jonathan/jobmatch/internal/types"
	"golang.org/x/sync/errgroup"
)

// keywordScorePlaces is the rounding applied to keyword ranking scores.
const keywordScorePlaces = 4

// RankResumesByKeywords scores every applicant of a job by the Jaccard index between
// the keyword set and the applicant's skills. Request keywords take precedence over
// the job's saved keywords; when both are empty ErrNoKeywords is returned.
// All applicants are returned, zero scores included.
func (e *Engine) RankResumesByKeywords(ctx context.Context, jobID uuid.UUID, keywords []string) (_ *types.KeywordRanking, err error) {
	start := time.Now()
	poolSize, results := 0, 0
	defer func() { e.observe(OpRankKeywords, start, poolSize, results, err) }()

	kw := cleanKeywords(keywords)

	var applicants []types.CandidateFeatures

	g, gctx := errgroup.WithContext(ctx)
	if len(kw) == 0 {
		g.Go(func() error {
			saved, err := e.store.GetJobKeywords(gctx, jobID)
			if err != nil {
				return fmt.Errorf("failed to get job keywords: %w", err)
			}
			kw = cleanKeywords(saved)
			return nil
		})
	}
	g.Go(func() error {
		a, err := e.store.ListApplicantFeatures(gctx, jobID)
		if err != nil {
			return fmt.Errorf("failed to list applicant features: %w", err)
		}
		applicants = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fetchErr(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(kw) == 0 {
		return nil, ErrNoKeywords
	}

	ranking := &types.KeywordRanking{
		JobID:    jobID.String(),
		Keywords: kw,
		Rankings: []types.CandidateRanking{},
	}
	if len(applicants) == 0 {
		return ranking, nil
	}
	poolSize = len(applicants)

	lowered := make(map[string]struct{}, len(kw))
	for _, k := range kw {
		lowered[strings.ToLower(k)] = struct{}{}
	}

	candidates := make([]scored[*types.CandidateFeatures], len(applicants))
	for i := range applicants {
		candidates[i] = scored[*types.CandidateFeatures]{
			item:  &applicants[i],
			score: similarity.Round(similarity.Jaccard(kw, applicants[i].Skills), keywordScorePlaces),
		}
	}

	ranked := rankDescending(candidates, true, 0)
	ranking.Rankings = make([]types.CandidateRanking, len(ranked))
	for i, r := range ranked {
		ranking.Rankings[i] = FormatCandidateRanking(r.item, r.score, matchedSkills(r.item.Skills, lowered))
	}
	results = len(ranking.Rankings)
	return ranking, nil
}

// cleanKeywords drops blank entries and keeps the rest in order, untrimmed.
func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}

// matchedSkills returns the distinct skills whose lower-cased form is a keyword, sorted.
// Skills keep their original casing.
func matchedSkills(skills []string, keywords map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0)
	for _, s := range skills {
		if _, ok := keywords[strings.ToLower(s)]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
