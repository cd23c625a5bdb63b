package ranking

import (
	"context"
	"sort"
)

// scored pairs a pool entity with its similarity score.
type scored[T any] struct {
	item  T
	score float64
}

// rankDescending filters out non-positive scores unless keepZero is set, sorts by
// score descending and truncates to limit (limit < 1 keeps everything).
// The sort is stable, so equal scores keep their pool order.
func rankDescending[T any](items []scored[T], keepZero bool, limit int) []scored[T] {
	kept := items[:0:0]
	for _, it := range items {
		if keepZero || it.score > 0 {
			kept = append(kept, it)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// fetchErr prefers the caller's context error so cancellation is reported as such.
func fetchErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
