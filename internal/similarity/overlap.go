package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/jobmatch/internal/textproc"
)

// maxSharedInReason caps how many shared tags are listed in a match reason.
const maxSharedInReason = 6

// TagSet normalises skills into a set of tags. Empty inputs are skipped; a skill that
// normalises to "" still counts as the empty tag.
func TagSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if s == "" {
			continue
		}
		set[textproc.NormalizeTag(s)] = struct{}{}
	}
	return set
}

// OverlapCoefficient scores two skill lists as |A∩B| / sqrt(|A|·|B|) over normalised tags,
// rounded to 4 places. Returns 0 when either side has no tags.
func OverlapCoefficient(a, b []string) float64 {
	setA, setB := TagSet(a), TagSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	inter := intersectionSize(setA, setB)
	denom := math.Sqrt(float64(len(setA) * len(setB)))
	if denom == 0 {
		return 0.0
	}
	return Round(float64(inter)/denom, 4)
}

// SharedTags returns the normalised tags present in both lists, sorted alphabetically.
func SharedTags(a, b []string) []string {
	setA, setB := TagSet(a), TagSet(b)
	shared := make([]string, 0)
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			shared = append(shared, tag)
		}
	}
	sort.Strings(shared)
	return shared
}

// SharedSkillsReason formats up to six shared tags as "Shared skills: a, b".
// Returns "" when nothing is shared.
func SharedSkillsReason(shared []string) string {
	if len(shared) == 0 {
		return ""
	}
	if len(shared) > maxSharedInReason {
		shared = shared[:maxSharedInReason]
	}
	return "Shared skills: " + strings.Join(shared, ", ")
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
