package similarity

import "strings"

// Jaccard returns |A∩B| / |A∪B| over the lower-cased elements of a and b.
// Unlike OverlapCoefficient it does not normalise separators and does not round.
func Jaccard(a, b []string) float64 {
	setA, setB := lowerSet(a), lowerSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	inter := intersectionSize(setA, setB)
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[strings.ToLower(it)] = struct{}{}
	}
	return set
}
