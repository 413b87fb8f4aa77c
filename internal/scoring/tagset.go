package scoring

import "strings"

// tagSet builds a case-folded set from a tag list, deduplicating.
func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// intersectionCount counts distinct case-folded tags present in both a and b.
func intersectionCount(a, b []string) int {
	setA := tagSet(a)
	setB := tagSet(b)
	count := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			count++
		}
	}
	return count
}

// union merges two tag lists into one case-folded set.
func union(a, b []string) []string {
	merged := make(map[string]struct{}, len(a)+len(b))
	for t := range tagSet(a) {
		merged[t] = struct{}{}
	}
	for t := range tagSet(b) {
		merged[t] = struct{}{}
	}
	out := make([]string, 0, len(merged))
	for t := range merged {
		out = append(out, t)
	}
	return out
}
