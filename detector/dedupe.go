package detector

import (
	"sort"
	"unicode/utf8"
)

// dedupe sorts hits by span and keeps one hit per overlap cluster: the one
// with the longest keyword, then the widest span, then the earliest. Hits
// that overlap nothing are always kept.
func dedupe(hits []Hit) []Hit {
	if len(hits) == 0 {
		return nil
	}

	sorted := append([]Hit(nil), hits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var clusters [][]Hit
	first, reach := 0, sorted[0].End
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < reach {
			if sorted[i].End > reach {
				reach = sorted[i].End
			}
			continue
		}
		clusters = append(clusters, sorted[first:i])
		first, reach = i, sorted[i].End
	}
	clusters = append(clusters, sorted[first:])

	out := make([]Hit, 0, len(clusters))
	for _, cluster := range clusters {
		out = append(out, longestKeyword(cluster))
	}
	return out
}

// longestKeyword picks the cluster winner. Fragment hits share their
// keyword's name, so the span width decides between a whole match and its
// fragments.
func longestKeyword(cluster []Hit) Hit {
	best := cluster[0]
	bestLen := utf8.RuneCountInString(best.Keyword)
	for _, h := range cluster[1:] {
		n := utf8.RuneCountInString(h.Keyword)
		if n > bestLen || (n == bestLen && h.End-h.Start > best.End-best.Start) {
			best, bestLen = h, n
		}
	}
	return best
}
