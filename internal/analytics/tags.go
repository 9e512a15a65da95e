package analytics

import (
	"sort"

	"cfanalyzer/internal/codeforces"
)

// DefaultWeakTags is how many weak tags drive recommendations.
const DefaultWeakTags = 3

// TagStat counts submissions touching one tag.
type TagStat struct {
	Name           string  `json:"name"`
	Accepted       int     `json:"accepted"`
	Total          int     `json:"total"`
	AcceptanceRate float64 `json:"acceptanceRate"`
}

// TagStats counts every (submission, tag) pair. The result keeps the order in
// which tags were first seen, so callers get a stable chart order.
func TagStats(subs []codeforces.Submission) []TagStat {
	index := make(map[string]int)
	stats := make([]TagStat, 0)
	for _, sub := range subs {
		for _, tag := range sub.Problem.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(stats)
				index[tag] = i
				stats = append(stats, TagStat{Name: tag})
			}
			stats[i].Total++
			if sub.Accepted() {
				stats[i].Accepted++
			}
		}
	}
	for i := range stats {
		if stats[i].Total > 0 {
			stats[i].AcceptanceRate = float64(stats[i].Accepted) / float64(stats[i].Total)
		}
	}
	return stats
}

// WeakTags returns up to n tag names with the lowest acceptance rate.
// Ties keep their first-seen order.
func WeakTags(stats []TagStat, n int) []string {
	if n <= 0 {
		n = DefaultWeakTags
	}
	sorted := make([]TagStat, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AcceptanceRate < sorted[j].AcceptanceRate
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	names := make([]string, 0, n)
	for _, s := range sorted[:n] {
		names = append(names, s.Name)
	}
	return names
}

// SolvedSet holds "{contestId}-{index}" keys of accepted problems.
type SolvedSet map[string]struct{}

// Solved builds the set of problems with at least one accepted submission.
func Solved(subs []codeforces.Submission) SolvedSet {
	set := make(SolvedSet)
	for _, sub := range subs {
		if sub.Accepted() {
			set[sub.Problem.Key()] = struct{}{}
		}
	}
	return set
}

func (s SolvedSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s SolvedSet) Len() int {
	return len(s)
}
