package analytics

import (
	"sort"

	"censorcheck/internal/analyzer"
)

// StatusCounts tallies items per status.
func StatusCounts(items []analyzer.Item) map[analyzer.Status]int {
	counts := make(map[analyzer.Status]int)
	for _, it := range items {
		counts[it.Status]++
	}
	return counts
}

// RecordStatusCounts tallies stored item records per status.
func RecordStatusCounts(items []analyzer.ItemRecord) map[analyzer.Status]int {
	counts := make(map[analyzer.Status]int)
	for _, it := range items {
		counts[it.Status]++
	}
	return counts
}

// SortedStatuses returns the statuses present in counts, in declaration order.
func SortedStatuses(counts map[analyzer.Status]int) []analyzer.Status {
	order := make(map[analyzer.Status]int)
	for i, s := range analyzer.Statuses() {
		order[s] = i
	}
	keys := make([]analyzer.Status, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return order[keys[i]] < order[keys[j]] })
	return keys
}

// CensoredShare is the fraction of items in a CENSORED_* status.
func CensoredShare(items []analyzer.Item) float64 {
	if len(items) == 0 {
		return 0
	}
	n := 0
	for _, it := range items {
		if it.Status.Censored() {
			n++
		}
	}
	return float64(n) / float64(len(items))
}
