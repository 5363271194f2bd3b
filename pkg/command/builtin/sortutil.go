package builtin

import (
	"sort"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// stableSort, stableSort2, and stableSortStrings wrap sort.SliceStable with
// a three-way comparator, matching Rust's Vec::sort_by semantics (spec §8,
// "Sort-by-field stability": ties preserve relative order).

func stableSort(rows [][]value.Value, less func(a, b []value.Value) int) {
	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i], rows[j]) < 0
	})
}

func stableSort2(items []value.Value, cmp func(a, b value.Value) int) {
	sort.SliceStable(items, func(i, j int) bool {
		return cmp(items[i], items[j]) < 0
	})
}

func stableSortStrings(lines []string, cmp func(a, b string) int) {
	sort.SliceStable(lines, func(i, j int) bool {
		return cmp(lines[i], lines[j]) < 0
	})
}
