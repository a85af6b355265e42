// Package reconcile combines registry extracts and joins them with the
// directory export by organisation code.
package reconcile

import (
	"github.com/agentstation/practicemap/pkg/records"
)

// MergeStats describes one merge.
type MergeStats struct {
	// Sources is the number of mappings folded.
	Sources int
	// Overridden counts codes whose record was replaced by a later source.
	Overridden int
	// Total is the number of codes in the result.
	Total int
}

// Merge folds registry mappings left to right. For a code present in more
// than one source, the record from the later source replaces the earlier one
// whole. The sources are not modified.
func Merge(sources ...map[string]records.RegistryRecord) map[string]records.RegistryRecord {
	merged, _ := MergeWithStats(sources...)
	return merged
}

// MergeWithStats is Merge that also reports how many records were overridden.
func MergeWithStats(sources ...map[string]records.RegistryRecord) (map[string]records.RegistryRecord, MergeStats) {
	size := 0
	for _, src := range sources {
		size = max(size, len(src))
	}

	merged := make(map[string]records.RegistryRecord, size)
	stats := MergeStats{Sources: len(sources)}
	for _, src := range sources {
		for code, rec := range src {
			if _, exists := merged[code]; exists {
				stats.Overridden++
			}
			merged[code] = rec
		}
	}
	stats.Total = len(merged)

	return merged, stats
}
