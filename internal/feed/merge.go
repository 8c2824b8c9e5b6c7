package feed

import (
	"sort"
)

// Merge combines any number of candidate event lists into one deduplicated,
// recency-ordered timeline. Events are keyed by their normalized id; the last
// candidate for a given id wins, so feeding the same lists twice produces
// identical output.
func Merge(lists ...[]ActivityEvent) []ActivityEvent {
	byID := make(map[string]ActivityEvent)
	for _, list := range lists {
		for _, event := range list {
			byID[event.ID] = event
		}
	}

	merged := make([]ActivityEvent, 0, len(byID))
	for _, event := range byID {
		merged = append(merged, event)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Timestamp.Equal(merged[j].Timestamp) {
			return merged[i].Timestamp.After(merged[j].Timestamp)
		}
		// Ties break by id ascending so output is deterministic.
		return merged[i].ID < merged[j].ID
	})

	return merged
}

// Window bounds the display feed to its most recent entries. Statistics are
// computed before windowing, so truncation never changes any count.
func Window(events []ActivityEvent, size int) []ActivityEvent {
	if size <= 0 || len(events) <= size {
		return events
	}
	return events[:size]
}
