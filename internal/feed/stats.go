package feed

import (
	"time"

	"github.com/classora/classora-BE/internal/notifstore"
)

// Snapshot is the complete aggregation result handed to every consumer. It
// is recomputed wholesale on each pass and never patched in place, which is
// what keeps the bell badge, the notification list and the dashboard in
// agreement.
type Snapshot struct {
	TotalCount     int                         `json:"total_count"`
	UnreadCount    int64                       `json:"unread_count"`
	CategoryCounts map[notifstore.Category]int `json:"category_counts"`
	LateCount      int                         `json:"late_count"`
	TodayCount     int                         `json:"today_count"`
	Feed           []ActivityEvent             `json:"feed"`
	GeneratedAt    time.Time                   `json:"generated_at"`
}

// BuildSnapshot derives the statistics from the merged timeline and the raw
// notification set.
//
// unreadCount is taken from the store count passed in, never from the merged
// feed: the store is the single cross-view source of truth for unread state.
//
// Category counts take the larger of the feed-derived and store-derived
// count per category. The two sources can lag each other (a quiz attempt may
// exist before its notification is written, or vice versa) and undercounting
// is worse than slight overcounting.
func BuildSnapshot(merged []ActivityEvent, notifications []notifstore.Notification, unreadCount int64, window int, now time.Time, loc *time.Location) Snapshot {
	feedCounts := make(map[notifstore.Category]int)
	storeCounts := make(map[notifstore.Category]int)

	lateCount := 0
	todayCount := 0
	for _, event := range merged {
		feedCounts[event.Type]++
		if event.Status == StatusLate {
			lateCount++
		}
		if sameCalendarDay(event.Timestamp, now, loc) {
			todayCount++
		}
	}

	for _, n := range notifications {
		storeCounts[n.Category]++
	}

	categoryCounts := make(map[notifstore.Category]int)
	for c, count := range feedCounts {
		categoryCounts[c] = count
	}
	for c, count := range storeCounts {
		if count > categoryCounts[c] {
			categoryCounts[c] = count
		}
	}

	return Snapshot{
		TotalCount:     len(merged),
		UnreadCount:    unreadCount,
		CategoryCounts: categoryCounts,
		LateCount:      lateCount,
		TodayCount:     todayCount,
		Feed:           Window(merged, window),
		GeneratedAt:    now,
	}
}

// sameCalendarDay reports whether two instants fall on the same calendar day
// of the caller's location.
func sameCalendarDay(t, now time.Time, loc *time.Location) bool {
	y1, m1, d1 := t.In(loc).Date()
	y2, m2, d2 := now.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
