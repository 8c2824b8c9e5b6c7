package util

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatRelativeTime renders a timestamp as a human-friendly relative string.
// Example: "3 minutes ago".
func FormatRelativeTime(t time.Time) string {
	return humanize.Time(t)
}

// FormatScore renders a quiz result as "score/maxScore".
// Example: 8, 10 -> "8/10".
func FormatScore(score, maxScore int64) string {
	return fmt.Sprintf("%d/%d", score, maxScore)
}

func StringPointer(s string) *string {
	return &s
}
