package stats

import (
	"fmt"
	"time"

	"interruptlog/internal/event"
)

// CategoryCount is one category of a Summary, in first-seen order.
type CategoryCount struct {
	Category string
	Count    int
}

type Summary struct {
	Count        int
	TotalSeconds int64
	Categories   []CategoryCount
	Counts       map[string]int
}

// StartOfDay returns local midnight of the calendar day containing now, in
// now's location.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// ForToday aggregates the logs whose timestamp is on or after midnight of
// now's day.
func ForToday(logs []event.LogEntry, now time.Time) Summary {
	cutoff := StartOfDay(now).UnixMilli()
	s := Summary{Counts: make(map[string]int)}
	for _, l := range logs {
		if l.Timestamp < cutoff {
			continue
		}
		s.Count++
		if l.Duration > 0 {
			s.TotalSeconds += l.Duration
		}
		if _, seen := s.Counts[l.Category]; !seen {
			s.Categories = append(s.Categories, CategoryCount{Category: l.Category})
		}
		s.Counts[l.Category]++
	}
	for i := range s.Categories {
		s.Categories[i].Count = s.Counts[s.Categories[i].Category]
	}
	return s
}

// FormatTotal renders a total as "{h}h {m}m", dropping the hours when zero.
func FormatTotal(totalSeconds int64) string {
	minutes := totalSeconds / 60
	hours := minutes / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}
