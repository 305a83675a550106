package stats

import (
	"math"
	"strings"
	"unicode/utf16"
)

// Palette holds the fixed chart colors.
var Palette = [10]string{
	"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6",
	"#ec4899", "#6366f1", "#14b8a6", "#f97316", "#6b7280",
}

const (
	EmptyColor    = "#e5e7eb"
	NoRecordsText = "No records"
)

// Keyword buckets, checked in order; first match wins. A user category that
// merely contains one of these words (e.g. "会議その他") lands in that bucket.
var keywordColors = []struct {
	keyword string
	index   int
}{
	{"電話", 0},
	{"相談", 1},
	{"メール", 2},
	{"至急", 3},
	{"その他", 9},
}

// ColorFor returns the palette color for a category. It is a pure function of
// the string, so colors stay stable without a stored color table.
func ColorFor(category string) string {
	return Palette[ColorIndex(category)]
}

func ColorIndex(category string) int {
	for _, kc := range keywordColors {
		if strings.Contains(category, kc.keyword) {
			return kc.index
		}
	}
	// Sum of UTF-16 code units, so emoji hash the same way a browser would.
	sum := 0
	for _, u := range utf16.Encode([]rune(category)) {
		sum += int(u)
	}
	return sum % len(Palette)
}

// Segment is one slice of the pie, in degrees.
type Segment struct {
	Category string
	Color    string
	Start    float64
	End      float64
}

type Pie struct {
	Segments []Segment
	Empty    bool
}

// PieFor splits 360 degrees between the categories of s, proportional to
// their counts. Segments are contiguous and the last one ends at exactly 360.
func PieFor(s Summary) Pie {
	if s.Count == 0 || len(s.Categories) == 0 {
		return Pie{
			Segments: []Segment{{Color: EmptyColor, Start: 0, End: 360}},
			Empty:    true,
		}
	}
	total := float64(s.Count)
	segments := make([]Segment, 0, len(s.Categories))
	current := 0.0
	for _, c := range s.Categories {
		degrees := float64(c.Count) / total * 360
		segments = append(segments, Segment{
			Category: c.Category,
			Color:    ColorFor(c.Category),
			Start:    current,
			End:      current + degrees,
		})
		current += degrees
	}
	segments[len(segments)-1].End = 360
	return Pie{Segments: segments}
}

// LegendRow is one line of the legend next to the pie.
type LegendRow struct {
	Category string
	Color    string
	Count    int
	Percent  int
}

// Legend returns one row per category. Percentages round half up. An empty
// summary has no rows; callers show NoRecordsText instead.
func Legend(s Summary) []LegendRow {
	if s.Count == 0 {
		return nil
	}
	rows := make([]LegendRow, 0, len(s.Categories))
	for _, c := range s.Categories {
		pct := float64(c.Count) / float64(s.Count) * 100
		rows = append(rows, LegendRow{
			Category: c.Category,
			Color:    ColorFor(c.Category),
			Count:    c.Count,
			Percent:  int(math.Floor(pct + 0.5)),
		})
	}
	return rows
}
