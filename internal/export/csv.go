// Package export serializes the interruption log to CSV and writes it out.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"interruptlog/internal/event"
)

var ErrNoLogs = errors.New("no recorded data to export")

const Header = "Timestamp,Date,Time,Category,TaskType,Memo,Duration(sec),Duration(fmt)"

// BOM lets spreadsheet tools detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// ToCSV renders logs in list order, oldest first. Text columns are always
// quoted with embedded quotes doubled. Date and time use the locale layout in
// the location of loc (time.Local when nil).
func ToCSV(logs []event.LogEntry, layout Layout, loc *time.Location) ([]byte, error) {
	if len(logs) == 0 {
		return nil, ErrNoLogs
	}
	if loc == nil {
		loc = time.Local
	}

	var buf bytes.Buffer
	buf.Write(BOM)
	buf.WriteString(Header)
	buf.WriteByte('\n')

	for _, l := range logs {
		ts := l.Time().In(loc)
		duration := l.Duration
		if duration < 0 {
			duration = 0
		}
		fields := []string{
			strconv.FormatInt(l.Timestamp, 10),
			ts.Format(layout.Date),
			ts.Format(layout.Time),
			quote(l.Category),
			quote(l.TaskType),
			quote(l.Memo),
			strconv.FormatInt(duration, 10),
			quote(FormatDuration(duration)),
		}
		buf.WriteString(strings.Join(fields, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// FormatDuration renders seconds as "{m}m{s}s".
func FormatDuration(seconds int64) string {
	return fmt.Sprintf("%dm%ds", seconds/60, seconds%60)
}

// FileName is the suggested download name for an export made at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("interruption_logs_%04d%02d%02d.csv", now.Year(), int(now.Month()), now.Day())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
