package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"interruptlog/internal/event"
)

func TestToCSVEscapesQuotes(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	ts := time.Date(2026, 10, 18, 9, 5, 3, 0, tokyo)
	logs := []event.LogEntry{{
		Timestamp: ts.UnixMilli(),
		Category:  "📞 電話",
		Duration:  125,
		Memo:      `customer said "urgent"`,
		TaskType:  `設計 "v2"`,
	}}

	out, err := ToCSV(logs, LayoutFor("ja-JP"), tokyo)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, BOM))

	lines := strings.Split(strings.TrimSuffix(string(out[len(BOM):]), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])

	want := strings.Join([]string{
		strconv.FormatInt(ts.UnixMilli(), 10),
		"2026/10/18",
		"09:05:03",
		`"📞 電話"`,
		`"設計 ""v2"""`,
		`"customer said ""urgent"""`,
		"125",
		`"2m5s"`,
	}, ",")
	assert.Equal(t, want, lines[1])
}

func TestToCSVKeepsListOrder(t *testing.T) {
	logs := []event.LogEntry{
		{Timestamp: 3000, Category: "c"},
		{Timestamp: 1000, Category: "a"},
	}
	out, err := ToCSV(logs, LayoutFor(""), time.UTC)
	require.NoError(t, err)
	lines := strings.Split(string(out), "\n")
	assert.True(t, strings.HasPrefix(lines[1], "3000,"))
	assert.True(t, strings.HasPrefix(lines[2], "1000,"))
	assert.Contains(t, lines[1], `"",""`, "empty memo and task type are still quoted")
}

func TestToCSVEmpty(t *testing.T) {
	_, err := ToCSV(nil, LayoutFor(""), nil)
	assert.ErrorIs(t, err, ErrNoLogs)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m0s", FormatDuration(0))
	assert.Equal(t, "1m5s", FormatDuration(65))
	assert.Equal(t, "61m1s", FormatDuration(3661))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "interruption_logs_20260305.csv", FileName(time.Date(2026, 3, 5, 23, 0, 0, 0, time.UTC)))
}

func TestLayoutFor(t *testing.T) {
	assert.Equal(t, language.Japanese, LayoutFor("ja_JP.UTF-8").Tag)
	assert.Equal(t, language.German, LayoutFor("de_DE.UTF-8").Tag)
	assert.Equal(t, language.AmericanEnglish, LayoutFor("").Tag)
	assert.Equal(t, language.AmericanEnglish, LayoutFor("C").Tag)
	assert.Equal(t, language.AmericanEnglish, LayoutFor("not a locale!").Tag)

	us := LayoutFor("en-US")
	ts := time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "10/18/2026", ts.Format(us.Date))
	assert.Equal(t, "3:04:05 PM", ts.Format(us.Time))
}

func TestSaveDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()

	p1, err := Save(dir, "interruption_logs_20260101.csv", []byte("one"))
	require.NoError(t, err)
	p2, err := Save(dir, "interruption_logs_20260101.csv", []byte("two"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "interruption_logs_20260101.csv"), p1)
	assert.Equal(t, filepath.Join(dir, "interruption_logs_20260101 (1).csv"), p2)

	data, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.csv")
	require.NoError(t, WriteFile(path, []byte("a")))
	require.NoError(t, WriteFile(path, []byte("b")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestSaveRemovesPartialFileOnWriteError(t *testing.T) {
	dir := t.TempDir()
	orig := createNew
	t.Cleanup(func() { createNew = orig })
	// a read-only handle makes every Write fail after the file exists
	createNew = func(path string) (*os.File, error) {
		return os.OpenFile(path, os.O_RDONLY|os.O_CREATE|os.O_EXCL, 0644)
	}

	_, err := Save(dir, "interruption_logs_20260101.csv", []byte("data"))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "interruption_logs_20260101.csv"))

	createNew = orig
	path, err := Save(dir, "interruption_logs_20260101.csv", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "interruption_logs_20260101.csv"), path, "name is still free")
}
