// Package lifecycle implements the Idle/Tracking state machine of the single
// in-flight interruption. Functions never mutate their inputs; callers persist
// the returned record before treating the transition as done.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"interruptlog/internal/event"
)

type State string

const (
	StateIdle     State = "Idle"
	StateTracking State = "Tracking"
)

var (
	ErrAlreadyTracking = errors.New("an interruption is already being tracked")
	ErrNotTracking     = errors.New("no interruption is being tracked")
	ErrNoCategory      = errors.New("category cannot be empty")
)

func StateOf(cur *event.CurrentInterruption) State {
	if cur == nil {
		return StateIdle
	}
	return StateTracking
}

// Start opens a new interruption. The task type defaults to the first entry of
// taskTypes, or "" when the list is empty.
func Start(cur *event.CurrentInterruption, category string, taskTypes []string, now time.Time) (*event.CurrentInterruption, error) {
	if cur != nil {
		return nil, ErrAlreadyTracking
	}
	if strings.TrimSpace(category) == "" {
		return nil, ErrNoCategory
	}
	taskType := ""
	if len(taskTypes) > 0 {
		taskType = taskTypes[0]
	}
	return &event.CurrentInterruption{
		Category:  category,
		StartTime: now.UnixMilli(),
		Memo:      "",
		TaskType:  taskType,
	}, nil
}

func EditTaskType(cur *event.CurrentInterruption, value string) (*event.CurrentInterruption, error) {
	if cur == nil {
		return nil, ErrNotTracking
	}
	next := *cur
	next.TaskType = value
	return &next, nil
}

func EditMemo(cur *event.CurrentInterruption, value string) (*event.CurrentInterruption, error) {
	if cur == nil {
		return nil, ErrNotTracking
	}
	next := *cur
	next.Memo = value
	return &next, nil
}

// Complete converts the current interruption into a log entry. Duration is
// floor((now - start) / 1s), never negative.
func Complete(cur *event.CurrentInterruption, now time.Time) (event.LogEntry, error) {
	if cur == nil {
		return event.LogEntry{}, ErrNotTracking
	}
	return event.LogEntry{
		Timestamp: cur.StartTime,
		Category:  cur.Category,
		Duration:  DurationSeconds(cur.StartTime, now),
		Memo:      strings.TrimSpace(cur.Memo),
		TaskType:  cur.TaskType,
	}, nil
}

// Discard checks that there is something to throw away.
func Discard(cur *event.CurrentInterruption) error {
	if cur == nil {
		return ErrNotTracking
	}
	return nil
}

func DurationSeconds(startMs int64, now time.Time) int64 {
	diff := now.UnixMilli() - startMs
	if diff < 0 {
		return 0
	}
	return diff / 1000
}

// Elapsed is the time since start, truncated to whole seconds.
func Elapsed(cur *event.CurrentInterruption, now time.Time) time.Duration {
	if cur == nil {
		return 0
	}
	return time.Duration(DurationSeconds(cur.StartTime, now)) * time.Second
}

// FormatClock renders d as HH:MM:SS. Hours are not capped at 99.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
