// Package listedit edits the user-ordered category and task type lists.
//
// All functions return a fresh slice and leave their input untouched, so a
// failed write can simply drop the result.
package listedit

import (
	"errors"
	"fmt"
	"strings"

	"interruptlog/internal/event"
)

var (
	ErrEmpty           = errors.New("value cannot be empty")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// DuplicateError reports an exact, case-sensitive duplicate on Add.
type DuplicateError struct {
	Kind  event.ListKind
	Value string
}

func (e *DuplicateError) Error() string {
	switch e.Kind {
	case event.KindCategory:
		return fmt.Sprintf("category %q already exists", e.Value)
	case event.KindTaskType:
		return fmt.Sprintf("task type %q already exists", e.Value)
	}
	return fmt.Sprintf("%q already exists", e.Value)
}

// Add trims value and appends it.
func Add(kind event.ListKind, list []string, value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrEmpty
	}
	if IndexOf(list, value) >= 0 {
		return nil, &DuplicateError{Kind: kind, Value: value}
	}
	next := make([]string, 0, len(list)+1)
	next = append(next, list...)
	return append(next, value), nil
}

// Remove drops the element at index; later elements shift down by one.
func Remove(list []string, index int) ([]string, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("remove %d of %d: %w", index, len(list), ErrIndexOutOfRange)
	}
	next := make([]string, 0, len(list)-1)
	next = append(next, list[:index]...)
	return append(next, list[index+1:]...), nil
}

// Reorder removes the element at from and reinserts it at to, counted after
// the removal. A to past the end appends.
func Reorder(list []string, from, to int) ([]string, error) {
	if from < 0 || from >= len(list) {
		return nil, fmt.Errorf("move from %d of %d: %w", from, len(list), ErrIndexOutOfRange)
	}
	if to < 0 {
		return nil, fmt.Errorf("move to %d: %w", to, ErrIndexOutOfRange)
	}
	moved := list[from]
	rest, _ := Remove(list, from)
	if to > len(rest) {
		to = len(rest)
	}
	next := make([]string, 0, len(list))
	next = append(next, rest[:to]...)
	next = append(next, moved)
	return append(next, rest[to:]...), nil
}

func IndexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}

// Handle identifies a list item taking part in a drag: the source on drag
// start, the target on drop.
type Handle struct {
	Kind  event.ListKind
	Index int
}

// Accepts reports whether dropping src onto h is a valid reorder: same list,
// different item.
func (h Handle) Accepts(src Handle) bool {
	return src.Kind == h.Kind && src.Index != h.Index
}
