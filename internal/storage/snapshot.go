package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"interruptlog/internal/event"
)

// Snapshot is the decoded content of the four application keys.
// HasCategories/HasTaskTypes distinguish "never saved" from "saved empty".
type Snapshot struct {
	Logs          []event.LogEntry           `yaml:"logs"`
	Current       *event.CurrentInterruption `yaml:"current"`
	Categories    []string                   `yaml:"categories"`
	TaskTypes     []string                   `yaml:"task_types"`
	HasCategories bool                       `yaml:"-"`
	HasTaskTypes  bool                       `yaml:"-"`
}

// Values is a pending write, keyed by storage key. Values are JSON encoded on
// Put; a nil *event.CurrentInterruption is stored as null.
type Values map[Key]any

// Load reads and decodes all application keys.
func Load(ctx context.Context, s Storage) (Snapshot, error) {
	raw, err := s.Get(ctx, AllKeys...)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read store: %w", err)
	}

	var snap Snapshot
	if data, ok := raw[KeyLogs]; ok && !isNull(data) {
		if err := json.Unmarshal(data, &snap.Logs); err != nil {
			return Snapshot{}, fmt.Errorf("failed to decode %s: %w", KeyLogs, err)
		}
	}
	if data, ok := raw[KeyCurrent]; ok && !isNull(data) {
		var cur event.CurrentInterruption
		if err := json.Unmarshal(data, &cur); err != nil {
			return Snapshot{}, fmt.Errorf("failed to decode %s: %w", KeyCurrent, err)
		}
		snap.Current = &cur
	}
	if data, ok := raw[KeyCategories]; ok && !isNull(data) {
		if err := json.Unmarshal(data, &snap.Categories); err != nil {
			return Snapshot{}, fmt.Errorf("failed to decode %s: %w", KeyCategories, err)
		}
		snap.HasCategories = true
	}
	if data, ok := raw[KeyTaskTypes]; ok && !isNull(data) {
		if err := json.Unmarshal(data, &snap.TaskTypes); err != nil {
			return Snapshot{}, fmt.Errorf("failed to decode %s: %w", KeyTaskTypes, err)
		}
		snap.HasTaskTypes = true
	}
	return snap, nil
}

// Put encodes values and writes them in one Set call.
func Put(ctx context.Context, s Storage, values Values) error {
	encoded := make(map[Key][]byte, len(values))
	for k, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", k, err)
		}
		encoded[k] = data
	}
	if err := s.Set(ctx, encoded); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}

// Values returns every key of the snapshot as a write, for restores. A list
// the snapshot does not carry is written as null, which Load reads as absent.
func (s Snapshot) Values() Values {
	logs := s.Logs
	if logs == nil {
		logs = []event.LogEntry{}
	}
	v := Values{
		KeyLogs:       logs,
		KeyCurrent:    s.Current,
		KeyCategories: nil,
		KeyTaskTypes:  nil,
	}
	if s.HasCategories || s.Categories != nil {
		v[KeyCategories] = nonNil(s.Categories)
	}
	if s.HasTaskTypes || s.TaskTypes != nil {
		v[KeyTaskTypes] = nonNil(s.TaskTypes)
	}
	return v
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func isNull(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
