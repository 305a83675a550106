package storage

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"interruptlog/internal/event"
)

// backupDoc is the YAML form of a Snapshot. Pointer lists keep "absent" apart
// from "empty".
type backupDoc struct {
	Logs       []event.LogEntry           `yaml:"logs"`
	Current    *event.CurrentInterruption `yaml:"current,omitempty"`
	Categories *[]string                  `yaml:"categories,omitempty"`
	TaskTypes  *[]string                  `yaml:"task_types,omitempty"`
}

// WriteBackup encodes snap as YAML.
func WriteBackup(w io.Writer, snap Snapshot) error {
	doc := backupDoc{Logs: snap.Logs, Current: snap.Current}
	if doc.Logs == nil {
		doc.Logs = []event.LogEntry{}
	}
	if snap.HasCategories {
		list := nonNil(snap.Categories)
		doc.Categories = &list
	}
	if snap.HasTaskTypes {
		list := nonNil(snap.TaskTypes)
		doc.TaskTypes = &list
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return enc.Close()
}

// ReadBackup decodes a YAML backup written by WriteBackup.
func ReadBackup(r io.Reader) (Snapshot, error) {
	var doc backupDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return Snapshot{}, fmt.Errorf("failed to decode backup: empty document")
		}
		return Snapshot{}, fmt.Errorf("failed to decode backup: %w", err)
	}

	snap := Snapshot{Logs: doc.Logs, Current: doc.Current}
	if doc.Categories != nil {
		snap.Categories = nonNil(*doc.Categories)
		snap.HasCategories = true
	}
	if doc.TaskTypes != nil {
		snap.TaskTypes = nonNil(*doc.TaskTypes)
		snap.HasTaskTypes = true
	}
	for i, e := range snap.Logs {
		if e.Category == "" {
			return Snapshot{}, fmt.Errorf("backup log %d has no category", i)
		}
	}
	if snap.Current != nil && snap.Current.Category == "" {
		return Snapshot{}, fmt.Errorf("backup current interruption has no category")
	}
	return snap, nil
}
