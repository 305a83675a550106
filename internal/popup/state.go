// Package popup holds the application state and the command handlers that
// drive it. Handlers are pure: they return the next state and the side effects
// (writes, prompts, downloads, timer control) for the caller to carry out.
package popup

import (
	"time"

	"interruptlog/internal/event"
	"interruptlog/internal/export"
	"interruptlog/internal/lifecycle"
	"interruptlog/internal/stats"
	"interruptlog/internal/storage"
)

type View string

const (
	ViewMain     View = "main"
	ViewTracking View = "tracking"
	ViewSettings View = "settings"
)

type State struct {
	Logs       []event.LogEntry
	Current    *event.CurrentInterruption
	Categories []string
	TaskTypes  []string
	View       View
}

// Defaults are the fallback lists for keys the store has never seen.
type Defaults struct {
	Categories []string
	TaskTypes  []string
}

// Env is the per-event context a handler needs besides the state.
type Env struct {
	Now    time.Time
	Layout export.Layout
}

// Restore builds the state recovered from a store snapshot. An existing
// current interruption resumes the Tracking view.
func Restore(snap storage.Snapshot, defaults Defaults) State {
	s := State{
		Logs:       snap.Logs,
		Current:    snap.Current,
		Categories: snap.Categories,
		TaskTypes:  snap.TaskTypes,
		View:       ViewMain,
	}
	if !snap.HasCategories {
		s.Categories = clone(defaults.Categories)
	}
	if !snap.HasTaskTypes {
		s.TaskTypes = clone(defaults.TaskTypes)
	}
	if s.Current != nil {
		s.View = ViewTracking
	}
	return s
}

// Reloaded merges a fresh snapshot into s, keeping the settings view open when
// it is still reachable.
func (s State) Reloaded(snap storage.Snapshot, defaults Defaults) State {
	next := Restore(snap, defaults)
	if next.View == ViewMain && s.View == ViewSettings {
		next.View = ViewSettings
	}
	return next
}

func (s State) Lifecycle() lifecycle.State {
	return lifecycle.StateOf(s.Current)
}

func (s State) List(kind event.ListKind) []string {
	if kind == event.KindTaskType {
		return s.TaskTypes
	}
	return s.Categories
}

func (s State) withList(kind event.ListKind, list []string) State {
	if kind == event.KindTaskType {
		s.TaskTypes = list
	} else {
		s.Categories = list
	}
	return s
}

// Today summarises today's logs relative to now.
func (s State) Today(now time.Time) stats.Summary {
	return stats.ForToday(s.Logs, now)
}

// Elapsed is the tracked time so far, zero when idle.
func (s State) Elapsed(now time.Time) time.Duration {
	return lifecycle.Elapsed(s.Current, now)
}

func listKey(kind event.ListKind) storage.Key {
	if kind == event.KindTaskType {
		return storage.KeyTaskTypes
	}
	return storage.KeyCategories
}

func clone(list []string) []string {
	if list == nil {
		return []string{}
	}
	return append([]string(nil), list...)
}
