package popup

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interruptlog/internal/event"
	"interruptlog/internal/export"
	"interruptlog/internal/lifecycle"
	"interruptlog/internal/listedit"
	"interruptlog/internal/storage"
)

var testDefaults = Defaults{Categories: event.DefaultCategories, TaskTypes: event.DefaultTaskTypes}

func envAt(now time.Time) Env {
	return Env{Now: now, Layout: export.LayoutFor("en-US")}
}

func persisted(t *testing.T, effects []Effect) storage.Values {
	t.Helper()
	for _, e := range effects {
		if p, ok := e.(Persist); ok {
			return p.Values
		}
	}
	t.Fatalf("no Persist effect in %#v", effects)
	return nil
}

func hasNotice(effects []Effect) (Notice, bool) {
	for _, e := range effects {
		if n, ok := e.(Notice); ok {
			return n, true
		}
	}
	return Notice{}, false
}

func TestRestoreUsesDefaultsOnlyForMissingKeys(t *testing.T) {
	s := Restore(storage.Snapshot{}, testDefaults)
	assert.Equal(t, event.DefaultCategories, s.Categories)
	assert.Equal(t, event.DefaultTaskTypes, s.TaskTypes)
	assert.Equal(t, ViewMain, s.View)

	s = Restore(storage.Snapshot{HasCategories: true, Categories: []string{}}, testDefaults)
	assert.Empty(t, s.Categories, "a saved empty list stays empty")

	cur := &event.CurrentInterruption{Category: "x", StartTime: 1}
	s = Restore(storage.Snapshot{Current: cur}, testDefaults)
	assert.Equal(t, ViewTracking, s.View)
	assert.Equal(t, lifecycle.StateTracking, s.Lifecycle())
}

func TestRestoreDoesNotAliasDefaults(t *testing.T) {
	s := Restore(storage.Snapshot{}, testDefaults)
	s.Categories[0] = "changed"
	assert.Equal(t, "📞 電話", event.DefaultCategories[0])
}

func TestStartCompleteFlow(t *testing.T) {
	start := time.Date(2026, 10, 18, 10, 0, 0, 0, time.Local)
	s := Restore(storage.Snapshot{}, testDefaults)

	s, effects := s.Apply(Start{Category: "📞 電話"}, envAt(start))
	require.Len(t, effects, 2)
	assert.Equal(t, ViewTracking, s.View)
	cur := persisted(t, effects)[storage.KeyCurrent].(*event.CurrentInterruption)
	assert.Equal(t, "要件定義", cur.TaskType)
	assert.Equal(t, StartTimer{StartTime: time.UnixMilli(start.UnixMilli())}, effects[1])

	s, effects = s.Apply(SetTaskType{Value: "実装"}, envAt(start.Add(time.Second)))
	assert.Equal(t, "実装", persisted(t, effects)[storage.KeyCurrent].(*event.CurrentInterruption).TaskType)

	s, effects = s.Apply(SetMemo{Value: " 見積もりの件 "}, envAt(start.Add(2*time.Second)))
	assert.Equal(t, " 見積もりの件 ", persisted(t, effects)[storage.KeyCurrent].(*event.CurrentInterruption).Memo)

	s, effects = s.Apply(Complete{}, envAt(start.Add(5*time.Second+400*time.Millisecond)))
	values := persisted(t, effects)
	assert.Nil(t, values[storage.KeyCurrent])
	logs := values[storage.KeyLogs].([]event.LogEntry)
	require.Len(t, logs, 1)
	assert.Equal(t, event.LogEntry{
		Timestamp: start.UnixMilli(),
		Category:  "📞 電話",
		Duration:  5,
		Memo:      "見積もりの件",
		TaskType:  "実装",
	}, logs[0])
	assert.Contains(t, effects, Effect(StopTimer{}))

	assert.Nil(t, s.Current)
	assert.Equal(t, ViewMain, s.View)
	assert.Equal(t, logs, s.Logs)
}

func TestStartWhileTrackingIsRejected(t *testing.T) {
	s := Restore(storage.Snapshot{}, testDefaults)
	s, _ = s.Apply(Start{Category: "a"}, envAt(time.Now()))

	next, effects := s.Apply(Start{Category: "b"}, envAt(time.Now()))
	n, ok := hasNotice(effects)
	require.True(t, ok)
	assert.ErrorIs(t, n.Err, lifecycle.ErrAlreadyTracking)
	assert.Len(t, effects, 1)
	assert.Equal(t, "a", next.Current.Category)
}

func TestDiscardProducesNoLog(t *testing.T) {
	s := Restore(storage.Snapshot{}, testDefaults)
	s, _ = s.Apply(Start{Category: "a"}, envAt(time.Now()))

	s, effects := s.Apply(Discard{}, envAt(time.Now()))
	values := persisted(t, effects)
	_, wroteLogs := values[storage.KeyLogs]
	assert.False(t, wroteLogs)
	assert.Nil(t, s.Current)
	assert.Empty(t, s.Logs)
	assert.Equal(t, ViewMain, s.View)

	_, effects = s.Apply(Discard{}, envAt(time.Now()))
	n, ok := hasNotice(effects)
	require.True(t, ok)
	assert.ErrorIs(t, n.Err, lifecycle.ErrNotTracking)
}

func TestSettingsViewGuard(t *testing.T) {
	s := Restore(storage.Snapshot{}, testDefaults)
	s, effects := s.Apply(OpenSettings{}, envAt(time.Now()))
	assert.Empty(t, effects)
	assert.Equal(t, ViewSettings, s.View)
	s, _ = s.Apply(CloseSettings{}, envAt(time.Now()))
	assert.Equal(t, ViewMain, s.View)

	s, _ = s.Apply(Start{Category: "a"}, envAt(time.Now()))
	s, effects = s.Apply(OpenSettings{}, envAt(time.Now()))
	_, ok := hasNotice(effects)
	assert.True(t, ok)
	assert.Equal(t, ViewTracking, s.View)
}

func TestAddItemValidation(t *testing.T) {
	s := Restore(storage.Snapshot{}, testDefaults)

	next, effects := s.Apply(AddItem{Kind: event.KindCategory, Value: "📞 電話"}, envAt(time.Now()))
	n, ok := hasNotice(effects)
	require.True(t, ok)
	var dup *listedit.DuplicateError
	assert.ErrorAs(t, n.Err, &dup)
	assert.Equal(t, s.Categories, next.Categories)

	_, effects = s.Apply(AddItem{Kind: event.KindTaskType, Value: "   "}, envAt(time.Now()))
	n, ok = hasNotice(effects)
	require.True(t, ok)
	assert.ErrorIs(t, n.Err, listedit.ErrEmpty)

	next, effects = s.Apply(AddItem{Kind: event.KindTaskType, Value: " レビュー "}, envAt(time.Now()))
	assert.Equal(t, "レビュー", next.TaskTypes[len(next.TaskTypes)-1])
	assert.Equal(t, next.TaskTypes, persisted(t, effects)[storage.KeyTaskTypes])
	assert.Equal(t, event.DefaultTaskTypes, s.TaskTypes, "previous state untouched")
}

func TestRemoveNeedsConfirmation(t *testing.T) {
	s := Restore(storage.Snapshot{}, testDefaults)

	same, effects := s.Apply(RequestRemove{Kind: event.KindCategory, Index: 1}, envAt(time.Now()))
	require.Len(t, effects, 1)
	confirm, ok := effects[0].(Confirm)
	require.True(t, ok)
	assert.Contains(t, confirm.Message, "🗣️ 相談")
	assert.Equal(t, s.Categories, same.Categories)

	next, effects := s.Apply(confirm.OnConfirm, envAt(time.Now()))
	assert.Equal(t, []string{"📞 電話", "📧 メール", "🔥 至急案件", "🤔 その他"}, next.Categories)
	assert.Equal(t, next.Categories, persisted(t, effects)[storage.KeyCategories])

	_, effects = s.Apply(RequestRemove{Kind: event.KindCategory, Index: 99}, envAt(time.Now()))
	_, ok = hasNotice(effects)
	assert.True(t, ok)
}

func TestListCommandsRejectUnknownKind(t *testing.T) {
	s := Restore(storage.Snapshot{}, testDefaults)
	env := envAt(time.Now())

	for _, cmd := range []Command{
		AddItem{Kind: "tags", Value: "new"},
		RequestRemove{Kind: "tags", Index: 0},
		RemoveItem{Kind: "", Index: 0},
	} {
		next, effects := s.Apply(cmd, env)
		n, ok := hasNotice(effects)
		require.True(t, ok, "%T", cmd)
		assert.ErrorIs(t, n.Err, ErrUnknownList)
		assert.Len(t, effects, 1, "nothing persisted for %T", cmd)
		assert.Equal(t, s, next)
	}

	next, effects := s.Apply(Drop{
		Source: listedit.Handle{Kind: "tags", Index: 0},
		Target: listedit.Handle{Kind: "tags", Index: 2},
	}, env)
	assert.Empty(t, effects)
	assert.Equal(t, s, next)
}

func TestDrop(t *testing.T) {
	s := State{Categories: []string{"A", "B", "C", "D"}, TaskTypes: []string{"x", "y"}}
	env := envAt(time.Now())

	next, effects := s.Apply(Drop{
		Source: listedit.Handle{Kind: event.KindCategory, Index: 0},
		Target: listedit.Handle{Kind: event.KindCategory, Index: 2},
	}, env)
	assert.Equal(t, []string{"B", "C", "A", "D"}, next.Categories)
	assert.Equal(t, next.Categories, persisted(t, effects)[storage.KeyCategories])

	// cross-list and self drops are ignored silently
	for _, d := range []Drop{
		{Source: listedit.Handle{Kind: event.KindCategory, Index: 0}, Target: listedit.Handle{Kind: event.KindTaskType, Index: 1}},
		{Source: listedit.Handle{Kind: event.KindTaskType, Index: 1}, Target: listedit.Handle{Kind: event.KindTaskType, Index: 1}},
		{Source: listedit.Handle{Kind: event.KindTaskType, Index: 7}, Target: listedit.Handle{Kind: event.KindTaskType, Index: 0}},
	} {
		same, effects := s.Apply(d, env)
		assert.Empty(t, effects)
		assert.Equal(t, s, same)
	}
}

func TestExport(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := State{}
	_, effects := s.Apply(Export{}, envAt(now))
	n, ok := hasNotice(effects)
	require.True(t, ok)
	assert.ErrorIs(t, n.Err, export.ErrNoLogs)

	s.Logs = []event.LogEntry{{Timestamp: now.UnixMilli(), Category: "c", Memo: `a"b`, Duration: 61}}
	_, effects = s.Apply(Export{}, envAt(now))
	require.Len(t, effects, 1)
	dl := effects[0].(Download)
	assert.Equal(t, "interruption_logs_20261018.csv", dl.Filename)
	assert.True(t, bytes.HasPrefix(dl.Data, export.BOM))
	assert.True(t, strings.Contains(string(dl.Data), `"a""b"`))
	assert.True(t, strings.Contains(string(dl.Data), `"1m1s"`))
}

func TestReloadedKeepsSettingsOpen(t *testing.T) {
	s := State{View: ViewSettings}
	next := s.Reloaded(storage.Snapshot{HasCategories: true, Categories: []string{"z"}}, testDefaults)
	assert.Equal(t, ViewSettings, next.View)
	assert.Equal(t, []string{"z"}, next.Categories)

	next = s.Reloaded(storage.Snapshot{Current: &event.CurrentInterruption{Category: "z"}}, testDefaults)
	assert.Equal(t, ViewTracking, next.View)

	tracking := State{View: ViewTracking}
	assert.Equal(t, ViewMain, tracking.Reloaded(storage.Snapshot{}, testDefaults).View)
}

func TestToday(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := State{Logs: []event.LogEntry{
		{Timestamp: now.Add(-24 * time.Hour).UnixMilli(), Category: "a"},
		{Timestamp: now.Add(-time.Hour).UnixMilli(), Category: "b", Duration: 60},
	}}
	sum := s.Today(now)
	assert.Equal(t, 1, sum.Count)
	assert.Equal(t, int64(60), sum.TotalSeconds)
}
